// Package legacy reads the delimited exports produced by the previous booking
// system. The delimiter (comma, semicolon or tab) is sniffed from the header
// line; fields may be quoted with doubled-quote escaping.
package legacy

import (
	"encoding/csv"
	"strings"

	"questbook/internal/pkg/errs"
)

var ErrEmptyFile = errs.New("file has no header line")

// Row is one data line keyed by lower-cased header name. Number is the
// 1-based line position within the file, counting the header.
type Row struct {
	Number int
	Fields map[string]string
}

// Get returns the trimmed value of a column, "" when the column is absent.
func (r Row) Get(name string) string {
	return strings.TrimSpace(r.Fields[name])
}

// IsBlank reports whether every field of the row is empty.
func (r Row) IsBlank() bool {
	for _, v := range r.Fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Parse splits raw export text into rows. Short records are tolerated (missing
// trailing columns read as empty); a record that cannot be parsed at all is
// returned as a blank row so the importer can report it by line number.
func Parse(raw string) ([]Row, error) {
	raw = strings.TrimPrefix(raw, "\uFEFF")
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	headerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrEmptyFile
	}

	delim := sniffDelimiter(lines[headerIdx])
	header, err := parseLine(lines[headerIdx], delim)
	if err != nil {
		return nil, errs.Wrap(err, "malformed header line")
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(lines)-headerIdx-1)
	for i := headerIdx + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		fields := map[string]string{}
		record, err := parseLine(lines[i], delim)
		if err == nil {
			for j, name := range header {
				if j < len(record) {
					fields[name] = record[j]
				}
			}
		}
		rows = append(rows, Row{Number: i + 1, Fields: fields})
	}
	return rows, nil
}

// sniffDelimiter picks the candidate that splits the header into the most
// columns. Quoted sections are respected via a trial parse.
func sniffDelimiter(header string) rune {
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		record, err := parseLine(header, d)
		if err != nil {
			continue
		}
		if len(record) > bestCount {
			best, bestCount = d, len(record)
		}
	}
	return best
}

func parseLine(line string, delim rune) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delim
	r.FieldsPerRecord = -1
	return r.Read()
}
