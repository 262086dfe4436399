package contact

import (
	"regexp"
	"sort"
)

var (
	// Phone-shaped runs: 7+ digits, optionally punctuated with spaces, dashes
	// and parentheses, optional leading "+" or "00".
	phoneCandidateRe = regexp.MustCompile(`(?:\+|00)?[\d][\d\s\-().]{5,}\d`)
	emailCandidateRe = regexp.MustCompile(`(?i)[A-Za-z0-9._%+\-]+\s*(?:@|\(at\)|\[at\]|собака)\s*[A-Za-z0-9.\-]+\s*(?:\.|\(dot\)|\[dot\]|точка)\s*[A-Za-z]{2,}`)
)

// ExtractPhones scans free text for phone-shaped substrings and returns the
// normalized set. Hits that fail normalization are dropped silently.
func ExtractPhones(text string) []string {
	return dedupe(phoneCandidateRe.FindAllString(text, -1), NormalizePhone)
}

// ExtractEmails scans free text for address-shaped substrings, including the
// obfuscated forms NormalizeEmail understands.
func ExtractEmails(text string) []string {
	return dedupe(emailCandidateRe.FindAllString(text, -1), NormalizeEmail)
}

func dedupe(hits []string, normalize func(string) string) []string {
	seen := make(map[string]struct{}, len(hits))
	for _, hit := range hits {
		if v := normalize(hit); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
