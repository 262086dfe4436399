// Package blacklist holds blocked-contact records and the matching logic the
// booking gate runs before accepting a customer.
package blacklist

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"questbook/internal/pkg/contact"
	"questbook/internal/pkg/errs"
)

var (
	ErrEmptyName  = errs.New("blacklist entry requires a name")
	ErrNoContacts = errs.New("blacklist entry requires at least one contact")
)

// Entry stores normalized contact sets, order-insensitive and deduplicated.
type Entry struct {
	ID      uuid.UUID
	Name    string
	Phones  []string
	Emails  []string
	Comment string
}

// NewEntry normalizes raw contact lists and validates the invariants: a
// non-empty name and at least one surviving contact.
func NewEntry(id uuid.UUID, name string, rawPhones, rawEmails []string, comment string) (*Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	e := &Entry{
		ID:      id,
		Name:    name,
		Phones:  normalizeSet(rawPhones, contact.NormalizePhone),
		Emails:  normalizeSet(rawEmails, contact.NormalizeEmail),
		Comment: strings.TrimSpace(comment),
	}
	if len(e.Phones) == 0 && len(e.Emails) == 0 {
		return nil, ErrNoContacts
	}
	return e, nil
}

// Match is the overlap between one entry and a set of candidate contacts.
type Match struct {
	EntryID       uuid.UUID
	Name          string
	Comment       string
	MatchedPhones []string
	MatchedEmails []string
}

// MatchAgainst intersects the entry's contact sets with normalized candidates.
// Returns nil when nothing overlaps.
func (e *Entry) MatchAgainst(phones, emails []string) *Match {
	mp := intersect(e.Phones, phones)
	me := intersect(e.Emails, emails)
	if len(mp) == 0 && len(me) == 0 {
		return nil
	}
	return &Match{
		EntryID:       e.ID,
		Name:          e.Name,
		Comment:       e.Comment,
		MatchedPhones: mp,
		MatchedEmails: me,
	}
}

func normalizeSet(raw []string, normalize func(string) string) []string {
	seen := map[string]struct{}{}
	for _, r := range raw {
		if v := normalize(r); v != "" {
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

func intersect(stored, candidates []string) []string {
	if len(stored) == 0 || len(candidates) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		set[c] = struct{}{}
	}
	var out []string
	for _, s := range stored {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
