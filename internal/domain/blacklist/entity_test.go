//go:build unit

package blacklist_test

import (
	"testing"

	"questbook/internal/domain/blacklist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Run("normalizes and deduplicates contacts", func(t *testing.T) {
		e, err := blacklist.NewEntry(uuid.New(), "  Ivan Petrov  ",
			[]string{"8 (913) 555-01-02", "+7 913 555-01-02", "garbage"},
			[]string{"Ivan@Example.com", "ivan (at) example (dot) com"},
			" rude to staff ")
		require.NoError(t, err)

		assert.Equal(t, "Ivan Petrov", e.Name)
		assert.Equal(t, []string{"79135550102"}, e.Phones)
		assert.Equal(t, []string{"ivan@example.com"}, e.Emails)
		assert.Equal(t, "rude to staff", e.Comment)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := blacklist.NewEntry(uuid.New(), "  ", []string{"79135550102"}, nil, "")
		assert.ErrorIs(t, err, blacklist.ErrEmptyName)
	})

	t.Run("rejects entry with no surviving contacts", func(t *testing.T) {
		_, err := blacklist.NewEntry(uuid.New(), "Ivan", []string{"123"}, []string{"not-an-email"}, "")
		assert.ErrorIs(t, err, blacklist.ErrNoContacts)
	})
}

func TestMatchAgainst(t *testing.T) {
	e, err := blacklist.NewEntry(uuid.New(), "Ivan",
		[]string{"79135550102"}, []string{"ivan@example.com"}, "")
	require.NoError(t, err)

	t.Run("phone overlap", func(t *testing.T) {
		m := e.MatchAgainst([]string{"79135550102"}, nil)
		require.NotNil(t, m)
		assert.Equal(t, []string{"79135550102"}, m.MatchedPhones)
		assert.Empty(t, m.MatchedEmails)
	})

	t.Run("email overlap", func(t *testing.T) {
		m := e.MatchAgainst(nil, []string{"ivan@example.com"})
		require.NotNil(t, m)
		assert.Equal(t, []string{"ivan@example.com"}, m.MatchedEmails)
	})

	t.Run("no overlap", func(t *testing.T) {
		assert.Nil(t, e.MatchAgainst([]string{"79990000000"}, []string{"other@example.com"}))
	})
}
