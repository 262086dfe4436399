//go:build unit

package queries_test

import (
	"testing"

	"questbook/internal/usecase/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	t.Run("empty yields no keys", func(t *testing.T) {
		keys, err := queries.ParseSort("")
		require.NoError(t, err)
		assert.Nil(t, keys)
	})

	t.Run("single field defaults ascending", func(t *testing.T) {
		keys, err := queries.ParseSort("date")
		require.NoError(t, err)
		assert.Equal(t, []queries.SortKey{{Field: "date"}}, keys)
	})

	t.Run("mixed directions and case", func(t *testing.T) {
		keys, err := queries.ParseSort("Status:desc, questTitle:asc ,totalPrice")
		require.NoError(t, err)
		assert.Equal(t, []queries.SortKey{
			{Field: "status", Desc: true},
			{Field: "questtitle"},
			{Field: "totalprice"},
		}, keys)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := queries.ParseSort("salary")
		assert.ErrorIs(t, err, queries.ErrBadSort)
	})

	t.Run("bad direction", func(t *testing.T) {
		_, err := queries.ParseSort("date:sideways")
		assert.ErrorIs(t, err, queries.ErrBadSort)
	})
}
