//go:build unit

package legacy_test

import (
	"testing"

	"questbook/internal/pkg/legacy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("comma delimited", func(t *testing.T) {
		raw := "ID,Name,Phone\n1,Ivan,79135550102\n2,Olga,79995550103\n"
		rows, err := legacy.Parse(raw)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, 2, rows[0].Number)
		assert.Equal(t, "1", rows[0].Get("id"))
		assert.Equal(t, "Ivan", rows[0].Get("name"))
		assert.Equal(t, "Olga", rows[1].Get("name"))
	})

	t.Run("byte order mark stripped", func(t *testing.T) {
		raw := "\uFEFFID,Name\n1,Ivan\n"
		rows, err := legacy.Parse(raw)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "1", rows[0].Get("id"))
	})

	t.Run("semicolon delimited", func(t *testing.T) {
		raw := "ID;Name;Comment\n5;Ivan;ждет звонка\n"
		rows, err := legacy.Parse(raw)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		assert.Equal(t, "ждет звонка", rows[0].Get("comment"))
	})

	t.Run("tab delimited", func(t *testing.T) {
		raw := "ID\tName\n7\tIvan\n"
		rows, err := legacy.Parse(raw)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		assert.Equal(t, "7", rows[0].Get("id"))
	})

	t.Run("quoted field with embedded delimiter", func(t *testing.T) {
		raw := "ID,Name,Comment\n1,Ivan,\"waits, call later\"\n"
		rows, err := legacy.Parse(raw)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		assert.Equal(t, "waits, call later", rows[0].Get("comment"))
	})

	t.Run("short record reads missing columns as empty", func(t *testing.T) {
		raw := "ID,Name,Phone\n1,Ivan\n"
		rows, err := legacy.Parse(raw)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		assert.Equal(t, "Ivan", rows[0].Get("name"))
		assert.Equal(t, "", rows[0].Get("phone"))
	})

	t.Run("blank lines are skipped but numbering is preserved", func(t *testing.T) {
		raw := "ID,Name\n\n1,Ivan\n"
		rows, err := legacy.Parse(raw)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		assert.Equal(t, 3, rows[0].Number)
	})

	t.Run("unknown column reads as empty", func(t *testing.T) {
		raw := "ID,Name\n1,Ivan\n"
		rows, err := legacy.Parse(raw)
		require.NoError(t, err)

		assert.Equal(t, "", rows[0].Get("email"))
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := legacy.Parse("   \n  \n")
		assert.ErrorIs(t, err, legacy.ErrEmptyFile)
	})
}

func TestRowIsBlank(t *testing.T) {
	blank := legacy.Row{Fields: map[string]string{"id": "  ", "name": ""}}
	assert.True(t, blank.IsBlank())

	filled := legacy.Row{Fields: map[string]string{"id": "1"}}
	assert.False(t, filled.IsBlank())
}
