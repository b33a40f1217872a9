package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameQuery_ToSQL(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		q := &GameQuery{}
		dataSQL, countSQL, args := q.ToSQL()

		assert.Contains(t, dataSQL, "ORDER BY title ASC")
		assert.Contains(t, dataSQL, "LIMIT 50 OFFSET 0")
		assert.NotContains(t, dataSQL, "WHERE")
		assert.Equal(t, "SELECT COUNT(*) FROM games", countSQL)
		assert.Empty(t, args)
	})

	t.Run("search filter", func(t *testing.T) {
		t.Parallel()
		q := &GameQuery{Search: "hollow"}
		dataSQL, countSQL, args := q.ToSQL()

		assert.Contains(t, dataSQL, "title ILIKE $1")
		assert.Contains(t, countSQL, "title ILIKE $1")
		assert.Equal(t, []any{"%hollow%"}, args)
	})

	t.Run("order by created_at", func(t *testing.T) {
		t.Parallel()
		q := &GameQuery{OrderBy: "created_at"}
		dataSQL, _, _ := q.ToSQL()
		assert.Contains(t, dataSQL, "ORDER BY created_at DESC")
	})

	t.Run("invalid order falls back", func(t *testing.T) {
		t.Parallel()
		q := &GameQuery{OrderBy: "drop table"}
		dataSQL, _, _ := q.ToSQL()
		assert.Contains(t, dataSQL, "ORDER BY title ASC")
	})

	t.Run("limit clamped", func(t *testing.T) {
		t.Parallel()
		q := &GameQuery{Limit: 10000, Offset: 20}
		dataSQL, _, _ := q.ToSQL()
		assert.Contains(t, dataSQL, "LIMIT 500 OFFSET 20")
	})
}
