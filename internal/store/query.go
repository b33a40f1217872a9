package store

import (
	"fmt"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByTitle   = "title"
	orderByCreated = "created_at"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByTitle:   "title ASC",
	orderByCreated: "created_at DESC",
}

const defaultOrderBy = "title ASC"

const baseGamesSelect = `SELECT
	id, title, itad_id, slug, game_type, boxart_url, banner_url,
	release_date, tags, review_score, early_access,
	history_low, history_low_store, price_threshold,
	added_by, created_at, updated_at
FROM games`

const countGamesSelect = "SELECT COUNT(*) FROM games"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a game
// listing query. It returns two SQL strings (one for the data query, one for
// the count query) and the positional parameters.
func (q *GameQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var whereClause string
	if q.Search != "" {
		whereClause = " WHERE title ILIKE $1"
		args = append(args, "%"+q.Search+"%")
	}

	orderClause := defaultOrderBy
	if q.OrderBy != "" {
		if col, ok := validOrderBy[q.OrderBy]; ok {
			orderClause = col
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseGamesSelect, whereClause, orderClause, limit, offset,
	)
	countSQL = countGamesSelect + whereClause

	return dataSQL, countSQL, args
}
