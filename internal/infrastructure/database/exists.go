package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// allowedLookups guards the table/column pairs the validation layer may
// probe. Identifiers are interpolated into SQL, so anything outside this
// map is rejected outright.
var allowedLookups = map[string]string{
	"artists": "id",
	"albums":  "id",
	"images":  "id",
	"users":   "id",
}

// ExistsChecker answers the validation layer's exists:table,column rule
// against the live database. Referential integrity is enforced at the
// application layer before any write, so lookups never go through a cache.
type ExistsChecker struct {
	pool *pgxpool.Pool
}

func NewExistsChecker(pool *pgxpool.Pool) *ExistsChecker {
	return &ExistsChecker{pool: pool}
}

func (c *ExistsChecker) Exists(ctx context.Context, table, column string, value interface{}) (bool, error) {
	allowed, ok := allowedLookups[table]
	if !ok || allowed != column {
		return false, fmt.Errorf("existence lookup not allowed for %s.%s", table, column)
	}

	// Every allow-listed column is a bigint id; a value that does not
	// parse cannot reference a row.
	id, err := strconv.ParseInt(strings.TrimSpace(fmt.Sprintf("%v", value)), 10, 64)
	if err != nil {
		return false, nil
	}

	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", table, column)

	var exists bool
	if err := c.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("existence lookup on %s.%s: %w", table, column, err)
	}

	return exists, nil
}
