// internal/aliases/store.go
package aliases

import (
	"context"
	"database/sql"
	"fmt"
)

// LoadFromDB reads additional alias rows from the city_aliases reference table
// and merges them over the embedded defaults. Called once at startup when
// Postgres is configured; the extractor itself never touches the database.
func LoadFromDB(ctx context.Context, db *sql.DB, table *Table) (int, error) {
	rows, err := db.QueryContext(ctx, `SELECT surface, canonical FROM city_aliases`)
	if err != nil {
		return 0, fmt.Errorf("query city_aliases: %w", err)
	}
	defer rows.Close()

	loaded := make(map[string]string)
	for rows.Next() {
		var surface, canonical string
		if err := rows.Scan(&surface, &canonical); err != nil {
			return 0, fmt.Errorf("scan city_aliases row: %w", err)
		}
		if surface == "" || canonical == "" {
			continue
		}
		loaded[surface] = canonical
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate city_aliases: %w", err)
	}

	table.Merge(loaded)
	return len(loaded), nil
}
