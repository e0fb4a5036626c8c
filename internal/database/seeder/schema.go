package seeder

import (
	"context"
	"fmt"
	"strings"

	"careerxr/internal/database"
)

// requireColumns fails when the migrations that create table have not run.
func requireColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	rows, err := db.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	have := make(map[string]bool)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		have[c] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, c := range columns {
		if !have[c] {
			missing = append(missing, table+"."+c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema mismatch: missing column %s", strings.Join(missing, ", "))
	}
	return nil
}
