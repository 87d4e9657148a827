package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"synthdb/internal/engine"
	"synthdb/internal/schema"
)

// CopyLoad streams a dataset into PostgreSQL over the COPY protocol, which
// is much faster than multi-row INSERTs for large runs. Tables load in
// dependency order; values go over the wire in pgx's native encoding, so
// times stay time.Time here.
func CopyLoad(ctx context.Context, dsn string, def *schema.Definition, data engine.Dataset, onTable func(table string, rows int)) error {
	order, err := def.TopologicalOrder()
	if err != nil {
		return err
	}
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	for _, t := range order {
		td := data[t.Name]
		if td == nil || len(td.Rows) == 0 {
			if onTable != nil {
				onTable(t.Name, 0)
			}
			continue
		}
		cols := t.FieldNames()
		rows := make([][]any, len(td.Rows))
		for i, row := range td.Rows {
			vals := make([]any, len(cols))
			for j, c := range cols {
				vals[j] = row[c]
			}
			rows[i] = vals
		}
		n, err := conn.CopyFrom(ctx, pgx.Identifier{t.Name}, cols, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("copy %s: %w", t.Name, err)
		}
		if onTable != nil {
			onTable(t.Name, int(n))
		}
	}
	return nil
}
