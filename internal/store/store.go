package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"synthdb/internal/dialect"
	"synthdb/internal/engine"
	"synthdb/internal/schema"
)

// maxBindParams stays under the smallest placeholder budget among the
// supported engines (SQLite's default variable limit).
const maxBindParams = 999

// Store writes generated datasets into a relational database.
type Store struct {
	db *sql.DB
	d  dialect.Dialect
}

// Open connects with the named driver and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d := dialect.ForDriver(driver)
	db, err := sql.Open(d.Driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name(), err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name(), err)
	}
	return &Store{db: db, d: d}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Dialect returns the active dialect.
func (s *Store) Dialect() dialect.Dialect { return s.d }

// DetectDriver guesses the driver from a DSN. URL schemes win; a MySQL
// "user@tcp(host)/db" form is recognized; anything else is treated as a
// SQLite file path.
func DetectDriver(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
		switch u.Scheme {
		case "postgres", "postgresql":
			return "postgres"
		case "mysql":
			return "mysql"
		case "sqlserver", "mssql":
			return "sqlserver"
		case "oracle":
			return "oracle"
		case "sqlite", "file":
			return "sqlite3"
		}
	}
	if strings.Contains(dsn, "@tcp(") {
		return "mysql"
	}
	if strings.Contains(dsn, "host=") || strings.Contains(dsn, "dbname=") {
		return "postgres"
	}
	return "sqlite3"
}

// Init creates every table in dependency order. With clean set, existing
// tables are dropped first in reverse order.
func (s *Store) Init(ctx context.Context, def *schema.Definition, clean bool) error {
	order, err := def.TopologicalOrder()
	if err != nil {
		return err
	}
	if clean {
		for i := len(order) - 1; i >= 0; i-- {
			if _, err := s.db.ExecContext(ctx, s.d.DropTableSQL(order[i].Name)); err != nil {
				return fmt.Errorf("drop %s: %w", order[i].Name, err)
			}
		}
	}
	for _, t := range order {
		if _, err := s.db.ExecContext(ctx, s.d.CreateTableSQL(t)); err != nil {
			return fmt.Errorf("create %s: %w", t.Name, err)
		}
	}
	return nil
}

// Load inserts every generated table, parents first, one transaction per
// table. batchSize bounds the rows per INSERT; the chunk is clamped so the
// bind parameter count stays under the engine limit.
func (s *Store) Load(ctx context.Context, def *schema.Definition, data engine.Dataset, batchSize int, onTable func(table string, rows int)) error {
	order, err := def.TopologicalOrder()
	if err != nil {
		return err
	}
	for _, t := range order {
		td := data[t.Name]
		if td == nil || len(td.Rows) == 0 {
			if onTable != nil {
				onTable(t.Name, 0)
			}
			continue
		}
		if err := s.loadTable(ctx, t, td, batchSize); err != nil {
			return fmt.Errorf("load %s: %w", t.Name, err)
		}
		if onTable != nil {
			onTable(t.Name, len(td.Rows))
		}
	}
	return nil
}

func (s *Store) loadTable(ctx context.Context, t *schema.Table, td *engine.TableData, batchSize int) error {
	cols := t.FieldNames()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = s.d.Quote(c)
	}
	chunk := maxBindParams / len(cols)
	if chunk < 1 || !s.d.MultiRowInsert() {
		chunk = 1
	}
	if batchSize > 0 && batchSize < chunk {
		chunk = batchSize
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.d.BeforeLoad(tx); err != nil {
		return err
	}
	for start := 0; start < len(td.Rows); start += chunk {
		end := start + chunk
		if end > len(td.Rows) {
			end = len(td.Rows)
		}
		ins := sq.Insert(s.d.Quote(t.Name)).
			Columns(quoted...).
			PlaceholderFormat(s.d.Placeholder())
		for _, row := range td.Rows[start:end] {
			vals := make([]any, len(cols))
			for i, c := range cols {
				vals[i] = s.d.BindValue(t.Field(c), row[c])
			}
			ins = ins.Values(vals...)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := s.d.AfterLoad(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Truncate clears every table in reverse dependency order.
func (s *Store) Truncate(ctx context.Context, def *schema.Definition) error {
	order, err := def.TopologicalOrder()
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.d.BeforeLoad(tx); err != nil {
		return err
	}
	for i := len(order) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, s.d.TruncateSQL(order[i].Name)); err != nil {
			return fmt.Errorf("truncate %s: %w", order[i].Name, err)
		}
	}
	if err := s.d.AfterLoad(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// TableCount is one COUNT(*) result.
type TableCount struct {
	Table string
	Rows  int64
}

// Verify counts the rows of every table in declaration order.
func (s *Store) Verify(ctx context.Context, def *schema.Definition) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(def.Tables))
	for _, t := range def.Tables {
		query, args, err := sq.Select("COUNT(*)").
			From(s.d.Quote(t.Name)).
			PlaceholderFormat(s.d.Placeholder()).
			ToSql()
		if err != nil {
			return nil, err
		}
		var n int64
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", t.Name, err)
		}
		counts = append(counts, TableCount{Table: t.Name, Rows: n})
	}
	return counts, nil
}
