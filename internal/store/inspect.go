package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"synthdb/internal/convert"
	"synthdb/internal/schema"
)

// Inspect builds a schema definition from a live database: tables, columns,
// primary keys and foreign keys, with generators guessed from column names.
// The result validates like any hand-written definition, so it can feed a
// generation run directly.
//
// Composite primary keys collapse to their first column. Self-referencing
// foreign keys and keys that do not target the referenced table's primary
// key are skipped; if the remaining edges still form a cycle, all of them
// are dropped so the result stays loadable.
func (s *Store) Inspect(ctx context.Context, schemaName, defName string) (*schema.Definition, error) {
	target := s.d.DefaultSchema(schemaName)

	// Keys are uppercased so Oracle's folded identifiers still match.
	tableMap := make(map[string]*schema.Table)
	var tables []*schema.Table

	rows, err := s.db.QueryContext(ctx, s.d.TablesSQL(), target)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		t := &schema.Table{Name: name}
		tableMap[strings.ToUpper(name)] = t
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables found in schema %q", target)
	}

	colRows, err := s.db.QueryContext(ctx, s.d.ColumnsSQL(), target)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer colRows.Close()
	for colRows.Next() {
		var tName, cName, dType sql.NullString
		var length sql.NullInt64
		var nullable, pk int
		if err := colRows.Scan(&tName, &cName, &dType, &length, &nullable, &pk); err != nil {
			return nil, fmt.Errorf("scan column (table %s): %w", tName.String, err)
		}
		if !tName.Valid || !cName.Valid {
			continue
		}
		t, ok := tableMap[strings.ToUpper(tName.String)]
		if !ok {
			continue
		}
		f := &schema.Field{
			Name:     cName.String,
			Type:     s.d.FieldType(dType.String),
			Required: nullable == 0,
		}
		if f.Type == schema.TypeString && length.Int64 > 0 {
			f.Constraints.MaxLength = int(length.Int64)
		}
		t.Fields = append(t.Fields, f)
		if pk == 1 && t.PrimaryKey == "" {
			t.PrimaryKey = f.Name
		}
	}
	if err := colRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	// Views and permission gaps can leave a table without columns; those
	// are dropped. Tables without a declared key fall back to their first
	// column so validation holds.
	kept := tables[:0]
	for _, t := range tables {
		if len(t.Fields) == 0 {
			delete(tableMap, strings.ToUpper(t.Name))
			continue
		}
		if t.PrimaryKey == "" {
			t.PrimaryKey = t.Fields[0].Name
		}
		kept = append(kept, t)
	}
	tables = kept
	if len(tables) == 0 {
		return nil, fmt.Errorf("no usable tables found in schema %q", target)
	}

	fkRows, err := s.db.QueryContext(ctx, s.d.ForeignKeysSQL(), target)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys: %w", err)
	}
	defer fkRows.Close()
	seen := make(map[string]bool)
	for fkRows.Next() {
		var tName, cName, rTable, rCol sql.NullString
		if err := fkRows.Scan(&tName, &cName, &rTable, &rCol); err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		if !tName.Valid || !cName.Valid || !rTable.Valid {
			continue
		}
		if strings.EqualFold(tName.String, rTable.String) {
			continue
		}
		t, ok := tableMap[strings.ToUpper(tName.String)]
		if !ok {
			continue
		}
		ref, ok := tableMap[strings.ToUpper(rTable.String)]
		if !ok || rCol.String != ref.PrimaryKey {
			continue
		}
		key := t.Name + "\x00" + cName.String
		if seen[key] {
			continue
		}
		seen[key] = true
		t.ForeignKeys = append(t.ForeignKeys, &schema.ForeignKey{
			Field:    cName.String,
			RefTable: ref.Name,
			RefField: rCol.String,
		})
	}
	if err := fkRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign keys: %w", err)
	}

	probe := &schema.Definition{Tables: tables}
	if _, err := probe.TopologicalOrder(); err != nil {
		for _, t := range tables {
			t.ForeignKeys = nil
		}
	}

	for _, t := range tables {
		fks := make(map[string]bool, len(t.ForeignKeys))
		for _, fk := range t.ForeignKeys {
			fks[fk.Field] = true
		}
		for _, f := range t.Fields {
			if fks[f.Name] {
				continue
			}
			if g := convert.GuessGenerator(f); g != "" {
				f.Generator = g
			}
		}
	}

	if defName == "" {
		defName = "database_schema"
	}
	def := &schema.Definition{
		Name:         defName,
		Version:      "1.0",
		Locale:       "en_US",
		TargetSystem: s.d.Name(),
		Tables:       tables,
		Settings:     schema.Settings{DefaultRecords: 1000, Locale: "en_US"},
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}
