package engine

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"synthdb/internal/schema"
)

// uniqueRetryLimit caps how many times a primary key is redrawn before the
// value space is declared exhausted.
const uniqueRetryLimit = 50

// Row is one generated record keyed by field name.
type Row map[string]any

// TableData accumulates the rows of one table plus the primary key pool
// that child tables sample from.
type TableData struct {
	Table string
	Rows  []Row

	pkList []any
	pkSeen map[any]bool
	frozen bool
}

// PKValues returns the primary key pool in generation order.
func (td *TableData) PKValues() []any { return td.pkList }

func (td *TableData) append(pk any, row Row) {
	td.Rows = append(td.Rows, row)
	td.pkSeen[pk] = true
	td.pkList = append(td.pkList, pk)
}

// freeze marks the table complete. Children only ever sample frozen pools.
func (td *TableData) freeze() { td.frozen = true }

// Dataset holds every generated table keyed by name.
type Dataset map[string]*TableData

// EmptyParentError reports a child table generated against a parent that
// produced no rows.
type EmptyParentError struct {
	Table  string
	Field  string
	Parent string
}

func (e *EmptyParentError) Error() string {
	return fmt.Sprintf("empty parent set: %s.%s references %s, which has no rows", e.Table, e.Field, e.Parent)
}

// UniquenessError reports a primary key whose value space ran out before
// the requested row count was reached.
type UniquenessError struct {
	Table    string
	Field    string
	Attempts int
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("primary key exhausted: %s.%s produced no new value after %d attempts", e.Table, e.Field, e.Attempts)
}

// run carries the state of one generation pass.
type run struct {
	reg   *Registry
	faker *gofakeit.Faker
	data  Dataset
}

// fieldPlan is a field resolved for generation: either a foreign key
// sampled from a parent pool or a bound generator.
type fieldPlan struct {
	field *schema.Field
	fk    *schema.ForeignKey
	gen   Bound
	isPK  bool
}

func (r *run) planTable(t *schema.Table) ([]fieldPlan, error) {
	plans := make([]fieldPlan, 0, len(t.Fields))
	for _, fld := range t.Fields {
		p := fieldPlan{field: fld, isPK: fld.Name == t.PrimaryKey}
		if fk := t.ForeignKey(fld.Name); fk != nil {
			p.fk = fk
		} else {
			gen, err := r.reg.Bind(t.Name, fld)
			if err != nil {
				return nil, err
			}
			p.gen = gen
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// generateTable produces count rows for t, invoking onRow after each row.
// The table is registered in the dataset even when count is zero so that
// downstream consumers see every table.
func (r *run) generateTable(t *schema.Table, count int, onRow func()) (*TableData, error) {
	td := &TableData{Table: t.Name, pkSeen: make(map[any]bool)}
	r.data[t.Name] = td
	if count <= 0 {
		td.freeze()
		return td, nil
	}
	plans, err := r.planTable(t)
	if err != nil {
		return nil, err
	}
	// An empty parent fails the whole table up front rather than on the
	// first row.
	for _, p := range plans {
		if p.fk == nil {
			continue
		}
		parent := r.data[p.fk.RefTable]
		if parent == nil || len(parent.pkList) == 0 {
			return nil, &EmptyParentError{Table: t.Name, Field: p.field.Name, Parent: p.fk.RefTable}
		}
	}
	for i := 0; i < count; i++ {
		if err := r.generateRow(t, td, plans); err != nil {
			return nil, err
		}
		if onRow != nil {
			onRow()
		}
	}
	td.freeze()
	return td, nil
}

func (r *run) generateRow(t *schema.Table, td *TableData, plans []fieldPlan) error {
	row := make(Row, len(plans))
	var pk any
	for _, p := range plans {
		var v any
		var err error
		switch {
		case p.fk != nil:
			v, err = r.sampleParent(t, td, p)
		case p.isPK:
			v, err = r.uniqueValue(t, td, p)
		default:
			v, err = p.gen(r.faker)
		}
		if err != nil {
			return err
		}
		row[p.field.Name] = v
		if p.isPK {
			pk = v
		}
	}
	td.append(pk, row)
	return nil
}

// sampleParent draws a value from the referenced table's primary key pool.
// Repeats are expected; that is how fan-out happens. A foreign key that
// doubles as the primary key must draw values the table has not used yet.
func (r *run) sampleParent(t *schema.Table, td *TableData, p fieldPlan) (any, error) {
	pool := r.data[p.fk.RefTable].pkList
	if !p.isPK {
		return pool[r.faker.Number(0, len(pool)-1)], nil
	}
	for i := 0; i < uniqueRetryLimit; i++ {
		v := pool[r.faker.Number(0, len(pool)-1)]
		if !td.pkSeen[v] {
			return v, nil
		}
	}
	return nil, &UniquenessError{Table: t.Name, Field: p.field.Name, Attempts: uniqueRetryLimit}
}

// uniqueValue redraws the primary key generator until it yields a value
// the table has not seen.
func (r *run) uniqueValue(t *schema.Table, td *TableData, p fieldPlan) (any, error) {
	for i := 0; i < uniqueRetryLimit; i++ {
		v, err := p.gen(r.faker)
		if err != nil {
			return nil, err
		}
		if !td.pkSeen[v] {
			return v, nil
		}
	}
	return nil, &UniquenessError{Table: t.Name, Field: p.field.Name, Attempts: uniqueRetryLimit}
}
