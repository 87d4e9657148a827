package engine

import (
	"context"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"synthdb/internal/schema"
)

// Options tunes one generation run.
type Options struct {
	// Records is the default row count per table. Zero falls back to the
	// definition's generation settings.
	Records int
	// Counts overrides the row count for specific tables. An explicit
	// zero skips the table.
	Counts map[string]int
	// Seed fixes the random source. Zero falls back to the definition's
	// seed, then to the clock.
	Seed int64
	// OnProgress, when set, is called after every generated row.
	OnProgress func(table string, done, total int)
}

// TableReport summarizes one generated table.
type TableReport struct {
	Table     string
	Requested int
	Generated int
	Elapsed   time.Duration
}

// Report summarizes a completed run.
type Report struct {
	Tables  []TableReport
	Records int
	Elapsed time.Duration
	Seed    int64
}

// Run generates every table of def in dependency order. A parent is always
// complete before its children start, so foreign keys can only draw values
// that exist. Cancellation is honored between tables; a started table runs
// to completion.
func Run(ctx context.Context, def *schema.Definition, reg *Registry, opts Options) (Dataset, *Report, error) {
	order, err := def.TopologicalOrder()
	if err != nil {
		return nil, nil, err
	}
	seed := opts.Seed
	if seed == 0 {
		seed = def.Settings.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := &run{
		reg:   reg,
		faker: gofakeit.New(seed),
		data:  make(Dataset, len(order)),
	}
	report := &Report{Seed: seed}
	start := time.Now()
	for _, t := range order {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		count := tableCount(def, opts, t.Name)
		var onRow func()
		if opts.OnProgress != nil {
			name, done := t.Name, 0
			onRow = func() {
				done++
				opts.OnProgress(name, done, count)
			}
		}
		tStart := time.Now()
		td, err := r.generateTable(t, count, onRow)
		if err != nil {
			return nil, nil, err
		}
		report.Tables = append(report.Tables, TableReport{
			Table:     t.Name,
			Requested: count,
			Generated: len(td.Rows),
			Elapsed:   time.Since(tStart),
		})
		report.Records += len(td.Rows)
	}
	report.Elapsed = time.Since(start)
	return r.data, report, nil
}

// tableCount resolves the row count for one table: the explicit override
// first, then the run default, then the definition's settings.
func tableCount(def *schema.Definition, opts Options, table string) int {
	if n, ok := opts.Counts[table]; ok {
		return n
	}
	if opts.Records > 0 {
		return opts.Records
	}
	return def.Settings.DefaultRecords
}
