package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"synthdb/internal/convert"
	"synthdb/internal/dialect"
	"synthdb/internal/engine"
	"synthdb/internal/schema"
)

// Options control how a dataset is written out.
type Options struct {
	// EnglishHeaders translates Hebrew column names in CSV headers.
	EnglishHeaders bool
	// Dialect selects the SQL flavor for sql exports, sqlite by default.
	Dialect string
}

// Result lists the files written for one format.
type Result struct {
	Format string
	Files  []string
}

// Export writes the dataset under dir, one subdirectory per format, with
// tables in definition order. Supported formats are csv, json and sql.
func Export(dir string, formats []string, def *schema.Definition, data engine.Dataset, opts Options) ([]Result, error) {
	var results []Result
	for _, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		sub := filepath.Join(dir, format)
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, fmt.Errorf("create export directory: %w", err)
		}
		var (
			files []string
			err   error
		)
		switch format {
		case "csv":
			files, err = exportCSV(sub, def, data, opts.EnglishHeaders)
		case "json":
			files, err = exportJSON(sub, def, data)
		case "sql":
			files, err = exportSQL(sub, def, data, opts.Dialect)
		default:
			err = fmt.Errorf("unsupported format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		results = append(results, Result{Format: format, Files: files})
	}
	return results, nil
}

func exportCSV(dir string, def *schema.Definition, data engine.Dataset, english bool) ([]string, error) {
	var files []string
	for _, t := range def.Tables {
		td := data[t.Name]
		if td == nil {
			continue
		}
		path := filepath.Join(dir, t.Name+".csv")
		if err := writeTableCSV(path, t, td, english); err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
		files = append(files, path)
	}
	return files, nil
}

func writeTableCSV(path string, t *schema.Table, td *engine.TableData, english bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// The BOM keeps Hebrew readable when the file lands in Excel.
	if _, err := f.Write([]byte{0xef, 0xbb, 0xbf}); err != nil {
		return err
	}
	w := csv.NewWriter(f)
	headers := make([]string, len(t.Fields))
	for i, fld := range t.Fields {
		if english {
			headers[i] = convert.EnglishFieldName(fld.Name)
		} else {
			headers[i] = fld.Name
		}
	}
	if err := w.Write(headers); err != nil {
		return err
	}
	record := make([]string, len(t.Fields))
	for _, row := range td.Rows {
		for i, fld := range t.Fields {
			record[i] = cellString(fld, row[fld.Name])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportJSON(dir string, def *schema.Definition, data engine.Dataset) ([]string, error) {
	var files []string
	combined := schema.NewObj()
	for _, t := range def.Tables {
		td := data[t.Name]
		if td == nil {
			continue
		}
		records := tableRecords(t, td)
		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
		path := filepath.Join(dir, t.Name+".json")
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
		files = append(files, path)
		combined.Set(t.Name, records)
	}

	out, err := schema.EncodeIndent(combined)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "combined_data.json")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return nil, err
	}
	return append(files, path), nil
}

func tableRecords(t *schema.Table, td *engine.TableData) []any {
	records := make([]any, len(td.Rows))
	for i, row := range td.Rows {
		rec := schema.NewObj()
		for _, fld := range t.Fields {
			rec.Set(fld.Name, jsonValue(fld, row[fld.Name]))
		}
		records[i] = rec
	}
	return records
}

func exportSQL(dir string, def *schema.Definition, data engine.Dataset, flavor string) ([]string, error) {
	d := dialect.ForDriver(flavor)
	var files []string
	for _, t := range def.Tables {
		td := data[t.Name]
		if td == nil {
			continue
		}
		path := filepath.Join(dir, t.Name+".sql")
		if err := writeTableSQL(path, d, t, td); err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
		files = append(files, path)
	}
	return files, nil
}

func writeTableSQL(path string, d dialect.Dialect, t *schema.Table, td *engine.TableData) error {
	cols := make([]string, len(t.Fields))
	for i, fld := range t.Fields {
		cols[i] = d.Quote(fld.Name)
	}
	head := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", d.Quote(t.Name), strings.Join(cols, ", "))

	var b strings.Builder
	b.WriteString(d.CreateTableSQL(t))
	b.WriteString(";\n\n")
	vals := make([]string, len(t.Fields))
	for _, row := range td.Rows {
		for i, fld := range t.Fields {
			vals[i] = sqlLiteral(d.BindValue(fld, row[fld.Name]))
		}
		b.WriteString(head)
		b.WriteString("(")
		b.WriteString(strings.Join(vals, ", "))
		b.WriteString(");\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// cellString renders a value for CSV, using the same date layouts the
// database loader binds.
func cellString(fld *schema.Field, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if fld.Type == schema.TypeDate {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func jsonValue(fld *schema.Field, v any) any {
	if ts, ok := v.(time.Time); ok {
		if fld.Type == schema.TypeDate {
			return ts.Format("2006-01-02")
		}
		return ts.Format("2006-01-02 15:04:05")
	}
	return v
}

// sqlLiteral quotes a bound value for an INSERT statement.
func sqlLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return "'" + strings.ReplaceAll(fmt.Sprint(v), "'", "''") + "'"
}
