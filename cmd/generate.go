package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"synthdb/internal/engine"
	"synthdb/internal/export"
	"synthdb/internal/logging"
	"synthdb/internal/schema"
	"synthdb/internal/store"
)

var (
	defFile        string
	records        int
	seed           int64
	genTables      []string
	batchSize      int
	genDSN         string
	genDriver      string
	cleanFirst     bool
	dryRun         bool
	exportFormats  []string
	exportDir      string
	englishHeaders bool
	useCopy        bool
	verify         bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic data, then load and/or export it",
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := loadDefinition(defFile)
		if err != nil {
			return err
		}

		// Row counts: flag > config > definition settings.
		targetRecords := viper.GetInt("settings.default_records")
		if records > 0 {
			targetRecords = records
		}

		counts, err := tableCounts(def, genTables)
		if err != nil {
			return err
		}

		order, err := def.TopologicalOrder()
		if err != nil {
			return err
		}
		planned := plannedTotal(def, order, counts, targetRecords)

		fmt.Printf("🏦 Schema %q: %d tables, %d records planned\n", def.Name, len(def.Tables), planned)

		// Dry Run
		if dryRun {
			fmt.Println("🔍 Generation Plan (dependency order):")
			for i, t := range order {
				n := resolveCount(def, counts, targetRecords, t.Name)
				fmt.Printf("[%02d] %-20s : %d rows (Dependencies: %v)\n", i+1, t.Name, n, t.Dependencies())
			}
			return nil
		}

		// 1. Generate
		opts := engine.Options{Records: targetRecords, Counts: counts, Seed: seed}
		if planned > 0 {
			uiprogress.Start()
			current := ""
			bar := uiprogress.AddBar(planned).AppendCompleted().PrependElapsed()
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return fmt.Sprintf("%-18s", current)
			})
			opts.OnProgress = func(table string, done, total int) {
				current = table
				bar.Incr()
			}
		}

		data, report, err := engine.Run(cmd.Context(), def, engine.NewRegistry(), opts)
		if planned > 0 {
			uiprogress.Stop()
		}
		if err != nil {
			return err
		}

		logging.L().Info("generation complete",
			zap.Int("records", report.Records),
			zap.Int64("seed", report.Seed),
			zap.Duration("elapsed", report.Elapsed))

		// 2. Report
		printReport(report)

		// 3. Export
		if len(exportFormats) > 0 {
			flavor := genDriver
			if flavor == "" {
				flavor = def.TargetSystem
			}
			results, err := export.Export(exportDir, exportFormats, def, data, export.Options{
				EnglishHeaders: englishHeaders,
				Dialect:        flavor,
			})
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("📁 %s export: %d files under %s\n", r.Format, len(r.Files), exportDir)
			}
		}

		// 4. Load
		driver, dbDSN, dbErr := resolveDatabase(genDriver, genDSN)
		if dbErr != nil {
			if cleanFirst || verify || useCopy {
				return dbErr
			}
			if len(exportFormats) == 0 {
				fmt.Println("ℹ No database configured and no export requested; dataset discarded.")
			}
			return nil
		}

		ctx := cmd.Context()
		st, err := store.Open(ctx, driver, dbDSN)
		if err != nil {
			return err
		}
		defer st.Close()

		fmt.Printf("🗄  Connected via %s\n", st.Dialect().Name())
		if err := st.Init(ctx, def, cleanFirst); err != nil {
			return err
		}

		loadStart := time.Now()
		loaded := 0
		onTable := func(table string, rows int) {
			loaded += rows
			fmt.Printf("  → %-20s %d rows\n", table, rows)
		}
		if useCopy {
			if st.Dialect().Name() != "postgres" {
				return fmt.Errorf("--copy needs a postgres target, got %s", st.Dialect().Name())
			}
			err = store.CopyLoad(ctx, dbDSN, def, data, onTable)
		} else {
			err = st.Load(ctx, def, data, batchSize, onTable)
		}
		if err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Loaded %d rows in %s\n", green("✓"), loaded, time.Since(loadStart).Round(time.Millisecond))

		// 5. Verification Step
		if verify {
			return printVerification(cmd, st, def, report)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(generateCmd)

	// CLI Flags
	generateCmd.Flags().StringVarP(&defFile, "file", "f", "", "schema definition or API document (built-in banking schema when empty)")
	generateCmd.Flags().IntVar(&records, "records", 0, "records per table (overrides config and definition settings)")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible runs")
	generateCmd.Flags().StringSliceVarP(&genTables, "tables", "t", []string{}, "tables to generate; referenced parents are included automatically")
	generateCmd.Flags().IntVar(&batchSize, "batch-size", 0, "rows per INSERT batch (0 = dialect maximum)")
	generateCmd.Flags().StringVar(&genDSN, "dsn", "", "target database DSN")
	generateCmd.Flags().StringVar(&genDriver, "driver", "", "target driver (postgres, mysql, sqlserver, oracle, sqlite)")
	generateCmd.Flags().BoolVar(&cleanFirst, "clean", false, "truncate tables before loading")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without generating")
	generateCmd.Flags().StringSliceVar(&exportFormats, "export", []string{}, "export formats (csv, json, sql)")
	generateCmd.Flags().StringVar(&exportDir, "out", "exports", "export directory")
	generateCmd.Flags().BoolVar(&englishHeaders, "english-headers", false, "use English column names in CSV headers")
	generateCmd.Flags().BoolVar(&useCopy, "copy", false, "bulk-load with the postgres COPY protocol")
	generateCmd.Flags().BoolVar(&verify, "verify", false, "count loaded rows per table after the load")

	viper.BindPFlag("settings.default_records", generateCmd.Flags().Lookup("records"))
}

// tableCounts builds the per-table overrides for a --tables selection:
// everything outside the selection drops to zero, and parents of selected
// tables are pulled in so foreign keys have a pool to draw from.
func tableCounts(def *schema.Definition, selected []string) (map[string]int, error) {
	if len(selected) == 0 {
		return nil, nil
	}
	want := make(map[string]bool)
	for _, name := range selected {
		t := def.Table(strings.TrimSpace(name))
		if t == nil {
			return nil, fmt.Errorf("unknown table %q", name)
		}
		markWithParents(def, t, want)
	}
	counts := make(map[string]int)
	for _, t := range def.Tables {
		if !want[t.Name] {
			counts[t.Name] = 0
		}
	}
	return counts, nil
}

func markWithParents(def *schema.Definition, t *schema.Table, want map[string]bool) {
	if want[t.Name] {
		return
	}
	want[t.Name] = true
	for _, dep := range t.Dependencies() {
		if parent := def.Table(dep); parent != nil {
			markWithParents(def, parent, want)
		}
	}
}

// resolveCount mirrors the engine's count resolution for planning output.
func resolveCount(def *schema.Definition, counts map[string]int, records int, table string) int {
	if n, ok := counts[table]; ok {
		return n
	}
	if records > 0 {
		return records
	}
	return def.Settings.DefaultRecords
}

func plannedTotal(def *schema.Definition, order []*schema.Table, counts map[string]int, records int) int {
	total := 0
	for _, t := range order {
		total += resolveCount(def, counts, records, t.Name)
	}
	return total
}

func printReport(report *engine.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Println("\n📊 Summary Report (Dependency Order):")
	for i, tr := range report.Tables {
		icon := green("✓")
		if tr.Generated != tr.Requested {
			icon = yellow("!")
		}
		fmt.Printf("[%s] [%02d/%02d] %-20s : %d rows (Target: %d) in %s\n",
			icon, i+1, len(report.Tables), tr.Table, tr.Generated, tr.Requested,
			tr.Elapsed.Round(time.Millisecond))
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Total Records: %d | Elapsed: %s | Seed: %d\n",
		report.Records, report.Elapsed.Round(time.Millisecond), report.Seed)
}

func printVerification(cmd *cobra.Command, st *store.Store, def *schema.Definition, report *engine.Report) error {
	counts, err := st.Verify(cmd.Context(), def)
	if err != nil {
		return err
	}
	generated := make(map[string]int, len(report.Tables))
	for _, tr := range report.Tables {
		generated[tr.Table] = tr.Generated
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Println("\n🔎 Verification:")
	ok := true
	for _, tc := range counts {
		icon := green("✓")
		if int(tc.Rows) < generated[tc.Table] {
			icon = red("!")
			ok = false
		}
		fmt.Printf("[%s] %-20s : %d rows in database (generated %d)\n", icon, tc.Table, tc.Rows, generated[tc.Table])
	}
	if !ok {
		return fmt.Errorf("verification failed: some tables hold fewer rows than generated")
	}
	return nil
}
