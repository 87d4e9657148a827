package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"synthdb/internal/schema"
	"synthdb/internal/store"
)

var (
	inspectDSN    string
	inspectDriver string
	inspectSchema string
	inspectOut    string
	inspectName   string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Build a schema definition from an existing database",
	Long: `Read tables, columns, primary keys and foreign keys from a live
database and emit them as a schema definition. Generators are guessed from
column names, so the output usually works as a generate input unchanged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		driver, dsn, err := resolveDatabase(inspectDriver, inspectDSN)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := store.Open(ctx, driver, dsn)
		if err != nil {
			return err
		}
		defer st.Close()

		def, err := st.Inspect(ctx, inspectSchema, inspectName)
		if err != nil {
			return err
		}
		fmt.Printf("🔍 Inspected %d tables via %s\n", len(def.Tables), st.Dialect().Name())

		out, err := schema.EncodeDefinition(def)
		if err != nil {
			return err
		}
		if inspectOut == "" {
			fmt.Println(string(out))
			return nil
		}
		if err := os.WriteFile(inspectOut, out, 0o644); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Wrote %s\n", green("✓"), inspectOut)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectDSN, "dsn", "", "source database DSN")
	inspectCmd.Flags().StringVar(&inspectDriver, "driver", "", "source driver (postgres, mysql, sqlserver, oracle, sqlite)")
	inspectCmd.Flags().StringVar(&inspectSchema, "schema", "", "database schema to read (dialect default when empty)")
	inspectCmd.Flags().StringVarP(&inspectOut, "out", "o", "", "output file (stdout when empty)")
	inspectCmd.Flags().StringVar(&inspectName, "name", "", "definition name for the output")
}
