package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"synthdb/internal/store"
)

var (
	cleanFile   string
	cleanDSN    string
	cleanDriver string
	cleanYes    bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean all data from the schema's tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := loadDefinition(cleanFile)
		if err != nil {
			return err
		}
		driver, dsn, err := resolveDatabase(cleanDriver, cleanDSN)
		if err != nil {
			return err
		}

		if !cleanYes {
			fmt.Printf("⚠ This truncates %d tables on the %s target. Continue? [y/N] ", len(def.Tables), driver)
			var answer string
			fmt.Scanln(&answer)
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		ctx := cmd.Context()
		st, err := store.Open(ctx, driver, dsn)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Truncate(ctx, def); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Cleaned %d tables\n", green("✓"), len(def.Tables))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVarP(&cleanFile, "file", "f", "", "schema definition or API document (built-in banking schema when empty)")
	cleanCmd.Flags().StringVar(&cleanDSN, "dsn", "", "target database DSN")
	cleanCmd.Flags().StringVar(&cleanDriver, "driver", "", "target driver (postgres, mysql, sqlserver, oracle, sqlite)")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "skip the confirmation prompt")
}
