package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"synthdb/internal/convert"
	"synthdb/internal/schema"
)

var initOut string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in banking schema as starter files",
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := schema.BuiltinBanking()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(initOut, 0o755); err != nil {
			return err
		}

		defData, err := schema.EncodeDefinition(def)
		if err != nil {
			return err
		}
		defPath := filepath.Join(initOut, "israeli_banking_definition.json")
		if err := os.WriteFile(defPath, defData, 0o644); err != nil {
			return err
		}

		apiData, err := convert.EncodeAPI(convert.DefinitionToAPI(def))
		if err != nil {
			return err
		}
		apiPath := filepath.Join(initOut, "israeli_banking_api.json")
		if err := os.WriteFile(apiPath, apiData, 0o644); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Wrote %s and %s\n", green("✓"), defPath, apiPath)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initOut, "out", ".", "directory for the generated files")
}
