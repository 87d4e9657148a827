package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a schema definition or API document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := validateFile
		if len(args) > 0 {
			path = args[0]
		}
		def, err := loadDefinition(path)
		if err != nil {
			return err
		}
		order, err := def.TopologicalOrder()
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s v%s is valid: %d tables\n", green("✓"), def.Name, def.Version, len(def.Tables))
		for i, t := range order {
			fmt.Printf("[%02d] %-20s pk=%s fields=%d deps=%v\n",
				i+1, t.Name, t.PrimaryKey, len(t.Fields), t.Dependencies())
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "schema definition or API document (built-in banking schema when empty)")
}
