package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"synthdb/internal/convert"
	"synthdb/internal/schema"
)

var (
	convInput string
	convTo    string
	convOut   string
	convName  string
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert between API documents and schema definitions",
	Long: `Convert an OpenAPI document (components.schemas) into a schema
definition, or a schema definition back into an API document. The target
format is inferred from the input unless --to is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := convInput
		if len(args) > 0 {
			input = args[0]
		}
		if input == "" {
			return fmt.Errorf("no input file; pass a path or --input")
		}

		data, err := os.ReadFile(input)
		if err != nil {
			return err
		}
		doc, err := schema.DecodeDocument(data)
		if err != nil {
			return err
		}

		to := convTo
		if to == "" {
			// API documents convert to definitions and vice versa.
			if doc.Has("components") {
				to = "definition"
			} else {
				to = "api"
			}
		}

		var out []byte
		switch to {
		case "definition":
			api, err := convert.APIFromDocument(doc)
			if err != nil {
				return err
			}
			def, err := convert.APIToDefinition(api, convName)
			if err != nil {
				return err
			}
			out, err = schema.EncodeDefinition(def)
			if err != nil {
				return err
			}
		case "api":
			def, err := schema.DefinitionFromDocument(doc)
			if err != nil {
				return err
			}
			out, err = convert.EncodeAPI(convert.DefinitionToAPI(def))
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown target %q (want definition or api)", to)
		}

		if convOut == "" {
			fmt.Println(string(out))
			return nil
		}
		if err := os.WriteFile(convOut, out, 0o644); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Wrote %s\n", green("✓"), convOut)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convInput, "input", "i", "", "input file (API document or schema definition)")
	convertCmd.Flags().StringVar(&convTo, "to", "", "target format: definition or api (inferred when empty)")
	convertCmd.Flags().StringVarP(&convOut, "out", "o", "", "output file (stdout when empty)")
	convertCmd.Flags().StringVar(&convName, "name", "", "definition name override for API conversions")
}
