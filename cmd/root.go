package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"synthdb/internal/convert"
	"synthdb/internal/logging"
	"synthdb/internal/schema"
)

var (
	cfgFile string
	envFile string
	verbose bool
)

var RootCmd = &cobra.Command{
	Use:   "synthdb",
	Short: "Synthetic Israeli banking data generator",
	Long: `
  ____  __   __ _   _  _____  _   _    ____   ____
 / ___| \ \ / /| \ | ||_   _|| | | |  |  _ \ | __ )
 \___ \  \ V / |  \| |  | |  | |_| |  | | | ||  _ \
  ___) |  | |  | |\  |  | |  |  _  |  | |_| || |_) |
 |____/   |_|  |_| \_|  |_|  |_| |_|  |____/ |____/

SynthDB 🏦 - Synthetic Israeli Banking Data Generator & Loader
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file: %w", err)
			}
		} else {
			// A local .env is optional.
			_ = godotenv.Load()
		}
		logging.Setup(verbose)
		return nil
	},
}

func Execute() {
	err := RootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./synthdb.yaml)")
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load before reading config")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("synthdb")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// loadDefinition reads a schema document from path, accepting both the
// definition format and OpenAPI-style components. An empty path yields the
// bundled banking schema.
func loadDefinition(path string) (*schema.Definition, error) {
	if path == "" {
		return schema.BuiltinBanking()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := schema.DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	if doc.Has("components") {
		api, err := convert.APIFromDocument(doc)
		if err != nil {
			return nil, err
		}
		return convert.APIToDefinition(api, "")
	}
	return schema.DefinitionFromDocument(doc)
}
