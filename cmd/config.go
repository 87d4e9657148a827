package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"synthdb/internal/store"
)

// DBConfig is one entry of the databases list in synthdb.yaml.
type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the single database marked active in config.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var active *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			active = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return active, nil
}

// resolveDatabase picks the target database: flags first, then the active
// entry of the databases list, then the flat database section. The driver
// is guessed from the DSN when not stated anywhere.
func resolveDatabase(flagDriver, flagDSN string) (driver, dsn string, err error) {
	driver, dsn = flagDriver, flagDSN
	if dsn == "" {
		if active, cfgErr := GetActiveDBConfig(); cfgErr == nil {
			if driver == "" {
				driver = active.Driver
			}
			dsn = active.DSN
		} else {
			dsn = viper.GetString("database.dsn")
			if driver == "" {
				driver = viper.GetString("database.driver")
			}
		}
	}
	if dsn == "" {
		return "", "", fmt.Errorf("no database configured (use --dsn or mark one databases entry active)")
	}
	if driver == "" {
		driver = store.DetectDriver(dsn)
	}
	return driver, dsn, nil
}
