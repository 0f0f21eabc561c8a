package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	internal "github.com/HoneyChauhan001/attendance-management-system-frontend/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "ams-frontend",
	Short: "Attendance Management front-end",
	Long:  `Web front-end for the attendance management backend: login, employee clock-in/out, admin review.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// No config file means environment-only deployment.
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			cfg := internal.LoadConfigFromEnv()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("error validating config from environment: %w", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(assetsCmd)
}
