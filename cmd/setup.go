package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HoneyChauhan001/attendance-management-system-frontend/internal/envutil"
)

var (
	setupAPIBaseURL string
	setupAddr       string
	setupEnvPath    string
	setupForce      bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a starter .env file",
	RunE: func(cmd *cobra.Command, args []string) error {
		values := map[string]string{
			"API_BASE_URL":        setupAPIBaseURL,
			"CLIENT_ADDR":         setupAddr,
			"SESSION_COOKIE_NAME": "ams_session",
			"SESSION_TOKEN_FILE":  "sessions.json",
			"LOG_LEVEL":           "info",
			"LOG_FORMAT":          "text",
		}
		if err := envutil.WriteDotEnv(setupEnvPath, values, setupForce); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", setupEnvPath)
		return nil
	},
}

func init() {
	setupCmd.Flags().StringVar(&setupAPIBaseURL, "api-base-url", "http://localhost:8080", "attendance backend base URL")
	setupCmd.Flags().StringVar(&setupAddr, "addr", ":3000", "listen address for the web front-end")
	setupCmd.Flags().StringVar(&setupEnvPath, "env-file", ".env", "path to .env file")
	setupCmd.Flags().BoolVar(&setupForce, "force", false, "overwrite existing env file")
}
