package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errStepsFailed makes the process exit with status 1 after the report was written.
var errStepsFailed = errors.New("steps failed")

var configFile string

var rootCmd = &cobra.Command{
	Use:   "saucecheck",
	Short: "Ordered UI journeys against the Swag Labs storefront",
	Long: `saucecheck drives a real browser through ordered journeys of the Swag Labs
demo storefront: login, cart, checkout, sorting and negative paths.

Every suite runs on its own browser session, its steps strictly in order.
Settings come from flags, SAUCECHECK_* environment variables or a YAML file.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "saucecheck %s\n", rootCmd.Version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errStepsFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
