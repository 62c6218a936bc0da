package main

import (
	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"
)

var installBrowsersFlag []string

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the Playwright driver and browsers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return playwright.Install(&playwright.RunOptions{
			Browsers: installBrowsersFlag,
			Verbose:  true,
			Stdout:   cmd.OutOrStdout(),
			Stderr:   cmd.ErrOrStderr(),
		})
	},
}

func init() {
	installCmd.Flags().StringSliceVar(&installBrowsersFlag, "browser", []string{"chromium"}, "browsers to install")
}
