package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soapboxhq/holler/internal/app"
)

var (
	configPath string
	prefsPath  string
	serverURL  string
	org        string
	project    string
	refresh    int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "holler",
	Short: "Terminal client for Soapbox feedback boards",
	Long: `Holler browses a Soapbox project's wish board, roadmap, releases, and
help center from the terminal, and lets you vote, comment, submit wishes,
and open support tickets without leaving it.`,
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "config file path (default ~/.config/holler/config.toml)")
	rootCmd.Flags().StringVar(&prefsPath, "prefs", "", "preferences file path (default ~/.config/holler/prefs.toml)")
	rootCmd.Flags().StringVar(&serverURL, "server", "", "Soapbox server URL")
	rootCmd.Flags().StringVarP(&org, "org", "o", "", "organization slug")
	rootCmd.Flags().StringVarP(&project, "project", "p", "", "project slug")
	rootCmd.Flags().IntVar(&refresh, "refresh", 0, "background refresh interval in seconds")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return app.Run(ctx, app.Options{
		ConfigPath: configPath,
		PrefsPath:  prefsPath,
		ServerURL:  serverURL,
		Org:        org,
		Project:    project,
		Refresh:    refresh,
		Verbose:    verbose,
	})
}
