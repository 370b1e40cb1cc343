package main

import (
	"fmt"
	"os"

	"bestlyrics/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(newConfigInitCmd(a))
	cmd.AddCommand(newConfigShowCmd(a))

	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = config.GetDefaultConfigPath()
			}
			return initConfigFile(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func initConfigFile(cmd *cobra.Command, path string, force bool) error {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "Config file already exists at: %s\n", path)
		fmt.Fprintln(out, "Delete it first or pass --force to recreate it.")
		return nil
	}

	if err := config.SaveConfigFile(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Fprintf(out, "Created default config file at: %s\n", path)
	fmt.Fprintln(out, "\nAvailable options:")
	fmt.Fprintln(out, "  listen: address for 'bestlyrics serve' (default :8080)")
	fmt.Fprintln(out, "  sources: any of lrclib, lyricsovh, musixmatch")
	fmt.Fprintln(out, "  musixmatch_api_key: required for Musixmatch (or set MUSIXMATCH_API_KEY)")
	fmt.Fprintln(out, "  source_timeout: per-source time limit, e.g. 8s")
	fmt.Fprintln(out, "  rate_limit: requests per second to each provider, 0 for no limit")
	fmt.Fprintln(out, "  allowed_origin: CORS origin for browser clients")
	fmt.Fprintln(out, "  log_file: append detailed logs to this file")
	return nil
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			cfg := a.cfg
			if cfg.MusixmatchAPIKey != "" {
				cfg.MusixmatchAPIKey = "********"
			}
			fmt.Fprintf(out, "listen:         %s\n", cfg.Listen)
			fmt.Fprintf(out, "sources:        %v\n", cfg.Sources)
			fmt.Fprintf(out, "musixmatch key: %s\n", orNone(cfg.MusixmatchAPIKey))
			fmt.Fprintf(out, "source timeout: %s\n", cfg.SourceTimeout)
			fmt.Fprintf(out, "rate limit:     %g/s\n", cfg.RateLimit)
			fmt.Fprintf(out, "user agent:     %s\n", cfg.UserAgent)
			fmt.Fprintf(out, "allowed origin: %s\n", orNone(cfg.AllowedOrigin))
			fmt.Fprintf(out, "log file:       %s\n", orNone(cfg.LogFile))
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
