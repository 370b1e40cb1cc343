package main

import (
	"fmt"
	"os"

	"bestlyrics/internal/config"
	"bestlyrics/internal/logger"
	"bestlyrics/internal/metrics"
	"bestlyrics/internal/shutdown"

	"github.com/spf13/cobra"
)

func main() {
	sh := shutdown.New()
	sh.Listen()

	if err := newRootCmd().ExecuteContext(sh.Context()); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// app holds what every lookup command needs once flags are parsed.
type app struct {
	configPath string
	verbose    bool

	cfg     config.Config
	log     *logger.Logger
	metrics *metrics.Collector
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "bestlyrics",
		Short: "Find the best lyrics for a song across several providers",
		Long: `bestlyrics queries LRCLib, Lyrics.ovh and Musixmatch concurrently,
cleans and scores what they return, and picks the best match.

Run it as an HTTP service with 'bestlyrics serve', or look up a single
song or a folder of audio files with 'bestlyrics fetch'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to config file")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show detailed output")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newFetchCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd
}

// setup loads and validates configuration and opens the log sinks.
// Priority: CLI flags > environment > config file > defaults
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logger.New(cfg.Verbose)
	if cfg.LogFile != "" {
		if err := a.log.SetFileLog(cfg.LogFile); err != nil {
			a.log.Warn("Failed to setup file logging: %v", err)
		} else {
			a.log.Debug("Logging to file: %s", cfg.LogFile)
		}
	}

	path := a.configPath
	if path == "" {
		path = config.FindConfigFile()
	}
	if path != "" {
		a.log.Debug("Loaded configuration from: %s", path)
	}

	a.metrics = metrics.New()
	return nil
}

func (a *app) close() {
	if a.log != nil {
		a.log.Close()
	}
}
