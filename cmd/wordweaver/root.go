package main

import (
	"fmt"
	"os"

	"github.com/alvmarrod/word-weaver/internal/config"
	"github.com/alvmarrod/word-weaver/internal/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every subcommand
type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "wordweaver",
		Short: "Word-frequency analysis across linked Wikipedia articles",
		Long: `wordweaver crawls Wikipedia from a starting article, follows up to three
links per article for a bounded number of hops, and reports how often each
word appears across everything it read.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewCrawlCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file when one is given and configures logging
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := setupLogging(cfg.LogLevel, opts.verbose); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setupLogging(level string, verbose bool) error {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logrus.SetOutput(os.Stderr)

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return nil
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log_level %q: %w", level, err)
	}
	logrus.SetLevel(parsed)
	return nil
}
