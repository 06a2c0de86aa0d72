package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/tabprobe/internal/config"
	"github.com/KaramelBytes/tabprobe/internal/extract"
	"github.com/KaramelBytes/tabprobe/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	logLevel string

	// Loaded configuration and logger
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "tabprobe",
	Short: "tabprobe: profile delimited tables by reading them from the end",
	Long: `tabprobe reads comma- or whitespace-delimited files backward from the end,
finds where the regular table starts, and reports per-column statistics,
header rows and any free-text preamble above the table.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tabprobe/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	level := cfg.LogLevel
	if rootCmd.PersistentFlags().Changed("log-level") {
		level = logLevel
	}
	l, err := logging.New(level, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		l, _ = logging.New("info", debug)
	}
	logger = l
}

// extractOptions maps the loaded configuration onto engine options.
// Zero values fall back to the engine defaults.
func extractOptions() extract.Options {
	opt := extract.DefaultOptions()
	opt.Logger = logger
	if cfg == nil {
		return opt
	}
	if cfg.TailRows > 0 {
		opt.TailRows = cfg.TailRows
	}
	if cfg.MinDataRows > 0 {
		opt.MinDataRows = cfg.MinDataRows
	}
	if cfg.PreambleChars > 0 {
		opt.PreambleChars = cfg.PreambleChars
	}
	if len(cfg.CommaExtensions) > 0 {
		opt.CommaExtensions = cfg.CommaExtensions
	}
	return opt
}
