package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/tabprobe/internal/config"
	"github.com/KaramelBytes/tabprobe/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tabprobe configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "tail_rows: %d\n", cfg.TailRows)
		fmt.Fprintf(out, "min_data_rows: %d\n", cfg.MinDataRows)
		fmt.Fprintf(out, "preamble_chars: %d\n", cfg.PreambleChars)
		fmt.Fprintf(out, "comma_extensions: %s\n", strings.Join(cfg.CommaExtensions, ","))
		fmt.Fprintf(out, "tabular_extensions: %s\n", strings.Join(cfg.TabularExtensions, ","))
		fmt.Fprintf(out, "workers: %d\n", cfg.Workers)
		fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "tail_rows", "min_data_rows", "preamble_chars", "workers":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid positive int for %s: %v", key, val)
			}
			switch key {
			case "tail_rows":
				cfg.TailRows = i
			case "min_data_rows":
				cfg.MinDataRows = i
			case "preamble_chars":
				cfg.PreambleChars = i
			default:
				cfg.Workers = i
			}
		case "comma_extensions":
			cfg.CommaExtensions = splitList(val)
		case "tabular_extensions":
			cfg.TabularExtensions = splitList(val)
		case "output_format":
			switch strings.ToLower(val) {
			case "json", "yaml", "markdown":
				cfg.OutputFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid output_format: %s (use json|yaml|markdown)", val)
			}
		case "log_level":
			if _, err := logging.New(val, false); err != nil {
				return err
			}
			cfg.LogLevel = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// splitList parses "csv, .TSV" into ["csv", "tsv"].
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(p), "."))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
