package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabprobe/internal/extract"
	"github.com/KaramelBytes/tabprobe/internal/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	exDialect    string
	exFormat     string
	exOutputPath string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Profile one delimited file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt := extractOptions()
		d, err := extract.ParseDialect(exDialect)
		if err != nil {
			return err
		}
		opt.Dialect = d

		format := exFormat
		if format == "" && cfg != nil {
			format = cfg.OutputFormat
		}
		res, err := extract.ExtractFile(afero.NewOsFs(), path, opt)
		if errors.Is(err, extract.ErrNotTabular) {
			return fmt.Errorf("%s does not contain a delimited table: %w", path, err)
		}
		if err != nil {
			return err
		}
		out, err := renderResult(res, format)
		if err != nil {
			return err
		}

		if exOutputPath != "" {
			if err := utils.SafeWriteFile(exOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote profile to %s\n", exOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func renderResult(res *extract.Result, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		b, err := utils.PrettyJSON(res)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "yaml", "yml":
		b, err := yaml.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	case "markdown", "md":
		return []byte(res.Markdown()), nil
	default:
		return nil, fmt.Errorf("unsupported --format: %s (use json|yaml|markdown)", format)
	}
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&exDialect, "dialect", "auto", "field splitting: auto|comma|whitespace (auto picks by extension)")
	extractCmd.Flags().StringVar(&exFormat, "format", "", "output format: json|yaml|markdown (default from config)")
	extractCmd.Flags().StringVarP(&exOutputPath, "output", "o", "", "optional path to write the profile")
}
