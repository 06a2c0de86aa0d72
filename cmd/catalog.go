package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/tabprobe/internal/catalog"
	"github.com/KaramelBytes/tabprobe/internal/sink"
	"github.com/KaramelBytes/tabprobe/internal/sink/sqlite"
	"github.com/KaramelBytes/tabprobe/internal/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	catOutDir  string
	catSQLite  string
	catWorkers int
	catQuiet   bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog <dir>",
	Short: "Profile every tabular file under a directory and write catalog files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		out := cmd.OutOrStdout()

		workers := catWorkers
		if workers <= 0 && cfg != nil {
			workers = cfg.Workers
		}
		exts := []string{"csv", "txt", "dat"}
		if cfg != nil && len(cfg.TabularExtensions) > 0 {
			exts = cfg.TabularExtensions
		}

		r := &catalog.Runner{
			Fs:          afero.NewOsFs(),
			Options:     extractOptions(),
			Workers:     workers,
			TabularExts: exts,
			Logger:      logger,
		}
		if !catQuiet {
			r.Progress = func(done, total int, rec catalog.Record) {
				fmt.Fprintf(out, "[%d/%d] %s: %s\n", done, total, filepath.Join(rec.Path, rec.File), rec.Status)
			}
		}
		cat, err := r.Run(cmd.Context(), root)
		if err != nil {
			return err
		}

		if err := utils.EnsureDir(catOutDir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		var jsonl, cols, agg bytes.Buffer
		if err := sink.WriteJSONL(&jsonl, cat.Records); err != nil {
			return err
		}
		if err := sink.WriteColumnsCSV(&cols, cat.Records); err != nil {
			return err
		}
		if err := sink.WriteRollupCSV(&agg, cat.Rollup); err != nil {
			return err
		}
		for name, buf := range map[string]*bytes.Buffer{
			"catalog.jsonl":  &jsonl,
			"columns.csv":    &cols,
			"aggregates.csv": &agg,
		} {
			if err := utils.SafeWriteFile(filepath.Join(catOutDir, name), buf.Bytes()); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
		}

		if catSQLite != "" {
			store, err := sqlite.Open(cmd.Context(), catSQLite)
			if err != nil {
				return fmt.Errorf("open sqlite: %w", err)
			}
			defer store.Close()
			if err := store.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			if err := store.SaveCatalog(cmd.Context(), cat); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}
		}

		if !catQuiet {
			fmt.Fprintf(out, "✓ Cataloged %d files (%d profiled, %d not tabular, %d errors) into %s\n",
				len(cat.Records),
				cat.Count(catalog.StatusOK),
				cat.Count(catalog.StatusNotTabular),
				cat.Count(catalog.StatusError),
				catOutDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVar(&catOutDir, "out-dir", ".", "directory for catalog.jsonl, columns.csv and aggregates.csv")
	catalogCmd.Flags().StringVar(&catSQLite, "sqlite", "", "optional SQLite database to record the run in")
	catalogCmd.Flags().IntVar(&catWorkers, "workers", 0, "concurrent extractions (default from config)")
	catalogCmd.Flags().BoolVarP(&catQuiet, "quiet", "q", false, "suppress progress output")
}
