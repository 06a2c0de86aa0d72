package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/tabprobe/internal/extract"
)

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset bound flag variables; cobra keeps them across Execute calls.
	exDialect, exFormat, exOutputPath = "auto", "", ""
	catOutDir, catSQLite, catWorkers, catQuiet = ".", "", 0, false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCLI_ExtractJSON(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "obs.csv")
	writeFile(t, path, "depth,temp\n1,10\n2,11\n3,12\n")

	out, err := runCmd(t, "extract", path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var res extract.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if res.Rows != 3 || res.Columns["depth"].Type != "numeric" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCLI_ExtractMarkdownToFile(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "AMT1.txt")
	writeFile(t, path, "Cruise AMT1 bottle data\nlat lon\n1.5 2\n2.5 3\n3.5 4\n")
	dest := filepath.Join(home, "profile.md")

	if _, err := runCmd(t, "extract", path, "--format", "markdown", "-o", dest); err != nil {
		t.Fatalf("extract: %v", err)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	md := string(b)
	for _, want := range []string{"[DATASET PROFILE]", "lat | lon", "[PREAMBLE]", "Cruise AMT1 bottle data"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestCLI_ExtractNotTabular(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "notes.csv")
	writeFile(t, path, "title\n1,2\n")

	_, err := runCmd(t, "extract", path)
	if err == nil {
		t.Fatalf("expected error for non-tabular file")
	}
	if !strings.Contains(err.Error(), "not tabular") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCLI_ExtractBadFormat(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "obs.csv")
	writeFile(t, path, "a,b\n1,2\n3,4\n5,6\n")
	if _, err := runCmd(t, "extract", path, "--format", "xml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestCLI_Catalog(t *testing.T) {
	home := isolateHome(t)
	data := filepath.Join(home, "data")
	writeFile(t, filepath.Join(data, "obs.csv"), "depth,temp\n1,10\n2,11\n3,12\n")
	writeFile(t, filepath.Join(data, "sub", "AMT1.txt"), "Cruise AMT1 bottle data\nlat lon\n1.5 2\n2.5 3\n3.5 4\n")
	writeFile(t, filepath.Join(data, "README"), "hello")
	outDir := filepath.Join(home, "out")
	db := filepath.Join(home, "catalog.db")

	out, err := runCmd(t, "catalog", data, "--out-dir", outDir, "--sqlite", db, "--workers", "2")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if !strings.Contains(out, "✓ Cataloged 3 files (2 profiled, 0 not tabular, 0 errors)") {
		t.Fatalf("unexpected summary:\n%s", out)
	}

	jsonl, err := os.ReadFile(filepath.Join(outDir, "catalog.jsonl"))
	if err != nil {
		t.Fatalf("read catalog.jsonl: %v", err)
	}
	if n := strings.Count(string(jsonl), "\n"); n != 3 {
		t.Fatalf("catalog.jsonl has %d lines, want 3", n)
	}
	cols, err := os.ReadFile(filepath.Join(outDir, "columns.csv"))
	if err != nil {
		t.Fatalf("read columns.csv: %v", err)
	}
	// header + depth, temp, lat, lon
	if n := strings.Count(string(cols), "\n"); n != 5 {
		t.Fatalf("columns.csv has %d lines, want 5:\n%s", n, cols)
	}
	agg, err := os.ReadFile(filepath.Join(outDir, "aggregates.csv"))
	if err != nil {
		t.Fatalf("read aggregates.csv: %v", err)
	}
	if !strings.HasPrefix(string(agg), "file extension,number of files,total size (bytes),average size (bytes)\n") {
		t.Fatalf("unexpected aggregates header:\n%s", agg)
	}
	if _, err := os.Stat(db); err != nil {
		t.Fatalf("sqlite database not created: %v", err)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	isolateHome(t)
	if _, err := runCmd(t, "config", "set", "workers", "7"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := runCmd(t, "config", "set", "comma_extensions", "csv, .TSV"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	out, err := runCmd(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"workers: 7", "comma_extensions: csv,tsv", "tail_rows: 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("config show missing %q:\n%s", want, out)
		}
	}
	if _, err := runCmd(t, "config", "set", "workers", "zero"); err == nil {
		t.Fatalf("expected error for invalid int")
	}
	if _, err := runCmd(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}
