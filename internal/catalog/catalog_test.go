package catalog

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/KaramelBytes/tabprobe/internal/extract"
)

func memTree(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		if err := afero.WriteFile(fs, name, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return fs
}

func testTree(t *testing.T) afero.Fs {
	return memTree(t, map[string]string{
		"/data/a/obs.csv":    "depth,temp\n1,10\n2,11\n3,12\n4,13\n",
		"/data/a/notes.txt":  "just some words\nmore words here\n",
		"/data/b/AMT1.txt":   "AMT cruise 1 station data\nlat lon\n1.5 2\n2.5 3\n3.5 4\n4.5 5\n",
		"/data/b/README":     "hello",
		"/data/b/img.tar.gz": "0123456789",
		"/data/b/deep/x.csv": "x\n1\n",
	})
}

func TestWalk(t *testing.T) {
	entries, err := Walk(testTree(t), "/data")
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Path()+" "+e.Ext)
	}
	want := []string{
		"/data/a/notes.txt txt",
		"/data/a/obs.csv csv",
		"/data/b/AMT1.txt txt",
		"/data/b/README no extension",
		"/data/b/deep/x.csv csv",
		"/data/b/img.tar.gz tar.gz",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestRollup(t *testing.T) {
	got := Rollup([]Entry{
		{Name: "a.csv", Ext: "csv", Size: 10},
		{Name: "b.csv", Ext: "csv", Size: 5},
		{Name: "c", Ext: extract.NoExtension, Size: 7},
	})
	want := []ExtensionStat{
		{Ext: "csv", Files: 2, TotalBytes: 15, AvgBytes: 7},
		{Ext: extract.NoExtension, Files: 1, TotalBytes: 7, AvgBytes: 7},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rollup mismatch (-want +got):\n%s", diff)
	}
}

func TestRunner_Run(t *testing.T) {
	calls := 0
	r := &Runner{
		Fs:          testTree(t),
		Options:     extract.DefaultOptions(),
		Workers:     3,
		TabularExts: []string{"csv", "txt"},
		Progress:    func(done, total int, _ Record) { calls++ },
	}
	cat, err := r.Run(context.Background(), "/data")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 6 {
		t.Fatalf("progress called %d times, want 6", calls)
	}
	status := map[string]string{}
	for _, rec := range cat.Records {
		if rec.ID == "" {
			t.Fatalf("record %s has no id", rec.File)
		}
		status[rec.File] = rec.Status
	}
	want := map[string]string{
		"notes.txt":  StatusNotTabular,
		"obs.csv":    StatusOK,
		"AMT1.txt":   StatusOK,
		"README":     StatusSkipped,
		"x.csv":      StatusNotTabular,
		"img.tar.gz": StatusSkipped,
	}
	if diff := cmp.Diff(want, status); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}

	// Records keep walk order.
	if cat.Records[1].File != "obs.csv" {
		t.Fatalf("records out of walk order: %s", cat.Records[1].File)
	}
	obs := cat.Records[1].Content
	if diff := cmp.Diff([]string{"depth", "temp"}, obs.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	amt := cat.Records[2].Content
	if !amt.Partial || amt.Preamble == "" {
		t.Fatalf("whitespace file should carry a preamble, got %+v", amt)
	}
	if cat.Count(StatusOK) != 2 || len(cat.Rollup) != 4 {
		t.Fatalf("unexpected counts: ok=%d rollup=%d", cat.Count(StatusOK), len(cat.Rollup))
	}
}

func TestRunner_MissingRoot(t *testing.T) {
	r := &Runner{Fs: afero.NewMemMapFs()}
	if _, err := r.Run(context.Background(), "/nope"); err == nil {
		t.Fatalf("expected walk error")
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Fs: testTree(t), TabularExts: []string{"csv"}}
	if _, err := r.Run(ctx, "/data"); err == nil {
		t.Fatalf("expected context error")
	}
}
