package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/tabprobe/internal/utils"
)

func TestSafeWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := utils.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	path := filepath.Join(dir, "columns.csv")
	if err := utils.SafeWriteFile(path, []byte("a\n")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	if err := utils.SafeWriteFile(path, []byte("b\n")); err != nil {
		t.Fatalf("SafeWriteFile overwrite: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "b\n" {
		t.Fatalf("got %q, %v", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"rows": 3})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if string(b) != "{\n  \"rows\": 3\n}" {
		t.Fatalf("unexpected output %q", b)
	}
}
