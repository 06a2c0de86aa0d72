// Package catalog walks a directory tree, profiles its tabular files and
// rolls file sizes up per extension.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/KaramelBytes/tabprobe/internal/extract"
)

// Entry is one regular file found under the catalog root.
type Entry struct {
	Name string
	Dir  string
	Ext  string
	Size int64
}

// Path joins Dir and Name.
func (e Entry) Path() string { return filepath.Join(e.Dir, e.Name) }

// Walk lists every regular file under root, sorted by path.
func Walk(fs afero.Fs, root string) ([]Entry, error) {
	var out []Entry
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		out = append(out, Entry{
			Name: info.Name(),
			Dir:  filepath.Dir(path),
			Ext:  extract.Extension(info.Name()),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out, nil
}
