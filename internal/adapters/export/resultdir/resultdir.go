// Package resultdir names and prepares the per-run output directory
package resultdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"usagereport/internal/adapters/export/sitename"
)

// DateLayout is the run date suffix of every file name
const DateLayout = "01_02_06"

// Layout is the set of paths one export run writes
// the directory is <storage>/<Base>_dir and holds <Base>.csv, <Base>.sql and <Base>.tar.zst
type Layout struct {
	Storage string
	Base    string
}

// New names the output of a run for site on day
func New(storage, site string, day time.Time) Layout {
	if storage == "" {
		storage = "."
	}
	return Layout{
		Storage: storage,
		Base:    sitename.Compact(site) + "_" + day.Format(DateLayout),
	}
}

// Dir is the result directory
func (l Layout) Dir() string { return filepath.Join(l.Storage, l.Base+"_dir") }

// CSV is the report file
func (l Layout) CSV() string { return filepath.Join(l.Dir(), l.Base+".csv") }

// SQL is the database dump file
func (l Layout) SQL() string { return filepath.Join(l.Dir(), l.Base+".sql") }

// ArchiveName is the archive file name without directory
func (l Layout) ArchiveName() string { return l.Base + ".tar.zst" }

// StagedArchive is where the archive is built, outside the directory it packs
func (l Layout) StagedArchive() string { return filepath.Join(l.Storage, l.ArchiveName()) }

// Archive is the final archive location inside the result directory
func (l Layout) Archive() string { return filepath.Join(l.Dir(), l.ArchiveName()) }

// Prepare replaces any previous result directory with an empty one
// the storage directory itself must already exist
func (l Layout) Prepare() error {
	st, err := os.Stat(l.Storage)
	if err != nil {
		return fmt.Errorf("storage dir %q: %w", l.Storage, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("storage dir %q is not a directory", l.Storage)
	}
	if err := os.RemoveAll(l.Dir()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove old result dir: %w", err)
	}
	if err := os.Mkdir(l.Dir(), 0o755); err != nil {
		return fmt.Errorf("create result dir: %w", err)
	}
	return nil
}
