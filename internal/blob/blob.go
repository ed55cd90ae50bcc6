// Package blob stores uploaded files in a flat uploads directory.
//
// Every operation goes through os.Root, so a name recorded in the database
// cannot address anything outside the uploads directory. Names are generated
// from a UUID plus the original extension; the database records the bare
// name.
package blob

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FS is a blob store rooted at a directory.
type FS struct {
	dir string
}

// New returns a store rooted at dir. The directory is created on first Save.
func New(dir string) *FS {
	return &FS{dir: dir}
}

// Dir returns the root directory.
func (b *FS) Dir() string { return b.dir }

// NewName returns a fresh blob name carrying ext (without the dot).
func NewName(ext string) string {
	return uuid.NewString() + "." + strings.ToLower(strings.TrimPrefix(ext, "."))
}

func (b *FS) open() (*os.Root, error) {
	return os.OpenRoot(b.dir)
}

// Save writes r to name, replacing any existing blob, and returns name.
func (b *FS) Save(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return "", fmt.Errorf("creating uploads directory: %w", err)
	}
	root, err := b.open()
	if err != nil {
		return "", fmt.Errorf("opening uploads directory: %w", err)
	}
	defer root.Close()

	f, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = root.Remove(name)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = root.Remove(name)
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes name. A blob that is already gone is not an error.
func (b *FS) Remove(name string) error {
	root, err := b.open()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("opening uploads directory: %w", err)
	}
	defer root.Close()

	err = root.Remove(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Exists reports whether name is present as a regular file.
func (b *FS) Exists(name string) bool {
	root, err := b.open()
	if err != nil {
		return false
	}
	defer root.Close()

	info, err := root.Stat(name)
	return err == nil && info.Mode().IsRegular()
}

// Open opens name for reading.
func (b *FS) Open(name string) (*os.File, error) {
	root, err := b.open()
	if err != nil {
		return nil, err
	}
	defer root.Close()
	return root.Open(name)
}

// ReadString returns the content of name.
func (b *FS) ReadString(name string) (string, error) {
	f, err := b.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}

// List returns the names of all blobs.
func (b *FS) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading uploads directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Ext returns the lower-cased extension of name without the dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
