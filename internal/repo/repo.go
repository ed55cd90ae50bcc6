// Package repo initialises and discovers docver repositories.
//
// A repository is a .docver directory holding one or more SQLite databases
// and, for each, an uploads directory with the blobs its rows reference:
//
//	.docver/docver.db        uploads/
//	.docver/docver-docs.db   uploads-docs/
//
// Discovery mirrors git: start in the working directory and walk up until a
// .docver directory containing the requested database is found.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jpl-au/docver/internal/store"
)

const (
	// Dir is the repository directory name.
	Dir = ".docver"
	// DBFile is the default database filename.
	DBFile = "docver.db"
	// UploadsDir is the default uploads directory name.
	UploadsDir = "uploads"
)

// ErrNotInitialised is returned when no repository is found.
var ErrNotInitialised = errors.New("docver not initialised (run 'docver init')")

// Paths locates the files of one database within a repository.
type Paths struct {
	Root    string // the .docver directory
	DB      string // database file
	Uploads string // blob directory
}

// DBFileName returns the database filename for a name. Empty returns the
// default; "docs" returns "docver-docs.db"; names ending in ".db" are kept.
func DBFileName(name string) string {
	if name == "" {
		return DBFile
	}
	if strings.HasSuffix(name, ".db") {
		return name
	}
	return "docver-" + name + ".db"
}

// UploadsDirName returns the uploads directory name for a database name.
func UploadsDirName(name string) string {
	name = strings.TrimSuffix(strings.TrimPrefix(name, "docver-"), ".db")
	if name == "" || name == "docver" {
		return UploadsDir
	}
	return UploadsDir + "-" + name
}

// PathsIn returns the paths of database db inside base/.docver.
func PathsIn(base, db string) Paths {
	root := filepath.Join(base, Dir)
	return Paths{
		Root:    root,
		DB:      filepath.Join(root, DBFileName(db)),
		Uploads: filepath.Join(root, UploadsDirName(db)),
	}
}

const gitignore = `# docver - uploaded blobs and local settings are not committed
uploads*/
config.yaml
*.db-wal
*.db-shm
`

// Init creates a repository in dir (current directory when empty) with
// database db. An existing database is an error unless force is set, in
// which case it is recreated empty; existing uploads are kept.
func Init(force bool, db, dir string) (Paths, error) {
	if dir == "" {
		dir = "."
	}
	p := PathsIn(dir, db)

	if _, err := os.Stat(p.DB); err == nil {
		if !force {
			return p, fmt.Errorf("database %s already exists (use --force to reinitialise)", DBFileName(db))
		}
		for _, f := range []string{p.DB, p.DB + "-wal", p.DB + "-shm"} {
			if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
				return p, fmt.Errorf("remove database: %w", err)
			}
		}
	}

	if err := os.MkdirAll(p.Uploads, 0755); err != nil {
		return p, fmt.Errorf("create directory: %w", err)
	}

	s, err := store.Open(p.DB)
	if err != nil {
		return p, fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.Init(); err != nil {
		return p, fmt.Errorf("init store: %w", err)
	}

	gi := filepath.Join(p.Root, ".gitignore")
	if _, err := os.Stat(gi); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(gi, []byte(gitignore), 0644); err != nil {
			return p, fmt.Errorf("write gitignore: %w", err)
		}
	}
	return p, nil
}

// Discover walks up from the working directory looking for database db.
func Discover(db string) (Paths, error) {
	dir, err := os.Getwd()
	if err != nil {
		return Paths{}, fmt.Errorf("get working directory: %w", err)
	}

	for {
		p := PathsIn(dir, db)
		if _, err := os.Stat(p.DB); err == nil {
			return p, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Paths{}, ErrNotInitialised
		}
		dir = parent
	}
}

// Resolve returns the paths for db under dir when dir is set, otherwise
// discovers them. The database must exist.
func Resolve(db, dir string) (Paths, error) {
	if dir == "" {
		return Discover(db)
	}
	p := PathsIn(dir, db)
	if _, err := os.Stat(p.DB); err != nil {
		return Paths{}, fmt.Errorf("%w: %s", ErrNotInitialised, p.DB)
	}
	return p, nil
}

// DB describes a database found in a repository.
type DB struct {
	Name    string `json:"name"` // value for --db; empty for the default
	File    string `json:"file"`
	Uploads string `json:"uploads"`
}

// ListDBs returns the databases in the repository found from dir (the
// working directory when empty), default first and then by name.
func ListDBs(dir string) ([]DB, error) {
	root, err := findRoot(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	var dbs []DB
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasPrefix(n, "docver") || !strings.HasSuffix(n, ".db") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(n, "docver"), "-"), ".db")
		dbs = append(dbs, DB{Name: name, File: n, Uploads: UploadsDirName(n)})
	}
	// ReadDir sorts by filename; "docver.db" sorts after "docver-*.db".
	slices.SortStableFunc(dbs, func(a, b DB) int {
		switch {
		case a.Name == "" && b.Name != "":
			return -1
		case b.Name == "" && a.Name != "":
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return dbs, nil
}

// findRoot returns the .docver directory under dir, or the nearest one
// above the working directory when dir is empty.
func findRoot(dir string) (string, error) {
	if dir != "" {
		root := filepath.Join(dir, Dir)
		if _, err := os.Stat(root); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotInitialised, root)
		}
		return root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		root := filepath.Join(wd, Dir)
		if fi, err := os.Stat(root); err == nil && fi.IsDir() {
			return root, nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return "", ErrNotInitialised
		}
		wd = parent
	}
}
