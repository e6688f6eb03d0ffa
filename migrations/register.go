package migrations

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"
)

// Source is a named set of migrations laid out the way go-persistence-bun
// expects: PostgreSQL files at the root and SQLite variants under sqlite/.
type Source struct {
	Name string
	FS   fs.FS
}

// UpFiles lists the forward migrations for dialect in apply order.
func (s Source) UpFiles(dialect string) ([]string, error) {
	dir, err := dialectDir(dialect)
	if err != nil {
		return nil, err
	}
	files, err := fs.Glob(s.FS, path.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

var (
	mu      sync.RWMutex
	sources []Source
)

// Register adds a migration source. Hosts extending the profile field tables
// register their own sources next to the built-in "profilefields" one.
// Registering a name twice is an error.
func Register(name string, fsys fs.FS) error {
	if name == "" || fsys == nil {
		return fmt.Errorf("go-profilefields: migration source needs a name and filesystem")
	}
	mu.Lock()
	defer mu.Unlock()
	for _, src := range sources {
		if src.Name == name {
			return fmt.Errorf("go-profilefields: migration source %q already registered", name)
		}
	}
	sources = append(sources, Source{Name: name, FS: fsys})
	return nil
}

// Sources returns the registered sources in registration order.
func Sources() []Source {
	mu.RLock()
	defer mu.RUnlock()
	return append([]Source(nil), sources...)
}

func dialectDir(dialect string) (string, error) {
	name, err := normalizeDialect(dialect)
	if err != nil {
		return "", err
	}
	if name == "sqlite" {
		return "sqlite", nil
	}
	return ".", nil
}
