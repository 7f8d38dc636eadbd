// Package dataset stores uploaded trick videos on disk under
// <root>/<category>/<trick>/<filename>.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInvalidName is returned for category, trick or file names that are empty
// or would escape their directory.
var ErrInvalidName = errors.New("invalid name")

// Catalog maps category -> trick -> ordered file locators.
type Catalog map[string]map[string][]string

// Library is a directory tree of uploaded videos.
type Library struct {
	root string
}

// New creates a Library rooted at root, creating the directory if needed.
func New(root string) (*Library, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create dataset dir: %w", err)
	}
	return &Library{root: root}, nil
}

// Root returns the library root directory.
func (l *Library) Root() string {
	return l.root
}

// Path returns the on-disk path of a stored file without checking it exists.
func (l *Library) Path(category, trick, filename string) (string, error) {
	for _, name := range []string{category, trick, filename} {
		if err := validName(name); err != nil {
			return "", err
		}
	}
	return filepath.Join(l.root, category, trick, filename), nil
}

// Save writes r to <root>/<category>/<trick>/<filename>, replacing any
// existing file, and returns the stored path.
func (l *Library) Save(category, trick, filename string, r io.Reader) (string, error) {
	dest, err := l.Path(category, trick, filename)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("create trick dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write video: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close video: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("store video: %w", err)
	}
	return dest, nil
}

// List returns the stored filenames for (category, trick), sorted.
// A missing directory yields an empty list.
func (l *Library) List(category, trick string) ([]string, error) {
	for _, name := range []string{category, trick} {
		if err := validName(name); err != nil {
			return nil, err
		}
	}
	return listFiles(filepath.Join(l.root, category, trick))
}

// Catalog returns every stored file as "<prefix>/<category>/<trick>/<file>".
// Categories with no trick directories map to an empty trick map.
func (l *Library) Catalog(prefix string) (Catalog, error) {
	prefix = strings.TrimSuffix(prefix, "/")
	catalog := Catalog{}

	categories, err := listDirs(l.root)
	if err != nil {
		return nil, err
	}

	for _, category := range categories {
		tricks, err := listDirs(filepath.Join(l.root, category))
		if err != nil {
			return nil, err
		}

		catalog[category] = make(map[string][]string, len(tricks))
		for _, trick := range tricks {
			files, err := listFiles(filepath.Join(l.root, category, trick))
			if err != nil {
				return nil, err
			}

			locators := make([]string, 0, len(files))
			for _, f := range files {
				locators = append(locators, prefix+"/"+path.Join(category, trick, f))
			}
			catalog[category][trick] = locators
		}
	}

	return catalog, nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func listDirs(dir string) ([]string, error) {
	return readDir(dir, true)
}

func listFiles(dir string) ([]string, error) {
	return readDir(dir, false)
}

func readDir(dir string, dirs bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() == dirs && (dirs || e.Type().IsRegular()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
