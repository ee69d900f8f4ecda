package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/slotframe/pkg/errors"
	"github.com/matzehuels/slotframe/pkg/page"
)

// FileStore keeps one page file per page in a directory. Any supported
// extension is read; new pages are written as TOML.
type FileStore struct {
	dir string
}

// extensions in lookup order.
var extensions = []string{".toml", ".yaml", ".yml", ".json"}

// NewFileStore opens the directory dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the page directory.
func (s *FileStore) Dir() string { return s.dir }

// Get implements Store. A file whose page name differs from its file name
// fails with errors.ErrCodeInvalidPage.
func (s *FileStore) Get(ctx context.Context, name string) (*page.Page, error) {
	path, err := s.find(name)
	if err != nil {
		return nil, err
	}
	p, err := page.Import(path)
	if err != nil {
		return nil, err
	}
	if p.Name != name {
		return nil, errors.New(errors.ErrCodeInvalidPage, "%s holds page %q, want %q", filepath.Base(path), p.Name, name)
	}
	return p, nil
}

// List implements Store.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !slices.Contains(extensions, ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if errors.ValidatePageName(name) != nil || slices.Contains(names, name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Put implements Store. An existing file keeps its format.
func (s *FileStore) Put(ctx context.Context, p *page.Page) error {
	if err := p.Validate(); err != nil {
		return err
	}
	path, err := s.find(p.Name)
	if errors.Is(err, errors.ErrCodePageNotFound) {
		path = filepath.Join(s.dir, p.Name+".toml")
	} else if err != nil {
		return err
	}
	return page.Export(p, path)
}

// Close does nothing for file store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) find(name string) (string, error) {
	if err := errors.ValidatePageName(name); err != nil {
		return "", err
	}
	for _, ext := range extensions {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.New(errors.ErrCodePageNotFound, "page %q not found", name)
}

var _ Store = (*FileStore)(nil)
