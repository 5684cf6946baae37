// Package store discovers raw build documents. It walks a directory tree
// and dispatches every recognized file to a format loader; registered
// producer functions contribute computed documents on top.
package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/firmforge/internal/ctxlog"
	"github.com/vk/firmforge/internal/document"
)

// Loader parses one storage format into raw documents.
type Loader interface {
	// Extensions lists the file extensions the loader claims, with dots.
	Extensions() []string
	// Load parses one file. name is the document identity, path the
	// location reported in errors.
	Load(ctx context.Context, name, path string, src []byte) (*document.Raw, error)
}

// Producer synthesizes a document at scan time. Producers cover documents
// that are computed rather than authored, such as builds generated from an
// upstream board matrix.
type Producer func(ctx context.Context) (*document.Raw, error)

// Store scans a document tree with a fixed set of format loaders.
type Store struct {
	loaders   map[string]Loader
	producers map[string]Producer
}

// New builds a store from the given loaders. Two loaders claiming the same
// extension is a programming error.
func New(loaders ...Loader) *Store {
	s := &Store{
		loaders:   make(map[string]Loader),
		producers: make(map[string]Producer),
	}
	for _, loader := range loaders {
		for _, ext := range loader.Extensions() {
			if ext == "" || !strings.HasPrefix(ext, ".") {
				panic(fmt.Sprintf("store: invalid extension %q", ext))
			}
			if _, taken := s.loaders[ext]; taken {
				panic(fmt.Sprintf("store: duplicate loader for extension %q", ext))
			}
			s.loaders[ext] = loader
		}
	}
	return s
}

// RegisterProducer adds a computed document under the given identity.
func (s *Store) RegisterProducer(name string, fn Producer) error {
	if name == "" {
		return fmt.Errorf("producer name must not be empty")
	}
	if _, taken := s.producers[name]; taken {
		return fmt.Errorf("duplicate producer %q", name)
	}
	s.producers[name] = fn
	return nil
}

// Scan walks root, loads every document file, then invokes the producers.
// Document identities are the slash-separated paths relative to root without
// extension; producers use their registered name. Scan fails on the first
// unreadable or unparseable file and on any identity collision.
func (s *Store) Scan(ctx context.Context, root string) ([]*document.Raw, error) {
	logger := ctxlog.FromContext(ctx)

	var raws []*document.Raw
	byName := make(map[string]*document.Raw)

	add := func(raw *document.Raw) error {
		if existing, ok := byName[raw.Name]; ok {
			return fmt.Errorf("duplicate document %q (%s and %s)", raw.Name, existing.Source, raw.Source)
		}
		byName[raw.Name] = raw
		raws = append(raws, raw)
		return nil
	}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		loader, ok := s.loaders[filepath.Ext(path)]
		if !ok {
			logger.Debug("skipping unrecognized file", "path", path)
			return nil
		}

		name, err := identity(root, path)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read document file: %w", err)
		}
		raw, err := loader.Load(ctx, name, path, src)
		if err != nil {
			return err
		}
		return add(raw)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	for _, name := range s.producerNames() {
		raw, err := s.producers[name](ctx)
		if err != nil {
			return nil, fmt.Errorf("producer %q: %w", name, err)
		}
		raw.Name = name
		raw.Source = "producer:" + name
		if err := add(raw); err != nil {
			return nil, err
		}
		logger.Debug("produced document", "name", name)
	}

	logger.Debug("document scan complete", "root", root, "documents", len(raws))
	return raws, nil
}

// identity derives a document name from its file path: the path relative to
// the scan root, slash separated, without the extension.
func identity(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve document identity for %s: %w", path, err)
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel)), nil
}

func (s *Store) producerNames() []string {
	names := make([]string, 0, len(s.producers))
	for name := range s.producers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
