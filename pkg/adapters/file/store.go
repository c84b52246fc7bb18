// Package file stores designs as documents in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/schema"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// extensions are tried in order by Load. Save always writes JSON.
var extensions = []string{".json", ".yaml", ".yml"}

// Store implements ports.DesignStore on the local filesystem.
// Designs written by Save are indented JSON; hand-written YAML designs placed in
// the directory are read as well.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".automaton/designs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".automaton", "designs")
	}
	return &Store{BasePath: basePath}
}

func checkID(id string) error {
	if !idPattern.MatchString(id) || strings.Contains(id, "..") {
		return fmt.Errorf("invalid design id %q", id)
	}
	return nil
}

// Save persists the design atomically: it writes a temporary file in the same
// directory, syncs it and renames it over the destination.
func (s *Store) Save(ctx context.Context, id string, code *schema.Code) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure design directory: %w", err)
	}

	data, err := code.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal design: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+id+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename does not replace an existing file on Windows.
	destPath := filepath.Join(s.BasePath, id+".json")
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing design file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	// A YAML file with the same id would shadow nothing but confuse List.
	for _, ext := range extensions[1:] {
		_ = os.Remove(filepath.Join(s.BasePath, id+ext))
	}
	return nil
}

// Load reads a design document. JSON and YAML files are accepted.
func (s *Store) Load(ctx context.Context, id string) (*schema.Code, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	for _, ext := range extensions {
		data, err := os.ReadFile(filepath.Join(s.BasePath, id+ext))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read design file: %w", err)
		}
		code, err := schema.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("design %s: %w", id, err)
		}
		return code, nil
	}
	return nil, domain.ErrDesignNotFound
}

// Delete removes every document stored for the design.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	for _, ext := range extensions {
		err := os.Remove(filepath.Join(s.BasePath, id+ext))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete design file: %w", err)
		}
	}
	return nil
}

// List returns the ids of all design documents in the directory.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || !slices.Contains(extensions, ext) || strings.HasPrefix(name, "tmp-") {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
