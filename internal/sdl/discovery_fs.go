package sdl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var schemaExtensions = map[string]bool{".graphql": true, ".graphqls": true, ".gql": true}

// FileSystemDiscovery finds SDL files below a root directory.
type FileSystemDiscovery struct {
	paths map[string]string
	metas map[string]*SourceMetadata
}

// NewFileSystemDiscovery walks rootDir for *.graphql, *.graphqls and *.gql
// files. Sources are named by their relative path without extension.
func NewFileSystemDiscovery(ctx context.Context, rootDir string) (*FileSystemDiscovery, error) {
	d := &FileSystemDiscovery{
		paths: make(map[string]string),
		metas: make(map[string]*SourceMetadata),
	}

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !schemaExtensions[filepath.Ext(entry.Name())] {
			return nil
		}
		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %q: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)
		name := strings.TrimSuffix(relPath, filepath.Ext(relPath))

		d.paths[name] = path
		d.metas[name] = &SourceMetadata{Name: name, FilePath: relPath}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk schema directory %q: %w", rootDir, err)
	}
	return d, nil
}

func (d *FileSystemDiscovery) ListSources(ctx context.Context) ([]*SourceMetadata, error) {
	out := make([]*SourceMetadata, 0, len(d.metas))
	for _, m := range d.metas {
		out = append(out, m)
	}
	return out, nil
}

func (d *FileSystemDiscovery) ReadSource(ctx context.Context, name string) (string, error) {
	fp, ok := d.paths[name]
	if !ok {
		return "", fmt.Errorf("source %q not found", name)
	}
	content, err := os.ReadFile(fp)
	if err != nil {
		return "", fmt.Errorf("failed to read source %q: %w", name, err)
	}
	return string(content), nil
}

// LoadDir discovers and loads every SDL file below rootDir.
func LoadDir(ctx context.Context, rootDir string) (*Bundle, error) {
	d, err := NewFileSystemDiscovery(ctx, rootDir)
	if err != nil {
		return nil, err
	}
	return Load(ctx, d)
}
