package sdl

import (
	"context"
)

// SourceMetadata describes one SDL source.
type SourceMetadata struct {
	// Name identifies the source for ReadSource, e.g. "users".
	Name string
	// FilePath is the slash-separated path relative to the schema root. It
	// orders sources and appears in violations.
	FilePath string
}

// Discovery lists and reads SDL sources.
type Discovery interface {
	ListSources(ctx context.Context) ([]*SourceMetadata, error)
	ReadSource(ctx context.Context, name string) (string, error)
}
