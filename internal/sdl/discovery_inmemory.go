package sdl

import (
	"context"
	"fmt"
)

type InMemorySource struct {
	Name    string
	Content string
}

// InMemoryDiscovery serves sources held in memory, mostly for tests.
type InMemoryDiscovery struct {
	metas    map[string]*SourceMetadata
	contents map[string]string
}

func NewInMemoryDiscovery(sources []InMemorySource) *InMemoryDiscovery {
	d := &InMemoryDiscovery{
		metas:    make(map[string]*SourceMetadata),
		contents: make(map[string]string),
	}
	for _, s := range sources {
		d.metas[s.Name] = &SourceMetadata{Name: s.Name, FilePath: s.Name + ".graphql"}
		d.contents[s.Name] = s.Content
	}
	return d
}

func (d *InMemoryDiscovery) ListSources(ctx context.Context) ([]*SourceMetadata, error) {
	out := make([]*SourceMetadata, 0, len(d.metas))
	for _, m := range d.metas {
		out = append(out, m)
	}
	return out, nil
}

func (d *InMemoryDiscovery) ReadSource(ctx context.Context, name string) (string, error) {
	content, ok := d.contents[name]
	if !ok {
		return "", fmt.Errorf("source %q not found", name)
	}
	return content, nil
}
