package sdl

import (
	"context"
	"slices"
	"strings"

	language "github.com/hanpama/beacon/internal/language"
)

// Bundle is the merged document of all discovered sources.
type Bundle struct {
	Document *language.SchemaDocument
	Sources  []*SourceMetadata
}

// Load reads every source in file path order, parses it and merges the
// results. Parse errors and duplicate definitions across sources are
// reported together as a ValidationError.
func Load(ctx context.Context, disc Discovery) (*Bundle, error) {
	metas, err := disc.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(metas, func(a, b *SourceMetadata) int {
		return strings.Compare(a.FilePath, b.FilePath)
	})

	var violations ValidationError
	doc := &language.SchemaDocument{}
	for _, m := range metas {
		content, err := disc.ReadSource(ctx, m.Name)
		if err != nil {
			return nil, err
		}
		part, err := language.ParseSchema(m.FilePath, content)
		if err != nil {
			violations = append(violations, violationParse(m.FilePath, err))
			continue
		}
		doc.Merge(part)
	}

	seenTypes := make(map[string]bool)
	for _, def := range doc.Definitions {
		if seenTypes[def.Name] {
			violations = append(violations, violationDuplicateType(def.Name, def.Position))
		}
		seenTypes[def.Name] = true
	}
	seenDirectives := make(map[string]bool)
	for _, dir := range doc.Directives {
		if seenDirectives[dir.Name] {
			violations = append(violations, violationDuplicateDirective(dir.Name, dir.Position))
		}
		seenDirectives[dir.Name] = true
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return &Bundle{Document: doc, Sources: metas}, nil
}
