// Package viewer carries the authenticated caller through a request context.
package viewer

import (
	"context"
	"slices"
)

// Viewer is the caller a request runs on behalf of.
type Viewer struct {
	ID        string
	Abilities []string
}

// Can reports whether the viewer was granted ability.
func (v *Viewer) Can(ability string) bool {
	return v != nil && slices.Contains(v.Abilities, ability)
}

type key struct{}

func NewContext(parent context.Context, v *Viewer) context.Context {
	return context.WithValue(parent, key{}, v)
}

// FromContext returns the viewer stored in ctx. Anonymous requests yield
// false.
func FromContext(ctx context.Context) (*Viewer, bool) {
	v, ok := ctx.Value(key{}).(*Viewer)
	return v, ok && v != nil
}
