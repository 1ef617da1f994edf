package directive

import (
	"reflect"
	"slices"
	"sync"
)

// Constructor builds a fresh directive value. Registering a constructor whose
// value lacks Name() is allowed; resolving it fails.
type Constructor func() any

// Registry maps class identifiers to constructors.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]Constructor)}
}

// Register records ctor under the Go package path and type name of the
// value it builds and returns the resulting class identifier.
func (r *Registry) Register(ctor Constructor) (string, error) {
	pkg, name, err := typeIdentity(ctor())
	if err != nil {
		return "", err
	}
	return r.add(pkg+"."+name, ctor)
}

// RegisterIn records ctor under an explicit namespace, keeping the type name
// of the value it builds.
func (r *Registry) RegisterIn(namespace string, ctor Constructor) (string, error) {
	if namespace == "" {
		return "", errEmptyNamespace()
	}
	_, name, err := typeIdentity(ctor())
	if err != nil {
		return "", err
	}
	return r.add(namespace+"."+name, ctor)
}

// RegisterClass records ctor under an explicit class identifier.
func (r *Registry) RegisterClass(classID string, ctor Constructor) error {
	_, err := r.add(classID, ctor)
	return err
}

func (r *Registry) add(classID string, ctor Constructor) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.classes[classID]; dup {
		return "", errAlreadyRegistered(classID)
	}
	r.classes[classID] = ctor
	return classID, nil
}

func (r *Registry) Lookup(classID string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.classes[classID]
	return ctor, ok
}

// Classes lists the registered identifiers in sorted order.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.classes))
	for id := range r.classes {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func typeIdentity(v any) (pkg, name string, err error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" || t.PkgPath() == "" {
		return "", "", errUnnamedType(v)
	}
	return t.PkgPath(), t.Name(), nil
}

var defaultRegistry = NewRegistry()

// DefaultRegistry is the registry filled by Register and RegisterIn.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds ctor to the default registry. It is meant to be called from
// init and panics on duplicate or unnamed types.
func Register(ctor Constructor) {
	if _, err := defaultRegistry.Register(ctor); err != nil {
		panic(err)
	}
}

// RegisterIn adds ctor to the default registry under namespace.
func RegisterIn(namespace string, ctor Constructor) {
	if _, err := defaultRegistry.RegisterIn(namespace, ctor); err != nil {
		panic(err)
	}
}
