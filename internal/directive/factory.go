package directive

import (
	"maps"
	"slices"
	"sync"

	language "github.com/hanpama/beacon/internal/language"
	"github.com/rs/zerolog"
)

// Factory creates directive values for schema nodes. It owns the namespace
// search order and the name to class identifier cache of one schema build.
type Factory struct {
	registry   *Registry
	namespaces []string
	logger     zerolog.Logger

	mu       sync.RWMutex
	resolved map[string]string
}

type factoryOptions struct {
	registry  *Registry
	config    ConfigSource
	providers []NamespaceProvider
	builtin   string
	logger    zerolog.Logger
}

// Option configures NewFactory.
type Option func(*factoryOptions)

// WithRegistry replaces the default registry.
func WithRegistry(r *Registry) Option {
	return func(o *factoryOptions) { o.registry = r }
}

// WithConfig reads custom namespaces from cfg under ConfigKey.
func WithConfig(cfg ConfigSource) Option {
	return func(o *factoryOptions) { o.config = cfg }
}

// WithNamespaceProviders adds providers after the process-wide ones.
func WithNamespaceProviders(p ...NamespaceProvider) Option {
	return func(o *factoryOptions) { o.providers = append(o.providers, p...) }
}

// WithBuiltinNamespace replaces BuiltinNamespace as the last namespace
// searched.
func WithBuiltinNamespace(ns string) Option {
	return func(o *factoryOptions) { o.builtin = ns }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *factoryOptions) { o.logger = l }
}

// NewFactory computes the namespace search order once and returns an empty
// cache.
func NewFactory(opts ...Option) *Factory {
	o := factoryOptions{
		registry: defaultRegistry,
		builtin:  BuiltinNamespace,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	providers := append(registeredProviders(), o.providers...)
	return &Factory{
		registry:   o.registry,
		namespaces: Namespaces(o.config, providers, o.builtin),
		logger:     o.logger,
		resolved:   make(map[string]string),
	}
}

// Namespaces returns the search order, highest priority first.
func (f *Factory) Namespaces() []string { return slices.Clone(f.namespaces) }

// Registry returns the registry the factory resolves against.
func (f *Factory) Registry() *Registry { return f.registry }

// Create returns a new directive value for name. When node is not nil the
// value is bound to the first annotation of that name on node.
func (f *Factory) Create(name string, node language.Node) (Directive, error) {
	var dn *language.Directive
	if node != nil {
		dn = node.NodeDirectives().ForName(name)
	}
	return f.create(name, dn, node)
}

// create resolves name and binds the value to dn on node. A nil dn on a
// non-nil node binds a bare annotation without arguments.
func (f *Factory) create(name string, dn *language.Directive, node language.Node) (Directive, error) {
	d, err := f.resolve(name)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d, err = f.createOrFail(name)
		if err != nil {
			return nil, err
		}
	}
	if node != nil {
		if h, ok := d.(Hydrator); ok {
			if dn == nil {
				dn = &language.Directive{Name: name}
			}
			h.Hydrate(dn, node)
		}
	}
	return d, nil
}

// resolve instantiates a cached class. A nil directive with a nil error
// means name has not been resolved yet.
func (f *Factory) resolve(name string) (Directive, error) {
	f.mu.RLock()
	classID, ok := f.resolved[name]
	f.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	ctor, ok := f.registry.Lookup(classID)
	if !ok {
		return nil, errNotRegistered(name, classID)
	}
	f.logger.Debug().Str("directive", name).Str("class", classID).Bool("cached", true).Msg("directive resolved")
	return instantiate(classID, ctor)
}

func (f *Factory) createOrFail(name string) (Directive, error) {
	for _, ns := range f.namespaces {
		classID := ClassID(ns, name)
		ctor, ok := f.registry.Lookup(classID)
		if !ok {
			continue
		}
		d, err := instantiate(classID, ctor)
		if err != nil {
			return nil, err
		}
		f.AddResolved(name, classID)
		f.logger.Debug().Str("directive", name).Str("class", classID).Bool("cached", false).Msg("directive resolved")
		return d, nil
	}
	return nil, errNotFound(name)
}

func instantiate(classID string, ctor Constructor) (Directive, error) {
	d, ok := ctor().(Directive)
	if !ok {
		return nil, errNotADirective(classID)
	}
	return d, nil
}

// AddResolved records classID for name unless name is already recorded.
func (f *Factory) AddResolved(name, classID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.resolved[name]; !ok {
		f.resolved[name] = classID
	}
}

// SetResolved records classID for name, replacing any previous entry.
func (f *Factory) SetResolved(name, classID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolved[name] = classID
}

// ClearResolved forgets every recorded name. The next Create searches the
// namespaces again.
func (f *Factory) ClearResolved() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.resolved)
}

// Resolved returns a copy of the name to class identifier cache.
func (f *Factory) Resolved() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return maps.Clone(f.resolved)
}

// Definition parses the SDL definition shipped by the directive named name.
// It returns nil when the directive does not implement Definer.
func (f *Factory) Definition(name string) (*language.DirectiveDefinition, error) {
	d, err := f.Create(name, nil)
	if err != nil {
		return nil, err
	}
	definer, ok := d.(Definer)
	if !ok {
		return nil, nil
	}
	doc, err := language.ParseSchema("@"+name, definer.Definition())
	if err != nil {
		return nil, err
	}
	def := doc.Directives.ForName(name)
	if def == nil && len(doc.Directives) > 0 {
		def = doc.Directives[0]
	}
	return def, nil
}
