package directive

import (
	"reflect"
	"slices"
	"strings"
	"sync"
)

// ConfigKey holds custom directive namespaces in configuration.
const ConfigKey = "namespaces.directives"

// BuiltinNamespace is the package path of the bundled directives.
const BuiltinNamespace = "github.com/hanpama/beacon/internal/directives"

// ConfigSource reads configuration values. *viper.Viper satisfies it.
type ConfigSource interface {
	Get(key string) any
}

// NamespaceProvider contributes namespaces to search, ahead of the
// built-in one.
type NamespaceProvider func() []string

type providerEntry struct{ fn NamespaceProvider }

var (
	providersMu sync.Mutex
	providers   []*providerEntry
)

// RegisterNamespaces adds a process-wide provider, typically from a plugin
// package init. Providers run once per Factory construction, in registration
// order, ahead of those passed with WithNamespaceProviders.
func RegisterNamespaces(p NamespaceProvider) (unregister func()) {
	e := &providerEntry{fn: p}
	providersMu.Lock()
	providers = append(providers, e)
	providersMu.Unlock()
	return func() {
		providersMu.Lock()
		defer providersMu.Unlock()
		providers = slices.DeleteFunc(providers, func(x *providerEntry) bool { return x == e })
	}
}

func registeredProviders() []NamespaceProvider {
	providersMu.Lock()
	defer providersMu.Unlock()
	out := make([]NamespaceProvider, len(providers))
	for i, e := range providers {
		out[i] = e.fn
	}
	return out
}

// Namespaces builds the search order: configured namespaces, then those of
// each provider, then builtin. Nested lists are flattened and empty entries
// dropped. Duplicates are kept.
func Namespaces(cfg ConfigSource, providers []NamespaceProvider, builtin string) []string {
	var out []string
	if cfg != nil {
		out = appendNamespaces(out, cfg.Get(ConfigKey))
	}
	for _, p := range providers {
		if p == nil {
			continue
		}
		out = appendNamespaces(out, p())
	}
	return appendNamespaces(out, builtin)
}

func appendNamespaces(out []string, v any) []string {
	switch v := v.(type) {
	case nil:
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return out
		}
		return append(out, v)
	case []string:
		for _, s := range v {
			out = appendNamespaces(out, s)
		}
		return out
	case []any:
		for _, item := range v {
			out = appendNamespaces(out, item)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			out = appendNamespaces(out, rv.Index(i).Interface())
		}
	}
	return out
}
