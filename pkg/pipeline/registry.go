// Package pipeline wires scoring strategies together: a registry of the
// strategies available per record variant, an engine that runs them side by
// side, and the service that applies the selected one.
package pipeline

import (
	"fmt"
	"sort"
	"sync"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

type key struct {
	variant interfaces.Variant
	name    string
}

// Registry manages the scoring strategies and tracks which are enabled.
type Registry struct {
	mu         sync.RWMutex
	strategies map[key]interfaces.Scorer
	enabled    map[key]bool
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[key]interfaces.Scorer),
		enabled:    make(map[key]bool),
	}
}

// Register adds a strategy under its variant and name. It is enabled by default.
// Returns an error if the same name is already registered for the variant.
func (r *Registry) Register(s interfaces.Scorer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{s.Variant(), s.Name()}
	if _, exists := r.strategies[k]; exists {
		return fmt.Errorf("pipeline: %s strategy %q is already registered", k.variant, k.name)
	}

	r.strategies[k] = s
	r.enabled[k] = true
	return nil
}

// Get returns a strategy, or nil if none is registered.
func (r *Registry) Get(variant interfaces.Variant, name string) interfaces.Scorer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.strategies[key{variant, name}]
}

// List returns the sorted strategy names registered for a variant.
func (r *Registry) List(variant interfaces.Variant) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for k := range r.strategies {
		if k.variant == variant {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names
}

// SetEnabled enables or disables a strategy.
// Returns an error if the strategy is not registered.
func (r *Registry) SetEnabled(variant interfaces.Variant, name string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{variant, name}
	if _, exists := r.strategies[k]; !exists {
		return fmt.Errorf("pipeline: %s strategy %q is not registered", variant, name)
	}
	r.enabled[k] = enabled
	return nil
}

// IsEnabled reports whether the strategy is enabled.
func (r *Registry) IsEnabled(variant interfaces.Variant, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[key{variant, name}]
}

// Enabled returns the enabled strategies of a variant sorted by name.
func (r *Registry) Enabled(variant interfaces.Variant) []interfaces.Scorer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []interfaces.Scorer
	for k, s := range r.strategies {
		if k.variant == variant && r.enabled[k] {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}
