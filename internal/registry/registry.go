package registry

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vk/sectiongrid/internal/adapter"
	"github.com/vk/sectiongrid/internal/analysis"
	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/units"
)

// Module is implemented by every package contributing Functions.
type Module interface {
	Register(r *Registry)
}

// Factory creates a fresh Function instance configured for a unit system.
type Factory func(sys units.System) function.Function

// Registry holds the Function factories of one application instance.
type Registry struct {
	factories map[string]Factory
	adapters  *adapter.Registry
	engine    analysis.Engine
}

// New creates a registry using the given codecs and analysis engine.
func New(adapters *adapter.Registry, engine analysis.Engine) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		adapters:  adapters,
		engine:    engine,
	}
}

func (r *Registry) Adapters() *adapter.Registry { return r.adapters }
func (r *Registry) Engine() analysis.Engine     { return r.engine }

// RegisterFunction adds a factory under name. Registering a name twice is a
// programming error and panics.
func (r *Registry) RegisterFunction(name string, f Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("function with name '%s' already registered", name))
	}
	slog.Debug("Registering function.", "name", name)
	r.factories[name] = f
}

// New instantiates the named Function.
func (r *Registry) New(name string, sys units.System) (function.Function, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	return f(sys), nil
}

// Names lists the registered Function names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Catalogue returns the metadata of every Function ordered the way a host
// toolbar groups them: by category, subcategory, then name.
func (r *Registry) Catalogue() []function.Info {
	out := make([]function.Info, 0, len(r.factories))
	for _, f := range r.factories {
		out = append(out, f(units.MetricMillimetre).Info())
	}
	slices.SortFunc(out, func(a, b function.Info) int {
		return cmp.Or(
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(a.Subcategory, b.Subcategory),
			cmp.Compare(a.Name, b.Name),
		)
	})
	return out
}
