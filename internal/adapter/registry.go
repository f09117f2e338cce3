package adapter

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/vk/sectiongrid/internal/host"
	"github.com/vk/sectiongrid/internal/model"
	"github.com/vk/sectiongrid/internal/param"
)

// Registry maps parameter kinds to codecs.
type Registry struct {
	mu     sync.RWMutex
	codecs map[param.Kind]Codec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[param.Kind]Codec)}
}

// Register adds c. Registering a kind twice is a programming error and
// panics.
func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codecs[c.Kind]; exists {
		panic(fmt.Sprintf("adapter for kind '%s' already registered", c.Kind))
	}
	slog.Debug("Registering adapter.", "kind", c.Kind, "type", c.Type.FriendlyName())
	r.codecs[c.Kind] = c
}

// Lookup returns the codec of kind, or a *MissingAdapterError.
func (r *Registry) Lookup(kind param.Kind) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[kind]
	if !ok {
		return Codec{}, &MissingAdapterError{Kind: kind}
	}
	return c, nil
}

// Kinds lists the registered kinds in sorted order.
func (r *Registry) Kinds() []param.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]param.Kind, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Placeholder builds the host descriptor of p.
func (r *Registry) Placeholder(p param.Parameter) (host.ParamSpec, error) {
	c, err := r.Lookup(p.Kind())
	if err != nil {
		return host.ParamSpec{}, fmt.Errorf("parameter %q: %w", p.Attr().Name, err)
	}
	return c.Placeholder(*p.Attr()), nil
}

func scaleFloat(v any, fn func(float64) float64) any {
	if f, ok := v.(float64); ok {
		return fn(f)
	}
	return v
}

func scalePoint(v any, fn func(float64) float64) any {
	if p, ok := v.(model.Point); ok {
		return model.Point{X: fn(p.X), Y: fn(p.Y)}
	}
	return v
}

// Default returns a registry holding the codecs of every built-in kind.
func Default() *Registry {
	r := NewRegistry()
	r.Register(GoCodec[float64](param.KindNumber))
	r.Register(GoCodec[int](param.KindInteger))
	r.Register(GoCodec[bool](param.KindBool))
	r.Register(GoCodec[string](param.KindText))
	for _, k := range []param.Kind{
		param.KindLength, param.KindForce, param.KindStress,
		param.KindStrain, param.KindMoment, param.KindAngle,
	} {
		r.Register(GoCodec[float64](k).WithScale(scaleFloat))
	}
	r.Register(GoCodec[model.Point](param.KindPoint).WithScale(scalePoint))
	r.Register(GoCodec[model.Rebar](param.KindRebar))
	r.Register(GoCodec[model.Material](param.KindMaterial))
	r.Register(GoCodec[model.Layer](param.KindLayer))
	r.Register(GoCodec[model.PreLoad](param.KindPreLoad))
	r.Register(GoCodec[model.Action](param.KindAction))
	return r
}
