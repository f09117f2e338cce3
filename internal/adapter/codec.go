package adapter

import (
	"fmt"

	"github.com/vk/sectiongrid/internal/host"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Codec marshals values of one parameter kind across the host boundary.
type Codec struct {
	Kind param.Kind
	// Type is the cty type values of this kind take in the host.
	Type cty.Type
	// Placeholder builds the host descriptor for a parameter of this kind.
	Placeholder func(param.Attribute) host.ParamSpec
	Read        func(cty.Value) (any, error)
	Write       func(any) (cty.Value, error)
	// Scale rescales a value between display and base units. Nil for kinds
	// that carry no quantity.
	Scale func(v any, fn func(float64) float64) any
}

// GoCodec builds the codec of a kind whose Go values are T. The cty type is
// implied from T through its `cty` struct tags.
func GoCodec[T any](kind param.Kind) Codec {
	var zero T
	ty, err := gocty.ImpliedType(zero)
	if err != nil {
		panic(fmt.Sprintf("adapter: cannot imply cty type for kind '%s': %v", kind, err))
	}
	return Codec{
		Kind:        kind,
		Type:        ty,
		Placeholder: placeholder(kind),
		Read: func(v cty.Value) (any, error) {
			if v.IsNull() {
				return nil, fmt.Errorf("null %s", kind)
			}
			if !v.IsWhollyKnown() {
				return nil, fmt.Errorf("unknown %s", kind)
			}
			cv, err := convert.Convert(v, ty)
			if err != nil {
				return nil, fmt.Errorf("cannot use %s as %s: %w", v.Type().FriendlyName(), kind, err)
			}
			var out T
			if err := gocty.FromCtyValue(cv, &out); err != nil {
				return nil, err
			}
			return out, nil
		},
		Write: func(v any) (cty.Value, error) {
			tv, ok := v.(T)
			if !ok {
				return cty.NilVal, fmt.Errorf("expected %T for %s, got %T", zero, kind, v)
			}
			return gocty.ToCtyValue(tv, ty)
		},
	}
}

// WithScale returns a copy of c that rescales values with fn.
func (c Codec) WithScale(fn func(v any, f func(float64) float64) any) Codec {
	c.Scale = fn
	return c
}

func placeholder(kind param.Kind) func(param.Attribute) host.ParamSpec {
	return func(a param.Attribute) host.ParamSpec {
		access := host.Item
		if a.Cardinality == param.List {
			access = host.List
		}
		return host.ParamSpec{
			Key:         a.Name,
			Name:        a.Label(),
			NickName:    a.ShortName,
			Description: a.Description,
			TypeName:    string(kind),
			Access:      access,
			Optional:    a.Optional,
		}
	}
}
