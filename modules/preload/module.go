// Package preload provides CreatePreLoad, which applies an initial force,
// strain or stress to a rebar layer.
//
// The Preload input keeps its name in every mode while its kind follows the
// mode. Wires into it are therefore dropped on a mode change: a wire carrying
// a force must not silently start feeding a strain.
package preload

import (
	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/model"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/registry"
	"github.com/vk/sectiongrid/internal/units"
	"github.com/vk/sectiongrid/internal/variable"
)

const Name = "CreatePreLoad"

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.RegisterFunction(Name, func(sys units.System) function.Function { return New(sys) })
}

type Mode int

const (
	Force Mode = iota
	Strain
	Stress
)

func (m Mode) String() string {
	switch m {
	case Force:
		return "Force"
	case Strain:
		return "Strain"
	case Stress:
		return "Stress"
	}
	return "Mode(?)"
}

// Function is CreatePreLoad.
type Function struct {
	function.Base
	*variable.Controller[Mode]

	layer  *param.TypedParameter[model.Layer]
	values map[Mode]*param.TypedParameter[float64]

	preload *param.TypedParameter[model.PreLoad]
}

func New(sys units.System) *Function {
	value := func(kind param.Kind, q units.Quantity, desc string) *param.TypedParameter[float64] {
		return param.New[float64](kind, param.Attribute{
			Name: "Preload", ShortName: "P", Description: desc, Quantity: q,
		})
	}
	f := &Function{
		Base: function.NewBase(function.Info{
			Name:        Name,
			ShortName:   "PreLoad",
			Description: "Apply an initial force, strain or stress to a layer",
			Category:    "Loads",
			Subcategory: "Preload",
		}),
		layer: param.New[model.Layer](param.KindLayer, param.Attribute{
			Name: "Layer", ShortName: "L", Description: "Layer carrying the preload",
		}),
		values: map[Mode]*param.TypedParameter[float64]{
			Force:  value(param.KindForce, units.Force, "Total tensile force in the layer"),
			Strain: value(param.KindStrain, units.Strain, "Initial tensile strain"),
			Stress: value(param.KindStress, units.Stress, "Initial tensile stress"),
		},
		preload: param.New[model.PreLoad](param.KindPreLoad, param.Attribute{
			Name: "PreLoad", ShortName: "PL", Description: "Preloaded layer",
		}),
	}
	f.Controller = variable.NewController(f, sys, Force, Force, Strain, Stress)
	f.Refresh()
	return f
}

func (f *Function) value() *param.TypedParameter[float64] {
	v, ok := f.values[f.Current()]
	if !ok {
		function.Violation(f, "unhandled mode %s", f.Current())
	}
	return v
}

func (f *Function) Inputs() []param.Parameter {
	return []param.Parameter{f.layer, f.value()}
}

func (f *Function) Outputs() []param.Parameter {
	return []param.Parameter{f.preload}
}

func (f *Function) ValidateInputs() bool {
	msgs := f.Messages()
	if len(f.layer.Value().Points) == 0 {
		msgs.Errorf("Layer has no bars")
	}
	if f.value().Value() == 0 {
		msgs.Errorf("Preload must not be zero")
	}
	return !msgs.HasErrors()
}

var kinds = map[Mode]string{
	Force:  model.PreloadForce,
	Strain: model.PreloadStrain,
	Stress: model.PreloadStress,
}

func (f *Function) Compute() {
	pl := model.PreLoad{Kind: kinds[f.Current()], Value: f.value().Value(), Layer: f.layer.Value()}
	f.preload.Set(pl)
	if pl.Value < 0 {
		f.Messages().Remarkf("Negative preload compresses the layer")
	}
	fy := pl.Layer.Rebar.Steel.Strength
	if es := pl.Layer.Rebar.Steel.Modulus; es > 0 && pl.Strain()*es > fy {
		f.Messages().Warnf("Preload exceeds the yield strength of the layer (%.0f MPa)", fy)
	}
}
