// Package rebar provides CreateRebar, which defines a single bar or a
// bundle of identical bars.
package rebar

import (
	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/model"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/registry"
	"github.com/vk/sectiongrid/internal/units"
	"github.com/vk/sectiongrid/internal/variable"
)

const Name = "CreateRebar"

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.RegisterFunction(Name, func(sys units.System) function.Function { return New(sys) })
}

type Mode int

const (
	Single Mode = iota
	Bundle
)

func (m Mode) String() string {
	switch m {
	case Single:
		return "Single"
	case Bundle:
		return "Bundle"
	}
	return "Mode(?)"
}

// Function is CreateRebar.
type Function struct {
	function.Base
	*variable.Controller[Mode]

	diameter *param.TypedParameter[float64]
	bars     *param.TypedParameter[int]
	material *param.TypedParameter[model.Material]

	rebar *param.TypedParameter[model.Rebar]
	area  *param.TypedParameter[float64]
}

func New(sys units.System) *Function {
	f := &Function{
		Base: function.NewBase(function.Info{
			Name:        Name,
			ShortName:   "Rebar",
			Description: "Create a reinforcing bar or a bundle of bars",
			Category:    "Reinforcement",
			Subcategory: "Rebar",
		}),
		diameter: param.New[float64](param.KindLength, param.Attribute{
			Name: "Diameter", ShortName: "D", Description: "Nominal bar diameter", Quantity: units.Length,
		}).WithDefault(16),
		bars: param.New[int](param.KindInteger, param.Attribute{
			Name: "Bars", ShortName: "N", Description: "Number of bars in the bundle (2 to 4)",
		}).WithDefault(2),
		material: param.New[model.Material](param.KindMaterial, param.Attribute{
			Name: "Material", ShortName: "M", Description: "Reinforcing steel", Optional: true,
		}).WithDefault(model.DefaultSteel),
		rebar: param.New[model.Rebar](param.KindRebar, param.Attribute{
			Name: "Rebar", ShortName: "R", Description: "Rebar definition",
		}),
		area: param.New[float64](param.KindNumber, param.Attribute{
			Name: "Area", ShortName: "A", Description: "Total steel area in mm²",
		}),
	}
	f.Controller = variable.NewController(f, sys, Single, Single, Bundle)
	f.Refresh()
	return f
}

func (f *Function) Inputs() []param.Parameter {
	switch f.Current() {
	case Single:
		return []param.Parameter{f.diameter, f.material}
	case Bundle:
		return []param.Parameter{f.diameter, f.bars, f.material}
	}
	function.Violation(f, "unhandled mode %s", f.Current())
	return nil
}

func (f *Function) Outputs() []param.Parameter {
	return []param.Parameter{f.rebar, f.area}
}

func (f *Function) ValidateInputs() bool {
	msgs := f.Messages()
	if f.diameter.Value() <= 0 {
		msgs.Errorf("Diameter must be positive")
	}
	if f.Current() == Bundle {
		if n := f.bars.Value(); n < 2 || n > 4 {
			msgs.Errorf("A bundle holds 2 to 4 bars, got %d", n)
		}
	}
	if fam := f.material.Value().Family; fam != model.Steel {
		msgs.Errorf("Material must be steel, got %s", fam)
	}
	return !msgs.HasErrors()
}

func (f *Function) Compute() {
	n := 1
	if f.Current() == Bundle {
		n = f.bars.Value()
	}
	r := model.NewRebar(f.diameter.Value(), n, f.material.Value())
	f.rebar.Set(r)
	f.area.Set(r.Area)
}
