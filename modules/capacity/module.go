// Package capacity provides CheckSectionCapacity, which asks the analysis
// engine for the flexural capacity of a rectangular section and, given an
// action, how much of it is used.
package capacity

import (
	"context"
	"math"

	"github.com/vk/sectiongrid/internal/analysis"
	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/model"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/registry"
	"github.com/vk/sectiongrid/internal/units"
	"github.com/vk/sectiongrid/internal/variable"
)

const Name = "CheckSectionCapacity"

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	engine := r.Engine()
	r.RegisterFunction(Name, func(sys units.System) function.Function { return New(sys, engine) })
}

type Mode int

const Rectangular Mode = 0

func (Mode) String() string { return "Rectangular" }

// Function is CheckSectionCapacity.
type Function struct {
	function.Base
	*variable.Controller[Mode]
	engine analysis.Engine
	ctx    context.Context

	width    *param.TypedParameter[float64]
	height   *param.TypedParameter[float64]
	concrete *param.TypedParameter[model.Material]
	layers   *param.ArrayParameter[model.Layer]
	preloads *param.ArrayParameter[model.PreLoad]
	action   *param.TypedParameter[model.Action]

	capacity    *param.TypedParameter[float64]
	neutralAxis *param.TypedParameter[float64]
	strain      *param.TypedParameter[float64]
	utilisation *param.TypedParameter[float64]
}

func New(sys units.System, engine analysis.Engine) *Function {
	f := &Function{
		Base: function.NewBase(function.Info{
			Name:        Name,
			ShortName:   "Capacity",
			Description: "Check the flexural capacity of a rectangular reinforced concrete section",
			Category:    "Analysis",
			Subcategory: "Section",
		}),
		engine: engine,
		width: param.New[float64](param.KindLength, param.Attribute{
			Name: "Width", ShortName: "b", Description: "Section width", Quantity: units.Length,
		}),
		height: param.New[float64](param.KindLength, param.Attribute{
			Name: "Height", ShortName: "h", Description: "Section height", Quantity: units.Length,
		}),
		concrete: param.New[model.Material](param.KindMaterial, param.Attribute{
			Name: "Concrete", ShortName: "C", Description: "Concrete material",
		}),
		layers: param.NewArray[model.Layer](param.KindLayer, param.Attribute{
			Name: "Layers", ShortName: "L", Description: "Rebar layers, y measured up from the bottom fibre",
		}),
		preloads: param.NewArray[model.PreLoad](param.KindPreLoad, param.Attribute{
			Name: "PreLoads", ShortName: "PL", Description: "Preloaded layers", Optional: true,
		}),
		action: param.New[model.Action](param.KindAction, param.Attribute{
			Name: "Action", ShortName: "A", Description: "Load or deformation to check against", Optional: true,
		}),
		capacity: param.New[float64](param.KindMoment, param.Attribute{
			Name: "Capacity", ShortName: "φMn", Description: "Design moment capacity", Quantity: units.Moment,
		}),
		neutralAxis: param.New[float64](param.KindLength, param.Attribute{
			Name: "Neutral Axis", ShortName: "c", Description: "Neutral axis depth from the top fibre", Quantity: units.Length,
		}),
		strain: param.New[float64](param.KindStrain, param.Attribute{
			Name: "Strain", ShortName: "εt", Description: "Net tensile strain in the extreme tension bar", Quantity: units.Strain,
		}),
		utilisation: param.New[float64](param.KindNumber, param.Attribute{
			Name: "Utilisation", ShortName: "U", Description: "Demand over capacity, when an action is given",
		}),
	}
	f.Controller = variable.NewController(f, sys, Rectangular, Rectangular)
	f.Refresh()
	return f
}

func (f *Function) Inputs() []param.Parameter {
	return []param.Parameter{f.width, f.height, f.concrete, f.layers, f.preloads, f.action}
}

func (f *Function) Outputs() []param.Parameter {
	return []param.Parameter{f.capacity, f.neutralAxis, f.strain, f.utilisation}
}

func (f *Function) ValidateInputs() bool {
	msgs := f.Messages()
	if f.width.Value() <= 0 || f.height.Value() <= 0 {
		msgs.Errorf("Width and Height must be positive")
	}
	if fam := f.concrete.Value().Family; fam != model.Concrete {
		msgs.Errorf("Concrete must be a concrete material, got %s", fam)
	}
	if len(f.layers.Value()) == 0 {
		msgs.Errorf("Layers must hold at least one layer")
	}
	if f.action.IsSet() {
		switch v := f.action.Value().Variant; v {
		case model.ActionLoad, model.ActionDeformation:
		default:
			msgs.Errorf("Action variant %q is not supported, expected %s or %s", v, model.ActionLoad, model.ActionDeformation)
		}
	}
	return !msgs.HasErrors()
}

func (f *Function) section() analysis.Section {
	s := analysis.Section{
		Width:  f.width.Value(),
		Height: f.height.Value(),
		Fc:     f.concrete.Value().Strength,
	}
	add := func(l model.Layer, prestrain float64) {
		for _, p := range l.Points {
			s.Bars = append(s.Bars, analysis.Bar{
				Y:         p.Y,
				Area:      l.Rebar.Area,
				Fy:        l.Rebar.Steel.Strength,
				Es:        l.Rebar.Steel.Modulus,
				Prestrain: prestrain,
			})
		}
	}
	for _, l := range f.layers.Value() {
		add(l, 0)
	}
	for _, pl := range f.preloads.Value() {
		add(pl.Layer, pl.Strain())
	}
	return s
}

// SetContext sets the context the engine runs under.
func (f *Function) SetContext(ctx context.Context) { f.ctx = ctx }

func (f *Function) Compute() {
	msgs := f.Messages()
	ctx := f.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := f.engine.Capacity(ctx, f.section())
	if err != nil {
		msgs.Errorf("%s: %v", f.engine.Name(), err)
		for _, p := range f.Outputs() {
			p.Unset()
		}
		return
	}

	f.capacity.Set(res.PhiMn)
	f.neutralAxis.Set(res.NeutralAxis)
	f.strain.Set(res.StrainT)
	if !res.TensionControlled {
		msgs.Warnf("Section is not tension-controlled (φ = %.2f)", res.Phi)
	}

	if !f.action.IsSet() {
		f.utilisation.Unset()
		return
	}
	a := f.action.Value()
	var u float64
	switch a.Variant {
	case model.ActionLoad:
		u = math.Abs(a.Moment) / res.PhiMn
		if a.Axial != 0 {
			msgs.Remarkf("Axial force of the action is ignored in a flexural check")
		}
	case model.ActionDeformation:
		// curvature in 1/km, strain at mid-height
		top := a.Strain + a.Curvature*1e-6*f.height.Value()/2
		u = math.Abs(top) / res.UltimateStrain
	default:
		function.Violation(f, "action variant %q passed validation", a.Variant)
	}
	f.utilisation.Set(u)
	if u > 1 {
		msgs.Errorf("Utilisation %.2f exceeds 1", u)
	}
}
