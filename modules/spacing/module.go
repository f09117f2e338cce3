// Package spacing provides CreateRebarSpacing, which divides an available
// length into equal spacings either from a target pitch or from a bar
// count.
package spacing

import (
	"math"

	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/model"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/registry"
	"github.com/vk/sectiongrid/internal/units"
	"github.com/vk/sectiongrid/internal/variable"
)

const Name = "CreateRebarSpacing"

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.RegisterFunction(Name, func(sys units.System) function.Function { return New(sys) })
}

type Mode int

const (
	ByPitch Mode = iota
	ByCount
)

func (m Mode) String() string {
	switch m {
	case ByPitch:
		return "ByPitch"
	case ByCount:
		return "ByCount"
	}
	return "Mode(?)"
}

// Function is CreateRebarSpacing.
type Function struct {
	function.Base
	*variable.Controller[Mode]

	rebar  *param.TypedParameter[model.Rebar]
	pitch  *param.TypedParameter[float64]
	count  *param.TypedParameter[int]
	length *param.TypedParameter[float64]

	positions *param.ArrayParameter[float64]
	actual    *param.TypedParameter[float64]
	spacings  *param.TypedParameter[int]
	bars      *param.TypedParameter[int]
}

func New(sys units.System) *Function {
	f := &Function{
		Base: function.NewBase(function.Info{
			Name:        Name,
			ShortName:   "Spacing",
			Description: "Distribute bars at equal spacing along a length",
			Category:    "Reinforcement",
			Subcategory: "Layout",
		}),
		rebar: param.New[model.Rebar](param.KindRebar, param.Attribute{
			Name: "Rebar", ShortName: "R", Description: "Bar to distribute",
		}),
		pitch: param.New[float64](param.KindLength, param.Attribute{
			Name: "Spacing", ShortName: "S", Description: "Maximum centre-to-centre spacing", Quantity: units.Length,
		}),
		count: param.New[int](param.KindInteger, param.Attribute{
			Name: "Count", ShortName: "N", Description: "Number of bars, ends included",
		}),
		length: param.New[float64](param.KindLength, param.Attribute{
			Name: "Length", ShortName: "L", Description: "Available length", Quantity: units.Length,
		}),
		positions: param.NewArray[float64](param.KindLength, param.Attribute{
			Name: "Positions", ShortName: "P", Description: "Bar positions from the start", Quantity: units.Length,
		}),
		actual: param.New[float64](param.KindLength, param.Attribute{
			Name: "Pitch", ShortName: "S", Description: "Actual spacing", Quantity: units.Length,
		}),
		spacings: param.New[int](param.KindInteger, param.Attribute{
			Name: "Spacings", ShortName: "n", Description: "Number of spacings",
		}),
		bars: param.New[int](param.KindInteger, param.Attribute{
			Name: "Bars", ShortName: "N", Description: "Number of bars",
		}),
	}
	f.Controller = variable.NewController(f, sys, ByPitch, ByPitch, ByCount)
	f.Refresh()
	return f
}

func (f *Function) Inputs() []param.Parameter {
	switch f.Current() {
	case ByPitch:
		return []param.Parameter{f.rebar, f.pitch, f.length}
	case ByCount:
		return []param.Parameter{f.rebar, f.count, f.length}
	}
	function.Violation(f, "unhandled mode %s", f.Current())
	return nil
}

func (f *Function) Outputs() []param.Parameter {
	return []param.Parameter{f.positions, f.actual, f.spacings, f.bars}
}

func (f *Function) ValidateInputs() bool {
	msgs := f.Messages()
	if f.length.Value() <= 0 {
		msgs.Errorf("Length must be positive")
	}
	if math.IsInf(f.length.Value(), 0) || math.IsNaN(f.length.Value()) {
		msgs.Errorf("Length must be finite")
	}
	switch f.Current() {
	case ByPitch:
		if !(f.pitch.Value() > 0) {
			msgs.Errorf("Spacing must be positive")
		} else if !msgs.HasErrors() {
			if _, _, ok := Divide(f.length.Value(), f.pitch.Value()); !ok {
				msgs.Errorf("Spacing %g places more than %d bars over length %g", f.pitch.Value(), model.MaxBars, f.length.Value())
			}
		}
	case ByCount:
		switch n := f.count.Value(); {
		case n < 2:
			msgs.Errorf("Count must be at least 2, got %d", n)
		case n > model.MaxBars:
			msgs.Errorf("Count must be at most %d, got %d", model.MaxBars, n)
		}
	}
	return !msgs.HasErrors()
}

// Divide splits length into equal spacings no wider than pitch. The count
// of spacings is rounded up, then the pitch recomputed exactly, and never
// drops below one. ok is false when the bars would exceed model.MaxBars.
func Divide(length, pitch float64) (spacings int, actual float64, ok bool) {
	q := math.Ceil(length / pitch)
	if math.IsNaN(q) || q >= model.MaxBars {
		return 0, 0, false
	}
	spacings = max(1, int(q))
	return spacings, length / float64(spacings), true
}

func (f *Function) Compute() {
	l := f.length.Value()
	var n int
	var p float64
	switch f.Current() {
	case ByPitch:
		n, p, _ = Divide(l, f.pitch.Value())
	case ByCount:
		n = f.count.Value() - 1
		p = l / float64(n)
	}

	positions := make([]float64, n+1)
	for i := range positions {
		positions[i] = float64(i) * p
	}
	positions[n] = l

	f.positions.Set(positions)
	f.actual.Set(p)
	f.spacings.Set(n)
	f.bars.Set(n + 1)

	if d := f.rebar.Value().Diameter; p-d < d {
		f.Messages().Warnf("Clear spacing %.1f mm is less than the bar diameter %.1f mm", p-d, d)
	}
}
