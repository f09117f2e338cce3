// Package layout provides CreateRebarLayout, which places bars of one
// rebar definition along a line, at explicit points, around a circle or
// along an arc.
package layout

import (
	"math"

	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/model"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/registry"
	"github.com/vk/sectiongrid/internal/units"
	"github.com/vk/sectiongrid/internal/variable"
)

const Name = "CreateRebarLayout"

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.RegisterFunction(Name, func(sys units.System) function.Function { return New(sys) })
}

type Mode int

const (
	Line Mode = iota
	SingleBars
	Circle
	Arc
)

func (m Mode) String() string {
	switch m {
	case Line:
		return "Line"
	case SingleBars:
		return "SingleBars"
	case Circle:
		return "Circle"
	case Arc:
		return "Arc"
	}
	return "Mode(?)"
}

// Function is CreateRebarLayout.
type Function struct {
	function.Base
	*variable.Controller[Mode]

	rebar  *param.TypedParameter[model.Rebar]
	start  *param.TypedParameter[model.Point]
	end    *param.TypedParameter[model.Point]
	points *param.ArrayParameter[model.Point]
	centre *param.TypedParameter[model.Point]
	radius *param.TypedParameter[float64]
	angle  *param.TypedParameter[float64]
	sweep  *param.TypedParameter[float64]
	count  *param.TypedParameter[int]

	layer     *param.TypedParameter[model.Layer]
	positions *param.ArrayParameter[model.Point]
}

func point(name, short, desc string) *param.TypedParameter[model.Point] {
	return param.New[model.Point](param.KindPoint, param.Attribute{
		Name: name, ShortName: short, Description: desc, Quantity: units.Length,
	})
}

func New(sys units.System) *Function {
	f := &Function{
		Base: function.NewBase(function.Info{
			Name:        Name,
			ShortName:   "Layout",
			Description: "Place bars in the section plane",
			Category:    "Reinforcement",
			Subcategory: "Layout",
		}),
		rebar: param.New[model.Rebar](param.KindRebar, param.Attribute{
			Name: "Rebar", ShortName: "R", Description: "Bar placed at every position",
		}),
		start: point("Start", "A", "First bar"),
		end:   point("End", "B", "Last bar"),
		points: param.NewArray[model.Point](param.KindPoint, param.Attribute{
			Name: "Points", ShortName: "P", Description: "Bar positions", Quantity: units.Length,
		}),
		centre: point("Centre", "C", "Centre of the circle").WithDefault(model.Point{}),
		radius: param.New[float64](param.KindLength, param.Attribute{
			Name: "Radius", ShortName: "r", Description: "Radius to the bar centres", Quantity: units.Length,
		}),
		angle: param.New[float64](param.KindAngle, param.Attribute{
			Name: "Start Angle", ShortName: "α", Description: "Angle of the first bar from the x axis", Quantity: units.Angle,
		}).WithDefault(0),
		sweep: param.New[float64](param.KindAngle, param.Attribute{
			Name: "Sweep", ShortName: "β", Description: "Angle from the first to the last bar", Quantity: units.Angle,
		}).WithDefault(180),
		count: param.New[int](param.KindInteger, param.Attribute{
			Name: "Count", ShortName: "N", Description: "Number of bars",
		}),
		layer: param.New[model.Layer](param.KindLayer, param.Attribute{
			Name: "Layer", ShortName: "L", Description: "Rebar layer",
		}),
		positions: param.NewArray[model.Point](param.KindPoint, param.Attribute{
			Name: "Points", ShortName: "P", Description: "Bar positions", Quantity: units.Length,
		}),
	}
	f.Controller = variable.NewController(f, sys, Line, Line, SingleBars, Circle, Arc)
	f.Refresh()
	return f
}

func (f *Function) Inputs() []param.Parameter {
	switch f.Current() {
	case Line:
		return []param.Parameter{f.rebar, f.start, f.end, f.count}
	case SingleBars:
		return []param.Parameter{f.rebar, f.points}
	case Circle:
		return []param.Parameter{f.rebar, f.centre, f.radius, f.count}
	case Arc:
		return []param.Parameter{f.rebar, f.centre, f.radius, f.angle, f.sweep, f.count}
	}
	function.Violation(f, "unhandled mode %s", f.Current())
	return nil
}

func (f *Function) Outputs() []param.Parameter {
	return []param.Parameter{f.layer, f.positions}
}

func (f *Function) minCount() int {
	if f.Current() == Circle {
		return 3
	}
	return 2
}

func (f *Function) ValidateInputs() bool {
	msgs := f.Messages()
	switch f.Current() {
	case Line:
		if f.start.Value() == f.end.Value() {
			msgs.Errorf("Start and End must differ")
		}
	case SingleBars:
		if len(f.points.Value()) == 0 {
			msgs.Errorf("Points must hold at least one point")
		}
	case Circle, Arc:
		if f.radius.Value() <= 0 {
			msgs.Errorf("Radius must be positive")
		}
		if f.Current() == Arc && f.sweep.Value() == 0 {
			msgs.Errorf("Sweep must not be zero")
		}
	}
	if f.Current() != SingleBars {
		switch n := f.count.Value(); {
		case n < f.minCount():
			msgs.Errorf("Count must be at least %d, got %d", f.minCount(), n)
		case n > model.MaxBars:
			msgs.Errorf("Count must be at most %d, got %d", model.MaxBars, n)
		}
	}
	return !msgs.HasErrors()
}

func (f *Function) Compute() {
	var pts []model.Point
	switch f.Current() {
	case Line:
		pts = along(f.start.Value(), f.end.Value(), f.count.Value())
	case SingleBars:
		pts = f.points.Value()
	case Circle:
		n := f.count.Value()
		pts = around(f.centre.Value(), f.radius.Value(), 0, 360*float64(n-1)/float64(n), n)
	case Arc:
		pts = around(f.centre.Value(), f.radius.Value(), f.angle.Value(), f.sweep.Value(), f.count.Value())
	}

	f.layer.Set(model.Layer{Rebar: f.rebar.Value(), Points: pts})
	f.positions.Set(pts)

	d := f.rebar.Value().Diameter
	for i := 1; i < len(pts); i++ {
		if gap := pts[i-1].Distance(pts[i]); gap < d {
			f.Messages().Warnf("Bars %d and %d overlap (%.1f mm apart)", i, i+1, gap)
		}
	}
}

// along spaces n points evenly from a to b, both ends included.
func along(a, b model.Point, n int) []model.Point {
	pts := make([]model.Point, n)
	for i := range pts {
		t := float64(i) / float64(n-1)
		pts[i] = model.Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
	}
	return pts
}

// around spaces n points on a circle from angle start (degrees) through
// sweep, both ends included.
func around(c model.Point, r, start, sweep float64, n int) []model.Point {
	pts := make([]model.Point, n)
	for i := range pts {
		a := (start + sweep*float64(i)/float64(n-1)) * math.Pi / 180
		pts[i] = model.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return pts
}
