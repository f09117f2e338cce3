package model

import (
	"fmt"
	"math"
)

// Point is a position in the section plane, in mm.
type Point struct {
	X float64 `cty:"x"`
	Y float64 `cty:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Distance returns the distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// MaxBars is the most bars a single spacing or layout may place.
const MaxBars = 10000

// Material families.
const (
	Concrete = "concrete"
	Steel    = "steel"
)

// Material is a design material. Strength is f'c for concrete and fy for
// steel; Modulus is the elastic modulus. Both in MPa.
type Material struct {
	Name     string  `cty:"name"`
	Family   string  `cty:"family"`
	Strength float64 `cty:"strength"`
	Modulus  float64 `cty:"modulus"`
}

// Rebar is a single bar or a bundle of identical bars.
type Rebar struct {
	Diameter float64  `cty:"diameter"`
	Bars     int      `cty:"bars"`
	Area     float64  `cty:"area"`
	Steel    Material `cty:"steel"`
}

// NewRebar builds a rebar of n bars of diameter d (mm).
func NewRebar(d float64, n int, steel Material) Rebar {
	return Rebar{
		Diameter: d,
		Bars:     n,
		Area:     float64(n) * math.Pi * d * d / 4,
		Steel:    steel,
	}
}

// Layer is a set of rebar positions sharing one rebar definition.
type Layer struct {
	Rebar  Rebar   `cty:"rebar"`
	Points []Point `cty:"points"`
}

// Area is the total steel area of the layer, in mm².
func (l Layer) Area() float64 {
	return l.Rebar.Area * float64(len(l.Points))
}

// Centroid is the area-weighted centre of the layer.
func (l Layer) Centroid() Point {
	if len(l.Points) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range l.Points {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(l.Points))
	return Point{X: c.X / n, Y: c.Y / n}
}

// Preload kinds.
const (
	PreloadForce  = "force"
	PreloadStrain = "strain"
	PreloadStress = "stress"
)

// PreLoad is an initial force, strain or stress applied to a layer, as
// used for prestressing tendons.
type PreLoad struct {
	Kind  string  `cty:"kind"`
	Value float64 `cty:"value"`
	Layer Layer   `cty:"layer"`
}

// Strain returns the initial strain the preload imposes on its layer.
func (p PreLoad) Strain() float64 {
	es := p.Layer.Rebar.Steel.Modulus
	switch p.Kind {
	case PreloadStrain:
		return p.Value
	case PreloadStress:
		if es == 0 {
			return 0
		}
		return p.Value / es
	case PreloadForce:
		a := p.Layer.Area()
		if es == 0 || a == 0 {
			return 0
		}
		// kN to N
		return p.Value * 1000 / (a * es)
	}
	return 0
}

// Action variants.
const (
	ActionLoad        = "load"
	ActionDeformation = "deformation"
)

// Action is what a section is checked against: either a load (moment and
// axial force) or a deformation (curvature and centroid strain).
type Action struct {
	Variant   string  `cty:"variant"`
	Moment    float64 `cty:"moment"`
	Axial     float64 `cty:"axial"`
	Curvature float64 `cty:"curvature"`
	Strain    float64 `cty:"strain"`
}
