// Package units describes the unit systems a document can run under and the
// units of measure each system allows for a physical quantity.
//
// Every quantity has a base unit (mm, kN, MPa, kNm, unitless strain, degree)
// and Functions compute exclusively in base units. A Unit only carries the
// scale needed to bring a host-entered value into the base unit and back.
package units

import (
	"fmt"
	"math"
	"strings"
)

// Quantity names a physical dimension. The empty Quantity is dimensionless.
type Quantity string

const (
	None   Quantity = ""
	Length Quantity = "length"
	Force  Quantity = "force"
	Stress Quantity = "stress"
	Moment Quantity = "moment"
	Strain Quantity = "strain"
	Angle  Quantity = "angle"
)

// Unit is a unit of measure for one Quantity.
type Unit struct {
	Symbol   string
	Quantity Quantity
	// Scale converts a value in this unit to the base unit: base = v * Scale.
	Scale float64
}

// ToBase converts v from u into the quantity's base unit.
func (u Unit) ToBase(v float64) float64 {
	return v * u.Scale
}

// FromBase converts a base-unit value into u.
func (u Unit) FromBase(v float64) float64 {
	return v / u.Scale
}

func (u Unit) String() string {
	return u.Symbol
}

// System is a runtime-configured unit system.
type System string

const (
	MetricMillimetre System = "metric-mm"
	MetricMetre      System = "metric-m"
	Imperial         System = "imperial"
)

var (
	mm  = Unit{"mm", Length, 1}
	cm  = Unit{"cm", Length, 10}
	m   = Unit{"m", Length, 1000}
	in  = Unit{"in", Length, 25.4}
	ft  = Unit{"ft", Length, 304.8}
	kN  = Unit{"kN", Force, 1}
	n   = Unit{"N", Force, 0.001}
	mN  = Unit{"MN", Force, 1000}
	kip = Unit{"kip", Force, 4.4482216}
	lbf = Unit{"lbf", Force, 0.0044482216}
	mpa = Unit{"MPa", Stress, 1}
	kpa = Unit{"kPa", Stress, 0.001}
	gpa = Unit{"GPa", Stress, 1000}
	ksi = Unit{"ksi", Stress, 6.894757}
	psi = Unit{"psi", Stress, 0.006894757}
	kNm = Unit{"kNm", Moment, 1}
	nmm = Unit{"Nmm", Moment, 1e-6}
	mNm = Unit{"MNm", Moment, 1000}
	kft = Unit{"kip-ft", Moment, 1.3558179}
	kin = Unit{"kip-in", Moment, 0.112984829}
	pml = Unit{"‰", Strain, 0.001}
	pct = Unit{"%", Strain, 0.01}
	one = Unit{"-", Strain, 1}
	deg = Unit{"deg", Angle, 1}
	rad = Unit{"rad", Angle, 180 / math.Pi}
)

// table lists the legal units of every quantity per system. The first entry
// is the system default.
var table = map[System]map[Quantity][]Unit{
	MetricMillimetre: {
		Length: {mm, cm, m},
		Force:  {kN, n, mN},
		Stress: {mpa, kpa, gpa},
		Moment: {kNm, nmm, mNm},
		Strain: {pml, pct, one},
		Angle:  {deg, rad},
	},
	MetricMetre: {
		Length: {m, cm, mm},
		Force:  {kN, mN, n},
		Stress: {mpa, kpa, gpa},
		Moment: {kNm, mNm, nmm},
		Strain: {pml, pct, one},
		Angle:  {deg, rad},
	},
	Imperial: {
		Length: {in, ft},
		Force:  {kip, lbf},
		Stress: {ksi, psi},
		Moment: {kft, kin},
		Strain: {pml, pct, one},
		Angle:  {deg, rad},
	},
}

// Systems returns the supported systems in a stable order.
func Systems() []System {
	return []System{MetricMillimetre, MetricMetre, Imperial}
}

// ParseSystem resolves a system name, case-insensitively.
func ParseSystem(name string) (System, error) {
	s := System(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := table[s]; !ok {
		return "", fmt.Errorf("unknown unit system %q", name)
	}
	return s, nil
}

// Legal returns the units a user may choose for q under sys. The result is a
// fresh slice; callers may keep it.
func Legal(q Quantity, sys System) []Unit {
	entries := table[sys][q]
	out := make([]Unit, len(entries))
	copy(out, entries)
	return out
}

// Default returns the default unit of q under sys. Dimensionless quantities
// and unknown systems yield the zero Unit.
func Default(q Quantity, sys System) Unit {
	entries := table[sys][q]
	if len(entries) == 0 {
		return Unit{}
	}
	return entries[0]
}

// Lookup finds the unit with the given symbol among the legal units of q.
func Lookup(q Quantity, sys System, symbol string) (Unit, error) {
	for _, u := range table[sys][q] {
		if u.Symbol == symbol {
			return u, nil
		}
	}
	return Unit{}, fmt.Errorf("unit %q is not legal for %s in the %s system", symbol, q, sys)
}
