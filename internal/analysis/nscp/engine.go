package nscp

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/sectiongrid/internal/analysis"
)

const (
	iterations = 200
	tolerance  = 1e-6 // mm
)

// Engine is the NSCP 2015 strain-compatibility engine.
type Engine struct{}

func New() *Engine { return &Engine{} }

func (*Engine) Name() string { return "nscp-2015" }

// forces returns the net axial force (N, compression positive) and the
// moment about mid-height (Nmm) for a neutral axis at depth c.
func forces(s analysis.Section, c float64) (axial, moment float64) {
	a := math.Min(Beta1(s.Fc)*c, s.Height)
	cc := 0.85 * s.Fc * a * s.Width
	axial = cc
	moment = cc * (s.Height/2 - a/2)
	for _, b := range s.Bars {
		d := s.Height - b.Y
		strain := EpsilonCU*(c-d)/c - b.Prestrain
		stress := math.Max(math.Min(strain*b.Es, b.Fy), -b.Fy)
		if strain > 0 && d <= a {
			// displaced concrete
			stress -= 0.85 * s.Fc
		}
		f := b.Area * stress
		axial += f
		moment += f * (s.Height/2 - d)
	}
	return axial, moment
}

// Capacity finds the neutral axis by bisection on force equilibrium and
// integrates the moment about mid-height.
func (e *Engine) Capacity(ctx context.Context, s analysis.Section) (analysis.Capacity, error) {
	if err := ctx.Err(); err != nil {
		return analysis.Capacity{}, err
	}
	if err := s.Validate(); err != nil {
		return analysis.Capacity{}, err
	}

	lo, hi := tolerance, s.Height/Beta1(s.Fc)
	if n, _ := forces(s, hi); n < 0 {
		return analysis.Capacity{}, fmt.Errorf("section cannot reach equilibrium in pure bending")
	}
	if n, _ := forces(s, lo); n > 0 {
		return analysis.Capacity{}, fmt.Errorf("section has no tension reinforcement")
	}
	c := (lo + hi) / 2
	for range iterations {
		n, _ := forces(s, c)
		if n > 0 {
			hi = c
		} else {
			lo = c
		}
		if hi-lo < tolerance {
			break
		}
		c = (lo + hi) / 2
	}
	_, m := forces(s, c)

	// extreme tension bar governs phi
	deepest := s.Bars[0]
	for _, b := range s.Bars[1:] {
		if b.Y < deepest.Y {
			deepest = b
		}
	}
	dt := s.Height - deepest.Y
	epsT := EpsilonCU*(dt-c)/c + deepest.Prestrain
	phi := Phi(epsT, deepest.Fy)

	mn := m / 1e6
	return analysis.Capacity{
		Mn:                mn,
		PhiMn:             phi * mn,
		Phi:               phi,
		NeutralAxis:       c,
		StrainT:           epsT,
		TensionControlled: epsT >= deepest.Fy/Es+0.003,
		UltimateStrain:    EpsilonCU,
	}, nil
}
