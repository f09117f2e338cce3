// Package analysis is the narrow interface through which section checks
// reach a section-analysis engine. Components never compute capacities
// themselves; they build a Section and ask an Engine.
package analysis

import (
	"context"
	"errors"
	"fmt"
)

// Bar is one reinforcing bar, or bundle, in the section. Y is measured up
// from the bottom fibre in mm.
type Bar struct {
	Y    float64
	Area float64 // mm²
	Fy   float64 // MPa
	Es   float64 // MPa
	// Prestrain is an initial tensile strain, positive in tension, as
	// imposed by a preload.
	Prestrain float64
}

// Section is a rectangular concrete section bent about its horizontal axis
// with the compression face on top.
type Section struct {
	Width  float64 // mm
	Height float64 // mm
	Fc     float64 // MPa
	Bars   []Bar
}

// Validate reports the first geometric or material inconsistency.
func (s Section) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return errors.New("section dimensions must be positive")
	case s.Fc <= 0:
		return errors.New("concrete strength must be positive")
	case len(s.Bars) == 0:
		return errors.New("section has no reinforcement")
	}
	for i, b := range s.Bars {
		if b.Area <= 0 || b.Fy <= 0 || b.Es <= 0 {
			return fmt.Errorf("bar %d: area, yield strength and modulus must be positive", i+1)
		}
		if b.Y < 0 || b.Y > s.Height {
			return fmt.Errorf("bar %d lies outside the section (y=%g)", i+1, b.Y)
		}
	}
	return nil
}

// Capacity is the flexural capacity of a section.
type Capacity struct {
	Mn          float64 // nominal moment, kNm
	PhiMn       float64 // design moment, kNm
	Phi         float64
	NeutralAxis float64 // depth from the top fibre, mm
	// StrainT is the net tensile strain in the extreme tension bar.
	StrainT           float64
	TensionControlled bool
	// UltimateStrain is the concrete crushing strain the engine assumes.
	UltimateStrain float64
}

// Engine computes section capacities.
type Engine interface {
	Name() string
	Capacity(ctx context.Context, s Section) (Capacity, error)
}
