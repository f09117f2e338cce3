package model

import (
	"fmt"
	"math"
	"slices"
)

// DefaultSteel is grade 60 reinforcing steel.
var DefaultSteel = Material{Name: "Grade 60", Family: Steel, Strength: 415, Modulus: 200000}

type grade struct {
	name string
	fc   float64
}

// grades lists the concrete strength classes offered by name.
var grades = []grade{
	{"C20", 20}, {"C25", 25}, {"C28", 28}, {"C30", 30},
	{"C35", 35}, {"C40", 40}, {"C45", 45}, {"C50", 50},
}

// Grades returns the names of the concrete strength classes.
func Grades() []string {
	names := make([]string, len(grades))
	for i, g := range grades {
		names[i] = g.name
	}
	return names
}

// ConcreteGrade returns the concrete of a named strength class.
func ConcreteGrade(name string) (Material, error) {
	i := slices.IndexFunc(grades, func(g grade) bool { return g.name == name })
	if i < 0 {
		return Material{}, fmt.Errorf("unknown concrete grade %q", name)
	}
	return NewConcrete(grades[i].name, grades[i].fc), nil
}

// NewConcrete builds a concrete material from its compressive strength f'c
// in MPa. The modulus is 4700√f'c.
func NewConcrete(name string, fc float64) Material {
	return Material{Name: name, Family: Concrete, Strength: fc, Modulus: 4700 * math.Sqrt(fc)}
}
