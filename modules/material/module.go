// Package material provides CreateConcreteMaterial.
package material

import (
	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/model"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/registry"
	"github.com/vk/sectiongrid/internal/units"
	"github.com/vk/sectiongrid/internal/variable"
)

const (
	Name = "CreateConcreteMaterial"

	// GradeLabel is the dropdown listing the strength classes.
	GradeLabel = "Grade"

	// minStrength is the lowest f'c accepted for structural concrete.
	minStrength = 17
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.RegisterFunction(Name, func(sys units.System) function.Function { return New(sys) })
}

type Mode int

const (
	Grade Mode = iota
	Custom
)

func (m Mode) String() string {
	switch m {
	case Grade:
		return "Grade"
	case Custom:
		return "Custom"
	}
	return "Mode(?)"
}

// Function is CreateConcreteMaterial.
type Function struct {
	function.Base
	*variable.Controller[Mode]

	grade    string
	name     *param.TypedParameter[string]
	strength *param.TypedParameter[float64]

	material *param.TypedParameter[model.Material]
	modulus  *param.TypedParameter[float64]
}

func New(sys units.System) *Function {
	f := &Function{
		Base: function.NewBase(function.Info{
			Name:        Name,
			ShortName:   "Concrete",
			Description: "Create a concrete material from a strength class or a custom strength",
			Category:    "Materials",
			Subcategory: "Concrete",
		}),
		grade: "C28",
		name: param.New[string](param.KindText, param.Attribute{
			Name: "Name", ShortName: "N", Description: "Material name", Optional: true,
		}).WithDefault("Custom"),
		strength: param.New[float64](param.KindStress, param.Attribute{
			Name: "Strength", ShortName: "fc", Description: "Specified compressive strength f'c", Quantity: units.Stress,
		}),
		material: param.New[model.Material](param.KindMaterial, param.Attribute{
			Name: "Material", ShortName: "M", Description: "Concrete material",
		}),
		modulus: param.New[float64](param.KindStress, param.Attribute{
			Name: "Modulus", ShortName: "Ec", Description: "Elastic modulus", Quantity: units.Stress,
		}),
	}
	f.Controller = variable.NewController(f, sys, Grade, Grade, Custom)
	f.AddExtra(variable.Extra{
		Name:    GradeLabel,
		Choices: model.Grades(),
		Active:  func() bool { return f.Current() == Grade },
		Get:     func() string { return f.grade },
		Set: func(s string) error {
			f.grade = s
			return nil
		},
	})
	f.Refresh()
	return f
}

func (f *Function) Inputs() []param.Parameter {
	switch f.Current() {
	case Grade:
		return nil
	case Custom:
		return []param.Parameter{f.strength, f.name}
	}
	function.Violation(f, "unhandled mode %s", f.Current())
	return nil
}

func (f *Function) Outputs() []param.Parameter {
	return []param.Parameter{f.material, f.modulus}
}

func (f *Function) ValidateInputs() bool {
	if f.Current() == Custom && f.strength.Value() <= 0 {
		f.Messages().Errorf("Strength must be positive")
		return false
	}
	return true
}

func (f *Function) Compute() {
	var m model.Material
	switch f.Current() {
	case Grade:
		var err error
		if m, err = model.ConcreteGrade(f.grade); err != nil {
			function.Violation(f, "grade dropdown holds %q: %v", f.grade, err)
		}
	case Custom:
		m = model.NewConcrete(f.name.Value(), f.strength.Value())
		if m.Strength < minStrength {
			f.Messages().Warnf("Strength %.1f MPa is below the %d MPa structural minimum", m.Strength, minStrength)
		}
	}
	f.material.Set(m)
	f.modulus.Set(m.Modulus)
}
