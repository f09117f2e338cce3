package app

import (
	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/variable"
)

// ModeDescription is the parameter layout of a function in one mode.
type ModeDescription struct {
	// Name is empty for functions without modes.
	Name    string
	Inputs  []param.Attribute
	Outputs []param.Attribute
	Options []variable.Option
}

// Description is what the describe command prints about a function.
type Description struct {
	Info  function.Info
	Modes []ModeDescription
}

// Functions returns the catalogue of registered functions.
func (a *App) Functions() []function.Info {
	return a.registry.Catalogue()
}

// Describe instantiates the named function under the configured unit
// system and walks its modes.
func (a *App) Describe(name string) (*Description, error) {
	fn, err := a.registry.New(name, a.config.Settings.Units())
	if err != nil {
		return nil, err
	}
	d := &Description{Info: fn.Info()}
	vf, ok := fn.(variable.Function)
	if !ok {
		d.Modes = append(d.Modes, ModeDescription{
			Inputs:  param.Attributes(fn.Inputs()),
			Outputs: param.Attributes(fn.Outputs()),
		})
		return d, nil
	}
	for _, m := range vf.Modes() {
		if err := vf.SetMode(m); err != nil {
			return nil, err
		}
		d.Modes = append(d.Modes, ModeDescription{
			Name:    m,
			Inputs:  param.Attributes(vf.Inputs()),
			Outputs: param.Attributes(vf.Outputs()),
			Options: vf.Options(),
		})
	}
	return d, nil
}
