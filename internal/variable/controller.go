package variable

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/units"
)

// ModeLabel is the label of the mode selector dropdown.
const ModeLabel = "Mode"

// Mode is the constraint for a Function's mode enumeration.
type Mode interface {
	comparable
	String() string
}

// Function is a function.Function whose input set depends on a mode.
type Function interface {
	function.Function
	Modes() []string
	Mode() string
	SetMode(name string) error
	Options() []Option
	Select(label, entry string) error
	SetSystem(sys units.System) error
	State() State
	Restore(s State) error
	// SetNotifier injects the callback raised after the parameter set or
	// its labels changed.
	SetNotifier(fn func())
}

// State is the part of a Function the host persists.
type State struct {
	Mode    string
	Units   map[string]string
	Choices map[string]string
}

// Controller implements the mode, option and notification machinery for a
// Function with modes of type M. Functions embed a *Controller.
type Controller[M Mode] struct {
	owner     function.Function
	modes     []M
	current   M
	system    units.System
	overrides map[units.Quantity]units.Unit
	extras    []Extra
	notify    func()
	muted     bool
}

// NewController creates a controller for owner starting in initial. It
// panics if initial is not one of modes or if two modes share a name.
func NewController[M Mode](owner function.Function, sys units.System, initial M, modes ...M) *Controller[M] {
	seen := make(map[string]struct{}, len(modes))
	for _, m := range modes {
		if _, dup := seen[m.String()]; dup {
			panic(fmt.Sprintf("variable: duplicate mode name %q", m.String()))
		}
		seen[m.String()] = struct{}{}
	}
	if !slices.Contains(modes, initial) {
		panic(fmt.Sprintf("variable: initial mode %q is not declared", initial.String()))
	}
	return &Controller[M]{
		owner:     owner,
		modes:     modes,
		current:   initial,
		system:    sys,
		overrides: make(map[units.Quantity]units.Unit),
	}
}

// Current returns the active mode.
func (c *Controller[M]) Current() M {
	return c.current
}

func (c *Controller[M]) Modes() []string {
	out := make([]string, 0, len(c.modes))
	for _, m := range c.modes {
		out = append(out, m.String())
	}
	return out
}

func (c *Controller[M]) Mode() string {
	return c.current.String()
}

func (c *Controller[M]) parse(name string) (M, error) {
	for _, m := range c.modes {
		if m.String() == name {
			return m, nil
		}
	}
	var zero M
	return zero, fmt.Errorf("%s: unknown mode %q, expected one of %v", c.owner.Info().Name, name, c.Modes())
}

// SetMode switches to the named mode. Selecting the active mode is a no-op
// and raises no signal.
func (c *Controller[M]) SetMode(name string) error {
	m, err := c.parse(name)
	if err != nil {
		return err
	}
	if m == c.current {
		return nil
	}
	c.current = m
	c.Refresh()
	c.changed()
	return nil
}

// System returns the active unit system.
func (c *Controller[M]) System() units.System {
	return c.system
}

// SetSystem changes the unit system. Overrides that are not legal in the
// new system are dropped.
func (c *Controller[M]) SetSystem(sys units.System) error {
	if _, err := units.ParseSystem(string(sys)); err != nil {
		return err
	}
	if sys == c.system {
		return nil
	}
	c.system = sys
	for q, u := range c.overrides {
		if _, err := units.Lookup(q, sys, u.Symbol); err != nil {
			delete(c.overrides, q)
		}
	}
	c.Refresh()
	c.changed()
	return nil
}

// Unit returns the unit selected for q.
func (c *Controller[M]) Unit(q units.Quantity) units.Unit {
	if u, ok := c.overrides[q]; ok {
		return u
	}
	return units.Default(q, c.system)
}

// ToBase converts a host-entered value of p into base units.
func (c *Controller[M]) ToBase(p param.Parameter, v float64) float64 {
	q := p.Attr().Quantity
	if q == units.None {
		return v
	}
	return c.Unit(q).ToBase(v)
}

// FromBase converts a base-unit value into the unit shown on p.
func (c *Controller[M]) FromBase(p param.Parameter, v float64) float64 {
	q := p.Attr().Quantity
	if q == units.None {
		return v
	}
	return c.Unit(q).FromBase(v)
}

// AddExtra registers a Function-specific dropdown.
func (c *Controller[M]) AddExtra(e Extra) {
	c.extras = append(c.extras, e)
}

// quantities lists the distinct quantities of the active parameters in
// declaration order, inputs first.
func (c *Controller[M]) quantities() []units.Quantity {
	var out []units.Quantity
	for _, p := range slices.Concat(c.owner.Inputs(), c.owner.Outputs()) {
		q := p.Attr().Quantity
		if q != units.None && !slices.Contains(out, q) {
			out = append(out, q)
		}
	}
	return out
}

// Options derives the dropdowns for the current mode. The result is never
// cached.
func (c *Controller[M]) Options() []Option {
	opts := []Option{EnumOption{Name: ModeLabel, Choices: c.Modes(), Current: c.Mode()}}
	for _, e := range c.extras {
		if e.active() {
			opts = append(opts, EnumOption{Name: e.Name, Choices: e.Choices, Current: e.Get()})
		}
	}
	for _, q := range c.quantities() {
		opts = append(opts, UnitOption{Quantity: q, System: c.system, Current: c.Unit(q)})
	}
	return opts
}

// Select applies a dropdown selection made in the host.
func (c *Controller[M]) Select(label, entry string) error {
	if label == ModeLabel {
		return c.SetMode(entry)
	}
	for _, e := range c.extras {
		if e.Name != label {
			continue
		}
		if !e.active() {
			return fmt.Errorf("%s: option %q is not available in mode %s", c.owner.Info().Name, label, c.Mode())
		}
		if !slices.Contains(e.Choices, entry) {
			return fmt.Errorf("%s: %q is not a choice of %q", c.owner.Info().Name, entry, label)
		}
		if e.Get() == entry {
			return nil
		}
		if err := e.Set(entry); err != nil {
			return err
		}
		c.changed()
		return nil
	}
	for _, q := range c.quantities() {
		if UnitLabel(q) != label {
			continue
		}
		return c.selectUnit(q, entry)
	}
	return fmt.Errorf("%s: no option labelled %q", c.owner.Info().Name, label)
}

func (c *Controller[M]) selectUnit(q units.Quantity, symbol string) error {
	u, err := units.Lookup(q, c.system, symbol)
	if err != nil {
		return err
	}
	if c.Unit(q) == u {
		return nil
	}
	c.overrides[q] = u
	c.Refresh()
	c.changed()
	return nil
}

// Refresh recomputes the unit suffix of every active parameter.
func (c *Controller[M]) Refresh() {
	for _, p := range slices.Concat(c.owner.Inputs(), c.owner.Outputs()) {
		a := p.Attr()
		if a.Quantity == units.None {
			a.Suffix = ""
			continue
		}
		a.Suffix = c.Unit(a.Quantity).Symbol
	}
}

// State captures the mode, unit overrides and extra choices.
func (c *Controller[M]) State() State {
	s := State{Mode: c.Mode()}
	if len(c.overrides) > 0 {
		s.Units = make(map[string]string, len(c.overrides))
		for q, u := range c.overrides {
			s.Units[string(q)] = u.Symbol
		}
	}
	for _, e := range c.extras {
		if s.Choices == nil {
			s.Choices = make(map[string]string)
		}
		s.Choices[e.Name] = e.Get()
	}
	return s
}

// Restore applies a persisted State and raises a single notification so the
// host regenerates the parameter set before any value is re-bound. The whole
// State is checked first; on error the Function is left unchanged.
func (c *Controller[M]) Restore(s State) error {
	mode := c.current
	if s.Mode != "" {
		m, err := c.parse(s.Mode)
		if err != nil {
			return err
		}
		mode = m
	}
	overrides := make(map[units.Quantity]units.Unit, len(s.Units))
	for name, symbol := range s.Units {
		q := units.Quantity(name)
		u, err := units.Lookup(q, c.system, symbol)
		if err != nil {
			return fmt.Errorf("%s: %w", c.owner.Info().Name, err)
		}
		overrides[q] = u
	}
	for name, entry := range s.Choices {
		idx := slices.IndexFunc(c.extras, func(e Extra) bool { return e.Name == name })
		if idx < 0 {
			return fmt.Errorf("%s: no option labelled %q", c.owner.Info().Name, name)
		}
		if !slices.Contains(c.extras[idx].Choices, entry) {
			return fmt.Errorf("%s: %q is not a choice of %q", c.owner.Info().Name, entry, name)
		}
	}

	c.muted = true
	for name, entry := range s.Choices {
		idx := slices.IndexFunc(c.extras, func(e Extra) bool { return e.Name == name })
		if err := c.extras[idx].Set(entry); err != nil {
			c.muted = false
			return err
		}
	}
	c.current = mode
	maps.Copy(c.overrides, overrides)
	c.Refresh()
	c.muted = false
	c.changed()
	return nil
}

func (c *Controller[M]) SetNotifier(fn func()) {
	c.notify = fn
}

func (c *Controller[M]) changed() {
	if c.muted || c.notify == nil {
		return
	}
	c.notify()
}
