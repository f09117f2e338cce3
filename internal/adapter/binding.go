package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vk/sectiongrid/internal/ctxlog"
	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/host"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/variable"
	"github.com/zclconf/go-cty/cty"
)

// Scaler converts numbers between the unit displayed on a parameter and
// the base unit the parameter stores. Functions embedding a
// variable.Controller satisfy it.
type Scaler interface {
	ToBase(p param.Parameter, v float64) float64
	FromBase(p param.Parameter, v float64) float64
}

// Binding couples a Function to the host component that displays it.
type Binding struct {
	fn     function.Function
	comp   *host.Component
	reg    *Registry
	logger *slog.Logger
	err    error
}

// Bind registers the host parameters of fn on comp and installs the binding
// as the component's behavior. When fn has modes, the binding becomes its
// notifier and reconciles comp on every parameter set change.
func Bind(ctx context.Context, fn function.Function, comp *host.Component, reg *Registry) (*Binding, error) {
	b := &Binding{
		fn:     fn,
		comp:   comp,
		reg:    reg,
		logger: ctxlog.FromContext(ctx).With("component", comp.ID(), "function", fn.Info().Name),
	}
	if err := b.populate(); err != nil {
		return nil, err
	}
	comp.SetBehavior(b)
	if vf, ok := fn.(variable.Function); ok {
		vf.SetNotifier(b.changed)
	}
	b.logger.Debug("Function bound.", "inputs", len(fn.Inputs()), "outputs", len(fn.Outputs()))
	return b, nil
}

func (b *Binding) Function() function.Function { return b.fn }
func (b *Binding) Component() *host.Component  { return b.comp }

func (b *Binding) specs(ps []param.Parameter) ([]host.ParamSpec, error) {
	out := make([]host.ParamSpec, 0, len(ps))
	for _, p := range ps {
		spec, err := b.reg.Placeholder(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.fn.Info().Name, err)
		}
		out = append(out, spec)
	}
	return out, nil
}

func (b *Binding) populate() error {
	ins, err := b.specs(b.fn.Inputs())
	if err != nil {
		return err
	}
	outs, err := b.specs(b.fn.Outputs())
	if err != nil {
		return err
	}
	for _, s := range ins {
		b.comp.RegisterInput(s)
	}
	for _, s := range outs {
		b.comp.RegisterOutput(s)
	}
	return nil
}

func (b *Binding) changed() {
	b.err = b.Reconcile()
	if b.err != nil {
		b.logger.Error("Reconcile failed.", "error", b.err)
		b.comp.AddMessage(host.Error, b.err.Error())
	}
}

// Apply runs an edit of the function's modes or options. It returns the
// edit's error or, when the edit raised a reconciliation, the error of that
// reconciliation. An edit that changes nothing returns nil.
func (b *Binding) Apply(edit func() error) error {
	b.err = nil
	if err := edit(); err != nil {
		return err
	}
	return b.err
}

// wireKey identifies a host parameter across reconciliations. The kind is
// part of the key so that a parameter keeping its name while changing
// meaning does not inherit wires typed for the old meaning.
type wireKey struct {
	name string
	kind string
}

func keyOf(p *host.Param) wireKey {
	return wireKey{name: p.Key, kind: p.TypeName}
}

// Reconcile replaces the host parameter lists with the Function's current
// ones. A new parameter whose (name, kind) matches an old one takes over
// its wires and local values; unmatched old parameters are disconnected.
// On error the host lists are left untouched.
func (b *Binding) Reconcile() error {
	ins, err := b.specs(b.fn.Inputs())
	if err != nil {
		return err
	}
	outs, err := b.specs(b.fn.Outputs())
	if err != nil {
		return err
	}

	kept, dropped := 0, 0
	swap := func(old []*host.Param, specs []host.ParamSpec, unregister func(*host.Param) bool, register func(host.ParamSpec) *host.Param) {
		snapshot := make(map[wireKey]*host.Param, len(old))
		for _, p := range old {
			snapshot[keyOf(p)] = p
			unregister(p)
		}
		for _, s := range specs {
			p := register(s)
			if prev, ok := snapshot[keyOf(p)]; ok {
				p.AdoptWiring(prev)
				delete(snapshot, keyOf(p))
				kept++
			}
		}
		for _, p := range old {
			if _, ok := snapshot[keyOf(p)]; ok {
				if p.Connected() {
					dropped++
				}
				p.Isolate()
			}
		}
	}
	swap(b.comp.Inputs(), ins, b.comp.UnregisterInput, b.comp.RegisterInput)
	swap(b.comp.Outputs(), outs, b.comp.UnregisterOutput, b.comp.RegisterOutput)

	b.logger.Debug("Parameters reconciled.", "kept", kept, "dropped_wired", dropped,
		"inputs", len(ins), "outputs", len(outs))
	return nil
}

// Solve runs one evaluation cycle: collect host data into the inputs,
// evaluate the Function, then write the outputs back. User-facing failures
// become component messages; only a failure to write an output, which
// means a codec disagrees with its parameter, is returned.
func (b *Binding) Solve(ctx context.Context, comp *host.Component) error {
	comp.ClearMessages()

	if err := b.collect(); err != nil {
		var ce *ConversionError
		if !errors.As(err, &ce) {
			return err
		}
		comp.AddMessage(host.Error, err.Error())
		b.clearOutputs()
		return nil
	}

	if cs, ok := b.fn.(function.ContextSetter); ok {
		cs.SetContext(ctx)
	}
	ok := function.Evaluate(b.fn)
	b.fn.Messages().Each(func(sev function.Severity, text string) {
		comp.AddMessage(severity(sev), text)
	})
	if !ok || b.fn.Messages().HasErrors() {
		b.clearOutputs()
		ctxlog.FromContext(ctx).Debug("Evaluation rejected.", "component", comp.ID())
		return nil
	}
	return b.emit()
}

func severity(s function.Severity) host.Severity {
	switch s {
	case function.Error:
		return host.Error
	case function.Warning:
		return host.Warning
	default:
		return host.Remark
	}
}

func (b *Binding) scaler() (Scaler, bool) {
	s, ok := b.fn.(Scaler)
	return s, ok
}

// collect reads the volatile data of every host input into its parameter.
// An input without data is reset to its default. An item input given
// several values uses the first and reports a warning.
func (b *Binding) collect() error {
	s, scaled := b.scaler()
	for _, p := range b.fn.Inputs() {
		a := p.Attr()
		hp, ok := b.comp.Input(a.Name)
		if !ok {
			function.Violation(b.fn, "input %q has no host parameter", a.Name)
		}
		c, err := b.reg.Lookup(p.Kind())
		if err != nil {
			return err
		}
		data := hp.Data()
		if len(data) == 0 {
			p.ResetToDefault()
			continue
		}
		if a.Cardinality == param.Item && len(data) > 1 {
			b.comp.AddMessage(host.Warning, fmt.Sprintf("Input parameter %s received %d values, only the first is used", a.Name, len(data)))
			data = data[:1]
		}
		vals := make([]any, 0, len(data))
		for _, d := range data {
			v, err := c.Read(d)
			if err != nil {
				return &ConversionError{Param: a.Name, Kind: p.Kind(), Err: err}
			}
			if scaled && c.Scale != nil {
				v = c.Scale(v, func(f float64) float64 { return s.ToBase(p, f) })
			}
			vals = append(vals, v)
		}
		if err := p.Assign(vals); err != nil {
			return &ConversionError{Param: a.Name, Kind: p.Kind(), Err: err}
		}
	}
	return nil
}

func (b *Binding) emit() error {
	s, scaled := b.scaler()
	for _, p := range b.fn.Outputs() {
		hp, ok := b.comp.Output(p.Attr().Name)
		if !ok {
			function.Violation(b.fn, "output %q has no host parameter", p.Attr().Name)
		}
		c, err := b.reg.Lookup(p.Kind())
		if err != nil {
			return err
		}
		var data []cty.Value
		for _, v := range p.Values() {
			if scaled && c.Scale != nil {
				v = c.Scale(v, func(f float64) float64 { return s.FromBase(p, f) })
			}
			cv, err := c.Write(v)
			if err != nil {
				return &ConversionError{Param: p.Attr().Name, Kind: p.Kind(), Err: err}
			}
			data = append(data, cv)
		}
		hp.SetData(data)
	}
	return nil
}

func (b *Binding) clearOutputs() {
	for _, hp := range b.comp.Outputs() {
		hp.SetData(nil)
	}
}

// Values returns the persistent host values of every input, keyed by
// parameter name, for saving.
func (b *Binding) Values() map[string][]cty.Value {
	out := make(map[string][]cty.Value)
	for _, hp := range b.comp.Inputs() {
		if vs := hp.Persistent(); len(vs) > 0 {
			out[hp.Key] = vs
		}
	}
	return out
}

// SetValue stores local values on the named input, as typed in the host.
func (b *Binding) SetValue(name string, vs ...cty.Value) error {
	hp, ok := b.comp.Input(name)
	if !ok {
		names := make([]string, 0, len(b.comp.Inputs()))
		for _, p := range b.comp.Inputs() {
			names = append(names, p.Key)
		}
		return fmt.Errorf("%s has no input %q (have %v)", b.fn.Info().Name, name, names)
	}
	hp.SetPersistent(vs...)
	return nil
}
