package host

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Severity of a message shown on a component.
type Severity int

const (
	// Error marks the component as failed; its outputs carry no data.
	Error Severity = iota
	Warning
	Remark
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "remark"
	}
}

// Message is a runtime message attached to a component.
type Message struct {
	Severity Severity
	Text     string
}

// Behavior solves a component. The host calls Solve once per evaluation,
// after the component's inputs collected their data.
type Behavior interface {
	Solve(ctx context.Context, c *Component) error
}

// Component is one node on the host canvas.
type Component struct {
	id       string
	name     string
	inputs   []*Param
	outputs  []*Param
	messages []Message
	behavior Behavior
}

// NewComponent creates a component with a random ID.
func NewComponent(name string) *Component {
	return NewComponentWithID(uuid.NewString(), name)
}

// NewComponentWithID creates a component with a caller-chosen ID, as used
// when restoring a saved document.
func NewComponentWithID(id, name string) *Component {
	return &Component{id: id, name: name}
}

func (c *Component) ID() string   { return c.id }
func (c *Component) Name() string { return c.name }

func (c *Component) SetBehavior(b Behavior) {
	c.behavior = b
}

// RegisterInput appends a new input parameter.
func (c *Component) RegisterInput(spec ParamSpec) *Param {
	p := newParam(spec, c, false)
	c.inputs = append(c.inputs, p)
	return p
}

// RegisterOutput appends a new output parameter.
func (c *Component) RegisterOutput(spec ParamSpec) *Param {
	p := newParam(spec, c, true)
	c.outputs = append(c.outputs, p)
	return p
}

// UnregisterInput removes p from the input list. Its wires are left intact
// so they can still be migrated or isolated by the caller.
func (c *Component) UnregisterInput(p *Param) bool {
	n := len(c.inputs)
	c.inputs = slices.DeleteFunc(c.inputs, func(q *Param) bool { return q == p })
	return len(c.inputs) != n
}

// UnregisterOutput removes p from the output list, leaving its wires intact.
func (c *Component) UnregisterOutput(p *Param) bool {
	n := len(c.outputs)
	c.outputs = slices.DeleteFunc(c.outputs, func(q *Param) bool { return q == p })
	return len(c.outputs) != n
}

func (c *Component) Inputs() []*Param  { return slices.Clone(c.inputs) }
func (c *Component) Outputs() []*Param { return slices.Clone(c.outputs) }

// Input finds an input by key.
func (c *Component) Input(key string) (*Param, bool) {
	return find(c.inputs, key)
}

// Output finds an output by key.
func (c *Component) Output(key string) (*Param, bool) {
	return find(c.outputs, key)
}

func find(ps []*Param, key string) (*Param, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p, true
		}
	}
	return nil, false
}

func (c *Component) AddMessage(sev Severity, text string) {
	c.messages = append(c.messages, Message{Severity: sev, Text: text})
}

func (c *Component) ClearMessages() {
	c.messages = nil
}

func (c *Component) Messages() []Message {
	return slices.Clone(c.messages)
}

// HasErrors reports whether the last evaluation failed.
func (c *Component) HasErrors() bool {
	return slices.ContainsFunc(c.messages, func(m Message) bool { return m.Severity == Error })
}

// Solve collects input data and runs the behavior.
func (c *Component) Solve(ctx context.Context) error {
	if c.behavior == nil {
		return fmt.Errorf("component %s (%s) has no behavior", c.id, c.name)
	}
	for _, p := range c.inputs {
		p.collect()
	}
	return c.behavior.Solve(ctx, c)
}
