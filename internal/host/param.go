package host

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"
)

// Access is the cardinality a host parameter collects data with.
type Access int

const (
	Item Access = iota
	List
)

func (a Access) String() string {
	if a == List {
		return "list"
	}
	return "item"
}

// ParamSpec is the descriptor a component registers a parameter with.
type ParamSpec struct {
	// Key identifies the parameter across re-registrations. It never
	// changes with display units.
	Key         string
	Name        string
	NickName    string
	Description string
	TypeName    string
	Access      Access
	Optional    bool
}

// Param is a live host parameter owned by one component.
type Param struct {
	ParamSpec

	id         string
	output     bool
	owner      *Component
	sources    []*Param
	recipients []*Param
	persistent []cty.Value
	data       []cty.Value
}

func newParam(spec ParamSpec, owner *Component, output bool) *Param {
	return &Param{
		ParamSpec: spec,
		id:        uuid.NewString(),
		output:    output,
		owner:     owner,
	}
}

func (p *Param) ID() string           { return p.id }
func (p *Param) IsOutput() bool       { return p.output }
func (p *Param) Owner() *Component    { return p.owner }
func (p *Param) Sources() []*Param    { return slices.Clone(p.sources) }
func (p *Param) Recipients() []*Param { return slices.Clone(p.recipients) }

// Connected reports whether any wire touches p.
func (p *Param) Connected() bool {
	return len(p.sources) > 0 || len(p.recipients) > 0
}

// Data returns the volatile data of the current evaluation.
func (p *Param) Data() []cty.Value {
	return slices.Clone(p.data)
}

// SetData replaces the volatile data.
func (p *Param) SetData(vs []cty.Value) {
	p.data = slices.Clone(vs)
}

// Persistent returns the user-entered local values.
func (p *Param) Persistent() []cty.Value {
	return slices.Clone(p.persistent)
}

// SetPersistent replaces the user-entered local values.
func (p *Param) SetPersistent(vs ...cty.Value) {
	p.persistent = slices.Clone(vs)
}

// collect fills the volatile data of an input from its sources, or from its
// persistent data when it has none.
func (p *Param) collect() {
	if len(p.sources) == 0 {
		p.data = slices.Clone(p.persistent)
		return
	}
	var data []cty.Value
	for _, src := range p.sources {
		data = append(data, src.data...)
	}
	p.data = data
}

// Connect wires the output src to the input dst. Connecting an existing wire
// again does nothing.
func Connect(src, dst *Param) error {
	if !src.output {
		return fmt.Errorf("cannot wire from input %q", src.Key)
	}
	if dst.output {
		return fmt.Errorf("cannot wire into output %q", dst.Key)
	}
	if src.owner != nil && src.owner == dst.owner {
		return fmt.Errorf("cannot wire component %s to itself", src.owner.ID())
	}
	if slices.Contains(dst.sources, src) {
		return nil
	}
	dst.sources = append(dst.sources, src)
	src.recipients = append(src.recipients, dst)
	return nil
}

// Disconnect removes the wire between src and dst, if any.
func Disconnect(src, dst *Param) {
	dst.sources = slices.DeleteFunc(dst.sources, func(p *Param) bool { return p == src })
	src.recipients = slices.DeleteFunc(src.recipients, func(p *Param) bool { return p == dst })
}

// AdoptWiring moves the wires and persistent data of old onto p. Upstream
// and downstream parameters are repointed from old to p; old is left bare.
func (p *Param) AdoptWiring(old *Param) {
	for _, src := range old.sources {
		src.recipients = replace(src.recipients, old, p)
		if !slices.Contains(p.sources, src) {
			p.sources = append(p.sources, src)
		}
	}
	for _, dst := range old.recipients {
		dst.sources = replace(dst.sources, old, p)
		if !slices.Contains(p.recipients, dst) {
			p.recipients = append(p.recipients, dst)
		}
	}
	if len(p.persistent) == 0 {
		p.persistent = old.persistent
	}
	old.sources = nil
	old.recipients = nil
	old.persistent = nil
}

// Isolate drops every wire touching p.
func (p *Param) Isolate() {
	for _, src := range slices.Clone(p.sources) {
		Disconnect(src, p)
	}
	for _, dst := range slices.Clone(p.recipients) {
		Disconnect(p, dst)
	}
}

func replace(ps []*Param, old, with *Param) []*Param {
	out := make([]*Param, 0, len(ps))
	for _, p := range ps {
		if p == old {
			p = with
		}
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}
