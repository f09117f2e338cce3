// Package session holds a live graph of bound functions built from a
// persisted document. It is the single place where document state, host
// components and function instances meet.
package session

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/vk/sectiongrid/internal/adapter"
	"github.com/vk/sectiongrid/internal/ctxlog"
	"github.com/vk/sectiongrid/internal/document"
	"github.com/vk/sectiongrid/internal/host"
	"github.com/vk/sectiongrid/internal/registry"
	"github.com/vk/sectiongrid/internal/units"
	"github.com/vk/sectiongrid/internal/variable"
	"github.com/zclconf/go-cty/cty"
)

// Node is one component of the session together with its binding.
type Node struct {
	ID       string
	Function string
	Binding  *adapter.Binding
}

func (n *Node) Component() *host.Component { return n.Binding.Component() }

// Variable returns the node's function as a variable.Function, if it has
// modes.
func (n *Node) Variable() (variable.Function, bool) {
	vf, ok := n.Binding.Function().(variable.Function)
	return vf, ok
}

// Session is a live document. Edits are serialized with solves through the
// host document lock.
type Session struct {
	reg    *registry.Registry
	system units.System
	doc    *host.Document

	mu    sync.RWMutex
	nodes map[string]*Node
	order []string
}

// New creates an empty session whose functions are instantiated under sys.
func New(reg *registry.Registry, sys units.System, workers int) *Session {
	return &Session{
		reg:    reg,
		system: sys,
		doc:    host.NewDocument(workers),
		nodes:  make(map[string]*Node),
	}
}

// Build creates a session from a persisted document. A system named by the
// document overrides fallback. For every component the persisted mode,
// units and choices are restored before any value is bound, so values land
// on the parameter set they were saved from.
func Build(ctx context.Context, reg *registry.Registry, d *document.Document, fallback units.System, workers int) (*Session, error) {
	sys := fallback
	if d.System != "" {
		s, err := units.ParseSystem(d.System)
		if err != nil {
			return nil, err
		}
		sys = s
	}
	s := New(reg, sys, workers)

	for _, dc := range d.Components {
		n, err := s.Add(ctx, dc.ID, dc.Function)
		if err != nil {
			return nil, err
		}
		if err := s.restore(n, dc); err != nil {
			return nil, fmt.Errorf("component %s: %w", dc.ID, err)
		}
		for _, name := range slices.Sorted(maps.Keys(dc.Values)) {
			if err := n.Binding.SetValue(name, dc.Values[name]...); err != nil {
				return nil, fmt.Errorf("component %s: %w", dc.ID, err)
			}
		}
	}
	for _, w := range d.Wires {
		if err := s.Connect(w.From, w.To); err != nil {
			return nil, err
		}
	}
	ctxlog.FromContext(ctx).Debug("Session built.", "system", sys, "components", len(d.Components), "wires", len(d.Wires))
	return s, nil
}

func (s *Session) restore(n *Node, dc document.Component) error {
	vf, ok := n.Variable()
	if !ok {
		if dc.Mode != "" || len(dc.Units) > 0 || len(dc.Options) > 0 {
			return fmt.Errorf("%s has no modes or options", dc.Function)
		}
		return nil
	}
	if dc.Mode == "" && len(dc.Units) == 0 && len(dc.Options) == 0 {
		return nil
	}
	return n.Binding.Apply(func() error {
		return vf.Restore(variable.State{Mode: dc.Mode, Units: dc.Units, Choices: dc.Options})
	})
}

func (s *Session) System() units.System { return s.system }
func (s *Session) Host() *host.Document  { return s.doc }

// Add instantiates the named function and places it on the canvas under id.
func (s *Session) Add(ctx context.Context, id, name string) (*Node, error) {
	fn, err := s.reg.New(name, s.system)
	if err != nil {
		return nil, err
	}
	comp := host.NewComponentWithID(id, name)
	b, err := adapter.Bind(ctx, fn, comp, s.reg.Adapters())
	if err != nil {
		return nil, err
	}
	if err := s.doc.Add(comp); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := &Node{ID: id, Function: name, Binding: b}
	s.nodes[id] = n
	s.order = append(s.order, id)
	return n, nil
}

// Remove deletes a node and its wires.
func (s *Session) Remove(id string) bool {
	if !s.doc.Remove(id) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, id)
	s.order = slices.DeleteFunc(s.order, func(x string) bool { return x == id })
	return true
}

// Node returns the node with the given ID.
func (s *Session) Node(id string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns the nodes in insertion order.
func (s *Session) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

func (s *Session) endpoint(e document.Endpoint, output bool) (*host.Param, error) {
	n, ok := s.Node(e.Component)
	if !ok {
		return nil, fmt.Errorf("unknown component %q", e.Component)
	}
	var (
		p     *host.Param
		found bool
	)
	if output {
		p, found = n.Component().Output(e.Param)
	} else {
		p, found = n.Component().Input(e.Param)
	}
	if !found {
		side := "input"
		if output {
			side = "output"
		}
		return nil, fmt.Errorf("%s has no %s %q", e.Component, side, e.Param)
	}
	return p, nil
}

// Connect wires an output to an input.
func (s *Session) Connect(from, to document.Endpoint) error {
	src, err := s.endpoint(from, true)
	if err != nil {
		return fmt.Errorf("wire %s -> %s: %w", from, to, err)
	}
	dst, err := s.endpoint(to, false)
	if err != nil {
		return fmt.Errorf("wire %s -> %s: %w", from, to, err)
	}
	s.doc.Lock(func() { err = host.Connect(src, dst) })
	if err != nil {
		return fmt.Errorf("wire %s -> %s: %w", from, to, err)
	}
	return nil
}

// Select changes a dropdown entry of a node, reconciling its parameters.
func (s *Session) Select(id, label, entry string) error {
	n, ok := s.Node(id)
	if !ok {
		return fmt.Errorf("unknown component %q", id)
	}
	vf, ok := n.Variable()
	if !ok {
		return fmt.Errorf("%s has no options", n.Function)
	}
	var err error
	s.doc.Lock(func() {
		err = n.Binding.Apply(func() error { return vf.Select(label, entry) })
	})
	return err
}

// SetValue stores local values on an input of a node.
func (s *Session) SetValue(e document.Endpoint, vs ...cty.Value) error {
	n, ok := s.Node(e.Component)
	if !ok {
		return fmt.Errorf("unknown component %q", e.Component)
	}
	var err error
	s.doc.Lock(func() { err = n.Binding.SetValue(e.Param, vs...) })
	return err
}

// Solve evaluates every node in dependency order.
func (s *Session) Solve(ctx context.Context) error {
	return s.doc.Solve(ctx)
}

// Snapshot captures the session as a document. Wires are listed per
// receiving input in node order.
func (s *Session) Snapshot() *document.Document {
	d := &document.Document{System: string(s.system)}
	s.doc.Lock(func() {
		for _, n := range s.Nodes() {
			dc := document.Component{ID: n.ID, Function: n.Function}
			if vf, ok := n.Variable(); ok {
				st := vf.State()
				dc.Mode, dc.Units, dc.Options = st.Mode, st.Units, st.Choices
			}
			if vs := n.Binding.Values(); len(vs) > 0 {
				dc.Values = vs
			}
			d.Components = append(d.Components, dc)

			for _, in := range n.Component().Inputs() {
				for _, src := range in.Sources() {
					d.Wires = append(d.Wires, document.Wire{
						From: document.Endpoint{Component: src.Owner().ID(), Param: src.Key},
						To:   document.Endpoint{Component: n.ID, Param: in.Key},
					})
				}
			}
		}
	})
	return d
}

// Output is the solved data of one output parameter.
type Output struct {
	Name   string
	Label  string
	Values []cty.Value
}

// Result is the solved state of one node.
type Result struct {
	ID       string
	Function string
	Messages []host.Message
	Outputs  []Output
}

// Results reports messages and output data of every node.
func (s *Session) Results() []Result {
	var out []Result
	s.doc.Lock(func() {
		for _, n := range s.Nodes() {
			r := Result{ID: n.ID, Function: n.Function, Messages: n.Component().Messages()}
			for _, p := range n.Component().Outputs() {
				r.Outputs = append(r.Outputs, Output{Name: p.Key, Label: p.Name, Values: p.Data()})
			}
			out = append(out, r)
		}
	})
	return out
}
