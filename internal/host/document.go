package host

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/vk/sectiongrid/internal/ctxlog"
	"github.com/vk/sectiongrid/internal/dag"
	"golang.org/x/sync/errgroup"
)

// Document is a canvas of components. Solve is serialized with every other
// method; components in one dependency level are solved concurrently.
type Document struct {
	mu         sync.Mutex
	workers    int
	components []*Component
}

// NewDocument creates an empty document. workers bounds how many components
// of the same level are solved at once; values below one mean GOMAXPROCS.
func NewDocument(workers int) *Document {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Document{workers: workers}
}

// Add places c on the canvas.
func (d *Document) Add(c *Component) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lookup(c.ID()) != nil {
		return fmt.Errorf("component %s already exists", c.ID())
	}
	d.components = append(d.components, c)
	return nil
}

// Remove deletes the component with the given ID and isolates its parameters.
func (d *Document) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.lookup(id)
	if c == nil {
		return false
	}
	for _, p := range slices.Concat(c.inputs, c.outputs) {
		p.Isolate()
	}
	d.components = slices.DeleteFunc(d.components, func(x *Component) bool { return x == c })
	return true
}

func (d *Document) Component(id string) (*Component, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.lookup(id)
	return c, c != nil
}

// Components returns the components in insertion order.
func (d *Document) Components() []*Component {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.components)
}

// Lock runs fn while holding the document lock, so that edits coming from
// outside (a remote UI, a file reload) never interleave with a solve.
func (d *Document) Lock(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

func (d *Document) lookup(id string) *Component {
	for _, c := range d.components {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (d *Document) graph() (*dag.Graph, error) {
	g := dag.New()
	for _, c := range d.components {
		g.AddNode(c.id)
	}
	for _, c := range d.components {
		for _, in := range c.inputs {
			for _, src := range in.sources {
				if src.owner == nil || d.lookup(src.owner.id) == nil {
					continue
				}
				if err := g.AddEdge(src.owner.id, c.id); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

// Solve evaluates every component in dependency order. A behavior error is
// recorded as an error message on its component and does not stop the
// solve; only cycles and context cancellation are returned.
func (d *Document) Solve(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	g, err := d.graph()
	if err != nil {
		return err
	}
	levels, err := g.Levels()
	if err != nil {
		return err
	}
	logger.Debug("Solving document.", "components", len(d.components), "levels", len(levels))

	for i, level := range levels {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(d.workers)
		for _, id := range level {
			c := d.lookup(id)
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				if err := c.Solve(egCtx); err != nil {
					logger.Warn("Component solve failed.", "component", c.id, "name", c.name, "error", err)
					c.AddMessage(Error, err.Error())
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return fmt.Errorf("solve interrupted at level %d: %w", i, err)
		}
	}
	return nil
}
