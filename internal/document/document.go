package document

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Document is a parsed graph document.
type Document struct {
	// System names the unit system; empty means the configured default.
	System     string
	Components []Component
	Wires      []Wire
}

// Component is the persisted state of one component.
type Component struct {
	ID       string
	Function string
	Mode     string
	Units    map[string]string
	Options  map[string]string
	Values   map[string][]cty.Value
}

// Endpoint addresses a parameter of a component.
type Endpoint struct {
	Component string
	Param     string
}

// ParseEndpoint splits "component.Param". Parameter names may contain
// dots and spaces; component IDs may not contain dots.
func ParseEndpoint(s string) (Endpoint, error) {
	id, name, ok := strings.Cut(s, ".")
	if !ok || id == "" || name == "" {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q, expected \"component.Parameter\"", s)
	}
	return Endpoint{Component: id, Param: name}, nil
}

func (e Endpoint) String() string {
	return e.Component + "." + e.Param
}

// Wire connects an output to an input.
type Wire struct {
	From Endpoint
	To   Endpoint
}

// Component returns the component with the given ID.
func (d *Document) Component(id string) (*Component, bool) {
	for i := range d.Components {
		if d.Components[i].ID == id {
			return &d.Components[i], true
		}
	}
	return nil, false
}
