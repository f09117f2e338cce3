package param

import (
	"fmt"

	"github.com/vk/sectiongrid/internal/units"
)

// Cardinality distinguishes single-value parameters from ordered lists.
type Cardinality int

const (
	// Item parameters hold exactly one value.
	Item Cardinality = iota
	// List parameters hold an ordered list of values.
	List
)

func (c Cardinality) String() string {
	switch c {
	case Item:
		return "item"
	case List:
		return "list"
	default:
		return fmt.Sprintf("cardinality(%d)", int(c))
	}
}

// Kind names the semantic type of a parameter's value.
type Kind string

const (
	KindNumber   Kind = "number"
	KindInteger  Kind = "integer"
	KindBool     Kind = "bool"
	KindText     Kind = "text"
	KindLength   Kind = "length"
	KindForce    Kind = "force"
	KindStress   Kind = "stress"
	KindStrain   Kind = "strain"
	KindMoment   Kind = "moment"
	KindAngle    Kind = "angle"
	KindPoint    Kind = "point"
	KindRebar    Kind = "rebar"
	KindMaterial Kind = "material"
	KindLayer    Kind = "layer"
	KindPreLoad  Kind = "preload"
	KindAction   Kind = "action"
)

// Attribute is the metadata of a parameter.
type Attribute struct {
	// Name is the parameter's identity within its Function. It never carries
	// a unit; see Suffix.
	Name        string
	ShortName   string
	Description string
	Optional    bool
	Cardinality Cardinality
	// Quantity is the physical quantity of the value, if any.
	Quantity units.Quantity
	// Suffix is the display unit injected by the owning Function.
	Suffix string
}

// Label is the display name, e.g. "Spacing [mm]".
func (a Attribute) Label() string {
	if a.Suffix == "" {
		return a.Name
	}
	return a.Name + " [" + a.Suffix + "]"
}

// Attributes projects parameters onto a copy of their metadata.
func Attributes(ps []Parameter) []Attribute {
	out := make([]Attribute, 0, len(ps))
	for _, p := range ps {
		out = append(out, *p.Attr())
	}
	return out
}
