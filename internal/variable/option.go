package variable

import (
	"strings"

	"github.com/vk/sectiongrid/internal/units"
)

// Option is one host-rendered dropdown. It is either an EnumOption or a
// UnitOption; the set is closed.
type Option interface {
	Label() string
	Entries() []string
	Selected() string
	option()
}

// EnumOption is a set of mutually exclusive named choices.
type EnumOption struct {
	Name    string
	Choices []string
	Current string
}

func (o EnumOption) Label() string     { return o.Name }
func (o EnumOption) Entries() []string { return append([]string(nil), o.Choices...) }
func (o EnumOption) Selected() string  { return o.Current }
func (EnumOption) option()             {}

// UnitOption chooses the unit of one quantity. Its entries depend on the
// unit system configured at run time.
type UnitOption struct {
	Quantity units.Quantity
	System   units.System
	Current  units.Unit
}

// UnitLabel is the dropdown label used for a quantity, e.g. "Length unit".
func UnitLabel(q units.Quantity) string {
	s := string(q)
	if s == "" {
		return "unit"
	}
	return strings.ToUpper(s[:1]) + s[1:] + " unit"
}

func (o UnitOption) Label() string { return UnitLabel(o.Quantity) }

func (o UnitOption) Entries() []string {
	legal := units.Legal(o.Quantity, o.System)
	out := make([]string, 0, len(legal))
	for _, u := range legal {
		out = append(out, u.Symbol)
	}
	return out
}

func (o UnitOption) Selected() string { return o.Current.Symbol }
func (UnitOption) option()            {}

// Extra describes a Function-specific enumeration dropdown beyond the mode
// selector, e.g. a concrete strength class.
type Extra struct {
	Name    string
	Choices []string
	// Active reports whether the dropdown applies to the current mode. Nil
	// means always.
	Active func() bool
	Get    func() string
	Set    func(entry string) error
}

func (e Extra) active() bool {
	return e.Active == nil || e.Active()
}
