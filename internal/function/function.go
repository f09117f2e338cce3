// Package function defines the contract every computation exposed as a
// graph node implements, and the driver that runs one evaluation of it.
package function

import (
	"context"
	"fmt"

	"github.com/vk/sectiongrid/internal/param"
)

// Info is the static metadata of a Function.
type Info struct {
	Name        string
	ShortName   string
	Description string
	// Category and Subcategory place the Function in the host's toolbar.
	Category    string
	Subcategory string
}

// Function is a computation unit with ordered inputs and outputs.
//
// Inputs and Outputs are pure queries of the Function's current mode: two
// calls without an intervening mode change return the same parameters in the
// same order.
type Function interface {
	Info() Info
	Inputs() []param.Parameter
	Outputs() []param.Parameter
	// ValidateInputs checks populated inputs. Returning false means Compute
	// must not run and an error message was recorded.
	ValidateInputs() bool
	// Compute reads the inputs and writes the outputs. It is idempotent for
	// unchanged inputs.
	Compute()
	Messages() *Messages
}

// ContextSetter is implemented by Functions whose Compute calls a
// collaborator that honours cancellation. The host glue hands it the
// context of the running solve before every evaluation.
type ContextSetter interface {
	SetContext(ctx context.Context)
}

// Base carries the metadata and message lists shared by all Functions.
// Concrete Functions embed it.
type Base struct {
	info Info
	msgs Messages
}

// NewBase returns a Base for the given metadata.
func NewBase(info Info) Base {
	return Base{info: info}
}

func (b *Base) Info() Info           { return b.info }
func (b *Base) Messages() *Messages  { return &b.msgs }
func (b *Base) ValidateInputs() bool { return true }

// Evaluate runs one evaluation: messages are cleared, required inputs are
// checked, ValidateInputs runs, and Compute runs only when validation
// passed. It reports whether Compute ran.
func Evaluate(f Function) bool {
	msgs := f.Messages()
	msgs.Clear()

	ok := true
	for _, p := range f.Inputs() {
		a := p.Attr()
		if !a.Optional && !p.IsSet() {
			msgs.Errorf("Input parameter %s failed to collect data", a.Name)
			ok = false
		}
	}
	if !ok {
		return false
	}

	if !f.ValidateInputs() {
		if !msgs.HasErrors() {
			msgs.Errorf("%s: input validation failed", f.Info().Name)
		}
		return false
	}

	f.Compute()
	return true
}

// ContractError reports a broken programming contract, such as an input
// variant a Function claims to support but cannot handle. It is raised with
// panic and never used for bad user input.
type ContractError struct {
	Function string
	Detail   string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("function %s: contract violation: %s", e.Function, e.Detail)
}

// Violation panics with a ContractError.
func Violation(f Function, format string, args ...any) {
	panic(&ContractError{Function: f.Info().Name, Detail: fmt.Sprintf(format, args...)})
}
