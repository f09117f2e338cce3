// Package document reads and writes graph documents in HCL.
//
// A document lists components, each naming the Function it runs together
// with the state the host persists for it (mode, unit overrides, extra
// dropdown choices and the local values typed into its inputs), and the
// wires between component parameters:
//
//	system = "metric-mm"
//
//	component "bar" {
//	  function = "CreateRebar"
//	  mode     = "Single"
//	  values   = { Diameter = 20 }
//	}
//
//	component "spacing" {
//	  function = "CreateRebarSpacing"
//	  units    = { length = "m" }
//	  values   = { Spacing = 0.3, Length = 1 }
//	}
//
//	wire {
//	  from = "bar.Rebar"
//	  to   = "spacing.Rebar"
//	}
//
// A value written as a list supplies several values to one input.
package document
