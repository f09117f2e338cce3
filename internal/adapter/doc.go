// Package adapter projects Functions onto host components.
//
// A Registry maps each param.Kind to a Codec that knows the host parameter
// descriptor for the kind, how to read a host cty value into the Go value a
// parameter holds, and how to write it back. A Binding ties one Function to
// one host component: it registers the host parameters, moves data across
// the boundary on every solve and, when a mode change alters the parameter
// set, reconciles the host parameter lists so that wires survive.
package adapter
