// Package host models the graph editor the plugin runs inside: components
// with ordered input and output parameter lists, wires between parameters,
// and a document that evaluates its components in dependency order.
//
// Values crossing the host boundary are cty values. A parameter holds two
// kinds of data: persistent data typed in by the user, and volatile data
// collected from upstream wires (or copied from persistent data when the
// parameter has no sources) right before its component is solved.
package host
