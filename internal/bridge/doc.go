// Package bridge connects a session to a remote node editor over socket.io.
//
// The editor drives the session with three events. select_option changes a
// dropdown entry of a component, set_value stores local input values and
// solve evaluates the whole document. The bridge answers with
// parameters_changed after every parameter set change and with solved after
// every evaluation. Failures are reported with bridge_error.
//
// Events are dispatched one at a time, so an evaluation never overlaps an
// edit coming from the editor.
package bridge
