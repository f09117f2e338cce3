// Package app wires the function registry, the analysis engine and the
// settings into one application instance, and implements the operations the
// command line exposes: evaluating documents, describing functions and
// serving a remote editor.
package app
