// Package registry is the catalogue of Functions the plugin offers.
//
// Modules register a factory per Function at startup. The registry also
// owns the adapter registry and the analysis engine Functions are built
// with, and ValidateRegistry checks, before anything runs, that every
// parameter kind any mode of any Function can expose has a codec.
package registry
