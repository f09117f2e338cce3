// Package cli is responsible for parsing command-line arguments, resolving
// settings from file, environment and flags, and handling process-level
// concerns like exit codes. Each subcommand drives one App operation.
package cli
