// Package variable lets a Function change its input parameter set at run
// time based on an internal mode, and exposes the dropdowns (modes, extra
// enumerations, units of measure) a host renders for it.
//
// A mode change is recorded, the unit suffixes of the now-active parameters
// are refreshed, and then the host-injected notifier is called synchronously.
// The notifier is where the host glue reconciles its parameter list.
package variable
