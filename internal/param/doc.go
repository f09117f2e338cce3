// Package param defines the typed value containers a Function declares as
// its inputs and outputs.
//
// A parameter is a pair of immutable-ish metadata (Attribute) and a typed
// value slot. Parameters never validate their values; range and
// cross-parameter checks belong to the owning Function. The Kind tag names
// the semantic type of the value and is the key the adapter layer uses to
// find a host codec, so adding a new kind never touches existing Functions.
package param
