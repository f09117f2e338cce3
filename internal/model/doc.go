// Package model holds the structural values that flow along wires between
// components: points, materials, rebars, rebar layers, preloads and the
// actions a section is checked against.
//
// Every type carries `cty` tags so it can be converted to and from the
// host's cty values with gocty. Lengths are in millimetres, stresses in MPa,
// forces in kN and moments in kNm; display units are a presentation concern
// of the components.
package model
