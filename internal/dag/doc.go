// Package dag provides the directed acyclic graph used to order the
// evaluation of components in a host document.
//
// Components are vertices; a wire from an output of A to an input of B is an
// edge A -> B. Levels groups vertices so that every vertex only depends on
// vertices of earlier levels, which lets independent components of one level
// be evaluated side by side while each component is still evaluated by a
// single caller at a time.
package dag
