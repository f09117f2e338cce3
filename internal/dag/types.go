package dag

import "sync"

// Graph is a set of vertices and the edges between them. All operations are
// safe for concurrent use.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
}

// node is kept unexported so callers work with string IDs only.
type node struct {
	id string
	// deps are the vertices this vertex depends on.
	deps map[string]*node
	// dependents are the vertices depending on this vertex.
	dependents map[string]*node
}
