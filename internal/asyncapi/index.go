package asyncapi

// Index is the arena of every entity declared at a canonical location. It
// gives each location one NodeID so that "same target" checks and visited
// sets compare integers, and so that resolving a location twice yields the
// same node.
type Index struct {
	locations []string
	nodes     []any
	byLoc     map[string]NodeID
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byLoc: make(map[string]NodeID)}
}

// Register records node at loc and returns its ID. If loc is already
// registered the existing ID is returned and node is ignored.
func (ix *Index) Register(loc string, node any) NodeID {
	if id, ok := ix.byLoc[loc]; ok {
		return id
	}
	ix.locations = append(ix.locations, loc)
	ix.nodes = append(ix.nodes, node)
	id := NodeID(len(ix.nodes))
	ix.byLoc[loc] = id
	return id
}

// Lookup returns the ID registered for loc.
func (ix *Index) Lookup(loc string) (NodeID, bool) {
	id, ok := ix.byLoc[loc]
	return id, ok
}

// Node returns the node registered under id, or nil.
func (ix *Index) Node(id NodeID) any {
	if id <= 0 || int(id) > len(ix.nodes) {
		return nil
	}
	return ix.nodes[id-1]
}

// Location returns the canonical location of id.
func (ix *Index) Location(id NodeID) string {
	if id <= 0 || int(id) > len(ix.locations) {
		return ""
	}
	return ix.locations[id-1]
}

// Len returns the number of registered locations.
func (ix *Index) Len() int {
	return len(ix.nodes)
}

// NodeAt returns the node registered at loc as a Node[T].
func NodeAt[T any](ix *Index, loc string) (Node[T], NodeID, bool) {
	id, ok := ix.Lookup(loc)
	if !ok {
		return nil, 0, false
	}
	n, ok := ix.Node(id).(Node[T])
	return n, id, ok
}
