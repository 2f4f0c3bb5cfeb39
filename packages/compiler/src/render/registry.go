package render

// MaskBits is the number of usable bit positions in the template mask. The
// mask is carried in a 32-bit signed integer, so one bit is lost to the sign
// representation.
const MaskBits = 31

// Registry assigns each reactive symbol a stable bit index on first use.
// Indices are dense, start at 0 and strictly increase in assignment order;
// they are never reassigned or reused. The registry is seeded in symbol
// ranking order and grows later when handler extraction synthesizes names.
type Registry struct {
	indices map[string]int
	names   []string
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{indices: make(map[string]int)}
}

// Register assigns the next sequential index to name, or returns the index
// already assigned to it.
func (r *Registry) Register(name string) int {
	if idx, ok := r.indices[name]; ok {
		return idx
	}
	idx := len(r.names)
	r.indices[name] = idx
	r.names = append(r.names, name)
	return idx
}

// Index returns the index assigned to name, if any
func (r *Registry) Index(name string) (int, bool) {
	idx, ok := r.indices[name]
	return idx, ok
}

// Names returns the registered names in index order
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Len returns the number of registered symbols
func (r *Registry) Len() int {
	return len(r.names)
}
