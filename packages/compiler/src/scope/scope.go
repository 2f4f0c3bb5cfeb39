// Package scope holds the def/use information the scope-resolution pass
// computes for one lexical region. The compilation core consumes it read-only
// except for Id, which reserves synthesized identifiers against the region.
package scope

import (
	"fmt"

	"rcc-go/packages/compiler/src/ast"
)

// Scope records, for one lexical region, the names declared in it, the
// ordered read-reference sites and the ordered mutation sites per name.
//
// A name may have update sites without usage sites and vice versa. Two scopes
// matter to component compilation: the component-factory scope and the
// template scope. A mutation of a factory-declared symbol that occurs
// lexically inside the template is recorded in both: the template scope
// tracks the site by lexical position, the factory scope tracks it as an
// update of its declaration.
type Scope struct {
	parent *Scope

	declarations map[string]bool
	declOrder    []string

	usages     map[string][]*ast.Node
	usageOrder []string

	updates     map[string][]*ast.Node
	updateOrder []string

	// reserved holds identifiers handed out by Id, so later hints cannot
	// collide with them.
	reserved map[string]bool
}

// NewScope creates a scope. parent may be nil for a root scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:       parent,
		declarations: make(map[string]bool),
		usages:       make(map[string][]*ast.Node),
		updates:      make(map[string][]*ast.Node),
		reserved:     make(map[string]bool),
	}
}

// Declare records a name introduced in this region
func (s *Scope) Declare(name string) {
	if !s.declarations[name] {
		s.declarations[name] = true
		s.declOrder = append(s.declOrder, name)
	}
}

// AddUsage records a read-reference site for name
func (s *Scope) AddUsage(name string, site *ast.Node) {
	if _, ok := s.usages[name]; !ok {
		s.usageOrder = append(s.usageOrder, name)
	}
	s.usages[name] = append(s.usages[name], site)
}

// AddUpdate records a write/mutation site for name
func (s *Scope) AddUpdate(name string, site *ast.Node) {
	if _, ok := s.updates[name]; !ok {
		s.updateOrder = append(s.updateOrder, name)
	}
	s.updates[name] = append(s.updates[name], site)
}

// Declared reports whether name is declared in this region
func (s *Scope) Declared(name string) bool {
	return s.declarations[name]
}

// Reads reports whether name has at least one read-reference site
func (s *Scope) Reads(name string) bool {
	return len(s.usages[name]) > 0
}

// Updated reports whether name has at least one mutation site
func (s *Scope) Updated(name string) bool {
	return len(s.updates[name]) > 0
}

// Usages returns the ordered read-reference sites for name
func (s *Scope) Usages(name string) []*ast.Node {
	return s.usages[name]
}

// Updates returns the ordered mutation sites for name
func (s *Scope) Updates(name string) []*ast.Node {
	return s.updates[name]
}

// Declarations returns the declared names in declaration order
func (s *Scope) Declarations() []string {
	return s.declOrder
}

// UsageNames returns the read names in first-occurrence order
func (s *Scope) UsageNames() []string {
	return s.usageOrder
}

// UpdateNames returns the mutated names in first-occurrence order
func (s *Scope) UpdateNames() []string {
	return s.updateOrder
}

// has reports whether name is visible in this scope or any enclosing one,
// either as a declaration or as a previously reserved identifier.
func (s *Scope) has(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.declarations[name] || sc.reserved[name] {
			return true
		}
	}
	return false
}

// Id returns a collision-free identifier derived from hint and reserves it
// in this scope. The hint itself is used when free; otherwise a numeric
// suffix is appended, counting up until a free name is found.
func (s *Scope) Id(hint string) string {
	name := hint
	for i := 1; s.has(name); i++ {
		name = fmt.Sprintf("%s_%d", hint, i)
	}
	s.reserved[name] = true
	return name
}
