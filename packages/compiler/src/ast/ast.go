// Package ast defines the syntax-node shape the compilation core consumes.
// The lexer/parser that produces these nodes lives outside this module; the
// core reads them as positioned, read-only metadata over the source text,
// with one sanctioned exception: an event binding's Handler field is replaced
// in place once handler normalization completes.
package ast

// NodeKind discriminates the node variants the core inspects
type NodeKind int

const (
	KindIdentifier NodeKind = iota
	KindLiteral
	KindMember
	KindCall
	KindAssignment
	KindUpdate
	KindFunction
	KindBlock
	KindExpressionStatement
)

// String returns a readable name for the kind
func (k NodeKind) String() string {
	switch k {
	case KindIdentifier:
		return "Identifier"
	case KindLiteral:
		return "Literal"
	case KindMember:
		return "Member"
	case KindCall:
		return "Call"
	case KindAssignment:
		return "Assignment"
	case KindUpdate:
		return "Update"
	case KindFunction:
		return "Function"
	case KindBlock:
		return "Block"
	case KindExpressionStatement:
		return "ExpressionStatement"
	}
	return "Unknown"
}

// Node is a single syntax node. Start and End are byte offsets into the
// component source. Only the fields relevant to a node's kind are set:
//
//   - Identifier: Name
//   - Assignment: Operator, Target (left side), Value (right side)
//   - Update: Operator ("++"/"--"), Prefix, Target
//   - Function: Name (empty when anonymous), Params, ParamsPos (offset just
//     past the opening parenthesis), Body (a Block, or a bare expression for
//     an implicit return), Arrow
//   - Block / Call: Children (statements / arguments)
//   - Member: Target (object), Name (property)
//   - ExpressionStatement: Value
type Node struct {
	Kind      NodeKind
	Start     int
	End       int
	Name      string
	Operator  string
	Prefix    bool
	Arrow     bool
	Target    *Node
	Value     *Node
	Params    []*Node
	ParamsPos int
	Body      *Node
	Children  []*Node
}

// NewIdentifier creates an identifier node over the given source range
func NewIdentifier(name string, start, end int) *Node {
	return &Node{Kind: KindIdentifier, Name: name, Start: start, End: end}
}

// Contains reports whether other lies entirely within n's source range
func (n *Node) Contains(other *Node) bool {
	return other.Start >= n.Start && other.End <= n.End
}

// Walk traverses the subtree rooted at n in pre-order. Returning false from
// visit skips the node's children.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, p := range n.Params {
		Walk(p, visit)
	}
	Walk(n.Target, visit)
	Walk(n.Value, visit)
	Walk(n.Body, visit)
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// Rebase deep-copies the subtree rooted at n, shifting every source offset
// by delta, and records each original node's counterpart in table. It is the
// basis of the node-correspondence mapping kept when a source range is copied
// into an independent edit buffer.
func Rebase(n *Node, delta int, table map[*Node]*Node) *Node {
	if n == nil {
		return nil
	}
	clone := *n
	clone.Start += delta
	clone.End += delta
	if n.Kind == KindFunction {
		clone.ParamsPos += delta
	}
	if n.Params != nil {
		clone.Params = make([]*Node, len(n.Params))
		for i, p := range n.Params {
			clone.Params[i] = Rebase(p, delta, table)
		}
	}
	clone.Target = Rebase(n.Target, delta, table)
	clone.Value = Rebase(n.Value, delta, table)
	clone.Body = Rebase(n.Body, delta, table)
	if n.Children != nil {
		clone.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			clone.Children[i] = Rebase(c, delta, table)
		}
	}
	table[n] = &clone
	return &clone
}

// EventBinding is a template event directive: an attribute name made of a
// prefix (e.g. "on:"), an event type and pipe-delimited modifier suffixes,
// plus the bound handler expression. Start and End span the whole attribute.
// Bindings are read from the parsed template and never deleted; normalization
// may replace Handler with a synthesized identifier reference.
type EventBinding struct {
	Prefix  string
	Name    string
	Handler *Node
	Start   int
	End     int
}

// Template is the parsed template region embedded in a component factory.
// BodyPos is the offset at the top of the template's executable body, where
// generated code fragments are spliced.
type Template struct {
	Start    int
	End      int
	BodyPos  int
	Bindings []*EventBinding
}
