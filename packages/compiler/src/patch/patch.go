// Package patch is a positional, insert-only text-edit engine. Edits are
// recorded against an immutable source buffer and applied once at render
// time, so arbitrarily nested rewrites of overlapping ranges stay correct.
package patch

import (
	"sort"
	"strings"

	"rcc-go/packages/compiler/src/ast"
)

// editClass fixes the relative order of insertions that land on the same
// byte offset: prepends, then wrap prefixes, then wrap suffixes, then
// appends. Within the wrap classes the paired offset of the wrapped range
// breaks ties so that wider wraps open first and close last; a wrap declared
// first wins remaining ties, staying outermost.
type editClass int

const (
	classPrepend editClass = iota
	classWrapPrefix
	classWrapSuffix
	classAppend
)

type edit struct {
	pos   int
	text  string
	seq   int
	class editClass
	// other is the opposite end of the wrapped range; for plain prepends
	// and appends it equals pos.
	other int
}

// Buffer accumulates insertions over one source string
type Buffer struct {
	source string
	edits  []edit
	seq    int
}

// NewBuffer creates a Buffer over source
func NewBuffer(source string) *Buffer {
	return &Buffer{source: source}
}

// Source returns the unedited source text
func (b *Buffer) Source() string {
	return b.source
}

func (b *Buffer) insert(pos int, text string, class editClass, other int) {
	b.edits = append(b.edits, edit{pos: pos, text: text, seq: b.seq, class: class, other: other})
	b.seq++
}

// Prepend inserts text at pos, ahead of any other edit declared at the same
// offset. Repeated calls at one offset keep call order.
func (b *Buffer) Prepend(pos int, text string) {
	b.insert(pos, text, classPrepend, pos)
}

// Append inserts text at pos, after any other edit declared at the same
// offset. Repeated calls at one offset keep call order.
func (b *Buffer) Append(pos int, text string) {
	b.insert(pos, text, classAppend, pos)
}

// Wrap surrounds the node's source range with prefix and suffix. Wraps nest
// correctly under arbitrary overlap: a wider wrap opens first and closes
// last, and of two wraps over the same range the one declared first becomes
// the outer one.
func (b *Buffer) Wrap(node *ast.Node, prefix, suffix string) {
	b.insert(node.Start, prefix, classWrapPrefix, node.End)
	b.insert(node.End, suffix, classWrapSuffix, node.Start)
}

// Substr returns the original source text of the node's range
func (b *Buffer) Substr(node *ast.Node) string {
	return b.source[node.Start:node.End]
}

// Indent returns the leading whitespace of the line containing pos
func (b *Buffer) Indent(pos int) string {
	start := strings.LastIndexByte(b.source[:pos], '\n') + 1
	end := start
	for end < len(b.source) && (b.source[end] == ' ' || b.source[end] == '\t') {
		end++
	}
	return b.source[start:end]
}

// Copy extracts the node's source range into an independent Buffer and
// returns it together with the correspondence table mapping every node of
// the subtree to its counterpart in the copy. Later rewrites against the
// copy must go through the table; a node with no counterpart means the
// subtree changed underneath and the rewrite should be skipped.
func (b *Buffer) Copy(node *ast.Node) (*Buffer, map[*ast.Node]*ast.Node) {
	table := make(map[*ast.Node]*ast.Node)
	ast.Rebase(node, -node.Start, table)
	return NewBuffer(b.source[node.Start:node.End]), table
}

// Render applies all edits in position order and returns the final text.
// Edits at the same position are ordered by class; wrap edits then order by
// the width of the wrapped range (wrap prefixes widest-first, wrap suffixes
// innermost-first) and remaining ties fall back to declaration sequence.
func (b *Buffer) Render() string {
	edits := make([]edit, len(b.edits))
	copy(edits, b.edits)
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].pos != edits[j].pos {
			return edits[i].pos < edits[j].pos
		}
		if edits[i].class != edits[j].class {
			return edits[i].class < edits[j].class
		}
		switch edits[i].class {
		case classWrapPrefix:
			// Wider wrap (larger paired end) opens first.
			if edits[i].other != edits[j].other {
				return edits[i].other > edits[j].other
			}
			return edits[i].seq < edits[j].seq
		case classWrapSuffix:
			// Inner wrap (larger paired start) closes first.
			if edits[i].other != edits[j].other {
				return edits[i].other > edits[j].other
			}
			return edits[i].seq > edits[j].seq
		}
		return edits[i].seq < edits[j].seq
	})

	var sb strings.Builder
	last := 0
	for _, e := range edits {
		sb.WriteString(b.source[last:e.pos])
		sb.WriteString(e.text)
		last = e.pos
	}
	sb.WriteString(b.source[last:])
	return sb.String()
}
