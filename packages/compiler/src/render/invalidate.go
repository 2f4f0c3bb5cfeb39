package render

import (
	"fmt"

	"rcc-go/packages/compiler/src/ast"
	"rcc-go/packages/compiler/src/patch"
	"rcc-go/packages/compiler/src/util"
)

// shouldInvalidate decides whether mutating name must trigger a re-render:
// the symbol has to be declared in the factory scope and read somewhere in
// the template scope. Purely internal mutations with no template dependency
// are left untouched.
func (c *Compiler) shouldInvalidate(name string) bool {
	if c.templateScope == nil {
		return false
	}
	return c.factoryScope.Declared(name) && c.templateScope.Reads(name)
}

// invalidate returns the local name of the invalidation function, allocating
// it against the factory scope on first use and caching it afterwards. A
// non-empty name is also the signal that at least one invalidation call was
// synthesized for this component.
func (c *Compiler) invalidate() string {
	if c.invalidateName == "" {
		c.invalidateName = c.factoryScope.Id("invalidate")
	}
	return c.invalidateName
}

// rewriteInvalidation wraps one mutation site of name so the mutation is
// reported to the runtime. The plain form is
//
//	invalidate(K, <mutation>)
//
// For a postfix increment/decrement the call must still evaluate to the
// pre-mutation value for any enclosing expression, so the target's original
// source text becomes the second argument (which the runtime's invalidate
// returns) and the postfix text is appended as a trailing argument:
//
//	invalidate(K, <target>, <mutation>)
//
// buf may be the component buffer or an extracted handler buffer; diagSpan
// always points at the site in the original source. A name with no registry
// index is a compiler-invariant defect: an error is reported and the site is
// left unrewritten.
func (c *Compiler) rewriteInvalidation(name string, site *ast.Node, buf *patch.Buffer, diagSpan *util.ParseSourceSpan) {
	idx, ok := c.registry.Index(name)
	if !ok {
		c.errors.Error(fmt.Sprintf("cannot invalidate %q: symbol was never registered", name), diagSpan)
		return
	}
	fn := c.invalidate()
	if site.Kind == ast.KindUpdate && !site.Prefix && site.Target != nil {
		buf.Wrap(site, fmt.Sprintf("%s(%d, %s, ", fn, idx, buf.Substr(site.Target)), ")")
		return
	}
	buf.Wrap(site, fmt.Sprintf("%s(%d, ", fn, idx), ")")
}
