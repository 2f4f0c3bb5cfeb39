package render

import (
	"fmt"
	"strings"

	"rcc-go/packages/compiler/src/ast"
	"rcc-go/packages/compiler/src/patch"
)

// Canonical modifier statements, in prologue order: propagation stop runs
// before default prevention regardless of the order the author wrote them.
const (
	modStopPropagation = "stopPropagation"
	modPreventDefault  = "preventDefault"
)

// eventModifiers is the fixed, process-wide modifier vocabulary, mapping
// each recognized token to its canonical statement (synonyms fold together).
// "passive" is recognized but contributes no prologue statement; it is
// reserved for the runtime's binding layer.
var eventModifiers = map[string]string{
	"stop":            modStopPropagation,
	"stopPropagation": modStopPropagation,
	"prevent":         modPreventDefault,
	"preventDefault":  modPreventDefault,
	"passive":         "",
}

// normalizeHandler inspects one template event binding. Bare identifier
// handlers without modifiers are left byte-identical; every other handler is
// extracted into a named top-level function, with the modifier prologue
// injected and any tracked mutation inside the handler routed through the
// invalidation call.
func (c *Compiler) normalizeHandler(b *ast.EventBinding) {
	if b.Handler == nil {
		return
	}
	parts := strings.Split(b.Name, "|")
	event := parts[0]
	modifiers := parts[1:]

	if b.Handler.Kind == ast.KindIdentifier && len(modifiers) == 0 {
		return
	}

	stop, prevent := c.resolveModifiers(b, event, modifiers)
	if b.Handler.Kind == ast.KindFunction {
		c.extractFunctionHandler(b, event, stop, prevent)
	} else {
		c.extractExpressionHandler(b, event, stop, prevent)
	}
}

// resolveModifiers folds the binding's modifier tokens into the two prologue
// flags. Unrecognized tokens produce a warning spanning the exact token
// within the attribute name: prefix length + event-name length + separator,
// plus the running length of prior tokens.
func (c *Compiler) resolveModifiers(b *ast.EventBinding, event string, modifiers []string) (stop, prevent bool) {
	offset := len(b.Prefix) + len(event)
	for _, tok := range modifiers {
		offset++ // the "|" separator
		canon, ok := eventModifiers[tok]
		switch {
		case !ok:
			c.errors.Warn(fmt.Sprintf("unrecognized event modifier %q", tok),
				c.spanOf(b.Start+offset, b.Start+offset+len(tok)))
		case canon == modStopPropagation:
			stop = true
		case canon == modPreventDefault:
			prevent = true
		}
		offset += len(tok)
	}
	return stop, prevent
}

// modifierStatements renders the prologue statements against the resolved
// event parameter name, in canonical order.
func modifierStatements(param string, stop, prevent bool) []string {
	var stmts []string
	if stop {
		stmts = append(stmts, param+"."+modStopPropagation+"();")
	}
	if prevent {
		stmts = append(stmts, param+"."+modPreventDefault+"();")
	}
	return stmts
}

// extractFunctionHandler hoists a handler that is itself a function value.
// A named function keeps its name; an anonymous one gets a synthesized name
// and a binding declaration around its text. When modifiers are requested,
// the event parameter is the function's first declared parameter, or a fresh
// name from the handler's own nested scope spliced into the empty list.
func (c *Compiler) extractFunctionHandler(b *ast.EventBinding, event string, stop, prevent bool) {
	fn := b.Handler
	name := fn.Name
	if name == "" {
		name = c.factoryScope.Id("on" + capitalize(event))
	}

	buf, table := c.buf.Copy(fn)

	if stop || prevent {
		param := ""
		if len(fn.Params) > 0 {
			first := fn.Params[0]
			if first.Kind == ast.KindIdentifier && first.Name != "" {
				param = first.Name
			} else {
				c.errors.Warn(fmt.Sprintf("event parameter of handler for %q is not a plain identifier; modifiers skipped", event),
					c.spanOf(first.Start, first.End))
			}
		} else {
			handlerScope, ok := c.handlerScopes[fn]
			if !ok {
				c.errors.Error(fmt.Sprintf("unknown lexical scope for handler of %q", event),
					c.spanOf(fn.Start, fn.End))
				return
			}
			param = handlerScope.Id("event")
			buf.Prepend(table[fn].ParamsPos, param)
		}
		if param != "" {
			c.injectPrologue(fn, buf, table, param, stop, prevent)
		}
	}

	c.rewriteHandlerMutations(fn, buf, table)

	text := buf.Render()
	if fn.Name == "" {
		text = "const " + name + " = " + text + ";"
	}
	c.finalizeHandler(b, name, text)
}

// injectPrologue makes the modifier statements the first thing the handler
// body executes. A block body gets them spliced in after the opening brace;
// a single implicit-return expression body is rewrapped as a block that runs
// the prologue and then returns the original expression.
func (c *Compiler) injectPrologue(fn *ast.Node, buf *patch.Buffer, table map[*ast.Node]*ast.Node, param string, stop, prevent bool) {
	body := table[fn.Body]
	if fn.Body == nil || body == nil {
		c.errors.Warn("handler body has no counterpart in the extracted buffer; modifiers skipped",
			c.spanOf(fn.Start, fn.End))
		return
	}
	stmts := strings.Join(modifierStatements(param, stop, prevent), " ")
	if body.Kind == ast.KindBlock {
		buf.Prepend(body.Start+1, " "+stmts)
	} else {
		buf.Wrap(body, "{ "+stmts+" return ", "; }")
	}
}

// extractExpressionHandler hoists a handler that is an arbitrary expression:
// the expression becomes the body of a new function under a synthesized
// name. The function takes a parameter named "event" only when modifiers are
// requested.
func (c *Compiler) extractExpressionHandler(b *ast.EventBinding, event string, stop, prevent bool) {
	name := c.factoryScope.Id("on" + capitalize(event))

	buf, table := c.buf.Copy(b.Handler)
	c.rewriteHandlerMutations(b.Handler, buf, table)

	param := ""
	prologue := ""
	// Only a prologue statement ever reads the synthesized parameter, so a
	// modifier list that yields no prologue (passive alone) leaves the
	// parameter list empty.
	if stop || prevent {
		param = "event"
		prologue = strings.Join(modifierStatements(param, stop, prevent), " ") + " "
	}
	text := "const " + name + " = (" + param + ") => { " + prologue + buf.Render() + "; };"
	c.finalizeHandler(b, name, text)
}

// rewriteHandlerMutations re-scans the template scope's update list for
// tracked mutation sites lying within the extracted handler's original
// source range, remaps each one through the copy's correspondence table and
// rewrites it inside the extracted buffer. A site with no counterpart is
// skipped with a warning rather than crashing the run.
func (c *Compiler) rewriteHandlerMutations(root *ast.Node, buf *patch.Buffer, table map[*ast.Node]*ast.Node) {
	for _, name := range c.templateScope.UpdateNames() {
		if !c.shouldInvalidate(name) {
			continue
		}
		for _, site := range c.templateScope.Updates(name) {
			if site.Start < root.Start || site.End > root.End {
				continue
			}
			counterpart, ok := table[site]
			if !ok {
				c.errors.Warn(fmt.Sprintf("mutation of %q has no counterpart in the extracted handler; invalidation skipped", name),
					c.spanOf(site.Start, site.End))
				continue
			}
			c.rewriteInvalidation(name, counterpart, buf, c.spanOf(site.Start, site.End))
		}
	}
}

// finalizeHandler registers the handler name as a registry symbol, queues
// the rendered text for splicing, and replaces the binding's handler
// expression with a reference to the hoisted function. The replacement is
// the hand-off to the downstream template emitter, which only ever sees a
// plain identifier once normalization is done.
func (c *Compiler) finalizeHandler(b *ast.EventBinding, name, text string) {
	c.registry.Register(name)
	c.chunks = append(c.chunks, text)
	b.Handler = ast.NewIdentifier(name, b.Handler.Start, b.Handler.End)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
