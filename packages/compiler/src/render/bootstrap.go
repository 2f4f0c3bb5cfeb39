package render

import (
	"fmt"
	"strings"

	"rcc-go/packages/compiler/src/util"
)

// emitBootstrap runs once, after all handler extraction and rewriting. It
// computes the template mask, queues the setup call registering the ordered
// symbol list with that mask, and produces the single parameter-list patch
// appending the runtime options object to the factory's argument list. An
// empty registry emits nothing and produces no patch.
func (c *Compiler) emitBootstrap() {
	if c.registry.Len() == 0 {
		return
	}

	// The mask covers every symbol the template reads that the factory
	// scope also mutates; symbols read but never mutated contribute nothing.
	mask := 0
	var contributors []string
	for _, name := range c.templateScope.UsageNames() {
		if !c.factoryScope.Updated(name) {
			continue
		}
		idx, ok := c.registry.Index(name)
		if !ok {
			c.errors.Warn(fmt.Sprintf("unresolved template symbol %q during mask computation", name),
				c.usageSpan(name))
			continue
		}
		if idx >= MaskBits {
			c.errors.Warn(fmt.Sprintf("symbol %q at index %d exceeds the %d-bit mask width; it will not trigger re-rendering", name, idx, MaskBits),
				c.usageSpan(name))
			continue
		}
		if mask&(1<<idx) == 0 {
			mask |= 1 << idx
			contributors = append(contributors, name)
		}
	}

	c.setupName = c.factoryScope.Id("setup")

	names := c.registry.Names()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	comment := "(none)"
	if len(contributors) > 0 {
		comment = strings.Join(contributors, ", ")
	}
	c.chunks = append(c.chunks, fmt.Sprintf("%s([%s], %d); // mask: %s",
		c.setupName, strings.Join(quoted, ", "), mask, comment))

	c.emitParamPatch()
}

// emitParamPatch appends the runtime options object literal to the factory
// function's parameter list. The object carries the setup function and, when
// any invalidation call was synthesized, the invalidate function; fields use
// shorthand when the local identifier already matches the canonical field
// name. A zero-parameter factory additionally gets a placeholder first
// argument, inserted at the empty parameter-list opening.
func (c *Compiler) emitParamPatch() {
	fields := []string{optionField("setup", c.setupName)}
	if c.invalidateName != "" {
		fields = append(fields, optionField("invalidate", c.invalidateName))
	}
	opts := "{ " + strings.Join(fields, ", ") + " }"

	var p *Patch
	if n := len(c.factory.Params); n > 0 {
		p = &Patch{Pos: c.factory.Params[n-1].End, Text: ", " + opts}
	} else {
		p = &Patch{Pos: c.factory.ParamsPos, Text: "_, " + opts}
	}
	c.paramPatch = p
	c.buf.Append(p.Pos, p.Text)
}

func optionField(canonical, local string) string {
	if canonical == local {
		return canonical
	}
	return canonical + ": " + local
}

// usageSpan locates the first read-reference of name in the template scope,
// for diagnostics.
func (c *Compiler) usageSpan(name string) *util.ParseSourceSpan {
	if sites := c.templateScope.Usages(name); len(sites) > 0 {
		return c.spanOf(sites[0].Start, sites[0].End)
	}
	return c.spanOf(c.template.Start, c.template.End)
}
