// Package render is the per-component compilation stage: it decides which
// local symbols must trigger re-rendering when mutated, routes every tracked
// mutation through a numbered invalidation call, normalizes inline event
// handlers into named functions, and emits the glue code wiring the
// component into the runtime update scheduler.
package render

import (
	"strings"

	"github.com/tliron/commonlog"

	"rcc-go/packages/compiler/src/ast"
	"rcc-go/packages/compiler/src/patch"
	"rcc-go/packages/compiler/src/scope"
	"rcc-go/packages/compiler/src/util"
)

var log = commonlog.GetLogger("compiler.render")

// CompileInput carries one component's parsed factory function, its embedded
// template (nil when the factory has none), and the scope information the
// scope-resolution pass computed for it. HandlerScopes maps each function
// node appearing as an event handler to that function's own nested scope.
type CompileInput struct {
	Source        *util.ParseSourceFile
	Factory       *ast.Node
	Template      *ast.Template
	FactoryScope  *scope.Scope
	TemplateScope *scope.Scope
	HandlerScopes map[*ast.Node]*scope.Scope
}

// Patch describes the single insertion into the factory function's
// parameter list produced by bootstrap emission.
type Patch struct {
	Pos  int
	Text string
}

// CompileResult is the outcome of one component compilation run
type CompileResult struct {
	Code        string
	Patch       *Patch
	Diagnostics []*util.ParseError
}

// Compiler drives one component compilation run. It is single-use and
// strictly sequential: handlers are normalized first, then the factory-level
// mutation sites are rewritten, then bootstrap runs, then the accumulated
// fragments are spliced and the buffer rendered.
type Compiler struct {
	source        *util.ParseSourceFile
	buf           *patch.Buffer
	factory       *ast.Node
	template      *ast.Template
	factoryScope  *scope.Scope
	templateScope *scope.Scope
	handlerScopes map[*ast.Node]*scope.Scope

	registry *Registry
	errors   *util.ErrorCollector

	// chunks are the pending rendered code fragments, in emission order.
	// They are spliced once at the top of the template's executable body.
	chunks []string

	// invalidateName is allocated lazily on the first invalidation rewrite;
	// empty means no invalidation call was ever synthesized.
	invalidateName string
	setupName      string
	paramPatch     *Patch
}

// NewCompiler creates a Compiler for one component
func NewCompiler(input *CompileInput) *Compiler {
	return &Compiler{
		source:        input.Source,
		buf:           patch.NewBuffer(input.Source.Content),
		factory:       input.Factory,
		template:      input.Template,
		factoryScope:  input.FactoryScope,
		templateScope: input.TemplateScope,
		handlerScopes: input.HandlerScopes,
		registry:      NewRegistry(),
		errors:        util.NewErrorCollector(),
	}
}

// Compile runs the full component compilation. The template tree is mutated
// in place (handler bindings are replaced with identifier references), so a
// component's template must be treated as single-use once Compile begins.
func Compile(input *CompileInput) *CompileResult {
	c := NewCompiler(input)

	bindings := 0
	if c.template != nil {
		bindings = len(c.template.Bindings)
	}
	log.Debugf("compiling component %s: %d event binding(s)", c.source.URL, bindings)

	if c.template != nil {
		for _, name := range RankSymbols(c.templateScope, c.factoryScope) {
			c.registry.Register(name)
		}
		for _, binding := range c.template.Bindings {
			c.normalizeHandler(binding)
		}
	}

	c.rewriteFactoryMutations()

	if c.template != nil {
		c.emitBootstrap()
		c.spliceChunks()
	}

	log.Debugf("compiled component %s: %d reactive symbol(s), %d fragment(s), %d diagnostic(s)",
		c.source.URL, c.registry.Len(), len(c.chunks), len(c.errors.Errors()))

	return &CompileResult{
		Code:        c.buf.Render(),
		Patch:       c.paramPatch,
		Diagnostics: c.errors.Errors(),
	}
}

// rewriteFactoryMutations routes the factory scope's own mutation sites
// through the invalidation call. Sites lying inside the template region are
// left alone: the template's text is owned by the downstream template
// emitter, and handler-internal sites were already rewritten inside their
// extracted buffers.
func (c *Compiler) rewriteFactoryMutations() {
	for _, name := range c.factoryScope.UpdateNames() {
		if !c.shouldInvalidate(name) {
			continue
		}
		for _, site := range c.factoryScope.Updates(name) {
			if c.template != nil && site.Start >= c.template.Start && site.End <= c.template.End {
				continue
			}
			c.rewriteInvalidation(name, site, c.buf, c.spanOf(site.Start, site.End))
		}
	}
}

// spliceChunks inserts the accumulated fragments at the top of the
// template's executable body, re-indented to match the insertion point.
func (c *Compiler) spliceChunks() {
	if len(c.chunks) == 0 {
		return
	}
	indent := c.buf.Indent(c.template.BodyPos)
	var sb strings.Builder
	for _, chunk := range c.chunks {
		sb.WriteString(strings.ReplaceAll(chunk, "\n", "\n"+indent))
		sb.WriteString("\n")
		sb.WriteString(indent)
	}
	c.buf.Prepend(c.template.BodyPos, sb.String())
}

func (c *Compiler) spanOf(start, end int) *util.ParseSourceSpan {
	return util.OffsetSpan(c.source, start, end)
}
