package render_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rcc-go/packages/compiler/src/ast"
	"rcc-go/packages/compiler/src/render"
	"rcc-go/packages/compiler/src/scope"
	"rcc-go/packages/compiler/src/util"
)

// mustPos locates substr in src; fixtures address the hand-built syntax
// nodes by source text rather than by hard-coded offsets.
func mustPos(t *testing.T, src, substr string) int {
	t.Helper()
	i := strings.Index(src, substr)
	if i < 0 {
		t.Fatalf("fixture: %q not found in source", substr)
	}
	return i
}

func newInput(src string, factory *ast.Node, template *ast.Template, factoryScope, templateScope *scope.Scope) *render.CompileInput {
	return &render.CompileInput{
		Source:        util.NewParseSourceFile(src, "component.js"),
		Factory:       factory,
		Template:      template,
		FactoryScope:  factoryScope,
		TemplateScope: templateScope,
		HandlerScopes: make(map[*ast.Node]*scope.Scope),
	}
}

func TestCompile_PostfixExpressionHandler(t *testing.T) {
	src := `function App() {
  let count = 0;
  view(() => {
    text(count);
  }, "<button on:click={count++}>+</button>");
}
`
	updStart := mustPos(t, src, "count++")
	target := ast.NewIdentifier("count", updStart, updStart+len("count"))
	update := &ast.Node{Kind: ast.KindUpdate, Operator: "++", Target: target, Start: updStart, End: updStart + len("count++")}

	useStart := mustPos(t, src, "text(count") + len("text(")
	usage := ast.NewIdentifier("count", useStart, useStart+len("count"))

	factory := &ast.Node{
		Kind:      ast.KindFunction,
		Name:      "App",
		Start:     0,
		End:       len(src) - 1,
		ParamsPos: mustPos(t, src, "App(") + len("App("),
	}

	attrStart := mustPos(t, src, "on:click")
	binding := &ast.EventBinding{
		Prefix:  "on:",
		Name:    "click",
		Handler: update,
		Start:   attrStart,
		End:     attrStart + len("on:click={count++}"),
	}
	template := &ast.Template{
		Start:    mustPos(t, src, "view("),
		End:      mustPos(t, src, `");`) + len(`");`),
		BodyPos:  mustPos(t, src, "text(count"),
		Bindings: []*ast.EventBinding{binding},
	}

	factoryScope := scope.NewScope(nil)
	factoryScope.Declare("count")
	factoryScope.AddUpdate("count", update)

	templateScope := scope.NewScope(factoryScope)
	templateScope.AddUsage("count", usage)
	templateScope.AddUpdate("count", update)

	result := render.Compile(newInput(src, factory, template, factoryScope, templateScope))

	want := `function App(_, { setup, invalidate }) {
  let count = 0;
  view(() => {
    const onClick = () => { invalidate(0, count, count++); };
    setup(["count", "onClick"], 1); // mask: count
    text(count);
  }, "<button on:click={count++}>+</button>");
}
`
	if diff := cmp.Diff(want, result.Code); diff != "" {
		t.Errorf("Compile() code mismatch (-want +got):\n%s", diff)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("expected no diagnostics, got %v", result.Diagnostics)
	}
	wantPatch := &render.Patch{Pos: factory.ParamsPos, Text: "_, { setup, invalidate }"}
	if diff := cmp.Diff(wantPatch, result.Patch); diff != "" {
		t.Errorf("Compile() patch mismatch (-want +got):\n%s", diff)
	}
	if binding.Handler.Kind != ast.KindIdentifier || binding.Handler.Name != "onClick" {
		t.Errorf("binding handler not replaced with identifier reference, got kind=%v name=%q",
			binding.Handler.Kind, binding.Handler.Name)
	}
}

func TestCompile_FactoryMutationsAndMask(t *testing.T) {
	src := `function Counter() {
  let a = 1;
  let b = 2;
  let c = 3;
  a = a + c;
  c += 1;
  view(() => {
    row(a, b, c);
  });
}
`
	aStart := mustPos(t, src, "a = a + c")
	aUpdate := &ast.Node{
		Kind:     ast.KindAssignment,
		Operator: "=",
		Target:   ast.NewIdentifier("a", aStart, aStart+1),
		Value:    ast.NewIdentifier("c", aStart+8, aStart+9),
		Start:    aStart,
		End:      aStart + len("a = a + c"),
	}
	cStart := mustPos(t, src, "c += 1")
	cUpdate := &ast.Node{
		Kind:     ast.KindAssignment,
		Operator: "+=",
		Target:   ast.NewIdentifier("c", cStart, cStart+1),
		Start:    cStart,
		End:      cStart + len("c += 1"),
	}

	rowStart := mustPos(t, src, "row(a, b, c)")
	useA := ast.NewIdentifier("a", rowStart+4, rowStart+5)
	useB := ast.NewIdentifier("b", rowStart+7, rowStart+8)
	useC := ast.NewIdentifier("c", rowStart+10, rowStart+11)

	factory := &ast.Node{
		Kind:      ast.KindFunction,
		Name:      "Counter",
		Start:     0,
		End:       len(src) - 1,
		ParamsPos: mustPos(t, src, "Counter(") + len("Counter("),
	}
	template := &ast.Template{
		Start:   mustPos(t, src, "view("),
		End:     mustPos(t, src, "});") + len("});"),
		BodyPos: rowStart,
	}

	factoryScope := scope.NewScope(nil)
	for _, name := range []string{"a", "b", "c"} {
		factoryScope.Declare(name)
	}
	factoryScope.AddUpdate("a", aUpdate)
	factoryScope.AddUpdate("c", cUpdate)

	templateScope := scope.NewScope(factoryScope)
	templateScope.AddUsage("a", useA)
	templateScope.AddUsage("b", useB)
	templateScope.AddUsage("c", useC)

	result := render.Compile(newInput(src, factory, template, factoryScope, templateScope))

	// a and c carry weight 2 and pack before the read-only b; the mask
	// covers exactly the read-and-mutated symbols.
	want := `function Counter(_, { setup, invalidate }) {
  let a = 1;
  let b = 2;
  let c = 3;
  invalidate(0, a = a + c);
  invalidate(1, c += 1);
  view(() => {
    setup(["a", "c", "b"], 3); // mask: a, c
    row(a, b, c);
  });
}
`
	if diff := cmp.Diff(want, result.Code); diff != "" {
		t.Errorf("Compile() code mismatch (-want +got):\n%s", diff)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("expected no diagnostics, got %v", result.Diagnostics)
	}
}

func TestCompile_BareIdentifierRoundTrip(t *testing.T) {
	src := `function App() {
  view(() => {
    noop();
  }, "<button on:click={handleClick}>go</button>");
}
`
	hStart := mustPos(t, src, "handleClick")
	handler := ast.NewIdentifier("handleClick", hStart, hStart+len("handleClick"))
	attrStart := mustPos(t, src, "on:click")
	binding := &ast.EventBinding{
		Prefix:  "on:",
		Name:    "click",
		Handler: handler,
		Start:   attrStart,
		End:     attrStart + len("on:click={handleClick}"),
	}
	factory := &ast.Node{
		Kind:      ast.KindFunction,
		Name:      "App",
		Start:     0,
		End:       len(src) - 1,
		ParamsPos: mustPos(t, src, "App(") + len("App("),
	}
	template := &ast.Template{
		Start:    mustPos(t, src, "view("),
		End:      mustPos(t, src, `");`) + len(`");`),
		BodyPos:  mustPos(t, src, "noop()"),
		Bindings: []*ast.EventBinding{binding},
	}

	result := render.Compile(newInput(src, factory, template, scope.NewScope(nil), scope.NewScope(nil)))

	if result.Code != src {
		t.Errorf("expected byte-identical output, got:\n%s", result.Code)
	}
	if result.Patch != nil {
		t.Errorf("expected no parameter patch, got %+v", result.Patch)
	}
	if binding.Handler != handler {
		t.Error("bare identifier handler should be left untouched")
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("expected no diagnostics, got %v", result.Diagnostics)
	}
}

func TestCompile_NoTemplate(t *testing.T) {
	src := `function helper(x) {
  return x * 2;
}
`
	xStart := mustPos(t, src, "x)")
	factory := &ast.Node{
		Kind:      ast.KindFunction,
		Name:      "helper",
		Start:     0,
		End:       len(src) - 1,
		ParamsPos: mustPos(t, src, "helper(") + len("helper("),
		Params:    []*ast.Node{ast.NewIdentifier("x", xStart, xStart+1)},
	}
	factoryScope := scope.NewScope(nil)
	factoryScope.Declare("x")

	result := render.Compile(&render.CompileInput{
		Source:       util.NewParseSourceFile(src, "helper.js"),
		Factory:      factory,
		FactoryScope: factoryScope,
	})

	if result.Code != src {
		t.Errorf("expected untouched output, got:\n%s", result.Code)
	}
	if result.Patch != nil {
		t.Errorf("expected no parameter patch, got %+v", result.Patch)
	}
}

func TestCompile_LocalNameCollisions(t *testing.T) {
	src := `function App() {
  let setup = null;
  let invalidate = null;
  let x = 0;
  x = 5;
  view(() => {
    text(x);
  });
}
`
	xStart := mustPos(t, src, "x = 5")
	xUpdate := &ast.Node{
		Kind:     ast.KindAssignment,
		Operator: "=",
		Target:   ast.NewIdentifier("x", xStart, xStart+1),
		Start:    xStart,
		End:      xStart + len("x = 5"),
	}
	useStart := mustPos(t, src, "text(x") + len("text(")
	usage := ast.NewIdentifier("x", useStart, useStart+1)

	factory := &ast.Node{
		Kind:      ast.KindFunction,
		Name:      "App",
		Start:     0,
		End:       len(src) - 1,
		ParamsPos: mustPos(t, src, "App(") + len("App("),
	}
	template := &ast.Template{
		Start:   mustPos(t, src, "view("),
		End:     mustPos(t, src, "});") + len("});"),
		BodyPos: mustPos(t, src, "text(x"),
	}

	factoryScope := scope.NewScope(nil)
	factoryScope.Declare("setup")
	factoryScope.Declare("invalidate")
	factoryScope.Declare("x")
	factoryScope.AddUpdate("x", xUpdate)

	templateScope := scope.NewScope(factoryScope)
	templateScope.AddUsage("x", usage)

	result := render.Compile(newInput(src, factory, template, factoryScope, templateScope))

	if !strings.Contains(result.Code, "invalidate_1(0, x = 5)") {
		t.Errorf("expected collision-free invalidate name, got:\n%s", result.Code)
	}
	wantText := "_, { setup: setup_1, invalidate: invalidate_1 }"
	if result.Patch == nil || result.Patch.Text != wantText {
		t.Errorf("expected patch text %q, got %+v", wantText, result.Patch)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	build := func() (*render.CompileInput, *ast.EventBinding) {
		src := `function App() {
  let n = 0;
  view(() => {
    text(n);
  }, "<b on:click={n += 1}>x</b>");
}
`
		nStart := mustPos(t, src, "n += 1")
		update := &ast.Node{
			Kind:     ast.KindAssignment,
			Operator: "+=",
			Target:   ast.NewIdentifier("n", nStart, nStart+1),
			Start:    nStart,
			End:      nStart + len("n += 1"),
		}
		useStart := mustPos(t, src, "text(n") + len("text(")
		usage := ast.NewIdentifier("n", useStart, useStart+1)
		attrStart := mustPos(t, src, "on:click")
		binding := &ast.EventBinding{
			Prefix:  "on:",
			Name:    "click",
			Handler: update,
			Start:   attrStart,
			End:     attrStart + len("on:click={n += 1}"),
		}
		factory := &ast.Node{
			Kind:      ast.KindFunction,
			Name:      "App",
			Start:     0,
			End:       len(src) - 1,
			ParamsPos: mustPos(t, src, "App(") + len("App("),
		}
		template := &ast.Template{
			Start:    mustPos(t, src, "view("),
			End:      mustPos(t, src, `");`) + len(`");`),
			BodyPos:  mustPos(t, src, "text(n"),
			Bindings: []*ast.EventBinding{binding},
		}
		factoryScope := scope.NewScope(nil)
		factoryScope.Declare("n")
		factoryScope.AddUpdate("n", update)
		templateScope := scope.NewScope(factoryScope)
		templateScope.AddUsage("n", usage)
		templateScope.AddUpdate("n", update)
		return newInput(src, factory, template, factoryScope, templateScope), binding
	}

	first, _ := build()
	second, _ := build()
	a := render.Compile(first)
	b := render.Compile(second)
	if diff := cmp.Diff(a.Code, b.Code); diff != "" {
		t.Errorf("Compile() is not deterministic (-first +second):\n%s", diff)
	}
}
