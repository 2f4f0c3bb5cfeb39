package render

import (
	"sort"

	"rcc-go/packages/compiler/src/scope"
)

// Symbol weights. Symbols most likely to be updated are packed into the low
// bit indices first, so that low-priority symbols cannot claim early slots
// before the usable mask width runs out.
const (
	weightFactoryMutated  = 2 // declared and mutated in the factory scope
	weightTemplateMutated = 1 // mutated somewhere inside the template scope
	weightInert           = 0
)

// RankSymbols orders the distinct symbols referenced by the template by
// reactive importance. Candidates are the template scope's read names
// followed by its mutated names, deduplicated by first occurrence. The sort
// is stable: descending weight first, first-occurrence order within equal
// weight. The result is the bit-index assignment order for the registry.
func RankSymbols(template, factory *scope.Scope) []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range template.UsageNames() {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, name := range template.UpdateNames() {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	weights := make(map[string]int, len(names))
	for _, name := range names {
		weights[name] = symbolWeight(name, template, factory)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return weights[names[i]] > weights[names[j]]
	})
	return names
}

func symbolWeight(name string, template, factory *scope.Scope) int {
	if factory.Declared(name) && factory.Updated(name) {
		return weightFactoryMutated
	}
	if template.Updated(name) {
		return weightTemplateMutated
	}
	return weightInert
}
