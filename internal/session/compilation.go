package session

import (
	"context"
	"fmt"

	"github.com/dekarrin/dpc/internal/ast"
	"github.com/dekarrin/dpc/internal/diag"
	"github.com/dekarrin/dpc/internal/ir"
	"github.com/dekarrin/dpc/internal/lexer"
	"github.com/dekarrin/dpc/internal/parser"
	"github.com/dekarrin/dpc/internal/resolver"
	"github.com/dekarrin/dpc/internal/symtab"
)

// compilation is the per-Compile-call state: the import-visited guard,
// every file's label set, and the shared symbol-table manager. It is
// discarded once Compile returns (the durable state is the cache entry
// and the symtab.Manager handed back to Session).
type compilation struct {
	resolver resolver.Resolver
	sink     *diag.Sink // the root file's diagnostics land here directly

	rootURI string
	visited map[string]bool
	visitOrder []string

	labelSets map[string]*ir.LabelSet
	manager   *symtab.Manager
}

func newCompilation(r resolver.Resolver, rootURI string) *compilation {
	return &compilation{
		resolver:  r,
		sink:      &diag.Sink{},
		rootURI:   rootURI,
		visited:   make(map[string]bool),
		labelSets: make(map[string]*ir.LabelSet),
		manager:   symtab.NewManager(),
	}
}

// compileFile lexes, parses, and lowers one file (the cycle/diamond
// guard at step 1 of spec.md §4.4), recursing into its imports, and
// returns the error count of ITS OWN diagnostics sink (used by the
// caller to build the import-site roll-up warning for non-root files).
func (c *compilation) compileFile(ctx context.Context, uri, text string, isRoot bool) int {
	if c.visited[uri] {
		return 0
	}
	c.visited[uri] = true
	c.visitOrder = append(c.visitOrder, uri)

	fileSink := c.sink
	if !isRoot {
		fileSink = &diag.Sink{}
	}

	toks := lexer.Lex(text, fileSink)
	prog := parser.Parse(toks, fileSink)

	builder := ir.NewBuilder(uri)

	for _, imp := range prog.Imports {
		c.processImport(ctx, uri, imp, builder, fileSink)
	}

	ls := ir.NewLabelSet()
	if isRoot && len(prog.TopStmts) > 0 {
		ls.Labels[ir.DefaultEntrance] = &ir.Label{
			Name:       ir.DefaultEntrance,
			SourceID:   uri,
			Statements: builder.LowerTopStmts(prog.TopStmts),
		}
	}

	c.lowerLabelsWithMerge(prog.Labels, builder, fileSink, ls)

	c.labelSets[uri] = ls
	c.manager.Install(uri, builder.Table())

	return fileSink.ErrorCount()
}

// lowerLabelsWithMerge implements spec.md §4.4 step 5: same-named label
// blocks within one file merge their statement lists by appending; a
// name that is entirely empty after merging gets a Warning at its first
// occurrence's position.
func (c *compilation) lowerLabelsWithMerge(blocks []ast.LabelBlock, builder *ir.Builder, fileSink *diag.Sink, ls *ir.LabelSet) {
	var order []string
	firstPos := make(map[string]ast.Pos)

	for _, lb := range blocks {
		lowered := builder.LowerLabel(lb)
		if existing, ok := ls.Labels[lb.Name]; ok {
			existing.Statements = append(existing.Statements, lowered.Statements...)
			continue
		}
		ls.Labels[lb.Name] = lowered
		order = append(order, lb.Name)
		firstPos[lb.Name] = lb.Pos
	}

	for _, name := range order {
		if len(ls.Labels[name].Statements) == 0 {
			pos := firstPos[name]
			fileSink.Warnf(pos.Line, pos.Column, "label '%s' has an empty body", name)
		}
	}
}

// processImport resolves one import statement against fromURI, records a
// symtab.Reference for it, fetches and recurses into the target, and
// rolls any errors found there up into a single Warning at the import
// site (spec.md §4.4 step 3, §5's "roll-up warning").
func (c *compilation) processImport(ctx context.Context, fromURI string, imp ast.Import, builder *ir.Builder, fileSink *diag.Sink) {
	targetURI, err := resolver.ResolveImport(fromURI, imp.Path)
	if err != nil {
		fileSink.Errorf(imp.Pos.Line, imp.Pos.Column, "cannot resolve import %q: %s", imp.Path, err)
		return
	}
	builder.RecordReference(targetURI, imp.Pos)

	text, err := c.resolver.GetText(ctx, targetURI)
	if err != nil {
		fileSink.Errorf(imp.Pos.Line, imp.Pos.Column, "cannot read import %q: %s", imp.Path, err)
		return
	}

	if errCount := c.compileFile(ctx, targetURI, text, false); errCount > 0 {
		fileSink.Warnf(imp.Pos.Line, imp.Pos.Column, "import %q produced %d error(s)", imp.Path, errCount)
	}
}

// runSemanticChecks is spec.md §4.4's post-recursion pass over the root
// file's table, in the fixed order: duplicate-imports → label usages →
// variable usages.
func (c *compilation) runSemanticChecks() {
	root, ok := c.manager.Get(c.rootURI)
	if !ok {
		return
	}

	for _, uri := range root.References.Keys() {
		positions := root.References.Get(uri)
		if len(positions) > 1 {
			first := positions[0]
			c.sink.Warnf(first.Line, first.Column, "Duplicate import of '%s'", uri)
		}
	}

	for _, name := range root.LabelUsages.Keys() {
		usages := root.LabelUsages.Get(name)
		defs := c.manager.FindLabelDefinition(c.rootURI, name)

		switch {
		case len(defs) == 0:
			for _, u := range usages {
				c.sink.Errorf(u.Line, u.Column, "Undefined label '%s'", name)
			}
		case len(defs) > 1:
			for _, d := range defs {
				if d.SourceID == c.rootURI {
					c.sink.Errorf(d.Line, d.Column, "Duplicate label definition '%s'", name)
					continue
				}
				if pos := c.importPositionFor(root, d.SourceID); pos != nil {
					c.sink.Errorf(pos.Line, pos.Column, "Duplicate label definition '%s'", name)
				}
			}
		}
	}

	for _, name := range root.VariableUsages.Keys() {
		usages := root.VariableUsages.Get(name)
		if defs := c.manager.FindVariableDefinition(c.rootURI, name); len(defs) == 0 {
			for _, u := range usages {
				c.sink.Errorf(u.Line, u.Column, "Undefined variable '%s'", name)
			}
		}
	}

	c.reportNearDuplicates(root.LabelDefs, "label")
	c.reportNearDuplicates(root.VariableDefs, "variable")
}

// reportNearDuplicates emits an informational diagnostic for each pair of
// distinct kind-spellings (label or variable names) that differ only by
// case within root's own table — not an error, just a likely typo worth
// surfacing alongside the usage checks above.
func (c *compilation) reportNearDuplicates(defs *symtab.OrderedPositions, kind string) {
	for _, pair := range symtab.NearDuplicates(defs) {
		c.sink.Report(diag.Diagnostic{
			Message:  fmt.Sprintf("%s definitions near '%s' differ only by case and may be a typo", kind, pair.Name),
			Line:     pair.B.Line,
			Column:   pair.B.Column,
			Severity: diag.SeverityInfo,
		})
	}
}

// importPositionFor anchors a diagnostic about a definition living in
// importedURI at the token of the `import` statement that brought it in
// (spec.md scenario S3).
func (c *compilation) importPositionFor(root *symtab.FileSymbolTable, importedURI string) *symtab.SymbolPosition {
	positions := root.References.Get(importedURI)
	if len(positions) == 0 {
		return nil
	}
	p := positions[0]
	return &p
}
