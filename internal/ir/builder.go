package ir

import (
	"strconv"
	"strings"

	"github.com/dekarrin/dpc/internal/ast"
	"github.com/dekarrin/dpc/internal/exprtree"
	"github.com/dekarrin/dpc/internal/symtab"
)

// Builder lowers one file's ast.Program into SIR, recording every symbol
// def/usage into its FileSymbolTable as it walks (spec.md §4.3). A
// Builder is single-use per source file.
type Builder struct {
	sourceID string
	table    *symtab.FileSymbolTable
}

// NewBuilder returns a Builder for sourceID with a fresh symbol table.
func NewBuilder(sourceID string) *Builder {
	return &Builder{sourceID: sourceID, table: symtab.NewFileSymbolTable(sourceID)}
}

// Table returns the symbol table accumulated so far.
func (b *Builder) Table() *symtab.FileSymbolTable {
	return b.table
}

// RecordReference records one `import` statement resolving to
// importedURI; the session (which owns URI resolution) calls this once
// per ast.Import it processes.
func (b *Builder) RecordReference(importedURI string, p ast.Pos) {
	b.table.AddReference(importedURI, "", p)
}

// LowerTopStmts lowers a file's top-level statement sequence, the body of
// the synthesized entrance label (spec.md §4.4 step 4).
func (b *Builder) LowerTopStmts(stmts []ast.Stmt) []Stmt {
	return b.lowerStmts(stmts, "")
}

// LowerLabel records a LabelDef and lowers one label block's body.
func (b *Builder) LowerLabel(lb ast.LabelBlock) *Label {
	b.table.AddLabelDef(lb.Name, lb.Name, lb.Pos)
	stmts := b.lowerStmts(lb.Statements, lb.Name)
	return &Label{Name: lb.Name, SourceID: b.sourceID, Statements: stmts}
}

func (b *Builder) lowerStmts(stmts []ast.Stmt, label string) []Stmt {
	out := make([]Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, b.lowerStmt(s, label))
	}
	return out
}

func (b *Builder) lowerStmt(s ast.Stmt, label string) Stmt {
	switch s.Type() {
	case ast.StmtDialogue:
		d := s.AsDialogue()
		return NewDialogueStmt(d.Position(), d.Speaker, b.lowerFString(d.Text, label))

	case ast.StmtMenu:
		m := s.AsMenu()
		items := make([]MenuItem, 0, len(m.Items))
		for _, it := range m.Items {
			body := b.lowerStmts(it.Body, label)
			body = append(body, NewPopStmt(it.Pos))
			items = append(items, MenuItem{Text: b.lowerFString(it.Text, label), Body: body})
		}
		return NewMenuStmt(m.Position(), items)

	case ast.StmtJump:
		j := s.AsJump()
		b.table.AddLabelUsage(j.Target, label, j.Position())
		return NewJumpStmt(j.Position(), j.Target)

	case ast.StmtTour:
		tr := s.AsTour()
		b.table.AddLabelUsage(tr.Target, label, tr.Position())
		return NewTourStmt(tr.Position(), tr.Target)

	case ast.StmtCall:
		c := s.AsCall()
		return NewCallStmt(c.Position(), c.Name, b.lowerExprs(c.Args, label))

	case ast.StmtAssign:
		return b.lowerAssign(s.AsAssign(), label)

	case ast.StmtIf:
		return b.lowerIf(s.AsIf(), label)
	}
	panic("ir: unreachable ast.StmtType")
}

// lowerAssign implements spec.md §4.3's Assign rule: a VariableDef is
// always recorded at the variable's position; a compound operator
// (`+=` etc.) additionally reads the variable's prior value, so it
// records a VariableUsage anchored at the value expression's position,
// and desugars to BinaryOpNode(op, Variable(var), value). A bare `=`
// keeps Value as the plain lowered expression.
func (b *Builder) lowerAssign(a *ast.AssignStmt, label string) Stmt {
	b.table.AddVariableDef(a.Var, label, a.VarPos)
	value := b.lowerExpr(a.Value, label)

	if a.Op == ast.AssignSet {
		return NewAssignStmt(a.Position(), a.Var, value)
	}

	b.table.AddVariableUsage(a.Var, label, a.Value.Position())
	combined := exprtree.NewBinaryOpNode(a.Position(), compoundOps[a.Op],
		exprtree.NewVariableNode(a.VarPos, a.Var), value)
	return NewAssignStmt(a.Position(), a.Var, combined)
}

var compoundOps = map[ast.AssignOp]exprtree.BinaryOp{
	ast.AssignAdd: exprtree.BAdd,
	ast.AssignSub: exprtree.BSub,
	ast.AssignMul: exprtree.BMul,
	ast.AssignDiv: exprtree.BDiv,
	ast.AssignMod: exprtree.BMod,
	ast.AssignPow: exprtree.BPow,
}

func (b *Builder) lowerIf(i *ast.IfStmt, label string) Stmt {
	cond := b.lowerExpr(i.Cond, label)

	then := b.lowerStmts(i.Then, label)
	then = append(then, NewPopStmt(i.Position()))

	var els []Stmt
	if i.Else != nil {
		els = b.lowerStmts(i.Else, label)
		els = append(els, NewPopStmt(i.Position()))
	}

	return NewIfStmt(i.Position(), cond, then, els)
}

func (b *Builder) lowerExprs(exprs []ast.Expr, label string) []exprtree.Node {
	out := make([]exprtree.Node, len(exprs))
	for i, e := range exprs {
		out[i] = b.lowerExpr(e, label)
	}
	return out
}

var binaryOps = map[ast.BinaryOp]exprtree.BinaryOp{
	ast.OpOr: exprtree.BOr, ast.OpAnd: exprtree.BAnd,
	ast.OpEq: exprtree.BEq, ast.OpNotEq: exprtree.BNotEq,
	ast.OpLess: exprtree.BLess, ast.OpGreater: exprtree.BGreater,
	ast.OpLessEq: exprtree.BLessEq, ast.OpGreaterEq: exprtree.BGreaterEq,
	ast.OpAdd: exprtree.BAdd, ast.OpSub: exprtree.BSub,
	ast.OpMul: exprtree.BMul, ast.OpDiv: exprtree.BDiv,
	ast.OpMod: exprtree.BMod, ast.OpPow: exprtree.BPow,
}

var unaryOps = map[ast.UnaryOp]exprtree.UnaryOp{
	ast.OpNeg: exprtree.UNeg, ast.OpPos: exprtree.UPos, ast.OpNot: exprtree.UNot,
}

func (b *Builder) lowerExpr(e ast.Expr, label string) exprtree.Node {
	switch e.Type() {
	case ast.EBinary:
		be := e.AsBinary()
		return exprtree.NewBinaryOpNode(be.Position(), binaryOps[be.Op],
			b.lowerExpr(be.Left, label), b.lowerExpr(be.Right, label))

	case ast.EUnary:
		ue := e.AsUnary()
		return exprtree.NewUnaryOpNode(ue.Position(), unaryOps[ue.Op], b.lowerExpr(ue.Operand, label))

	case ast.ELiteral:
		return b.lowerLiteral(e.AsLiteral())

	case ast.EVariable:
		ve := e.AsVariable()
		b.table.AddVariableUsage(ve.Name, label, ve.Position())
		return exprtree.NewVariableNode(ve.Position(), ve.Name)

	case ast.EFString:
		return b.lowerFString(e.AsFString(), label)

	case ast.EEmbedCall:
		ec := e.AsEmbedCall()
		return exprtree.NewEmbedCallNode(ec.Position(), ec.Name, b.lowerExprs(ec.Args, label))

	case ast.EEmbedExpr:
		// A bare `{expr}` embed has no dedicated exprtree node (spec.md
		// §3 lists only EmbedCall alongside Constant/Variable/UnaryOp/
		// BinaryOp/FStringNode); it lowers transparently to its inner
		// expression's node.
		return b.lowerExpr(e.AsEmbedExpr().Inner, label)
	}
	panic("ir: unreachable ast.ExprType")
}

// lowerLiteral implements spec.md §4.3: "Number → float (invariant
// culture)". LiteralKind selects the conversion and an unknown kind
// panics. Number text that does not parse as a float lowers to 0, and
// Boolean text lowers to true only when it equals "true" ignoring case.
func (b *Builder) lowerLiteral(le *ast.LiteralExpr) exprtree.Node {
	switch le.Kind {
	case ast.LitNumber:
		f, err := strconv.ParseFloat(le.Text, 64)
		if err != nil {
			f = 0
		}
		return exprtree.NewConstantNode(le.Position(), exprtree.FloatValue(f))
	case ast.LitBoolean:
		return exprtree.NewConstantNode(le.Position(), exprtree.BoolValue(strings.EqualFold(le.Text, "true")))
	}
	panic("ir: unreachable ast.LiteralKind")
}

func (b *Builder) lowerFString(fs *ast.FString, label string) *exprtree.FStringNode {
	fragments := make([]string, 0, len(fs.Fragments))
	embeds := make([]exprtree.Node, 0, len(fs.Embeds))
	embedIdx := 0

	for _, frag := range fs.Fragments {
		if frag.Placeholder {
			fragments = append(fragments, exprtree.EmbedSentinel)
			embeds = append(embeds, b.lowerExpr(fs.Embeds[embedIdx], label))
			embedIdx++
			continue
		}
		fragments = append(fragments, frag.Text)
	}

	return exprtree.NewFStringNode(fs.Position(), fragments, embeds)
}
