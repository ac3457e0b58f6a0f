package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/dpc/internal/ast"
	"github.com/dekarrin/dpc/internal/diag"
	"github.com/dekarrin/dpc/internal/lexer"
)

func parseSource(t *testing.T, src string) (*ast.Program, *diag.Sink) {
	t.Helper()
	sink := &diag.Sink{}
	toks := lexer.Lex(src, sink)
	prog := Parse(toks, sink)
	return prog, sink
}

// S1 — basic label/dialogue/jump.
func Test_Parse_BasicDialogueAndJump(t *testing.T) {
	assert := assert.New(t)

	src := "label start:\n" +
		"    Alice \"hello\"\n" +
		"    jump other\n" +
		"label other:\n" +
		"    Bob \"world\"\n"

	prog, sink := parseSource(t, src)

	assert.Equal(0, sink.ErrorCount())
	if assert.Len(prog.Labels, 2) {
		assert.Equal("start", prog.Labels[0].Name)
		assert.Equal("other", prog.Labels[1].Name)
	}

	startStmts := prog.Labels[0].Statements
	if assert.Len(startStmts, 2) {
		assert.Equal(ast.StmtDialogue, startStmts[0].Type())
		assert.Equal("Alice", startStmts[0].AsDialogue().Speaker)
		assert.Equal(ast.StmtJump, startStmts[1].Type())
		assert.Equal("other", startStmts[1].AsJump().Target)
	}
}

// S4 — if/else with indentation.
func Test_Parse_IfElse(t *testing.T) {
	assert := assert.New(t)

	src := "label a:\n" +
		"    if $x == 1:\n" +
		"        Alice \"one\"\n" +
		"    else:\n" +
		"        Alice \"other\"\n"

	prog, sink := parseSource(t, src)

	assert.Equal(0, sink.ErrorCount())
	if assert.Len(prog.Labels, 1) && assert.Len(prog.Labels[0].Statements, 1) {
		stmt := prog.Labels[0].Statements[0]
		assert.Equal(ast.StmtIf, stmt.Type())
		ifStmt := stmt.AsIf()

		assert.Equal(ast.EBinary, ifStmt.Cond.Type())
		cond := ifStmt.Cond.AsBinary()
		assert.Equal(ast.OpEq, cond.Op)
		assert.Equal("x", cond.Left.AsVariable().Name)

		if assert.Len(ifStmt.Then, 1) {
			assert.Equal(ast.StmtDialogue, ifStmt.Then[0].Type())
		}
		if assert.Len(ifStmt.Else, 1) {
			assert.Equal(ast.StmtDialogue, ifStmt.Else[0].Type())
		}
	}
}

// S5 — f-string with an embedded call.
func Test_Parse_FStringEmbeddedCall(t *testing.T) {
	assert := assert.New(t)

	src := "label a:\n" +
		"    Alice \"score: {call add($x, 1)}\"\n"

	prog, sink := parseSource(t, src)

	assert.Equal(0, sink.ErrorCount())
	if assert.Len(prog.Labels, 1) && assert.Len(prog.Labels[0].Statements, 1) {
		dlg := prog.Labels[0].Statements[0].AsDialogue()

		if assert.Len(dlg.Text.Fragments, 2) {
			assert.Equal("score: ", dlg.Text.Fragments[0].Text)
			assert.False(dlg.Text.Fragments[0].Placeholder)
			assert.True(dlg.Text.Fragments[1].Placeholder)
		}
		if assert.Len(dlg.Text.Embeds, 1) {
			embed := dlg.Text.Embeds[0]
			assert.Equal(ast.EEmbedCall, embed.Type())
			call := embed.AsEmbedCall()
			assert.Equal("add", call.Name)
			if assert.Len(call.Args, 2) {
				assert.Equal("x", call.Args[0].AsVariable().Name)
				assert.Equal(ast.LitNumber, call.Args[1].AsLiteral().Kind)
				assert.Equal("1", call.Args[1].AsLiteral().Text)
			}
		}
	}
}

// S6 — menu vs dialogue disambiguation.
func Test_Parse_MenuVsDialogueDisambiguation(t *testing.T) {
	assert := assert.New(t)

	src := "label a:\n" +
		"    \"choose:\"\n" +
		"    \"yes\":\n" +
		"        jump a\n" +
		"    \"no\":\n" +
		"        jump a\n"

	prog, sink := parseSource(t, src)

	assert.Equal(0, sink.ErrorCount())
	if assert.Len(prog.Labels, 1) {
		stmts := prog.Labels[0].Statements
		if assert.Len(stmts, 2) {
			assert.Equal(ast.StmtDialogue, stmts[0].Type())
			assert.Equal("", stmts[0].AsDialogue().Speaker)

			assert.Equal(ast.StmtMenu, stmts[1].Type())
			menu := stmts[1].AsMenu()
			if assert.Len(menu.Items, 2) {
				assert.Len(menu.Items[0].Text.Fragments, 1)
				assert.Equal("yes", menu.Items[0].Text.Fragments[0].Text)
				assert.Len(menu.Items[0].Body, 1)
				assert.Equal("no", menu.Items[1].Text.Fragments[0].Text)
			}
		}
	}
}

func Test_Parse_CallStatementAndAssign(t *testing.T) {
	assert := assert.New(t)

	src := "label a:\n" +
		"    call give($item, 2 + 3 * 4)\n" +
		"    $global.score += 10\n"

	prog, sink := parseSource(t, src)

	assert.Equal(0, sink.ErrorCount())
	if assert.Len(prog.Labels, 1) && assert.Len(prog.Labels[0].Statements, 2) {
		call := prog.Labels[0].Statements[0].AsCall()
		assert.Equal("give", call.Name)
		if assert.Len(call.Args, 2) {
			add := call.Args[1].AsBinary()
			assert.Equal(ast.OpAdd, add.Op)
			mul := add.Right.AsBinary()
			assert.Equal(ast.OpMul, mul.Op)
		}

		assign := prog.Labels[0].Statements[1].AsAssign()
		assert.Equal("global.score", assign.Var)
		assert.Equal(ast.AssignAdd, assign.Op)
	}
}

func Test_Parse_PowerIsRightAssociative(t *testing.T) {
	assert := assert.New(t)

	src := "label a:\n" +
		"    $x = 2 ** 3 ** 2\n"

	prog, sink := parseSource(t, src)

	assert.Equal(0, sink.ErrorCount())
	assign := prog.Labels[0].Statements[0].AsAssign()
	top := assign.Value.AsBinary()
	assert.Equal(ast.OpPow, top.Op)
	assert.Equal(ast.LitNumber, top.Left.AsLiteral().Kind)
	assert.Equal("2", top.Left.AsLiteral().Text)

	right := top.Right.AsBinary()
	assert.Equal(ast.OpPow, right.Op)
	assert.Equal("3", right.Left.AsLiteral().Text)
	assert.Equal("2", right.Right.AsLiteral().Text)
}

func Test_Parse_TourAndImport(t *testing.T) {
	assert := assert.New(t)

	src := "import shared.dp\n" +
		"label a:\n" +
		"    tour b\n"

	prog, sink := parseSource(t, src)

	assert.Equal(0, sink.ErrorCount())
	if assert.Len(prog.Imports, 1) {
		assert.Equal("shared.dp", prog.Imports[0].Path)
	}
	tourStmt := prog.Labels[0].Statements[0].AsTour()
	assert.Equal("b", tourStmt.Target)
}

// Malformed statements recover at the statement boundary without losing
// subsequent, well-formed statements in the same block.
func Test_Parse_RecoversAfterMalformedStatement(t *testing.T) {
	assert := assert.New(t)

	src := "label a:\n" +
		"    jump\n" +
		"    Alice \"still here\"\n"

	prog, sink := parseSource(t, src)

	assert.Greater(sink.ErrorCount(), 0)
	if assert.Len(prog.Labels, 1) {
		stmts := prog.Labels[0].Statements
		if assert.Len(stmts, 1) {
			assert.Equal(ast.StmtDialogue, stmts[0].Type())
		}
	}
}
