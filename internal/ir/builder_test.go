package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/dpc/internal/diag"
	"github.com/dekarrin/dpc/internal/exprtree"
	"github.com/dekarrin/dpc/internal/lexer"
	"github.com/dekarrin/dpc/internal/parser"
)

func lowerLabels(t *testing.T, src string) (*Builder, []*Label) {
	t.Helper()
	sink := &diag.Sink{}
	toks := lexer.Lex(src, sink)
	prog := parser.Parse(toks, sink)

	b := NewBuilder("file:///a.dp")
	var labels []*Label
	for _, lb := range prog.Labels {
		labels = append(labels, b.LowerLabel(lb))
	}
	return b, labels
}

func Test_Build_DialogueAndJump_RecordsLabelUsage(t *testing.T) {
	assert := assert.New(t)

	b, labels := lowerLabels(t, "label start:\n    Alice \"hello\"\n    jump other\n")

	if assert.Len(labels, 1) {
		assert.Equal("start", labels[0].Name)
		if assert.Len(labels[0].Statements, 2) {
			assert.Equal(SIRDialogue, labels[0].Statements[0].Kind())
			assert.Equal(SIRJump, labels[0].Statements[1].Kind())
		}
	}

	assert.Equal([]string{"start"}, b.Table().LabelDefs.Keys())
	assert.Equal([]string{"other"}, b.Table().LabelUsages.Keys())
}

func Test_Build_CompoundAssign_DesugarsAndRecordsUsage(t *testing.T) {
	assert := assert.New(t)

	b, labels := lowerLabels(t, "label a:\n    $score += 10\n")

	assign := labels[0].Statements[0].AsAssign()
	assert.Equal("score", assign.Var)

	combined := assign.Value.AsBinaryOp()
	assert.Equal(exprtree.BAdd, combined.Op)
	assert.Equal("score", combined.Left.AsVariable().Name)
	assert.Equal(exprtree.TFloat, combined.Right.AsConstant().Value.Type)

	assert.Contains(b.Table().VariableDefs.Keys(), "score")
	assert.Contains(b.Table().VariableUsages.Keys(), "score")
}

func Test_Build_PlainAssign_NoImplicitUsage(t *testing.T) {
	assert := assert.New(t)

	b, labels := lowerLabels(t, "label a:\n    $score = 10\n")

	assign := labels[0].Statements[0].AsAssign()
	assert.Equal(exprtree.TFloat, assign.Value.AsConstant().Value.Type)
	assert.NotContains(b.Table().VariableUsages.Keys(), "score")
}

func Test_Build_FString_SentinelCountMatchesEmbeds(t *testing.T) {
	assert := assert.New(t)

	_, labels := lowerLabels(t, "label a:\n    Alice \"score: {call add($x, 1)}\"\n")

	text := labels[0].Statements[0].AsDialogue().Text
	placeholders := 0
	for _, f := range text.Fragments {
		if f == exprtree.EmbedSentinel {
			placeholders++
		}
	}
	assert.Equal(len(text.Embeds), placeholders)
	assert.Equal([]string{"score: ", exprtree.EmbedSentinel}, text.Fragments)
}

func Test_Build_If_AppendsPopMarkerPerBranch(t *testing.T) {
	assert := assert.New(t)

	_, labels := lowerLabels(t, "label a:\n    if $x == 1:\n        Alice \"one\"\n    else:\n        Alice \"other\"\n")

	ifStmt := labels[0].Statements[0].AsIf()
	if assert.Len(ifStmt.Then, 2) {
		assert.Equal(SIRPop, ifStmt.Then[1].Kind())
	}
	if assert.Len(ifStmt.Else, 2) {
		assert.Equal(SIRPop, ifStmt.Else[1].Kind())
	}
}
