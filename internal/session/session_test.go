package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/dpc/internal/diag"
	"github.com/dekarrin/dpc/internal/ir"
	"github.com/dekarrin/dpc/internal/resolver"
)

func diagMessages(d []diag.Diagnostic, sev diag.Severity) []string {
	var out []string
	for _, r := range d {
		if r.Severity == sev {
			out = append(out, r.Message)
		}
	}
	return out
}

// S1 — basic dialogue and jump, across two labels in one file.
func Test_Compile_BasicDialogueAndJump(t *testing.T) {
	assert := assert.New(t)

	res := resolver.NewMemResolver(map[string]string{
		"a.dp": "label start:\n" +
			"    Alice \"hello\"\n" +
			"    jump other\n" +
			"label other:\n" +
			"    Bob \"world\"\n",
	})

	s := New(res)
	result, err := s.Compile(context.Background(), "a.dp")

	assert.NoError(err)
	assert.True(result.Success)
	assert.Empty(diagMessages(result.Diagnostics, diag.SeverityError))
	assert.Contains(result.Labels.Labels, "start")
	assert.Contains(result.Labels.Labels, "other")
}

// S2 — undefined label.
func Test_Compile_UndefinedLabel(t *testing.T) {
	assert := assert.New(t)

	res := resolver.NewMemResolver(map[string]string{
		"a.dp": "label a:\n    jump missing\n",
	})

	s := New(res)
	result, err := s.Compile(context.Background(), "a.dp")

	assert.NoError(err)
	assert.False(result.Success)
	errs := diagMessages(result.Diagnostics, diag.SeverityError)
	if assert.Len(errs, 1) {
		assert.Equal("Undefined label 'missing'", errs[0])
	}
}

// S3 — duplicate label definition across an import.
func Test_Compile_DuplicateLabelAcrossImport(t *testing.T) {
	assert := assert.New(t)

	res := resolver.NewMemResolver(map[string]string{
		"a.dp": "import b.dp\n" +
			"label x:\n" +
			"    Alice \"hi\"\n" +
			"    jump x\n",
		"b.dp": "label x:\n    Bob \"yo\"\n",
	})

	s := New(res)
	result, err := s.Compile(context.Background(), "a.dp")

	assert.NoError(err)
	assert.False(result.Success)
	errs := diagMessages(result.Diagnostics, diag.SeverityError)
	assert.Len(errs, 2)
	for _, m := range errs {
		assert.Equal("Duplicate label definition 'x'", m)
	}
}

func Test_Compile_DuplicateImport_WarnsOnce(t *testing.T) {
	assert := assert.New(t)

	res := resolver.NewMemResolver(map[string]string{
		"a.dp": "import b.dp\nimport b.dp\nlabel a:\n    jump y\n",
		"b.dp": "label y:\n    Bob \"hi\"\n",
	})

	s := New(res)
	result, err := s.Compile(context.Background(), "a.dp")

	assert.NoError(err)
	assert.True(result.Success)

	bURI, err := resolver.CanonicalURI("b.dp")
	assert.NoError(err)
	expected := "Duplicate import of '" + bURI + "'"

	assert.Contains(diagMessages(result.Diagnostics, diag.SeverityWarn), expected)
}

func Test_Compile_ImportCycle_Terminates(t *testing.T) {
	assert := assert.New(t)

	res := resolver.NewMemResolver(map[string]string{
		"a.dp": "import b.dp\nlabel a:\n    jump b_label\n",
		"b.dp": "import a.dp\nlabel b_label:\n    Bob \"hi\"\n",
	})

	s := New(res)
	result, err := s.Compile(context.Background(), "a.dp")

	assert.NoError(err)
	assert.True(result.Success)
	assert.Contains(result.Labels.Labels, "b_label")
}

func Test_Compile_UndefinedVariable(t *testing.T) {
	assert := assert.New(t)

	res := resolver.NewMemResolver(map[string]string{
		"a.dp": "label a:\n    if $x == 1:\n        Alice \"one\"\n    else:\n        Alice \"other\"\n",
	})

	s := New(res)
	result, err := s.Compile(context.Background(), "a.dp")

	assert.NoError(err)
	assert.False(result.Success)
	errs := diagMessages(result.Diagnostics, diag.SeverityError)
	assert.Contains(errs, "Undefined variable 'x'")
}

func Test_Compile_ResolverFailureOnRoot_ReturnsError(t *testing.T) {
	assert := assert.New(t)

	res := resolver.NewMemResolver(map[string]string{})
	s := New(res)

	result, err := s.Compile(context.Background(), "missing.dp")

	assert.Error(err)
	assert.Nil(result)
}

func Test_Compile_IsIdempotent(t *testing.T) {
	assert := assert.New(t)

	res := resolver.NewMemResolver(map[string]string{
		"a.dp": "label a:\n    jump a\n",
	})
	s := New(res)

	first, err := s.Compile(context.Background(), "a.dp")
	assert.NoError(err)
	second, err := s.Compile(context.Background(), "a.dp")
	assert.NoError(err)

	assert.Equal(len(first.Diagnostics), len(second.Diagnostics))
	for i := range first.Diagnostics {
		assert.Equal(first.Diagnostics[i].Message, second.Diagnostics[i].Message)
	}
	assert.ElementsMatch(keysOf(first.Labels), keysOf(second.Labels))
}

func Test_Compile_NearDuplicateLabelNames_ReportsInfo(t *testing.T) {
	assert := assert.New(t)

	res := resolver.NewMemResolver(map[string]string{
		"a.dp": "label Start:\n    Alice \"hi\"\nlabel start:\n    Bob \"bye\"\n",
	})

	s := New(res)
	result, err := s.Compile(context.Background(), "a.dp")

	assert.NoError(err)
	assert.True(result.Success)

	infos := diagMessages(result.Diagnostics, diag.SeverityInfo)
	if assert.Len(infos, 1) {
		assert.Contains(infos[0], "label definitions near 'start' differ only by case")
	}
}

func Test_Session_FindLabelDefinition(t *testing.T) {
	assert := assert.New(t)

	res := resolver.NewMemResolver(map[string]string{
		"a.dp": "label start:\n    jump start\n",
	})
	s := New(res)
	_, err := s.Compile(context.Background(), "a.dp")
	assert.NoError(err)

	uri, err := resolver.CanonicalURI("a.dp")
	assert.NoError(err)

	defs := s.FindLabelDefinition(uri, "start")
	assert.Len(defs, 1)
}

func keysOf(ls *ir.LabelSet) []string {
	var out []string
	for k := range ls.Labels {
		out = append(out, k)
	}
	return out
}
