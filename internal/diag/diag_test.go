package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Sink_Report_TracksOrderAndCounts(t *testing.T) {
	assert := assert.New(t)

	var s Sink
	s.Errorf(1, 1, "bad %s", "token")
	s.Warnf(2, 3, "unused %s", "label")
	s.Errorf(5, 1, "also bad")

	assert.Len(s.All(), 3)
	assert.Equal("bad token", s.All()[0].Message)
	assert.Equal(2, s.Count(SeverityError))
	assert.Equal(1, s.Count(SeverityWarn))
	assert.Equal(2, s.ErrorCount())
}

func Test_Severity_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("error", SeverityError.String())
	assert.Equal("warning", SeverityWarn.String())
	assert.Equal("info", SeverityInfo.String())
	assert.Equal("log", SeverityLog.String())
	assert.Equal("unknown", Severity(0).String())
}

func Test_Render_WithoutSourceLine(t *testing.T) {
	assert := assert.New(t)

	out := Render(Diagnostic{Message: "oops", Line: 4, Column: 2, Severity: SeverityError})
	assert.Contains(out, "line 4, col 2")
	assert.Contains(out, "oops")
}

func Test_Render_WithSourceLine_AddsCursor(t *testing.T) {
	assert := assert.New(t)

	out := Render(Diagnostic{
		Message:    "unexpected token",
		Line:       1,
		Column:     5,
		Severity:   SeverityError,
		SourceLine: `Alice "hi"`,
	})

	assert.Contains(out, `Alice "hi"`)
	assert.Contains(out, "    ^")
}
