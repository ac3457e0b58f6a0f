package lexer

import "github.com/dekarrin/dpc/internal/token"

// mode identifies a lexical mode. The mode stack always starts as
// [modeDefault]; modeDefault itself is never pushed or popped, only
// inspected.
type mode int

const (
	modeDefault mode = iota
	modeFstring
	modePath
	modeEmbed
)

func (m mode) String() string {
	switch m {
	case modeDefault:
		return "default"
	case modeFstring:
		return "fstring"
	case modePath:
		return "path"
	case modeEmbed:
		return "embed"
	default:
		return "unknown"
	}
}

// modeStack is a simple stack of lexical modes, always non-empty: index 0
// is always modeDefault.
type modeStack struct {
	frames []mode
}

func newModeStack() *modeStack {
	return &modeStack{frames: []mode{modeDefault}}
}

func (s *modeStack) top() mode {
	return s.frames[len(s.frames)-1]
}

func (s *modeStack) push(m mode) {
	s.frames = append(s.frames, m)
}

// pop removes the top frame unless it is the sole remaining (Default)
// frame.
func (s *modeStack) pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// collapseToDefault pops every non-Default frame. It implements the
// "Fallback" double-pop (and triple, quadruple, ...) semantics from
// spec.md §4.1: whatever depth of Fstring/Embed/Path nesting is open when
// a line ends, an unterminated physical newline returns lexing straight to
// Default in one call.
func (s *modeStack) collapseToDefault() {
	s.frames = s.frames[:1]
}

// matchRule is one entry in a mode's ordered pattern list. Rules are tried
// in order; among rules whose pattern matches at the current position, the
// longest match wins, and ties are broken by leftmost (first-listed) rule,
// exactly as the teacher's lexer disambiguates (internal/tunascript/lexer.go).
type matchRule struct {
	name string
	// match attempts to match at the start of s, returning the matched
	// lexeme length (0 for no match).
	match func(s []rune) int
	kind  token.Kind
	// ignore, when true, means the match is consumed silently (whitespace,
	// comments) and produces no token.
	ignore bool
	// push, when non-zero (via hasPush), switches the active mode after
	// the match is consumed.
	push    mode
	hasPush bool
	// pop, when true, pops the mode stack after the match is consumed
	// (after emitting the token for the closing lexeme).
	pop bool
}
