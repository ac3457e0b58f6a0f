// Package lexer implements the mode-stacked, indentation-aware tokenizer
// for DP source (spec.md §4.1). A lexer instance is single-use: it holds
// per-source mode-stack and indent-stack state and must not be reused for
// multiple sources (spec.md §5).
package lexer

import (
	"strings"

	"github.com/dekarrin/dpc/internal/diag"
	"github.com/dekarrin/dpc/internal/token"
)

const indentWidth = 4

type lexer struct {
	src  []rune
	pos  int
	line int
	col  int

	modes       *modeStack
	indentStack []int

	atLineStart bool
	fatal       bool

	sink   *diag.Sink
	tokens []token.Token
}

// Lex tokenizes source text, reporting lexical diagnostics (unrecognized
// character runs, inconsistent indentation) to sink, and returns the full
// token vector, always ending in exactly one EOF token preceded by Dedent
// tokens that reduce the indent stack to empty (spec.md §8 invariant 1).
func Lex(source string, sink *diag.Sink) []token.Token {
	l := &lexer{
		src:         []rune(source),
		line:        1,
		col:         1,
		modes:       newModeStack(),
		indentStack: []int{0},
		atLineStart: true,
		sink:        sink,
	}
	l.run()
	return l.tokens
}

func (l *lexer) run() {
	for l.pos < len(l.src) && !l.fatal {
		if l.modes.top() == modeDefault && l.atLineStart {
			l.handleIndentation()
			if l.fatal {
				break
			}
			if l.pos >= len(l.src) {
				break
			}
		}

		if l.src[l.pos] == '\n' {
			l.handleNewline()
			continue
		}

		switch l.modes.top() {
		case modeDefault, modeEmbed:
			l.lexDefaultLike()
		case modeFstring:
			l.lexFstring()
		case modePath:
			l.lexPath()
		}
	}

	l.finish()
}

// finish emits the trailing Dedent run and the final EOF token.
func (l *lexer) finish() {
	for len(l.indentStack) > 1 {
		l.indentStack = l.indentStack[:len(l.indentStack)-1]
		l.emit(token.Dedent, "", l.line, l.col)
	}
	l.emit(token.EOF, "", l.line, l.col)
}

func (l *lexer) emit(kind token.Kind, lexeme string, line, col int) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: col})
}

// handleIndentation measures leading whitespace at the start of a
// Default-mode line. Blank lines and comment-only lines (spec.md §4.1:
// `#` only counts as a comment when it is the first non-whitespace
// character) do not affect the indent stack.
func (l *lexer) handleIndentation() {
	startLine := l.line
	count := 0
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ':
			count++
		case '\t':
			count += indentWidth
		default:
			goto measured
		}
		l.pos++
		l.col++
	}
measured:
	l.atLineStart = false

	if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
		return
	}
	if l.src[l.pos] == '#' {
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}
		return
	}

	level := count / indentWidth
	top := l.indentStack[len(l.indentStack)-1]

	switch {
	case level > top:
		l.indentStack = append(l.indentStack, level)
		l.emit(token.Indent, "", startLine, 1)
	case level < top:
		for len(l.indentStack) > 1 && l.indentStack[len(l.indentStack)-1] > level {
			l.indentStack = l.indentStack[:len(l.indentStack)-1]
			l.emit(token.Dedent, "", startLine, 1)
		}
		if l.indentStack[len(l.indentStack)-1] != level {
			l.sink.Errorf(startLine, 1, "inconsistent indentation")
			l.fatal = true
		}
	}
}

// handleNewline collapses any open Fstring/Embed/Path nesting back to
// Default (the "Fallback" semantics of spec.md §4.1), emits Linebreak, and
// advances to the next line.
func (l *lexer) handleNewline() {
	l.modes.collapseToDefault()
	l.emit(token.Linebreak, "", l.line, l.col)
	l.pos++
	l.line++
	l.col = 1
	l.atLineStart = true
}

// lexPath consumes the remainder of the current line as a single Path
// token, trimmed of leading/trailing whitespace, then pops back to
// Default. The trailing linebreak is left for the main loop/handleNewline.
func (l *lexer) lexPath() {
	startLine, startCol := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
		l.col++
	}
	lexeme := strings.TrimSpace(string(l.src[start:l.pos]))
	l.emit(token.Path, lexeme, startLine, startCol)
	l.modes.pop()
}

// lexDefaultLike tokenizes one lexeme in Default or Embed mode using the
// mode's ordered, longest-match-wins rule table.
func (l *lexer) lexDefaultLike() {
	isEmbed := l.modes.top() == modeEmbed
	rules := defaultRules()
	if isEmbed {
		rules = embedRules()
	}

	n, rule, ok := bestMatch(rules, l.src[l.pos:])
	if !ok {
		l.lexErrorRun(rules)
		return
	}

	startLine, startCol := l.line, l.col
	lexeme := string(l.src[l.pos : l.pos+n])
	l.advance(n)

	if rule.ignore {
		return
	}

	kind := rule.kind
	if rule.name == "identifier" {
		if isEmbed {
			kind = identOrKeywordForEmbed(lexeme)
		} else {
			kind = identOrKeyword(lexeme)
		}
	}

	l.emit(kind, lexeme, startLine, startCol)

	if kind == token.Import && !isEmbed {
		l.modes.push(modePath)
		return
	}
	if rule.hasPush {
		l.modes.push(rule.push)
	}
	if rule.pop {
		l.modes.pop()
	}
}

func identOrKeywordForEmbed(lexeme string) token.Kind {
	if lexeme == "call" {
		return token.Call
	}
	if boolConsts[strings.ToLower(lexeme)] {
		return token.Boolean
	}
	return token.Identifier
}

// lexFstring tokenizes one lexeme while inside an open f-string.
func (l *lexer) lexFstring() {
	rules := fstringRules()
	n, rule, ok := bestMatch(rules, l.src[l.pos:])
	if !ok {
		l.lexErrorRun(rules)
		return
	}

	startLine, startCol := l.line, l.col
	lexeme := string(l.src[l.pos : l.pos+n])
	l.advance(n)

	l.emit(rule.kind, lexeme, startLine, startCol)

	if rule.hasPush {
		l.modes.push(rule.push)
	}
	if rule.pop {
		l.modes.pop()
	}
}

// lexErrorRun accumulates an unrecognized character run into a single
// Error token, per spec.md §4.1: "on next successful match (or line end)
// flush the buffer as an Error token and record a diagnostic with the
// exact span."
func (l *lexer) lexErrorRun(rules []matchRule) {
	startLine, startCol := l.line, l.col
	start := l.pos

	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		if _, _, ok := bestMatch(rules, l.src[l.pos:]); ok {
			break
		}
		l.advance(1)
	}
	if l.pos == start {
		// guard against a zero-width loop on unmatchable single chars at
		// EOF
		l.advance(1)
	}

	lexeme := string(l.src[start:l.pos])
	l.emit(token.Error, lexeme, startLine, startCol)
	l.sink.Errorf(startLine, startCol, "unrecognized input %q", lexeme)
}

func (l *lexer) advance(n int) {
	l.pos += n
	l.col += n
}

// bestMatch tries every rule against s in order and returns the
// longest-matching rule, breaking ties by earliest listed (spec.md §4.1:
// "Order matters").
func bestMatch(rules []matchRule, s []rune) (int, matchRule, bool) {
	bestN := 0
	var bestRule matchRule
	found := false
	for _, r := range rules {
		n := r.match(s)
		if n > bestN {
			bestN = n
			bestRule = r
			found = true
		}
	}
	return bestN, bestRule, found
}
