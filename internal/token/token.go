// Package token defines the lexical token model shared by the lexer and
// parser.
package token

import "fmt"

// Kind identifies the lexical class of a Token. The enumeration is closed
// and partitioned into structural, keyword, literal, f-string, operator, and
// punctuation kinds.
type Kind int

const (
	// structural
	Indent Kind = iota
	Dedent
	Linebreak
	EOF
	Error
	PlaceHolder

	// keywords
	Label
	Jump
	Tour
	Call
	Import
	If
	Else
	Elif

	// literals
	Identifier
	Number
	Boolean
	Variable

	// f-string
	FstringQuote
	FstringContent
	FstringEscape

	// operators
	Plus
	Minus
	Star
	Slash
	Percent
	Power

	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	PowerAssign

	Eq
	NotEq
	Less
	Greater
	LessEq
	GreaterEq

	And
	Or
	Not

	// punctuation
	Comma
	Colon
	LParen
	RParen
	LBrace
	RBrace

	Path
)

var kindNames = map[Kind]string{
	Indent:      "INDENT",
	Dedent:      "DEDENT",
	Linebreak:   "LINEBREAK",
	EOF:         "EOF",
	Error:       "ERROR",
	PlaceHolder: "PLACEHOLDER",

	Label:  "LABEL",
	Jump:   "JUMP",
	Tour:   "TOUR",
	Call:   "CALL",
	Import: "IMPORT",
	If:     "IF",
	Else:   "ELSE",
	Elif:   "ELIF",

	Identifier: "IDENTIFIER",
	Number:     "NUMBER",
	Boolean:    "BOOLEAN",
	Variable:   "VARIABLE",

	FstringQuote:   "FSTRING_QUOTE",
	FstringContent: "FSTRING_CONTENT",
	FstringEscape:  "FSTRING_ESCAPE",

	Plus:    "PLUS",
	Minus:   "MINUS",
	Star:    "STAR",
	Slash:   "SLASH",
	Percent: "PERCENT",
	Power:   "POWER",

	Assign:        "ASSIGN",
	PlusAssign:    "PLUS_ASSIGN",
	MinusAssign:   "MINUS_ASSIGN",
	StarAssign:    "STAR_ASSIGN",
	SlashAssign:   "SLASH_ASSIGN",
	PercentAssign: "PERCENT_ASSIGN",
	PowerAssign:   "POWER_ASSIGN",

	Eq:        "EQ",
	NotEq:     "NOT_EQ",
	Less:      "LESS",
	Greater:   "GREATER",
	LessEq:    "LESS_EQ",
	GreaterEq: "GREATER_EQ",

	And: "AND",
	Or:  "OR",
	Not: "NOT",

	Comma:  "COMMA",
	Colon:  "COLON",
	LParen: "LPAREN",
	RParen: "RPAREN",
	LBrace: "LBRACE",
	RBrace: "RBRACE",

	Path: "PATH",
}

// String returns the canonical name of the kind, e.g. "LINEBREAK".
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("KIND(%d)", int(k))
}

// Keywords maps the reserved-word spelling to its Kind. Matching is
// case-sensitive; DP keywords are always lowercase.
var Keywords = map[string]Kind{
	"label":  Label,
	"jump":   Jump,
	"tour":   Tour,
	"call":   Call,
	"import": Import,
	"if":     If,
	"else":   Else,
	"elif":   Elif,
}

// Token is a single lexical unit: its kind, the exact source text it
// spans, and its 1-based line/column position.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

// String renders the token for diagnostics/debugging, e.g. `IDENTIFIER
// "Alice" (3:5)`.
func (t Token) String() string {
	return fmt.Sprintf("%s %q (%d:%d)", t.Kind, t.Lexeme, t.Line, t.Column)
}

// Human returns a reader-facing description of the token's kind, e.g. for
// "expected X, got Y" parser diagnostics.
func (t Token) Human() string {
	switch t.Kind {
	case EOF:
		return "end of file"
	case Linebreak:
		return "end of line"
	case Indent:
		return "indent"
	case Dedent:
		return "dedent"
	case Identifier, Variable:
		return fmt.Sprintf("%q", t.Lexeme)
	default:
		return fmt.Sprintf("%q", t.Lexeme)
	}
}
