package lexer

import (
	"regexp"
	"strings"

	"github.com/dekarrin/dpc/internal/token"
)

var (
	reIdent   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	reNumber  = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?`)
	reVar     = regexp.MustCompile(`^\$(global\.)?[A-Za-z_][A-Za-z0-9_]*`)
	reBlank   = regexp.MustCompile(`^[ \t]+`)
	reFsBody  = regexp.MustCompile(`^[^"{}\\\n]+`)
	reEscName = map[string]rune{
		`\n`: '\n', `\r`: '\r', `\t`: '\t', `\"`: '"', `\\`: '\\',
	}
)

func literalMatcher(lit string) func([]rune) int {
	litRunes := []rune(lit)
	return func(s []rune) int {
		if len(s) < len(litRunes) {
			return 0
		}
		for i := range litRunes {
			if s[i] != litRunes[i] {
				return 0
			}
		}
		return len(litRunes)
	}
}

func regexMatcher(re *regexp.Regexp) func([]rune) int {
	return func(s []rune) int {
		loc := re.FindStringIndex(string(s))
		if loc == nil || loc[0] != 0 {
			return 0
		}
		return loc[1]
	}
}

// boolConsts mirrors the teacher's case-insensitive boolean-literal
// recognition (internal/tunascript/lexer.go's boolConsts), narrowed to
// DP's two spellings.
var boolConsts = map[string]bool{"true": true, "false": true}

// identOrKeyword classifies a matched identifier lexeme as a keyword,
// boolean literal, or plain identifier.
func identOrKeyword(lexeme string) token.Kind {
	if kw, ok := token.Keywords[lexeme]; ok {
		return kw
	}
	if boolConsts[strings.ToLower(lexeme)] {
		return token.Boolean
	}
	return token.Identifier
}

// defaultRules is the ordered pattern list for modeDefault. Longer/more
// specific operators are listed before their prefixes (`**` before `*`,
// `<=`/`>=` before `<`/`>`, `==`/`!=` before `=`, `**=` before `*=` before
// `*`), per spec.md §4.1.
func defaultRules() []matchRule {
	return []matchRule{
		{name: "blank", match: regexMatcher(reBlank), ignore: true},
		{name: "quote", match: literalMatcher(`"`), kind: token.FstringQuote, hasPush: true, push: modeFstring},
		{name: "power_assign", match: literalMatcher("**="), kind: token.PowerAssign},
		{name: "power", match: literalMatcher("**"), kind: token.Power},
		{name: "star_assign", match: literalMatcher("*="), kind: token.StarAssign},
		{name: "star", match: literalMatcher("*"), kind: token.Star},
		{name: "slash_assign", match: literalMatcher("/="), kind: token.SlashAssign},
		{name: "slash", match: literalMatcher("/"), kind: token.Slash},
		{name: "percent_assign", match: literalMatcher("%="), kind: token.PercentAssign},
		{name: "percent", match: literalMatcher("%"), kind: token.Percent},
		{name: "plus_assign", match: literalMatcher("+="), kind: token.PlusAssign},
		{name: "plus", match: literalMatcher("+"), kind: token.Plus},
		{name: "minus_assign", match: literalMatcher("-="), kind: token.MinusAssign},
		{name: "minus", match: literalMatcher("-"), kind: token.Minus},
		{name: "eq", match: literalMatcher("=="), kind: token.Eq},
		{name: "not_eq", match: literalMatcher("!="), kind: token.NotEq},
		{name: "assign", match: literalMatcher("="), kind: token.Assign},
		{name: "less_eq", match: literalMatcher("<="), kind: token.LessEq},
		{name: "less", match: literalMatcher("<"), kind: token.Less},
		{name: "greater_eq", match: literalMatcher(">="), kind: token.GreaterEq},
		{name: "greater", match: literalMatcher(">"), kind: token.Greater},
		{name: "and", match: literalMatcher("&&"), kind: token.And},
		{name: "or", match: literalMatcher("||"), kind: token.Or},
		{name: "not", match: literalMatcher("!"), kind: token.Not},
		{name: "comma", match: literalMatcher(","), kind: token.Comma},
		{name: "colon", match: literalMatcher(":"), kind: token.Colon},
		{name: "lparen", match: literalMatcher("("), kind: token.LParen},
		{name: "rparen", match: literalMatcher(")"), kind: token.RParen},
		{name: "variable", match: regexMatcher(reVar), kind: token.Variable},
		{name: "number", match: regexMatcher(reNumber), kind: token.Number},
		{name: "identifier", match: regexMatcher(reIdent), kind: token.Identifier},
	}
}

// embedRules is the expression sub-grammar used inside `{...}`: no
// keywords except `call`, no assignment operators, per spec.md §4.1.
func embedRules() []matchRule {
	base := defaultRules()
	var out []matchRule
	for _, r := range base {
		switch r.name {
		case "assign", "plus_assign", "minus_assign", "star_assign", "slash_assign", "percent_assign", "power_assign":
			continue
		}
		out = append(out, r)
	}
	out = append(out, matchRule{name: "rbrace", match: literalMatcher("}"), kind: token.RBrace, pop: true})
	return out
}

// fstringRules is the ordered pattern list inside an open f-string.
func fstringRules() []matchRule {
	var out []matchRule
	for lit, ch := range reEscName {
		_ = ch
		out = append(out, matchRule{name: "escape:" + lit, match: literalMatcher(lit), kind: token.FstringEscape})
	}
	out = append(out,
		matchRule{name: "escape_open_brace", match: literalMatcher("{{"), kind: token.FstringEscape},
		matchRule{name: "escape_close_brace", match: literalMatcher("}}"), kind: token.FstringEscape},
		matchRule{name: "embed_open", match: literalMatcher("{"), kind: token.LBrace, hasPush: true, push: modeEmbed},
		matchRule{name: "quote_close", match: literalMatcher(`"`), kind: token.FstringQuote, pop: true},
		matchRule{name: "content", match: regexMatcher(reFsBody), kind: token.FstringContent},
	)
	return out
}
