package lang

import "fmt"

// TokenKind classifies a lexeme.
type TokenKind int

const (
	// TokenEOF marks the end of input. It is always the final token.
	TokenEOF TokenKind = iota

	// TokenIdentifier is a name: [A-Za-z_][A-Za-z0-9_]*.
	TokenIdentifier

	// TokenString is a double-quoted string literal. Text holds the contents
	// without the quotes.
	TokenString

	// TokenInt is a decimal integer literal.
	TokenInt

	// TokenBool is one of the literals true or false.
	TokenBool

	// TokenKeyword is a statement keyword (set, logl, check, ...).
	TokenKeyword

	// TokenPunct is one of ( ) [ ] { }.
	TokenPunct

	// TokenOperator is an arithmetic or comparison operator.
	TokenOperator

	// TokenAt is the '@' marker introducing a built-in or function call.
	TokenAt
)

var tokenKindName = [...]string{
	TokenEOF:        "end of input",
	TokenIdentifier: "identifier",
	TokenString:     "string",
	TokenInt:        "integer",
	TokenBool:       "boolean",
	TokenKeyword:    "keyword",
	TokenPunct:      "punctuation",
	TokenOperator:   "operator",
	TokenAt:         "@",
}

// String returns a human-readable name of the kind.
func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindName) {
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}

	return tokenKindName[k]
}

// Statement keywords.
const (
	KeywordSet    = "set"
	KeywordUpdate = "update"
	KeywordLog    = "log"
	KeywordLogl   = "logl"
	KeywordCheck  = "check"
	KeywordWhile  = "while"
	KeywordFn     = "fn"
	KeywordRet    = "ret"
	KeywordBreak  = "break"
)

// Names of the at-prefixed built-ins.
const (
	BuiltinMath   = "math"
	BuiltinSource = "source"
)

var keywords = map[string]struct{}{
	KeywordSet:    {},
	KeywordUpdate: {},
	KeywordLog:    {},
	KeywordLogl:   {},
	KeywordCheck:  {},
	KeywordWhile:  {},
	KeywordFn:     {},
	KeywordRet:    {},
	KeywordBreak:  {},
}

// IsKeyword reports whether s is a reserved statement keyword.
func IsKeyword(s string) bool {
	_, ok := keywords[s]

	return ok
}

// Token is a classified lexeme. Tokens are immutable once produced.
type Token struct {
	Text string    `json:"text"`
	Pos  Position  `json:"pos"`
	Kind TokenKind `json:"kind"`
}

// Is reports whether t has the given kind and text.
func (t Token) Is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// Adjacent reports whether next begins exactly where t ends, with no
// whitespace between them. Only meaningful for tokens whose Text is their
// raw source (identifiers and punctuation).
func (t Token) Adjacent(next Token) bool {
	return t.Pos.Offset+len(t.Text) == next.Pos.Offset
}

// String returns a description of the token suitable for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return t.Kind.String()

	case TokenString:
		return fmt.Sprintf("string %q", t.Text)

	case TokenAt:
		return `"@"`

	default:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
}
