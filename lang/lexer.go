package lang

import (
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// Tokenize converts source text into an ordered sequence of tokens
// terminated by a [TokenEOF] token.
//
// Comments begin with '#' and run to the end of the line; they are
// discarded. Whitespace only separates tokens.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{
		input: []byte(src),
		line:  1,
		col:   1,
	}

	return l.run()
}

// lexer holds the tokenizer state.
type lexer struct {
	input  []byte
	tokens []Token
	pos    int
	line   int
	col    int
}

func (l *lexer) run() ([]Token, error) {
	for {
		l.skipWhitespaceAndComments()

		if l.eof() {
			l.emit(TokenEOF, "", l.position())

			return l.tokens, nil
		}

		err := l.next()
		if err != nil {
			return nil, err
		}
	}
}

// next scans exactly one token.
func (l *lexer) next() error {
	pos := l.position()
	ch := l.peek()

	switch {
	case ch == '"':
		return l.scanString(pos)

	case isDigit(ch):
		start := l.pos
		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}

		l.emit(TokenInt, string(l.input[start:l.pos]), pos)

	case isIdentifierStart(ch):
		start := l.pos
		for !l.eof() && isIdentifierContinue(l.peek()) {
			l.advance()
		}

		word := string(l.input[start:l.pos])

		switch {
		case word == "true" || word == "false":
			l.emit(TokenBool, word, pos)
		case IsKeyword(word):
			l.emit(TokenKeyword, word, pos)
		default:
			l.emit(TokenIdentifier, word, pos)
		}

	case ch == '@':
		l.advance()
		l.emit(TokenAt, "@", pos)

	case ch == '(' || ch == ')' || ch == '[' || ch == ']' ||
		ch == '{' || ch == '}':
		l.advance()
		l.emit(TokenPunct, string(ch), pos)

	case ch == '+' || ch == '-' || ch == '*' || ch == '/':
		l.advance()
		l.emit(TokenOperator, string(ch), pos)

	case ch == '<' || ch == '>':
		l.advance()

		op := string(ch)
		if l.peek() == '=' {
			l.advance()

			op += "="
		}

		l.emit(TokenOperator, op, pos)

	case ch == '=' || ch == '!':
		l.advance()

		if l.peek() != '=' {
			return ErrLex.WithPosition(pos).
				Detail("unexpected character " + strconv.QuoteRune(ch)).
				With(slog.String("char", string(ch)))
		}

		l.advance()
		l.emit(TokenOperator, string(ch)+"=", pos)

	default:
		return ErrLex.WithPosition(pos).
			Detail("unexpected character " + strconv.QuoteRune(ch)).
			With(slog.String("char", string(ch)))
	}

	return nil
}

// scanString scans a double-quoted string. Characters between the quotes
// are taken verbatim; there are no escape sequences.
func (l *lexer) scanString(pos Position) error {
	l.advance() // skip opening quote

	start := l.pos
	for !l.eof() && l.peek() != '"' {
		l.advance()
	}

	if l.eof() {
		return ErrLex.WithPosition(pos).Detail("unterminated string")
	}

	text := string(l.input[start:l.pos])

	l.advance() // skip closing quote
	l.emit(TokenString, text, pos)

	return nil
}

func (l *lexer) emit(kind TokenKind, text string, pos Position) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Pos: pos})
}

// Helper methods

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *lexer) skipWhitespaceAndComments() {
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			l.advance()

		case '#':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		default:
			return
		}
	}
}

// Character classification

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentifierStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}
