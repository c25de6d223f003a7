package expression

import (
	"math"

	"github.com/karupanerura/complex-calc/internal/types"
)

type lexer struct {
	source  string
	tokens  TokenSequence
	pending bool
	acc     int64
	begins  int
}

// Lex scans source into tokens. The sequence always ends with exactly one
// EndOfInput token and never holds two consecutive whitespace tokens.
func Lex(source string) (TokenSequence, error) {
	l := &lexer{source: source}
	return l.lex()
}

func (l *lexer) lex() (TokenSequence, error) {
	for i, c := range l.source {
		if '0' <= c && c <= '9' {
			if err := l.accumulate(i, c); err != nil {
				return nil, err
			}
			continue
		}
		l.flush(i)

		switch c {
		case '+', '-', '*', '/', '^':
			l.emit(Token{Kind: OperatorToken, Char: byte(c), Begins: i, Ends: i + 1})
		case '(', ')':
			l.emit(Token{Kind: ParenToken, Char: byte(c), Begins: i, Ends: i + 1})
		case ' ', '\t':
			if n := len(l.tokens); n != 0 && l.tokens[n-1].Kind == WhitespaceToken {
				l.tokens[n-1].Ends = i + 1
				continue
			}
			l.emit(Token{Kind: WhitespaceToken, Begins: i, Ends: i + 1})
		default:
			return nil, types.NewLexingError(i+1, "invalid character %q", c)
		}
	}

	l.flush(len(l.source))
	l.emit(Token{Kind: EndOfInputToken, Begins: len(l.source), Ends: len(l.source)})
	return l.tokens, nil
}

func (l *lexer) accumulate(i int, c rune) error {
	if !l.pending {
		l.pending = true
		l.acc = 0
		l.begins = i
	}

	digit := int64(c - '0')
	if l.acc > (math.MaxInt64-digit)/10 {
		return types.NewLexingError(l.begins+1, "number literal out of range: %s...", l.source[l.begins:i+1])
	}
	l.acc = l.acc*10 + digit
	return nil
}

func (l *lexer) flush(ends int) {
	if !l.pending {
		return
	}
	l.emit(Token{Kind: NumberToken, Number: l.acc, Begins: l.begins, Ends: ends})
	l.pending = false
	l.acc = 0
}

func (l *lexer) emit(t Token) {
	l.tokens = append(l.tokens, t)
}
