package expression

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type TokenKind int

const (
	OperatorToken TokenKind = iota
	NumberToken
	ParenToken
	WhitespaceToken
	EndOfInputToken
)

// Token is a lexical unit. Begins and Ends are byte offsets into the source,
// Ends exclusive.
type Token struct {
	Kind   TokenKind
	Char   byte  // operator or paren character
	Number int64 // value of a NumberToken
	Begins int
	Ends   int
}

func Operator(c byte) Token {
	return Token{Kind: OperatorToken, Char: c}
}

func Number(n int64) Token {
	return Token{Kind: NumberToken, Number: n}
}

func Paren(c byte) Token {
	return Token{Kind: ParenToken, Char: c}
}

func Whitespace() Token {
	return Token{Kind: WhitespaceToken}
}

func EndOfInput() Token {
	return Token{Kind: EndOfInputToken}
}

func (t Token) isOperator(ops ...byte) bool {
	return t.Kind == OperatorToken && lo.Contains(ops, t.Char)
}

func (t Token) isParen(c byte) bool {
	return t.Kind == ParenToken && t.Char == c
}

// String returns the source text the token stands for.
func (t Token) String() string {
	switch t.Kind {
	case OperatorToken, ParenToken:
		return string(t.Char)
	case NumberToken:
		return strconv.FormatInt(t.Number, 10)
	case WhitespaceToken:
		return " "
	case EndOfInputToken:
		return "EndOfInput"
	default:
		panic(fmt.Sprintf("unknown token kind: %d", t.Kind))
	}
}

func (t Token) Describe() string {
	switch t.Kind {
	case OperatorToken:
		return fmt.Sprintf("Operator('%c')", t.Char)
	case NumberToken:
		return fmt.Sprintf("Number(%d)", t.Number)
	case ParenToken:
		return fmt.Sprintf("Paren('%c')", t.Char)
	case WhitespaceToken:
		return "WhiteSpace"
	case EndOfInputToken:
		return "EndOfInput"
	default:
		panic(fmt.Sprintf("unknown token kind: %d", t.Kind))
	}
}

type TokenSequence []Token

func (s TokenSequence) Describe() []string {
	return lo.Map(s, func(t Token, _ int) string {
		return t.Describe()
	})
}

func (s TokenSequence) String() string {
	return "[" + strings.Join(s.Describe(), ", ") + "]"
}
