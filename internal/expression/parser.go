package expression

import (
	"log"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
	"github.com/karupanerura/complex-calc/internal/types"
)

var parserDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv("CALC_EXPRESSION_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

// cursor is the read position of one parse. Every parenthesized group gets a
// cursor of its own over a private copy of its tokens.
type cursor struct {
	tokens TokenSequence
	index  int
}

func (c *cursor) peek() Token {
	if c.index >= len(c.tokens) {
		var pos int
		if n := len(c.tokens); n != 0 {
			pos = c.tokens[n-1].Ends
		}
		return Token{Kind: EndOfInputToken, Begins: pos, Ends: pos}
	}
	return c.tokens[c.index]
}

func (c *cursor) advance() {
	c.index++
}

// whitespace runs are collapsed by the lexer, so one skip is enough
func (c *cursor) skipWhitespace() {
	if c.peek().Kind == WhitespaceToken {
		c.advance()
	}
}

type parser struct {
	debug bool
}

func Parse(tokens TokenSequence) (Expression, error) {
	p := &parser{debug: parserDebugLog}
	return p.parse(tokens)
}

func ParseWithDebugOutput(tokens TokenSequence) (Expression, error) {
	p := &parser{debug: true}
	return p.parse(tokens)
}

func (p *parser) parse(tokens TokenSequence) (Expression, error) {
	if p.debug {
		pp.Fprintln(os.Stderr, tokens.Describe())
	}

	expr, err := p.parseAdditive(&cursor{tokens: tokens})
	if err != nil {
		if p.debug {
			log.Printf("parse error: %v", err)
		}
		return nil, err
	}

	if p.debug {
		log.Printf("tree: %s", SExpr(expr))
	}
	return expr, nil
}

func (p *parser) parseAdditive(c *cursor) (Expression, error) {
	c.skipWhitespace()
	left, err := p.parseMultiplicative(c)
	if err != nil {
		return nil, err
	}

	for {
		c.skipWhitespace()
		switch tok := c.peek(); {
		case tok.Kind == EndOfInputToken:
			return left, nil
		case tok.isOperator('+', '-'):
			c.advance()
			c.skipWhitespace()
			right, err := p.parseMultiplicative(c)
			if err != nil {
				return nil, err
			}
			left = NewBinop(tok.Char, left, right)
		default:
			return nil, types.NewParsingError(tok.Begins+1, "expected operator, found '%s' instead.", tok)
		}
	}
}

func (p *parser) parseMultiplicative(c *cursor) (Expression, error) {
	left, err := p.parsePower(c)
	if err != nil {
		return nil, err
	}

	for {
		c.skipWhitespace()
		tok := c.peek()
		if !tok.isOperator('*', '/') {
			return left, nil
		}
		c.advance()
		c.skipWhitespace()
		right, err := p.parsePower(c)
		if err != nil {
			return nil, err
		}
		left = NewBinop(tok.Char, left, right)
	}
}

// '^' folds left to right like the other binary levels: 2^3^2 is (2^3)^2.
func (p *parser) parsePower(c *cursor) (Expression, error) {
	left, err := p.parseSigned(c)
	if err != nil {
		return nil, err
	}

	for {
		c.skipWhitespace()
		tok := c.peek()
		if !tok.isOperator('^') {
			return left, nil
		}
		c.advance()
		c.skipWhitespace()
		right, err := p.parseSigned(c)
		if err != nil {
			return nil, err
		}
		left = NewBinop(tok.Char, left, right)
	}
}

func (p *parser) parseSigned(c *cursor) (Expression, error) {
	tok := c.peek()
	if !tok.isOperator('+', '-') {
		return p.parseParenthesized(c)
	}

	c.advance()
	c.skipWhitespace()
	operand, err := p.parseParenthesized(c)
	if err != nil {
		return nil, err
	}
	return NewSigned(tok.Char, operand), nil
}

func (p *parser) parseParenthesized(c *cursor) (Expression, error) {
	open := c.peek()
	if !open.isParen('(') {
		return p.parseSingleValue(c)
	}

	c.advance()
	begins := c.index
	for depth := 1; depth != 0; c.advance() {
		tok := c.peek()
		switch {
		case tok.Kind == EndOfInputToken:
			return nil, types.NewParsingError(open.Begins+1, "input is missing closing paren")
		case tok.isParen('('):
			depth++
		case tok.isParen(')'):
			depth--
		}
	}

	closing := c.tokens[c.index-1]
	inner := make(TokenSequence, 0, c.index-begins)
	inner = append(inner, c.tokens[begins:c.index-1]...)
	inner = append(inner, Token{Kind: EndOfInputToken, Begins: closing.Begins, Ends: closing.Begins})

	expr, err := p.parseAdditive(&cursor{tokens: inner})
	if err != nil {
		return nil, err
	}
	return NewParenthesized(expr), nil
}

func (p *parser) parseSingleValue(c *cursor) (Expression, error) {
	tok := c.peek()
	if tok.Kind != NumberToken {
		return nil, types.NewParsingError(tok.Begins+1, "expected a number, found '%s'", tok)
	}
	c.advance()
	return Literal(tok.Number), nil
}
