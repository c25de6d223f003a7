package expression

import (
	"strings"

	"github.com/karupanerura/complex-calc/internal/types"
)

// Expression is a node of the parse tree. Every node owns its children and is
// never mutated after construction.
type Expression interface {
	String() string
	isExpression()
}

type Binop struct {
	Operation byte
	Left      Expression
	Right     Expression
}

type Signed struct {
	Sign    byte
	Operand Expression
}

// Parenthesized records that the source grouped Inner in parentheses.
type Parenthesized struct {
	Inner Expression
}

type SingleValue struct {
	Value types.Value
}

func (*Binop) isExpression()         {}
func (*Signed) isExpression()        {}
func (*Parenthesized) isExpression() {}
func (*SingleValue) isExpression()   {}

func NewBinop(op byte, left, right Expression) *Binop {
	return &Binop{Operation: op, Left: left, Right: right}
}

func NewSigned(sign byte, operand Expression) *Signed {
	return &Signed{Sign: sign, Operand: operand}
}

func NewParenthesized(inner Expression) *Parenthesized {
	return &Parenthesized{Inner: inner}
}

func NewSingleValue(v types.Value) *SingleValue {
	return &SingleValue{Value: v}
}

func Literal(n int64) *SingleValue {
	return NewSingleValue(types.Natural(n))
}

func (e *Binop) String() string {
	var b strings.Builder
	b.WriteString(e.Left.String())
	b.WriteByte(' ')
	b.WriteByte(e.Operation)
	b.WriteByte(' ')
	b.WriteString(e.Right.String())
	return b.String()
}

func (e *Signed) String() string {
	return string(e.Sign) + e.Operand.String()
}

func (e *Parenthesized) String() string {
	return "(" + e.Inner.String() + ")"
}

func (e *SingleValue) String() string {
	return e.Value.String()
}

// ValueOf reports the value of a fully reduced expression.
func ValueOf(e Expression) (types.Value, bool) {
	if sv, ok := e.(*SingleValue); ok {
		return sv.Value, true
	}
	return types.Undefined(), false
}
