package expression

import "github.com/karupanerura/complex-calc/internal/types"

// Simplify folds every subtree whose operands are literals into a single
// value. It never fails: invalid arithmetic becomes an undefined value.
// A node whose children do not reduce to literals is kept with its
// simplified children.
func Simplify(e Expression) Expression {
	switch e := e.(type) {
	case *SingleValue:
		return e

	case *Parenthesized:
		return Simplify(e.Inner)

	case *Signed:
		operand := Simplify(e.Operand)
		v, ok := ValueOf(operand)
		if !ok {
			return NewSigned(e.Sign, operand)
		}
		if e.Sign == '-' {
			return NewSingleValue(v.Neg())
		}
		return NewSingleValue(v)

	case *Binop:
		left := Simplify(e.Left)
		right := Simplify(e.Right)
		lv, lok := ValueOf(left)
		rv, rok := ValueOf(right)
		if !lok || !rok {
			return NewBinop(e.Operation, left, right)
		}
		return NewSingleValue(apply(e.Operation, lv, rv))

	default:
		// a leaf that cannot be folded
		return e
	}
}

func apply(op byte, left, right types.Value) types.Value {
	switch op {
	case '+':
		return left.Add(right)
	case '-':
		return left.Sub(right)
	case '*':
		return left.Mul(right)
	case '/':
		return left.Div(right)
	default:
		// no exponentiation in the algebra
		return types.Undefined()
	}
}
