package expression

import (
	"fmt"
	"strings"
)

// SExpr renders e in prefix form, e.g. (+ 2 (* 3 4)).
func SExpr(e Expression) string {
	var b strings.Builder
	writeSExpr(&b, e)
	return b.String()
}

func writeSExpr(b *strings.Builder, e Expression) {
	switch e := e.(type) {
	case *Binop:
		fmt.Fprintf(b, "(%c ", e.Operation)
		writeSExpr(b, e.Left)
		b.WriteByte(' ')
		writeSExpr(b, e.Right)
		b.WriteByte(')')
	case *Signed:
		fmt.Fprintf(b, "(%c ", e.Sign)
		writeSExpr(b, e.Operand)
		b.WriteByte(')')
	case *Parenthesized:
		b.WriteString("(group ")
		writeSExpr(b, e.Inner)
		b.WriteByte(')')
	case *SingleValue:
		b.WriteString(e.Value.String())
	case nil:
		b.WriteString("nil")
	default:
		panic(fmt.Sprintf("unknown expression type: %T", e))
	}
}

// Dump renders e as an indented tree, one field per line.
func Dump(e Expression) string {
	var b strings.Builder
	dump(&b, e, 0)
	return b.String()
}

const dumpIndent = "    "

func dump(b *strings.Builder, e Expression, depth int) {
	inner := strings.Repeat(dumpIndent, depth+1)
	switch e := e.(type) {
	case *Binop:
		b.WriteString("Binop {\n")
		fmt.Fprintf(b, "%soperation: '%c',\n", inner, e.Operation)
		b.WriteString(inner + "left: ")
		dump(b, e.Left, depth+1)
		b.WriteString(",\n" + inner + "right: ")
		dump(b, e.Right, depth+1)
		b.WriteString(",\n" + strings.Repeat(dumpIndent, depth) + "}")
	case *Signed:
		b.WriteString("Signed {\n")
		fmt.Fprintf(b, "%ssign: '%c',\n", inner, e.Sign)
		b.WriteString(inner + "operand: ")
		dump(b, e.Operand, depth+1)
		b.WriteString(",\n" + strings.Repeat(dumpIndent, depth) + "}")
	case *Parenthesized:
		b.WriteString("Parenthesized(\n" + inner)
		dump(b, e.Inner, depth+1)
		b.WriteString(",\n" + strings.Repeat(dumpIndent, depth) + ")")
	case *SingleValue:
		fmt.Fprintf(b, "SingleValue(%s)", e.Value)
	case nil:
		b.WriteString("nil")
	default:
		panic(fmt.Sprintf("unknown expression type: %T", e))
	}
}
