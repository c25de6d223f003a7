package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

type ValueKind int

const (
	UndefinedKind ValueKind = iota
	NaturalKind
	ImaginaryKind
	ComplexKind
)

func (k ValueKind) String() string {
	switch k {
	case NaturalKind:
		return "natural"
	case ImaginaryKind:
		return "imaginary"
	case ComplexKind:
		return "complex"
	default:
		return "undefined"
	}
}

// Value is a number of the calculator's algebra. The zero value is Undefined.
type Value struct {
	kind ValueKind
	real int64
	imag int64
}

func Natural(n int64) Value {
	return Value{kind: NaturalKind, real: n}
}

func Imaginary(n int64) Value {
	return Value{kind: ImaginaryKind, imag: n}
}

// Complex returns the raw complex value; call Canonical to reduce it.
func Complex(r, i int64) Value {
	return Value{kind: ComplexKind, real: r, imag: i}
}

func Undefined() Value {
	return Value{}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsUndefined() bool {
	return v.kind == UndefinedKind
}

func (v Value) Real() int64 {
	return v.real
}

func (v Value) Imag() int64 {
	return v.imag
}

func (v Value) Equal(other Value) bool {
	return v == other
}

func (v Value) lift() Value {
	switch v.kind {
	case NaturalKind:
		return Complex(v.real, 0)
	case ImaginaryKind:
		return Complex(0, v.imag)
	case ComplexKind:
		return v
	default:
		return Undefined()
	}
}

// Canonical collapses a complex value with a zero component to a natural or
// imaginary one. A zero imaginary part wins, so 0+0i becomes Natural(0).
func (v Value) Canonical() Value {
	if v.kind != ComplexKind {
		return v
	}
	if v.imag == 0 {
		return Natural(v.real)
	}
	if v.real == 0 {
		return Imaginary(v.imag)
	}
	return v
}

func (v Value) Add(rhs Value) Value {
	left, right := v.lift(), rhs.lift()
	if left.IsUndefined() || right.IsUndefined() {
		return Undefined()
	}

	r, ok1 := addInt64(left.real, right.real)
	i, ok2 := addInt64(left.imag, right.imag)
	if !ok1 || !ok2 {
		return Undefined()
	}
	return Complex(r, i).Canonical()
}

func (v Value) Sub(rhs Value) Value {
	left, right := v.lift(), rhs.lift()
	if left.IsUndefined() || right.IsUndefined() {
		return Undefined()
	}

	r, ok1 := subInt64(left.real, right.real)
	i, ok2 := subInt64(left.imag, right.imag)
	if !ok1 || !ok2 {
		return Undefined()
	}
	return Complex(r, i).Canonical()
}

func (v Value) Neg() Value {
	return Natural(0).lift().Sub(v)
}

func (v Value) Mul(rhs Value) Value {
	left, right := v.lift(), rhs.lift()
	if left.IsUndefined() || right.IsUndefined() {
		return Undefined()
	}

	// (lr + li i)(rr + ri i) = (lr rr - li ri) + (lr ri + rr li) i
	lrrr, ok1 := mulInt64(left.real, right.real)
	liri, ok2 := mulInt64(left.imag, right.imag)
	lrri, ok3 := mulInt64(left.real, right.imag)
	rrli, ok4 := mulInt64(right.real, left.imag)
	r, ok5 := subInt64(lrrr, liri)
	i, ok6 := addInt64(lrri, rrli)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return Undefined()
	}
	return Complex(r, i).Canonical()
}

// Div is only defined for a natural divisor; both components of the dividend
// are divided with truncation toward zero.
func (v Value) Div(rhs Value) Value {
	left := v.lift()
	if left.IsUndefined() || rhs.kind != NaturalKind {
		return Undefined()
	}

	n := rhs.real
	if n == 0 {
		return Undefined()
	}
	if n == -1 && (left.real == math.MinInt64 || left.imag == math.MinInt64) {
		return Undefined()
	}
	return Complex(left.real/n, left.imag/n).Canonical()
}

func (v Value) String() string {
	switch v.kind {
	case NaturalKind:
		return strconv.FormatInt(v.real, 10)
	case ImaginaryKind:
		return strconv.FormatInt(v.imag, 10) + "i"
	case ComplexKind:
		var b strings.Builder
		b.WriteString(strconv.FormatInt(v.real, 10))
		if v.imag < 0 {
			b.WriteString(" - ")
			b.WriteString(strconv.FormatUint(uint64(-(v.imag+1))+1, 10))
		} else {
			b.WriteString(" + ")
			b.WriteString(strconv.FormatInt(v.imag, 10))
		}
		b.WriteByte('i')
		return b.String()
	default:
		return "undefined"
	}
}

type valueJSON struct {
	Kind      string `json:"kind"`
	Real      int64  `json:"real"`
	Imaginary int64  `json:"imaginary"`
	Text      string `json:"text"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	lifted := v.lift()
	return json.Marshal(valueJSON{
		Kind:      v.kind.String(),
		Real:      lifted.real,
		Imaginary: lifted.imag,
		Text:      v.String(),
	})
}

func addInt64(a, b int64) (int64, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, false
	}
	return s, true
}

func subInt64(a, b int64) (int64, bool) {
	d := a - b
	if (a >= 0 && b < 0 && d < 0) || (a < 0 && b > 0 && d >= 0) {
		return 0, false
	}
	return d, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}
