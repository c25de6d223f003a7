package session

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/karupanerura/complex-calc/internal/expression"
	"github.com/karupanerura/complex-calc/internal/types"
)

// Result is what one line of input turned into. A lexing error leaves Tokens
// empty; a parsing error keeps Tokens and leaves Tree empty.
type Result struct {
	Source     string
	Tokens     expression.TokenSequence
	Tree       expression.Expression
	Simplified expression.Expression
	Err        error
}

func (r *Result) Failed() bool {
	return r.Err != nil
}

// Value reports the reduced value, if the line got that far.
func (r *Result) Value() (types.Value, bool) {
	if r.Simplified == nil {
		return types.Undefined(), false
	}
	return expression.ValueOf(r.Simplified)
}

// ResultJSON is the wire form of a Result. Trees are rendered as
// S-expressions and the error as its exception object.
type ResultJSON struct {
	Source     string       `json:"source"`
	Tokens     []string     `json:"tokens,omitempty"`
	Tree       string       `json:"tree,omitempty"`
	Simplified string       `json:"simplified,omitempty"`
	Result     *types.Value `json:"result,omitempty"`
	Error      any          `json:"error,omitempty"`
}

func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.JSON())
}

func (r *Result) JSON() ResultJSON {
	o := ResultJSON{Source: r.Source}
	if r.Tokens != nil {
		o.Tokens = r.Tokens.Describe()
	}
	if r.Tree != nil {
		o.Tree = expression.SExpr(r.Tree)
	}
	if r.Simplified != nil {
		o.Simplified = expression.SExpr(r.Simplified)
	}
	if v, ok := r.Value(); ok {
		o.Result = &v
	}
	if r.Err != nil {
		var exception types.Exception
		if errors.As(r.Err, &exception) {
			o.Error = exception.Exception()
		} else {
			o.Error = r.Err.Error()
		}
	}
	return o
}

type Evaluator struct {
	Debug bool
}

// Evaluate runs source through lexing, parsing and simplification.
func (e *Evaluator) Evaluate(source string) *Result {
	r := &Result{Source: source}

	tokens, err := expression.Lex(source)
	if err != nil {
		r.Err = err
		return r
	}
	r.Tokens = tokens

	parse := expression.Parse
	if e.Debug {
		parse = expression.ParseWithDebugOutput
	}
	tree, err := parse(tokens)
	if err != nil {
		r.Err = err
		return r
	}
	r.Tree = tree
	r.Simplified = expression.Simplify(tree)
	return r
}
