// Package expr compiles CEL expressions used as computed cell values. The
// row is bound to the variable "_", so a column can render
// "_.price * _.quantity" or "_.name.upperAscii()".
package expr

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/gridcol/internal/format"
)

// RowVariable is the CEL variable the row is bound to.
const RowVariable = "_"

// Evaluator compiles CEL expressions against a shared environment.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the standard extension libraries.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable(RowVariable, cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Program is a compiled expression. It is safe for concurrent use.
type Program struct {
	source string
	prg    cel.Program
}

// Compile parses and checks expression once for repeated evaluation.
func (e *Evaluator) Compile(expression string) (*Program, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{source: expression, prg: prg}, nil
}

// String returns the expression source.
func (p *Program) String() string {
	return p.source
}

// Eval evaluates the program with row bound to "_" and converts the result
// to Go types.
func (p *Program) Eval(row any) (any, error) {
	result, _, err := p.prg.Eval(map[string]any{RowVariable: row})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	return ToGo(result), nil
}

// Text evaluates the program and renders the result with tmpl, or with the
// default stringification when tmpl is empty. A null result renders as "".
func (p *Program) Text(row any, tmpl string) (string, error) {
	v, err := p.Eval(row)
	if err != nil {
		return "", err
	}
	if v == nil {
		v = ""
	}
	if tmpl == "" {
		return format.Value(v, ""), nil
	}
	return format.Apply(tmpl, v), nil
}

// ToGo converts CEL values to Go native types recursively.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	}

	if valuer, ok := val.(interface{ Value() any }); ok {
		inner := valuer.Value()
		switch t := inner.(type) {
		case []ref.Val:
			out := make([]any, len(t))
			for i, elem := range t {
				out[i] = ToGo(elem)
			}
			return out
		case []any:
			out := make([]any, len(t))
			for i, elem := range t {
				out[i] = convert(elem)
			}
			return out
		case map[string]any:
			out := make(map[string]any, len(t))
			for k, elem := range t {
				out[k] = convert(elem)
			}
			return out
		case map[ref.Val]ref.Val:
			out := make(map[string]any, len(t))
			for k, elem := range t {
				out[fmt.Sprint(ToGo(k))] = ToGo(elem)
			}
			return out
		}
		return inner
	}
	return val
}

func convert(v any) any {
	if rv, ok := v.(ref.Val); ok {
		return ToGo(rv)
	}
	return v
}
