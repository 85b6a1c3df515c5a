package pointcut

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Expression matches methods with a compiled expr-lang predicate over
// method metadata.
//
// The expression sees:
//
//	Method  - method name ("Hello")
//	Type    - type name ("main.Greeter")
//	Package - package path of the type
//	NumIn   - number of parameters (receiver excluded)
//	NumOut  - number of results
//
// Example: `Method startsWith "Get" && NumOut == 1`.
type Expression struct {
	StaticMatcher
	source  string
	program *vm.Program
}

// exprEnv is the evaluation environment for expression pointcuts.
type exprEnv struct {
	Method  string `expr:"Method"`
	Type    string `expr:"Type"`
	Package string `expr:"Package"`
	NumIn   int    `expr:"NumIn"`
	NumOut  int    `expr:"NumOut"`
}

// NewExpression compiles an expression pointcut. Compile errors surface
// here, not at match time.
func NewExpression(source string) (*Expression, error) {
	program, err := expr.Compile(source, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("pointcut: invalid expression %q: %w", source, err)
	}
	return &Expression{source: source, program: program}, nil
}

// TypeFilter matches every type; selection happens per method.
func (e *Expression) TypeFilter() TypeFilter { return TrueTypeFilter }

// MethodMatcher returns the expression matcher itself.
func (e *Expression) MethodMatcher() MethodMatcher { return e }

// Source returns the expression source.
func (e *Expression) Source() string { return e.source }

// Matches evaluates the expression for the method. Evaluation errors
// count as no-match.
func (e *Expression) Matches(m reflect.Method, t reflect.Type) bool {
	env := exprEnv{
		Method: m.Name,
		Type:   t.String(),
		NumOut: m.Type.NumOut(),
	}
	numIn := m.Type.NumIn()
	if m.Func.IsValid() && numIn > 0 {
		// Methods taken from a concrete type carry the receiver as the
		// first parameter; interface-sourced methods do not.
		numIn--
	}
	env.NumIn = numIn
	if t.Kind() == reflect.Ptr {
		env.Package = t.Elem().PkgPath()
	} else {
		env.Package = t.PkgPath()
	}

	out, err := vm.Run(e.program, env)
	if err != nil {
		return false
	}
	result, ok := out.(bool)
	return ok && result
}

// Equals compares expression sources.
func (e *Expression) Equals(other Pointcut) bool {
	o, ok := other.(*Expression)
	return ok && e.source == o.source
}
