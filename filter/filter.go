// Package filter selects report rows with expr expressions such as
//
//	units > 0 and country_code == "US"
//	begin_date >= parseDate("2024-01-01") and textContains(title, "pro")
//
// Every normalized column is available as a variable, and the whole row is
// available as row.
package filter

import (
	"fmt"
	"maps"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/ascreports/report"
)

// RowFilter is a compiled expression evaluated against report rows
type RowFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

var defaultCompiler = NewCompiler(WithCache(64))

// CompileFilter compiles an expression with the shared, cached compiler
func CompileFilter(expression string) (*RowFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Expression returns the original expression
func (f *RowFilter) Expression() string {
	return f.expression
}

// Match reports whether row satisfies the filter
func (f *RowFilter) Match(row report.Row) (bool, error) {
	return f.match(row, -1)
}

func (f *RowFilter) match(row report.Row, index int) (bool, error) {
	env := make(map[string]any, len(f.helpers)+len(row)+1)
	for column, value := range row {
		env[column] = value
	}
	// helpers win over columns with the same name
	maps.Copy(env, f.helpers)
	env["row"] = map[string]any(row)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Row:        index,
			Reason:     err.Error(),
			Err:        err,
		}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			Row:        index,
			Reason:     fmt.Sprintf("expected bool result, got %T", result),
		}
	}
	return matched, nil
}

// Apply returns a table holding only the matching rows, in their original
// order. The input table is not modified.
func (f *RowFilter) Apply(table *report.Table) (*report.Table, error) {
	if table == nil {
		return &report.Table{}, nil
	}
	index := 0
	return table.Filter(func(row report.Row) (bool, error) {
		defer func() { index++ }()
		return f.match(row, index)
	})
}
