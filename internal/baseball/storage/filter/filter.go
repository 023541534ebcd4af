// Package filter translates AIP-160 filter expressions over the event log into
// SQL conditions.
package filter

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// EventDeclarations returns the field declarations for event filtering.
func EventDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("turn", filtering.TypeInt),
		filtering.DeclareIdent("inning", filtering.TypeInt),
		filtering.DeclareIdent("half", filtering.TypeString),
		filtering.DeclareIdent("kind", filtering.TypeString),
		filtering.DeclareIdent("message", filtering.TypeString),
	)
}

// SQLCondition represents a SQL WHERE clause fragment with parameters.
type SQLCondition struct {
	// Clause is the SQL WHERE clause (e.g., "inning = ?").
	Clause string
	// Params are the positional parameters for the clause.
	Params []any
}

// fieldMapping maps filter field names to SQL column names.
var fieldMapping = map[string]string{
	"turn":    "turn",
	"inning":  "inning",
	"half":    "half",
	"kind":    "kind",
	"message": "message",
}

// ParseEventFilter parses an AIP-160 filter expression and returns a SQL condition.
// Returns an empty condition for an empty filter string.
func ParseEventFilter(filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}

	decls, err := EventDeclarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}

	filter, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("parse filter: %w", err)
	}

	return translateExpr(filter.CheckedExpr.Expr)
}

func translateExpr(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return translateCall(kind.CallExpr)
	default:
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func translateCall(call *expr.Expr_Call) (SQLCondition, error) {
	switch call.Function {
	case filtering.FunctionAnd:
		return translateJunction(call.Args, "AND")
	case filtering.FunctionOr:
		return translateJunction(call.Args, "OR")
	case filtering.FunctionNot:
		return translateNot(call.Args)
	case filtering.FunctionEquals:
		return translateComparison(call.Args, "=")
	case filtering.FunctionNotEquals:
		return translateComparison(call.Args, "!=")
	case filtering.FunctionLessThan:
		return translateComparison(call.Args, "<")
	case filtering.FunctionLessEquals:
		return translateComparison(call.Args, "<=")
	case filtering.FunctionGreaterThan:
		return translateComparison(call.Args, ">")
	case filtering.FunctionGreaterEquals:
		return translateComparison(call.Args, ">=")
	case filtering.FunctionHas:
		return translateHas(call.Args)
	default:
		return SQLCondition{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func translateJunction(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("%s requires 2 arguments", op)
	}

	left, err := translateExpr(args[0])
	if err != nil {
		return SQLCondition{}, err
	}

	right, err := translateExpr(args[1])
	if err != nil {
		return SQLCondition{}, err
	}

	return SQLCondition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func translateNot(args []*expr.Expr) (SQLCondition, error) {
	if len(args) != 1 {
		return SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
	}
	inner, err := translateExpr(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{
		Clause: fmt.Sprintf("(NOT %s)", inner.Clause),
		Params: inner.Params,
	}, nil
}

// translateHas maps the ":" operator to a substring match on text columns.
func translateHas(args []*expr.Expr) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("has requires 2 arguments")
	}
	column, err := columnFor(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	value, err := extractValue(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	text, ok := value.(string)
	if !ok {
		return SQLCondition{}, fmt.Errorf("has requires a string value")
	}
	return SQLCondition{
		Clause: fmt.Sprintf("instr(%s, ?) > 0", column),
		Params: []any{text},
	}, nil
}

func translateComparison(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}

	column, err := columnFor(args[0])
	if err != nil {
		return SQLCondition{}, err
	}

	value, err := extractValue(args[1])
	if err != nil {
		return SQLCondition{}, err
	}

	return SQLCondition{
		Clause: fmt.Sprintf("%s %s ?", column, op),
		Params: []any{value},
	}, nil
}

func columnFor(e *expr.Expr) (string, error) {
	field, err := extractFieldName(e)
	if err != nil {
		return "", err
	}
	column, ok := fieldMapping[field]
	if !ok {
		return "", fmt.Errorf("unknown field: %s", field)
	}
	return column, nil
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	default:
		return nil, fmt.Errorf("expected constant, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("nil constant")
	}

	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}
