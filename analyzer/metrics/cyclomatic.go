// Package metrics computes per-unit code metrics over a parsed Python
// source unit. All analyzers are pure functions: same tree in, same
// numbers out, no shared state.
package metrics

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/c360studio/codegate/analyzer/pytree"
)

// Cyclomatic returns the maximum cyclomatic complexity across all
// functions in the unit. A unit with no functions scores 1.
func Cyclomatic(u *pytree.SourceUnit) int {
	max := 0
	for _, fn := range u.Functions() {
		if cc := cyclomaticOf(fn.Node); cc > max {
			max = cc
		}
	}
	if max == 0 {
		return 1
	}
	return max
}

// cyclomaticOf scores a single function. Nested functions and lambdas
// are separate blocks and do not contribute to the parent.
func cyclomaticOf(fn *sitter.Node) int {
	score := 1
	body := fn.ChildByFieldName(pytree.FieldBody)

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case pytree.NodeFunctionDefinition, pytree.NodeLambda:
			return
		case pytree.NodeIfStatement, pytree.NodeElifClause,
			pytree.NodeForStatement, pytree.NodeWhileStatement,
			pytree.NodeExceptClause, pytree.NodeConditionalExpression,
			pytree.NodeForInClause, pytree.NodeIfClause:
			score++
		case pytree.NodeBooleanOperator:
			score++
		}
		for _, child := range pytree.NamedChildren(n) {
			visit(child)
		}
	}
	if body != nil {
		visit(body)
	}
	return score
}
