package metrics

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/c360studio/codegate/analyzer/pytree"
)

// Cognitive returns the maximum cognitive complexity across all
// functions in the unit. Scoring follows the structural model: each
// branch construct costs 1 plus its nesting depth, sequences of the
// same boolean operator cost 1 for the whole run, break and continue
// cost 1 flat, and nested function bodies are scored one level deeper.
func Cognitive(u *pytree.SourceUnit) int {
	max := 0
	for _, fn := range u.Functions() {
		if cc := cognitiveChildren(u, fn.Node, 0); cc > max {
			max = cc
		}
	}
	return max
}

func cognitiveChildren(u *pytree.SourceUnit, n *sitter.Node, nesting int) int {
	total := 0
	for _, child := range pytree.NamedChildren(n) {
		total += cognitiveScore(u, child, nesting)
	}
	return total
}

func cognitiveScore(u *pytree.SourceUnit, n *sitter.Node, nesting int) int {
	switch n.Type() {
	case pytree.NodeIfStatement:
		return cognitiveIf(u, n, nesting)
	case pytree.NodeForStatement, pytree.NodeWhileStatement:
		return 1 + nesting + cognitiveChildren(u, n, nesting+1)
	case pytree.NodeBooleanOperator:
		return 1 + cognitiveBoolOperands(u, n, nesting, operatorText(u, n))
	case pytree.NodeConditionalExpression:
		return 1 + nesting + cognitiveChildren(u, n, nesting)
	case pytree.NodeTryStatement:
		return cognitiveTry(u, n, nesting)
	case pytree.NodeBreakStatement, pytree.NodeContinueStatement:
		return 1
	case pytree.NodeFunctionDefinition, pytree.NodeLambda:
		return cognitiveChildren(u, n, nesting+1)
	}
	return cognitiveChildren(u, n, nesting)
}

// cognitiveIf scores an if/elif/else chain: 1 plus nesting for the if,
// 1 flat for each elif and for the else, bodies one level deeper. The
// conditions themselves are not scored.
func cognitiveIf(u *pytree.SourceUnit, n *sitter.Node, nesting int) int {
	score := 1 + nesting
	if consequence := n.ChildByFieldName(pytree.FieldConsequence); consequence != nil {
		score += cognitiveChildren(u, consequence, nesting+1)
	}
	for _, child := range pytree.NamedChildren(n) {
		switch child.Type() {
		case pytree.NodeElifClause:
			score++
			if consequence := child.ChildByFieldName(pytree.FieldConsequence); consequence != nil {
				score += cognitiveChildren(u, consequence, nesting+1)
			}
		case pytree.NodeElseClause:
			score++
			if body := child.ChildByFieldName(pytree.FieldBody); body != nil {
				score += cognitiveChildren(u, body, nesting+1)
			}
		}
	}
	return score
}

// cognitiveTry scores the try body at the current nesting, each handler
// at 1 plus nesting with its body one level deeper, and else/finally at
// the current nesting.
func cognitiveTry(u *pytree.SourceUnit, n *sitter.Node, nesting int) int {
	score := 0
	if body := n.ChildByFieldName(pytree.FieldBody); body != nil {
		score += cognitiveChildren(u, body, nesting)
	}
	for _, child := range pytree.NamedChildren(n) {
		switch child.Type() {
		case pytree.NodeExceptClause:
			score += 1 + nesting
			for _, part := range pytree.NamedChildren(child) {
				if part.Type() == pytree.NodeBlock {
					score += cognitiveChildren(u, part, nesting+1)
				}
			}
		case pytree.NodeElseClause, pytree.NodeFinallyClause:
			for _, part := range pytree.NamedChildren(child) {
				if part.Type() == pytree.NodeBlock {
					score += cognitiveChildren(u, part, nesting)
				}
			}
		}
	}
	return score
}

// cognitiveBoolOperands scores the operands of a boolean operator run.
// Chained operands with the same operator extend the run without an
// extra increment; a different operator starts a new run.
func cognitiveBoolOperands(u *pytree.SourceUnit, n *sitter.Node, nesting int, op string) int {
	total := 0
	for _, field := range []string{pytree.FieldLeft, pytree.FieldRight} {
		operand := n.ChildByFieldName(field)
		if operand == nil {
			continue
		}
		if operand.Type() == pytree.NodeBooleanOperator && operatorText(u, operand) == op {
			total += cognitiveBoolOperands(u, operand, nesting, op)
		} else {
			total += cognitiveScore(u, operand, nesting)
		}
	}
	return total
}

func operatorText(u *pytree.SourceUnit, n *sitter.Node) string {
	return u.Text(n.ChildByFieldName(pytree.FieldOperator))
}
