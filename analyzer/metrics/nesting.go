package metrics

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/c360studio/codegate/analyzer/pytree"
)

// MaxNestingDepth returns the deepest control flow nesting across all
// functions. if/for/while/try/with each add one level; elif and else
// clauses continue their statement's level rather than adding one.
func MaxNestingDepth(u *pytree.SourceUnit) int {
	max := 0
	for _, fn := range u.Functions() {
		if d := nestingDepth(fn.Node, 0); d > max {
			max = d
		}
	}
	return max
}

func nestingDepth(n *sitter.Node, current int) int {
	max := current
	for _, child := range pytree.NamedChildren(n) {
		next := current
		switch child.Type() {
		case pytree.NodeIfStatement, pytree.NodeForStatement,
			pytree.NodeWhileStatement, pytree.NodeTryStatement,
			pytree.NodeWithStatement:
			next = current + 1
		}
		if d := nestingDepth(child, next); d > max {
			max = d
		}
	}
	return max
}
