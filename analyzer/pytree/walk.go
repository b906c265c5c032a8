package pytree

import sitter "github.com/smacker/go-tree-sitter"

// Walk visits n and every named descendant in preorder. Returning false
// from fn prunes the subtree below the current node.
func Walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		Walk(n.NamedChild(i), fn)
	}
}

// WalkSkipFunctions visits n and named descendants in preorder but does
// not descend into nested function definitions or lambdas below n.
func WalkSkipFunctions(n *sitter.Node, fn func(*sitter.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case NodeFunctionDefinition, NodeLambda:
			continue
		}
		WalkSkipFunctions(child, fn)
	}
}

// NamedChildren returns the named children of a node.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		children = append(children, n.NamedChild(i))
	}
	return children
}

// Statements returns the named children of a block or module node with
// comment nodes filtered out, preserving source order.
func Statements(n *sitter.Node) []*sitter.Node {
	var stmts []*sitter.Node
	for _, child := range NamedChildren(n) {
		if child.Type() == NodeComment {
			continue
		}
		stmts = append(stmts, child)
	}
	return stmts
}

// IsLoop reports whether a node is a for or while loop.
func IsLoop(n *sitter.Node) bool {
	t := n.Type()
	return t == NodeForStatement || t == NodeWhileStatement
}

// IsTerminal reports whether a statement unconditionally leaves the
// enclosing block (return, raise, break, continue).
func IsTerminal(n *sitter.Node) bool {
	switch n.Type() {
	case NodeReturnStatement, NodeRaiseStatement, NodeBreakStatement, NodeContinueStatement:
		return true
	}
	return false
}

// IsConstant reports whether a node is a constant literal usable as a
// dictionary key for duplicate detection.
func IsConstant(n *sitter.Node) bool {
	switch n.Type() {
	case NodeString, NodeInteger, NodeFloat, NodeTrue, NodeFalse, NodeNone:
		return true
	}
	return false
}
