package detect

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/c360studio/codegate/analyzer/pytree"
)

// BareExcepts finds except clauses that name no exception type.
func BareExcepts(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		if n.Type() == pytree.NodeExceptClause && exceptBlock(n) != nil && !exceptHasType(n) {
			findings = append(findings, at(n))
		}
		return true
	})
	return findings
}

// ExceptPass finds except clauses whose entire body is a single pass
// statement, silencing the exception.
func ExceptPass(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		if n.Type() != pytree.NodeExceptClause {
			return true
		}
		body := exceptBlock(n)
		if body == nil {
			return true
		}
		stmts := pytree.Statements(body)
		if len(stmts) == 1 && stmts[0].Type() == pytree.NodePassStatement {
			findings = append(findings, at(n))
		}
		return true
	})
	return findings
}

// ReturnInFinally finds return, break, and continue statements inside
// finally blocks. Nested function bodies inside the block are exempt.
func ReturnInFinally(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		if n.Type() != pytree.NodeFinallyClause {
			return true
		}
		for _, part := range pytree.NamedChildren(n) {
			if part.Type() != pytree.NodeBlock {
				continue
			}
			pytree.WalkSkipFunctions(part, func(c *sitter.Node) {
				switch c.Type() {
				case pytree.NodeReturnStatement, pytree.NodeBreakStatement, pytree.NodeContinueStatement:
					findings = append(findings, at(c))
				}
			})
		}
		return true
	})
	return findings
}

// UnreachableCode finds statements that follow an unconditional jump
// (return, raise, break, continue) in the same block.
func UnreachableCode(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		if n.Type() != pytree.NodeModule && n.Type() != pytree.NodeBlock {
			return true
		}
		stmts := pytree.Statements(n)
		for i, stmt := range stmts {
			if pytree.IsTerminal(stmt) && i < len(stmts)-1 {
				findings = append(findings, at(stmts[i+1]))
			}
		}
		return true
	})
	return findings
}

// exceptBlock returns the block child of an except clause.
func exceptBlock(n *sitter.Node) *sitter.Node {
	for _, child := range pytree.NamedChildren(n) {
		if child.Type() == pytree.NodeBlock {
			return child
		}
	}
	return nil
}

// exceptHasType reports whether an except clause names an exception
// type. The only named children of a bare except are its block and any
// comments.
func exceptHasType(n *sitter.Node) bool {
	for _, child := range pytree.NamedChildren(n) {
		switch child.Type() {
		case pytree.NodeBlock, pytree.NodeComment:
			continue
		}
		return true
	}
	return false
}
