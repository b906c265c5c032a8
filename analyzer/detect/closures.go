package detect

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/c360studio/codegate/analyzer/pytree"
)

// LoopClosures finds lambdas and function definitions inside for loops
// that reference the loop variable by late binding. Re-binding the loop
// variable as a defaulted parameter of the closure is the accepted fix
// and is not reported.
func LoopClosures(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		if n.Type() != pytree.NodeForStatement {
			return true
		}

		loopVars := make(map[string]bool)
		for _, name := range u.TargetNames(n.ChildByFieldName(pytree.FieldLeft)) {
			loopVars[name] = true
		}

		pytree.Walk(n, func(c *sitter.Node) bool {
			if c == n {
				return true
			}
			switch c.Type() {
			case pytree.NodeLambda, pytree.NodeFunctionDefinition:
				if closureUsesLoopVar(u, c, loopVars) {
					findings = append(findings, at(c))
				}
			}
			return true
		})
		return true
	})
	return findings
}

// closureUsesLoopVar reports whether the closure references any loop
// variable that it has not re-bound via a parameter default.
func closureUsesLoopVar(u *pytree.SourceUnit, closure *sitter.Node, loopVars map[string]bool) bool {
	defaults := u.DefaultedParamNames(closure)
	found := false

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if found {
			return
		}
		switch n.Type() {
		case pytree.NodeParameters, pytree.NodeLambdaParameters:
			// Parameter declarations are bindings, not references;
			// only default value expressions can capture.
			for _, p := range pytree.NamedChildren(n) {
				switch p.Type() {
				case pytree.NodeDefaultParameter, pytree.NodeTypedDefaultParameter:
					if value := p.ChildByFieldName(pytree.FieldValue); value != nil {
						visit(value)
					}
				}
			}
			return
		case pytree.NodeIdentifier:
			name := u.Text(n)
			if loopVars[name] && !defaults[name] {
				found = true
			}
			return
		case pytree.NodeFunctionDefinition:
			// The definition name is a binding, not a reference.
			nameNode := n.ChildByFieldName(pytree.FieldName)
			for _, child := range pytree.NamedChildren(n) {
				if nameNode != nil && child.StartByte() == nameNode.StartByte() && child.Type() == pytree.NodeIdentifier {
					continue
				}
				visit(child)
			}
			return
		}
		for _, child := range pytree.NamedChildren(n) {
			visit(child)
		}
	}
	visit(closure)
	return found
}
