package metrics

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/c360studio/codegate/analyzer/pytree"
)

// MaxFunctionLines returns the line span of the longest function in the
// unit, or 0 when the unit defines no functions.
func MaxFunctionLines(u *pytree.SourceUnit) int {
	max := 0
	for _, fn := range u.Functions() {
		span := int(fn.Node.EndPoint().Row) - int(fn.Node.StartPoint().Row) + 1
		if span > max {
			max = span
		}
	}
	return max
}

// TotalLines returns the total line count of the unit.
func TotalLines(u *pytree.SourceUnit) int {
	return u.TotalLines()
}

// MaxParameters returns the largest parameter count of any function,
// excluding self/cls receivers and splat parameters.
func MaxParameters(u *pytree.SourceUnit) int {
	max := 0
	for _, fn := range u.Functions() {
		count := 0
		params := fn.Node.ChildByFieldName(pytree.FieldParameters)
		for _, p := range pytree.NamedChildren(params) {
			name := ""
			switch p.Type() {
			case pytree.NodeIdentifier:
				name = u.Text(p)
			case pytree.NodeDefaultParameter, pytree.NodeTypedDefaultParameter:
				name = u.Text(p.ChildByFieldName(pytree.FieldName))
			case pytree.NodeTypedParameter:
				for _, c := range pytree.NamedChildren(p) {
					if c.Type() == pytree.NodeIdentifier {
						name = u.Text(c)
						break
					}
				}
			default:
				continue
			}
			if name == "self" || name == "cls" || name == "" {
				continue
			}
			count++
		}
		if count > max {
			max = count
		}
	}
	return max
}

// MaxReturnStatements returns the largest return statement count of any
// function. Returns inside nested functions count toward the enclosing
// function as well.
func MaxReturnStatements(u *pytree.SourceUnit) int {
	max := 0
	for _, fn := range u.Functions() {
		count := 0
		pytree.Walk(fn.Node, func(n *sitter.Node) bool {
			if n.Type() == pytree.NodeReturnStatement {
				count++
			}
			return true
		})
		if count > max {
			max = count
		}
	}
	return max
}

// MaxLocalVariables returns the largest count of distinct locally bound
// names in any function. A name is local when it appears in a store
// context (assignment target, loop target, with-as binding, walrus, or
// comprehension variable) and is not one of the function's parameters.
func MaxLocalVariables(u *pytree.SourceUnit) int {
	max := 0
	for _, fn := range u.Functions() {
		params := make(map[string]bool)
		for _, name := range u.ParamNames(fn.Node) {
			params[name] = true
		}

		locals := make(map[string]bool)
		bind := func(names []string) {
			for _, name := range names {
				if !params[name] {
					locals[name] = true
				}
			}
		}

		pytree.Walk(fn.Node, func(n *sitter.Node) bool {
			switch n.Type() {
			case pytree.NodeAssignment, pytree.NodeAugmentedAssignment:
				bind(u.TargetNames(n.ChildByFieldName(pytree.FieldLeft)))
			case pytree.NodeForStatement, pytree.NodeForInClause:
				bind(u.TargetNames(n.ChildByFieldName(pytree.FieldLeft)))
			case pytree.NodeNamedExpression:
				bind(u.TargetNames(n.ChildByFieldName(pytree.FieldName)))
			case pytree.NodeAsPattern:
				if alias := n.ChildByFieldName("alias"); alias != nil {
					bind(u.TargetNames(alias))
					if alias.NamedChildCount() > 0 {
						bind(u.TargetNames(alias.NamedChild(0)))
					}
				}
			}
			return true
		})

		if len(locals) > max {
			max = len(locals)
		}
	}
	return max
}
