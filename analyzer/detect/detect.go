// Package detect implements pattern detectors over a parsed Python
// source unit. Each detector is a pure function returning the findings
// for exactly one code pattern; message formatting and constraint
// dispatch live with the evaluation engine.
package detect

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/c360studio/codegate/analyzer/pytree"
)

// Finding locates one occurrence of a detected pattern. Line is the
// 1-based source line; Name is set for detectors that report a symbol
// (function or variable name) rather than a position.
type Finding struct {
	Line int
	Name string
}

func at(n *sitter.Node) Finding {
	return Finding{Line: pytree.Line(n)}
}

func named(n *sitter.Node, name string) Finding {
	return Finding{Line: pytree.Line(n), Name: name}
}

// PrintCalls finds direct print() calls.
func PrintCalls(u *pytree.SourceUnit) []Finding {
	return CallsByName(u, "print")
}

// CallsByName finds calls to a function referenced by bare name.
// Attribute calls (obj.name()) do not match.
func CallsByName(u *pytree.SourceUnit, name string) []Finding {
	var findings []Finding
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		if n.Type() != pytree.NodeCall {
			return true
		}
		callee := n.ChildByFieldName(pytree.FieldFunction)
		if callee != nil && callee.Type() == pytree.NodeIdentifier && u.Text(callee) == name {
			findings = append(findings, at(n))
		}
		return true
	})
	return findings
}

// attributeCall reports whether a call node has the form obj.attr()
// with obj a bare identifier in objects and attr in attrs.
func attributeCall(u *pytree.SourceUnit, call *sitter.Node, objects, attrs map[string]bool) bool {
	callee := call.ChildByFieldName(pytree.FieldFunction)
	if callee == nil || callee.Type() != pytree.NodeAttribute {
		return false
	}
	obj := callee.ChildByFieldName(pytree.FieldObject)
	attr := callee.ChildByFieldName(pytree.FieldAttribute)
	if obj == nil || attr == nil || obj.Type() != pytree.NodeIdentifier {
		return false
	}
	return objects[u.Text(obj)] && attrs[u.Text(attr)]
}

// calls returns every call node in the unit in preorder.
func calls(u *pytree.SourceUnit) []*sitter.Node {
	var out []*sitter.Node
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		if n.Type() == pytree.NodeCall {
			out = append(out, n)
		}
		return true
	})
	return out
}
