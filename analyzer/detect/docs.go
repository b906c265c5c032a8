package detect

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/c360studio/codegate/analyzer/pytree"
)

// DocstringIssues checks every function and class for docstring
// problems. Classes only need a docstring to exist; functions with
// parameters need an Args section and functions returning a value need
// a Returns section. Name carries the full issue message.
func DocstringIssues(u *pytree.SourceUnit) []Finding {
	var findings []Finding

	for _, cls := range u.Classes() {
		name := u.Text(cls.ChildByFieldName(pytree.FieldName))
		if u.Docstring(cls) == "" {
			findings = append(findings, named(cls, fmt.Sprintf("Missing docstring: %s", name)))
		}
	}

	for _, fn := range u.Functions() {
		if issue := docstringIssue(u, fn); issue != "" {
			findings = append(findings, named(fn.Node, issue))
		}
	}
	return findings
}

func docstringIssue(u *pytree.SourceUnit, fn pytree.Function) string {
	doc := u.Docstring(fn.Node)
	if doc == "" {
		return fmt.Sprintf("Missing docstring: %s", fn.Name)
	}

	if len(u.PositionalParamNames(fn.Node)) > 0 && !strings.Contains(doc, "Args:") {
		return fmt.Sprintf("%s: missing Args section in docstring", fn.Name)
	}
	if returnsValue(fn.Node) && !strings.Contains(doc, "Returns:") {
		return fmt.Sprintf("%s: missing Returns section in docstring", fn.Name)
	}
	return ""
}

// returnsValue reports whether the function subtree contains a return
// statement carrying a value.
func returnsValue(fn *sitter.Node) bool {
	found := false
	pytree.Walk(fn, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.Type() == pytree.NodeReturnStatement && n.NamedChildCount() > 0 {
			found = true
			return false
		}
		return true
	})
	return found
}
