package pytree

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Function is a function or method definition located in a SourceUnit.
type Function struct {
	// Node is the function_definition node.
	Node *sitter.Node
	// Name is the bare function name.
	Name string
	// Qualified is the dotted name including enclosing classes and
	// functions (e.g. "Stack.push").
	Qualified string
}

// Functions returns every function definition in the unit, including
// methods and nested functions, in source order.
func (u *SourceUnit) Functions() []Function {
	var funcs []Function
	u.collectFunctions(u.Root, "", &funcs)
	return funcs
}

func (u *SourceUnit) collectFunctions(n *sitter.Node, prefix string, out *[]Function) {
	for _, child := range NamedChildren(n) {
		target := child
		if target.Type() == NodeDecoratedDefinition {
			if def := target.ChildByFieldName(FieldDefinition); def != nil {
				target = def
			}
		}

		switch target.Type() {
		case NodeFunctionDefinition:
			name := u.Text(target.ChildByFieldName(FieldName))
			qualified := name
			if prefix != "" {
				qualified = prefix + "." + name
			}
			*out = append(*out, Function{Node: target, Name: name, Qualified: qualified})
			if body := target.ChildByFieldName(FieldBody); body != nil {
				u.collectFunctions(body, qualified, out)
			}
		case NodeClassDefinition:
			name := u.Text(target.ChildByFieldName(FieldName))
			qualified := name
			if prefix != "" {
				qualified = prefix + "." + name
			}
			if body := target.ChildByFieldName(FieldBody); body != nil {
				u.collectFunctions(body, qualified, out)
			}
		default:
			u.collectFunctions(child, prefix, out)
		}
	}
}

// Classes returns every class definition node in the unit.
func (u *SourceUnit) Classes() []*sitter.Node {
	var classes []*sitter.Node
	Walk(u.Root, func(n *sitter.Node) bool {
		if n.Type() == NodeClassDefinition {
			classes = append(classes, n)
		}
		return true
	})
	return classes
}

// EnclosingFunction returns the qualified name of the innermost function
// definition containing n, or "" when n sits at module level.
func (u *SourceUnit) EnclosingFunction(n *sitter.Node) string {
	var names []string
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == NodeFunctionDefinition || p.Type() == NodeClassDefinition {
			if name := p.ChildByFieldName(FieldName); name != nil {
				names = append(names, u.Text(name))
			}
		}
	}
	if len(names) == 0 {
		return ""
	}
	// Reverse to outermost-first order.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ".")
}

// ParamNames returns the parameter names of a function definition or
// lambda in declaration order, including splat parameters.
func (u *SourceUnit) ParamNames(fn *sitter.Node) []string {
	params := fn.ChildByFieldName(FieldParameters)
	if params == nil {
		return nil
	}

	var names []string
	for _, p := range NamedChildren(params) {
		switch p.Type() {
		case NodeIdentifier:
			names = append(names, u.Text(p))
		case NodeDefaultParameter, NodeTypedDefaultParameter:
			if name := p.ChildByFieldName(FieldName); name != nil {
				names = append(names, u.Text(name))
			}
		case NodeTypedParameter:
			if id := firstIdentifier(p); id != nil {
				names = append(names, u.Text(id))
			}
		case NodeListSplatPattern, NodeDictSplatPattern:
			if id := firstIdentifier(p); id != nil {
				names = append(names, u.Text(id))
			}
		}
	}
	return names
}

// PositionalParamNames returns parameter names excluding the implicit
// self/cls receiver convention.
func (u *SourceUnit) PositionalParamNames(fn *sitter.Node) []string {
	var names []string
	for _, name := range u.ParamNames(fn) {
		if name == "self" || name == "cls" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// DefaultedParamNames returns the names of parameters that carry a
// default value at definition time.
func (u *SourceUnit) DefaultedParamNames(fn *sitter.Node) map[string]bool {
	params := fn.ChildByFieldName(FieldParameters)
	if params == nil {
		return nil
	}

	names := make(map[string]bool)
	for _, p := range NamedChildren(params) {
		switch p.Type() {
		case NodeDefaultParameter, NodeTypedDefaultParameter:
			if name := p.ChildByFieldName(FieldName); name != nil {
				names[u.Text(name)] = true
			}
		}
	}
	return names
}

// DefaultValues returns the default value expression nodes of a
// function's parameters in declaration order.
func (u *SourceUnit) DefaultValues(fn *sitter.Node) []*sitter.Node {
	params := fn.ChildByFieldName(FieldParameters)
	if params == nil {
		return nil
	}

	var values []*sitter.Node
	for _, p := range NamedChildren(params) {
		switch p.Type() {
		case NodeDefaultParameter, NodeTypedDefaultParameter:
			if value := p.ChildByFieldName(FieldValue); value != nil {
				values = append(values, value)
			}
		}
	}
	return values
}

// Docstring returns the docstring of a function or class body, with
// surrounding quotes stripped, or "" when the first statement is not a
// string literal.
func (u *SourceUnit) Docstring(def *sitter.Node) string {
	body := def.ChildByFieldName(FieldBody)
	if body == nil {
		return ""
	}
	stmts := Statements(body)
	if len(stmts) == 0 {
		return ""
	}
	first := stmts[0]
	if first.Type() != NodeExpressionStatement || first.NamedChildCount() == 0 {
		return ""
	}
	expr := first.NamedChild(0)
	if expr.Type() != NodeString {
		return ""
	}
	return stripQuotes(u.Text(expr))
}

// CallName extracts the called name from a call node: the identifier for
// direct calls, the final attribute for method calls, "" otherwise.
func (u *SourceUnit) CallName(call *sitter.Node) string {
	fn := call.ChildByFieldName(FieldFunction)
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case NodeIdentifier:
		return u.Text(fn)
	case NodeAttribute:
		return u.Text(fn.ChildByFieldName(FieldAttribute))
	}
	return ""
}

// KeywordArguments returns the keyword argument names of a call.
func (u *SourceUnit) KeywordArguments(call *sitter.Node) map[string]*sitter.Node {
	args := call.ChildByFieldName(FieldArguments)
	if args == nil {
		return nil
	}
	keywords := make(map[string]*sitter.Node)
	for _, arg := range NamedChildren(args) {
		if arg.Type() != NodeKeywordArgument {
			continue
		}
		name := arg.ChildByFieldName(FieldName)
		value := arg.ChildByFieldName(FieldValue)
		if name != nil {
			keywords[u.Text(name)] = value
		}
	}
	return keywords
}

// TargetNames extracts the bound identifier names from an assignment or
// loop target (identifier, tuple/list patterns).
func (u *SourceUnit) TargetNames(target *sitter.Node) []string {
	if target == nil {
		return nil
	}
	switch target.Type() {
	case NodeIdentifier:
		return []string{u.Text(target)}
	case NodePatternList, NodeTuplePattern, NodeListPattern:
		var names []string
		for _, child := range NamedChildren(target) {
			names = append(names, u.TargetNames(child)...)
		}
		return names
	}
	return nil
}

func firstIdentifier(n *sitter.Node) *sitter.Node {
	for _, child := range NamedChildren(n) {
		if child.Type() == NodeIdentifier {
			return child
		}
	}
	return nil
}

func stripQuotes(raw string) string {
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(raw, quote) && strings.HasSuffix(raw, quote) && len(raw) >= 2*len(quote) {
			return strings.TrimSpace(raw[len(quote) : len(raw)-len(quote)])
		}
	}
	return strings.TrimSpace(raw)
}
