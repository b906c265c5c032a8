package detect

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/c360studio/codegate/analyzer/pytree"
)

var (
	deserModules = map[string]bool{"pickle": true, "marshal": true}
	deserAttrs   = map[string]bool{"load": true, "loads": true, "Unpickler": true}

	yamlModule = map[string]bool{"yaml": true}
	yamlLoad   = map[string]bool{"load": true}

	requestsModule = map[string]bool{"requests": true}
	requestMethods = map[string]bool{
		"get": true, "post": true, "put": true, "delete": true,
		"patch": true, "head": true, "options": true,
	}
)

// UnsafeDeserialization finds pickle and marshal load calls, which
// execute arbitrary code on untrusted input.
func UnsafeDeserialization(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	for _, call := range calls(u) {
		if attributeCall(u, call, deserModules, deserAttrs) {
			findings = append(findings, at(call))
		}
	}
	return findings
}

// UnsafeYAML finds yaml.load() calls without an explicit Loader
// argument.
func UnsafeYAML(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	for _, call := range calls(u) {
		if !attributeCall(u, call, yamlModule, yamlLoad) {
			continue
		}
		if _, ok := u.KeywordArguments(call)["Loader"]; !ok {
			findings = append(findings, at(call))
		}
	}
	return findings
}

// ShellTrue finds any call passing shell=True.
func ShellTrue(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	for _, call := range calls(u) {
		value, ok := u.KeywordArguments(call)["shell"]
		if ok && value != nil && value.Type() == pytree.NodeTrue {
			findings = append(findings, at(call))
		}
	}
	return findings
}

// RequestsWithoutTimeout finds requests.<method>() calls lacking a
// timeout argument. Without one a hung server blocks forever.
func RequestsWithoutTimeout(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	for _, call := range calls(u) {
		if !attributeCall(u, call, requestsModule, requestMethods) {
			continue
		}
		if _, ok := u.KeywordArguments(call)["timeout"]; !ok {
			findings = append(findings, at(call))
		}
	}
	return findings
}

// OpenWithoutWith finds open() calls whose handle is not managed by a
// with statement.
func OpenWithoutWith(u *pytree.SourceUnit) []Finding {
	managed := make(map[uint32]bool)
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		if n.Type() != pytree.NodeWithItem {
			return true
		}
		expr := n.ChildByFieldName(pytree.FieldValue)
		if expr == nil && n.NamedChildCount() > 0 {
			expr = n.NamedChild(0)
		}
		if expr != nil && expr.Type() == pytree.NodeAsPattern && expr.NamedChildCount() > 0 {
			expr = expr.NamedChild(0)
		}
		if expr != nil && isOpenCall(u, expr) {
			managed[expr.StartByte()] = true
		}
		return true
	})

	var findings []Finding
	for _, call := range calls(u) {
		if isOpenCall(u, call) && !managed[call.StartByte()] {
			findings = append(findings, at(call))
		}
	}
	return findings
}

func isOpenCall(u *pytree.SourceUnit, n *sitter.Node) bool {
	if n.Type() != pytree.NodeCall {
		return false
	}
	callee := n.ChildByFieldName(pytree.FieldFunction)
	return callee != nil && callee.Type() == pytree.NodeIdentifier && u.Text(callee) == "open"
}
