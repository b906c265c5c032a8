package detect

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/c360studio/codegate/analyzer/pytree"
)

// pythonBuiltins is the set of builtin names whose shadowing is
// reported. Dunder module attributes and the None/True/False keywords
// are excluded since they cannot be rebound accidentally.
var pythonBuiltins = buildBuiltinSet()

func buildBuiltinSet() map[string]bool {
	names := []string{
		// functions and types
		"abs", "aiter", "all", "anext", "any", "ascii", "bin", "bool",
		"breakpoint", "bytearray", "bytes", "callable", "chr",
		"classmethod", "compile", "complex", "copyright", "credits",
		"delattr", "dict", "dir", "divmod", "enumerate", "eval", "exec",
		"exit", "filter", "float", "format", "frozenset", "getattr",
		"globals", "hasattr", "hash", "help", "hex", "id", "input",
		"int", "isinstance", "issubclass", "iter", "len", "license",
		"list", "locals", "map", "max", "memoryview", "min", "next",
		"object", "oct", "open", "ord", "pow", "print", "property",
		"quit", "range", "repr", "reversed", "round", "set", "setattr",
		"slice", "sorted", "staticmethod", "str", "sum", "super",
		"tuple", "type", "vars", "zip",
		// singletons
		"Ellipsis", "NotImplemented", "__debug__",
		// exceptions and warnings
		"ArithmeticError", "AssertionError", "AttributeError",
		"BaseException", "BaseExceptionGroup", "BlockingIOError",
		"BrokenPipeError", "BufferError", "BytesWarning",
		"ChildProcessError", "ConnectionAbortedError", "ConnectionError",
		"ConnectionRefusedError", "ConnectionResetError",
		"DeprecationWarning", "EOFError", "EncodingWarning",
		"EnvironmentError", "Exception", "ExceptionGroup",
		"FileExistsError", "FileNotFoundError", "FloatingPointError",
		"FutureWarning", "GeneratorExit", "IOError", "ImportError",
		"ImportWarning", "IndentationError", "IndexError",
		"InterruptedError", "IsADirectoryError", "KeyError",
		"KeyboardInterrupt", "LookupError", "MemoryError",
		"ModuleNotFoundError", "NameError", "NotADirectoryError",
		"NotImplementedError", "OSError", "OverflowError",
		"PendingDeprecationWarning", "PermissionError",
		"ProcessLookupError", "RecursionError", "ReferenceError",
		"ResourceWarning", "RuntimeError", "RuntimeWarning",
		"StopAsyncIteration", "StopIteration", "SyntaxError",
		"SyntaxWarning", "SystemError", "SystemExit", "TabError",
		"TimeoutError", "TypeError", "UnboundLocalError",
		"UnicodeDecodeError", "UnicodeEncodeError", "UnicodeError",
		"UnicodeTranslateError", "UnicodeWarning", "UserWarning",
		"ValueError", "Warning", "ZeroDivisionError",
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// ShadowedBuiltins finds bound names that shadow a Python builtin:
// function definitions, parameters, assignment and loop targets, and
// with-as aliases. Each name is reported once, in discovery order.
func ShadowedBuiltins(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	seen := make(map[string]bool)

	report := func(n *sitter.Node, names ...string) {
		for _, name := range names {
			if pythonBuiltins[name] && !seen[name] {
				seen[name] = true
				findings = append(findings, named(n, name))
			}
		}
	}

	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case pytree.NodeFunctionDefinition:
			if name := n.ChildByFieldName(pytree.FieldName); name != nil {
				report(n, u.Text(name))
			}
			report(n, u.ParamNames(n)...)
		case pytree.NodeLambda:
			report(n, u.ParamNames(n)...)
		case pytree.NodeAssignment, pytree.NodeForStatement:
			if left := n.ChildByFieldName(pytree.FieldLeft); left != nil {
				report(n, u.TargetNames(left)...)
			}
		case pytree.NodeAsPattern:
			if alias := n.ChildByFieldName("alias"); alias != nil {
				report(n, u.TargetNames(alias)...)
				if alias.NamedChildCount() > 0 {
					report(n, u.TargetNames(alias.NamedChild(0))...)
				}
			}
		}
		return true
	})
	return findings
}

// StarImports finds wildcard from-imports and reports the source
// module name.
func StarImports(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		if n.Type() != pytree.NodeImportFromStatement {
			return true
		}
		for _, child := range pytree.NamedChildren(n) {
			if child.Type() == pytree.NodeWildcardImport {
				module := u.Text(n.ChildByFieldName(pytree.FieldModuleName))
				findings = append(findings, named(n, module))
			}
		}
		return true
	})
	return findings
}

// ForbiddenImports returns imported module names that are not in the
// allowed list. Relative imports are never reported since they resolve
// within the generated unit itself.
func ForbiddenImports(u *pytree.SourceUnit, allowed []string) []Finding {
	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}

	var findings []Finding
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case pytree.NodeImportStatement:
			for _, child := range pytree.NamedChildren(n) {
				name := ""
				switch child.Type() {
				case pytree.NodeDottedName:
					name = u.Text(child)
				case pytree.NodeAliasedImport:
					name = u.Text(child.ChildByFieldName(pytree.FieldName))
				}
				if name != "" && !allowedSet[name] {
					findings = append(findings, named(child, name))
				}
			}
		case pytree.NodeImportFromStatement:
			module := u.Text(n.ChildByFieldName(pytree.FieldModuleName))
			if module != "" && !strings.HasPrefix(module, ".") && !allowedSet[module] {
				findings = append(findings, named(n, module))
			}
		}
		return true
	})
	return findings
}

// Modules whose import signals interactive debugging.
var debuggerModules = map[string]bool{"pdb": true, "ipdb": true, "pudb": true}

// DebuggerStatements finds breakpoint() calls and imports of debugger
// modules.
func DebuggerStatements(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case pytree.NodeCall:
			callee := n.ChildByFieldName(pytree.FieldFunction)
			if callee != nil && callee.Type() == pytree.NodeIdentifier && u.Text(callee) == "breakpoint" {
				findings = append(findings, at(n))
			}
		case pytree.NodeImportStatement:
			for _, child := range pytree.NamedChildren(n) {
				name := ""
				switch child.Type() {
				case pytree.NodeDottedName:
					name = u.Text(child)
				case pytree.NodeAliasedImport:
					name = u.Text(child.ChildByFieldName(pytree.FieldName))
				}
				if debuggerModules[name] {
					findings = append(findings, at(n))
					break
				}
			}
		case pytree.NodeImportFromStatement:
			if debuggerModules[u.Text(n.ChildByFieldName(pytree.FieldModuleName))] {
				findings = append(findings, at(n))
			}
		}
		return true
	})
	return findings
}

// NestedImports finds import statements inside function bodies.
func NestedImports(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case pytree.NodeImportStatement, pytree.NodeImportFromStatement:
			if insideFunction(n) {
				findings = append(findings, at(n))
			}
		}
		return true
	})
	return findings
}

func insideFunction(n *sitter.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == pytree.NodeFunctionDefinition {
			return true
		}
	}
	return false
}

// UnannotatedFunctions finds functions missing a return annotation or
// an annotation on any positional parameter other than self/cls.
func UnannotatedFunctions(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	for _, fn := range u.Functions() {
		if fn.Node.ChildByFieldName(pytree.FieldReturnType) == nil {
			findings = append(findings, named(fn.Node, fn.Name))
			continue
		}
		params := fn.Node.ChildByFieldName(pytree.FieldParameters)
		for _, p := range pytree.NamedChildren(params) {
			unannotated := ""
			switch p.Type() {
			case pytree.NodeIdentifier:
				unannotated = u.Text(p)
			case pytree.NodeDefaultParameter:
				unannotated = u.Text(p.ChildByFieldName(pytree.FieldName))
			}
			if unannotated == "" || unannotated == "self" || unannotated == "cls" {
				continue
			}
			findings = append(findings, named(fn.Node, fn.Name))
			break
		}
	}
	return findings
}
