package detect

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/c360studio/codegate/analyzer/pytree"
)

// Call results allowed as defaults: immutable constructors plus the
// dataclass/descriptor factories that are evaluated per instance.
var safeCallDefaults = map[string]bool{
	"frozenset": true, "tuple": true, "bytes": true, "int": true,
	"float": true, "str": true, "bool": true, "complex": true,
	"Field": true, "field": true, "dataclass": true, "property": true,
}

// MutableDefaults finds functions whose parameter defaults are list,
// dict, or set literals. Each function is reported once.
func MutableDefaults(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	for _, fn := range u.Functions() {
		for _, value := range u.DefaultValues(fn.Node) {
			switch value.Type() {
			case pytree.NodeList, pytree.NodeDictionary, pytree.NodeSet:
				findings = append(findings, named(fn.Node, fn.Name))
			default:
				continue
			}
			break
		}
	}
	return findings
}

// CallDefaults finds functions with a function call in a parameter
// default, excluding the safe constructor allow-list.
func CallDefaults(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	for _, fn := range u.Functions() {
		for _, value := range u.DefaultValues(fn.Node) {
			if value.Type() != pytree.NodeCall {
				continue
			}
			if safeCallDefaults[u.CallName(value)] {
				continue
			}
			findings = append(findings, named(fn.Node, fn.Name))
			break
		}
	}
	return findings
}

// GlobalState finds module-level assignments to lowercase names, which
// indicate mutable global state. UPPER_CASE names pass as constants.
func GlobalState(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	for _, stmt := range pytree.Statements(u.Root) {
		if stmt.Type() != pytree.NodeExpressionStatement {
			continue
		}
		for _, expr := range pytree.NamedChildren(stmt) {
			for a := expr; a != nil && a.Type() == pytree.NodeAssignment; a = chainedAssignment(a) {
				left := a.ChildByFieldName(pytree.FieldLeft)
				if left == nil || left.Type() != pytree.NodeIdentifier {
					continue
				}
				name := u.Text(left)
				if name != strings.ToUpper(name) {
					findings = append(findings, named(left, name))
				}
			}
		}
	}
	return findings
}

// chainedAssignment follows the right side of a = b = value chains.
func chainedAssignment(a *sitter.Node) *sitter.Node {
	right := a.ChildByFieldName(pytree.FieldRight)
	if right != nil && right.Type() == pytree.NodeAssignment {
		return right
	}
	return nil
}

// DuplicateDictKeys finds repeated constant keys within a dictionary
// literal. Keys are compared by value text, with string quoting
// normalized so "a" and 'a' collide.
func DuplicateDictKeys(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		if n.Type() != pytree.NodeDictionary {
			return true
		}
		seen := make(map[string]bool)
		for _, pair := range pytree.NamedChildren(n) {
			if pair.Type() != pytree.NodePair {
				continue
			}
			key := pair.ChildByFieldName(pytree.FieldKey)
			if key == nil || !pytree.IsConstant(key) {
				continue
			}
			norm := normalizeKey(u, key)
			if seen[norm] {
				findings = append(findings, at(key))
			} else {
				seen[norm] = true
			}
		}
		return true
	})
	return findings
}

func normalizeKey(u *pytree.SourceUnit, key *sitter.Node) string {
	text := u.Text(key)
	switch key.Type() {
	case pytree.NodeString:
		return "s:" + strings.Trim(text, `"'`)
	case pytree.NodeTrue:
		return "n:1"
	case pytree.NodeFalse:
		return "n:0"
	case pytree.NodeInteger, pytree.NodeFloat:
		if v, ok := numericKeyValue(text); ok {
			return "n:" + strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	return key.Type() + ":" + text
}

// numericKeyValue evaluates an integer or float token under Python's
// key equality, so 1, 1.0 and True collide. Complex literals fall back
// to token comparison.
func numericKeyValue(text string) (float64, bool) {
	text = strings.ReplaceAll(strings.ToLower(text), "_", "")
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0o") || strings.HasPrefix(text, "0b") {
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(v), true
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Variable names that indicate credentials. Matched against the full
// lowercased assignment target, not substrings.
var secretNames = map[string]bool{
	"password": true, "passwd": true, "secret": true, "token": true,
	"api_key": true, "apikey": true, "access_key": true,
	"secret_key": true, "private_key": true,
}

// HardcodedSecrets finds assignments of string literals to secret-like
// variable names anywhere in the unit.
func HardcodedSecrets(u *pytree.SourceUnit) []Finding {
	var findings []Finding
	pytree.Walk(u.Root, func(n *sitter.Node) bool {
		if n.Type() != pytree.NodeAssignment {
			return true
		}
		left := n.ChildByFieldName(pytree.FieldLeft)
		right := n.ChildByFieldName(pytree.FieldRight)
		if left == nil || right == nil || left.Type() != pytree.NodeIdentifier {
			return true
		}
		if secretNames[strings.ToLower(u.Text(left))] && plainString(right) {
			findings = append(findings, named(left, u.Text(left)))
		}
		return true
	})
	return findings
}

// plainString reports whether a node is a string literal without
// interpolation. F-strings derive their value at runtime and are not
// hardcoded constants.
func plainString(n *sitter.Node) bool {
	if n == nil || n.Type() != pytree.NodeString {
		return false
	}
	for _, child := range pytree.NamedChildren(n) {
		if child.Type() == pytree.NodeInterpolation {
			return false
		}
	}
	return true
}
