package metrics

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/c360studio/codegate/analyzer/pytree"
)

// Complexity class names in ascending order. Unknown strings rank above
// every known class so a typo in a threshold never silently passes.
const (
	ClassConstant     = "O(1)"
	ClassLogarithmic  = "O(log n)"
	ClassLinear       = "O(n)"
	ClassLinearithmic = "O(n log n)"
	ClassQuadratic    = "O(n^2)"
	ClassCubic        = "O(n^3)"
	ClassExponential  = "O(2^n)"
)

var classOrder = map[string]int{
	ClassConstant:     0,
	ClassLogarithmic:  1,
	ClassLinear:       2,
	ClassLinearithmic: 3,
	ClassQuadratic:    4,
	ClassCubic:        5,
	ClassExponential:  6,
}

// multiplicative augmented-assignment operators that shrink or scale a
// loop bound, marking a single loop as logarithmic.
var logStepOps = map[string]bool{
	"*=":  true,
	"/=":  true,
	"//=": true,
	">>=": true,
	"<<=": true,
}

// ClassRank maps a complexity class string to a comparable rank.
func ClassRank(class string) int {
	if rank, ok := classOrder[class]; ok {
		return rank
	}
	return len(classOrder)
}

// TimeComplexity estimates the worst asymptotic complexity class across
// all functions from static structure. The estimate is conservative: it
// looks only at loop nesting depth, multiplicative loop steps, and
// direct self-recursion, and can over- or under-estimate real runtime.
func TimeComplexity(u *pytree.SourceUnit) string {
	worst := ClassConstant
	for _, fn := range u.Functions() {
		class := functionComplexity(u, fn)
		if ClassRank(class) > ClassRank(worst) {
			worst = class
		}
	}
	return worst
}

func functionComplexity(u *pytree.SourceUnit, fn pytree.Function) string {
	if callsItself(u, fn) {
		return ClassExponential
	}

	depth := maxLoopDepth(fn.Node, 0)
	switch depth {
	case 0:
		return ClassConstant
	case 1:
		if hasMultiplicativeStep(u, fn.Node) {
			return ClassLogarithmic
		}
		return ClassLinear
	case 2:
		return ClassQuadratic
	case 3:
		return ClassCubic
	}
	return fmt.Sprintf("O(n^%d)", depth)
}

func maxLoopDepth(n *sitter.Node, current int) int {
	max := current
	for _, child := range pytree.NamedChildren(n) {
		next := current
		if pytree.IsLoop(child) {
			next = current + 1
		}
		if d := maxLoopDepth(child, next); d > max {
			max = d
		}
	}
	return max
}

// callsItself reports whether the function body contains a direct call
// to the function's own name.
func callsItself(u *pytree.SourceUnit, fn pytree.Function) bool {
	found := false
	body := fn.Node.ChildByFieldName(pytree.FieldBody)
	pytree.Walk(body, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.Type() == pytree.NodeCall {
			callee := n.ChildByFieldName(pytree.FieldFunction)
			if callee != nil && callee.Type() == pytree.NodeIdentifier && u.Text(callee) == fn.Name {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// hasMultiplicativeStep reports whether any while loop in the function
// advances via a multiplicative or divisive augmented assignment on a
// variable used in its condition.
func hasMultiplicativeStep(u *pytree.SourceUnit, fn *sitter.Node) bool {
	found := false
	pytree.Walk(fn, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.Type() != pytree.NodeWhileStatement {
			return true
		}

		condVars := make(map[string]bool)
		pytree.Walk(n.ChildByFieldName(pytree.FieldCondition), func(c *sitter.Node) bool {
			if c.Type() == pytree.NodeIdentifier {
				condVars[u.Text(c)] = true
			}
			return true
		})

		pytree.Walk(n.ChildByFieldName(pytree.FieldBody), func(c *sitter.Node) bool {
			if c.Type() != pytree.NodeAugmentedAssignment {
				return true
			}
			left := c.ChildByFieldName(pytree.FieldLeft)
			op := u.Text(c.ChildByFieldName(pytree.FieldOperator))
			if left != nil && left.Type() == pytree.NodeIdentifier &&
				condVars[u.Text(left)] && logStepOps[op] {
				found = true
				return false
			}
			return true
		})
		return true
	})
	return found
}
