package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codegate/analyzer/pytree"
)

const simpleFunction = `def add(a, b):
    """Add two numbers.

    Args:
        a: First number.
        b: Second number.

    Returns:
        Sum of a and b.
    """
    return a + b
`

const branchingFunction = `def classify(n):
    if n < 0:
        return "negative"
    elif n == 0:
        return "zero"
    elif n < 10:
        return "small"
    else:
        return "large"
`

const deeplyNested = `def process(items):
    for item in items:
        if item:
            for sub in item:
                if sub:
                    print(sub)
`

func build(t *testing.T, source string) *pytree.SourceUnit {
	t.Helper()
	unit, err := pytree.Build([]byte(source))
	require.NoError(t, err)
	t.Cleanup(unit.Close)
	return unit
}

func TestCyclomatic(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{"no branches", simpleFunction, 1},
		{"if elif elif else", branchingFunction, 4},
		{"empty module", "x = 1\n", 1},
		{"boolean operators", "def f(a, b, c):\n    return a and b or c\n", 3},
		{"loops and conditions", deeplyNested, 5},
		{"comprehension", "def f(xs):\n    return [x for x in xs if x]\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := build(t, tt.source)
			assert.Equal(t, tt.want, Cyclomatic(unit))
		})
	}
}

func TestCognitive(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{"no branches", simpleFunction, 0},
		// if(1) + elif(1) + elif(1) + else(1)
		{"flat chain", branchingFunction, 4},
		// for(1) + if(2) + for(3) + if(4)
		{"nested", deeplyNested, 10},
		// same-operator run scores once, a new operator starts a new run
		{"boolean run", "def f(a, b, c):\n    return a and b and c\n", 1},
		{"boolean mixed", "def f(a, b, c):\n    return a and b or c\n", 2},
		// if conditions themselves are not scored
		{"unscored condition", "def f(a, b):\n    if a and b:\n        pass\n", 1},
		{"break in loop", "def f(xs):\n    for x in xs:\n        break\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := build(t, tt.source)
			assert.Equal(t, tt.want, Cognitive(unit))
		})
	}
}

func TestMaxNestingDepth(t *testing.T) {
	unit := build(t, deeplyNested)
	assert.Equal(t, 4, MaxNestingDepth(unit))

	shallow := build(t, "def f(x):\n    if x:\n        pass\n")
	assert.Equal(t, 1, MaxNestingDepth(shallow))

	// elif continues the same level instead of nesting
	chain := build(t, branchingFunction)
	assert.Equal(t, 1, MaxNestingDepth(chain))
}

func TestTimeComplexity(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"no loops", simpleFunction, ClassConstant},
		{"single loop", "def f(xs):\n    for x in xs:\n        print(x)\n", ClassLinear},
		{"double loop", "def f(xs):\n    for x in xs:\n        for y in xs:\n            print(x, y)\n", ClassQuadratic},
		{"halving loop", "def f(n):\n    while n > 1:\n        n //= 2\n", ClassLogarithmic},
		{"self recursion", "def fib(n):\n    if n < 2:\n        return n\n    return fib(n - 1) + fib(n - 2)\n", ClassExponential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := build(t, tt.source)
			assert.Equal(t, tt.want, TimeComplexity(unit))
		})
	}
}

func TestClassRank(t *testing.T) {
	assert.Less(t, ClassRank(ClassConstant), ClassRank(ClassLogarithmic))
	assert.Less(t, ClassRank(ClassLinear), ClassRank(ClassLinearithmic))
	assert.Less(t, ClassRank(ClassCubic), ClassRank(ClassExponential))
	// unknown classes rank above everything
	assert.Greater(t, ClassRank("O(n^4)"), ClassRank(ClassExponential))
}

func TestMaxFunctionLines(t *testing.T) {
	unit := build(t, simpleFunction)
	assert.Equal(t, 11, MaxFunctionLines(unit))

	empty := build(t, "x = 1\n")
	assert.Equal(t, 0, MaxFunctionLines(empty))
}

func TestMaxParameters(t *testing.T) {
	unit := build(t, "class C:\n    def m(self, a, b, c=1, *args, **kwargs):\n        pass\n")
	assert.Equal(t, 3, MaxParameters(unit))
}

func TestMaxReturnStatements(t *testing.T) {
	unit := build(t, branchingFunction)
	assert.Equal(t, 4, MaxReturnStatements(unit))
}

func TestMaxLocalVariables(t *testing.T) {
	source := `def f(a, b):
    x = 1
    y, z = 2, 3
    for i in range(10):
        x += i
    with open("f") as fh:
        pass
    return x
`
	unit := build(t, source)
	// x, y, z, i, fh
	assert.Equal(t, 5, MaxLocalVariables(unit))
}
