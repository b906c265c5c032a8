package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codegate/analyzer/pytree"
	"github.com/c360studio/codegate/constraint"
)

func enabled(name string) constraint.Spec {
	return constraint.Spec{Name: name, Kind: constraint.KindBooleanPattern, Enabled: true}
}

func threshold(name string, limit int) constraint.Spec {
	return constraint.Spec{Name: name, Kind: constraint.KindMetricThreshold, Threshold: limit}
}

func TestEvaluateCleanSource(t *testing.T) {
	set := constraint.Set{
		Primary: []constraint.Spec{
			threshold("max_cyclomatic_complexity", 5),
			enabled("no_eval"),
		},
		Secondary: []constraint.Spec{enabled("no_print_statements")},
		Guidance:  []string{"keep it simple"},
	}

	report, err := Evaluate([]byte("def add(a, b):\n    return a + b\n"), set)
	require.NoError(t, err)

	assert.True(t, report.PrimaryPassed)
	assert.Empty(t, report.PrimaryViolations)
	assert.True(t, report.SecondaryEvaluated)
	assert.Empty(t, report.SecondaryViolations)
	assert.Equal(t, []string{"keep it simple"}, report.Guidance)
	assert.Equal(t, "1", report.Metrics["cyclomatic_complexity"])
}

func TestEvaluateParseError(t *testing.T) {
	report, err := Evaluate([]byte("def broken(:\n    pass\n"), constraint.Set{})
	require.Error(t, err)
	assert.Nil(t, report)

	var perr *pytree.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestEvaluatePrimaryShortCircuit(t *testing.T) {
	// eval() fails primary; the print call would fail secondary but the
	// secondary tier must never run once the primary gate is down
	source := []byte("def process(expr):\n    print(expr)\n    return eval(expr)\n")
	set := constraint.Set{
		Primary:   []constraint.Spec{enabled("no_eval")},
		Secondary: []constraint.Spec{enabled("no_print_statements")},
	}

	report, err := Evaluate(source, set)
	require.NoError(t, err)

	assert.False(t, report.PrimaryPassed)
	require.Len(t, report.PrimaryViolations, 1)
	assert.Equal(t, "no_eval", report.PrimaryViolations[0].Constraint)
	assert.Equal(t, "eval() call at line 3", report.PrimaryViolations[0].Message)

	assert.False(t, report.SecondaryEvaluated)
	assert.Empty(t, report.SecondaryViolations)
}

func TestEvaluateSecondaryAdvisory(t *testing.T) {
	source := []byte("def process(data):\n    print(data)\n    return data\n")
	set := constraint.Set{
		Primary:   []constraint.Spec{enabled("no_eval")},
		Secondary: []constraint.Spec{enabled("no_print_statements")},
	}

	report, err := Evaluate(source, set)
	require.NoError(t, err)

	assert.True(t, report.PrimaryPassed)
	assert.True(t, report.SecondaryEvaluated)
	require.Len(t, report.SecondaryViolations, 1)
	assert.Equal(t, "Print statement at line 2", report.SecondaryViolations[0].Message)
}

func TestEvaluateMutableDefaultSingleViolation(t *testing.T) {
	set := constraint.Set{Primary: []constraint.Spec{enabled("no_mutable_defaults")}}

	report, err := Evaluate([]byte("def f(x=[]):\n    return x\n"), set)
	require.NoError(t, err)

	require.Len(t, report.PrimaryViolations, 1)
	assert.Equal(t, "Mutable default argument in f", report.PrimaryViolations[0].Message)
	assert.Equal(t, "f", report.PrimaryViolations[0].Function)
}

func TestEvaluateDuplicateDictKeySingleViolation(t *testing.T) {
	set := constraint.Set{Primary: []constraint.Spec{enabled("no_duplicate_dict_keys")}}

	report, err := Evaluate([]byte(`d = {"a": 1, "a": 2}`+"\n"), set)
	require.NoError(t, err)

	require.Len(t, report.PrimaryViolations, 1)
	assert.Equal(t, "Duplicate dictionary key at line 1", report.PrimaryViolations[0].Message)
}

func TestEvaluateViolationOrdering(t *testing.T) {
	source := []byte(`import pickle
def process(expr, data):
    print(expr)
    result = eval(expr)
    return pickle.loads(data), result
`)
	set := constraint.Set{
		Primary: []constraint.Spec{
			enabled("no_unsafe_deserialization"),
			enabled("no_print_statements"),
			enabled("no_eval"),
		},
	}

	report, err := Evaluate(source, set)
	require.NoError(t, err)
	require.Len(t, report.PrimaryViolations, 3)
	assert.Equal(t, 3, report.PrimaryViolations[0].Line)
	assert.Equal(t, 4, report.PrimaryViolations[1].Line)
	assert.Equal(t, 5, report.PrimaryViolations[2].Line)
}

func TestEvaluateMetricThresholds(t *testing.T) {
	source := []byte(`def classify(n):
    if n < 0:
        return "negative"
    elif n == 0:
        return "zero"
    elif n < 10:
        return "small"
    else:
        return "large"
`)
	set := constraint.Set{
		Primary: []constraint.Spec{threshold("max_cyclomatic_complexity", 3)},
	}

	report, err := Evaluate(source, set)
	require.NoError(t, err)
	assert.False(t, report.PrimaryPassed)
	require.Len(t, report.PrimaryViolations, 1)
	assert.Equal(t, "Cyclomatic complexity 4 > max 3", report.PrimaryViolations[0].Message)
	assert.Equal(t, "4", report.Metrics["cyclomatic_complexity"])
}

func TestEvaluateTimeComplexityClass(t *testing.T) {
	source := []byte("def scan(xs):\n    for x in xs:\n        for y in xs:\n            print(x, y)\n")
	set := constraint.Set{
		Primary: []constraint.Spec{{
			Name:       "max_time_complexity",
			Kind:       constraint.KindMetricThreshold,
			ClassLimit: "O(n)",
		}},
	}

	report, err := Evaluate(source, set)
	require.NoError(t, err)
	require.Len(t, report.PrimaryViolations, 1)
	assert.Equal(t, "Time complexity O(n^2) exceeds max O(n)", report.PrimaryViolations[0].Message)
	assert.Equal(t, "O(n^2)", report.Metrics["time_complexity"])
}

func TestEvaluateDisabledPattern(t *testing.T) {
	set := constraint.Set{
		Primary: []constraint.Spec{{Name: "no_eval", Kind: constraint.KindBooleanPattern, Enabled: false}},
	}
	report, err := Evaluate([]byte("x = eval('1')\n"), set)
	require.NoError(t, err)
	assert.True(t, report.PrimaryPassed)
}

func TestEvaluateWhitelist(t *testing.T) {
	source := []byte("import os\nimport requests\n")
	set := constraint.Set{
		Primary: []constraint.Spec{{
			Name:    "allowed_imports",
			Kind:    constraint.KindWhitelist,
			Allowed: []string{"os"},
		}},
	}

	report, err := Evaluate(source, set)
	require.NoError(t, err)
	require.Len(t, report.PrimaryViolations, 1)
	assert.Equal(t, "Forbidden import: requests", report.PrimaryViolations[0].Message)
}

func TestReportRoundTrip(t *testing.T) {
	source := []byte("def process(data):\n    print(data)\n    return data\n")
	set := constraint.Set{
		Primary:   []constraint.Spec{threshold("max_parameters", 4)},
		Secondary: []constraint.Spec{enabled("no_print_statements")},
		Guidance:  []string{"a", "b"},
	}

	report, err := Evaluate(source, set)
	require.NoError(t, err)

	data, err := report.Encode()
	require.NoError(t, err)

	decoded, err := DecodeReport(data)
	require.NoError(t, err)
	assert.Equal(t, report, decoded)
}

func TestRunSafelyContainsDetectorFault(t *testing.T) {
	// A nil unit makes every detector dereference nil; the panic must
	// surface as a fault-tagged violation, not abort the evaluation.
	report := newReport(nil)
	violations := runSafely(nil, enabled("no_eval"), report)

	require.Len(t, violations, 1)
	assert.Equal(t, "no_eval", violations[0].Constraint)
	assert.True(t, violations[0].Fault)
	assert.Contains(t, violations[0].Message, "detector fault")
}

func TestRunTierSurvivesFaultingSpec(t *testing.T) {
	report := newReport(nil)
	violations := runTier(nil, []constraint.Spec{
		enabled("no_eval"),
		enabled("no_exec"),
	}, report)

	require.Len(t, violations, 2)
	for _, v := range violations {
		assert.True(t, v.Fault)
	}
}
