// Package engine evaluates Python source against a resolved two-tier
// constraint set and assembles the report. Evaluation is synchronous
// and purely functional over its inputs; concurrent calls on
// independent inputs need no coordination.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/codegate/analyzer/pytree"
	"github.com/c360studio/codegate/constraint"
)

// Evaluate checks one unit of source against a constraint set. Parse
// failures propagate as *pytree.ParseError; they are never reported as
// violations. When any primary constraint is violated the secondary
// tier is not evaluated at all.
func Evaluate(source []byte, set constraint.Set) (*Report, error) {
	unit, err := pytree.Build(source)
	if err != nil {
		return nil, err
	}
	defer unit.Close()

	report := newReport(set.Guidance)

	report.PrimaryViolations = runTier(unit, set.Primary, report)
	constraint.SortViolations(report.PrimaryViolations)
	report.PrimaryPassed = len(report.PrimaryViolations) == 0

	if !report.PrimaryPassed {
		slog.Debug("primary gate failed, skipping secondary tier",
			"violations", len(report.PrimaryViolations))
		return report, nil
	}

	report.SecondaryEvaluated = true
	report.SecondaryViolations = runTier(unit, set.Secondary, report)
	constraint.SortViolations(report.SecondaryViolations)
	return report, nil
}

// runTier evaluates every spec of one tier in order. A panicking
// analyzer is contained: it contributes a fault-tagged diagnostic
// instead of aborting the evaluation.
func runTier(unit *pytree.SourceUnit, specs []constraint.Spec, report *Report) []constraint.Violation {
	violations := []constraint.Violation{}
	for _, spec := range specs {
		violations = append(violations, runSafely(unit, spec, report)...)
	}
	return violations
}

func runSafely(unit *pytree.SourceUnit, spec constraint.Spec, report *Report) (violations []constraint.Violation) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("detector fault", "constraint", spec.Name, "panic", r)
			violations = []constraint.Violation{{
				Constraint: spec.Name,
				Message:    fmt.Sprintf("detector fault: %v", r),
				Fault:      true,
			}}
		}
	}()
	return runSpec(unit, spec, report)
}
