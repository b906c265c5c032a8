package engine

import (
	"encoding/json"
	"fmt"

	"github.com/c360studio/codegate/constraint"
)

// Report is the outcome of one evaluation. SecondaryEvaluated is false
// when the primary gate failed and secondary checks were skipped, so a
// consumer can distinguish "clean" from "not looked at". Metrics echoes
// the computed metric values for every metric constraint that ran.
type Report struct {
	PrimaryPassed       bool                   `json:"primary_passed"`
	PrimaryViolations   []constraint.Violation `json:"primary_violations"`
	SecondaryEvaluated  bool                   `json:"secondary_evaluated"`
	SecondaryViolations []constraint.Violation `json:"secondary_violations"`
	Guidance            []string               `json:"guidance"`
	Metrics             map[string]string      `json:"metrics"`
}

func newReport(guidance []string) *Report {
	return &Report{
		PrimaryViolations:   []constraint.Violation{},
		SecondaryViolations: []constraint.Violation{},
		Guidance:            append([]string{}, guidance...),
		Metrics:             map[string]string{},
	}
}

// Encode serializes the report to JSON.
func (r *Report) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return data, nil
}

// DecodeReport parses a JSON-encoded report.
func DecodeReport(data []byte) (*Report, error) {
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}
