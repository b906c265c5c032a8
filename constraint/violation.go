package constraint

import "sort"

// Violation reports one broken rule located in the analyzed unit. Line
// and Function are zero-valued when the rule applies to the unit as a
// whole. Fault marks a violation-shaped diagnostic produced when a
// detector itself failed rather than a true rule violation.
type Violation struct {
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
	Line       int    `json:"line,omitempty"`
	Function   string `json:"function,omitempty"`
	Fault      bool   `json:"fault,omitempty"`
}

// SortViolations orders violations by source line, then by constraint
// name, for deterministic reporting.
func SortViolations(violations []Violation) {
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Constraint < violations[j].Constraint
	})
}
