// Package constraint defines the constraint data model shared by the
// profile resolver and the evaluation engine: named rule specs, the
// two-tier resolved set, violations, and the closed catalog of
// supported constraint names.
package constraint

import "fmt"

// Kind classifies how a constraint is evaluated.
type Kind int

const (
	// KindMetricThreshold compares a computed metric against a limit.
	KindMetricThreshold Kind = iota
	// KindBooleanPattern runs a pattern detector when enabled.
	KindBooleanPattern
	// KindWhitelist checks membership against an allowed set.
	KindWhitelist
)

// String returns the kind name used in descriptions and logs.
func (k Kind) String() string {
	switch k {
	case KindMetricThreshold:
		return "metric-threshold"
	case KindBooleanPattern:
		return "boolean-pattern"
	case KindWhitelist:
		return "whitelist"
	}
	return "unknown"
}

// Spec is one named, parameterized rule. Exactly one parameter field is
// meaningful depending on the catalog kind of Name. Immutable once
// produced by resolution.
type Spec struct {
	Name string
	Kind Kind

	// Threshold is the integer limit for metric-threshold constraints.
	Threshold int
	// ClassLimit is the complexity-class limit for max_time_complexity.
	ClassLimit string
	// Enabled switches boolean-pattern constraints on.
	Enabled bool
	// Allowed is the membership list for whitelist constraints.
	Allowed []string
}

// Set is a resolved two-tier constraint set. Primary violations reject
// the source; secondary violations are advisory and only evaluated
// when every primary constraint passes. A name appears in at most one
// tier. Guidance is echoed through reports unchanged.
type Set struct {
	Primary   []Spec
	Secondary []Spec
	Guidance  []string
}

// Describe returns the spec's parameter rendered for display.
func (s Spec) Describe() string {
	switch s.Kind {
	case KindMetricThreshold:
		if s.ClassLimit != "" {
			return s.ClassLimit
		}
		return fmt.Sprintf("%d", s.Threshold)
	case KindBooleanPattern:
		if s.Enabled {
			return "enabled"
		}
		return "disabled"
	case KindWhitelist:
		return fmt.Sprintf("%d allowed", len(s.Allowed))
	}
	return ""
}

// UnknownConstraintError reports a constraint name with no registered
// analyzer or detector. It is a configuration failure, never silently
// skipped.
type UnknownConstraintError struct {
	Name string
}

func (e *UnknownConstraintError) Error() string {
	return fmt.Sprintf("unknown constraint: %s", e.Name)
}

// SpecFromValue coerces a declarative profile value into a Spec for a
// cataloged constraint name. Metric thresholds take an integer (or a
// complexity-class string for max_time_complexity), boolean patterns a
// bool, and whitelists a string list.
func SpecFromValue(name string, value any) (Spec, error) {
	def, ok := Lookup(name)
	if !ok {
		return Spec{}, &UnknownConstraintError{Name: name}
	}

	spec := Spec{Name: name, Kind: def.Kind}
	switch def.Kind {
	case KindMetricThreshold:
		switch v := value.(type) {
		case int:
			spec.Threshold = v
		case string:
			spec.ClassLimit = v
		default:
			return Spec{}, fmt.Errorf("constraint %s: expected integer or class string, got %T", name, value)
		}
	case KindBooleanPattern:
		enabled, ok := value.(bool)
		if !ok {
			return Spec{}, fmt.Errorf("constraint %s: expected boolean, got %T", name, value)
		}
		spec.Enabled = enabled
	case KindWhitelist:
		list, err := stringList(value)
		if err != nil {
			return Spec{}, fmt.Errorf("constraint %s: %w", name, err)
		}
		spec.Allowed = list
	}
	return spec, nil
}

func stringList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string list, found %T element", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected string list, got %T", value)
}
