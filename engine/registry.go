package engine

import (
	"fmt"

	"github.com/c360studio/codegate/analyzer/detect"
	"github.com/c360studio/codegate/analyzer/metrics"
	"github.com/c360studio/codegate/analyzer/pytree"
	"github.com/c360studio/codegate/constraint"
)

// runSpec dispatches one constraint spec to its analyzer or detector
// and converts the outcome into violations. The constraint set is
// closed, so dispatch is an explicit enumeration rather than a
// pluggable registry; adding a rule means adding a case here and a
// catalog entry.
func runSpec(u *pytree.SourceUnit, spec constraint.Spec, report *Report) []constraint.Violation {
	switch spec.Kind {
	case constraint.KindMetricThreshold:
		return runMetric(u, spec, report)
	case constraint.KindBooleanPattern:
		if !spec.Enabled {
			return nil
		}
		return runPattern(u, spec)
	case constraint.KindWhitelist:
		return runWhitelist(u, spec)
	}
	return nil
}

func runMetric(u *pytree.SourceUnit, spec constraint.Spec, report *Report) []constraint.Violation {
	var (
		value   int
		key     string
		message string
	)

	switch spec.Name {
	case "max_cyclomatic_complexity":
		value, key = metrics.Cyclomatic(u), "cyclomatic_complexity"
		message = "Cyclomatic complexity %d > max %d"
	case "max_cognitive_complexity":
		value, key = metrics.Cognitive(u), "cognitive_complexity"
		message = "Cognitive complexity %d > max %d"
	case "max_lines_per_function":
		value, key = metrics.MaxFunctionLines(u), "lines_per_function"
		message = "Function has %d lines > max %d"
	case "max_total_lines":
		value, key = metrics.TotalLines(u), "total_lines"
		message = "Total lines %d > max %d"
	case "max_parameters":
		value, key = metrics.MaxParameters(u), "max_parameters"
		message = "Function has %d parameters > max %d"
	case "max_nested_depth":
		value, key = metrics.MaxNestingDepth(u), "max_nested_depth"
		message = "Nesting depth %d > max %d"
	case "max_return_statements":
		value, key = metrics.MaxReturnStatements(u), "max_return_statements"
		message = "Function has %d return statements > max %d"
	case "max_local_variables":
		value, key = metrics.MaxLocalVariables(u), "max_local_variables"
		message = "Function has %d local variables > max %d"
	case "max_time_complexity":
		estimated := metrics.TimeComplexity(u)
		report.Metrics["time_complexity"] = estimated
		if metrics.ClassRank(estimated) > metrics.ClassRank(spec.ClassLimit) {
			return []constraint.Violation{{
				Constraint: spec.Name,
				Message:    fmt.Sprintf("Time complexity %s exceeds max %s", estimated, spec.ClassLimit),
			}}
		}
		return nil
	default:
		return nil
	}

	report.Metrics[key] = fmt.Sprintf("%d", value)
	if value > spec.Threshold {
		return []constraint.Violation{{
			Constraint: spec.Name,
			Message:    fmt.Sprintf(message, value, spec.Threshold),
		}}
	}
	return nil
}

func runPattern(u *pytree.SourceUnit, spec constraint.Spec) []constraint.Violation {
	var (
		findings []detect.Finding
		format   func(detect.Finding) constraint.Violation
	)

	byLine := func(message string) func(detect.Finding) constraint.Violation {
		return func(f detect.Finding) constraint.Violation {
			return constraint.Violation{
				Constraint: spec.Name,
				Message:    fmt.Sprintf(message, f.Line),
				Line:       f.Line,
			}
		}
	}
	byName := func(message string) func(detect.Finding) constraint.Violation {
		return func(f detect.Finding) constraint.Violation {
			return constraint.Violation{
				Constraint: spec.Name,
				Message:    fmt.Sprintf(message, f.Name),
				Line:       f.Line,
				Function:   f.Name,
			}
		}
	}

	switch spec.Name {
	case "require_docstrings":
		findings = detect.DocstringIssues(u)
		format = func(f detect.Finding) constraint.Violation {
			return constraint.Violation{Constraint: spec.Name, Message: f.Name, Line: f.Line}
		}
	case "require_type_annotations":
		findings = detect.UnannotatedFunctions(u)
		format = byName("Missing type annotations in %s")
	case "no_print_statements":
		findings = detect.PrintCalls(u)
		format = byLine("Print statement at line %d")
	case "no_star_imports":
		findings = detect.StarImports(u)
		format = func(f detect.Finding) constraint.Violation {
			return constraint.Violation{
				Constraint: spec.Name,
				Message:    fmt.Sprintf("Star import: from %s import *", f.Name),
				Line:       f.Line,
			}
		}
	case "no_mutable_defaults":
		findings = detect.MutableDefaults(u)
		format = byName("Mutable default argument in %s")
	case "no_global_state":
		findings = detect.GlobalState(u)
		format = func(f detect.Finding) constraint.Violation {
			return constraint.Violation{
				Constraint: spec.Name,
				Message:    fmt.Sprintf("Global mutable state: %s", f.Name),
				Line:       f.Line,
			}
		}
	case "no_bare_except":
		findings = detect.BareExcepts(u)
		format = byLine("Bare except at line %d")
	case "no_try_except_pass":
		findings = detect.ExceptPass(u)
		format = byLine("Silenced exception (except/pass) at line %d")
	case "no_return_in_finally":
		findings = detect.ReturnInFinally(u)
		format = byLine("Return/break/continue in finally block at line %d")
	case "no_unreachable_code":
		findings = detect.UnreachableCode(u)
		format = byLine("Unreachable code at line %d")
	case "no_duplicate_dict_keys":
		findings = detect.DuplicateDictKeys(u)
		format = byLine("Duplicate dictionary key at line %d")
	case "no_loop_variable_closure":
		findings = detect.LoopClosures(u)
		format = byLine("Closure captures loop variable at line %d")
	case "no_mutable_call_in_defaults":
		findings = detect.CallDefaults(u)
		format = byName("Function call in default argument in %s")
	case "no_shadowing_builtins":
		findings = detect.ShadowedBuiltins(u)
		format = func(f detect.Finding) constraint.Violation {
			return constraint.Violation{
				Constraint: spec.Name,
				Message:    fmt.Sprintf("Shadows builtin: %s", f.Name),
				Line:       f.Line,
			}
		}
	case "no_open_without_context_manager":
		findings = detect.OpenWithoutWith(u)
		format = byLine("open() without context manager at line %d")
	case "no_eval":
		findings = detect.CallsByName(u, "eval")
		format = byLine("eval() call at line %d")
	case "no_exec":
		findings = detect.CallsByName(u, "exec")
		format = byLine("exec() call at line %d")
	case "no_unsafe_deserialization":
		findings = detect.UnsafeDeserialization(u)
		format = byLine("Unsafe deserialization at line %d")
	case "no_unsafe_yaml":
		findings = detect.UnsafeYAML(u)
		format = byLine("Unsafe yaml.load() without SafeLoader at line %d")
	case "no_shell_true":
		findings = detect.ShellTrue(u)
		format = byLine("subprocess with shell=True at line %d")
	case "no_hardcoded_secrets":
		findings = detect.HardcodedSecrets(u)
		format = func(f detect.Finding) constraint.Violation {
			return constraint.Violation{
				Constraint: spec.Name,
				Message:    fmt.Sprintf("Hardcoded secret in variable: %s", f.Name),
				Line:       f.Line,
			}
		}
	case "no_requests_without_timeout":
		findings = detect.RequestsWithoutTimeout(u)
		format = byLine("HTTP request without timeout at line %d")
	case "no_debugger_statements":
		findings = detect.DebuggerStatements(u)
		format = byLine("Debugger statement at line %d")
	case "no_nested_imports":
		findings = detect.NestedImports(u)
		format = byLine("Nested import at line %d")
	default:
		return nil
	}

	violations := make([]constraint.Violation, 0, len(findings))
	for _, f := range findings {
		violations = append(violations, format(f))
	}
	return violations
}

func runWhitelist(u *pytree.SourceUnit, spec constraint.Spec) []constraint.Violation {
	if spec.Name != "allowed_imports" {
		return nil
	}
	var violations []constraint.Violation
	for _, f := range detect.ForbiddenImports(u, spec.Allowed) {
		violations = append(violations, constraint.Violation{
			Constraint: spec.Name,
			Message:    fmt.Sprintf("Forbidden import: %s", f.Name),
			Line:       f.Line,
		})
	}
	return violations
}
