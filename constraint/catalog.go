package constraint

// Definition describes one cataloged constraint: its name, how it is
// evaluated, and a short human-readable description.
type Definition struct {
	Name        string
	Kind        Kind
	Description string
}

// Catalog lists every supported constraint in evaluation order. The
// set is closed: profile resolution rejects names not listed here.
var Catalog = []Definition{
	{"max_cyclomatic_complexity", KindMetricThreshold, "maximum cyclomatic complexity of any function"},
	{"max_lines_per_function", KindMetricThreshold, "maximum line span of any function"},
	{"max_total_lines", KindMetricThreshold, "maximum total lines in the unit"},
	{"require_docstrings", KindBooleanPattern, "every function and class documents itself"},
	{"max_time_complexity", KindMetricThreshold, "maximum estimated asymptotic complexity class"},
	{"max_parameters", KindMetricThreshold, "maximum parameter count of any function"},
	{"max_nested_depth", KindMetricThreshold, "maximum control flow nesting depth"},
	{"max_return_statements", KindMetricThreshold, "maximum return statements in any function"},
	{"no_print_statements", KindBooleanPattern, "no print() calls"},
	{"no_star_imports", KindBooleanPattern, "no wildcard imports"},
	{"no_mutable_defaults", KindBooleanPattern, "no mutable literal default arguments"},
	{"no_global_state", KindBooleanPattern, "no module-level mutable variables"},
	{"allowed_imports", KindWhitelist, "imports restricted to an allow-list"},
	{"no_bare_except", KindBooleanPattern, "no except clauses without an exception type"},
	{"no_try_except_pass", KindBooleanPattern, "no silently swallowed exceptions"},
	{"no_return_in_finally", KindBooleanPattern, "no early exits from finally blocks"},
	{"no_unreachable_code", KindBooleanPattern, "no statements after an unconditional jump"},
	{"no_duplicate_dict_keys", KindBooleanPattern, "no repeated constant keys in dict literals"},
	{"no_loop_variable_closure", KindBooleanPattern, "no closures capturing loop variables late"},
	{"no_mutable_call_in_defaults", KindBooleanPattern, "no unsafe call expressions as defaults"},
	{"no_shadowing_builtins", KindBooleanPattern, "no names shadowing Python builtins"},
	{"no_open_without_context_manager", KindBooleanPattern, "open() handles managed by with"},
	{"no_eval", KindBooleanPattern, "no eval() calls"},
	{"no_exec", KindBooleanPattern, "no exec() calls"},
	{"no_unsafe_deserialization", KindBooleanPattern, "no pickle/marshal deserialization"},
	{"no_unsafe_yaml", KindBooleanPattern, "no yaml.load() without an explicit Loader"},
	{"no_shell_true", KindBooleanPattern, "no subprocess calls with shell=True"},
	{"no_hardcoded_secrets", KindBooleanPattern, "no string literals bound to credential names"},
	{"no_requests_without_timeout", KindBooleanPattern, "no HTTP requests without a timeout"},
	{"max_cognitive_complexity", KindMetricThreshold, "maximum cognitive complexity of any function"},
	{"max_local_variables", KindMetricThreshold, "maximum local variable count of any function"},
	{"no_debugger_statements", KindBooleanPattern, "no breakpoint() calls or debugger imports"},
	{"no_nested_imports", KindBooleanPattern, "no imports inside function bodies"},
	{"require_type_annotations", KindBooleanPattern, "parameters and returns fully annotated"},
}

var catalogIndex = buildCatalogIndex()

func buildCatalogIndex() map[string]Definition {
	index := make(map[string]Definition, len(Catalog))
	for _, def := range Catalog {
		index[def.Name] = def
	}
	return index
}

// Lookup returns the catalog definition for a constraint name.
func Lookup(name string) (Definition, bool) {
	def, ok := catalogIndex[name]
	return def, ok
}

// Order returns the evaluation rank of a constraint name. Names not in
// the catalog sort last.
func Order(name string) int {
	for i, def := range Catalog {
		if def.Name == name {
			return i
		}
	}
	return len(Catalog)
}
