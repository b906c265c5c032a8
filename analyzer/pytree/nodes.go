package pytree

// Node type constants for Python AST traversal. They match the node
// types defined by tree-sitter-python.
const (
	NodeModule = "module"

	// Definitions
	NodeFunctionDefinition  = "function_definition"
	NodeClassDefinition     = "class_definition"
	NodeDecoratedDefinition = "decorated_definition"
	NodeLambda              = "lambda"
	NodeBlock               = "block"

	// Parameters
	NodeParameters            = "parameters"
	NodeLambdaParameters      = "lambda_parameters"
	NodeTypedParameter        = "typed_parameter"
	NodeDefaultParameter      = "default_parameter"
	NodeTypedDefaultParameter = "typed_default_parameter"
	NodeListSplatPattern      = "list_splat_pattern"
	NodeDictSplatPattern      = "dictionary_splat_pattern"

	// Control flow
	NodeIfStatement       = "if_statement"
	NodeElifClause        = "elif_clause"
	NodeElseClause        = "else_clause"
	NodeForStatement      = "for_statement"
	NodeWhileStatement    = "while_statement"
	NodeTryStatement      = "try_statement"
	NodeExceptClause      = "except_clause"
	NodeFinallyClause     = "finally_clause"
	NodeWithStatement     = "with_statement"
	NodeWithClause        = "with_clause"
	NodeWithItem          = "with_item"
	NodeReturnStatement   = "return_statement"
	NodeRaiseStatement    = "raise_statement"
	NodeBreakStatement    = "break_statement"
	NodeContinueStatement = "continue_statement"
	NodePassStatement     = "pass_statement"

	// Expressions
	NodeCall                  = "call"
	NodeArgumentList          = "argument_list"
	NodeKeywordArgument       = "keyword_argument"
	NodeAttribute             = "attribute"
	NodeIdentifier            = "identifier"
	NodeBooleanOperator       = "boolean_operator"
	NodeConditionalExpression = "conditional_expression"
	NodeNamedExpression       = "named_expression"
	NodeAsPattern             = "as_pattern"
	NodePatternList           = "pattern_list"
	NodeTuplePattern          = "tuple_pattern"
	NodeListPattern           = "list_pattern"

	// Statements and bindings
	NodeExpressionStatement = "expression_statement"
	NodeAssignment          = "assignment"
	NodeAugmentedAssignment = "augmented_assignment"

	// Imports
	NodeImportStatement     = "import_statement"
	NodeImportFromStatement = "import_from_statement"
	NodeDottedName          = "dotted_name"
	NodeAliasedImport       = "aliased_import"
	NodeWildcardImport      = "wildcard_import"

	// Literals
	NodeString        = "string"
	NodeInterpolation = "interpolation"
	NodeInteger       = "integer"
	NodeFloat         = "float"
	NodeTrue          = "true"
	NodeFalse         = "false"
	NodeNone          = "none"
	NodeList          = "list"
	NodeSet           = "set"
	NodeDictionary    = "dictionary"
	NodePair          = "pair"
	NodeComment       = "comment"

	// Comprehensions
	NodeListComprehension       = "list_comprehension"
	NodeSetComprehension        = "set_comprehension"
	NodeDictionaryComprehension = "dictionary_comprehension"
	NodeGeneratorExpression     = "generator_expression"
	NodeForInClause             = "for_in_clause"
	NodeIfClause                = "if_clause"
)

// Field names used with ChildByFieldName.
const (
	FieldName        = "name"
	FieldParameters  = "parameters"
	FieldReturnType  = "return_type"
	FieldBody        = "body"
	FieldCondition   = "condition"
	FieldConsequence = "consequence"
	FieldAlternative = "alternative"
	FieldLeft        = "left"
	FieldRight       = "right"
	FieldValue       = "value"
	FieldFunction    = "function"
	FieldArguments   = "arguments"
	FieldObject      = "object"
	FieldAttribute   = "attribute"
	FieldModuleName  = "module_name"
	FieldKey         = "key"
	FieldOperator    = "operator"
	FieldType        = "type"
	FieldDefinition  = "definition"
)
