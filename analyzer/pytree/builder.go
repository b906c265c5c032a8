// Package pytree builds abstract syntax trees for single units of Python
// source using tree-sitter. A SourceUnit wraps the parsed tree together
// with the raw source so analyzers can resolve node text and positions.
package pytree

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ParseError reports that a unit of source is not syntactically valid.
// It is a hard failure distinct from any constraint violation: callers
// must not retry by fixing rules when they see one.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// SourceUnit is one parsed function, class, or module fragment plus its
// enclosing module context. Immutable once built.
type SourceUnit struct {
	Source []byte
	Root   *sitter.Node

	tree *sitter.Tree
}

// Build parses source text into a SourceUnit. It returns a *ParseError
// when the text is not valid Python; no partial tree is ever returned.
func Build(source []byte) (*SourceUnit, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		perr := firstSyntaxError(root)
		tree.Close()
		return nil, perr
	}

	return &SourceUnit{
		Source: source,
		Root:   root,
		tree:   tree,
	}, nil
}

// Close releases the underlying tree. The unit must not be used afterwards.
func (u *SourceUnit) Close() {
	if u.tree != nil {
		u.tree.Close()
		u.tree = nil
	}
}

// Text returns the source text covered by a node.
func (u *SourceUnit) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(u.Source[n.StartByte():n.EndByte()])
}

// TotalLines returns the number of lines in the source.
func (u *SourceUnit) TotalLines() int {
	if len(u.Source) == 0 {
		return 0
	}
	lines := 1
	for _, b := range u.Source {
		if b == '\n' {
			lines++
		}
	}
	if u.Source[len(u.Source)-1] == '\n' {
		lines--
	}
	return lines
}

// firstSyntaxError locates the first ERROR or missing node in the tree
// and converts it to a ParseError.
func firstSyntaxError(root *sitter.Node) *ParseError {
	var found *sitter.Node

	var visit func(n *sitter.Node) bool
	visit = func(n *sitter.Node) bool {
		if n.IsError() || n.IsMissing() {
			found = n
			return true
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if visit(n.Child(i)) {
				return true
			}
		}
		return false
	}
	visit(root)

	if found == nil {
		found = root
	}

	msg := "invalid syntax"
	if found.IsMissing() {
		msg = fmt.Sprintf("missing %s", found.Type())
	}
	return &ParseError{
		Line:    Line(found),
		Column:  int(found.StartPoint().Column),
		Message: msg,
	}
}

// Line returns the 1-based source line a node starts on.
func Line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}
