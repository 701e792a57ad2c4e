package answer

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// SyntaxChecker reports whether src is syntactically valid. A non-nil error
// means the check itself failed, not that src is invalid.
type SyntaxChecker interface {
	CheckSyntax(src string) (bool, error)
}

// SyntaxCheckerFunc adapts a function to SyntaxChecker
type SyntaxCheckerFunc func(src string) (bool, error)

// CheckSyntax calls f(src)
func (f SyntaxCheckerFunc) CheckSyntax(src string) (bool, error) {
	return f(src)
}

// python2Statements are accepted by the tree-sitter grammar for error
// recovery but are syntax errors in Python 3
var python2Statements = map[string]bool{
	"print_statement": true,
	"exec_statement":  true,
}

// PythonChecker parses code answers with the tree-sitter Python 3 grammar
type PythonChecker struct{}

// CheckSyntax parses src as a module. Any ERROR or MISSING node in the tree,
// or a Python 2 only statement, makes src invalid; a parser failure is
// returned.
func (PythonChecker) CheckSyntax(src string) (valid bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			valid = false
			err = fmt.Errorf("python parser panic: %v", r)
		}
	}()

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil {
		return false, fmt.Errorf("python parser: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return false, nil
	}
	return !containsType(root, python2Statements), nil
}

func containsType(n *sitter.Node, types map[string]bool) bool {
	if types[n.Type()] {
		return true
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if containsType(n.NamedChild(i), types) {
			return true
		}
	}
	return false
}
