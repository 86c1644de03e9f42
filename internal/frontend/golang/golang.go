// Package golang is the reference language front-end: it tokenizes Go
// source with the tree-sitter Go grammar and attaches a lightweight
// variable-flow semantics pass so the normalization graph has reads,
// writes, critical and control facts to work with.
package golang

import (
	"context"
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tsgo "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/RishiKendai/aegis/internal/frontend"
	"github.com/RishiKendai/aegis/internal/plagiarism"
)

// Language registers the Go front-end into the given registry.
func Language(r *frontend.Registry) {
	r.Register(frontend.Language{
		Name:                     "go",
		Suffixes:                 []string{".go"},
		DefaultMinimumTokenMatch: 9,
		TokensHaveSemantics:      true,
		SupportsNormalization:    true,
		IsExcludedFromMatching:   isExcludedFromMatching,
		Parse:                    parse,
	})
}

func isExcludedFromMatching(t plagiarism.TokenType) bool {
	switch string(t) {
	case "comment", "\n", "package_clause":
		return true
	default:
		return false
	}
}

var controlKinds = map[string]bool{
	"if": true, "for": true, "switch": true, "select": true,
	"case": true, "default": true,
}

var criticalKinds = map[string]bool{
	"return": true, "break": true, "continue": true, "goto": true, "fallthrough": true,
}

func parse(ctx context.Context, files []frontend.SourceFile, normalize bool) ([]plagiarism.Token, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	lang := tree_sitter.NewLanguage(tsgo.Language())
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("set go language: %w", err)
	}

	var tokens []plagiarism.Token
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileTokens, err := parseFile(parser, file, normalize)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file.Name, err)
		}
		tokens = append(tokens, fileTokens...)
	}

	lastFile := ""
	if len(files) > 0 {
		lastFile = files[len(files)-1].Name
	}
	tokens = append(tokens, plagiarism.NewFileEnd(lastFile))
	return tokens, nil
}

func parseFile(parser *tree_sitter.Parser, file frontend.SourceFile, normalize bool) ([]plagiarism.Token, error) {
	tree := parser.Parse(file.Content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to produce a syntax tree")
	}
	defer tree.Close()

	root := tree.RootNode()

	var writeRanges map[[2]uint]bool
	if normalize {
		writeRanges = make(map[[2]uint]bool)
		collectWriteTargets(root, writeRanges)
	}

	var tokens []plagiarism.Token
	emitLeaves(root, file.Content, file.Name, normalize, writeRanges, &tokens)
	return tokens, nil
}

func emitLeaves(node *tree_sitter.Node, source []byte, file string, normalize bool, writeRanges map[[2]uint]bool, out *[]plagiarism.Token) {
	if node == nil {
		return
	}

	if node.ChildCount() == 0 {
		kind := node.Kind()
		text := node.Utf8Text(source)
		if text == "" || kind == "comment" {
			return
		}

		start := node.StartPosition()
		token := plagiarism.Token{
			Type:   plagiarism.TokenType(kind),
			File:   file,
			Line:   int(start.Row) + 1,
			Column: int(start.Column) + 1,
			Length: len(text),
		}

		if normalize {
			token.Semantics = leafSemantics(node, kind, text, writeRanges)
		}

		*out = append(*out, token)
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		emitLeaves(node.Child(i), source, file, normalize, writeRanges, out)
	}
}

func leafSemantics(node *tree_sitter.Node, kind, text string, writeRanges map[[2]uint]bool) *plagiarism.Semantics {
	switch {
	case kind == "identifier":
		if writeRanges[rangeKey(node)] {
			return plagiarism.NewSemantics(false, false, nil, []string{text})
		}
		return plagiarism.NewSemantics(false, false, []string{text}, nil)
	case controlKinds[kind]:
		return plagiarism.NewSemantics(false, true, nil, nil)
	case criticalKinds[kind]:
		return plagiarism.NewSemantics(true, false, nil, nil)
	default:
		return nil
	}
}

func rangeKey(node *tree_sitter.Node) [2]uint {
	return [2]uint{node.StartByte(), node.EndByte()}
}

// collectWriteTargets walks the tree once, recording the byte range of
// every identifier leaf that is the target of an assignment, a short
// variable declaration, a var/const spec, a parameter, an inc/dec
// statement or a range-clause loop variable.
func collectWriteTargets(node *tree_sitter.Node, writes map[[2]uint]bool) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "short_var_declaration", "assignment_statement":
		markIdentifiers(node.ChildByFieldName("left"), writes)
	case "var_spec", "const_spec":
		markIdentifiers(node.ChildByFieldName("name"), writes)
	case "parameter_declaration":
		markIdentifiers(node.ChildByFieldName("name"), writes)
	case "inc_dec_statement":
		markIdentifiers(node.ChildByFieldName("operand"), writes)
	case "range_clause":
		markIdentifiers(node.ChildByFieldName("left"), writes)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		collectWriteTargets(node.Child(i), writes)
	}
}

func markIdentifiers(node *tree_sitter.Node, writes map[[2]uint]bool) {
	if node == nil {
		return
	}
	if node.Kind() == "identifier" {
		writes[rangeKey(node)] = true
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		markIdentifiers(node.Child(i), writes)
	}
}
