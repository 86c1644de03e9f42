// Package frontend defines the small capability-struct contract the
// similarity engine consumes from language front-ends, replacing
// dynamic dispatch over a Language interface with a value passed
// around freely and registered once per language.
package frontend

import (
	"context"

	"github.com/RishiKendai/aegis/internal/plagiarism"
)

// SourceFile is one file belonging to a submission.
type SourceFile struct {
	Name    string
	Content []byte
}

// Language is the capability struct a front-end registers. All fields
// are plain values or function values; there is no interface to
// implement and no dynamic dispatch.
type Language struct {
	Name string

	// Suffixes lists the filename suffixes this language accepts.
	Suffixes []string

	// DefaultMinimumTokenMatch is used when the caller does not
	// override MTM explicitly.
	DefaultMinimumTokenMatch int

	TokensHaveSemantics   bool
	SupportsNormalization bool

	// IsExcludedFromMatching classifies token types the front-end
	// considers whitespace-equivalent (comments, formatting tokens).
	IsExcludedFromMatching func(plagiarism.TokenType) bool

	// Parse produces the token stream for files, terminated by exactly
	// one FILE_END token. When normalize is true and
	// SupportsNormalization is true, the returned tokens carry
	// semantics.
	Parse func(ctx context.Context, files []SourceFile, normalize bool) ([]plagiarism.Token, error)
}

// Registry maps a language name to its registered capability struct.
type Registry struct {
	languages map[string]Language
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{languages: make(map[string]Language)}
}

// Register adds (or replaces) a language by name.
func (r *Registry) Register(lang Language) {
	r.languages[lang.Name] = lang
}

// Lookup returns the registered language by name.
func (r *Registry) Lookup(name string) (Language, bool) {
	lang, ok := r.languages[name]
	return lang, ok
}

// BySuffix finds the first registered language accepting suffix.
func (r *Registry) BySuffix(suffix string) (Language, bool) {
	for _, lang := range r.languages {
		for _, s := range lang.Suffixes {
			if s == suffix {
				return lang, true
			}
		}
	}
	return Language{}, false
}
