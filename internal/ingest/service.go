// Package ingest turns a raw submission pulled off the stream into a
// stored Artifact: tokenize with the language's front-end, normalize,
// persist both token streams. It runs the front-end in-process rather
// than calling out to a separate preprocessing service.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/RishiKendai/aegis/internal/frontend"
	"github.com/RishiKendai/aegis/internal/models"
	"github.com/RishiKendai/aegis/internal/plagiarism"
	"github.com/RishiKendai/aegis/internal/repository"
)

// Service tokenizes and normalizes submissions, then stores them.
type Service struct {
	registry      *frontend.Registry
	artifactsRepo *repository.ArtifactsRepository
}

// NewService builds an ingest service over the given language registry.
func NewService(registry *frontend.Registry, artifactsRepo *repository.ArtifactsRepository) *Service {
	return &Service{registry: registry, artifactsRepo: artifactsRepo}
}

// ProcessSubmission tokenizes submission's source with the registered
// front-end for its language, normalizes when the front-end supports
// it, and stores the resulting artifact.
func (s *Service) ProcessSubmission(ctx context.Context, submission *models.Submission) error {
	lang, ok := s.registry.Lookup(submission.Language)
	if !ok {
		return fmt.Errorf("no front-end registered for language %q", submission.Language)
	}

	file := frontend.SourceFile{
		Name:    submission.AttemptID + languageSuffix(lang),
		Content: []byte(submission.SourceCode),
	}

	rawTokens, err := lang.Parse(ctx, []frontend.SourceFile{file}, false)
	if err != nil {
		return fmt.Errorf("failed to tokenize submission: %w", err)
	}

	var normalizedTokens []plagiarism.Token
	if lang.SupportsNormalization {
		semanticTokens, err := lang.Parse(ctx, []frontend.SourceFile{file}, true)
		if err != nil {
			return fmt.Errorf("failed to tokenize submission with semantics: %w", err)
		}
		// Seed ordinals in type-name order so tie-breaks between
		// statements do not depend on the order they appear in.
		interner := plagiarism.NewInterner()
		seen := make(map[plagiarism.TokenType]bool)
		names := make([]string, 0)
		for _, t := range semanticTokens {
			if !seen[t.Type] {
				seen[t.Type] = true
				names = append(names, string(t.Type))
			}
		}
		sort.Strings(names)
		for _, name := range names {
			interner.ValueOf(plagiarism.TokenType(name))
		}
		normalizedTokens = plagiarism.Normalize(semanticTokens, interner.ValueOf)
	} else {
		normalizedTokens = rawTokens
	}

	artifact := &models.Artifact{
		Email:            submission.Email,
		AttemptID:        submission.AttemptID,
		TestID:           submission.TestID,
		DriveID:          submission.DriveID,
		Difficulty:       submission.Difficulty,
		SourceCode:       submission.SourceCode,
		QID:              submission.QID,
		Language:         submission.Language,
		LangCode:         submission.LangCode,
		Tokens:           tokensToDTO(rawTokens),
		NormalizedTokens: tokensToDTO(normalizedTokens),
		CreatedAt:        time.Now(),
	}

	if err := s.artifactsRepo.InsertArtifact(ctx, artifact); err != nil {
		return fmt.Errorf("failed to store artifact: %w", err)
	}

	return nil
}

func languageSuffix(lang frontend.Language) string {
	if len(lang.Suffixes) > 0 {
		return lang.Suffixes[0]
	}
	return ""
}

func tokensToDTO(tokens []plagiarism.Token) []models.TokenDTO {
	dtos := make([]models.TokenDTO, 0, len(tokens))
	for _, t := range tokens {
		dto := models.TokenDTO{
			Type:   string(t.Type),
			File:   t.File,
			Line:   t.Line,
			Column: t.Column,
			Length: t.Length,
		}
		if t.Semantics != nil {
			dto.HasSemantics = true
			dto.Critical = t.Semantics.Critical
			dto.Control = t.Semantics.Control
			dto.Reads = setToSlice(t.Semantics.Reads)
			dto.Writes = setToSlice(t.Semantics.Writes)
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func setToSlice(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
