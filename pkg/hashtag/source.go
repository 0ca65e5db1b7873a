package hashtag

import (
	"context"
	"time"

	"github.com/carouselhq/carousel/pkg/log"
	"github.com/carouselhq/carousel/pkg/storage"
	"github.com/carouselhq/carousel/pkg/types"
)

const (
	// variationSize caps how many tags one served variation carries.
	variationSize = 20

	// generationCandidates is how many fresh tags are requested when
	// building a variation, so there is headroom after filtering used ones.
	generationCandidates = 30
)

// Source selects the hashtag set for one upload. Selection prefers a
// stored template's fresh variation, then plain generation, and always
// degrades to the fixed fallback list. It never returns an empty list and
// never propagates collaborator failures to the caller.
type Source struct {
	store     storage.Store
	generator Generator
	theme     string
}

// NewSource creates a hashtag source
func NewSource(store storage.Store, generator Generator, theme string) *Source {
	if theme == "" {
		theme = "dating"
	}
	return &Source{
		store:     store,
		generator: generator,
		theme:     theme,
	}
}

// ForUpload returns the tag set for one upload
func (s *Source) ForUpload(ctx context.Context) []string {
	logger := log.WithComponent("hashtag")

	tags, err := s.selectTags(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("hashtag selection degraded to fallback list")
		return Fallback(variationSize)
	}
	if len(tags) == 0 {
		return Fallback(variationSize)
	}
	return tags
}

func (s *Source) selectTags(ctx context.Context) ([]string, error) {
	templates, err := s.store.ListHashtagTemplates()
	if err != nil {
		return nil, err
	}

	if len(templates) > 0 {
		// Only the first template is consulted; multi-template rotation
		// is not a thing yet
		return s.NewVariation(ctx, templates[0])
	}

	return s.generator.Generate(ctx, s.theme, variationSize)
}

// NewVariation builds a tag set that avoids every tag the template has
// already served, and records the new variation on the template so later
// selections avoid it in turn.
func (s *Source) NewVariation(ctx context.Context, template *types.HashtagTemplate) ([]string, error) {
	used := make(map[string]bool)
	for _, variation := range template.GeneratedVariations {
		for _, tag := range variation {
			used[tag] = true
		}
	}

	// A generation failure is not fatal here: the pool still has the
	// fallback list and the template's own base tags.
	fresh, err := s.generator.Generate(ctx, s.theme, generationCandidates)
	if err != nil {
		logger := log.WithComponent("hashtag")
		logger.Debug().Err(err).Msg("generation unavailable, building variation from stored tags")
	}

	pool := dedupe(fresh, Fallback(0), template.BaseHashtags)

	var selected []string
	for _, tag := range pool {
		if len(selected) >= variationSize {
			break
		}
		if !used[tag] {
			selected = append(selected, tag)
		}
	}

	// Not enough unused tags: pad from the base set even if repeated
	for _, tag := range template.BaseHashtags {
		if len(selected) >= variationSize {
			break
		}
		if !contains(selected, tag) {
			selected = append(selected, tag)
		}
	}

	if len(selected) == 0 {
		return nil, nil
	}

	template.GeneratedVariations = append(template.GeneratedVariations, selected)
	template.UsageCount++
	now := time.Now().UTC()
	template.LastGenerated = &now

	// Serving beats recording: a failed write means this variation may be
	// repeated later, which is tolerable.
	if err := s.store.UpdateHashtagTemplate(template); err != nil {
		logger := log.WithComponent("hashtag")
		logger.Warn().Err(err).Str("template_id", template.ID).Msg("failed to record served variation")
	}

	return selected, nil
}

func dedupe(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, tag := range list {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
