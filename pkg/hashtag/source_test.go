package hashtag

import (
	"context"
	"fmt"
	"testing"

	"github.com/carouselhq/carousel/pkg/storage"
	"github.com/carouselhq/carousel/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator returns a fixed tag list or a fixed error
type stubGenerator struct {
	tags []string
	err  error
}

func (s *stubGenerator) Generate(ctx context.Context, theme string, count int) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.tags) > count {
		return s.tags[:count], nil
	}
	return s.tags, nil
}

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestForUploadNeverEmpty(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
	}{
		{"generator fails", &stubGenerator{err: fmt.Errorf("service unavailable")}},
		{"generator returns nothing", &stubGenerator{}},
		{"generator works", &stubGenerator{tags: []string{"#a", "#b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewSource(newTestStore(t), tt.gen, "dating")
			tags := source.ForUpload(context.Background())
			assert.NotEmpty(t, tags)
		})
	}
}

func TestForUploadFallsBackOnGeneratorError(t *testing.T) {
	source := NewSource(newTestStore(t), &stubGenerator{err: fmt.Errorf("boom")}, "dating")

	tags := source.ForUpload(context.Background())
	assert.Equal(t, Fallback(20), tags)
}

func TestVariationAvoidsServedTags(t *testing.T) {
	store := newTestStore(t)
	template := &types.HashtagTemplate{
		ID:           "tpl-1",
		Name:         "dating",
		BaseHashtags: []string{"#base1", "#base2"},
		GeneratedVariations: [][]string{
			{"#dating", "#love", "#single"},
		},
	}
	require.NoError(t, store.CreateHashtagTemplate(template))

	gen := &stubGenerator{tags: []string{"#fresh1", "#fresh2", "#dating"}}
	source := NewSource(store, gen, "dating")

	tags, err := source.NewVariation(context.Background(), template)
	require.NoError(t, err)
	require.NotEmpty(t, tags)

	assert.NotContains(t, tags, "#dating")
	assert.NotContains(t, tags, "#love")
	assert.NotContains(t, tags, "#single")
	assert.Contains(t, tags, "#fresh1")
	assert.LessOrEqual(t, len(tags), 20)
}

func TestVariationIsRecordedOnTemplate(t *testing.T) {
	store := newTestStore(t)
	template := &types.HashtagTemplate{ID: "tpl-1", Name: "dating"}
	require.NoError(t, store.CreateHashtagTemplate(template))

	source := NewSource(store, &stubGenerator{tags: []string{"#one", "#two"}}, "dating")

	tags, err := source.NewVariation(context.Background(), template)
	require.NoError(t, err)
	require.NotEmpty(t, tags)

	stored, err := store.GetHashtagTemplate("tpl-1")
	require.NoError(t, err)
	require.Len(t, stored.GeneratedVariations, 1)
	assert.Equal(t, tags, stored.GeneratedVariations[0])
	assert.Equal(t, 1, stored.UsageCount)
	assert.NotNil(t, stored.LastGenerated)
}

func TestVariationPadsFromBaseWhenPoolExhausted(t *testing.T) {
	store := newTestStore(t)

	// Every fallback tag plus the fresh tags have been served already
	served := append(Fallback(0), "#fresh1", "#fresh2")
	template := &types.HashtagTemplate{
		ID:                  "tpl-1",
		BaseHashtags:        []string{"#basetag"},
		GeneratedVariations: [][]string{served},
	}
	require.NoError(t, store.CreateHashtagTemplate(template))

	source := NewSource(store, &stubGenerator{tags: []string{"#fresh1", "#fresh2"}}, "dating")

	tags, err := source.NewVariation(context.Background(), template)
	require.NoError(t, err)
	assert.Equal(t, []string{"#basetag"}, tags)
}

func TestTemplatePreferredOverGeneration(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateHashtagTemplate(&types.HashtagTemplate{
		ID:           "tpl-1",
		BaseHashtags: []string{"#tplbase"},
	}))

	source := NewSource(store, &stubGenerator{tags: []string{"#generated"}}, "dating")

	tags := source.ForUpload(context.Background())
	require.NotEmpty(t, tags)

	// The variation path records usage; the plain generation path does not
	stored, err := store.GetHashtagTemplate("tpl-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsageCount)
}

func TestFallback(t *testing.T) {
	assert.Len(t, Fallback(10), 10)
	assert.Len(t, Fallback(0), len(fallbackHashtags))
	assert.Len(t, Fallback(1000), len(fallbackHashtags))

	// Returned slice is a copy
	tags := Fallback(5)
	tags[0] = "#mutated"
	assert.Equal(t, "#dating", fallbackHashtags[0])
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "space separated",
			content:  "#dating #love #single",
			expected: []string{"#dating", "#love", "#single"},
		},
		{
			name:     "mixed prose and tags",
			content:  "Here you go: #dating and also #love",
			expected: []string{"#dating", "#love"},
		},
		{
			name:     "duplicates removed",
			content:  "#dating #dating #love",
			expected: []string{"#dating", "#love"},
		},
		{
			name:     "bare hash ignored",
			content:  "# #love",
			expected: []string{"#love"},
		},
		{
			name:     "no tags",
			content:  "sorry, I cannot help with that",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTags(tt.content))
		})
	}
}
