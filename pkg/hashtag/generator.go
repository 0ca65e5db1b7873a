package hashtag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Generator produces candidate hashtags for a theme
type Generator interface {
	Generate(ctx context.Context, theme string, count int) ([]string, error)
}

// OpenAIGenerator implements Generator against an OpenAI-compatible chat
// completions endpoint
type OpenAIGenerator struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewOpenAIGenerator creates a generator for the given endpoint
func NewOpenAIGenerator(apiKey, baseURL, model string, timeout time.Duration) *OpenAIGenerator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIGenerator{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Timeout: timeout,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, theme string, count int) ([]string, error) {
	if g.APIKey == "" {
		return nil, fmt.Errorf("missing API key")
	}
	if count <= 0 {
		count = 20
	}

	prompt := fmt.Sprintf(`Generate %d trending English hashtags for %s content on short-video platforms.

Requirements:
- Only English hashtags
- Include the # symbol
- No duplicates
- Mix of popular and niche hashtags

Return only hashtags separated by spaces, nothing else.`, count, theme)

	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
		Temperature float64 `json:"temperature,omitempty"`
	}

	raw, err := json.Marshal(reqBody{
		Model:       g.Model,
		Messages:    []msg{{Role: "user", Content: prompt}},
		MaxTokens:   300,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	client := &http.Client{Timeout: g.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respRaw)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respRaw, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("empty completion")
	}

	tags := ParseTags(parsed.Choices[0].Message.Content)
	if len(tags) == 0 {
		return nil, fmt.Errorf("completion contained no hashtags")
	}
	if len(tags) > count {
		tags = tags[:count]
	}
	return tags, nil
}

// ParseTags extracts #-prefixed tokens from free-form model output,
// dropping duplicates while preserving order
func ParseTags(content string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, field := range strings.Fields(content) {
		tag := strings.TrimSpace(field)
		if !strings.HasPrefix(tag, "#") || len(tag) < 2 {
			continue
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
