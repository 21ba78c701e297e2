package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// maxTags caps how many suggested tags are kept per file.
const maxTags = 8

// Tagger asks an OpenAI-compatible completion endpoint for descriptive tags
// based on a file's name, MIME type, and size. It is a purely additive
// enrichment: callers run it after the upload result is final and treat any
// error as log-only.
type Tagger struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewTagger creates a tagger for the given endpoint. model may be empty if
// the endpoint has a default.
func NewTagger(endpoint, apiKey, model string) *Tagger {
	return &Tagger{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type chatRequest struct {
	Model     string        `json:"model,omitempty"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// SuggestTags returns lowercase descriptive tags for a file, or an error the
// caller is expected to log and ignore.
func (t *Tagger) SuggestTags(ctx context.Context, fileName, contentType string, sizeBytes int64) ([]string, error) {
	prompt := fmt.Sprintf(
		"Suggest up to %d short descriptive tags for a file named %q of type %s and size %s. "+
			"Reply with a comma-separated list only.",
		maxTags, fileName, contentType, humanize.IBytes(uint64(sizeBytes)),
	)

	payload, err := json.Marshal(chatRequest{
		Model:     t.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: 100,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tag service returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode tag response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("tag service returned no choices")
	}

	return parseTags(parsed.Choices[0].Message.Content), nil
}

// parseTags splits a model reply into clean, deduplicated lowercase tags.
func parseTags(reply string) []string {
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	seen := make(map[string]bool)
	tags := []string{}
	for _, field := range fields {
		tag := strings.ToLower(strings.Trim(strings.TrimSpace(field), `"'.#`))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}
