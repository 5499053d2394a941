package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"brainbank/video-ingestion/internal/db/models"
)

const (
	maxTags   = 20
	maxQuotes = 3
)

// ParseEnrichment parses a summarization reply. The happy path is the JSON
// object the prompt asks for; when the model drifts into prose, the
// line-prefix format the original client emitted ("Title:", "Tags:", "- "
// quotes) is accepted as a fallback.
func ParseEnrichment(raw string) (*models.EnrichmentResult, error) {
	cleaned := stripCodeFence(strings.TrimSpace(raw))

	if result, err := parseJSON(cleaned); err == nil {
		return clamp(result), nil
	}

	result, err := parsePrefixFormat(cleaned)
	if err != nil {
		return nil, fmt.Errorf("unparseable summarization reply: %w (raw: %.200s)", err, raw)
	}

	return clamp(result), nil
}

func parseJSON(s string) (*models.EnrichmentResult, error) {
	// Tolerate leading prose before the object.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found")
	}

	var result models.EnrichmentResult
	if err := json.Unmarshal([]byte(s[start:end+1]), &result); err != nil {
		return nil, err
	}

	if strings.TrimSpace(result.Title) == "" {
		return nil, fmt.Errorf("missing title")
	}

	return &result, nil
}

func parsePrefixFormat(s string) (*models.EnrichmentResult, error) {
	result := &models.EnrichmentResult{}

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case hasPrefixFold(line, "Title:"):
			result.Title = strings.TrimSpace(line[len("Title:"):])
		case hasPrefixFold(line, "Description:"):
			result.Description = strings.TrimSpace(line[len("Description:"):])
		case hasPrefixFold(line, "Tags:"):
			for _, tag := range strings.Split(line[len("Tags:"):], ",") {
				tag = strings.ToLower(strings.TrimSpace(tag))
				if tag != "" {
					result.Tags = append(result.Tags, tag)
				}
			}
		case strings.HasPrefix(line, "- "):
			quote := strings.Trim(strings.TrimPrefix(line, "- "), `"`)
			if quote != "" {
				result.Quotes = append(result.Quotes, quote)
			}
		}
	}

	if result.Title == "" {
		return nil, fmt.Errorf("no Title: line")
	}

	return result, nil
}

func clamp(result *models.EnrichmentResult) *models.EnrichmentResult {
	if len(result.Tags) > maxTags {
		result.Tags = result.Tags[:maxTags]
	}
	if len(result.Quotes) > maxQuotes {
		result.Quotes = result.Quotes[:maxQuotes]
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}
	if result.Quotes == nil {
		result.Quotes = []string{}
	}
	return result
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
