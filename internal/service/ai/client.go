// Package ai wraps the language-model API used for transcription,
// summarization, and transcript-grounded chat.
package ai

import (
	"context"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"brainbank/video-ingestion/internal/config"
	"brainbank/video-ingestion/internal/db/models"
)

// Transcriber converts stored media into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, media io.Reader) (string, error)
}

// Summarizer turns a transcript into title, description, tags, and quotes.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*models.EnrichmentResult, error)
}

// Chatter answers a question grounded in a prepared transcript context block.
type Chatter interface {
	Chat(ctx context.Context, contextBlock string, history []Message, question string) (string, error)
}

// Message is one prior turn of a conversation.
type Message struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// Client implements Transcriber, Summarizer, and Chatter over the OpenAI API.
type Client struct {
	cli             *openai.Client
	transcribeModel string
	chatModel       string
	maxTokens       int
	temperature     float32
}

// NewClient creates a client from configuration. An empty BaseURL targets
// the public API; setting it points at a compatible gateway.
func NewClient(cfg *config.OpenAIConfig) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		cli:             openai.NewClientWithConfig(clientConfig),
		transcribeModel: cfg.TranscribeModel,
		chatModel:       cfg.ChatModel,
		maxTokens:       cfg.MaxTokens,
		temperature:     float32(cfg.Temperature),
	}
}

// Transcribe sends the media stream to the speech-to-text endpoint and
// returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, filename string, media io.Reader) (string, error) {
	resp, err := c.cli.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.transcribeModel,
		FilePath: filename,
		Reader:   media,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("empty transcription result")
	}

	return text, nil
}

// Summarize asks the chat model for a JSON summary of the transcript and
// parses the reply, tolerating models that ignore the JSON instruction.
func (c *Client) Summarize(ctx context.Context, transcript string) (*models.EnrichmentResult, error) {
	req := openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: summarizeSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildSummarizePrompt(transcript),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("summarization request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("summarization returned no choices")
	}

	return ParseEnrichment(resp.Choices[0].Message.Content)
}

// Chat answers the question using the supplied transcript context and the
// replayed history. The service keeps no conversation state of its own.
func (c *Client) Chat(ctx context.Context, contextBlock string, history []Message, question string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: buildChatSystemPrompt(contextBlock),
		},
	}

	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})

	resp, err := c.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
