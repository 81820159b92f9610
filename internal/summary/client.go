// Package summary generates the note's analysis sections by asking
// Gemini to read the two links of the day, then parsing the rigidly
// formatted markdown it returns.
package summary

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Client wraps the Gemini API for the daily summary call.
type Client struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

// NewClient creates a Gemini client for the given model.
func NewClient(ctx context.Context, apiKey, model string, log *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if log == nil {
		log = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
		log:    log.Named("summary"),
	}, nil
}

// Generate asks the model for the three-section analysis of the main
// article and the daily quote. It returns the raw markdown response;
// ParseSections turns it into note sections.
func (c *Client) Generate(ctx context.Context, mainLink, quoteLink string) (string, error) {
	prompt := buildPrompt(mainLink, quoteLink)

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	c.log.Debug("summary generated", zap.Int("chars", len(text)))
	return text, nil
}

// Close releases the underlying Gemini client. The genai client holds
// no resources that need explicit release, so this is a no-op.
func (c *Client) Close() error {
	return nil
}
