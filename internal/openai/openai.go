package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/lehigh-university-libraries/photosphere/internal/providers"
)

const defaultURL = "https://api.openai.com/v1"

// OpenAI is a provider for OpenAI
type OpenAI struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// New returns a new OpenAI provider configured from OPENAI_API_KEY and OPENAI_BASE_URL
func New() *OpenAI {
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultURL
	}
	return &OpenAI{
		BaseURL:    baseURL,
		APIKey:     os.Getenv("OPENAI_API_KEY"),
		HTTPClient: &http.Client{},
	}
}

// Generate sends a single user message, with images as data URLs, to the chat completions API
func (o *OpenAI) Generate(ctx context.Context, config providers.Config) (string, error) {
	if o.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	var content interface{} = config.Prompt
	if len(config.Images) > 0 {
		parts := []map[string]interface{}{
			{"type": "text", "text": config.Prompt},
		}
		for _, img := range config.Images {
			parts = append(parts, map[string]interface{}{
				"type": "image_url",
				"image_url": map[string]string{
					"url": "data:image/" + img.Format() + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
				},
			})
		}
		content = parts
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model": config.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": content,
			},
		},
		"temperature": config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.BaseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return response.Choices[0].Message.Content, nil
}
