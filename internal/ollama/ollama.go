package ollama

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

const defaultURL = "http://localhost:11434"

// Ollama is a provider for Ollama
type Ollama struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a new Ollama provider pointed at OLLAMA_URL (or OLLAMA_HOST)
func New() *Ollama {
	baseURL := os.Getenv("OLLAMA_URL")
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_HOST")
	}
	if baseURL == "" {
		baseURL = defaultURL
	}
	return &Ollama{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
	}
}

// Generate sends the prompt and any attached images to /api/generate
func (o *Ollama) Generate(ctx context.Context, config providers.Config) (string, error) {
	body := map[string]interface{}{
		"model":  config.Model,
		"prompt": config.Prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": config.Temperature,
		},
	}
	if len(config.Images) > 0 {
		images := make([]string, 0, len(config.Images))
		for _, img := range config.Images {
			images = append(images, base64.StdEncoding.EncodeToString(img.Data))
		}
		body["images"] = images
	}

	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.BaseURL+"/api/generate", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return response.Response, nil
}
