package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/photosphere/internal/gemini"
	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/lehigh-university-libraries/photosphere/internal/ollama"
	"github.com/lehigh-university-libraries/photosphere/internal/openai"
	"github.com/lehigh-university-libraries/photosphere/internal/prompts"
	"github.com/lehigh-university-libraries/photosphere/internal/providers"
)

// Service answers catalog queries and describes uploaded images through one provider
type Service struct {
	provider    providers.Provider
	name        string
	model       string
	temperature float64
}

// NewService creates a service for the named provider ("ollama", "openai" or "gemini").
// Empty name and model fall back to PHOTOSPHERE_PROVIDER and the provider's default model.
func NewService(name, model string, temperature float64) (*Service, error) {
	if name == "" {
		name = os.Getenv("PHOTOSPHERE_PROVIDER")
		if name == "" {
			name = "gemini"
		}
	}

	var provider providers.Provider
	switch name {
	case "ollama":
		provider = ollama.New()
	case "openai":
		provider = openai.New()
	case "gemini":
		provider = gemini.New()
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}

	if model == "" {
		model = DefaultModel(name)
	}

	return NewServiceWithProvider(provider, name, model, temperature), nil
}

// NewServiceWithProvider wraps an already constructed provider
func NewServiceWithProvider(provider providers.Provider, name, model string, temperature float64) *Service {
	return &Service{
		provider:    provider,
		name:        name,
		model:       model,
		temperature: temperature,
	}
}

// DefaultModel returns the model used when none is configured for provider
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		if model := os.Getenv("OPENAI_MODEL"); model != "" {
			return model
		}
		return "gpt-4o"
	case "ollama":
		if model := os.Getenv("OLLAMA_MODEL"); model != "" {
			return model
		}
		return "mistral-small3.2:24b"
	case "gemini":
		if model := os.Getenv("GEMINI_MODEL"); model != "" {
			return model
		}
		return "gemini-2.0-flash"
	default:
		return ""
	}
}

// Provider returns the provider name
func (s *Service) Provider() string {
	return s.name
}

// Model returns the model name
func (s *Service) Model() string {
	return s.model
}

// QueryLLM sends a fully built prompt and returns the raw response text
func (s *Service) QueryLLM(ctx context.Context, prompt string) (string, error) {
	resp, err := s.provider.Generate(ctx, providers.Config{
		Model:       s.model,
		Temperature: s.temperature,
		Prompt:      prompt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to query %s: %w", s.name, err)
	}

	slog.Debug("Query answered", "provider", s.name, "model", s.model, "length", len(resp))
	return resp, nil
}

// GenerateDescription asks the provider to describe an uploaded image
func (s *Service) GenerateDescription(ctx context.Context, file models.Upload) (string, error) {
	if len(file.Data) == 0 {
		return "", fmt.Errorf("image %s is empty", file.Name)
	}

	contentType := file.ContentType
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(file.Data)
	}

	resp, err := s.provider.Generate(ctx, providers.Config{
		Model:       s.model,
		Temperature: s.temperature,
		Prompt:      prompts.DescriptionPrompt(),
		Images:      []providers.Image{{MIMEType: contentType, Data: file.Data}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe %s: %w", file.Name, err)
	}

	description := strings.TrimSpace(resp)
	if description == "" {
		return "", fmt.Errorf("empty description returned for %s", file.Name)
	}

	slog.Info("Generated description", "provider", s.name, "model", s.model, "file", file.Name, "length", len(description))
	return description, nil
}
