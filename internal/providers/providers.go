package providers

import (
	"context"
	"strings"
)

// Image is an inline image attached to a generation request
type Image struct {
	MIMEType string
	Data     []byte
}

// Format returns the short image format ("png", "jpeg") derived from the MIME type
func (i Image) Format() string {
	format := strings.TrimPrefix(strings.ToLower(i.MIMEType), "image/")
	if format == "" || format == "jpg" {
		return "jpeg"
	}
	return format
}

// Config represents the configuration for a single generation request
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	Images      []Image
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Generate(ctx context.Context, config Config) (string, error)
}
