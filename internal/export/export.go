package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/photosphere/internal/store"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Row is one exported catalog entry with its active position
type Row struct {
	ID               string  `parquet:"id" yaml:"id"`
	Description      string  `parquet:"description" yaml:"description"`
	DescriptionState string  `parquet:"description_state" yaml:"descriptionstate"`
	URL              string  `parquet:"url" yaml:"url"`
	Highlighted      bool    `parquet:"highlighted" yaml:"highlighted"`
	X                float64 `parquet:"x" yaml:"x"`
	Y                float64 `parquet:"y" yaml:"y"`
	Z                float64 `parquet:"z" yaml:"z"`
}

// Catalog is the YAML document written by WriteYAML
type Catalog struct {
	Layout     string `yaml:"layout"`
	Caption    string `yaml:"caption,omitempty"`
	ExportedAt string `yaml:"exportedat"`
	Images     []Row  `yaml:"images"`
}

// Rows flattens the catalog of a snapshot, in catalog order
func Rows(state store.State) []Row {
	rows := make([]Row, 0, len(state.Images))
	for _, img := range state.Images {
		pos := state.NodePositions[img.ID]
		rows = append(rows, Row{
			ID:               img.ID,
			Description:      img.Description.Display(),
			DescriptionState: img.Description.State.String(),
			URL:              img.URL,
			Highlighted:      state.HighlightNodes.Has(img.ID),
			X:                pos[0],
			Y:                pos[1],
			Z:                pos[2],
		})
	}
	return rows
}

// Write exports the snapshot to path in the given format ("yaml" or "parquet").
// An empty format is inferred from the file extension.
func Write(state store.State, path, format string) error {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "yaml", "yml":
		return WriteYAML(state, path)
	case "parquet":
		return WriteParquet(state, path)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: yaml, parquet)", format)
	}
}

// WriteYAML writes the catalog and active layout as a YAML document
func WriteYAML(state store.State, path string) error {
	doc := Catalog{
		Layout:     string(state.Layout),
		Caption:    state.Caption,
		ExportedAt: time.Now().Format(time.RFC3339),
		Images:     Rows(state),
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

// WriteParquet writes one row per image
func WriteParquet(state store.State, path string) error {
	if err := parquet.WriteFile(path, Rows(state)); err != nil {
		return fmt.Errorf("failed to write parquet file: %w", err)
	}
	return nil
}

// ReadParquet loads rows previously written by WriteParquet
func ReadParquet(path string) ([]Row, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}

