package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/lehigh-university-libraries/photosphere/internal/store"
	"gopkg.in/yaml.v3"
)

func testState() store.State {
	return store.State{
		Images: []models.ImageRecord{
			{ID: "a.jpg", Description: models.ReadyDescription("A red barn"), URL: "https://example.org/a.jpg"},
			{ID: "local-1-b.png", Description: models.PendingDescription(), URL: "/blobs/local-1-b.png"},
			{ID: "local-2-c.png", Description: models.FailedDescriptionFor("timeout"), URL: "/blobs/local-2-c.png"},
		},
		Layout: models.LayoutGrid,
		NodePositions: models.Positions{
			"a.jpg":         {0.1, 0.2, 0.5},
			"local-1-b.png": {0.3, 0.4, 0.5},
		},
		Caption:        "barns",
		HighlightNodes: models.NewIDSet("a.jpg"),
	}
}

func TestRows(t *testing.T) {
	rows := Rows(testState())
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}

	tests := []struct {
		row         Row
		id          string
		description string
		state       string
		highlighted bool
		x           float64
	}{
		{rows[0], "a.jpg", "A red barn", "ready", true, 0.1},
		{rows[1], "local-1-b.png", models.GeneratingDescription, "pending", false, 0.3},
		{rows[2], "local-2-c.png", models.FailedDescription, "failed", false, 0},
	}
	for _, tt := range tests {
		if tt.row.ID != tt.id || tt.row.Description != tt.description || tt.row.DescriptionState != tt.state {
			t.Errorf("Unexpected row %+v", tt.row)
		}
		if tt.row.Highlighted != tt.highlighted {
			t.Errorf("%s: expected highlighted=%v", tt.id, tt.highlighted)
		}
		if tt.row.X != tt.x {
			t.Errorf("%s: expected x=%v, got %v", tt.id, tt.x, tt.row.X)
		}
	}
}

func TestWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := Write(testState(), path, ""); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc Catalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Invalid YAML: %v", err)
	}
	if doc.Layout != "grid" || doc.Caption != "barns" || len(doc.Images) != 3 {
		t.Errorf("Unexpected document %+v", doc)
	}
	if doc.ExportedAt == "" {
		t.Error("Expected export timestamp")
	}
}

func TestWriteParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.out")
	state := testState()
	if err := Write(state, path, "parquet"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	rows, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("ReadParquet failed: %v", err)
	}
	want := Rows(state)
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("Row %d: expected %+v, got %+v", i, want[i], rows[i])
		}
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	err := Write(testState(), filepath.Join(t.TempDir(), "catalog.csv"), "")
	if err == nil || !strings.Contains(err.Error(), "unsupported export format") {
		t.Errorf("Expected unsupported format error, got %v", err)
	}
}
