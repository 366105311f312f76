package explorer

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/lehigh-university-libraries/photosphere/internal/layout"
	"github.com/lehigh-university-libraries/photosphere/internal/models"
)

func TestInitLoadsCatalog(t *testing.T) {
	exp, _ := newTestExplorer(t, nil, Options{StorageRoot: "https://example.org/images/"})

	if err := exp.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	snap := exp.Snapshot()
	if !snap.DidInit {
		t.Error("Expected DidInit=true")
	}
	if snap.IsFetching {
		t.Error("Expected IsFetching=false after bootstrap")
	}
	if len(snap.Images) != 3 {
		t.Fatalf("Expected 3 images, got %d", len(snap.Images))
	}

	first := snap.Images[0]
	if first.ID != "a.jpg" || first.URL != "https://example.org/images/a.jpg" {
		t.Errorf("Unexpected first image: %+v", first)
	}
	if first.Description.State != models.DescriptionReady || first.Description.Text != "A red barn" {
		t.Errorf("Unexpected description: %+v", first.Description)
	}

	if snap.Layout != models.LayoutSphere {
		t.Errorf("Expected sphere layout, got %s", snap.Layout)
	}
	if !reflect.DeepEqual(snap.NodePositions, snap.Layouts[models.LayoutSphere]) {
		t.Errorf("Positions %v do not match sphere table %v", snap.NodePositions, snap.Layouts[models.LayoutSphere])
	}
	if snap.NodePositions["b.jpg"] != (models.Vec3{0.4, 0.5, 0.6}) {
		t.Errorf("Unexpected sphere position for b.jpg: %v", snap.NodePositions["b.jpg"])
	}

	gridC := snap.Layouts[models.LayoutGrid]["c.jpg"]
	want := layout.GridPosition(1, 1)
	for i := range want {
		if math.Abs(gridC[i]-want[i]) > 1e-9 {
			t.Errorf("Expected grid position %v, got %v", want, gridC)
			break
		}
	}
}

func TestInitUsesDefaultStorageRoot(t *testing.T) {
	exp := newLoadedExplorer(t, nil, Options{})

	img, ok := exp.Snapshot().Image("a.jpg")
	if !ok {
		t.Fatal("Expected a.jpg in catalog")
	}
	if img.URL != DefaultStorageRoot+"a.jpg" {
		t.Errorf("Expected default storage root URL, got %s", img.URL)
	}
}

func TestInitRunsOnce(t *testing.T) {
	exp, ds := newTestExplorer(t, nil, Options{})

	if err := exp.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	calls := ds.Calls()
	if calls != 3 {
		t.Errorf("Expected 3 dataset fetches, got %d", calls)
	}

	if err := exp.SetLayout(models.LayoutGrid); err != nil {
		t.Fatalf("SetLayout failed: %v", err)
	}
	if err := exp.Init(context.Background()); err != nil {
		t.Fatalf("Second Init failed: %v", err)
	}

	if ds.Calls() != calls {
		t.Errorf("Second Init fetched datasets again: %d calls", ds.Calls())
	}
	if exp.Snapshot().Layout != models.LayoutGrid {
		t.Error("Second Init should not reset the layout")
	}
}

func TestInitFailureProducesNoCatalog(t *testing.T) {
	exp, ds := newTestExplorer(t, nil, Options{})
	fetchErr := errors.New("network down")
	ds.errs["sphere"] = fetchErr

	err := exp.Init(context.Background())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("Expected wrapped fetch error, got %v", err)
	}

	snap := exp.Snapshot()
	if len(snap.Images) != 0 {
		t.Errorf("Expected no images after failed bootstrap, got %d", len(snap.Images))
	}
	if !snap.DidInit {
		t.Error("DidInit should stay set after a failed bootstrap")
	}
	if snap.IsFetching {
		t.Error("IsFetching should be reset after a failed bootstrap")
	}

	// A retry in the same process is a no-op.
	delete(ds.errs, "sphere")
	if err := exp.Init(context.Background()); err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if len(exp.Snapshot().Images) != 0 {
		t.Error("Retry should not load the catalog")
	}
}

func TestInitRejectsMalformedCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		dataset string
		doc     string
	}{
		{"sphere with two axes", "sphere", `{"a.jpg":[0.1,0.2]}`},
		{"grid with three axes", "umap-grid", `{"a.jpg":[0.1,0.2,0.3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, ds := newTestExplorer(t, nil, Options{})
			ds.docs[tt.dataset] = tt.doc

			if err := exp.Init(context.Background()); err == nil {
				t.Fatal("Expected error for malformed coordinates")
			}
			if len(exp.Snapshot().Images) != 0 {
				t.Error("Expected no catalog after malformed dataset")
			}
		})
	}
}

func TestInitSkipsDuplicateIDs(t *testing.T) {
	exp, ds := newTestExplorer(t, nil, Options{})
	ds.docs["meta"] = `[{"id":"a.jpg","description":"first"},{"id":"a.jpg","description":"second"},{"id":"","description":"none"}]`

	if err := exp.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	snap := exp.Snapshot()
	if len(snap.Images) != 1 {
		t.Fatalf("Expected 1 image, got %d", len(snap.Images))
	}
	if snap.Images[0].Description.Text != "first" {
		t.Errorf("Expected first entry to win, got %q", snap.Images[0].Description.Text)
	}
}
