package layout

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/lehigh-university-libraries/photosphere/internal/store"
)

func approx(a, b models.Vec3) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestGridPosition(t *testing.T) {
	tests := []struct {
		name     string
		x, y     float64
		expected models.Vec3
	}{
		{"origin", 0, 0, models.Vec3{0, 0.25, GridDepth}},
		{"full aspect height", 1, 16.0 / 9.0, models.Vec3{1, 1.25, GridDepth}},
		{"midpoint", 0.5, 8.0 / 9.0, models.Vec3{0.5, 0.75, GridDepth}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GridPosition(tt.x, tt.y)
			if !approx(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestResolveGrid(t *testing.T) {
	positions := ResolveGrid(map[string][2]float64{
		"a": {0, 0},
		"b": {1, 16.0 / 9.0},
	})

	if len(positions) != 2 {
		t.Fatalf("Expected 2 positions, got %d", len(positions))
	}
	if !approx(positions["b"], models.Vec3{1, 1.25, GridDepth}) {
		t.Errorf("Unexpected position for b: %v", positions["b"])
	}
}

func TestSwitchSetsLayoutAndPositionsTogether(t *testing.T) {
	s := store.New()
	sphere := models.Positions{"a": {1, 2, 3}}
	grid := models.Positions{"a": {4, 5, 6}, "b": {7, 8, 9}}
	s.Update(func(st *store.State) {
		st.Layouts = models.LayoutTable{models.LayoutSphere: sphere, models.LayoutGrid: grid}
		st.NodePositions = models.Positions{"stale": {0, 0, 0}}
	})

	for _, name := range []models.LayoutName{models.LayoutGrid, models.LayoutSphere, models.LayoutGrid} {
		if err := Switch(s, name); err != nil {
			t.Fatalf("Switch(%s) failed: %v", name, err)
		}
		snap := s.Snapshot()
		if snap.Layout != name {
			t.Errorf("Expected layout %s, got %s", name, snap.Layout)
		}
		if !reflect.DeepEqual(snap.NodePositions, snap.Layouts[name]) {
			t.Errorf("Positions %v do not match layout %s table %v", snap.NodePositions, name, snap.Layouts[name])
		}
	}
}

func TestSwitchUnknownLayout(t *testing.T) {
	s := store.New()
	s.Update(func(st *store.State) {
		st.Layouts = models.LayoutTable{models.LayoutSphere: {"a": {1, 2, 3}}}
		st.NodePositions = models.Positions{"a": {1, 2, 3}}
	})

	err := Switch(s, models.LayoutGrid)
	if !errors.Is(err, ErrUnknownLayout) {
		t.Fatalf("Expected ErrUnknownLayout, got %v", err)
	}
	snap := s.Snapshot()
	if snap.Layout != models.LayoutSphere {
		t.Errorf("Layout changed on failed switch: %s", snap.Layout)
	}
}

func TestApplyClonesTable(t *testing.T) {
	st := store.State{Layouts: models.LayoutTable{models.LayoutSphere: {"a": {1, 2, 3}}}}
	if err := Apply(&st, models.LayoutSphere); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	st.NodePositions["a"] = models.Vec3{0, 0, 0}
	if st.Layouts[models.LayoutSphere]["a"] != (models.Vec3{1, 2, 3}) {
		t.Error("Mutating active positions should not change the layout table")
	}
}

func TestPlace(t *testing.T) {
	st := store.State{
		Layouts: models.LayoutTable{
			models.LayoutSphere: {"a": {1, 2, 3}},
			models.LayoutGrid:   {"a": {4, 5, 6}},
		},
		NodePositions: models.Positions{"a": {1, 2, 3}},
	}

	pos := models.Vec3{0.1, 0.2, 0.3}
	Place(&st, "new", pos)

	if st.NodePositions["new"] != pos {
		t.Errorf("Expected active position %v, got %v", pos, st.NodePositions["new"])
	}
	for _, name := range models.LayoutNames {
		if st.Layouts[name]["new"] != pos {
			t.Errorf("Expected %s table to hold %v, got %v", name, pos, st.Layouts[name]["new"])
		}
	}
}

func TestRandomPositionInUnitCube(t *testing.T) {
	for i := 0; i < 100; i++ {
		pos := RandomPosition()
		for axis, v := range pos {
			if v < 0 || v >= 1 {
				t.Fatalf("Axis %d out of range: %f", axis, v)
			}
		}
	}
}
