package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
)

func TestNew(t *testing.T) {
	s := New()
	snap := s.Snapshot()

	if snap.Layout != models.LayoutSphere {
		t.Errorf("Expected sphere layout, got %s", snap.Layout)
	}
	if snap.DidInit || snap.IsFetching || snap.IsSidebarOpen {
		t.Errorf("Expected all flags false, got %+v", snap)
	}
	if snap.HighlightNodes != nil {
		t.Errorf("Expected no highlight, got %v", snap.HighlightNodes)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := New()
	s.Update(func(st *State) {
		st.Images = []models.ImageRecord{{ID: "a", Description: models.ReadyDescription("A")}}
		st.Layouts = models.LayoutTable{models.LayoutSphere: {"a": {1, 2, 3}}}
		st.NodePositions = models.Positions{"a": {1, 2, 3}}
		st.HighlightNodes = models.NewIDSet("a")
	})

	snap := s.Snapshot()
	snap.Images[0].ID = "changed"
	snap.Layouts[models.LayoutSphere]["a"] = models.Vec3{9, 9, 9}
	snap.NodePositions["a"] = models.Vec3{9, 9, 9}
	delete(snap.HighlightNodes, "a")

	again := s.Snapshot()
	if again.Images[0].ID != "a" {
		t.Errorf("Snapshot should clone images; got id %s", again.Images[0].ID)
	}
	if again.Layouts[models.LayoutSphere]["a"] != (models.Vec3{1, 2, 3}) {
		t.Errorf("Snapshot should clone layouts; got %v", again.Layouts[models.LayoutSphere]["a"])
	}
	if again.NodePositions["a"] != (models.Vec3{1, 2, 3}) {
		t.Errorf("Snapshot should clone positions; got %v", again.NodePositions["a"])
	}
	if !again.HighlightNodes.Has("a") {
		t.Error("Snapshot should clone highlight set")
	}
}

func TestUpdateDoesNotLeakIntoEarlierSnapshots(t *testing.T) {
	s := New()
	s.Update(func(st *State) {
		st.Images = []models.ImageRecord{{ID: "a", Description: models.PendingDescription()}}
	})
	before := s.Snapshot()

	s.Update(func(st *State) {
		st.Images[0].Description = models.ReadyDescription("done")
		st.Caption = "updated"
	})

	if before.Images[0].Description.State != models.DescriptionPending {
		t.Errorf("Earlier snapshot changed: %+v", before.Images[0])
	}
	if before.Caption != "" {
		t.Errorf("Earlier snapshot caption changed to %q", before.Caption)
	}
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	s := New()
	const writers = 100

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Update(func(st *State) {
				id := fmt.Sprintf("img-%d", i)
				st.Images = append([]models.ImageRecord{{ID: id}}, st.Images...)
				st.NodePositions[id] = models.Vec3{}
			})
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	if len(snap.Images) != writers {
		t.Errorf("Expected %d images, got %d", writers, len(snap.Images))
	}
	if len(snap.NodePositions) != writers {
		t.Errorf("Expected %d positions, got %d", writers, len(snap.NodePositions))
	}
	if s.Version() != writers {
		t.Errorf("Expected version %d, got %d", writers, s.Version())
	}
}

func TestStateImageLookup(t *testing.T) {
	st := State{Images: []models.ImageRecord{{ID: "a"}, {ID: "b"}}}

	if img, ok := st.Image("b"); !ok || img.ID != "b" {
		t.Errorf("Expected to find b, got %+v (%v)", img, ok)
	}
	if st.HasImage("c") {
		t.Error("Expected c to be absent")
	}
	if st.ImageIndex("a") != 0 {
		t.Errorf("Expected index 0, got %d", st.ImageIndex("a"))
	}
}
