package explorer

import (
	"fmt"

	"github.com/lehigh-university-libraries/photosphere/internal/layout"
	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/lehigh-university-libraries/photosphere/internal/store"
)

// SelectImage puts id under detail view. Selecting the image that is already
// selected, or passing an empty id, clears the selection instead. Either way
// the highlight is dropped.
func (e *Explorer) SelectImage(id string) error {
	var err error
	selected := false
	e.store.Update(func(s *store.State) {
		if id == "" || id == s.TargetImage {
			s.TargetImage = ""
			s.IsFetching = false
			s.HighlightNodes = nil
			return
		}
		if !s.HasImage(id) {
			err = fmt.Errorf("%w: %s", ErrUnknownImage, id)
			return
		}
		s.TargetImage = id
		s.IsFetching = true
		s.HighlightNodes = nil
		s.IsSidebarOpen = true
		selected = true
	})
	if err != nil || !selected {
		return err
	}

	// Detail data is already part of the catalog record, so the fetch settles at once.
	e.store.Update(func(s *store.State) {
		s.IsFetching = false
	})
	return nil
}

// ToggleSidebar flips the sidebar; the selection is kept.
func (e *Explorer) ToggleSidebar() {
	e.store.Update(func(s *store.State) {
		s.IsSidebarOpen = !s.IsSidebarOpen
	})
}

// SetSidebarOpen opens or closes the sidebar.
func (e *Explorer) SetSidebarOpen(open bool) {
	e.store.Update(func(s *store.State) {
		s.IsSidebarOpen = open
	})
}

// SetXRayMode switches the renderer's x-ray flag.
func (e *Explorer) SetXRayMode(enabled bool) {
	e.store.Update(func(s *store.State) {
		s.XRayMode = enabled
	})
}

// SetLayout activates the named layout and its positions in one mutation.
func (e *Explorer) SetLayout(name models.LayoutName) error {
	return layout.Switch(e.store, name)
}

// SetSphereLayout replaces the sphere layout table, for example after an
// external recompute. Catalog images missing from positions keep their
// previous sphere entry, or get a random one. Active positions are untouched
// until the next SetLayout.
func (e *Explorer) SetSphereLayout(positions models.Positions) {
	e.store.Update(func(s *store.State) {
		if s.Layouts == nil {
			s.Layouts = models.LayoutTable{}
		}
		previous := s.Layouts[models.LayoutSphere]
		next := positions.Clone()
		if next == nil {
			next = models.Positions{}
		}
		for _, img := range s.Images {
			if _, ok := next[img.ID]; ok {
				continue
			}
			if pos, ok := previous[img.ID]; ok {
				next[img.ID] = pos
				continue
			}
			next[img.ID] = layout.RandomPosition()
		}
		s.Layouts[models.LayoutSphere] = next
	})
}

// ConsumeCameraReset reports whether a camera reset was requested and clears the request.
func (e *Explorer) ConsumeCameraReset() bool {
	requested := false
	e.store.Update(func(s *store.State) {
		requested = s.ResetCamera
		s.ResetCamera = false
	})
	return requested
}
