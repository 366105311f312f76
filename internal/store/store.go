// Package store holds the single mutable source of truth of the explorer: the
// image catalog, the layout tables, resolved node positions and UI selection state.
//
// Readers take a Snapshot, an independent deep copy. Writers hand Update a
// mutation function which runs against a private copy of the current state;
// the copy replaces the current state only after the function returns, so a
// reader never observes a half-applied mutation. Mutations are serialized and
// no lock is held outside of a Snapshot or Update call.
package store

import (
	"sync"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
)

// State is the full explorer state at a point in time.
type State struct {
	Images        []models.ImageRecord `json:"images"`
	Layout        models.LayoutName    `json:"layout"`
	Layouts       models.LayoutTable   `json:"layouts"`
	NodePositions models.Positions     `json:"node_positions"`

	// TargetImage is the id under detail view; empty means no selection.
	TargetImage   string `json:"target_image,omitempty"`
	IsSidebarOpen bool   `json:"is_sidebar_open"`
	IsFetching    bool   `json:"is_fetching"`

	// Caption is the last query commentary or an upload status; empty means none.
	Caption string `json:"caption,omitempty"`

	// HighlightNodes is nil when nothing is highlighted.
	HighlightNodes models.IDSet `json:"highlight_nodes"`

	ResetCamera bool `json:"reset_camera"`
	XRayMode    bool `json:"xray_mode"`
	DidInit     bool `json:"did_init"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	dup := s
	if s.Images != nil {
		dup.Images = make([]models.ImageRecord, len(s.Images))
		copy(dup.Images, s.Images)
	}
	dup.Layouts = s.Layouts.Clone()
	dup.NodePositions = s.NodePositions.Clone()
	dup.HighlightNodes = s.HighlightNodes.Clone()
	return dup
}

// Image returns the catalog record with the given id.
func (s State) Image(id string) (models.ImageRecord, bool) {
	if i := s.ImageIndex(id); i >= 0 {
		return s.Images[i], true
	}
	return models.ImageRecord{}, false
}

// ImageIndex returns the position of id in Images, or -1.
func (s State) ImageIndex(id string) int {
	for i := range s.Images {
		if s.Images[i].ID == id {
			return i
		}
	}
	return -1
}

// HasImage reports whether id is in the catalog.
func (s State) HasImage(id string) bool {
	return s.ImageIndex(id) >= 0
}

// Store coordinates concurrent reads and mutations of the state.
type Store struct {
	mu      sync.RWMutex
	state   State
	version uint64
}

// New returns an empty store with the sphere layout active.
func New() *Store {
	return &Store{
		state: State{
			Layout:        models.LayoutSphere,
			Layouts:       models.LayoutTable{},
			NodePositions: models.Positions{},
		},
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Update applies fn to a copy of the current state and commits the result.
// fn must not block; it runs with the store locked.
func (s *Store) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	fn(&next)
	s.state = next
	s.version++
}

// Version counts committed updates.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
