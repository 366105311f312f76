package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Fixed description sentinels shown while a description is generated or after it failed.
const (
	GeneratingDescription = "Generating description..."
	FailedDescription     = "Error: Could not generate description."
)

// DescriptionState is the lifecycle phase of an image description
type DescriptionState int

const (
	DescriptionPending DescriptionState = iota
	DescriptionReady
	DescriptionFailed
)

func (s DescriptionState) String() string {
	switch s {
	case DescriptionPending:
		return "pending"
	case DescriptionReady:
		return "ready"
	case DescriptionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Description is the tagged description of an image. A pending description
// is resolved exactly once, either to ready text or to a failure reason.
type Description struct {
	State  DescriptionState
	Text   string
	Reason string
}

// PendingDescription returns the placeholder description of a new upload
func PendingDescription() Description {
	return Description{State: DescriptionPending}
}

// ReadyDescription returns a description holding generated or dataset text
func ReadyDescription(text string) Description {
	return Description{State: DescriptionReady, Text: text}
}

// FailedDescriptionFor returns a failed description carrying the reason
func FailedDescriptionFor(reason string) Description {
	return Description{State: DescriptionFailed, Reason: reason}
}

// Display returns the text a viewer should see for the description.
func (d Description) Display() string {
	switch d.State {
	case DescriptionPending:
		return GeneratingDescription
	case DescriptionFailed:
		return FailedDescription
	default:
		return d.Text
	}
}

// ImageRecord is a single entry of the image catalog
type ImageRecord struct {
	ID          string      `json:"id"`
	Description Description `json:"-"`
	URL         string      `json:"url"`
}

// MarshalJSON flattens the tagged description into the display string plus its state.
func (r ImageRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID               string `json:"id"`
		Description      string `json:"description"`
		DescriptionState string `json:"description_state"`
		URL              string `json:"url"`
	}{
		ID:               r.ID,
		Description:      r.Description.Display(),
		DescriptionState: r.Description.State.String(),
		URL:              r.URL,
	})
}

// LayoutName names one of the spatial layouts
type LayoutName string

const (
	LayoutSphere LayoutName = "sphere"
	LayoutGrid   LayoutName = "grid"
)

// LayoutNames lists every known layout in a stable order
var LayoutNames = []LayoutName{LayoutSphere, LayoutGrid}

// ParseLayoutName validates a layout name
func ParseLayoutName(name string) (LayoutName, error) {
	switch l := LayoutName(strings.ToLower(strings.TrimSpace(name))); l {
	case LayoutSphere, LayoutGrid:
		return l, nil
	default:
		return "", fmt.Errorf("unknown layout %q", name)
	}
}

// Vec3 is a 3-D coordinate triple
type Vec3 [3]float64

// Positions maps image ids to coordinates
type Positions map[string]Vec3

// Clone returns an independent copy of the positions
func (p Positions) Clone() Positions {
	if p == nil {
		return nil
	}
	dup := make(Positions, len(p))
	for id, v := range p {
		dup[id] = v
	}
	return dup
}

// LayoutTable maps each layout name to its per-image coordinates
type LayoutTable map[LayoutName]Positions

// Clone returns a deep copy of the table
func (t LayoutTable) Clone() LayoutTable {
	if t == nil {
		return nil
	}
	dup := make(LayoutTable, len(t))
	for name, positions := range t {
		dup[name] = positions.Clone()
	}
	return dup
}

// IDSet is a set of image ids
type IDSet map[string]struct{}

// NewIDSet builds a set from the given ids
func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is in the set
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Clone returns an independent copy of the set
func (s IDSet) Clone() IDSet {
	if s == nil {
		return nil
	}
	dup := make(IDSet, len(s))
	for id := range s {
		dup[id] = struct{}{}
	}
	return dup
}

// MarshalJSON encodes the set as a JSON array
func (s IDSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return json.Marshal(ids)
}

// TruncateDescription shortens a description to wordLimit words, appending " ..."
// when words were dropped.
func TruncateDescription(description string, wordLimit int) string {
	if description == "" {
		return ""
	}
	words := strings.Split(description, " ")
	if len(words) <= wordLimit {
		return description
	}
	return strings.Join(words[:wordLimit], " ") + " ..."
}

// Upload is a file handed to the upload pipeline
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}
