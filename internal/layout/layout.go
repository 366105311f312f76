package layout

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/lehigh-university-libraries/photosphere/internal/store"
)

const (
	// GridAspect is the width/height ratio of the 2-D projection the grid is built from.
	GridAspect = 16.0 / 9.0
	// GridYOffset recenters the compressed y axis.
	GridYOffset = 0.25
	// GridDepth is the constant z of every grid position.
	GridDepth = 0.5
)

// Midpoint is the neutral starting position of every bootstrapped image.
var Midpoint = models.Vec3{0.5, 0.5, 0.5}

// ErrUnknownLayout is returned when a layout has no table in the store.
var ErrUnknownLayout = errors.New("unknown layout")

// GridPosition maps a 2-D projection coordinate onto the 3-D grid layout.
func GridPosition(x, y float64) models.Vec3 {
	return models.Vec3{x, y/GridAspect + GridYOffset, GridDepth}
}

// ResolveGrid converts a flat 2-D dataset into grid layout positions.
func ResolveGrid(flat map[string][2]float64) models.Positions {
	positions := make(models.Positions, len(flat))
	for id, xy := range flat {
		positions[id] = GridPosition(xy[0], xy[1])
	}
	return positions
}

// RandomPosition returns a position with each axis uniformly drawn from [0, 1).
func RandomPosition() models.Vec3 {
	return models.Vec3{rand.Float64(), rand.Float64(), rand.Float64()}
}

// Apply makes name the active layout inside a store mutation. Layout and
// NodePositions change together so they never disagree.
func Apply(state *store.State, name models.LayoutName) error {
	positions, ok := state.Layouts[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLayout, name)
	}
	state.Layout = name
	state.NodePositions = positions.Clone()
	return nil
}

// Switch atomically activates the named layout.
func Switch(s *store.Store, name models.LayoutName) error {
	var err error
	s.Update(func(state *store.State) {
		err = Apply(state, name)
	})
	return err
}

// Place records pos for id in the active positions and every layout table, so
// that later switches keep the image placed.
func Place(state *store.State, id string, pos models.Vec3) {
	if state.NodePositions == nil {
		state.NodePositions = models.Positions{}
	}
	state.NodePositions[id] = pos
	for name, positions := range state.Layouts {
		if positions == nil {
			positions = models.Positions{}
			state.Layouts[name] = positions
		}
		positions[id] = pos
	}
}
