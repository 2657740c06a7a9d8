// Package vision decides line-of-sight between brigades over the height
// mapped battlefield.
//
// A sightline is resolved in two passes. The planar pass walks the map from
// observer to target and collects the sectors seen from above. Those sectors
// are then stacked into a synthetic grid, one row per sector and one column
// per altitude band, and a second line is walked across that grid from the
// observer's band to the target's band. The target is visible when every
// sample between the two endpoints lies above the obstruction of its row.
package vision

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nstehr/fieldbattle/logs"
	"github.com/nstehr/fieldbattle/model"
	"github.com/nstehr/fieldbattle/raster"
)

// Bands is the number of altitude bands in the side pass grid.
const Bands = model.MaxAltitude - model.MinAltitude + 1

// Engine answers visibility queries against the current battlefield.
type Engine struct {
	field model.Battlefield
}

// New returns an engine reading map and occupancy from field.
func New(field model.Battlefield) *Engine {
	return &Engine{field: field}
}

// Cell is one sample of the side pass: a sector row of the planar line at
// one altitude band.
type Cell struct {
	Row  int
	Band int // 1-based
	Open bool
}

// Sightline is the full working of one visibility query.
type Sightline struct {
	Sectors   []model.Sector // planar pass, observer first
	Augmented []int          // obstruction height per sector
	Samples   []Cell         // side pass, endpoints included
	Visible   bool
	// BlockedBy is the first closed intermediate sample when not visible.
	BlockedBy *Cell
}

// BlockingSector returns the sector that stops the sightline.
func (s Sightline) BlockingSector() (model.Sector, bool) {
	if s.BlockedBy == nil {
		return model.Sector{}, false
	}
	return s.Sectors[s.BlockedBy.Row], true
}

// Visible reports whether observer can see target.
func (e *Engine) Visible(observer, target *model.Unit) bool {
	return e.Trace(observer, target).Visible
}

// VisibleForLongRange is the check used for long-range fire. It currently
// applies the same rules as Visible.
func (e *Engine) VisibleForLongRange(observer, target *model.Unit) bool {
	return e.Visible(observer, target)
}

// Trace resolves the sightline from observer to target and returns every
// intermediate step. Both units must stand on the map.
func (e *Engine) Trace(observer, target *model.Unit) Sightline {
	m := e.field.Map()
	for _, u := range []*model.Unit{observer, target} {
		if !m.InBounds(u.Pos) {
			panic(fmt.Sprintf("vision: unit %d at %v outside %dx%d map", u.ID, u.Pos, m.Width, m.Height))
		}
	}

	sectors := raster.Cells(m.Sectors, observer.Pos.X, observer.Pos.Y, target.Pos.X, target.Pos.Y)

	aug := make([]int, len(sectors))
	grid := make([][]Cell, len(sectors))
	for i, s := range sectors {
		aug[i] = e.augmentedAltitude(s)
		row := make([]Cell, Bands)
		for j := range row {
			b := j + 1
			row[j] = Cell{Row: i, Band: b, Open: b+1 > aug[i]}
		}
		grid[i] = row
	}

	from := band(sectors[0])
	to := band(sectors[len(sectors)-1])
	samples := raster.Cells(grid, 0, from-1, len(grid)-1, to-1)

	sl := Sightline{Sectors: sectors, Augmented: aug, Samples: samples, Visible: true}
	if len(samples) <= 2 {
		return sl
	}
	for i := 1; i < len(samples)-1; i++ {
		if !samples[i].Open {
			c := samples[i]
			sl.Visible = false
			sl.BlockedBy = &c
			logs.Debug("sightline blocked",
				zap.Int("observer", observer.ID),
				zap.Int("target", target.ID),
				zap.Stringer("sector", sectors[c.Row].Pos()),
				zap.Int("band", c.Band),
				zap.Int("obstruction", aug[c.Row]),
			)
			break
		}
	}
	return sl
}

// augmentedAltitude raises a sector by one band when it holds an occluding
// feature or a brigade in close order.
func (e *Engine) augmentedAltitude(s model.Sector) int {
	if s.Occludes() {
		return s.Altitude + 1
	}
	if u, ok := e.field.UnitAt(s.Pos()); ok && u.Formation != model.Skirmish {
		return s.Altitude + 1
	}
	return s.Altitude
}

// band is the altitude band an observer standing on s looks from.
func band(s model.Sector) int {
	return min(max(s.Altitude, model.MinAltitude), model.MaxAltitude)
}
