package model

import "fmt"

// Altitude bands run from MinAltitude to MaxAltitude. Sightlines are sampled
// on exactly this many bands.
const (
	MinAltitude = 1
	MaxAltitude = 5
)

// Nation identifies a power on the field. Each side fights for one or more
// nations; sectors remember which nation owns and which currently holds them.
type Nation int

// NoNation marks a sector nobody controls.
const NoNation Nation = -1

// Position is a sector coordinate on the battle map.
type Position struct {
	X int `json:"x" mapstructure:"x"`
	Y int `json:"y" mapstructure:"y"`
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Sector is one terrain cell of the field.
type Sector struct {
	X             int
	Y             int
	Altitude      int
	Wall          bool
	Fortification bool
	Settlement    bool // buildings of a village or town
	Forest        bool
	MinorRiver    bool // fordable; does not block sight
	Strategic     bool
	Owner         Nation // nation the strategic point belongs to
	Controller    Nation // nation currently holding the sector
}

// Pos returns the sector's coordinate.
func (s Sector) Pos() Position { return Position{X: s.X, Y: s.Y} }

// Occludes reports whether the sector carries a feature tall enough to raise
// the sightline obstruction by one band.
func (s Sector) Occludes() bool {
	return s.Wall || s.Fortification || s.Settlement || s.Forest
}

// Map is the battlefield sector grid, addressed Sectors[x][y].
type Map struct {
	Width   int
	Height  int
	Sectors [][]Sector
}

// NewMap builds a width x height map of open sectors at the given altitude
// with no controller.
func NewMap(width, height, altitude int) *Map {
	m := &Map{Width: width, Height: height, Sectors: make([][]Sector, width)}
	for x := 0; x < width; x++ {
		col := make([]Sector, height)
		for y := range col {
			col[y] = Sector{X: x, Y: y, Altitude: altitude, Owner: NoNation, Controller: NoNation}
		}
		m.Sectors[x] = col
	}
	return m
}

// InBounds reports whether p addresses a sector of the map.
func (m *Map) InBounds(p Position) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// At returns the sector at p. Callers validate bounds first; an
// out-of-bounds position panics.
func (m *Map) At(p Position) *Sector {
	if !m.InBounds(p) {
		panic(fmt.Sprintf("model: sector %v outside %dx%d map", p, m.Width, m.Height))
	}
	return &m.Sectors[p.X][p.Y]
}

// StrategicPoints returns every strategic sector position in x-major order.
func (m *Map) StrategicPoints() []Position {
	var out []Position
	for x := 0; x < m.Width; x++ {
		for y := 0; y < m.Height; y++ {
			if m.Sectors[x][y].Strategic {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// StrategicPointsOwnedBy returns the strategic points that belong to any of
// the given nations, whoever holds them now.
func (m *Map) StrategicPointsOwnedBy(nations []Nation) []Position {
	var out []Position
	for _, p := range m.StrategicPoints() {
		if containsNation(nations, m.Sectors[p.X][p.Y].Owner) {
			out = append(out, p)
		}
	}
	return out
}

// HeldBy reports whether the sector at p is currently controlled by one of
// the given nations. Out-of-bounds positions are never held.
func (m *Map) HeldBy(p Position, nations []Nation) bool {
	if !m.InBounds(p) {
		return false
	}
	return containsNation(nations, m.Sectors[p.X][p.Y].Controller)
}

func containsNation(nations []Nation, n Nation) bool {
	if n == NoNation {
		return false
	}
	for _, v := range nations {
		if v == n {
			return true
		}
	}
	return false
}
