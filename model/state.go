package model

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

// Battlefield is the read-only view of a battle session that the decision
// layer consumes. The orchestrator owns the state behind it.
type Battlefield interface {
	Round() int
	// Units returns the alive units of a side in ascending id order.
	Units(side Side) []*Unit
	Unit(id int) (*Unit, bool)
	UnitAt(p Position) (*Unit, bool)
	Map() *Map
	Nations(side Side) []Nation
}

var (
	ErrDuplicateUnit = errors.New("duplicate unit id")
	ErrUnknownUnit   = errors.New("unknown unit")
	ErrOccupied      = errors.New("sector already occupied")
)

// State is an in-memory battle session: an arena of units addressed by id
// over a single map. It satisfies Battlefield.
type State struct {
	round   int
	field   *Map
	nations [2][]Nation
	units   map[int]*Unit
	dead    map[int]bool
}

// NewState creates a session on m with the nations fighting for each side.
func NewState(m *Map, sideA, sideB []Nation) *State {
	return &State{
		round:   1,
		field:   m,
		nations: [2][]Nation{sideA, sideB},
		units:   make(map[int]*Unit),
		dead:    make(map[int]bool),
	}
}

func (s *State) Round() int { return s.round }

// SetRound is called by the battle loop as rounds advance.
func (s *State) SetRound(r int) { s.round = r }

func (s *State) Map() *Map { return s.field }

func (s *State) Nations(side Side) []Nation { return s.nations[side] }

// AddUnit places a new alive unit on the field.
func (s *State) AddUnit(u *Unit) error {
	if _, ok := s.units[u.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateUnit, u.ID)
	}
	if !s.field.InBounds(u.Pos) {
		return fmt.Errorf("unit %d at %v: outside the map", u.ID, u.Pos)
	}
	if other, ok := s.UnitAt(u.Pos); ok {
		return fmt.Errorf("%w: %v by unit %d", ErrOccupied, u.Pos, other.ID)
	}
	s.units[u.ID] = u
	return nil
}

// Unit returns the alive unit with the given id.
func (s *State) Unit(id int) (*Unit, bool) {
	u, ok := s.units[id]
	if !ok || s.dead[id] {
		return nil, false
	}
	return u, true
}

// Units returns the alive units of side in ascending id order.
func (s *State) Units(side Side) []*Unit {
	var out []*Unit
	for id, u := range s.units {
		if u.Side == side && !s.dead[id] {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UnitAt returns the alive unit occupying p.
func (s *State) UnitAt(p Position) (*Unit, bool) {
	for id, u := range s.units {
		if u.Pos == p && !s.dead[id] {
			return u, true
		}
	}
	return nil, false
}

// Kill marks a unit destroyed or fled; it no longer appears on the field.
func (s *State) Kill(id int) error {
	if _, ok := s.Unit(id); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownUnit, id)
	}
	s.dead[id] = true
	return nil
}

// Move relocates an alive unit and advances its route when it lands on the
// next checkpoint.
func (s *State) Move(id int, to Position) error {
	u, ok := s.Unit(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownUnit, id)
	}
	if !s.field.InBounds(to) {
		return fmt.Errorf("unit %d to %v: outside the map", id, to)
	}
	if other, ok := s.UnitAt(to); ok && other.ID != id {
		return fmt.Errorf("%w: %v by unit %d", ErrOccupied, to, other.ID)
	}
	u.Pos = to
	if mv, ok := u.Basic.(Move); ok {
		mv.Route.Advance(to)
	}
	return nil
}

// Validate checks the session for data errors and reports all of them.
func (s *State) Validate() error {
	var err error
	if s.field == nil {
		return errors.New("state has no map")
	}
	for x := 0; x < s.field.Width; x++ {
		for y := 0; y < s.field.Height; y++ {
			alt := s.field.Sectors[x][y].Altitude
			if alt < MinAltitude || alt > MaxAltitude {
				err = multierr.Append(err, fmt.Errorf("sector (%d,%d): altitude %d outside %d..%d", x, y, alt, MinAltitude, MaxAltitude))
			}
		}
	}
	ids := make([]int, 0, len(s.units))
	for id := range s.units {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		u := s.units[id]
		if !u.Side.Valid() {
			err = multierr.Append(err, fmt.Errorf("unit %d: invalid side %d", id, u.Side))
		}
		if u.Basic == nil {
			err = multierr.Append(err, fmt.Errorf("unit %d: no basic order", id))
		}
		err = multierr.Append(err, validateOrder(id, u.Basic))
		if u.Additional.Set() {
			err = multierr.Append(err, validateOrder(id, u.Additional.Order))
			if n := len(u.Additional.Trigger.StrategicPoints); n > MaxStrategicPoints {
				err = multierr.Append(err, fmt.Errorf("unit %d: %d custom strategic points, at most %d", id, n, MaxStrategicPoints))
			}
		}
	}
	return err
}

func validateOrder(id int, o Order) error {
	switch v := o.(type) {
	case Move:
		if len(v.Route) > MaxCheckpoints {
			return fmt.Errorf("unit %d: %w", id, ErrRouteTooLong)
		}
	case FollowDetachment:
		if v.LeaderID == id {
			return fmt.Errorf("unit %d: follows itself", id)
		}
	}
	return nil
}
