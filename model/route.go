package model

import "errors"

// MaxCheckpoints bounds the length of a route.
const MaxCheckpoints = 3

var ErrRouteTooLong = errors.New("route has more than three checkpoints")

// Checkpoint is a waypoint of a route.
type Checkpoint struct {
	Pos     Position
	Reached bool
}

// Route is an ordered list of checkpoints that must be reached first to
// last. A missing checkpoint is simply absent from the slice.
type Route []Checkpoint

// NewRoute builds an unreached route through the given positions.
func NewRoute(points ...Position) (Route, error) {
	if len(points) > MaxCheckpoints {
		return nil, ErrRouteTooLong
	}
	r := make(Route, len(points))
	for i, p := range points {
		r[i] = Checkpoint{Pos: p}
	}
	return r, nil
}

// Reached reports whether checkpoint i (0-based) counts as reached. A
// checkpoint only counts once every earlier one has been reached too.
func (r Route) Reached(i int) bool {
	if i < 0 || i >= len(r) {
		return false
	}
	for j := 0; j <= i; j++ {
		if !r[j].Reached {
			return false
		}
	}
	return true
}

// Next returns the index of the next checkpoint to march to, or false when
// the route is exhausted.
func (r Route) Next() (int, bool) {
	for i, c := range r {
		if !c.Reached {
			return i, true
		}
	}
	return 0, false
}

// Final returns the last checkpoint of the route, or false for an empty one.
func (r Route) Final() (Checkpoint, bool) {
	if len(r) == 0 {
		return Checkpoint{}, false
	}
	return r[len(r)-1], true
}

// Completed reports whether the final checkpoint carries its reached flag.
// Earlier flags are not consulted. An empty route is trivially complete.
func (r Route) Completed() bool {
	if len(r) == 0 {
		return true
	}
	return r[len(r)-1].Reached
}

// Advance marks the next checkpoint reached when pos is on it. Later
// checkpoints are never reached out of turn.
func (r Route) Advance(pos Position) bool {
	i, ok := r.Next()
	if !ok || r[i].Pos != pos {
		return false
	}
	r[i].Reached = true
	return true
}
