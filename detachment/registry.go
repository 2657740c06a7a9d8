// Package detachment tracks which brigades follow which leader.
//
// The graph is rebuilt from resolved orders once per side at the start of
// each evaluation rather than patched as orders change. Removing a leader
// sends its whole detachment into retreat.
package detachment

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/nstehr/fieldbattle/logs"
	"github.com/nstehr/fieldbattle/model"
)

// ErrUnknownLeader means a follow order names a leader that is not an alive
// unit of the follower's side. The simulation state is out of sync.
var ErrUnknownLeader = errors.New("detachment leader not found")

// LeaderRefError reports the follower holding a dangling leader reference.
type LeaderRefError struct {
	Side       model.Side
	FollowerID int
	LeaderID   int
}

func (e *LeaderRefError) Error() string {
	return fmt.Sprintf("side %d: unit %d follows unit %d: %v", e.Side, e.FollowerID, e.LeaderID, ErrUnknownLeader)
}

func (e *LeaderRefError) Unwrap() error { return ErrUnknownLeader }

// Resolver yields the order a unit currently obeys.
type Resolver interface {
	Resolve(u *model.Unit) model.Order
}

// graph is one side's leader/follower relation keyed by unit id.
type graph struct {
	followers map[int]map[int]struct{} // leader → followers
	leaderOf  map[int]int              // follower → leader
}

func newGraph() *graph {
	return &graph{
		followers: make(map[int]map[int]struct{}),
		leaderOf:  make(map[int]int),
	}
}

func (g *graph) link(leader, follower int) {
	set, ok := g.followers[leader]
	if !ok {
		set = make(map[int]struct{})
		g.followers[leader] = set
	}
	set[follower] = struct{}{}
	g.leaderOf[follower] = leader
}

// Registry holds the detachment graph of both sides for one battle session.
type Registry struct {
	field    model.Battlefield
	resolver Resolver
	sides    [2]*graph
}

// NewRegistry returns an empty registry.
func NewRegistry(field model.Battlefield, resolver Resolver) *Registry {
	return &Registry{
		field:    field,
		resolver: resolver,
		sides:    [2]*graph{newGraph(), newGraph()},
	}
}

// Rebuild discards side's graph and recomputes it from the orders currently
// in effect for its alive units. On a dangling leader reference the side is
// left with no detachments and a *LeaderRefError is returned.
func (r *Registry) Rebuild(side model.Side) error {
	g := newGraph()
	r.sides[side] = g

	alive := make(map[int]bool)
	units := r.field.Units(side)
	for _, u := range units {
		alive[u.ID] = true
	}

	for _, u := range units {
		follow, ok := r.resolver.Resolve(u).(model.FollowDetachment)
		if !ok {
			continue
		}
		if !alive[follow.LeaderID] {
			r.sides[side] = newGraph()
			return &LeaderRefError{Side: side, FollowerID: u.ID, LeaderID: follow.LeaderID}
		}
		g.link(follow.LeaderID, u.ID)
	}

	logs.Debug("detachments rebuilt",
		zap.Int("side", int(side)),
		zap.Int("leaders", len(g.followers)),
		zap.Int("followers", len(g.leaderOf)),
	)
	return nil
}

// ForcedRetreat is the order a follower must take once its leader is gone.
type ForcedRetreat struct {
	UnitID int
	Order  model.Retreat
}

// Remove takes a unit out of the graph. A follower is detached from its
// leader. A leader's followers are all unlinked and returned with the
// retreat they are now bound to; applying it is left to the caller.
func (r *Registry) Remove(id int) []ForcedRetreat {
	var forced []ForcedRetreat
	for side, g := range r.sides {
		if leader, ok := g.leaderOf[id]; ok {
			delete(g.leaderOf, id)
			set := g.followers[leader]
			delete(set, id)
			if len(set) == 0 {
				delete(g.followers, leader)
			}
		}

		set, ok := g.followers[id]
		if !ok {
			continue
		}
		for _, f := range sortedIDs(set) {
			delete(g.leaderOf, f)
			forced = append(forced, ForcedRetreat{
				UnitID: f,
				Order:  model.Retreat{Target: nil, Formation: model.Column},
			})
		}
		delete(g.followers, id)
		logs.Warn("detachment leader removed",
			zap.Int("side", side),
			zap.Int("leader", id),
			zap.Int("retreating", len(set)),
		)
	}
	return forced
}

// Apply gives each unit its forced retreat as basic order and clears its
// additional order. Units no longer alive are skipped.
func Apply(field model.Battlefield, forced []ForcedRetreat) {
	for _, fr := range forced {
		u, ok := field.Unit(fr.UnitID)
		if !ok {
			continue
		}
		u.Basic = fr.Order
		u.ClearAdditional()
	}
}

// RemoveAndApply removes id and immediately applies the resulting retreats.
func (r *Registry) RemoveAndApply(id int) []ForcedRetreat {
	forced := r.Remove(id)
	Apply(r.field, forced)
	return forced
}

// LeaderOf returns the leader the follower is attached to.
func (r *Registry) LeaderOf(follower int) (int, bool) {
	for _, g := range r.sides {
		if l, ok := g.leaderOf[follower]; ok {
			return l, true
		}
	}
	return 0, false
}

// FollowersOf returns the leader's followers in ascending id order.
func (r *Registry) FollowersOf(leader int) []int {
	for _, g := range r.sides {
		if set, ok := g.followers[leader]; ok {
			return sortedIDs(set)
		}
	}
	return nil
}

// IsLeader reports whether the unit currently leads a detachment.
func (r *Registry) IsLeader(id int) bool {
	for _, g := range r.sides {
		if _, ok := g.followers[id]; ok {
			return true
		}
	}
	return false
}

// Leaders returns every leader in ascending id order.
func (r *Registry) Leaders() []int {
	var out []int
	for _, g := range r.sides {
		for id := range g.followers {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

// Followers returns every follower in ascending id order.
func (r *Registry) Followers() []int {
	var out []int
	for _, g := range r.sides {
		for id := range g.leaderOf {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func sortedIDs(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
