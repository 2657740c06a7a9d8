// Package session wires the order resolver, detachment registry and
// visibility engine for one battle.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nstehr/fieldbattle/detachment"
	"github.com/nstehr/fieldbattle/logs"
	"github.com/nstehr/fieldbattle/model"
	"github.com/nstehr/fieldbattle/orders"
	"github.com/nstehr/fieldbattle/vision"
)

// Session owns the decision layer for a single battle. Calls must be
// serialized by the battle loop.
type Session struct {
	Field      model.Battlefield
	Resolver   *orders.Resolver
	Detachment *detachment.Registry
	Vision     *vision.Engine
}

// New builds a session over field.
func New(field model.Battlefield) (*Session, error) {
	res, err := orders.NewResolver(field)
	if err != nil {
		return nil, fmt.Errorf("order resolver: %w", err)
	}
	return &Session{
		Field:      field,
		Resolver:   res,
		Detachment: detachment.NewRegistry(field, res),
		Vision:     vision.New(field),
	}, nil
}

// Resolved is the order a unit obeys this step and the trigger that put it
// in effect, empty for the basic order.
type Resolved struct {
	UnitID  int
	Order   model.Order
	Trigger string
}

// Step begins side's evaluation: detachments are rebuilt from the orders
// now in effect, which are returned in unit id order.
func (s *Session) Step(side model.Side) ([]Resolved, error) {
	if err := s.Detachment.Rebuild(side); err != nil {
		return nil, fmt.Errorf("round %d: %w", s.Field.Round(), err)
	}
	resolved := s.Orders(side)
	logs.Info("side evaluated",
		zap.Int("round", s.Field.Round()),
		zap.Int("side", int(side)),
		zap.Int("units", len(resolved)),
		zap.Ints("leaders", s.Detachment.Leaders()),
	)
	return resolved, nil
}

// Orders resolves every alive unit of side.
func (s *Session) Orders(side model.Side) []Resolved {
	units := s.Field.Units(side)
	out := make([]Resolved, 0, len(units))
	for _, u := range units {
		order, name := s.Resolver.Effective(u)
		out = append(out, Resolved{UnitID: u.ID, Order: order, Trigger: name})
	}
	return out
}

// Remove takes a destroyed or routed unit out of its detachment and applies
// the retreat forced on any followers it led.
func (s *Session) Remove(id int) []detachment.ForcedRetreat {
	return s.Detachment.RemoveAndApply(id)
}

// Sighting is one observer/target pair of a visibility sweep.
type Sighting struct {
	ObserverID int
	TargetID   int
	Visible    bool
	BlockedAt  *model.Position
}

// Sweep checks every alive unit of side against every alive enemy unit.
func (s *Session) Sweep(side model.Side, longRange bool) []Sighting {
	var out []Sighting
	enemies := s.Field.Units(side.Enemy())
	for _, obs := range s.Field.Units(side) {
		for _, tgt := range enemies {
			sg := Sighting{ObserverID: obs.ID, TargetID: tgt.ID}
			if longRange {
				sg.Visible = s.Vision.VisibleForLongRange(obs, tgt)
			} else {
				sl := s.Vision.Trace(obs, tgt)
				sg.Visible = sl.Visible
				if sec, ok := sl.BlockingSector(); ok {
					p := sec.Pos()
					sg.BlockedAt = &p
				}
			}
			out = append(out, sg)
		}
	}
	return out
}
