package model

import "fmt"

// OrderKind tags the concrete order variant.
type OrderKind int

const (
	KindNone OrderKind = iota
	KindMove
	KindDefend
	KindFollowDetachment
	KindRetreat
	KindConstruct
)

var kindNames = [...]string{"none", "move", "defend", "follow", "retreat", "construct"}

func (k OrderKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseOrderKind maps an order kind name back to its value.
func ParseOrderKind(s string) (OrderKind, error) {
	for i, n := range kindNames {
		if n == s {
			return OrderKind(i), nil
		}
	}
	return KindNone, fmt.Errorf("unknown order kind %q", s)
}

// Order is a directive a unit can obey. Each kind carries only the fields
// it needs.
type Order interface {
	Kind() OrderKind
}

// Move marches along a route of up to three checkpoints.
type Move struct {
	Route     Route
	Formation Formation
}

func (Move) Kind() OrderKind { return KindMove }

// Defend holds a position.
type Defend struct {
	Pos Position
}

func (Defend) Kind() OrderKind { return KindDefend }

// FollowDetachment binds the unit to a leader brigade's movement.
type FollowDetachment struct {
	LeaderID int
}

func (FollowDetachment) Kind() OrderKind { return KindFollowDetachment }

// Retreat withdraws toward Target, or off the field when Target is nil.
type Retreat struct {
	Target    *Position
	Formation Formation
}

func (Retreat) Kind() OrderKind { return KindRetreat }

// OffField reports whether the retreat leaves the battlefield entirely.
func (r Retreat) OffField() bool { return r.Target == nil }

// Construct builds field works at Site. Progress is advanced by the
// construction processor each round until it reaches Required.
type Construct struct {
	Site     Position
	Progress int
	Required int
}

func (*Construct) Kind() OrderKind { return KindConstruct }

// Advance adds work to the construction and reports whether it is complete.
func (c *Construct) Advance(work int) bool {
	c.Progress += work
	if c.Progress > c.Required {
		c.Progress = c.Required
	}
	return c.Done()
}

// Done reports whether the works are finished.
func (c *Construct) Done() bool { return c.Progress >= c.Required }

// KindOf returns the kind of o, or KindNone for a nil order.
func KindOf(o Order) OrderKind {
	if o == nil {
		return KindNone
	}
	return o.Kind()
}

// NoHeadcountThreshold disables the headcount trigger.
const NoHeadcountThreshold = -1

// MaxStrategicPoints bounds the custom strategic points of a trigger.
const MaxStrategicPoints = 3

// Trigger lists the conditions under which an additional order takes over
// from the basic one. Any single satisfied condition is enough.
type Trigger struct {
	// Round activates the order from this round on; zero disables it.
	Round int
	// HeadcountThreshold activates the order once headcount falls to or
	// below it; negative disables it.
	HeadcountThreshold int
	// DestinationReached activates the order once the basic order's route
	// is completed.
	DestinationReached bool
	// EnemyCapturedOwn fires when the enemy holds one of our strategic
	// points; OwnCapturedEnemy when we hold one of theirs.
	EnemyCapturedOwn bool
	OwnCapturedEnemy bool
	// StrategicPoints narrows the capture checks to these positions. Empty
	// means every strategic point of the relevant side.
	StrategicPoints []Position
}

// Additional is a conditional order and its trigger.
type Additional struct {
	Order   Order
	Trigger Trigger
}

// Set reports whether the additional order is usable.
func (a *Additional) Set() bool { return a != nil && a.Order != nil }
