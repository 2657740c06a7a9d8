package orders

import "github.com/nstehr/fieldbattle/model"

// Env is the state a trigger condition sees for one unit. Its exported
// fields and methods are callable from expr conditions.
type Env struct {
	Round     int
	Headcount int
	Trigger   model.Trigger

	unit  *model.Unit
	field model.Battlefield
}

func newEnv(field model.Battlefield, u *model.Unit) Env {
	return Env{
		Round:     field.Round(),
		Headcount: u.Headcount,
		Trigger:   u.Additional.Trigger,
		unit:      u,
		field:     field,
	}
}

// BasicRouteCompleted reports whether the final set checkpoint of the basic
// order has been reached. Only Move orders carry checkpoints; the position of
// a Defend, Retreat or Construct order is not one, so those are trivially
// complete.
func (e Env) BasicRouteCompleted() bool {
	mv, ok := e.unit.Basic.(model.Move)
	if !ok {
		return true
	}
	return mv.Route.Completed()
}

// HeldByEnemy reports whether the enemy side currently controls p.
func (e Env) HeldByEnemy(p model.Position) bool {
	return e.field.Map().HeldBy(p, e.field.Nations(e.unit.Side.Enemy()))
}

// HeldByOwnSide reports whether the unit's own side currently controls p.
func (e Env) HeldByOwnSide(p model.Position) bool {
	return e.field.Map().HeldBy(p, e.field.Nations(e.unit.Side))
}

// OwnPoints returns the strategic points belonging to the unit's side.
func (e Env) OwnPoints() []model.Position {
	return e.field.Map().StrategicPointsOwnedBy(e.field.Nations(e.unit.Side))
}

// EnemyPoints returns the strategic points belonging to the enemy side.
func (e Env) EnemyPoints() []model.Position {
	return e.field.Map().StrategicPointsOwnedBy(e.field.Nations(e.unit.Side.Enemy()))
}
