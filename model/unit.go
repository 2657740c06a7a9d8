package model

import "fmt"

// Side is one of the two opposing armies.
type Side int

const (
	SideA Side = 0
	SideB Side = 1
)

// Enemy returns the opposing side.
func (s Side) Enemy() Side { return 1 - s }

// Valid reports whether s names one of the two armies.
func (s Side) Valid() bool { return s == SideA || s == SideB }

// Formation is the tactical arrangement of a brigade. Only Skirmish leaves
// the sector open for sightlines.
type Formation int

const (
	Line Formation = iota
	Column
	Square
	Skirmish
)

var formationNames = [...]string{"line", "column", "square", "skirmish"}

func (f Formation) String() string {
	if f < 0 || int(f) >= len(formationNames) {
		return fmt.Sprintf("formation(%d)", int(f))
	}
	return formationNames[f]
}

// ParseFormation maps a formation name back to its value.
func ParseFormation(s string) (Formation, error) {
	for i, n := range formationNames {
		if n == s {
			return Formation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown formation %q", s)
}

// Unit is a brigade: the smallest formation that receives orders.
type Unit struct {
	ID        int
	Side      Side
	Pos       Position
	Formation Formation
	Headcount int

	// Basic is the default order. Additional replaces it once its trigger
	// fires; nil means the unit has no conditional order.
	Basic      Order
	Additional *Additional
}

// ClearAdditional drops the unit's conditional order.
func (u *Unit) ClearAdditional() { u.Additional = nil }
