package scenario

import "github.com/nstehr/fieldbattle/model"

// File is the on-disk scenario: a map, the nations of each side and the
// brigades on the field. Positions may be written as "x,y" strings or as
// {x, y} maps.
type File struct {
	Round int        `mapstructure:"round"`
	Map   MapData    `mapstructure:"map"`
	Sides []SideData `mapstructure:"sides"`
	Units []UnitData `mapstructure:"units"`
}

// MapData describes the grid. Sectors not listed are open ground at the
// default altitude.
type MapData struct {
	Width    int          `mapstructure:"width"`
	Height   int          `mapstructure:"height"`
	Altitude int          `mapstructure:"altitude"`
	Sectors  []SectorData `mapstructure:"sectors"`
}

type SectorData struct {
	At            model.Position `mapstructure:"at"`
	Altitude      int            `mapstructure:"altitude"`
	Wall          bool           `mapstructure:"wall"`
	Fortification bool           `mapstructure:"fortification"`
	Settlement    bool           `mapstructure:"settlement"`
	Forest        bool           `mapstructure:"forest"`
	MinorRiver    bool           `mapstructure:"minor_river"`
	Strategic     bool           `mapstructure:"strategic"`
	Owner         *int           `mapstructure:"owner"`
	Controller    *int           `mapstructure:"controller"`
}

type SideData struct {
	Nations []int `mapstructure:"nations"`
}

type UnitData struct {
	ID         int            `mapstructure:"id"`
	Side       int            `mapstructure:"side"`
	At         model.Position `mapstructure:"at"`
	Formation  string         `mapstructure:"formation"`
	Headcount  int            `mapstructure:"headcount"`
	Order      OrderData      `mapstructure:"order"`
	Additional *OrderData     `mapstructure:"additional"`
}

// OrderData is the flat wire form of every order kind; only the fields of
// Kind are read.
type OrderData struct {
	Kind      string           `mapstructure:"kind"`
	Route     []model.Position `mapstructure:"route"`
	Formation string           `mapstructure:"formation"`
	At        *model.Position  `mapstructure:"at"`
	Leader    int              `mapstructure:"leader"`
	Required  int              `mapstructure:"required"`
	Progress  int              `mapstructure:"progress"`
	Trigger   TriggerData      `mapstructure:"trigger"`
}

type TriggerData struct {
	Round            int              `mapstructure:"round"`
	Headcount        *int             `mapstructure:"headcount"`
	Destination      bool             `mapstructure:"destination"`
	EnemyCapturedOwn bool             `mapstructure:"enemy_captured_own"`
	OwnCapturedEnemy bool             `mapstructure:"own_captured_enemy"`
	Points           []model.Position `mapstructure:"points"`
}
