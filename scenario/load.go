// Package scenario reads battle scenarios from YAML, JSON or TOML files and
// builds the in-memory battle state from them.
package scenario

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/nstehr/fieldbattle/logs"
	"github.com/nstehr/fieldbattle/model"
)

// Load reads and decodes the scenario file at path.
func Load(path string) (File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return File{}, fmt.Errorf("read scenario %s: %w", path, err)
	}
	return decode(v)
}

// LoadState reads the scenario at path and builds its battle state.
func LoadState(path string) (*model.State, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Build(f)
}

// Watch re-reads the scenario whenever the file changes and hands the
// rebuilt state, or the error, to onChange. The initial read must succeed.
func Watch(path string, onChange func(*model.State, error)) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read scenario %s: %w", path, err)
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		logs.Info("scenario changed", zap.String("file", e.Name), zap.Stringer("op", e.Op))
		f, err := decode(v)
		if err != nil {
			onChange(nil, err)
			return
		}
		onChange(Build(f))
	})
	v.WatchConfig()
	return nil
}

func decode(v *viper.Viper) (File, error) {
	var f File
	hook := mapstructure.ComposeDecodeHookFunc(
		routeHook(),
		positionHook(),
	)
	if err := v.Unmarshal(&f, viper.DecodeHook(hook)); err != nil {
		return File{}, fmt.Errorf("decode scenario: %w", err)
	}
	return f, nil
}

var (
	positionType = reflect.TypeOf(model.Position{})
	routeType    = reflect.TypeOf([]model.Position{})
)

// routeHook accepts "x,y;x,y" strings wherever a position list is expected.
func routeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != routeType {
			return data, nil
		}
		return ParseRoute(data.(string))
	}
}

// positionHook accepts "x,y" strings wherever a Position is expected.
func positionHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != positionType {
			return data, nil
		}
		return ParsePosition(data.(string))
	}
}

// ParsePosition parses "x,y".
func ParsePosition(s string) (model.Position, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return model.Position{}, fmt.Errorf("position %q: want \"x,y\"", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return model.Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return model.Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	return model.Position{X: x, Y: y}, nil
}

// ParseRoute parses "x,y;x,y;...". An empty string is an empty route.
func ParseRoute(s string) ([]model.Position, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ";")
	out := make([]model.Position, 0, len(parts))
	for _, part := range parts {
		p, err := ParsePosition(part)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Build turns a decoded scenario into a validated battle state. All data
// errors are reported together.
func Build(f File) (*model.State, error) {
	if f.Map.Width <= 0 || f.Map.Height <= 0 {
		return nil, fmt.Errorf("map size %dx%d: both dimensions must be positive", f.Map.Width, f.Map.Height)
	}
	alt := f.Map.Altitude
	if alt == 0 {
		alt = model.MinAltitude
	}
	m := model.NewMap(f.Map.Width, f.Map.Height, alt)

	var err error
	for i, sd := range f.Map.Sectors {
		if !m.InBounds(sd.At) {
			err = multierr.Append(err, fmt.Errorf("sector %d: %v outside the map", i, sd.At))
			continue
		}
		s := m.At(sd.At)
		if sd.Altitude != 0 {
			s.Altitude = sd.Altitude
		}
		s.Wall = sd.Wall
		s.Fortification = sd.Fortification
		s.Settlement = sd.Settlement
		s.Forest = sd.Forest
		s.MinorRiver = sd.MinorRiver
		s.Strategic = sd.Strategic
		if sd.Owner != nil {
			s.Owner = model.Nation(*sd.Owner)
		}
		if sd.Controller != nil {
			s.Controller = model.Nation(*sd.Controller)
		}
	}

	if len(f.Sides) != 2 {
		return nil, multierr.Append(err, fmt.Errorf("scenario has %d sides, want 2", len(f.Sides)))
	}
	var nations [2][]model.Nation
	for i, sd := range f.Sides {
		for _, n := range sd.Nations {
			nations[i] = append(nations[i], model.Nation(n))
		}
	}

	st := model.NewState(m, nations[0], nations[1])
	if f.Round > 0 {
		st.SetRound(f.Round)
	}
	for _, ud := range f.Units {
		u, uerr := buildUnit(ud)
		if uerr != nil {
			err = multierr.Append(err, uerr)
			continue
		}
		err = multierr.Append(err, st.AddUnit(u))
	}
	if err != nil {
		return nil, err
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}

func buildUnit(ud UnitData) (*model.Unit, error) {
	formation, err := parseFormation(ud.Formation)
	if err != nil {
		return nil, fmt.Errorf("unit %d: %w", ud.ID, err)
	}
	basic, err := buildOrder(ud.Order)
	if err != nil {
		return nil, fmt.Errorf("unit %d order: %w", ud.ID, err)
	}
	u := &model.Unit{
		ID:        ud.ID,
		Side:      model.Side(ud.Side),
		Pos:       ud.At,
		Formation: formation,
		Headcount: ud.Headcount,
		Basic:     basic,
	}
	if ud.Additional != nil && !strings.EqualFold(ud.Additional.Kind, model.KindNone.String()) {
		add, err := buildOrder(*ud.Additional)
		if err != nil {
			return nil, fmt.Errorf("unit %d additional order: %w", ud.ID, err)
		}
		u.Additional = &model.Additional{Order: add, Trigger: buildTrigger(ud.Additional.Trigger)}
	}
	return u, nil
}

func buildOrder(od OrderData) (model.Order, error) {
	kind, err := model.ParseOrderKind(strings.ToLower(od.Kind))
	if err != nil {
		return nil, err
	}
	formation, err := parseFormation(od.Formation)
	if err != nil {
		return nil, err
	}
	switch kind {
	case model.KindNone:
		return nil, errors.New("order kind none gives no directive")
	case model.KindMove:
		route, err := model.NewRoute(od.Route...)
		if err != nil {
			return nil, err
		}
		return model.Move{Route: route, Formation: formation}, nil
	case model.KindDefend:
		if od.At == nil {
			return nil, errors.New("defend order needs a position")
		}
		return model.Defend{Pos: *od.At}, nil
	case model.KindFollowDetachment:
		return model.FollowDetachment{LeaderID: od.Leader}, nil
	case model.KindRetreat:
		return model.Retreat{Target: od.At, Formation: formation}, nil
	case model.KindConstruct:
		if od.At == nil {
			return nil, errors.New("construct order needs a site")
		}
		return &model.Construct{Site: *od.At, Progress: od.Progress, Required: od.Required}, nil
	}
	return nil, fmt.Errorf("unsupported order kind %v", kind)
}

func buildTrigger(td TriggerData) model.Trigger {
	t := model.Trigger{
		Round:              td.Round,
		HeadcountThreshold: model.NoHeadcountThreshold,
		DestinationReached: td.Destination,
		EnemyCapturedOwn:   td.EnemyCapturedOwn,
		OwnCapturedEnemy:   td.OwnCapturedEnemy,
		StrategicPoints:    td.Points,
	}
	if td.Headcount != nil {
		t.HeadcountThreshold = *td.Headcount
	}
	return t
}

func parseFormation(s string) (model.Formation, error) {
	if s == "" {
		return model.Line, nil
	}
	return model.ParseFormation(strings.ToLower(s))
}
