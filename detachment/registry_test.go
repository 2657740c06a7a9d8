package detachment

import (
	"errors"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nstehr/fieldbattle/logs"
	"github.com/nstehr/fieldbattle/model"
	"github.com/nstehr/fieldbattle/orders"
)

type battle struct {
	state    *model.State
	registry *Registry
}

func newBattle(t *testing.T, units ...*model.Unit) *battle {
	t.Helper()
	s := model.NewState(model.NewMap(10, 10, 1), []model.Nation{0}, []model.Nation{1})
	for i, u := range units {
		if u.Pos == (model.Position{}) {
			u.Pos = model.Position{X: i % 10, Y: i / 10}
		}
		if u.Headcount == 0 {
			u.Headcount = 1000
		}
		if err := s.AddUnit(u); err != nil {
			t.Fatalf("AddUnit(%d): %v", u.ID, err)
		}
	}
	res, err := orders.NewResolver(s)
	if err != nil {
		t.Fatal(err)
	}
	return &battle{state: s, registry: NewRegistry(s, res)}
}

func follow(id int, side model.Side, leader int) *model.Unit {
	return &model.Unit{ID: id, Side: side, Basic: model.FollowDetachment{LeaderID: leader}}
}

func hold(id int, side model.Side) *model.Unit {
	return &model.Unit{ID: id, Side: side, Basic: model.Defend{}}
}

func TestRebuildRegistersFollowers(t *testing.T) {
	b := newBattle(t,
		hold(1, model.SideA),
		follow(2, model.SideA, 1),
		follow(3, model.SideA, 1),
		hold(4, model.SideA),
		follow(5, model.SideA, 4),
		hold(6, model.SideB),
	)
	if err := b.registry.Rebuild(model.SideA); err != nil {
		t.Fatal(err)
	}

	if got := b.registry.Leaders(); !slices.Equal(got, []int{1, 4}) {
		t.Errorf("Leaders() = %v, want [1 4]", got)
	}
	if got := b.registry.Followers(); !slices.Equal(got, []int{2, 3, 5}) {
		t.Errorf("Followers() = %v, want [2 3 5]", got)
	}
	if got := b.registry.FollowersOf(1); !slices.Equal(got, []int{2, 3}) {
		t.Errorf("FollowersOf(1) = %v, want [2 3]", got)
	}
	if !b.registry.IsLeader(4) || b.registry.IsLeader(5) {
		t.Error("unit 4 leads, unit 5 follows")
	}
	assertConsistent(t, b.registry)
}

func TestRebuildUsesResolvedOrder(t *testing.T) {
	joiner := hold(2, model.SideA)
	joiner.Additional = &model.Additional{
		Order:   model.FollowDetachment{LeaderID: 1},
		Trigger: model.Trigger{Round: 3, HeadcountThreshold: model.NoHeadcountThreshold},
	}
	b := newBattle(t, hold(1, model.SideA), joiner)

	if err := b.registry.Rebuild(model.SideA); err != nil {
		t.Fatal(err)
	}
	if len(b.registry.Followers()) != 0 {
		t.Fatal("additional follow order is not active before round 3")
	}

	b.state.SetRound(3)
	if err := b.registry.Rebuild(model.SideA); err != nil {
		t.Fatal(err)
	}
	if l, ok := b.registry.LeaderOf(2); !ok || l != 1 {
		t.Errorf("LeaderOf(2) = %d, %v; want 1", l, ok)
	}
}

func TestRebuildDropsStaleEntries(t *testing.T) {
	f := follow(2, model.SideA, 1)
	b := newBattle(t, hold(1, model.SideA), f, hold(3, model.SideA))
	if err := b.registry.Rebuild(model.SideA); err != nil {
		t.Fatal(err)
	}

	f.Basic = model.FollowDetachment{LeaderID: 3}
	if err := b.registry.Rebuild(model.SideA); err != nil {
		t.Fatal(err)
	}
	if b.registry.IsLeader(1) {
		t.Error("unit 1 should no longer lead after rebuild")
	}
	if got := b.registry.FollowersOf(3); !slices.Equal(got, []int{2}) {
		t.Errorf("FollowersOf(3) = %v, want [2]", got)
	}
	assertConsistent(t, b.registry)
}

func TestRebuildIsScopedToSide(t *testing.T) {
	b := newBattle(t,
		hold(1, model.SideA), follow(2, model.SideA, 1),
		hold(3, model.SideB), follow(4, model.SideB, 3),
	)
	for _, side := range []model.Side{model.SideA, model.SideB} {
		if err := b.registry.Rebuild(side); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.registry.Rebuild(model.SideA); err != nil {
		t.Fatal(err)
	}
	if got := b.registry.Followers(); !slices.Equal(got, []int{2, 4}) {
		t.Errorf("Followers() = %v, want [2 4]", got)
	}
}

func TestRebuildUnknownLeader(t *testing.T) {
	tests := []struct {
		name  string
		units []*model.Unit
		setup func(s *model.State)
	}{
		{
			name:  "no such unit",
			units: []*model.Unit{hold(1, model.SideA), follow(2, model.SideA, 99)},
		},
		{
			name:  "leader on the other side",
			units: []*model.Unit{hold(1, model.SideB), follow(2, model.SideA, 1)},
		},
		{
			name:  "leader destroyed",
			units: []*model.Unit{hold(1, model.SideA), follow(2, model.SideA, 1)},
			setup: func(s *model.State) { _ = s.Kill(1) },
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newBattle(t, tc.units...)
			if tc.setup != nil {
				tc.setup(b.state)
			}
			err := b.registry.Rebuild(model.SideA)
			if !errors.Is(err, ErrUnknownLeader) {
				t.Fatalf("Rebuild() err = %v, want ErrUnknownLeader", err)
			}
			var ref *LeaderRefError
			if !errors.As(err, &ref) || ref.FollowerID != 2 {
				t.Errorf("err = %#v, want follower 2", err)
			}
			if len(b.registry.Followers()) != 0 {
				t.Error("failed rebuild should leave the side empty")
			}
		})
	}
}

func TestRemoveFollower(t *testing.T) {
	b := newBattle(t, hold(1, model.SideA), follow(2, model.SideA, 1), follow(3, model.SideA, 1))
	if err := b.registry.Rebuild(model.SideA); err != nil {
		t.Fatal(err)
	}

	if forced := b.registry.Remove(2); len(forced) != 0 {
		t.Errorf("removing a follower forced %v", forced)
	}
	if got := b.registry.FollowersOf(1); !slices.Equal(got, []int{3}) {
		t.Errorf("FollowersOf(1) = %v, want [3]", got)
	}

	b.registry.Remove(3)
	if b.registry.IsLeader(1) {
		t.Error("a leader with no followers left should drop out")
	}
	assertConsistent(t, b.registry)
}

func TestRemoveLeaderCascadesRetreat(t *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	defer logs.SetLogger(zap.New(core))()

	f2 := follow(2, model.SideA, 1)
	f3 := follow(3, model.SideA, 1)
	f3.Additional = &model.Additional{Order: model.Defend{}, Trigger: model.Trigger{Round: 50}}
	b := newBattle(t, hold(1, model.SideA), f2, f3, hold(4, model.SideA))
	if err := b.registry.Rebuild(model.SideA); err != nil {
		t.Fatal(err)
	}

	forced := b.registry.RemoveAndApply(1)
	if len(forced) != 2 || forced[0].UnitID != 2 || forced[1].UnitID != 3 {
		t.Fatalf("forced = %+v, want units 2 and 3", forced)
	}
	for _, u := range []*model.Unit{f2, f3} {
		r, ok := u.Basic.(model.Retreat)
		if !ok {
			t.Fatalf("unit %d basic order = %T, want Retreat", u.ID, u.Basic)
		}
		if !r.OffField() || r.Formation != model.Column {
			t.Errorf("unit %d retreat = %+v, want off-field in column", u.ID, r)
		}
		if u.Additional != nil {
			t.Errorf("unit %d keeps its additional order", u.ID)
		}
		if _, ok := b.registry.LeaderOf(u.ID); ok {
			t.Errorf("unit %d still has a leader", u.ID)
		}
	}
	if b.registry.IsLeader(1) || len(b.registry.Followers()) != 0 {
		t.Error("registry should be empty after the cascade")
	}
	if recorded.FilterMessage("detachment leader removed").Len() != 1 {
		t.Error("leader removal should be logged once")
	}
}

func TestRemoveIsPureUntilApplied(t *testing.T) {
	f := follow(2, model.SideA, 1)
	b := newBattle(t, hold(1, model.SideA), f)
	if err := b.registry.Rebuild(model.SideA); err != nil {
		t.Fatal(err)
	}
	forced := b.registry.Remove(1)
	if len(forced) != 1 {
		t.Fatalf("forced = %+v", forced)
	}
	if f.Basic.Kind() != model.KindFollowDetachment {
		t.Fatal("Remove must not touch unit orders")
	}
	Apply(b.state, forced)
	if f.Basic.Kind() != model.KindRetreat {
		t.Error("Apply should set the retreat order")
	}
}

func TestRemoveUnitBothLeaderAndFollower(t *testing.T) {
	b := newBattle(t,
		hold(1, model.SideA),
		follow(2, model.SideA, 1),
		follow(3, model.SideA, 2),
	)
	if err := b.registry.Rebuild(model.SideA); err != nil {
		t.Fatal(err)
	}

	forced := b.registry.Remove(2)
	if len(forced) != 1 || forced[0].UnitID != 3 {
		t.Errorf("forced = %+v, want unit 3", forced)
	}
	if b.registry.IsLeader(1) {
		t.Error("unit 1 lost its only follower")
	}
	if len(b.registry.Followers()) != 0 {
		t.Errorf("Followers() = %v, want none", b.registry.Followers())
	}
}

func TestRemoveUnknownUnit(t *testing.T) {
	b := newBattle(t, hold(1, model.SideA))
	if forced := b.registry.Remove(42); forced != nil {
		t.Errorf("Remove(42) = %v", forced)
	}
}

func assertConsistent(t *testing.T, r *Registry) {
	t.Helper()
	for _, f := range r.Followers() {
		l, ok := r.LeaderOf(f)
		if !ok {
			t.Fatalf("follower %d has no leader", f)
		}
		if !slices.Contains(r.FollowersOf(l), f) {
			t.Errorf("leader %d does not list follower %d", l, f)
		}
	}
	for _, l := range r.Leaders() {
		fs := r.FollowersOf(l)
		if len(fs) == 0 {
			t.Errorf("leader %d has an empty detachment", l)
		}
		for _, f := range fs {
			if got, _ := r.LeaderOf(f); got != l {
				t.Errorf("follower %d points at %d, not %d", f, got, l)
			}
		}
	}
}
