package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/nstehr/fieldbattle/config"
	"github.com/nstehr/fieldbattle/logs"
	"github.com/nstehr/fieldbattle/model"
	"github.com/nstehr/fieldbattle/session"
)

var sideNames = [...]string{"A", "B"}

// evaluate steps both sides of state once and writes the orders,
// detachments and visibility of each, then previews the removals in cfg.
func evaluate(w io.Writer, state *model.State, cfg config.Config) error {
	sess, err := session.New(state)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "round %d\n", state.Round())
	for _, side := range []model.Side{model.SideA, model.SideB} {
		fmt.Fprintf(w, "\nside %s\n", sideNames[side])
		resolved, err := sess.Step(side)
		if err != nil {
			logs.Warn("detachments unavailable", zap.Int("side", int(side)), zap.Error(err))
			fmt.Fprintf(w, "  detachments unavailable: %v\n", err)
			resolved = sess.Orders(side)
		}
		writeOrders(w, state, resolved)
		writeDetachments(w, sess, state.Units(side))
		writeSightings(w, sess.Sweep(side, cfg.LongRange))
	}

	if len(cfg.Remove) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nremovals")
	for _, id := range cfg.Remove {
		if err := state.Kill(id); err != nil {
			logs.Warn("cannot remove unit", zap.Int("unit", id), zap.Error(err))
			fmt.Fprintf(w, "  unit %d: %v\n", id, err)
			continue
		}
		forced := sess.Remove(id)
		if len(forced) == 0 {
			fmt.Fprintf(w, "  unit %d removed\n", id)
			continue
		}
		ids := make([]string, len(forced))
		for i, fr := range forced {
			ids[i] = fmt.Sprint(fr.UnitID)
		}
		fmt.Fprintf(w, "  unit %d removed, retreating: %s\n", id, strings.Join(ids, ", "))
	}
	return nil
}

func writeOrders(w io.Writer, state *model.State, resolved []session.Resolved) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  unit\tpos\tformation\theadcount\torder\ttrigger")
	for _, r := range resolved {
		u, _ := state.Unit(r.UnitID)
		trigger := r.Trigger
		if trigger == "" {
			trigger = "-"
		}
		fmt.Fprintf(tw, "  %d\t%v\t%v\t%d\t%s\t%s\n", u.ID, u.Pos, u.Formation, u.Headcount, describe(r.Order), trigger)
	}
	_ = tw.Flush()
}

func writeDetachments(w io.Writer, sess *session.Session, units []*model.Unit) {
	for _, u := range units {
		if !sess.Detachment.IsLeader(u.ID) {
			continue
		}
		ids := make([]string, 0)
		for _, f := range sess.Detachment.FollowersOf(u.ID) {
			ids = append(ids, fmt.Sprint(f))
		}
		fmt.Fprintf(w, "  detachment %d: %s\n", u.ID, strings.Join(ids, ", "))
	}
}

func writeSightings(w io.Writer, sightings []session.Sighting) {
	for _, sg := range sightings {
		switch {
		case sg.Visible:
			fmt.Fprintf(w, "  %d sees %d\n", sg.ObserverID, sg.TargetID)
		case sg.BlockedAt != nil:
			fmt.Fprintf(w, "  %d cannot see %d, blocked at %v\n", sg.ObserverID, sg.TargetID, *sg.BlockedAt)
		default:
			fmt.Fprintf(w, "  %d cannot see %d\n", sg.ObserverID, sg.TargetID)
		}
	}
}

// describe renders an order on one line.
func describe(o model.Order) string {
	switch v := o.(type) {
	case model.Move:
		pts := make([]string, len(v.Route))
		for i, c := range v.Route {
			pts[i] = c.Pos.String()
			if c.Reached {
				pts[i] += "*"
			}
		}
		return fmt.Sprintf("move %s in %v", strings.Join(pts, " "), v.Formation)
	case model.Defend:
		return fmt.Sprintf("defend %v", v.Pos)
	case model.FollowDetachment:
		return fmt.Sprintf("follow %d", v.LeaderID)
	case model.Retreat:
		if v.OffField() {
			return fmt.Sprintf("retreat off field in %v", v.Formation)
		}
		return fmt.Sprintf("retreat to %v in %v", *v.Target, v.Formation)
	case *model.Construct:
		return fmt.Sprintf("construct at %v (%d/%d)", v.Site, v.Progress, v.Required)
	case nil:
		return "none"
	}
	return model.KindOf(o).String()
}
