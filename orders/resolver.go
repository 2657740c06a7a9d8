// Package orders decides which of a brigade's orders is currently in effect.
package orders

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.uber.org/zap"

	"github.com/nstehr/fieldbattle/logs"
	"github.com/nstehr/fieldbattle/model"
)

// Resolver maps a unit's basic/additional order pair to the order in
// effect. It never mutates units.
type Resolver struct {
	field model.Battlefield
	rules []*Rule
}

// NewResolver compiles the default trigger chain.
func NewResolver(field model.Battlefield) (*Resolver, error) {
	return NewResolverWithRules(field, DefaultRules())
}

// NewResolverWithRules compiles rules and sorts them by descending priority.
func NewResolverWithRules(field model.Battlefield, rules []*Rule) (*Resolver, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Resolver{field: field, rules: compiled}, nil
}

// Resolve returns the order u currently obeys.
func (r *Resolver) Resolve(u *model.Unit) model.Order {
	o, _ := r.Effective(u)
	return o
}

// Effective returns the order u currently obeys and the name of the trigger
// that put the additional order in effect, empty for the basic order. The
// trigger chain runs once.
func (r *Resolver) Effective(u *model.Unit) (model.Order, string) {
	name, ok := r.Fired(u)
	if !ok {
		return u.Basic, ""
	}
	logs.Debug("additional order in effect",
		zap.Int("unit", u.ID),
		zap.String("trigger", name),
		zap.Stringer("order", u.Additional.Order.Kind()),
	)
	return u.Additional.Order, name
}

// Fired returns the name of the first trigger satisfied for u, if any.
func (r *Resolver) Fired(u *model.Unit) (string, bool) {
	if !u.Additional.Set() {
		return "", false
	}
	env := newEnv(r.field, u)
	for _, rule := range r.rules {
		result, err := vm.Run(rule.program, env)
		if err != nil {
			logs.Warn("trigger condition error", zap.String("rule", rule.Name), zap.Int("unit", u.ID), zap.Error(err))
			continue
		}
		if match, ok := result.(bool); ok && match {
			return rule.Name, true
		}
	}
	return "", false
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
