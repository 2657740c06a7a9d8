package orders

import "github.com/expr-lang/expr/vm"

// Rule is one trigger of an additional order: a condition over Env that,
// when true, puts the additional order in effect. Rules are evaluated by
// descending priority and the first true one wins.
type Rule struct {
	Name         string
	Priority     int
	ConditionSrc string      // expr source
	program      *vm.Program // compiled bytecode
}
