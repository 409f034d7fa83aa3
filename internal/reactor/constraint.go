package reactor

import (
	"fmt"
	"math"
)

// Check identifies one of the node balances, in the order ValidateFlows
// evaluates them.
type Check int

const (
	CheckNode1 Check = iota + 1
	CheckNode2
	CheckNode3Primary
	CheckNode3Secondary
)

func (c Check) String() string {
	switch c {
	case CheckNode1:
		return "node 1 balance"
	case CheckNode2:
		return "node 2 balance"
	case CheckNode3Primary:
		return "node 3 balance"
	case CheckNode3Secondary:
		return "node 3 secondary balance"
	}
	return fmt.Sprintf("check(%d)", int(c))
}

// Node is the reactor the balance is written for.
func (c Check) Node() int {
	switch c {
	case CheckNode1:
		return 1
	case CheckNode2:
		return 2
	case CheckNode3Primary, CheckNode3Secondary:
		return 3
	}
	return 0
}

// Equation is the balance in human-readable form.
func (c Check) Equation() string {
	switch c {
	case CheckNode1:
		return "Q01 + Q31 - Q12 = 0"
	case CheckNode2:
		return "Q23 = Q12"
	case CheckNode3Primary:
		return "Q01 + Q23 - Q31 - Q33 = 0"
	case CheckNode3Secondary:
		return "Q01 + Q03 - Q33 = 0"
	}
	return ""
}

// Channels lists the flows a caller should collect again after this check
// fails. Earlier checks already pinned the remaining channels.
func (c Check) Channels() []string {
	switch c {
	case CheckNode1:
		return []string{"Q01", "Q31", "Q12"}
	case CheckNode2:
		return []string{"Q23"}
	case CheckNode3Primary:
		return []string{"Q33"}
	case CheckNode3Secondary:
		return []string{"Q03"}
	}
	return nil
}

// ConstraintViolation reports the first failing balance and by how much it
// missed.
type ConstraintViolation struct {
	Check    Check
	Residual float64
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("%s: %s (%s, residual %g)", ErrConstraint, e.Check, e.Check.Equation(), e.Residual)
}

func (e *ConstraintViolation) Unwrap() error {
	return ErrConstraint
}

// ValidateFlows checks conservation of flow at every node and returns a
// *ConstraintViolation for the first balance that fails. The node 2 balance
// is exact; the others allow Tolerance. Both node 3 balances are checked even
// though either follows from the other given nodes 1 and 2.
func ValidateFlows(f Flows) error {
	if r := f.Q01 + f.Q31 - f.Q12; !(math.Abs(r) < Tolerance) {
		return &ConstraintViolation{Check: CheckNode1, Residual: r}
	}
	if f.Q23 != f.Q12 {
		return &ConstraintViolation{Check: CheckNode2, Residual: f.Q23 - f.Q12}
	}
	if r := f.Q01 + f.Q23 - f.Q31 - f.Q33; !(math.Abs(r) < Tolerance) {
		return &ConstraintViolation{Check: CheckNode3Primary, Residual: r}
	}
	if r := f.Q01 + f.Q03 - f.Q33; !(math.Abs(r) < Tolerance) {
		return &ConstraintViolation{Check: CheckNode3Secondary, Residual: r}
	}
	return nil
}
