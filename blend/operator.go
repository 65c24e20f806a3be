package blend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOperator is returned by ParseOperator for an unrecognized name.
var ErrUnknownOperator = errors.New("blend: unknown operator")

// Operator selects how contributions to one attribute are combined.
type Operator uint8

const (
	// None leaves the attribute untouched.
	None Operator = iota
	// Copy keeps the last contribution.
	Copy
	// Average is the weighted mean, normalized by the total weight.
	Average
	// WeightedSum adds weighted contributions without normalization.
	WeightedSum
	// Sum adds contributions ignoring weights.
	Sum
	// Min keeps the smallest contribution, component-wise.
	Min
	// Max keeps the largest contribution, component-wise.
	Max
)

var operatorNames = [...]string{"none", "copy", "average", "weighted_sum", "sum", "min", "max"}

func (o Operator) String() string {
	if int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return fmt.Sprintf("Operator(%d)", o)
}

// ParseOperator parses a lower-case operator name.
func ParseOperator(s string) (Operator, error) {
	for i, name := range operatorNames {
		if strings.EqualFold(s, name) {
			return Operator(i), nil
		}
	}
	return None, fmt.Errorf("%w %q", ErrUnknownOperator, s)
}
