package alerting

import "fmt"

// Op is a comparison operator applied to an observed aggregate and a
// stored threshold.
type Op int

const (
	LT Op = iota // <
	GT           // >
	LE           // <=
	GE           // >=
	EQ           // =
)

// ParseOp converts the wire form of an operator into its closed type.
// Unknown values are rejected up front rather than falling through to a
// silent false at evaluation time.
func ParseOp(s string) (Op, error) {
	switch s {
	case "<":
		return LT, nil
	case ">":
		return GT, nil
	case "<=":
		return LE, nil
	case ">=":
		return GE, nil
	case "=":
		return EQ, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCondition, s)
}

func (o Op) String() string {
	switch o {
	case LT:
		return "<"
	case GT:
		return ">"
	case LE:
		return "<="
	case GE:
		return ">="
	case EQ:
		return "="
	}
	return "?"
}

// Met applies the operator to observed and threshold. EQ is exact float
// equality: comparing against a stored threshold with no tolerance is the
// documented contract, so a 10.0001 average does not match a threshold of 10.
func (o Op) Met(observed, threshold float64) bool {
	switch o {
	case LT:
		return observed < threshold
	case GT:
		return observed > threshold
	case LE:
		return observed <= threshold
	case GE:
		return observed >= threshold
	case EQ:
		return observed == threshold
	}
	return false
}
