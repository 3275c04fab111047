package model

import (
	"strings"

	"github.com/pkg/errors"
)

// Sense is the optimization direction of a problem.
type Sense int

const (
	Maximize Sense = iota
	Minimize
)

func (s Sense) valid() bool {
	return s == Maximize || s == Minimize
}

func (s Sense) String() string {
	switch s {
	case Maximize:
		return "MAX"
	case Minimize:
		return "MIN"
	default:
		return "UNKNOWN"
	}
}

// ParseSense accepts MAX/MIN in any case, plus the long forms.
func ParseSense(s string) (Sense, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MAX", "MAXIMIZE", "MAXIMISE":
		return Maximize, nil
	case "MIN", "MINIMIZE", "MINIMISE":
		return Minimize, nil
	}
	return 0, errors.Wrapf(ErrUnknownSense, "%q", s)
}

// Relation is the comparison of a constraint row against its rhs.
type Relation int

const (
	LessEqual Relation = iota
	GreaterEqual
	Equal
)

func (r Relation) valid() bool {
	return r == LessEqual || r == GreaterEqual || r == Equal
}

func (r Relation) String() string {
	switch r {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	default:
		return "?"
	}
}

// Flip returns the relation obtained by multiplying both sides by -1.
func (r Relation) Flip() Relation {
	switch r {
	case LessEqual:
		return GreaterEqual
	case GreaterEqual:
		return LessEqual
	default:
		return r
	}
}

func ParseRelation(s string) (Relation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "<=", "≤", "=<", "LE", "L":
		return LessEqual, nil
	case ">=", "≥", "=>", "GE", "G":
		return GreaterEqual, nil
	case "=", "==", "EQ", "E":
		return Equal, nil
	}
	return 0, errors.Wrapf(ErrUnknownRelation, "%q", s)
}
