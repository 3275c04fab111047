package simplex

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// SolutionType classifies the outcome of a solve.
type SolutionType int

const (
	Unique SolutionType = iota
	Multiple
	Unbounded
	Degenerate
	Infeasible
	IterationLimit
)

func (st SolutionType) String() string {
	switch st {
	case Unique:
		return "UNIQUE"
	case Multiple:
		return "MULTIPLE"
	case Unbounded:
		return "UNBOUNDED"
	case Degenerate:
		return "DEGENERATE"
	case Infeasible:
		return "INFEASIBLE"
	case IterationLimit:
		return "ITERATION_LIMIT"
	default:
		return fmt.Sprintf("SolutionType(%d)", int(st))
	}
}

// PivotOperation records one pivot. Rows count from 1, row 0 being the
// objective row.
type PivotOperation struct {
	Iteration  int
	Entering   int
	LeavingRow int
	// Leaving is the column that was basic in LeavingRow before the pivot.
	Leaving int
	Element float64
	// Tie is set when another row had the same minimum ratio.
	Tie bool
}

// Snapshot is an independent copy of the tableau taken right before a
// pivot. The last snapshot of a solve holds the final tableau and no pivot.
type Snapshot struct {
	Iteration int
	Tableau   *Tableau
	Pivot     *PivotOperation
}

// AlternateSolution is a point on the segment between two optimal
// vertices: X = Lambda*X1 + (1-Lambda)*X2.
type AlternateSolution struct {
	Lambda     float64
	X          []float64
	Z          float64
	Consistent bool
}

type Result struct {
	Type SolutionType

	// X holds the decision variable values. It is nil for unbounded and
	// infeasible problems.
	X []float64
	Z float64

	Iterations int
	Message    string
	Warnings   []string

	// Degenerate is set when a basic variable is zero at the optimum.
	Degenerate bool

	Pivots    []PivotOperation
	Snapshots []Snapshot
	Final     *Tableau

	// Second, SecondX and SecondZ describe the alternate optimal vertex
	// when Type is Multiple.
	Second     *Tableau
	SecondX    []float64
	SecondZ    float64
	Alternates []AlternateSolution
}

// Optimal reports whether the solve reached an optimal tableau.
func (r *Result) Optimal() bool {
	switch r.Type {
	case Unique, Multiple, Degenerate:
		return true
	}
	return false
}

// Trusted reports whether X may be used as a solution. Iteration limit
// results carry a best-effort X that is not trusted.
func (r *Result) Trusted() bool {
	return r.Optimal()
}

func (r *Result) warn(log logrus.FieldLogger, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	log.Warn(msg)
}
