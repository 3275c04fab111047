// Package reference solves problems with gonum's revised simplex so the
// tableau solver can be checked against an independent implementation.
package reference

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
	"q.log/bigm/model"
)

var (
	// ErrMismatch is returned by Check when both solvers disagree.
	ErrMismatch = errors.New("reference: solvers disagree")

	// ErrUnsupported is returned when gonum rejects or cannot finish the
	// standard form, e.g. for linearly dependent equality rows. The
	// returned error also unwraps to gonum's own error.
	ErrUnsupported = errors.New("reference: problem not supported")
)

type Outcome int

const (
	Optimal Outcome = iota
	Infeasible
	Unbounded
)

func (o Outcome) String() string {
	switch o {
	case Optimal:
		return "OPTIMAL"
	case Infeasible:
		return "INFEASIBLE"
	case Unbounded:
		return "UNBOUNDED"
	}
	return "Outcome(?)"
}

type Solution struct {
	Outcome Outcome

	// X is nil unless Outcome is Optimal.
	X []float64
	Z float64
}

// standardForm is min c·y s.t. A·y = b, y >= 0, where y holds the kept
// decision variables followed by one slack or surplus per inequality.
type standardForm struct {
	c    []float64
	a    *mat.Dense
	b    []float64
	cols []int // decision column of p for every kept y column
}

// newStandardForm returns nil when an empty equality row asks for a
// non-zero right-hand side.
func newStandardForm(p *model.Problem) *standardForm {
	n, _ := p.Normalized()

	sign := 1.0
	if n.Sense == model.Maximize {
		sign = -1
	}

	// A decision variable that appears in no constraint is fixed at zero
	// unless it improves the objective, which gonum reports as unbounded.
	var cols []int
	for j := range n.NumCols {
		zero := true
		for r := range n.NumRows {
			if n.A.At(r, j) != 0 {
				zero = false
				break
			}
		}
		if !zero || sign*n.C.At(0, j) < 0 {
			cols = append(cols, j)
		}
	}

	var rows []int
	inequalities := 0
	for r := range n.NumRows {
		if n.Rel[r] != model.Equal {
			inequalities++
			rows = append(rows, r)
			continue
		}
		if floats.Norm(n.A.RawRowView(r), 1) == 0 {
			if n.B.At(r, 0) != 0 {
				return nil
			}
			continue
		}
		rows = append(rows, r)
	}

	width := len(cols) + inequalities
	sf := &standardForm{
		c:    make([]float64, width),
		a:    mat.NewDense(len(rows), width, nil),
		b:    make([]float64, len(rows)),
		cols: cols,
	}
	for k, j := range cols {
		sf.c[k] = sign * n.C.At(0, j)
	}
	slack := len(cols)
	for i, r := range rows {
		for k, j := range cols {
			sf.a.Set(i, k, n.A.At(r, j))
		}
		sf.b[i] = n.B.At(r, 0)
		switch n.Rel[r] {
		case model.LessEqual:
			sf.a.Set(i, slack, 1)
			slack++
		case model.GreaterEqual:
			sf.a.Set(i, slack, -1)
			slack++
		}
	}

	return sf
}

// simplexLP is replaced in tests.
var simplexLP = lp.Simplex

// unsupportedError matches ErrUnsupported and unwraps to what gonum
// reported.
type unsupportedError struct {
	cause error
}

func (e *unsupportedError) Error() string {
	return ErrUnsupported.Error() + ": " + e.cause.Error()
}

func (e *unsupportedError) Is(target error) bool { return target == ErrUnsupported }

func (e *unsupportedError) Unwrap() error { return e.cause }

func unsupported(cause error) error {
	return &unsupportedError{cause: cause}
}

// Solve solves p and reports the optimum in the caller's sense.
func Solve(p *model.Problem) (*Solution, error) {
	return SolveContext(context.Background(), p)
}

// SolveContext is Solve with a deadline. gonum's simplex cannot be
// interrupted, so a call abandoned on ctx keeps running in the
// background until it returns.
func SolveContext(ctx context.Context, p *model.Problem) (*Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "reference: invalid problem")
	}

	sf := newStandardForm(p)
	if sf == nil {
		return &Solution{Outcome: Infeasible, Z: math.NaN()}, nil
	}
	var (
		y   []float64
		err error
	)
	switch {
	case len(sf.b) == 0 && len(sf.cols) > 0:
		err = lp.ErrUnbounded
	case len(sf.b) == 0:
		// Only empty equality rows remain; every variable rests at zero.
	case len(sf.b) > len(sf.c):
		// gonum panics on more equality rows than columns.
		return nil, unsupported(errors.Errorf("%d rows on %d columns", len(sf.b), len(sf.c)))
	default:
		y, err = runSimplex(ctx, sf)
	}

	switch {
	case err == lp.ErrInfeasible:
		return &Solution{Outcome: Infeasible, Z: math.NaN()}, nil
	case err == lp.ErrUnbounded:
		z := math.Inf(1)
		if p.Sense == model.Minimize {
			z = math.Inf(-1)
		}
		return &Solution{Outcome: Unbounded, Z: z}, nil
	case err != nil:
		return nil, unsupported(err)
	}

	x := make([]float64, p.NumCols)
	for k, j := range sf.cols {
		x[j] = y[k]
	}
	return &Solution{Outcome: Optimal, X: x, Z: p.Objective(x)}, nil
}

type simplexResult struct {
	y   []float64
	err error
}

// runSimplex calls gonum in its own goroutine, turning a panic into an
// error and giving up when ctx is done.
func runSimplex(ctx context.Context, sf *standardForm) ([]float64, error) {
	done := make(chan simplexResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- simplexResult{err: errors.Errorf("gonum panicked: %v", r)}
			}
		}()
		_, y, err := simplexLP(sf.c, sf.a, sf.b, 0, nil)
		done <- simplexResult{y: y, err: err}
	}()

	select {
	case r := <-done:
		return r.y, r.err
	case <-ctx.Done():
		return nil, errors.WithStack(ctx.Err())
	}
}
