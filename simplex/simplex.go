package simplex

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"q.log/bigm/model"
)

// Solver runs the Big-M tableau simplex method. A Solver holds only its
// configuration, so one value can serve concurrent solves; every solve
// owns its tableau.
type Solver struct {
	bigM       float64
	eps        float64
	maxIter    int
	alternates int
	tolerance  float64
	logger     logrus.FieldLogger
}

func NewSolver(opts ...Option) (*Solver, error) {
	s := &Solver{
		bigM:       DefaultBigM,
		eps:        Epsilon,
		maxIter:    DefaultMaxIterations,
		alternates: DefaultAlternates,
		tolerance:  DefaultTolerance,
		logger:     discardLogger(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, errors.Wrap(err, "applying solver option")
		}
	}
	return s, nil
}

func defaultSolver() *Solver {
	s, _ := NewSolver()
	return s
}

// BuildTableau builds the initial tableau of p with the default settings.
func BuildTableau(p *model.Problem) (*Tableau, error) {
	return defaultSolver().BuildTableau(p)
}

// Solve runs the simplex method on t with the default settings. t is
// modified in place and ends as the final tableau. When
// captureIntermediates is set the result keeps a copy of the tableau
// before every pivot.
func Solve(t *Tableau, captureIntermediates bool) (*Result, error) {
	return defaultSolver().Solve(context.Background(), t, captureIntermediates)
}

// SolveProblem builds the tableau of p and solves it.
func (s *Solver) SolveProblem(ctx context.Context, p *model.Problem, captureIntermediates bool) (*Result, error) {
	t, err := s.BuildTableau(p)
	if err != nil {
		return nil, err
	}
	return s.Solve(ctx, t, captureIntermediates)
}

// Solve pivots t until it is optimal, unbounded or the iteration limit
// is reached. Infeasible, unbounded and iteration limit outcomes are
// reported through Result.Type; the only errors are a nil tableau and a
// done context, which is checked between pivots.
func (s *Solver) Solve(ctx context.Context, t *Tableau, captureIntermediates bool) (*Result, error) {
	if t == nil {
		return nil, ErrNilTableau
	}

	res := &Result{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "simplex: solve stopped after %d iterations", res.Iterations)
		}

		col := t.enteringColumn(s.eps)
		if col < 0 {
			s.optimal(t, res)
			break
		}

		row, tie := t.leavingRow(col, s.eps)
		if row < 0 {
			res.Type = Unbounded
			res.Z = math.Inf(1)
			if t.sense == model.Minimize {
				res.Z = math.Inf(-1)
			}
			res.Message = "the problem is unbounded: column " + t.Name(col) + " has no positive coefficient"
			for i, basic := range t.basis {
				if t.artificial[basic] && t.RHS(i+1) > s.eps {
					res.warn(s.logger, "artificial %s still basic at %g: the problem may be infeasible", t.Name(basic), t.RHS(i+1))
				}
			}
			break
		}

		if res.Iterations >= s.maxIter {
			res.Type = IterationLimit
			res.X = ExtractSolution(t)
			res.Z = t.Objective()
			res.Message = "maximum number of iterations reached"
			res.warn(s.logger, "stopped after %d iterations without reaching an optimal tableau", res.Iterations)
			break
		}

		op := PivotOperation{
			Iteration:  res.Iterations + 1,
			Entering:   col,
			LeavingRow: row,
			Leaving:    t.BasicVar(row),
			Element:    t.At(row, col),
			Tie:        tie,
		}
		if captureIntermediates {
			snapOp := op
			res.Snapshots = append(res.Snapshots, Snapshot{
				Iteration: res.Iterations,
				Tableau:   t.Copy(),
				Pivot:     &snapOp,
			})
		}

		t.pivot(row, col, s.eps)
		res.Pivots = append(res.Pivots, op)
		res.Iterations++

		s.logger.WithFields(logrus.Fields{
			"iteration": op.Iteration,
			"entering":  t.Name(op.Entering),
			"leaving":   t.Name(op.Leaving),
			"pivot":     op.Element,
			"tie":       op.Tie,
		}).Debug("pivot")
	}

	if captureIntermediates {
		res.Snapshots = append(res.Snapshots, Snapshot{Iteration: res.Iterations, Tableau: t.Copy()})
	}
	res.Final = t.Copy()

	s.logger.WithFields(logrus.Fields{
		"type":       res.Type,
		"iterations": res.Iterations,
		"z":          res.Z,
	}).Info(res.Message)

	return res, nil
}

// optimal fills res from an optimal tableau.
func (s *Solver) optimal(t *Tableau, res *Result) {
	cl := t.classify(s.eps)
	if cl.kind == Infeasible {
		res.Type = Infeasible
		res.Z = math.NaN()
		res.Message = "the problem is infeasible: an artificial variable stays basic with a positive value"
		return
	}

	res.Type = cl.kind
	res.Degenerate = cl.degenerate
	res.X = ExtractSolution(t)
	res.Z = t.Objective()

	if cl.kind == Multiple {
		res.Message = "multiple optimal solutions found"
		s.alternateOptima(t, cl.candidates[0], res)
	} else {
		res.Message = "unique optimal solution found"
	}
	if cl.degenerate {
		res.Message += " (degenerate)"
	}
}
