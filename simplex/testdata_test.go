package simplex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"q.log/bigm/model"
)

const delta = 1e-6 // acceptable numerical deviation for test results

func le(rhs float64, coefs ...float64) model.Constraint {
	return model.Constraint{Coefs: coefs, Rel: model.LessEqual, RHS: rhs}
}

func ge(rhs float64, coefs ...float64) model.Constraint {
	return model.Constraint{Coefs: coefs, Rel: model.GreaterEqual, RHS: rhs}
}

func eq(rhs float64, coefs ...float64) model.Constraint {
	return model.Constraint{Coefs: coefs, Rel: model.Equal, RHS: rhs}
}

func newProblem(t *testing.T, sense model.Sense, c []float64, constraints ...model.Constraint) *model.Problem {
	t.Helper()

	p, err := model.New(sense, c, constraints...)
	require.NoError(t, err)
	return p
}

// wyndor is the classic unique-optimum example: Z = 36 at (2, 6).
func wyndor(t *testing.T) *model.Problem {
	return newProblem(t, model.Maximize, []float64{3, 5},
		le(4, 1, 0),
		le(12, 0, 2),
		le(18, 3, 2),
	)
}

func solveProblem(t *testing.T, p *model.Problem, opts ...Option) *Result {
	t.Helper()

	s, err := NewSolver(opts...)
	require.NoError(t, err)
	tab, err := s.BuildTableau(p)
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), tab, false)
	require.NoError(t, err)
	return res
}
