package simplex

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/bigm/model"
)

func TestSolveUnique(t *testing.T) {
	p := wyndor(t)
	tab, err := BuildTableau(p)
	require.NoError(t, err)

	res, err := Solve(tab, false)
	require.NoError(t, err)

	assert.Equal(t, Unique, res.Type)
	assert.True(t, res.Trusted())
	assert.False(t, res.Degenerate)
	assert.InDelta(t, 36, res.Z, delta)
	assert.True(t, floats.EqualApprox([]float64{2, 6}, res.X, delta), "x = %v", res.X)
	assert.Equal(t, 2, res.Iterations)
	assert.Empty(t, res.Snapshots)
	assert.Nil(t, res.Second)
	assert.True(t, floats.EqualApprox([]float64{2, 6}, ExtractSolution(tab), delta))
}

func TestSolveInfeasible(t *testing.T) {
	p := newProblem(t, model.Maximize, []float64{1},
		ge(5, 1),
		le(2, 1),
	)
	res := solveProblem(t, p)

	assert.Equal(t, Infeasible, res.Type)
	assert.False(t, res.Trusted())
	assert.Nil(t, res.X)
	assert.True(t, math.IsNaN(res.Z))
}

func TestSolveUnbounded(t *testing.T) {
	p := newProblem(t, model.Maximize, []float64{1}, ge(0, 1))
	res := solveProblem(t, p)

	assert.Equal(t, Unbounded, res.Type)
	assert.Nil(t, res.X)
	assert.True(t, math.IsInf(res.Z, 1))

	p = newProblem(t, model.Minimize, []float64{-1, -1}, le(2, 1, -1))
	res = solveProblem(t, p)
	assert.Equal(t, Unbounded, res.Type)
	assert.True(t, math.IsInf(res.Z, -1))
}

func TestSolveUnboundedWithBasicArtificial(t *testing.T) {
	// 0 >= 5 keeps a1 basic when x2 turns out to have no leaving row.
	p := newProblem(t, model.Maximize, []float64{1, 0},
		ge(5, 0, 0),
		le(1, 1, -1),
	)
	res := solveProblem(t, p)

	assert.Equal(t, Unbounded, res.Type)
	assert.Equal(t, 1, res.Iterations)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "a1 still basic")
	assert.Contains(t, res.Warnings[0], "may be infeasible")

	// a plain unbounded problem has no such warning
	res = solveProblem(t, newProblem(t, model.Maximize, []float64{1}, ge(0, 1)))
	assert.Empty(t, res.Warnings)
}

// Cancelling the Big-M terms used to leave reduced costs of about 1e-9
// that sent x2 into the basis with no leaving row.
func TestSolvePenaltyCancellation(t *testing.T) {
	p := newProblem(t, model.Minimize, []float64{-2, 1, -3},
		eq(14, 4, -2, 6),
		ge(10, 3, 6, -2),
		ge(8, 6, 4, 1),
	)
	res := solveProblem(t, p)

	require.True(t, res.Optimal(), "got %s: %s", res.Type, res.Message)
	assert.InDelta(t, -7, res.Z, delta)
	assert.True(t, p.Satisfies(res.X, delta))
	assert.InDelta(t, res.Z, p.Objective(res.X), delta)
	for _, alt := range res.Alternates {
		assert.InDelta(t, -7, alt.Z, delta)
	}
}

func TestSolveMultiple(t *testing.T) {
	p := newProblem(t, model.Maximize, []float64{1, 1},
		le(4, 1, 1),
		le(4, 1, 0),
		le(4, 0, 1),
	)
	res := solveProblem(t, p)

	require.Equal(t, Multiple, res.Type)
	assert.True(t, res.Degenerate)
	assert.InDelta(t, 4, res.Z, delta)
	assert.InDelta(t, 4, p.Objective(res.X), delta)
	assert.InDelta(t, 4, res.SecondZ, delta)
	assert.InDelta(t, 4, p.Objective(res.SecondX), delta)
	assert.True(t, floats.EqualApprox([]float64{4, 0}, res.X, delta), "x1 = %v", res.X)
	assert.True(t, floats.EqualApprox([]float64{0, 4}, res.SecondX, delta), "x2 = %v", res.SecondX)
	require.NotNil(t, res.Second)
	assert.Empty(t, res.Warnings)

	require.Len(t, res.Alternates, DefaultAlternates)
	for i, alt := range res.Alternates {
		assert.InDelta(t, 0.25*float64(i+1), alt.Lambda, delta)
		assert.InDelta(t, 4, alt.Z, delta)
		assert.True(t, alt.Consistent)
		assert.InDelta(t, 4, p.Objective(alt.X), delta)
		assert.True(t, p.Satisfies(alt.X, delta))
	}
	assert.True(t, floats.EqualApprox([]float64{1, 3}, res.Alternates[0].X, delta))

	// the optimal tableau is preserved
	assert.True(t, floats.EqualApprox([]float64{4, 0}, ExtractSolution(res.Final), delta))
}

func TestSolveMultipleWithEquality(t *testing.T) {
	p := newProblem(t, model.Maximize, []float64{1, 1},
		eq(3, 1, 1),
		le(2, 1, 0),
	)
	res := solveProblem(t, p, WithAlternates(1))

	require.Equal(t, Multiple, res.Type)
	assert.False(t, res.Degenerate)
	assert.InDelta(t, 3, res.Z, delta)
	assert.True(t, floats.EqualApprox([]float64{2, 1}, res.X, delta), "x1 = %v", res.X)
	assert.True(t, floats.EqualApprox([]float64{0, 3}, res.SecondX, delta), "x2 = %v", res.SecondX)
	require.Len(t, res.Alternates, 1)
	assert.InDelta(t, 0.5, res.Alternates[0].Lambda, delta)
	assert.True(t, floats.EqualApprox([]float64{1, 2}, res.Alternates[0].X, delta))
}

func TestSolveMinimize(t *testing.T) {
	p := newProblem(t, model.Minimize, []float64{2, 3},
		ge(4, 1, 1),
		ge(6, 1, 3),
	)
	res := solveProblem(t, p)

	assert.Equal(t, Unique, res.Type)
	assert.InDelta(t, 9, res.Z, delta)
	assert.True(t, floats.EqualApprox([]float64{3, 1}, res.X, delta), "x = %v", res.X)
}

func TestSolveNegativeRHS(t *testing.T) {
	p := newProblem(t, model.Maximize, []float64{3, 5},
		ge(-4, -1, 0),
		le(12, 0, 2),
		ge(-18, -3, -2),
	)
	res := solveProblem(t, p)

	assert.Equal(t, Unique, res.Type)
	assert.InDelta(t, 36, res.Z, delta)
}

func TestSolveDegenerateUnique(t *testing.T) {
	p := newProblem(t, model.Maximize, []float64{1, 1},
		le(1, 1, 0),
		le(1, 0, 1),
		le(2, 1, 1),
	)
	res := solveProblem(t, p)

	assert.Equal(t, Degenerate, res.Type)
	assert.True(t, res.Degenerate)
	assert.True(t, res.Trusted())
	assert.InDelta(t, 2, res.Z, delta)
	assert.True(t, floats.EqualApprox([]float64{1, 1}, res.X, delta))
	require.Len(t, res.Pivots, 2)
	assert.True(t, res.Pivots[1].Tie)
}

func TestSolveConstructedDegenerateTableau(t *testing.T) {
	data := mat.NewDense(4, 6, []float64{
		0, 0, 1, 1, 0, 2,
		1, 0, 1, 0, 0, 1,
		0, 1, 0, 1, 0, 1,
		0, 0, -1, -1, 1, 0,
	})
	tab, err := NewTableau(model.Maximize, []float64{1, 1}, data, []int{0, 1, 4}, Columns{Slack: 3})
	require.NoError(t, err)

	res, err := Solve(tab, false)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, Degenerate, res.Type)
	assert.True(t, res.Degenerate)
	assert.InDelta(t, 2, res.Z, delta)
}

func TestSolveObjectiveMatchesSolution(t *testing.T) {
	problems := map[string]*model.Problem{
		"wyndor": wyndor(t),
		"mixed": newProblem(t, model.Maximize, []float64{2, 1, 1},
			ge(2, 1, 1, 0),
			eq(5, 1, 0, 1),
			le(6, 1, 1, 1),
		),
		"diet": newProblem(t, model.Minimize, []float64{0.6, 0.35},
			ge(60, 5, 7),
			ge(12, 4, 2),
			ge(10, 2, 1),
		),
	}
	for name, p := range problems {
		t.Run(name, func(t *testing.T) {
			res := solveProblem(t, p)
			require.True(t, res.Optimal(), "type %s", res.Type)
			assert.InDelta(t, p.Objective(res.X), res.Z, delta)
			assert.True(t, p.Satisfies(res.X, delta), "x = %v", res.X)
		})
	}
}

func TestSolveIsDeterministic(t *testing.T) {
	run := func() *Result {
		p := newProblem(t, model.Maximize, []float64{1, 1, 1},
			le(4, 1, 1, 0),
			le(4, 1, 0, 1),
			le(4, 0, 1, 1),
			ge(1, 1, 1, 1),
		)
		return solveProblem(t, p)
	}

	first, second := run(), run()
	assert.Equal(t, first.Pivots, second.Pivots)
	assert.True(t, mat.Equal(first.Final.Matrix(), second.Final.Matrix()))
	assert.Equal(t, first.Final.Basis(), second.Final.Basis())
}

func TestSolveIterationLimit(t *testing.T) {
	res := solveProblem(t, wyndor(t), WithMaxIterations(1))

	assert.Equal(t, IterationLimit, res.Type)
	assert.False(t, res.Trusted())
	assert.Equal(t, 1, res.Iterations)
	assert.Len(t, res.Warnings, 1)
	assert.True(t, floats.EqualApprox([]float64{0, 6}, res.X, delta))
	assert.InDelta(t, 30, res.Z, delta)
}

func TestSolveCapturesSnapshots(t *testing.T) {
	tab, err := BuildTableau(wyndor(t))
	require.NoError(t, err)
	initial := tab.Copy()

	res, err := Solve(tab, true)
	require.NoError(t, err)

	require.Len(t, res.Snapshots, res.Iterations+1)
	assert.True(t, mat.Equal(initial.Matrix(), res.Snapshots[0].Tableau.Matrix()))
	for i, snap := range res.Snapshots[:res.Iterations] {
		require.NotNil(t, snap.Pivot)
		assert.Equal(t, res.Pivots[i], *snap.Pivot)
		assert.Equal(t, i, snap.Iteration)
	}
	last := res.Snapshots[len(res.Snapshots)-1]
	assert.Nil(t, last.Pivot)
	assert.True(t, mat.Equal(tab.Matrix(), last.Tableau.Matrix()))

	assert.Equal(t, PivotOperation{Iteration: 1, Entering: 1, LeavingRow: 2, Leaving: 3, Element: 2}, res.Pivots[0])
	assert.Equal(t, PivotOperation{Iteration: 2, Entering: 0, LeavingRow: 3, Leaving: 4, Element: 3}, res.Pivots[1])
}

func TestSolveCancelled(t *testing.T) {
	s, err := NewSolver()
	require.NoError(t, err)
	tab, err := s.BuildTableau(wyndor(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Solve(ctx, tab, false)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolveNilTableau(t *testing.T) {
	_, err := Solve(nil, false)
	assert.ErrorIs(t, err, ErrNilTableau)
}

func TestNewSolverRejectsBadOptions(t *testing.T) {
	for name, opt := range map[string]Option{
		"big M":      WithBigM(0),
		"epsilon":    WithEpsilon(-1),
		"iterations": WithMaxIterations(0),
		"alternates": WithAlternates(-1),
		"tolerance":  WithTolerance(math.NaN()),
		"logger":     WithLogger(nil),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewSolver(opt)
			assert.ErrorIs(t, err, ErrInvalidOption)
		})
	}
}

func TestSolutionTypeString(t *testing.T) {
	assert.Equal(t, "UNIQUE", Unique.String())
	assert.Equal(t, "ITERATION_LIMIT", IterationLimit.String())
	assert.Equal(t, "SolutionType(42)", SolutionType(42).String())
}
