package simplex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/bigm/model"
)

func TestBuildTableauSlackOnly(t *testing.T) {
	tab, err := BuildTableau(wyndor(t))
	require.NoError(t, err)

	assert.Equal(t, 4, tab.Rows())
	assert.Equal(t, 6, tab.Cols())
	d, s, e, a := tab.Counts()
	assert.Equal(t, []int{2, 3, 0, 0}, []int{d, s, e, a})

	assert.Equal(t, []float64{-3, -5, 0, 0, 0, 0}, rowOf(tab, 0))
	assert.Equal(t, []float64{3, 2, 0, 0, 1, 18}, rowOf(tab, 3))
	assert.Equal(t, []int{2, 3, 4}, tab.Basis())
	assert.Equal(t, -1, tab.BasicVar(0))
	assert.Equal(t, "s3", tab.Name(4))
	assert.Equal(t, "RHS", tab.Name(5))
}

func TestBuildTableauBigMCanonical(t *testing.T) {
	p := newProblem(t, model.Maximize, []float64{2, 1},
		ge(2, 1, 1),
		eq(3, 1, -1),
		le(8, 1, 1),
	)
	tab, err := BuildTableau(p)
	require.NoError(t, err)

	d, s, e, a := tab.Counts()
	assert.Equal(t, []int{2, 1, 1, 2}, []int{d, s, e, a})
	assert.Equal(t, []string{"x1", "x2", "s1", "e1", "a1", "a2"}, names(tab))
	assert.Equal(t, []int{4, 5, 2}, tab.Basis())
	assert.False(t, tab.IsArtificial(3))
	assert.True(t, tab.IsArtificial(4))
	assert.True(t, tab.IsArtificial(5))

	// every basic column is a unit column, row 0 included
	for i := 1; i < tab.Rows(); i++ {
		col := tab.BasicVar(i)
		for r := 0; r < tab.Rows(); r++ {
			want := 0.0
			if r == i {
				want = 1
			}
			assert.Equal(t, want, tab.At(r, col), "row %d column %s", r, tab.Name(col))
		}
	}

	// row 0 = (-c) - M*(row1 + row2)
	m := DefaultBigM
	assert.InDelta(t, -2-2*m, tab.At(0, 0), delta)
	assert.InDelta(t, -1-0*m, tab.At(0, 1), delta)
	assert.InDelta(t, m, tab.At(0, 3), delta)
	assert.InDelta(t, -5*m, tab.RHS(0), delta)
}

func TestBuildTableauMinimizeNegatesObjective(t *testing.T) {
	p := newProblem(t, model.Minimize, []float64{2, 3}, le(4, 1, 1))
	tab, err := BuildTableau(p)
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 3, 0, 0}, rowOf(tab, 0))
	assert.Equal(t, model.Minimize, tab.Sense())
}

func TestBuildTableauNegativeRHS(t *testing.T) {
	p := newProblem(t, model.Maximize, []float64{1}, ge(-4, -1))
	tab, err := BuildTableau(p)
	require.NoError(t, err)

	d, s, e, a := tab.Counts()
	assert.Equal(t, []int{1, 1, 0, 0}, []int{d, s, e, a})
	assert.Equal(t, []float64{1, 1, 4}, rowOf(tab, 1))

	// the caller's problem is left alone
	assert.Equal(t, -4.0, p.B.At(0, 0))
	assert.Equal(t, model.GreaterEqual, p.Rel[0])
}

func TestBuildTableauRejectsInvalidProblems(t *testing.T) {
	_, err := BuildTableau(nil)
	assert.ErrorIs(t, err, ErrNilProblem)

	p, err := model.NewProblem(model.Maximize, 1, 2)
	require.NoError(t, err)
	p.Rel[0] = model.Relation(7)
	_, err = BuildTableau(p)
	assert.ErrorIs(t, err, model.ErrUnknownRelation)

	p, err = model.NewProblem(model.Maximize, 1, 2)
	require.NoError(t, err)
	p.NumCols = 3
	_, err = BuildTableau(p)
	assert.ErrorIs(t, err, model.ErrDimensionMismatch)
}

func TestBuildTableauCustomBigM(t *testing.T) {
	s, err := NewSolver(WithBigM(100))
	require.NoError(t, err)

	tab, err := s.BuildTableau(newProblem(t, model.Maximize, []float64{1}, eq(2, 1)))
	require.NoError(t, err)
	assert.Equal(t, []float64{-101, 0, -200}, rowOf(tab, 0))
}

func rowOf(t *Tableau, i int) []float64 {
	return append([]float64(nil), t.data.RawRowView(i)...)
}

func names(t *Tableau) []string {
	out := make([]string, t.Cols()-1)
	for j := range out {
		out[j] = t.Name(j)
	}
	return out
}
