package simplex

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// enteringColumn picks the non-artificial column with the most negative
// row-0 entry (Dantzig's rule), comparing the penalty part first and the
// cost part on a penalty tie. Equal entries keep the smallest index.
// It returns -1 when no entry is negative, i.e. the tableau is optimal.
func (t *Tableau) enteringColumn(eps float64) int {
	col := -1
	for j := 0; j < t.numVars(); j++ {
		if t.artificial[j] || t.reducedCostSign(j, eps) >= 0 {
			continue
		}
		if col < 0 || t.lessReducedCost(j, col, eps) {
			col = j
		}
	}
	return col
}

// reducedCostSign returns -1, 0 or 1 for the row-0 entry of column j,
// each part of it treated as zero within eps.
func (t *Tableau) reducedCostSign(j int, eps float64) int {
	switch p, c := t.penalty[j], t.cost[j]; {
	case p < -eps:
		return -1
	case p > eps:
		return 1
	case c < -eps:
		return -1
	case c > eps:
		return 1
	}
	return 0
}

// lessReducedCost reports whether the row-0 entry of column a is smaller
// than the one of column b.
func (t *Tableau) lessReducedCost(a, b int, eps float64) bool {
	pa, pb := t.penalty[a], t.penalty[b]
	if math.Abs(pa-pb) > eps {
		return pa < pb
	}
	return t.cost[a] < t.cost[b]
}

// leavingRow runs the minimum ratio test on column col. Only rows with a
// coefficient above eps take part. The smallest row index wins among equal
// ratios and tie reports whether such a tie happened. It returns -1 when
// no row qualifies, meaning the column is unbounded.
func (t *Tableau) leavingRow(col int, eps float64) (row int, tie bool) {
	rhs := t.rhsCol()
	row = -1
	minRatio := math.Inf(1)
	for i := 1; i < t.Rows(); i++ {
		a := t.data.At(i, col)
		if a <= eps {
			continue
		}
		ratio := t.data.At(i, rhs) / a
		if ratio < -eps {
			continue
		}
		switch {
		case row == -1 || ratio < minRatio-eps:
			row, minRatio, tie = i, ratio, false
		case math.Abs(ratio-minRatio) <= eps:
			tie = true
		}
	}
	return row, tie
}

// pivot performs an in-place Gauss-Jordan elimination around (row, col)
// and makes col basic in row. The pivot element must be greater than eps;
// anything else is a programming error.
func (t *Tableau) pivot(row, col int, eps float64) {
	if row < 1 || row >= t.Rows() || col < 0 || col >= t.numVars() {
		panic(fmt.Sprintf("simplex: pivot position (%d, %d) out of range", row, col))
	}

	pivotRow := t.data.RawRowView(row)
	p := pivotRow[col]
	if p <= eps {
		panic(fmt.Sprintf("simplex: pivot element %g at (%d, %d) is not positive", p, row, col))
	}

	floats.Scale(1/p, pivotRow)
	pivotRow[col] = 1

	for i := 1; i < t.Rows(); i++ {
		if i == row {
			continue
		}
		r := t.data.RawRowView(i)
		if factor := r[col]; factor != 0 {
			floats.AddScaled(r, -factor, pivotRow)
		}
	}
	for _, r := range [][]float64{t.cost, t.penalty} {
		if factor := r[col]; factor != 0 {
			floats.AddScaled(r, -factor, pivotRow)
		}
	}
	// Rounding left in the penalty part would be magnified by bigM.
	for j, v := range t.penalty {
		if math.Abs(v) <= eps {
			t.penalty[j] = 0
		}
	}
	t.syncObjectiveRow()

	t.basis[row-1] = col
}
