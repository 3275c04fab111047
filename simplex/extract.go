package simplex

import (
	"gonum.org/v1/gonum/floats"
	"q.log/bigm/model"
)

// ExtractSolution reads the decision variable values off t. A variable
// that is not basic is zero; a basic one takes the rhs of its row.
func ExtractSolution(t *Tableau) []float64 {
	x := make([]float64, t.numDecision)
	rhs := t.rhsCol()
	for i, col := range t.basis {
		if col < t.numDecision {
			x[col] = t.data.At(i+1, rhs)
		}
	}
	return x
}

// Objective returns c·x for the current basis in the caller's sense. It
// reads the cost part of row 0 only, so artificial penalties never leak in.
// Row 0 holds the maximization form, so MIN negates it.
func (t *Tableau) Objective() float64 {
	z := t.cost[t.rhsCol()]
	if t.sense == model.Minimize {
		return -z
	}
	return z
}

// evaluate computes c·x with the caller's objective coefficients.
func (t *Tableau) evaluate(x []float64) float64 {
	return floats.Dot(t.c, x)
}
