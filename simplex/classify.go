package simplex

import "math"

// classification is the verdict on an optimal tableau.
type classification struct {
	kind       SolutionType
	degenerate bool

	// candidates are the non-basic, non-artificial columns with a zero
	// reduced cost that could enter without making the problem unbounded.
	candidates []int
}

// classify inspects an optimal tableau.
//
// A basic artificial variable with a non-zero value means the Big-M
// penalty could not be driven out and the problem is infeasible. A basic
// variable at zero marks the vertex as degenerate. A zero reduced cost on
// a column that could enter marks alternate optima.
func (t *Tableau) classify(eps float64) classification {
	rhs := t.rhsCol()

	for i, col := range t.basis {
		if t.artificial[col] && math.Abs(t.data.At(i+1, rhs)) > eps {
			return classification{kind: Infeasible}
		}
	}

	var cl classification
	for i := range t.basis {
		if math.Abs(t.data.At(i+1, rhs)) <= eps {
			cl.degenerate = true
			break
		}
	}

	for j := 0; j < t.numVars(); j++ {
		if t.artificial[j] || t.IsBasic(j) || t.reducedCostSign(j, eps) != 0 {
			continue
		}
		for i := 1; i < t.Rows(); i++ {
			if t.data.At(i, j) > eps {
				cl.candidates = append(cl.candidates, j)
				break
			}
		}
	}

	switch {
	case len(cl.candidates) > 0:
		cl.kind = Multiple
	case cl.degenerate:
		cl.kind = Degenerate
	default:
		cl.kind = Unique
	}
	return cl
}
