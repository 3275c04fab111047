package simplex

import (
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// alternateOptima pivots col into a copy of the optimal tableau t to reach
// a second optimal vertex, then interpolates between the two vertices.
// t itself is left untouched.
func (s *Solver) alternateOptima(t *Tableau, col int, res *Result) {
	second := t.Copy()
	row, _ := second.leavingRow(col, s.eps)
	if row < 0 {
		res.warn(s.logger, "column %s has a zero reduced cost but no valid leaving row", t.Name(col))
		return
	}
	second.pivot(row, col, s.eps)

	x1 := res.X
	x2 := ExtractSolution(second)
	res.Second = second
	res.SecondX = x2
	res.SecondZ = second.Objective()

	log := s.logger.WithFields(logrus.Fields{
		"entering": t.Name(col),
		"leaving":  t.Name(t.BasicVar(row)),
	})
	log.Debug("pivoted to alternate optimal vertex")

	if !s.sameValue(res.SecondZ, res.Z) {
		res.warn(s.logger, "alternate vertex objective %g differs from optimum %g", res.SecondZ, res.Z)
	}
	if floats.EqualApprox(x1, x2, s.tolerance) {
		res.warn(s.logger, "alternate pivot on %s reached the same vertex", t.Name(col))
	}

	diff := make([]float64, len(x1))
	floats.SubTo(diff, x1, x2)
	for k := 1; k <= s.alternates; k++ {
		lambda := float64(k) / float64(s.alternates+1)
		x := make([]float64, len(x1))
		floats.AddScaledTo(x, x2, lambda, diff)

		alt := AlternateSolution{
			Lambda: lambda,
			X:      x,
			Z:      t.evaluate(x),
		}
		alt.Consistent = s.sameValue(alt.Z, res.Z)
		if !alt.Consistent {
			res.warn(s.logger, "interpolated point at lambda %.3g has objective %g, optimum is %g", lambda, alt.Z, res.Z)
		}
		res.Alternates = append(res.Alternates, alt)
	}
}

// sameValue compares objective values with a tolerance relative to their
// magnitude.
func (s *Solver) sameValue(a, b float64) bool {
	return math.Abs(a-b) <= s.tolerance*math.Max(1, math.Abs(b))
}
