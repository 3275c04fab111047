package simplex

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/bigm/model"
)

// BuildTableau turns p into an initial tableau in canonical form.
//
// Every <= row gets a slack column, every >= row a surplus and an
// artificial column and every = row an artificial column. Artificial
// columns carry the Big-M penalty, which is then eliminated from row 0 so
// the artificial basic columns are unit columns. Rows with a negative rhs
// are multiplied by -1 first.
func (s *Solver) BuildTableau(p *model.Problem) (*Tableau, error) {
	if p == nil {
		return nil, ErrNilProblem
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "simplex: invalid problem")
	}

	np, flipped := p.Normalized()
	for _, r := range flipped {
		s.logger.WithField("row", r+1).Debug("negative rhs, row multiplied by -1")
	}

	t := &Tableau{
		sense:       np.Sense,
		bigM:        s.bigM,
		c:           np.Objectives(),
		numDecision: np.NumCols,
		basis:       make([]int, np.NumRows),
	}
	for _, rel := range np.Rel {
		switch rel {
		case model.LessEqual:
			t.numSlack++
		case model.GreaterEqual:
			t.numSurplus++
			t.numArtificial++
		case model.Equal:
			t.numArtificial++
		}
	}

	total := t.numVars()
	t.data = mat.NewDense(np.NumRows+1, total+1, nil)
	t.artificial = make([]bool, total)
	t.names = make([]string, total)

	slackStart := t.numDecision
	surplusStart := slackStart + t.numSlack
	artificialStart := surplusStart + t.numSurplus

	for j := range t.numDecision {
		t.names[j] = np.VarName(j)
	}
	for k := range t.numSlack {
		t.names[slackStart+k] = fmt.Sprintf("s%d", k+1)
	}
	for k := range t.numSurplus {
		t.names[surplusStart+k] = fmt.Sprintf("e%d", k+1)
	}
	for k := range t.numArtificial {
		t.names[artificialStart+k] = fmt.Sprintf("a%d", k+1)
		t.artificial[artificialStart+k] = true
	}

	t.cost = make([]float64, total+1)
	t.penalty = make([]float64, total+1)
	sign := 1.0
	if np.Sense == model.Minimize {
		sign = -1
	}
	for j, cj := range t.c {
		t.cost[j] = -sign * cj
	}
	for j := artificialStart; j < total; j++ {
		t.penalty[j] = 1
	}

	slack, surplus, art := 0, 0, 0
	for r := range np.NumRows {
		row := t.data.RawRowView(r + 1)
		copy(row, np.A.RawRowView(r))
		row[total] = np.B.At(r, 0)

		switch np.Rel[r] {
		case model.LessEqual:
			row[slackStart+slack] = 1
			t.basis[r] = slackStart + slack
			slack++
		case model.GreaterEqual:
			row[surplusStart+surplus] = -1
			row[artificialStart+art] = 1
			t.basis[r] = artificialStart + art
			surplus++
			art++
		case model.Equal:
			row[artificialStart+art] = 1
			t.basis[r] = artificialStart + art
			art++
		}
	}

	// Big-M elimination: make every artificial basic column a unit column.
	for r, col := range t.basis {
		if t.artificial[col] {
			floats.AddScaled(t.penalty, -t.penalty[col], t.data.RawRowView(r+1))
		}
	}
	t.syncObjectiveRow()

	s.logger.WithFields(logrus.Fields{
		"rows":       np.NumRows,
		"decision":   t.numDecision,
		"slack":      t.numSlack,
		"surplus":    t.numSurplus,
		"artificial": t.numArtificial,
	}).Debug("initial tableau built")

	return t, nil
}
