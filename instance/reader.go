package instance

import (
	"math"
	"runtime"

	"github.com/lukpank/go-glpk/glpk"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"q.log/bigm/model"
)

// ErrUnsupported is returned for MPS content the tableau solver cannot
// express, such as free or negative variables.
var ErrUnsupported = errors.New("instance: unsupported mps content")

// Reader reads a mps file to construct a problem
type Reader struct {
	filename string
	sense    model.Sense
	logger   logrus.FieldLogger
}

// NewReader returns a reader for filename. MPS files do not reliably
// carry the objective direction, so the caller supplies it.
func NewReader(filename string, sense model.Sense, logger logrus.FieldLogger) *Reader {
	return &Reader{
		filename: filename,
		sense:    sense,
		logger:   logger,
	}
}

// ConstructProblem reads the file. Ranged rows become a >= and a <= row,
// and finite column bounds become extra rows after the file's own.
func (r *Reader) ConstructProblem() (*model.Problem, error) {
	// glpk keeps per-thread state.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()
	if err := lp.ReadMPS(glpk.MPS_FILE, nil, r.filename); err != nil {
		return nil, errors.Wrapf(err, "instance: reading %s", r.filename)
	}

	numCols := lp.NumCols()
	if numCols == 0 {
		return nil, errors.Wrapf(ErrUnsupported, "%s has no columns", r.filename)
	}

	//populate obj function and names
	cVec := make([]float64, numCols)
	names := make([]string, numCols)
	for c := range numCols {
		cVec[c] = lp.ObjCoef(c + 1)
		names[c] = lp.ColName(c + 1)
	}

	//populate constraints
	var rows []model.Constraint
	for i := 1; i <= lp.NumRows(); i++ {
		rowVec := make([]float64, numCols)
		idxs, row := lp.MatRow(i)
		for k, v := range idxs {
			if v == 0 {
				continue
			}
			rowVec[v-1] = row[k]
		}

		lb, ub := lp.RowLB(i), lp.RowUB(i)
		switch {
		case unbounded(lb) && unbounded(ub):
			r.logger.WithField("row", i).Debug("skipping free row")
		case unbounded(lb):
			rows = append(rows, model.Constraint{Coefs: rowVec, Rel: model.LessEqual, RHS: ub})
		case unbounded(ub):
			rows = append(rows, model.Constraint{Coefs: rowVec, Rel: model.GreaterEqual, RHS: lb})
		case lb == ub:
			rows = append(rows, model.Constraint{Coefs: rowVec, Rel: model.Equal, RHS: lb})
		default:
			rows = append(rows,
				model.Constraint{Coefs: rowVec, Rel: model.GreaterEqual, RHS: lb},
				model.Constraint{Coefs: append([]float64(nil), rowVec...), Rel: model.LessEqual, RHS: ub},
			)
		}
	}

	//bounds as constraints
	for c := range numCols {
		lb, ub := lp.ColLB(c+1), lp.ColUB(c+1)
		if unbounded(lb) || lb < 0 {
			return nil, errors.Wrapf(ErrUnsupported, "column %s has lower bound %g", names[c], lb)
		}
		if lb > 0 {
			rows = append(rows, bound(numCols, c, model.GreaterEqual, lb))
		}
		if !unbounded(ub) {
			rows = append(rows, bound(numCols, c, model.LessEqual, ub))
		}
	}

	p, err := model.New(r.sense, cVec, rows...)
	if err != nil {
		return nil, errors.Wrapf(err, "instance: %s", r.filename)
	}
	if err := p.SetVarNames(names); err != nil {
		return nil, err
	}
	p.Name = lp.ProbName()

	r.logger.WithFields(logrus.Fields{
		"file":        r.filename,
		"constraints": p.NumRows,
		"variables":   p.NumCols,
	}).Debug("read mps problem")

	return p, nil
}

func bound(numCols, c int, rel model.Relation, rhs float64) model.Constraint {
	rowVec := make([]float64, numCols)
	rowVec[c] = 1
	return model.Constraint{Coefs: rowVec, Rel: rel, RHS: rhs}
}

// glpk reports a missing bound as -DBL_MAX or +DBL_MAX.
func unbounded(v float64) bool {
	return math.Abs(v) == math.MaxFloat64
}
