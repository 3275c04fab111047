package reference

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"q.log/bigm/model"
	"q.log/bigm/simplex"
)

// Check solves p again and compares the outcome and the optimal value
// with res. Optimal values must agree within tol, relative to their
// magnitude when it exceeds one. The reference solve gives up with
// ErrUnsupported once ctx is done.
func Check(ctx context.Context, p *model.Problem, res *simplex.Result, tol float64) (*Solution, error) {
	if res == nil {
		return nil, errors.New("reference: nil result")
	}
	if res.Type == simplex.IterationLimit {
		return nil, errors.Wrap(ErrUnsupported, "iteration limit reached, nothing to compare")
	}

	ref, err := SolveContext(ctx, p)
	if err != nil {
		return nil, err
	}

	switch res.Type {
	case simplex.Infeasible:
		if ref.Outcome != Infeasible {
			return ref, errors.Wrapf(ErrMismatch, "tableau reports %s, reference %s", res.Type, ref.Outcome)
		}
	case simplex.Unbounded:
		if ref.Outcome != Unbounded {
			return ref, errors.Wrapf(ErrMismatch, "tableau reports %s, reference %s", res.Type, ref.Outcome)
		}
	default:
		if ref.Outcome != Optimal {
			return ref, errors.Wrapf(ErrMismatch, "tableau reports %s, reference %s", res.Type, ref.Outcome)
		}
		scale := math.Max(1, math.Abs(ref.Z))
		if math.Abs(res.Z-ref.Z) > tol*scale {
			return ref, errors.Wrapf(ErrMismatch, "objective %g, reference %g", res.Z, ref.Z)
		}
		if !p.Satisfies(res.X, tol*scale) {
			return ref, errors.Wrap(ErrMismatch, "tableau solution violates a constraint")
		}
	}

	return ref, nil
}
