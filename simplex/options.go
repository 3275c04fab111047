package simplex

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultBigM weighs the penalty part of row 0 in the displayed
	// tableau. Pivoting compares the penalty and cost parts separately, so
	// its value never changes which column enters.
	DefaultBigM = 1e6

	// Epsilon is the "is zero" threshold for every pivoting decision.
	Epsilon = 1e-10

	DefaultMaxIterations = 100
	DefaultAlternates    = 3

	// DefaultTolerance bounds the relative difference accepted between
	// the optimum and the objective of an alternate solution.
	DefaultTolerance = 1e-6
)

type Option func(*Solver) error

func WithBigM(m float64) Option {
	return func(s *Solver) error {
		if !(m > 0) {
			return errors.Wrapf(ErrInvalidOption, "big M %g must be positive", m)
		}
		s.bigM = m
		return nil
	}
}

func WithEpsilon(eps float64) Option {
	return func(s *Solver) error {
		if !(eps > 0) {
			return errors.Wrapf(ErrInvalidOption, "epsilon %g must be positive", eps)
		}
		s.eps = eps
		return nil
	}
}

// WithMaxIterations bounds the number of pivots of a solve.
func WithMaxIterations(n int) Option {
	return func(s *Solver) error {
		if n <= 0 {
			return errors.Wrapf(ErrInvalidOption, "max iterations %d must be positive", n)
		}
		s.maxIter = n
		return nil
	}
}

// WithAlternates sets how many interpolated points are generated between
// two optimal vertices. Zero disables interpolation but keeps the second
// vertex.
func WithAlternates(k int) Option {
	return func(s *Solver) error {
		if k < 0 {
			return errors.Wrapf(ErrInvalidOption, "alternates %d must not be negative", k)
		}
		s.alternates = k
		return nil
	}
}

func WithTolerance(tol float64) Option {
	return func(s *Solver) error {
		if !(tol > 0) {
			return errors.Wrapf(ErrInvalidOption, "tolerance %g must be positive", tol)
		}
		s.tolerance = tol
		return nil
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Solver) error {
		if logger == nil {
			return errors.Wrap(ErrInvalidOption, "nil logger")
		}
		s.logger = logger
		return nil
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
