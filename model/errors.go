package model

import "github.com/pkg/errors"

var (
	// ErrBadShape is returned for non-positive variable or constraint counts
	// and for out of range row indexes.
	ErrBadShape = errors.New("model: invalid shape")

	// ErrDimensionMismatch is returned when a coefficient slice does not
	// match the problem dimensions.
	ErrDimensionMismatch = errors.New("model: dimension mismatch")

	ErrNonFinite       = errors.New("model: NaN or Inf coefficient")
	ErrUnknownRelation = errors.New("model: unknown constraint relation")
	ErrUnknownSense    = errors.New("model: unknown objective sense")
)
