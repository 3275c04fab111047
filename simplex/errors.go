package simplex

import "github.com/pkg/errors"

var (
	ErrNilProblem = errors.New("simplex: nil problem")
	ErrNilTableau = errors.New("simplex: nil tableau")

	// ErrInvalidOption is returned by NewSolver for out of range settings.
	ErrInvalidOption = errors.New("simplex: invalid option")
)
