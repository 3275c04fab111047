package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Constraint is a single row of a problem: Coefs·x Rel RHS.
type Constraint struct {
	Coefs []float64
	Rel   Relation
	RHS   float64
}

// Problem is a linear program in the form
//
//	max|min  C·x
//	s.t.     A_i·x (<=|>=|=) B_i   for every row i
//	         x >= 0
//
// A Problem is filled once by a reader or a caller and then treated as
// read-only by the solver, which works on its own tableau.
type Problem struct {
	Name  string
	Sense Sense

	//VarNames names of the decision variables, may be empty
	VarNames []string

	//C objective function coefficients (1 x NumCols)
	C *mat.Dense

	//A constraints matrix (NumRows x NumCols)
	A *mat.Dense

	//B constraints rhs (NumRows x 1)
	B *mat.Dense

	//Rel relation of every constraint row
	Rel []Relation

	NumRows int
	NumCols int
}

// NewProblem allocates a problem with numRows constraints over numCols
// decision variables. All coefficients start at zero and every relation
// at LessEqual.
func NewProblem(sense Sense, numRows, numCols int) (*Problem, error) {
	if numRows <= 0 || numCols <= 0 {
		return nil, errors.Wrapf(ErrBadShape, "%d constraints, %d variables", numRows, numCols)
	}
	if !sense.valid() {
		return nil, errors.Wrapf(ErrUnknownSense, "sense %d", int(sense))
	}

	return &Problem{
		Sense:   sense,
		C:       mat.NewDense(1, numCols, nil),
		A:       mat.NewDense(numRows, numCols, nil),
		B:       mat.NewDense(numRows, 1, nil),
		Rel:     make([]Relation, numRows),
		NumRows: numRows,
		NumCols: numCols,
	}, nil
}

// New builds a validated problem from an objective vector and a list of
// constraints.
func New(sense Sense, c []float64, constraints ...Constraint) (*Problem, error) {
	p, err := NewProblem(sense, len(constraints), len(c))
	if err != nil {
		return nil, err
	}
	if err := p.SetC(c); err != nil {
		return nil, err
	}
	for i, con := range constraints {
		if err := p.SetConstraint(i, con.Coefs, con.Rel, con.RHS); err != nil {
			return nil, err
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Problem) SetC(cVec []float64) error {
	if len(cVec) != p.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "objective has %d coefficients, want %d", len(cVec), p.NumCols)
	}

	p.C = mat.NewDense(1, p.NumCols, append([]float64(nil), cVec...))

	return nil
}

func (p *Problem) SetA(aVec []float64) error {
	if len(aVec) != p.NumCols*p.NumRows {
		return errors.Wrapf(ErrDimensionMismatch, "constraint matrix has %d entries, want %d", len(aVec), p.NumCols*p.NumRows)
	}

	p.A = mat.NewDense(p.NumRows, p.NumCols, append([]float64(nil), aVec...))

	return nil
}

func (p *Problem) SetB(bVec []float64) error {
	if len(bVec) != p.NumRows {
		return errors.Wrapf(ErrDimensionMismatch, "rhs has %d entries, want %d", len(bVec), p.NumRows)
	}

	p.B = mat.NewDense(p.NumRows, 1, append([]float64(nil), bVec...))

	return nil
}

func (p *Problem) SetRelations(rel []Relation) error {
	if len(rel) != p.NumRows {
		return errors.Wrapf(ErrDimensionMismatch, "%d relations, want %d", len(rel), p.NumRows)
	}
	for i, r := range rel {
		if !r.valid() {
			return errors.Wrapf(ErrUnknownRelation, "row %d", i)
		}
	}

	p.Rel = append([]Relation(nil), rel...)

	return nil
}

// SetVarNames sets the decision variable names. An empty slice resets
// them to the defaults x1..xn.
func (p *Problem) SetVarNames(names []string) error {
	if len(names) != 0 && len(names) != p.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "%d variable names, want %d", len(names), p.NumCols)
	}

	p.VarNames = append([]string(nil), names...)

	return nil
}

// SetConstraint overwrites row r.
func (p *Problem) SetConstraint(r int, coefs []float64, rel Relation, rhs float64) error {
	if r < 0 || r >= p.NumRows {
		return errors.Wrapf(ErrBadShape, "row %d does not exist", r)
	}
	if len(coefs) != p.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "row %d has %d coefficients, want %d", r, len(coefs), p.NumCols)
	}
	if !rel.valid() {
		return errors.Wrapf(ErrUnknownRelation, "row %d", r)
	}

	p.A.SetRow(r, coefs)
	p.B.Set(r, 0, rhs)
	p.Rel[r] = rel

	return nil
}

// MultiplyConstraint scales row r by mul. A negative factor flips the
// inequality direction.
func (p *Problem) MultiplyConstraint(r int, mul float64) error {
	if r < 0 || r >= p.NumRows {
		return errors.Wrapf(ErrBadShape, "row %d does not exist", r)
	}

	for c := range p.NumCols {
		p.A.Set(r, c, p.A.At(r, c)*mul)
	}
	p.B.Set(r, 0, p.B.At(r, 0)*mul)
	if mul < 0 {
		p.Rel[r] = p.Rel[r].Flip()
	}
	return nil
}

// Validate reports the first contract violation found in p.
func (p *Problem) Validate() error {
	if p == nil {
		return errors.Wrap(ErrBadShape, "nil problem")
	}
	if p.NumRows <= 0 || p.NumCols <= 0 {
		return errors.Wrapf(ErrBadShape, "%d constraints, %d variables", p.NumRows, p.NumCols)
	}
	if !p.Sense.valid() {
		return errors.Wrapf(ErrUnknownSense, "sense %d", int(p.Sense))
	}
	if p.C == nil || p.A == nil || p.B == nil {
		return errors.Wrap(ErrBadShape, "objective, matrix and rhs must be set")
	}
	if _, c := p.C.Dims(); c != p.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "objective has %d coefficients, want %d", c, p.NumCols)
	}
	if r, c := p.A.Dims(); r != p.NumRows || c != p.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "constraint matrix is %dx%d, want %dx%d", r, c, p.NumRows, p.NumCols)
	}
	if r, _ := p.B.Dims(); r != p.NumRows {
		return errors.Wrapf(ErrDimensionMismatch, "rhs has %d entries, want %d", r, p.NumRows)
	}
	if len(p.Rel) != p.NumRows {
		return errors.Wrapf(ErrDimensionMismatch, "%d relations, want %d", len(p.Rel), p.NumRows)
	}
	if len(p.VarNames) != 0 && len(p.VarNames) != p.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "%d variable names, want %d", len(p.VarNames), p.NumCols)
	}

	for c := range p.NumCols {
		if !finite(p.C.At(0, c)) {
			return errors.Wrapf(ErrNonFinite, "objective coefficient %d", c)
		}
	}
	for r := range p.NumRows {
		if !p.Rel[r].valid() {
			return errors.Wrapf(ErrUnknownRelation, "row %d", r)
		}
		if !finite(p.B.At(r, 0)) {
			return errors.Wrapf(ErrNonFinite, "rhs of row %d", r)
		}
		for c := range p.NumCols {
			if !finite(p.A.At(r, c)) {
				return errors.Wrapf(ErrNonFinite, "coefficient (%d, %d)", r, c)
			}
		}
	}

	return nil
}

// Normalized returns a copy of p whose right-hand sides are all
// non-negative, and the indexes of the rows that had to be flipped.
func (p *Problem) Normalized() (*Problem, []int) {
	n := p.Clone()
	var flipped []int
	for r := range n.NumRows {
		if n.B.At(r, 0) < 0 {
			_ = n.MultiplyConstraint(r, -1)
			flipped = append(flipped, r)
		}
	}

	return n, flipped
}

func (p *Problem) Clone() *Problem {
	return &Problem{
		Name:     p.Name,
		Sense:    p.Sense,
		VarNames: append([]string(nil), p.VarNames...),
		C:        mat.DenseCopyOf(p.C),
		A:        mat.DenseCopyOf(p.A),
		B:        mat.DenseCopyOf(p.B),
		Rel:      append([]Relation(nil), p.Rel...),
		NumRows:  p.NumRows,
		NumCols:  p.NumCols,
	}
}

// Objective evaluates C·x.
func (p *Problem) Objective(x []float64) float64 {
	return floats.Dot(p.C.RawRowView(0), x)
}

// Objectives returns a copy of the objective coefficients.
func (p *Problem) Objectives() []float64 {
	return append([]float64(nil), p.C.RawRowView(0)...)
}

// Constraint returns a copy of row r.
func (p *Problem) Constraint(r int) Constraint {
	return Constraint{
		Coefs: append([]float64(nil), p.A.RawRowView(r)...),
		Rel:   p.Rel[r],
		RHS:   p.B.At(r, 0),
	}
}

// Satisfies reports whether x is non-negative and meets every constraint
// within tol.
func (p *Problem) Satisfies(x []float64, tol float64) bool {
	if len(x) != p.NumCols {
		return false
	}
	for _, v := range x {
		if v < -tol {
			return false
		}
	}
	for r := range p.NumRows {
		lhs := floats.Dot(p.A.RawRowView(r), x)
		rhs := p.B.At(r, 0)
		switch p.Rel[r] {
		case LessEqual:
			if lhs > rhs+tol {
				return false
			}
		case GreaterEqual:
			if lhs < rhs-tol {
				return false
			}
		case Equal:
			if math.Abs(lhs-rhs) > tol {
				return false
			}
		}
	}
	return true
}

// VarName returns the name of decision variable j.
func (p *Problem) VarName(j int) string {
	if j < len(p.VarNames) && p.VarNames[j] != "" {
		return p.VarNames[j]
	}
	return fmt.Sprintf("x%d", j+1)
}

// Names returns the name of every decision variable.
func (p *Problem) Names() []string {
	names := make([]string, p.NumCols)
	for j := range names {
		names[j] = p.VarName(j)
	}
	return names
}

func (p *Problem) String() string {
	var sb strings.Builder
	if p.Name != "" {
		fmt.Fprintf(&sb, "%s\n", p.Name)
	}
	fmt.Fprintf(&sb, "%s z = %s\n", p.Sense, p.linear(p.C.RawRowView(0)))
	for r := range p.NumRows {
		prefix := "     "
		if r == 0 {
			prefix = "s.t. "
		}
		fmt.Fprintf(&sb, "%s%s %s %g\n", prefix, p.linear(p.A.RawRowView(r)), p.Rel[r], p.B.At(r, 0))
	}
	fmt.Fprintf(&sb, "     %s >= 0\n", strings.Join(p.Names(), ", "))
	return sb.String()
}

func (p *Problem) linear(coefs []float64) string {
	var sb strings.Builder
	for j, v := range coefs {
		if v == 0 {
			continue
		}
		switch {
		case sb.Len() == 0 && v < 0:
			sb.WriteString("-")
		case sb.Len() > 0 && v < 0:
			sb.WriteString(" - ")
		case sb.Len() > 0:
			sb.WriteString(" + ")
		}
		if a := math.Abs(v); a != 1 {
			fmt.Fprintf(&sb, "%g", a)
		}
		sb.WriteString(p.VarName(j))
	}
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
