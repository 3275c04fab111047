package simplex

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/bigm/model"
)

// Tableau is the dense working state of the simplex method.
//
// Row 0 is the objective row and rows 1..m are the constraints. Columns are
// ordered decision, slack, surplus, artificial, and the last column holds
// the right-hand side. Row 0 always stores the maximization form of the
// problem: entry j is z_j - c'_j where c' = c for MAX and c' = -c for MIN.
//
// Row 0 is kept in two parts, cost + bigM*penalty, and every pivoting
// decision compares them lexicographically, penalty first. The dense row 0
// is their sum for display only.
type Tableau struct {
	sense model.Sense
	bigM  float64

	//c original objective coefficients of the decision variables
	c []float64

	numDecision   int
	numSlack      int
	numSurplus    int
	numArtificial int

	data *mat.Dense

	//cost and penalty are the two parts of row 0, rhs included
	cost    []float64
	penalty []float64

	//basis[i-1] is the column basic in row i
	basis      []int
	artificial []bool
	names      []string
}

// Columns tells how many slack, surplus and artificial columns follow the
// decision columns of a tableau, in that order.
type Columns struct {
	Slack      int
	Surplus    int
	Artificial int
}

// NewTableau wraps an existing dense tableau. c holds the caller's
// objective coefficients, so len(c) is the number of decision variables,
// and cols describes the remaining columns. data must already follow the
// row-0 convention documented on Tableau and basis[i-1] must name a unit
// column for row i. Row 0 is taken as plain costs: any Big-M penalty must
// already be folded into it.
func NewTableau(sense model.Sense, c []float64, data *mat.Dense, basis []int, cols Columns) (*Tableau, error) {
	if data == nil {
		return nil, ErrNilTableau
	}
	rows, width := data.Dims()
	if rows < 2 || width < 2 {
		return nil, errors.Wrapf(model.ErrBadShape, "tableau is %dx%d", rows, width)
	}
	if len(basis) != rows-1 {
		return nil, errors.Wrapf(model.ErrDimensionMismatch, "%d basic variables for %d constraint rows", len(basis), rows-1)
	}
	if cols.Slack < 0 || cols.Surplus < 0 || cols.Artificial < 0 {
		return nil, errors.Wrapf(model.ErrBadShape, "negative column count %+v", cols)
	}
	if len(c) == 0 || len(c)+cols.Slack+cols.Surplus+cols.Artificial != width-1 {
		return nil, errors.Wrapf(model.ErrDimensionMismatch, "%d decision variables and %+v for %d columns", len(c), cols, width-1)
	}

	seen := make(map[int]bool, len(basis))
	for i, col := range basis {
		if col < 0 || col >= width-1 {
			return nil, errors.Errorf("simplex: basic variable %d of row %d out of range", col, i+1)
		}
		if seen[col] {
			return nil, errors.Errorf("simplex: column %d is basic in more than one row", col)
		}
		seen[col] = true
	}

	t := &Tableau{
		sense:         sense,
		bigM:          DefaultBigM,
		c:             append([]float64(nil), c...),
		numDecision:   len(c),
		numSlack:      cols.Slack,
		numSurplus:    cols.Surplus,
		numArtificial: cols.Artificial,
		data:          mat.DenseCopyOf(data),
		cost:          append([]float64(nil), data.RawRowView(0)...),
		penalty:       make([]float64, width),
		basis:         append([]int(nil), basis...),
		artificial:    make([]bool, width-1),
	}
	for j := width - 1 - cols.Artificial; j < width-1; j++ {
		t.artificial[j] = true
	}
	t.names = t.defaultNames()

	return t, nil
}

func (t *Tableau) defaultNames() []string {
	names := make([]string, t.numVars())
	slackStart := t.numDecision
	surplusStart := slackStart + t.numSlack
	artificialStart := surplusStart + t.numSurplus
	for j := range names {
		switch {
		case j < slackStart:
			names[j] = fmt.Sprintf("x%d", j+1)
		case j < surplusStart:
			names[j] = fmt.Sprintf("s%d", j-slackStart+1)
		case j < artificialStart:
			names[j] = fmt.Sprintf("e%d", j-surplusStart+1)
		default:
			names[j] = fmt.Sprintf("a%d", j-artificialStart+1)
		}
	}
	return names
}

// syncObjectiveRow rewrites the dense row 0 from its two parts.
func (t *Tableau) syncObjectiveRow() {
	floats.AddScaledTo(t.data.RawRowView(0), t.cost, t.bigM, t.penalty)
}

func (t *Tableau) numVars() int {
	return t.numDecision + t.numSlack + t.numSurplus + t.numArtificial
}

func (t *Tableau) rhsCol() int {
	return t.numVars()
}

// Rows returns m+1.
func (t *Tableau) Rows() int {
	r, _ := t.data.Dims()
	return r
}

// Cols returns the number of variable columns plus one for the rhs.
func (t *Tableau) Cols() int {
	_, c := t.data.Dims()
	return c
}

func (t *Tableau) At(i, j int) float64 {
	return t.data.At(i, j)
}

// RHS returns the right-hand side of row i. Row 0 holds the current
// objective value of the maximization form.
func (t *Tableau) RHS(i int) float64 {
	return t.data.At(i, t.rhsCol())
}

// BasicVar returns the column basic in constraint row i (1..m). Row 0 has
// no basic variable and yields -1.
func (t *Tableau) BasicVar(i int) int {
	if i < 1 || i > len(t.basis) {
		return -1
	}
	return t.basis[i-1]
}

// Basis returns a copy of the basic column of every constraint row.
func (t *Tableau) Basis() []int {
	return append([]int(nil), t.basis...)
}

func (t *Tableau) IsBasic(j int) bool {
	for _, col := range t.basis {
		if col == j {
			return true
		}
	}
	return false
}

func (t *Tableau) IsArtificial(j int) bool {
	return j >= 0 && j < len(t.artificial) && t.artificial[j]
}

// Name returns the display name of column j.
func (t *Tableau) Name(j int) string {
	if j == t.rhsCol() {
		return "RHS"
	}
	if j < 0 || j >= len(t.names) {
		return "?"
	}
	return t.names[j]
}

func (t *Tableau) Sense() model.Sense {
	return t.sense
}

// Counts returns the number of decision, slack, surplus and artificial
// columns.
func (t *Tableau) Counts() (decision, slack, surplus, artificial int) {
	return t.numDecision, t.numSlack, t.numSurplus, t.numArtificial
}

// Matrix exposes the raw tableau for read-only use.
func (t *Tableau) Matrix() mat.Matrix {
	return t.data
}

// Copy returns a deep copy of t.
func (t *Tableau) Copy() *Tableau {
	return &Tableau{
		sense:         t.sense,
		bigM:          t.bigM,
		c:             append([]float64(nil), t.c...),
		numDecision:   t.numDecision,
		numSlack:      t.numSlack,
		numSurplus:    t.numSurplus,
		numArtificial: t.numArtificial,
		data:          mat.DenseCopyOf(t.data),
		cost:          append([]float64(nil), t.cost...),
		penalty:       append([]float64(nil), t.penalty...),
		basis:         append([]int(nil), t.basis...),
		artificial:    append([]bool(nil), t.artificial...),
		names:         append([]string(nil), t.names...),
	}
}

func (t *Tableau) String() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(w, "basis\t")
	for j := 0; j < t.Cols(); j++ {
		fmt.Fprintf(w, "%s\t", t.Name(j))
	}
	fmt.Fprintln(w)

	for i := 0; i < t.Rows(); i++ {
		label := "z"
		if i > 0 {
			label = t.Name(t.BasicVar(i))
		}
		fmt.Fprintf(w, "%s\t", label)
		for _, v := range t.data.RawRowView(i) {
			fmt.Fprintf(w, "%.6g\t", v)
		}
		fmt.Fprintln(w)
	}
	w.Flush()

	return sb.String()
}
