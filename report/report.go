// Package report renders problems and solver results as plain text.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"
	"q.log/bigm/model"
	"q.log/bigm/simplex"
)

// Options selects the optional sections of a report.
type Options struct {
	// Tables prints every captured tableau instead of the pivot log.
	Tables bool
	// Matrix adds the constraint matrix augmented with the rhs column.
	Matrix bool
}

// Write renders the full report of one solve.
func Write(w io.Writer, p *model.Problem, res *simplex.Result, opts Options) error {
	ew := &errWriter{w: w}

	section(ew, "Problem")
	fmt.Fprint(ew, p.String())
	if opts.Matrix {
		fmt.Fprintln(ew)
		Matrix(ew, p)
	}

	if opts.Tables && len(res.Snapshots) > 0 {
		for i, snap := range res.Snapshots {
			switch {
			case i == 0:
				section(ew, "Initial tableau")
			case snap.Pivot == nil:
				section(ew, "Final tableau")
			default:
				section(ew, fmt.Sprintf("Iteration %d", snap.Iteration))
			}
			fmt.Fprint(ew, snap.Tableau.String())
			if snap.Pivot != nil {
				fmt.Fprintf(ew, "\n%s\n", describePivot(snap.Tableau, *snap.Pivot))
			}
		}
	} else if len(res.Pivots) > 0 && res.Final != nil {
		section(ew, "Pivots")
		Pivots(ew, res.Final, res.Pivots)
	}

	section(ew, "Result")
	Result(ew, p, res)

	return ew.err
}

// Matrix prints [A | b] with the relation of every row.
func Matrix(w io.Writer, p *model.Problem) {
	aug := mat.NewDense(p.NumRows, p.NumCols+1, nil)
	aug.Slice(0, p.NumRows, 0, p.NumCols).(*mat.Dense).Copy(p.A)
	aug.Slice(0, p.NumRows, p.NumCols, p.NumCols+1).(*mat.Dense).Copy(p.B)

	fmt.Fprintf(w, "c = %v\n", mat.Formatted(p.C, mat.Squeeze()))
	fmt.Fprintf(w, "[A|b] = %v\n", mat.Formatted(aug, mat.Prefix("        "), mat.Squeeze()))
	rel := make([]string, p.NumRows)
	for r := range rel {
		rel[r] = p.Rel[r].String()
	}
	fmt.Fprintf(w, "rel = [%s]\n", strings.Join(rel, " "))
}

// Pivots prints the pivot log. Column names are taken from t, which can
// be any tableau of the same solve.
func Pivots(w io.Writer, t *simplex.Tableau, pivots []simplex.PivotOperation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "iteration\tentering\tleaving\trow\telement\ttie\t")
	for _, op := range pivots {
		tie := ""
		if op.Tie {
			tie = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.6g\t%s\t\n",
			op.Iteration, t.Name(op.Entering), t.Name(op.Leaving), op.LeavingRow, op.Element, tie)
	}
	tw.Flush()
}

// Result prints the outcome, the solution and any alternate optima.
func Result(w io.Writer, p *model.Problem, res *simplex.Result) {
	fmt.Fprintf(w, "type: %s\n", res.Type)
	fmt.Fprintf(w, "message: %s\n", res.Message)
	fmt.Fprintf(w, "iterations: %d\n", res.Iterations)
	if res.Degenerate {
		fmt.Fprintln(w, "degenerate: yes")
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}

	if !res.Trusted() {
		if res.Type == simplex.Unbounded {
			fmt.Fprintf(w, "z = %g\n", res.Z)
		}
		return
	}

	fmt.Fprintf(w, "z = %.6g\n", res.Z)
	vector(w, p, res.X)

	if res.Type != simplex.Multiple {
		return
	}
	fmt.Fprintf(w, "\nalternate optimum z = %.6g\n", res.SecondZ)
	vector(w, p, res.SecondX)
	if len(res.Alternates) == 0 {
		return
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "lambda\t")
	for _, name := range p.Names() {
		fmt.Fprintf(tw, "%s\t", name)
	}
	fmt.Fprintln(tw, "z\t")
	for _, alt := range res.Alternates {
		fmt.Fprintf(tw, "%.4g\t", alt.Lambda)
		for _, v := range alt.X {
			fmt.Fprintf(tw, "%.6g\t", v)
		}
		mark := ""
		if !alt.Consistent {
			mark = " (!)"
		}
		fmt.Fprintf(tw, "%.6g%s\t\n", alt.Z, mark)
	}
	tw.Flush()
}

func vector(w io.Writer, p *model.Problem, x []float64) {
	for j, v := range x {
		fmt.Fprintf(w, "  %s = %.6g\n", p.VarName(j), v)
	}
}

func describePivot(t *simplex.Tableau, op simplex.PivotOperation) string {
	s := fmt.Sprintf("pivot: %s enters, %s leaves (row %d), element %.6g",
		t.Name(op.Entering), t.Name(op.Leaving), op.LeavingRow, op.Element)
	if op.Tie {
		s += ", ratio tie"
	}
	return s
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n== %s ==\n", title)
}

// errWriter keeps the first write error so Write can report it once.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(b []byte) (int, error) {
	if ew.err != nil {
		return len(b), nil
	}
	n, err := ew.w.Write(b)
	ew.err = err
	return n, err
}
