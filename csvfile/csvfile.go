// Package csvfile reads and writes problems as line oriented CSV with
// tagged rows:
//
//	NAME,<problem name>
//	TYPE,MAX|MIN
//	N,<number of variables>
//	VARS,<name 1>,...,<name n>
//	M,<number of constraints>
//	Z,<c1>,...,<cn>
//	R,<a1>,...,<an>,<relation>,<rhs>
//
// NAME, N, VARS and M are optional. Every constraint is one R row, in
// order. Lines starting with '#' are ignored.
package csvfile

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"q.log/bigm/model"
)

var ErrMalformed = errors.New("csvfile: malformed problem")

const (
	tagName = "NAME"
	tagType = "TYPE"
	tagN    = "N"
	tagVars = "VARS"
	tagM    = "M"
	tagZ    = "Z"
	tagR    = "R"
)

type document struct {
	name  string
	sense model.Sense
	typed bool
	n     int
	m     int
	vars  []string
	z     []float64
	rows  []model.Constraint
}

// Read parses a problem and validates it.
func Read(r io.Reader) (*model.Problem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	doc := &document{n: -1, m: -1}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
		line, _ := cr.FieldPos(0)
		if err := doc.add(record); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
	}

	return doc.problem()
}

func (d *document) add(record []string) error {
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	fields := record[1:]

	switch tag := strings.ToUpper(record[0]); tag {
	case tagName:
		d.name = strings.Join(fields, ",")
	case tagType:
		if len(fields) != 1 {
			return errors.Wrap(ErrMalformed, "TYPE takes exactly one field")
		}
		sense, err := model.ParseSense(fields[0])
		if err != nil {
			return errors.Wrap(ErrMalformed, err.Error())
		}
		d.sense, d.typed = sense, true
	case tagN, tagM:
		if len(fields) != 1 {
			return errors.Wrapf(ErrMalformed, "%s takes exactly one field", tag)
		}
		v, err := strconv.Atoi(fields[0])
		if err != nil || v <= 0 {
			return errors.Wrapf(ErrMalformed, "%s %q is not a positive count", tag, fields[0])
		}
		if tag == tagN {
			d.n = v
		} else {
			d.m = v
		}
	case tagVars:
		d.vars = append([]string(nil), fields...)
	case tagZ:
		z, err := parseFloats(fields)
		if err != nil {
			return err
		}
		d.z = z
	case tagR:
		if len(fields) < 3 {
			return errors.Wrap(ErrMalformed, "R needs coefficients, a relation and a rhs")
		}
		coefs, err := parseFloats(fields[:len(fields)-2])
		if err != nil {
			return err
		}
		rel, err := model.ParseRelation(fields[len(fields)-2])
		if err != nil {
			return errors.Wrap(ErrMalformed, err.Error())
		}
		rhs, err := parseFloat(fields[len(fields)-1])
		if err != nil {
			return err
		}
		d.rows = append(d.rows, model.Constraint{Coefs: coefs, Rel: rel, RHS: rhs})
	default:
		return errors.Wrapf(ErrMalformed, "unknown tag %q", record[0])
	}

	return nil
}

func (d *document) problem() (*model.Problem, error) {
	if !d.typed {
		return nil, errors.Wrap(ErrMalformed, "missing TYPE row")
	}
	if d.z == nil {
		return nil, errors.Wrap(ErrMalformed, "missing Z row")
	}
	if len(d.rows) == 0 {
		return nil, errors.Wrap(ErrMalformed, "no R rows")
	}
	if d.n >= 0 && d.n != len(d.z) {
		return nil, errors.Wrapf(ErrMalformed, "N is %d but Z has %d coefficients", d.n, len(d.z))
	}
	if d.m >= 0 && d.m != len(d.rows) {
		return nil, errors.Wrapf(ErrMalformed, "M is %d but there are %d R rows", d.m, len(d.rows))
	}

	p, err := model.New(d.sense, d.z, d.rows...)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	p.Name = d.name
	if err := p.SetVarNames(d.vars); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}

	return p, nil
}

// Write serializes p. Coefficients are written with the shortest
// representation that reads back to the same float64.
func Write(w io.Writer, p *model.Problem) error {
	if err := p.Validate(); err != nil {
		return errors.Wrap(err, "csvfile: invalid problem")
	}

	cw := csv.NewWriter(w)
	records := [][]string{
		{tagName, p.Name},
		{tagType, p.Sense.String()},
		{tagN, strconv.Itoa(p.NumCols)},
		append([]string{tagVars}, p.Names()...),
		{tagM, strconv.Itoa(p.NumRows)},
		append([]string{tagZ}, formatFloats(p.Objectives())...),
	}
	for r := range p.NumRows {
		con := p.Constraint(r)
		record := append([]string{tagR}, formatFloats(con.Coefs)...)
		record = append(record, con.Rel.String(), formatFloat(con.RHS))
		records = append(records, record)
	}

	if err := cw.WriteAll(records); err != nil {
		return errors.Wrap(err, "csvfile: writing problem")
	}
	return nil
}

func ReadFile(filename string) (*model.Problem, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "csvfile: opening problem")
	}
	defer f.Close()

	p, err := Read(f)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return p, nil
}

func WriteFile(filename string, p *model.Problem) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "csvfile: creating file")
	}
	if err := Write(f, p); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "csvfile: closing file")
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "%q is not a number", s)
	}
	return v, nil
}

func parseFloats(fields []string) ([]float64, error) {
	vs := make([]float64, len(fields))
	for i, f := range fields {
		v, err := parseFloat(f)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloats(vs []float64) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = formatFloat(v)
	}
	return out
}
