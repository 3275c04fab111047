package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"q.log/bigm/model"
	"q.log/bigm/reference"
	"q.log/bigm/report"
	"q.log/bigm/simplex"
)

func newSolveCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Solve a problem stored as .csv or .mps and print a report",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(v)
			if err != nil {
				return err
			}
			return runSolve(cmd, v, log, args[0])
		},
	}

	cmd.Flags().String("sense", "max", "objective direction of MPS input (max or min)")
	cmd.Flags().Int("max-iterations", simplex.DefaultMaxIterations, "maximum number of pivots")
	cmd.Flags().Float64("big-m", simplex.DefaultBigM, "penalty of artificial variables")
	cmd.Flags().Float64("epsilon", simplex.Epsilon, "zero threshold of pivoting decisions")
	cmd.Flags().Int("alternates", simplex.DefaultAlternates, "interpolated points printed for multiple optima")
	cmd.Flags().Float64("tolerance", simplex.DefaultTolerance, "accepted relative error of alternate and reference objectives")
	cmd.Flags().Duration("timeout", 0, "stop the solve after this long (0 disables)")
	cmd.Flags().Bool("tables", false, "print the tableau before every pivot")
	cmd.Flags().Bool("matrix", false, "print the constraint matrix")
	cmd.Flags().Bool("verify", false, "cross-check the result with gonum's simplex")
	cmd.Flags().Duration("verify-timeout", 10*time.Second, "give up on the gonum cross-check after this long (0 disables)")
	return cmd
}

func runSolve(cmd *cobra.Command, v *viper.Viper, log *logrus.Logger, filename string) error {
	sense, err := model.ParseSense(v.GetString("sense"))
	if err != nil {
		return err
	}
	p, err := loadProblem(filename, sense, log)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file":        filename,
		"constraints": p.NumRows,
		"variables":   p.NumCols,
	}).Info("problem loaded")

	s, err := simplex.NewSolver(
		simplex.WithBigM(v.GetFloat64("big-m")),
		simplex.WithEpsilon(v.GetFloat64("epsilon")),
		simplex.WithMaxIterations(v.GetInt("max-iterations")),
		simplex.WithAlternates(v.GetInt("alternates")),
		simplex.WithTolerance(v.GetFloat64("tolerance")),
		simplex.WithLogger(log),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := v.GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tables := v.GetBool("tables")
	res, err := s.SolveProblem(ctx, p, tables)
	if err != nil {
		return err
	}

	opts := report.Options{Tables: tables, Matrix: v.GetBool("matrix")}
	if err := report.Write(cmd.OutOrStdout(), p, res, opts); err != nil {
		return errors.Wrap(err, "writing report")
	}

	if !v.GetBool("verify") {
		return nil
	}
	vctx := ctx
	if timeout := v.GetDuration("verify-timeout"); timeout > 0 {
		var cancel context.CancelFunc
		vctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ref, err := reference.Check(vctx, p, res, v.GetFloat64("tolerance"))
	switch {
	case errors.Is(err, reference.ErrUnsupported):
		log.WithError(err).Warn("result not verified")
	case err != nil:
		return err
	default:
		log.WithFields(logrus.Fields{
			"outcome": ref.Outcome,
			"z":       ref.Z,
		}).Info("result verified")
		fmt.Fprintf(cmd.OutOrStdout(), "\nverified against gonum: %s\n", ref.Outcome)
	}
	return nil
}
