package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"q.log/bigm/csvfile"
	"q.log/bigm/model"
)

func newConvertCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Rewrite a .csv or .mps problem as csv, OUT - writes to stdout",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(v)
			if err != nil {
				return err
			}
			sense, err := model.ParseSense(v.GetString("sense"))
			if err != nil {
				return err
			}

			p, err := loadProblem(args[0], sense, log)
			if err != nil {
				return err
			}
			if name := v.GetString("name"); name != "" {
				p.Name = name
			}

			if args[1] == "-" {
				return csvfile.Write(cmd.OutOrStdout(), p)
			}
			if err := csvfile.WriteFile(args[1], p); err != nil {
				return err
			}
			log.WithField("file", args[1]).Info("problem written")
			return nil
		},
	}

	cmd.Flags().String("sense", "max", "objective direction of MPS input (max or min)")
	cmd.Flags().String("name", "", "problem name to store, defaults to the input's")
	return cmd
}
