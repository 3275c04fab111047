package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"q.log/bigm/csvfile"
	"q.log/bigm/instance"
	"q.log/bigm/model"
)

const envPrefix = "BIGM"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:          "bigm",
		Short:        "Solve linear programs with the Big-M tableau simplex method",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(v, cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			if cfg := v.GetString("config"); cfg != "" {
				v.SetConfigFile(cfg)
				if err := v.ReadInConfig(); err != nil {
					return errors.Wrapf(err, "reading config %s", cfg)
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (yaml, toml or json) holding flag values")
	cmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "text", "log format (text or json)")

	cmd.AddCommand(
		newSolveCommand(v),
		newConvertCommand(v),
	)
	return cmd
}

// bindFlags makes every flag of fs readable through v, so a value can
// come from the command line, a BIGM_ environment variable or the
// config file, in that order.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	return errors.Wrap(v.BindPFlags(fs), "binding flags")
}

func newLogger(v *viper.Viper) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing log level")
	}
	log.SetLevel(level)

	switch format := v.GetString("log-format"); format {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("unknown log format %q", format)
	}

	return log, nil
}

// loadProblem reads a .csv or .mps file. The sense is only used for MPS
// files; CSV files carry their own TYPE row.
func loadProblem(filename string, sense model.Sense, log logrus.FieldLogger) (*model.Problem, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return csvfile.ReadFile(filename)
	case ".mps":
		return instance.NewReader(filename, sense, log).ConstructProblem()
	default:
		return nil, errors.Errorf("%s: unknown problem format %q, want .csv or .mps", filename, ext)
	}
}
