package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/flatlattice/config"
	"github.com/katalvlaran/flatlattice/report"
	"github.com/katalvlaran/flatlattice/tiling"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:          "flatlattice",
		Short:        "Flat lattice tiling of a bounded parameter space",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML run description")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log setup diagnostics")
	_ = root.MarkPersistentFlagRequired("config")

	root.AddCommand(newGenerateCmd(flags), newCountCmd(flags))

	return root
}

func newGenerateCmd(flags *rootFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write every lattice point of the run as an XML report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, log, err := buildSession(cmd, flags)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				err = report.Write(cmd.Context(), cmd.OutOrStdout(), t)
			} else {
				err = report.WriteFile(cmd.Context(), out, t)
			}
			if err != nil {
				log.Error("report failed", slog.String("error", err.Error()))
				return err
			}
			log.Info("report written", slog.String("out", out), slog.Uint64("points", t.Count()))

			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "report path, - for stdout")

	return cmd
}

func newCountCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Enumerate the run and print the number of lattice points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, _, err := buildSession(cmd, flags)
			if err != nil {
				return err
			}
			if err = t.Walk(cmd.Context(), func([]float64) error { return nil }); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Count())

			return err
		},
	}
}

// buildSession loads the run and returns a set-up session whose logger
// carries the run's id.
func buildSession(cmd *cobra.Command, flags *rootFlags) (*tiling.Tiling, *slog.Logger, error) {
	log := newLogger(cmd.ErrOrStderr(), flags.verbose).With(
		slog.String("run_id", uuid.NewString()),
		slog.String("command", cmd.Name()),
	)
	run, err := config.Load(flags.configPath)
	if err != nil {
		log.Error("cannot load run", slog.String("error", err.Error()))
		return nil, nil, err
	}
	log.Info("run loaded",
		slog.String("config", flags.configPath),
		slog.Int("dimension", run.Dimension),
		slog.String("lattice", run.Lattice),
	)
	t, err := run.Build(tiling.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}

	return t, log, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
