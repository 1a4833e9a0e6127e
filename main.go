package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-particle-transport/pkg/config"
	"github.com/df07/go-particle-transport/pkg/core"
	"github.com/df07/go-particle-transport/pkg/loaders"
	"github.com/df07/go-particle-transport/pkg/transport"
	"github.com/df07/go-particle-transport/web/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// runFlags are command-line overrides applied on top of the loaded settings
type runFlags struct {
	histories  uint64
	seed       int64
	logLevel   string
	logFormat  string
	listenAddr string
	json       bool
}

func newRootCmd() *cobra.Command {
	var settingsPath string

	root := &cobra.Command{
		Use:           "transport",
		Short:         "Monte Carlo neutral particle transport",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&settingsPath, "config", "", "YAML settings file")

	root.AddCommand(newRunCmd(&settingsPath), newValidateCmd(), newListCmd())
	return root
}

func newRunCmd(settingsPath *string) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <problem>",
		Short: "Run the histories of a problem and print the estimator reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(*settingsPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &settings, flags)
			if err := settings.Validate(); err != nil {
				return err
			}
			return runProblem(cmd.Context(), settings, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.Uint64VarP(&flags.histories, "histories", "n", 0, "number of histories (default: from settings, then problem)")
	f.Int64Var(&flags.seed, "seed", 0, "random seed")
	f.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&flags.logFormat, "log-format", "", "log format: text or json")
	f.StringVar(&flags.listenAddr, "listen", "", "serve run status on this address while running, e.g. :8080")
	f.BoolVar(&flags.json, "json", false, "print estimator summaries as JSON")
	return cmd
}

// applyFlags copies the flags the user actually set into settings
func applyFlags(cmd *cobra.Command, s *config.Settings, flags runFlags) {
	changed := cmd.Flags().Changed
	if changed("histories") {
		s.Histories = flags.histories
	}
	if changed("seed") {
		s.Seed = flags.seed
	}
	if changed("log-level") {
		s.LogLevel = flags.logLevel
	}
	if changed("log-format") {
		s.LogFormat = flags.logFormat
	}
	if changed("listen") {
		s.ListenAddr = flags.listenAddr
	}
	if changed("json") {
		s.JSON = flags.json
	}
}

// runProblem loads and runs a problem, serving its status alongside if
// configured, then writes the results to out
func runProblem(ctx context.Context, settings config.Settings, path string, out, logOut io.Writer) error {
	logger, err := config.NewLogger(settings, logOut)
	if err != nil {
		return err
	}
	logger = logger.With("run", uuid.NewString())

	problem, err := loaders.LoadProblem(path)
	if err != nil {
		logger.Error("failed to load problem", "path", path, "error", err)
		return err
	}

	histories := settings.ResolveHistories(problem.Histories)
	sim := transport.NewSimulation(problem, core.NewSeededSampler(settings.Seed), logger)

	g, gctx := errgroup.WithContext(ctx)
	serverCtx, stopServer := context.WithCancel(gctx)
	defer stopServer()

	g.Go(func() error {
		defer stopServer()
		return sim.Run(gctx, histories)
	})
	if settings.ListenAddr != "" {
		srv := server.NewServer(settings.ListenAddr, sim, logger)
		g.Go(func() error {
			return srv.Start(serverCtx)
		})
	}

	runErr := g.Wait()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	if err := writeResults(out, sim, settings.JSON); err != nil {
		return err
	}
	return runErr
}

func writeResults(out io.Writer, sim *transport.Simulation, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sim.Status())
	}

	status := sim.Status()
	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(out, " %s: %d histories\n", status.Problem, status.HistoriesDone); err != nil {
		return err
	}
	return sim.Report(out)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <problem>",
		Short: "Load and resolve a problem without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			problem, err := loaders.LoadProblem(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"%s: %d surfaces, %d cells, %d materials, %d nuclides, %d estimators\n",
				problem.Name, len(problem.Surfaces), len(problem.Cells),
				len(problem.Materials), len(problem.Nuclides), len(problem.Estimators))
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [dir]",
		Short: "List the problem files in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			problems, err := loaders.DiscoverProblems(dir, nil)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tHISTORIES\tPATH\tDESCRIPTION")
			for _, p := range problems {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", p.Name, p.Histories, p.Path, p.Description)
			}
			return tw.Flush()
		},
	}
}
