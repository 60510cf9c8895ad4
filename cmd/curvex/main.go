// Command curvex extracts regularized curves from cost volumes described in
// YAML problem files.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/curvex/config"
	"github.com/katalvlaran/curvex/cost"
	"github.com/katalvlaran/curvex/extract"
	"github.com/katalvlaran/curvex/metrics"
	"github.com/katalvlaran/curvex/refine"
)

var (
	logger      *zap.Logger
	verbose     bool
	metricsFile string
	collector   *metrics.Collector

	outFile    string
	withRefine bool
	pathFile   string
)

var rootCmd = &cobra.Command{
	Use:   "curvex",
	Short: "Curvature- and torsion-regularized curve extraction",
	Long: `curvex finds the minimum-energy curve through a 2D or 3D cost volume.

The energy is the data cost integrated along the curve plus length,
curvature and torsion penalties. The discrete search runs on a
state-expanded grid graph; the result can be refined continuously.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		collector = metrics.NewCollector()
		return nil
	},
}

// segmentCmd runs the discrete search and optionally refines its path.
var segmentCmd = &cobra.Command{
	Use:   "segment <problem.yaml>",
	Short: "Extract the optimal discrete curve",
	Long: `Loads a problem, runs the state-expanded shortest-path search and
writes the path as YAML (stdout unless --out is given).

Example:
  curvex segment vessel.yaml --refine --out vessel.result.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

// refineCmd refines a previously extracted path.
var refineCmd = &cobra.Command{
	Use:   "refine <problem.yaml>",
	Short: "Refine a path from a result document",
	Long: `Loads the problem for its volume, voxel size, regularization and solver
settings, reads the path from the --path result document and minimizes
its continuous energy.`,
	Args: cobra.ExactArgs(1),
	RunE: runRefine,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	rootCmd.PersistentFlags().StringVarP(&outFile, "out", "o", "", "result file (default stdout)")

	segmentCmd.Flags().BoolVar(&withRefine, "refine", false, "refine the discrete path")
	refineCmd.Flags().StringVar(&pathFile, "path", "", "result document holding the path to refine")
	_ = refineCmd.MarkFlagRequired("path")

	rootCmd.AddCommand(segmentCmd, refineCmd)
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

// execute runs the command line, then syncs the logger and writes the
// metrics file whether or not the command succeeded.
func execute() error {
	err := rootCmd.Execute()
	if ferr := flush(); ferr != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", ferr)
		if err == nil {
			err = ferr
		}
	}

	return err
}

// flush releases the per-run logger and collector.
func flush() error {
	defer func() { logger, collector = nil, nil }()
	if logger != nil {
		_ = logger.Sync()
	}
	if collector == nil || metricsFile == "" {
		return nil
	}

	return collector.WriteFile(metricsFile)
}

func runSegment(cmd *cobra.Command, args []string) error {
	p, err := config.Load(args[0])
	if err != nil {
		return err
	}
	in, err := p.Input()
	if err != nil {
		return err
	}
	log := logger.With(zap.String("problem", args[0]))

	// Unsupported solver settings must fail before the search runs.
	if withRefine {
		opts, err := p.RefineOptions()
		if err != nil {
			return err
		}
		if err := opts.Validate(); err != nil {
			return err
		}
	}

	res, err := extract.Extract(in, p.Settings(),
		extract.WithLogger(log), extract.WithObserver(collector))
	if err != nil {
		return fmt.Errorf("segment %s: %w", args[0], err)
	}
	log.Info("curve extracted",
		zap.Stringer("mode", res.Mode),
		zap.Int("points", len(res.Path)),
		zap.Float64("cost", res.Cost),
		zap.Int("evaluations", res.Evaluations),
		zap.Duration("run_time", res.RunTime))
	doc := config.NewResult(res)

	if withRefine {
		ref, err := refinePath(p, cost.FromPoints(res.Path), log)
		if err != nil {
			return err
		}
		doc.WithRefined(ref)
	}

	return emit(cmd, doc)
}

func runRefine(cmd *cobra.Command, args []string) error {
	p, err := config.Load(args[0])
	if err != nil {
		return err
	}
	pts, err := config.LoadPath(pathFile)
	if err != nil {
		return err
	}
	log := logger.With(zap.String("problem", args[0]), zap.String("path", pathFile))

	ref, err := refinePath(p, pts, log)
	if err != nil {
		return err
	}

	return emit(cmd, (&config.Result{Cost: ref.Cost}).WithRefined(ref))
}

// refinePath runs the continuous stage on seed with the problem's volume
// and solver settings.
func refinePath(p *config.Problem, seed []cost.Vec, log *zap.Logger) (*refine.Result, error) {
	vol, err := p.Volume()
	if err != nil {
		return nil, err
	}
	opts, err := p.RefineOptions()
	if err != nil {
		return nil, err
	}
	ref, err := refine.Refine(seed, vol, p.Scale(), p.CostRegularization(),
		refine.WithOptions(opts), refine.WithLogger(log), refine.WithObserver(collector))
	if err != nil {
		return nil, err
	}
	logRefined(log, ref)

	return ref, nil
}

func logRefined(log *zap.Logger, ref *refine.Result) {
	log.Info("curve refined",
		zap.String("status", ref.Status),
		zap.Bool("converged", ref.Converged),
		zap.Int("iterations", ref.Iterations),
		zap.Float64("initial_cost", ref.InitialCost),
		zap.Float64("cost", ref.Cost),
		zap.Duration("run_time", ref.RunTime.Round(time.Microsecond)))
}

// emit writes doc to --out or the command's stdout.
func emit(cmd *cobra.Command, doc *config.Result) error {
	if outFile == "" {
		return config.WriteResult(cmd.OutOrStdout(), doc)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("create %s: %w", outFile, err)
	}
	if err := config.WriteResult(f, doc); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
