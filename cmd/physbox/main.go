package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/physbox/internal/config"
	"github.com/san-kum/physbox/internal/experiment"
	"github.com/san-kum/physbox/internal/export"
	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/server"
	"github.com/san-kum/physbox/internal/sim"
	"github.com/san-kum/physbox/internal/storage"
	"github.com/san-kum/physbox/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	dt          float64
	duration    float64
	gravity     float64
	restitution float64
	friction    float64
	balls       int
	seed        int64
	configFile  string
	preset      string
	metricNames []string
	runs        int
	svgFile     string
)

// main registers the physbox commands. Without a subcommand it opens the
// interactive lesson picker.
func main() {
	rootCmd := &cobra.Command{
		Use:   "physbox",
		Short: "2D physics teaching sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".physbox", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [lesson]",
		Short: "run a headless simulation and record it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addWorldFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default: lesson metrics)")
	runCmd.Flags().IntVar(&runs, "runs", 1, "ensemble size; more than 1 reports averaged metrics without recording")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body heights of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata, or body trajectories as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgFile, "svg", "", "write body trajectories to this svg file")

	liveCmd := &cobra.Command{
		Use:   "live [lesson]",
		Short: "run a lesson in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addWorldFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the world over HTTP and WebSocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [lesson]",
		Short: "list available presets for a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := physics.ParseLesson(args[0])
			if err != nil {
				return err
			}
			presets := config.ListPresets(l.String())
			if len(presets) == 0 {
				fmt.Printf("no presets for lesson: %s\n", l)
				return nil
			}
			sort.Strings(presets)
			fmt.Printf("presets for %s:\n", l)
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	lessonsCmd := &cobra.Command{
		Use:   "lessons",
		Short: "list lessons and their default metrics",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			reg := experiment.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LESSON\tMETRICS")
			for _, l := range physics.Lessons() {
				names := make([]string, 0)
				for _, m := range reg.DefaultMetrics(l) {
					names = append(names, m.Name())
				}
				fmt.Fprintf(w, "%s\t%s\n", l, strings.Join(names, ", "))
			}
			w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, liveCmd, serveCmd, presetsCmd, lessonsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addWorldFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().Float64Var(&dt, "dt", d.Dt, "timestep in seconds")
	cmd.Flags().Float64Var(&duration, "time", d.Duration, "duration in seconds")
	cmd.Flags().Float64Var(&gravity, "gravity", d.World.Gravity, "gravity in m/s²")
	cmd.Flags().Float64Var(&restitution, "restitution", d.World.Restitution, "coefficient of restitution")
	cmd.Flags().Float64Var(&friction, "friction", d.World.Friction, "friction coefficient")
	cmd.Flags().IntVar(&balls, "balls", d.Spawn.Balls, "default balls to spawn")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves the run configuration: the preset, then the config
// file, then any flag set on the command line.
func buildConfig(cmd *cobra.Command, lessonArg string) (*config.Config, error) {
	l, err := physics.ParseLesson(lessonArg)
	if err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(l.String(), preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(l.String()))
		}
	}
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg.Lesson = l

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
		if cfg.MaxStep < dt {
			cfg.MaxStep = dt
		}
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("gravity") {
		cfg.World.Gravity = gravity
	}
	if flags.Changed("restitution") {
		cfg.World.Restitution = restitution
	}
	if flags.Changed("friction") {
		cfg.World.Friction = friction
	}
	if flags.Changed("balls") {
		cfg.Spawn.Balls = balls
		cfg.Bodies = nil
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	if runs > 1 {
		return runEnsemble(ctx, exp, registry, cfg)
	}

	ms := registry.DefaultMetrics(cfg.Lesson)
	if len(metricNames) > 0 {
		ms = ms[:0]
		for _, name := range metricNames {
			m, err := registry.GetMetric(name)
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(registry.ListMetrics(), ", "))
			}
			ms = append(ms, m)
		}
	}
	exp.Setup(ms)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Lesson)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		if result == nil || !errors.Is(err, sim.ErrCanceled) {
			return err
		}
		fmt.Printf("interrupted after %d steps, saving partial run\n", result.StepsTaken)
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Lesson:         cfg.Lesson.String(),
		Preset:         preset,
		Seed:           cfg.Seed,
		Dt:             cfg.Dt,
		Duration:       cfg.Duration,
		Bodies:         exp.World().Len(),
		Gravity:        cfg.World.Gravity,
		Restitution:    cfg.World.Restitution,
		Friction:       cfg.World.Friction,
		PixelsPerMeter: cfg.World.PixelsPerMeter,
		Width:          cfg.World.Width,
		Floor:          cfg.World.Floor,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %.6f J\n", result.EnergyDrift)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	printMetrics(result.Metrics)
	return nil
}

func runEnsemble(ctx context.Context, exp *experiment.Experiment, reg *experiment.Registry, cfg *config.Config) error {
	fmt.Printf("running %d %s simulations from seed %d...\n", runs, cfg.Lesson, cfg.Seed)
	results, err := exp.RunEnsemble(ctx, reg, runs)
	if err != nil {
		return err
	}

	sums := make(map[string]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			sums[name] += v
		}
	}
	for name := range sums {
		sums[name] /= float64(len(results))
	}
	fmt.Printf("completed %d runs\n", len(results))
	printMetrics(sums)
	return nil
}

func printMetrics(ms map[string]float64) {
	names := make([]string, 0, len(ms))
	for name := range ms {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, ms[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	records, err := st.List()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLESSON\tTIME\tDURATION\tDT\tBODIES\tPRESET")

	for _, run := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Lesson,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Bodies,
			run.Preset,
		)
	}

	return w.Flush()
}

// maxPlots caps how many bodies plotRun draws.
const maxPlots = 6

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("lesson: %s\n", meta.Lesson)
	fmt.Printf("samples: %d\n\n", len(states.Rows))

	n := min(states.Bodies(), maxPlots)
	for i := 0; i < n; i++ {
		ys, ok := states.Column(fmt.Sprintf("b%d_y", i))
		if !ok {
			continue
		}
		// Rows store screen y; plot height above the top of the world.
		heights := make([]float64, len(ys))
		for j, y := range ys {
			heights[j] = -y
		}

		graph := asciigraph.Plot(heights,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d height (-y)", i)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if svgFile == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}

	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	width, floor := meta.Width, meta.Floor
	if width == 0 || floor == 0 {
		width, floor = config.DefaultWidth, config.DefaultFloor
	}
	svg, err := export.Trajectories(states, width, floor)
	if err != nil {
		return err
	}
	if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgFile)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	m, err := viz.NewLiveModel(cfg)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func serve(cmd *cobra.Command, args []string) error {
	sc := config.LoadServer()

	l, err := physics.ParseLesson(sc.Lesson)
	if err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	if sc.Preset != "" {
		cfg = config.GetPreset(l.String(), sc.Preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", sc.Preset, config.ListPresets(l.String()))
		}
	}
	cfg.Lesson = l
	if sc.FPS > 0 {
		cfg.Dt = 1 / float64(sc.FPS)
		cfg.MaxStep = max(cfg.MaxStep, cfg.Dt)
	}

	session, err := server.NewSession(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return server.New(sc, session).ListenAndServe(ctx)
}
