package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/muesli/termenv"
	"github.com/san-kum/asciibrot/internal/animate"
	"github.com/san-kum/asciibrot/internal/automation"
	"github.com/san-kum/asciibrot/internal/config"
	"github.com/san-kum/asciibrot/internal/export"
	"github.com/san-kum/asciibrot/internal/palette"
	"github.com/san-kum/asciibrot/internal/plot"
	"github.com/san-kum/asciibrot/internal/serve"
	"github.com/san-kum/asciibrot/internal/storage"
	"github.com/san-kum/asciibrot/internal/viz"
	"github.com/spf13/cobra"
)

var (
	frames     int
	width      int
	height     int
	delay      time.Duration
	workers    int
	noCache    bool
	configFile string
	preset     string
	colorMode  string
	verbose    bool
	dataDir    string
	svgOut     string
	withSVG    bool
	wsAddr     string
	sshAddr    string
	hostKey    string
	wsOrigins  []string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "asciibrot",
})

func main() {
	rootCmd := &cobra.Command{
		Use:   "asciibrot [style]",
		Short: "animated mandelbrot set in the terminal",
		Long: `asciibrot plots the Mandelbrot set as colored glyphs, raising the
iteration bound by one every frame so the boundary sharpens over time.

Styles: 0 grayscale, 1 proportional (default), 2 saturating, 3 twotone.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: runAnimation,
	}

	pf := rootCmd.PersistentFlags()
	pf.IntVar(&frames, "frames", config.DefaultFrames, "number of frames (final iteration bound)")
	pf.IntVar(&width, "width", plot.DefaultWidth, "grid width in glyphs")
	pf.IntVar(&height, "height", plot.DefaultHeight, "grid height in glyphs")
	pf.DurationVar(&delay, "delay", config.DefaultDelay, "pause between frames")
	pf.IntVar(&workers, "workers", 0, "plotting goroutines (0 = GOMAXPROCS)")
	pf.BoolVar(&noCache, "no-cache", false, "recompute every cell every frame")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "named viewport (see presets)")
	pf.StringVar(&colorMode, "color", "auto", "color output: auto, always or never")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	liveCmd := &cobra.Command{
		Use:   "live [style]",
		Short: "interactive animation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	statsCmd := &cobra.Command{
		Use:   "stats [style]",
		Short: "plot how many cells stay in the set per frame",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStats,
	}
	statsCmd.Flags().StringVar(&svgOut, "svg", "", "write the curve as svg to this path")

	exportCmd := &cobra.Command{
		Use:   "export [style]",
		Short: "save the final frame's escape grid",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&dataDir, "data", ".asciibrot", "export directory")
	exportCmd.Flags().BoolVar(&withSVG, "svg", false, "also write frame.svg")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list exported frames",
		Args:  cobra.NoArgs,
		RunE:  listExports,
	}
	listCmd.Flags().StringVar(&dataDir, "data", ".asciibrot", "export directory")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named viewports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tX\tY\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				vp := p.Viewport
				fmt.Fprintf(w, "%s\t%g..%g\t%g..%g\t%s\n", name, vp.XMin, vp.XMax, vp.YMin, vp.YMax, p.Description)
			}
			return w.Flush()
		},
	}

	tourCmd := &cobra.Command{
		Use:   "tour <file>",
		Short: "play a scripted sequence of regions",
		Args:  cobra.ExactArgs(1),
		RunE:  runTour,
	}

	serveCmd := &cobra.Command{
		Use:   "serve [style]",
		Short: "stream the animation over websocket and/or ssh",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&wsAddr, "ws", ":8080", "websocket listen address (empty disables)")
	serveCmd.Flags().StringSliceVar(&wsOrigins, "origin", nil, "extra page hosts allowed to open the websocket (default same host only)")
	serveCmd.Flags().StringVar(&sshAddr, "ssh", "", "ssh listen address (empty disables)")
	serveCmd.Flags().StringVar(&hostKey, "host-key", "", "ssh host key path (default ~/.asciibrot/host_key)")

	rootCmd.AddCommand(liveCmd, statsCmd, exportCmd, listCmd, presetsCmd, tourCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}

// resolveConfig collects explicitly set flags and the positional style
// selector and layers them over the preset and config file.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var o config.Overrides

	flags := cmd.Flags()
	if flags.Changed("frames") {
		o.Frames = &frames
	}
	if flags.Changed("width") {
		o.Width = &width
	}
	if flags.Changed("height") {
		o.Height = &height
	}
	if flags.Changed("delay") {
		o.Delay = &delay
	}
	if flags.Changed("workers") {
		o.Workers = &workers
	}
	if flags.Changed("no-cache") {
		useCache := !noCache
		o.Cache = &useCache
	}
	if len(args) == 1 {
		o.Style = args[0]
	}

	cfg, err := config.Resolve(preset, configFile, o)
	if err != nil {
		return nil, err
	}
	logger.Debug("config resolved",
		"style", cfg.Style,
		"frames", cfg.Frames,
		"grid", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"viewport", fmt.Sprintf("%+v", cfg.Viewport),
		"cache", cfg.Cache,
	)
	return cfg, nil
}

func newRenderer(cmd *cobra.Command) (*palette.Renderer, error) {
	out := cmd.OutOrStdout()
	switch colorMode {
	case "auto":
		return palette.NewRenderer(out), nil
	case "always":
		return palette.NewRendererWithProfile(out, termenv.TrueColor), nil
	case "never":
		return palette.NewRendererWithProfile(out, termenv.Ascii), nil
	}
	return nil, fmt.Errorf("unknown color mode %q (want auto, always or never)", colorMode)
}

func runAnimation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd)
	if err != nil {
		return err
	}
	p, err := plot.New(cfg.PlotOptions())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	a := animate.New(cmd.OutOrStdout(), animate.WithDelay(cfg.Delay), animate.WithLogger(logger))
	err = a.Animate(ctx, cfg.Frames, animate.Plotting(p, r, func(f *plot.Frame) {
		st := f.Stats()
		logger.Debug("frame plotted", "bound", f.MaxIter, "inside", st.Inside, "escaped", st.Escaped)
	}))
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted", "state", a.State())
		return nil
	}
	if err != nil {
		return err
	}

	if c := p.Cache(); c != nil {
		logger.Debug("animation finished", "elapsed", time.Since(start), "cache_hits", c.Hits(), "cache_misses", c.Misses())
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd)
	if err != nil {
		return err
	}
	p, err := plot.New(cfg.PlotOptions())
	if err != nil {
		return err
	}

	m := viz.NewModel(p, r, cfg.Frames, cfg.Delay)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	p, err := plot.New(cfg.PlotOptions())
	if err != nil {
		return err
	}

	start := time.Now()
	sweep, err := automation.Sweep(context.Background(), p, 1, cfg.Frames)
	if err != nil {
		return err
	}
	inside := automation.InsideSeries(sweep)
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	graph := asciigraph.Plot(inside,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption("cells in set vs iteration bound"),
	)
	fmt.Fprintln(out, graph)
	fmt.Fprintln(out)

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.SeriesToSVG(inside, 800, 300, "#00ff88")), 0644); err != nil {
			return err
		}
		logger.Info("curve exported", "path", svgOut)
	}

	st := sweep[len(sweep)-1]
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "frames\t%d\n", cfg.Frames)
	fmt.Fprintf(w, "grid\t%dx%d\n", cfg.Width, cfg.Height)
	fmt.Fprintf(w, "inside\t%d\n", st.Inside)
	fmt.Fprintf(w, "escaped\t%d\n", st.Escaped)
	fmt.Fprintf(w, "max escape\t%d\n", st.MaxEscape)
	fmt.Fprintf(w, "time\t%v\n", elapsed)
	if c := p.Cache(); c != nil {
		fmt.Fprintf(w, "cache\t%d hits, %d misses\n", c.Hits(), c.Misses())
	}
	return w.Flush()
}

func runTour(cmd *cobra.Command, args []string) error {
	tour, err := automation.LoadTour(args[0])
	if err != nil {
		return err
	}
	base, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunTour(ctx, tour, base, cmd.OutOrStdout(), r, logger)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted", "completed_steps", len(results))
		return nil
	}
	if err != nil {
		return err
	}

	for _, res := range results {
		logger.Debug("step finished", "step", res.Step, "inside", res.Stats.Inside, "max_escape", res.Stats.MaxEscape)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	opts := serve.Options{WSAddr: wsAddr, Origins: wsOrigins}
	if sshAddr != "" {
		sshCfg := serve.DefaultSSHConfig()
		sshCfg.Address = sshAddr
		sshCfg.HostKeyPath = hostKey
		opts.SSH = &sshCfg
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve.Run(ctx, opts, cfg, logger)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	p, err := plot.New(cfg.PlotOptions())
	if err != nil {
		return err
	}
	f, err := p.Plot(context.Background(), cfg.Frames)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(f)
	if err != nil {
		return err
	}

	if withSVG {
		path := filepath.Join(st.Dir(id), "frame.svg")
		if err := os.WriteFile(path, []byte(export.FrameToSVG(f, 8)), 0644); err != nil {
			return err
		}
		logger.Debug("svg written", "path", path)
	}

	logger.Info("frame exported", "id", id, "dir", dataDir)
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func listExports(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	exports, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(exports) == 0 {
		fmt.Fprintln(out, "no exports found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTYLE\tBOUND\tGRID\tINSIDE")
	for _, e := range exports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dx%d\t%d\n",
			e.ID,
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Style,
			e.MaxIter,
			e.Width, e.Height,
			e.Inside,
		)
	}
	return w.Flush()
}
