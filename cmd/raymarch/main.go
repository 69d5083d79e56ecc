// Command raymarch shows ray-march scenes in a window through WebGPU.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-raymarch/engine"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/renderer"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/window"
	"github.com/Carmen-Shannon/oxy-raymarch/internal/app"
	"github.com/spf13/cobra"
)

type runFlags struct {
	logLevel string
	scene    string
	width    int
	height   int
	vsync    bool
	fallback bool
	profile  bool
	frameCap float64
	watch    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &runFlags{}
	root := &cobra.Command{
		Use:          "raymarch",
		Short:        "Ray-march scenes on the GPU",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	run := &cobra.Command{
		Use:   "run",
		Short: "Open a window and render a scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := app.NewLogger(cmd.ErrOrStderr(), flags.logLevel)
			if err != nil {
				return err
			}
			return runScene(flags, logger)
		},
	}
	run.Flags().StringVar(&flags.scene, "scene", "scenes/basic.toml", "scene file (.toml, .yaml or .yml)")
	run.Flags().IntVar(&flags.width, "width", 1280, "window width")
	run.Flags().IntVar(&flags.height, "height", 720, "window height")
	run.Flags().BoolVar(&flags.vsync, "vsync", true, "wait for vertical blank when presenting")
	run.Flags().BoolVar(&flags.fallback, "fallback-adapter", false, "force the software fallback adapter")
	run.Flags().BoolVar(&flags.profile, "profile", false, "log frame statistics every second")
	run.Flags().Float64Var(&flags.frameCap, "max-fps", 0, "render frame cap, 0 for uncapped")
	run.Flags().BoolVar(&flags.watch, "watch", true, "reload the scene when its files change")

	root.AddCommand(run)
	return root
}

func runScene(flags *runFlags, logger *slog.Logger) error {
	scene, err := raymarch.LoadScene(flags.scene)
	if err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle("raymarch - "+scene.Path),
		window.WithSize(flags.width, flags.height),
	)
	if err != nil {
		return err
	}

	mode := renderer.PresentModeUncapped
	if flags.vsync {
		mode = renderer.PresentModeVSync
	}
	r, err := renderer.NewRenderer(win.SurfaceDescriptor(),
		renderer.WithSurfaceSize(win.Width(), win.Height()),
		renderer.WithPresentMode(mode),
		renderer.WithForceSoftwareRenderer(flags.fallback),
		renderer.WithLogger(logger),
	)
	if err != nil {
		win.Close()
		return fmt.Errorf("create renderer: %w", err)
	}
	defer r.Release()

	pass, err := app.BuildPass(scene, r, logger)
	if err != nil {
		win.Close()
		return err
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithPass(pass, nil),
		engine.WithProfiling(flags.profile),
		engine.WithRenderFrameLimit(flags.frameCap),
		engine.WithLogger(logger),
	)
	ratio := win.PixelRatio()
	eng.Resize(int(float32(win.Width())/ratio), int(float32(win.Height())/ratio), ratio)

	if flags.watch {
		reloader, err := app.NewReloader(scene, eng, r, pass, nil, logger)
		if err != nil {
			win.Close()
			return err
		}
		defer reloader.Close()
		eng.SetTickCallback(func(float32) { reloader.Poll() })
	}

	logger.Info("running", "scene", scene.Path, "width", win.Width(), "height", win.Height(), "pixel_ratio", ratio)
	eng.Run()
	return nil
}
