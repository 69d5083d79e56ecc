package main

import (
	"runtime"

	"github.com/Carmen-Shannon/oxy-raymarch/engine"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/renderer/software"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/viewer"
	"github.com/Carmen-Shannon/oxy-raymarch/internal/app"
	"github.com/spf13/cobra"
)

type viewFlags struct {
	width   int
	height  int
	scale   float64
	workers int
	watch   bool
}

func newViewCommand(root *rootFlags) *cobra.Command {
	flags := &viewFlags{}
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show a scene in a window, reloading it when the file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(root, flags)
		},
	}
	cmd.Flags().IntVar(&flags.width, "width", 960, "window width")
	cmd.Flags().IntVar(&flags.height, "height", 540, "window height")
	cmd.Flags().Float64Var(&flags.scale, "scale", 0.5, "render resolution relative to the window")
	cmd.Flags().IntVar(&flags.workers, "workers", runtime.NumCPU(), "rows shaded in parallel")
	cmd.Flags().BoolVar(&flags.watch, "watch", true, "reload the scene when its files change")
	return cmd
}

func runView(root *rootFlags, flags *viewFlags) error {
	scene, err := raymarch.LoadScene(root.scene)
	if err != nil {
		return err
	}
	world, err := app.CPUWorld(scene)
	if err != nil {
		return err
	}

	dev := software.NewDevice(world,
		software.WithWorkers(flags.workers),
		software.WithLogger(root.logger),
	)
	pass, err := app.BuildPass(scene, dev, root.logger)
	if err != nil {
		return err
	}
	eng := engine.NewEngine(
		engine.WithPass(pass, nil),
		engine.WithLogger(root.logger),
	)

	opts := []viewer.ViewerBuilderOption{
		viewer.WithTitle("raymarch-soft - " + scene.Path),
		viewer.WithWindowSize(flags.width, flags.height),
		viewer.WithRenderScale(flags.scale),
		viewer.WithLogger(root.logger),
	}
	if flags.watch {
		r, err := app.NewReloader(scene, eng, dev, pass, func(s *raymarch.Scene) error {
			world, err := app.CPUWorld(s)
			if err != nil {
				return err
			}
			dev.SetScene(world)
			return nil
		}, root.logger)
		if err != nil {
			return err
		}
		defer r.Close()
		opts = append(opts, viewer.WithUpdateHook(func() error {
			r.Poll()
			return nil
		}))
	}

	return viewer.NewViewer(eng, dev, opts...).Run()
}
