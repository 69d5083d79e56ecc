package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/renderer/software"
	"github.com/Carmen-Shannon/oxy-raymarch/internal/app"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	out     string
	width   int
	height  int
	time    float32
	workers int
}

func newRenderCommand(root *rootFlags) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame of a scene to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(root, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.out, "out", "o", "frame.png", "output PNG path")
	cmd.Flags().IntVar(&flags.width, "width", 640, "image width in pixels")
	cmd.Flags().IntVar(&flags.height, "height", 360, "image height in pixels")
	cmd.Flags().Float32Var(&flags.time, "time", 0, "elapsed scene time in seconds")
	cmd.Flags().IntVar(&flags.workers, "workers", runtime.NumCPU(), "rows shaded in parallel")
	return cmd
}

func runRender(root *rootFlags, flags *renderFlags) error {
	if flags.width <= 0 || flags.height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", flags.width, flags.height)
	}

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
	pass.Resize(flags.width, flags.height, 1)
	if cam := pass.Config().Camera; cam.Controller() != nil {
		cam.Controller().Advance(flags.time)
	}

	target := software.NewImageTarget(flags.width, flags.height)
	start := time.Now()
	if err := pass.Execute(target, flags.time); err != nil {
		return err
	}
	root.logger.Info("frame rendered",
		"scene", scene.Path,
		"width", flags.width,
		"height", flags.height,
		"time", flags.time,
		"elapsed", time.Since(start),
	)

	f, err := os.Create(flags.out)
	if err != nil {
		return err
	}
	if err := target.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	root.logger.Info("wrote image", "path", flags.out)
	return nil
}
