// Command raymarch-soft renders ray-march scenes on the CPU: to PNG files, in a
// window, or as assembled shader text.
package main

import (
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-raymarch/internal/app"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	logLevel string
	scene    string
	logger   *slog.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "raymarch-soft",
		Short:         "Render ray-march scenes on the CPU",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := app.NewLogger(cmd.ErrOrStderr(), flags.logLevel)
			if err != nil {
				return err
			}
			flags.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&flags.scene, "scene", "scenes/basic.toml", "scene file (.toml, .yaml or .yml)")

	root.AddCommand(
		newRenderCommand(flags),
		newViewCommand(flags),
		newShaderCommand(flags),
	)
	return root
}
