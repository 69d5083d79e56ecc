package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raymarch/internal/app"
	"github.com/spf13/cobra"
)

type shaderFlags struct {
	glsl     bool
	stage    string
	validate bool
}

func newShaderCommand(root *rootFlags) *cobra.Command {
	flags := &shaderFlags{}
	cmd := &cobra.Command{
		Use:   "shader",
		Short: "Print the assembled shader program of a scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scene, err := raymarch.LoadScene(root.scene)
			if err != nil {
				return err
			}
			program, err := app.Program(scene)
			if err != nil {
				return err
			}
			return printProgram(cmd, program, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.glsl, "glsl", false, "translate to GLSL instead of printing WGSL")
	cmd.Flags().StringVar(&flags.stage, "stage", "all", "stage to print: vertex, fragment or all")
	cmd.Flags().BoolVar(&flags.validate, "validate", false, "run the IR validator on each stage")
	return cmd
}

func printProgram(cmd *cobra.Command, program *raymarch.Program, flags *shaderFlags) error {
	var stages []shader.Shader
	switch flags.stage {
	case "vertex":
		stages = []shader.Shader{program.Vertex}
	case "fragment":
		stages = []shader.Shader{program.Fragment}
	case "all":
		stages = []shader.Shader{program.Vertex, program.Fragment}
	default:
		return fmt.Errorf("unknown stage %q", flags.stage)
	}

	out := cmd.OutOrStdout()
	for _, s := range stages {
		if flags.validate {
			if err := shader.Validate(s.Source()); err != nil {
				return fmt.Errorf("%s: %w", s.Key(), err)
			}
		}

		text := s.Source()
		if flags.glsl {
			var err error
			if text, err = shader.TranslateGLSL(s); err != nil {
				return fmt.Errorf("%s: %w", s.Key(), err)
			}
		}
		fmt.Fprintf(out, "// ---- %s (%s, entry %s)\n%s\n", s.Key(), s.Type(), s.EntryPoint(), text)
	}
	return nil
}
