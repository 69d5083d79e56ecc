package app

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/sdf"
	"github.com/Carmen-Shannon/oxy-raymarch/examples"
)

// CPUWorld resolves the Go world map a scene names with cpu_world.
//
// Parameters:
//   - scene: the loaded scene
//
// Returns:
//   - sdf.Scene: the registered world map
//   - error: an error if the scene names none or an unknown one
func CPUWorld(scene *raymarch.Scene) (sdf.Scene, error) {
	if scene.CPUWorld == "" {
		return nil, fmt.Errorf("scene %s has no cpu_world (known: %v)", scene.Path, examples.Worlds())
	}
	world, ok := examples.World(scene.CPUWorld)
	if !ok {
		return nil, fmt.Errorf("unknown cpu_world %q (known: %v)", scene.CPUWorld, examples.Worlds())
	}
	return world, nil
}

// BuildPass validates a scene's options and creates a pass on device.
//
// Parameters:
//   - scene: the loaded scene
//   - device: the device the pass renders through
//   - logger: the pass logger
//
// Returns:
//   - raymarch.Pass: the pass, already assembled and prepared
//   - error: a *raymarch.ConfigurationError or an assembly error
func BuildPass(scene *raymarch.Scene, device raymarch.Device, logger *slog.Logger) (raymarch.Pass, error) {
	cfg, err := raymarch.Configure(scene.Options)
	if err != nil {
		return nil, err
	}
	return raymarch.NewPass(cfg, device, raymarch.WithPassLogger(logger))
}

// Program returns the program a scene assembles to for its own light list,
// without a device.
func Program(scene *raymarch.Scene) (*raymarch.Program, error) {
	cfg, err := raymarch.Configure(scene.Options)
	if err != nil {
		return nil, err
	}
	return raymarch.NewAssembler(nil).Assemble(cfg, light.Classify(cfg.Lights).Counts())
}
