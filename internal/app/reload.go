package app

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-raymarch/engine"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
)

// Reloader rebuilds the pass of a scene inside an engine after the scene file
// or its world-map file changes.
type Reloader struct {
	path    string
	engine  engine.Engine
	device  raymarch.Device
	pass    raymarch.Pass
	watcher *SceneWatcher
	logger  *slog.Logger

	// onScene runs before the new pass is built, e.g. to swap a CPU world map.
	onScene func(*raymarch.Scene) error
}

// NewReloader watches scene's files. pass must already be in e.
//
// Parameters:
//   - scene: the scene pass was built from
//   - e: the engine holding pass
//   - device: the device new passes are built on
//   - pass: the current pass
//   - onScene: optional hook run with every successfully loaded scene; an error aborts the reload
//   - logger: receives reload results
//
// Returns:
//   - *Reloader: the reloader, to be closed by the caller
//   - error: an error if the files cannot be watched
func NewReloader(scene *raymarch.Scene, e engine.Engine, device raymarch.Device, pass raymarch.Pass, onScene func(*raymarch.Scene) error, logger *slog.Logger) (*Reloader, error) {
	files := []string{scene.Path}
	if scene.WorldMapFile != "" {
		files = append(files, scene.WorldMapFile)
	}
	w, err := WatchFiles(logger, files...)
	if err != nil {
		return nil, err
	}
	return &Reloader{
		path:    scene.Path,
		engine:  e,
		device:  device,
		pass:    pass,
		watcher: w,
		logger:  logger,
		onScene: onScene,
	}, nil
}

// Poll reloads the scene if a watched file changed. A broken scene is logged
// and the previous pass keeps rendering.
//
// Returns:
//   - bool: true if the pass was replaced
func (r *Reloader) Poll() bool {
	if !r.watcher.Changed() {
		return false
	}

	pass, err := r.reload()
	if err != nil {
		r.logger.Error("scene reload failed", "path", r.path, slog.Any("err", err))
		return false
	}
	if !r.engine.ReplacePass(r.pass, pass) {
		pass.Release()
		r.logger.Warn("scene reloaded but its pass is no longer in the engine", "path", r.path)
		return false
	}
	r.pass = pass
	r.logger.Info("scene reloaded", "path", r.path)
	return true
}

func (r *Reloader) reload() (raymarch.Pass, error) {
	scene, err := raymarch.LoadScene(r.path)
	if err != nil {
		return nil, err
	}
	if r.onScene != nil {
		if err := r.onScene(scene); err != nil {
			return nil, err
		}
	}
	return BuildPass(scene, r.device, r.logger)
}

// Pass returns the current pass.
func (r *Reloader) Pass() raymarch.Pass {
	return r.pass
}

// Close stops watching.
func (r *Reloader) Close() error {
	return r.watcher.Close()
}
