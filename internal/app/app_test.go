package app

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-raymarch/engine"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/renderer/software"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raymarch/examples"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "WARN")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "k=1")

	_, err = NewLogger(&buf, "loud")
	assert.Error(t, err)
}

func TestCPUWorld(t *testing.T) {
	_, err := CPUWorld(&raymarch.Scene{})
	assert.Error(t, err)

	_, err = CPUWorld(&raymarch.Scene{CPUWorld: "nope"})
	assert.ErrorContains(t, err, "nope")

	world, err := CPUWorld(&raymarch.Scene{CPUWorld: examples.BasicName})
	require.NoError(t, err)
	assert.NotNil(t, world)
}

func TestBuildPassAndProgram(t *testing.T) {
	scene, err := raymarch.LoadScene("../../scenes/basic.toml")
	require.NoError(t, err)
	world, err := CPUWorld(scene)
	require.NoError(t, err)

	pass, err := BuildPass(scene, software.NewDevice(world), slog.Default())
	require.NoError(t, err)
	assert.Len(t, pass.Lights(), 3)

	p, err := Program(scene)
	require.NoError(t, err)
	require.NoError(t, shader.Check(p.Fragment.Source()))

	_, err = BuildPass(&raymarch.Scene{}, software.NewDevice(world), slog.Default())
	var cerr *raymarch.ConfigurationError
	assert.ErrorAs(t, err, &cerr)
}

func TestSceneWatcher(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.toml")
	otherPath := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(scenePath, []byte("a"), 0o644))

	w, err := WatchFiles(slog.Default(), scenePath)
	require.NoError(t, err)
	defer w.Close()

	assert.False(t, w.Changed())

	require.NoError(t, os.WriteFile(otherPath, []byte("x"), 0o644))
	time.Sleep(50 * time.Millisecond)
	assert.False(t, w.Changed(), "unrelated files are ignored")

	require.NoError(t, os.WriteFile(scenePath, []byte("b"), 0o644))
	assert.Eventually(t, w.Changed, 2*time.Second, 10*time.Millisecond)
}

func TestReloaderSwapsPass(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile("../../scenes/basic.toml")
	require.NoError(t, err)
	wgsl, err := os.ReadFile("../../examples/assets/basic.wgsl")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "world.wgsl"), wgsl, 0o644))
	src = bytes.Replace(src, []byte("../examples/assets/basic.wgsl"), []byte("world.wgsl"), 1)
	path := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(path, src, 0o644))

	scene, err := raymarch.LoadScene(path)
	require.NoError(t, err)
	world, err := CPUWorld(scene)
	require.NoError(t, err)
	dev := software.NewDevice(world)
	pass, err := BuildPass(scene, dev, slog.Default())
	require.NoError(t, err)
	eng := engine.NewEngine(engine.WithPass(pass, nil))

	var seen []string
	r, err := NewReloader(scene, eng, dev, pass, func(s *raymarch.Scene) error {
		seen = append(seen, s.CPUWorld)
		return nil
	}, slog.Default())
	require.NoError(t, err)
	defer r.Close()

	assert.False(t, r.Poll())
	assert.Same(t, pass, r.Pass())

	edited := bytes.Replace(src, []byte("max_steps = 500"), []byte("max_steps = 64"), 1)
	require.NoError(t, os.WriteFile(path, edited, 0o644))
	assert.Eventually(t, r.Poll, 2*time.Second, 10*time.Millisecond)

	require.Len(t, eng.Passes(), 1)
	assert.Same(t, r.Pass(), eng.Passes()[0])
	assert.Equal(t, int32(64), r.Pass().Config().Marching.MaxSteps)
	assert.Equal(t, []string{examples.BasicName}, seen)

	// A broken scene keeps the current pass.
	current := r.Pass()
	require.NoError(t, os.WriteFile(path, []byte("max_steps = ["), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.False(t, r.Poll())
	assert.Same(t, current, eng.Passes()[0])
}
