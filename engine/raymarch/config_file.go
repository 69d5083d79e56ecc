package raymarch

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-raymarch/common"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/camera"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Scene is a pass description loaded from a scene file.
type Scene struct {
	// Options are the raw pass options, camera and lights included.
	Options Options

	// CPUWorld names the Go world map the software device should use.
	CPUWorld string

	// WorldMapFile is the resolved world_map_file path, empty when the world
	// map is inline.
	WorldMapFile string

	// Path is the file the scene was loaded from, empty for in-memory scenes.
	Path string
}

type sceneFile struct {
	WorldMap     string         `toml:"world_map" yaml:"world_map"`
	WorldMapFile string         `toml:"world_map_file" yaml:"world_map_file"`
	CPUWorld     string         `toml:"cpu_world" yaml:"cpu_world"`
	Camera       cameraFile     `toml:"camera" yaml:"camera"`
	Marching     marchingFile   `toml:"marching" yaml:"marching"`
	SoftShadow   softShadowFile `toml:"soft_shadow" yaml:"soft_shadow"`
	Background   backgroundFile `toml:"background" yaml:"background"`
	Lights       []lightFile    `toml:"lights" yaml:"lights"`
}

type cameraFile struct {
	Fov        *float32    `toml:"fov" yaml:"fov"`
	Near       *float32    `toml:"near" yaml:"near"`
	Far        *float32    `toml:"far" yaml:"far"`
	Position   *[3]float32 `toml:"position" yaml:"position"`
	Target     *[3]float32 `toml:"target" yaml:"target"`
	AutoRotate *float32    `toml:"auto_rotate" yaml:"auto_rotate"`
}

type marchingFile struct {
	MaxSteps      *int     `toml:"max_steps" yaml:"max_steps"`
	MaxTravelDist *float32 `toml:"max_travel_dist" yaml:"max_travel_dist"`
	MaxHitMargin  *float32 `toml:"max_hit_margin" yaml:"max_hit_margin"`
	DistScale     *float32 `toml:"dist_scale" yaml:"dist_scale"`
}

type softShadowFile struct {
	MinT      *float32 `toml:"min_t" yaml:"min_t"`
	MaxT      *float32 `toml:"max_t" yaml:"max_t"`
	K         *float32 `toml:"k" yaml:"k"`
	DistScale *float32 `toml:"dist_scale" yaml:"dist_scale"`
}

type backgroundFile struct {
	Color *string  `toml:"color" yaml:"color"`
	Alpha *float32 `toml:"alpha" yaml:"alpha"`
}

type lightFile struct {
	Kind      string      `toml:"kind" yaml:"kind"`
	Color     string      `toml:"color" yaml:"color"`
	Intensity *float32    `toml:"intensity" yaml:"intensity"`
	Visible   *bool       `toml:"visible" yaml:"visible"`
	Position  *[3]float32 `toml:"position" yaml:"position"`
	Distance  *float32    `toml:"distance" yaml:"distance"`
	Decay     *float32    `toml:"decay" yaml:"decay"`
}

// LoadScene reads a TOML (.toml) or YAML (.yaml, .yml) scene file. A
// world_map_file path is resolved relative to the scene file's directory.
//
// Parameters:
//   - path: the scene file
//
// Returns:
//   - *Scene: the decoded scene
//   - error: the read error, or a *ConfigurationError for malformed content
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	scene, err := DecodeScene(data, filepath.Ext(path), filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	scene.Path = path
	return scene, nil
}

// LoadOptions reads a scene file and returns only its raw pass options.
//
// Parameters:
//   - path: the scene file
//
// Returns:
//   - Options: the raw options
//   - error: see LoadScene
func LoadOptions(path string) (Options, error) {
	scene, err := LoadScene(path)
	if err != nil {
		return Options{}, err
	}
	return scene.Options, nil
}

// DecodeScene decodes scene content. Unknown keys are rejected.
//
// Parameters:
//   - data: the file content
//   - ext: the format, ".toml", ".yaml" or ".yml"
//   - baseDir: directory used to resolve world_map_file
//
// Returns:
//   - *Scene: the decoded scene
//   - error: a *ConfigurationError describing the first problem found
func DecodeScene(data []byte, ext, baseDir string) (*Scene, error) {
	var f sceneFile
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, &ConfigurationError{Field: "scene", Err: err}
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, &ConfigurationError{Field: "scene", Err: err}
		}
	default:
		return nil, configErrorf("scene", "unsupported scene format %q", ext)
	}

	worldMap := f.WorldMap
	var worldMapPath string
	if f.WorldMapFile != "" {
		if worldMap != "" {
			return nil, configErrorf("world_map_file", "world_map and world_map_file are mutually exclusive")
		}
		p := f.WorldMapFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, &ConfigurationError{Field: "world_map_file", Err: err}
		}
		worldMap = string(src)
		worldMapPath = p
	}

	lights := make([]light.Light, 0, len(f.Lights))
	for i, lf := range f.Lights {
		l, err := lf.build()
		if err != nil {
			return nil, &ConfigurationError{Field: fmt.Sprintf("lights[%d]", i), Err: err}
		}
		lights = append(lights, l)
	}

	var bgColor *[3]float32
	if f.Background.Color != nil {
		c, err := common.ParseColor(*f.Background.Color)
		if err != nil {
			return nil, &ConfigurationError{Field: "background.color", Err: err}
		}
		bgColor = &c
	}

	return &Scene{
		Options: Options{
			Marching: MarchingOptions{
				MaxSteps:      f.Marching.MaxSteps,
				MaxTravelDist: f.Marching.MaxTravelDist,
				MaxHitMargin:  f.Marching.MaxHitMargin,
				DistScale:     f.Marching.DistScale,
			},
			SoftShadow: SoftShadowOptions{
				MinT:      f.SoftShadow.MinT,
				MaxT:      f.SoftShadow.MaxT,
				K:         f.SoftShadow.K,
				DistScale: f.SoftShadow.DistScale,
			},
			Background: BackgroundOptions{
				Color: bgColor,
				Alpha: f.Background.Alpha,
			},
			Lights:   lights,
			Camera:   f.Camera.build(),
			WorldMap: worldMap,
		},
		CPUWorld:     f.CPUWorld,
		WorldMapFile: worldMapPath,
	}, nil
}

func (lf lightFile) build() (light.Light, error) {
	kind, err := light.ParseLightType(lf.Kind)
	if err != nil {
		return nil, err
	}

	opts := []light.LightBuilderOption{}
	if lf.Color != "" {
		rgb, err := common.ParseColor(lf.Color)
		if err != nil {
			return nil, err
		}
		opts = append(opts, light.WithColorRGB(rgb))
	}
	if lf.Intensity != nil {
		opts = append(opts, light.WithIntensity(*lf.Intensity))
	}
	if lf.Visible != nil {
		opts = append(opts, light.WithVisible(*lf.Visible))
	}
	if lf.Position != nil {
		p := *lf.Position
		opts = append(opts, light.WithPosition(p[0], p[1], p[2]))
	}
	if lf.Distance != nil || lf.Decay != nil {
		defaults := light.NewLight(kind)
		opts = append(opts, light.WithFalloff(
			common.Deref(lf.Distance, defaults.Distance()),
			common.Deref(lf.Decay, defaults.Decay()),
		))
	}
	return light.NewLight(kind, opts...), nil
}

func (cf cameraFile) build() camera.Camera {
	opts := []camera.CameraBuilderOption{}
	if cf.Fov != nil {
		opts = append(opts, camera.WithFovDegrees(*cf.Fov))
	}
	if cf.Near != nil || cf.Far != nil {
		opts = append(opts, camera.WithClip(common.Deref(cf.Near, 0.01), common.Deref(cf.Far, 100)))
	}

	ctrlOpts := []camera.CameraControllerOption{}
	if cf.Target != nil {
		t := *cf.Target
		ctrlOpts = append(ctrlOpts, camera.WithTarget(t[0], t[1], t[2]))
	}
	if cf.Position != nil {
		p := *cf.Position
		ctrlOpts = append(ctrlOpts, camera.WithEye(p[0], p[1], p[2]))
	}
	if cf.AutoRotate != nil {
		ctrlOpts = append(ctrlOpts, camera.WithAutoRotate(mgl32.DegToRad(*cf.AutoRotate)))
	}
	opts = append(opts, camera.WithController(camera.NewOrbitController(ctrlOpts...)))
	return camera.NewCamera(opts...)
}
