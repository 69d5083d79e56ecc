// Package software implements a raymarch.Device that shades every pixel on the
// CPU with the tracer package. Rows are spread over a reusable worker pool.
package software

import (
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/sdf"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/tracer"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type deviceImpl struct {
	mu *sync.Mutex

	scene   sdf.Scene
	display *ImageTarget
	logger  *slog.Logger

	// pool shades rows. Workers are reused across frames; a WaitGroup is the
	// per-frame barrier.
	pool    worker.DynamicWorkerPool
	workers int

	// prepared maps program IDs to the light counts they were assembled for.
	prepared map[uint64]light.Counts
}

// Device is the CPU implementation of raymarch.Device. It renders into
// *ImageTarget targets, or into its own display image when the target is nil.
type Device interface {
	raymarch.Device
	raymarch.Resizer

	// Display returns the image used for nil targets.
	//
	// Returns:
	//   - *image.NRGBA: the display image
	Display() *image.NRGBA

	// SetScene replaces the Go world map traced by Execute.
	//
	// Parameters:
	//   - scene: the new world map
	SetScene(scene sdf.Scene)
}

var _ Device = &deviceImpl{}

// NewDevice creates a CPU device tracing scene.
//
// Parameters:
//   - scene: the Go counterpart of the program's world map
//   - options: functional options to configure the device
//
// Returns:
//   - Device: the device
func NewDevice(scene sdf.Scene, options ...DeviceBuilderOption) Device {
	d := &deviceImpl{
		mu:       &sync.Mutex{},
		scene:    scene,
		display:  NewImageTarget(640, 480),
		logger:   slog.Default(),
		workers:  runtime.NumCPU(),
		prepared: make(map[uint64]light.Counts),
	}
	for _, option := range options {
		option(d)
	}
	d.pool = worker.NewDynamicWorkerPool(d.workers, 256, 1*time.Second)
	return d
}

func (d *deviceImpl) Prepare(program *raymarch.Program) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prepared[program.ID] = program.Counts
	d.logger.Debug("software device prepared program", "id", program.ID)
	return nil
}

func (d *deviceImpl) Execute(program *raymarch.Program, uniforms *raymarch.Uniforms, target raymarch.Target, clear bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	counts, ok := d.prepared[program.ID]
	if !ok {
		return fmt.Errorf("program %d was not prepared", program.ID)
	}
	if got := uniforms.Frame.Counts(); got != counts {
		return fmt.Errorf("program %d compiled for %+v lights, uniforms carry %+v", program.ID, counts, got)
	}
	if d.scene == nil {
		return fmt.Errorf("no world map scene set")
	}

	dst := d.display
	if target != nil {
		it, ok := target.(*ImageTarget)
		if !ok {
			return fmt.Errorf("unsupported target type %T", target)
		}
		dst = it
	}

	tr := tracer.New(d.scene(uniforms.Frame.Time), uniforms)
	img := dst.Image
	w, h := dst.Size()

	var wg sync.WaitGroup
	for y := range h {
		wg.Add(1)
		row := y
		d.pool.SubmitTask(worker.Task{
			ID: row,
			Do: func() (any, error) {
				defer wg.Done()
				shadeRow(tr, img, row, w, h, clear)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return nil
}

// shadeRow traces one image row. uv.y is 1 at row 0 so the image is upright.
func shadeRow(tr *tracer.Tracer, img *image.NRGBA, row, w, h int, clear bool) {
	v := 1 - (float32(row)+0.5)/float32(h)
	base := row * img.Stride
	for x := range w {
		c := tr.Shade(mgl32.Vec2{(float32(x) + 0.5) / float32(w), v})
		px := img.Pix[base+x*4 : base+x*4+4 : base+x*4+4]
		if !clear {
			c = blendOver(c, px)
		}
		px[0] = toByte(c[0])
		px[1] = toByte(c[1])
		px[2] = toByte(c[2])
		px[3] = toByte(c[3])
	}
}

// blendOver composites src over the existing non-premultiplied pixel dst.
func blendOver(src mgl32.Vec4, dst []uint8) mgl32.Vec4 {
	sa := mgl32.Clamp(src[3], 0, 1)
	da := float32(dst[3]) / 255
	outA := sa + da*(1-sa)
	if outA == 0 {
		return mgl32.Vec4{}
	}
	var out mgl32.Vec4
	for i := range 3 {
		out[i] = (src[i]*sa + float32(dst[i])/255*da*(1-sa)) / outA
	}
	out[3] = outA
	return out
}

func toByte(v float32) uint8 {
	return uint8(math32.Round(mgl32.Clamp(v, 0, 1) * 255))
}

func (d *deviceImpl) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	if w, h := d.display.Size(); w == width && h == height {
		return
	}
	d.display = NewImageTarget(width, height)
}

func (d *deviceImpl) Display() *image.NRGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.display.Image
}

func (d *deviceImpl) SetScene(scene sdf.Scene) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scene = scene
}
