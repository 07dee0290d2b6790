// Package viewer implements the main viewer loop and scene management.
package viewer

import (
	"fmt"
	gomath "math"
	"time"

	"github.com/charmbracelet/harmonica"
	"go.uber.org/zap"

	"github.com/Faultbox/meshlod/internal/config"
	"github.com/Faultbox/meshlod/internal/engine/camera"
	"github.com/Faultbox/meshlod/internal/engine/input"
	"github.com/Faultbox/meshlod/internal/engine/lod"
	"github.com/Faultbox/meshlod/internal/engine/mesh"
	"github.com/Faultbox/meshlod/internal/engine/renderer"
	"github.com/Faultbox/meshlod/internal/engine/window"
	"github.com/Faultbox/meshlod/internal/logger"
	"github.com/Faultbox/meshlod/pkg/math"
)

const targetFPS = 60

// Instance is one placed mesh in the scene.
type Instance struct {
	Source *mesh.Mesh
	Model  math.Mat4
	Color  math.Vec3
}

// Viewer is the main viewer instance.
type Viewer struct {
	config  *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	manager  *lod.Manager

	instances []Instance

	// GPU meshes keyed by the selected LOD mesh
	gpuCache map[*mesh.Mesh]*renderer.GPUMesh

	// Smoothed zoom. The spring animates distance toward zoomTarget
	// so wheel steps do not snap the camera.
	zoomSpring harmonica.Spring
	zoomVel    float64
	zoomTarget float64

	projection math.Mat4
	width      int
	height     int
	dragging   bool
}

// New creates a new viewer instance. The scene must be populated with
// AddInstance before Run.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	v := &Viewer{
		config:   cfg,
		gpuCache: make(map[*mesh.Mesh]*renderer.GPUMesh),
		width:    cfg.Graphics.Width,
		height:   cfg.Graphics.Height,
	}

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      "meshlod viewer",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	v.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
		VSync:  cfg.Graphics.VSync,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.camera = camera.NewOrbitCamera()

	// Frequency 5.0, damping 1.0 = critically damped (no overshoot)
	v.zoomSpring = harmonica.NewSpring(harmonica.FPS(targetFPS), 5.0, 1.0)
	v.zoomTarget = float64(v.camera.Distance)

	v.manager = newManager(cfg)
	v.updateProjection()

	logger.Info("viewer initialized")
	return v, nil
}

// newManager builds a LOD manager from config.
func newManager(cfg *config.Config) *lod.Manager {
	m := lod.NewManager(logger.Log)
	m.SetEnabled(cfg.LOD.Enabled)
	m.SetLevelCount(cfg.LOD.Levels)
	m.SetReductionFactor(cfg.LOD.ReductionFactor)
	m.SetSelectionMode(lod.ParseSelectionMode(cfg.LOD.Mode))
	m.SetBias(cfg.LOD.Bias)
	m.SetTriangleBudget(cfg.LOD.TriangleBudget)
	m.SetUnloadEnabled(cfg.LOD.UnloadEnabled)
	m.SetUnloadDistance(cfg.LOD.UnloadDistance)
	m.SetDistanceScale(cfg.LOD.DistanceScale)
	m.SetMinVertexCount(cfg.LOD.MinVertexCount)
	m.SetAdaptiveEnabled(cfg.LOD.Adaptive)
	if cfg.LOD.TargetFPS > 0 {
		m.SetTargetFrameTime(1.0 / float32(cfg.LOD.TargetFPS))
	}
	return m
}

// AddInstance places a mesh in the scene.
func (v *Viewer) AddInstance(src *mesh.Mesh, position math.Vec3, scale float32, color math.Vec3) {
	model := math.Translate(position.X, position.Y, position.Z).Mul(math.Scale(scale, scale, scale))
	v.instances = append(v.instances, Instance{
		Source: src,
		Model:  model,
		Color:  color,
	})
}

// FitCamera frames the whole scene.
func (v *Viewer) FitCamera() {
	if len(v.instances) == 0 {
		return
	}

	min := math.Vec3{X: gomath.MaxFloat32, Y: gomath.MaxFloat32, Z: gomath.MaxFloat32}
	max := min.Scale(-1)
	for _, inst := range v.instances {
		p := inst.Model.Translation()
		min = math.Vec3{X: minf(min.X, p.X), Y: minf(min.Y, p.Y), Z: minf(min.Z, p.Z)}
		max = math.Vec3{X: maxf(max.X, p.X), Y: maxf(max.Y, p.Y), Z: maxf(max.Z, p.Z)}
	}
	v.camera.FitToBounds(min, max)
	v.zoomTarget = float64(v.camera.Distance)
}

// Run starts the main viewer loop.
func (v *Viewer) Run() error {
	v.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	statsTimer := time.Now()

	logger.Info("starting viewer loop",
		zap.Int("instances", len(v.instances)),
		zap.Bool("lod", v.manager.Enabled()),
	)

	for v.running {
		// Calculate delta time
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		// 2. Update camera smoothing
		var dist float64
		dist, v.zoomVel = v.zoomSpring.Update(float64(v.camera.Distance), v.zoomVel, v.zoomTarget)
		v.camera.SetDistance(float32(dist))

		// 3. Select and draw
		v.manager.BeginFrame(dt)
		v.manager.SetCamera(v.camera.Position())
		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if v.config.LOD.Adaptive {
			v.manager.AdaptQuality()
		}

		// 4. Present (swap buffers)
		v.window.SwapBuffers()

		// Telemetry
		frameCount++
		if time.Since(statsTimer) >= time.Second {
			logger.Debug("frame stats",
				zap.Int("fps", frameCount),
				zap.Int("triangles", v.manager.FrameTriangles()),
				zap.Int("meshes", v.manager.FrameMeshes()),
				zap.Float32("bias", v.manager.Bias()),
				zap.Int("lod_chains", v.manager.CacheSize()),
				zap.Int("gpu_meshes", len(v.gpuCache)),
			)
			frameCount = 0
			statsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents processes input events from this frame.
func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.width, v.height = event.Width, event.Height
			v.renderer.Resize(event.Width, event.Height)
			v.updateProjection()

		case input.EventMouseDown:
			if event.Button == 1 { // SDL_BUTTON_LEFT
				v.dragging = true
			}
		case input.EventMouseUp:
			if event.Button == 1 {
				v.dragging = false
			}
		case input.EventMouseMove:
			if v.dragging {
				v.camera.HandleDrag(float32(event.RelX), float32(event.RelY))
			}

		case input.EventMouseWheel:
			// Move the spring target, not the camera itself
			v.zoomTarget -= float64(event.WheelY) * float64(v.zoomTarget) * 0.1
			if v.zoomTarget < float64(v.camera.MinDistance) {
				v.zoomTarget = float64(v.camera.MinDistance)
			}
			if v.zoomTarget > float64(v.camera.MaxDistance) {
				v.zoomTarget = float64(v.camera.MaxDistance)
			}

		case input.EventKeyDown:
			switch event.Key {
			case 41: // SDL_SCANCODE_ESCAPE
				v.running = false
			case 15: // SDL_SCANCODE_L
				v.manager.SetEnabled(!v.manager.Enabled())
				logger.Info("lod toggled", zap.Bool("enabled", v.manager.Enabled()))
			case 4: // SDL_SCANCODE_A
				v.config.LOD.Adaptive = !v.config.LOD.Adaptive
				v.manager.SetAdaptiveEnabled(v.config.LOD.Adaptive)
				logger.Info("adaptive quality toggled", zap.Bool("enabled", v.config.LOD.Adaptive))
			case 21: // SDL_SCANCODE_R
				v.FitCamera()
			}
		}
	}
}

// render draws the current frame.
func (v *Viewer) render() error {
	v.renderer.Begin()

	view := v.camera.ViewMatrix()
	viewProj := v.projection.Mul(view)

	for i := range v.instances {
		inst := &v.instances[i]

		selected := v.manager.SelectMesh(inst.Source, inst.Model)
		if selected == nil || selected.TriangleCount() == 0 {
			continue
		}

		gpu, err := v.gpuFor(selected)
		if err != nil {
			return err
		}

		mvp := viewProj.Mul(inst.Model)
		v.renderer.Draw(gpu, &mvp, &inst.Model, inst.Color)
	}

	v.renderer.End()
	return nil
}

// gpuFor returns the GPU copy of a mesh, uploading it on first use.
// LOD meshes are stable once generated, so the cache never invalidates.
func (v *Viewer) gpuFor(m *mesh.Mesh) (*renderer.GPUMesh, error) {
	if g, ok := v.gpuCache[m]; ok {
		return g, nil
	}
	g, err := v.renderer.UploadMesh(m)
	if err != nil {
		return nil, fmt.Errorf("uploading %q: %w", m.ID, err)
	}
	v.gpuCache[m] = g
	return g, nil
}

// updateProjection rebuilds the projection matrix and tells the LOD
// manager about the new view parameters.
func (v *Viewer) updateProjection() {
	fovY := v.config.Graphics.FOVDegrees * gomath.Pi / 180
	aspect := float32(v.width) / float32(v.height)
	v.projection = math.Perspective(fovY, aspect, 0.1, 10000)
	v.manager.SetView(fovY, v.height)
}

// Manager exposes the LOD manager, mainly for startup configuration.
func (v *Viewer) Manager() *lod.Manager {
	return v.manager
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	for _, g := range v.gpuCache {
		v.renderer.DeleteMesh(g)
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
