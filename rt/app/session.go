package app

import (
	"fmt"
	"image"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/orbitview"
	"github.com/gekko3d/orbitview/rt/core"
	"github.com/gekko3d/orbitview/rt/gpu"
	"github.com/gekko3d/orbitview/rt/shaders"
)

const (
	statsInterval = time.Second
	checkerSize   = 256
	checkerCells  = 8
)

// Surface is the part of gpu.PresentationSurface a session drives on resize.
type Surface interface {
	Reconfigure(width, height uint32) bool
	Size() (width, height uint32)
}

// Renderer is the part of gpu.FrameRenderer a session drives every tick.
type Renderer interface {
	UploadCamera(u core.CameraUniform) error
	RenderFrame() (gpu.FrameOutcome, error)
}

// FrameStats counts frame outcomes over the session lifetime.
type FrameStats struct {
	Drawn          int
	SkippedStale   int
	SkippedTimeout int
}

// Session is the top-level state of one window: camera, input and the
// frame lifecycle. All methods run on the control-loop thread.
type Session struct {
	ID         string
	Camera     *core.Camera
	Controller *core.CameraController
	Uniform    core.CameraUniform
	Bindings   orbitview.Bindings
	Stats      FrameStats

	surface          Surface
	renderer         Renderer
	log              orbitview.Logger
	profiler         *Profiler
	release          func()
	fatal            error
	warnedDegenerate bool
}

// NewSessionWith assembles a session around an already built surface and
// renderer. The camera aspect is taken from the surface size.
func NewSessionWith(surface Surface, renderer Renderer, cfg orbitview.Config, logger orbitview.Logger) (*Session, error) {
	bindings, err := cfg.KeyBindings()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = orbitview.NewNopLogger()
	}
	id := uuid.NewString()

	w, h := surface.Size()
	camera := core.NewCamera(1)
	camera.SetAspect(w, h)
	camera.Fovy = mgl32.DegToRad(cfg.Camera.FovyDegrees)
	camera.ZNear = cfg.Camera.ZNear
	camera.ZFar = cfg.Camera.ZFar

	s := &Session{
		ID:         id,
		Camera:     camera,
		Controller: core.NewCameraController(cfg.Camera.Speed),
		Uniform:    core.NewCameraUniform(),
		Bindings:   bindings,
		surface:    surface,
		renderer:   renderer,
		log:        orbitview.WithPrefix(logger, "session "+shortID(id)),
		profiler:   NewProfiler(),
	}
	s.Uniform.Update(camera)
	return s, nil
}

// NewSession creates the device, surface and GPU resources for win.
func NewSession(win *Window, cfg orbitview.Config, logger orbitview.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	label := "orbitview"

	backend, err := gpu.NewWgpuBackend(win.SurfaceDescriptor(), label)
	if err != nil {
		return nil, err
	}

	width, height := win.FramebufferSize()
	surface, err := gpu.NewPresentationSurface(backend, width, height)
	if err != nil {
		backend.Release()
		return nil, err
	}

	mesh, err := core.MeshByName(cfg.Render.Mesh, cfg.Render.MeshSize)
	if err != nil {
		backend.Release()
		return nil, err
	}
	texture, err := loadTexture(cfg.Render.Texture)
	if err != nil {
		backend.Release()
		return nil, err
	}

	s, err := NewSessionWith(surface, nil, cfg, logger)
	if err != nil {
		backend.Release()
		return nil, err
	}

	res, err := gpu.BuildResources(backend.Device(), backend.Queue(), gpu.ResourceSpec{
		Label:   label + " " + shortID(s.ID),
		Format:  surface.ViewFormat(),
		Shader:  shaders.TexturedWGSL,
		Mesh:    mesh,
		Texture: texture,
		Camera:  s.Uniform,
	})
	if err != nil {
		backend.Release()
		return nil, err
	}

	s.renderer = gpu.NewFrameRenderer(backend, surface, res, ClearColor(cfg.Render.ClearColor))
	s.release = func() {
		res.Release()
		backend.Release()
	}
	s.log.Infof("session started: surface %dx%d format %v view %v, mesh %s (%d indices)",
		width, height, surface.Format(), surface.ViewFormat(), cfg.Render.Mesh, mesh.IndexCount())
	return s, nil
}

func loadTexture(path string) (*image.RGBA, error) {
	if path == "" {
		return core.CheckerImage(checkerSize, checkerCells), nil
	}
	img, err := core.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	return img, nil
}

func ClearColor(c [4]float64) wgpu.Color {
	return wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// Close releases GPU objects. The session is unusable afterwards.
func (s *Session) Close() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// Err returns the fatal error that stopped the session, if any.
func (s *Session) Err() error {
	return s.fatal
}

func (s *Session) HandleEvent(e Event) {
	switch ev := e.(type) {
	case ResizeEvent:
		s.Resize(ev.Width, ev.Height)
	case KeyEvent:
		s.HandleKey(ev.Key, ev.Pressed)
	case FocusEvent:
		if !ev.Focused {
			s.Controller.Release()
		}
	}
}

// Resize reconfigures the surface and updates the camera aspect. A zero
// extent changes neither and returns false.
func (s *Session) Resize(width, height uint32) bool {
	if width == 0 || height == 0 {
		s.log.Debugf("resize %dx%d ignored", width, height)
		return false
	}
	s.surface.Reconfigure(width, height)
	s.Camera.SetAspect(width, height)
	s.log.Debugf("resize %dx%d applied, aspect %.4f", width, height, s.Camera.Aspect)
	return true
}

// HandleKey forwards a key transition to the controller through the
// bindings. It returns false for unbound keys.
func (s *Session) HandleKey(key glfw.Key, pressed bool) bool {
	return s.Controller.ProcessInput(pressed, s.Bindings.Action(key))
}

// Update advances the camera one tick and uploads the new uniform.
func (s *Session) Update() error {
	if s.fatal != nil {
		return s.fatal
	}
	s.profiler.BeginScope("update")
	s.Controller.Update(s.Camera)
	if s.Camera.Degenerate() {
		if !s.warnedDegenerate {
			s.log.Warnf("%v: eye %v target %v", gpu.ErrDegenerateCamera, s.Camera.Eye, s.Camera.Target)
			s.warnedDegenerate = true
		}
	} else {
		s.warnedDegenerate = false
	}
	s.Uniform.Update(s.Camera)
	err := s.renderer.UploadCamera(s.Uniform)
	s.profiler.EndScope("update")
	if err != nil {
		return s.stop(err)
	}
	return nil
}

// Render draws one frame. Skipped frames are counted and logged; only a
// fatal device error is returned.
func (s *Session) Render() error {
	if s.fatal != nil {
		return s.fatal
	}
	s.profiler.BeginScope("render")
	outcome, err := s.renderer.RenderFrame()
	s.profiler.EndScope("render")

	switch outcome {
	case gpu.FrameDrawn:
		s.Stats.Drawn++
		s.profiler.Inc("drawn")
	case gpu.FrameSkippedStale:
		s.Stats.SkippedStale++
		s.profiler.Inc("stale")
		s.log.Warnf("frame %s, surface reconfigured", outcome)
	case gpu.FrameSkippedTimeout:
		s.Stats.SkippedTimeout++
		s.profiler.Inc("timeout")
		s.log.Warnf("frame %s", outcome)
	}
	if err != nil {
		return s.stop(err)
	}

	if s.log.DebugEnabled() && s.profiler.Due(statsInterval) {
		s.log.Debugf("frames: %s", s.profiler.Summary())
	}
	return nil
}

// Tick applies one update and one frame.
func (s *Session) Tick() error {
	if err := s.Update(); err != nil {
		return err
	}
	return s.Render()
}

// Run drives the control loop until src asks to close or a fatal error
// occurs. Queued events are applied before each tick.
func (s *Session) Run(src EventSource) error {
	for !src.ShouldClose() {
		for _, e := range src.Poll() {
			s.HandleEvent(e)
		}
		if err := s.Tick(); err != nil {
			return err
		}
	}
	s.log.Infof("closing after %d frames (%d stale, %d timeout)",
		s.Stats.Drawn, s.Stats.SkippedStale, s.Stats.SkippedTimeout)
	return nil
}

func (s *Session) stop(err error) error {
	s.fatal = err
	s.log.Errorf("render loop stopped: %v", err)
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
