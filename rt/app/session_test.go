package app

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/orbitview"
	"github.com/gekko3d/orbitview/rt/core"
	"github.com/gekko3d/orbitview/rt/gpu"
)

type fakeSurface struct {
	width, height uint32
	reconfigures  int
}

func (s *fakeSurface) Reconfigure(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}
	s.width, s.height = width, height
	s.reconfigures++
	return true
}

func (s *fakeSurface) Size() (uint32, uint32) { return s.width, s.height }

type frameResult struct {
	outcome gpu.FrameOutcome
	err     error
}

type fakeRenderer struct {
	results   []frameResult // consumed per RenderFrame; empty means drawn
	uploads   []core.CameraUniform
	uploadErr error
	frames    int
}

func (r *fakeRenderer) UploadCamera(u core.CameraUniform) error {
	if r.uploadErr != nil {
		return r.uploadErr
	}
	r.uploads = append(r.uploads, u)
	return nil
}

func (r *fakeRenderer) RenderFrame() (gpu.FrameOutcome, error) {
	r.frames++
	if len(r.results) == 0 {
		return gpu.FrameDrawn, nil
	}
	res := r.results[0]
	r.results = r.results[1:]
	return res.outcome, res.err
}

// scriptedSource delivers one batch of events per poll and closes once it
// has been polled closeAfter times.
type scriptedSource struct {
	batches    [][]Event
	polls      int
	closeAfter int
}

func (s *scriptedSource) Poll() []Event {
	s.polls++
	if len(s.batches) == 0 {
		return nil
	}
	b := s.batches[0]
	s.batches = s.batches[1:]
	return b
}

func (s *scriptedSource) ShouldClose() bool {
	return s.polls >= s.closeAfter
}

func newTestSession(t *testing.T, r *fakeRenderer) (*Session, *fakeSurface) {
	t.Helper()
	surface := &fakeSurface{width: 512, height: 512}
	s, err := NewSessionWith(surface, r, orbitview.DefaultConfig(), orbitview.NewNopLogger())
	require.NoError(t, err)
	return s, surface
}

func TestNewSessionWith(t *testing.T) {
	s, _ := newTestSession(t, &fakeRenderer{})
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, float32(1), s.Camera.Aspect)
	assert.Equal(t, core.DefaultEye, s.Camera.Eye)
	assert.Equal(t, float32(0.02), s.Controller.Speed)
	assert.Equal(t, s.Camera.ViewProjection(), s.Uniform.ViewProj)

	cfg := orbitview.DefaultConfig()
	cfg.Bindings = map[string][]string{"fly": {"w"}}
	_, err := NewSessionWith(&fakeSurface{}, &fakeRenderer{}, cfg, nil)
	assert.Error(t, err)
}

func TestSessionLogsTaggedWithID(t *testing.T) {
	var out bytes.Buffer
	logger := orbitview.NewWriterLogger(&out, &out, "test", true)
	s, err := NewSessionWith(&fakeSurface{width: 4, height: 4}, &fakeRenderer{}, orbitview.DefaultConfig(), logger)
	require.NoError(t, err)

	s.Resize(0, 600)
	assert.Contains(t, out.String(), "[test session "+shortID(s.ID)+"] DEBUG: resize 0x600 ignored")
}

func TestSessionResize(t *testing.T) {
	s, surface := newTestSession(t, &fakeRenderer{})

	assert.False(t, s.Resize(0, 600))
	assert.False(t, s.Resize(800, 0))
	assert.Equal(t, 0, surface.reconfigures)
	assert.Equal(t, float32(1), s.Camera.Aspect)

	assert.True(t, s.Resize(800, 600))
	assert.Equal(t, 1, surface.reconfigures)
	assert.Equal(t, float32(800)/float32(600), s.Camera.Aspect)
	w, h := surface.Size()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(600), h)
}

func TestSessionResizeKeepsCameraPose(t *testing.T) {
	s, _ := newTestSession(t, &fakeRenderer{})
	s.Camera.Eye = core.DefaultEye.Add(core.DefaultUp)

	s.Resize(1024, 512)
	assert.Equal(t, core.DefaultEye.Add(core.DefaultUp), s.Camera.Eye)
	assert.Equal(t, float32(2), s.Camera.Aspect)
}

func TestSessionHandleKey(t *testing.T) {
	s, _ := newTestSession(t, &fakeRenderer{})

	assert.True(t, s.HandleKey(glfw.KeyW, true))
	assert.True(t, s.Controller.Pressed(core.ActionForward))
	assert.True(t, s.HandleKey(glfw.KeyW, false))
	assert.False(t, s.Controller.Pressed(core.ActionForward))

	assert.False(t, s.HandleKey(glfw.KeyQ, true))
	for _, a := range core.Actions() {
		assert.False(t, s.Controller.Pressed(a))
	}
}

func TestSessionHandleEvent_FocusLossReleases(t *testing.T) {
	s, _ := newTestSession(t, &fakeRenderer{})
	s.HandleEvent(KeyEvent{Key: glfw.KeyLeft, Pressed: true})
	s.HandleEvent(KeyEvent{Key: glfw.KeyR, Pressed: true})
	require.True(t, s.Controller.Pressed(core.ActionOrbitLeft))

	s.HandleEvent(FocusEvent{Focused: true})
	assert.True(t, s.Controller.Pressed(core.ActionOrbitLeft))

	s.HandleEvent(FocusEvent{Focused: false})
	assert.False(t, s.Controller.Pressed(core.ActionOrbitLeft))
	assert.False(t, s.Controller.Pressed(core.ActionReset))
}

func TestSessionUpdateUploadsCamera(t *testing.T) {
	r := &fakeRenderer{}
	s, _ := newTestSession(t, r)
	s.HandleKey(glfw.KeyW, true)

	require.NoError(t, s.Update())
	require.Len(t, r.uploads, 1)
	assert.InDelta(t, 2-0.02, s.Camera.Distance(), 1e-6)
	assert.Equal(t, s.Camera.ViewProjection(), r.uploads[0].ViewProj)
}

func TestSessionRenderCountsOutcomes(t *testing.T) {
	r := &fakeRenderer{results: []frameResult{
		{gpu.FrameSkippedStale, nil},
		{gpu.FrameSkippedTimeout, nil},
		{gpu.FrameDrawn, nil},
	}}
	s, _ := newTestSession(t, r)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Render())
	}
	assert.Equal(t, FrameStats{Drawn: 1, SkippedStale: 1, SkippedTimeout: 1}, s.Stats)
	assert.NoError(t, s.Err())
}

func TestSessionRun_StopsOnDeviceExhausted(t *testing.T) {
	fatal := gpu.NewSurfaceError(gpu.KindDeviceExhausted, errors.New("out of memory"))
	r := &fakeRenderer{results: []frameResult{
		{gpu.FrameDrawn, nil},
		{gpu.FrameFailed, fatal},
	}}
	s, _ := newTestSession(t, r)
	src := &scriptedSource{closeAfter: 100}

	err := s.Run(src)
	require.Error(t, err)
	assert.ErrorIs(t, err, gpu.ErrDeviceExhausted)
	assert.Equal(t, 2, r.frames)
	assert.Equal(t, 2, src.polls)

	// Later ticks never reach the renderer.
	assert.ErrorIs(t, s.Tick(), gpu.ErrDeviceExhausted)
	assert.Equal(t, 2, r.frames)
	assert.Same(t, err, s.Err())
}

func TestSessionRun_UploadFailureIsFatal(t *testing.T) {
	r := &fakeRenderer{uploadErr: gpu.NewSurfaceError(gpu.KindDeviceExhausted, errors.New("lost"))}
	s, _ := newTestSession(t, r)

	err := s.Run(&scriptedSource{closeAfter: 10})
	assert.ErrorIs(t, err, gpu.ErrDeviceExhausted)
	assert.Zero(t, r.frames)
}

func TestSessionRun_AppliesEventsBeforeTick(t *testing.T) {
	r := &fakeRenderer{}
	s, surface := newTestSession(t, r)
	src := &scriptedSource{
		closeAfter: 3,
		batches: [][]Event{
			{ResizeEvent{Width: 800, Height: 600}, KeyEvent{Key: glfw.KeyS, Pressed: true}},
			{ResizeEvent{Width: 0, Height: 0}},
			{KeyEvent{Key: glfw.KeyS, Pressed: false}},
		},
	}

	require.NoError(t, s.Run(src))
	assert.Equal(t, 1, surface.reconfigures)
	assert.Equal(t, float32(800)/float32(600), s.Camera.Aspect)
	assert.Equal(t, 3, r.frames)
	// Released before the third tick.
	assert.InDelta(t, 2+2*0.02, s.Camera.Distance(), 1e-5)
	assert.Equal(t, 3, s.Stats.Drawn)
}

func TestSessionRun_ClosedSourceDrawsNothing(t *testing.T) {
	r := &fakeRenderer{}
	s, _ := newTestSession(t, r)
	require.NoError(t, s.Run(&scriptedSource{closeAfter: 0}))
	assert.Zero(t, r.frames)
}

func TestClearColor(t *testing.T) {
	c := ClearColor([4]float64{0.2, 0.2, 0.5, 1})
	assert.Equal(t, gpu.DefaultClearColor, c)
}
