package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/orbitview/rt/core"
)

// FrameOutcome says what happened to one tick's frame.
type FrameOutcome int

const (
	FrameDrawn FrameOutcome = iota
	FrameSkippedStale
	FrameSkippedTimeout
	FrameFailed
)

func (o FrameOutcome) String() string {
	switch o {
	case FrameDrawn:
		return "drawn"
	case FrameSkippedStale:
		return "skipped (stale surface)"
	case FrameSkippedTimeout:
		return "skipped (timeout)"
	case FrameFailed:
		return "failed"
	}
	return fmt.Sprintf("FrameOutcome(%d)", int(o))
}

const (
	TextureGroup uint32 = 0
	CameraGroup  uint32 = 1
)

// DefaultClearColor is the background behind the mesh.
var DefaultClearColor = wgpu.Color{R: 0.2, G: 0.2, B: 0.5, A: 1.0}

// FrameRenderer runs acquire, record, submit and present for one frame.
// After a fatal error it refuses all further frames.
type FrameRenderer struct {
	backend    Backend
	surface    *PresentationSurface
	res        *Resources
	clearColor wgpu.Color
	fatal      error
}

func NewFrameRenderer(backend Backend, surface *PresentationSurface, res *Resources, clearColor wgpu.Color) *FrameRenderer {
	return &FrameRenderer{
		backend:    backend,
		surface:    surface,
		res:        res,
		clearColor: clearColor,
	}
}

// Err returns the fatal error that stopped the renderer, if any.
func (r *FrameRenderer) Err() error {
	return r.fatal
}

// UploadCamera writes the whole camera uniform buffer.
func (r *FrameRenderer) UploadCamera(u core.CameraUniform) error {
	if r.fatal != nil {
		return r.fatal
	}
	floats := u.Floats()
	if err := r.backend.WriteBuffer(r.res.CameraBuffer, wgpu.ToBytes(floats[:])); err != nil {
		return r.fail(NewSurfaceError(KindDeviceExhausted, fmt.Errorf("write camera uniform: %w", err)))
	}
	return nil
}

// RenderFrame draws one frame. Stale and timed-out surfaces skip the frame
// with a nil error; a device failure is returned and latched.
func (r *FrameRenderer) RenderFrame() (FrameOutcome, error) {
	if r.fatal != nil {
		return FrameFailed, r.fatal
	}

	target, err := r.backend.AcquireTexture()
	if err != nil {
		err = ClassifyAcquireError(err)
		kind := KindOf(err)
		if !kind.Recoverable() {
			return FrameFailed, r.fail(err)
		}
		if kind == KindSurfaceStale {
			r.surface.Refresh()
			return FrameSkippedStale, nil
		}
		return FrameSkippedTimeout, nil
	}
	defer target.Release()

	enc, err := r.backend.CreateEncoder()
	if err != nil {
		return FrameFailed, r.fail(NewSurfaceError(KindDeviceExhausted, fmt.Errorf("create command encoder: %w", err)))
	}
	defer enc.Release()

	if err := r.record(enc, target); err != nil {
		return FrameFailed, r.fail(NewSurfaceError(KindDeviceExhausted, err))
	}

	if err := r.backend.Submit(enc); err != nil {
		return FrameFailed, r.fail(NewSurfaceError(KindDeviceExhausted, fmt.Errorf("submit: %w", err)))
	}
	r.backend.Present()
	return FrameDrawn, nil
}

func (r *FrameRenderer) record(enc Encoder, target Target) error {
	pass := enc.BeginRenderPass(target, r.clearColor)
	pass.SetPipeline(r.res.Pipeline)
	pass.SetBindGroup(TextureGroup, r.res.TextureBindGroup)
	pass.SetBindGroup(CameraGroup, r.res.CameraBindGroup)
	pass.SetVertexBuffer(r.res.VertexBuffer)
	pass.SetIndexBuffer(r.res.IndexBuffer, wgpu.IndexFormatUint16)
	pass.DrawIndexed(r.res.IndexCount, 1)
	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}
	return nil
}

func (r *FrameRenderer) fail(err error) error {
	r.fatal = err
	return err
}
