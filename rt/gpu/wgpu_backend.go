package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// WgpuBackend owns the instance, adapter, device, queue and surface of one
// window. Everything is used from the control-loop thread only.
type WgpuBackend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	viewFormat wgpu.TextureFormat
}

var _ Backend = (*WgpuBackend)(nil)

// NewWgpuBackend blocks until an adapter and device compatible with the
// window surface are acquired.
func NewWgpuBackend(desc *wgpu.SurfaceDescriptor, label string) (*WgpuBackend, error) {
	b := &WgpuBackend{}
	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(desc)

	var err error
	b.adapter, err = b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: b.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	b.device, err = b.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: label + " device",
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.queue = b.device.GetQueue()
	return b, nil
}

func (b *WgpuBackend) Device() *wgpu.Device { return b.device }
func (b *WgpuBackend) Queue() *wgpu.Queue   { return b.queue }

func (b *WgpuBackend) SurfaceFormats() []wgpu.TextureFormat {
	return b.surface.GetCapabilities(b.adapter).Formats
}

// ConfigureSurface applies config. Later frame views use its first view
// format, or the surface format when none is listed.
func (b *WgpuBackend) ConfigureSurface(config *wgpu.SurfaceConfiguration) {
	b.surface.Configure(b.adapter, b.device, config)
	b.viewFormat = config.Format
	if len(config.ViewFormats) > 0 {
		b.viewFormat = config.ViewFormats[0]
	}
}

func (b *WgpuBackend) AcquireTexture() (Target, error) {
	tex, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, ClassifyAcquireError(err)
	}
	view, err := tex.CreateView(FrameViewDescriptor(b.viewFormat))
	if err != nil {
		tex.Release()
		return nil, NewSurfaceError(KindDeviceExhausted, fmt.Errorf("surface texture view: %w", err))
	}
	return &wgpuTarget{texture: tex, view: view}, nil
}

func (b *WgpuBackend) CreateEncoder() (Encoder, error) {
	enc, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}
	return &wgpuEncoder{enc: enc}, nil
}

func (b *WgpuBackend) Submit(enc Encoder) error {
	we, ok := enc.(*wgpuEncoder)
	if !ok {
		return fmt.Errorf("submit: foreign encoder %T", enc)
	}
	cmd, err := we.enc.Finish(nil)
	if err != nil {
		return err
	}
	defer cmd.Release()
	b.queue.Submit(cmd)
	return nil
}

func (b *WgpuBackend) Present() {
	b.surface.Present()
}

func (b *WgpuBackend) WriteBuffer(buffer *wgpu.Buffer, data []byte) error {
	return b.queue.WriteBuffer(buffer, 0, data)
}

func (b *WgpuBackend) Release() {
	b.queue = nil
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

type wgpuTarget struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (t *wgpuTarget) View() *wgpu.TextureView { return t.view }

func (t *wgpuTarget) Release() {
	t.view.Release()
	t.texture.Release()
}

type wgpuEncoder struct {
	enc *wgpu.CommandEncoder
}

func (e *wgpuEncoder) BeginRenderPass(target Target, clear wgpu.Color) RenderPass {
	pass := e.enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target.View(),
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clear,
		}},
	})
	return &wgpuPass{pass: pass}
}

func (e *wgpuEncoder) Release() {
	e.enc.Release()
}

type wgpuPass struct {
	pass *wgpu.RenderPassEncoder
}

func (p *wgpuPass) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.pass.SetPipeline(pipeline)
}

func (p *wgpuPass) SetBindGroup(slot uint32, group *wgpu.BindGroup) {
	p.pass.SetBindGroup(slot, group, nil)
}

func (p *wgpuPass) SetVertexBuffer(buffer *wgpu.Buffer) {
	p.pass.SetVertexBuffer(0, buffer, 0, wgpu.WholeSize)
}

func (p *wgpuPass) SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat) {
	p.pass.SetIndexBuffer(buffer, format, 0, wgpu.WholeSize)
}

func (p *wgpuPass) DrawIndexed(indexCount, instanceCount uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
}

func (p *wgpuPass) End() error {
	defer p.pass.Release()
	return p.pass.End()
}
