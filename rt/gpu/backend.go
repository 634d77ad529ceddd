package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Backend is the slice of the device, queue and swap surface that the frame
// lifecycle drives. WgpuBackend is the real implementation.
type Backend interface {
	SurfaceFormats() []wgpu.TextureFormat
	ConfigureSurface(config *wgpu.SurfaceConfiguration)
	// AcquireTexture returns the next presentable image, or a *SurfaceError.
	AcquireTexture() (Target, error)
	CreateEncoder() (Encoder, error)
	// Submit finishes the encoder and hands its commands to the queue.
	Submit(enc Encoder) error
	Present()
	WriteBuffer(buffer *wgpu.Buffer, data []byte) error
}

// Target is an acquired swap-chain image.
type Target interface {
	View() *wgpu.TextureView
	Release()
}

type Encoder interface {
	BeginRenderPass(target Target, clear wgpu.Color) RenderPass
	Release()
}

type RenderPass interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(slot uint32, group *wgpu.BindGroup)
	SetVertexBuffer(buffer *wgpu.Buffer)
	SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat)
	DrawIndexed(indexCount, instanceCount uint32)
	End() error
}
