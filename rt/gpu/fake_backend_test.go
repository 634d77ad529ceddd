package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// fakeBackend records every device call in order.
type fakeBackend struct {
	formats    []wgpu.TextureFormat
	configs    []wgpu.SurfaceConfiguration
	acquireErr []error // consumed one per AcquireTexture; nil entry means success
	encoderErr error
	endErr     error
	submitErr  error
	writeErr   error
	writes     [][]byte
	calls      []string
	draws      []drawCall
}

type drawCall struct {
	indexCount, instanceCount uint32
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		formats: []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb},
	}
}

func (f *fakeBackend) log(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeBackend) SurfaceFormats() []wgpu.TextureFormat {
	return f.formats
}

func (f *fakeBackend) ConfigureSurface(config *wgpu.SurfaceConfiguration) {
	f.log("configure %dx%d", config.Width, config.Height)
	f.configs = append(f.configs, *config)
}

func (f *fakeBackend) AcquireTexture() (Target, error) {
	f.log("acquire")
	if len(f.acquireErr) > 0 {
		err := f.acquireErr[0]
		f.acquireErr = f.acquireErr[1:]
		if err != nil {
			return nil, err
		}
	}
	return &fakeTarget{b: f}, nil
}

func (f *fakeBackend) CreateEncoder() (Encoder, error) {
	if f.encoderErr != nil {
		return nil, f.encoderErr
	}
	f.log("encoder")
	return &fakeEncoder{b: f}, nil
}

func (f *fakeBackend) Submit(enc Encoder) error {
	f.log("submit")
	return f.submitErr
}

func (f *fakeBackend) Present() {
	f.log("present")
}

func (f *fakeBackend) WriteBuffer(buffer *wgpu.Buffer, data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.log("write %d", len(data))
	f.writes = append(f.writes, append([]byte(nil), data...))
	return nil
}

func (f *fakeBackend) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeTarget struct{ b *fakeBackend }

func (t *fakeTarget) View() *wgpu.TextureView { return nil }
func (t *fakeTarget) Release()                { t.b.log("release target") }

type fakeEncoder struct{ b *fakeBackend }

func (e *fakeEncoder) BeginRenderPass(target Target, clear wgpu.Color) RenderPass {
	e.b.log("begin pass clear=%.1f,%.1f,%.1f,%.1f", clear.R, clear.G, clear.B, clear.A)
	return &fakePass{b: e.b}
}

func (e *fakeEncoder) Release() { e.b.log("release encoder") }

type fakePass struct{ b *fakeBackend }

func (p *fakePass) SetPipeline(pipeline *wgpu.RenderPipeline) { p.b.log("pipeline") }
func (p *fakePass) SetBindGroup(slot uint32, group *wgpu.BindGroup) {
	p.b.log("bind group %d", slot)
}
func (p *fakePass) SetVertexBuffer(buffer *wgpu.Buffer) { p.b.log("vertex buffer") }
func (p *fakePass) SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat) {
	if format == wgpu.IndexFormatUint16 {
		p.b.log("index buffer uint16")
	} else {
		p.b.log("index buffer other")
	}
}
func (p *fakePass) DrawIndexed(indexCount, instanceCount uint32) {
	p.b.log("draw")
	p.b.draws = append(p.b.draws, drawCall{indexCount, instanceCount})
}
func (p *fakePass) End() error {
	p.b.log("end pass")
	return p.b.endErr
}
