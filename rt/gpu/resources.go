package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/orbitview/rt/core"
)

const cameraUniformSize = 16 * 4

// Resources is the immutable GPU object graph one mesh is drawn with.
// CameraBuffer contents are rewritten every tick; nothing else changes.
type Resources struct {
	Pipeline         *wgpu.RenderPipeline
	VertexBuffer     *wgpu.Buffer
	IndexBuffer      *wgpu.Buffer
	IndexCount       uint32
	CameraBuffer     *wgpu.Buffer
	CameraBindGroup  *wgpu.BindGroup
	TextureBindGroup *wgpu.BindGroup

	texture        *wgpu.Texture
	textureView    *wgpu.TextureView
	sampler        *wgpu.Sampler
	textureLayout  *wgpu.BindGroupLayout
	cameraLayout   *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
}

// ResourceSpec describes what BuildResources uploads.
type ResourceSpec struct {
	Label   string
	Format  wgpu.TextureFormat
	Shader  string
	Mesh    *core.Mesh
	Texture *image.RGBA
	Camera  core.CameraUniform
}

func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: core.VertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: core.PositionOffset, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x4, Offset: core.ColorOffset, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: core.UVOffset, ShaderLocation: 2},
		},
	}
}

// BlendState is src*srcAlpha + dst*(1-srcAlpha) on color and "over" on alpha.
func BlendState() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

func PrimitiveState() wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  wgpu.PrimitiveTopologyTriangleList,
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeBack,
	}
}

func SamplerDescriptor(label string) *wgpu.SamplerDescriptor {
	return &wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// TextureLayoutEntries: binding 0 a filterable 2-D texture, binding 1 a
// filtering sampler, both fragment-only.
func TextureLayoutEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
				Multisampled:  false,
			},
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		},
	}
}

// CameraLayoutEntries: one vertex-only uniform holding the 4x4 view-projection.
func CameraLayoutEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: false,
				MinBindingSize:   cameraUniformSize,
			},
		},
	}
}

// BuildResources creates the pipeline, buffers, texture and bind groups.
// On error everything created so far is released.
func BuildResources(device *wgpu.Device, queue *wgpu.Queue, spec ResourceSpec) (res *Resources, err error) {
	if spec.Mesh == nil {
		return nil, fmt.Errorf("build resources: no mesh")
	}
	if err := spec.Mesh.Validate(); err != nil {
		return nil, fmt.Errorf("build resources: %w", err)
	}
	if spec.Texture == nil {
		return nil, fmt.Errorf("build resources: no texture")
	}

	res = &Resources{IndexCount: spec.Mesh.IndexCount()}
	defer func() {
		if err != nil {
			res.Release()
			res = nil
		}
	}()

	if err = res.createLayouts(device, spec.Label); err != nil {
		return res, err
	}
	if err = res.createPipeline(device, spec); err != nil {
		return res, err
	}
	if err = res.createMeshBuffers(device, spec.Label, spec.Mesh); err != nil {
		return res, err
	}
	if err = res.createTexture(device, queue, spec.Label, spec.Texture); err != nil {
		return res, err
	}
	if err = res.createCamera(device, spec.Label, spec.Camera); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Resources) createLayouts(device *wgpu.Device, label string) error {
	var err error
	r.textureLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label + " texture layout",
		Entries: TextureLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("texture bind group layout: %w", err)
	}
	r.cameraLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label + " camera layout",
		Entries: CameraLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("camera bind group layout: %w", err)
	}
	// Slot order must match TextureGroup and CameraGroup.
	r.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + " pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.textureLayout, r.cameraLayout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}
	return nil
}

func (r *Resources) createPipeline(device *wgpu.Device, spec ResourceSpec) error {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          spec.Label + " shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: spec.Shader},
	})
	if err != nil {
		return fmt.Errorf("shader module: %w", err)
	}
	defer shader.Release()

	r.Pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  spec.Label + " pipeline",
		Layout: r.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{VertexBufferLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    spec.Format,
				Blend:     BlendState(),
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: PrimitiveState(),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("render pipeline: %w", err)
	}
	return nil
}

func (r *Resources) createMeshBuffers(device *wgpu.Device, label string, mesh *core.Mesh) error {
	var err error
	r.VertexBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + " vertex buffer",
		Contents: wgpu.ToBytes(mesh.Vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fmt.Errorf("vertex buffer: %w", err)
	}

	indices := mesh.Indices
	// Buffer sizes must be 4-byte aligned; pad odd-length 16-bit index data.
	if len(indices)%2 != 0 {
		indices = append(append([]uint16(nil), indices...), 0)
	}
	r.IndexBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + " index buffer",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return fmt.Errorf("index buffer: %w", err)
	}
	return nil
}

func (r *Resources) createTexture(device *wgpu.Device, queue *wgpu.Queue, label string, img *image.RGBA) error {
	img = core.ToRGBA(img)
	b := img.Bounds()
	extent := wgpu.Extent3D{
		Width:              uint32(b.Dx()),
		Height:             uint32(b.Dy()),
		DepthOrArrayLayers: 1,
	}

	var err error
	r.texture, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label + " diffuse texture",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("diffuse texture: %w", err)
	}

	err = queue.WriteTexture(
		r.texture.AsImageCopy(),
		img.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * extent.Width,
			RowsPerImage: extent.Height,
		},
		&extent,
	)
	if err != nil {
		return fmt.Errorf("upload diffuse texture: %w", err)
	}

	r.textureView, err = r.texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("diffuse texture view: %w", err)
	}
	r.sampler, err = device.CreateSampler(SamplerDescriptor(label + " sampler"))
	if err != nil {
		return fmt.Errorf("sampler: %w", err)
	}

	r.TextureBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " texture bind group",
		Layout: r.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: r.textureView},
			{Binding: 1, Sampler: r.sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("texture bind group: %w", err)
	}
	return nil
}

func (r *Resources) createCamera(device *wgpu.Device, label string, u core.CameraUniform) error {
	floats := u.Floats()
	var err error
	r.CameraBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + " camera buffer",
		Contents: wgpu.ToBytes(floats[:]),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("camera buffer: %w", err)
	}

	r.CameraBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " camera bind group",
		Layout: r.cameraLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.CameraBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("camera bind group: %w", err)
	}
	return nil
}

// Release frees every object that was created. Safe on a partial build.
func (r *Resources) Release() {
	if r == nil {
		return
	}
	if r.CameraBindGroup != nil {
		r.CameraBindGroup.Release()
	}
	if r.TextureBindGroup != nil {
		r.TextureBindGroup.Release()
	}
	if r.CameraBuffer != nil {
		r.CameraBuffer.Release()
	}
	if r.sampler != nil {
		r.sampler.Release()
	}
	if r.textureView != nil {
		r.textureView.Release()
	}
	if r.texture != nil {
		r.texture.Release()
	}
	if r.IndexBuffer != nil {
		r.IndexBuffer.Release()
	}
	if r.VertexBuffer != nil {
		r.VertexBuffer.Release()
	}
	if r.Pipeline != nil {
		r.Pipeline.Release()
	}
	if r.pipelineLayout != nil {
		r.pipelineLayout.Release()
	}
	if r.cameraLayout != nil {
		r.cameraLayout.Release()
	}
	if r.textureLayout != nil {
		r.textureLayout.Release()
	}
	*r = Resources{}
}
