package gpu

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

var errNoSurfaceFormat = errors.New("surface reports no texture formats")

// PresentationSurface owns the swap surface configuration. The format is
// negotiated once; every reconfiguration reuses it. Frames are rendered
// through an sRGB view of the surface texture whenever one exists.
type PresentationSurface struct {
	backend    Backend
	format     wgpu.TextureFormat
	viewFormat wgpu.TextureFormat
	config     *wgpu.SurfaceConfiguration
	width      uint32
	height     uint32
}

// NewPresentationSurface negotiates a format and configures the surface at
// width x height. A zero extent defers configuration to the first non-zero
// Reconfigure.
func NewPresentationSurface(backend Backend, width, height uint32) (*PresentationSurface, error) {
	format, err := SelectSurfaceFormat(backend.SurfaceFormats())
	if err != nil {
		return nil, err
	}
	s := &PresentationSurface{backend: backend, format: format, viewFormat: SRGBVariant(format)}
	s.Reconfigure(width, height)
	return s, nil
}

// SelectSurfaceFormat picks the first sRGB format, falling back to the first
// format reported.
func SelectSurfaceFormat(formats []wgpu.TextureFormat) (wgpu.TextureFormat, error) {
	if len(formats) == 0 {
		return wgpu.TextureFormatUndefined, errNoSurfaceFormat
	}
	for _, f := range formats {
		if IsSRGB(f) {
			return f, nil
		}
	}
	return formats[0], nil
}

func IsSRGB(f wgpu.TextureFormat) bool {
	switch f {
	case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}

// SRGBVariant returns the sRGB counterpart of a linear 8-bit color format.
// Other formats are returned unchanged.
func SRGBVariant(f wgpu.TextureFormat) wgpu.TextureFormat {
	switch f {
	case wgpu.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8UnormSrgb
	case wgpu.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8UnormSrgb
	}
	return f
}

// SurfaceConfig builds the configuration for a given format and extent:
// vsync presentation, automatic alpha compositing, and the sRGB variant of
// format as the permitted view format.
func SurfaceConfig(format wgpu.TextureFormat, width, height uint32) *wgpu.SurfaceConfiguration {
	return &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   wgpu.CompositeAlphaModeAuto,
		ViewFormats: []wgpu.TextureFormat{SRGBVariant(format)},
	}
}

// FrameViewDescriptor describes the single-layer color view a frame renders
// into.
func FrameViewDescriptor(format wgpu.TextureFormat) *wgpu.TextureViewDescriptor {
	return &wgpu.TextureViewDescriptor{
		Format:          format,
		Dimension:       wgpu.TextureViewDimension2D,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspectAll,
	}
}

// Reconfigure applies a new extent. A zero width or height leaves the prior
// configuration in place and returns false.
func (s *PresentationSurface) Reconfigure(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}
	s.config = SurfaceConfig(s.format, width, height)
	s.backend.ConfigureSurface(s.config)
	s.width, s.height = width, height
	return true
}

// Refresh reconfigures at the last applied extent. Used to recover a stale surface.
func (s *PresentationSurface) Refresh() bool {
	return s.Reconfigure(s.width, s.height)
}

func (s *PresentationSurface) Size() (width, height uint32) {
	return s.width, s.height
}

func (s *PresentationSurface) Format() wgpu.TextureFormat {
	return s.format
}

// ViewFormat is the format of frame views and of the pipeline color target.
func (s *PresentationSurface) ViewFormat() wgpu.TextureFormat {
	return s.viewFormat
}

// Config returns the last applied configuration, nil before the first one.
func (s *PresentationSurface) Config() *wgpu.SurfaceConfiguration {
	return s.config
}
