package render

import (
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rasterkit/gpucore"
)

// RenderTarget abstracts over where a frame's pixels end up: a CPU
// image for backend A, or a GPU texture for backend B.
type RenderTarget interface {
	Width() int
	Height() int
	Format() gputypes.TextureFormat

	// Pixels returns direct CPU access to the target's RGBA8 pixel
	// data, or nil for a GPU-only target.
	Pixels() []byte
	Stride() int

	// Texture returns the GPU texture backing this target, or
	// gpucore.InvalidID for a CPU-only target.
	Texture() gpucore.TextureID
}

// PixmapTarget is a CPU-backed render target, the only target
// CPURenderer can draw to.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget allocates a blank width x height target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// NewPixmapTargetFromImage wraps an existing image without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

func (t *PixmapTarget) Width() int                        { return t.img.Bounds().Dx() }
func (t *PixmapTarget) Height() int                       { return t.img.Bounds().Dy() }
func (t *PixmapTarget) Format() gputypes.TextureFormat    { return gputypes.TextureFormatRGBA8Unorm }
func (t *PixmapTarget) Pixels() []byte                    { return t.img.Pix }
func (t *PixmapTarget) Stride() int                       { return t.img.Stride }
func (t *PixmapTarget) Texture() gpucore.TextureID         { return gpucore.InvalidID }

// Image returns the underlying *image.RGBA for display or encoding.
func (t *PixmapTarget) Image() *image.RGBA { return t.img }

// TextureTarget is a GPU-backed render target, the destination
// GPURenderer draws the tile pass's final composite into.
type TextureTarget struct {
	device gpucore.Device
	tex    gpucore.TextureID
	width  int
	height int
	format gputypes.TextureFormat
}

// NewTextureTarget creates a new color-attachment texture on dev.
func NewTextureTarget(dev gpucore.Device, width, height int, format gputypes.TextureFormat) (*TextureTarget, error) {
	tex, err := dev.CreateTexture(&gpucore.TextureDesc{
		Label:  "render-target",
		Width:  width,
		Height: height,
		Format: textureFormatFromGPUTypes(format),
		Usage:  gpucore.TextureUsageRenderAttachment | gpucore.TextureUsageTextureBinding | gpucore.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, err
	}
	return &TextureTarget{device: dev, tex: tex, width: width, height: height, format: format}, nil
}

func (t *TextureTarget) Width() int                     { return t.width }
func (t *TextureTarget) Height() int                    { return t.height }
func (t *TextureTarget) Format() gputypes.TextureFormat { return t.format }
func (t *TextureTarget) Pixels() []byte                 { return nil }
func (t *TextureTarget) Stride() int                    { return t.width * 4 }
func (t *TextureTarget) Texture() gpucore.TextureID     { return t.tex }

// Close destroys the backing GPU texture.
func (t *TextureTarget) Close() { t.device.DestroyTexture(t.tex) }

func textureFormatFromGPUTypes(f gputypes.TextureFormat) gpucore.TextureFormat {
	switch f {
	case gputypes.TextureFormatBGRA8Unorm:
		return gpucore.TextureFormatBGRA8Unorm
	case gputypes.TextureFormatRGBA16Float:
		return gpucore.TextureFormatRGBA16Float
	default:
		return gpucore.TextureFormatRGBA8Unorm
	}
}
