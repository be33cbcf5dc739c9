package paint

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/rasterkit/geom"
)

// PatternSource distinguishes a pattern backed by a CPU-side image
// from one backed by a previously rendered render target.
type PatternSource uint8

const (
	SourceImage PatternSource = iota
	SourceRenderTarget
)

// PatternFilter is an optional post-sample transform applied to a
// pattern's pixels before they reach the blend stage: a separable
// Gaussian blur axis for the shadow pipeline's two-pass blur, or a
// flat color substitution for recoloring a text glyph bitmap.
type PatternFilter uint8

const (
	// FilterNone samples the pattern unmodified.
	FilterNone PatternFilter = iota
	// FilterBlurAxisX is the horizontal pass of a separable Gaussian
	// blur; paired with FilterBlurAxisY on a second render target, the
	// two passes together produce the shadow pipeline's blur.
	FilterBlurAxisX
	// FilterBlurAxisY is the vertical pass of a separable Gaussian blur.
	FilterBlurAxisY
	// FilterTextColorSubstitute treats the pattern as a monochrome text
	// mask: a sampled texel nearer white is recolored toward
	// TextForeground, nearer black toward TextBackground, the
	// foreground/background pair a rasterized glyph run's color
	// substitution needs.
	FilterTextColorSubstitute
)

// RenderTargetID references a scene render target by its allocation
// index; defined here rather than imported from scene to avoid an
// import cycle (scene imports paint for DrawPath's fill source).
type RenderTargetID uint32

// Pattern is an image or render-target fill source with its own
// placement transform, sampling flags, and optional post-sample
// filter.
type Pattern struct {
	Source       PatternSource
	Image        image.Image
	RenderTarget RenderTargetID
	Transform    geom.Affine
	RepeatX      bool
	RepeatY      bool
	Smoothing    bool

	// Filter is the post-sample transform applied after resampling;
	// FilterNone leaves pixels untouched.
	Filter PatternFilter
	// BlurSigma is the Gaussian standard deviation, in pixels, used by
	// FilterBlurAxisX/FilterBlurAxisY (the kernel reaches ceil(3*sigma)+1
	// pixels to each side), ignored by other filters.
	BlurSigma float64
	// TextForeground and TextBackground are the two colors
	// FilterTextColorSubstitute interpolates between, ignored by other
	// filters.
	TextForeground Color
	TextBackground Color

	hash    uint64
	hashSet bool

	cache   *image.RGBA
	cacheW  int
	cacheH  int
}

// NewImagePattern builds a pattern backed by a CPU image, computing a
// content hash eagerly so repeated identical images (e.g. re-adding
// the same icon across many draw calls) can be recognized as the same
// atlas entry without a byte-for-byte comparison on every insert.
func NewImagePattern(img image.Image, transform geom.Affine, repeatX, repeatY, smoothing bool) *Pattern {
	p := &Pattern{
		Source:    SourceImage,
		Image:     img,
		Transform: transform,
		RepeatX:   repeatX,
		RepeatY:   repeatY,
		Smoothing: smoothing,
	}
	p.hash = hashImage(img)
	p.hashSet = true
	return p
}

// NewRenderTargetPattern builds a pattern backed by a previously
// rendered render target.
func NewRenderTargetPattern(rt RenderTargetID, transform geom.Affine, repeatX, repeatY, smoothing bool) *Pattern {
	return &Pattern{
		Source:       SourceRenderTarget,
		RenderTarget: rt,
		Transform:    transform,
		RepeatX:      repeatX,
		RepeatY:      repeatY,
		Smoothing:    smoothing,
	}
}

// ContentHash returns the pattern's content identity: the FNV hash of
// pixel bytes for an image source, or a render-target-derived key
// otherwise. Used by the atlas to recognize a pattern already resident
// in texture memory.
func (p *Pattern) ContentHash() uint64 {
	if p.Source == SourceRenderTarget {
		return uint64(p.RenderTarget) | 1<<63
	}
	if !p.hashSet {
		p.hash = hashImage(p.Image)
		p.hashSet = true
	}
	return p.hash
}

// Resample scales the pattern's source image to width x height,
// memoizing the result since a pattern's footprint is stable across
// the tiles it covers within a single render. Smoothing selects a
// CatmullRom resampler for a continuously-scaled pattern (matching an
// image-backed draw_image or background-image fill); without it,
// NearestNeighbor preserves hard pixel edges the way an unscaled icon
// atlas entry should. Resample returns nil for a render-target-backed
// pattern, which has no CPU-side source image to scale.
func (p *Pattern) Resample(width, height int) *image.RGBA {
	if p.Source != SourceImage || p.Image == nil || width <= 0 || height <= 0 {
		return nil
	}
	if p.cache != nil && p.cacheW == width && p.cacheH == height {
		return p.cache
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	scaler := xdraw.NearestNeighbor
	if p.Smoothing {
		scaler = xdraw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), p.Image, p.Image.Bounds(), xdraw.Src, nil)

	switch p.Filter {
	case FilterBlurAxisX:
		dst = gaussianBlurAxis(dst, p.BlurSigma, true)
	case FilterBlurAxisY:
		dst = gaussianBlurAxis(dst, p.BlurSigma, false)
	}

	p.cache = dst
	p.cacheW = width
	p.cacheH = height
	return dst
}

// gaussianBlurAxis convolves src with a 1-D Gaussian kernel along a
// single axis. src's premultiplied-alpha storage means the weighted
// sum of RGB channels is already correct to store back directly
// (no unpremultiply/re-premultiply round trip), so a shadow's blurred
// edge fades smoothly rather than picking up a black fringe from the
// fully-transparent pixels surrounding it. No pack library
// exposes a per-axis Gaussian pass (disintegration/imaging.Blur is a
// single monolithic 2-D blur); the shadow pipeline needs the two axes
// kept separate so each can be its own render-target pass, so this one
// primitive is hand-rolled rather than borrowed.
func gaussianBlurAxis(src *image.RGBA, sigma float64, horizontal bool) *image.RGBA {
	if sigma <= 0 {
		return src
	}
	radius := int(math.Ceil(sigma*3)) + 1
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := range kernel {
		d := float64(i - radius)
		w := math.Exp(-(d * d) / (2 * sigma * sigma))
		kernel[i] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(bounds)

	sampleAt := func(x, y int) (float64, float64, float64, float64) {
		if x < bounds.Min.X {
			x = bounds.Min.X
		} else if x >= bounds.Max.X {
			x = bounds.Max.X - 1
		}
		if y < bounds.Min.Y {
			y = bounds.Min.Y
		} else if y >= bounds.Max.Y {
			y = bounds.Max.Y - 1
		}
		// image.RGBA stores alpha-premultiplied bytes, and RGBA() just
		// widens them to 16 bits without unpremultiplying, so r/g/b
		// here are already premultiplied fractions.
		r, g, b, a := src.At(x, y).RGBA()
		return float64(r) / 65535, float64(g) / 65535, float64(b) / 65535, float64(a) / 65535
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var rAcc, gAcc, bAcc, aAcc float64
			for k, wt := range kernel {
				offset := k - radius
				sx, sy := x, y
				if horizontal {
					sx = x + offset
				} else {
					sy = y + offset
				}
				r, g, b, a := sampleAt(bounds.Min.X+sx, bounds.Min.Y+sy)
				rAcc += r * wt
				gAcc += g * wt
				bAcc += b * wt
				aAcc += a * wt
			}
			// rAcc/gAcc/bAcc are already a correctly-weighted
			// premultiplied sum (kernel weights sum to 1), so they
			// store directly without re-premultiplying.
			dst.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{
				R: toColorByte(rAcc),
				G: toColorByte(gAcc),
				B: toColorByte(bAcc),
				A: toColorByte(aAcc),
			})
		}
	}
	return dst
}

func toColorByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// hashImage hashes a pattern's pixel content. Large sources are
// downsampled to a fixed-size thumbnail first: a full per-pixel scan
// over a multi-megapixel background image would dominate every
// NewImagePattern call, and a dedup key only needs to distinguish
// distinct images from one another, not preserve their exact bytes.
func hashImage(img image.Image) uint64 {
	if img == nil {
		return 0
	}
	const (
		offset64        = 14695981039346656037
		prime64         = 1099511628211
		thumbnailEdge   = 32
		thumbnailPixels = thumbnailEdge * thumbnailEdge
	)

	b := img.Bounds()
	if b.Dx()*b.Dy() > thumbnailPixels {
		img = imaging.Resize(img, thumbnailEdge, thumbnailEdge, imaging.NearestNeighbor)
		b = img.Bounds()
	}

	h := uint64(offset64)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			h = (h ^ uint64(r)) * prime64
			h = (h ^ uint64(g)) * prime64
			h = (h ^ uint64(bl)) * prime64
			h = (h ^ uint64(a)) * prime64
		}
	}
	return h
}
