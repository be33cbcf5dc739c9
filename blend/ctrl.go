package blend

// Ctrl is the per-tile control byte a rasterizer backend attaches to
// an alpha or solid tile: the low two bits select which Porter-Duff
// color-combine rule composes the tile's color channels (SrcIn,
// DestIn, or neither), and the remaining bits hold the blend-mode
// ordinal applied before that combine.
type Ctrl uint8

const (
	ctrlSrcInBit  Ctrl = 1 << 0
	ctrlDestInBit Ctrl = 1 << 1
	ctrlModeShift      = 2
)

// EncodeCtrl packs a blend mode and the two color-combine flags into a
// single control byte for the tile/fill pipeline.
func EncodeCtrl(mode BlendMode, srcIn, destIn bool) Ctrl {
	c := Ctrl(mode) << ctrlModeShift
	if srcIn {
		c |= ctrlSrcInBit
	}
	if destIn {
		c |= ctrlDestInBit
	}
	return c
}

// DecodeCtrl unpacks a control byte back into its blend mode and
// color-combine flags.
func DecodeCtrl(c Ctrl) (mode BlendMode, srcIn, destIn bool) {
	mode = BlendMode(c >> ctrlModeShift)
	srcIn = c&ctrlSrcInBit != 0
	destIn = c&ctrlDestInBit != 0
	return
}

// Normal is the canvas-facing name for the default compositing
// operator (source-over), matching the spec's sixteen named composite
// operations where the other fifteen are the BlendXxx modes in
// advanced.go and hsl.go.
const Normal = BlendSourceOver

// CanvasModes lists the sixteen composite/blend operations a canvas's
// global_composite_operation brush setting may select, in the order
// they are named: Normal first, then the fifteen CSS blend modes.
var CanvasModes = [16]BlendMode{
	Normal,
	BlendMultiply,
	BlendScreen,
	BlendOverlay,
	BlendDarken,
	BlendLighten,
	BlendColorDodge,
	BlendColorBurn,
	BlendHardLight,
	BlendSoftLight,
	BlendDifference,
	BlendExclusion,
	BlendHue,
	BlendSaturation,
	BlendColor,
	BlendLuminosity,
}
