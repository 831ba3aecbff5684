package textmesh

import "math"

// FontID identifies a font face registered with a font database.
type FontID uint32

// GlyphID is a glyph index within a font face.
type GlyphID uint16

// Reserved glyph ids under which decoration patches (solid and outlined
// bars) are cached, so underline and strikethrough rectangles share the
// glyph cache/pack/grow path.
const (
	glyphUnderline     GlyphID = 0xFFFF
	glyphStrikethrough GlyphID = 0xFFFE
)

// Weight is a font weight class on the CSS scale (100..900).
type Weight uint16

// Common weight classes.
const (
	WeightNormal Weight = 400
	WeightBold   Weight = 700
)

// StrokeJoin selects how stroke outline segments are joined at corners.
type StrokeJoin uint8

const (
	// JoinMiter extends segment edges to a sharp corner, falling back to
	// bevel past the miter limit.
	JoinMiter StrokeJoin = iota

	// JoinRound connects segments with a circular arc.
	JoinRound

	// JoinBevel connects segments with a straight edge.
	JoinBevel
)

func (j StrokeJoin) String() string {
	switch j {
	case JoinMiter:
		return "miter"
	case JoinRound:
		return "round"
	case JoinBevel:
		return "bevel"
	default:
		return "unknown"
	}
}

// GlyphKey uniquely identifies a rasterized glyph appearance in the atlas.
// Two keys are equal iff every field is equal; in particular the font size
// is compared bit-for-bit, not approximately. Keys are immutable once built.
type GlyphKey struct {
	// Font identifies the font face.
	Font FontID

	// Glyph is the glyph index within the font.
	Glyph GlyphID

	// SizeBits is the font size in pixels as math.Float64bits.
	SizeBits uint64

	// Weight is the font weight class.
	Weight Weight

	// Stroke is the outline stroke width in 1/100 em units.
	// Zero means a filled glyph.
	Stroke uint32

	// Join is the stroke join style. Meaningful only when Stroke > 0.
	Join StrokeJoin
}

// NewGlyphKey builds a key for a filled glyph at the given size in pixels.
func NewGlyphKey(font FontID, glyph GlyphID, size float64, weight Weight) GlyphKey {
	return GlyphKey{
		Font:     font,
		Glyph:    glyph,
		SizeBits: math.Float64bits(size),
		Weight:   weight,
	}
}

// NewStrokeKey builds a key for a stroke outline rendering of a glyph.
// Stroke width is in 1/100 em units, so the same glyph caches
// independently per stroke width and join style.
func NewStrokeKey(font FontID, glyph GlyphID, size float64, weight Weight, stroke uint32, join StrokeJoin) GlyphKey {
	return GlyphKey{
		Font:     font,
		Glyph:    glyph,
		SizeBits: math.Float64bits(size),
		Weight:   weight,
		Stroke:   stroke,
		Join:     join,
	}
}

// Size returns the font size encoded in the key.
func (k GlyphKey) Size() float64 {
	return math.Float64frombits(k.SizeBits)
}

// Stroked reports whether the key identifies a stroke outline rendering.
func (k GlyphKey) Stroked() bool {
	return k.Stroke > 0
}
