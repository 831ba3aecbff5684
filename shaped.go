package textmesh

// ShapedGlyph is one positioned glyph produced by the shaping engine.
// Coordinates are logical units relative to the line origin: X grows
// rightward from the line start, Y is the offset from the baseline
// with positive values raising the glyph.
type ShapedGlyph struct {
	Font    FontID
	Glyph   GlyphID
	Size    float64
	X, Y    float64
	Advance float64

	// Segment indexes the entity's segment table for style lookup.
	Segment int
}

// ShapedLine is one visual line of glyphs with its vertical placement.
// Top and Baseline are distances from the block's top edge, growing
// downward.
type ShapedLine struct {
	Glyphs   []ShapedGlyph
	Width    float64
	Top      float64
	Baseline float64
	Height   float64
}

// ShapedText is a shaping engine's output for one text entity.
type ShapedText struct {
	Lines []ShapedLine
}

// Shaper turns a text entity's segments into positioned glyph lines.
// Line breaking, script segmentation and bidi reordering happen behind
// this interface; the pipeline consumes visual-order glyphs only.
type Shaper interface {
	Shape(text *Text) (ShapedText, error)
}

// FontSource serves glyph outlines and decoration metrics to the
// pipeline. Implementations must be safe for concurrent use when
// background prewarming is employed.
type FontSource interface {
	// Outline walks the outline of glyph scaled to ppem pixels per em
	// into sink, in device pixels with y down and the origin on the
	// baseline. It reports false when the face or the glyph outline is
	// unavailable.
	Outline(font FontID, glyph GlyphID, ppem float64, sink PathSink) bool

	// Decoration returns the bar center offset from the baseline
	// (y up, negative below) and the bar thickness for kind at the
	// given font size, both in logical units.
	Decoration(font FontID, kind DecorationKind, size float64) (pos, thickness float64)
}
