package textmesh

// Align selects horizontal line alignment within the text block.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// factor returns the fraction of its width each line shifts left.
func (a Align) factor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	default:
		return 0
	}
}

// Anchor points map the finished text block onto the origin: the anchor
// offset is anchor * blockDimension - blockCenter, so (0, 0) keeps the
// block centered and (0.5, 0.5) puts its bottom-left corner at the
// origin. Any Vec2 in [-0.5, 0.5] works; these are the common corners.
var (
	AnchorCenter      = V2(0, 0)
	AnchorTopLeft     = V2(0.5, -0.5)
	AnchorTopRight    = V2(-0.5, -0.5)
	AnchorBottomLeft  = V2(0.5, 0.5)
	AnchorBottomRight = V2(-0.5, 0.5)
)

// TextStyle is the entity-wide styling: font selection, sizing, layout
// and mesh finalization parameters. Segment styles override the drawing
// fields glyph by glyph.
type TextStyle struct {
	// Family is the font family resolved through the font database.
	// Empty selects the database's fallback face.
	Family string

	// Size is the font size in logical pixels. Default: 32
	Size float64

	// LineHeight is the line height as a multiple of Size. Default: 1.2
	LineHeight float64

	// Weight is the font weight glyphs are shaped and cached with.
	// Zero means WeightNormal.
	Weight Weight

	// Color is the fill color for segments that do not set their own.
	Color RGBA

	// Align is the horizontal alignment of lines within the block.
	Align Align

	// Anchor positions the finished block relative to the origin.
	// The zero value keeps the block centered.
	Anchor Vec2

	// WorldScale, when positive, rescales final positions by
	// WorldScale / Size so the block's world footprint is independent
	// of font size. Zero disables the rescale.
	WorldScale float64

	// StrokeJoin is the join style for every stroke outline of this
	// entity, glyph strokes and decoration outlines alike.
	StrokeJoin StrokeJoin

	// LayerOffset shifts every draw request's layer, stacking whole
	// entities against each other.
	LayerOffset Layer

	// TabWidth is the tab stop width in space advances used during
	// shaping. Zero means 8.
	TabWidth int
}

// DefaultTextStyle returns the default entity styling: 32px text in the
// fallback face, white, centered on the origin.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		Size:       32,
		LineHeight: 1.2,
		Weight:     WeightNormal,
		Color:      White,
		Align:      AlignLeft,
		Anchor:     AnchorCenter,
	}
}

// Resolved returns a copy of the style with zero-valued fields replaced
// by their defaults, ready for layout math. Colors are kept as-is since
// a zero color is a valid (transparent) choice.
func (s TextStyle) Resolved() TextStyle {
	if s.Size <= 0 {
		s.Size = 32
	}
	if s.LineHeight <= 0 {
		s.LineHeight = 1.2
	}
	if s.Weight == 0 {
		s.Weight = WeightNormal
	}
	if s.TabWidth <= 0 {
		s.TabWidth = 8
	}
	return s
}

// weightOr resolves a segment weight override against the entity weight.
func (s *TextStyle) weightOr(w Weight) Weight {
	if w != 0 {
		return w
	}
	if s.Weight != 0 {
		return s.Weight
	}
	return WeightNormal
}

// SegmentStyle selects how one text segment is drawn. Nil optionals
// inherit the entity style or draw nothing.
type SegmentStyle struct {
	// Fill overrides the glyph fill color. Nil inherits TextStyle.Color.
	Fill *RGBA

	// Weight overrides the font weight. Zero inherits TextStyle.Weight.
	Weight Weight

	// Stroke adds an outline pass behind the fill.
	Stroke *StrokeStyle

	// Underline merges consecutive decorated glyphs into underline bars.
	Underline *DecorationStyle

	// Strikethrough draws strike bars over the glyphs.
	Strikethrough *DecorationStyle

	// Offset displaces this segment's quads in logical pixels, y-up.
	Offset Vec2

	// Layer is the base draw layer for this segment's requests. The
	// per-kind stacking (underline, stroke, fill, strikethrough) is
	// applied relative to it.
	Layer Layer
}

// StrokeStyle is an outline stroke drawn behind the glyph fill.
type StrokeStyle struct {
	// Width is the stroke width in 1/100 em units.
	Width uint32

	// Color is the stroke color.
	Color RGBA
}

// DecorationStyle selects how an underline or strikethrough bar is drawn.
type DecorationStyle struct {
	// Color is the bar color. Nil inherits the segment's fill color.
	Color *RGBA

	// Stroke, when positive, draws the bar as an outline of this width
	// in 1/100 em units instead of a solid fill.
	Stroke uint32
}

// fill resolves the segment fill color against the entity style.
func (s *SegmentStyle) fill(style *TextStyle) RGBA {
	if s.Fill != nil {
		return *s.Fill
	}
	return style.Color
}
