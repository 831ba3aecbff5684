package textmesh

// Layer orders quads within one entity's mesh. Lower layers draw first,
// behind higher ones; requests tying on layer keep their glyph
// insertion order (stable sort).
type Layer int32

// Relative stacking of the draw kinds expanded from one glyph. Underline
// sits behind everything, strokes behind their fill, strikethrough on
// top.
const (
	layerUnderline     Layer = -2
	layerStroke        Layer = -1
	layerFill          Layer = 0
	layerStrikethrough Layer = 1
)

// DrawKind discriminates draw request variants.
type DrawKind uint8

const (
	// DrawGlyph fills or outlines a glyph patch.
	DrawGlyph DrawKind = iota

	// DrawDecoration feeds the line run tracker, which emits merged
	// underline or strikethrough bars.
	DrawDecoration
)

// DecorationKind selects which decoration a request drives.
type DecorationKind uint8

const (
	DecorUnderline DecorationKind = iota
	DecorStrikethrough
)

// glyphID returns the reserved atlas slot for the decoration's bar patch.
func (k DecorationKind) glyphID() GlyphID {
	if k == DecorStrikethrough {
		return glyphStrikethrough
	}
	return glyphUnderline
}

// DrawRequest is one drawing instruction expanded from a glyph and its
// segment style. Requests are ephemeral: produced and consumed within
// the processing of a single glyph, never persisted.
type DrawRequest struct {
	// Kind selects the variant.
	Kind DrawKind

	// Stroke is an outline width in 1/100 em units; zero means filled.
	// For DrawGlyph it strokes the glyph outline, for DrawDecoration
	// the bar patch.
	Stroke uint32

	// Decoration is the decoration kind of a DrawDecoration request.
	Decoration DecorationKind

	// Color is the vertex color for the produced quads.
	Color RGBA

	// Offset displaces the produced quads in logical pixels, y-up.
	Offset Vec2

	// Layer is the final sort layer: segment base, per-kind stacking
	// and entity offset combined.
	Layer Layer
}

// appendRequests expands one glyph's segment style into draw requests,
// appended to reqs in back-to-front order: underline, glyph stroke,
// glyph fill, strikethrough. The fill request is always present; the
// others depend on the style.
func appendRequests(reqs []DrawRequest, style *TextStyle, seg *SegmentStyle) []DrawRequest {
	base := seg.Layer + style.LayerOffset
	fill := seg.fill(style)

	if deco := seg.Underline; deco != nil {
		reqs = append(reqs, DrawRequest{
			Kind:       DrawDecoration,
			Decoration: DecorUnderline,
			Stroke:     deco.Stroke,
			Color:      decoColor(deco, fill),
			Offset:     seg.Offset,
			Layer:      base + layerUnderline,
		})
	}
	if stroke := seg.Stroke; stroke != nil && stroke.Width > 0 {
		reqs = append(reqs, DrawRequest{
			Kind:   DrawGlyph,
			Stroke: stroke.Width,
			Color:  stroke.Color,
			Offset: seg.Offset,
			Layer:  base + layerStroke,
		})
	}
	reqs = append(reqs, DrawRequest{
		Kind:   DrawGlyph,
		Color:  fill,
		Offset: seg.Offset,
		Layer:  base + layerFill,
	})
	if deco := seg.Strikethrough; deco != nil {
		reqs = append(reqs, DrawRequest{
			Kind:       DrawDecoration,
			Decoration: DecorStrikethrough,
			Stroke:     deco.Stroke,
			Color:      decoColor(deco, fill),
			Offset:     seg.Offset,
			Layer:      base + layerStrikethrough,
		})
	}
	return reqs
}

func decoColor(deco *DecorationStyle, fill RGBA) RGBA {
	if deco.Color != nil {
		return *deco.Color
	}
	return fill
}
