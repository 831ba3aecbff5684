package textmesh

import "math"

const (
	// runGapEpsilon is the largest horizontal gap, in logical pixels,
	// still treated as contiguous when merging decoration runs.
	runGapEpsilon = 0.5

	// runMergeTolerance bounds how far bar position and thickness may
	// drift between glyphs that still share one rectangle.
	runMergeTolerance = 0.5
)

// decoGlyph is one glyph's contribution to a decoration run: its
// horizontal span in line-local pen coordinates, the bar geometry the
// font prescribes at this size, and the request fields the emitted
// rectangle must carry.
type decoGlyph struct {
	kind DecorationKind

	x0, x1 float64 // glyph span along the pen axis, logical px
	pos    float64 // bar center relative to the baseline, y-up
	thick  float64 // bar thickness, logical px

	color  RGBA
	offset Vec2
	layer  Layer
	font   FontID
	size   float64
	stroke uint32
}

// decoRect is one merged decoration rectangle flushed from a run.
// Geometry is line-local: x along the pen axis, y relative to the
// baseline, y-up. The renderer resolves its bar patch from (kind, font,
// size, stroke) and turns it into a quad.
type decoRect struct {
	kind DecorationKind

	x0, x1 float64
	y0, y1 float64

	color  RGBA
	offset Vec2
	layer  Layer
	font   FontID
	size   float64
	stroke uint32
}

// thickness returns the bar thickness of the rectangle.
func (r decoRect) thickness() float64 {
	return r.y1 - r.y0
}

// decorationRun incrementally merges consecutive glyphs sharing one
// decoration into a single rectangle, so a run of N glyphs costs one
// quad instead of N.
type decorationRun struct {
	active bool

	kind   DecorationKind
	x0, x1 float64
	pos    float64
	thick  float64

	color  RGBA
	offset Vec2
	layer  Layer
	font   FontID
	size   float64
	stroke uint32
}

// add merges the glyph into the open run when contiguous and
// style-compatible; otherwise it flushes the open run into out and
// starts a new one at the glyph.
func (r *decorationRun) add(g decoGlyph, out []decoRect) []decoRect {
	if r.active && r.matches(g) {
		if g.x1 > r.x1 {
			r.x1 = g.x1
		}
		if g.thick > r.thick {
			r.thick = g.thick
		}
		return out
	}

	out = r.flush(out)
	*r = decorationRun{
		active: true,
		kind:   g.kind,
		x0:     g.x0,
		x1:     g.x1,
		pos:    g.pos,
		thick:  g.thick,
		color:  g.color,
		offset: g.offset,
		layer:  g.layer,
		font:   g.font,
		size:   g.size,
		stroke: g.stroke,
	}
	return out
}

// matches reports whether the glyph continues the run: no horizontal
// gap beyond runGapEpsilon, identical bar style, and bar geometry
// within runMergeTolerance. A single rectangle cannot vary thickness
// or position along its length, so drift past the tolerance splits.
func (r *decorationRun) matches(g decoGlyph) bool {
	if g.x0 > r.x1+runGapEpsilon {
		return false
	}
	if g.stroke != r.stroke || g.color != r.color || g.layer != r.layer || g.offset != r.offset {
		return false
	}
	return math.Abs(g.pos-r.pos) <= runMergeTolerance &&
		math.Abs(g.thick-r.thick) <= runMergeTolerance
}

// flush emits the open run as one rectangle and closes it. Degenerate
// spans emit nothing.
func (r *decorationRun) flush(out []decoRect) []decoRect {
	if !r.active {
		return out
	}
	r.active = false
	if r.x1 <= r.x0 || r.thick <= 0 {
		return out
	}

	half := r.thick / 2
	return append(out, decoRect{
		kind:   r.kind,
		x0:     r.x0,
		x1:     r.x1,
		y0:     r.pos - half,
		y1:     r.pos + half,
		color:  r.color,
		offset: r.offset,
		layer:  r.layer,
		font:   r.font,
		size:   r.size,
		stroke: r.stroke,
	})
}

// lineRuns tracks the open underline and strikethrough runs of one
// visual line. Each line starts fresh and finish flushes whatever is
// still open at its end.
type lineRuns struct {
	underline     decorationRun
	strikethrough decorationRun
}

func (l *lineRuns) add(g decoGlyph, out []decoRect) []decoRect {
	if g.kind == DecorStrikethrough {
		return l.strikethrough.add(g, out)
	}
	return l.underline.add(g, out)
}

// finish flushes both open runs at the end of a line.
func (l *lineRuns) finish(out []decoRect) []decoRect {
	out = l.underline.flush(out)
	return l.strikethrough.flush(out)
}
