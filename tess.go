package textmesh

import (
	"github.com/gogpu/textmesh/internal/raster"
	"github.com/gogpu/textmesh/internal/stroke"
)

// PathSink receives a glyph outline as path commands, decoupling the
// tessellator from any particular font library's outline traversal.
// Coordinates are in device pixels, y-down, origin at the glyph's pen
// position on the baseline; font databases scale outlines from design
// units by fontSize / unitsPerEm * scaleFactor before emitting them.
type PathSink interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	CubeTo(c1x, c1y, c2x, c2y, x, y float64)
	Close()
}

type pathCmd uint8

const (
	cmdMove pathCmd = iota
	cmdLine
	cmdQuad
	cmdCube
	cmdClose
)

// PathEncoder is a PathSink that accumulates commands into a replayable
// list. One glyph outline at a time; Reset clears it for the next.
type PathEncoder struct {
	cmds   []pathCmd
	coords []float64
}

// Reset clears the accumulated commands, keeping capacity.
func (e *PathEncoder) Reset() {
	e.cmds = e.cmds[:0]
	e.coords = e.coords[:0]
}

// Empty reports whether no commands have been accumulated.
func (e *PathEncoder) Empty() bool {
	return len(e.cmds) == 0
}

// MoveTo implements PathSink.
func (e *PathEncoder) MoveTo(x, y float64) {
	e.cmds = append(e.cmds, cmdMove)
	e.coords = append(e.coords, x, y)
}

// LineTo implements PathSink.
func (e *PathEncoder) LineTo(x, y float64) {
	e.cmds = append(e.cmds, cmdLine)
	e.coords = append(e.coords, x, y)
}

// QuadTo implements PathSink.
func (e *PathEncoder) QuadTo(cx, cy, x, y float64) {
	e.cmds = append(e.cmds, cmdQuad)
	e.coords = append(e.coords, cx, cy, x, y)
}

// CubeTo implements PathSink.
func (e *PathEncoder) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	e.cmds = append(e.cmds, cmdCube)
	e.coords = append(e.coords, c1x, c1y, c2x, c2y, x, y)
}

// Close implements PathSink.
func (e *PathEncoder) Close() {
	e.cmds = append(e.cmds, cmdClose)
}

// replayFill feeds the accumulated outline into a scanline filler.
func (e *PathEncoder) replayFill(f *raster.Filler) {
	i := 0
	for _, cmd := range e.cmds {
		switch cmd {
		case cmdMove:
			f.MoveTo(raster.Point{X: e.coords[i], Y: e.coords[i+1]})
			i += 2
		case cmdLine:
			f.LineTo(raster.Point{X: e.coords[i], Y: e.coords[i+1]})
			i += 2
		case cmdQuad:
			f.QuadTo(
				raster.Point{X: e.coords[i], Y: e.coords[i+1]},
				raster.Point{X: e.coords[i+2], Y: e.coords[i+3]},
			)
			i += 4
		case cmdCube:
			f.CubeTo(
				raster.Point{X: e.coords[i], Y: e.coords[i+1]},
				raster.Point{X: e.coords[i+2], Y: e.coords[i+3]},
				raster.Point{X: e.coords[i+4], Y: e.coords[i+5]},
			)
			i += 6
		case cmdClose:
			f.Close()
		}
	}
}

// strokeElements converts the accumulated outline into stroke expander
// elements, reusing buf.
func (e *PathEncoder) strokeElements(buf []stroke.Element) []stroke.Element {
	buf = buf[:0]
	i := 0
	for _, cmd := range e.cmds {
		switch cmd {
		case cmdMove:
			buf = append(buf, stroke.MoveTo{Point: stroke.Point{X: e.coords[i], Y: e.coords[i+1]}})
			i += 2
		case cmdLine:
			buf = append(buf, stroke.LineTo{Point: stroke.Point{X: e.coords[i], Y: e.coords[i+1]}})
			i += 2
		case cmdQuad:
			buf = append(buf, stroke.QuadTo{
				Control: stroke.Point{X: e.coords[i], Y: e.coords[i+1]},
				Point:   stroke.Point{X: e.coords[i+2], Y: e.coords[i+3]},
			})
			i += 4
		case cmdCube:
			buf = append(buf, stroke.CubicTo{
				Control1: stroke.Point{X: e.coords[i], Y: e.coords[i+1]},
				Control2: stroke.Point{X: e.coords[i+2], Y: e.coords[i+3]},
				Point:    stroke.Point{X: e.coords[i+4], Y: e.coords[i+5]},
			})
			i += 6
		case cmdClose:
			buf = append(buf, stroke.Close{})
		}
	}
	return buf
}

// Tessellator converts accumulated glyph outlines into coverage
// patches. One instance is reused across glyphs; not safe for
// concurrent use.
type Tessellator struct {
	enc    PathEncoder
	filler *raster.Filler
	elems  []stroke.Element
}

// NewTessellator creates a tessellator with empty buffers.
func NewTessellator() *Tessellator {
	return &Tessellator{filler: raster.NewFiller()}
}

// Encoder resets and returns the sink for the next glyph outline.
func (t *Tessellator) Encoder() *PathEncoder {
	t.enc.Reset()
	return &t.enc
}

// Fill scan-converts the accumulated outline into a coverage patch.
// ok=false when the outline covers no pixels (whitespace glyphs).
func (t *Tessellator) Fill() (Patch, bool) {
	if t.enc.Empty() {
		return Patch{}, false
	}
	t.filler.Reset()
	t.enc.replayFill(t.filler)
	return t.maskPatch()
}

// Stroke expands the accumulated outline into a centered stroke of the
// given width in device pixels, joined per join, then scan-converts the
// expanded outline. ok=false when the result covers no pixels.
func (t *Tessellator) Stroke(width float64, join StrokeJoin) (Patch, bool) {
	if t.enc.Empty() || width <= 0 {
		return Patch{}, false
	}

	t.elems = t.enc.strokeElements(t.elems)
	expanded := stroke.NewExpander(width, expanderJoin(join)).Expand(t.elems)
	if len(expanded) == 0 {
		return Patch{}, false
	}

	t.filler.Reset()
	for _, el := range expanded {
		switch el := el.(type) {
		case stroke.MoveTo:
			t.filler.MoveTo(raster.Point{X: el.Point.X, Y: el.Point.Y})
		case stroke.LineTo:
			t.filler.LineTo(raster.Point{X: el.Point.X, Y: el.Point.Y})
		case stroke.QuadTo:
			t.filler.QuadTo(
				raster.Point{X: el.Control.X, Y: el.Control.Y},
				raster.Point{X: el.Point.X, Y: el.Point.Y},
			)
		case stroke.CubicTo:
			t.filler.CubeTo(
				raster.Point{X: el.Control1.X, Y: el.Control1.Y},
				raster.Point{X: el.Control2.X, Y: el.Control2.Y},
				raster.Point{X: el.Point.X, Y: el.Point.Y},
			)
		case stroke.Close:
			t.filler.Close()
		}
	}
	return t.maskPatch()
}

// Bar rasterizes an axis-aligned bar of w x h device pixels with its
// top-left at the origin, filled when strokeWidth is zero and outlined
// otherwise. Decoration patches for underline and strikethrough come
// from here so they share the glyph cache path.
func (t *Tessellator) Bar(w, h, strokeWidth float64, join StrokeJoin) (Patch, bool) {
	enc := t.Encoder()
	enc.MoveTo(0, 0)
	enc.LineTo(w, 0)
	enc.LineTo(w, h)
	enc.LineTo(0, h)
	enc.Close()
	if strokeWidth > 0 {
		return t.Stroke(strokeWidth, join)
	}
	return t.Fill()
}

// maskPatch copies the filler's mask into an owning Patch. The mask
// aliases filler buffers, so the pixels are copied out.
func (t *Tessellator) maskPatch() (Patch, bool) {
	m := t.filler.Mask()
	if m.Empty() {
		return Patch{}, false
	}
	alpha := make([]float32, len(m.Alpha))
	copy(alpha, m.Alpha)
	return Patch{
		Alpha:  alpha,
		W:      m.Width,
		H:      m.Height,
		Offset: IVec2{X: m.MinX, Y: m.MinY},
	}, true
}

func expanderJoin(j StrokeJoin) stroke.Join {
	switch j {
	case JoinRound:
		return stroke.JoinRound
	case JoinBevel:
		return stroke.JoinBevel
	default:
		return stroke.JoinMiter
	}
}
