package fontdb

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/textmesh"
)

// Outline implements textmesh.FontSource. It walks the glyph outline
// scaled to ppem pixels per em into sink, in device pixels with y down
// and the origin on the baseline. Contours are closed explicitly so
// stroke expansion joins the seam instead of capping it. It reports
// false for unknown faces and for glyphs without an outline, such as
// spaces.
func (db *Database) Outline(id textmesh.FontID, glyph textmesh.GlyphID, ppem float64, sink textmesh.PathSink) bool {
	f := db.lookup(id)
	if f == nil || ppem <= 0 {
		return false
	}

	buf := db.bufs.Get().(*sfnt.Buffer)
	defer db.bufs.Put(buf)

	segments, err := f.outline.LoadGlyph(buf, sfnt.GlyphIndex(glyph), fixed.Int26_6(ppem*64), nil)
	if err != nil {
		textmesh.Logger().Debug("fontdb: glyph outline unavailable",
			"font", id, "glyph", glyph, "err", err)
		return false
	}
	if len(segments) == 0 {
		return false
	}

	started := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				sink.Close()
			}
			started = true
			sink.MoveTo(fixedPx(seg.Args[0].X), fixedPx(seg.Args[0].Y))
		case sfnt.SegmentOpLineTo:
			sink.LineTo(fixedPx(seg.Args[0].X), fixedPx(seg.Args[0].Y))
		case sfnt.SegmentOpQuadTo:
			sink.QuadTo(
				fixedPx(seg.Args[0].X), fixedPx(seg.Args[0].Y),
				fixedPx(seg.Args[1].X), fixedPx(seg.Args[1].Y),
			)
		case sfnt.SegmentOpCubeTo:
			sink.CubeTo(
				fixedPx(seg.Args[0].X), fixedPx(seg.Args[0].Y),
				fixedPx(seg.Args[1].X), fixedPx(seg.Args[1].Y),
				fixedPx(seg.Args[2].X), fixedPx(seg.Args[2].Y),
			)
		}
	}
	if started {
		sink.Close()
	}
	return true
}

// Decoration implements textmesh.FontSource. Bar geometry comes from
// the face's post and OS/2 tables, converted from the table's top edge
// convention to the bar center. Faces missing the tables fall back to
// conventional fractions of the font size.
func (db *Database) Decoration(id textmesh.FontID, kind textmesh.DecorationKind, size float64) (pos, thickness float64) {
	f := db.lookup(id)
	if f == nil || size <= 0 || f.upem <= 0 {
		return 0, 0
	}

	scale := size / f.upem
	switch kind {
	case textmesh.DecorUnderline:
		if f.deco.underlineThickness > 0 {
			thickness = float64(f.deco.underlineThickness) * scale
			return float64(f.deco.underlinePosition)*scale - thickness/2, thickness
		}
		return -0.1 * size, 0.05 * size
	case textmesh.DecorStrikethrough:
		if f.deco.strikeoutSize > 0 {
			thickness = float64(f.deco.strikeoutSize) * scale
			return float64(f.deco.strikeoutPosition)*scale - thickness/2, thickness
		}
		return 0.3 * size, 0.05 * size
	default:
		return 0, 0
	}
}

// Glyph returns the face's glyph index for r, or 0 when the face is
// unknown or has no mapping for the rune.
func (db *Database) Glyph(id textmesh.FontID, r rune) textmesh.GlyphID {
	f := db.lookup(id)
	if f == nil {
		return 0
	}

	buf := db.bufs.Get().(*sfnt.Buffer)
	defer db.bufs.Put(buf)

	idx, err := f.outline.GlyphIndex(buf, r)
	if err != nil {
		return 0
	}
	return textmesh.GlyphID(idx)
}

// Advance returns the unhinted horizontal advance of glyph at the
// given font size, in logical pixels.
func (db *Database) Advance(id textmesh.FontID, glyph textmesh.GlyphID, size float64) float64 {
	f := db.lookup(id)
	if f == nil || size <= 0 {
		return 0
	}

	buf := db.bufs.Get().(*sfnt.Buffer)
	defer db.bufs.Put(buf)

	adv, err := f.outline.GlyphAdvance(buf, sfnt.GlyphIndex(glyph), fixed.Int26_6(size*64), font.HintingNone)
	if err != nil {
		return 0
	}
	return fixedPx(adv)
}

// Metrics holds vertical face metrics scaled to a font size, in
// logical pixels. Ascent and Descent are positive distances from the
// baseline.
type Metrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// Metrics returns the face metrics scaled to size.
func (db *Database) Metrics(id textmesh.FontID, size float64) (Metrics, bool) {
	f := db.lookup(id)
	if f == nil || size <= 0 {
		return Metrics{}, false
	}

	buf := db.bufs.Get().(*sfnt.Buffer)
	defer db.bufs.Put(buf)

	m, err := f.outline.Metrics(buf, fixed.Int26_6(size*64), font.HintingNone)
	if err != nil {
		return Metrics{}, false
	}

	out := Metrics{
		Ascent:  fixedPx(m.Ascent),
		Descent: fixedPx(m.Descent),
	}
	if gap := fixedPx(m.Height) - out.Ascent - out.Descent; gap > 0 {
		out.LineGap = gap
	}
	return out, true
}

// fixedPx converts a 26.6 fixed-point value to float64 pixels.
func fixedPx(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
