// Package shape turns text entities into positioned glyph lines using
// HarfBuzz shaping via go-text/typesetting.
//
// The shaper resolves each segment's face through a font database,
// shapes paragraph runs split on bidi level changes, wraps lines
// against the entity's maximum width and lays glyphs out in visual
// order. It produces the glyph stream the mesh pipeline consumes;
// rasterization and caching happen downstream.
package shape

import (
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/textmesh"
	"github.com/gogpu/textmesh/fontdb"
)

// ErrNoFaces is returned when shaping against a database with no
// registered faces.
var ErrNoFaces = errors.New("shape: no font face registered")

// Shaper shapes text entities against a font database. It implements
// textmesh.Shaper and is safe for concurrent use: parsed fonts are
// shared read-only and the HarfBuzz shapers, which carry mutable
// buffers, are pooled per call.
type Shaper struct {
	db *fontdb.Database

	// pool holds HarfbuzzShaper instances. They are not safe for
	// concurrent use but cheap to reuse across sequential calls.
	pool sync.Pool
}

// New creates a Shaper backed by the given font database.
func New(db *fontdb.Database) *Shaper {
	return &Shaper{
		db: db,
		pool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}
}

// paraChunk is a slice of one segment's text within a paragraph.
type paraChunk struct {
	segment int
	text    string
}

// penGlyph is one shaped glyph before line assembly. Offsets and the
// advance are in logical pixels; cluster is the paragraph rune index
// the glyph maps back to.
type penGlyph struct {
	font    textmesh.FontID
	glyph   textmesh.GlyphID
	xOffset float64
	yOffset float64
	advance float64
	cluster int
	segment int
	level   int
	run     int
	tab     bool
}

// Shape implements textmesh.Shaper. Segments are joined into
// paragraphs at hard breaks, shaped per bidi run, wrapped against
// text.MaxWidth and emitted as visual-order lines.
func (s *Shaper) Shape(text *textmesh.Text) (textmesh.ShapedText, error) {
	style := text.Style.Resolved()

	primary, ok := s.db.Resolve(style.Family, style.Weight)
	if !ok {
		return textmesh.ShapedText{}, ErrNoFaces
	}

	// Segment faces vary by weight override only; the family is
	// entity-wide.
	segFonts := make([]textmesh.FontID, len(text.Segments))
	for i := range text.Segments {
		weight := style.Weight
		if w := text.Segments[i].Style.Weight; w != 0 {
			weight = w
		}
		segFonts[i], _ = s.db.Resolve(style.Family, weight)
	}

	tabAdvance := s.tabAdvance(primary, style)
	ascent := s.ascent(primary, style.Size)
	lineHeight := style.Size * style.LineHeight

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	defer s.pool.Put(hb)

	ctx := &shapeContext{
		shaper:   s,
		hb:       hb,
		faces:    make(map[textmesh.FontID]*font.Face),
		style:    style,
		segFonts: segFonts,
	}

	var out textmesh.ShapedText
	var top float64
	for _, para := range splitParagraphs(text.Segments) {
		lines := ctx.shapeParagraph(para, text.MaxWidth, tabAdvance)
		for i := range lines {
			lines[i].Top = top
			lines[i].Baseline = top + ascent
			lines[i].Height = lineHeight
			top += lineHeight
			out.Lines = append(out.Lines, lines[i])
		}
	}
	return out, nil
}

// tabAdvance is the width of one tab stop: the primary face's space
// advance times the style's TabWidth.
func (s *Shaper) tabAdvance(primary textmesh.FontID, style textmesh.TextStyle) float64 {
	space := s.db.Advance(primary, s.db.Glyph(primary, ' '), style.Size)
	if space <= 0 {
		space = style.Size * 0.25
	}
	return space * float64(style.TabWidth)
}

// ascent is the primary face's ascent at the style size, used to place
// every baseline. Faces without metrics fall back to a conventional
// fraction of the em.
func (s *Shaper) ascent(primary textmesh.FontID, size float64) float64 {
	if m, ok := s.db.Metrics(primary, size); ok && m.Ascent > 0 {
		return m.Ascent
	}
	return 0.8 * size
}

// splitParagraphs cuts the segment list at hard line breaks. Line
// ending variants are normalized first. The final paragraph is always
// present, so trailing breaks yield a trailing empty line and an empty
// entity yields one empty paragraph.
func splitParagraphs(segments []textmesh.Segment) [][]paraChunk {
	var paras [][]paraChunk
	var cur []paraChunk
	for i := range segments {
		text := strings.ReplaceAll(segments[i].Text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
		parts := strings.Split(text, "\n")
		for j, part := range parts {
			if j > 0 {
				paras = append(paras, cur)
				cur = nil
			}
			if part != "" {
				cur = append(cur, paraChunk{segment: i, text: part})
			}
		}
	}
	return append(paras, cur)
}

// shapeContext carries per-call shaping state. font.Face instances are
// not safe for concurrent use, so the face cache lives here rather
// than on the Shaper.
type shapeContext struct {
	shaper   *Shaper
	hb       *shaping.HarfbuzzShaper
	faces    map[textmesh.FontID]*font.Face
	style    textmesh.TextStyle
	segFonts []textmesh.FontID
}

// face returns the per-call shaping face for id.
func (c *shapeContext) face(id textmesh.FontID) *font.Face {
	if f, ok := c.faces[id]; ok {
		return f
	}
	f := font.NewFace(c.shaper.db.ShapingFont(id))
	c.faces[id] = f
	return f
}

// shapeParagraph shapes one paragraph and cuts it into lines. The
// returned lines have glyph geometry filled in; the caller assigns
// vertical placement.
func (c *shapeContext) shapeParagraph(chunks []paraChunk, maxWidth, tabAdvance float64) []textmesh.ShapedLine {
	runes, tabs, segOf := flattenParagraph(chunks)
	if len(runes) == 0 {
		return []textmesh.ShapedLine{{}}
	}

	levels := bidiLevels(runes)
	glyphs := c.shapeRuns(runes, levels, segOf, tabs)

	// Advance per rune, attributed to cluster starts. Tab advances
	// depend on the pen position, so the prefix is built left to right
	// with stops measured from the paragraph start.
	widths := make([]float64, len(runes))
	boundary := make([]bool, len(runes)+1)
	boundary[len(runes)] = true
	for _, g := range glyphs {
		if g.cluster < 0 || g.cluster >= len(runes) {
			continue
		}
		widths[g.cluster] += g.advance
		boundary[g.cluster] = true
	}
	prefix := make([]float64, len(runes)+1)
	for i, w := range widths {
		if tabs[i] {
			prefix[i+1] = nextTabStop(prefix[i], tabAdvance)
			continue
		}
		prefix[i+1] = prefix[i] + w
	}

	breaks := breakOpportunities(runes)
	for i := range breaks {
		// Never cut inside a glyph cluster.
		breaks[i] = breaks[i] && boundary[i]
	}

	var lines []textmesh.ShapedLine
	for _, r := range cutLines(runes, prefix, breaks, maxWidth) {
		lines = append(lines, c.layoutLine(glyphs, r, tabAdvance))
	}
	return lines
}

// flattenParagraph concatenates chunk runes, marking tab positions and
// recording each rune's segment. Tabs are shaped as spaces and their
// advances replaced during layout.
func flattenParagraph(chunks []paraChunk) (runes []rune, tabs []bool, segOf []int) {
	for _, ch := range chunks {
		for _, r := range ch.text {
			if r == '\t' {
				tabs = append(tabs, true)
				runes = append(runes, ' ')
			} else {
				tabs = append(tabs, false)
				runes = append(runes, r)
			}
			segOf = append(segOf, ch.segment)
		}
	}
	return runes, tabs, segOf
}

// bidiLevels computes the embedding level per rune, collapsed to 0 for
// left-to-right and 1 for right-to-left runs.
func bidiLevels(runes []rune) []int {
	levels := make([]int, len(runes))
	if !maybeRTL(runes) {
		return levels
	}
	resolveBidiLevels(string(runes), levels)
	return levels
}

// shapeRuns splits the paragraph at segment and level changes and
// shapes each run with the surrounding text as context. Glyphs arrive
// in logical run order, right-to-left runs internally reversed into
// visual order by the shaping engine.
func (c *shapeContext) shapeRuns(runes []rune, levels []int, segOf []int, tabs []bool) []penGlyph {
	var glyphs []penGlyph
	run := 0
	for start := 0; start < len(runes); {
		end := start + 1
		for end < len(runes) && levels[end] == levels[start] && segOf[end] == segOf[start] {
			end++
		}

		fontID := c.segFonts[segOf[start]]
		dir := di.DirectionLTR
		if levels[start]%2 == 1 {
			dir = di.DirectionRTL
		}

		output := c.hb.Shape(shaping.Input{
			Text:      runes,
			RunStart:  start,
			RunEnd:    end,
			Direction: dir,
			Face:      c.face(fontID),
			Size:      fixed.Int26_6(c.style.Size * 64),
			Script:    detectScript(runes[start:end]),
			Language:  language.NewLanguage("en"),
		})
		for _, g := range output.Glyphs {
			glyphs = append(glyphs, penGlyph{
				font:    fontID,
				glyph:   textmesh.GlyphID(g.GlyphID),
				xOffset: fixedPx(g.XOffset),
				yOffset: fixedPx(g.YOffset),
				advance: fixedPx(g.XAdvance),
				cluster: g.ClusterIndex,
				segment: segOf[start],
				level:   levels[start],
				run:     run,
				tab:     tabAt(g.ClusterIndex, tabs),
			})
		}

		run++
		start = end
	}
	return glyphs
}

// tabAt reports whether the glyph's cluster maps back to a tab rune,
// guarding against malformed cluster indices from the shaper.
func tabAt(cluster int, tabs []bool) bool {
	return cluster >= 0 && cluster < len(tabs) && tabs[cluster]
}

// layoutLine collects the glyphs of one rune range, reorders
// right-to-left spans into visual order and walks the pen across them.
func (c *shapeContext) layoutLine(glyphs []penGlyph, r lineRange, tabAdvance float64) textmesh.ShapedLine {
	var collected []penGlyph
	for _, g := range glyphs {
		if g.cluster >= r.start && g.cluster < r.end {
			collected = append(collected, g)
		}
	}
	collected = reorderVisual(collected)

	line := textmesh.ShapedLine{}
	var pen float64
	for _, g := range collected {
		advance := g.advance
		if g.tab {
			advance = nextTabStop(pen, tabAdvance) - pen
		}
		line.Glyphs = append(line.Glyphs, textmesh.ShapedGlyph{
			Font:    g.font,
			Glyph:   g.glyph,
			Size:    c.style.Size,
			X:       pen + g.xOffset,
			Y:       g.yOffset,
			Advance: advance,
			Segment: g.segment,
		})
		pen += advance
	}
	line.Width = pen
	return line
}

// reorderVisual arranges line glyphs into visual order: consecutive
// right-to-left runs swap their run order while keeping each run's
// internal, already visual, glyph order.
func reorderVisual(glyphs []penGlyph) []penGlyph {
	rtl := false
	for _, g := range glyphs {
		if g.level%2 == 1 {
			rtl = true
			break
		}
	}
	if !rtl {
		return glyphs
	}

	out := make([]penGlyph, 0, len(glyphs))
	for i := 0; i < len(glyphs); {
		if glyphs[i].level%2 == 0 {
			out = append(out, glyphs[i])
			i++
			continue
		}

		// Block of right-to-left runs; emit its runs back to front.
		j := i
		for j < len(glyphs) && glyphs[j].level%2 == 1 {
			j++
		}
		block := glyphs[i:j]
		for end := len(block); end > 0; {
			startRun := end - 1
			for startRun > 0 && block[startRun-1].run == block[end-1].run {
				startRun--
			}
			out = append(out, block[startRun:end]...)
			end = startRun
		}
		i = j
	}
	return out
}

// nextTabStop returns the first multiple of tabAdvance strictly past x.
func nextTabStop(x, tabAdvance float64) float64 {
	if tabAdvance <= 0 {
		return x
	}
	return tabAdvance * (math.Floor(x/tabAdvance+1e-9) + 1)
}

// detectScript returns the script of the first non-space rune, for the
// shaping engine's feature selection.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// fixedPx converts a 26.6 fixed-point value to float64 pixels.
func fixedPx(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
