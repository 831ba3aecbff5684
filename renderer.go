package textmesh

import (
	"math"
	"sync"
)

// Context owns the pipeline state shared across passes and entities:
// the glyph atlas, the tessellator and the font source. One Context
// serves any number of Renderers and text entities. A pass holds the
// context lock for its whole duration; see Renderer.Render for the
// try-lock policy.
type Context struct {
	mu    sync.Mutex
	cfg   Config
	atlas *Atlas
	tess  *Tessellator
	fonts FontSource

	queueMu sync.Mutex
	queue   []*Atlas
}

// NewContext validates cfg and creates the pipeline state around fonts.
func NewContext(cfg Config, fonts FontSource) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Context{
		cfg:   cfg,
		atlas: NewAtlas(cfg),
		tess:  NewTessellator(),
		fonts: fonts,
	}, nil
}

// Config returns the configuration the context was created with.
func (c *Context) Config() Config { return c.cfg }

// PrewarmAtlas returns a detached copy of the live atlas for background
// glyph rendering. It blocks until any running pass finishes, then
// copies; the copy shares no state with the live atlas.
func (c *Context) PrewarmAtlas() *Atlas {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.atlas.Clone()
}

// Enqueue deposits a prewarmed atlas for adoption at the start of the
// next pass. Safe to call from any goroutine, including while a pass
// is running.
func (c *Context) Enqueue(a *Atlas) {
	c.queueMu.Lock()
	c.queue = append(c.queue, a)
	c.queueMu.Unlock()
}

// Prewarm renders the given glyph keys into a detached atlas copy and
// enqueues the result. Run it on a background goroutine; the next pass
// adopts the copy and entities rebuilt afterwards resolve the keys
// without rasterizing. Collect keys with PrewarmKeys.
func (c *Context) Prewarm(keys []GlyphKey) {
	atlas := c.PrewarmAtlas()
	tess := NewTessellator()
	for _, key := range keys {
		atlas.ResolveOrRender(key, func() (Patch, bool) {
			return renderPatch(tess, c.fonts, key, c.cfg.ScaleFactor)
		})
	}
	c.Enqueue(atlas)
}

// drainQueue adopts all pending prewarmed atlases and reports whether
// any arrived. Adoption replaces placements wholesale, so a true
// result forces entity rebuilds.
func (c *Context) drainQueue() bool {
	c.queueMu.Lock()
	pending := c.queue
	c.queue = nil
	c.queueMu.Unlock()
	for _, donor := range pending {
		c.atlas.adopt(donor)
	}
	return len(pending) > 0
}

// PrewarmKeys lists the cache keys one shaped entity resolves during a
// pass, deduplicated, in resolution order. Feed the result to
// Context.Prewarm on a background goroutine.
func PrewarmKeys(shaped ShapedText, text *Text) []GlyphKey {
	style := text.Style.Resolved()
	var keys []GlyphKey
	var reqs []DrawRequest
	seen := make(map[GlyphKey]struct{})

	add := func(key GlyphKey) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	for li := range shaped.Lines {
		line := &shaped.Lines[li]
		for gi := range line.Glyphs {
			glyph := &line.Glyphs[gi]
			if glyph.Segment < 0 || glyph.Segment >= len(text.Segments) {
				continue
			}
			seg := &text.Segments[glyph.Segment].Style
			weight := style.weightOr(seg.Weight)
			reqs = appendRequests(reqs[:0], &style, seg)
			for _, req := range reqs {
				switch req.Kind {
				case DrawGlyph:
					add(NewStrokeKey(glyph.Font, glyph.Glyph, glyph.Size, weight, req.Stroke, style.StrokeJoin))
				case DrawDecoration:
					add(NewStrokeKey(glyph.Font, req.Decoration.glyphID(), glyph.Size, 0, req.Stroke, style.StrokeJoin))
				}
			}
		}
	}
	return keys
}

// renderPatch rasterizes the patch for key: a glyph outline fill or
// stroke, or a bar for the reserved decoration glyph slots. Stroke
// widths are 1/100 em units, converted here to device pixels.
func renderPatch(tess *Tessellator, fonts FontSource, key GlyphKey, scaleFactor float64) (Patch, bool) {
	size := key.Size()
	strokePx := float64(key.Stroke) * size * scaleFactor / 100

	switch key.Glyph {
	case glyphUnderline, glyphStrikethrough:
		kind := DecorUnderline
		if key.Glyph == glyphStrikethrough {
			kind = DecorStrikethrough
		}
		_, thick := fonts.Decoration(key.Font, kind, size)
		if thick <= 0 {
			return Patch{}, false
		}
		// One em of bar; decoration quads stretch it to the run width.
		return tess.Bar(size*scaleFactor, thick*scaleFactor, strokePx, key.Join)
	default:
		enc := tess.Encoder()
		if !fonts.Outline(key.Font, key.Glyph, size*scaleFactor, enc) {
			return Patch{}, false
		}
		if key.Stroke > 0 {
			return tess.Stroke(strokePx, key.Join)
		}
		return tess.Fill()
	}
}

// Renderer runs pipeline passes: drain the prewarm queue, detect
// per-entity changes, shape, rasterize missing glyphs into the atlas
// and assemble entity meshes into external storage.
//
// A Renderer is not safe for concurrent use; the Context it wraps may
// be shared.
type Renderer struct {
	ctx    *Context
	shaper Shaper
	meshes MeshStore
	images ImageStore

	image ImageHandle

	builder meshBuilder
	reqs    []DrawRequest
	decos   []decoRect
}

// NewRenderer creates a renderer over ctx writing through the given
// stores.
func NewRenderer(ctx *Context, shaper Shaper, meshes MeshStore, images ImageStore) *Renderer {
	return &Renderer{ctx: ctx, shaper: shaper, meshes: meshes, images: images}
}

// ImageHandle returns the handle the live atlas image is bound under.
// Zero before the first successful pass.
func (r *Renderer) ImageHandle() ImageHandle { return r.image }

// Render runs one pass over the given entities. When another pass or a
// prewarm snapshot holds the context, it returns ErrPassBusy
// immediately instead of blocking; the caller retries next frame, so a
// contended pass costs one delayed visual update rather than a stall.
//
// Entities that cannot be processed this pass (shaping failure,
// unresolvable storage) are skipped and retried on the next pass;
// skipping is not an error. Unchanged entities are left alone except
// for texture coordinate rescaling after atlas growth.
func (r *Renderer) Render(texts ...*Text) error {
	c := r.ctx
	if !c.mu.TryLock() {
		return ErrPassBusy
	}
	defer c.mu.Unlock()

	redraw := c.drainQueue()
	r.image = r.images.BindImage(r.image, c.atlas.Image())

	for _, t := range texts {
		r.renderText(c, t, redraw)
	}
	return nil
}

func (r *Renderer) renderText(c *Context, t *Text, redraw bool) {
	img := c.atlas.Image()
	dim := IVec2{X: img.Width(), Y: img.Height()}

	if !redraw && !t.dirty {
		if t.Out.AtlasDimension == dim {
			return
		}
		// The atlas grew under an unchanged entity: fix the texture
		// coordinates in place instead of rebuilding.
		h, mesh := r.meshes.Mesh(t.Mesh)
		if mesh == nil {
			return
		}
		t.Mesh = h
		mesh.RescaleUV(t.Out.AtlasDimension, dim)
		t.Out.AtlasDimension = dim
		return
	}

	shaped, err := r.shaper.Shape(t)
	if err != nil {
		Logger().Warn("textmesh: shaping failed", "err", err)
		return
	}

	h, mesh := r.meshes.Mesh(t.Mesh)
	if mesh == nil {
		return
	}
	t.Mesh = h

	style := t.Style.Resolved()
	sf := c.cfg.ScaleFactor
	b := &r.builder
	b.reset(mesh)

	minX := math.Inf(1)
	maxX := math.Inf(-1)
	var height float64
	realIndex := 0

	for li := range shaped.Lines {
		line := &shaped.Lines[li]
		if bottom := line.Top + line.Height; bottom > height {
			height = bottom
		}
		dx := -line.Width * style.Align.factor()
		var runs lineRuns
		r.decos = r.decos[:0]

		for gi := range line.Glyphs {
			glyph := &line.Glyphs[gi]
			if glyph.Segment < 0 || glyph.Segment >= len(t.Segments) {
				continue
			}
			seg := &t.Segments[glyph.Segment].Style
			weight := style.weightOr(seg.Weight)
			r.reqs = appendRequests(r.reqs[:0], &style, seg)

			for _, req := range r.reqs {
				switch req.Kind {
				case DrawGlyph:
					key := NewStrokeKey(glyph.Font, glyph.Glyph, glyph.Size, weight, req.Stroke, style.StrokeJoin)
					pl, ok := c.atlas.ResolveOrRender(key, func() (Patch, bool) {
						return renderPatch(c.tess, c.fonts, key, sf)
					})
					if !ok {
						continue
					}
					dw := glyph.X + float64(pl.Offset.X)/sf
					if dw+dx < minX {
						minX = dw + dx
					}
					if dw+dx+glyph.Advance > maxX {
						maxX = dw + dx + glyph.Advance
					}
					pos := V2(glyph.X+dx, glyph.Y-line.Baseline).Add(req.Offset)
					b.pushGlyph(pos, pl, sf, req.Color, req.Layer, realIndex)

				case DrawDecoration:
					pos, thick := c.fonts.Decoration(glyph.Font, req.Decoration, glyph.Size)
					r.decos = runs.add(decoGlyph{
						kind:   req.Decoration,
						x0:     glyph.X,
						x1:     glyph.X + glyph.Advance,
						pos:    pos + glyph.Y,
						thick:  thick,
						color:  req.Color,
						offset: req.Offset,
						layer:  req.Layer,
						font:   glyph.Font,
						size:   glyph.Size,
						stroke: req.Stroke,
					}, r.decos)
				}
			}
			realIndex++
		}

		r.decos = runs.finish(r.decos)
		for i := range r.decos {
			r.emitDecoration(c, &r.decos[i], dx, line.Baseline, &style, realIndex)
		}
	}

	b.finish()

	if maxX < minX {
		minX, maxX = 0, 0.001
	}
	dimension := V2(maxX-minX, height)
	center := V2((maxX+minX)/2, -height/2)
	offset := V2(style.Anchor.X*dimension.X, style.Anchor.Y*dimension.Y).Sub(center)

	b.applyUV1(V2(minX, -height), dimension)
	if style.WorldScale > 0 {
		b.translateScale(offset, style.WorldScale/style.Size)
	} else {
		b.translate(offset)
	}

	// The divisor must be the final image size: glyph misses above may
	// have grown the atlas.
	img = c.atlas.Image()
	dim = IVec2{X: img.Width(), Y: img.Height()}
	b.pixelToUV(dim)

	t.Out = DimensionOut{Dimension: dimension, AtlasDimension: dim}
	t.dirty = false
}

// emitDecoration turns one merged decoration rectangle into a quad,
// expanding it by half the outline width when the bar is stroked.
func (r *Renderer) emitDecoration(c *Context, rect *decoRect, dx, baseline float64, style *TextStyle, index int) {
	key := NewStrokeKey(rect.font, rect.kind.glyphID(), rect.size, 0, rect.stroke, style.StrokeJoin)
	pl, ok := c.atlas.ResolveOrRender(key, func() (Patch, bool) {
		return renderPatch(c.tess, c.fonts, key, c.cfg.ScaleFactor)
	})
	if !ok {
		return
	}
	half := float64(rect.stroke) * rect.size / 200
	screen := Rect{
		Min: V2(rect.x0-half+dx+rect.offset.X, rect.y0-half-baseline+rect.offset.Y),
		Max: V2(rect.x1+half+dx+rect.offset.X, rect.y1+half-baseline+rect.offset.Y),
	}
	r.builder.pushRect(screen, pl, rect.color, rect.layer, index)
}
