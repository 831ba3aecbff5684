package textmesh

// Placement locates a cached glyph patch within the atlas image.
//
// Rect lies fully within the image bounds at the time of lookup. The
// atlas only ever grows in place, so a placement stays valid across
// growth; its UV meaning changes, which the mesh builder accounts for
// by dividing against the final image dimensions (or rescaling, see
// MeshData.RescaleUV).
type Placement struct {
	// Rect is the patch's pixel rectangle within the atlas image.
	Rect IRect

	// Offset is the draw offset from the glyph origin (pen position on
	// the baseline) to the patch's top-left corner, in device pixels,
	// y-down: negative Y reaches above the baseline.
	Offset IVec2
}

// Patch is a rasterized coverage patch ready for atlas packing.
type Patch struct {
	// Alpha holds W*H coverage values in [0, 1], row-major, top row first.
	Alpha []float32

	// W, H are the patch dimensions in pixels.
	W, H int

	// Offset is the draw offset from the glyph origin to the patch's
	// top-left corner, in device pixels, y-down.
	Offset IVec2
}

// Empty reports whether the patch has no pixels.
func (p Patch) Empty() bool {
	return p.W <= 0 || p.H <= 0
}

// RenderFunc rasterizes a glyph on a cache miss. ok=false means the
// glyph has no visible ink (whitespace, missing outline) and nothing is
// cached for it.
type RenderFunc func() (Patch, bool)

// Atlas is the glyph cache: a mapping from GlyphKey to Placement plus
// the packed image the placements point into. The cache grows
// monotonically and never evicts. Not safe for concurrent use; the
// owning Context serializes access (see Renderer.Render).
type Atlas struct {
	placements map[GlyphKey]Placement
	packer     shelfPacker
	image      *AtlasImage
	padding    int
	maxDim     int

	hits   uint64
	misses uint64
}

// NewAtlas creates an empty atlas at cfg's initial dimensions.
// cfg must have passed Validate.
func NewAtlas(cfg Config) *Atlas {
	return &Atlas{
		placements: make(map[GlyphKey]Placement),
		packer:     newShelfPacker(cfg.AtlasWidth, cfg.AtlasHeight, cfg.AtlasPadding),
		image:      NewAtlasImage(cfg.AtlasWidth, cfg.AtlasHeight),
		padding:    cfg.AtlasPadding,
		maxDim:     cfg.MaxAtlasDim,
	}
}

// Image returns the atlas pixel store. Growth reallocates pixels inside
// the same AtlasImage, so the pointer is stable within a pass; adopting
// a pre-warmed atlas swaps in the donor's image, and the renderer
// re-binds it to the image store at the next pass start.
func (a *Atlas) Image() *AtlasImage {
	return a.image
}

// Resolve returns the cached placement for key, if present. Pure lookup,
// never renders.
func (a *Atlas) Resolve(key GlyphKey) (Placement, bool) {
	p, ok := a.placements[key]
	return p, ok
}

// ResolveOrRender returns the cached placement for key, invoking render
// and packing the resulting patch on a miss. ok=false means the glyph
// contributes no ink or its patch cannot fit the atlas at its maximum
// size; callers skip drawing that glyph and continue.
func (a *Atlas) ResolveOrRender(key GlyphKey, render RenderFunc) (Placement, bool) {
	if p, ok := a.placements[key]; ok {
		a.hits++
		return p, true
	}
	a.misses++

	patch, ok := render()
	if !ok || patch.Empty() {
		return Placement{}, false
	}

	x, y, err := a.place(patch.W, patch.H)
	if err != nil {
		Logger().Warn("textmesh: atlas placement failed",
			"font", uint32(key.Font),
			"glyph", uint16(key.Glyph),
			"w", patch.W,
			"h", patch.H,
			"err", err)
		return Placement{}, false
	}
	a.image.writePatch(x, y, patch)

	p := Placement{
		Rect:   IRect{X: x, Y: y, W: patch.W, H: patch.H},
		Offset: patch.Offset,
	}
	a.placements[key] = p
	return p, true
}

// place finds a free rectangle for a w x h patch, growing the atlas when
// the packer is out of room.
func (a *Atlas) place(w, h int) (x, y int, err error) {
	if w+a.padding > a.maxDim || h+a.padding > a.maxDim {
		return 0, 0, ErrPatchTooLarge
	}
	for {
		if x, y, ok := a.packer.allocate(w, h); ok {
			return x, y, nil
		}
		if !a.growFor(w) {
			return 0, 0, ErrPatchTooLarge
		}
	}
}

// growFor doubles one atlas dimension so a patch of the given width has
// a chance to fit, preferring height growth (room for new shelves) over
// width. Pixels are copied in place, so existing placements stay valid.
// Returns false once both dimensions sit at MaxAtlasDim.
func (a *Atlas) growFor(w int) bool {
	width, height := a.packer.width, a.packer.height

	newW, newH := width, height
	switch {
	case w+a.padding > width:
		if width >= a.maxDim {
			return false
		}
		newW = width * 2
	case height < a.maxDim:
		newH = height * 2
	case width < a.maxDim:
		newW = width * 2
	default:
		return false
	}

	a.packer.growTo(newW, newH)
	a.image.grow(newW, newH)
	Logger().Debug("textmesh: atlas grown", "width", newW, "height", newH)
	return true
}

// Len returns the number of cached placements.
func (a *Atlas) Len() int {
	return len(a.placements)
}

// Stats returns cache hit and miss counters.
func (a *Atlas) Stats() (hits, misses uint64) {
	return a.hits, a.misses
}

// Utilization returns the fraction of the atlas area covered by packed
// patches (0.0 to 1.0).
func (a *Atlas) Utilization() float64 {
	return a.packer.utilization()
}

// Reset drops every cached placement and clears the image to
// transparent, keeping current dimensions. For hosts that tear down and
// rebuild worlds; the base design otherwise never evicts.
func (a *Atlas) Reset() {
	clear(a.placements)
	a.packer.reset()
	a.image.Clear()
	a.hits = 0
	a.misses = 0
}

// Clone returns a deep copy of the atlas: placements, packing state and
// pixels. Pre-warm producers render additional glyphs into a clone on
// their own goroutine, then enqueue it for adoption at the start of the
// next pass (Context.Enqueue).
func (a *Atlas) Clone() *Atlas {
	c := &Atlas{
		placements: make(map[GlyphKey]Placement, len(a.placements)),
		packer:     a.packer,
		image:      a.image.clone(),
		padding:    a.padding,
		maxDim:     a.maxDim,
		hits:       a.hits,
		misses:     a.misses,
	}
	for k, v := range a.placements {
		c.placements[k] = v
	}
	c.packer.shelves = append([]shelf(nil), a.packer.shelves...)
	return c
}

// adopt replaces this atlas's cache state and image wholesale with the
// donor's. The donor must have been cloned from this atlas so its image
// carries every previously cached patch.
func (a *Atlas) adopt(donor *Atlas) {
	a.placements = donor.placements
	a.packer = donor.packer
	a.image = donor.image
	a.image.dirty = true
	a.hits = donor.hits
	a.misses = donor.misses
}
