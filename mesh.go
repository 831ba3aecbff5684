package textmesh

import (
	"cmp"
	"slices"
)

// maxQuads is the largest quad count addressable with 16-bit indices
// (4 vertices per quad, 4*16383 = 65532 < 65536).
const maxQuads = 16383

// MeshData holds the CPU-side vertex and index buffers produced for one
// text entity. The per-vertex slices are parallel: element i of each
// describes vertex i. Triangles are counter-clockwise in a y-up
// coordinate system, so back-face culling keeps the front side visible.
//
// UV0 addresses the glyph atlas. While a mesh is being assembled it
// holds atlas pixel coordinates; the final pixel-to-UV pass divides by
// the image size, so a finished mesh always carries normalized
// coordinates. UV1 holds the vertex position relative to the text block
// bounding box, running 0..1 from the bottom-left corner to the
// top-right, a channel for shader effects that span the whole block.
type MeshData struct {
	Positions []Vec3
	Normals   []Vec3
	UV0       []Vec2
	UV1       []Vec2
	Colors    []RGBA
	Indices   []uint16
}

// VertexCount returns the number of vertices in the mesh.
func (m *MeshData) VertexCount() int { return len(m.Positions) }

// TriangleCount returns the number of triangles in the index buffer.
func (m *MeshData) TriangleCount() int { return len(m.Indices) / 3 }

// Clear empties all buffers while retaining their capacity, so a mesh
// rebuilt every pass does not reallocate.
func (m *MeshData) Clear() {
	m.Positions = m.Positions[:0]
	m.Normals = m.Normals[:0]
	m.UV0 = m.UV0[:0]
	m.UV1 = m.UV1[:0]
	m.Colors = m.Colors[:0]
	m.Indices = m.Indices[:0]
}

// RescaleUV corrects UV0 after the atlas image grew from oldDim to
// newDim pixels without this mesh being rebuilt. Growth keeps every
// placement's pixel rectangle, so the normalized coordinates shrink by
// the ratio of the two sizes. Positions, UV1, colors and indices are
// untouched.
func (m *MeshData) RescaleUV(oldDim, newDim IVec2) {
	if oldDim == newDim || newDim.X <= 0 || newDim.Y <= 0 {
		return
	}
	sx := float64(oldDim.X) / float64(newDim.X)
	sy := float64(oldDim.Y) / float64(newDim.Y)
	for i := range m.UV0 {
		m.UV0[i].X *= sx
		m.UV0[i].Y *= sy
	}
}

// sortedQuad records one quad's index triple pair with its sort keys.
type sortedQuad struct {
	layer Layer
	index uint32
	tri   [6]uint16
}

// meshBuilder accumulates textured quads for one text entity and
// assembles them into a MeshData. Vertices are appended in push order;
// the index buffer is written at the end, after a stable sort by
// (layer, insertion index), so strokes land behind fills and glyphs on
// the same layer keep their left-to-right order.
type meshBuilder struct {
	mesh      *MeshData
	quads     []sortedQuad
	truncated bool
}

// reset binds the builder to mesh and discards accumulated state. The
// mesh buffers are cleared in place so capacity carries over between
// passes.
func (b *meshBuilder) reset(mesh *MeshData) {
	mesh.Clear()
	b.mesh = mesh
	b.quads = b.quads[:0]
	b.truncated = false
}

func (b *meshBuilder) quadCount() int { return len(b.quads) }

// pushQuad appends one textured rectangle. rect is the screen rectangle
// in logical units with y up; uv is the matching atlas rectangle in
// pixel coordinates with y down, flipped here so the top row of the
// patch maps to the top edge of the quad. Vertices run bottom-left,
// bottom-right, top-right, top-left.
func (b *meshBuilder) pushQuad(rect, uv Rect, color RGBA, layer Layer, index int) {
	if len(b.quads) >= maxQuads {
		if !b.truncated {
			b.truncated = true
			Logger().Warn("textmesh: quad budget exhausted, dropping remaining quads",
				"max", maxQuads)
		}
		return
	}
	m := b.mesh
	base := uint16(len(m.Positions))
	m.Positions = append(m.Positions,
		V3(rect.Min.X, rect.Min.Y, 0),
		V3(rect.Max.X, rect.Min.Y, 0),
		V3(rect.Max.X, rect.Max.Y, 0),
		V3(rect.Min.X, rect.Max.Y, 0),
	)
	m.UV0 = append(m.UV0,
		V2(uv.Min.X, uv.Max.Y),
		V2(uv.Max.X, uv.Max.Y),
		V2(uv.Max.X, uv.Min.Y),
		V2(uv.Min.X, uv.Min.Y),
	)
	n := V3(0, 0, 1)
	m.Normals = append(m.Normals, n, n, n, n)
	m.UV1 = append(m.UV1, Vec2{}, Vec2{}, Vec2{}, Vec2{})
	m.Colors = append(m.Colors, color, color, color, color)
	b.quads = append(b.quads, sortedQuad{
		layer: layer,
		index: uint32(index),
		tri:   [6]uint16{base, base + 1, base + 2, base, base + 2, base + 3},
	})
}

// pushGlyph appends a quad for a rasterized glyph patch. pos is the
// glyph origin on the baseline in y-up block space. The placement
// offset and patch size are in device pixels with y down, so the
// vertical extent flips around the baseline and scales back to logical
// units.
func (b *meshBuilder) pushGlyph(pos Vec2, pl Placement, scale float64, color RGBA, layer Layer, index int) {
	w := float64(pl.Rect.W) / scale
	h := float64(pl.Rect.H) / scale
	x := pos.X + float64(pl.Offset.X)/scale
	top := pos.Y - float64(pl.Offset.Y)/scale
	rect := Rect{Min: V2(x, top-h), Max: V2(x+w, top)}
	b.pushQuad(rect, pixelRect(pl.Rect), color, layer, index)
}

// pushRect appends a quad with an explicit screen rectangle, stretching
// the placement's patch across it. Decoration rectangles use this: the
// bar patch is horizontally uniform, so stretching it over a run of any
// width is lossless.
func (b *meshBuilder) pushRect(rect Rect, pl Placement, color RGBA, layer Layer, index int) {
	b.pushQuad(rect, pixelRect(pl.Rect), color, layer, index)
}

func pixelRect(r IRect) Rect {
	return Rect{
		Min: V2(float64(r.X), float64(r.Y)),
		Max: V2(float64(r.Right()), float64(r.Bottom())),
	}
}

// finish sorts the accumulated quads by (layer, insertion index) and
// writes the index buffer. The sort is stable, so quads pushed with
// equal keys keep their push order.
func (b *meshBuilder) finish() {
	slices.SortStableFunc(b.quads, func(a, c sortedQuad) int {
		if a.layer != c.layer {
			return cmp.Compare(a.layer, c.layer)
		}
		return cmp.Compare(a.index, c.index)
	})
	m := b.mesh
	for i := range b.quads {
		m.Indices = append(m.Indices, b.quads[i].tri[:]...)
	}
}

// applyUV1 fills the block-relative coordinate channel: each vertex
// position normalized against the text bounding box given by its
// bottom-left corner and size.
func (b *meshBuilder) applyUV1(bbMin, dim Vec2) {
	if dim.X <= 0 || dim.Y <= 0 {
		return
	}
	m := b.mesh
	for i, p := range m.Positions {
		m.UV1[i] = V2((p.X-bbMin.X)/dim.X, (p.Y-bbMin.Y)/dim.Y)
	}
}

// translate shifts every vertex position by offset.
func (b *meshBuilder) translate(offset Vec2) {
	m := b.mesh
	for i := range m.Positions {
		m.Positions[i].X += offset.X
		m.Positions[i].Y += offset.Y
	}
}

// translateScale shifts every vertex position by offset, then scales the
// result. World-scale overrides use this so the block's footprint does
// not depend on the font size.
func (b *meshBuilder) translateScale(offset Vec2, scale float64) {
	m := b.mesh
	for i := range m.Positions {
		m.Positions[i].X = (m.Positions[i].X + offset.X) * scale
		m.Positions[i].Y = (m.Positions[i].Y + offset.Y) * scale
	}
}

// pixelToUV divides every UV0 coordinate by the atlas dimensions,
// converting pixel placements to normalized texture coordinates. Must
// run last, after all glyph misses in the pass have settled the final
// image size.
func (b *meshBuilder) pixelToUV(dim IVec2) {
	if dim.X <= 0 || dim.Y <= 0 {
		return
	}
	m := b.mesh
	for i := range m.UV0 {
		m.UV0[i].X /= float64(dim.X)
		m.UV0[i].Y /= float64(dim.Y)
	}
}
