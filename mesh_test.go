package textmesh

import (
	"math"
	"reflect"
	"testing"
)

func quadPlacement(x, y, w, h int) Placement {
	return Placement{
		Rect:   IRect{X: x, Y: y, W: w, H: h},
		Offset: IVec2{X: 0, Y: -h},
	}
}

func TestMeshBuilder_PushGlyph_Geometry(t *testing.T) {
	var b meshBuilder
	b.reset(&MeshData{})

	pl := Placement{
		Rect:   IRect{X: 32, Y: 16, W: 8, H: 12},
		Offset: IVec2{X: 1, Y: -10},
	}
	b.pushGlyph(V2(10, 0), pl, 2, White, layerFill, 0)
	b.finish()

	m := b.mesh
	if m.VertexCount() != 4 || m.TriangleCount() != 2 {
		t.Fatalf("got %d vertices, %d triangles, want 4 and 2",
			m.VertexCount(), m.TriangleCount())
	}

	// Placement offset (1, -10) at scale 2: left edge 10.5, top edge 5,
	// patch 8x12 px becomes 4x6 logical units.
	wantPos := []Vec3{
		V3(10.5, -1, 0),
		V3(14.5, -1, 0),
		V3(14.5, 5, 0),
		V3(10.5, 5, 0),
	}
	for i, want := range wantPos {
		if m.Positions[i] != want {
			t.Errorf("Positions[%d] = %v, want %v", i, m.Positions[i], want)
		}
	}

	// UV0 stays in pixel space until pixelToUV; the bottom edge of the
	// quad samples the bottom row of the patch.
	wantUV := []Vec2{
		V2(32, 28),
		V2(40, 28),
		V2(40, 16),
		V2(32, 16),
	}
	for i, want := range wantUV {
		if m.UV0[i] != want {
			t.Errorf("UV0[%d] = %v, want %v", i, m.UV0[i], want)
		}
	}

	for i := range m.Normals {
		if m.Normals[i] != V3(0, 0, 1) {
			t.Errorf("Normals[%d] = %v, want (0,0,1)", i, m.Normals[i])
		}
		if m.Colors[i] != White {
			t.Errorf("Colors[%d] = %v, want white", i, m.Colors[i])
		}
	}

	// First triangle must wind counter-clockwise in y-up space.
	a, c, d := m.Positions[m.Indices[0]], m.Positions[m.Indices[1]], m.Positions[m.Indices[2]]
	cross := (c.X-a.X)*(d.Y-a.Y) - (c.Y-a.Y)*(d.X-a.X)
	if cross <= 0 {
		t.Errorf("first triangle winds clockwise (cross = %v)", cross)
	}
}

func TestMeshBuilder_Finish_SortsByLayerThenIndex(t *testing.T) {
	var b meshBuilder
	b.reset(&MeshData{})

	unit := R(0, 0, 1, 1)
	pl := quadPlacement(0, 0, 1, 1)

	// Push order deliberately interleaves layers.
	b.pushRect(unit, pl, White, layerFill, 0)          // base 0
	b.pushRect(unit, pl, White, layerStroke, 0)        // base 4
	b.pushRect(unit, pl, White, layerFill, 1)          // base 8
	b.pushRect(unit, pl, White, layerStrikethrough, 1) // base 12
	b.pushRect(unit, pl, White, layerStroke, 2)        // base 16
	b.finish()

	m := b.mesh
	if len(m.Indices) != 30 {
		t.Fatalf("len(Indices) = %d, want 30", len(m.Indices))
	}
	var order []uint16
	for i := 0; i < len(m.Indices); i += 6 {
		order = append(order, m.Indices[i])
	}
	want := []uint16{4, 16, 0, 8, 12}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("quad order (by base vertex) = %v, want %v", order, want)
	}
}

func TestMeshBuilder_Finish_StableForEqualKeys(t *testing.T) {
	var b meshBuilder
	b.reset(&MeshData{})

	unit := R(0, 0, 1, 1)
	pl := quadPlacement(0, 0, 1, 1)

	for i := 0; i < 4; i++ {
		b.pushRect(unit, pl, White, layerFill, 7)
	}
	b.finish()

	m := b.mesh
	for q := 0; q < 4; q++ {
		if got := m.Indices[q*6]; got != uint16(q*4) {
			t.Errorf("quad %d starts at vertex %d, want %d (push order)", q, got, q*4)
		}
	}
}

func TestMeshBuilder_ApplyUV1(t *testing.T) {
	var b meshBuilder
	b.reset(&MeshData{})

	pl := quadPlacement(0, 0, 1, 1)
	b.pushRect(R(0, -20, 40, 0), pl, White, layerFill, 0)
	b.pushRect(R(10, -15, 30, -5), pl, White, layerFill, 1)
	b.finish()
	b.applyUV1(V2(0, -20), V2(40, 20))

	m := b.mesh
	// The first quad spans the whole block.
	wantFull := []Vec2{V2(0, 0), V2(1, 0), V2(1, 1), V2(0, 1)}
	for i, want := range wantFull {
		if !m.UV1[i].Approx(want, 1e-12) {
			t.Errorf("UV1[%d] = %v, want %v", i, m.UV1[i], want)
		}
	}
	// The second quad sits centered in the block.
	wantInner := []Vec2{V2(0.25, 0.25), V2(0.75, 0.25), V2(0.75, 0.75), V2(0.25, 0.75)}
	for i, want := range wantInner {
		if !m.UV1[4+i].Approx(want, 1e-12) {
			t.Errorf("UV1[%d] = %v, want %v", 4+i, m.UV1[4+i], want)
		}
	}
}

func TestMeshBuilder_TranslateAndScale(t *testing.T) {
	var b meshBuilder
	b.reset(&MeshData{})
	pl := quadPlacement(0, 0, 1, 1)
	b.pushRect(R(2, 4, 6, 8), pl, White, layerFill, 0)

	b.translate(V2(-1, 3))
	m := b.mesh
	if m.Positions[0] != V3(1, 7, 0) || m.Positions[2] != V3(5, 11, 0) {
		t.Errorf("after translate: %v, %v", m.Positions[0], m.Positions[2])
	}

	b.reset(&MeshData{})
	b.pushRect(R(2, 4, 6, 8), pl, White, layerFill, 0)
	b.translateScale(V2(-2, -4), 0.5)
	m = b.mesh
	if m.Positions[0] != V3(0, 0, 0) || m.Positions[2] != V3(2, 2, 0) {
		t.Errorf("after translateScale: %v, %v", m.Positions[0], m.Positions[2])
	}
}

func TestMeshBuilder_PixelToUV(t *testing.T) {
	var b meshBuilder
	b.reset(&MeshData{})
	b.pushRect(R(0, 0, 1, 1), Placement{Rect: IRect{X: 32, Y: 16, W: 8, H: 12}}, White, layerFill, 0)
	b.pixelToUV(IVec2{X: 64, Y: 64})

	m := b.mesh
	want := []Vec2{
		V2(0.5, 0.4375),
		V2(0.625, 0.4375),
		V2(0.625, 0.25),
		V2(0.5, 0.25),
	}
	for i, w := range want {
		if !m.UV0[i].Approx(w, 1e-12) {
			t.Errorf("UV0[%d] = %v, want %v", i, m.UV0[i], w)
		}
	}
}

func TestMeshData_RescaleUV_MatchesRebuild(t *testing.T) {
	build := func(dim IVec2) *MeshData {
		var b meshBuilder
		b.reset(&MeshData{})
		b.pushRect(R(0, 0, 1, 1), Placement{Rect: IRect{X: 3, Y: 5, W: 20, H: 10}}, White, layerFill, 0)
		b.pushRect(R(1, 0, 2, 1), Placement{Rect: IRect{X: 40, Y: 17, W: 6, H: 9}}, White, layerFill, 1)
		b.finish()
		b.pixelToUV(dim)
		return b.mesh
	}

	oldDim := IVec2{X: 64, Y: 64}
	newDim := IVec2{X: 128, Y: 256}

	rescaled := build(oldDim)
	rescaled.RescaleUV(oldDim, newDim)
	rebuilt := build(newDim)

	for i := range rebuilt.UV0 {
		if !rescaled.UV0[i].Approx(rebuilt.UV0[i], 1e-12) {
			t.Errorf("UV0[%d]: rescaled %v, rebuilt %v", i, rescaled.UV0[i], rebuilt.UV0[i])
		}
	}
	if !reflect.DeepEqual(rescaled.Positions, rebuilt.Positions) {
		t.Error("positions differ between rescale and rebuild")
	}
}

func TestMeshData_RescaleUV_NoopOnEqualDims(t *testing.T) {
	m := &MeshData{UV0: []Vec2{V2(0.25, 0.75)}}
	m.RescaleUV(IVec2{X: 64, Y: 64}, IVec2{X: 64, Y: 64})
	if m.UV0[0] != V2(0.25, 0.75) {
		t.Errorf("UV0[0] = %v, want unchanged", m.UV0[0])
	}
}

func TestMeshBuilder_QuadBudget(t *testing.T) {
	var b meshBuilder
	b.reset(&MeshData{})
	pl := quadPlacement(0, 0, 1, 1)
	for i := 0; i < maxQuads+10; i++ {
		b.pushRect(R(0, 0, 1, 1), pl, White, layerFill, i)
	}
	b.finish()

	if b.quadCount() != maxQuads {
		t.Errorf("quadCount = %d, want %d", b.quadCount(), maxQuads)
	}
	m := b.mesh
	if m.VertexCount() != maxQuads*4 {
		t.Errorf("VertexCount = %d, want %d", m.VertexCount(), maxQuads*4)
	}
	// The last stored index must still be addressable in 16 bits.
	if last := m.Indices[len(m.Indices)-1]; int(last) != maxQuads*4-1 {
		t.Errorf("last index = %d, want %d", last, maxQuads*4-1)
	}
}

func TestMeshData_ClearKeepsCapacity(t *testing.T) {
	var b meshBuilder
	m := &MeshData{}
	b.reset(m)
	for i := 0; i < 8; i++ {
		b.pushRect(R(0, 0, 1, 1), quadPlacement(0, 0, 1, 1), White, layerFill, i)
	}
	b.finish()

	posCap, idxCap := cap(m.Positions), cap(m.Indices)
	m.Clear()
	if m.VertexCount() != 0 || len(m.Indices) != 0 {
		t.Fatal("Clear left data behind")
	}
	if cap(m.Positions) != posCap || cap(m.Indices) != idxCap {
		t.Error("Clear dropped buffer capacity")
	}
}

func TestMeshBuilder_DegenerateBlock(t *testing.T) {
	var b meshBuilder
	b.reset(&MeshData{})
	b.pushRect(R(0, 0, 1, 1), quadPlacement(0, 0, 1, 1), White, layerFill, 0)

	// A zero-area bounding box must not divide by zero.
	b.applyUV1(V2(0, 0), V2(0, 0))
	for _, uv := range b.mesh.UV1 {
		if math.IsNaN(uv.X) || math.IsNaN(uv.Y) {
			t.Fatal("UV1 contains NaN after degenerate block pass")
		}
	}
}
