package raster

import (
	"math"
	"testing"
)

func maskAt(m Mask, x, y int) float32 {
	if x < m.MinX || y < m.MinY || x >= m.MinX+m.Width || y >= m.MinY+m.Height {
		return 0
	}
	return m.Alpha[(y-m.MinY)*m.Width+(x-m.MinX)]
}

func maskSum(m Mask) float64 {
	var sum float64
	for _, a := range m.Alpha {
		sum += float64(a)
	}
	return sum
}

func TestFiller_Mask_Rectangle(t *testing.T) {
	f := NewFiller()
	f.MoveTo(Point{2, 3})
	f.LineTo(Point{8, 3})
	f.LineTo(Point{8, 7})
	f.LineTo(Point{2, 7})
	f.Close()

	m := f.Mask()
	if m.Width != 6 || m.Height != 4 {
		t.Fatalf("mask size = %dx%d, want 6x4", m.Width, m.Height)
	}
	if m.MinX != 2 || m.MinY != 3 {
		t.Errorf("mask origin = (%d, %d), want (2, 3)", m.MinX, m.MinY)
	}
	for y := 3; y < 7; y++ {
		for x := 2; x < 8; x++ {
			if a := maskAt(m, x, y); a != 1 {
				t.Fatalf("alpha(%d, %d) = %v, want 1", x, y, a)
			}
		}
	}
}

func TestFiller_Mask_FractionalEdges(t *testing.T) {
	f := NewFiller()
	f.MoveTo(Point{2.5, 2})
	f.LineTo(Point{7.5, 2})
	f.LineTo(Point{7.5, 8})
	f.LineTo(Point{2.5, 8})
	f.Close()

	m := f.Mask()
	if m.Width != 6 || m.Height != 6 {
		t.Fatalf("mask size = %dx%d, want 6x6", m.Width, m.Height)
	}
	for y := 2; y < 8; y++ {
		if a := maskAt(m, 2, y); math.Abs(float64(a)-0.5) > 1e-3 {
			t.Errorf("left edge alpha(2, %d) = %v, want 0.5", y, a)
		}
		if a := maskAt(m, 7, y); math.Abs(float64(a)-0.5) > 1e-3 {
			t.Errorf("right edge alpha(7, %d) = %v, want 0.5", y, a)
		}
		for x := 3; x < 7; x++ {
			if a := maskAt(m, x, y); a != 1 {
				t.Errorf("interior alpha(%d, %d) = %v, want 1", x, y, a)
			}
		}
	}
}

func TestFiller_Mask_Hole(t *testing.T) {
	f := NewFiller()
	// Outer contour clockwise, inner counter-clockwise: nonzero winding
	// leaves a hole.
	f.MoveTo(Point{0, 0})
	f.LineTo(Point{10, 0})
	f.LineTo(Point{10, 10})
	f.LineTo(Point{0, 10})
	f.Close()
	f.MoveTo(Point{3, 3})
	f.LineTo(Point{3, 7})
	f.LineTo(Point{7, 7})
	f.LineTo(Point{7, 3})
	f.Close()

	m := f.Mask()
	if a := maskAt(m, 5, 5); a != 0 {
		t.Errorf("hole alpha(5, 5) = %v, want 0", a)
	}
	if a := maskAt(m, 1, 5); a != 1 {
		t.Errorf("ring alpha(1, 5) = %v, want 1", a)
	}
	if a := maskAt(m, 8, 5); a != 1 {
		t.Errorf("ring alpha(8, 5) = %v, want 1", a)
	}
}

func TestFiller_Mask_TriangleArea(t *testing.T) {
	f := NewFiller()
	f.MoveTo(Point{0, 0})
	f.LineTo(Point{10, 0})
	f.LineTo(Point{0, 10})
	f.Close()

	m := f.Mask()
	if got, want := maskSum(m), 50.0; math.Abs(got-want) > 1 {
		t.Errorf("triangle coverage sum = %v, want %v +-1", got, want)
	}
}

func TestFiller_Mask_QuadLensArea(t *testing.T) {
	f := NewFiller()
	f.MoveTo(Point{2, 8})
	f.QuadTo(Point{8, 2}, Point{14, 8})
	f.QuadTo(Point{8, 14}, Point{2, 8})
	f.Close()

	m := f.Mask()
	// Two parabolic segments over a 12-wide chord with sagitta 3 each:
	// 2 * (2/3 * 12 * 3) = 48.
	if got, want := maskSum(m), 48.0; math.Abs(got-want) > 1.5 {
		t.Errorf("lens coverage sum = %v, want %v +-1.5", got, want)
	}
	if a := maskAt(m, 8, 8); math.Abs(float64(a)-1) > 1e-3 {
		t.Errorf("lens center alpha = %v, want 1", a)
	}
}

func TestFiller_Mask_CubicQuarterDisc(t *testing.T) {
	const r = 6.0
	const k = 0.55228474983 * r

	f := NewFiller()
	f.MoveTo(Point{8, 8})
	f.LineTo(Point{8 - r, 8})
	f.CubeTo(Point{8 - r, 8 - k}, Point{8 - k, 8 - r}, Point{8, 8 - r})
	f.Close()

	m := f.Mask()
	if got, want := maskSum(m), math.Pi*r*r/4; math.Abs(got-want) > 1 {
		t.Errorf("quarter disc coverage sum = %v, want %v +-1", got, want)
	}
}

func TestFiller_Mask_NegativeCoordinates(t *testing.T) {
	f := NewFiller()
	f.MoveTo(Point{-5, -4})
	f.LineTo(Point{-1, -4})
	f.LineTo(Point{-1, -1})
	f.LineTo(Point{-5, -1})
	f.Close()

	m := f.Mask()
	if m.MinX != -5 || m.MinY != -4 {
		t.Errorf("mask origin = (%d, %d), want (-5, -4)", m.MinX, m.MinY)
	}
	if m.Width != 4 || m.Height != 3 {
		t.Errorf("mask size = %dx%d, want 4x3", m.Width, m.Height)
	}
	if a := maskAt(m, -3, -2); a != 1 {
		t.Errorf("alpha(-3, -2) = %v, want 1", a)
	}
}

func TestFiller_Mask_Empty(t *testing.T) {
	f := NewFiller()
	if m := f.Mask(); !m.Empty() {
		t.Errorf("empty filler mask = %dx%d, want empty", m.Width, m.Height)
	}

	f.MoveTo(Point{3, 3})
	if m := f.Mask(); !m.Empty() {
		t.Errorf("lone MoveTo mask = %dx%d, want empty", m.Width, m.Height)
	}
}

func TestFiller_Mask_AutoClose(t *testing.T) {
	closed := NewFiller()
	closed.MoveTo(Point{0, 0})
	closed.LineTo(Point{10, 0})
	closed.LineTo(Point{0, 10})
	closed.Close()
	want := maskSum(closed.Mask())

	open := NewFiller()
	open.MoveTo(Point{0, 0})
	open.LineTo(Point{10, 0})
	open.LineTo(Point{0, 10})
	got := maskSum(open.Mask())

	if math.Abs(got-want) > 1e-6 {
		t.Errorf("auto-closed coverage = %v, closed coverage = %v", got, want)
	}
}

func TestFiller_Reset_Reuse(t *testing.T) {
	f := NewFiller()
	f.MoveTo(Point{1, 1})
	f.LineTo(Point{5, 1})
	f.LineTo(Point{5, 5})
	f.LineTo(Point{1, 5})
	f.Close()
	first := f.Mask()
	fw, fh, fsum := first.Width, first.Height, maskSum(first)

	f.Reset()
	f.MoveTo(Point{1, 1})
	f.LineTo(Point{5, 1})
	f.LineTo(Point{5, 5})
	f.LineTo(Point{1, 5})
	f.Close()
	second := f.Mask()

	if second.Width != fw || second.Height != fh {
		t.Errorf("reused mask size = %dx%d, want %dx%d", second.Width, second.Height, fw, fh)
	}
	if got := maskSum(second); math.Abs(got-fsum) > 1e-6 {
		t.Errorf("reused coverage sum = %v, want %v", got, fsum)
	}
}
