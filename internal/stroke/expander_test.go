package stroke

import (
	"math"
	"testing"

	"github.com/gogpu/textmesh/internal/raster"
)

// fillArea rasterizes an expanded outline and returns its total coverage.
func fillArea(t *testing.T, elements []Element) float64 {
	t.Helper()
	f := raster.NewFiller()
	for _, el := range elements {
		switch e := el.(type) {
		case MoveTo:
			f.MoveTo(raster.Point{X: e.Point.X, Y: e.Point.Y})
		case LineTo:
			f.LineTo(raster.Point{X: e.Point.X, Y: e.Point.Y})
		case QuadTo:
			f.QuadTo(
				raster.Point{X: e.Control.X, Y: e.Control.Y},
				raster.Point{X: e.Point.X, Y: e.Point.Y},
			)
		case CubicTo:
			f.CubeTo(
				raster.Point{X: e.Control1.X, Y: e.Control1.Y},
				raster.Point{X: e.Control2.X, Y: e.Control2.Y},
				raster.Point{X: e.Point.X, Y: e.Point.Y},
			)
		case Close:
			f.Close()
		}
	}
	m := f.Mask()
	var sum float64
	for _, a := range m.Alpha {
		sum += float64(a)
	}
	return sum
}

// square returns a 10x10 closed square contour at (2,2), clockwise or
// counter-clockwise in y-down coordinates.
func square(clockwise bool) []Element {
	if clockwise {
		return []Element{
			MoveTo{Point{2, 2}},
			LineTo{Point{12, 2}},
			LineTo{Point{12, 12}},
			LineTo{Point{2, 12}},
			Close{},
		}
	}
	return []Element{
		MoveTo{Point{2, 2}},
		LineTo{Point{2, 12}},
		LineTo{Point{12, 12}},
		LineTo{Point{12, 2}},
		Close{},
	}
}

func TestExpander_Expand_MiterSquare(t *testing.T) {
	e := NewExpander(2, JoinMiter)
	out := e.Expand(square(true))
	// Ring between a 12x12 outer and an 8x8 inner square.
	got := fillArea(t, out)
	if want := 144.0 - 64.0; math.Abs(got-want) > 1.5 {
		t.Errorf("miter ring area = %v, want %v +-1.5", got, want)
	}
}

func TestExpander_Expand_BevelSquare(t *testing.T) {
	e := NewExpander(2, JoinBevel)
	out := e.Expand(square(true))
	// Miter ring minus four 0.5 corner triangles.
	got := fillArea(t, out)
	if want := 80.0 - 4*0.5; math.Abs(got-want) > 1.5 {
		t.Errorf("bevel ring area = %v, want %v +-1.5", got, want)
	}
}

func TestExpander_Expand_RoundSquare(t *testing.T) {
	for _, clockwise := range []bool{true, false} {
		e := NewExpander(2, JoinRound)
		out := e.Expand(square(clockwise))
		// Miter ring with each outer corner rounded to a quarter circle of
		// radius 1.
		got := fillArea(t, out)
		want := 80.0 - 4*(1-math.Pi/4)
		if math.Abs(got-want) > 1.5 {
			t.Errorf("round ring area (clockwise=%v) = %v, want %v +-1.5", clockwise, got, want)
		}
	}
}

func TestExpander_Expand_OrientationIndependent(t *testing.T) {
	for _, join := range []Join{JoinMiter, JoinRound, JoinBevel} {
		cw := fillArea(t, NewExpander(2, join).Expand(square(true)))
		ccw := fillArea(t, NewExpander(2, join).Expand(square(false)))
		if math.Abs(cw-ccw) > 1 {
			t.Errorf("join %d: clockwise area %v != counter-clockwise area %v", join, cw, ccw)
		}
	}
}

func TestExpander_Expand_AutoClosesOpenContour(t *testing.T) {
	open := []Element{
		MoveTo{Point{2, 2}},
		LineTo{Point{12, 2}},
		LineTo{Point{12, 12}},
		LineTo{Point{2, 12}},
	}
	e := NewExpander(2, JoinMiter)
	got := fillArea(t, e.Expand(open))

	e2 := NewExpander(2, JoinMiter)
	want := fillArea(t, e2.Expand(square(true)))
	if math.Abs(got-want) > 0.5 {
		t.Errorf("auto-closed area = %v, explicitly closed area = %v", got, want)
	}
}

func TestExpander_Expand_MiterLimitFallback(t *testing.T) {
	// A needle corner at x=20: the miter would extend far past the tip, so
	// the limit must cut it off.
	needle := []Element{
		MoveTo{Point{0, 0}},
		LineTo{Point{20, 1}},
		LineTo{Point{0, 2}},
		Close{},
	}
	e := NewExpander(1, JoinMiter)
	out := e.Expand(needle)

	maxX := -math.MaxFloat64
	for _, el := range out {
		p := endPoint(el)
		if p.X > maxX {
			maxX = p.X
		}
	}
	if maxX > 24 {
		t.Errorf("needle outline extends to x=%v, miter limit should cap it near 20", maxX)
	}
}

func TestExpander_Expand_CurvedContour(t *testing.T) {
	// Circle of radius 5 at (8,8) from four cubic arcs is not exact, so
	// compare against a generous band around the ideal ring area.
	const r = 5.0
	k := r * math.Tan(math.Pi/8) * 4 / 3 // cubic arc offset for 90 degrees
	circle := []Element{
		MoveTo{Point{8 + r, 8}},
		CubicTo{Point{8 + r, 8 + k}, Point{8 + k, 8 + r}, Point{8, 8 + r}},
		CubicTo{Point{8 - k, 8 + r}, Point{8 - r, 8 + k}, Point{8 - r, 8}},
		CubicTo{Point{8 - r, 8 - k}, Point{8 - k, 8 - r}, Point{8, 8 - r}},
		CubicTo{Point{8 + k, 8 - r}, Point{8 + r, 8 - k}, Point{8 + r, 8}},
		Close{},
	}
	e := NewExpander(2, JoinRound)
	got := fillArea(t, e.Expand(circle))
	// Annulus between radius 6 and radius 4: pi*(36-16).
	want := math.Pi * 20
	if math.Abs(got-want) > 3 {
		t.Errorf("circle ring area = %v, want %v +-3", got, want)
	}
}

func TestExpander_Expand_EmptyAndDegenerate(t *testing.T) {
	e := NewExpander(2, JoinMiter)
	if out := e.Expand(nil); len(out) != 0 {
		t.Errorf("empty input produced %d elements", len(out))
	}
	if out := e.Expand([]Element{MoveTo{Point{3, 3}}, Close{}}); len(out) != 0 {
		t.Errorf("single point contour produced %d elements", len(out))
	}

	bad := NewExpander(0, JoinMiter)
	if out := bad.Expand(square(true)); out != nil {
		t.Errorf("zero width expansion produced %d elements", len(out))
	}
}
