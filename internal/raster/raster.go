// Package raster converts small closed paths into antialiased coverage masks.
package raster

import "math"

// Point is a 2D point in device pixels (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// edge is a non-horizontal line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0), precomputed for x-intercept calculation
}

// Mask is the result of rasterizing a path: per-pixel coverage in [0, 1],
// row-major, trimmed to the ink extent. MinX/MinY locate the mask origin in
// the same device space the path was given in and may be negative.
type Mask struct {
	Alpha  []float32
	Width  int
	Height int
	MinX   int
	MinY   int
}

// Empty reports whether the mask has no ink.
func (m Mask) Empty() bool { return m.Width == 0 || m.Height == 0 }

// Filler accumulates path commands in device pixels and rasterizes them into
// a coverage mask using the nonzero winding rule. Curves are flattened with a
// fixed tolerance suitable for glyph-sized geometry. Internal buffers grow as
// needed but never shrink, so one Filler can be reused across many paths.
//
// A Filler is not safe for concurrent use.
type Filler struct {
	edges []edge

	current Point
	start   Point
	open    bool

	first bool
	xMin  float64
	xMax  float64
	yMin  float64
	yMax  float64

	cover  []float32
	area   []float32
	rowHit []bool
}

// NewFiller returns an empty Filler.
func NewFiller() *Filler {
	f := &Filler{}
	f.Reset()
	return f
}

// Reset discards all accumulated geometry, keeping the buffers.
func (f *Filler) Reset() {
	f.edges = f.edges[:0]
	f.open = false
	f.first = true
}

// MoveTo starts a new subpath. An open previous subpath is closed first,
// since the winding model requires closed contours.
func (f *Filler) MoveTo(p Point) {
	f.Close()
	f.current = p
	f.start = p
	f.open = true
}

// LineTo appends a straight segment.
func (f *Filler) LineTo(p Point) {
	f.addEdge(f.current, p)
	f.current = p
}

// QuadTo appends a quadratic Bezier segment with control point c.
func (f *Filler) QuadTo(c, p Point) {
	p0 := f.current
	// Error vector e = (P0 - 2*P1 + P2) / 4 bounds the distance between the
	// curve and its chord.
	ex := (p0.X - 2*c.X + p.X) / 4
	ey := (p0.Y - 2*c.Y + p.Y) / 4
	n := 1
	if errDev := math.Hypot(ex, ey); errDev > flatness {
		n = int(math.Ceil(math.Sqrt(errDev / flatness)))
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		pt := Point{
			X: omt*omt*p0.X + 2*omt*t*c.X + t*t*p.X,
			Y: omt*omt*p0.Y + 2*omt*t*c.Y + t*t*p.Y,
		}
		f.addEdge(prev, pt)
		prev = pt
	}
	f.current = p
}

// CubeTo appends a cubic Bezier segment with control points c1 and c2.
func (f *Filler) CubeTo(c1, c2, p Point) {
	p0 := f.current
	d1x := p0.X - 2*c1.X + c2.X
	d1y := p0.Y - 2*c1.Y + c2.Y
	d2x := c1.X - 2*c2.X + p.X
	d2y := c1.Y - 2*c2.Y + p.Y
	m := math.Max(math.Hypot(d1x, d1y), math.Hypot(d2x, d2y))
	n := 1
	if m > 0 {
		// Wang's formula: n = ceil(sqrt(3*m / (4*tolerance))).
		if nf := math.Sqrt(3 * m / (4 * flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		a := omt * omt * omt
		b := 3 * omt * omt * t
		c := 3 * omt * t * t
		d := t * t * t
		pt := Point{
			X: a*p0.X + b*c1.X + c*c2.X + d*p.X,
			Y: a*p0.Y + b*c1.Y + c*c2.Y + d*p.Y,
		}
		f.addEdge(prev, pt)
		prev = pt
	}
	f.current = p
}

// Close closes the current subpath with a straight segment back to its start.
func (f *Filler) Close() {
	if !f.open {
		return
	}
	if f.current != f.start {
		f.addEdge(f.current, f.start)
	}
	f.current = f.start
	f.open = false
}

func (f *Filler) addEdge(p0, p1 Point) {
	dy := p1.Y - p0.Y
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	f.edges = append(f.edges, edge{
		x0: p0.X, y0: p0.Y,
		x1: p1.X, y1: p1.Y,
		dxdy: (p1.X - p0.X) / dy,
	})
	if f.first {
		f.xMin = math.Min(p0.X, p1.X)
		f.xMax = math.Max(p0.X, p1.X)
		f.yMin = math.Min(p0.Y, p1.Y)
		f.yMax = math.Max(p0.Y, p1.Y)
		f.first = false
	} else {
		f.xMin = math.Min(f.xMin, math.Min(p0.X, p1.X))
		f.xMax = math.Max(f.xMax, math.Max(p0.X, p1.X))
		f.yMin = math.Min(f.yMin, math.Min(p0.Y, p1.Y))
		f.yMax = math.Max(f.yMax, math.Max(p0.Y, p1.Y))
	}
}

// Coverage accumulation model:
//
//	cover: signed vertical extent of an edge crossing a pixel column
//	area:  the same contribution weighted by horizontal position
//
// An edge crossing a pixel contributes cover = sign*dy (sign +1 downward,
// -1 upward) and area = cover*(1-xFrac). Integration sweeps each scanline
// left to right: coverage = accumulated cover + area[i], then the cover is
// carried forward. Clamping |coverage| to [0,1] yields the nonzero rule.

// Mask rasterizes everything accumulated so far and returns the trimmed
// coverage mask. The returned alpha slice aliases an internal buffer and is
// valid until the next call to Mask.
func (f *Filler) Mask() Mask {
	f.Close()
	if len(f.edges) == 0 {
		return Mask{}
	}

	xMin := int(math.Floor(f.xMin))
	xMax := int(math.Floor(f.xMax)) + 1
	yMin := int(math.Floor(f.yMin))
	yMax := int(math.Floor(f.yMax)) + 1
	width := xMax - xMin
	height := yMax - yMin
	if width <= 0 || height <= 0 {
		return Mask{}
	}

	size := width * height
	f.cover = growFloats(f.cover, size)
	f.area = growFloats(f.area, size)
	clear(f.cover)
	clear(f.area)
	if cap(f.rowHit) < height {
		f.rowHit = make([]bool, height)
	}
	f.rowHit = f.rowHit[:height]
	clear(f.rowHit)

	for i := range f.edges {
		e := &f.edges[i]
		eyMin := int(math.Floor(math.Min(e.y0, e.y1)))
		eyMax := int(math.Floor(math.Max(e.y0, e.y1))) + 1
		eyMin = max(eyMin, yMin)
		eyMax = min(eyMax, yMax)
		for y := eyMin; y < eyMax; y++ {
			row := y - yMin
			off := row * width
			accumulateEdge(e, y, f.cover[off:off+width], f.area[off:off+width], xMin)
			f.rowHit[row] = true
		}
	}

	for row := range height {
		if !f.rowHit[row] {
			continue
		}
		off := row * width
		integrateScanlineNonZero(f.cover[off:off+width], f.area[off:off+width])
	}

	return trimMask(f.cover, width, height, xMin, yMin)
}

// accumulateEdge adds one edge's contribution to a scanline's cover and area
// buffers, splitting the edge at pixel boundaries when it spans more than one
// column. Buffers are indexed by (x - xMin).
func accumulateEdge(e *edge, y int, cover, area []float32, xMin int) {
	yTop := math.Max(float64(y), math.Min(e.y0, e.y1))
	yBot := math.Min(float64(y+1), math.Max(e.y0, e.y1))
	if yBot <= yTop {
		return
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xAtTop := e.x0 + e.dxdy*(yTop-e.y0)
	xAtBot := e.x0 + e.dxdy*(yBot-e.y0)
	xLeft, xRight := xAtTop, xAtBot
	if xLeft > xRight {
		xLeft, xRight = xRight, xLeft
	}
	pixLeft := int(math.Floor(xLeft))
	pixRight := int(math.Floor(xRight))

	if pixLeft == pixRight {
		coverVal := sign * float32(yBot-yTop)
		yMid := (yTop + yBot) / 2
		xMid := e.x0 + e.dxdy*(yMid-e.y0)
		addCell(cover, area, pixLeft-xMin, coverVal, coverVal*float32(1-(xMid-float64(pixLeft))))
		return
	}

	// The edge crosses column boundaries: clip it to each column and
	// accumulate the per-column slice.
	dydx := 1 / e.dxdy
	for pix := pixLeft; pix <= pixRight; pix++ {
		yAtLeft := e.y0 + dydx*(float64(pix)-e.x0)
		yAtRight := e.y0 + dydx*(float64(pix+1)-e.x0)
		segYMin := math.Max(math.Min(yAtLeft, yAtRight), yTop)
		segYMax := math.Min(math.Max(yAtLeft, yAtRight), yBot)
		segDy := segYMax - segYMin
		if segDy <= 0 {
			continue
		}
		coverVal := sign * float32(segDy)
		yMid := (segYMin + segYMax) / 2
		xMid := e.x0 + e.dxdy*(yMid-e.y0)
		addCell(cover, area, pix-xMin, coverVal, coverVal*float32(1-(xMid-float64(pix))))
	}
}

func addCell(cover, area []float32, idx int, coverVal, areaVal float32) {
	if idx < 0 {
		// Left of the buffer: the crossing acts as full cover for the
		// first cell.
		cover[0] += coverVal
		area[0] += coverVal
		return
	}
	if idx >= len(cover) {
		return
	}
	cover[idx] += coverVal
	area[idx] += areaVal
}

// integrateScanlineNonZero converts accumulated cover/area into coverage in
// place using the nonzero winding rule.
func integrateScanlineNonZero(cover, area []float32) {
	var accum float32
	for i := range cover {
		raw := accum + area[i]
		accum += cover[i]
		if raw < 0 {
			raw = -raw
		}
		if raw > 1 {
			raw = 1
		}
		cover[i] = raw
	}
}

// trimMask cuts all-zero border rows and columns off the integrated buffer.
func trimMask(alpha []float32, width, height, xMin, yMin int) Mask {
	rowLo, rowHi := 0, height-1
	for rowLo <= rowHi && rowZero(alpha, rowLo, width) {
		rowLo++
	}
	if rowLo > rowHi {
		return Mask{}
	}
	for rowHi > rowLo && rowZero(alpha, rowHi, width) {
		rowHi--
	}
	colLo, colHi := 0, width-1
	for colLo <= colHi && colZero(alpha, colLo, width, rowLo, rowHi) {
		colLo++
	}
	for colHi > colLo && colZero(alpha, colHi, width, rowLo, rowHi) {
		colHi--
	}

	w := colHi - colLo + 1
	h := rowHi - rowLo + 1
	if w == width && h == height {
		return Mask{Alpha: alpha, Width: w, Height: h, MinX: xMin, MinY: yMin}
	}
	out := alpha[:0]
	for row := rowLo; row <= rowHi; row++ {
		off := row * width
		out = append(out, alpha[off+colLo:off+colHi+1]...)
	}
	return Mask{Alpha: out, Width: w, Height: h, MinX: xMin + colLo, MinY: yMin + rowLo}
}

func rowZero(alpha []float32, row, width int) bool {
	off := row * width
	for _, a := range alpha[off : off+width] {
		if a != 0 {
			return false
		}
	}
	return true
}

func colZero(alpha []float32, col, width, rowLo, rowHi int) bool {
	for row := rowLo; row <= rowHi; row++ {
		if alpha[row*width+col] != 0 {
			return false
		}
	}
	return true
}

func growFloats(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}

const (
	// flatness is the curve flattening tolerance in device pixels. 0.25 is
	// below the threshold of visual perception.
	flatness = 0.25

	// horizontalEdgeThreshold is the minimum vertical extent for an edge to
	// contribute coverage. Smaller edges are dropped as horizontal.
	horizontalEdgeThreshold = 1e-10
)
