// Package stroke expands stroked contours into fillable outlines.
//
// A stroke becomes a fill path where the outer offset path runs forward, the
// inner offset path runs reversed, and line joins connect the segments. The
// expansion follows the tiny-skia/kurbo model. Contours are treated as
// closed: glyph outlines have no open ends, and open input is closed before
// expansion, so no cap styles exist here.
package stroke

import "math"

// Point is a 2D point (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// Add returns the point displaced by v.
func (p Point) Add(v Vec2) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the difference between two points as a vector.
func (p Point) Sub(q Point) Vec2 {
	return Vec2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Lerp performs linear interpolation between two points.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Scale returns the vector scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Neg returns the negated vector.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(w Vec2) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the 2D cross product (z-component of the 3D cross).
func (v Vec2) Cross(w Vec2) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the length of the vector.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared returns the squared length of the vector.
func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Perp returns the vector rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// Angle returns the angle of the vector in radians.
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Join specifies the shape of line joins.
type Join int

const (
	// JoinMiter produces sharp corners, falling back to bevel past the
	// miter limit.
	JoinMiter Join = iota
	// JoinRound produces rounded corners.
	JoinRound
	// JoinBevel produces flattened corners.
	JoinBevel
)

// Element is one command of a contour.
type Element interface {
	isElement()
}

// MoveTo starts a new contour.
type MoveTo struct{ Point Point }

func (MoveTo) isElement() {}

// LineTo draws a line.
type LineTo struct{ Point Point }

func (LineTo) isElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct{ Control, Point Point }

func (QuadTo) isElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct{ Control1, Control2, Point Point }

func (CubicTo) isElement() {}

// Close closes the contour.
type Close struct{}

func (Close) isElement() {}

// Expander converts stroked contours into fill outlines. The stroke is
// centered: each side extends half the width from the input geometry. An
// Expander can be reused; it is not safe for concurrent use.
type Expander struct {
	width      float64
	join       Join
	tolerance  float64
	miterLimit float64

	forward  pathBuilder
	backward pathBuilder
	output   pathBuilder

	startPt   Point
	startTan  Vec2
	startNorm Vec2
	lastPt    Point
	lastTan   Vec2

	// joinThresh skips joins whose angle change stays within the
	// flattening tolerance.
	joinThresh float64
}

// NewExpander returns an expander producing outlines of the given stroke
// width and join style.
func NewExpander(width float64, join Join) *Expander {
	return &Expander{
		width:      width,
		join:       join,
		tolerance:  0.25,
		miterLimit: 4.0,
	}
}

// Expand converts the contours into a fill outline. Open contours are closed
// first. The returned elements are valid until the next call to Expand.
func (e *Expander) Expand(elements []Element) []Element {
	if e.width <= 0 {
		return nil
	}
	e.forward.reset()
	e.backward.reset()
	e.output.reset()
	e.joinThresh = 2 * e.tolerance / e.width

	for _, el := range elements {
		switch elem := el.(type) {
		case MoveTo:
			e.closeContour()
			e.startPt = elem.Point
			e.lastPt = elem.Point
		case LineTo:
			if elem.Point != e.lastPt {
				tangent := elem.Point.Sub(e.lastPt)
				e.doJoin(tangent)
				e.lastTan = tangent
				e.doLine(tangent, elem.Point)
			}
		case QuadTo:
			if elem.Control != e.lastPt || elem.Point != e.lastPt {
				e.doFlattened(flattenQuad(e.lastPt, elem.Control, elem.Point, e.tolerance))
			}
		case CubicTo:
			if elem.Control1 != e.lastPt || elem.Control2 != e.lastPt || elem.Point != e.lastPt {
				e.doFlattened(flattenCubic(e.lastPt, elem.Control1, elem.Control2, elem.Point, e.tolerance))
			}
		case Close:
			e.closeContour()
		}
	}
	e.closeContour()
	return e.output.elements
}

// closeContour seals the current contour: closes the input geometry if it is
// still open, joins back to the start, and emits the outer ring plus the
// reversed inner ring.
func (e *Expander) closeContour() {
	if e.forward.isEmpty() {
		return
	}
	if e.lastPt != e.startPt {
		tangent := e.startPt.Sub(e.lastPt)
		e.doJoin(tangent)
		e.lastTan = tangent
		e.doLine(tangent, e.startPt)
	}
	e.doJoin(e.startTan)

	e.output.appendPath(&e.forward)
	e.output.close()
	if n := len(e.backward.elements); n > 0 {
		e.output.moveTo(endPoint(e.backward.elements[n-1]))
		e.appendReversed(&e.backward)
		e.output.close()
	}

	e.forward.reset()
	e.backward.reset()
}

// doFlattened feeds flattened curve points through the join/line machinery.
func (e *Expander) doFlattened(points []Point) {
	for i := 1; i < len(points); i++ {
		tangent := points[i].Sub(points[i-1])
		if tangent.LengthSquared() > 1e-10 {
			e.doJoin(tangent)
			e.lastTan = tangent
			e.doLine(tangent, points[i])
		}
	}
}

// doJoin connects the incoming segment to the previous one, or starts the
// offset paths for the first segment of a contour.
func (e *Expander) doJoin(tan0 Vec2) {
	scale := 0.5 * e.width / tan0.Length()
	norm := tan0.Perp().Scale(scale)
	p0 := e.lastPt

	if e.forward.isEmpty() {
		e.forward.moveTo(p0.Add(norm.Neg()))
		e.backward.moveTo(p0.Add(norm))
		e.startTan = tan0
		e.startNorm = norm
		return
	}

	ab := e.lastTan
	cd := tan0
	cross := ab.Cross(cd)
	dot := ab.Dot(cd)
	hypot := math.Hypot(cross, dot)

	// Near-collinear segments need no join shape, but the offset paths must
	// still be connected to stay continuous.
	if dot > 0 && math.Abs(cross) < hypot*e.joinThresh {
		e.forward.lineTo(p0.Add(norm.Neg()))
		e.backward.lineTo(p0.Add(norm))
		return
	}

	switch e.join {
	case JoinBevel:
		e.forward.lineTo(p0.Add(norm.Neg()))
		e.backward.lineTo(p0.Add(norm))
	case JoinMiter:
		e.miterJoin(p0, norm, ab, cd, cross, dot, hypot)
	case JoinRound:
		e.roundJoin(p0, norm, cross, dot)
	}
}

// miterJoin extends the outer corner to a point when it stays within the
// miter limit, then connects both offset paths.
func (e *Expander) miterJoin(p0 Point, norm, ab, cd Vec2, cross, dot, hypot float64) {
	// Limit check on the half-angle: miterLength/width = 1/sin(theta/2).
	limitSq := e.miterLimit * e.miterLimit
	if 2*hypot < (hypot+dot)*limitSq {
		lastScale := 0.5 * e.width / ab.Length()
		lastNorm := ab.Perp().Scale(lastScale)
		if cross > 0 {
			fpLast := p0.Add(lastNorm.Neg())
			fpThis := p0.Add(norm.Neg())
			h := ab.Cross(fpThis.Sub(fpLast)) / cross
			e.forward.lineTo(fpThis.Add(cd.Scale(-h)))
			e.backward.lineTo(p0)
		} else if cross < 0 {
			fpLast := p0.Add(lastNorm)
			fpThis := p0.Add(norm)
			h := ab.Cross(fpThis.Sub(fpLast)) / cross
			e.backward.lineTo(fpThis.Add(cd.Scale(-h)))
			e.forward.lineTo(p0)
		}
	}
	e.forward.lineTo(p0.Add(norm.Neg()))
	e.backward.lineTo(p0.Add(norm))
}

// roundJoin arcs the outer side of the corner and pins the inner side.
func (e *Expander) roundJoin(p0 Point, norm Vec2, cross, dot float64) {
	lastScale := 0.5 * e.width / e.lastTan.Length()
	lastNorm := e.lastTan.Perp().Scale(lastScale)

	angle := math.Atan2(cross, dot)
	if angle > 0 {
		e.backward.lineTo(p0.Add(norm))
		arcTo(&e.forward, p0, lastNorm.Neg(), angle)
	} else {
		e.forward.lineTo(p0.Add(norm.Neg()))
		arcTo(&e.backward, p0, lastNorm, angle)
	}
}

// doLine extends both offset paths along a segment.
func (e *Expander) doLine(tangent Vec2, p1 Point) {
	scale := 0.5 * e.width / tangent.Length()
	norm := tangent.Perp().Scale(scale)
	e.forward.lineTo(p1.Add(norm.Neg()))
	e.backward.lineTo(p1.Add(norm))
	e.lastPt = p1
}

// arcTo appends a circular arc starting at center+norm, sweeping by angle
// (signed), approximated with cubic Beziers of at most a quarter turn each.
func arcTo(out *pathBuilder, center Point, norm Vec2, angle float64) {
	segments := int(math.Ceil(math.Abs(angle) / (math.Pi / 2)))
	if segments < 1 {
		segments = 1
	}
	step := angle / float64(segments)
	a0 := norm.Angle()
	radius := norm.Length()

	for i := 0; i < segments; i++ {
		a1 := a0 + step
		da := a1 - a0
		alpha := math.Sin(da) * (math.Sqrt(4+3*math.Tan(da/2)*math.Tan(da/2)) - 1) / 3

		cos0, sin0 := math.Cos(a0), math.Sin(a0)
		cos1, sin1 := math.Cos(a1), math.Sin(a1)
		p1 := Point{X: center.X + radius*cos1, Y: center.Y + radius*sin1}
		c1 := Point{
			X: center.X + radius*cos0 - alpha*radius*sin0,
			Y: center.Y + radius*sin0 + alpha*radius*cos0,
		}
		c2 := Point{X: p1.X + alpha*radius*sin1, Y: p1.Y - alpha*radius*cos1}
		out.cubicTo(c1, c2, p1)
		a0 = a1
	}
}

// appendReversed appends a path to the output in reverse order, turning each
// element's start point into its end point.
func (e *Expander) appendReversed(pb *pathBuilder) {
	elems := pb.elements
	for i := len(elems) - 1; i >= 1; i-- {
		endPt := endPoint(elems[i-1])
		switch el := elems[i].(type) {
		case LineTo:
			e.output.lineTo(endPt)
		case QuadTo:
			e.output.quadTo(el.Control, endPt)
		case CubicTo:
			e.output.cubicTo(el.Control2, el.Control1, endPt)
		}
	}
}

// flattenQuad flattens a quadratic Bezier curve to points including p0.
func flattenQuad(p0, p1, p2 Point, tolerance float64) []Point {
	points := []Point{p0}
	flattenQuadRec(p0, p1, p2, tolerance, &points)
	return points
}

func flattenQuadRec(p0, p1, p2 Point, tolerance float64, points *[]Point) {
	if distanceToLine(p1, p0, p2) < tolerance {
		*points = append(*points, p2)
		return
	}
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := q0.Lerp(q1, 0.5)
	flattenQuadRec(p0, q0, q2, tolerance, points)
	flattenQuadRec(q2, q1, p2, tolerance, points)
}

// flattenCubic flattens a cubic Bezier curve to points including p0.
func flattenCubic(p0, p1, p2, p3 Point, tolerance float64) []Point {
	points := []Point{p0}
	flattenCubicRec(p0, p1, p2, p3, tolerance, &points)
	return points
}

func flattenCubicRec(p0, p1, p2, p3 Point, tolerance float64, points *[]Point) {
	d1 := distanceToLine(p1, p0, p3)
	d2 := distanceToLine(p2, p0, p3)
	if math.Max(d1, d2) < tolerance {
		*points = append(*points, p3)
		return
	}
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)
	flattenCubicRec(p0, q0, r0, s, tolerance, points)
	flattenCubicRec(s, r1, q2, p3, tolerance, points)
}

// distanceToLine returns the distance from p to the segment (a, b).
func distanceToLine(p, a, b Point) float64 {
	ab := b.Sub(a)
	abLen := ab.Length()
	if abLen < 1e-10 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / (abLen * abLen)
	if t < 0 {
		return p.Distance(a)
	}
	if t > 1 {
		return p.Distance(b)
	}
	return p.Distance(a.Add(ab.Scale(t)))
}

// endPoint returns the point a path element ends at.
func endPoint(el Element) Point {
	switch e := el.(type) {
	case MoveTo:
		return e.Point
	case LineTo:
		return e.Point
	case QuadTo:
		return e.Point
	case CubicTo:
		return e.Point
	default:
		return Point{}
	}
}

// pathBuilder accumulates path elements.
type pathBuilder struct {
	elements []Element
}

func (b *pathBuilder) reset()        { b.elements = b.elements[:0] }
func (b *pathBuilder) isEmpty() bool { return len(b.elements) == 0 }

func (b *pathBuilder) moveTo(p Point) {
	b.elements = append(b.elements, MoveTo{Point: p})
}

func (b *pathBuilder) lineTo(p Point) {
	b.elements = append(b.elements, LineTo{Point: p})
}

func (b *pathBuilder) quadTo(c, p Point) {
	b.elements = append(b.elements, QuadTo{Control: c, Point: p})
}

func (b *pathBuilder) cubicTo(c1, c2, p Point) {
	b.elements = append(b.elements, CubicTo{Control1: c1, Control2: c2, Point: p})
}

func (b *pathBuilder) close() {
	b.elements = append(b.elements, Close{})
}

func (b *pathBuilder) appendPath(other *pathBuilder) {
	b.elements = append(b.elements, other.elements...)
}
