package textmesh

// shelfPacker implements shelf-based rectangle packing for glyph patches.
//
// Rectangles are organized in horizontal "shelves". Each shelf has a
// height determined by the tallest item placed so far; new items go
// left-to-right on an existing shelf until no space remains, then a new
// shelf is started below. Unlike a fixed-size packer the bounds can be
// raised in place: existing shelves keep their positions, so every
// rectangle handed out earlier stays valid after growth.
type shelfPacker struct {
	width   int     // current packing width
	height  int     // current packing height
	padding int     // padding between items
	shelves []shelf // list of shelves

	// Tracking for utilization
	usedArea int
}

// shelf represents a horizontal strip in the atlas.
type shelf struct {
	y      int // Y position of shelf top
	height int // height of the shelf (tallest item so far)
	x      int // current X position (next free slot)
}

func newShelfPacker(width, height, padding int) shelfPacker {
	return shelfPacker{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// allocate finds space for a w x h rectangle.
// Returns the top-left position and true, or false if the current bounds
// have no room.
//
// The algorithm:
// 1. Try to fit on an existing shelf with enough height
// 2. If the item is taller than the last shelf, try extending that shelf
// 3. Otherwise open a new shelf below
func (p *shelfPacker) allocate(w, h int) (x, y int, ok bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}

	paddedW := w + p.padding
	paddedH := h + p.padding

	for i := range p.shelves {
		s := &p.shelves[i]

		if s.x+paddedW > p.width {
			continue
		}

		if h > s.height {
			// Item is taller than the shelf. Only the last shelf may be
			// extended, and only while there is room below it.
			if i == len(p.shelves)-1 && s.y+paddedH <= p.height {
				s.height = h
				x, y = s.x, s.y
				s.x += paddedW
				p.usedArea += w * h
				return x, y, true
			}
			continue
		}

		x, y = s.x, s.y
		s.x += paddedW
		p.usedArea += w * h
		return x, y, true
	}

	newY := 0
	if len(p.shelves) > 0 {
		last := p.shelves[len(p.shelves)-1]
		newY = last.y + last.height + p.padding
	}

	if newY+paddedH > p.height || paddedW > p.width {
		return 0, 0, false
	}

	p.shelves = append(p.shelves, shelf{
		y:      newY,
		height: h,
		x:      paddedW,
	})
	p.usedArea += w * h

	return 0, newY, true
}

// growTo raises the packing bounds. Shelves are untouched, so rectangles
// allocated before the call remain valid. Bounds never shrink.
func (p *shelfPacker) growTo(width, height int) {
	if width > p.width {
		p.width = width
	}
	if height > p.height {
		p.height = height
	}
}

// reset clears all allocations, keeping the current bounds.
func (p *shelfPacker) reset() {
	p.shelves = p.shelves[:0]
	p.usedArea = 0
}

// utilization returns the fraction of the packing area in use (0.0 to 1.0).
func (p *shelfPacker) utilization() float64 {
	if p.width <= 0 || p.height <= 0 {
		return 0
	}
	return float64(p.usedArea) / float64(p.width*p.height)
}
