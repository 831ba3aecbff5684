package textmesh

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/gogpu/gputypes"
)

// AtlasImage is the CPU-side pixel store of a glyph atlas. Pixels are
// RGBA8 with white ink and coverage in the alpha channel, straight (not
// premultiplied), so hosts tint glyphs entirely through vertex color.
type AtlasImage struct {
	width  int
	height int
	pix    []uint8 // RGBA format, 4 bytes per pixel
	dirty  bool
}

// NewAtlasImage creates a blank, fully transparent atlas image.
func NewAtlasImage(width, height int) *AtlasImage {
	return &AtlasImage{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// Width returns the image width in pixels.
func (p *AtlasImage) Width() int {
	return p.width
}

// Height returns the image height in pixels.
func (p *AtlasImage) Height() int {
	return p.height
}

// Pix returns the raw pixel data (RGBA format, 4 bytes per pixel).
// The slice is replaced wholesale when the image grows, so callers must
// not hold it across passes.
func (p *AtlasImage) Pix() []uint8 {
	return p.pix
}

// Format returns the GPU texture format matching Pix, so hosts can
// create the upload texture without guessing.
func (p *AtlasImage) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Dirty reports whether pixels changed since the last MarkClean.
func (p *AtlasImage) Dirty() bool {
	return p.dirty
}

// MarkClean marks the image as uploaded.
func (p *AtlasImage) MarkClean() {
	p.dirty = false
}

// AlphaAt returns the coverage byte at a pixel, 0 outside the image.
func (p *AtlasImage) AlphaAt(x, y int) uint8 {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0
	}
	return p.pix[(y*p.width+x)*4+3]
}

// writePatch blits a coverage patch at (x, y) as white ink. Every pixel
// of the patch rectangle is written, including zero-coverage ones, so
// bilinear samplers never blend glyph edges against stale color.
func (p *AtlasImage) writePatch(x, y int, patch Patch) {
	for row := 0; row < patch.H; row++ {
		dy := y + row
		if dy < 0 || dy >= p.height {
			continue
		}
		src := row * patch.W
		for col := 0; col < patch.W; col++ {
			dx := x + col
			if dx < 0 || dx >= p.width {
				continue
			}
			i := (dy*p.width + dx) * 4
			p.pix[i+0] = 255
			p.pix[i+1] = 255
			p.pix[i+2] = 255
			p.pix[i+3] = uint8(clamp255(float64(patch.Alpha[src+col]) * 255))
		}
	}
	p.dirty = true
}

// grow reallocates the pixel store to at least newWidth x newHeight,
// keeping existing pixels at their positions. Dimensions never shrink.
func (p *AtlasImage) grow(newWidth, newHeight int) {
	if newWidth < p.width {
		newWidth = p.width
	}
	if newHeight < p.height {
		newHeight = p.height
	}
	if newWidth == p.width && newHeight == p.height {
		return
	}

	pix := make([]uint8, newWidth*newHeight*4)
	for y := 0; y < p.height; y++ {
		copy(pix[y*newWidth*4:], p.pix[y*p.width*4:(y+1)*p.width*4])
	}

	p.width = newWidth
	p.height = newHeight
	p.pix = pix
	p.dirty = true
}

// Clear resets every pixel to transparent, keeping dimensions.
func (p *AtlasImage) Clear() {
	for i := range p.pix {
		p.pix[i] = 0
	}
	p.dirty = true
}

// ColorModel implements the image.Image interface.
func (p *AtlasImage) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements the image.Image interface.
func (p *AtlasImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// At implements the image.Image interface.
func (p *AtlasImage) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.NRGBA{}
	}
	i := (y*p.width + x) * 4
	return color.NRGBA{R: p.pix[i], G: p.pix[i+1], B: p.pix[i+2], A: p.pix[i+3]}
}

// ToImage copies the pixels into an image.NRGBA.
func (p *AtlasImage) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.pix)
	return img
}

// SavePNG saves the atlas image to a PNG file.
func (p *AtlasImage) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, p.ToImage())
}

// clone returns a deep copy of the image.
func (p *AtlasImage) clone() *AtlasImage {
	c := &AtlasImage{
		width:  p.width,
		height: p.height,
		pix:    make([]uint8, len(p.pix)),
		dirty:  p.dirty,
	}
	copy(c.pix, p.pix)
	return c
}
