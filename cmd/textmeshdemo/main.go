// Command textmeshdemo builds the mesh for a styled text block and
// writes the glyph atlas it rasterized along the way to a PNG.
package main

import (
	"flag"
	"log"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textmesh"
	"github.com/gogpu/textmesh/fontdb"
	"github.com/gogpu/textmesh/shape"
)

func main() {
	var (
		size   = flag.Float64("size", 48, "font size in logical pixels")
		width  = flag.Float64("width", 520, "wrap width, 0 disables wrapping")
		output = flag.String("output", "atlas.png", "atlas output file")
	)
	flag.Parse()

	db := fontdb.New()
	if _, err := db.Register(goregular.TTF); err != nil {
		log.Fatalf("Failed to register font: %v", err)
	}
	if _, err := db.Register(gobold.TTF); err != nil {
		log.Fatalf("Failed to register font: %v", err)
	}

	ctx, err := textmesh.NewContext(textmesh.DefaultConfig(), db)
	if err != nil {
		log.Fatalf("Failed to create context: %v", err)
	}

	assets := textmesh.NewAssets()
	renderer := textmesh.NewRenderer(ctx, shape.New(db), assets, assets)

	text := demoText(*size, *width)
	if err := renderer.Render(text); err != nil {
		log.Fatalf("Render pass failed: %v", err)
	}

	_, mesh := assets.Mesh(text.Mesh)
	log.Printf("Built %d vertices, %d triangles for a %.0fx%.0f block",
		mesh.VertexCount(), mesh.TriangleCount(),
		text.Out.Dimension.X, text.Out.Dimension.Y)

	img := assets.Image(renderer.ImageHandle())
	if err := img.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save atlas: %v", err)
	}
	log.Printf("Atlas saved to %s (%dx%d)\n", *output, img.Width(), img.Height())
}

func demoText(size, width float64) *textmesh.Text {
	orange := textmesh.RGB(1, 0.6, 0.1)
	teal := textmesh.RGB(0.2, 0.8, 0.7)

	text := textmesh.NewText(
		textmesh.Segment{Text: "Text meshes "},
		textmesh.Segment{
			Text:  "on the GPU",
			Style: textmesh.SegmentStyle{Fill: &orange, Weight: textmesh.WeightBold},
		},
		textmesh.Segment{Text: " are built from "},
		textmesh.Segment{
			Text:  "atlas quads",
			Style: textmesh.SegmentStyle{Underline: &textmesh.DecorationStyle{}},
		},
		textmesh.Segment{Text: ",\nnot from "},
		textmesh.Segment{
			Text:  "rasterized paragraphs",
			Style: textmesh.SegmentStyle{Strikethrough: &textmesh.DecorationStyle{Color: &teal}},
		},
		textmesh.Segment{Text: "."},
		textmesh.Segment{
			Text:  "\nStroked glyphs share the cache.",
			Style: textmesh.SegmentStyle{Stroke: &textmesh.StrokeStyle{Width: 4, Color: teal}},
		},
	)
	text.Style.Size = size
	text.Style.Align = textmesh.AlignCenter
	text.MaxWidth = width
	return text
}
