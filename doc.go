// Package textmesh turns shaped text into GPU-ready meshes.
//
// # Overview
//
// textmesh is a Pure Go text meshing pipeline designed to integrate with
// the GoGPU ecosystem. It caches tessellated glyph coverage in a growable
// RGBA atlas and assembles styled text entities into CPU-side vertex and
// index buffers, one textured quad per glyph. Uploading the buffers and
// the atlas image is left to the host engine.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/textmesh"
//		"github.com/gogpu/textmesh/fontdb"
//		"github.com/gogpu/textmesh/shape"
//	)
//
//	// Register a font and build the pipeline
//	db := fontdb.New()
//	db.Register(fontBytes)
//	ctx, _ := textmesh.NewContext(textmesh.DefaultConfig(), db)
//	assets := textmesh.NewAssets()
//	r := textmesh.NewRenderer(ctx, shape.New(db), assets, assets)
//
//	// Build the mesh for a text entity
//	text := textmesh.Plain("hello")
//	r.Render(text)
//	_, mesh := assets.Mesh(text.Mesh)
//
// # Architecture
//
// The module is organized into:
//   - Public API: Context, Renderer, Text, Atlas, MeshData
//   - fontdb: font registration, outlines, metrics
//   - shape: segmentation, bidi, line breaking, glyph placement
//   - Internal: raster (scanline coverage), stroke (outline expansion)
//
// # Coordinate System
//
// Mesh positions are y-up with the text block placed around its anchor.
// Atlas pixels are y-down; the UV channel accounts for the flip, so
// sampled glyphs come out upright.
//
// # Concurrency
//
// A pass never blocks: Renderer.Render returns ErrPassBusy when the
// context is held elsewhere. Glyphs can be rasterized ahead of time on a
// background goroutine with Context.Prewarm.
package textmesh

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
