package textmesh

import "errors"

// Sentinel errors for the textmesh package.
var (
	// ErrPassBusy is returned by Renderer.Render when another pass holds
	// the context lock. The caller should retry on the next tick.
	ErrPassBusy = errors.New("textmesh: render pass already in progress")

	// ErrPatchTooLarge is returned when a rasterized glyph patch cannot
	// fit the atlas even after growing it to the configured maximum.
	ErrPatchTooLarge = errors.New("textmesh: glyph patch exceeds maximum atlas size")
)
