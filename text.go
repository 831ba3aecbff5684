package textmesh

// Segment is one styled span of a text entity.
type Segment struct {
	Text  string
	Style SegmentStyle
}

// DimensionOut reports an entity's build results: the logical size of
// the text block and the atlas size its texture coordinates were
// computed against. The renderer compares AtlasDimension with the live
// image to detect growth and rescale coordinates in place rather than
// rebuild.
type DimensionOut struct {
	Dimension      Vec2
	AtlasDimension IVec2
}

// Text is one renderable text entity: styled segments, a wrap width,
// block styling and the handle of the mesh its build is written to.
//
// Mutating Segments, Style or MaxWidth must be followed by MarkDirty,
// otherwise the next pass reuses the previous build.
type Text struct {
	Segments []Segment
	Style    TextStyle

	// MaxWidth is the wrap width in logical units. Zero disables
	// wrapping.
	MaxWidth float64

	// Mesh is the entity's mesh handle. Leave zero; the first pass
	// binds it through the MeshStore.
	Mesh MeshHandle

	// Out is updated by every rebuild and rescale.
	Out DimensionOut

	dirty bool
}

// NewText creates an entity with the given segments and default
// styling. New entities start dirty so the first pass builds them.
func NewText(segments ...Segment) *Text {
	return &Text{
		Segments: segments,
		Style:    DefaultTextStyle(),
		dirty:    true,
	}
}

// Plain creates a single-segment entity with default styling.
func Plain(s string) *Text {
	return NewText(Segment{Text: s})
}

// MarkDirty flags the entity for a full rebuild on the next pass.
func (t *Text) MarkDirty() { t.dirty = true }

// Dirty reports whether the entity is flagged for a rebuild.
func (t *Text) Dirty() bool { return t.dirty }
