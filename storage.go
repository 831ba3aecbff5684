package textmesh

// MeshHandle identifies a mesh buffer in a MeshStore. The zero handle
// is unbound; stores allocate a mesh for it on first use.
type MeshHandle uint64

// ImageHandle identifies an atlas image in an ImageStore. The zero
// handle is unbound.
type ImageHandle uint64

// MeshStore is the external mesh sink. The renderer writes each
// entity's vertex and index buffers into the mesh resolved from the
// entity's handle.
type MeshStore interface {
	// Mesh resolves h, allocating an empty mesh when h is unbound, and
	// returns the handle the mesh is stored under together with the
	// mesh itself. A nil mesh signals unresolvable storage; the
	// renderer then skips the entity for the pass and retries on the
	// next one.
	Mesh(h MeshHandle) (MeshHandle, *MeshData)
}

// ImageStore is the external image sink. The renderer binds the live
// atlas image here every pass so hosts always find the current pixels,
// including after an adopted prewarm atlas swapped the image out.
type ImageStore interface {
	// BindImage associates img with h, allocating a handle when h is
	// unbound, and returns the handle.
	BindImage(h ImageHandle, img *AtlasImage) ImageHandle

	// Image returns the image bound to h, or nil when h is unbound.
	Image(h ImageHandle) *AtlasImage
}

// Assets is an in-memory MeshStore and ImageStore for hosts without an
// asset system of their own, and for tests.
type Assets struct {
	meshes    map[MeshHandle]*MeshData
	images    map[ImageHandle]*AtlasImage
	nextMesh  MeshHandle
	nextImage ImageHandle
}

// NewAssets creates an empty asset store.
func NewAssets() *Assets {
	return &Assets{
		meshes: make(map[MeshHandle]*MeshData),
		images: make(map[ImageHandle]*AtlasImage),
	}
}

// Mesh implements MeshStore.
func (a *Assets) Mesh(h MeshHandle) (MeshHandle, *MeshData) {
	if m, ok := a.meshes[h]; ok {
		return h, m
	}
	a.nextMesh++
	m := &MeshData{}
	a.meshes[a.nextMesh] = m
	return a.nextMesh, m
}

// BindImage implements ImageStore.
func (a *Assets) BindImage(h ImageHandle, img *AtlasImage) ImageHandle {
	if h == 0 {
		a.nextImage++
		h = a.nextImage
	}
	a.images[h] = img
	return h
}

// Image implements ImageStore.
func (a *Assets) Image(h ImageHandle) *AtlasImage {
	return a.images[h]
}

// MeshCount returns the number of allocated meshes.
func (a *Assets) MeshCount() int { return len(a.meshes) }
