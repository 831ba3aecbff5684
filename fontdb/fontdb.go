// Package fontdb maintains a registry of parsed font faces and serves
// glyph outlines, advances and decoration metrics to the text mesh
// pipeline.
//
// Each registered face is parsed once into two forms: an sfnt font used
// for outline extraction and metrics, and a go-text font shared with
// the shaping engine. Faces are keyed by the family name and weight
// class read from the font's own tables, so callers resolve styles
// without tracking file names.
package fontdb

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/textmesh"
)

// Sentinel errors for fontdb package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("fontdb: empty font data")
)

// Database is a registry of font faces resolved by family and weight.
//
// Database implements textmesh.FontSource and is safe for concurrent
// use, including outline extraction from a prewarm goroutine while the
// render pass reads metrics. The zero value is not usable; call New.
type Database struct {
	mu       sync.RWMutex
	faces    []*face
	byFamily map[string][]textmesh.FontID

	// bufs pools sfnt scratch buffers so concurrent outline and metric
	// reads do not contend on shared state.
	bufs sync.Pool
}

// face is one parsed font face. The sfnt and go-text fonts are both
// read-only after Register and safe to share across goroutines.
type face struct {
	outline *sfnt.Font
	shaping *font.Font

	family string
	weight textmesh.Weight
	upem   float64
	deco   decoTable
}

// New creates an empty font database.
func New() *Database {
	return &Database{
		byFamily: make(map[string][]textmesh.FontID),
		bufs: sync.Pool{
			New: func() any { return new(sfnt.Buffer) },
		},
	}
}

// Register parses TTF or OTF font data and adds it as a face, reading
// the family name from the name table and the weight class from OS/2.
// The data slice is copied internally and can be reused after the call.
func (db *Database) Register(data []byte) (textmesh.FontID, error) {
	if len(data) == 0 {
		return 0, ErrEmptyFontData
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	outline, err := sfnt.Parse(dataCopy)
	if err != nil {
		return 0, fmt.Errorf("fontdb: parse font: %w", err)
	}

	// ParseTTF also accepts OTF data; the name is historical.
	shapingFace, err := font.ParseTTF(bytes.NewReader(dataCopy))
	if err != nil {
		return 0, fmt.Errorf("fontdb: parse font for shaping: %w", err)
	}

	f := &face{
		outline: outline,
		shaping: shapingFace.Font,
		upem:    float64(outline.UnitsPerEm()),
		weight:  textmesh.WeightNormal,
		deco:    readDecoTable(dataCopy),
	}
	f.family = db.familyName(outline)
	if f.deco.weightClass > 0 {
		f.weight = textmesh.Weight(f.deco.weightClass)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.faces = append(db.faces, f)
	id := textmesh.FontID(len(db.faces))
	key := strings.ToLower(f.family)
	db.byFamily[key] = append(db.byFamily[key], id)
	return id, nil
}

// RegisterFile loads and registers a font from a file path.
func (db *Database) RegisterFile(path string) (textmesh.FontID, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("fontdb: read font file: %w", err)
	}
	return db.Register(data)
}

// Resolve picks the face for a family and weight. The family match is
// case-insensitive; among the family's faces the nearest weight class
// wins, ties going to the lighter face. An empty or unknown family
// resolves against the fallback family, which is the family of the
// first registered face. Resolve reports false only when the database
// is empty.
func (db *Database) Resolve(family string, weight textmesh.Weight) (textmesh.FontID, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.faces) == 0 {
		return 0, false
	}

	ids := db.byFamily[strings.ToLower(family)]
	if len(ids) == 0 {
		ids = db.byFamily[strings.ToLower(db.faces[0].family)]
	}

	best := ids[0]
	bestDist := weightDist(db.faces[best-1].weight, weight)
	for _, id := range ids[1:] {
		d := weightDist(db.faces[id-1].weight, weight)
		if d < bestDist || (d == bestDist && db.faces[id-1].weight < db.faces[best-1].weight) {
			best, bestDist = id, d
		}
	}
	return best, true
}

// Family returns the family name the face registered under, or "".
func (db *Database) Family(id textmesh.FontID) string {
	if f := db.lookup(id); f != nil {
		return f.family
	}
	return ""
}

// Weight returns the weight class the face registered under, or 0.
func (db *Database) Weight(id textmesh.FontID) textmesh.Weight {
	if f := db.lookup(id); f != nil {
		return f.weight
	}
	return 0
}

// UnitsPerEm returns the face's design units per em, or 0.
func (db *Database) UnitsPerEm(id textmesh.FontID) float64 {
	if f := db.lookup(id); f != nil {
		return f.upem
	}
	return 0
}

// NumFaces returns the number of registered faces.
func (db *Database) NumFaces() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.faces)
}

// ShapingFont returns the parsed go-text font for the face, shared
// with the shaping engine. The returned font is read-only and safe for
// concurrent use; wrap it in a fresh shaping face per call. Returns
// nil for an unknown id.
func (db *Database) ShapingFont(id textmesh.FontID) *font.Font {
	if f := db.lookup(id); f != nil {
		return f.shaping
	}
	return nil
}

// lookup returns the face for id, or nil. FontIDs are 1-based so the
// zero FontID stays an explicit "no face" value.
func (db *Database) lookup(id textmesh.FontID) *face {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if id == 0 || int(id) > len(db.faces) {
		return nil
	}
	return db.faces[id-1]
}

// familyName extracts the family name, falling back to the full name
// and then a placeholder for fonts with broken name tables.
func (db *Database) familyName(f *sfnt.Font) string {
	buf := db.bufs.Get().(*sfnt.Buffer)
	defer db.bufs.Put(buf)

	if name, err := f.Name(buf, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(buf, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return "Unknown Font"
}

// weightDist is the distance between two weight classes.
func weightDist(a, b textmesh.Weight) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
