package fontdb

import (
	"errors"
	"math"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textmesh"
)

// newTestDB returns a database with Go Regular registered.
func newTestDB(t *testing.T) (*Database, textmesh.FontID) {
	t.Helper()
	db := New()
	id, err := db.Register(goregular.TTF)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return db, id
}

// recordingSink counts path commands and tracks coordinate bounds.
type recordingSink struct {
	moves, lines, quads, cubes, closes int

	minX, minY, maxX, maxY float64
	seen                   bool
}

func (s *recordingSink) point(x, y float64) {
	if !s.seen {
		s.minX, s.maxX = x, x
		s.minY, s.maxY = y, y
		s.seen = true
		return
	}
	s.minX = math.Min(s.minX, x)
	s.maxX = math.Max(s.maxX, x)
	s.minY = math.Min(s.minY, y)
	s.maxY = math.Max(s.maxY, y)
}

func (s *recordingSink) MoveTo(x, y float64) { s.moves++; s.point(x, y) }
func (s *recordingSink) LineTo(x, y float64) { s.lines++; s.point(x, y) }

func (s *recordingSink) QuadTo(cx, cy, x, y float64) {
	s.quads++
	s.point(cx, cy)
	s.point(x, y)
}

func (s *recordingSink) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.cubes++
	s.point(c1x, c1y)
	s.point(c2x, c2y)
	s.point(x, y)
}

func (s *recordingSink) Close() { s.closes++ }

func TestDatabase_Register_ReadsFamilyAndWeight(t *testing.T) {
	db, id := newTestDB(t)

	if got := db.Family(id); got != "Go" {
		t.Errorf("Family = %q, want %q", got, "Go")
	}
	if got := db.Weight(id); got != textmesh.WeightNormal {
		t.Errorf("Weight = %d, want %d", got, textmesh.WeightNormal)
	}
	if db.NumFaces() != 1 {
		t.Errorf("NumFaces = %d, want 1", db.NumFaces())
	}
	if db.UnitsPerEm(id) <= 0 {
		t.Error("expected positive units per em")
	}
	if db.ShapingFont(id) == nil {
		t.Error("expected non-nil shaping font")
	}
}

func TestDatabase_Register_EmptyData(t *testing.T) {
	db := New()
	if _, err := db.Register(nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("Register(nil) error = %v, want ErrEmptyFontData", err)
	}
}

func TestDatabase_Register_InvalidData(t *testing.T) {
	db := New()
	if _, err := db.Register([]byte("definitely not a font")); err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestDatabase_Resolve_WeightMatching(t *testing.T) {
	db := New()
	regular, err := db.Register(goregular.TTF)
	if err != nil {
		t.Fatalf("Register regular failed: %v", err)
	}
	bold, err := db.Register(gobold.TTF)
	if err != nil {
		t.Fatalf("Register bold failed: %v", err)
	}
	if db.Weight(bold) != textmesh.WeightBold {
		t.Fatalf("bold face weight = %d, want %d", db.Weight(bold), textmesh.WeightBold)
	}

	tests := []struct {
		name   string
		weight textmesh.Weight
		want   textmesh.FontID
	}{
		{"exact regular", textmesh.WeightNormal, regular},
		{"exact bold", textmesh.WeightBold, bold},
		{"nearer bold", 600, bold},
		{"tie goes lighter", 550, regular},
		{"below range", 100, regular},
		{"above range", 900, bold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := db.Resolve("Go", tt.weight)
			if !ok {
				t.Fatal("Resolve reported no face")
			}
			if id != tt.want {
				t.Errorf("Resolve(Go, %d) = %d, want %d", tt.weight, id, tt.want)
			}
		})
	}
}

func TestDatabase_Resolve_FamilyFallback(t *testing.T) {
	db, id := newTestDB(t)

	if got, ok := db.Resolve("", textmesh.WeightNormal); !ok || got != id {
		t.Errorf("Resolve(empty) = %d, %v, want %d, true", got, ok, id)
	}
	if got, ok := db.Resolve("go", textmesh.WeightNormal); !ok || got != id {
		t.Errorf("Resolve is not case-insensitive: got %d, %v", got, ok)
	}
	if got, ok := db.Resolve("No Such Family", textmesh.WeightNormal); !ok || got != id {
		t.Errorf("unknown family should fall back: got %d, %v", got, ok)
	}
}

func TestDatabase_Resolve_EmptyDatabase(t *testing.T) {
	db := New()
	if _, ok := db.Resolve("Go", textmesh.WeightNormal); ok {
		t.Error("empty database should not resolve")
	}
}

func TestDatabase_Glyph_MapsRunes(t *testing.T) {
	db, id := newTestDB(t)

	if db.Glyph(id, 'A') == 0 {
		t.Error("expected non-zero glyph index for 'A'")
	}
	if got := db.Glyph(id, '\U000E0007'); got != 0 {
		t.Errorf("unmapped rune glyph = %d, want 0", got)
	}
	if got := db.Glyph(99, 'A'); got != 0 {
		t.Errorf("unknown face glyph = %d, want 0", got)
	}
}

func TestDatabase_Outline_WalksClosedContours(t *testing.T) {
	db, id := newTestDB(t)
	gid := db.Glyph(id, 'O')
	if gid == 0 {
		t.Fatal("no glyph for 'O'")
	}

	var sink recordingSink
	if !db.Outline(id, gid, 64, &sink) {
		t.Fatal("Outline reported no outline for 'O'")
	}

	// 'O' has an outer and an inner contour, each closed once.
	if sink.moves < 2 {
		t.Errorf("moves = %d, want at least 2", sink.moves)
	}
	if sink.closes != sink.moves {
		t.Errorf("closes = %d, want %d (one per contour)", sink.closes, sink.moves)
	}
	if sink.quads == 0 && sink.cubes == 0 {
		t.Error("expected curved segments in 'O'")
	}

	// Outline coordinates are y-down with the baseline at zero, so the
	// letter body lies at negative y and spans a sane fraction of the em.
	if sink.minY >= 0 {
		t.Errorf("minY = %v, want negative (above baseline)", sink.minY)
	}
	height := sink.maxY - sink.minY
	if height < 16 || height > 96 {
		t.Errorf("outline height = %v, want within [16, 96] at 64 ppem", height)
	}
}

func TestDatabase_Outline_SpaceHasNoOutline(t *testing.T) {
	db, id := newTestDB(t)
	gid := db.Glyph(id, ' ')
	if gid == 0 {
		t.Fatal("no glyph for space")
	}

	var sink recordingSink
	if db.Outline(id, gid, 32, &sink) {
		t.Error("space glyph should report no outline")
	}
	if sink.moves != 0 {
		t.Errorf("space emitted %d moves", sink.moves)
	}
}

func TestDatabase_Outline_UnknownFace(t *testing.T) {
	db, _ := newTestDB(t)
	var sink recordingSink
	if db.Outline(42, 1, 32, &sink) {
		t.Error("unknown face should report no outline")
	}
}

func TestDatabase_Advance_ScalesWithSize(t *testing.T) {
	db, id := newTestDB(t)
	gid := db.Glyph(id, 'A')

	adv16 := db.Advance(id, gid, 16)
	adv32 := db.Advance(id, gid, 32)
	if adv16 <= 0 || adv16 >= 16 {
		t.Errorf("advance at 16px = %v, want within (0, 16)", adv16)
	}
	if math.Abs(adv32-2*adv16) > 0.05 {
		t.Errorf("advance at 32px = %v, want about %v", adv32, 2*adv16)
	}
}

func TestDatabase_Decoration_Underline(t *testing.T) {
	db, id := newTestDB(t)

	pos, thick := db.Decoration(id, textmesh.DecorUnderline, 16)
	if thick <= 0 {
		t.Fatalf("underline thickness = %v, want positive", thick)
	}
	if pos >= 0 {
		t.Errorf("underline center = %v, want below baseline", pos)
	}

	// Table metrics scale linearly with the font size.
	pos32, thick32 := db.Decoration(id, textmesh.DecorUnderline, 32)
	if thick32 != 2*thick {
		t.Errorf("thickness at 32px = %v, want %v", thick32, 2*thick)
	}
	if math.Abs(pos32-2*pos) > 1e-9 {
		t.Errorf("position at 32px = %v, want about %v", pos32, 2*pos)
	}
}

func TestDatabase_Decoration_Strikethrough(t *testing.T) {
	db, id := newTestDB(t)

	pos, thick := db.Decoration(id, textmesh.DecorStrikethrough, 16)
	if thick <= 0 {
		t.Fatalf("strikethrough thickness = %v, want positive", thick)
	}
	if pos <= 0 {
		t.Errorf("strikethrough center = %v, want above baseline", pos)
	}
}

func TestDatabase_Decoration_UnknownFaceOrKind(t *testing.T) {
	db, id := newTestDB(t)

	if pos, thick := db.Decoration(7, textmesh.DecorUnderline, 16); pos != 0 || thick != 0 {
		t.Errorf("unknown face decoration = %v, %v, want zeros", pos, thick)
	}
	if pos, thick := db.Decoration(id, textmesh.DecorationKind(99), 16); pos != 0 || thick != 0 {
		t.Errorf("unknown kind decoration = %v, %v, want zeros", pos, thick)
	}
}

func TestDatabase_Metrics(t *testing.T) {
	db, id := newTestDB(t)

	m, ok := db.Metrics(id, 24)
	if !ok {
		t.Fatal("Metrics reported no face")
	}
	if m.Ascent <= 0 || m.Ascent > 48 {
		t.Errorf("ascent = %v, want within (0, 48)", m.Ascent)
	}
	if m.Descent <= 0 || m.Descent > 24 {
		t.Errorf("descent = %v, want within (0, 24)", m.Descent)
	}
	if m.LineGap < 0 {
		t.Errorf("line gap = %v, want non-negative", m.LineGap)
	}
}

func TestFontTable_Lookup(t *testing.T) {
	if got := fontTable(goregular.TTF, tagPost); len(got) < 12 {
		t.Errorf("post table length = %d, want at least 12", len(got))
	}
	if got := fontTable(goregular.TTF, 0x41414141); got != nil {
		t.Error("bogus tag should not resolve")
	}
	if got := fontTable(goregular.TTF[:8], tagPost); got != nil {
		t.Error("truncated data should not resolve")
	}
	if got := fontTable([]byte("garbage file magic!!"), tagPost); got != nil {
		t.Error("unknown magic should not resolve")
	}
}

func TestDatabase_ConcurrentOutlines(t *testing.T) {
	db, id := newTestDB(t)
	gid := db.Glyph(id, 'A')

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				var sink recordingSink
				if !db.Outline(id, gid, 32, &sink) {
					errs <- errors.New("outline failed under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
