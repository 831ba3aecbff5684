package fontdb

import "encoding/binary"

// Table tags and file magics in the sfnt directory.
const (
	tagOS2  = 0x4F532F32 // "OS/2"
	tagPost = 0x706F7374 // "post"

	magicTrueType = 0x00010000
	magicOTTO     = 0x4F54544F // CFF outlines
	magicAppleTT  = 0x74727565 // "true", older Apple fonts
)

// decoTable carries the decoration metrics and weight class read from
// a face's post and OS/2 tables, in font design units. Position values
// are the top edge of the bar relative to the baseline, y up. A zero
// or negative thickness means the table was absent or declined to
// suggest one; callers fall back to size fractions.
type decoTable struct {
	underlinePosition  int16
	underlineThickness int16

	strikeoutPosition int16
	strikeoutSize     int16

	weightClass uint16
}

// readDecoTable extracts decoration metrics from raw font data.
func readDecoTable(data []byte) decoTable {
	var t decoTable

	// post: underlinePosition at offset 8, underlineThickness at 10.
	if post := fontTable(data, tagPost); len(post) >= 12 {
		t.underlinePosition = int16(binary.BigEndian.Uint16(post[8:10]))
		t.underlineThickness = int16(binary.BigEndian.Uint16(post[10:12]))
	}

	// OS/2: usWeightClass at offset 4, yStrikeoutSize at 26,
	// yStrikeoutPosition at 28.
	if os2 := fontTable(data, tagOS2); len(os2) >= 30 {
		t.weightClass = binary.BigEndian.Uint16(os2[4:6])
		t.strikeoutSize = int16(binary.BigEndian.Uint16(os2[26:28]))
		t.strikeoutPosition = int16(binary.BigEndian.Uint16(os2[28:30]))
	}

	return t
}

// fontTable locates a table by tag in an sfnt table directory and
// returns its bytes, or nil when the file magic is unknown or the
// table is absent or out of bounds.
func fontTable(data []byte, tag uint32) []byte {
	if len(data) < 12 {
		return nil
	}
	switch binary.BigEndian.Uint32(data[0:4]) {
	case magicTrueType, magicOTTO, magicAppleTT:
	default:
		return nil
	}

	// The directory is 16 byte records after the 12 byte header.
	const headerSize, recordSize = 12, 16
	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	if headerSize+numTables*recordSize > len(data) {
		return nil
	}

	for i := 0; i < numTables; i++ {
		rec := data[headerSize+i*recordSize:]
		if binary.BigEndian.Uint32(rec[0:4]) != tag {
			continue
		}
		offset := int(binary.BigEndian.Uint32(rec[8:12]))
		length := int(binary.BigEndian.Uint32(rec[12:16]))
		if offset > len(data) || length > len(data)-offset {
			return nil
		}
		return data[offset : offset+length]
	}
	return nil
}
