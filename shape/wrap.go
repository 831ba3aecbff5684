package shape

import "unicode"

// breakClass groups runes by line breaking behavior, a reduced form of
// UAX #14.
type breakClass uint8

const (
	breakOther breakClass = iota
	breakSpace
	breakZero
	breakOpen
	breakClose
	breakHyphen
	breakIdeographic
)

// classifyRune returns the break class of a rune.
func classifyRune(r rune) breakClass {
	switch r {
	case ' ', '\t':
		return breakSpace
	case '\u200B': // Zero-width space
		return breakZero
	case '(', '[', '{', '\u201C', '\u2018':
		return breakOpen
	case ')', ']', '}', '\u201D', '\u2019':
		return breakClose
	case '-', '\u2010', '\u2011', '\u2013', '\u2014':
		return breakHyphen
	}
	if isCJK(r) {
		return breakIdeographic
	}
	return breakOther
}

// isCJK reports whether the rune is a CJK character that allows
// breaking on either side.
func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || // CJK Unified Ideographs
		(r >= 0x3400 && r <= 0x4DBF) || // CJK Extension A
		(r >= 0x20000 && r <= 0x2A6DF) || // CJK Extension B
		(r >= 0x3040 && r <= 0x309F) || // Hiragana
		(r >= 0x30A0 && r <= 0x30FF) || // Katakana
		(r >= 0xAC00 && r <= 0xD7AF) || // Hangul Syllables
		(r >= 0xFF00 && r <= 0xFFEF) // Fullwidth forms
}

// breakOpportunities reports, per rune index, whether a line may break
// before that rune. Index 0 is always false.
func breakOpportunities(runes []rune) []bool {
	breaks := make([]bool, len(runes))
	if len(runes) == 0 {
		return breaks
	}

	classes := make([]breakClass, len(runes))
	for i, r := range runes {
		classes[i] = classifyRune(r)
	}
	for i := 1; i < len(runes); i++ {
		breaks[i] = canBreakBefore(classes[i-1], classes[i])
	}
	return breaks
}

// canBreakBefore decides a break opportunity between two adjacent
// classes.
func canBreakBefore(prev, curr breakClass) bool {
	// No break before closing or after opening punctuation.
	if curr == breakClose || prev == breakOpen {
		return false
	}
	if prev == breakSpace || prev == breakZero {
		return true
	}
	if prev == breakHyphen && curr != breakHyphen {
		return true
	}
	// Ideographs break on both sides.
	if curr == breakIdeographic {
		return true
	}
	if prev == breakIdeographic {
		return true
	}
	return false
}

// lineRange is one wrapped line as a half-open rune range into the
// paragraph.
type lineRange struct {
	start, end int
}

// cutLines cuts a paragraph greedily against maxWidth. prefix[i] is
// the pen position before rune i, so prefix[i+1]-prefix[start] is the
// width of [start, i]. Breaks happen at the last opportunity seen on
// the line, falling back to a character break for long words, and
// never cut an empty line. Whitespace consumed by a wrap belongs to no
// line. A non-positive maxWidth disables wrapping.
func cutLines(runes []rune, prefix []float64, breaks []bool, maxWidth float64) []lineRange {
	n := len(runes)
	if maxWidth <= 0 {
		return []lineRange{{0, n}}
	}

	var out []lineRange
	start := 0
	for start < n {
		end := n
		last := -1
		for i := start; i < n; i++ {
			if i > start && breaks[i] {
				last = i
			}
			if prefix[i+1]-prefix[start] > maxWidth && i > start {
				if last > start {
					end = last
				} else {
					end = i
				}
				break
			}
		}

		out = append(out, lineRange{start: start, end: end})
		start = end
		for start < n && unicode.IsSpace(runes[start]) {
			start++
		}
	}
	return out
}
