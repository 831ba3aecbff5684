package shape

import (
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/textmesh"
)

// maybeRTL reports whether any rune could carry a right-to-left
// property, gating the full bidi resolution most text never needs.
// Every right-to-left codepoint sits at or above the Hebrew block.
func maybeRTL(runes []rune) bool {
	for _, r := range runes {
		if r >= 0x0590 {
			return true
		}
	}
	return false
}

// resolveBidiLevels fills levels with the embedding level per rune,
// collapsed to 0 for left-to-right and 1 for right-to-left runs.
// Paragraph direction is derived from the first strong character.
func resolveBidiLevels(text string, levels []int) {
	p := bidi.Paragraph{}
	_, _ = p.SetString(text, bidi.DefaultDirection(bidi.Neutral))

	ordering, err := p.Order()
	if err != nil {
		textmesh.Logger().Debug("shape: bidi resolution failed", "err", err)
		return
	}

	// run.Pos() returns rune indices, end inclusive.
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		startRune, endRune := run.Pos()
		runLevel := 0
		if run.Direction() == bidi.RightToLeft {
			runLevel = 1
		}
		for j := startRune; j <= endRune && j < len(levels); j++ {
			levels[j] = runLevel
		}
	}
}
