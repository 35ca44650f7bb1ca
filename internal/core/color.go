package core

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// CategoryHue maps a category label to a hue in [0, 360).
//
// The hash walks UTF-16 code units and mirrors JavaScript semantics
// (hash = code + ((hash << 5) - hash), with the shift done on int32), so a
// label keeps the color it had in ledgers written by the browser tracker.
func CategoryHue(category string) int {
	var hash float64
	for _, unit := range utf16.Encode([]rune(category)) {
		shifted := int32(int64(hash)) << 5
		hash = float64(unit) + (float64(shifted) - hash)
	}
	return int(math.Mod(math.Abs(hash), 360))
}

// CategoryColor returns the display color of a category as a CSS color.
func CategoryColor(category string) string {
	return fmt.Sprintf("hsl(%d 80%% 45%% / 0.95)", CategoryHue(category))
}

// BadgeLetter is the upper-cased first character of the category.
func BadgeLetter(category string) string {
	r, size := utf8.DecodeRuneInString(category)
	if size == 0 {
		return ""
	}
	return strings.ToUpper(string(r))
}
