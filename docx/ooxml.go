package docx

import "math"

// OOXML length units. Page geometry and indents are stored in twips
// (twentieths of a point), font sizes in half-points, border widths in
// eighths of a point, and drawing extents in EMUs.
const (
	twipsPerPoint = 20
	twipsPerCm    = 567
	emusPerCm     = 360000
)

func cmToTwips(cm float64) int {
	return int(math.Round(cm * twipsPerCm))
}

func twipsToCm(twips float64) float64 {
	return twips / twipsPerCm
}

func ptToTwips(pt float64) int {
	return int(math.Round(pt * twipsPerPoint))
}

func ptToHalfPoints(pt float64) int {
	return int(math.Round(pt * 2))
}

func ptToEighths(pt float64) int {
	return int(math.Round(pt * 8))
}

func cmToEMU(cm float64) int64 {
	return int64(math.Round(cm * emusPerCm))
}

// lineSpacingToTwips converts a spacing multiple to the w:spacing line
// value, which counts 240ths of a line.
func lineSpacingToTwips(multiple float64) int {
	return int(math.Round(multiple * 240))
}
