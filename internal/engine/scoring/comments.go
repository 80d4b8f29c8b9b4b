package scoring

// CommentHealth maps a comment ratio (0..1) to a 0..1 score: a linear ramp
// from 0 at 0% to 1 at 6%, a plateau up to 25%, a linear fall to 0 at 60%.
func CommentHealth(ratio float64) float64 {
	switch {
	case ratio <= 0:
		return 0
	case ratio < 0.06:
		return ratio / 0.06
	case ratio <= 0.25:
		return 1
	case ratio >= 0.60:
		return 0
	default:
		return 1 - (ratio-0.25)/(0.60-0.25)
	}
}
