package promptcraft

import (
	"regexp"
	"strconv"
)

// DefaultScore is used when the judge's reply holds no number.
const DefaultScore = 0.5

// DefaultThreshold is the score below which a prompt is critiqued.
const DefaultThreshold = 0.7

var scoreRegex = regexp.MustCompile(`\d+(?:\.\d+)?|\.\d+`) //nolint:gochecknoglobals

// ParseScore reads the first decimal literal in a judge reply. A reply with
// no number yields DefaultScore. Values above 1.0 are returned as-is.
func ParseScore(raw string) float64 {
	m := scoreRegex.FindString(StripThinkBlocks(raw))
	if m == "" {
		return DefaultScore
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return DefaultScore
	}
	return v
}

// issueFound is the quality gate applied after every evaluation.
func issueFound(score, threshold float64) bool {
	return score < threshold
}
