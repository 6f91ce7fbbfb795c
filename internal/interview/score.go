package interview

import (
	"regexp"
	"strconv"
)

var (
	labelledScore = regexp.MustCompile(`(?i)score[^0-9\n]{0,20}(\d+(?:\.\d+)?)\s*(?:/|out of)\s*10\b`)
	bareScore     = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:/|out of)\s*10\b`)
)

// ParseScore reads an "N/10" grade out of free-form critique text. It
// returns nil when no grade in [0, 10] is found.
func ParseScore(critique string) *float64 {
	for _, re := range []*regexp.Regexp{labelledScore, bareScore} {
		m := re.FindStringSubmatch(critique)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v < 0 || v > 10 {
			continue
		}
		return &v
	}
	return nil
}
