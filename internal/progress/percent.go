package progress

import (
	"math"
	"strconv"
)

// Percentage returns 100*part/total rounded to two decimals, half away from zero.
// It is 0 when total is 0.
func Percentage(part, total int) float64 {
	if total == 0 || part == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}

// FormatPercentage renders p with the fewest digits needed: 50, 33.33, 0.
func FormatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}
