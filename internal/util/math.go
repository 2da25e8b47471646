package util

import (
	"math"
	"strconv"
)

// RoundToPrecision rounds a float64 to a specific number of decimal places
func RoundToPrecision(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// Percent returns part*100/whole rounded to PercentPrecision, or 0 when whole is 0
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return RoundToPrecision(part*100/whole, PercentPrecision)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
