package utils

import "math"

// Round rounds a number to 2 decimal places for monetary calculations
func Round(num float64) float64 {
	return math.Round(num*MoneyPrecision) / MoneyPrecision
}

// SplitEvenly divides total into n equal rounded installments, folding the
// rounding remainder into the last one so the parts sum exactly to total.
func SplitEvenly(total float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	base := Round(total / float64(n))
	parts := make([]float64, n)
	var running float64
	for i := 0; i < n-1; i++ {
		parts[i] = base
		running += base
	}
	parts[n-1] = Round(total - running)
	return parts
}
