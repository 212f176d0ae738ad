package models

import "math"

// RoundMoney rounds an amount to cents.
func RoundMoney(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // normalise -0
	}
	return r
}
