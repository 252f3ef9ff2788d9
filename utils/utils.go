package utils

import (
	"math"
)

func Deg(rads float64) float64 {
	return rads / (math.Pi / 180)
}

func Rad(degrees float64) float64 {
	return (math.Pi / 180) * degrees
}

// Clamp returns v limited to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// NormalizeHeading returns the given heading (in degrees) wrapped into the
// range (-180, 180].
func NormalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h <= -180 {
		h += 360
	} else if h > 180 {
		h -= 360
	}

	return h
}
