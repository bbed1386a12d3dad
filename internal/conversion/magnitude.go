package conversion

import "math"

// Source is the randomness used by magnitude generators. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Magnitude draws a raw customary quantity for a difficulty.
type Magnitude func(src Source, difficulty float64) float64

// Fine steps by tenths: 1 + 0.1*floor(u*difficulty).
func Fine(src Source, difficulty float64) float64 {
	k := math.Floor(src.Float64() * difficulty)
	return (10 + k) / 10
}

// Coarse steps by whole units: 1 + floor(u*difficulty).
func Coarse(src Source, difficulty float64) float64 {
	return 1 + math.Floor(src.Float64()*difficulty)
}

// Stepped returns a generator base + step*ceil(u*difficulty).
func Stepped(base, step float64) Magnitude {
	return func(src Source, difficulty float64) float64 {
		return base + step*math.Ceil(src.Float64()*difficulty)
	}
}
