// Stereo placement

package voice

import (
	"math"
	"math/rand"
)

// Equal power gains for a pan position, 0 hard left 1 hard right.
// Mono output gets unity gain and channels beyond stereo are fed the
// centre signal.
func Gains(position float64, channels int) []float64 {
	if position < 0 {
		position = 0
	}
	if position > 1 {
		position = 1
	}
	gains := make([]float64, channels)
	for i := range gains {
		gains[i] = 1
	}
	if channels >= 2 {
		theta := position * math.Pi / 2
		gains[0] = math.Cos(theta)
		gains[1] = math.Sin(theta)
	}
	return gains
}

// A random pan position from the supplied source
func RandomPan(rnd *rand.Rand) float64 {
	return rnd.Float64()
}
