package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine[F core.Sample](freqHz, sampleRate, amplitude float64, length int) []F {
	out := make([]F, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = F(amplitude * math.Sin(step*float64(i)))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise[F core.Sample](seed int64, amplitude float64, length int) []F {
	out := make([]F, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = F((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse[F core.Sample](length, pos int) []F {
	out := make([]F, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Widen converts float32 samples to float64 for analysis.
func Widen(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}
