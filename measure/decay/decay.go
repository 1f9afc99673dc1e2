package decay

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

// Errors returned by the analysis functions.
var (
	ErrEmpty             = errors.New("decay: signal is empty")
	ErrInvalidSampleRate = errors.New("decay: sample rate must be positive")
	ErrInvalidBand       = errors.New("decay: invalid frequency band")
	ErrNoDecay           = errors.New("decay: insufficient decay for RT calculation")
)

// floorDB bounds the Schroeder curve once the remaining energy is zero.
const floorDB = -200

// Energy returns the sum of squares of x.
func Energy(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	sq := make([]float64, len(x))
	vecmath.MulBlock(sq, x, x)

	var sum float64
	for _, v := range sq {
		sum += v
	}

	return sum
}

// TailEnergy returns the energy of the last n samples of x.
func TailEnergy(x []float64, n int) float64 {
	n = min(n, len(x))
	if n <= 0 {
		return 0
	}

	return Energy(x[len(x)-n:])
}

// WindowEnergies splits x into consecutive windows of size samples and
// returns the energy of each. A short final window is dropped.
func WindowEnergies(x []float64, size int) []float64 {
	if size <= 0 {
		return nil
	}

	count := len(x) / size
	out := make([]float64, count)
	for i := range count {
		out[i] = Energy(x[i*size : (i+1)*size])
	}

	return out
}

// SchroederCurve computes the backward-integrated energy decay of ir in dB,
// normalised so the first sample is 0 dB.
//
//	S(t) = 10*log10( ∫_t^∞ h²(τ) dτ / ∫_0^∞ h²(τ) dτ )
func SchroederCurve(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmpty
	}

	return schroeder(ir), nil
}

func schroeder(ir []float64) []float64 {
	n := len(ir)
	result := make([]float64, n)
	vecmath.MulBlock(result, ir, ir)

	var cum float64
	for i := n - 1; i >= 0; i-- {
		cum += result[i]
		result[i] = cum
	}

	total := result[0]
	for i := range result {
		if total <= 0 || result[i] <= 0 {
			result[i] = floorDB
			continue
		}

		result[i] = 10 * math.Log10(result[i]/total)
	}

	return result
}

// RT60 estimates the time in seconds for the tail to fall by 60 dB. It fits
// the Schroeder curve between -5 and -35 dB and falls back to -5..-25 dB.
// Tails that never decay that far (frozen or still ringing) return ErrNoDecay.
func RT60(ir []float64, sampleRate float64) (float64, error) {
	if len(ir) == 0 {
		return 0, ErrEmpty
	}

	if sampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	curve := schroeder(ir[peakIndex(ir):])

	if rt := reverbTime(curve, sampleRate, -5, -35); rt > 0 {
		return rt, nil
	}

	if rt := reverbTime(curve, sampleRate, -5, -25); rt > 0 {
		return rt, nil
	}

	return 0, ErrNoDecay
}

// reverbTime fits a line to curve between startDB and endDB and
// extrapolates it to -60 dB. Zero means no usable decay.
func reverbTime(curve []float64, sampleRate, startDB, endDB float64) float64 {
	startIdx, endIdx := -1, -1

	for i, v := range curve {
		if startIdx < 0 && v <= startDB {
			startIdx = i
		}

		if startIdx >= 0 && v <= endDB {
			endIdx = i
			break
		}
	}

	if startIdx < 0 || endIdx <= startIdx {
		return 0
	}

	var sumX, sumY, sumXX, sumXY float64

	for i := startIdx; i <= endIdx; i++ {
		x := float64(i - startIdx)
		y := curve[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	nf := float64(endIdx - startIdx + 1)

	denom := nf*sumXX - sumX*sumX
	if core.NearlyEqual(denom, 0, 0) {
		return 0
	}

	// dB per sample
	slope := (nf*sumXY - sumX*sumY) / denom
	if slope >= 0 {
		return 0
	}

	return -60 / (slope * sampleRate)
}

func peakIndex(x []float64) int {
	idx := 0
	peak := 0.0

	for i, v := range x {
		if av := math.Abs(v); av > peak {
			peak = av
			idx = i
		}
	}

	return idx
}
