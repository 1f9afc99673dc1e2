package freeverb

import (
	"errors"
	"fmt"
	"math"
)

const (
	numChannels  = 2
	numCombs     = 8
	numAllpasses = 4

	// stereoSpread is added to the right-channel tunings before rate scaling.
	stereoSpread = 23

	referenceSampleRate = 44100

	// maxSampleRate keeps the integer length arithmetic far from overflow.
	maxSampleRate = 1 << 24
)

// Tunings in samples at 44.1 kHz.
var (
	combTunings    = [numCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTunings = [numAllpasses]int{556, 441, 341, 225}
)

// ErrInvalidSampleRate is returned for sample rates that cannot size the delay lines.
var ErrInvalidSampleRate = errors.New("freeverb: invalid sample rate")

// CombLength returns the delay-line length of comb filter index on channel
// (0 = left, 1 = right) at sampleRate. The rate is truncated to whole hertz
// and the result is floor(rate*tuning/44100).
func CombLength(sampleRate float64, channel, index int) int {
	return scaledLength(sampleRate, combTunings[index], channel)
}

// AllpassLength returns the delay-line length of allpass filter index on
// channel at sampleRate, using the same scaling as CombLength.
func AllpassLength(sampleRate float64, channel, index int) int {
	return scaledLength(sampleRate, allpassTunings[index], channel)
}

func scaledLength(sampleRate float64, tuning, channel int) int {
	if channel != 0 {
		tuning += stereoSpread
	}

	return int(sampleRate) * tuning / referenceSampleRate
}

func validateSampleRate(sampleRate float64) error {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 || sampleRate > maxSampleRate {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	if shortest := AllpassLength(sampleRate, 0, numAllpasses-1); shortest < 1 {
		return fmt.Errorf("%w: %f Hz leaves a %d-sample delay line", ErrInvalidSampleRate, sampleRate, shortest)
	}

	return nil
}
