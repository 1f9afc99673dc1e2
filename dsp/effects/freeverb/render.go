package freeverb

import "github.com/cwbudde/algo-reverb/dsp/core"

// RenderImpulse resets r and returns its stereo response to a unit impulse
// applied to both channels, n frames long. Processing runs in blocks of the
// configured block size, as a host would drive it. The result includes the
// dry path; set DryLevel to 0 beforehand for the bare tail.
func RenderImpulse(r *Reverb, n int, opts ...core.ProcessorOption) (left, right []float32) {
	if n <= 0 {
		return nil, nil
	}

	cfg := core.ApplyProcessorOptions(opts...)

	left = make([]float32, n)
	right = make([]float32, n)
	left[0] = 1
	right[0] = 1

	r.Reset()

	for start := 0; start < n; start += cfg.BlockSize {
		end := min(start+cfg.BlockSize, n)
		r.ProcessStereo(left[start:end], right[start:end])
	}

	return left, right
}
