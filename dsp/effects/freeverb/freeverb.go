package freeverb

import (
	"sync/atomic"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

// Reverb is a stereo Freeverb engine.
//
// SetParameters may race with a processing call on another goroutine: the
// damping flag is atomic and every coefficient is a single aligned float32,
// so the worst case is one block rendered with a mix of old and new
// coefficients. SetSampleRate must never overlap processing.
type Reverb struct {
	params     Parameters
	sampleRate float64

	mix mixCoefficients

	// dampingStale is set by SetParameters/SetSampleRate and consumed at the
	// start of the next processing call.
	dampingStale atomic.Bool

	combs     [numChannels][numCombs]comb
	allpasses [numChannels][numAllpasses]allpass
}

// Option mutates construction-time settings.
type Option func(*config) error

type config struct {
	sampleRate float64
	params     Parameters
}

func defaultConfig() config {
	return config{
		sampleRate: core.DefaultSampleRate,
		params:     DefaultParameters(),
	}
}

// WithSampleRate sets the initial sample rate in Hz.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *config) error {
		if err := validateSampleRate(sampleRate); err != nil {
			return err
		}

		cfg.sampleRate = sampleRate

		return nil
	}
}

// WithParameters sets the initial parameters. They are not validated.
func WithParameters(p Parameters) Option {
	return func(cfg *config) error {
		cfg.params = p
		return nil
	}
}

// New creates a reverb at 44.1 kHz with DefaultParameters unless overridden.
func New(opts ...Option) (*Reverb, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	r := &Reverb{}
	r.SetParameters(cfg.params)

	if err := r.SetSampleRate(cfg.sampleRate); err != nil {
		return nil, err
	}

	return r, nil
}

// Parameters returns the parameters last passed to SetParameters.
func (r *Reverb) Parameters() Parameters { return r.params }

// SampleRate returns the configured sample rate in Hz.
func (r *Reverb) SampleRate() float64 { return r.sampleRate }

// SetParameters stores p verbatim and updates the mix coefficients. Comb
// damping follows lazily on the next processing call.
func (r *Reverb) SetParameters(p Parameters) {
	r.mix = deriveMix(p)
	r.params = p
	r.dampingStale.Store(true)
}

// SetSampleRate resizes and clears every delay line for sampleRate.
// It allocates and is not safe to call while a block is being processed.
func (r *Reverb) SetSampleRate(sampleRate float64) error {
	if err := validateSampleRate(sampleRate); err != nil {
		return err
	}

	for i := range numCombs {
		for ch := range numChannels {
			r.combs[ch][i].setSize(CombLength(sampleRate, ch, i))
		}
	}

	for i := range numAllpasses {
		for ch := range numChannels {
			r.allpasses[ch][i].setSize(AllpassLength(sampleRate, ch, i))
		}
	}

	r.sampleRate = sampleRate
	r.dampingStale.Store(true)

	return nil
}

// Reset clears all delay-line history. Parameters and sizes are kept.
func (r *Reverb) Reset() {
	for ch := range numChannels {
		for i := range r.combs[ch] {
			r.combs[ch][i].clear()
		}
		for i := range r.allpasses[ch] {
			r.allpasses[ch][i].clear()
		}
	}
}

// ProcessStereo applies the reverb in place to min(len(left), len(right))
// frames. Both channels feed a shared mono input into the comb banks.
func (r *Reverb) ProcessStereo(left, right []float32) {
	n := min(len(left), len(right))
	if n == 0 {
		return
	}

	r.updateDampingIfStale()

	left = left[:n]
	right = right[:n]

	for i := range left {
		left[i], right[i] = r.processFrame(left[i], right[i])
	}
}

// ProcessInterleaved applies the stereo reverb in place to L/R interleaved
// frames. A trailing odd sample is left untouched.
func (r *Reverb) ProcessInterleaved(buf []float32) {
	frames := len(buf) / numChannels
	if frames == 0 {
		return
	}

	r.updateDampingIfStale()

	for i := range frames {
		j := i * numChannels
		buf[j], buf[j+1] = r.processFrame(buf[j], buf[j+1])
	}
}

// ProcessMono applies the reverb in place using only the left-channel
// filters. There is no cross-channel (wet2) term, and the dry path mixes the
// gain-scaled input rather than the raw sample.
func (r *Reverb) ProcessMono(samples []float32) {
	if len(samples) == 0 {
		return
	}

	r.updateDampingIfStale()

	mix := r.mix
	combs := &r.combs[0]
	allpasses := &r.allpasses[0]

	for i, x := range samples {
		input := x * mix.gain

		var out float32
		for j := range combs {
			out += combs[j].process(input)
		}

		for j := range allpasses {
			out = allpasses[j].process(out)
		}

		samples[i] = out*mix.wet1 + input*mix.dry
	}
}

func (r *Reverb) processFrame(l, rr float32) (float32, float32) {
	mix := r.mix
	input := (l + rr) * mix.gain

	var outL, outR float32
	for j := range numCombs {
		outL += r.combs[0][j].process(input)
		outR += r.combs[1][j].process(input)
	}

	for j := range numAllpasses {
		outL = r.allpasses[0][j].process(outL)
		outR = r.allpasses[1][j].process(outR)
	}

	return outL*mix.wet1 + outR*mix.wet2 + l*mix.dry,
		outR*mix.wet1 + outL*mix.wet2 + rr*mix.dry
}

func (r *Reverb) updateDampingIfStale() {
	if !r.dampingStale.CompareAndSwap(true, false) {
		return
	}

	feedback, damp := deriveDamping(r.params)
	for ch := range numChannels {
		for i := range r.combs[ch] {
			r.combs[ch][i].setFeedbackAndDamp(feedback, damp)
		}
	}
}
