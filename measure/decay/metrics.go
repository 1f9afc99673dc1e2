package decay

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

const (
	defaultSplitHz    = 2000.0
	defaultWindowSecs = 0.05

	// sustainMarginDB is the largest head-to-tail loss still treated as sustained.
	sustainMarginDB = 3.0
)

// Metrics summarises a rendered impulse response.
type Metrics struct {
	RT60        float64 // seconds; 0 when the tail does not decay (see Sustained)
	Sustained   bool    // tail window within 3 dB of the head window
	PeakIndex   int     // sample index of the absolute maximum
	HeadDB      float64 // energy of the first window, dB
	TailDB      float64 // energy of the last window, dB
	HFLFRatioDB float64 // energy above SplitHz relative to energy below it, dB
}

// Analyzer computes Metrics for impulse responses at a fixed sample rate.
type Analyzer struct {
	SampleRate float64
	// SplitHz divides the low and high bands for HFLFRatioDB.
	SplitHz float64
	// WindowSeconds is the length of the head and tail energy windows.
	WindowSeconds float64
}

// NewAnalyzer creates an analyzer with a 2 kHz band split and 50 ms windows.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{
		SampleRate:    sampleRate,
		SplitHz:       defaultSplitHz,
		WindowSeconds: defaultWindowSecs,
	}
}

// Analyze computes all metrics for ir.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if len(ir) == 0 {
		return Metrics{}, ErrEmpty
	}

	if a.SampleRate <= 0 {
		return Metrics{}, ErrInvalidSampleRate
	}

	m := Metrics{PeakIndex: peakIndex(ir)}

	rt, err := RT60(ir, a.SampleRate)
	if err != nil && !errors.Is(err, ErrNoDecay) {
		return Metrics{}, err
	}

	window := max(int(a.WindowSeconds*a.SampleRate), 1)
	window = min(window, len(ir))
	m.HeadDB = core.LinearPowerToDB(Energy(ir[:window]))
	m.TailDB = core.LinearPowerToDB(TailEnergy(ir, window))

	m.Sustained = !math.IsInf(m.TailDB, -1) && m.TailDB >= m.HeadDB-sustainMarginDB
	if !m.Sustained {
		m.RT60 = rt
	}

	split := a.SplitHz
	if split <= 0 || split >= a.SampleRate/2 {
		split = a.SampleRate / 4
	}

	low, err := BandEnergy(ir, a.SampleRate, 0, split)
	if err != nil {
		return Metrics{}, err
	}

	high, err := BandEnergy(ir, a.SampleRate, split, a.SampleRate)
	if err != nil {
		return Metrics{}, err
	}

	if low > 0 {
		m.HFLFRatioDB = core.LinearPowerToDB(high / low)
	}

	return m, nil
}
