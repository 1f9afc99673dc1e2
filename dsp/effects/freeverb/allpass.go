package freeverb

import "github.com/cwbudde/algo-reverb/dsp/core"

const allpassFeedback = 0.5

// allpass is a Schroeder allpass diffuser with a fixed 0.5 coefficient.
type allpass struct {
	buffer []float32
	index  int
}

func (a *allpass) setSize(n int) {
	if n != len(a.buffer) {
		a.buffer = make([]float32, n)
	}

	a.index = 0
	a.clear()
}

func (a *allpass) clear() {
	core.Zero(a.buffer)
}

func (a *allpass) process(input float32) float32 {
	buffered := a.buffer[a.index]
	a.buffer[a.index] = core.FlushDenormal32(input + buffered*allpassFeedback)

	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}

	return buffered - input
}
