package freeverb

import "github.com/cwbudde/algo-reverb/dsp/core"

// comb is a feedback comb filter with a one-pole low-pass in the loop.
type comb struct {
	buffer   []float32
	index    int
	feedback float32
	last     float32
	damp1    float32
	damp2    float32
}

// setSize resizes the delay line to n samples and clears it.
func (c *comb) setSize(n int) {
	if n != len(c.buffer) {
		c.buffer = make([]float32, n)
	}

	c.index = 0
	c.clear()
}

// clear zeroes the history; size and coefficients are kept.
func (c *comb) clear() {
	core.Zero(c.buffer)
	c.last = 0
}

// setFeedbackAndDamp sets loop gain f and low-pass amount d (damp1+damp2 = 1).
func (c *comb) setFeedbackAndDamp(f, d float32) {
	c.feedback = f
	c.damp1 = d
	c.damp2 = 1 - d
}

func (c *comb) process(input float32) float32 {
	output := c.buffer[c.index]

	c.last = core.FlushDenormal32(output*c.damp2 + c.last*c.damp1)
	c.buffer[c.index] = core.FlushDenormal32(input + c.last*c.feedback)

	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}

	return output
}
