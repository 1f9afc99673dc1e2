package freeverb

import (
	"math"
	"testing"
)

func newTestComb(size int, feedback, damp float32) *comb {
	c := &comb{}
	c.setSize(size)
	c.setFeedbackAndDamp(feedback, damp)
	return c
}

func TestCombDelaysInput(t *testing.T) {
	c := newTestComb(5, 0, 0)

	for i := range 12 {
		x := float32(0)
		if i == 0 {
			x = 1
		}

		out := c.process(x)

		want := float32(0)
		if i == 5 {
			want = 1
		}
		if out != want {
			t.Fatalf("sample %d: got %v, want %v", i, out, want)
		}
	}
}

func TestCombFeedbackEchoes(t *testing.T) {
	c := newTestComb(3, 0.5, 0)

	want := map[int]float32{3: 1, 6: 0.5, 9: 0.25, 12: 0.125}
	for i := range 13 {
		x := float32(0)
		if i == 0 {
			x = 1
		}

		out := c.process(x)
		if out != want[i] {
			t.Fatalf("sample %d: got %v, want %v", i, out, want[i])
		}
	}
}

func TestCombDampingSmoothsFeedback(t *testing.T) {
	c := newTestComb(2, 1, 0.5)

	// The first echo passes through the one-pole low-pass: last = 1*0.5 + 0*0.5.
	c.process(1)
	c.process(0)
	if out := c.process(0); out != 1 {
		t.Fatalf("echo = %v, want 1", out)
	}
	if c.last != 0.5 {
		t.Fatalf("last = %v, want 0.5", c.last)
	}
	if c.buffer[0] != 0.5 {
		t.Fatalf("written = %v, want 0.5", c.buffer[0])
	}
}

func TestCombSetFeedbackAndDamp(t *testing.T) {
	c := &comb{}
	c.setFeedbackAndDamp(0.84, 0.2)

	if c.feedback != 0.84 {
		t.Fatalf("feedback = %v", c.feedback)
	}
	if c.damp1 != 0.2 || c.damp1+c.damp2 != 1 {
		t.Fatalf("damp1=%v damp2=%v", c.damp1, c.damp2)
	}
}

func TestCombSetSizeClears(t *testing.T) {
	c := newTestComb(4, 0.7, 0.3)
	for range 6 {
		c.process(1)
	}

	buf := c.buffer
	c.setSize(4)
	if &c.buffer[0] != &buf[0] {
		t.Fatal("same-size setSize reallocated the buffer")
	}
	assertCombCleared(t, c)

	c.process(1)
	c.setSize(7)
	if len(c.buffer) != 7 {
		t.Fatalf("len = %d, want 7", len(c.buffer))
	}
	assertCombCleared(t, c)

	if c.feedback != 0.7 {
		t.Fatalf("setSize changed feedback to %v", c.feedback)
	}
}

func TestCombClearKeepsSizeAndCoefficients(t *testing.T) {
	c := newTestComb(4, 0.7, 0.3)
	for range 3 {
		c.process(1)
	}

	c.clear()

	for i, v := range c.buffer {
		if v != 0 {
			t.Fatalf("buffer[%d] = %v after clear", i, v)
		}
	}
	if c.last != 0 || len(c.buffer) != 4 || c.feedback != 0.7 || c.damp1 != 0.3 {
		t.Fatalf("unexpected state after clear: %+v", c)
	}
}

func TestCombFlushesDenormals(t *testing.T) {
	c := newTestComb(1, 1, 0)
	subnormal := math.Float32frombits(0x00000400)
	c.buffer[0] = subnormal

	if out := c.process(0); out != subnormal {
		t.Fatalf("output = %v, want stored value", out)
	}
	if c.last != 0 {
		t.Fatalf("last = %v, want flushed 0", c.last)
	}
	if c.buffer[0] != 0 {
		t.Fatalf("written = %v, want flushed 0", c.buffer[0])
	}
}

func assertCombCleared(t *testing.T, c *comb) {
	t.Helper()

	if c.index != 0 {
		t.Fatalf("index = %d, want 0", c.index)
	}
	if c.last != 0 {
		t.Fatalf("last = %v, want 0", c.last)
	}
	for i, v := range c.buffer {
		if v != 0 {
			t.Fatalf("buffer[%d] = %v, want 0", i, v)
		}
	}
}
