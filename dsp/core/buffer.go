package core

// Sample is the set of floating-point sample types handled by the buffer helpers.
type Sample interface {
	~float32 | ~float64
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen[F Sample](buf []F, n int) []F {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]F, n)
}

// Zero sets all values in buf to 0.
func Zero[F Sample](buf []F) {
	for i := range buf {
		buf[i] = 0
	}
}

// Deinterleave splits interleaved frames into per-channel slices and returns
// the number of frames copied. Frames that do not fit every channel are dropped.
func Deinterleave[F Sample](dst [][]F, src []F) int {
	channels := len(dst)
	if channels == 0 {
		return 0
	}

	frames := len(src) / channels
	for _, ch := range dst {
		if len(ch) < frames {
			frames = len(ch)
		}
	}

	for i := range frames {
		for c := range channels {
			dst[c][i] = src[i*channels+c]
		}
	}

	return frames
}

// Interleave writes per-channel slices into dst as interleaved frames and
// returns the number of frames written.
func Interleave[F Sample](dst []F, src [][]F) int {
	channels := len(src)
	if channels == 0 {
		return 0
	}

	frames := len(dst) / channels
	for _, ch := range src {
		if len(ch) < frames {
			frames = len(ch)
		}
	}

	for i := range frames {
		for c := range channels {
			dst[i*channels+c] = src[c][i]
		}
	}

	return frames
}
