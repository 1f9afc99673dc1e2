package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=48000 blockSize=256
}

func ExampleDeinterleave() {
	left := make([]float32, 2)
	right := make([]float32, 2)

	n := core.Deinterleave([][]float32{left, right}, []float32{1, 2, 3, 4})
	fmt.Println(n, left, right)

	// Output:
	// 2 [1 3] [2 4]
}
