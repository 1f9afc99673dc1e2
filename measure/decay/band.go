package decay

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// BandEnergy returns the spectral power of x between loHz (inclusive) and
// hiHz (exclusive). x is zero-padded to the next power of two.
func BandEnergy(x []float64, sampleRate, loHz, hiHz float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmpty
	}

	if sampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	if loHz < 0 || hiHz <= loHz || loHz >= sampleRate/2 {
		return 0, fmt.Errorf("%w: [%g, %g) Hz at %g Hz", ErrInvalidBand, loHz, hiHz, sampleRate)
	}

	power, err := powerSpectrum(x)
	if err != nil {
		return 0, err
	}

	fftSize := 2 * (len(power) - 1)
	binHz := sampleRate / float64(fftSize)

	var sum float64
	for k, p := range power {
		f := float64(k) * binHz
		if f >= loHz && f < hiHz {
			sum += p
		}
	}

	return sum, nil
}

// powerSpectrum returns |X[k]|² for the non-negative frequency bins of x.
func powerSpectrum(x []float64) ([]float64, error) {
	fftSize := nextPowerOf2(max(len(x), 2))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("decay: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range x {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("decay: forward FFT: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	return power, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
