package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/effects/freeverb"
	"github.com/cwbudde/algo-reverb/measure/decay"
)

type preset struct {
	name   string
	params freeverb.Parameters
}

// Presets are rendered wet-only so the dry impulse does not mask the tail.
var registry = []preset{
	{"small", freeverb.Parameters{RoomSize: 0.2, Damping: 0.5, WetLevel: 0.33, Width: 1}},
	{"default", freeverb.Parameters{RoomSize: 0.5, Damping: 0.5, WetLevel: 0.33, Width: 1}},
	{"large", freeverb.Parameters{RoomSize: 0.9, Damping: 0.5, WetLevel: 0.33, Width: 1}},
	{"dark", freeverb.Parameters{RoomSize: 0.7, Damping: 1, WetLevel: 0.33, Width: 1}},
	{"bright", freeverb.Parameters{RoomSize: 0.7, Damping: 0, WetLevel: 0.33, Width: 1}},
	{"narrow", freeverb.Parameters{RoomSize: 0.5, Damping: 0.5, WetLevel: 0.33, Width: 0.1}},
}

// overrides replaces preset fields that are not NaN.
type overrides struct {
	room    float64
	damping float64
}

func (o overrides) apply(p freeverb.Parameters) freeverb.Parameters {
	if !math.IsNaN(o.room) {
		p.RoomSize = float32(o.room)
	}
	if !math.IsNaN(o.damping) {
		p.Damping = float32(o.damping)
	}
	return p
}

func resolvePresets(names []string, o overrides) []preset {
	byName := make(map[string]preset, len(registry))
	for _, p := range registry {
		byName[p.name] = p
	}

	var result []preset
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		p, ok := byName[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: unknown preset %q (use -list to see available)\n", name)
			continue
		}
		p.params = o.apply(p.params)
		result = append(result, p)
	}
	return result
}

// report is one analyzed preset.
type report struct {
	name    string
	params  freeverb.Parameters
	metrics decay.Metrics
	sideDB  float64
	rate    float64
}

// analyzePreset renders frames of the preset's impulse response and
// measures the left channel, plus the side-to-mid energy of both channels.
func analyzePreset(p preset, frames int, opts ...core.ProcessorOption) (report, error) {
	cfg := core.ApplyProcessorOptions(opts...)

	r, err := freeverb.New(freeverb.WithSampleRate(cfg.SampleRate), freeverb.WithParameters(p.params))
	if err != nil {
		return report{}, err
	}

	left, right := freeverb.RenderImpulse(r, frames, opts...)
	if len(left) == 0 {
		return report{}, decay.ErrEmpty
	}

	m, err := decay.NewAnalyzer(cfg.SampleRate).Analyze(widen(left))
	if err != nil {
		return report{}, err
	}

	return report{
		name:    p.name,
		params:  p.params,
		metrics: m,
		sideDB:  sideToMidDB(left, right),
		rate:    cfg.SampleRate,
	}, nil
}

func widen(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}

// sideToMidDB returns the energy of (L-R)/2 relative to (L+R)/2 in dB.
func sideToMidDB(left, right []float32) float64 {
	n := min(len(left), len(right))
	mid := make([]float64, n)
	side := make([]float64, n)
	for i := range n {
		l, r := float64(left[i]), float64(right[i])
		mid[i] = (l + r) / 2
		side[i] = (l - r) / 2
	}

	m := decay.Energy(mid)
	if m == 0 {
		return math.Inf(-1)
	}
	return core.LinearPowerToDB(decay.Energy(side) / m)
}

func printAnalysis(w io.Writer, reports []report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Preset\tRoom\tDamping\tWidth\tRT60 [s]\tPeak [ms]\tHead [dB]\tTail [dB]\tHF/LF [dB]\tSide/Mid [dB]\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "------\t----\t-------\t-----\t--------\t---------\t---------\t---------\t----------\t-------------\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for _, r := range reports {
		rt := fmt.Sprintf("%.3f", r.metrics.RT60)
		switch {
		case r.metrics.Sustained:
			rt = "sustained"
		case r.metrics.RT60 == 0:
			rt = "-"
		}

		if _, err := fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%s\t%.1f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			r.name,
			r.params.RoomSize,
			r.params.Damping,
			r.params.Width,
			rt,
			1000*float64(r.metrics.PeakIndex)/r.rate,
			r.metrics.HeadDB,
			r.metrics.TailDB,
			r.metrics.HFLFRatioDB,
			r.sideDB,
		); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}
