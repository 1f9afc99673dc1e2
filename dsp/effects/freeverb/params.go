package freeverb

import "github.com/cwbudde/algo-reverb/dsp/core"

const (
	fixedGain       = 0.015
	scaleWet        = 3.0
	scaleDry        = 2.0
	scaleDamp       = 0.4
	scaleRoom       = 0.28
	offsetRoom      = 0.7
	freezeThreshold = 0.5

	defaultRoomSize   = 0.5
	defaultDamping    = 0.5
	defaultWetLevel   = 0.33
	defaultDryLevel   = 0.4
	defaultWidth      = 1.0
	defaultFreezeMode = 0.0
)

// Parameters holds the user-facing reverb controls.
//
// All fields are nominally in [0,1]. FreezeMode is continuous: values >= 0.5
// hold the current tail indefinitely and mute new input.
type Parameters struct {
	RoomSize   float32 // 0 is small, 1 is big
	Damping    float32 // 0 is undamped, 1 is fully damped
	WetLevel   float32
	DryLevel   float32
	Width      float32 // 1 is fully wide, 0 collapses the tail to mono
	FreezeMode float32
}

// DefaultParameters returns the parameters a new Reverb starts with.
func DefaultParameters() Parameters {
	return Parameters{
		RoomSize:   defaultRoomSize,
		Damping:    defaultDamping,
		WetLevel:   defaultWetLevel,
		DryLevel:   defaultDryLevel,
		Width:      defaultWidth,
		FreezeMode: defaultFreezeMode,
	}
}

// IsFrozen reports whether a FreezeMode value selects freeze.
func IsFrozen(freezeMode float32) bool {
	return freezeMode >= freezeThreshold
}

// Frozen reports whether p selects freeze mode.
func (p Parameters) Frozen() bool {
	return IsFrozen(p.FreezeMode)
}

// Clamp returns a copy of p with every field limited to [0,1].
func (p Parameters) Clamp() Parameters {
	return Parameters{
		RoomSize:   core.Clamp[float32](p.RoomSize, 0, 1),
		Damping:    core.Clamp[float32](p.Damping, 0, 1),
		WetLevel:   core.Clamp[float32](p.WetLevel, 0, 1),
		DryLevel:   core.Clamp[float32](p.DryLevel, 0, 1),
		Width:      core.Clamp[float32](p.Width, 0, 1),
		FreezeMode: core.Clamp[float32](p.FreezeMode, 0, 1),
	}
}

// mixCoefficients are the per-block output weights derived from Parameters.
type mixCoefficients struct {
	gain float32
	wet1 float32
	wet2 float32
	dry  float32
}

func deriveMix(p Parameters) mixCoefficients {
	wet := p.WetLevel * scaleWet

	gain := float32(fixedGain)
	if p.Frozen() {
		gain = 0
	}

	return mixCoefficients{
		gain: gain,
		wet1: wet * (p.Width*0.5 + 0.5),
		wet2: wet * (1 - p.Width) * 0.5,
		dry:  p.DryLevel * scaleDry,
	}
}

// deriveDamping returns the comb feedback and damping for p.
func deriveDamping(p Parameters) (feedback, damp float32) {
	if p.Frozen() {
		return 1, 0
	}

	return p.RoomSize*scaleRoom + offsetRoom, p.Damping * scaleDamp
}
