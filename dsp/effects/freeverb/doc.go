// Package freeverb implements a stereo Schroeder/Moorer reverb using the
// Freeverb topology: per channel, eight parallel damped feedback comb filters
// followed by four serial allpass diffusers.
//
// Delay-line lengths are derived from fixed 44.1 kHz tunings and scaled to the
// configured sample rate; the right channel uses tunings offset by a small
// stereo spread so the two reflection patterns decorrelate.
//
// Typical use:
//
//	r, err := freeverb.New(freeverb.WithSampleRate(48000))
//	if err != nil {
//		return err
//	}
//	r.SetParameters(freeverb.Parameters{RoomSize: 0.8, Damping: 0.3, WetLevel: 0.33, DryLevel: 0.4, Width: 1})
//	r.ProcessStereo(left, right) // in place, once per audio block
//
// ProcessStereo, ProcessMono, ProcessInterleaved, SetParameters and Reset do
// not allocate and may be called from a real-time audio callback.
// SetSampleRate reallocates delay lines and must not run concurrently with
// processing.
//
// Parameter values are not validated. Values outside [0,1] are fed into the
// coefficient formulas unchanged; a RoomSize above 1 yields comb feedback
// above unity and an unbounded tail. Use [Parameters.Clamp] at the boundary
// when input cannot be trusted.
package freeverb
