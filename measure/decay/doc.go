// Package decay measures the decay behaviour of rendered reverb tails:
// block energy, Schroeder backward integration, reverberation time and the
// balance between low- and high-frequency energy.
//
// It works on float64 slices; widen float32 renders before analysis.
package decay
