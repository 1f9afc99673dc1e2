package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClampFloat32(t *testing.T) {
	if got := Clamp[float32](1.5, 0, 1); got != 1 {
		t.Fatalf("Clamp() = %v, want 1", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestFlushDenormal32(t *testing.T) {
	subnormal := math.Float32frombits(1) // smallest positive subnormal
	largestSubnormal := math.Float32frombits(0x007fffff)
	smallestNormal := math.Float32frombits(0x00800000)

	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{name: "zero", in: 0, want: 0},
		{name: "tiny subnormal", in: subnormal, want: 0},
		{name: "negative subnormal", in: -subnormal, want: 0},
		{name: "largest subnormal", in: largestSubnormal, want: 0},
		{name: "smallest normal", in: smallestNormal, want: smallestNormal},
		{name: "negative normal", in: -smallestNormal, want: -smallestNormal},
		{name: "unit", in: 1, want: 1},
		{name: "small audio", in: 1e-20, want: 1e-20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlushDenormal32(tt.in); got != tt.want {
				t.Fatalf("FlushDenormal32(%g) = %g, want %g", tt.in, got, tt.want)
			}
		})
	}
}

func TestFlushDenormal32PassesNonFinite(t *testing.T) {
	inf := float32(math.Inf(1))
	if got := FlushDenormal32(inf); got != inf {
		t.Fatalf("FlushDenormal32(+Inf) = %v", got)
	}
	if got := FlushDenormal32(float32(math.NaN())); !math.IsNaN(float64(got)) {
		t.Fatalf("FlushDenormal32(NaN) = %v, want NaN", got)
	}
}

func TestDBConversions(t *testing.T) {
	if !NearlyEqual(LinearToDB(0.5), -6.020599913279624, 1e-10) {
		t.Fatalf("LinearToDB(0.5) = %v", LinearToDB(0.5))
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestLinearPowerToDB(t *testing.T) {
	if !NearlyEqual(LinearPowerToDB(1e-3), -30, 1e-10) {
		t.Fatalf("LinearPowerToDB(1e-3) = %v, want -30", LinearPowerToDB(1e-3))
	}
	if !math.IsInf(LinearPowerToDB(0), -1) {
		t.Fatal("expected -Inf for zero power")
	}
	if !math.IsNaN(LinearPowerToDB(-1)) {
		t.Fatal("expected NaN for negative power")
	}
}
