// Package tracker implements the head-pose cursor control loop for the
// Kathakali head tracking system: a camera-rate processing loop that turns
// landmark frames into a smoothed cursor target, and a fixed-rate actuation
// loop that drives the OS pointer toward it.
package tracker

import "time"

// Default angular ranges: degrees of head rotation mapped onto the full
// screen width and height.
const (
	DefaultYawRange   = 20.0
	DefaultPitchRange = 10.0
)

// Actuation tick intervals per performance mode.
const (
	// SlowTick paces the actuation loop at ~60Hz in power-saving mode.
	SlowTick = 16 * time.Millisecond
	// FastTick paces the actuation loop at ~200Hz in performance mode.
	FastTick = 5 * time.Millisecond
)

// One-Euro coefficient presets per performance mode.
const (
	slowFreq   = 45.0
	slowCutoff = 1.5
	slowBeta   = 0.03

	fastFreq   = 120.0
	fastCutoff = 0.8
	fastBeta   = 0.015
)

// Config holds the tracker tuning parameters. It is immutable after
// construction; SetPerformanceMode swaps whole filter instances rather than
// mutating coefficients in place.
type Config struct {
	// CameraID selects the capture device for the default camera source.
	CameraID int

	// RayBufferLen is the rolling-window length for head-ray smoothing.
	RayBufferLen int

	// YawRange and PitchRange are the degrees of head rotation mapped onto
	// the full screen width and height.
	YawRange   float64
	PitchRange float64

	// FastMode selects the responsive preset (~200Hz actuation) instead of
	// the smooth power-saving preset (~60Hz).
	FastMode bool

	// Optional explicit One-Euro coefficients. When any is set (> 0) the
	// supplied values win over preset switching: SetPerformanceMode will
	// only change the actuation tick, never the filters.
	EuroMinCutoff float64
	EuroBeta      float64
	EuroFreq      float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		CameraID:     0,
		RayBufferLen: 40,
		YawRange:     DefaultYawRange,
		PitchRange:   DefaultPitchRange,
	}
}

// tickFor returns the actuation tick interval for a performance mode.
func tickFor(fast bool) time.Duration {
	if fast {
		return FastTick
	}
	return SlowTick
}

// presetFor returns the One-Euro coefficient preset for a performance mode.
func presetFor(fast bool) (minCutoff, beta, freq float64) {
	if fast {
		return fastCutoff, fastBeta, fastFreq
	}
	return slowCutoff, slowBeta, slowFreq
}
