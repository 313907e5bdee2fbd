package game

import (
	"github.com/lixenwraith/cfart/geom"
	"github.com/lixenwraith/cfart/trial"
)

// Default layout, matching a 1280x720 play area
const (
	DefaultTrials       = 100
	DefaultWidth        = 1280.0
	DefaultHeight       = 720.0
	DefaultClockRadius  = 260.0 // center to target
	DefaultOuterRadius  = 36.0  // outer ring, 5 points
	DefaultInnerRadius  = 14.0  // bullseye, 10 points
	DefaultCenterRadius = 28.0  // center capture area that arms the next trial
)

// Config holds the fixed parameters of one test session
type Config struct {
	Trials       int
	Width        float64
	Height       float64
	ClockRadius  float64
	OuterRadius  float64
	InnerRadius  float64
	CenterRadius float64
}

// DefaultConfig returns the stock 100-trial layout
func DefaultConfig() Config {
	return Config{
		Trials:       DefaultTrials,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		ClockRadius:  DefaultClockRadius,
		OuterRadius:  DefaultOuterRadius,
		InnerRadius:  DefaultInnerRadius,
		CenterRadius: DefaultCenterRadius,
	}
}

// Center returns the middle of the play area
func (c Config) Center() geom.Point {
	return geom.Point{X: c.Width * 0.5, Y: c.Height * 0.5}
}

// Radii returns the hit thresholds
func (c Config) Radii() trial.Radii {
	return trial.Radii{Outer: c.OuterRadius, Inner: c.InnerRadius}
}

// TargetPosition returns the play-area position of clock index idx
func (c Config) TargetPosition(idx int) geom.Point {
	return geom.PositionForIndex(c.Center(), c.ClockRadius, idx)
}
