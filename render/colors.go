package render

import "github.com/gdamore/tcell/v2"

// RGB color definitions
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38) // Tokyo Night background

	RgbMarker       = tcell.NewRGBColor(70, 72, 95)    // Faint clock-face labels
	RgbReticle      = tcell.NewRGBColor(180, 180, 180) // Center cross
	RgbCenterArmed  = tcell.NewRGBColor(0, 200, 0)     // Capture area while waiting
	RgbOuterRing    = tcell.NewRGBColor(255, 80, 80)   // 5-point ring
	RgbBullseye     = tcell.NewRGBColor(255, 255, 0)   // 10-point ring
	RgbHUD          = tcell.NewRGBColor(255, 255, 255) // Trial counter
	RgbLiveRT       = tcell.NewRGBColor(100, 150, 255) // Live reaction time
	RgbTable        = tcell.NewRGBColor(180, 180, 180) // Per-direction table
	RgbTableTitle   = tcell.NewRGBColor(135, 206, 250) // Table heading
	RgbOverlayText  = tcell.NewRGBColor(255, 255, 255) // Finished overlay body
	RgbOverlayTitle = tcell.NewRGBColor(144, 238, 144) // Finished overlay heading
	RgbHint         = tcell.NewRGBColor(120, 120, 140) // Key hints
	RgbNotice       = tcell.NewRGBColor(255, 165, 0)   // Transient notices
	RgbMuted        = tcell.NewRGBColor(200, 50, 50)   // Mute indicator
)
