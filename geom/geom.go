// Package geom holds the play-area geometry: points, distances and the
// twelve clock-face target positions.
package geom

import "math"

// ClockPositions is the number of target directions on the clock face
const ClockPositions = 12

// degreesPerHour is the angular step between adjacent clock positions
const degreesPerHour = 360.0 / ClockPositions

var clockLabels = [ClockPositions]string{
	"12", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11",
}

// Point is a position in play-area coordinates, y grows downward
type Point struct {
	X, Y float64
}

// Add returns p translated by (dx, dy)
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the Euclidean distance between a and b
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// ValidIndex reports whether idx names a clock position
func ValidIndex(idx int) bool {
	return idx >= 0 && idx < ClockPositions
}

// PositionForIndex returns the point on a circle of the given radius around
// center for clock index idx. Index 0 is at the top (12 o'clock) and each
// following index advances 30 degrees clockwise.
func PositionForIndex(center Point, radius float64, idx int) Point {
	angle := (-90.0 + float64(idx)*degreesPerHour) * math.Pi / 180.0
	return Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

// ClockLabel returns the hour label for idx ("12" for index 0), or "?" when
// idx is outside the clock face
func ClockLabel(idx int) string {
	if !ValidIndex(idx) {
		return "?"
	}
	return clockLabels[idx]
}
