// internal/scorer/maparea.go
//
// Map-area-mode guess scoring: rounded Euclidean distance over the
// 0–1000 map grid plus an 8-point compass bearing from the guess toward
// the answer.
//
// Coordinate convention: the grid is screen-oriented, y grows southward.
// The bearing is computed as atan2(Δy, Δx) in degrees and bucketed into
// 45°-wide sectors. East is [-22.5°, 22.5°); sectors proceed through SE,
// S, SW with increasing angle; West owns the ±180° wrap. This is the one
// canonical bucketing, applied everywhere.

package scorer

import (
	"errors"
	"math"
	"strings"

	"github.com/bannerdle/go-server/internal/catalog"
)

// ErrNoCoordinates is returned when either side of a map-area comparison
// lacks grid coordinates.
var ErrNoCoordinates = errors.New("scorer: map area has no coordinates")

// Compass8 is an 8-point compass direction.
type Compass8 string

const (
	North     Compass8 = "N"
	NorthEast Compass8 = "NE"
	East      Compass8 = "E"
	SouthEast Compass8 = "SE"
	South     Compass8 = "S"
	SouthWest Compass8 = "SW"
	West      Compass8 = "W"
	NorthWest Compass8 = "NW"
)

// DistanceTier classifies a distance for UI coloring.
type DistanceTier string

const (
	TierGreen  DistanceTier = "green"  // very close, < 50
	TierYellow DistanceTier = "yellow" // 50–150
	TierRed    DistanceTier = "red"    // >= 150
)

// MapAreaScore is the result of comparing a map-area guess to the answer.
type MapAreaScore struct {
	Correct   bool         `json:"correct"`
	Distance  int          `json:"distance"`
	Direction Compass8     `json:"direction"`
	Tier      DistanceTier `json:"tier"`
}

// ScoreMapArea compares guess against answer. Correct is decided by
// case-insensitive name equality; distance and direction require
// coordinates on both sides.
func ScoreMapArea(guess, answer catalog.MapArea) (MapAreaScore, error) {
	if !guess.HasCoordinates() || !answer.HasCoordinates() {
		return MapAreaScore{}, ErrNoCoordinates
	}
	dx := *answer.X - *guess.X
	dy := *answer.Y - *guess.Y
	dist := int(math.Round(math.Sqrt(dx*dx + dy*dy)))
	return MapAreaScore{
		Correct:   strings.EqualFold(guess.Name, answer.Name),
		Distance:  dist,
		Direction: Direction(dx, dy),
		Tier:      TierFor(dist),
	}, nil
}

// Direction buckets the bearing from the guess toward the answer.
// Δy is positive when the answer is south of the guess.
func Direction(dx, dy float64) Compass8 {
	deg := math.Atan2(dy, dx) * 180 / math.Pi
	switch {
	case deg >= -22.5 && deg < 22.5:
		return East
	case deg >= 22.5 && deg < 67.5:
		return SouthEast
	case deg >= 67.5 && deg < 112.5:
		return South
	case deg >= 112.5 && deg < 157.5:
		return SouthWest
	case deg >= -67.5 && deg < -22.5:
		return NorthEast
	case deg >= -112.5 && deg < -67.5:
		return North
	case deg >= -157.5 && deg < -112.5:
		return NorthWest
	default: // >= 157.5 or < -157.5
		return West
	}
}

// TierFor maps a rounded distance to its color tier.
func TierFor(distance int) DistanceTier {
	switch {
	case distance < 50:
		return TierGreen
	case distance < 150:
		return TierYellow
	default:
		return TierRed
	}
}
