package model

import (
	"fmt"
	"math"
	"strings"
)

// Point is a pixel coordinate on the device screen.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox is an axis-aligned rectangle given by its top-left and bottom-right corners.
type BBox [2]Point

// Center returns the integer midpoint of the box.
func (b BBox) Center() Point {
	return Point{X: (b[0].X + b[1].X) / 2, Y: (b[0].Y + b[1].Y) / 2}
}

func (b BBox) Width() int  { return b[1].X - b[0].X }
func (b BBox) Height() int { return b[1].Y - b[0].Y }

// Direction is a swipe direction.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// ParseDirection converts a model-supplied direction name.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirUp, DirDown, DirLeft, DirRight:
		return d, nil
	default:
		return "", fmt.Errorf("unknown swipe direction: %q (expected up, down, left, or right)", s)
	}
}

// Distance is the magnitude of a swipe.
type Distance string

const (
	DistShort  Distance = "short"
	DistMedium Distance = "medium"
	DistLong   Distance = "long"
)

// ParseDistance converts a model-supplied swipe magnitude.
func ParseDistance(s string) (Distance, error) {
	switch d := Distance(strings.ToLower(strings.TrimSpace(s))); d {
	case DistShort, DistMedium, DistLong:
		return d, nil
	default:
		return "", fmt.Errorf("unknown swipe distance: %q (expected short, medium, or long)", s)
	}
}
