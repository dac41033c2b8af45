// Package core provides fundamental types and utilities for the rescue simulation.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Rect represents an axis-aligned box in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Vec2 is a point or direction on the ground plane. Y of the vector is the
// world Z axis (north is -Z, south is +Z).
type Vec2 struct {
	X, Z float64
}

// V builds a Vec2.
func V(x, z float64) Vec2 {
	return Vec2{X: x, Z: z}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Z: v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Z: v.Z * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Z*o.Z
}

// LenSq returns the squared length.
func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Z*v.Z
}

// Len returns the length.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Z)
}

// Normalize returns the unit vector of v. A zero vector is returned unchanged.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec2{X: v.X / l, Z: v.Z / l}
}

// Lerp moves v toward o by t.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{X: v.X + (o.X-v.X)*t, Z: v.Z + (o.Z-v.Z)*t}
}

// Dist returns the distance between two points.
func Dist(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}

// WorldRect is an axis-aligned region of the ground plane.
type WorldRect struct {
	X, Z float64 // Minimum corner
	W, H float64 // Extent along X and Z
}

// Right returns the maximum X.
func (r WorldRect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the maximum Z.
func (r WorldRect) Bottom() float64 {
	return r.Z + r.H
}

// Center returns the center point.
func (r WorldRect) Center() Vec2 {
	return Vec2{X: r.X + r.W/2, Z: r.Z + r.H/2}
}

// Contains reports whether (x, z) lies inside the half-open rectangle.
func (r WorldRect) Contains(x, z float64) bool {
	return x >= r.X && x < r.Right() && z >= r.Z && z < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// MoveTowards steps current toward target by at most maxDelta.
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
