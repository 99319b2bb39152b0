package engine

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vector) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(a Vector, ra float64, b Vector, rb float64) bool {
	return Distance(a, b) < ra+rb
}

// BoxesOverlap reports whether two axis-aligned squares, given by centre and
// half side, intersect.
func BoxesOverlap(a Vector, ha float64, b Vector, hb float64) bool {
	return math.Abs(a.X-b.X) < ha+hb && math.Abs(a.Y-b.Y) < ha+hb
}

// Wrap moves a point that left the field to the opposite edge.
func Wrap(p Vector, width, height float64) Vector {
	if p.X < 0 {
		p.X = width
	} else if p.X > width {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = height
	} else if p.Y > height {
		p.Y = 0
	}
	return p
}

// NormalizeAngle maps an angle into (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// heading returns the unit vector for an angle.
func heading(angle float64) Vector {
	return Vector{X: math.Cos(angle), Y: math.Sin(angle)}
}
