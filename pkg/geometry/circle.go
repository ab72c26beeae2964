package geometry

import "math"

// Circle is the shape shared by every arena entity.
type Circle struct {
	Center Vector2D `json:"center" msgpack:"center"`
	Radius float64  `json:"radius" msgpack:"radius"`
}

// Mass is the area proxy used by the game rules: radius squared.
func (c Circle) Mass() float64 {
	return c.Radius * c.Radius
}

// Overlaps reports whether the two discs intersect (touching does not count).
func (c Circle) Overlaps(other Circle) bool {
	r := c.Radius + other.Radius
	return c.Center.DistanceSquaredTo(other.Center) < r*r
}

// Bounds returns the axis aligned bounding square of the circle.
func (c Circle) Bounds() (minX, minY, maxX, maxY float64) {
	return c.Center.X - c.Radius, c.Center.Y - c.Radius, c.Center.X + c.Radius, c.Center.Y + c.Radius
}

// RadiusForMass inverts Mass.
func RadiusForMass(mass float64) float64 {
	if mass <= 0 {
		return 0
	}
	return math.Sqrt(mass)
}

// CombinedRadius is the radius of a circle holding the mass of both inputs.
func CombinedRadius(a, b float64) float64 {
	return math.Sqrt(a*a + b*b)
}
