package vmath

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Vec3
}

// EmptyBounds returns bounds that expand to fit the first point added.
func EmptyBounds() Bounds {
	return Bounds{
		Min: Vec3{1e30, 1e30, 1e30},
		Max: Vec3{-1e30, -1e30, -1e30},
	}
}

// Expand grows the bounds to include p.
func (b *Bounds) Expand(p Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// Size returns the extent along each axis, or the zero vector when
// nothing has been added yet.
func (b Bounds) Size() Vec3 {
	if b.Max.X < b.Min.X {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}
