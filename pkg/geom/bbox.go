package geom

// BoundingBox3 is an axis-aligned bounding box in 3-space, or the empty
// set (Empty == true, in which case Min/Max are meaningless).
type BoundingBox3 struct {
	Min, Max Vector3
	Empty    bool
}

func EmptyBoundingBox3() BoundingBox3 { return BoundingBox3{Empty: true} }

func NewBoundingBox3(min, max Vector3) BoundingBox3 {
	return BoundingBox3{Min: min, Max: max}
}

func (b BoundingBox3) IncludingPoint(p Vector3) BoundingBox3 {
	if b.Empty {
		return BoundingBox3{Min: p, Max: p}
	}
	return BoundingBox3{Min: ComponentMin3(b.Min, p), Max: ComponentMax3(b.Max, p)}
}

func (b BoundingBox3) Union(o BoundingBox3) BoundingBox3 {
	if b.Empty {
		return o
	}
	if o.Empty {
		return b
	}
	return BoundingBox3{Min: ComponentMin3(b.Min, o.Min), Max: ComponentMax3(b.Max, o.Max)}
}

func (b BoundingBox3) Intersection(o BoundingBox3) BoundingBox3 {
	if b.Empty || o.Empty {
		return EmptyBoundingBox3()
	}
	min := Vector3{
		X: maxf(b.Min.X, o.Min.X),
		Y: maxf(b.Min.Y, o.Min.Y),
		Z: maxf(b.Min.Z, o.Min.Z),
	}
	max := Vector3{
		X: minf(b.Max.X, o.Max.X),
		Y: minf(b.Max.Y, o.Max.Y),
		Z: minf(b.Max.Z, o.Max.Z),
	}
	if min.X > max.X || min.Y > max.Y || min.Z > max.Z {
		return EmptyBoundingBox3()
	}
	return BoundingBox3{Min: min, Max: max}
}

func (b BoundingBox3) Translated(v Vector3) BoundingBox3 {
	if b.Empty {
		return b
	}
	return BoundingBox3{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

func (b BoundingBox3) Size() Vector3 {
	if b.Empty {
		return Vector3{}
	}
	return b.Max.Sub(b.Min)
}

func (b BoundingBox3) Center() Vector3 {
	if b.Empty {
		return Vector3{}
	}
	return b.Min.Add(b.Max).Scaled(0.5)
}

func (b BoundingBox3) Volume() float64 {
	if b.Empty {
		return 0
	}
	s := b.Size()
	return s.X * s.Y * s.Z
}

// BoundingBox2 is the 2D analog.
type BoundingBox2 struct {
	Min, Max Vector2
	Empty    bool
}

func EmptyBoundingBox2() BoundingBox2 { return BoundingBox2{Empty: true} }

func NewBoundingBox2(min, max Vector2) BoundingBox2 {
	return BoundingBox2{Min: min, Max: max}
}

func (b BoundingBox2) IncludingPoint(p Vector2) BoundingBox2 {
	if b.Empty {
		return BoundingBox2{Min: p, Max: p}
	}
	return BoundingBox2{Min: ComponentMin2(b.Min, p), Max: ComponentMax2(b.Max, p)}
}

func (b BoundingBox2) Union(o BoundingBox2) BoundingBox2 {
	if b.Empty {
		return o
	}
	if o.Empty {
		return b
	}
	return BoundingBox2{Min: ComponentMin2(b.Min, o.Min), Max: ComponentMax2(b.Max, o.Max)}
}

func (b BoundingBox2) Size() Vector2 {
	if b.Empty {
		return Vector2{}
	}
	return b.Max.Sub(b.Min)
}

func (b BoundingBox2) Translated(v Vector2) BoundingBox2 {
	if b.Empty {
		return b
	}
	return BoundingBox2{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

func (b BoundingBox2) Intersection(o BoundingBox2) BoundingBox2 {
	if b.Empty || o.Empty {
		return EmptyBoundingBox2()
	}
	min := Vector2{X: maxf(b.Min.X, o.Min.X), Y: maxf(b.Min.Y, o.Min.Y)}
	max := Vector2{X: minf(b.Max.X, o.Max.X), Y: minf(b.Max.Y, o.Max.Y)}
	if min.X > max.X || min.Y > max.Y {
		return EmptyBoundingBox2()
	}
	return BoundingBox2{Min: min, Max: max}
}

func (b BoundingBox2) Area() float64 {
	if b.Empty {
		return 0
	}
	s := b.Size()
	return s.X * s.Y
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
