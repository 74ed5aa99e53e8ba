package geom

// ConnectionPoints is the list of intermediate vertices of a segment. It is
// either absent or a non-empty ordered sequence; the zero value is absent and
// there is no way to build a present list of length zero.
type ConnectionPoints struct {
	pts []Vec2
}

// NoPoints returns the absent state.
func NoPoints() ConnectionPoints {
	return ConnectionPoints{}
}

// PointsOf copies pts into a present list, or returns the absent state when
// pts is empty.
func PointsOf(pts ...Vec2) ConnectionPoints {
	if len(pts) == 0 {
		return ConnectionPoints{}
	}
	cp := make([]Vec2, len(pts))
	copy(cp, pts)
	return ConnectionPoints{pts: cp}
}

// Present reports whether any intermediate point was specified.
func (c ConnectionPoints) Present() bool { return len(c.pts) > 0 }

func (c ConnectionPoints) Len() int { return len(c.pts) }

// At panics when i is out of range, like slice indexing.
func (c ConnectionPoints) At(i int) Vec2 { return c.pts[i] }

// Slice returns a copy of the points, nil when absent.
func (c ConnectionPoints) Slice() []Vec2 {
	if len(c.pts) == 0 {
		return nil
	}
	out := make([]Vec2, len(c.pts))
	copy(out, c.pts)
	return out
}

func (c ConnectionPoints) Equal(o ConnectionPoints) bool {
	if len(c.pts) != len(o.pts) {
		return false
	}
	for i := range c.pts {
		if !c.pts[i].IsEqualTo(o.pts[i]) {
			return false
		}
	}
	return true
}
