package geom

// Segment is a polyline edge: Start, then Points in order, then End.
// Adjacent vertices may coincide.
type Segment struct {
	Start  Vec2
	End    Vec2
	Points ConnectionPoints
}

// NewSegment builds a segment with absent connection points.
func NewSegment(start, end Vec2) Segment {
	return Segment{Start: start, End: end}
}

// Vertices returns the effective polyline.
func (s Segment) Vertices() []Vec2 {
	out := make([]Vec2, 0, s.Points.Len()+2)
	out = append(out, s.Start)
	out = append(out, s.Points.pts...)
	return append(out, s.End)
}

func (s Segment) Equal(o Segment) bool {
	return s.Start.IsEqualTo(o.Start) && s.End.IsEqualTo(o.End) && s.Points.Equal(o.Points)
}
