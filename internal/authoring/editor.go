package authoring

// PromoteLastToEnd drops the current End and makes the last intermediate
// point the new End. It reports false and leaves s untouched when there is
// no intermediate point to promote.
func PromoteLastToEnd(s *SegmentRecord) bool {
	if s == nil || len(s.Points) == 0 {
		return false
	}
	n := len(s.Points)
	s.End = s.Points[n-1]
	s.Points = trimPoints(s.Points[:n-1])
	return true
}

// PromoteFirstToStart is the mirror of PromoteLastToEnd for Start.
func PromoteFirstToStart(s *SegmentRecord) bool {
	if s == nil || len(s.Points) == 0 {
		return false
	}
	s.Start = s.Points[0]
	s.Points = trimPoints(s.Points[1:])
	return true
}

// trimPoints keeps the absent state canonical: a list emptied by editing
// goes back to nil.
func trimPoints(pts []Point) []Point {
	if len(pts) == 0 {
		return nil
	}
	return append([]Point(nil), pts...)
}
