package authoring

import (
	"github.com/playmatatu/tablegeom/internal/fixed"
	"github.com/playmatatu/tablegeom/internal/geom"
)

func toVec(p Point) geom.Vec2 {
	return geom.NewVec2(fixed.FromFloat(p.X), fixed.FromFloat(p.Y))
}

func toPoints(pts []Point) geom.ConnectionPoints {
	if len(pts) == 0 {
		return geom.NoPoints()
	}
	vs := make([]geom.Vec2, len(pts))
	for i, p := range pts {
		vs[i] = toVec(p)
	}
	return geom.PointsOf(vs...)
}

// BuildSegments converts border pairs in input order. The results carry no
// connection points.
func BuildSegments(pairs []SegmentPair) []geom.Segment {
	segments := make([]geom.Segment, len(pairs))
	for i, p := range pairs {
		segments[i] = geom.NewSegment(toVec(p.Start), toVec(p.End))
	}
	return segments
}

// BuildSegment converts one rim record. An empty point list becomes absent.
func BuildSegment(r SegmentRecord) geom.Segment {
	return geom.Segment{
		Start:  toVec(r.Start),
		End:    toVec(r.End),
		Points: toPoints(r.Points),
	}
}

// BuildPockets converts pocket records. Each pocket's ID is its index in
// records; a nil rim list gives an empty rim.
func BuildPockets(records []PocketRecord) []geom.Pocket {
	pockets := make([]geom.Pocket, len(records))
	for i, r := range records {
		threshold := geom.DefaultReboundThreshold
		if r.ReboundVelocityThreshold != nil {
			threshold = fixed.FromFloat(*r.ReboundVelocityThreshold)
		}

		rim := make([]geom.Segment, len(r.Rim))
		for j, s := range r.Rim {
			rim[j] = BuildSegment(s)
		}

		pockets[i] = geom.Pocket{
			ID:                       i,
			Center:                   toVec(r.Center),
			Radius:                   fixed.FromFloat(r.Radius),
			ReboundVelocityThreshold: threshold,
			Rim:                      rim,
		}
	}
	return pockets
}

// Build converts a whole table record. A nil record gives an empty layout.
func Build(t *TableRecord) geom.Layout {
	if t == nil {
		return geom.Layout{Segments: []geom.Segment{}, Pockets: []geom.Pocket{}}
	}
	return geom.Layout{
		Segments: BuildSegments(t.Borders[:]),
		Pockets:  BuildPockets(t.Pockets),
	}
}
