package layout

import (
	"strconv"

	"github.com/playmatatu/tablegeom/internal/fixed"
	"github.com/playmatatu/tablegeom/internal/geom"
)

// ScalarView shows a fixed-point value. Raw is a decimal string so clients
// that parse numbers as doubles keep all 64 bits.
type ScalarView struct {
	Raw   string  `json:"raw"`
	Value float64 `json:"value"`
}

type VecView struct {
	X ScalarView `json:"x"`
	Y ScalarView `json:"y"`
}

type SegmentView struct {
	Start  VecView   `json:"start"`
	End    VecView   `json:"end"`
	Points []VecView `json:"points,omitempty"`
}

type PocketView struct {
	ID                       int           `json:"id"`
	Center                   VecView       `json:"center"`
	Radius                   ScalarView    `json:"radius"`
	ReboundVelocityThreshold ScalarView    `json:"rebound_velocity_threshold"`
	Rim                      []SegmentView `json:"rim"`
}

// View is the JSON rendering of a stored layout.
type View struct {
	Name     string        `json:"name"`
	Version  int           `json:"version"`
	Checksum string        `json:"checksum"`
	Segments []SegmentView `json:"segments"`
	Pockets  []PocketView  `json:"pockets"`
}

func scalarView(s fixed.Scalar) ScalarView {
	return ScalarView{Raw: strconv.FormatInt(s.Raw(), 10), Value: s.Float64()}
}

func vecView(v geom.Vec2) VecView {
	return VecView{X: scalarView(v.X), Y: scalarView(v.Y)}
}

func segmentView(s geom.Segment) SegmentView {
	out := SegmentView{Start: vecView(s.Start), End: vecView(s.End)}
	for _, p := range s.Points.Slice() {
		out.Points = append(out.Points, vecView(p))
	}
	return out
}

// NewView renders l for the JSON API.
func NewView(name string, version int, checksum string, l geom.Layout) View {
	v := View{
		Name:     name,
		Version:  version,
		Checksum: checksum,
		Segments: make([]SegmentView, len(l.Segments)),
		Pockets:  make([]PocketView, len(l.Pockets)),
	}
	for i, s := range l.Segments {
		v.Segments[i] = segmentView(s)
	}
	for i, p := range l.Pockets {
		pv := PocketView{
			ID:                       p.ID,
			Center:                   vecView(p.Center),
			Radius:                   scalarView(p.Radius),
			ReboundVelocityThreshold: scalarView(p.ReboundVelocityThreshold),
			Rim:                      make([]SegmentView, len(p.Rim)),
		}
		for j, s := range p.Rim {
			pv.Rim[j] = segmentView(s)
		}
		v.Pockets[i] = pv
	}
	return v
}
