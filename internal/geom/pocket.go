package geom

import "github.com/playmatatu/tablegeom/internal/fixed"

// DefaultReboundThreshold is used when authoring data does not set one.
var DefaultReboundThreshold = fixed.One

// Pocket is a capture region on the table. ID is its position in the
// pocket list it was built or decoded from.
type Pocket struct {
	ID                       int
	Center                   Vec2
	Radius                   fixed.Scalar
	ReboundVelocityThreshold fixed.Scalar
	Rim                      []Segment
}

// SetRadius and SetReboundVelocityThreshold are the only mutations allowed
// after a pocket has been built.
func (p *Pocket) SetRadius(r fixed.Scalar) { p.Radius = r }

func (p *Pocket) SetReboundVelocityThreshold(t fixed.Scalar) { p.ReboundVelocityThreshold = t }

func (p Pocket) Equal(o Pocket) bool {
	if p.ID != o.ID || !p.Center.IsEqualTo(o.Center) ||
		!p.Radius.Equal(o.Radius) || !p.ReboundVelocityThreshold.Equal(o.ReboundVelocityThreshold) ||
		len(p.Rim) != len(o.Rim) {
		return false
	}
	for i := range p.Rim {
		if !p.Rim[i].Equal(o.Rim[i]) {
			return false
		}
	}
	return true
}

// Layout is one loaded set of table geometry.
type Layout struct {
	Segments []Segment
	Pockets  []Pocket
}

// Equal compares two layouts structurally. Nil and empty lists are equal.
func (l Layout) Equal(o Layout) bool {
	if len(l.Segments) != len(o.Segments) || len(l.Pockets) != len(o.Pockets) {
		return false
	}
	for i := range l.Segments {
		if !l.Segments[i].Equal(o.Segments[i]) {
			return false
		}
	}
	for i := range l.Pockets {
		if !l.Pockets[i].Equal(o.Pockets[i]) {
			return false
		}
	}
	return true
}
