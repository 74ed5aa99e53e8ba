package authoring

import "fmt"

// FormatLegacy marks documents written by the older table tooling.
const FormatLegacy = "legacy"

// LegacyLine is the older border and rim shape.
type LegacyLine struct {
	P1 Point `json:"p1" yaml:"p1"`
	P2 Point `json:"p2" yaml:"p2"`
}

// LegacyPocket carries either a single rim segment with its connection
// points beside it, or (oldest files) a list of plain rim segments.
type LegacyPocket struct {
	Position         Point        `json:"position" yaml:"position"`
	Radius           float64      `json:"radius" yaml:"radius"`
	Threshold        float64      `json:"threshold" yaml:"threshold"`
	Segment          *LegacyLine  `json:"segment,omitempty" yaml:"segment,omitempty"`
	ConnectionPoints []Point      `json:"connection_points,omitempty" yaml:"connection_points,omitempty"`
	Segments         []LegacyLine `json:"segments,omitempty" yaml:"segments,omitempty"`
}

// LegacyTableRecord is the pre-unification table document.
type LegacyTableRecord struct {
	Format  string         `json:"format" yaml:"format"`
	Name    string         `json:"name" yaml:"name"`
	Lines   []LegacyLine   `json:"lines" yaml:"lines"`
	Pockets []LegacyPocket `json:"pockets" yaml:"pockets"`
}

// Canonical adapts a legacy document into a TableRecord. A zero legacy
// threshold meant "unset" and maps to the default.
func (l *LegacyTableRecord) Canonical() (*TableRecord, error) {
	if len(l.Lines) != 4 {
		return nil, fmt.Errorf("legacy table %q: expected 4 border lines, got %d", l.Name, len(l.Lines))
	}

	t := &TableRecord{Name: l.Name}
	for i, line := range l.Lines {
		t.Borders[i] = SegmentPair{Start: line.P1, End: line.P2}
	}

	t.Pockets = make([]PocketRecord, len(l.Pockets))
	for i, lp := range l.Pockets {
		p := PocketRecord{Center: lp.Position, Radius: lp.Radius}
		if lp.Threshold != 0 {
			p.ReboundVelocityThreshold = Float(lp.Threshold)
		}

		switch {
		case len(lp.Segments) > 0:
			if lp.Segment != nil {
				return nil, fmt.Errorf("legacy table %q: pocket %d has both segment and segments", l.Name, i)
			}
			p.Rim = make([]SegmentRecord, len(lp.Segments))
			for j, s := range lp.Segments {
				p.Rim[j] = SegmentRecord{Start: s.P1, End: s.P2}
			}
		case lp.Segment != nil:
			rim := SegmentRecord{Start: lp.Segment.P1, End: lp.Segment.P2}
			if len(lp.ConnectionPoints) > 0 {
				rim.Points = append([]Point(nil), lp.ConnectionPoints...)
			}
			p.Rim = []SegmentRecord{rim}
		}
		t.Pockets[i] = p
	}
	return t, nil
}
