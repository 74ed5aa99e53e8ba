package authoring

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Point is a design-time coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// SegmentPair is a border entry. Borders never carry intermediate points.
type SegmentPair struct {
	Start Point `json:"start" yaml:"start"`
	End   Point `json:"end" yaml:"end"`
}

// SegmentRecord is an editable rim segment. The vertex order is
// Start, Points..., End.
type SegmentRecord struct {
	Start  Point   `json:"start" yaml:"start"`
	End    Point   `json:"end" yaml:"end"`
	Points []Point `json:"points,omitempty" yaml:"points,omitempty"`
}

// PocketRecord describes one pocket. A nil ReboundVelocityThreshold means the
// default of 1.0.
type PocketRecord struct {
	Center                   Point           `json:"center" yaml:"center"`
	Radius                   float64         `json:"radius" yaml:"radius"`
	ReboundVelocityThreshold *float64        `json:"rebound_velocity_threshold,omitempty" yaml:"rebound_velocity_threshold,omitempty"`
	Rim                      []SegmentRecord `json:"rim" yaml:"rim"`
}

// TableRecord is the canonical authoring document for one table.
type TableRecord struct {
	Format  string         `json:"format,omitempty" yaml:"format,omitempty"`
	Name    string         `json:"name" yaml:"name"`
	Borders [4]SegmentPair `json:"borders" yaml:"borders"`
	Pockets []PocketRecord `json:"pockets" yaml:"pockets"`
}

// tableDoc mirrors TableRecord with a variable-length border list so the
// decoders can report a wrong count instead of padding or truncating it.
type tableDoc struct {
	Format  string         `json:"format,omitempty" yaml:"format,omitempty"`
	Name    string         `json:"name" yaml:"name"`
	Borders []SegmentPair  `json:"borders" yaml:"borders"`
	Pockets []PocketRecord `json:"pockets" yaml:"pockets"`
}

func (d *tableDoc) record() (TableRecord, error) {
	t := TableRecord{Format: d.Format, Name: d.Name, Pockets: d.Pockets}
	if len(d.Borders) != len(t.Borders) {
		return TableRecord{}, fmt.Errorf("table %q: expected %d borders, got %d", d.Name, len(t.Borders), len(d.Borders))
	}
	copy(t.Borders[:], d.Borders)
	return t, nil
}

// UnmarshalJSON rejects documents that do not list exactly four borders.
func (t *TableRecord) UnmarshalJSON(data []byte) error {
	var d tableDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	rec, err := d.record()
	if err != nil {
		return err
	}
	*t = rec
	return nil
}

// UnmarshalYAML applies the same border check as UnmarshalJSON.
func (t *TableRecord) UnmarshalYAML(value *yaml.Node) error {
	var d tableDoc
	if err := value.Decode(&d); err != nil {
		return err
	}
	rec, err := d.record()
	if err != nil {
		return err
	}
	*t = rec
	return nil
}

// RimSegment returns the addressed rim record for in-place editing.
func (t *TableRecord) RimSegment(pocket, rim int) (*SegmentRecord, bool) {
	if t == nil || pocket < 0 || pocket >= len(t.Pockets) {
		return nil, false
	}
	p := &t.Pockets[pocket]
	if rim < 0 || rim >= len(p.Rim) {
		return nil, false
	}
	return &p.Rim[rim], true
}

// Clone returns a deep copy so editors can work on a private record.
func (t *TableRecord) Clone() *TableRecord {
	if t == nil {
		return nil
	}
	out := *t
	if t.Pockets != nil {
		out.Pockets = make([]PocketRecord, len(t.Pockets))
		for i, p := range t.Pockets {
			cp := p
			if p.ReboundVelocityThreshold != nil {
				th := *p.ReboundVelocityThreshold
				cp.ReboundVelocityThreshold = &th
			}
			if p.Rim != nil {
				cp.Rim = make([]SegmentRecord, len(p.Rim))
				for j, s := range p.Rim {
					cs := s
					if s.Points != nil {
						cs.Points = append([]Point(nil), s.Points...)
					}
					cp.Rim[j] = cs
				}
			}
			out.Pockets[i] = cp
		}
	}
	return &out
}

// Float returns a pointer to f, for optional record fields.
func Float(f float64) *float64 { return &f }
