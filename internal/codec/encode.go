package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/playmatatu/tablegeom/internal/geom"
)

// Encode writes l in the CurrentVersion layout. Scalars are written as
// their raw bit patterns, so Decode(Encode(l)) reproduces l exactly.
func Encode(l geom.Layout) ([]byte, error) {
	v := versions[CurrentVersion]

	size := HeaderSize + 4 + 4
	for _, s := range l.Segments {
		size += segmentSize(s)
	}
	for i, p := range l.Pockets {
		if err := v.checkRim(len(p.Rim)); err != nil {
			return nil, fmt.Errorf("encode pocket %d: %w", i, err)
		}
		size += vecSize + 2*scalarSize
		for _, s := range p.Rim {
			size += segmentSize(s)
		}
	}

	buf := make([]byte, 0, size)
	buf = binary.LittleEndian.AppendUint32(buf, Magic)
	buf = binary.LittleEndian.AppendUint16(buf, CurrentVersion)

	var err error
	if buf, err = appendCount(buf, len(l.Segments), "segmentCount"); err != nil {
		return nil, err
	}
	for i, s := range l.Segments {
		if buf, err = appendSegment(buf, s); err != nil {
			return nil, fmt.Errorf("encode segment %d: %w", i, err)
		}
	}

	if buf, err = appendCount(buf, len(l.Pockets), "pocketCount"); err != nil {
		return nil, err
	}
	for i, p := range l.Pockets {
		buf = appendVec(buf, p.Center)
		buf = appendScalar(buf, p.Radius.Raw())
		buf = appendScalar(buf, p.ReboundVelocityThreshold.Raw())
		for j, s := range p.Rim {
			if buf, err = appendSegment(buf, s); err != nil {
				return nil, fmt.Errorf("encode pocket %d rim %d: %w", i, j, err)
			}
		}
	}
	return buf, nil
}

func segmentSize(s geom.Segment) int {
	return minSegmentSize + s.Points.Len()*vecSize
}

func appendCount(buf []byte, n int, field string) ([]byte, error) {
	if n > math.MaxInt32 {
		return nil, fmt.Errorf("%s %d does not fit in int32", field, n)
	}
	return binary.LittleEndian.AppendUint32(buf, uint32(int32(n))), nil
}

func appendScalar(buf []byte, raw int64) []byte {
	return binary.LittleEndian.AppendUint64(buf, uint64(raw))
}

func appendVec(buf []byte, v geom.Vec2) []byte {
	buf = appendScalar(buf, v.X.Raw())
	return appendScalar(buf, v.Y.Raw())
}

func appendSegment(buf []byte, s geom.Segment) ([]byte, error) {
	buf = appendVec(buf, s.Start)
	buf = appendVec(buf, s.End)
	buf, err := appendCount(buf, s.Points.Len(), "connectionPointCount")
	if err != nil {
		return nil, err
	}
	for i := 0; i < s.Points.Len(); i++ {
		buf = appendVec(buf, s.Points.At(i))
	}
	return buf, nil
}
