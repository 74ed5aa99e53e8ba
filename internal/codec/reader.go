package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/playmatatu/tablegeom/internal/geom"
)

// reader is a single forward pass over an immutable buffer. Every read
// checks the remaining length first.
type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int { return len(r.buf) - r.off }

func (r *reader) fail(p *path, format string, args ...any) error {
	return &FormatError{Field: p.String(), Offset: r.off, Reason: fmt.Sprintf(format, args...)}
}

func (r *reader) take(n int, p *path) ([]byte, error) {
	if r.remaining() < n {
		return nil, r.fail(p, "need %d bytes, %d remain", n, r.remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) uint16(p *path) (uint16, error) {
	b, err := r.take(2, p)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) uint32(p *path) (uint32, error) {
	b, err := r.take(4, p)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) int32(p *path) (int32, error) {
	v, err := r.uint32(p)
	return int32(v), err
}

func (r *reader) int64(p *path) (int64, error) {
	b, err := r.take(8, p)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// count reads an int32 element count and rejects negative values. With a
// positive minSize it also rejects counts the remaining bytes could not hold
// at minSize bytes per element.
func (r *reader) count(p *path, minSize int) (int, error) {
	start := r.off
	v, err := r.int32(p)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, &FormatError{Field: p.String(), Offset: start, Reason: fmt.Sprintf("negative count %d", v)}
	}
	n := int(v)
	if minSize > 0 && n > r.remaining()/minSize {
		return 0, &FormatError{Field: p.String(), Offset: start,
			Reason: fmt.Sprintf("count %d needs at least %d bytes, %d remain", n, n*minSize, r.remaining())}
	}
	return n, nil
}

func (r *reader) vec(p *path) (geom.Vec2, error) {
	x, err := r.int64(p.field("x"))
	if err != nil {
		return geom.Vec2{}, err
	}
	y, err := r.int64(p.field("y"))
	if err != nil {
		return geom.Vec2{}, err
	}
	return geom.RawVec2(x, y), nil
}

func (r *reader) segment(p *path) (geom.Segment, error) {
	var s geom.Segment
	var err error

	if s.Start, err = r.vec(p.field("start")); err != nil {
		return s, err
	}
	if s.End, err = r.vec(p.field("end")); err != nil {
		return s, err
	}

	// The point count is not checked against the remaining bytes up front so
	// a short buffer names the point and coordinate that ran out.
	n, err := r.count(p.field("connectionPointCount"), 0)
	if err != nil {
		return s, err
	}
	if n == 0 {
		return s, nil
	}

	pts := make([]geom.Vec2, 0, min(n, r.remaining()/vecSize))
	for i := 0; i < n; i++ {
		v, err := r.vec(p.at("points", i))
		if err != nil {
			return s, err
		}
		pts = append(pts, v)
	}
	s.Points = geom.PointsOf(pts...)
	return s, nil
}
