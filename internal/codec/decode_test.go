package codec

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/playmatatu/tablegeom/internal/authoring"
	"github.com/playmatatu/tablegeom/internal/fixed"
	"github.com/playmatatu/tablegeom/internal/geom"
)

// wire builds raw buffers field by field, including ones Encode refuses to write.
type wire struct {
	b []byte
}

func newWire() *wire {
	w := &wire{}
	w.u32(Magic).u16(CurrentVersion)
	return w
}

func (w *wire) u16(v uint16) *wire { w.b = binary.LittleEndian.AppendUint16(w.b, v); return w }
func (w *wire) u32(v uint32) *wire { w.b = binary.LittleEndian.AppendUint32(w.b, v); return w }
func (w *wire) i32(v int32) *wire  { return w.u32(uint32(v)) }
func (w *wire) i64(v int64) *wire  { w.b = binary.LittleEndian.AppendUint64(w.b, uint64(v)); return w }
func (w *wire) vec(x, y int64) *wire {
	return w.i64(x).i64(y)
}

func formatError(t *testing.T, err error) *FormatError {
	t.Helper()
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected a malformed-format error, got %v", err)
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %T", err)
	}
	return fe
}

func TestDecodeEmptyLayout(t *testing.T) {
	buf := newWire().i32(0).i32(0).b
	l, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if l.Segments == nil || l.Pockets == nil || len(l.Segments) != 0 || len(l.Pockets) != 0 {
		t.Errorf("expected empty lists, got %+v", l)
	}
}

func TestDecodeNilBuffer(t *testing.T) {
	_, err := Decode(nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil buffer should be an invalid argument, got %v", err)
	}
	if errors.Is(err, ErrMalformed) {
		t.Errorf("nil buffer should not be a format error")
	}
}

func TestDecodeShortHeader(t *testing.T) {
	buf := binary.LittleEndian.AppendUint32(nil, Magic)
	fe := formatError(t, func() error { _, err := Decode(buf); return err }())
	if !strings.Contains(fe.Reason, "header too short") {
		t.Errorf("reason=%q", fe.Reason)
	}
	if _, err := Decode([]byte{}); !errors.Is(err, ErrMalformed) {
		t.Errorf("empty buffer should be malformed, got %v", err)
	}
}

func TestDecodeBadMagicAndVersion(t *testing.T) {
	// Body is garbage on purpose: the header must fail first.
	bad := (&wire{}).u32(0xDEADBEEF).u16(CurrentVersion).i32(-1).b
	_, err := Decode(bad)
	if fe := formatError(t, err); fe.Field != "header.magic" {
		t.Errorf("field=%q want header.magic", fe.Field)
	}

	bad = (&wire{}).u32(Magic).u16(CurrentVersion + 1).i32(-1).b
	_, err = Decode(bad)
	if fe := formatError(t, err); fe.Field != "header.version" {
		t.Errorf("field=%q want header.version", fe.Field)
	}
}

func TestDecodeSingleSegmentKeepsRawBits(t *testing.T) {
	one := fixed.One.Raw()
	odd := int64(-0x123456789)
	buf := newWire().
		i32(1).vec(0, 0).vec(one, odd).i32(0).
		i32(0).b

	l, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(l.Segments) != 1 {
		t.Fatalf("segments=%d", len(l.Segments))
	}
	s := l.Segments[0]
	if s.Points.Present() {
		t.Errorf("zero connection points should decode as absent")
	}
	if s.End.X.Raw() != one || s.End.Y.Raw() != odd || !s.Start.IsZero() {
		t.Errorf("raw bits not preserved: %+v", s)
	}

	built := authoring.BuildSegments([]authoring.SegmentPair{{End: authoring.Point{X: 1}}})
	if !built[0].Points.Equal(s.Points) {
		t.Errorf("decoded absent points differ from built absent points")
	}
}

func TestDecodeConnectionPointsAndPockets(t *testing.T) {
	buf := newWire().
		i32(1).vec(1, 2).vec(3, 4).i32(2).vec(5, 6).vec(7, 8).
		i32(2).
		vec(10, 11).i64(12).i64(13).vec(14, 15).vec(16, 17).i32(0).
		vec(20, 21).i64(22).i64(23).vec(24, 25).vec(26, 27).i32(1).vec(28, 29).
		b

	l, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	pts := l.Segments[0].Points
	if pts.Len() != 2 || !pts.At(1).IsEqualTo(geom.RawVec2(7, 8)) {
		t.Errorf("points=%+v", pts.Slice())
	}
	if len(l.Pockets) != 2 {
		t.Fatalf("pockets=%d", len(l.Pockets))
	}
	for i, p := range l.Pockets {
		if p.ID != i {
			t.Errorf("pocket %d id=%d", i, p.ID)
		}
		if len(p.Rim) != 1 {
			t.Errorf("pocket %d rim=%d", i, len(p.Rim))
		}
	}
	p1 := l.Pockets[1]
	if p1.Radius.Raw() != 22 || p1.ReboundVelocityThreshold.Raw() != 23 {
		t.Errorf("pocket 1 scalars: %+v", p1)
	}
	if l.Pockets[0].Rim[0].Points.Present() || p1.Rim[0].Points.Len() != 1 {
		t.Errorf("rim points not decoded as expected")
	}
}

func TestDecodeRejectsNegativeCounts(t *testing.T) {
	cases := map[string][]byte{
		"segmentCount":         newWire().i32(-1).i32(0).b,
		"pocketCount":          newWire().i32(0).i32(-5).b,
		"connectionPointCount": newWire().i32(1).vec(0, 0).vec(0, 0).i32(-2).i32(0).b,
	}
	for field, buf := range cases {
		_, err := Decode(buf)
		fe := formatError(t, err)
		if !strings.HasSuffix(fe.Field, field) || !strings.Contains(fe.Reason, "negative") {
			t.Errorf("%s: got field=%q reason=%q", field, fe.Field, fe.Reason)
		}
	}
}

func TestDecodeRejectsHugeCountBeforeAllocating(t *testing.T) {
	buf := newWire().i32(1 << 30).b
	_, err := Decode(buf)
	fe := formatError(t, err)
	if fe.Field != "segmentCount" {
		t.Errorf("field=%q", fe.Field)
	}
}

func TestDecodeNamesTruncatedField(t *testing.T) {
	// The first segment's points keep segmentCount plausible, so decoding
	// gets as far as the second segment's end before running out.
	buf := newWire().
		i32(2).
		vec(0, 0).vec(1, 1).i32(3).vec(2, 2).vec(3, 3).vec(4, 4).
		vec(5, 5).vec(6, 6).i32(0).
		i32(0).b
	_, err := Decode(buf[:len(buf)-11])
	if fe := formatError(t, err); fe.Field != "segments[1].end.y" {
		t.Errorf("field=%q", fe.Field)
	}

	buf = newWire().
		i32(0).
		i32(2).
		vec(1, 1).i64(2).i64(3).vec(0, 0).vec(1, 1).i32(2).vec(5, 5).vec(6, 6).
		vec(1, 1).i64(2).i64(3).vec(0, 0).vec(1, 1).i32(0).b
	_, err = Decode(buf[:len(buf)-23])
	if fe := formatError(t, err); fe.Field != "pockets[1].rim[0].start.y" {
		t.Errorf("field=%q", fe.Field)
	}
}

func TestDecodeNamesTruncatedConnectionPoint(t *testing.T) {
	buf := newWire().
		i32(1).
		vec(0, 0).vec(1, 1).i32(3).vec(2, 2).vec(3, 3).vec(4, 4).
		i32(0).b

	cases := []struct {
		cut   int
		field string
	}{
		{5, "segments[0].points[2].y"},
		{12, "segments[0].points[2].y"},
		{20, "segments[0].points[2].x"},
		{36, "segments[0].points[1].x"},
	}
	for _, tc := range cases {
		_, err := Decode(buf[:len(buf)-tc.cut])
		if fe := formatError(t, err); fe.Field != tc.field {
			t.Errorf("cut %d: field=%q want %q", tc.cut, fe.Field, tc.field)
		}
	}
}

func TestDecodeHugePointCountFailsAtFirstMissingPoint(t *testing.T) {
	buf := newWire().i32(1).vec(0, 0).vec(1, 1).i32(1<<30).vec(2, 2).b
	_, err := Decode(buf)
	if fe := formatError(t, err); fe.Field != "segments[0].points[1].x" {
		t.Errorf("field=%q", fe.Field)
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	buf := append(newWire().i32(0).i32(0).b, 0)
	_, err := Decode(buf)
	if fe := formatError(t, err); fe.Field != "trailer" {
		t.Errorf("field=%q", fe.Field)
	}
}

func TestDecodeEveryTruncationFails(t *testing.T) {
	buf, err := Encode(authoring.Build(authoring.StandardTable()))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(buf); err != nil {
		t.Fatalf("full buffer should decode: %v", err)
	}
	for n := 0; n < len(buf); n++ {
		l, err := Decode(buf[:n])
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("truncated to %d bytes: expected malformed error, got %v", n, err)
		}
		if l.Segments != nil || l.Pockets != nil {
			t.Fatalf("truncated to %d bytes: partial layout returned", n)
		}
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	buf, err := Encode(authoring.Build(authoring.StandardTable()))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	a, errA := Decode(buf)
	b, errB := Decode(buf)
	if errA != nil || errB != nil {
		t.Fatalf("decode: %v %v", errA, errB)
	}
	if !a.Equal(b) {
		t.Errorf("decoding the same bytes twice gave different layouts")
	}
}

func TestSupportedVersions(t *testing.T) {
	vs := SupportedVersions()
	if len(vs) != 1 || vs[0] != CurrentVersion {
		t.Errorf("versions=%v", vs)
	}
}

func TestSupportedVersionsAreSorted(t *testing.T) {
	for _, v := range []uint16{9, 3, 5} {
		versions[v] = singleRim()
	}
	t.Cleanup(func() {
		for _, v := range []uint16{9, 3, 5} {
			delete(versions, v)
		}
	})

	vs := SupportedVersions()
	want := []uint16{1, 3, 5, 9}
	if len(vs) != len(want) {
		t.Fatalf("versions=%v", vs)
	}
	for i := range want {
		if vs[i] != want[i] {
			t.Fatalf("versions=%v, want %v", vs, want)
		}
	}
}

func TestVersionReadsHeader(t *testing.T) {
	versions[7] = singleRim()
	t.Cleanup(func() { delete(versions, 7) })

	buf := (&wire{}).u32(Magic).u16(7).i32(0).i32(0).b
	if _, err := Decode(buf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	v, err := Version(buf)
	if err != nil || v != 7 {
		t.Errorf("version=%d err=%v", v, err)
	}

	if _, err := Version(buf[:3]); !errors.Is(err, ErrMalformed) {
		t.Errorf("short header: %v", err)
	}
	bad := append([]byte{}, buf...)
	bad[0] ^= 0xFF
	if _, err := Version(bad); !errors.Is(err, ErrMalformed) {
		t.Errorf("bad magic: %v", err)
	}
	if _, err := Version(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil buffer: %v", err)
	}
}
