package codec

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/playmatatu/tablegeom/internal/fixed"
	"github.com/playmatatu/tablegeom/internal/geom"
)

const (
	// Magic is "PTBL" read as a little-endian uint32.
	Magic uint32 = 0x4C425450

	// CurrentVersion is the version Encode writes.
	CurrentVersion uint16 = 1

	// HeaderSize covers magic and version.
	HeaderSize = 6

	scalarSize     = 8
	vecSize        = 2 * scalarSize
	minSegmentSize = 2*vecSize + 4
	minPocketSize  = vecSize + 2*scalarSize + minSegmentSize
)

// versionLayout holds what differs between format versions.
type versionLayout struct {
	// rimCount returns how many rim segments follow each pocket's scalars.
	rimCount func(r *reader, p *path) (int, error)
	// checkRim validates a rim before it is encoded.
	checkRim func(n int) error
}

func singleRim() versionLayout {
	return versionLayout{
		rimCount: func(*reader, *path) (int, error) { return 1, nil },
		checkRim: func(n int) error {
			if n != 1 {
				return fmt.Errorf("version 1 stores exactly one rim segment per pocket, got %d", n)
			}
			return nil
		},
	}
}

var versions = map[uint16]versionLayout{
	1: singleRim(),
}

// SupportedVersions lists the versions Decode accepts.
func SupportedVersions() []uint16 {
	out := make([]uint16, 0, len(versions))
	for v := range versions {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Version returns the format version recorded in buf's header without
// decoding the body.
func Version(buf []byte) (uint16, error) {
	if buf == nil {
		return 0, fmt.Errorf("%w: no buffer", ErrInvalidArgument)
	}
	if len(buf) < HeaderSize {
		return 0, &FormatError{Field: "header", Reason: fmt.Sprintf("header too short: need %d bytes, got %d", HeaderSize, len(buf))}
	}
	if magic := binary.LittleEndian.Uint32(buf[0:4]); magic != Magic {
		return 0, &FormatError{Field: "header.magic", Reason: fmt.Sprintf("bad magic 0x%08X, want 0x%08X", magic, Magic)}
	}
	return binary.LittleEndian.Uint16(buf[4:6]), nil
}

// Decode parses a binary layout. It either returns the whole layout or an
// error and a zero Layout; nothing partial is ever returned.
func Decode(buf []byte) (geom.Layout, error) {
	if buf == nil {
		return geom.Layout{}, fmt.Errorf("%w: no buffer", ErrInvalidArgument)
	}

	r := &reader{buf: buf}
	if len(buf) < HeaderSize {
		return geom.Layout{}, r.fail(root("header"), "header too short: need %d bytes, got %d", HeaderSize, len(buf))
	}

	hdr := root("header")
	magicStart := r.off
	magic, err := r.uint32(hdr.field("magic"))
	if err != nil {
		return geom.Layout{}, err
	}
	if magic != Magic {
		return geom.Layout{}, &FormatError{Field: "header.magic", Offset: magicStart,
			Reason: fmt.Sprintf("bad magic 0x%08X, want 0x%08X", magic, Magic)}
	}

	versionStart := r.off
	version, err := r.uint16(hdr.field("version"))
	if err != nil {
		return geom.Layout{}, err
	}
	layout, ok := versions[version]
	if !ok {
		return geom.Layout{}, &FormatError{Field: "header.version", Offset: versionStart,
			Reason: fmt.Sprintf("unsupported version %d", version)}
	}

	l, err := decodeBody(r, layout)
	if err != nil {
		return geom.Layout{}, err
	}
	if r.remaining() != 0 {
		return geom.Layout{}, r.fail(root("trailer"), "%d unexpected trailing bytes", r.remaining())
	}
	return l, nil
}

func decodeBody(r *reader, v versionLayout) (geom.Layout, error) {
	n, err := r.count(root("segmentCount"), minSegmentSize)
	if err != nil {
		return geom.Layout{}, err
	}
	segments := make([]geom.Segment, n)
	for i := range segments {
		if segments[i], err = r.segment(rootAt("segments", i)); err != nil {
			return geom.Layout{}, err
		}
	}

	n, err = r.count(root("pocketCount"), minPocketSize)
	if err != nil {
		return geom.Layout{}, err
	}
	pockets := make([]geom.Pocket, n)
	for i := range pockets {
		if pockets[i], err = decodePocket(r, v, i); err != nil {
			return geom.Layout{}, err
		}
	}

	return geom.Layout{Segments: segments, Pockets: pockets}, nil
}

func decodePocket(r *reader, v versionLayout, id int) (geom.Pocket, error) {
	p := rootAt("pockets", id)
	pocket := geom.Pocket{ID: id}
	var err error

	if pocket.Center, err = r.vec(p.field("center")); err != nil {
		return pocket, err
	}
	radius, err := r.int64(p.field("radius"))
	if err != nil {
		return pocket, err
	}
	threshold, err := r.int64(p.field("reboundVelocityThreshold"))
	if err != nil {
		return pocket, err
	}
	pocket.Radius = fixed.FromRaw(radius)
	pocket.ReboundVelocityThreshold = fixed.FromRaw(threshold)

	rims, err := v.rimCount(r, p.field("rimCount"))
	if err != nil {
		return pocket, err
	}
	pocket.Rim = make([]geom.Segment, rims)
	for j := range pocket.Rim {
		if pocket.Rim[j], err = r.segment(p.at("rim", j)); err != nil {
			return pocket, err
		}
	}
	return pocket, nil
}
