package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidArgument is returned when no buffer is supplied.
	ErrInvalidArgument = errors.New("codec: invalid argument")

	// ErrMalformed matches every *FormatError via errors.Is.
	ErrMalformed = errors.New("codec: malformed layout")
)

// FormatError reports the field that could not be decoded. Field is a path
// such as "pockets[2].rim[0].points[1].y".
type FormatError struct {
	Field  string
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed layout: %s at offset %d: %s", e.Field, e.Offset, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrMalformed
}

// path names a field lazily; it is only rendered when a read fails.
type path struct {
	parent *path
	name   string
	index  int
}

func root(name string) *path { return &path{name: name, index: -1} }

func rootAt(name string, i int) *path { return &path{name: name, index: i} }

func (p *path) field(name string) *path {
	return &path{parent: p, name: name, index: -1}
}

func (p *path) at(name string, i int) *path {
	return &path{parent: p, name: name, index: i}
}

func (p *path) String() string {
	var parts []string
	for n := p; n != nil; n = n.parent {
		s := n.name
		if n.index >= 0 {
			s += "[" + strconv.Itoa(n.index) + "]"
		}
		parts = append(parts, s)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}
