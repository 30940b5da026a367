package classfile

import "encoding/binary"

// reader decodes big-endian class file data. The first out-of-bounds read
// records an error; later reads return zero values.
type reader struct {
	data []byte
	pos  int
	err  *MalformedClassError
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) take(n int, what string) []byte {
	if r.err != nil {
		return nil
	}

	if n < 0 || r.pos+n > len(r.data) {
		r.err = malformed(r.pos, "truncated %s: need %d bytes, have %d", what, n, len(r.data)-r.pos)
		return nil
	}

	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b
}

func (r *reader) u1(what string) uint8 {
	b := r.take(1, what)
	if b == nil {
		return 0
	}

	return b[0]
}

func (r *reader) u2(what string) uint16 {
	b := r.take(2, what)
	if b == nil {
		return 0
	}

	return binary.BigEndian.Uint16(b)
}

func (r *reader) u4(what string) uint32 {
	b := r.take(4, what)
	if b == nil {
		return 0
	}

	return binary.BigEndian.Uint32(b)
}

func (r *reader) u8(what string) uint64 {
	b := r.take(8, what)
	if b == nil {
		return 0
	}

	return binary.BigEndian.Uint64(b)
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = malformed(r.pos, format, args...)
	}
}
