package streamio

import (
	"encoding/binary"
	"io"
)

// Writer mirrors Reader: writes never panic, and a sink failure sets a
// sticky invalid flag instead of returning an error from every call site.
type Writer struct {
	w       io.Writer
	invalid bool
}

// NewWriter wraps w for sequential writing.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// IsValid reports whether every write so far has succeeded.
func (s *Writer) IsValid() bool { return !s.invalid }

func (s *Writer) put(buf []byte) {
	if s.invalid {
		return
	}
	if _, err := s.w.Write(buf); err != nil {
		s.invalid = true
	}
}

// WriteByte writes a single byte.
func (s *Writer) WriteByte(b byte) { s.put([]byte{b}) }

// WriteBytes writes b verbatim.
func (s *Writer) WriteBytes(b []byte) { s.put(b) }

func (s *Writer) writeUint(n int, order binary.ByteOrder, value uint64) {
	buf := make([]byte, 8)
	switch order {
	case binary.LittleEndian:
		binary.LittleEndian.PutUint64(buf, value)
		s.put(buf[:n])
	case binary.BigEndian:
		binary.BigEndian.PutUint64(buf, value)
		s.put(buf[8-n:])
	}
}

func (s *Writer) Write2BytesLE(v uint16) { s.writeUint(2, binary.LittleEndian, uint64(v)) }
func (s *Writer) Write3BytesLE(v uint32) { s.writeUint(3, binary.LittleEndian, uint64(v)) }
func (s *Writer) Write4BytesLE(v uint32) { s.writeUint(4, binary.LittleEndian, uint64(v)) }
func (s *Writer) Write5BytesLE(v uint64) { s.writeUint(5, binary.LittleEndian, v) }
func (s *Writer) Write6BytesLE(v uint64) { s.writeUint(6, binary.LittleEndian, v) }
func (s *Writer) Write7BytesLE(v uint64) { s.writeUint(7, binary.LittleEndian, v) }
func (s *Writer) Write8BytesLE(v uint64) { s.writeUint(8, binary.LittleEndian, v) }

func (s *Writer) Write2BytesBE(v uint16) { s.writeUint(2, binary.BigEndian, uint64(v)) }
func (s *Writer) Write3BytesBE(v uint32) { s.writeUint(3, binary.BigEndian, uint64(v)) }
func (s *Writer) Write4BytesBE(v uint32) { s.writeUint(4, binary.BigEndian, uint64(v)) }
func (s *Writer) Write5BytesBE(v uint64) { s.writeUint(5, binary.BigEndian, v) }
func (s *Writer) Write6BytesBE(v uint64) { s.writeUint(6, binary.BigEndian, v) }
func (s *Writer) Write7BytesBE(v uint64) { s.writeUint(7, binary.BigEndian, v) }
func (s *Writer) Write8BytesBE(v uint64) { s.writeUint(8, binary.BigEndian, v) }

// WriteVariableLE writes v using Bitcoin's compact-size encoding: the
// shortest of 1/3/5/9 bytes that can represent the value.
func (s *Writer) WriteVariableLE(v uint64) {
	switch {
	case v < 0xfd:
		s.WriteByte(byte(v))
	case v <= 0xffff:
		s.WriteByte(0xfd)
		s.Write2BytesLE(uint16(v))
	case v <= 0xffffffff:
		s.WriteByte(0xfe)
		s.Write4BytesLE(uint32(v))
	default:
		s.WriteByte(0xff)
		s.Write8BytesLE(v)
	}
}

// WriteVariableBE is the big-endian counterpart, for completeness.
func (s *Writer) WriteVariableBE(v uint64) {
	switch {
	case v < 0xfd:
		s.WriteByte(byte(v))
	case v <= 0xffff:
		s.WriteByte(0xfd)
		s.Write2BytesBE(uint16(v))
	case v <= 0xffffffff:
		s.WriteByte(0xfe)
		s.Write4BytesBE(uint32(v))
	default:
		s.WriteByte(0xff)
		s.Write8BytesBE(v)
	}
}

// VariableSize returns the number of bytes WriteVariableLE/BE would emit
// for v — the basis for the "shortest encoding" testable property.
func VariableSize(v uint64) int {
	switch {
	case v < 0xfd:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// WriteString writes a varint-length-prefixed byte string.
func (s *Writer) WriteString(b []byte) {
	s.WriteVariableLE(uint64(len(b)))
	s.WriteBytes(b)
}

// WriteFixedString writes b into a fixed n-byte, NUL-padded field. It marks
// the writer invalid if b is longer than n.
func (s *Writer) WriteFixedString(b []byte, n int) {
	if len(b) > n {
		s.invalid = true
		return
	}
	buf := make([]byte, n)
	copy(buf, b)
	s.put(buf)
}

// WriteErrorCode writes a 4-byte little-endian error code.
func (s *Writer) WriteErrorCode(code uint32) { s.Write4BytesLE(code) }
