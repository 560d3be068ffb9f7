package ovba

import "encoding/binary"

// sliceCursor reads little-endian fields from a byte slice.
// Reads past the end fail with ErrTruncated.
type sliceCursor struct {
	data []byte // The byte slice to read from.
	pos  int    // The current position in the byte slice.
}

// remaining returns the number of unread bytes.
func (c *sliceCursor) remaining() int {
	return len(c.data) - c.pos
}

// readByte reads one byte.
func (c *sliceCursor) readByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, ErrTruncated
	}

	b := c.data[c.pos]
	c.pos++

	return b, nil
}

// readUint16 reads a little-endian uint16.
func (c *sliceCursor) readUint16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, ErrTruncated
	}

	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2

	return v, nil
}

// readUint32 reads a little-endian uint32.
func (c *sliceCursor) readUint32() (uint32, error) {
	if c.remaining() < 4 {
		return 0, ErrTruncated
	}

	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4

	return v, nil
}

// readBytes reads the next n bytes without copying.
func (c *sliceCursor) readBytes(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, ErrTruncated
	}

	b := c.data[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

// peekUint16 returns the next little-endian uint16 without advancing.
func (c *sliceCursor) peekUint16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, ErrTruncated
	}

	return binary.LittleEndian.Uint16(c.data[c.pos:]), nil
}
