// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cabarchive

import "encoding/binary"

// cursor is a bounds-checked, positioned reader over a byte slice. It
// underlies the header, folder-entry, file-record, and block decoders:
// every on-disk integer and NUL-terminated string read from the format
// passes through it. Emitting goes through writer instead.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// len reports the total number of bytes backing the cursor.
func (c *cursor) len() int { return len(c.buf) }

func (c *cursor) need(n int) error {
	if n < 0 || c.pos+n > len(c.buf) {
		return corruptf("unexpected end of archive at offset %d, need %d more byte(s)", c.pos, n)
	}
	return nil
}

func (c *cursor) u8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u16le() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) u32le() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// bytes returns a raw slice of n bytes at the current position, advancing
// past it. The returned slice aliases the cursor's backing array.
func (c *cursor) bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	v := c.buf[c.pos : c.pos+n]
	c.pos += n
	return v, nil
}

// cString reads a NUL-terminated string, returning the bytes up to, but not
// including, the terminator. Fails with CorruptionError if no terminator
// is found before the end of the buffer.
func (c *cursor) cString() (string, error) {
	for i := c.pos; i < len(c.buf); i++ {
		if c.buf[i] == 0x00 {
			s := string(c.buf[c.pos:i])
			c.pos = i + 1
			return s, nil
		}
	}
	return "", corruptf("name starting at offset %d is not NUL-terminated", c.pos)
}

// writer accumulates emitted bytes. Callers record the absolute offset of
// a placeholder field with offset() before writing it, and back-patch it
// with patchU16/patchU32 once dependent regions (sizes, nested offsets)
// are known.
type writer struct {
	buf []byte
}

// offset returns the current write position, for use as a back-patch
// target recorded by the caller.
func (w *writer) offset() int { return len(w.buf) }

func (w *writer) u8(v uint8) { w.buf = append(w.buf, v) }

func (w *writer) u16le(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) u32le(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) raw(b []byte) { w.buf = append(w.buf, b...) }

func (w *writer) cString(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0x00)
}

// patchU32 overwrites the 4 bytes at the given offset (as returned earlier
// by offset()) with v, little-endian.
func (w *writer) patchU32(at int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf[at:at+4], v)
}

func (w *writer) patchU16(at int, v uint16) {
	binary.LittleEndian.PutUint16(w.buf[at:at+2], v)
}
