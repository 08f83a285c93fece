package cabarchive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttrsRoundTrip(t *testing.T) {
	// Every combination of the six defined flag bits must survive a
	// decode/encode round trip unchanged. 0x08 and 0x10 are undefined and
	// ignored on parse, so they are deliberately excluded here.
	definedBits := []uint16{attrReadOnly, attrHidden, attrSystem, attrArchived, attrExecutable, attrNameUTF8}
	for combo := 0; combo < 1<<len(definedBits); combo++ {
		var bitmap uint16
		for i, bit := range definedBits {
			if combo&(1<<i) != 0 {
				bitmap |= bit
			}
		}
		a := decodeAttrs(bitmap)
		assert.Equal(t, bitmap, a.encode(), "bitmap %#02x", bitmap)
	}
}

func TestDecodeAttrsIgnoresUndefinedBits(t *testing.T) {
	// 0x08 and 0x10 are undefined in the attribute bitmap; decode must
	// ignore them rather than round-tripping them through encode.
	a := decodeAttrs(0x08 | 0x10 | attrArchived)
	assert.Equal(t, attrArchived, a.encode())
}

func TestDecodeAttrsFields(t *testing.T) {
	a := decodeAttrs(attrReadOnly | attrSystem | attrNameUTF8)
	assert.True(t, a.ReadOnly)
	assert.False(t, a.Hidden)
	assert.True(t, a.System)
	assert.False(t, a.Archived)
	assert.False(t, a.Executable)
	assert.True(t, a.IsNameUTF8)
}

func TestNameNeedsUTF8(t *testing.T) {
	assert.False(t, nameNeedsUTF8("hello.c"))
	assert.False(t, nameNeedsUTF8("WELCOME.C"))
	assert.True(t, nameNeedsUTF8("tést.dat"))
	assert.True(t, nameNeedsUTF8("日本語.txt"))
}

func TestFileSetFilenameTracksUTF8Flag(t *testing.T) {
	f := NewFile("plain.txt", nil, time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, f.IsNameUTF8())

	f.SetFilename("tést.dat")
	assert.True(t, f.IsNameUTF8())

	f.SetFilename("plain.txt")
	assert.False(t, f.IsNameUTF8())
}
