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

// On-disk layout constants for the CFHEADER/CFFOLDER/CFFILE structures.
const (
	magic = "MSCF"

	headerSize      = 36
	folderEntrySize = 8
	fileRecordSize  = 16 // fixed portion, before the NUL-terminated name

	versionMinor = 3
	versionMajor = 1
)

// Folder-index sentinels indicating continuation across a cabinet set.
// Any of these on parse is a NotSupportedError.
const (
	folderContinuedFromPrev uint16 = 0xFFFD
	folderContinuedToNext   uint16 = 0xFFFE
	folderContinuedBoth     uint16 = 0xFFFF
)

// Header flag bits. This implementation supports none of them: any set
// bit means the archive uses a feature (multi-part continuation or a
// reserved extension area) that is out of scope.
const (
	flagPrevCabinet    uint16 = 1 << 0
	flagNextCabinet    uint16 = 1 << 1
	flagReservePresent uint16 = 1 << 2
)

type header struct {
	cabinetSize  uint32
	filesOffset  uint32
	folderCount  uint16
	fileCount    uint16
	flags        uint16
	setID        uint16
	cabinetIndex uint16
}

func parseHeader(c *cursor) (header, error) {
	var h header

	sig, err := c.bytes(4)
	if err != nil {
		return h, corruptw(err, "reading signature")
	}
	if string(sig) != magic {
		return h, corruptf("bad signature %q, expected %q", sig, magic)
	}

	reserved1, err := c.u32le()
	if err != nil {
		return h, corruptw(err, "reading reserved1")
	}
	h.cabinetSize, err = c.u32le()
	if err != nil {
		return h, corruptw(err, "reading cabinet size")
	}
	reserved2, err := c.u32le()
	if err != nil {
		return h, corruptw(err, "reading reserved2")
	}
	h.filesOffset, err = c.u32le()
	if err != nil {
		return h, corruptw(err, "reading files offset")
	}
	reserved3, err := c.u32le()
	if err != nil {
		return h, corruptw(err, "reading reserved3")
	}
	if reserved1 != 0 || reserved2 != 0 || reserved3 != 0 {
		return h, notSupportedf("reserved header fields must be zero, got %d, %d, %d", reserved1, reserved2, reserved3)
	}

	minor, err := c.u8()
	if err != nil {
		return h, corruptw(err, "reading version minor")
	}
	major, err := c.u8()
	if err != nil {
		return h, corruptw(err, "reading version major")
	}
	if major != versionMajor || minor != versionMinor {
		return h, notSupportedf("unsupported cabinet format version %d.%d", major, minor)
	}

	h.folderCount, err = c.u16le()
	if err != nil {
		return h, corruptw(err, "reading folder count")
	}
	h.fileCount, err = c.u16le()
	if err != nil {
		return h, corruptw(err, "reading file count")
	}
	h.flags, err = c.u16le()
	if err != nil {
		return h, corruptw(err, "reading flags")
	}
	if h.flags != 0 {
		return h, notSupportedf("unsupported header flags %#04x", h.flags)
	}
	h.setID, err = c.u16le()
	if err != nil {
		return h, corruptw(err, "reading set id")
	}
	h.cabinetIndex, err = c.u16le()
	if err != nil {
		return h, corruptw(err, "reading cabinet index")
	}

	return h, nil
}

func writeHeader(w *writer, h header) {
	w.raw([]byte(magic))
	w.u32le(0) // reserved1
	w.u32le(h.cabinetSize)
	w.u32le(0) // reserved2
	w.u32le(h.filesOffset)
	w.u32le(0) // reserved3
	w.u8(versionMinor)
	w.u8(versionMajor)
	w.u16le(h.folderCount)
	w.u16le(h.fileCount)
	w.u16le(0) // flags
	w.u16le(h.setID)
	w.u16le(h.cabinetIndex)
}

func parseFolderEntry(c *cursor) (*folder, error) {
	offset, err := c.u32le()
	if err != nil {
		return nil, corruptw(err, "reading folder data offset")
	}
	count, err := c.u16le()
	if err != nil {
		return nil, corruptw(err, "reading folder block count")
	}
	method, err := c.u16le()
	if err != nil {
		return nil, corruptw(err, "reading folder compression method")
	}

	fld := &folder{
		method:          compressionMethod(method),
		firstDataOffset: offset,
		blockCount:      count,
	}
	if _, err := fld.method.compressor(); err != nil {
		return nil, err
	}
	return fld, nil
}

func writeFolderEntryPlaceholder(w *writer, method compressionMethod) (patchAt int) {
	patchAt = w.offset()
	w.u32le(0) // first data offset, back-patched
	w.u16le(0) // block count, back-patched
	w.u16le(uint16(method))
	return patchAt
}

type fileRecord struct {
	uncompressedSize uint32
	folderOffset     uint32
	folderIndex      uint16
	packedDate       uint16
	packedTime       uint16
	attributes       uint16
	name             string
}

func parseFileRecord(c *cursor) (fileRecord, error) {
	var r fileRecord
	var err error

	if r.uncompressedSize, err = c.u32le(); err != nil {
		return r, corruptw(err, "reading file size")
	}
	if r.folderOffset, err = c.u32le(); err != nil {
		return r, corruptw(err, "reading folder offset")
	}
	if r.folderIndex, err = c.u16le(); err != nil {
		return r, corruptw(err, "reading folder index")
	}
	switch r.folderIndex {
	case folderContinuedFromPrev, folderContinuedToNext, folderContinuedBoth:
		return r, notSupportedf("file references a continuation folder index %#04x", r.folderIndex)
	}
	if r.packedDate, err = c.u16le(); err != nil {
		return r, corruptw(err, "reading packed date")
	}
	if r.packedTime, err = c.u16le(); err != nil {
		return r, corruptw(err, "reading packed time")
	}
	if r.attributes, err = c.u16le(); err != nil {
		return r, corruptw(err, "reading attributes")
	}
	if r.name, err = c.cString(); err != nil {
		return r, err
	}
	if r.name == "" {
		return r, corruptf("file record has an empty filename")
	}
	return r, nil
}

func writeFileRecord(w *writer, r fileRecord) {
	w.u32le(r.uncompressedSize)
	w.u32le(r.folderOffset)
	w.u16le(r.folderIndex)
	w.u16le(r.packedDate)
	w.u16le(r.packedTime)
	w.u16le(r.attributes)
	w.cString(r.name)
}
