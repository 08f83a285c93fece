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

import (
	"os"

	"github.com/hughsie/go-cabarchive/internal/glob"
)

// defaultMaxUncompressedSize bounds resource use against hostile input:
// declared cabinet size or summed uncompressed block length beyond this
// is refused rather than allocated.
const defaultMaxUncompressedSize = 2 << 30 // 2 GiB

const maxUint32 = 1<<32 - 1

// ParseOption configures Parse and ParseFile.
type ParseOption func(*parseOptions)

type parseOptions struct {
	maxUncompressedSize int64
}

// WithMaxUncompressedSize overrides the resource limit an archive's
// declared cabinet size and summed uncompressed block length must stay
// under. Archives exceeding it fail with NotSupportedError instead of
// being allocated. The default is 2 GiB.
func WithMaxUncompressedSize(n int64) ParseOption {
	return func(o *parseOptions) { o.maxUncompressedSize = n }
}

// Archive is an in-memory Microsoft Cabinet archive: a caller-assigned
// SetID and an ordered list of Files. The archive owns its files
// exclusively; each File owns its own content bytes.
type Archive struct {
	// SetID groups cabinets that belong to the same logical set. It is
	// caller-assigned; this package never inspects it beyond round
	// tripping it.
	SetID uint16

	// Files is the ordered list of files in the archive.
	Files []*File
}

// New returns an empty Archive.
func New() *Archive {
	return &Archive{}
}

// AddFile appends f to the archive's file list.
func (a *Archive) AddFile(f *File) {
	a.Files = append(a.Files, f)
}

// FindFile returns the first file whose name matches the shell-style
// wildcard pattern ("*" any run, "?" exactly one character, case
// sensitive), or nil if none match.
func (a *Archive) FindFile(pattern string) *File {
	for _, f := range a.Files {
		if glob.Match(pattern, f.Filename()) {
			return f
		}
	}
	return nil
}

// Parse populates a new Archive from a byte stream conforming to the
// MSCAB format. It fails with CorruptionError if the stream violates the
// format, or NotSupportedError if it is well-formed MSCAB but uses a
// feature this package declines to handle.
func Parse(data []byte, opts ...ParseOption) (*Archive, error) {
	options := parseOptions{maxUncompressedSize: defaultMaxUncompressedSize}
	for _, opt := range opts {
		opt(&options)
	}

	c := newCursor(data)
	h, err := parseHeader(c)
	if err != nil {
		return nil, err
	}
	if int64(h.cabinetSize) > options.maxUncompressedSize {
		return nil, notSupportedf("declared cabinet size %d exceeds the %d byte limit", h.cabinetSize, options.maxUncompressedSize)
	}
	if int(h.cabinetSize) > len(data) {
		return nil, corruptf("cabinet declares size %d but only %d byte(s) are available", h.cabinetSize, len(data))
	}

	folders := make([]*folder, h.folderCount)
	for i := range folders {
		fld, err := parseFolderEntry(c)
		if err != nil {
			return nil, err
		}
		folders[i] = fld
	}

	if int(h.filesOffset) > len(data) {
		return nil, corruptf("files offset %d is beyond the end of the archive", h.filesOffset)
	}
	c.pos = int(h.filesOffset)

	files := make([]*File, h.fileCount)
	sizes := make([]uint32, h.fileCount)
	for i := range files {
		rec, err := parseFileRecord(c)
		if err != nil {
			return nil, err
		}
		if int(rec.folderIndex) >= len(folders) {
			return nil, corruptf("file %q references out-of-range folder index %d", rec.name, rec.folderIndex)
		}
		modTime, err := unpackDateTime(rec.packedDate, rec.packedTime)
		if err != nil {
			return nil, err
		}

		f := &File{
			filename:     rec.name,
			ModTime:      modTime,
			folderIndex:  int(rec.folderIndex),
			folderOffset: rec.folderOffset,
		}
		f.applyAttrs(decodeAttrs(rec.attributes))

		files[i] = f
		sizes[i] = rec.uncompressedSize
		folders[rec.folderIndex].files = append(folders[rec.folderIndex].files, i)
	}

	folderData := make([][]byte, len(folders))
	var totalUncompressed int64
	for i, fld := range folders {
		buf, err := parseFolderData(data, fld)
		if err != nil {
			return nil, err
		}
		totalUncompressed += int64(len(buf))
		if totalUncompressed > options.maxUncompressedSize {
			return nil, notSupportedf("archive's uncompressed payload exceeds the %d byte limit", options.maxUncompressedSize)
		}
		folderData[i] = buf
	}

	for i, f := range files {
		buf := folderData[f.folderIndex]
		start := int64(f.folderOffset)
		end := start + int64(sizes[i])
		if start < 0 || end > int64(len(buf)) {
			return nil, corruptf("file %q (%d bytes at folder offset %d) falls outside its folder's %d byte stream", f.filename, sizes[i], f.folderOffset, len(buf))
		}
		f.Content = append([]byte(nil), buf[start:end]...)
	}

	return &Archive{SetID: h.setID, Files: files}, nil
}

// ParseFile reads name in full and parses it as an Archive.
func ParseFile(name string, opts ...ParseOption) (*Archive, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Parse(data, opts...)
}

// Save serializes the archive into a byte stream conforming to the MSCAB
// format. All files are placed in a single folder, compressed with MSZIP
// if compressed is true, else stored uncompressed. Save does not consume
// or otherwise modify the archive; it may be called repeatedly.
func (a *Archive) Save(compressed bool) ([]byte, error) {
	for _, f := range a.Files {
		if f.filename == "" {
			return nil, corruptf("archive contains a file with an empty filename")
		}
		if err := validateDateTime(f.ModTime); err != nil {
			return nil, err
		}
	}

	method := compNone
	if compressed {
		method = compMSZIP
	}
	compressor, err := method.compressor()
	if err != nil {
		return nil, err
	}

	payload, folderOffsets, err := concatFileContent(a.Files)
	if err != nil {
		return nil, err
	}

	w := &writer{}
	writeHeader(w, header{
		folderCount:  1,
		fileCount:    uint16(len(a.Files)),
		setID:        a.SetID,
		cabinetIndex: 0,
	})
	const cabinetSizeAt = 0x08
	const filesOffsetAt = 0x10

	folderEntryAt := writeFolderEntryPlaceholder(w, method)

	filesOffsetValue := uint32(w.offset())
	for i, f := range a.Files {
		writeFileRecord(w, fileRecord{
			uncompressedSize: uint32(len(f.Content)),
			folderOffset:     folderOffsets[i],
			folderIndex:      0,
			packedDate:       packDate(f.ModTime),
			packedTime:       packTime(f.ModTime),
			attributes:       f.attrs().encode(),
			name:             f.filename,
		})
	}

	dataStart := uint32(w.offset())
	blockCount, err := emitFolderBlocks(w, method, compressor, payload)
	if err != nil {
		return nil, err
	}

	w.patchU32(folderEntryAt, dataStart)
	w.patchU16(folderEntryAt+4, blockCount)
	w.patchU32(filesOffsetAt, filesOffsetValue)
	w.patchU32(cabinetSizeAt, uint32(w.offset()))

	return w.buf, nil
}

// SaveFile serializes the archive and writes it to name, which is
// created or truncated.
func (a *Archive) SaveFile(name string, compressed bool) error {
	data, err := a.Save(compressed)
	if err != nil {
		return err
	}
	return os.WriteFile(name, data, 0o644)
}

// concatFileContent concatenates every file's content, in archive order,
// into one buffer and returns each file's resulting offset into it.
func concatFileContent(files []*File) ([]byte, []uint32, error) {
	offsets := make([]uint32, len(files))
	var total uint64
	for i, f := range files {
		if uint64(len(f.Content)) > maxUint32 {
			return nil, nil, notSupportedf("file %q is %d bytes, exceeding the 32-bit size field", f.filename, len(f.Content))
		}
		if total+uint64(len(f.Content)) > maxUint32 {
			return nil, nil, notSupportedf("folder's total uncompressed size exceeds the 32-bit offset field")
		}
		offsets[i] = uint32(total)
		total += uint64(len(f.Content))
	}

	payload := make([]byte, 0, total)
	for _, f := range files {
		payload = append(payload, f.Content...)
	}
	return payload, offsets, nil
}
