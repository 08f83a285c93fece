package cabarchive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// buildMultiFolderArchive hand-assembles a two-folder, two-file,
// uncompressed cabinet: each file lives in its own folder's data stream.
// Archive.Save only ever emits a single folder, so this exercises Parse's
// multi-folder handling directly, the way an archive produced by another
// MSCAB encoder might be laid out.
func buildMultiFolderArchive(t *testing.T) ([]byte, string, string) {
	t.Helper()

	const file1 = "one"
	const file2 = "two-two"

	w := &writer{}
	writeHeader(w, header{folderCount: 2, fileCount: 2, setID: 7})
	const cabinetSizeAt = 0x08
	const filesOffsetAt = 0x10

	folder1At := writeFolderEntryPlaceholder(w, compNone)
	folder2At := writeFolderEntryPlaceholder(w, compNone)

	filesOffsetValue := uint32(w.offset())
	writeFileRecord(w, fileRecord{
		uncompressedSize: uint32(len(file1)),
		folderOffset:     0,
		folderIndex:      0,
		packedDate:       packDate(mustTime(1990, 1, 1)),
		packedTime:       packTime(mustTime(1990, 1, 1)),
		attributes:       attrArchived,
		name:             "a.txt",
	})
	writeFileRecord(w, fileRecord{
		uncompressedSize: uint32(len(file2)),
		folderOffset:     0,
		folderIndex:      1,
		packedDate:       packDate(mustTime(1990, 1, 1)),
		packedTime:       packTime(mustTime(1990, 1, 1)),
		attributes:       attrArchived,
		name:             "b.txt",
	})

	dataStart1 := uint32(w.offset())
	blocks1, err := emitFolderBlocks(w, compNone, NopCompressor{}, []byte(file1))
	require.NoError(t, err)

	dataStart2 := uint32(w.offset())
	blocks2, err := emitFolderBlocks(w, compNone, NopCompressor{}, []byte(file2))
	require.NoError(t, err)

	w.patchU32(folder1At, dataStart1)
	w.patchU16(folder1At+4, blocks1)
	w.patchU32(folder2At, dataStart2)
	w.patchU16(folder2At+4, blocks2)
	w.patchU32(filesOffsetAt, filesOffsetValue)
	w.patchU32(cabinetSizeAt, uint32(w.offset()))

	return w.buf, file1, file2
}

func TestParseMultiFolder(t *testing.T) {
	data, file1, file2 := buildMultiFolderArchive(t)

	a, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, a.Files, 2)
	assert.Equal(t, []byte(file1), a.Files[0].Content)
	assert.Equal(t, []byte(file2), a.Files[1].Content)

	found := a.FindFile("*.txt")
	require.NotNil(t, found)
	assert.Equal(t, "a.txt", found.Filename())
}

// buildMultiBlockMSZIPArchive hand-assembles a single MSZIP folder
// declaring two data blocks. The block payloads are never inspected: the
// multi-block MSZIP rejection happens before any block is read.
func buildMultiBlockMSZIPArchive(t *testing.T) []byte {
	t.Helper()

	w := &writer{}
	writeHeader(w, header{folderCount: 1, fileCount: 1})
	const cabinetSizeAt = 0x08
	const filesOffsetAt = 0x10

	folderAt := writeFolderEntryPlaceholder(w, compMSZIP)

	filesOffsetValue := uint32(w.offset())
	writeFileRecord(w, fileRecord{
		uncompressedSize: 4,
		folderOffset:     0,
		folderIndex:      0,
		packedDate:       packDate(mustTime(1990, 1, 1)),
		packedTime:       packTime(mustTime(1990, 1, 1)),
		attributes:       attrArchived,
		name:             "x.bin",
	})

	w.patchU32(folderAt, uint32(w.offset()))
	w.patchU16(folderAt+4, 2) // blockCount = 2
	w.patchU32(filesOffsetAt, filesOffsetValue)
	w.patchU32(cabinetSizeAt, uint32(w.offset()))

	return w.buf
}

func TestParseMultiBlockMSZIPNotSupported(t *testing.T) {
	// Well-formed MSCAB, but a multi-block MSZIP folder is a feature this
	// package declines, not a corrupt stream.
	data := buildMultiBlockMSZIPArchive(t)

	_, err := Parse(data)
	require.Error(t, err)
	var nse *NotSupportedError
	assert.ErrorAs(t, err, &nse)
}
