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

// maxBlockSize is the largest uncompressed payload a single CFDATA block
// may carry (32 KiB).
const maxBlockSize = 0x8000

// parseFolderData reads fld.blockCount CFDATA blocks starting at
// fld.firstDataOffset, verifying each block's checksum and decompressing
// it as needed, and returns the folder's full reassembled uncompressed
// stream.
func parseFolderData(src []byte, fld *folder) ([]byte, error) {
	if fld.method&compMask == compMSZIP && fld.blockCount > 1 {
		return nil, notSupportedf("multi-block MSZIP folders are not supported")
	}

	compressor, err := fld.method.compressor()
	if err != nil {
		return nil, err
	}

	c := newCursor(src)
	c.pos = int(fld.firstDataOffset)

	var out []byte
	for i := uint16(0); i < fld.blockCount; i++ {
		storedChecksum, err := c.u32le()
		if err != nil {
			return nil, corruptw(err, "reading checksum of block %d", i)
		}
		compressedLen, err := c.u16le()
		if err != nil {
			return nil, corruptw(err, "reading compressed length of block %d", i)
		}
		uncompressedLen, err := c.u16le()
		if err != nil {
			return nil, corruptw(err, "reading uncompressed length of block %d", i)
		}
		if uncompressedLen > maxBlockSize {
			return nil, corruptf("block %d declares uncompressed length %d, exceeding the %d limit", i, uncompressedLen, maxBlockSize)
		}
		payload, err := c.bytes(int(compressedLen))
		if err != nil {
			return nil, corruptw(err, "reading payload of block %d", i)
		}

		seed := blockHeaderSeed(compressedLen, uncompressedLen)
		if got := checksum(payload, seed); got != storedChecksum {
			return nil, corruptf("block %d checksum mismatch: stored %#08x, computed %#08x", i, storedChecksum, got)
		}

		switch fld.method & compMask {
		case compNone:
			if compressedLen != uncompressedLen {
				return nil, corruptf("block %d is uncompressed but compressed length %d != uncompressed length %d", i, compressedLen, uncompressedLen)
			}
			out = append(out, payload...)
		case compMSZIP:
			if len(payload) < 2 || payload[0] != mszipSignature[0] || payload[1] != mszipSignature[1] {
				return nil, corruptf("block %d is missing the MSZIP %q signature", i, mszipSignature)
			}
			data, err := compressor.Decompress(payload[2:], int(uncompressedLen))
			if err != nil {
				return nil, corruptw(err, "decompressing block %d", i)
			}
			out = append(out, data...)
		}
	}
	return out, nil
}

// emitFolderBlocks partitions data into blocks of at most maxBlockSize
// bytes, compresses each with compressor as method requires, and writes
// them to w. It returns the number of blocks written.
func emitFolderBlocks(w *writer, method compressionMethod, compressor Compressor, data []byte) (uint16, error) {
	var blockCount uint16
	for offset := 0; offset < len(data); offset += maxBlockSize {
		end := offset + maxBlockSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[offset:end]

		var payload []byte
		switch method & compMask {
		case compNone:
			payload = chunk
		case compMSZIP:
			compressed, err := compressor.Compress(chunk)
			if err != nil {
				return 0, err
			}
			payload = make([]byte, 0, len(mszipSignature)+len(compressed))
			payload = append(payload, mszipSignature[:]...)
			payload = append(payload, compressed...)
		}

		uncompressedLen := uint16(len(chunk))
		compressedLen := uint16(len(payload))
		seed := blockHeaderSeed(compressedLen, uncompressedLen)
		csum := checksum(payload, seed)

		w.u32le(csum)
		w.u16le(compressedLen)
		w.u16le(uncompressedLen)
		w.raw(payload)

		blockCount++
	}
	return blockCount, nil
}
