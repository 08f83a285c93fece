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

// checksum computes the MSCAB 32-bit block checksum over b, starting from
// seed. The block engine seeds this with the checksum of the block's
// 8-byte header (compressed_len, uncompressed_len) with the checksum
// field itself treated as zero; all other callers use seed 0.
//
// b is folded 4 bytes at a time into little-endian words which are
// XORed together; any trailing 1-3 bytes are assembled into one final
// word, most-significant byte first, and XORed in last.
//
// checksum([]byte("hello"), 0) == 0x6C6C6507
// checksum([]byte("hello123"), 0) == 0x5F5E5407
func checksum(b []byte, seed uint32) uint32 {
	csum := seed

	n := len(b)
	full := n &^ 3
	for i := 0; i < full; i += 4 {
		word := uint32(b[i]) | uint32(b[i+1])<<8 | uint32(b[i+2])<<16 | uint32(b[i+3])<<24
		csum ^= word
	}

	remaining := n - full
	if remaining > 0 {
		tail := b[full:]
		var word uint32
		for i := 0; i < remaining; i++ {
			word |= uint32(tail[i]) << uint(8*(remaining-1-i))
		}
		csum ^= word
	}

	return csum
}

// blockHeaderSeed computes the seed checksum of a block's 8-byte header
// (checksum field zeroed) from its compressed and uncompressed lengths.
func blockHeaderSeed(compressedLen, uncompressedLen uint16) uint32 {
	header := [8]byte{
		0, 0, 0, 0,
		byte(compressedLen), byte(compressedLen >> 8),
		byte(uncompressedLen), byte(uncompressedLen >> 8),
	}
	return checksum(header[:], 0)
}
