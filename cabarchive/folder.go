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

// compressionMethod is the 16-bit CFFOLDER compression type indicator.
// Only the low nibble is meaningful; high bits are reserved for future
// compression-specific flags, hence the compMask.
type compressionMethod uint16

const (
	compMask    compressionMethod = 0x000F
	compNone    compressionMethod = 0x0000
	compMSZIP   compressionMethod = 0x0001
	compQuantum compressionMethod = 0x0002
	compLZX     compressionMethod = 0x0003
)

func (m compressionMethod) compressor() (Compressor, error) {
	switch m & compMask {
	case compNone:
		return NopCompressor{}, nil
	case compMSZIP:
		return FlateCompressor{}, nil
	default:
		return nil, notSupportedf("folder uses unsupported compression method %#x", uint16(m))
	}
}

// folder is the internal, one-per-compression-stream grouping of CFDATA
// blocks, as decoded from a CFFOLDER entry by Parse. Save does not build
// folder values; it writes its single folder entry directly.
type folder struct {
	method compressionMethod

	// firstDataOffset is the absolute offset of this folder's first
	// CFDATA block, read directly from the on-disk folder entry.
	firstDataOffset uint32

	// blockCount is the number of CFDATA blocks belonging to this
	// folder.
	blockCount uint16

	// files lists, in file-table order, the indices into Archive.Files
	// that this folder owns.
	files []int
}
