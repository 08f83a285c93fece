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
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
)

// mszipSignature is the two-byte "CK" marker that precedes the raw
// deflate stream of every MSZIP block. The block engine adds and strips
// it; it is not part of the Compressor contract.
var mszipSignature = [2]byte{'C', 'K'}

// Compressor is the pluggable collaborator the block engine drives to
// compress and decompress the payload of MSZIP blocks. Implementations
// need not be safe for concurrent use by multiple goroutines unless the
// concrete type documents otherwise.
type Compressor interface {
	// Compress returns the compressed form of data.
	Compress(data []byte) ([]byte, error)
	// Decompress inflates data, which must expand to exactly
	// uncompressedLen bytes.
	Decompress(data []byte, uncompressedLen int) ([]byte, error)
}

// NopCompressor implements Compressor for the "None" compression method:
// Compress and Decompress are the identity function.
type NopCompressor struct{}

// Compress returns data unchanged.
func (NopCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged, failing if its length does not
// match uncompressedLen.
func (NopCompressor) Decompress(data []byte, uncompressedLen int) ([]byte, error) {
	if len(data) != uncompressedLen {
		return nil, corruptf("uncompressed block length %d does not match declared length %d", len(data), uncompressedLen)
	}
	return data, nil
}

// FlateCompressor implements Compressor for the MSZIP method using a raw
// DEFLATE stream, via klauspost/compress/flate. It supports only the
// single-block case: each call is an independent stream with no preset
// dictionary, matching this package's declared lack of multi-block MSZIP
// dictionary chaining.
type FlateCompressor struct{}

// Compress deflates data at the default compression level.
func (FlateCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress inflates data, which must be a raw DEFLATE stream (without
// the "CK" signature) that expands to exactly uncompressedLen bytes.
func (FlateCompressor) Decompress(data []byte, uncompressedLen int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out := make([]byte, uncompressedLen)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, corruptw(err, "failed to inflate MSZIP block to declared length %d", uncompressedLen)
	}
	return out, nil
}
