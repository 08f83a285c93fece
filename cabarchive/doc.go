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

// Package cabarchive provides a read/write implementation of the Microsoft
// Cabinet (MSCAB) archive format.
//
// A Cabinet groups files into folders, each folder a stream of 32 KiB-or-
// smaller blocks sharing one compression method (none, or MSZIP deflate
// with a two-byte "CK" signature per block). This package parses that
// layout into an in-memory Archive and can emit it back out, bit-exact for
// the layouts it produces.
//
// Normative references are [MS-CAB] for the Cabinet file format and
// [MS-MCI] for the Microsoft ZIP Compression and Decompression Data
// Structure.
//
// [MS-CAB]: http://download.microsoft.com/download/4/d/a/4da14f27-b4ef-4170-a6e6-5b1ef85b1baa/[ms-cab].pdf
// [MS-MCI]: http://interoperability.blob.core.windows.net/files/MS-MCI/[MS-MCI].pdf
package cabarchive
