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

import "time"

// noFolder marks a File that has not been bound to a folder. Save computes
// the folder offsets it writes without storing them on the File; parse
// always returns files already bound.
const noFolder = -1

// File is one member of an Archive: a name, its payload bytes, a
// last-modified timestamp, and the MSCAB attribute flags.
//
// Filename is stored via SetFilename/Filename rather than as a plain
// exported field because the on-disk UTF-8 name flag (IsNameUTF8) is
// derived from it and must never drift out of sync.
type File struct {
	filename   string
	isNameUTF8 bool

	// Content is the file's payload. Its length is the file's
	// uncompressed size.
	Content []byte

	// ModTime is the file's last-modified date and time of day. Only
	// the calendar date and wall-clock time of day are meaningful; the
	// MSCAB format carries no timezone. Seconds are quantized to even
	// values on emit.
	ModTime time.Time

	ReadOnly   bool
	Hidden     bool
	System     bool
	Archived   bool
	Executable bool

	folderIndex  int
	folderOffset uint32
}

// NewFile creates a standalone File with the given name, content and
// modification time, ready to be attached to an Archive with AddFile.
// Archived defaults to true, matching a freshly created file that has
// not yet been backed up.
func NewFile(name string, content []byte, modTime time.Time) *File {
	f := &File{
		Content:     content,
		ModTime:     modTime,
		Archived:    true,
		folderIndex: noFolder,
	}
	f.SetFilename(name)
	return f
}

// Filename returns the file's name.
func (f *File) Filename() string { return f.filename }

// SetFilename assigns the file's name and recomputes IsNameUTF8 from it.
func (f *File) SetFilename(name string) {
	f.filename = name
	f.isNameUTF8 = nameNeedsUTF8(name)
}

// IsNameUTF8 reports whether Filename is encoded as UTF-8 on disk (true)
// or as 7-bit ASCII (false). It is always consistent with Filename.
func (f *File) IsNameUTF8() bool { return f.isNameUTF8 }

func (f *File) attrs() attrs {
	return attrs{
		ReadOnly:   f.ReadOnly,
		Hidden:     f.Hidden,
		System:     f.System,
		Archived:   f.Archived,
		Executable: f.Executable,
		IsNameUTF8: f.isNameUTF8,
	}
}

func (f *File) applyAttrs(a attrs) {
	f.ReadOnly = a.ReadOnly
	f.Hidden = a.Hidden
	f.System = a.System
	f.Archived = a.Archived
	f.Executable = a.Executable
	f.isNameUTF8 = nameNeedsUTF8(f.filename)
}
