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

import "fmt"

// CorruptionError indicates that a byte stream violates the MSCAB format:
// a bad magic, truncation, a checksum mismatch, inconsistent sizes, a
// missing NUL terminator, or a file slice that falls outside its folder.
type CorruptionError struct {
	msg string
	err error
}

func corruptf(format string, args ...interface{}) error {
	return &CorruptionError{msg: fmt.Sprintf(format, args...)}
}

func corruptw(err error, format string, args ...interface{}) error {
	return &CorruptionError{msg: fmt.Sprintf(format, args...), err: err}
}

func (e *CorruptionError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("cabarchive: corrupt archive: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("cabarchive: corrupt archive: %s", e.msg)
}

func (e *CorruptionError) Unwrap() error { return e.err }

// NotSupportedError indicates that a byte stream is well-formed MSCAB but
// uses a feature this implementation declines to handle: multi-cabinet
// continuation, an unknown compression method, multi-block MSZIP, or
// non-zero reserved header fields.
type NotSupportedError struct {
	msg string
	err error
}

func notSupportedf(format string, args ...interface{}) error {
	return &NotSupportedError{msg: fmt.Sprintf(format, args...)}
}

func (e *NotSupportedError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("cabarchive: unsupported: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("cabarchive: unsupported: %s", e.msg)
}

func (e *NotSupportedError) Unwrap() error { return e.err }
