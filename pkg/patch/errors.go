// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package patch

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrConfig marks a Directory that could not be constructed.
	ErrConfig = errors.Base("invalid patch configuration")
	// ErrOutOfScope marks a source path that does not lie strictly below the base.
	ErrOutOfScope = errors.Base("path is outside the base directory")
	// ErrFileSystem marks a failed copy or delete.
	ErrFileSystem = errors.Base("file system operation failed")
)

// ⚙️ ConfigError is returned by New when the base directory is unusable
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("'%s' %s", e.Path, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// 🚧 OutOfScopeError is returned when a source resolves outside the base tree
type OutOfScopeError struct {
	Path   string // resolved source path
	Base   string // resolved base directory
	Reason string // optional detail
}

func (e *OutOfScopeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("'%s' is not usable under base directory '%s': %s", e.Path, e.Base, e.Reason)
	}
	return fmt.Sprintf("'%s' is not inside base directory '%s'", e.Path, e.Base)
}

func (e *OutOfScopeError) Is(target error) bool {
	return target == ErrOutOfScope
}

// 🔀 Phase tells which half of a transfer failed
type Phase int

const (
	// PhaseCopy failures leave the source untouched. Partial writes may remain
	// under the patch root.
	PhaseCopy Phase = iota
	// PhaseDelete failures happen after a successful copy during Move. The
	// destination holds a full copy; a directory source may be partially
	// removed.
	PhaseDelete
)

func (p Phase) String() string {
	switch p {
	case PhaseCopy:
		return "copy"
	case PhaseDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// 💥 FileSystemError wraps an underlying I/O failure
type FileSystemError struct {
	Phase Phase
	Path  string
	Err   error
}

func (e *FileSystemError) Error() string {
	if e.Phase == PhaseDelete {
		return fmt.Sprintf("removing source '%s' after copy (patch directory holds a full copy, source may be partially removed): %v", e.Path, e.Err)
	}
	return fmt.Sprintf("copying '%s': %v", e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error {
	return e.Err
}

func (e *FileSystemError) Is(target error) bool {
	return target == ErrFileSystem
}

// IsDuplicateLeft reports whether err came from a move that copied its source
// but could not delete it afterwards.
func IsDuplicateLeft(err error) bool {
	var fsErr *FileSystemError
	return errors.As(err, &fsErr) && fsErr.Phase == PhaseDelete
}
