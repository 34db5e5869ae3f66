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
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Suffix is appended to the base directory name to derive the default patch root.
const Suffix = "__patch"

// 📁 Directory maps paths under a base directory onto the same relative
// paths under a patch root, and copies or moves entries across.
//
// A Directory holds no state beyond its two resolved paths. Callers build a
// new one whenever the base or target changes. Calls must not overlap.
type Directory struct {
	base     string
	root     string
	observer Observer
}

// 🏭 New resolves base and target and returns a Directory.
//
// base must be an existing directory. An empty target selects the default
// patch root, a sibling of base named base+Suffix. Neither path is created.
func New(base, target string, opts ...Option) (*Directory, error) {
	resolvedBase, err := resolvePath(base)
	if err != nil {
		return nil, errors.Errorf("resolving base: %w", err)
	}

	info, err := os.Stat(resolvedBase)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WithStack(&ConfigError{Path: resolvedBase, Reason: "does not exist"})
		}
		return nil, errors.Errorf("checking base: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.WithStack(&ConfigError{Path: resolvedBase, Reason: "is not a directory"})
	}

	root := DefaultRoot(resolvedBase)
	if target != "" {
		root, err = resolvePath(target)
		if err != nil {
			return nil, errors.Errorf("resolving target: %w", err)
		}
	}
	if root == resolvedBase {
		return nil, errors.WithStack(&ConfigError{Path: root, Reason: "is both the base and the patch directory"})
	}

	d := &Directory{
		base:     resolvedBase,
		root:     root,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// DefaultRoot returns the patch root used when no target is given.
func DefaultRoot(base string) string {
	return filepath.Join(filepath.Dir(base), filepath.Base(base)+Suffix)
}

// Base returns the resolved base directory.
func (d *Directory) Base() string {
	return d.base
}

// Root returns the resolved patch root.
func (d *Directory) Root() string {
	return d.root
}

// 🔍 IsWithinBase reports whether path resolves to base or somewhere below it.
func (d *Directory) IsWithinBase(path string) bool {
	resolved, err := resolvePath(path)
	if err != nil {
		return false
	}
	_, ok := relativeTo(d.base, resolved)
	return ok
}

// 📐 Relativize returns source relative to the base. The base itself and any
// path outside it fail with ErrOutOfScope.
func (d *Directory) Relativize(source string) (string, error) {
	resolved, err := resolvePath(source)
	if err != nil {
		return "", errors.Errorf("resolving source: %w", err)
	}
	return d.relativize(resolved)
}

func (d *Directory) relativize(resolved string) (string, error) {
	rel, ok := relativeTo(d.base, resolved)
	if !ok {
		return "", errors.WithStack(&OutOfScopeError{Path: resolved, Base: d.base})
	}
	if rel == "." {
		return "", errors.WithStack(&OutOfScopeError{Path: resolved, Base: d.base, Reason: "the base directory itself cannot be patched"})
	}
	return rel, nil
}

// 🎯 Destination returns where source lands under the patch root.
func (d *Directory) Destination(source string) (string, error) {
	rel, err := d.Relativize(source)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.root, rel), nil
}

// 📋 Copy merge-copies source into the patch root and returns the destination.
//
// Directories are copied recursively. Existing destination files with the
// same name are overwritten; destination entries missing from source are
// kept. The source is never modified. A failure can leave partial writes.
func (d *Directory) Copy(ctx context.Context, source string) (string, error) {
	src, dst, info, err := d.prepare(source)
	if err != nil {
		return "", err
	}

	if err := d.transfer(ctx, OpCopy, src, dst, info); err != nil {
		return "", err
	}

	zerolog.Ctx(ctx).Debug().Str("source", src).Str("destination", dst).Bool("dir", info.IsDir()).Msg("copied into patch directory")
	return dst, nil
}

// 🚚 Move copies source like Copy, then deletes it.
//
// The source is only deleted after the copy completed. If the delete fails
// the returned error satisfies IsDuplicateLeft and the destination is still
// returned, since it holds a full copy.
func (d *Directory) Move(ctx context.Context, source string) (string, error) {
	src, dst, info, err := d.prepare(source)
	if err != nil {
		return "", err
	}

	if err := d.transfer(ctx, OpMove, src, dst, info); err != nil {
		return "", err
	}

	if info.IsDir() {
		err = os.RemoveAll(src)
	} else {
		err = os.Remove(src)
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("source", src).Str("destination", dst).Msg("source not fully removed after copy")
		return dst, errors.WithStack(&FileSystemError{Phase: PhaseDelete, Path: src, Err: err})
	}

	d.observer.Observe(ctx, Event{Op: OpRemove, Source: src, IsDir: info.IsDir()})
	zerolog.Ctx(ctx).Debug().Str("source", src).Str("destination", dst).Bool("dir", info.IsDir()).Msg("moved into patch directory")
	return dst, nil
}

// 🛂 prepare resolves source and runs every scope check. Nothing is written
// before it returns.
func (d *Directory) prepare(source string) (src, dst string, info fs.FileInfo, err error) {
	src, err = resolvePath(source)
	if err != nil {
		return "", "", nil, errors.Errorf("resolving source: %w", err)
	}

	rel, err := d.relativize(src)
	if err != nil {
		return "", "", nil, err
	}
	dst = filepath.Join(d.root, rel)

	info, err = os.Stat(src)
	if err != nil {
		return "", "", nil, errors.WithStack(&FileSystemError{Phase: PhaseCopy, Path: src, Err: err})
	}

	if info.IsDir() {
		if _, inside := relativeTo(src, dst); inside {
			return "", "", nil, errors.WithStack(&OutOfScopeError{Path: src, Base: d.base, Reason: "the patch directory lies inside it"})
		}
	}

	return src, dst, info, nil
}

func (d *Directory) transfer(ctx context.Context, op Op, src, dst string, info fs.FileInfo) error {
	var err error
	switch {
	case info.IsDir():
		err = d.copyTree(ctx, op, src, dst)
	case info.Mode().IsRegular():
		err = d.copyFileInto(ctx, op, src, dst, info)
	default:
		err = errors.Errorf("unsupported file type %s", info.Mode().Type())
	}
	if err != nil {
		return errors.WithStack(&FileSystemError{Phase: PhaseCopy, Path: src, Err: err})
	}
	return nil
}
