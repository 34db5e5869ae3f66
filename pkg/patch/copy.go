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
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"
)

// ownerRWX keeps copied directories writable until their contents are in place.
const ownerRWX = 0o700

// 📄 copyFileInto creates the parent chain of dst and copies a single file.
func (d *Directory) copyFileInto(ctx context.Context, op Op, src, dst string, info fs.FileInfo) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	overwrote, err := copyFile(src, dst, info)
	if err != nil {
		return err
	}

	d.observer.Observe(ctx, Event{Op: op, Source: src, Destination: dst, Overwrote: overwrote})
	return nil
}

// 🌳 copyTree merges the directory src into dst.
func (d *Directory) copyTree(ctx context.Context, op Op, src, dst string) error {
	type dirMeta struct {
		path    string
		mode    fs.FileMode
		modTime time.Time
	}
	var dirs []dirMeta

	err := filepath.WalkDir(src, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return errors.Errorf("walking '%s': %w", path, walkErr)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Errorf("relativizing '%s': %w", path, err)
		}
		target := filepath.Join(dst, rel)

		info, err := entry.Info()
		if err != nil {
			return errors.Errorf("reading info for '%s': %w", path, err)
		}

		switch {
		case entry.IsDir():
			if existing, err := os.Lstat(target); err == nil && existing.Mode()&fs.ModeSymlink != 0 {
				return errors.Errorf("destination '%s' is a symlink, refusing to copy a directory through it", target)
			}
			if err := os.MkdirAll(target, info.Mode().Perm()|ownerRWX); err != nil {
				return errors.Errorf("creating directory: %w", err)
			}
			// MkdirAll leaves an existing directory's mode alone.
			if err := os.Chmod(target, info.Mode().Perm()|ownerRWX); err != nil {
				return errors.Errorf("opening directory for writing: %w", err)
			}
			dirs = append(dirs, dirMeta{path: target, mode: info.Mode().Perm(), modTime: info.ModTime()})
			return nil

		case entry.Type()&fs.ModeSymlink != 0:
			overwrote, err := copySymlink(path, target)
			if err != nil {
				return err
			}
			d.observer.Observe(ctx, Event{Op: op, Source: path, Destination: target, Overwrote: overwrote})
			return nil

		case info.Mode().IsRegular():
			overwrote, err := copyFile(path, target, info)
			if err != nil {
				return err
			}
			d.observer.Observe(ctx, Event{Op: op, Source: path, Destination: target, Overwrote: overwrote})
			return nil

		default:
			return errors.Errorf("unsupported file type %s at '%s'", info.Mode().Type(), path)
		}
	})

	// deepest first so a parent's mtime is not bumped by later child updates.
	// Runs after a failed walk too, so no directory keeps the temporary mode.
	var restoreErr error
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := os.Chmod(dirs[i].path, dirs[i].mode); err != nil && restoreErr == nil {
			restoreErr = errors.Errorf("setting directory mode: %w", err)
		}
		if err := os.Chtimes(dirs[i].path, time.Time{}, dirs[i].modTime); err != nil && restoreErr == nil {
			restoreErr = errors.Errorf("setting directory times: %w", err)
		}
	}

	if err != nil {
		return err
	}
	return restoreErr
}

// 📝 copyFile copies src over dst through a temp file in dst's directory,
// carrying over permission bits and modification time.
func copyFile(src, dst string, info fs.FileInfo) (overwrote bool, err error) {
	var inPlace bool
	existing, err := os.Lstat(dst)
	switch {
	case err == nil:
		if existing.IsDir() {
			return false, errors.Errorf("destination '%s' is a directory", dst)
		}
		overwrote = true
		inPlace = existing.Mode().IsRegular()
	case !errors.Is(err, fs.ErrNotExist):
		return false, errors.Errorf("checking destination: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return false, errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		// a read-only directory still lets an existing file be rewritten
		if inPlace && errors.Is(err, fs.ErrPermission) {
			return true, rewriteFile(in, dst, info)
		}
		return false, errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return false, errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return false, errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		os.Remove(tmpPath)
		return false, errors.Errorf("setting file mode: %w", err)
	}
	if err := os.Chtimes(tmpPath, time.Time{}, info.ModTime()); err != nil {
		os.Remove(tmpPath)
		return false, errors.Errorf("setting file times: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return false, errors.Errorf("renaming temp file: %w", err)
	}

	return overwrote, nil
}

// ✏️ rewriteFile truncates the regular file dst and writes in's bytes into it.
func rewriteFile(in io.Reader, dst string, info fs.FileInfo) error {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return errors.Errorf("opening destination for rewrite: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("rewriting destination: %w", err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing destination: %w", err)
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.Errorf("setting file mode: %w", err)
	}
	if err := os.Chtimes(dst, time.Time{}, info.ModTime()); err != nil {
		return errors.Errorf("setting file times: %w", err)
	}
	return nil
}

// 🔗 copySymlink recreates the link at src as dst with the same link text.
func copySymlink(src, dst string) (overwrote bool, err error) {
	link, err := os.Readlink(src)
	if err != nil {
		return false, errors.Errorf("reading link: %w", err)
	}

	existing, err := os.Lstat(dst)
	switch {
	case err == nil:
		if existing.IsDir() {
			return false, errors.Errorf("destination '%s' is a directory", dst)
		}
		if err := os.Remove(dst); err != nil {
			return false, errors.Errorf("replacing destination: %w", err)
		}
		overwrote = true
	case !errors.Is(err, fs.ErrNotExist):
		return false, errors.Errorf("checking destination: %w", err)
	}

	if err := os.Symlink(link, dst); err != nil {
		return false, errors.Errorf("creating link: %w", err)
	}
	return overwrote, nil
}
