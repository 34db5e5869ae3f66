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

package tree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options controls enumeration
type Options struct {
	// Hide holds doublestar patterns matched against slash separated paths
	// relative to the root. Matching entries and everything below them are
	// left out.
	Hide []string
}

// 🌿 Node is one entry of the listing
type Node struct {
	ID       int // position in display order, the root is 0
	Name     string
	Path     string // absolute path
	IsDir    bool
	Children []*Node
}

// 🌳 Tree is a listing of a directory with display IDs mapped to paths
type Tree struct {
	Root  *Node
	paths []string
}

// 🏗️ Build lists root recursively. Directories sort before files and names
// compare case-insensitively. Subdirectories that cannot be read keep their
// node but get no children. Symlinks are listed but never followed.
func Build(ctx context.Context, root string, opts Options) (*Tree, error) {
	for _, pattern := range opts.Hide {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid hide pattern %q", pattern)
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("making root absolute: %w", err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, errors.Errorf("reading root: %w", err)
	}

	b := &builder{ctx: ctx, root: abs, hide: opts.Hide}
	t := &Tree{Root: b.node(abs, abs, true)}
	b.fill(t.Root, entries)
	t.paths = b.paths
	return t, nil
}

type builder struct {
	ctx   context.Context
	root  string
	hide  []string
	paths []string
}

func (b *builder) node(name, path string, isDir bool) *Node {
	n := &Node{ID: len(b.paths), Name: name, Path: path, IsDir: isDir}
	b.paths = append(b.paths, path)
	return n
}

func (b *builder) fill(parent *Node, entries []os.DirEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	for _, entry := range entries {
		path := filepath.Join(parent.Path, entry.Name())
		if b.hidden(path) {
			continue
		}

		child := b.node(entry.Name(), path, entry.IsDir())
		parent.Children = append(parent.Children, child)

		if !entry.IsDir() {
			continue
		}
		sub, err := os.ReadDir(path)
		if err != nil {
			zerolog.Ctx(b.ctx).Debug().Err(err).Str("path", path).Msg("skipping unreadable directory")
			continue
		}
		b.fill(child, sub)
	}
}

func (b *builder) hidden(path string) bool {
	if len(b.hide) == 0 {
		return false
	}
	rel, err := filepath.Rel(b.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range b.hide {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			zerolog.Ctx(b.ctx).Trace().Str("path", rel).Str("pattern", pattern).Msg("entry hidden by pattern")
			return true
		}
	}
	return false
}

// 🔎 Lookup returns the absolute path shown under display ID id.
func (t *Tree) Lookup(id int) (string, bool) {
	if id < 0 || id >= len(t.paths) {
		return "", false
	}
	return t.paths[id], true
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.paths)
}

// 🖨️ Render draws the tree, optionally prefixing each entry with its display ID.
func (t *Tree) Render(showIDs bool) (string, error) {
	// pterm only draws the root's children
	holder := pterm.TreeNode{Children: []pterm.TreeNode{toPterm(t.Root, showIDs)}}
	out, err := pterm.DefaultTree.WithRoot(holder).Srender()
	if err != nil {
		return "", errors.Errorf("rendering tree: %w", err)
	}
	return out, nil
}

func toPterm(n *Node, showIDs bool) pterm.TreeNode {
	text := n.Name
	if n.ID != 0 {
		if n.IsDir {
			text = "📁 " + text
		} else {
			text = "📄 " + text
		}
	}
	if showIDs {
		text = fmt.Sprintf("[%d] %s", n.ID, text)
	}

	node := pterm.TreeNode{Text: text}
	for _, c := range n.Children {
		node.Children = append(node.Children, toPterm(c, showIDs))
	}
	return node
}
