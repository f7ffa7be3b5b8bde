// Package tree builds and filters the directory hierarchy of a repository snapshot.
package tree

import (
	"path"
	"strings"
)

// Kind distinguishes files from directories in a flat tree listing.
type Kind string

const (
	KindFile Kind = "file"
	KindDir  Kind = "dir"
)

// Entry is one item of a flat, recursive tree listing.
type Entry struct {
	Path string
	Kind Kind
}

// Node is a directory of the hierarchy. Files holds full file paths,
// Dirs the child directories in listing order. The root has Path "".
type Node struct {
	Path  string
	Files []string
	Dirs  []*Node
}

// Name returns the last path segment, "" for the root.
func (n *Node) Name() string {
	if n.Path == "" {
		return ""
	}
	return path.Base(n.Path)
}

// Parent returns the directory part of a slash-separated path, "" for top-level entries.
func Parent(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// Build assembles a root-rooted hierarchy from a flat listing. Each entry is
// attached to the directory named by its path prefix; intermediate directories
// missing from the listing are created on the way.
func Build(entries []Entry) *Node {
	root := &Node{}
	dirs := map[string]*Node{"": root}

	var ensureDir func(p string) *Node
	ensureDir = func(p string) *Node {
		if n, ok := dirs[p]; ok {
			return n
		}
		n := &Node{Path: p}
		dirs[p] = n
		parent := ensureDir(Parent(p))
		parent.Dirs = append(parent.Dirs, n)
		return n
	}

	for _, e := range entries {
		if e.Path == "" {
			continue
		}
		switch e.Kind {
		case KindDir:
			ensureDir(e.Path)
		case KindFile:
			parent := ensureDir(Parent(e.Path))
			parent.Files = append(parent.Files, e.Path)
		}
	}

	return root
}

// FilePaths returns every file path of the hierarchy in pre-order:
// a directory's own files first, then its children's.
func (n *Node) FilePaths() []string {
	var paths []string
	n.Walk(func(d *Node) {
		paths = append(paths, d.Files...)
	})
	return paths
}

// Walk calls fn for n and all its descendants, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, d := range n.Dirs {
		d.Walk(fn)
	}
}

// Count returns the number of directories (including n) and files in the hierarchy.
func (n *Node) Count() (dirs, files int) {
	n.Walk(func(d *Node) {
		dirs++
		files += len(d.Files)
	})
	return dirs, files
}
