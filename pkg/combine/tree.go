// File: pkg/combine/tree.go
package combine

import (
	"path/filepath"
	"sort"
	"strings"
)

type treeNode struct {
	name     string
	children map[string]*treeNode
}

// RenderTree draws the given file paths as a tree rooted at their deepest common
// directory. Directories sort before files, then names case-insensitively.
func RenderTree(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	root := commonDir(paths)
	tree := &treeNode{children: map[string]*treeNode{}}
	for _, path := range paths {
		relPath, err := filepath.Rel(root, path)
		if err != nil || !within(root, path) {
			relPath = strings.TrimPrefix(filepath.ToSlash(path), "/")
		}

		node := tree
		for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
			if part == "" || part == "." {
				continue
			}
			child, ok := node.children[part]
			if !ok {
				child = &treeNode{name: part, children: map[string]*treeNode{}}
				node.children[part] = child
			}
			node = child
		}
	}

	var b strings.Builder
	b.WriteString(strings.TrimSuffix(filepath.ToSlash(root), "/") + "/\n")
	renderTreeRecursively(&b, tree, "")
	return b.String()
}

// renderTreeRecursively writes node's children with box-drawing connectors.
func renderTreeRecursively(b *strings.Builder, node *treeNode, prefix string) {
	entries := make([]*treeNode, 0, len(node.children))
	for _, child := range node.children {
		entries = append(entries, child)
	}
	sort.Slice(entries, func(i, j int) bool {
		iDir, jDir := len(entries[i].children) > 0, len(entries[j].children) > 0
		if iDir != jDir {
			return iDir
		}
		return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
	})

	for i, entry := range entries {
		connector := "├── "
		extension := "│   "
		if i == len(entries)-1 {
			connector = "└── "
			extension = "    "
		}

		if len(entry.children) > 0 {
			b.WriteString(prefix + connector + entry.name + "/\n")
			renderTreeRecursively(b, entry, prefix+extension)
			continue
		}
		b.WriteString(prefix + connector + entry.name + "\n")
	}
}

// commonDir returns the deepest directory containing every path.
func commonDir(paths []string) string {
	dir := filepath.Dir(paths[0])
	for _, path := range paths[1:] {
		for !within(dir, path) {
			parent := filepath.Dir(dir)
			if parent == dir {
				return dir
			}
			dir = parent
		}
	}
	return dir
}

func within(dir, path string) bool {
	relPath, err := filepath.Rel(dir, path)
	return err == nil && relPath != ".." && !strings.HasPrefix(relPath, ".."+string(filepath.Separator))
}
