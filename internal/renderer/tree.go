package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Akaiko1/file-lister/internal/scanner"
)

const (
	folderIcon = "📁"
	fileIcon   = "📄"

	treeBranch     = "├──"
	treeLastBranch = "└──"
	treeSpacing    = "    "
	treeConnection = "│   "
)

// TreeNode is one directory or file in the tree view of a listing.
type TreeNode struct {
	Name     string
	IsDir    bool
	Size     int64
	Children []*TreeNode
}

// BuildTree arranges entries by their relative paths under a root node.
// Children are sorted with directories first, then by name.
func BuildTree(root string, entries []scanner.FileEntry) *TreeNode {
	top := &TreeNode{Name: root, IsDir: true}
	dirs := map[string]*TreeNode{"": top}

	for _, entry := range entries {
		parts := strings.Split(entry.RelativePath, "/")
		parent := top
		prefix := ""
		for _, dir := range parts[:len(parts)-1] {
			prefix += dir + "/"
			node, ok := dirs[prefix]
			if !ok {
				node = &TreeNode{Name: dir, IsDir: true}
				dirs[prefix] = node
				parent.Children = append(parent.Children, node)
			}
			parent = node
		}
		parent.Children = append(parent.Children, &TreeNode{
			Name: parts[len(parts)-1],
			Size: entry.Size,
		})
	}

	sortTree(top)
	return top
}

func sortTree(node *TreeNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, child := range node.Children {
		if child.IsDir {
			sortTree(child)
		}
	}
}

// RenderTree renders a tree structure as a formatted string.
func RenderTree(root *TreeNode) string {
	if root == nil {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("File Tree for: %s\n", root.Name))
	builder.WriteString(Separator + "\n")

	renderNode(&builder, root, "")
	return builder.String()
}

// renderNode writes the children of node, one line each.
func renderNode(builder *strings.Builder, node *TreeNode, prefix string) {
	for i, child := range node.Children {
		connector, nextPrefix := treeBranch, prefix+treeConnection
		if i == len(node.Children)-1 {
			connector, nextPrefix = treeLastBranch, prefix+treeSpacing
		}

		if child.IsDir {
			builder.WriteString(fmt.Sprintf("%s%s %s %s/\n", prefix, connector, folderIcon, child.Name))
			renderNode(builder, child, nextPrefix)
			continue
		}
		builder.WriteString(fmt.Sprintf("%s%s %s %s (%s)\n", prefix, connector, fileIcon, child.Name, FormatSize(child.Size)))
	}
}
