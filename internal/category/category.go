// Package category maps named file-type groups to their fixed extension sets
// and filters file lists by group.
package category

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Category is a named group of file extensions.
type Category int

const (
	All Category = iota
	Images
	Documents
	Videos
	Audio
	Archives
)

// ErrUnknownCategory is returned by Parse for names outside the fixed set.
var ErrUnknownCategory = errors.New("unknown category")

var names = [...]string{
	All:       "all",
	Images:    "images",
	Documents: "documents",
	Videos:    "videos",
	Audio:     "audio",
	Archives:  "archives",
}

var labels = [...]string{
	All:       "All files",
	Images:    "Image files",
	Documents: "Document files",
	Videos:    "Video files",
	Audio:     "Audio files",
	Archives:  "Archive files",
}

var extensions = map[Category][]string{
	Images:    {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp"},
	Documents: {".txt", ".doc", ".docx", ".pdf", ".xls", ".xlsx", ".ppt", ".pptx"},
	Videos:    {".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".mpg"},
	Audio:     {".mp3", ".wav", ".flac", ".aac", ".wma", ".ogg"},
	Archives:  {".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"},
}

// List returns every category in display order.
func List() []Category {
	return []Category{All, Images, Documents, Videos, Audio, Archives}
}

// String returns the canonical lower-case name.
func (c Category) String() string {
	if c < All || c > Archives {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return names[c]
}

// Label returns the name shown in the category selector.
func (c Category) Label() string {
	if c < All || c > Archives {
		return c.String()
	}
	return labels[c]
}

// Parse resolves a canonical name (case-insensitive) to its Category.
func Parse(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, c := range List() {
		if names[c] == name {
			return c, nil
		}
	}
	return All, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// FromLabel resolves a selector label back to its Category.
func FromLabel(label string) (Category, bool) {
	for _, c := range List() {
		if labels[c] == label {
			return c, true
		}
	}
	return All, false
}

// Extensions returns a copy of the extension set for c. All has none.
func Extensions(c Category) []string {
	exts := extensions[c]
	out := make([]string, len(exts))
	copy(out, exts)
	return out
}

// Matches reports whether path belongs to c. The comparison uses the final
// dot-suffix of the base name, lower-cased.
func Matches(c Category, path string) bool {
	if c == All {
		return true
	}
	ext := strings.ToLower(Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range extensions[c] {
		if e == ext {
			return true
		}
	}
	return false
}

// Filter returns the order-preserving subsequence of entries whose path
// belongs to c. For All the input slice is returned unchanged.
func Filter[T any](entries []T, c Category, path func(T) string) []T {
	if c == All {
		return entries
	}
	filtered := make([]T, 0, len(entries))
	for _, e := range entries {
		if Matches(c, path(e)) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Ext returns the final dot-suffix of the base name of path, including the
// dot. Leading dots of the base name never start a suffix, so ".bashrc" has
// no extension.
func Ext(path string) string {
	base := baseName(path)
	trimmed := strings.TrimLeft(base, ".")
	i := strings.LastIndexByte(trimmed, '.')
	if i < 0 {
		return ""
	}
	return trimmed[i:]
}

// TrimExt drops the suffix reported by Ext and nothing else.
func TrimExt(path string) string {
	return strings.TrimSuffix(path, Ext(path))
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, "/"+string(filepath.Separator)); i >= 0 {
		return path[i+1:]
	}
	return path
}
