package assets

import (
	"path"
	"strings"
)

type Kind string

const (
	KindConfig    Kind = "config"
	KindPrimitive Kind = "primitive"
	KindIcon      Kind = "icon"
	KindGenerated Kind = "generated"
	KindUtility   Kind = "utility"
)

// VirtualFile is an in-memory project file. Values are never mutated after
// construction; replacing a file means building a new one.
type VirtualFile struct {
	Path    string `json:"path"`
	Kind    Kind   `json:"kind"`
	Content string `json:"content"`
}

// Generated builds a generated-kind file with a canonical path.
func Generated(p, content string) VirtualFile {
	return VirtualFile{Path: CanonicalPath(p), Kind: KindGenerated, Content: content}
}

// CanonicalPath trims leading "./" and "/" and cleans the remainder so
// caller-supplied paths compare equal to manifest paths.
func CanonicalPath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}
