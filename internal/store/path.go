package store

import (
	"fmt"
	"strings"
)

// ParseAttrPath splits "/object@attr" into its object path and attribute
// name. "/@attr" names an attribute of the root group.
func ParseAttrPath(path string) (objectPath, attrName string, err error) {
	atIdx := strings.LastIndex(path, "@")
	if atIdx == -1 {
		return "", "", fmt.Errorf("%w: missing '@' in %q", ErrInvalidPath, path)
	}

	attrName = path[atIdx+1:]
	if attrName == "" {
		return "", "", fmt.Errorf("%w: empty attribute name in %q", ErrInvalidPath, path)
	}
	return CleanPath(path[:atIdx]), attrName, nil
}

// JoinAttrPath is the inverse of ParseAttrPath.
func JoinAttrPath(objectPath, attrName string) string {
	objectPath = CleanPath(objectPath)
	if objectPath == "/" {
		return "/@" + attrName
	}
	return objectPath + "@" + attrName
}

// SplitPath returns the non-empty components of path.
func SplitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// CleanPath normalizes path to a leading "/" with no trailing or doubled
// separators.
func CleanPath(path string) string {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

// parentPath returns the parent of a clean path and the last component.
func parentPath(path string) (parent, name string) {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return "/", path[i+1:]
	}
	return path[:i], path[i+1:]
}
