package dupes

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// SortBy identifies a member-ordering key within an emitted group.
type SortBy int

const (
	// SortByModTime orders members by modification time, oldest first.
	SortByModTime SortBy = iota
	// SortByPath orders members by (directory, stem, extension).
	SortByPath
	// SortByDepth orders members by depth below their root, shallowest first.
	SortByDepth
)

// String returns the flag spelling of the key.
func (s SortBy) String() string {
	switch s {
	case SortByModTime:
		return "mtime"
	case SortByPath:
		return "path"
	case SortByDepth:
		return "depth"
	default:
		return "unknown"
	}
}

// ParseSortBy parses a single sort key.
func ParseSortBy(s string) (SortBy, error) {
	switch s {
	case "mtime":
		return SortByModTime, nil
	case "path":
		return SortByPath, nil
	case "depth":
		return SortByDepth, nil
	default:
		return 0, fmt.Errorf("invalid sort key %q: must be one of mtime, path, depth", s)
	}
}

// compare orders left against right by this key, returning <0, 0 or >0.
func (s SortBy) compare(left, right *File) int {
	switch s {
	case SortByDepth:
		return left.Depth - right.Depth
	case SortByModTime:
		return left.ModTime.Compare(right.ModTime)
	case SortByPath:
		leftDir, leftStem, leftExt := pathKey(left.Path)
		rightDir, rightStem, rightExt := pathKey(right.Path)

		if c := strings.Compare(leftDir, rightDir); c != 0 {
			return c
		}
		if c := strings.Compare(leftStem, rightStem); c != 0 {
			return c
		}

		return strings.Compare(leftExt, rightExt)
	default:
		return 0
	}
}

// pathKey splits a path into directory, stem, and extension so that
// "a/draft.txt" sorts next to "a/draft.pdf" rather than far from it.
func pathKey(path string) (dir, stem, ext string) {
	dir = filepath.Dir(path)
	base := filepath.Base(path)
	ext = filepath.Ext(base)
	stem = strings.TrimSuffix(base, ext)

	return dir, stem, ext
}

// SortKeys is an ordered list of unique sort keys. Keys omitted from a
// parsed list are appended in default order, so every comparison
// eventually falls through to a total order.
type SortKeys struct {
	keys []SortBy
}

// DefaultSortKeys returns the default ordering: mtime, then path, then depth.
func DefaultSortKeys() SortKeys {
	return SortKeys{keys: []SortBy{SortByModTime, SortByPath, SortByDepth}}
}

// ParseSortKeys parses a comma-separated key list (e.g. "depth,path").
// Duplicate keys are rejected; missing keys are padded from the default.
func ParseSortKeys(s string) (SortKeys, error) {
	if s == "" {
		return DefaultSortKeys(), nil
	}

	parts := strings.Split(s, ",")
	keys := make([]SortBy, 0, len(parts))
	used := make(map[SortBy]bool, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)

		key, err := ParseSortBy(part)
		if err != nil {
			return SortKeys{}, err
		}

		if used[key] {
			return SortKeys{}, fmt.Errorf("duplicate sort key %q", part)
		}

		used[key] = true
		keys = append(keys, key)
	}

	for _, key := range DefaultSortKeys().keys {
		if !used[key] {
			keys = append(keys, key)
		}
	}

	return SortKeys{keys: keys}, nil
}

// compare applies each key in turn until one differentiates.
func (k SortKeys) compare(left, right *File) int {
	for _, key := range k.keys {
		if c := key.compare(left, right); c != 0 {
			return c
		}
	}

	return 0
}

// SortOptions combines sort keys with an optional preferred location.
type SortOptions struct {
	// Prefer places members located under this directory first.
	Prefer string
	// Keys orders members within a group (zero value = defaults).
	Keys SortKeys
}

// compare orders left against right, with lexicographic path as the final
// tiebreak so the ordering is always total.
func (o SortOptions) compare(left, right *File) int {
	if o.Prefer != "" {
		leftIn := isWithinDir(left.Path, o.Prefer)
		rightIn := isWithinDir(right.Path, o.Prefer)

		switch {
		case leftIn && !rightIn:
			return -1
		case rightIn && !leftIn:
			return 1
		}
	}

	if c := o.Keys.compare(left, right); c != 0 {
		return c
	}

	return strings.Compare(left.Path, right.Path)
}

// sortGroup orders the group's members in place.
func (o SortOptions) sortGroup(group *Group) {
	sort.SliceStable(group.Files, func(i, j int) bool {
		return o.compare(&group.Files[i], &group.Files[j]) < 0
	})
}

// isWithinDir reports whether target lies under dir. A trailing separator
// on dir is tolerated.
func isWithinDir(target, dir string) bool {
	dir = filepath.Clean(dir)
	target = filepath.Clean(target)

	if target == dir {
		return true
	}

	return strings.HasPrefix(target, dir+string(filepath.Separator))
}
