package dupes

import (
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func member(path string, depth int, mtime time.Time) File {
	return File{Path: path, Size: 1, Depth: depth, ModTime: mtime}
}

func paths(files []File) []string {
	out := make([]string, 0, len(files))
	for _, file := range files {
		out = append(out, file.Path)
	}

	return out
}

func TestParseSortKeysDefaults(t *testing.T) {
	keys, err := ParseSortKeys("")
	if err != nil {
		t.Fatalf("ParseSortKeys failed: %v", err)
	}

	want := []SortBy{SortByModTime, SortByPath, SortByDepth}
	if !slices.Equal(keys.keys, want) {
		t.Errorf("default keys = %v, want %v", keys.keys, want)
	}
}

func TestParseSortKeysPadsMissing(t *testing.T) {
	keys, err := ParseSortKeys("depth")
	if err != nil {
		t.Fatalf("ParseSortKeys failed: %v", err)
	}

	want := []SortBy{SortByDepth, SortByModTime, SortByPath}
	if !slices.Equal(keys.keys, want) {
		t.Errorf("keys = %v, want %v", keys.keys, want)
	}
}

func TestParseSortKeysRejectsDuplicates(t *testing.T) {
	if _, err := ParseSortKeys("path,path"); err == nil {
		t.Error("expected error for duplicate keys")
	}
}

func TestParseSortKeysRejectsUnknown(t *testing.T) {
	if _, err := ParseSortKeys("size"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSortGroupByModTime(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	group := Group{Files: []File{
		member("/c", 0, base.Add(2*time.Hour)),
		member("/a", 0, base.Add(time.Hour)),
		member("/b", 0, base),
	}}

	keys, _ := ParseSortKeys("mtime")
	SortOptions{Keys: keys}.sortGroup(&group)

	want := []string{"/b", "/a", "/c"}
	if !slices.Equal(paths(group.Files), want) {
		t.Errorf("order = %v, want %v", paths(group.Files), want)
	}
}

func TestSortGroupByDepth(t *testing.T) {
	now := time.Now()

	group := Group{Files: []File{
		member("/r/s/t/deep", 2, now),
		member("/r/shallow", 0, now),
		member("/r/s/mid", 1, now),
	}}

	keys, _ := ParseSortKeys("depth")
	SortOptions{Keys: keys}.sortGroup(&group)

	want := []string{"/r/shallow", "/r/s/mid", "/r/s/t/deep"}
	if !slices.Equal(paths(group.Files), want) {
		t.Errorf("order = %v, want %v", paths(group.Files), want)
	}
}

func TestSortGroupByPathParts(t *testing.T) {
	now := time.Now()

	sep := string(filepath.Separator)
	a := filepath.Join(sep+"docs", "draft.txt")
	b := filepath.Join(sep+"docs", "draft.pdf")
	c := filepath.Join(sep+"archive", "zz.txt")

	group := Group{Files: []File{
		member(a, 0, now),
		member(b, 0, now),
		member(c, 0, now),
	}}

	keys, _ := ParseSortKeys("path")
	SortOptions{Keys: keys}.sortGroup(&group)

	// Directory first, then stem, then extension.
	want := []string{c, b, a}
	if !slices.Equal(paths(group.Files), want) {
		t.Errorf("order = %v, want %v", paths(group.Files), want)
	}
}

func TestSortGroupPreferLocation(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	keep := filepath.Join(string(filepath.Separator)+"data", "keep")
	inside := filepath.Join(keep, "copy.bin")
	outside := filepath.Join(string(filepath.Separator)+"tmp", "copy.bin")

	group := Group{Files: []File{
		// The outside copy is older, so without --prefer it would win.
		member(outside, 0, base),
		member(inside, 0, base.Add(time.Hour)),
	}}

	SortOptions{Prefer: keep}.sortGroup(&group)

	if group.Files[0].Path != inside {
		t.Errorf("preferred copy not first: %v", paths(group.Files))
	}
}

func TestSortTiesBreakOnPath(t *testing.T) {
	now := time.Now()

	group := Group{Files: []File{
		member("/b", 0, now),
		member("/a", 0, now),
	}}

	keys, _ := ParseSortKeys("depth")
	SortOptions{Keys: keys}.sortGroup(&group)

	if group.Files[0].Path != "/a" {
		t.Errorf("tie not broken lexicographically: %v", paths(group.Files))
	}
}

func TestIsWithinDir(t *testing.T) {
	sep := string(filepath.Separator)
	docs := filepath.Join(sep+"Users", "myuser", "Documents")
	file := filepath.Join(docs, "PDFs", "Draft.pdf")

	if !isWithinDir(file, docs) {
		t.Error("file should be within its ancestor")
	}

	if !isWithinDir(file, docs+sep) {
		t.Error("trailing separator should be tolerated")
	}

	if !isWithinDir(docs, docs) {
		t.Error("a directory is within itself")
	}

	if isWithinDir(file, filepath.Join(sep+"Users", "myuser", "Downloads")) {
		t.Error("file should not be within a sibling directory")
	}

	if isWithinDir(docs+"2"+sep+"x", docs) {
		t.Error("string prefix must not match across a path component")
	}
}
