package dupes

import (
	"sync"
	"time"
)

// Options configures a duplicate scan and CLI behavior.
type Options struct {
	// Roots are the directories to scan (empty = current directory).
	Roots []string
	// Recursive enables descent into subdirectories.
	Recursive bool
	// MaxDepth limits traversal depth below each root when Recursive is
	// set (0 = files directly under the root). Negative means unbounded.
	MaxDepth int
	// Follow enables following symbolic links during traversal.
	Follow bool
	// MinSize is the minimum file size in bytes. Zero includes empty files.
	MinSize int64
	// Workers is the number of concurrent hash workers (0 = number of CPUs).
	Workers int
	// Sort orders members within each emitted group.
	Sort SortOptions
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Output represents output format (table or json).
	Output string
	// Version indicates whether to show version and exit.
	Version bool
	// Integration indicates whether to output integration script.
	Integration bool
}

// File is a scanned regular file.
type File struct {
	// Path is the absolute file path.
	Path string `json:"path"`
	// Size is the size in bytes.
	Size int64 `json:"size"`
	// Depth is the depth below the scanned root (0 = directly under it).
	Depth int `json:"depth"`
	// ModTime is the modification time.
	ModTime time.Time `json:"mod_time"`
}

// Group is a finished set of byte-identical files. All members share the
// same size and content digest, and a group always has at least two.
type Group struct {
	// Size is the size in bytes of each member.
	Size int64 `json:"size"`
	// Digest is the hex BLAKE2b-256 digest of the shared content.
	Digest string `json:"digest"`
	// Files are the members, ordered by the configured sort keys.
	Files []File `json:"files"`
}

// Diagnostic records a non-fatal per-entry error encountered during the scan.
type Diagnostic struct {
	// Stage is the pipeline stage that failed ("walk" or "hash").
	Stage string `json:"stage"`
	// Path is the affected entry.
	Path string `json:"path"`
	// Err is the error message.
	Err string `json:"error"`
}

// Stats holds aggregate statistics for a duplicate scan.
type Stats struct {
	// FilesSeen is the number of regular files seen within the depth bound.
	FilesSeen int64 `json:"files_seen"`
	// TotalBytes is the cumulative size of all seen files.
	TotalBytes int64 `json:"total_bytes"`
	// SkippedMinSize is the number of files below the minimum size.
	SkippedMinSize int64 `json:"skipped_min_size"`
	// CandidatesHashed is the number of files submitted for hashing.
	CandidatesHashed int64 `json:"candidates_hashed"`
	// DuplicateFiles is the number of files across all emitted groups.
	DuplicateFiles int64 `json:"duplicate_files"`
	// DuplicateGroups is the number of emitted groups.
	DuplicateGroups int64 `json:"duplicate_groups"`
	// WastedBytes is the space held by redundant copies beyond the first
	// in each group.
	WastedBytes int64 `json:"wasted_bytes"`
	// ErrorCount is the number of non-fatal errors encountered.
	ErrorCount int64 `json:"error_count"`
	// Diagnostics lists the non-fatal errors.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	// Elapsed is the total scan duration.
	Elapsed time.Duration `json:"elapsed"`
}

// collector aggregates run statistics using a mutex, since both the
// concurrent fastwalk callbacks and the hash workers report into it.
type collector struct {
	mu               sync.Mutex
	filesSeen        int64
	totalBytes       int64
	skippedMinSize   int64
	candidatesHashed int64
	duplicateFiles   int64
	duplicateGroups  int64
	wastedBytes      int64
	diagnostics      []Diagnostic
}

// newCollector creates an empty collector.
func newCollector() *collector {
	return &collector{}
}

// seen records a regular file within the depth bound.
func (c *collector) seen(size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filesSeen++
	c.totalBytes += size
}

// skipped records a file rejected by the minimum-size threshold.
func (c *collector) skipped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skippedMinSize++
}

// hashed records n files submitted to the hash pool.
func (c *collector) hashed(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.candidatesHashed += int64(n)
}

// grouped records an emitted duplicate group.
func (c *collector) grouped(group Group) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duplicateGroups++
	c.duplicateFiles += int64(len(group.Files))
	c.wastedBytes += group.Size * int64(len(group.Files)-1)
}

// diagnostic records a non-fatal per-entry error.
func (c *collector) diagnostic(stage, path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, Diagnostic{Stage: stage, Path: path, Err: err.Error()})
}

// progress returns the current file and byte counts for progress hooks.
func (c *collector) progress() (files, bytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.filesSeen, c.totalBytes
}

// snapshot produces the final Stats from the collected data.
func (c *collector) snapshot(elapsed time.Duration) *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return &Stats{
		FilesSeen:        c.filesSeen,
		TotalBytes:       c.totalBytes,
		SkippedMinSize:   c.skippedMinSize,
		CandidatesHashed: c.candidatesHashed,
		DuplicateFiles:   c.duplicateFiles,
		DuplicateGroups:  c.duplicateGroups,
		WastedBytes:      c.wastedBytes,
		ErrorCount:       int64(len(c.diagnostics)),
		Diagnostics:      c.diagnostics,
		Elapsed:          elapsed,
	}
}
