package dupes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// jobQueueSize bounds the hash queue so the walker backs off when the
// workers fall behind.
const jobQueueSize = 256

// logger provides conditional debug output.
type logger struct {
	enabled bool
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		//nolint:forbidigo // Debug output to console
		fmt.Printf(format, args...)
	}
}

// relativeDepth returns the depth of a path below the root. A file
// directly under the root is depth 0.
func relativeDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator))
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
//
//nolint:varnamelen // c is idiomatic for collector
func startProgressReporter(ctx context.Context, c *collector, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				files, bytes := c.progress()
				hook(files, bytes)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Scan is a running duplicate search. The caller drains Groups, then calls
// Wait for the final statistics.
type Scan struct {
	groups chan Group
	done   chan struct{}
	stats  *Stats
	err    error
}

// Groups returns the stream of finished duplicate groups. Emission order
// is whichever bucket completes hashing first; no cross-group ordering is
// guaranteed. The channel closes when the scan is over, and must be
// drained before calling Wait.
func (s *Scan) Groups() <-chan Group {
	return s.groups
}

// Wait blocks until the scan finishes and returns the final statistics.
func (s *Scan) Wait() (*Stats, error) {
	<-s.done

	return s.stats, s.err
}

// Run validates opt, starts the scan pipeline, and returns a handle for
// draining duplicate groups. Traversal of the roots overlaps with content
// hashing, but no group is emitted before traversal has fully completed,
// since a bucket's membership is only then known to be closed.
//
// Configuration errors (missing root, root not a directory, negative
// min-size) are returned immediately, before any traversal begins.
// Per-entry I/O errors during the scan are collected into the final
// Stats and never abort the run.
//
// Progress updates are sent to progressHook if provided.
func Run(ctx context.Context, opt Options, progressHook func(int64, int64)) (*Scan, error) {
	log := logger{enabled: opt.Debug}

	if len(opt.Roots) == 0 {
		opt.Roots = []string{"."}
	}

	if opt.MinSize < 0 {
		return nil, errors.New("min-size cannot be negative")
	}

	if opt.Workers <= 0 {
		opt.Workers = runtime.NumCPU()
	}

	if len(opt.Sort.Keys.keys) == 0 {
		opt.Sort.Keys = DefaultSortKeys()
	}

	// Without -r only files directly under each root qualify.
	depthLimit := 0
	if opt.Recursive {
		depthLimit = opt.MaxDepth
	}

	// Validate and absolutize roots before any traversal begins.
	roots := make([]string, 0, len(opt.Roots))

	for _, root := range opt.Roots {
		root = filepath.Clean(root)

		if statInfo, err := os.Stat(root); err != nil {
			return nil, fmt.Errorf("accessing path %q: %w", root, err)
		} else if !statInfo.IsDir() {
			return nil, fmt.Errorf("path %q is not a directory", root)
		}

		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving absolute path: %w", err)
		}

		roots = append(roots, absRoot)
	}

	log.printf("[debug]: roots:\n")

	for _, root := range roots {
		log.printf("[debug]:   - %s\n", root)
	}

	log.printf("[debug]: depth limit: %d, min size: %d, workers: %d\n",
		depthLimit, opt.MinSize, opt.Workers)

	ctx, cancel := context.WithCancel(ctx)

	stats := newCollector()
	agg := newAggregator()
	jobs := make(chan hashJob, jobQueueSize)

	scan := &Scan{
		groups: make(chan Group),
		done:   make(chan struct{}),
	}

	startProgressReporter(ctx, stats, progressHook, opt.ProgressInterval)

	// emit sorts, counts, and delivers finalized groups to the caller.
	emit := func(groups []Group) {
		for i := range groups {
			opt.Sort.sortGroup(&groups[i])
			stats.grouped(groups[i])

			select {
			case scan.groups <- groups[i]:
			case <-ctx.Done():
				return
			}
		}
	}

	var hashWG sync.WaitGroup

	for i := 0; i < opt.Workers; i++ {
		hashWG.Add(1)

		go func() {
			defer hashWG.Done()

			for job := range jobs {
				// On cancellation keep draining so pending counts settle,
				// but skip the actual hashing.
				if err := ctx.Err(); err != nil {
					agg.complete(hashResult{file: job.file, err: err})

					continue
				}

				sum, err := hashFile(job.file.Path)
				if err != nil {
					log.printf("[debug]: hashing %s: %v\n", job.file.Path, err)
					stats.diagnostic("hash", job.file.Path, err)
				}

				emit(agg.complete(hashResult{file: job.file, digest: sum, err: err}))
			}
		}()
	}

	go func() {
		defer close(scan.done)
		defer cancel()

		start := time.Now()

		conf := &fastwalk.Config{
			Follow: opt.Follow,
		}

		var walkErr error

		for _, root := range roots {
			// Walk directory with fastwalk (parallel traversal)
			//nolint:varnamelen // d is standard for DirEntry
			err := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					log.printf("[debug]: error accessing path %s: %v\n", path, err)
					stats.diagnostic("walk", path, err)

					return nil // Per-entry errors never abort the walk
				}

				// Check cancellation periodically
				select {
				case <-ctx.Done():
					return context.Canceled
				default:
				}

				depth := relativeDepth(path, root)

				if d.IsDir() {
					if path == root {
						return nil
					}

					// Files inside this directory would sit at depth+1.
					if depthLimit >= 0 && depth+1 > depthLimit {
						log.printf("[debug]: skipping directory (beyond depth %d): %s\n", depthLimit, path)

						return filepath.SkipDir
					}

					return nil
				}

				if !d.Type().IsRegular() {
					return nil
				}

				if depthLimit >= 0 && depth > depthLimit {
					log.printf("[debug]: skipping file (beyond depth %d): %s\n", depthLimit, path)

					return nil
				}

				fileInfo, err := d.Info()
				if err != nil {
					stats.diagnostic("walk", path, err)

					return nil //nolint:nilerr // Intentionally skip errors during walk
				}

				size := fileInfo.Size()
				stats.seen(size)

				if size < opt.MinSize {
					stats.skipped()

					return nil
				}

				file := File{Path: path, Size: size, Depth: depth, ModTime: fileInfo.ModTime()}

				submitted := agg.add(file)
				if len(submitted) == 0 {
					return nil
				}

				stats.hashed(len(submitted))

				for _, job := range submitted {
					select {
					case jobs <- job:
					case <-ctx.Done():
						return context.Canceled
					}
				}

				return nil
			})
			if err != nil {
				walkErr = err

				break
			}
		}

		close(jobs)

		if walkErr == nil {
			// Traversal complete: every size class is now closed. Buckets
			// whose hashing already finished (or that never had two
			// members) finalize here; the rest as their last hash lands.
			emit(agg.finishWalk())
		}

		hashWG.Wait()
		close(scan.groups)

		scan.stats = stats.snapshot(time.Since(start))
		scan.err = walkErr
	}()

	return scan, nil
}
