package dupes

import "sync"

// sizeBucket collects every scanned file of one exact byte size.
type sizeBucket struct {
	size      int64
	files     []File
	submitted int // files already handed to the hash pool
	pending   int // submitted hashes not yet completed
	byDigest  map[digest][]File
	finalized bool
}

// aggregator owns the size-bucket table. Walk callbacks append members and
// hash workers deliver results, both under a single mutex, so a bucket's
// pending count and member list never race.
type aggregator struct {
	mu       sync.Mutex
	buckets  map[int64]*sizeBucket
	walkDone bool
}

// newAggregator creates an empty bucket table.
func newAggregator() *aggregator {
	return &aggregator{buckets: make(map[int64]*sizeBucket)}
}

// add appends file to its size bucket and returns the hash jobs activated
// by the addition. A bucket becomes hashable once it holds two members;
// at that point every member seen so far is submitted, so a file that sat
// alone in its bucket is submitted retroactively along with the newcomer.
func (a *aggregator) add(file File) []hashJob {
	a.mu.Lock()
	defer a.mu.Unlock()

	bucket := a.buckets[file.Size]
	if bucket == nil {
		bucket = &sizeBucket{size: file.Size, byDigest: make(map[digest][]File)}
		a.buckets[file.Size] = bucket
	}

	bucket.files = append(bucket.files, file)
	if len(bucket.files) < 2 {
		return nil
	}

	jobs := make([]hashJob, 0, len(bucket.files)-bucket.submitted)
	for _, member := range bucket.files[bucket.submitted:] {
		jobs = append(jobs, hashJob{file: member})
	}

	bucket.submitted = len(bucket.files)
	bucket.pending += len(jobs)

	return jobs
}

// complete records one hash result and returns any groups finalized by it.
// A failed hash drops the file from duplicate consideration but still
// counts against the bucket's pending hashes. Buckets finalize only after
// the walk has finished, since new members of the size could otherwise
// still arrive.
func (a *aggregator) complete(res hashResult) []Group {
	a.mu.Lock()
	defer a.mu.Unlock()

	bucket := a.buckets[res.file.Size]
	if bucket == nil {
		return nil
	}

	if res.err == nil {
		bucket.byDigest[res.digest] = append(bucket.byDigest[res.digest], res.file)
	}

	bucket.pending--
	if !a.walkDone || bucket.pending > 0 {
		return nil
	}

	return bucket.finalize()
}

// finishWalk closes the table to new members and returns the groups from
// every bucket whose hashing has already completed, including buckets
// that never had anything to hash. The remaining buckets finalize as
// their last outstanding hash lands.
func (a *aggregator) finishWalk() []Group {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.walkDone = true

	var groups []Group

	for _, bucket := range a.buckets {
		if bucket.pending == 0 {
			groups = append(groups, bucket.finalize()...)
		}
	}

	return groups
}

// finalize partitions the bucket by digest and returns every digest class
// holding at least two files. Classes of one are false positives of the
// size pre-filter and are discarded. Runs at most once per bucket.
func (b *sizeBucket) finalize() []Group {
	if b.finalized {
		return nil
	}

	b.finalized = true

	var groups []Group

	for d, files := range b.byDigest {
		if len(files) < 2 {
			continue
		}

		groups = append(groups, Group{Size: b.size, Digest: d.String(), Files: files})
	}

	return groups
}
