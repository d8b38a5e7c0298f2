package dupes

import (
	"encoding/hex"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// digest is a BLAKE2b-256 content digest. Used purely for equality
// testing: two files with the same size and digest are treated as
// byte-identical.
type digest [blake2b.Size256]byte

// String returns the digest as lowercase hex.
func (d digest) String() string {
	return hex.EncodeToString(d[:])
}

// hashJob is a single file queued for content hashing.
type hashJob struct {
	file File
}

// hashResult is the outcome of one hash computation. A non-nil err marks
// a hashing failure; the file is then excluded from duplicate
// consideration.
type hashResult struct {
	file   File
	digest digest
	err    error
}

// hashFile streams the file at path through BLAKE2b-256.
func hashFile(path string) (digest, error) {
	var d digest

	f, err := os.Open(path)
	if err != nil {
		return d, err
	}
	defer f.Close()

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return d, err
	}

	if _, err := io.Copy(hasher, f); err != nil {
		return d, err
	}

	copy(d[:], hasher.Sum(nil))

	return d, nil
}
