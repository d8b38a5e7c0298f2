// Package dupes finds groups of byte-identical files across directory trees.
//
// It walks the trees using fastwalk for parallel traversal, buckets files
// by exact byte size, hashes same-size candidates concurrently with
// BLAKE2b-256, and streams each duplicate group as soon as its membership
// is fully determined.
package dupes
