package dupes

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashFileEqualContent(t *testing.T) {
	tmp := t.TempDir()

	left := filepath.Join(tmp, "left.bin")
	right := filepath.Join(tmp, "right.bin")

	if err := os.WriteFile(left, []byte("same bytes"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := os.WriteFile(right, []byte("same bytes"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	leftSum, err := hashFile(left)
	if err != nil {
		t.Fatalf("hashFile failed: %v", err)
	}

	rightSum, err := hashFile(right)
	if err != nil {
		t.Fatalf("hashFile failed: %v", err)
	}

	if leftSum != rightSum {
		t.Error("identical content produced different digests")
	}

	if len(leftSum.String()) != 64 {
		t.Errorf("digest hex length = %d, want 64", len(leftSum.String()))
	}
}

func TestHashFileDifferentContent(t *testing.T) {
	tmp := t.TempDir()

	left := filepath.Join(tmp, "left.bin")
	right := filepath.Join(tmp, "right.bin")

	if err := os.WriteFile(left, []byte("some bytes"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := os.WriteFile(right, []byte("omse bytes"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	leftSum, _ := hashFile(left)
	rightSum, _ := hashFile(right)

	if leftSum == rightSum {
		t.Error("different content produced equal digests")
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, err := hashFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing file")
	}
}
