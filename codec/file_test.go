package codec

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileRoundTrip(t *testing.T) {
	c := newTestCoder(t)
	dir := t.TempDir()

	sizes := []int{0, 1, 7, 8, 9, 4096, 3*1024*1024 + 5}
	for _, size := range sizes {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i * 13)
		}
		src := filepath.Join(dir, "plain")
		enc := filepath.Join(dir, "plain.bfc")
		dec := filepath.Join(dir, "plain.out")
		if err := os.WriteFile(src, data, 0600); err != nil {
			t.Fatal(err)
		}

		if err := c.EncryptFile(src, enc); err != nil {
			t.Fatalf("size %d: EncryptFile failed: %v", size, err)
		}
		info, err := os.Stat(enc)
		if err != nil {
			t.Fatal(err)
		}
		want := int64(size + 8 - size%8)
		if info.Size() != want {
			t.Errorf("size %d: ciphertext file is %d bytes, want %d", size, info.Size(), want)
		}

		if err := c.DecryptFile(enc, dec); err != nil {
			t.Fatalf("size %d: DecryptFile failed: %v", size, err)
		}
		out, err := os.ReadFile(dec)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("size %d: file round trip mismatch", size)
		}
	}
}

func TestEncryptFileMissingSource(t *testing.T) {
	c := newTestCoder(t)
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope")
	dst := filepath.Join(dir, "out")

	err := c.EncryptFile(missing, dst)
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error %q does not name the offending path", err)
	}
	if _, serr := os.Stat(dst); !os.IsNotExist(serr) {
		t.Error("destination file exists after a failed encrypt")
	}
}

func TestDecryptFileFailureLeavesNoOutput(t *testing.T) {
	c := newTestCoder(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.bfc")
	dst := filepath.Join(dir, "bad.out")

	// Not block aligned: must fail with ErrInvalidLength, and the
	// destination must not appear.
	if err := os.WriteFile(src, make([]byte, 13), 0600); err != nil {
		t.Fatal(err)
	}
	err := c.DecryptFile(src, dst)
	if err == nil {
		t.Fatal("expected error for misaligned ciphertext")
	}
	if _, serr := os.Stat(dst); !os.IsNotExist(serr) {
		t.Error("destination file exists after a failed decrypt")
	}

	// No stray temp files either.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "bad.bfc" {
			t.Errorf("unexpected file left behind: %s", e.Name())
		}
	}
}
