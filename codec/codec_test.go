package codec

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/blowfeld/bfcrypt/padding"
)

var testKey = []byte("TESTKEY")

func newTestCoder(t *testing.T) *Coder {
	t.Helper()
	c, err := New(testKey)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

// Vectors produced from the Blowfish reference vectors by padding and
// encrypting block by block with the key "TESTKEY".
func TestEncryptDataVectors(t *testing.T) {
	c := newTestCoder(t)
	cases := []struct {
		plain  string
		cipher string
	}{
		{"", "17cc1ed31382980d"},
		{"hello", "c6fa92912099ad3c"},
		{"12345678", "a77a59c65f36c48917cc1ed31382980d"},
	}
	for _, tt := range cases {
		got := hex.EncodeToString(c.EncryptData([]byte(tt.plain)))
		if got != tt.cipher {
			t.Errorf("EncryptData(%q) = %s, want %s", tt.plain, got, tt.cipher)
		}
	}
}

func TestDataRoundTrip(t *testing.T) {
	c := newTestCoder(t)
	for _, size := range []int{0, 1, 7, 8, 9, 15, 16, 63, 64, 1000} {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i)
		}
		out, err := c.DecryptData(c.EncryptData(data))
		if err != nil {
			t.Fatalf("size %d: DecryptData failed: %v", size, err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("size %d: round trip mismatch", size)
		}
	}
}

func TestEncryptDataLengthLaw(t *testing.T) {
	c := newTestCoder(t)
	for size := 0; size <= 40; size++ {
		want := size + 8 - size%8
		got := len(c.EncryptData(make([]byte, size)))
		if got != want {
			t.Errorf("size %d: ciphertext length %d, want %d", size, got, want)
		}
	}
}

func TestDecryptDataInvalidLength(t *testing.T) {
	c := newTestCoder(t)
	for _, size := range []int{1, 7, 9, 15} {
		if _, err := c.DecryptData(make([]byte, size)); err != ErrInvalidLength {
			t.Errorf("size %d: got %v, want ErrInvalidLength", size, err)
		}
	}
	if _, err := c.DecryptData(nil); err != ErrInvalidLength {
		t.Errorf("empty input: got %v, want ErrInvalidLength", err)
	}
}

func TestDecryptDataCorruptPadding(t *testing.T) {
	c := newTestCoder(t)
	// Random-looking bytes will almost never decrypt to valid padding.
	junk := bytes.Repeat([]byte{0xA5, 0x3C}, 8)
	if _, err := c.DecryptData(junk); err != padding.ErrInvalidPadding {
		t.Errorf("got %v, want ErrInvalidPadding", err)
	}
}

func TestDecryptDataLeavesInputIntact(t *testing.T) {
	c := newTestCoder(t)
	ct := c.EncryptData([]byte("do not touch"))
	saved := make([]byte, len(ct))
	copy(saved, ct)
	if _, err := c.DecryptData(ct); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ct, saved) {
		t.Fatal("DecryptData mutated its input")
	}
}

func TestBlockOperations(t *testing.T) {
	c := newTestCoder(t)
	block := []byte("ABCDEFGH")
	orig := make([]byte, len(block))
	copy(orig, block)

	if err := c.EncryptBlock(block); err != nil {
		t.Fatalf("EncryptBlock: %v", err)
	}
	if err := c.DecryptBlock(block); err != nil {
		t.Fatalf("DecryptBlock: %v", err)
	}
	if !bytes.Equal(block, orig) {
		t.Fatalf("block round trip: got %x, want %x", block, orig)
	}

	for _, size := range []int{0, 7, 9} {
		if err := c.EncryptBlock(make([]byte, size)); err != ErrInvalidBlockSize {
			t.Errorf("EncryptBlock(%d bytes): got %v, want ErrInvalidBlockSize", size, err)
		}
		if err := c.DecryptBlock(make([]byte, size)); err != ErrInvalidBlockSize {
			t.Errorf("DecryptBlock(%d bytes): got %v, want ErrInvalidBlockSize", size, err)
		}
	}
}

// Buffers above and below the fan-out threshold must agree: the blocks
// are independent, so the split cannot change the ciphertext.
func TestParallelMatchesSequential(t *testing.T) {
	c := newTestCoder(t)
	big := make([]byte, parallelThreshold*8*4+13)
	for i := range big {
		big[i] = byte(i * 31)
	}
	ct := c.EncryptData(big)

	// Sequential reference, one block at a time.
	want := make([]byte, 0, len(ct))
	padded := padding.Pad(big, 8)
	for i := 0; i < len(padded); i += 8 {
		blk := make([]byte, 8)
		copy(blk, padded[i:i+8])
		if err := c.EncryptBlock(blk); err != nil {
			t.Fatal(err)
		}
		want = append(want, blk...)
	}
	if !bytes.Equal(ct, want) {
		t.Fatal("parallel EncryptData disagrees with block-at-a-time encryption")
	}

	out, err := c.DecryptData(ct)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, big) {
		t.Fatal("large-buffer round trip mismatch")
	}
}

func TestNewRejectsBadKeys(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil): expected error")
	}
	if _, err := New(make([]byte, 57)); err == nil {
		t.Error("New(57 bytes): expected error")
	}
}
