package padding

import (
	"bytes"
	"testing"
)

func TestPadLengths(t *testing.T) {
	for size := 0; size <= 24; size++ {
		data := make([]byte, size)
		padded := Pad(data, 8)
		if len(padded)%8 != 0 || len(padded) == 0 {
			t.Errorf("Pad(%d bytes): length %d is not a positive multiple of 8", size, len(padded))
		}
		if len(padded) <= size {
			t.Errorf("Pad(%d bytes): nothing appended", size)
		}
		n := padded[len(padded)-1]
		if int(n) != len(padded)-size {
			t.Errorf("Pad(%d bytes): count byte %d, want %d", size, n, len(padded)-size)
		}
	}
}

func TestPadAlignedInputGetsFullBlock(t *testing.T) {
	padded := Pad([]byte("12345678"), 8)
	if len(padded) != 16 {
		t.Fatalf("padded length %d, want 16", len(padded))
	}
	want := []byte{8, 8, 8, 8, 8, 8, 8, 8}
	if !bytes.Equal(padded[8:], want) {
		t.Fatalf("pad block %v, want %v", padded[8:], want)
	}
}

func TestPadUnpadRoundTrip(t *testing.T) {
	for size := 0; size <= 24; size++ {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i * 7)
		}
		out, err := Unpad(Pad(data, 8), 8)
		if err != nil {
			t.Fatalf("Unpad failed for %d bytes: %v", size, err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("round trip for %d bytes: got %v, want %v", size, out, data)
		}
	}
}

func TestUnpadRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"zero count", []byte{1, 2, 3, 4, 5, 6, 7, 0}},
		{"count over block size", []byte{1, 2, 3, 4, 5, 6, 7, 9}},
		{"count over length", []byte{5}},
		{"inconsistent tail", []byte{1, 2, 3, 4, 5, 2, 9, 3}},
	}
	for _, tt := range cases {
		if _, err := Unpad(tt.data, 8); err != ErrInvalidPadding {
			t.Errorf("%s: got %v, want ErrInvalidPadding", tt.name, err)
		}
	}
}

func TestPadDoesNotMutateInput(t *testing.T) {
	data := []byte{1, 2, 3}
	Pad(data, 8)
	if !bytes.Equal(data, []byte{1, 2, 3}) {
		t.Fatal("Pad mutated its input")
	}
}
