// Package padding implements PKCS#7-style block padding: every
// appended byte carries the count of bytes appended, and input that
// is already block-aligned gains one full block of padding so that
// Unpad is unambiguous for every input.
package padding

import "errors"

// ErrInvalidPadding is returned by Unpad when the trailing pad
// pattern is malformed.  Corrupted ciphertext usually surfaces here.
var ErrInvalidPadding = errors.New("padding: invalid padding")

// Pad returns data extended to a positive multiple of blockSize.
// The appended bytes all hold the pad count, which is in [1,blockSize].
func Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// Unpad strips the padding appended by Pad.  It fails when the count
// byte is zero, exceeds blockSize or the total length, or when any of
// the trailing count bytes disagree with it.  Every trailing byte is
// checked so that corrupted ciphertext cannot be misread as a valid,
// shorter plaintext.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if b != byte(n) {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
