// Package codec applies the blowfish block cipher to buffers, streams
// and files.  Blocks are processed independently (no chaining) with
// PKCS#7-style padding, so a buffer can be split across workers and a
// file can be processed in block-aligned chunks with the padding
// applied once at end-of-stream.
package codec

import (
	"errors"
	"runtime"
	"sync"

	"github.com/blowfeld/bfcrypt/blowfish"
	"github.com/blowfeld/bfcrypt/padding"
)

var (
	// ErrInvalidBlockSize is returned by the single-block operations
	// when the buffer is not exactly one cipher block.
	ErrInvalidBlockSize = errors.New("codec: block is not 8 bytes")

	// ErrInvalidLength is returned by the decrypt operations when the
	// ciphertext length is not a positive multiple of the block size.
	ErrInvalidLength = errors.New("codec: ciphertext length is not a positive multiple of 8")
)

// parallelThreshold is the block count below which EncryptData and
// DecryptData stay on the calling goroutine.  Fanning out costs more
// than it saves for small buffers.
const parallelThreshold = 512

// A Coder holds the keyed cipher state shared by every operation.
// The state is built once by New and read-only afterwards, so a Coder
// is safe for concurrent use.
type Coder struct {
	cipher *blowfish.Cipher
}

// New creates a Coder keyed with key.  The key must be between 1 and
// 56 bytes; anything else returns blowfish.KeySizeError.
func New(key []byte) (*Coder, error) {
	c, err := blowfish.New(key)
	if err != nil {
		return nil, err
	}
	return &Coder{cipher: c}, nil
}

// EncryptBlock transforms exactly one 8-byte block in place.
func (c *Coder) EncryptBlock(block []byte) error {
	if len(block) != blowfish.BlockSize {
		return ErrInvalidBlockSize
	}
	c.cipher.Encrypt(block, block)
	return nil
}

// DecryptBlock transforms exactly one 8-byte block in place.
func (c *Coder) DecryptBlock(block []byte) error {
	if len(block) != blowfish.BlockSize {
		return ErrInvalidBlockSize
	}
	c.cipher.Decrypt(block, block)
	return nil
}

// EncryptData pads data and encrypts every block, returning a new
// buffer.  The result is always a positive multiple of 8 bytes long:
// len(data) rounded up, plus a full extra block when already aligned.
func (c *Coder) EncryptData(data []byte) []byte {
	buf := padding.Pad(data, blowfish.BlockSize)
	c.apply(buf, c.cipher.Encrypt)
	return buf
}

// DecryptData decrypts data and strips the padding, returning the
// plaintext at its true length.  data is left untouched.  It fails
// with ErrInvalidLength when data is empty or not block-aligned, and
// propagates padding.ErrInvalidPadding from malformed ciphertext.
func (c *Coder) DecryptData(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%blowfish.BlockSize != 0 {
		return nil, ErrInvalidLength
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	c.apply(buf, c.cipher.Decrypt)
	return padding.Unpad(buf, blowfish.BlockSize)
}

// apply runs op over every block of the block-aligned buffer, in
// place.  Large buffers are split into contiguous per-worker ranges;
// each worker only reads the immutable cipher state and writes its
// own range, so no synchronization beyond the final Wait is needed.
func (c *Coder) apply(buf []byte, op func(dst, src []byte)) {
	nblocks := len(buf) / blowfish.BlockSize
	workers := runtime.NumCPU()
	if nblocks < parallelThreshold || workers < 2 {
		for i := 0; i < len(buf); i += blowfish.BlockSize {
			op(buf[i:i+blowfish.BlockSize], buf[i:i+blowfish.BlockSize])
		}
		return
	}
	if workers > nblocks {
		workers = nblocks
	}
	per := (nblocks + workers - 1) / workers * blowfish.BlockSize
	var wg sync.WaitGroup
	for lo := 0; lo < len(buf); lo += per {
		hi := lo + per
		if hi > len(buf) {
			hi = len(buf)
		}
		wg.Add(1)
		go func(chunk []byte) {
			defer wg.Done()
			for i := 0; i < len(chunk); i += blowfish.BlockSize {
				op(chunk[i:i+blowfish.BlockSize], chunk[i:i+blowfish.BlockSize])
			}
		}(buf[lo:hi])
	}
	wg.Wait()
}
