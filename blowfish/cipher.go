// Package blowfish implements Bruce Schneier's Blowfish block cipher:
// a 16-round Feistel network over 64-bit blocks with a key-dependent
// key schedule accepting keys of 1 to 56 bytes.
package blowfish

import "strconv"

// BlockSize is the Blowfish block size in bytes.
const BlockSize = 8

// KeySizeError is returned by New when the key length is outside [1,56].
type KeySizeError int

func (k KeySizeError) Error() string {
	return "blowfish: invalid key size " + strconv.Itoa(int(k))
}

// A Cipher is an instance of Blowfish keyed with a particular key.
// Once New returns, the subkey arrays are never written again, so a
// single Cipher may be shared by any number of goroutines.
type Cipher struct {
	p          [18]uint32
	s0, s1, s2 [256]uint32
	s3         [256]uint32
}

// New creates and returns a keyed Cipher.  The key must be between
// 1 and 56 bytes.  Building the key schedule costs 521 block
// encryptions, so callers should create one Cipher per key and reuse
// it rather than re-keying per operation.
func New(key []byte) (*Cipher, error) {
	if len(key) < 1 || len(key) > 56 {
		return nil, KeySizeError(len(key))
	}
	var c Cipher
	c.expandKey(key)
	return &c, nil
}

// BlockSize returns the Blowfish block size, 8 bytes, satisfying the
// crypto/cipher.Block interface.
func (c *Cipher) BlockSize() int { return BlockSize }

// nextWord assembles the next big-endian uint32 from key, wrapping
// around to the start of the key when it runs out of bytes.
func nextWord(key []byte, pos *int) uint32 {
	var w uint32
	j := *pos
	for i := 0; i < 4; i++ {
		w = w<<8 | uint32(key[j])
		j++
		if j >= len(key) {
			j = 0
		}
	}
	*pos = j
	return w
}

// expandKey derives the subkey arrays from key.  It seeds p and
// s0..s3 from the pi tables, folds the key into p, then repeatedly
// encrypts the running output block, overwriting every subkey word
// two at a time.  Each step consumes the previous step's output, so
// the loop is inherently sequential.
func (c *Cipher) expandKey(key []byte) {
	c.p = p
	c.s0, c.s1, c.s2, c.s3 = s0, s1, s2, s3

	j := 0
	for i := 0; i < 18; i++ {
		c.p[i] ^= nextWord(key, &j)
	}

	var l, r uint32
	for i := 0; i < 18; i += 2 {
		l, r = c.encryptWords(l, r)
		c.p[i], c.p[i+1] = l, r
	}
	for i := 0; i < 256; i += 2 {
		l, r = c.encryptWords(l, r)
		c.s0[i], c.s0[i+1] = l, r
	}
	for i := 0; i < 256; i += 2 {
		l, r = c.encryptWords(l, r)
		c.s1[i], c.s1[i+1] = l, r
	}
	for i := 0; i < 256; i += 2 {
		l, r = c.encryptWords(l, r)
		c.s2[i], c.s2[i+1] = l, r
	}
	for i := 0; i < 256; i += 2 {
		l, r = c.encryptWords(l, r)
		c.s3[i], c.s3[i+1] = l, r
	}
}
