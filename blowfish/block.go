package blowfish

// mix is the Blowfish round function.  The input word is split into
// its four bytes, most significant first, and pushed through the
// substitution boxes with mod-2^32 additions, as the algorithm
// prescribes.  Overflow wraps; that is part of the specification.
func (c *Cipher) mix(x uint32) uint32 {
	return ((c.s0[byte(x>>24)] + c.s1[byte(x>>16)]) ^ c.s2[byte(x>>8)]) + c.s3[byte(x)]
}

// encryptWords runs the 16-round Feistel network forward over one
// block held as two 32-bit halves.
func (c *Cipher) encryptWords(l, r uint32) (uint32, uint32) {
	for i := 0; i < 16; i++ {
		l ^= c.p[i]
		r ^= c.mix(l)
		l, r = r, l
	}
	l, r = r, l
	r ^= c.p[16]
	l ^= c.p[17]
	return l, r
}

// decryptWords is the exact mirror of encryptWords: the whitening
// words are applied in reverse order through the same round function.
func (c *Cipher) decryptWords(l, r uint32) (uint32, uint32) {
	for i := 17; i > 1; i-- {
		l ^= c.p[i]
		r ^= c.mix(l)
		l, r = r, l
	}
	l, r = r, l
	r ^= c.p[1]
	l ^= c.p[0]
	return l, r
}

// Encrypt encrypts the 8-byte block src and stores the result in dst.
// dst and src may overlap.  Note that for amounts of data larger than
// one block it is not safe to just call Encrypt on successive blocks
// without a surrounding mode; see the codec package.
func (c *Cipher) Encrypt(dst, src []byte) {
	l := uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3])
	r := uint32(src[4])<<24 | uint32(src[5])<<16 | uint32(src[6])<<8 | uint32(src[7])
	l, r = c.encryptWords(l, r)
	dst[0], dst[1], dst[2], dst[3] = byte(l>>24), byte(l>>16), byte(l>>8), byte(l)
	dst[4], dst[5], dst[6], dst[7] = byte(r>>24), byte(r>>16), byte(r>>8), byte(r)
}

// Decrypt decrypts the 8-byte block src and stores the result in dst.
// dst and src may overlap.
func (c *Cipher) Decrypt(dst, src []byte) {
	l := uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3])
	r := uint32(src[4])<<24 | uint32(src[5])<<16 | uint32(src[6])<<8 | uint32(src[7])
	l, r = c.decryptWords(l, r)
	dst[0], dst[1], dst[2], dst[3] = byte(l>>24), byte(l>>16), byte(l>>8), byte(l)
	dst[4], dst[5], dst[6], dst[7] = byte(r>>24), byte(r>>16), byte(r>>8), byte(r)
}
