package codec

import (
	"io"

	"github.com/blowfeld/bfcrypt/blowfish"
	"github.com/blowfeld/bfcrypt/padding"
)

// chunkSize is the read granularity of the stream drivers.  It is a
// multiple of the block size so complete chunks need no carry-over.
const chunkSize = 4096

// EncryptStream reads plaintext from src until EOF, encrypts it and
// writes the ciphertext to dst.  Complete blocks are flushed as they
// fill; the padding is applied exactly once, to the residue at
// end-of-stream, so the output matches EncryptData of the whole input.
func (c *Coder) EncryptStream(dst io.Writer, src io.Reader) error {
	in := make([]byte, chunkSize)
	buf := make([]byte, 0, chunkSize+blowfish.BlockSize)
	for {
		n, err := src.Read(in)
		if n > 0 {
			buf = append(buf, in[:n]...)
			nb := len(buf) / blowfish.BlockSize * blowfish.BlockSize
			if nb > 0 {
				c.apply(buf[:nb], c.cipher.Encrypt)
				if _, werr := dst.Write(buf[:nb]); werr != nil {
					return werr
				}
				buf = append(buf[:0], buf[nb:]...)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	final := padding.Pad(buf, blowfish.BlockSize)
	c.apply(final, c.cipher.Encrypt)
	_, err := dst.Write(final)
	return err
}

// DecryptStream reads ciphertext from src until EOF, decrypts it and
// writes the plaintext to dst.  The last block is held back until EOF
// because it carries the padding.  Plaintext is flushed progressively,
// so on error the caller must discard whatever was already written;
// the file codec does this by writing to a temporary path.
func (c *Coder) DecryptStream(dst io.Writer, src io.Reader) error {
	in := make([]byte, chunkSize)
	buf := make([]byte, 0, chunkSize+blowfish.BlockSize)
	var total int64
	for {
		n, err := src.Read(in)
		if n > 0 {
			total += int64(n)
			buf = append(buf, in[:n]...)
			if len(buf) > blowfish.BlockSize {
				// Hold one block back; flush the rest.
				nb := (len(buf) - blowfish.BlockSize) / blowfish.BlockSize * blowfish.BlockSize
				if nb > 0 {
					c.apply(buf[:nb], c.cipher.Decrypt)
					if _, werr := dst.Write(buf[:nb]); werr != nil {
						return werr
					}
					buf = append(buf[:0], buf[nb:]...)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if total == 0 || total%blowfish.BlockSize != 0 {
		return ErrInvalidLength
	}
	// buf now holds exactly the final block.  The padding never spans
	// blocks, so unpadding it alone is sufficient.
	c.cipher.Decrypt(buf, buf)
	out, err := padding.Unpad(buf, blowfish.BlockSize)
	if err != nil {
		return err
	}
	_, werr := dst.Write(out)
	return werr
}
