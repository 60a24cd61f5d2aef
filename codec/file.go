package codec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EncryptFile encrypts the file at src and writes the ciphertext to
// dst.  The output is staged in a temporary file next to dst and
// renamed into place only on success, so a failed run never leaves a
// truncated dst that could be mistaken for a complete one.
func (c *Coder) EncryptFile(src, dst string) error {
	return c.transformFile(src, dst, c.EncryptStream)
}

// DecryptFile decrypts the file at src and writes the plaintext to
// dst, with the same staging guarantee as EncryptFile.
func (c *Coder) DecryptFile(src, dst string) error {
	return c.transformFile(src, dst, c.DecryptStream)
}

func (c *Coder) transformFile(src, dst string, xfrm func(io.Writer, io.Reader) error) error {
	fin, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("codec: open %s: %w", src, err)
	}
	defer fin.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".bfc-*")
	if err != nil {
		return fmt.Errorf("codec: stage output for %s: %w", dst, err)
	}
	tmpName := tmp.Name()
	done := false
	defer func() {
		if !done {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := xfrm(w, bufio.NewReader(fin)); err != nil {
		return fmt.Errorf("codec: transform %s: %w", src, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("codec: write %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("codec: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("codec: finalize %s: %w", dst, err)
	}
	done = true
	return nil
}
