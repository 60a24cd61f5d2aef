package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/blowfeld/bfcrypt/codec"
)

// Empty input and headerless files must be rejected as "not a bfcrypt
// encrypted file" rather than blowing up while slicing the header line.
func TestReadHeaderFieldsRejectsNonHeaders(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"no trailing newline", "+BFC|1|x|b|false"},
		{"wrong magic", "raw ciphertext bytes\n"},
		{"too few fields", "+BFC|1|x|b\n"},
	}
	for _, tt := range cases {
		if _, err := readHeaderFields(bufio.NewReader(strings.NewReader(tt.input))); err != errNotEncrypted {
			t.Errorf("%s: got %v, want errNotEncrypted", tt.name, err)
		}
	}
}

func TestReadHeaderFieldsParsesHeader(t *testing.T) {
	fields, err := readHeaderFields(bufio.NewReader(strings.NewReader("+BFC|1|file.txt|b|false\n")))
	if err != nil {
		t.Fatalf("readHeaderFields failed: %v", err)
	}
	want := []string{"+BFC", "1", "file.txt", "b", "false"}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d: got %q, want %q", i, fields[i], want[i])
		}
	}
}

// When the header names the original file, decrypt must both create
// that file and report it as the output path.
func TestDecryptRestoresHeaderFileName(t *testing.T) {
	dir := t.TempDir()
	restored := filepath.Join(dir, "restored.txt")
	plaintext := "named by the header"

	c, err := codec.New([]byte("test passphrase"))
	if err != nil {
		t.Fatal(err)
	}
	var enc bytes.Buffer
	fmt.Fprintf(&enc, "+BFC|%d|%s|b|false\n", bfcApiLevel, restored)
	if err := c.EncryptStream(&enc, strings.NewReader(plaintext)); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(dir, "input.enc")
	if err := os.WriteFile(src, enc.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}

	// decrypt falls back to stdout before it has seen the header, and
	// its deferred Close would hit whatever stdout was at that point.
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	origStdout := os.Stdout
	os.Stdout = devNull
	defer func() { os.Stdout = origStdout }()

	log = zerolog.Nop()
	inputFileName = src
	outputFileName = ""
	usePem = false
	useASCII85 = false
	compression = false
	useRaw = false

	decrypt([]string{"test passphrase"})

	if outputFileName != restored {
		t.Errorf("outputFileName = %q, want %q", outputFileName, restored)
	}
	out, err := os.ReadFile(restored)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if string(out) != plaintext {
		t.Fatalf("decrypted %q, want %q", out, plaintext)
	}
}
