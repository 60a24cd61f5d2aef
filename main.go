// Package main - bfcrypt encrypts and decrypts files with the
// Blowfish block cipher as described in Bruce Schneier's 1994 paper
// "Description of a New Variable-Length Key, 64-Bit Block Cipher".
package main

import "github.com/blowfeld/bfcrypt/cmd"

func main() {
	cmd.Execute()
}
