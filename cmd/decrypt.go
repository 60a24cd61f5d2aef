/*
Copyright © 2023 The bfcrypt Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bgallie/filters/ascii85"
	"github.com/bgallie/filters/flate"
	"github.com/bgallie/filters/lines"
	"github.com/bgallie/filters/pem"
	"github.com/spf13/cobra"
)

var errNotEncrypted = errors.New("input is not a bfcrypt encrypted file")

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt a bfcrypt encrypted file.",
	Long:  `Decrypt a file encrypted by bfcrypt, keyed from the passphrase used to encrypt it.`,
	Run: func(cmd *cobra.Command, args []string) {
		decrypt(args)
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)
	decryptCmd.Flags().BoolVarP(&useRaw, "raw", "r", false, "read raw ciphertext with no header or encoding")
}

// fromBinaryHelper provides the means to inject the pure binary input
// into the pipe stream used by the decrypt() function.  The data can
// be read using the returned PipeReader.
func fromBinaryHelper(rdr io.Reader) *io.PipeReader {
	rRdr, rWrtr := io.Pipe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer rWrtr.Close()
		_, err := io.Copy(rWrtr, rdr)
		checkError(err)
	}()
	return rRdr
}

func decrypt(args []string) {
	initCoder(args)
	if useRaw {
		decryptRaw()
		return
	}
	fin, fout := getInputAndOutputFiles(false)
	defer fout.Close()
	var fal string
	var ofName string
	var bRdr *bufio.Reader
	var pRdr *io.PipeReader
	var exists bool
	var err error
	bRdr = bufio.NewReader(fin)
	b, err := bRdr.Peek(5)
	checkError(err)
	if string(b) == "-----" {
		usePem = true
		var blck pem.Block
		pRdr, blck = pem.FromPem(bRdr)
		fal, exists = blck.Headers["ApiLevel"]
		if !exists {
			fal = "-1"
		}
		if len(outputFileName) == 0 {
			fName, ok := blck.Headers["FileName"]
			if ok {
				ofName = fName
			}
		}
		cmpr, ok := blck.Headers["Compression"]
		if ok {
			compression = cmpr == "true"
		}
	} else {
		fields, err := readHeaderFields(bRdr)
		cobra.CheckErr(err)
		fal = fields[1]
		ofName = fields[2]
		useASCII85 = fields[3] == "a"
		useBinary = fields[3] == "b"
		compression = fields[4] == "true"
	}
	fileApiLevel, _ := strconv.Atoi(fal)
	if fileApiLevel != bfcApiLevel {
		fmt.Fprintf(os.Stderr, "Error: API Level mismatch. FileApiLevel: %d, BfcApiLevel: %d\n", fileApiLevel, bfcApiLevel)
		os.Exit(100)
	}
	if len(outputFileName) == 0 {
		if len(ofName) > 0 {
			var err error
			outputFileName = ofName
			fout, err = os.Create(ofName)
			checkError(err)
		}
	}
	var aRdr *io.PipeReader
	if usePem {
		aRdr = pRdr
	} else if useASCII85 {
		aRdr = ascii85.FromASCII85(lines.CombineLines(bRdr))
	} else {
		aRdr = fromBinaryHelper(bRdr)
	}
	var plainRdr *io.PipeReader = decipherHelper(aRdr)
	if compression {
		plainRdr = flate.FromFlate(plainRdr)
	}
	_, err = io.Copy(fout, plainRdr)
	checkError(err)
	wg.Wait() // Wait for the decryption pipeline to finish its clean up.
	log.Info().Str("output", outputFileName).Msg("decryption complete")
}

// decryptRaw reads headerless ciphertext via the file codec.
func decryptRaw() {
	if len(inputFileName) == 0 || inputFileName == "-" || outputFileName == "-" {
		cobra.CheckErr("raw mode requires input and output file names")
	}
	if len(outputFileName) == 0 {
		if !strings.HasSuffix(inputFileName, encryptedExtension) {
			cobra.CheckErr("cannot derive an output file name; use -o")
		}
		outputFileName = inputFileName[:len(inputFileName)-len(encryptedExtension)]
	}
	cobra.CheckErr(coder.DecryptFile(inputFileName, outputFileName))
	log.Info().Str("output", outputFileName).Msg("decryption complete")
}

// readHeaderFields reads the +BFC header line and splits it into its
// fields.  Empty input, a headerless file with no newline, or a line
// that is not a well-formed header all yield errNotEncrypted; the
// ReadString error cannot simply be ignored here because an empty
// line carries no header to slice apart.
func readHeaderFields(bRdr *bufio.Reader) ([]string, error) {
	line, err := bRdr.ReadString('\n')
	if err != nil || len(line) == 0 {
		return nil, errNotEncrypted
	}
	fields := strings.Split(line[:len(line)-1], "|")
	if len(fields) != 5 || fields[0] != "+BFC" {
		return nil, errNotEncrypted
	}
	return fields, nil
}

// decipherHelper decrypts the data read from rdr, making the
// plaintext available through the returned PipeReader.
func decipherHelper(rdr io.Reader) *io.PipeReader {
	rRdr, rWrtr := io.Pipe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer rWrtr.Close()
		checkError(coder.DecryptStream(rWrtr, rdr))
	}()
	return rRdr
}
