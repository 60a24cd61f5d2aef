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
	"fmt"
	"io"
	"strconv"

	"github.com/bgallie/filters/ascii85"
	"github.com/bgallie/filters/flate"
	"github.com/bgallie/filters/lines"
	"github.com/bgallie/filters/pem"
	"github.com/spf13/cobra"
)

var (
	useASCII85  bool
	usePem      bool
	useBinary   bool
	useRaw      bool
	compression bool
	headerLine  string
)

// bfcApiLevel is the header format version.  Decrypt refuses files
// written at a different level.
const bfcApiLevel = 1

// encryptCmd represents the encrypt command
var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt plaintext using Blowfish",
	Long:  `Encrypt a file (or stdin) with the Blowfish block cipher, keyed from the passphrase.`,
	Run: func(cmd *cobra.Command, args []string) {
		useBinary = !(useASCII85 || usePem)
		encrypt(args)
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
	encryptCmd.Flags().BoolVarP(&useASCII85, "useASCII85", "a", false, "use ASCII85 encoding")
	encryptCmd.Flags().BoolVarP(&usePem, "usePem", "p", false, "use PEM encoding.")
	encryptCmd.Flags().BoolVarP(&compression, "compress", "c", false, "compress input file using flate")
	encryptCmd.Flags().BoolVarP(&useRaw, "raw", "r", false, `write raw ciphertext with no header or encoding
Raw mode requires real input and output file names and stages the output in a
temporary file, renaming it into place only on success.`)
}

func encrypt(args []string) {
	initCoder(args)
	if useRaw {
		encryptRaw()
		return
	}
	fin, fout := getInputAndOutputFiles(true)
	var blck pem.Block
	if usePem {
		blck.Headers = make(map[string]string)
		blck.Type = "BFCRYPT ENCRYPTED MESSAGE"
		if len(inputFileName) > 0 && inputFileName != "-" {
			blck.Headers["FileName"] = inputFileName
		}
		blck.Headers["Compression"] = fmt.Sprintf("%v", compression)
		blck.Headers["ApiLevel"] = strconv.Itoa(bfcApiLevel)
	} else {
		headerLine = fmt.Sprintf("+BFC|%d|", bfcApiLevel)
		if len(inputFileName) > 0 && inputFileName != "-" {
			headerLine += inputFileName
		}
		if useASCII85 {
			headerLine += "|a"
		} else {
			headerLine += "|b"
		}
		headerLine += fmt.Sprintf("|%v\n", compression)
		fout.WriteString(headerLine)
	}
	var encIn *io.PipeReader
	if compression {
		encIn = cipherHelper(flate.ToFlate(fin))
	} else {
		encIn = cipherHelper(fin)
	}
	defer fout.Close()
	var err error
	bRdr := bufio.NewReader(encIn)
	if useBinary {
		_, err = io.Copy(fout, bRdr)
	} else if useASCII85 {
		_, err = io.Copy(fout, lines.SplitToLines(ascii85.ToASCII85(bRdr)))
	} else {
		_, err = io.Copy(fout, pem.ToPem(bRdr, blck))
	}
	checkError(err)
	wg.Wait()
	log.Info().Str("output", outputFileName).Msg("encryption complete")
}

// encryptRaw writes headerless ciphertext via the file codec, which
// stages the output and renames it into place only on success.
func encryptRaw() {
	if len(inputFileName) == 0 || inputFileName == "-" || outputFileName == "-" {
		cobra.CheckErr("raw mode requires input and output file names")
	}
	if len(outputFileName) == 0 {
		outputFileName = inputFileName + encryptedExtension
	}
	cobra.CheckErr(coder.EncryptFile(inputFileName, outputFileName))
	log.Info().Str("output", outputFileName).Msg("encryption complete")
}

// cipherHelper encrypts the data read from rdr, making the ciphertext
// available through the returned PipeReader.
func cipherHelper(rdr io.Reader) *io.PipeReader {
	rRdr, rWrtr := io.Pipe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer rWrtr.Close()
		checkError(coder.EncryptStream(rWrtr, rdr))
	}()
	return rRdr
}
