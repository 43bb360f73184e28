/*
Copyright © 2021 Billy G. Allie <bill.allie@defiant.mug.org>

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
	"fmt"
	"io"
	"os"

	"github.com/bgallie/hexafid/cryptors"
	"github.com/bgallie/hexafid/keygen"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	useASCII85  bool
	usePem      bool
	useRaw      bool
	compression bool
	ivArg       string
)

// encryptCmd represents the encrypt command
var encryptCmd = &cobra.Command{
	Use:   "encrypt [password]",
	Short: "Encrypt plaintext using Hexafid",
	Long: `Encrypt plaintext using the Hexafid block cipher.
The plaintext is read from the input file or from a piped stdin.`,
	Run: func(cmd *cobra.Command, args []string) {
		encrypt(args)
	},
}

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:        "encode [password]",
	Short:      "Encode plaintext using Hexafid",
	Long:       `[DEPRECATED] Encode plaintext using the Hexafid block cipher.`,
	Deprecated: "use \"encrypt\" instead.",
	Run: func(cmd *cobra.Command, args []string) {
		encrypt(args)
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(encodeCmd)
	for _, c := range []*cobra.Command{encryptCmd, encodeCmd} {
		c.Flags().BoolVarP(&useASCII85, "useASCII85", "a", false, "use ASCII85 encoding")
		c.Flags().BoolVarP(&usePem, "usePem", "p", false, "use PEM encoding.")
		c.Flags().BoolVarP(&useRaw, "raw", "R", false, "write only the ciphertext, without the header line")
		c.Flags().BoolVarP(&compression, "compress", "c", false, "compress input file using flate")
		c.Flags().StringVar(&ivArg, "iv", "", `initialization vector for CBC and CTR
A random IV is generated when none is given.`)
	}
}

func encrypt(args []string) {
	if compression {
		// deflated data is binary
		viper.Set("preserve", true)
	}
	initEngine(args)
	opts := hexafidEngine.Options()

	fin, fout := getInputAndOutputFiles(true)
	defer fout.Close()
	if fin == os.Stdin && (isatty.IsTerminal(fin.Fd()) || isatty.IsCygwinTerminal(fin.Fd())) {
		cobra.CheckErr("The plaintext must be piped in or named with --inputFile.")
	}

	plaintext, err := io.ReadAll(deflate(fin, compression))
	checkError(err)

	// Read in the map of IVs already used with this key and pick the IV to
	// use for this message.
	ivMap = make(map[string][]string)
	ivMap = readLedgerFile(ivMap)
	iv := chooseIV(opts.Period)

	ciphertext, err := hexafidEngine.Encrypt(string(plaintext), iv)
	cobra.CheckErr(err)

	env := newEnvelope(hexafidEngine.Mode().Name(), opts)
	env.ascii85, env.compression = useASCII85, compression
	checkError(writeEnvelope(fout, ciphertext, env, usePem, !useRaw))
	wg.Wait()

	if hexafidEngine.Mode().RequiresIV() && !ivUsed(iv) {
		ivMap[keyPrint] = append(ivMap[keyPrint], iv)
		checkError(writeLedgerFile(ivMap))
	}
}

// chooseIV returns the IV given by --iv, or a random one never used with the
// key.  Reusing an IV in CTR mode reuses the keystream, so it is refused;
// in CBC mode it only leaks equal message prefixes and is allowed with a
// warning.
func chooseIV(period int) string {
	mode := hexafidEngine.Mode()
	if !mode.RequiresIV() {
		if len(ivArg) > 0 {
			fmt.Fprintln(os.Stderr, "Ignoring the IV - ECB mode does not use one.")
		}
		return ""
	}

	if len(ivArg) > 0 {
		if ivUsed(ivArg) {
			if mode.Name() == "CTR" {
				cobra.CheckErr(errors.Wrap(cryptors.ErrIV, "the IV was already used with this key in CTR mode"))
			}
			fmt.Fprintln(os.Stderr, "Warning: the IV was already used with this key.")
		}
		return ivArg
	}

	for {
		iv, err := keygen.NewIV(period)
		cobra.CheckErr(err)
		if !ivUsed(iv) {
			return iv
		}
	}
}
