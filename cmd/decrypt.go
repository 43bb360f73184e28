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
	"strings"

	"github.com/spf13/cobra"
)

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt [password]",
	Short: "Decrypt a Hexafid encrypted message.",
	Long: `Decrypt a message encrypted by the Hexafid block cipher.
The cipher settings are taken from the PEM headers or the header line when
present, and from the flags or config file otherwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		decrypt(args)
	},
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:        "decode [password]",
	Short:      "Decode a Hexafid encoded message.",
	Long:       `[DEPRECATED] Decode a message encoded by the Hexafid block cipher.`,
	Deprecated: "use \"decrypt\" instead.",
	Run: func(cmd *cobra.Command, args []string) {
		decrypt(args)
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(decodeCmd)
}

func decrypt(args []string) {
	fin, fout := getInputAndOutputFiles(false)
	defer fout.Close()

	aRdr, env, err := openEnvelope(fin)
	cobra.CheckErr(err)
	if env.apiLevel != hexafidApiLevel {
		fmt.Fprintf(os.Stderr, "Error: API Level mismatch. FileApiLevel: %d, HexafidApiLevel: %d\n", env.apiLevel, hexafidApiLevel)
		os.Exit(100)
	}
	env.apply()

	ciphertext, err := io.ReadAll(aRdr)
	checkError(err)

	initEngine(args)
	plaintext, err := hexafidEngine.Decrypt(string(ciphertext))
	cobra.CheckErr(err)

	_, err = io.Copy(fout, inflate(toPipe(strings.NewReader(plaintext)), env.compression))
	checkError(err)
	wg.Wait()
}
