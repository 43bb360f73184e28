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
	"os"

	"github.com/bgallie/hexafid/keygen"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	randomKey bool
	newIV     bool
	showCells bool
)

// keygenCmd represents the keygen command
var keygenCmd = &cobra.Command{
	Use:   "keygen [password]",
	Short: "Generate a Hexafid key or IV",
	Long: `Generate a Hexafid key from a password, or a random key or IV.
The key is printed in sequence order; --square also prints it laid out in
the 8x8 key square for working the cipher by hand.`,
	Run: func(cmd *cobra.Command, args []string) {
		keyGen(args)
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().BoolVar(&randomKey, "random", false, "generate a random key")
	keygenCmd.Flags().BoolVar(&newIV, "newIV", false, "generate a random IV of one period")
	keygenCmd.Flags().BoolVar(&showCells, "square", false, "also print the key square")
}

func keyGen(args []string) {
	if newIV {
		iv, err := keygen.NewIV(viper.GetInt("period"))
		cobra.CheckErr(err)
		fmt.Println(iv)
		return
	}

	var key string
	var err error
	if randomKey {
		key, err = keygen.Random()
		cobra.CheckErr(err)
	} else {
		key = getKey(args)
	}

	fmt.Println(key)
	if verbose {
		fmt.Fprintln(os.Stderr, "Key fingerprint:", keygen.Fingerprint(key))
	}
	if showCells {
		// the key is written into the square row by row
		for row := 0; row < len(key); row += 8 {
			fmt.Println(key[row : row+8])
		}
	}
}
