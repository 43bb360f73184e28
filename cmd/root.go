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
	"encoding/gob"
	"fmt"
	"io"
	"log"
	"os"
	"os/user"
	"strings"
	"sync"

	"github.com/bgallie/hexafid/engine"
	"github.com/bgallie/hexafid/keygen"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spf13/viper"
)

var (
	cfgFile        string
	hexafidEngine  *engine.Engine
	keyPrint       string
	ivMap          map[string][]string
	ledgerFileName string
	inputFileName  string
	outputFileName string
	verbose        bool
	wg             sync.WaitGroup
	GitCommit      string = "not set"
	GitBranch      string = "not set"
	GitState       string = "not set"
	GitSummary     string = "not set"
	BuildDate      string = "not set"
	Version        string = "dev"
)

const (
	hexafidLedgerFile = ".hexafid"
	hexafidSuffix     = ".hxf"
	hexafidApiLevel   = 1
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "hexafid",
	Short:   "A hexagesimal fractionating block cipher",
	Long:    `hexafid encrypts/decrypts text with Hexafid, a fractionating transposition block cipher over the 64 Base64 symbols that can also be worked by hand.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hexafid.yaml)")
	pf.StringVarP(&inputFileName, "inputFile", "i", "-", "Name of the plaintext file to encrypt/decrypt.")
	pf.StringVarP(&outputFileName, "outputFile", "o", "", "Name of the file containing the encrypted/decrypted plaintext.")
	pf.BoolVarP(&verbose, "verbose", "v", false, "trace the key schedule and block processing on stderr")
	pf.String("key", "", "the 64 symbol key (overrides the password)")
	pf.StringP("mode", "m", "CBC", "block cipher mode: ECB, CBC or CTR")
	pf.IntP("period", "P", 10, "block size in symbols")
	pf.IntP("rounds", "r", 16, "number of rounds")
	pf.BoolP("separator", "s", false, `replace whitespace with "/" instead of removing it`)
	pf.Bool("preserve", true, "Base64 encode the message first so case, punctuation and spacing survive")
	pf.String("direction", "forward", "order of the unused symbols in a password key: forward or reverse")
	pf.Bool("kdf", false, "derive the key from the password with Argon2id")

	for _, name := range []string{"key", "mode", "period", "rounds", "separator", "preserve", "direction", "kdf"} {
		cobra.CheckErr(viper.BindPFlag(name, pf.Lookup(name)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".hexafid" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hexafid")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// Get the IV ledger file name based on the current user.
	u, err := user.Current()
	cobra.CheckErr(err)
	ledgerFileName = fmt.Sprintf("%s%c%s", u.HomeDir, os.PathSeparator, hexafidLedgerFile)
}

// getKey returns the key to use.  A raw key comes from the --key flag or
// the 'HEXAFID_KEY' environment variable.  Otherwise a password is obtained
// from either:
// 1. User input from the terminal (most secure)
// 2. The 'HEXAFID_SECRET' environment variable (less secure)
// 3. Arguments from the entered command line (least secure - not recommended)
// and turned into a key.
func getKey(args []string) string {
	if key := viper.GetString("key"); len(key) > 0 {
		return key
	}
	if viper.IsSet("HEXAFID_KEY") {
		return viper.GetString("HEXAFID_KEY")
	}

	var secret string
	if len(args) == 0 {
		if viper.IsSet("HEXAFID_SECRET") {
			secret = viper.GetString("HEXAFID_SECRET")
		} else {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Fprintf(os.Stderr, "Enter the passphrase: ")
				byteSecret, err := term.ReadPassword(int(os.Stdin.Fd()))
				cobra.CheckErr(err)
				fmt.Fprintln(os.Stderr, "")
				secret = string(byteSecret)
			}
		}
	} else {
		secret = strings.Join(args, " ")
	}

	if len(secret) == 0 {
		cobra.CheckErr("You must supply a password.")
	}

	dir, err := keygen.ParseDirection(viper.GetString("direction"))
	cobra.CheckErr(err)
	key, err := keygen.FromPassword(secret, dir, viper.GetBool("kdf"))
	cobra.CheckErr(err)
	return key
}

// engineOptions collects the cipher settings from flags, the config file and
// the environment.
func engineOptions() engine.Options {
	return engine.Options{
		Mode:      viper.GetString("mode"),
		Period:    viper.GetInt("period"),
		Rounds:    viper.GetInt("rounds"),
		Separator: viper.GetBool("separator"),
		Preserve:  viper.GetBool("preserve"),
	}
}

func initEngine(args []string) {
	key := getKey(args)
	var err error
	hexafidEngine, err = engine.New(key, engineOptions())
	cobra.CheckErr(err)
	keyPrint = keygen.Fingerprint(key)

	if verbose {
		hexafidEngine.SetLogger(log.New(os.Stderr, "hexafid: ", 0))
		fmt.Fprintln(os.Stderr, "Key fingerprint:", keyPrint)
	}
}

/*
	getInputAndOutputFiles will return the input and output files to use while
	encrypting/decrypting data.  If input and/or output files names were given,
	then those files will be opened.  Otherwise stdin and stdout are used.
*/
func getInputAndOutputFiles(encode bool) (*os.File, *os.File) {
	var fin *os.File
	var err error

	if len(inputFileName) > 0 {
		if inputFileName == "-" {
			fin = os.Stdin
		} else {
			fin, err = os.Open(inputFileName)
			cobra.CheckErr(err)
		}
	} else {
		fin = os.Stdin
	}

	var fout *os.File

	if len(outputFileName) > 0 {
		if outputFileName == "-" {
			fout = os.Stdout
		} else {
			fout, err = os.Create(outputFileName)
			cobra.CheckErr(err)
		}
	} else if inputFileName == "-" {
		fout = os.Stdout
	} else if encode {
		outputFileName = inputFileName + hexafidSuffix
		fout, err = os.Create(outputFileName)
		cobra.CheckErr(err)
	} else {
		if strings.HasSuffix(inputFileName, hexafidSuffix) {
			outputFileName = inputFileName[:len(inputFileName)-len(hexafidSuffix)]
			fout, err = os.Create(outputFileName)
			cobra.CheckErr(err)
		} else {
			fout = os.Stdout
		}
	}

	return fin, fout
}

// toPipe injects rdr into the pipe stream used by the filters.  The data
// can be read using the returned PipeReader.
func toPipe(rdr io.Reader) *io.PipeReader {
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

// checkError checks for error that are not io.EOF and io.ErrUnexpectedEOF and logs them.
func checkError(e error) {
	if e != io.EOF && e != io.ErrUnexpectedEOF {
		cobra.CheckErr(e)
	}
}

// readLedgerFile reads the IVs already used with each key, by key
// fingerprint.
func readLedgerFile(defaultMap map[string][]string) map[string][]string {
	f, err := os.OpenFile(ledgerFileName, os.O_RDONLY, 0600)
	if err != nil {
		return defaultMap
	}

	defer f.Close()
	lmap := make(map[string][]string)
	dec := gob.NewDecoder(f)
	checkError(dec.Decode(&lmap))
	return lmap
}

func writeLedgerFile(wMap map[string][]string) error {
	f, err := os.OpenFile(ledgerFileName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	defer f.Close()
	enc := gob.NewEncoder(f)
	return enc.Encode(wMap)
}

// ivUsed reports whether iv is already recorded for the key.
func ivUsed(iv string) bool {
	for _, used := range ivMap[keyPrint] {
		if used == iv {
			return true
		}
	}
	return false
}
