// symbols
package cryptors

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	// Symbols is the Base64 symbol set.  Keys, IVs, blocks and pad characters
	// are all drawn from it.
	Symbols        = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	SymbolCount    = len(Symbols)
	BitsPerSymbol  = 6
	KeySquareWidth = 8
	MagicNumber    = 42 // seed of the key schedule shift numbers
)

var (
	ErrKey             = errors.New("there is an error in the key or symbol set")
	ErrIV              = errors.New("there is an error in the IV or symbol set")
	ErrCiphertext      = errors.New("there is an error in the ciphertext")
	ErrMode            = errors.New("there is an error in the mode request")
	ErrCounterRollover = errors.New("counter mode roll over: a larger block size is required for this message")
	ErrPeriod          = errors.New("the period must be a positive number of characters")
	ErrRounds          = errors.New("the number of rounds must be positive")
	ErrPadLength       = errors.New("the block padding is longer than the symbol set")
	ErrPreserve        = errors.New("the decrypted text is not valid Base64")
)

var symbolIndex [256]int8

func init() {
	for i := range symbolIndex {
		symbolIndex[i] = -1
	}
	for i := 0; i < SymbolCount; i++ {
		symbolIndex[Symbols[i]] = int8(i)
	}
}

// SymbolIndex returns the 0 based position of c in Symbols, or -1.
func SymbolIndex(c byte) int {
	return int(symbolIndex[c])
}

// IsSymbol reports whether c belongs to the Base64 symbol set.
func IsSymbol(c byte) bool {
	return symbolIndex[c] >= 0
}

// ValidKey checks that key is a permutation of Symbols.
func ValidKey(key string) bool {
	if len(key) != SymbolCount {
		return false
	}

	k := []byte(key)
	sort.Slice(k, func(i, j int) bool { return k[i] < k[j] })
	s := []byte(Symbols)
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })

	return string(k) == string(s)
}

// ValidIV checks that iv is one period long and uses only Symbols.
func ValidIV(iv string, period int) bool {
	if len(iv) != period {
		return false
	}

	for i := 0; i < len(iv); i++ {
		if !IsSymbol(iv[i]) {
			return false
		}
	}

	return true
}

// ValidCiphertext checks that a ciphertext is long enough to hold an embedded
// IV (withIV) or one block, has a legal Base64 length, and holds whole blocks
// once the Base64 padding is removed.
func ValidCiphertext(msg string, period int, withIV bool) bool {
	if withIV && len(msg) <= period {
		return false
	}

	if len(msg) < period || len(msg) == 0 {
		return false
	}

	if len(msg)%4 != 0 {
		return false
	}

	return len(strings.ReplaceAll(msg, "=", ""))%period == 0
}
