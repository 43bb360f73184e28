// modes

// Package modes implements the ECB, CBC and CTR block cipher modes on top of
// the Hexafid rounds.  CBC and CTR send the IV in the clear as the first
// ciphertext block.
package modes

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github.com/bgallie/hexafid/cryptors"
)

// Cipher is everything a mode needs from a keyed Hexafid instance.
type Cipher struct {
	Rounds   []cryptors.Crypter // round functions, first round first
	Sequence cryptors.Sequencer // sequence addresses of the base key
	Period   int
}

// Mode interface defines the block cipher mode contract.  Encrypt returns the
// ciphertext blocks, the IV block first when RequiresIV is true.  Decrypt
// takes the blocks in that same form and returns the plaintext blocks.
type Mode interface {
	Name() string
	RequiresIV() bool
	Encrypt(c *Cipher, blocks [][]byte, iv []byte) ([][]byte, error)
	Decrypt(c *Cipher, blocks [][]byte) ([][]byte, error)
}

// ParseMode returns the Mode named ECB, CBC or CTR.  Case and surrounding
// space are ignored so config files and environment values can be loose.
func ParseMode(name string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ECB":
		return &ECBMode{}, nil
	case "CBC":
		return &CBCMode{}, nil
	case "CTR":
		return &CTRMode{}, nil
	}
	return nil, errors.Wrapf(cryptors.ErrMode, "unknown mode %q", name)
}

// ECBMode - Electronic Code Book.  Kept for compatibility with the hand
// worked field cipher; it is not semantically secure past one block.
type ECBMode struct{}

func (e *ECBMode) Name() string {
	return "ECB"
}

func (e *ECBMode) RequiresIV() bool {
	return false
}

func (e *ECBMode) Encrypt(c *Cipher, blocks [][]byte, iv []byte) ([][]byte, error) {
	left, right := cryptors.CreateEncryptMachine(c.Rounds...)
	return cryptors.RunMachine(left, right, blocks), nil
}

func (e *ECBMode) Decrypt(c *Cipher, blocks [][]byte) ([][]byte, error) {
	left, right := cryptors.CreateDecryptMachine(c.Rounds...)
	return cryptors.RunMachine(left, right, blocks), nil
}

// CBCMode - Cipher Block Chaining.  The IV must be random to keep the mode
// semantically secure against chosen plaintexts.
type CBCMode struct{}

func (m *CBCMode) Name() string {
	return "CBC"
}

func (m *CBCMode) RequiresIV() bool {
	return true
}

func (m *CBCMode) Encrypt(c *Cipher, blocks [][]byte, iv []byte) ([][]byte, error) {
	if len(iv) != c.Period {
		return nil, errors.Wrapf(cryptors.ErrIV, "IV length must be %d", c.Period)
	}

	ciphertext := make([][]byte, 0, len(blocks)+1)
	ciphertext = append(ciphertext, iv)
	previous := iv

	for _, blk := range blocks {
		out := cryptors.Encrypt(c.Rounds, cryptors.AddBlock(blk, previous, c.Sequence))
		ciphertext = append(ciphertext, out)
		previous = out
	}

	return ciphertext, nil
}

// Decrypt needs only pairs of known ciphertext blocks, so the rounds run as
// a pipeline over all blocks before the chaining is undone.
func (m *CBCMode) Decrypt(c *Cipher, blocks [][]byte) ([][]byte, error) {
	if len(blocks) < 2 {
		return nil, errors.Wrap(cryptors.ErrCiphertext, "CBC ciphertext has no block after the IV")
	}

	left, right := cryptors.CreateDecryptMachine(c.Rounds...)
	decrypted := cryptors.RunMachine(left, right, blocks[1:])
	plaintext := make([][]byte, len(decrypted))

	for i, blk := range decrypted {
		plaintext[i] = cryptors.SubBlock(blk, blocks[i], c.Sequence)
	}

	return plaintext, nil
}

// CTRMode - Counter.  The counter block is the first half of the IV (rounded
// up) followed by the block number as zero filled decimal digits.  The
// keystream always comes from the encrypting rounds.
type CTRMode struct{}

func (m *CTRMode) Name() string {
	return "CTR"
}

func (m *CTRMode) RequiresIV() bool {
	return true
}

func (m *CTRMode) Encrypt(c *Cipher, blocks [][]byte, iv []byte) ([][]byte, error) {
	if len(iv) != c.Period {
		return nil, errors.Wrapf(cryptors.ErrIV, "IV length must be %d", c.Period)
	}
	if err := CheckCounter(len(blocks), c.Period); err != nil {
		return nil, err
	}

	keystream := m.keystream(c, iv, len(blocks))
	ciphertext := make([][]byte, 0, len(blocks)+1)
	ciphertext = append(ciphertext, iv)

	for i, blk := range blocks {
		ciphertext = append(ciphertext, cryptors.AddBlock(keystream[i], blk, c.Sequence))
	}

	return ciphertext, nil
}

func (m *CTRMode) Decrypt(c *Cipher, blocks [][]byte) ([][]byte, error) {
	if len(blocks) < 2 {
		return nil, errors.Wrap(cryptors.ErrCiphertext, "CTR ciphertext has no block after the IV")
	}
	if err := CheckCounter(len(blocks)-1, c.Period); err != nil {
		return nil, err
	}

	keystream := m.keystream(c, blocks[0], len(blocks)-1)
	plaintext := make([][]byte, len(keystream))

	for i, ks := range keystream {
		plaintext[i] = cryptors.SubBlock(blocks[i+1], ks, c.Sequence)
	}

	return plaintext, nil
}

func (m *CTRMode) keystream(c *Cipher, iv []byte, n int) [][]byte {
	counters := make([][]byte, n)
	for i := range counters {
		counters[i] = CounterBlock(iv, c.Period, i)
	}

	left, right := cryptors.CreateEncryptMachine(c.Rounds...)
	return cryptors.RunMachine(left, right, counters)
}

// CounterBlock returns the nonce half of iv followed by counter as zero
// filled decimal digits.  A counter wider than the digit half makes the
// block longer than period; the keystream is then combined over the first
// period symbols only.
func CounterBlock(iv []byte, period, counter int) []byte {
	nonce := (period + 1) / 2
	blk := make([]byte, 0, period+1)
	blk = append(blk, iv[:nonce]...)
	blk = append(blk, fmt.Sprintf("%0*d", period/2, counter)...)
	return blk
}

// CounterCapacity is the largest number of blocks CTR can encrypt with one
// IV, the integer part of 10^(period/2) - 1.  For odd periods this exceeds
// the counter digits and the last counters widen the counter block.
func CounterCapacity(period int) int {
	if period >= 36 {
		return int(^uint(0) >> 1)
	}

	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(period)), nil)
	limit.Sqrt(limit)
	return int(limit.Int64()) - 1
}

// CheckCounter refuses messages whose counter would roll over and repeat the
// keystream (a two time pad).
func CheckCounter(blocks, period int) error {
	if blocks > CounterCapacity(period) {
		return errors.Wrapf(cryptors.ErrCounterRollover, "%d blocks, at most %d for period %d",
			blocks, CounterCapacity(period), period)
	}
	return nil
}
