// Package engine is the Hexafid encrypt/decrypt front end.  It validates the
// inputs, prepares the message, pads it into blocks and hands the blocks to
// the selected block cipher mode.
package engine

import (
	"bytes"
	"encoding/base64"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/bgallie/hexafid/cryptors"
	"github.com/bgallie/hexafid/cryptors/keysquare"
	"github.com/bgallie/hexafid/cryptors/modes"
	"github.com/bgallie/hexafid/cryptors/padding"
	"github.com/bgallie/hexafid/cryptors/permutator"
	"github.com/bgallie/hexafid/cryptors/schedule"
)

// Options selects how messages are enciphered.
type Options struct {
	Mode      string // ECB, CBC or CTR
	Period    int    // block size in symbols
	Rounds    int    // round function iterations
	Separator bool   // replace whitespace runs with "/" instead of dropping them
	Preserve  bool   // Base64 encode the message first so every byte survives
}

// Engine is a keyed Hexafid instance.  The round keys are built once by New;
// an Engine is read only afterwards and safe for concurrent use.
type Engine struct {
	key      string
	opts     Options
	mode     modes.Mode
	keyset   schedule.Keyset
	sequence *keysquare.SequenceTable
	cipher   *modes.Cipher
	logger   *log.Logger
}

// New validates key and opts and builds the round keys.
func New(key string, opts Options) (*Engine, error) {
	if !cryptors.ValidKey(key) {
		return nil, cryptors.ErrKey
	}
	if opts.Period < 1 {
		return nil, errors.Wrapf(cryptors.ErrPeriod, "period %d", opts.Period)
	}
	if opts.Rounds < 1 {
		return nil, errors.Wrapf(cryptors.ErrRounds, "rounds %d", opts.Rounds)
	}

	mode, err := modes.ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		key:      key,
		opts:     opts,
		mode:     mode,
		keyset:   schedule.Setup(key, opts.Rounds),
		sequence: keysquare.NewSequenceTable(key),
	}
	e.cipher = &modes.Cipher{
		Rounds:   permutator.NewRounds(e.keyset, opts.Period),
		Sequence: e.sequence,
		Period:   opts.Period,
	}

	return e, nil
}

// SetLogger turns on verbose tracing to l.  A nil logger turns it off.
func (e *Engine) SetLogger(l *log.Logger) {
	e.logger = l
	if l == nil {
		return
	}
	for r, rk := range e.keyset {
		e.logf("round key %d: %s", r, rk)
	}
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// Keyset returns the round keys.
func (e *Engine) Keyset() schedule.Keyset {
	return e.keyset
}

// Mode returns the block cipher mode in use.
func (e *Engine) Mode() modes.Mode {
	return e.mode
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Encrypt enciphers message.  iv is required by CBC and CTR and ignored by
// ECB.  The result is Base64 padded.
func (e *Engine) Encrypt(message, iv string) (string, error) {
	if e.mode.RequiresIV() && !cryptors.ValidIV(iv, e.opts.Period) {
		return "", errors.Wrapf(cryptors.ErrIV, "the IV must be %d symbols long", e.opts.Period)
	}

	if e.opts.Preserve {
		message = base64.StdEncoding.EncodeToString([]byte(message))
	}

	plaintext := PrepareMessage(message, e.opts.Separator)
	padded, err := padding.Pad([]byte(plaintext), e.opts.Period, e.sequence, e.mode.RequiresIV())
	if err != nil {
		return "", err
	}
	e.logf("%s: %d symbols padded to %d", e.mode.Name(), len(plaintext), len(padded))

	blocks := Blocks(padded, e.opts.Period)
	ciphertext, err := e.mode.Encrypt(e.cipher, blocks, []byte(iv))
	if err != nil {
		return "", err
	}
	e.logf("%s: %d plaintext blocks, %d ciphertext blocks", e.mode.Name(), len(blocks), len(ciphertext))

	return padding.AddBase64(string(bytes.Join(ciphertext, nil))), nil
}

// Decrypt reverses Encrypt.  Whitespace in ciphertext is ignored.
func (e *Engine) Decrypt(ciphertext string) (string, error) {
	ciphertext = strings.Join(strings.Fields(ciphertext), "")
	if !cryptors.ValidCiphertext(ciphertext, e.opts.Period, e.mode.RequiresIV()) {
		return "", errors.Wrapf(cryptors.ErrCiphertext, "%d characters with period %d", len(ciphertext), e.opts.Period)
	}

	symbols := stripSymbols(ciphertext)
	if len(symbols)%e.opts.Period != 0 {
		return "", errors.Wrapf(cryptors.ErrCiphertext, "%d symbols is not a whole number of blocks", len(symbols))
	}

	blocks := Blocks([]byte(symbols), e.opts.Period)
	plaintext, err := e.mode.Decrypt(e.cipher, blocks)
	if err != nil {
		return "", err
	}
	e.logf("%s: %d ciphertext blocks, %d plaintext blocks", e.mode.Name(), len(blocks), len(plaintext))

	message := string(padding.Unpad(bytes.Join(plaintext, nil), e.sequence))

	if e.opts.Preserve {
		raw, err := base64.StdEncoding.DecodeString(padding.AddBase64(message))
		if err != nil {
			return "", errors.Wrap(cryptors.ErrPreserve, err.Error())
		}
		message = string(raw)
	}

	return message, nil
}

// Encrypt is a one shot Encrypt with a new Engine.
func Encrypt(message, key, iv string, opts Options) (string, error) {
	e, err := New(key, opts)
	if err != nil {
		return "", err
	}
	return e.Encrypt(message, iv)
}

// Decrypt is a one shot Decrypt with a new Engine.
func Decrypt(ciphertext, key string, opts Options) (string, error) {
	e, err := New(key, opts)
	if err != nil {
		return "", err
	}
	return e.Decrypt(ciphertext)
}

// PrepareMessage replaces whitespace runs with "/" when separator is set,
// drops them otherwise, and removes everything outside the Base64 symbol set.
func PrepareMessage(message string, separator bool) string {
	joiner := ""
	if separator {
		joiner = "/"
	}
	return stripSymbols(strings.Join(strings.Fields(message), joiner))
}

func stripSymbols(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if cryptors.IsSymbol(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Blocks splits s into period sized blocks.  The last block is short if s is
// not a whole number of blocks.
func Blocks(s []byte, period int) [][]byte {
	blocks := make([][]byte, 0, (len(s)+period-1)/period)
	for i := 0; i < len(s); i += period {
		end := i + period
		if end > len(s) {
			end = len(s)
		}
		blocks = append(blocks, s[i:end])
	}
	return blocks
}
