// Package keygen produces Hexafid keys and IVs.  A key is a permutation of
// the 64 Base64 symbols; an IV is one block of random symbols.
package keygen

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/sha3"

	"github.com/bgallie/hexafid/cryptors"
)

// Direction is the order the unused symbols follow the password in.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// Salt is the fixed Argon2 salt for password keys, so the same password
// always gives the same key.
const Salt = "hexafid key square"

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// ParseDirection accepts "forward" or "reverse".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forward":
		return Forward, nil
	case "reverse":
		return Reverse, nil
	}
	return Forward, errors.Errorf("unknown key direction %q", s)
}

// FromPassword turns a password into a key.  Without kdf the key is the
// password's symbols, each first occurrence only, followed by the unused
// symbols in forward or reverse order; it can be written out with pen and
// paper.  With kdf the symbol set is shuffled by a SHAKE-256 stream keyed
// with an Argon2id hash of the password, and dir reverses the result.
func FromPassword(password string, dir Direction, kdf bool) (string, error) {
	if len(password) == 0 {
		return "", errors.New("you must supply a password")
	}

	if kdf {
		seed := argon2.IDKey([]byte(password), []byte(Salt), 1, 64*1024, 4, 32)
		shake := sha3.NewShake256()
		_, _ = shake.Write(seed)
		key, err := shuffle(shake)
		if err != nil {
			return "", err
		}
		if dir == Reverse {
			key = reverse(key)
		}
		return key, nil
	}

	var used [256]bool
	var head, tail []byte
	for i := 0; i < len(password); i++ {
		c := password[i]
		if cryptors.IsSymbol(c) && !used[c] {
			used[c] = true
			head = append(head, c)
		}
	}
	for i := 0; i < cryptors.SymbolCount; i++ {
		if !used[cryptors.Symbols[i]] {
			tail = append(tail, cryptors.Symbols[i])
		}
	}
	if dir == Reverse {
		tail = []byte(reverse(string(tail)))
	}

	return string(head) + string(tail), nil
}

// Random returns a key drawn from crypto/rand.
func Random() (string, error) {
	return shuffle(rand.Reader)
}

// NewIV returns period random symbols.
func NewIV(period int) (string, error) {
	if period < 1 {
		return "", errors.Wrapf(cryptors.ErrPeriod, "period %d", period)
	}

	b := make([]byte, period)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", errors.Wrap(err, "reading random IV")
	}
	for i := range b {
		b[i] = cryptors.Symbols[b[i]&0x3F]
	}

	return string(b), nil
}

// Fingerprint identifies a key without revealing it.
func Fingerprint(key string) string {
	sum := sha3.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

// shuffle is a Fisher-Yates shuffle of the symbol set driven by rdr.
func shuffle(rdr io.Reader) (string, error) {
	key := []byte(cryptors.Symbols)
	for i := len(key) - 1; i > 0; i-- {
		j, err := uniform(rdr, i+1)
		if err != nil {
			return "", err
		}
		key[i], key[j] = key[j], key[i]
	}
	return string(key), nil
}

// uniform returns an unbiased value in [0, n) for n <= 256.
func uniform(rdr io.Reader, n int) (int, error) {
	limit := 256 - 256%n
	var b [1]byte
	for {
		if _, err := io.ReadFull(rdr, b[:]); err != nil {
			return 0, errors.Wrap(err, "reading key material")
		}
		if int(b[0]) < limit {
			return int(b[0]) % n, nil
		}
	}
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
