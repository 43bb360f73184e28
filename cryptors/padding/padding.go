// padding

// Package padding aligns messages to whole blocks and ciphertexts to legal
// Base64 lengths.
//
// Block padding works like PKCS#7 with the key standing in for byte values:
// n pad symbols are added, each being the symbol at sequence address n.  At
// least one symbol is always added.  The length is then grown until the
// ciphertext (IV included) is a whole number of blocks whose length is not 1
// more than a multiple of 4, a remainder Base64 "=" padding cannot fix.
package padding

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"

	"github.com/bgallie/hexafid/cryptors"
)

// Length returns the number of pad symbols Pad adds to a message of msgLen
// symbols.
func Length(msgLen, period int, withIV bool) int {
	ivLength := 0
	if withIV {
		ivLength = period
	}

	padLength := ((period-msgLen)%period + period) % period
	if padLength == 0 {
		padLength = period
	}

	for {
		total := ivLength + msgLen + padLength
		if total%period == 0 && total%4 != 1 {
			break
		}
		padLength++
	}

	return padLength
}

// Pad appends the block padding to msg.  withIV is set for modes that put the
// IV in front of the ciphertext.
func Pad(msg []byte, period int, seq cryptors.Sequencer, withIV bool) ([]byte, error) {
	padLength := Length(len(msg), period, withIV)
	if padLength > cryptors.SymbolCount {
		return nil, errors.Wrapf(cryptors.ErrPadLength, "%d pad symbols needed for period %d", padLength, period)
	}

	padded := make([]byte, 0, len(msg)+padLength)
	padded = append(padded, msg...)
	padded = append(padded, bytes.Repeat([]byte{seq.Decode(padLength)}, padLength)...)

	return padded, nil
}

// Unpad removes as many symbols as the sequence address of the last symbol.
// The pad symbols themselves are not checked, so a damaged ciphertext is
// trimmed wrongly instead of being reported; this keeps decryption from
// acting as a padding oracle.  A pad longer than the text is counted back
// from the end a second time; past that the result is empty.
func Unpad(plaintext []byte, seq cryptors.Sequencer) []byte {
	if len(plaintext) == 0 {
		return plaintext
	}

	keep := len(plaintext) - seq.Encode(plaintext[len(plaintext)-1])
	if keep < 0 {
		keep += len(plaintext)
	}
	if keep < 0 {
		keep = 0
	}

	return plaintext[:keep]
}

// AddBase64 pads msg with "=" to a multiple of 4 characters.
func AddBase64(msg string) string {
	switch len(msg) % 4 {
	case 1: // never produced by Pad (RFC 4648)
		return msg + "==="
	case 2:
		return msg + "=="
	case 3:
		return msg + "="
	}
	return msg
}

// RemoveBase64 strips all "=" padding from msg.
func RemoveBase64(msg string) string {
	return strings.ReplaceAll(msg, "=", "")
}
