// schedule

// Package schedule derives the Hexafid round keys.  Each round key is the
// previous one sent through an S-box substitution, a dynamic shift of the key
// square rows and a clockwise quarter turn of the key square:
//
//	k(n) = Rotate(Shift(Substitute(k(n-1)), x(n)))
//	x(n) = (x(n-1) + x'(n-1)) mod 64
package schedule

import (
	"bytes"
	"fmt"

	"github.com/bgallie/hexafid/cryptors"
	"github.com/bgallie/hexafid/cryptors/keysquare"
)

const width = cryptors.KeySquareWidth

// SBox is the 6 bit APN s-box from FIDES (https://eprint.iacr.org/2015/424.pdf).
var SBox = [cryptors.SymbolCount]int{
	54, 0, 48, 13, 15, 18, 35, 53, 63, 25, 45, 52, 3, 20, 33, 41,
	8, 10, 57, 37, 59, 36, 34, 2, 26, 50, 58, 24, 60, 19, 14, 42,
	46, 61, 5, 49, 31, 11, 28, 4, 12, 30, 55, 22, 9, 6, 32, 23,
	27, 39, 21, 17, 16, 29, 62, 1, 40, 47, 51, 56, 7, 43, 38, 44}

// RoundKey holds the address tables used by one round and the shift number
// that produced them.
type RoundKey struct {
	Quadress    *keysquare.QuadressTable
	Sequence    *keysquare.SequenceTable
	ShiftNumber int
}

// Keyset is the ordered list of round keys for one key and round count.
// It is read only once built and may be shared between goroutines.
type Keyset []RoundKey

// Setup builds the round keys for key.  Round 0 uses key as is, so a one
// round cipher can be worked by hand.
func Setup(key string, rounds int) Keyset {
	ks := make(Keyset, 0, rounds)
	ks = append(ks, RoundKey{
		Quadress:    keysquare.NewQuadressTable(key),
		Sequence:    keysquare.NewSequenceTable(key),
		ShiftNumber: cryptors.MagicNumber,
	})

	for r := 1; r < rounds; r++ {
		ks = append(ks, Next(ks[r-1]))
	}

	return ks
}

// Next derives the round key that follows rk.
func Next(rk RoundKey) RoundKey {
	shift := nextShift(rk)
	boxed := substitute(rk.Quadress.Key())
	shifted := keysquare.NewQuadressTable(shiftRows(boxed, shift))
	rotated := rotate(shifted.Key())

	return RoundKey{
		Quadress:    keysquare.NewQuadressTableOrdered(rotated),
		Sequence:    keysquare.NewSequenceTable(rotated),
		ShiftNumber: shift,
	}
}

// nextShift adds to the shift number the base symbol set position of the
// symbol found at that sequence address.
func nextShift(rk RoundKey) int {
	pos := cryptors.SymbolIndex(rk.Sequence.Decode(rk.ShiftNumber)) + 1
	return keysquare.Wrap(rk.ShiftNumber + pos)
}

// substitute reorders the key through the s-box.  The symbol/quadress pairs
// are unchanged; only the order the key is read in moves.
func substitute(key string) string {
	out := make([]byte, len(SBox))
	for i, s := range SBox {
		out[i] = key[s]
	}
	return string(out)
}

// shiftRows rotates row i of the key square left by (shift mod 8)^i mod 8.
func shiftRows(key string, shift int) string {
	gen := shift % width
	out := make([]byte, 0, len(key))

	for row := 0; row < width; row++ {
		r := key[row*width : (row+1)*width]
		n := powMod(gen, row, width)
		out = append(out, r[n:]...)
		out = append(out, r[:n]...)
	}

	return string(out)
}

// powMod returns b^e mod m, with 0^0 == 1.
func powMod(b, e, m int) int {
	r := 1 % m
	for i := 0; i < e; i++ {
		r = r * b % m
	}
	return r
}

// rotate turns the key square 90 degrees clockwise.
func rotate(key string) string {
	out := make([]byte, len(key))
	for i := 0; i < width; i++ {
		for j := 0; j < width; j++ {
			out[i*width+j] = key[(width-1-j)*width+i]
		}
	}
	return string(out)
}

func (rk RoundKey) String() string {
	var output bytes.Buffer
	output.WriteString(fmt.Sprintf("shift %2d quadress %s sequence %s",
		rk.ShiftNumber, rk.Quadress.Key(), rk.Sequence.Key()))
	return output.String()
}
