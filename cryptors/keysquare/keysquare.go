// keysquare project keysquare.go

// Package keysquare builds the two address tables of a Hexafid key.  The key
// is an 8x8 square of the 64 Base64 symbols.  A symbol's sequence address is
// its 1..64 position in the key; its quadress is a 6 bit quadtree address made
// of three 2 bit quadrant codes (top, middle, bottom level).
package keysquare

import (
	"fmt"
	"strings"

	"github.com/bgallie/hexafid/cryptors"
)

// Quadrant codes run clockwise from the top-left cell: 00 top-left,
// 01 top-right, 10 bottom-right, 11 bottom-left.  Values are {row, column}.
var quadrants = [4][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

// cellOf[q] is the row-major cell of the key square named by quadress q.
var cellOf [cryptors.SymbolCount]int

func init() {
	for q := range cellOf {
		row, col := 0, 0
		for level := 0; level < 3; level++ {
			code := (q >> uint(4-2*level)) & 3
			row = row<<1 | quadrants[code][0]
			col = col<<1 | quadrants[code][1]
		}
		cellOf[q] = row*cryptors.KeySquareWidth + col
	}
}

// SequenceLayout reorders a key written row by row into quadress order.
func SequenceLayout(key string) string {
	var b strings.Builder
	b.Grow(len(cellOf))
	for _, cell := range cellOf {
		b.WriteByte(key[cell])
	}
	return b.String()
}

// QuadressLayout is the inverse of SequenceLayout.
func QuadressLayout(key string) string {
	out := make([]byte, len(cellOf))
	for q, cell := range cellOf {
		out[cell] = key[q]
	}
	return string(out)
}

// Wrap folds any integer onto the sequence addresses 1..64.  Sequence
// addresses are 1 based, so a multiple of 64 wraps to 64 and never to 0.
func Wrap(n int) int {
	n %= cryptors.SymbolCount
	if n <= 0 {
		n += cryptors.SymbolCount
	}
	return n
}

// SequenceTable maps symbols to 1..64 in key order.  It is never modified
// once built.
type SequenceTable struct {
	encode [256]uint8
	decode [cryptors.SymbolCount + 1]byte
}

func NewSequenceTable(key string) *SequenceTable {
	var s SequenceTable
	for i := 1; i <= cryptors.SymbolCount; i++ {
		s.decode[i] = key[i-1]
		s.encode[key[i-1]] = uint8(i)
	}
	return &s
}

// Encode returns the sequence address of c.
func (s *SequenceTable) Encode(c byte) int {
	return int(s.encode[c])
}

// Decode returns the symbol at sequence address Wrap(n).
func (s *SequenceTable) Decode(n int) byte {
	return s.decode[Wrap(n)]
}

// Key returns the symbols in sequence order.
func (s *SequenceTable) Key() string {
	return string(s.decode[1:])
}

// QuadressTable maps symbols to their 6 bit quadtree address and back.  It
// is never modified once built.
type QuadressTable struct {
	encode [256]uint8
	decode [cryptors.SymbolCount]byte
}

// NewQuadressTable lays key out in the key square row by row and reads the
// quadresses off the quadtree.
func NewQuadressTable(key string) *QuadressTable {
	return NewQuadressTableOrdered(SequenceLayout(key))
}

// NewQuadressTableOrdered assigns quadress q to order[q] directly.
func NewQuadressTableOrdered(order string) *QuadressTable {
	var t QuadressTable
	for q := 0; q < cryptors.SymbolCount; q++ {
		t.decode[q] = order[q]
		t.encode[order[q]] = uint8(q)
	}
	return &t
}

// Encode returns the quadress of c.
func (t *QuadressTable) Encode(c byte) uint8 {
	return t.encode[c]
}

// Decode returns the symbol at quadress q.
func (t *QuadressTable) Decode(q uint8) byte {
	return t.decode[q&0x3F]
}

// Key returns the symbols in quadress order (000000 first).
func (t *QuadressTable) Key() string {
	return string(t.decode[:])
}

// Quadress formats the address of c as its three quadrant codes.
func (t *QuadressTable) Quadress(c byte) string {
	return fmt.Sprintf("%06b", t.encode[c])
}
