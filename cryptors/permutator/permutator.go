// permutator project permutator.go
package permutator

import (
	"bytes"
	"fmt"

	"github.com/bgallie/hexafid/cryptors"
	"github.com/bgallie/hexafid/cryptors/bitops"
	"github.com/bgallie/hexafid/cryptors/keysquare"
	"github.com/bgallie/hexafid/cryptors/schedule"
)

// Permutator is one Hexafid round.  A block is fractionated into the
// quadresses of its symbols, the quadresses are read out column by column
// (the columnar transposition) and the resulting bit string is turned back
// into symbols through the same quadress table.
type Permutator struct {
	period   int
	quadress *keysquare.QuadressTable
	bitPerm  []int // bit i of the fractionated block moves to bitPerm[i]
}

// New creates the round that uses rk on blocks of period symbols.
func New(rk schedule.RoundKey, period int) *Permutator {
	var p Permutator
	p.period = period
	p.quadress = rk.Quadress
	p.bitPerm = transposition(period)
	return &p
}

// NewRounds creates one Permutator per round key, in round order.
func NewRounds(ks schedule.Keyset, period int) []cryptors.Crypter {
	rounds := make([]cryptors.Crypter, len(ks))
	for r, rk := range ks {
		rounds[r] = New(rk, period)
	}
	return rounds
}

// transposition maps bit b of symbol j to position b*n + j: the first bit of
// every symbol, then the second bit of every symbol, and so on.
func transposition(n int) []int {
	perm := make([]int, n*cryptors.BitsPerSymbol)
	for j := 0; j < n; j++ {
		for b := 0; b < cryptors.BitsPerSymbol; b++ {
			perm[j*cryptors.BitsPerSymbol+b] = b*n + j
		}
	}
	return perm
}

func (p *Permutator) permFor(n int) []int {
	if n == p.period {
		return p.bitPerm
	}
	return transposition(n)
}

// fractionate packs the quadress of every symbol of blk into a bit buffer.
func (p *Permutator) fractionate(blk []byte) []byte {
	bits := make([]byte, bitops.Bytes(len(blk)*cryptors.BitsPerSymbol))
	for j, c := range blk {
		bitops.PutBits(bits, uint(j*cryptors.BitsPerSymbol), p.quadress.Encode(c), cryptors.BitsPerSymbol)
	}
	return bits
}

// reassemble reads n quadresses back out of bits as symbols.
func (p *Permutator) reassemble(bits []byte, n int) []byte {
	blk := make([]byte, n)
	for j := range blk {
		blk[j] = p.quadress.Decode(bitops.GetBits(bits, uint(j*cryptors.BitsPerSymbol), cryptors.BitsPerSymbol))
	}
	return blk
}

func (p *Permutator) Apply_F(blk []byte) []byte {
	src := p.fractionate(blk)
	res := make([]byte, len(src))

	for i, v := range p.permFor(len(blk)) {
		if bitops.GetBit(src, uint(i)) {
			bitops.SetBit(res, uint(v))
		}
	}

	return p.reassemble(res, len(blk))
}

func (p *Permutator) Apply_G(blk []byte) []byte {
	src := p.fractionate(blk)
	res := make([]byte, len(src))

	for i, v := range p.permFor(len(blk)) {
		if bitops.GetBit(src, uint(v)) {
			bitops.SetBit(res, uint(i))
		}
	}

	return p.reassemble(res, len(blk))
}

func (p *Permutator) String() string {
	var output bytes.Buffer
	output.WriteString(fmt.Sprintf("\tPeriod(%d)\n", p.period))
	output.WriteString(fmt.Sprintf("\tQuadress(%q)\n", p.quadress.Key()))
	output.WriteString("\tBitPerm([...]int{")

	for i, k := range p.bitPerm {
		if i != 0 {
			output.WriteString(", ")
		}
		output.WriteString(fmt.Sprintf("%d", k))
	}

	output.WriteString("})\n")
	return output.String()
}
