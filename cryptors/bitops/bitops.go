// bitops project bitops.go
package bitops

// Bits are numbered from the most significant bit of ary[0], so a packed
// buffer reads left to right like the bit strings it replaces.

// Bytes returns the number of bytes needed to hold n bits.
func Bytes(n int) int {
	return (n + 7) >> 3
}

func SetBit(ary []byte, bit uint) []byte {
	ary[bit>>3] |= 0x80 >> (bit & 7)
	return ary
}

func ClrBit(ary []byte, bit uint) []byte {
	ary[bit>>3] &= ^byte(0x80 >> (bit & 7))
	return ary
}

func GetBit(ary []byte, bit uint) bool {
	return ary[bit>>3]&(0x80>>(bit&7)) != 0
}

// PutBits stores the low width bits of v at bit offset start, high bit first.
func PutBits(ary []byte, start uint, v uint8, width uint) []byte {
	for i := uint(0); i < width; i++ {
		if v&(1<<(width-1-i)) != 0 {
			SetBit(ary, start+i)
		} else {
			ClrBit(ary, start+i)
		}
	}
	return ary
}

// GetBits reads width bits at bit offset start, high bit first.
func GetBits(ary []byte, start uint, width uint) uint8 {
	var v uint8
	for i := uint(0); i < width; i++ {
		v <<= 1
		if GetBit(ary, start+i) {
			v |= 1
		}
	}
	return v
}
