package bitops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytes(t *testing.T) {
	assert.Equal(t, 0, Bytes(0))
	assert.Equal(t, 1, Bytes(6))
	assert.Equal(t, 3, Bytes(24))
	assert.Equal(t, 4, Bytes(25))
}

func TestSetClrGetBit(t *testing.T) {
	ary := make([]byte, 2)
	SetBit(ary, 0)
	SetBit(ary, 9)
	assert.Equal(t, []byte{0x80, 0x40}, ary)
	assert.True(t, GetBit(ary, 0))
	assert.False(t, GetBit(ary, 1))
	assert.True(t, GetBit(ary, 9))

	ClrBit(ary, 0)
	assert.Equal(t, []byte{0x00, 0x40}, ary)
	assert.False(t, GetBit(ary, 0))
}

func TestPutGetBits(t *testing.T) {
	ary := make([]byte, Bytes(24))
	values := []uint8{0x3F, 0x00, 0x2A, 0x15}
	for i, v := range values {
		PutBits(ary, uint(i*6), v, 6)
	}
	// 111111 000000 101010 010101
	assert.Equal(t, []byte{0xFC, 0x0A, 0x95}, ary)
	for i, v := range values {
		assert.Equal(t, v, GetBits(ary, uint(i*6), 6))
	}

	// overwriting clears the old bits
	PutBits(ary, 0, 0x01, 6)
	assert.Equal(t, uint8(0x01), GetBits(ary, 0, 6))
	assert.Equal(t, uint8(0x00), GetBits(ary, 6, 6))
}
