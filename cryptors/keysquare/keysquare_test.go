package keysquare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgallie/hexafid/cryptors"
)

const passwordKey = "MyPasword123ABCDEFGHIJKLNOQRSTUVWXYZbcefghijklmnpqtuvxz0456789+/"

func TestSequenceLayout(t *testing.T) {
	assert.Equal(t, "ABJICDLKSTbaQRZYEFNMGHPOWXfeUVdckltsmnvu23/+0198ghpoijrqyz76wx54",
		SequenceLayout(cryptors.Symbols))

	for _, key := range []string{cryptors.Symbols, passwordKey} {
		assert.Equal(t, key, QuadressLayout(SequenceLayout(key)))
		assert.Equal(t, key, SequenceLayout(QuadressLayout(key)))
		assert.True(t, cryptors.ValidKey(SequenceLayout(key)))
	}
}

func TestWrap(t *testing.T) {
	tests := map[int]int{
		1:   1,
		42:  42,
		63:  63,
		64:  64,
		65:  1,
		128: 64,
		0:   64,
		-1:  63,
		-64: 64,
		-65: 63,
	}
	for in, want := range tests {
		assert.Equal(t, want, Wrap(in), "Wrap(%d)", in)
	}
}

func TestSequenceTable(t *testing.T) {
	s := NewSequenceTable(cryptors.Symbols)
	assert.Equal(t, 1, s.Encode('A'))
	assert.Equal(t, 64, s.Encode('/'))
	assert.Equal(t, byte('/'), s.Decode(0))
	assert.Equal(t, byte('A'), s.Decode(65))
	assert.Equal(t, byte('+'), s.Decode(-1))
	assert.Equal(t, cryptors.Symbols, s.Key())

	p := NewSequenceTable(passwordKey)
	for i := 0; i < len(passwordKey); i++ {
		c := passwordKey[i]
		require.Equal(t, i+1, p.Encode(c))
		require.Equal(t, c, p.Decode(p.Encode(c)))
	}
}

func TestQuadressTable(t *testing.T) {
	q := NewQuadressTable(cryptors.Symbols)
	assert.Equal(t, uint8(0), q.Encode('A'))
	assert.Equal(t, uint8(1), q.Encode('B'))
	assert.Equal(t, byte('J'), q.Decode(2))
	assert.Equal(t, "000010", q.Quadress('J'))
	assert.Equal(t, "111111", q.Quadress('4'))
	assert.Equal(t, SequenceLayout(cryptors.Symbols), q.Key())

	for c := 0; c < 256; c++ {
		if cryptors.IsSymbol(byte(c)) {
			require.Equal(t, byte(c), q.Decode(q.Encode(byte(c))))
		}
	}
}

func TestQuadressTableOrdered(t *testing.T) {
	q := NewQuadressTableOrdered(passwordKey)
	assert.Equal(t, passwordKey, q.Key())
	assert.Equal(t, uint8(0), q.Encode('M'))
	assert.Equal(t, byte('/'), q.Decode(63))
	assert.Equal(t, byte('M'), q.Decode(64), "quadresses are 6 bits")
}
