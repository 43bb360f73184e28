package cryptors_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgallie/hexafid/cryptors"
	"github.com/bgallie/hexafid/cryptors/keysquare"
)

// shifter moves every symbol of a block n places along Symbols.
type shifter struct {
	n int
}

func (s shifter) move(blk []byte, n int) []byte {
	res := make([]byte, len(blk))
	for i, c := range blk {
		res[i] = cryptors.Symbols[(cryptors.SymbolIndex(c)+n+cryptors.SymbolCount)%cryptors.SymbolCount]
	}
	return res
}

func (s shifter) Apply_F(blk []byte) []byte { return s.move(blk, s.n) }
func (s shifter) Apply_G(blk []byte) []byte { return s.move(blk, -s.n) }

// reverser reverses a block, which does not commute with shifter.
type reverser struct{}

func (reverser) Apply_F(blk []byte) []byte {
	res := make([]byte, len(blk))
	for i, c := range blk {
		res[len(blk)-1-i] = c
	}
	return res
}

func (r reverser) Apply_G(blk []byte) []byte { return r.Apply_F(blk) }

func TestValidKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"symbols", cryptors.Symbols, true},
		{"password key", "MyPasword123ABCDEFGHIJKLNOQRSTUVWXYZbcefghijklmnpqtuvxz0456789+/", true},
		{"short", cryptors.Symbols[1:], false},
		{"duplicate", "A" + cryptors.Symbols[1:63] + "A", false},
		{"foreign symbol", cryptors.Symbols[:63] + "-", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cryptors.ValidKey(tt.key))
		})
	}
}

func TestValidIV(t *testing.T) {
	assert.True(t, cryptors.ValidIV("kLi7d", 5))
	assert.True(t, cryptors.ValidIV("Zq9+/a", 6))
	assert.False(t, cryptors.ValidIV("kLi7", 5))
	assert.False(t, cryptors.ValidIV("kLi7d!", 6))
	assert.False(t, cryptors.ValidIV("", 1))
}

func TestValidCiphertext(t *testing.T) {
	tests := []struct {
		msg    string
		period int
		withIV bool
		want   bool
	}{
		{"Aiw5AAwY", 4, false, true},
		{"Aiw5AAwY", 4, true, true},
		{"I31AsfWdyfypMMM=", 5, false, true},
		{"kLi7doFcCv9yTi7EW2cM", 5, true, true},
		{"MMpN", 4, false, true},                 // one ECB block
		{"MMpN", 4, true, false},                 // an IV and nothing else
		{"abcdef==", 6, false, true},             // one ECB block with Base64 padding
		{"abcdef==", 6, true, true},              // only the IV, refused by the mode
		{"", 4, false, false},                    // empty
		{"abc=", 4, false, false},                // 3 symbols
		{"Aiw5AAw", 4, false, false},             // not a Base64 length
		{"I31AsfWdyfypMM==", 5, false, false},    // 14 symbols is not whole blocks
		{"kLi7doFcCv9yTi7EW2c=", 5, true, false}, // 19 symbols
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cryptors.ValidCiphertext(tt.msg, tt.period, tt.withIV), "%q withIV %v", tt.msg, tt.withIV)
	}
}

func TestSymbolIndex(t *testing.T) {
	assert.Equal(t, 0, cryptors.SymbolIndex('A'))
	assert.Equal(t, 26, cryptors.SymbolIndex('a'))
	assert.Equal(t, 63, cryptors.SymbolIndex('/'))
	assert.Equal(t, -1, cryptors.SymbolIndex('='))
	assert.False(t, cryptors.IsSymbol(' '))
}

func TestAddSubBlock(t *testing.T) {
	seq := keysquare.NewSequenceTable(cryptors.Symbols)

	// '/' is sequence address 64, which acts as zero
	assert.Equal(t, "HELLO", string(cryptors.AddBlock([]byte("HELLO"), []byte("/////"), seq)))
	assert.Equal(t, "+9876", string(cryptors.SubBlock([]byte("AAAAA"), []byte("BCDEF"), seq)))
	assert.Equal(t, "BD", string(cryptors.AddBlock([]byte("AB"), []byte("ABC"), seq)))

	blk, key := []byte("Attack/at/dawn"), []byte("MyPasword123AB")
	sum := cryptors.AddBlock(blk, key, seq)
	assert.Equal(t, blk, cryptors.SubBlock(sum, key, seq))
	assert.Equal(t, "Attack/at/dawn", string(blk), "AddBlock must not modify its input")
}

func TestMachineOrder(t *testing.T) {
	rounds := []cryptors.Crypter{shifter{1}, reverser{}, shifter{5}, reverser{}, shifter{11}}
	blks := [][]byte{[]byte("ABCD"), []byte("wxyz"), []byte("0123"), []byte("+/AB"), []byte("Q")}

	left, right := cryptors.CreateEncryptMachine(rounds...)
	encrypted := cryptors.RunMachine(left, right, blks)
	require.Len(t, encrypted, len(blks))
	for i, blk := range blks {
		assert.Equal(t, cryptors.Encrypt(rounds, blk), encrypted[i])
	}

	left, right = cryptors.CreateDecryptMachine(rounds...)
	decrypted := cryptors.RunMachine(left, right, encrypted)
	require.Len(t, decrypted, len(blks))
	for i, blk := range blks {
		assert.Equal(t, blk, decrypted[i])
		assert.Equal(t, blk, cryptors.Decrypt(rounds, encrypted[i]))
	}
}

func TestRunMachineEmpty(t *testing.T) {
	left, right := cryptors.CreateEncryptMachine(shifter{3})
	assert.Empty(t, cryptors.RunMachine(left, right, nil))
}

func TestCreateMachinePanics(t *testing.T) {
	assert.Panics(t, func() { cryptors.CreateEncryptMachine() })
	assert.Panics(t, func() { cryptors.CreateDecryptMachine() })
}

func TestEncryptOrder(t *testing.T) {
	rounds := []cryptors.Crypter{shifter{1}, reverser{}}
	// shift then reverse
	assert.True(t, bytes.Equal([]byte("DCB"), cryptors.Encrypt(rounds, []byte("ABC"))))
	assert.True(t, bytes.Equal([]byte("ABC"), cryptors.Decrypt(rounds, []byte("DCB"))))
}
