package padding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgallie/hexafid/cryptors"
	"github.com/bgallie/hexafid/cryptors/keysquare"
)

func TestLength(t *testing.T) {
	tests := []struct {
		msgLen, period int
		withIV         bool
		want           int
	}{
		{0, 4, false, 4},
		{0, 4, true, 4},
		{0, 5, false, 10},
		{0, 5, true, 5},
		{1, 5, false, 9},
		{3, 4, false, 1},
		{4, 5, true, 1},
		{7, 7, true, 14},
		{10, 5, false, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Length(tt.msgLen, tt.period, tt.withIV),
			"msgLen %d period %d withIV %v", tt.msgLen, tt.period, tt.withIV)
	}
}

func TestPadInvariants(t *testing.T) {
	seq := keysquare.NewSequenceTable(cryptors.Symbols)
	for period := 1; period <= 16; period++ {
		for msgLen := 0; msgLen <= 3*period; msgLen++ {
			for _, withIV := range []bool{false, true} {
				msg := []byte(strings.Repeat("x", msgLen))
				padded, err := Pad(msg, period, seq, withIV)
				require.NoError(t, err)

				total := len(padded)
				if withIV {
					total += period
				}
				padLength := len(padded) - msgLen
				assert.Equal(t, 0, total%period)
				assert.NotEqual(t, 1, total%4)
				assert.GreaterOrEqual(t, padLength, 1)
				assert.LessOrEqual(t, padLength, 2*period)
				assert.Equal(t, msg, Unpad(padded, seq), "period %d msgLen %d withIV %v", period, msgLen, withIV)
			}
		}
	}
}

func TestPadSymbol(t *testing.T) {
	seq := keysquare.NewSequenceTable(cryptors.Symbols)

	padded, err := Pad([]byte("DROP"), 4, seq, false)
	require.NoError(t, err)
	assert.Equal(t, "DROPDDDD", string(padded))

	padded, err = Pad(nil, 5, seq, false)
	require.NoError(t, err)
	assert.Equal(t, "JJJJJJJJJJ", string(padded))

	padded, err = Pad([]byte("abcdefg"), 7, seq, true)
	require.NoError(t, err)
	assert.Equal(t, "abcdefg"+strings.Repeat("N", 14), string(padded))

	// the pad symbol follows the key, not the Base64 order
	key := "MyPasword123ABCDEFGHIJKLNOQRSTUVWXYZbcefghijklmnpqtuvxz0456789+/"
	padded, err = Pad([]byte("abc"), 4, keysquare.NewSequenceTable(key), false)
	require.NoError(t, err)
	assert.Equal(t, "abcM", string(padded))
}

func TestPadTooLong(t *testing.T) {
	seq := keysquare.NewSequenceTable(cryptors.Symbols)

	_, err := Pad(nil, 33, seq, false)
	assert.ErrorIs(t, err, cryptors.ErrPadLength)

	_, err = Pad(nil, 65, seq, false)
	assert.ErrorIs(t, err, cryptors.ErrPadLength)

	padded, err := Pad(nil, 64, seq, false)
	require.NoError(t, err)
	assert.Len(t, padded, 64)
}

func TestUnpadDoesNotCheck(t *testing.T) {
	seq := keysquare.NewSequenceTable(cryptors.Symbols)

	// only the last symbol counts
	assert.Equal(t, "HelloWorl", string(Unpad([]byte("HelloWorlxB"), seq)))
	// a pad equal to the text leaves nothing
	assert.Empty(t, Unpad([]byte("abcD"), seq))
	// a pad longer than the text counts back from the end again
	assert.Equal(t, "ab", string(Unpad([]byte("abcF"), seq)))
	assert.Equal(t, "abcde", string(Unpad([]byte("abcdefI"), seq)))
	// and never below empty
	assert.Empty(t, Unpad([]byte("abc/"), seq))
	assert.Empty(t, Unpad(nil, seq))
}

func TestBase64Padding(t *testing.T) {
	assert.Equal(t, "Aiw5AAwY", AddBase64("Aiw5AAwY"))
	assert.Equal(t, "I31AsfWdyfypMMM=", AddBase64("I31AsfWdyfypMMM"))
	assert.Equal(t, "ab==", AddBase64("ab"))
	assert.Equal(t, "a===", AddBase64("a"))
	assert.Equal(t, "I31AsfWdyfypMMM", RemoveBase64("I31AsfWdyfypMMM="))
	assert.Equal(t, "ab", RemoveBase64("ab=="))
}
