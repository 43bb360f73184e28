package cmd

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerFile(t *testing.T) {
	ledgerFileName = filepath.Join(t.TempDir(), hexafidLedgerFile)

	empty := readLedgerFile(map[string][]string{})
	assert.Empty(t, empty)

	want := map[string][]string{"0011223344556677": {"kLi7d", "fLuwo3b"}}
	require.NoError(t, writeLedgerFile(want))
	assert.Equal(t, want, readLedgerFile(nil))

	ivMap, keyPrint = want, "0011223344556677"
	assert.True(t, ivUsed("kLi7d"))
	assert.False(t, ivUsed("w3Der4LeOd"))
	keyPrint = "ffffffffffffffff"
	assert.False(t, ivUsed("kLi7d"))
}

func TestEngineOptions(t *testing.T) {
	defer viper.Reset()
	viper.Set("mode", "CTR")
	viper.Set("period", "6")
	viper.Set("rounds", 3)
	viper.Set("separator", "true")
	viper.Set("preserve", false)

	opts := engineOptions()
	assert.Equal(t, "CTR", opts.Mode)
	assert.Equal(t, 6, opts.Period)
	assert.Equal(t, 3, opts.Rounds)
	assert.True(t, opts.Separator)
	assert.False(t, opts.Preserve)
}

func TestToPipe(t *testing.T) {
	out, err := io.ReadAll(toPipe(strings.NewReader("kLi7doFcCv9yTi7EW2cM")))
	require.NoError(t, err)
	wg.Wait()
	assert.Equal(t, "kLi7doFcCv9yTi7EW2cM", string(out))
}
