// cyptor
package cryptors

// CypherBlock is the data processed by the round machines. It consists of
// the length in characters to process and the block itself.  A block with a
// Length of zero shuts the machine down.
type CypherBlock struct {
	Length      int
	CypherBlock []byte
}

// Crypter is one round of the cipher.  Apply_F enciphers a block and Apply_G
// is its exact inverse.  Neither may modify the block passed in.
type Crypter interface {
	Apply_F([]byte) []byte
	Apply_G([]byte) []byte
}

// Sequencer maps symbols to their 1..64 sequence address and back.  Decode
// must accept any integer and wrap it into 1..64 (0 is address 64).
type Sequencer interface {
	Encode(byte) int
	Decode(int) byte
}

// Encrypt runs blk through every round in order.
func Encrypt(ecms []Crypter, blk []byte) []byte {
	for _, ecm := range ecms {
		blk = ecm.Apply_F(blk)
	}

	return blk
}

// Decrypt runs blk through every round in reverse order.
func Decrypt(ecms []Crypter, blk []byte) []byte {
	for idx := len(ecms) - 1; idx >= 0; idx-- {
		blk = ecms[idx].Apply_G(blk)
	}

	return blk
}

// AddBlock adds key to blk character by character, modulo 64, in the
// sequence addresses given by seq.
func AddBlock(blk, key []byte, seq Sequencer) []byte {
	res := make([]byte, minLen(blk, key))

	for i := range res {
		res[i] = seq.Decode(seq.Encode(blk[i]) + seq.Encode(key[i]))
	}

	return res
}

// SubBlock subtracts key from blk character by character, modulo 64.
func SubBlock(blk, key []byte, seq Sequencer) []byte {
	res := make([]byte, minLen(blk, key))

	for i := range res {
		res[i] = seq.Decode(seq.Encode(blk[i]) - seq.Encode(key[i]))
	}

	return res
}

func minLen(a, b []byte) int {
	if len(a) < len(b) {
		return len(a)
	}
	return len(b)
}

func EncryptMachine(ecm Crypter, left chan CypherBlock) chan CypherBlock {
	right := make(chan CypherBlock)
	go func(ecm Crypter, left chan CypherBlock, right chan CypherBlock) {
		for {
			inp := <-left
			if inp.Length <= 0 {
				right <- inp
				break
			}

			inp.CypherBlock = ecm.Apply_F(inp.CypherBlock)
			right <- inp
		}
	}(ecm, left, right)

	return right
}

func DecryptMachine(ecm Crypter, left chan CypherBlock) chan CypherBlock {
	right := make(chan CypherBlock)
	go func(ecm Crypter, left chan CypherBlock, right chan CypherBlock) {
		for {
			inp := <-left
			if inp.Length <= 0 {
				right <- inp
				break
			}

			inp.CypherBlock = ecm.Apply_G(inp.CypherBlock)
			right <- inp
		}
	}(ecm, left, right)

	return right
}

// CreateEncryptMachine chains one goroutine per round, first round first.
func CreateEncryptMachine(ecms ...Crypter) (left chan CypherBlock, right chan CypherBlock) {
	if len(ecms) == 0 {
		panic("you must give at least one encryption round!")
	}

	left = make(chan CypherBlock)
	right = EncryptMachine(ecms[0], left)

	for idx := 1; idx < len(ecms); idx++ {
		right = EncryptMachine(ecms[idx], right)
	}

	return
}

// CreateDecryptMachine chains one goroutine per round, last round first.
func CreateDecryptMachine(ecms ...Crypter) (left chan CypherBlock, right chan CypherBlock) {
	if len(ecms) == 0 {
		panic("you must give at least one decryption round!")
	}

	idx := len(ecms) - 1
	left = make(chan CypherBlock)
	right = DecryptMachine(ecms[idx], left)

	for idx--; idx >= 0; idx-- {
		right = DecryptMachine(ecms[idx], right)
	}

	return
}

// RunMachine feeds blks through a machine built by CreateEncryptMachine or
// CreateDecryptMachine and returns the results in the same order.  The
// machine is shut down before RunMachine returns.
func RunMachine(left, right chan CypherBlock, blks [][]byte) [][]byte {
	go func() {
		for _, blk := range blks {
			left <- CypherBlock{Length: len(blk), CypherBlock: blk}
		}
		left <- CypherBlock{}
	}()

	res := make([][]byte, 0, len(blks))
	for {
		out := <-right
		if out.Length <= 0 {
			break
		}
		res = append(res, out.CypherBlock)
	}

	return res
}
