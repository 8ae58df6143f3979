package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// tokenIDBytes is the number of hash bytes kept in a token ID.
const tokenIDBytes = 12

// ComputeTokenID computes an opaque token ID.
// Formula: base58(SHA256(seq|contract_address|created_at)[:12])
// seq must be unique per generator; it is what makes IDs collision-free
// when two tokens share an address and a millisecond.
func ComputeTokenID(seq uint64, contractAddress string, createdAt int64) string {
	data := fmt.Sprintf("%d|%s|%d", seq, contractAddress, createdAt)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:tokenIDBytes])
}
