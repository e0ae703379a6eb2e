// Package commitment implements the opaque value tokens the TaxVault ledger
// stores in place of plaintext amounts. A commitment is a keccak256 hash of
// the decimal rendering of the value concatenated with a caller-supplied
// nonce. It is NOT cryptographically confidential: a motivated party can
// brute-force small value spaces. The original system derives the nonce from
// a submission timestamp; this is preserved as a stand-in abstraction, not
// upgraded to real encryption.
package commitment

import (
	"crypto/rand"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Size is the byte length of a commitment.
const Size = 32

// Commitment is an opaque fixed-size token standing in for an encrypted value.
type Commitment [Size]byte

// Zero is the empty commitment, used for unset record fields.
var Zero Commitment

// Commit derives a commitment for value under the given nonce.
func Commit(value int64, nonce []byte) Commitment {
	preimage := append([]byte(strconv.FormatInt(value, 10)), nonce...)

	var c Commitment
	copy(c[:], crypto.Keccak256(preimage))
	return c
}

// NewNonce returns a fresh random 16-byte nonce.
func NewNonce() ([]byte, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// TimestampNonce renders a unix timestamp as a nonce, matching the original
// scheme of hashing the plaintext together with the submission time.
func TimestampNonce(unixSeconds int64) []byte {
	return []byte(strconv.FormatInt(unixSeconds, 10))
}

// IsZero reports whether the commitment is unset.
func (c Commitment) IsZero() bool {
	return c == Zero
}

// Hex returns the 0x-prefixed hex encoding of the commitment.
func (c Commitment) Hex() string {
	return hexutil.Encode(c[:])
}

// Bytes returns the commitment as a byte slice.
func (c Commitment) Bytes() []byte {
	return c[:]
}

// ParseHex decodes a 0x-prefixed hex string into a commitment.
func ParseHex(s string) (Commitment, error) {
	raw, err := hexutil.Decode(s)
	if err != nil {
		return Zero, fmt.Errorf("failed to decode commitment: %w", err)
	}
	if len(raw) != Size {
		return Zero, fmt.Errorf("invalid commitment length: %d", len(raw))
	}

	var c Commitment
	copy(c[:], raw)
	return c, nil
}
