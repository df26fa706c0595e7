package block

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"starnotary/jsonx"
)

// StarClaim is the decoded payload of a claim block: the owning wallet
// address and the registered star data, kept opaque.
type StarClaim struct {
	Owner string          `json:"owner"`
	Star  json.RawMessage `json:"star"`
}

// Block is one ledger entry. A block is built unsealed (payload only) and the
// chain seals it exactly once: linkage fields are set and Hash is fixed over
// everything else. Nothing may be mutated after sealing.
type Block struct {
	Height    uint64 `json:"height"`
	Timestamp int64  `json:"timestamp"` // unix seconds at seal time
	PrevHash  string `json:"prev_hash"` // "" for the genesis block
	Hash      string `json:"hash"`
	Body      string `json:"body"` // hex-encoded canonical JSON payload
}

// New builds an unsealed block holding payload. The payload is frozen into
// its at-rest form (canonical JSON, hex-encoded) immediately.
func New(payload interface{}) (*Block, error) {
	raw, err := jsonx.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Block{Body: hex.EncodeToString(raw)}, nil
}

// Seal fixes the linkage fields and computes the content hash. Called exactly
// once per block, by the chain, under its write lock.
func (b *Block) Seal(prevHash string, height uint64, timestamp int64) {
	b.PrevHash = prevHash
	b.Height = height
	b.Timestamp = timestamp
	b.Hash = b.computeHash()
}

// computeHash digests every field except Hash itself, in fixed order with
// fixed-width integer encoding, so re-hashing a sealed block is reproducible
// bit-for-bit.
func (b *Block) computeHash() string {
	h := sha256.New()
	h.Write([]byte(b.Body))
	h.Write([]byte(b.PrevHash))
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, b.Height)
	h.Write(buf)
	binary.BigEndian.PutUint64(buf, uint64(b.Timestamp))
	h.Write(buf)
	return hex.EncodeToString(h.Sum(nil))
}

// Validate recomputes the content hash over the current non-hash fields and
// reports whether it still matches the stored Hash.
func (b *Block) Validate() bool {
	if b.Hash == "" {
		return false
	}
	return b.Hash == b.computeHash()
}

// DecodePayload decodes the stored payload into v.
func (b *Block) DecodePayload(v interface{}) error {
	raw, err := hex.DecodeString(b.Body)
	if err != nil {
		return err
	}
	return jsonx.Unmarshal(raw, v)
}
