package interfaces

import (
	"encoding/json"

	"starnotary/block"
)

// Registry is the star-claim surface the transport layer is written against.
// chain.Chain is the only production implementation.
type Registry interface {
	RequestChallenge(address string) string
	SubmitClaim(address, message, signature string, star json.RawMessage) (*block.Block, error)
	Height() int64
	GetBlockByHash(hash string) *block.Block
	GetBlockByHeight(height uint64) *block.Block
	GetClaimsByAddress(address string) []block.StarClaim
	Validate() []string
}
