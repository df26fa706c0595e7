package chain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"starnotary/block"
	"starnotary/config"
	"starnotary/errors"
	"starnotary/logx"
	"starnotary/utils"
	"starnotary/wallet"
)

// Chain owns the ordered, hash-linked block sequence. It is the single writer:
// every append runs under the exclusive lock, so two claims can never race to
// link against the same tail. Readers share the read lock and therefore never
// observe a half-applied append.
type Chain struct {
	mu     sync.RWMutex
	blocks []*block.Block

	// now is swappable so the claim window is testable at its boundaries.
	now func() time.Time
}

// New constructs the chain and bootstraps its genesis block before returning,
// so callers never observe a pre-genesis chain.
func New() (*Chain, error) {
	c := &Chain{now: time.Now}
	if err := c.initialize(); err != nil {
		return nil, err
	}
	return c, nil
}

// initialize appends the genesis block. Guarded so it only acts on an empty
// chain.
func (c *Chain) initialize() error {
	if c.Height() >= 0 {
		return nil
	}
	genesis, err := block.New(config.GenesisPayload)
	if err != nil {
		return err
	}
	if _, err := c.appendBlock(genesis); err != nil {
		return err
	}
	logx.Info("CHAIN", "Genesis block created")
	return nil
}

// appendBlock is the sole mutator of the sequence. It validates the current
// chain first and refuses to extend a corrupted one; a validation failure
// short-circuits with no mutation at all.
func (c *Chain) appendBlock(b *block.Block) (*block.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if findings := c.validateLocked(); len(findings) > 0 {
		logx.Error("CHAIN", "Refusing append, chain failed validation: ", strings.Join(findings, "; "))
		return nil, errors.NewChainError(findings)
	}

	prevHash := config.GenesisPrevHash
	if n := len(c.blocks); n > 0 {
		prevHash = c.blocks[n-1].Hash
	}
	b.Seal(prevHash, uint64(len(c.blocks)), c.now().Unix())
	c.blocks = append(c.blocks, b)

	logx.Debug("CHAIN", "Appended block height=", b.Height, " hash=", b.Hash)
	return b, nil
}

// Height returns len(sequence)-1; -1 only before genesis bootstrap.
func (c *Chain) Height() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int64(len(c.blocks)) - 1
}

// RequestChallenge formats the challenge message a wallet must sign to claim
// a star: "<address>:<unixSeconds>:starRegistry". Nothing is stored; the
// embedded timestamp is what bounds the claim's validity.
func (c *Chain) RequestChallenge(address string) string {
	return fmt.Sprintf("%s:%d:%s", address, c.now().Unix(), config.ChallengeTag)
}

// SubmitClaim runs the authenticated-append protocol: window check, signature
// check, then the gated append. The checks are pure; the chain is untouched
// unless every gate passes.
func (c *Chain) SubmitClaim(address, message, signature string, star json.RawMessage) (*block.Block, error) {
	issued, err := challengeTime(message)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidRequest, errors.ErrMsgInvalidRequest)
	}

	if elapsed := utils.SecondsBetween(time.Unix(issued, 0), c.now()); elapsed >= float64(config.ClaimWindowSeconds) {
		logx.Warn("CHAIN", "Rejected expired claim from ", address, ", elapsed=", elapsed, "s")
		return nil, errors.NewError(errors.ErrCodeClaimExpired, errors.ErrMsgClaimExpired)
	}

	if !wallet.Verify(address, message, signature) {
		logx.Warn("CHAIN", "Rejected claim with bad signature from ", address)
		return nil, errors.NewError(errors.ErrCodeInvalidSignature, errors.ErrMsgInvalidSignature)
	}

	b, err := block.New(block.StarClaim{Owner: address, Star: star})
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}
	return c.appendBlock(b)
}

// challengeTime extracts the unix timestamp embedded as the second field of
// the colon-delimited challenge message.
func challengeTime(message string) (int64, error) {
	parts := strings.Split(message, ":")
	if len(parts) < 3 {
		return 0, fmt.Errorf("malformed challenge message")
	}
	return strconv.ParseInt(parts[1], 10, 64)
}

// GetBlockByHash returns the first block whose hash matches, or nil.
func (c *Chain) GetBlockByHash(hash string) *block.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.findByHashLocked(hash)
}

func (c *Chain) findByHashLocked(hash string) *block.Block {
	for _, b := range c.blocks {
		if b.Hash == hash {
			return b
		}
	}
	return nil
}

// GetBlockByHeight returns the block at the given height, or nil when the
// height is beyond the tail.
func (c *Chain) GetBlockByHeight(height uint64) *block.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.blocks {
		if b.Height == height {
			return b
		}
	}
	return nil
}

// GetClaimsByAddress returns the decoded claim payloads owned by address, in
// chain order. Payloads that fail to decode or carry no owner (the genesis
// sentinel) are skipped, never surfaced as errors.
func (c *Chain) GetClaimsByAddress(address string) []block.StarClaim {
	c.mu.RLock()
	defer c.mu.RUnlock()

	claims := []block.StarClaim{}
	for _, b := range c.blocks {
		var claim block.StarClaim
		if err := b.DecodePayload(&claim); err != nil {
			continue
		}
		if claim.Owner == "" || claim.Owner != address {
			continue
		}
		claims = append(claims, claim)
	}
	return claims
}

// Validate re-checks the whole chain: per-block self-hash integrity and, for
// every non-genesis block, that its previous hash is findable in the chain.
// It returns one human-readable finding per invalid block and never fails.
func (c *Chain) Validate() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validateLocked()
}

func (c *Chain) validateLocked() []string {
	findings := []string{}
	for i, b := range c.blocks {
		var problems []string
		if !b.Validate() {
			problems = append(problems, "content hash mismatch")
		}
		if b.Height > 0 && c.findByHashLocked(b.PrevHash) == nil {
			problems = append(problems, "previous block not found for hash "+b.PrevHash)
		}
		if len(problems) > 0 {
			findings = append(findings, fmt.Sprintf("block %d (%s): %s", i, b.Hash, strings.Join(problems, ", ")))
		}
	}
	return findings
}
