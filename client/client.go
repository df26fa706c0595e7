package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"starnotary/jsonx"
)

type Config struct {
	Endpoint string
}

// NotaryClient is a JSON-RPC client for a starnotary node.
type NotaryClient struct {
	cfg    Config
	http   *http.Client
	nextID uint64
}

func NewClient(cfg Config) *NotaryClient {
	return &NotaryClient{
		cfg:  cfg,
		http: &http.Client{},
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"error"`
}

func (c *NotaryClient) call(ctx context.Context, method string, params, result interface{}) error {
	payload, err := jsonx.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      atomic.AddUint64(&c.nextID, 1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope rpcResponse
	if err := jsonx.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	if envelope.Error != nil {
		return fmt.Errorf("rpc %s failed (%d): %s", method, envelope.Error.Code, envelope.Error.Message)
	}
	if result != nil {
		return jsonx.Unmarshal(envelope.Result, result)
	}
	return nil
}

// RequestChallenge fetches the challenge message the wallet must sign.
func (c *NotaryClient) RequestChallenge(ctx context.Context, address string) (string, error) {
	var out ChallengeResult
	err := c.call(ctx, "star.requestchallenge", map[string]string{"address": address}, &out)
	return out.Message, err
}

// SubmitClaim submits a signed challenge plus star data and returns the
// appended block.
func (c *NotaryClient) SubmitClaim(ctx context.Context, address, message, signature string, star json.RawMessage) (*BlockResult, error) {
	var out BlockResult
	params := SubmitClaimParams{
		Address:   address,
		Message:   message,
		Signature: signature,
		Star:      star,
	}
	if err := c.call(ctx, "star.submitclaim", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *NotaryClient) GetHeight(ctx context.Context) (int64, error) {
	var out HeightResult
	err := c.call(ctx, "chain.getheight", nil, &out)
	return out.Height, err
}

func (c *NotaryClient) GetBlockByHash(ctx context.Context, hash string) (*BlockResult, error) {
	var out LookupResult
	if err := c.call(ctx, "chain.getblockbyhash", map[string]string{"hash": hash}, &out); err != nil {
		return nil, err
	}
	if !out.Found {
		return nil, nil
	}
	return out.Block, nil
}

func (c *NotaryClient) GetBlockByHeight(ctx context.Context, height uint64) (*BlockResult, error) {
	var out LookupResult
	if err := c.call(ctx, "chain.getblockbyheight", map[string]uint64{"height": height}, &out); err != nil {
		return nil, err
	}
	if !out.Found {
		return nil, nil
	}
	return out.Block, nil
}

func (c *NotaryClient) GetClaimsByAddress(ctx context.Context, address string) ([]ClaimResult, error) {
	var out ClaimsResult
	if err := c.call(ctx, "chain.getclaimsbyaddress", map[string]string{"address": address}, &out); err != nil {
		return nil, err
	}
	return out.Claims, nil
}

func (c *NotaryClient) ValidateChain(ctx context.Context) ([]string, error) {
	var out ValidateResult
	if err := c.call(ctx, "chain.validate", nil, &out); err != nil {
		return nil, err
	}
	return out.Errors, nil
}
