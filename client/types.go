package client

import "encoding/json"

type ChallengeResult struct {
	Message string `json:"message"`
}

type SubmitClaimParams struct {
	Address   string          `json:"address"`
	Message   string          `json:"message"`
	Signature string          `json:"signature"`
	Star      json.RawMessage `json:"star"`
}

type BlockResult struct {
	Height    uint64 `json:"height"`
	Timestamp int64  `json:"timestamp"`
	PrevHash  string `json:"prev_hash"`
	Hash      string `json:"hash"`
	Body      string `json:"body"`
}

type LookupResult struct {
	Found bool         `json:"found"`
	Block *BlockResult `json:"block"`
}

type HeightResult struct {
	Height int64 `json:"height"`
}

type ClaimResult struct {
	Owner string          `json:"owner"`
	Star  json.RawMessage `json:"star"`
}

type ClaimsResult struct {
	Claims []ClaimResult `json:"claims"`
}

type ValidateResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
