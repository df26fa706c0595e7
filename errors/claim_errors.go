package errors

import (
	"strings"

	"starnotary/jsonx"
)

// ClaimErrorCode represents standardized error codes for registry operations
type ClaimErrorCode string

const (
	// General errors
	ErrCodeInternal ClaimErrorCode = "internal_error"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeInvalidSignature = "invalid_signature"

	// Claim protocol errors
	ErrCodeClaimExpired = "claim_expired"

	// Ledger errors
	ErrCodeChainIntegrity = "chain_integrity"
)

// ClaimError represents a standardized registry error
type ClaimError struct {
	Code    ClaimErrorCode `json:"code"`
	Message string         `json:"message"`
}

// Error implements the error interface
func (e *ClaimError) Error() string {
	err, _ := jsonx.Marshal(ClaimError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(err)
}

// ChainError is a ClaimError that carries the per-block findings produced by
// full-chain validation. It blocks the append that triggered it entirely.
type ChainError struct {
	Code     ClaimErrorCode `json:"code"`
	Message  string         `json:"message"`
	Findings []string       `json:"findings"`
}

func (e *ChainError) Error() string {
	err, _ := jsonx.Marshal(ChainError{
		Code:     e.Code,
		Message:  e.Message,
		Findings: e.Findings,
	})
	return string(err)
}

// Error message constants - user-friendly and concise
const (
	ErrMsgInvalidRequest   = "Request format is invalid"
	ErrMsgInvalidSignature = "Signature does not verify against the wallet address"
	ErrMsgClaimExpired     = "Challenge message is older than the validity window"
	ErrMsgChainIntegrity   = "Ledger failed integrity validation"
	ErrMsgInternal         = "Server error, please try again"
)

// NewError creates a new ClaimError and returns it as error interface
func NewError(code ClaimErrorCode, message string) error {
	return &ClaimError{
		Code:    code,
		Message: message,
	}
}

// NewChainError wraps validation findings into a ChainError
func NewChainError(findings []string) error {
	return &ChainError{
		Code:     ErrCodeChainIntegrity,
		Message:  ErrMsgChainIntegrity + ": " + strings.Join(findings, "; "),
		Findings: findings,
	}
}
