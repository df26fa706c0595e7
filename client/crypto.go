package client

import (
	"crypto/ed25519"
	"errors"

	"github.com/mr-tron/base58"

	"starnotary/wallet"
)

var ErrUnsupportedKey = errors.New("crypto: unsupported private key length")

// SignChallenge signs a challenge message with a raw ed25519 seed or full
// private key and returns (address, hexSignature) ready for SubmitClaim.
func SignChallenge(message string, privKey []byte) (string, string, error) {
	switch l := len(privKey); l {
	case ed25519.SeedSize:
		privKey = ed25519.NewKeyFromSeed(privKey)
	case ed25519.PrivateKeySize:
	default:
		return "", "", ErrUnsupportedKey
	}

	key := ed25519.PrivateKey(privKey)
	address := base58.Encode(key.Public().(ed25519.PublicKey))
	return address, wallet.SignMessage(key, message), nil
}
