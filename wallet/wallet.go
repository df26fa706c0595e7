package wallet

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"starnotary/common"
)

// compactSigSize is the length of a recoverable secp256k1 signature
// (1 header byte + 32-byte R + 32-byte S).
const compactSigSize = 65

// Verify checks that signatureHex was produced over exactly message by the
// private key behind address. Two wallet schemes are supported, dispatched on
// the decoded signature length:
//
//   - 64 bytes: ed25519 signature; address is the base58-encoded public key.
//   - 65 bytes: compact secp256k1 signature; the public key is recovered from
//     the signature over sha256(message) and must base58-encode (compressed)
//     to the claimed address.
//
// Malformed input of any kind verifies as false, never as an error.
func Verify(address, message, signatureHex string) bool {
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}

	switch len(sig) {
	case ed25519.SignatureSize:
		pub, err := common.DecodeBase58ToBytes(address)
		if err != nil || len(pub) != ed25519.PublicKeySize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(pub), []byte(message), sig)

	case compactSigSize:
		digest := sha256.Sum256([]byte(message))
		pub, _, err := secpecdsa.RecoverCompact(sig, digest[:])
		if err != nil {
			return false
		}
		return common.EncodeBytesToBase58(pub.SerializeCompressed()) == address
	}

	return false
}

// SignMessage signs message with an ed25519 private key and returns the
// hex-encoded signature accepted by Verify.
func SignMessage(priv ed25519.PrivateKey, message string) string {
	return hex.EncodeToString(ed25519.Sign(priv, []byte(message)))
}

// SignMessageCompact signs message with a secp256k1 private key in recoverable
// compact form and returns the hex-encoded signature accepted by Verify.
func SignMessageCompact(priv *secp256k1.PrivateKey, message string) string {
	digest := sha256.Sum256([]byte(message))
	return hex.EncodeToString(secpecdsa.SignCompact(priv, digest[:], true))
}

// Address returns the wallet address for an ed25519 public key.
func Address(pub ed25519.PublicKey) string {
	return common.EncodeBytesToBase58(pub)
}

// AddressCompact returns the wallet address for a secp256k1 public key.
func AddressCompact(pub *secp256k1.PublicKey) string {
	return common.EncodeBytesToBase58(pub.SerializeCompressed())
}
