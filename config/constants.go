package config

const (
	// ChallengeTag is the fixed protocol tag appended to every challenge
	// message; wallets sign the full "<address>:<unixSeconds>:<tag>" string.
	ChallengeTag = "starRegistry"

	// ClaimWindowSeconds bounds the age of a signed challenge. Claims whose
	// embedded timestamp is this many seconds old (or older) are rejected.
	ClaimWindowSeconds int64 = 5 * 60

	// GenesisPayload is the sentinel payload of the first block.
	GenesisPayload = "Genesis Block"

	// GenesisPrevHash is the previous-hash sentinel of the first block.
	GenesisPrevHash = ""
)
