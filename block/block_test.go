package block

import (
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"
)

func TestSealProducesReproducibleHash(t *testing.T) {
	ts := time.Now().Unix()

	a, err := New(StarClaim{Owner: "addr1", Star: json.RawMessage(`{"dec":"68 52' 56.9","ra":"16h 29m 1.0s"}`)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, err := New(StarClaim{Owner: "addr1", Star: json.RawMessage(`{"dec":"68 52' 56.9","ra":"16h 29m 1.0s"}`)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a.Seal("prev", 3, ts)
	b.Seal("prev", 3, ts)

	if a.Hash == "" {
		t.Fatal("Expected non-empty hash after seal")
	}
	if len(a.Hash) != 64 {
		t.Errorf("Expected 64 hex chars of sha256, got %d", len(a.Hash))
	}
	if a.Hash != b.Hash {
		t.Errorf("Same fields must hash identically: %s vs %s", a.Hash, b.Hash)
	}

	// Self-hash idempotence: validating repeatedly never flips.
	for i := 0; i < 3; i++ {
		if !a.Validate() {
			t.Fatalf("Validate returned false on untouched block (round %d)", i)
		}
	}
}

func TestValidateDetectsTamper(t *testing.T) {
	cases := []struct {
		name   string
		tamper func(b *Block)
	}{
		{"body", func(b *Block) { b.Body = hex.EncodeToString([]byte(`"evil"`)) }},
		{"prev_hash", func(b *Block) { b.PrevHash = "somethingelse" }},
		{"height", func(b *Block) { b.Height++ }},
		{"timestamp", func(b *Block) { b.Timestamp++ }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := New(StarClaim{Owner: "addr1", Star: json.RawMessage(`{"story":"first"}`)})
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			b.Seal("prev", 1, time.Now().Unix())
			if !b.Validate() {
				t.Fatal("Block invalid before tamper")
			}
			tc.tamper(b)
			if b.Validate() {
				t.Error("Expected Validate to detect tampered field")
			}
		})
	}
}

func TestUnsealedBlockIsInvalid(t *testing.T) {
	b, err := New("payload")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if b.Validate() {
		t.Error("Unsealed block must not validate")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	in := StarClaim{Owner: "addr9", Star: json.RawMessage(`{"dec":"-21","ra":"4h","story":"found it"}`)}
	b, err := New(in)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b.Seal("", 0, time.Now().Unix())

	var out StarClaim
	if err := b.DecodePayload(&out); err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if out.Owner != in.Owner {
		t.Errorf("Expected owner %s, got %s", in.Owner, out.Owner)
	}
	if string(out.Star) != string(in.Star) {
		t.Errorf("Expected star %s, got %s", in.Star, out.Star)
	}
}

func TestDecodePayloadMalformed(t *testing.T) {
	// Not hex at all.
	b := &Block{Body: "zz"}
	var out StarClaim
	if err := b.DecodePayload(&out); err == nil {
		t.Error("Expected error for non-hex body")
	}

	// Hex, but not JSON.
	b = &Block{Body: hex.EncodeToString([]byte("{broken"))}
	if err := b.DecodePayload(&out); err == nil {
		t.Error("Expected error for non-JSON body")
	}
}
