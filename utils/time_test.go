package utils

import (
	"testing"
	"time"
)

func TestSecondsBetween(t *testing.T) {
	from := time.Unix(1700000000, 0)

	if got := SecondsBetween(from, from.Add(299*time.Second)); got != 299 {
		t.Errorf("Expected 299 seconds, got %v", got)
	}
	if got := SecondsBetween(from, from); got != 0 {
		t.Errorf("Expected 0 seconds, got %v", got)
	}
	// A timestamp from the future yields a negative elapsed value.
	if got := SecondsBetween(from.Add(10*time.Second), from); got != -10 {
		t.Errorf("Expected -10 seconds, got %v", got)
	}
}
