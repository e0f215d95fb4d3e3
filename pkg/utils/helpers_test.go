package utils

import (
	"encoding/hex"
	"testing"
)

func TestRandomHex(t *testing.T) {
	a := RandomHex(8)
	if len(a) != 16 {
		t.Fatalf("expected 16 chars, got %d", len(a))
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Fatalf("not hex: %v", err)
	}
	if b := RandomHex(8); a == b {
		t.Fatalf("expected distinct values")
	}
}
