package id

import (
	"encoding/base32"
	"strings"
	"testing"
)

func TestNewIDFormat(t *testing.T) {
	got, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(got) != 26 {
		t.Fatalf("expected 26-character id, got %d (%q)", len(got), got)
	}
	if strings.Contains(got, "=") {
		t.Fatal("expected no padding")
	}
	for _, r := range got {
		if (r < 'a' || r > 'z') && (r < '2' || r > '7') {
			t.Fatalf("unexpected character %q in id %q", r, got)
		}
	}

	decoded, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(got))
	if err != nil {
		t.Fatalf("decode id: %v", err)
	}
	if len(decoded) != 16 {
		t.Fatalf("expected 16 decoded bytes, got %d", len(decoded))
	}
	if version := decoded[6] >> 4; version != 4 {
		t.Fatalf("expected uuid version 4, got %d", version)
	}
	if variant := decoded[8] & 0xC0; variant != 0x80 {
		t.Fatalf("expected uuid variant 0x80, got 0x%X", variant)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		got, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if seen[got] {
			t.Fatalf("duplicate id %q after %d generations", got, i)
		}
		seen[got] = true
	}
}
