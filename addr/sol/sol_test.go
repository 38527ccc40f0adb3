package sol

import (
	"bytes"
	"testing"
)

func TestFromPublicKeyRoundTrip(t *testing.T) {
	pub := make([]byte, Size)
	for i := range pub {
		pub[i] = byte(i * 3)
	}
	addr, err := FromPublicKey(pub)
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	s := addr.String()
	parsed, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(parsed.Bytes(), pub) {
		t.Fatalf("round trip = %x, want %x", parsed.Bytes(), pub)
	}
}

func TestFromPublicKeyRejectsWrongLength(t *testing.T) {
	if _, err := FromPublicKey(make([]byte, 31)); err == nil {
		t.Fatalf("expected error for 31-byte input")
	}
}

func TestParseRejectsWrongLength(t *testing.T) {
	if _, err := Parse("1111"); err == nil {
		t.Fatalf("expected error for short decoded payload")
	}
}
