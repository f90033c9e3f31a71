package types

import "testing"

// SetByte(v, p, x); GetByte(v, p) == x & 0xFF (spec §8 round-trip law).
func TestBlobByteRoundTrip(t *testing.T) {
	b := NewBlob(4)
	b.SetByte(1, 0x1FF) // 0x1FF & 0xFF == 0xFF
	if got := b.GetByte(1); got != 0xFF {
		t.Fatalf("GetByte = %d, want %d", got, 0xFF)
	}
}

// SetWord(v, p, x); GetWord(v, p) == x & 0xFFFF.
func TestBlobWordRoundTrip(t *testing.T) {
	b := NewBlob(4)
	b.SetWord(0, 0x1ABCD) // truncates to 0xABCD
	if got := b.GetWord(0); got != 0xABCD {
		t.Fatalf("GetWord = %#x, want %#x", got, 0xABCD)
	}
}

func TestBlobWordSignExtends(t *testing.T) {
	b := NewBlob(4)
	b.SetWord(0, 0x8001)
	if got := b.GetWord(0); got != 0x8001 {
		t.Fatalf("unsigned GetWord = %#x, want %#x", got, 0x8001)
	}
	if got := b.GetWordSigned(0); got != 0x8001-0x10000 {
		t.Fatalf("signed GetWord = %d, want %d", got, 0x8001-0x10000)
	}
}

func TestBlobStrRoundTrip(t *testing.T) {
	b := NewBlob(0)
	b.SetStr(2, "hi")
	if got := b.GetStr(2); got != "hi" {
		t.Fatalf("GetStr = %q, want %q", got, "hi")
	}
}

func TestBlobGrowsLazily(t *testing.T) {
	b := NewBlob(0)
	if b.Len() != 0 {
		t.Fatalf("expected empty blob, got len %d", b.Len())
	}
	b.SetLong(10, 42)
	if b.Len() != 14 {
		t.Fatalf("expected blob to grow to 14 bytes, got %d", b.Len())
	}
	if got := b.GetLong(10); got != 42 {
		t.Fatalf("GetLong = %d, want 42", got)
	}
}
