package record

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeDecodePutHeader(t *testing.T) {
	h := NewPutHeader(3, 5)
	buf := Encode(h)
	if len(buf) != HeaderSize {
		t.Fatalf("encoded header length = %d, want %d", len(buf), HeaderSize)
	}

	if got := Decode(buf); !cmp.Equal(got, h) {
		t.Fatalf("Decode(Encode(h)) mismatch (-got +want):\n%s", cmp.Diff(got, h))
	}
	if h.RecordLen != uint32(HeaderSize+3+5) {
		t.Fatalf("RecordLen = %d, want %d", h.RecordLen, HeaderSize+3+5)
	}
}

func TestEncodeDecodeTombstoneHeader(t *testing.T) {
	h := NewTombstoneHeader(7)
	got := Decode(Encode(h))
	if !cmp.Equal(got, h) {
		t.Fatalf("Decode(Encode(h)) mismatch (-got +want):\n%s", cmp.Diff(got, h))
	}
	if got.Type != TypeTombstone {
		t.Fatalf("Type = %v, want TypeTombstone", got.Type)
	}
	if got.ValLen != 0 {
		t.Fatalf("ValLen = %d, want 0 for tombstone", got.ValLen)
	}
}

func TestHeaderLayoutOffsets(t *testing.T) {
	h := Header{RecordLen: 0x04030201, Type: TypePut, KeyLen: 0x0605, ValLen: 0x0a090807}
	buf := Encode(h)

	want := []byte{0x01, 0x02, 0x03, 0x04, 1, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a}
	if !cmp.Equal(buf, want) {
		t.Fatalf("Encode layout mismatch (-got +want):\n%s", cmp.Diff(buf, want))
	}
}
