// Package record defines the on-disk layout of a kvforge log entry and the
// pure byte-level codec for it. A record is a self-describing range of
// bytes: an 11-byte packed header followed by the raw key and, for live
// puts, the raw value.
package record

import "encoding/binary"

// Type distinguishes a live put from a tombstone.
type Type uint8

const (
	// TypePut marks a record carrying a live value.
	TypePut Type = 1
	// TypeTombstone marks a record recording the deletion of a key.
	TypeTombstone Type = 2
)

// HeaderSize is the fixed, packed width of a record header in bytes:
// record_len(4) + record_type(1) + key_len(2) + val_len(4).
const HeaderSize = 11

// Header is the decoded form of the 11-byte record header.
type Header struct {
	RecordLen uint32 // total bytes of the record, header included
	Type      Type   // TypePut or TypeTombstone
	KeyLen    uint16 // length of the key in bytes
	ValLen    uint32 // length of the value in bytes (0 for tombstones)
}

// NewPutHeader builds the header for a live put of the given key/value sizes.
func NewPutHeader(keyLen, valLen int) Header {
	return Header{
		RecordLen: uint32(HeaderSize + keyLen + valLen),
		Type:      TypePut,
		KeyLen:    uint16(keyLen),
		ValLen:    uint32(valLen),
	}
}

// NewTombstoneHeader builds the header for a tombstone of the given key size.
func NewTombstoneHeader(keyLen int) Header {
	return Header{
		RecordLen: uint32(HeaderSize + keyLen),
		Type:      TypeTombstone,
		KeyLen:    uint16(keyLen),
		ValLen:    0,
	}
}

// Encode packs h into an 11-byte little-endian buffer, per the wire layout
// in SPEC_FULL.md §5. It performs no validation; callers are expected to
// build headers through NewPutHeader/NewTombstoneHeader.
func Encode(h Header) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.RecordLen)
	buf[4] = byte(h.Type)
	binary.LittleEndian.PutUint16(buf[5:7], h.KeyLen)
	binary.LittleEndian.PutUint32(buf[7:11], h.ValLen)
	return buf
}

// Decode is the inverse of Encode. buf must be at least HeaderSize bytes;
// Decode never validates record_len against key_len/val_len — that check,
// when wanted, belongs to the caller (see internal/store's replay loop).
func Decode(buf []byte) Header {
	return Header{
		RecordLen: binary.LittleEndian.Uint32(buf[0:4]),
		Type:      Type(buf[4]),
		KeyLen:    binary.LittleEndian.Uint16(buf[5:7]),
		ValLen:    binary.LittleEndian.Uint32(buf[7:11]),
	}
}
