package types

import "fmt"

// BlobValue is a growable byte buffer, the backing store for the
// Get/Set Byte/Word/Long/Str special-command family (spec §4.2, §8).
// Cheap to clone per spec §3 ("Null cheap to clone... kinds are small
// and copied") except this one kind: copies share one buffer, so a
// write through one copy is seen by the others, unless the write grows
// the buffer, which gives the written copy a fresh one.
type BlobValue struct {
	bytes *[]byte
}

func NewBlob(size int) BlobValue {
	b := make([]byte, size)
	return BlobValue{bytes: &b}
}

func NewBlobFrom(data []byte) BlobValue {
	b := append([]byte(nil), data...)
	return BlobValue{bytes: &b}
}

func (b BlobValue) Type() TypeCode { return TYPE_BLOB }
func (b BlobValue) String() string { return fmt.Sprintf("<blob:%d bytes>", b.Len()) }
func (b BlobValue) Truthy() bool   { return b.Len() > 0 }
func (b BlobValue) Equal(o Value) bool {
	other, ok := o.(BlobValue)
	if !ok || b.bytes == nil || other.bytes == nil {
		return false
	}
	return string(*b.bytes) == string(*other.bytes)
}

func (b BlobValue) Len() int {
	if b.bytes == nil {
		return 0
	}
	return len(*b.bytes)
}

func (b BlobValue) Bytes() []byte {
	if b.bytes == nil {
		return nil
	}
	return *b.bytes
}

// growTo extends the buffer so position p (0-based) plus n bytes fit.
func (b *BlobValue) growTo(p, n int) {
	need := p + n
	if need <= b.Len() {
		return
	}
	grown := make([]byte, need)
	copy(grown, *b.bytes)
	b.bytes = &grown
}

// GetByte reads the byte at position p (0-based). Positions beyond the
// buffer read as 0, matching a zero-initialized blob.
func (b BlobValue) GetByte(p int) int32 {
	if p < 0 || p >= b.Len() {
		return 0
	}
	return int32((*b.bytes)[p])
}

// SetByte writes x & 0xFF at position p, growing the buffer if needed.
func (b *BlobValue) SetByte(p int, x int32) {
	b.growTo(p, 1)
	(*b.bytes)[p] = byte(x & 0xFF)
}

// GetWord reads an unsigned 16-bit big-endian word at position p.
func (b BlobValue) GetWord(p int) int32 {
	hi := b.GetByte(p)
	lo := b.GetByte(p + 1)
	return (hi << 8) | lo
}

// GetWordSigned reads the same 16 bits but sign-extends when the high
// bit is set (spec §8: "signed-extension applies for GetWord of values
// with high bit set").
func (b BlobValue) GetWordSigned(p int) int32 {
	w := b.GetWord(p)
	if w&0x8000 != 0 {
		return w - 0x10000
	}
	return w
}

// SetWord writes x & 0xFFFF as a big-endian 16-bit word at position p.
func (b *BlobValue) SetWord(p int, x int32) {
	v := x & 0xFFFF
	b.SetByte(p, (v>>8)&0xFF)
	b.SetByte(p+1, v&0xFF)
}

// GetLong reads a 32-bit big-endian long at position p.
func (b BlobValue) GetLong(p int) int32 {
	hi := b.GetWord(p)
	lo := b.GetWord(p + 2)
	return (hi << 16) | lo
}

// SetLong writes a 32-bit big-endian long at position p.
func (b *BlobValue) SetLong(p int, x int32) {
	b.SetWord(p, (x>>16)&0xFFFF)
	b.SetWord(p+2, x&0xFFFF)
}

// GetStr reads a NUL-terminated (or buffer-end-terminated) string
// starting at position p.
func (b BlobValue) GetStr(p int) string {
	if p < 0 || p >= b.Len() {
		return ""
	}
	buf := *b.bytes
	end := p
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	return string(buf[p:end])
}

// SetStr writes s followed by a NUL terminator at position p.
func (b *BlobValue) SetStr(p int, s string) {
	b.growTo(p, len(s)+1)
	copy((*b.bytes)[p:], s)
	(*b.bytes)[p+len(s)] = 0
}
