package generator

import (
	"encoding/binary"
	"unsafe"

	"github.com/pkg/errors"
)

// RecordSize is the on-disk size of a "pgen"/"igen" entry.
const RecordSize = 4

const (
	TruncatedError = "%d bytes remain at offset %d; a generator record needs %d"
)

// ErrTruncatedRecord is returned when fewer than RecordSize bytes remain.
var ErrTruncatedRecord = errors.New("truncated generator record")

// rawRecord is the file layout of a record.
type rawRecord struct {
	Kind   uint16
	Amount uint16
}

// Fails to compile unless rawRecord occupies exactly RecordSize bytes.
var _ [RecordSize]byte = [unsafe.Sizeof(rawRecord{})]byte{}

// Record is one decoded generator: an operator and its raw amount.
type Record struct {
	Kind   Kind
	Amount Amount
}

// Value interprets the record's amount for its own kind.
func (r Record) Value() Value { return r.Amount.Value(r.Kind) }

func (r Record) String() string {
	return r.Kind.String() + ": " + r.Value().String()
}

/*
Cursor is a read position over an already resident byte range, typically
the body of a "pgen" or "igen" sub-chunk. It never copies the bytes.
*/
type Cursor struct {
	data   []byte
	offset int
}

// NewCursor returns a Cursor positioned at the first byte of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Offset is the number of bytes consumed so far.
func (c *Cursor) Offset() int { return c.offset }

// Remaining is the number of bytes left to read.
func (c *Cursor) Remaining() int { return len(c.data) - c.offset }

/*
DecodeRecord reads one generator record at the cursor and advances it by
RecordSize. If fewer than RecordSize bytes remain the cursor is left where
it was and the error matches ErrTruncatedRecord.
*/
func DecodeRecord(c *Cursor) (Record, error) {
	if c.Remaining() < RecordSize {
		return Record{}, errors.Wrapf(ErrTruncatedRecord, TruncatedError,
			c.Remaining(), c.offset, RecordSize)
	}
	var r Record
	if err := r.UnmarshalBinary(c.data[c.offset : c.offset+RecordSize]); err != nil {
		return Record{}, err
	}
	c.offset += RecordSize
	return r, nil
}

/*
UnmarshalBinary overlays exactly RecordSize little-endian bytes onto the
receiver. This method satisfies the encoding.BinaryUnmarshaler interface.
*/
func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) < RecordSize {
		return errors.Wrapf(ErrTruncatedRecord, TruncatedError, len(data), 0, RecordSize)
	}
	r.Kind = Kind(binary.LittleEndian.Uint16(data[0:2]))
	r.Amount = Amount(binary.LittleEndian.Uint16(data[2:4]))
	return nil
}

// MarshalBinary encodes the record in its 4-byte file layout.
func (r Record) MarshalBinary() ([]byte, error) {
	return r.AppendBinary(make([]byte, 0, RecordSize))
}

// AppendBinary appends the record's file layout to b.
func (r Record) AppendBinary(b []byte) ([]byte, error) {
	b = binary.LittleEndian.AppendUint16(b, uint16(r.Kind))
	b = binary.LittleEndian.AppendUint16(b, uint16(r.Amount))
	return b, nil
}
