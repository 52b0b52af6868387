package generator

import "fmt"

// Amount is the raw 2-byte amount slot of a generator record, as it was read
// little-endian from the file. Use Value to interpret it for a given kind.
type Amount uint16

// Value interprets the amount as the given kind defines it.
func (a Amount) Value(kind Kind) Value {
	def, _ := kind.Definition()
	v := Value{Interpretation: def.Interpretation}
	switch def.Interpretation {
	case Signed:
		v.Signed = int16(a)
	case Range:
		v.Range = RangeOf(a)
	default:
		v.Unsigned = uint16(a)
	}
	return v
}

// RangeAmount packs a low/high pair the way the file stores it: low byte
// first.
func RangeAmount(low, high uint8) Amount {
	return Amount(uint16(high)<<8 | uint16(low))
}

// SignedAmount stores a signed scalar in an amount slot.
func SignedAmount(v int16) Amount { return Amount(uint16(v)) }

/*
KeyVelRange is a low/high pair of MIDI key or velocity values. Decoding does
not enforce Low <= High; Validate does.
*/
type KeyVelRange struct {
	Low  uint8 `json:"low" yaml:"low" validate:"lte=127"`
	High uint8 `json:"high" yaml:"high" validate:"lte=127,gtefield=Low"`
}

// RangeOf splits an amount into its (low byte, high byte) pair.
func RangeOf(a Amount) KeyVelRange {
	return KeyVelRange{Low: uint8(a & 0xFF), High: uint8(a >> 8)}
}

// Contains reports whether v lies within [Low, High].
func (r KeyVelRange) Contains(v uint8) bool {
	return v >= r.Low && v <= r.High
}

func (r KeyVelRange) String() string {
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// Value is an amount tagged with the interpretation of its kind. Only the
// field named by Interpretation is meaningful.
type Value struct {
	Interpretation Interpretation
	Unsigned       uint16
	Signed         int16
	Range          KeyVelRange
}

// Int returns the scalar as an int. Range values yield their low byte.
func (v Value) Int() int {
	switch v.Interpretation {
	case Signed:
		return int(v.Signed)
	case Range:
		return int(v.Range.Low)
	}
	return int(v.Unsigned)
}

func (v Value) String() string {
	switch v.Interpretation {
	case Signed:
		return fmt.Sprintf("%d", v.Signed)
	case Range:
		return v.Range.String()
	}
	return fmt.Sprintf("%d", v.Unsigned)
}
