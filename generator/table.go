package generator

// Table is the ordered list of generator records of one zone, in file order.
type Table []Record

/*
Find returns the amount of the first record of the given kind. SF2 writers
put the authoritative value first when a kind repeats, so later duplicates
are ignored. A miss is not an error: the caller falls back to a default.
*/
func (t Table) Find(kind Kind) (Amount, bool) {
	for _, r := range t {
		if r.Kind == kind {
			return r.Amount, true
		}
	}
	return 0, false
}

// Contains reports whether a record of the given kind is present.
func (t Table) Contains(kind Kind) bool {
	_, ok := t.Find(kind)
	return ok
}

/*
DecodeTable decodes the body of a "pgen" or "igen" sub-chunk. If the body
ends in a partial record the records decoded so far are returned together
with an error matching ErrTruncatedRecord.
*/
func DecodeTable(data []byte) (Table, error) {
	cursor := NewCursor(data)
	table := make(Table, 0, len(data)/RecordSize)
	for cursor.Remaining() > 0 {
		r, err := DecodeRecord(cursor)
		if err != nil {
			return table, err
		}
		table = append(table, r)
	}
	return table, nil
}

// MarshalBinary encodes every record of the table back to back.
func (t Table) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, len(t)*RecordSize)
	for _, r := range t {
		b, _ = r.AppendBinary(b)
	}
	return b, nil
}

// Set holds one resolved amount per known kind, indexed by Kind.
type Set [NumKinds]Amount

// DefaultSet returns a Set filled with every kind's default amount.
func DefaultSet() Set {
	var s Set
	for k := range s {
		s[k] = Kind(k).Default()
	}
	return s
}

// Get returns the amount stored for kind, or its default when kind is unknown.
func (s *Set) Get(kind Kind) Amount {
	if !kind.Known() {
		return kind.Default()
	}
	return s[kind]
}

// Value interprets the amount stored for kind.
func (s *Set) Value(kind Kind) Value {
	return s.Get(kind).Value(kind)
}
