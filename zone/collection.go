package zone

import (
	"iter"
	"slices"

	"github.com/pkg/errors"

	"github.com/husafan/soundfont/generator"
)

const (
	MisplacedError = "zone %d of %d is global; only the first zone may be"
	BoundsError    = "zone %d spans generators [%d,%d) of %d"
)

var (
	// ErrMisplacedGlobalZone marks a global zone found after the first
	// position. It is reported, not fatal.
	ErrMisplacedGlobalZone = errors.New("misplaced global zone")
	// ErrNoGlobalZone is returned by GlobalZone when there is none.
	ErrNoGlobalZone = errors.New("no global zone")
	// ErrBadBounds is returned when a zone's generator bounds fall outside
	// the generator table.
	ErrBadBounds = errors.New("generator bounds out of range")
	// ErrInstrumentOnly is returned by Validate for a preset zone using a
	// generator only allowed at instrument level.
	ErrInstrumentOnly = errors.New("instrument-only generator in preset zone")
)

// Bounds delimits a zone's generators in the file-wide generator table as
// the half-open range [Start, End).
type Bounds struct {
	Start int
	End   int
}

/*
Collection is the ordered list of zones of one Preset or Instrument. Only
the first zone may be the global zone; it is kept apart from the specific
zones. A global zone found anywhere else is recorded as a diagnostic and
treated as a specific zone.
*/
type Collection struct {
	zones       []*Zone
	global      *Zone
	specific    []*Zone
	diagnostics []error
}

// NewCollection partitions zones into the global zone and specific zones.
func NewCollection(zones []*Zone) *Collection {
	c := &Collection{zones: zones}
	for i, z := range zones {
		switch {
		case i == 0 && z.IsGlobal():
			c.global = z
			continue
		case z.IsGlobal():
			err := errors.Wrapf(ErrMisplacedGlobalZone, MisplacedError, i, len(zones))
			tracer().Infof("%s zone collection: %v", z.Owner(), err)
			c.diagnostics = append(c.diagnostics, err)
		}
		c.specific = append(c.specific, z)
	}
	return c
}

/*
Build carves one zone per bounds entry out of the file-wide generator table
and partitions them. Bounds come from the bag records of the owning Preset
or Instrument.
*/
func Build(owner Owner, table generator.Table, bounds []Bounds) (*Collection, error) {
	zones := make([]*Zone, 0, len(bounds))
	for i, b := range bounds {
		if b.Start < 0 || b.End < b.Start || b.End > len(table) {
			return nil, errors.Wrapf(ErrBadBounds, BoundsError, i, b.Start, b.End, len(table))
		}
		zones = append(zones, New(owner, table[b.Start:b.End]))
	}
	return NewCollection(zones), nil
}

// Len is the number of zones, global zone included.
func (c *Collection) Len() int { return len(c.zones) }

// All returns a copy of every zone in file order.
func (c *Collection) All() []*Zone { return slices.Clone(c.zones) }

// Specific returns a copy of the zones that are not the global zone, in file
// order.
func (c *Collection) Specific() []*Zone { return slices.Clone(c.specific) }

func (c *Collection) HasGlobal() bool { return c.global != nil }

func (c *Collection) Global() (*Zone, error) {
	if c.global == nil {
		return nil, errors.WithStack(ErrNoGlobalZone)
	}
	return c.global, nil
}

// Diagnostics lists the non-fatal anomalies found while partitioning.
func (c *Collection) Diagnostics() []error { return slices.Clone(c.diagnostics) }

/*
Matching yields, in stored order, the specific zones whose ranges contain
key and velocity. The sequence is lazy and can be ranged over any number of
times.
*/
func (c *Collection) Matching(key, velocity uint8) iter.Seq[*Zone] {
	return func(yield func(*Zone) bool) {
		for _, z := range c.specific {
			if z.Matches(key, velocity) && !yield(z) {
				return
			}
		}
	}
}
