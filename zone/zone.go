/*
Package zone groups generator records into SF2 zones and resolves the
effective generator values of a Preset or Instrument across its global
zone and specific zones.
*/
package zone

import (
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/husafan/soundfont/generator"
)

// tracer writes to trace with key 'soundfont.zone'
func tracer() tracing.Trace {
	return tracing.Select("soundfont.zone")
}

var validate = validator.New()

// Owner tells which kind of entity a zone belongs to.
type Owner uint8

const (
	PresetOwner Owner = iota
	InstrumentOwner
)

// Terminator is the generator that links a specific zone to the next level
// down: "instrument" for preset zones, "sampleID" for instrument zones.
func (o Owner) Terminator() generator.Kind {
	if o == InstrumentOwner {
		return generator.SampleID
	}
	return generator.Instrument
}

func (o Owner) String() string {
	if o == InstrumentOwner {
		return "instrument"
	}
	return "preset"
}

// Zone is an immutable set of generators with optional key and velocity
// ranges.
type Zone struct {
	owner         Owner
	generators    generator.Table
	keyRange      *generator.KeyVelRange
	velocityRange *generator.KeyVelRange
	global        bool
}

/*
New builds a zone from its slice of generator records. The slice is copied.
A zone without its owner's terminator generator, including an empty one, is
global.
*/
func New(owner Owner, gens []generator.Record) *Zone {
	z := &Zone{
		owner:      owner,
		generators: append(generator.Table(nil), gens...),
		global:     true,
	}
	terminator := owner.Terminator()
	for _, r := range z.generators {
		switch r.Kind {
		case generator.KeyRange:
			if z.keyRange == nil {
				rng := generator.RangeOf(r.Amount)
				z.keyRange = &rng
			}
		case generator.VelRange:
			if z.velocityRange == nil {
				rng := generator.RangeOf(r.Amount)
				z.velocityRange = &rng
			}
		case terminator:
			z.global = false
		}
	}
	return z
}

func (z *Zone) Owner() Owner { return z.owner }

// Generators returns a copy of the zone's records in file order.
func (z *Zone) Generators() generator.Table { return slices.Clone(z.generators) }

// IsGlobal reports whether the zone only supplies defaults.
func (z *Zone) IsGlobal() bool { return z.global }

func (z *Zone) KeyRange() (generator.KeyVelRange, bool) {
	if z.keyRange == nil {
		return generator.KeyVelRange{}, false
	}
	return *z.keyRange, true
}

func (z *Zone) VelocityRange() (generator.KeyVelRange, bool) {
	if z.velocityRange == nil {
		return generator.KeyVelRange{}, false
	}
	return *z.velocityRange, true
}

// Find looks kind up in the zone's own generators only.
func (z *Zone) Find(kind generator.Kind) (generator.Amount, bool) {
	return z.generators.Find(kind)
}

// Link returns the index carried by the terminator generator: the
// instrument of a preset zone or the sample of an instrument zone.
func (z *Zone) Link() (int, bool) {
	amount, ok := z.generators.Find(z.owner.Terminator())
	if !ok {
		return 0, false
	}
	return int(amount), true
}

// Matches reports whether key and velocity fall inside the zone's ranges.
// A missing range matches everything on its axis.
func (z *Zone) Matches(key, velocity uint8) bool {
	if z.keyRange != nil && !z.keyRange.Contains(key) {
		return false
	}
	if z.velocityRange != nil && !z.velocityRange.Contains(velocity) {
		return false
	}
	return true
}

/*
Validate checks that the key and velocity ranges are ordered MIDI values
and that a preset zone carries no instrument-only generator. Every problem
found is reported; the result matches each cause with errors.Is.
*/
func (z *Zone) Validate() error {
	var err error
	if z.owner == PresetOwner {
		for _, r := range z.generators {
			if def, ok := r.Kind.Definition(); ok && def.InstrumentOnly {
				err = multierr.Append(err, errors.Wrapf(ErrInstrumentOnly, "%s", r.Kind))
			}
		}
	}
	if z.keyRange != nil {
		if verr := validate.Struct(z.keyRange); verr != nil {
			err = multierr.Append(err, errors.Wrapf(verr, "keyRange %s", z.keyRange))
		}
	}
	if z.velocityRange != nil {
		if verr := validate.Struct(z.velocityRange); verr != nil {
			err = multierr.Append(err, errors.Wrapf(verr, "velRange %s", z.velocityRange))
		}
	}
	return err
}
