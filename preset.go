package soundfont

import (
	"github.com/pkg/errors"

	"github.com/husafan/soundfont/zone"
)

// ErrNoLink is returned when a zone has no terminator generator to follow.
var ErrNoLink = errors.New("zone does not reference an instrument or sample")

// Preset is a loaded "phdr" entry with its zones.
type Preset struct {
	zone.WithZones[PresetHeader]
	font *SoundFont
}

func (p *Preset) Name() string { return p.Configuration().Name() }

func (p *Preset) Program() int { return int(p.Configuration().Program) }

func (p *Preset) Bank() int { return int(p.Configuration().Bank) }

// Instrument follows a preset zone's "instrument" generator.
func (p *Preset) Instrument(z *zone.Zone) (*Instrument, error) {
	index, ok := z.Link()
	if !ok {
		return nil, errors.WithStack(ErrNoLink)
	}
	if index >= len(p.font.Instruments) {
		return nil, errors.Wrapf(ErrBadIndex, "instrument %d of %d", index, len(p.font.Instruments))
	}
	instrument := p.font.Instruments[index]
	if instrument == nil {
		return nil, errors.Errorf("instrument %d was not loaded", index)
	}
	return instrument, nil
}

// Instrument is a loaded "inst" entry with its zones.
type Instrument struct {
	zone.WithZones[InstrumentHeader]
	font *SoundFont
}

func (i *Instrument) Name() string { return i.Configuration().Name() }

// Sample follows an instrument zone's "sampleID" generator.
func (i *Instrument) Sample(z *zone.Zone) (SampleHeader, error) {
	index, ok := z.Link()
	if !ok {
		return SampleHeader{}, errors.WithStack(ErrNoLink)
	}
	if index >= len(i.font.SampleHeaders) {
		return SampleHeader{}, errors.Wrapf(ErrBadIndex, "sample %d of %d", index, len(i.font.SampleHeaders))
	}
	return i.font.SampleHeaders[index], nil
}

// Preset finds the first loaded preset with the given bank and program.
func (sf *SoundFont) Preset(bank, program int) (*Preset, bool) {
	for _, p := range sf.Presets {
		if p != nil && p.Bank() == bank && p.Program() == program {
			return p, true
		}
	}
	return nil, false
}
