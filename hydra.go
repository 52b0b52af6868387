package soundfont

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/husafan/soundfont/generator"
	"github.com/husafan/soundfont/zone"
)

const (
	nameLength = 20

	presetHeaderSize     = 38
	bagSize              = 4
	instrumentHeaderSize = 22
	sampleHeaderSize     = 46
	modulatorSize        = 10
)

// ErrBadIndex is returned when a header or bag index points outside its
// table.
var ErrBadIndex = errors.New("index out of range")

/*
PresetHeader is one "phdr" record (38 bytes). BagIndex is the first "pbag"
entry of the preset; the next header's BagIndex ends its range.
*/
type PresetHeader struct {
	RawName    [nameLength]byte
	Program    uint16
	Bank       uint16
	BagIndex   uint16
	Library    uint32
	Genre      uint32
	Morphology uint32
}

func (h PresetHeader) Name() string { return zeroTerminated(h.RawName[:]) }

// Bag is one "pbag" or "ibag" record: where a zone's generators and
// modulators start.
type Bag struct {
	GeneratorIndex uint16
	ModulatorIndex uint16
}

// InstrumentHeader is one "inst" record (22 bytes).
type InstrumentHeader struct {
	RawName  [nameLength]byte
	BagIndex uint16
}

func (h InstrumentHeader) Name() string { return zeroTerminated(h.RawName[:]) }

// SampleHeader is one "shdr" record (46 bytes). Only the description is
// kept; the sample data it points at is never read.
type SampleHeader struct {
	RawName         [nameLength]byte
	Start           uint32
	End             uint32
	StartLoop       uint32
	EndLoop         uint32
	SampleRate      uint32
	OriginalPitch   uint8
	PitchCorrection int8
	SampleLink      uint16
	SampleType      uint16
}

func (h SampleHeader) Name() string { return zeroTerminated(h.RawName[:]) }

func nameBytes(name string) [nameLength]byte {
	var b [nameLength]byte
	copy(b[:nameLength-1], name)
	return b
}

// decodeRecords overlays a whole sub-chunk onto a slice of fixed-size
// records.
func decodeRecords[T any](chunks map[string][]byte, id string, size int) ([]T, error) {
	data, ok := chunks[id]
	if !ok {
		return nil, errors.Errorf(MissingChunkError, id)
	}
	if len(data)%size != 0 {
		return nil, errors.Errorf(ChunkSizeError, id, len(data), size)
	}
	records := make([]T, len(data)/size)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, records); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", id)
	}
	return records, nil
}

// hydra is the decoded half of one level (presets or instruments) of the
// "pdta" list.
type hydra struct {
	owner      zone.Owner
	bags       []Bag
	generators generator.Table
	// genErr is set when the generator chunk ended in a partial record.
	genErr error
}

func readLevel(chunks map[string][]byte, owner zone.Owner, bagID, genID string) (*hydra, error) {
	bags, err := decodeRecords[Bag](chunks, bagID, bagSize)
	if err != nil {
		return nil, err
	}
	data, ok := chunks[genID]
	if !ok {
		return nil, errors.Errorf(MissingChunkError, genID)
	}
	h := &hydra{owner: owner, bags: bags}
	h.generators, h.genErr = generator.DecodeTable(data)
	if h.genErr != nil {
		h.genErr = errors.Wrap(h.genErr, genID)
		tracer().Errorf("%v", h.genErr)
	}
	return h, nil
}

/*
zones builds the collection for the entity whose bags are [first, last).
Each bag's generators run up to the next bag's generator index.
*/
func (h *hydra) zones(first, last int) (*zone.Collection, error) {
	if first > last || last >= len(h.bags) {
		return nil, errors.Wrapf(ErrBadIndex, "bags [%d,%d) of %d", first, last, len(h.bags))
	}
	bounds := make([]zone.Bounds, 0, last-first)
	for i := first; i < last; i++ {
		b := zone.Bounds{
			Start: int(h.bags[i].GeneratorIndex),
			End:   int(h.bags[i+1].GeneratorIndex),
		}
		if h.genErr != nil && b.End > len(h.generators) {
			return nil, h.genErr
		}
		bounds = append(bounds, b)
	}
	return zone.Build(h.owner, h.generators, bounds)
}

func (sf *SoundFont) readHydra(chunks map[string][]byte) error {
	phdr, err := decodeRecords[PresetHeader](chunks, "phdr", presetHeaderSize)
	if err != nil {
		return err
	}
	inst, err := decodeRecords[InstrumentHeader](chunks, "inst", instrumentHeaderSize)
	if err != nil {
		return err
	}
	shdr, err := decodeRecords[SampleHeader](chunks, "shdr", sampleHeaderSize)
	if err != nil {
		return err
	}
	presetLevel, err := readLevel(chunks, zone.PresetOwner, "pbag", "pgen")
	if err != nil {
		return err
	}
	instrumentLevel, err := readLevel(chunks, zone.InstrumentOwner, "ibag", "igen")
	if err != nil {
		return err
	}

	// The last record of each header list is a terminal sentinel.
	sf.PresetHeaders = dropTerminal(phdr)
	sf.InstrumentHeaders = dropTerminal(inst)
	sf.SampleHeaders = dropTerminal(shdr)

	sf.Instruments = make([]*Instrument, len(sf.InstrumentHeaders))
	for i := range sf.InstrumentHeaders {
		zones, err := instrumentLevel.zones(int(inst[i].BagIndex), int(inst[i+1].BagIndex))
		if err != nil {
			sf.problem(err, "instrument %d %q", i, inst[i].Name())
			continue
		}
		sf.diagnose(zones, "instrument %d %q", i, inst[i].Name())
		sf.Instruments[i] = &Instrument{
			WithZones: zone.NewWithZones(zones, sf.InstrumentHeaders, i),
			font:      sf,
		}
	}

	sf.Presets = make([]*Preset, len(sf.PresetHeaders))
	for i := range sf.PresetHeaders {
		zones, err := presetLevel.zones(int(phdr[i].BagIndex), int(phdr[i+1].BagIndex))
		if err != nil {
			sf.problem(err, "preset %d %q", i, phdr[i].Name())
			continue
		}
		sf.diagnose(zones, "preset %d %q", i, phdr[i].Name())
		sf.Presets[i] = &Preset{
			WithZones: zone.NewWithZones(zones, sf.PresetHeaders, i),
			font:      sf,
		}
	}
	return nil
}

func dropTerminal[T any](records []T) []T {
	if len(records) == 0 {
		return records
	}
	return records[:len(records)-1]
}

func (sf *SoundFont) problem(err error, format string, args ...any) {
	err = errors.Wrapf(err, format, args...)
	tracer().Errorf("skipping %v", err)
	sf.Problems = append(sf.Problems, err)
}

func (sf *SoundFont) diagnose(zones *zone.Collection, format string, args ...any) {
	for _, d := range zones.Diagnostics() {
		sf.Diagnostics = append(sf.Diagnostics, errors.Wrapf(d, format, args...))
	}
	for i, z := range zones.All() {
		if err := z.Validate(); err != nil {
			err = errors.Wrapf(err, "zone %d", i)
			sf.Diagnostics = append(sf.Diagnostics, errors.Wrapf(err, format, args...))
		}
	}
}
