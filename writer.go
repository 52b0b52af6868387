package soundfont

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/husafan/soundfont/generator"
)

/**
 * A Builder assembles the preset structure of a bank in memory and writes it
 * out as a minimal SF2 file: an INFO list with "ifil" and "INAM", an empty
 * "sdta" list and a complete "pdta" list, terminal records included.
 * Modulator chunks are written with only their terminal record.
 */
type Builder struct {
	Name        string
	Version     Version
	presets     []builtEntity[PresetHeader]
	instruments []builtEntity[InstrumentHeader]
	samples     []SampleHeader
}

type builtEntity[H any] struct {
	header H
	zones  []generator.Table
}

/**
 * Returns a Builder for a bank called name, declaring SF2 version 2.1.
 */
func NewBuilder(name string) *Builder {
	return &Builder{Name: name, Version: Version{Major: 2, Minor: 1}}
}

/**
 * Adds a sample header and returns the index a "sampleID" generator uses to
 * reference it.
 */
func (b *Builder) AddSample(name string, sampleRate uint32, originalPitch uint8) int {
	b.samples = append(b.samples, SampleHeader{
		RawName:       nameBytes(name),
		SampleRate:    sampleRate,
		OriginalPitch: originalPitch,
		SampleType:    1,
	})
	return len(b.samples) - 1
}

/**
 * Adds an instrument with one zone per generator table and returns the index
 * an "instrument" generator uses to reference it.
 */
func (b *Builder) AddInstrument(name string, zones ...generator.Table) int {
	b.instruments = append(b.instruments, builtEntity[InstrumentHeader]{
		header: InstrumentHeader{RawName: nameBytes(name)},
		zones:  zones,
	})
	return len(b.instruments) - 1
}

/**
 * Adds a preset with one zone per generator table.
 */
func (b *Builder) AddPreset(name string, bank, program uint16, zones ...generator.Table) int {
	b.presets = append(b.presets, builtEntity[PresetHeader]{
		header: PresetHeader{RawName: nameBytes(name), Bank: bank, Program: program},
		zones:  zones,
	})
	return len(b.presets) - 1
}

/**
 * Writes the bank to w. This method satisfies the io.WriterTo interface.
 */
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	var info, pdta, form bytes.Buffer

	info.WriteString(Info)
	writeChunk(&info, "ifil", mustBinary(b.Version))
	writeChunk(&info, "INAM", zeroPadded(b.Name))

	pdta.WriteString(Pdta)
	b.writePresets(&pdta)
	b.writeInstruments(&pdta)
	samples := append(append([]SampleHeader(nil), b.samples...), SampleHeader{RawName: nameBytes("EOS")})
	writeChunk(&pdta, "shdr", mustBinary(samples))

	form.WriteString(Sfbk)
	writeChunk(&form, List, info.Bytes())
	writeChunk(&form, List, []byte(Sdta))
	writeChunk(&form, List, pdta.Bytes())

	var file bytes.Buffer
	writeChunk(&file, Riff, form.Bytes())
	n, err := w.Write(file.Bytes())
	if err != nil {
		return int64(n), errors.Wrap(err, "writing sfbk")
	}
	return int64(n), nil
}

func (b *Builder) writePresets(pdta *bytes.Buffer) {
	headers := make([]PresetHeader, 0, len(b.presets)+1)
	levels := make([][]generator.Table, 0, len(b.presets))
	for _, p := range b.presets {
		headers = append(headers, p.header)
		levels = append(levels, p.zones)
	}
	bagIndexes, bags, gens := flatten(levels)
	for i := range headers {
		headers[i].BagIndex = bagIndexes[i]
	}
	headers = append(headers, PresetHeader{RawName: nameBytes("EOP"), BagIndex: uint16(len(bags) - 1)})

	writeChunk(pdta, "phdr", mustBinary(headers))
	writeChunk(pdta, "pbag", mustBinary(bags))
	writeChunk(pdta, "pmod", make([]byte, modulatorSize))
	writeChunk(pdta, "pgen", gens)
}

func (b *Builder) writeInstruments(pdta *bytes.Buffer) {
	headers := make([]InstrumentHeader, 0, len(b.instruments)+1)
	levels := make([][]generator.Table, 0, len(b.instruments))
	for _, i := range b.instruments {
		headers = append(headers, i.header)
		levels = append(levels, i.zones)
	}
	bagIndexes, bags, gens := flatten(levels)
	for i := range headers {
		headers[i].BagIndex = bagIndexes[i]
	}
	headers = append(headers, InstrumentHeader{RawName: nameBytes("EOI"), BagIndex: uint16(len(bags) - 1)})

	writeChunk(pdta, "inst", mustBinary(headers))
	writeChunk(pdta, "ibag", mustBinary(bags))
	writeChunk(pdta, "imod", make([]byte, modulatorSize))
	writeChunk(pdta, "igen", gens)
}

/**
 * Lays out the zones of every entity of one level as bag and generator
 * records. Returns each entity's first bag, the bags (terminal included) and
 * the encoded generators (terminal included).
 */
func flatten(levels [][]generator.Table) ([]uint16, []Bag, []byte) {
	var bagIndexes []uint16
	var bags []Bag
	var gens generator.Table
	for _, zones := range levels {
		bagIndexes = append(bagIndexes, uint16(len(bags)))
		for _, z := range zones {
			bags = append(bags, Bag{GeneratorIndex: uint16(len(gens))})
			gens = append(gens, z...)
		}
	}
	bags = append(bags, Bag{GeneratorIndex: uint16(len(gens))})
	gens = append(gens, generator.Record{})
	encoded, _ := gens.MarshalBinary()
	return bagIndexes, bags, encoded
}

func writeChunk(buffer *bytes.Buffer, id string, body []byte) {
	buffer.WriteString(id)
	binary.Write(buffer, binary.LittleEndian, uint32(len(body)))
	buffer.Write(body)
	if len(body)%2 == 1 {
		buffer.WriteByte(0)
	}
}

// mustBinary encodes fixed-size values; writing to a bytes.Buffer cannot fail.
func mustBinary(data any) []byte {
	var buffer bytes.Buffer
	if err := binary.Write(&buffer, binary.LittleEndian, data); err != nil {
		panic(err)
	}
	return buffer.Bytes()
}

func zeroPadded(s string) []byte {
	b := append([]byte(s), 0)
	if len(b)%2 == 1 {
		b = append(b, 0)
	}
	return b
}
