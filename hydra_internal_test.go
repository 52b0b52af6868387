package soundfont

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/husafan/soundfont/generator"
	"github.com/husafan/soundfont/zone"
)

// pdtaChunks builds a bank and returns its "pdta" sub-chunks, which are the
// last LIST of the file.
func pdtaChunks(t *testing.T, b *Builder) map[string][]byte {
	var buffer bytes.Buffer
	_, err := b.WriteTo(&buffer)
	require.Nil(t, err)
	data := buffer.Bytes()
	i := bytes.LastIndex(data, []byte(Pdta))
	require.True(t, i > 0)
	chunks, err := splitChunks(data[i+4:])
	require.Nil(t, err)
	return chunks
}

func twoPresetBuilder() *Builder {
	b := NewBuilder("Truncated")
	b.AddSample("s", 44100, 60)
	inst := generator.Amount(b.AddInstrument("i", generator.Table{{Kind: generator.SampleID, Amount: 0}}))
	b.AddPreset("first", 0, 0, generator.Table{{Kind: generator.Instrument, Amount: inst}})
	b.AddPreset("second", 0, 1, generator.Table{
		{Kind: generator.KeyRange, Amount: generator.RangeAmount(0, 64)},
		{Kind: generator.Instrument, Amount: inst},
	})
	return b
}

func TestTruncatedGeneratorsSkipOnlyAffectedPresets(t *testing.T) {
	chunks := pdtaChunks(t, twoPresetBuilder())
	// Three generators plus the terminal record; keep one and a half.
	require.Equal(t, 16, len(chunks["pgen"]))
	chunks["pgen"] = chunks["pgen"][:6]

	sf := &SoundFont{}
	require.Nil(t, sf.readHydra(chunks))

	require.Equal(t, 2, len(sf.Presets))
	assert.NotNil(t, sf.Presets[0])
	assert.Nil(t, sf.Presets[1])
	require.Equal(t, 1, len(sf.Problems))
	assert.True(t, errors.Is(sf.Problems[0], generator.ErrTruncatedRecord))
	re := regexp.MustCompile(`preset 1 "second"`)
	assert.NotEqual(t, "", re.FindString(sf.Problems[0].Error()))
	assert.NotNil(t, sf.Instruments[0])
}

func TestBagIndexOutOfRange(t *testing.T) {
	chunks := pdtaChunks(t, twoPresetBuilder())
	// Point the terminal preset header past the last bag.
	phdr := chunks["phdr"]
	eop := phdr[2*presetHeaderSize:]
	eop[24] = 0xFF

	sf := &SoundFont{}
	require.Nil(t, sf.readHydra(chunks))
	assert.NotNil(t, sf.Presets[0])
	assert.Nil(t, sf.Presets[1])
	require.Equal(t, 1, len(sf.Problems))
	assert.True(t, errors.Is(sf.Problems[0], ErrBadIndex))
}

func TestGeneratorBoundsOutOfRange(t *testing.T) {
	chunks := pdtaChunks(t, twoPresetBuilder())
	// Reverse the generator bounds of the first instrument's only zone.
	ibag := chunks["ibag"]
	ibag[0] = 5

	sf := &SoundFont{}
	require.Nil(t, sf.readHydra(chunks))
	assert.Nil(t, sf.Instruments[0])
	require.Equal(t, 1, len(sf.Problems))
	assert.True(t, errors.Is(sf.Problems[0], zone.ErrBadBounds))
}

func TestBadChunkSize(t *testing.T) {
	chunks := pdtaChunks(t, twoPresetBuilder())
	chunks["inst"] = chunks["inst"][:instrumentHeaderSize+3]

	sf := &SoundFont{}
	err := sf.readHydra(chunks)
	assert.NotNil(t, err)
	re := regexp.MustCompile("Invalid inst chunk size of 25")
	assert.NotEqual(t, "", re.FindString(err.Error()))
}

func TestMissingHydraChunk(t *testing.T) {
	chunks := pdtaChunks(t, twoPresetBuilder())
	delete(chunks, "igen")

	sf := &SoundFont{}
	err := sf.readHydra(chunks)
	assert.Equal(t, "Missing required igen chunk.", err.Error())
}

func TestSplitChunksOverrun(t *testing.T) {
	body := []byte{'p', 'g', 'e', 'n', 8, 0, 0, 0, 1, 2, 3, 4}
	_, err := splitChunks(body)
	assert.NotNil(t, err)
	assert.Equal(t, "pgen chunk claims 8 bytes but only 4 remain.", err.Error())
}
