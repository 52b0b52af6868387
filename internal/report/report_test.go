package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/husafan/soundfont"
	"github.com/husafan/soundfont/generator"
	. "github.com/husafan/soundfont/internal/report"
)

func loadBank(t *testing.T) *soundfont.SoundFont {
	b := soundfont.NewBuilder("Report Bank")
	low := b.AddSample("Low", 44100, 40)
	high := b.AddSample("High", 44100, 80)
	ensemble := b.AddInstrument("Strings",
		generator.Table{{Kind: generator.AttackVolEnv, Amount: generator.SignedAmount(-1200)}},
		generator.Table{
			{Kind: generator.KeyRange, Amount: generator.RangeAmount(0, 63)},
			{Kind: generator.SampleID, Amount: generator.Amount(low)},
		},
		generator.Table{
			{Kind: generator.KeyRange, Amount: generator.RangeAmount(64, 127)},
			{Kind: generator.SampleID, Amount: generator.Amount(high)},
		},
	)
	b.AddPreset("Ensemble", 0, 48,
		generator.Table{{Kind: generator.ReverbEffectsSend, Amount: 200}},
		generator.Table{{Kind: generator.Instrument, Amount: generator.Amount(ensemble)}},
	)
	b.AddPreset("Broken", 0, 49,
		generator.Table{{Kind: generator.Instrument, Amount: 7}},
	)
	var buffer bytes.Buffer
	_, err := b.WriteTo(&buffer)
	require.Nil(t, err)
	sf, err := soundfont.Load(&buffer)
	require.Nil(t, err)
	return sf
}

func TestBuildFollowsPresetToSample(t *testing.T) {
	r := Build(loadBank(t), 70, 100, Filter{Bank: -1, Program: 48})
	assert.Equal(t, "Report Bank", r.Bank)
	require.Equal(t, 1, len(r.Presets))
	p := r.Presets[0]
	assert.Equal(t, "Ensemble", p.Name)
	require.Equal(t, 1, len(p.Zones))

	z := p.Zones[0]
	assert.Equal(t, 1, z.Index)
	assert.Equal(t, "Strings", z.Instrument)
	assert.Equal(t, "200", z.Generators["reverbEffectsSend"])
	assert.Equal(t, "0", z.Generators["instrument"])
	require.Equal(t, 1, len(z.Instruments))

	iz := z.Instruments[0]
	assert.Equal(t, 2, iz.Index)
	assert.Equal(t, "High", iz.Sample)
	assert.Equal(t, "64-127", iz.Generators["keyRange"])
	assert.Equal(t, "-1200", iz.Generators["attackVolEnv"])
	_, ok := iz.Generators["initialFilterFc"]
	assert.False(t, ok)
}

func TestBuildReportsBrokenLink(t *testing.T) {
	r := Build(loadBank(t), 70, 100, Filter{Bank: 0, Program: 49})
	require.Equal(t, 1, len(r.Presets))
	z := r.Presets[0].Zones[0]
	assert.Equal(t, "", z.Instrument)
	assert.Contains(t, z.Error, "instrument 7 of 1")
}

func TestBuildFilter(t *testing.T) {
	r := Build(loadBank(t), 70, 100, Filter{Bank: 1, Program: -1})
	assert.Empty(t, r.Presets)
	r = Build(loadBank(t), 70, 100, Filter{Bank: -1, Program: -1})
	assert.Equal(t, 2, len(r.Presets))
}

func TestWriteYAML(t *testing.T) {
	r := Build(loadBank(t), 10, 100, Filter{Bank: -1, Program: 48})
	var buffer bytes.Buffer
	require.Nil(t, r.WriteYAML(&buffer))
	assert.True(t, strings.Contains(buffer.String(), "instrumentZones:"))

	var decoded Report
	require.Nil(t, yaml.Unmarshal(buffer.Bytes(), &decoded))
	assert.Equal(t, *r, decoded)
	assert.Equal(t, "Low", decoded.Presets[0].Zones[0].Instruments[0].Sample)
}

func TestWriteText(t *testing.T) {
	r := Build(loadBank(t), 10, 100, Filter{Bank: -1, Program: 48})
	var buffer bytes.Buffer
	require.Nil(t, r.WriteText(&buffer))
	text := buffer.String()
	assert.Contains(t, text, "Report Bank: key 10 velocity 100\n")
	assert.Contains(t, text, "000:048 Ensemble\n")
	assert.Contains(t, text, "  zone 1 -> Strings\n")
	assert.Contains(t, text, "    reverbEffectsSend = 200\n")
	assert.Contains(t, text, "    zone 1 -> Low\n")
	assert.Contains(t, text, "      keyRange = 0-63\n")
}
