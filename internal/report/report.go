// Package report describes which zones of a bank sound for one key and
// velocity, and with which effective generator values.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/husafan/soundfont"
	"github.com/husafan/soundfont/generator"
	"github.com/husafan/soundfont/zone"
)

type Report struct {
	Bank     string   `yaml:"bank"`
	Key      int      `yaml:"key"`
	Velocity int      `yaml:"velocity"`
	Presets  []Preset `yaml:"presets"`
	Problems []string `yaml:"problems,omitempty"`
	Notes    []string `yaml:"diagnostics,omitempty"`
}

type Preset struct {
	Name    string     `yaml:"name"`
	Bank    int        `yaml:"bank"`
	Program int        `yaml:"program"`
	Zones   []ZoneHits `yaml:"zones"`
}

// ZoneHits is one matching preset zone and the instrument zones it reaches.
type ZoneHits struct {
	Index       int               `yaml:"index"`
	Generators  map[string]string `yaml:"generators,omitempty"`
	Instrument  string            `yaml:"instrument,omitempty"`
	Error       string            `yaml:"error,omitempty"`
	Instruments []InstrumentZone  `yaml:"instrumentZones,omitempty"`
}

type InstrumentZone struct {
	Index      int               `yaml:"index"`
	Sample     string            `yaml:"sample,omitempty"`
	Generators map[string]string `yaml:"generators,omitempty"`
}

// Filter selects presets; -1 matches any bank or program.
type Filter struct {
	Bank    int
	Program int
}

func (f Filter) accepts(p *soundfont.Preset) bool {
	return (f.Bank < 0 || f.Bank == p.Bank()) && (f.Program < 0 || f.Program == p.Program())
}

// Build walks every selected preset down to the instrument zones matching
// key and velocity.
func Build(sf *soundfont.SoundFont, key, velocity uint8, filter Filter) *Report {
	r := &Report{Bank: sf.Name, Key: int(key), Velocity: int(velocity)}
	for _, err := range sf.Problems {
		r.Problems = append(r.Problems, err.Error())
	}
	for _, err := range sf.Diagnostics {
		r.Notes = append(r.Notes, err.Error())
	}
	for _, p := range sf.Presets {
		if p == nil || !filter.accepts(p) {
			continue
		}
		entry := Preset{Name: p.Name(), Bank: p.Bank(), Program: p.Program()}
		for presetZone := range p.MatchingZones(key, velocity) {
			entry.Zones = append(entry.Zones, presetHits(p, presetZone, key, velocity))
		}
		if len(entry.Zones) > 0 {
			r.Presets = append(r.Presets, entry)
		}
	}
	return r
}

func presetHits(p *soundfont.Preset, presetZone *zone.Zone, key, velocity uint8) ZoneHits {
	hits := ZoneHits{
		Index:      zoneIndex(p.Zones(), presetZone),
		Generators: explicit(p.Resolve(presetZone), presetZone),
	}
	instrument, err := p.Instrument(presetZone)
	if err != nil {
		hits.Error = err.Error()
		return hits
	}
	hits.Instrument = instrument.Name()
	for z := range instrument.MatchingZones(key, velocity) {
		iz := InstrumentZone{
			Index:      zoneIndex(instrument.Zones(), z),
			Generators: explicit(instrument.Resolve(z), z),
		}
		if s, err := instrument.Sample(z); err == nil {
			iz.Sample = s.Name()
		}
		hits.Instruments = append(hits.Instruments, iz)
	}
	return hits
}

// explicit renders the resolved values that differ from their defaults,
// leaving out the range and link generators already shown elsewhere.
func explicit(set generator.Set, z *zone.Zone) map[string]string {
	values := make(map[string]string)
	for k := 0; k < generator.NumKinds; k++ {
		kind := generator.Kind(k)
		switch kind {
		case generator.KeyRange, generator.VelRange, z.Owner().Terminator():
			if _, ok := z.Find(kind); ok {
				values[kind.String()] = set.Value(kind).String()
			}
			continue
		}
		if set.Get(kind) != kind.Default() {
			values[kind.String()] = set.Value(kind).String()
		}
	}
	return values
}

func zoneIndex(c *zone.Collection, z *zone.Zone) int {
	for i, candidate := range c.All() {
		if candidate == z {
			return i
		}
	}
	return -1
}

// WriteYAML encodes the report as a YAML document.
func (r *Report) WriteYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		return errors.Wrap(err, "encoding report")
	}
	return errors.WithStack(encoder.Close())
}

// WriteText prints the report as indented plain text.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: key %d velocity %d\n", r.Bank, r.Key, r.Velocity)
	for _, p := range r.Presets {
		fmt.Fprintf(&b, "%03d:%03d %s\n", p.Bank, p.Program, p.Name)
		for _, z := range p.Zones {
			fmt.Fprintf(&b, "  zone %d -> %s%s\n", z.Index, z.Instrument, z.Error)
			writeGenerators(&b, "    ", z.Generators)
			for _, iz := range z.Instruments {
				fmt.Fprintf(&b, "    zone %d -> %s\n", iz.Index, iz.Sample)
				writeGenerators(&b, "      ", iz.Generators)
			}
		}
	}
	for _, problem := range r.Problems {
		fmt.Fprintf(&b, "problem: %s\n", problem)
	}
	for _, note := range r.Notes {
		fmt.Fprintf(&b, "note: %s\n", note)
	}
	_, err := io.WriteString(w, b.String())
	return errors.WithStack(err)
}

func writeGenerators(b *strings.Builder, indent string, values map[string]string) {
	// Print in generator order rather than map order.
	for k := 0; k < generator.NumKinds; k++ {
		name := generator.Kind(k).String()
		if v, ok := values[name]; ok {
			fmt.Fprintf(b, "%s%s = %s\n", indent, name, v)
		}
	}
}
