package zone_test

import (
	"fmt"
	"slices"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/husafan/soundfont/generator"
	. "github.com/husafan/soundfont/zone"
)

type header struct {
	Name string
}

func TestEffectiveValueOverrideOrder(t *testing.T) {
	global, zoneA, zoneB := presetZones()
	arena := []header{{"Piano"}, {"Strings"}}
	w := NewWithZones(NewCollection([]*Zone{global, zoneA, zoneB}), arena, 1)

	// Specific zone wins over the global zone.
	assert.Equal(t, generator.SignedAmount(250), w.EffectiveValue(generator.Pan, zoneB))
	// Absent from the specific zone, present in the global zone.
	assert.Equal(t, generator.SignedAmount(-100), w.EffectiveValue(generator.Pan, zoneA))
	assert.Equal(t, generator.Amount(60), w.EffectiveValue(generator.InitialAttenuation, zoneB))
	// Absent from both: the generator's default.
	assert.Equal(t, generator.Amount(13500), w.EffectiveValue(generator.InitialFilterFc, zoneA))
	assert.Equal(t, generator.SignedAmount(-12000), w.EffectiveValue(generator.AttackVolEnv, zoneB))
	// Values replace, they do not add up.
	assert.Equal(t, 250, w.EffectiveValue(generator.Pan, zoneB).Value(generator.Pan).Int())

	assert.Equal(t, header{"Strings"}, w.Configuration())
	assert.Equal(t, 1, w.Index())
}

func TestEffectiveValueWithoutGlobalZone(t *testing.T) {
	_, zoneA, zoneB := presetZones()
	w := NewWithZones(NewCollection([]*Zone{zoneA, zoneB}), []header{{"Organ"}}, 0)

	assert.False(t, w.HasGlobalZone())
	_, err := w.GlobalZone()
	assert.True(t, errors.Is(err, ErrNoGlobalZone))
	assert.Equal(t, generator.Amount(0), w.EffectiveValue(generator.Pan, zoneA))
	assert.Equal(t, generator.SignedAmount(250), w.EffectiveValue(generator.Pan, zoneB))
}

func TestEffectiveValueDuplicateKindFirstWins(t *testing.T) {
	z := New(InstrumentOwner, []generator.Record{
		{Kind: generator.CoarseTune, Amount: 5},
		{Kind: generator.CoarseTune, Amount: 9},
		sample(0),
	})
	w := NewWithZones(NewCollection([]*Zone{z}), []header{{}}, 0)
	assert.Equal(t, generator.Amount(5), w.EffectiveValue(generator.CoarseTune, z))
	set := w.Resolve(z)
	assert.Equal(t, generator.Amount(5), set.Get(generator.CoarseTune))
}

func TestResolveMatchesEffectiveValue(t *testing.T) {
	global, zoneA, zoneB := presetZones()
	w := NewWithZones(NewCollection([]*Zone{global, zoneA, zoneB}), []header{{}}, 0)

	for _, z := range []*Zone{zoneA, zoneB} {
		set := w.Resolve(z)
		for k := 0; k < generator.NumKinds; k++ {
			kind := generator.Kind(k)
			assert.Equal(t, w.EffectiveValue(kind, z), set.Get(kind), kind.String())
		}
	}
}

func TestWithZonesGlobalAndMatching(t *testing.T) {
	global, zoneA, zoneB := presetZones()
	w := NewWithZones(NewCollection([]*Zone{global, zoneA, zoneB}), []header{{}}, 0)

	assert.True(t, w.HasGlobalZone())
	g, err := w.GlobalZone()
	assert.Nil(t, err)
	assert.Same(t, global, g)
	assert.Equal(t, []*Zone{zoneA}, slices.Collect(w.MatchingZones(30, 100)))
	assert.Equal(t, 3, w.Zones().Len())
}

func TestEffectiveValueNilZoneUsesGlobal(t *testing.T) {
	global, zoneA, _ := presetZones()
	w := NewWithZones(NewCollection([]*Zone{global, zoneA}), []header{{}}, 0)
	assert.Equal(t, generator.SignedAmount(-100), w.EffectiveValue(generator.Pan, nil))
}

func TestConcurrentReaders(t *testing.T) {
	global, zoneA, zoneB := presetZones()
	w := NewWithZones(NewCollection([]*Zone{global, zoneA, zoneB}), []header{{"Piano"}}, 0)

	for i := 0; i < 8; i++ {
		key := uint8(i * 16)
		t.Run(fmt.Sprintf("key %d", key), func(t *testing.T) {
			t.Parallel()
			for n := 0; n < 200; n++ {
				zones := slices.Collect(w.MatchingZones(key, 64))
				require.Equal(t, 1, len(zones))
				want := generator.SignedAmount(-100)
				if zones[0] == zoneB {
					want = generator.SignedAmount(250)
				}
				assert.Equal(t, want, w.EffectiveValue(generator.Pan, zones[0]))
				set := w.Resolve(zones[0])
				assert.Equal(t, want, set.Get(generator.Pan))
				assert.Equal(t, header{"Piano"}, w.Configuration())
			}
		})
	}
}
