package zone

import (
	"iter"

	"github.com/husafan/soundfont/generator"
)

/*
WithZones is the shared base of Preset and Instrument: a zone collection
plus the raw file entity it was carved out for. The entity is addressed by
index into a caller-owned arena, so WithZones never holds a pointer into
loader state.
*/
type WithZones[E any] struct {
	zones *Collection
	arena []E
	index int
}

// NewWithZones binds zones to entity arena[index].
func NewWithZones[E any](zones *Collection, arena []E, index int) WithZones[E] {
	return WithZones[E]{zones: zones, arena: arena, index: index}
}

// Zones returns the underlying collection.
func (w *WithZones[E]) Zones() *Collection { return w.zones }

// Index is the entity's position in its arena.
func (w *WithZones[E]) Index() int { return w.index }

// Configuration returns the raw entity record from the file.
func (w *WithZones[E]) Configuration() E { return w.arena[w.index] }

func (w *WithZones[E]) HasGlobalZone() bool { return w.zones.HasGlobal() }

// GlobalZone fails with ErrNoGlobalZone unless HasGlobalZone is true.
func (w *WithZones[E]) GlobalZone() (*Zone, error) { return w.zones.Global() }

// MatchingZones yields the specific zones containing key and velocity.
func (w *WithZones[E]) MatchingZones(key, velocity uint8) iter.Seq[*Zone] {
	return w.zones.Matching(key, velocity)
}

/*
EffectiveValue resolves kind for one specific zone: the zone's own value,
else the global zone's, else the generator's default. Values replace each
other; they are never added at this level.
*/
func (w *WithZones[E]) EffectiveValue(kind generator.Kind, specific *Zone) generator.Amount {
	if specific != nil {
		if amount, ok := specific.Find(kind); ok {
			return amount
		}
	}
	if w.zones.global != nil {
		if amount, ok := w.zones.global.Find(kind); ok {
			return amount
		}
	}
	return kind.Default()
}

// Resolve applies EffectiveValue to every known kind at once.
func (w *WithZones[E]) Resolve(specific *Zone) generator.Set {
	set := generator.DefaultSet()
	apply := func(z *Zone) {
		if z == nil {
			return
		}
		// Walk backwards so the first occurrence of a kind is written last.
		gens := z.generators
		for i := len(gens) - 1; i >= 0; i-- {
			if gens[i].Kind.Known() {
				set[gens[i].Kind] = gens[i].Amount
			}
		}
	}
	apply(w.zones.global)
	apply(specific)
	return set
}
