/*
Package generator decodes SoundFont 2 generator records and describes the
generator kinds defined by SoundFont 2.01.

A generator record is the 4-byte entry found in the "pgen" and "igen"
sub-chunks of the "pdta" list:

	<Record> = <kind: uint16 LE><amount: 2 bytes>

The amount is a raw 2-byte slot. How it is read (unsigned, signed or as a
low/high byte range) is decided by the kind's Definition, never by the bits.
*/
package generator

import "fmt"

// Kind is the SFGenerator operator code of a generator record.
type Kind uint16

const (
	StartAddrsOffset Kind = iota
	EndAddrsOffset
	StartLoopAddrsOffset
	EndLoopAddrsOffset
	StartAddrsCoarseOffset
	ModLFOToPitch
	VibLFOToPitch
	ModEnvToPitch
	InitialFilterFc
	InitialFilterQ
	ModLFOToFilterFc
	ModEnvToFilterFc
	EndAddrsCoarseOffset
	ModLFOToVolume
	Unused1
	ChorusEffectsSend
	ReverbEffectsSend
	Pan
	Unused2
	Unused3
	Unused4
	DelayModLFO
	FreqModLFO
	DelayVibLFO
	FreqVibLFO
	DelayModEnv
	AttackModEnv
	HoldModEnv
	DecayModEnv
	SustainModEnv
	ReleaseModEnv
	KeynumToModEnvHold
	KeynumToModEnvDecay
	DelayVolEnv
	AttackVolEnv
	HoldVolEnv
	DecayVolEnv
	SustainVolEnv
	ReleaseVolEnv
	KeynumToVolEnvHold
	KeynumToVolEnvDecay
	Instrument
	Reserved1
	KeyRange
	VelRange
	StartLoopAddrsCoarseOffset
	Keynum
	Velocity
	InitialAttenuation
	Reserved2
	EndLoopAddrsCoarseOffset
	CoarseTune
	FineTune
	SampleID
	SampleModes
	Reserved3
	ScaleTuning
	ExclusiveClass
	OverridingRootKey
	Unused5
	EndOper

	// NumKinds is the number of kinds known to this package.
	NumKinds = int(EndOper) + 1
)

// Interpretation selects how the 2-byte amount of a kind is read.
type Interpretation uint8

const (
	Unsigned Interpretation = iota
	Signed
	Range
)

func (i Interpretation) String() string {
	switch i {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	case Range:
		return "range"
	}
	return fmt.Sprintf("Interpretation(%d)", uint8(i))
}

// Definition is the metadata SF2 attaches to a kind.
type Definition struct {
	Name           string
	Interpretation Interpretation
	// Default is the amount used when neither the zone nor its global zone
	// set the kind.
	Default Amount
	// InstrumentOnly kinds are not valid in preset zones.
	InstrumentOnly bool
}

var definitions = [NumKinds]Definition{
	StartAddrsOffset:           {"startAddrsOffset", Signed, 0, true},
	EndAddrsOffset:             {"endAddrsOffset", Signed, 0, true},
	StartLoopAddrsOffset:       {"startloopAddrsOffset", Signed, 0, true},
	EndLoopAddrsOffset:         {"endloopAddrsOffset", Signed, 0, true},
	StartAddrsCoarseOffset:     {"startAddrsCoarseOffset", Signed, 0, true},
	ModLFOToPitch:              {"modLfoToPitch", Signed, 0, false},
	VibLFOToPitch:              {"vibLfoToPitch", Signed, 0, false},
	ModEnvToPitch:              {"modEnvToPitch", Signed, 0, false},
	InitialFilterFc:            {"initialFilterFc", Signed, 13500, false},
	InitialFilterQ:             {"initialFilterQ", Signed, 0, false},
	ModLFOToFilterFc:           {"modLfoToFilterFc", Signed, 0, false},
	ModEnvToFilterFc:           {"modEnvToFilterFc", Signed, 0, false},
	EndAddrsCoarseOffset:       {"endAddrsCoarseOffset", Signed, 0, true},
	ModLFOToVolume:             {"modLfoToVolume", Signed, 0, false},
	Unused1:                    {"unused1", Unsigned, 0, false},
	ChorusEffectsSend:          {"chorusEffectsSend", Signed, 0, false},
	ReverbEffectsSend:          {"reverbEffectsSend", Signed, 0, false},
	Pan:                        {"pan", Signed, 0, false},
	Unused2:                    {"unused2", Unsigned, 0, false},
	Unused3:                    {"unused3", Unsigned, 0, false},
	Unused4:                    {"unused4", Unsigned, 0, false},
	DelayModLFO:                {"delayModLFO", Signed, SignedAmount(-12000), false},
	FreqModLFO:                 {"freqModLFO", Signed, 0, false},
	DelayVibLFO:                {"delayVibLFO", Signed, SignedAmount(-12000), false},
	FreqVibLFO:                 {"freqVibLFO", Signed, 0, false},
	DelayModEnv:                {"delayModEnv", Signed, SignedAmount(-12000), false},
	AttackModEnv:               {"attackModEnv", Signed, SignedAmount(-12000), false},
	HoldModEnv:                 {"holdModEnv", Signed, SignedAmount(-12000), false},
	DecayModEnv:                {"decayModEnv", Signed, SignedAmount(-12000), false},
	SustainModEnv:              {"sustainModEnv", Signed, 0, false},
	ReleaseModEnv:              {"releaseModEnv", Signed, SignedAmount(-12000), false},
	KeynumToModEnvHold:         {"keynumToModEnvHold", Signed, 0, false},
	KeynumToModEnvDecay:        {"keynumToModEnvDecay", Signed, 0, false},
	DelayVolEnv:                {"delayVolEnv", Signed, SignedAmount(-12000), false},
	AttackVolEnv:               {"attackVolEnv", Signed, SignedAmount(-12000), false},
	HoldVolEnv:                 {"holdVolEnv", Signed, SignedAmount(-12000), false},
	DecayVolEnv:                {"decayVolEnv", Signed, SignedAmount(-12000), false},
	SustainVolEnv:              {"sustainVolEnv", Signed, 0, false},
	ReleaseVolEnv:              {"releaseVolEnv", Signed, SignedAmount(-12000), false},
	KeynumToVolEnvHold:         {"keynumToVolEnvHold", Signed, 0, false},
	KeynumToVolEnvDecay:        {"keynumToVolEnvDecay", Signed, 0, false},
	Instrument:                 {"instrument", Unsigned, 0, false},
	Reserved1:                  {"reserved1", Unsigned, 0, false},
	KeyRange:                   {"keyRange", Range, RangeAmount(0, 127), false},
	VelRange:                   {"velRange", Range, RangeAmount(0, 127), false},
	StartLoopAddrsCoarseOffset: {"startloopAddrsCoarseOffset", Signed, 0, true},
	Keynum:                     {"keynum", Signed, SignedAmount(-1), true},
	Velocity:                   {"velocity", Signed, SignedAmount(-1), true},
	InitialAttenuation:         {"initialAttenuation", Signed, 0, false},
	Reserved2:                  {"reserved2", Unsigned, 0, false},
	EndLoopAddrsCoarseOffset:   {"endloopAddrsCoarseOffset", Signed, 0, true},
	CoarseTune:                 {"coarseTune", Signed, 0, false},
	FineTune:                   {"fineTune", Signed, 0, false},
	SampleID:                   {"sampleID", Unsigned, 0, true},
	SampleModes:                {"sampleModes", Unsigned, 0, true},
	Reserved3:                  {"reserved3", Unsigned, 0, false},
	ScaleTuning:                {"scaleTuning", Signed, 100, false},
	ExclusiveClass:             {"exclusiveClass", Signed, 0, true},
	OverridingRootKey:          {"overridingRootKey", Signed, SignedAmount(-1), true},
	Unused5:                    {"unused5", Unsigned, 0, false},
	EndOper:                    {"endOper", Unsigned, 0, false},
}

// Known reports whether the kind is one of the SF2 2.01 generators.
func (k Kind) Known() bool { return int(k) < NumKinds }

// Definition returns the kind's metadata. Unknown kinds get a zero-default
// unsigned definition and false.
func (k Kind) Definition() (Definition, bool) {
	if !k.Known() {
		return Definition{Name: k.String(), Interpretation: Unsigned}, false
	}
	return definitions[k], true
}

// Default is the SF2 default amount for the kind.
func (k Kind) Default() Amount {
	def, _ := k.Definition()
	return def.Default
}

func (k Kind) String() string {
	if !k.Known() {
		return fmt.Sprintf("Kind(%d)", uint16(k))
	}
	return definitions[k].Name
}
