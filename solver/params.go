package solver

import (
	"fmt"
	"sort"

	"github.com/KAIST-CryptLab/CovLPN/core/lpn"
)

var (
	// DefaultParametersLiteral reduces 42-bit queries to 14-bit labels with a
	// [3,1] repetition code, decoded 7 blocks (21 raw bits) per lookup.
	DefaultParametersLiteral = lpn.ParametersLiteral{
		QueryLength:      42,
		RepetitionFactor: 3,
		TableFactor:      7,
		Threshold:        8,
		SecretWeight:     2,
		RequiredSamples:  1 << 20,
		ErrorRatio:       0.125,
	}

	// BKWParametersLiteral models the noise left by three BKW rounds on a
	// base noise rate of 1/64.
	BKWParametersLiteral = lpn.ParametersLiteral{
		QueryLength:      36,
		RepetitionFactor: 3,
		TableFactor:      6,
		Threshold:        7,
		SecretWeight:     2,
		RequiredSamples:  1 << 20,
		BaseErrorRatio:   1. / 64.,
		BKWIterations:    3,
	}

	// ToyParametersLiteral runs in milliseconds.
	ToyParametersLiteral = lpn.ParametersLiteral{
		QueryLength:      24,
		RepetitionFactor: 3,
		TableFactor:      4,
		Threshold:        4,
		SecretWeight:     2,
		RequiredSamples:  1 << 14,
		ErrorRatio:       0.05,
	}

	presets = map[string]lpn.ParametersLiteral{
		"default": DefaultParametersLiteral,
		"bkw":     BKWParametersLiteral,
		"toy":     ToyParametersLiteral,
	}
)

// Preset returns the named parameter literal.
func Preset(name string) (lpn.ParametersLiteral, error) {
	lit, ok := presets[name]
	if !ok {
		return lpn.ParametersLiteral{}, fmt.Errorf("unknown preset %q (have %v)", name, PresetNames())
	}
	return lit, nil
}

// PresetNames lists the available presets.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
