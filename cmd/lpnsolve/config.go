package main

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/KAIST-CryptLab/CovLPN/core/gf2"
	"github.com/KAIST-CryptLab/CovLPN/core/lpn"
	"github.com/KAIST-CryptLab/CovLPN/solver"
)

// overrides holds the per-field flags; only the flags set on the command line
// are applied on top of the preset or parameter file.
type overrides struct {
	k, r, t, threshold, w, n, bkw int
	tau, tau0                      float64
	maxMemory                      int64
}

func (o *overrides) register(fs *flag.FlagSet) {
	fs.IntVar(&o.k, "k", 0, "query length in bits")
	fs.IntVar(&o.r, "r", 0, "repetition factor")
	fs.IntVar(&o.t, "t", 0, "blocks per table lookup")
	fs.IntVar(&o.threshold, "threshold", 0, "ambiguous blocks tolerated per measurement")
	fs.IntVar(&o.w, "w", 0, "secret weight")
	fs.IntVar(&o.n, "n", 0, "required samples")
	fs.IntVar(&o.bkw, "bkw", 0, "BKW iterations the error ratio is derived from")
	fs.Float64Var(&o.tau, "tau", 0, "error ratio")
	fs.Float64Var(&o.tau0, "tau0", 0, "error ratio before BKW")
	fs.Int64Var(&o.maxMemory, "maxmem", 0, "memory budget in bytes")
}

func (o *overrides) apply(fs *flag.FlagSet, lit *lpn.ParametersLiteral) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "k":
			lit.QueryLength = o.k
		case "r":
			lit.RepetitionFactor = o.r
		case "t":
			lit.TableFactor = o.t
		case "threshold":
			lit.Threshold = o.threshold
		case "w":
			lit.SecretWeight = o.w
		case "n":
			lit.RequiredSamples = o.n
		case "bkw":
			lit.BKWIterations = o.bkw
		case "tau":
			lit.ErrorRatio = o.tau
		case "tau0":
			lit.BaseErrorRatio = o.tau0
		case "maxmem":
			lit.MaxMemoryBytes = o.maxMemory
		}
	})
}

// loadLiteral returns the parameter file at path, or the named preset when
// path is empty.
func loadLiteral(preset, path string) (lit lpn.ParametersLiteral, err error) {
	if path == "" {
		return solver.Preset(preset)
	}
	f, err := os.Open(path)
	if err != nil {
		return lit, fmt.Errorf("cannot loadLiteral: %w", err)
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err = dec.Decode(&lit); err != nil {
		return lit, fmt.Errorf("cannot loadLiteral: %s: %w", path, err)
	}
	return lit, nil
}

// parseSeed accepts a 0x-prefixed hex string or a decimal integer. An empty
// string draws 32 bytes of fresh entropy.
func parseSeed(s string) ([]byte, error) {
	switch {
	case s == "":
		src, err := gf2.NewRandomSource()
		if err != nil {
			return nil, err
		}
		seed := make([]byte, 32)
		for i := 0; i < len(seed); i += 8 {
			binary.LittleEndian.PutUint64(seed[i:], src.Uint64())
		}
		return seed, nil
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		seed, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, fmt.Errorf("cannot parseSeed: %w", err)
		}
		return seed, nil
	default:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parseSeed: %q is neither 0x-hex nor decimal", s)
		}
		seed := make([]byte, 8)
		binary.LittleEndian.PutUint64(seed, v)
		return seed, nil
	}
}
