package gf2

import (
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/tuneinsight/lattigo/v5/utils/sampling"
	"golang.org/x/crypto/blake2b"
)

const sourceBufferSize = 4096

// Source is a deterministic stream of random words backed by a keyed PRNG.
// It implements rand.Source64 so that it can drive a *rand.Rand.
// A Source is not safe for concurrent use; give each worker its own.
type Source struct {
	prng *sampling.KeyedPRNG
	buf  [sourceBufferSize]byte
	off  int
}

// NewSource returns a Source keyed by seed. Equal seeds yield equal streams.
func NewSource(seed []byte) (*Source, error) {
	key := blake2b.Sum256(seed)
	prng, err := sampling.NewKeyedPRNG(key[:])
	if err != nil {
		return nil, fmt.Errorf("cannot NewSource: %w", err)
	}
	return &Source{prng: prng, off: sourceBufferSize}, nil
}

// NewRandomSource returns a Source keyed with fresh system entropy.
func NewRandomSource() (*Source, error) {
	prng, err := sampling.NewPRNG()
	if err != nil {
		return nil, fmt.Errorf("cannot NewRandomSource: %w", err)
	}
	return &Source{prng: prng, off: sourceBufferSize}, nil
}

// DeriveSeed returns the seed of the stream number idx derived from seed.
func DeriveSeed(seed []byte, idx int) []byte {
	h, err := blake2b.New256(seed)
	if err != nil {
		// keys longer than 64 bytes are hashed first
		sum := blake2b.Sum512(seed)
		if h, err = blake2b.New256(sum[:]); err != nil {
			panic(err)
		}
	}
	var tag [8]byte
	binary.LittleEndian.PutUint64(tag[:], uint64(idx))
	h.Write(tag[:])
	return h.Sum(nil)
}

func (s *Source) refill() {
	if _, err := s.prng.Read(s.buf[:]); err != nil {
		// the XOF only fails once its output length is exhausted, which the
		// unbounded mode never reaches
		panic(fmt.Errorf("gf2: keyed PRNG read: %w", err))
	}
	s.off = 0
}

// Uint64 returns 64 uniformly random bits.
func (s *Source) Uint64() uint64 {
	if s.off+8 > sourceBufferSize {
		s.refill()
	}
	v := binary.LittleEndian.Uint64(s.buf[s.off:])
	s.off += 8
	return v
}

// Int63 implements rand.Source.
func (s *Source) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

// Seed is a no-op: the stream is fixed by the key given at construction.
func (s *Source) Seed(int64) {}

// Sampler draws random words of a fixed length.
type Sampler struct {
	n   int
	src *Source
	rng *rand.Rand
}

// NewSampler returns a Sampler of n-coordinate words reading from src.
func NewSampler(n int, src *Source) *Sampler {
	return &Sampler{n: n, src: src, rng: rand.New(src)}
}

// Rand exposes the underlying generator.
func (s *Sampler) Rand() *rand.Rand {
	return s.rng
}

// Uniform returns a uniformly random word.
func (s *Sampler) Uniform() Word {
	return Word(s.src.Uint64()) & Mask(s.n)
}

// InBall returns a word of weight exactly min(p, n) whose support is a
// uniformly random subset of the coordinates.
func (s *Sampler) InBall(p int) Word {
	if p > s.n {
		p = s.n
	}
	// partial Fisher-Yates over the coordinate indices
	idx := make([]int, s.n)
	for i := range idx {
		idx[i] = i
	}
	var w Word
	for i := 0; i < p; i++ {
		j := i + s.rng.Intn(s.n-i)
		idx[i], idx[j] = idx[j], idx[i]
		w = w.SetBit(idx[i], 1)
	}
	return w
}
