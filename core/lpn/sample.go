package lpn

const responseBit = 1 << 31

// Sample is one accepted oracle answer: the decoded label of the measurement
// and the noisy parity observed for it.
type Sample struct {
	Label    uint32
	Response uint8
}

// SampleSet stores samples packed one per uint32, the label in the low bits
// and the response in bit 31.
type SampleSet struct {
	span   int
	packed []uint32
}

// NewSampleSet allocates room for n samples with labels of span bits.
func NewSampleSet(span, n int) *SampleSet {
	return &SampleSet{span: span, packed: make([]uint32, n)}
}

// InformationSpan returns the label width.
func (s *SampleSet) InformationSpan() int {
	return s.span
}

// Len returns the number of samples.
func (s *SampleSet) Len() int {
	return len(s.packed)
}

// At returns sample i.
func (s *SampleSet) At(i int) (label uint32, response uint8) {
	v := s.packed[i]
	return v &^ responseBit, uint8(v >> 31)
}

// Sample returns sample i as a value.
func (s *SampleSet) Sample(i int) Sample {
	label, response := s.At(i)
	return Sample{Label: label, Response: response}
}

// Set stores sample i.
func (s *SampleSet) Set(i int, smp Sample) {
	s.packed[i] = smp.Label | uint32(smp.Response&1)<<31
}

// Swap exchanges samples i and j.
func (s *SampleSet) Swap(i, j int) {
	s.packed[i], s.packed[j] = s.packed[j], s.packed[i]
}
