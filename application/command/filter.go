package command

import (
	"fmt"
	"strings"
)

// FilterChain builds an ffmpeg audio filter-graph argument. Filters are
// joined in insertion order; trim-silence must be added before loudness
// normalization because trimming changes what normalization measures.
type FilterChain struct {
	filters []string
}

func NewFilterChain() *FilterChain {
	return &FilterChain{}
}

// AddTrimSilence appends a leading-silence trim filter. threshold is in dB
// (negative), minSilence in seconds.
func (b *FilterChain) AddTrimSilence(threshold int, minSilence float64) *FilterChain {
	b.filters = append(b.filters, fmt.Sprintf(
		"silenceremove=start_periods=1:start_threshold=%ddB:start_silence=%.1f",
		threshold, minSilence))
	return b
}

// AddLoudnorm appends an EBU R128 loudness normalization filter.
func (b *FilterChain) AddLoudnorm(targetLUFS, truePeak, lra float64) *FilterChain {
	b.filters = append(b.filters, fmt.Sprintf(
		"loudnorm=I=%g:TP=%g:LRA=%g", targetLUFS, truePeak, lra))
	return b
}

func (b *FilterChain) Build() string {
	return strings.Join(b.filters, ",")
}

func (b *FilterChain) IsEmpty() bool {
	return len(b.filters) == 0
}
