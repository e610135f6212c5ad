// Package wavpage adapts go-audio/wav + go-audio/audio into a
// playback.AudioDecoder.
//
// Each npxl page's compressed audio is a complete, independently decodable
// WAV container (its own fmt/data chunks). The bit-depth-to-16-bit
// conversion below matches a streaming decoder's usual rescale table.
package wavpage

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-audio/wav"

	"github.com/oreal-solutions/npxlplay/internal/media"
)

// Decoder is a playback.AudioDecoder for WAV-encoded npxl pages.
type Decoder struct{}

func New() *Decoder { return &Decoder{} }

func (d *Decoder) Initialise(media.AudioProperties) error { return nil }

func (d *Decoder) Decode(compressed []byte) ([]byte, error) {
	if len(compressed) == 0 {
		return nil, nil
	}
	dec := wav.NewDecoder(bytes.NewReader(compressed))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wavpage: invalid WAV page")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavpage: decoding page: %w", err)
	}

	bitDepth := buf.SourceBitDepth
	raw := make([]byte, len(buf.Data)*2)
	for i, sample := range buf.Data {
		converted := convertTo16(sample, bitDepth)
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(converted))
	}
	return raw, nil
}

// convertTo16 rescales a sample read at srcBitDepth into a signed 16-bit
// PCM value, clamped to range.
func convertTo16(sample, srcBitDepth int) int16 {
	var scaled int
	switch srcBitDepth {
	case 8:
		scaled = (sample - 128) << 8
	case 16:
		scaled = sample
	case 24:
		scaled = sample >> 8
	case 32:
		scaled = sample >> 16
	default:
		scaled = sample
	}
	if scaled > 32767 {
		scaled = 32767
	} else if scaled < -32768 {
		scaled = -32768
	}
	return int16(scaled)
}

func (d *Decoder) Release() error { return nil }
