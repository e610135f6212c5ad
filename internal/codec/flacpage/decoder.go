// Package flacpage adapts mewkiz/flac into a playback.AudioDecoder.
//
// Each npxl page's compressed audio is a self-contained miniature FLAC
// stream (its own "fLaC" marker and STREAMINFO block), so a fresh
// flac.Stream is parsed per Decode call; the bit-depth conversion below is
// the same rescale table a streaming FLAC decoder would use.
package flacpage

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/mewkiz/flac"

	"github.com/oreal-solutions/npxlplay/internal/media"
)

// Decoder is a playback.AudioDecoder for FLAC-encoded npxl pages.
type Decoder struct{}

func New() *Decoder { return &Decoder{} }

func (d *Decoder) Initialise(media.AudioProperties) error { return nil }

func (d *Decoder) Decode(compressed []byte) ([]byte, error) {
	if len(compressed) == 0 {
		return nil, nil
	}
	stream, err := flac.New(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bps := int(stream.Info.BitsPerSample)

	var out []byte
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, framePCM(frame, channels, bps)...)
	}
	return out, nil
}

func framePCM(frame *flac.Frame, channels, bps int) []byte {
	nSamples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, nSamples*channels*2)
	for i := 0; i < nSamples; i++ {
		for ch := 0; ch < channels; ch++ {
			sample := int(frame.Subframes[ch].Samples[i])
			switch {
			case bps > 16:
				sample >>= bps - 16
			case bps < 16:
				sample <<= 16 - bps
			}
			if sample > 32767 {
				sample = 32767
			} else if sample < -32768 {
				sample = -32768
			}
			off := (i*channels + ch) * 2
			binary.LittleEndian.PutUint16(raw[off:], uint16(int16(sample)))
		}
	}
	return raw
}

func (d *Decoder) Release() error { return nil }
