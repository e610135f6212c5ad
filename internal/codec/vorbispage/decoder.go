// Package vorbispage adapts jfreymuth/oggvorbis into a playback.AudioDecoder.
//
// Each npxl page's compressed audio is a self-contained Ogg/Vorbis logical
// bitstream (identification, comment, and setup headers repeated per page),
// matching the same per-page-independent framing mp3page and flacpage rely
// on.
package vorbispage

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/oreal-solutions/npxlplay/internal/media"
)

// Decoder is a playback.AudioDecoder for Ogg/Vorbis-encoded npxl pages.
type Decoder struct {
	samples []float32 // reusable decode buffer (grow-only)
}

func New() *Decoder { return &Decoder{} }

func (d *Decoder) Initialise(media.AudioProperties) error { return nil }

func (d *Decoder) Decode(compressed []byte) ([]byte, error) {
	if len(compressed) == 0 {
		return nil, nil
	}
	reader, err := oggvorbis.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}

	var out []byte
	if cap(d.samples) == 0 {
		d.samples = make([]float32, 4096)
	}
	for {
		n, err := reader.Read(d.samples)
		if n > 0 {
			out = append(out, samplesPCM(d.samples[:n])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return out, nil
}

func samplesPCM(samples []float32) []byte {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(s*32767)))
	}
	return raw
}

func (d *Decoder) Release() error { return nil }
