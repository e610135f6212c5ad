// Package mp3page adapts hajimehoshi/go-mp3 into a playback.AudioDecoder.
//
// The npxl writer packs each media page's compressed audio as an
// independently decodable run of complete MP3 frames (page boundaries are
// frame boundaries), so Decode needs no state carried across calls: a fresh
// go-mp3 decoder is created per page and drained to completion.
package mp3page

import (
	"bytes"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/oreal-solutions/npxlplay/internal/media"
)

// Decoder is a playback.AudioDecoder for MP3-encoded npxl pages.
type Decoder struct{}

// New returns a ready-to-use Decoder. There is no per-instance state to
// initialise beyond what Initialise receives.
func New() *Decoder { return &Decoder{} }

func (d *Decoder) Initialise(media.AudioProperties) error { return nil }

// Decode turns one page's compressed MP3 frames into 16-bit stereo PCM.
// A nil/empty input (priming, or concealment with nothing to extrapolate
// from) yields nil audio rather than an error.
func (d *Decoder) Decode(compressed []byte) ([]byte, error) {
	if len(compressed) == 0 {
		return nil, nil
	}
	dec, err := mp3.NewDecoder(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(dec)
}

func (d *Decoder) Release() error { return nil }
