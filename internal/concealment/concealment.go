// Package concealment implements the stateless loss-concealment policy:
// given the last known-good, non-void page and a decoder,
// it produces a replacement ready-to-play page for a void (lost or
// corrupted) incoming page.
package concealment

import "github.com/oreal-solutions/npxlplay/internal/media"

// Decoder is the minimal capability concealment needs: producing
// loss-concealment PCM. A nil decoder is valid — Conceal then falls back
// to empty audio.
type Decoder interface {
	// Decode with empty input requests loss-concealment PCM for a missing
	// frame.
	Decode(compressed []byte) ([]byte, error)
}

// Conceal builds a replacement ready-to-play page reusing lastNonVoid's
// header (so the vector frame keeps showing the last good drawing) and
// asking dec for concealment audio. lastNonVoid must not be void.
//
// If dec is nil, the concealed page carries empty decoded audio instead
// of calling out to a decoder.
func Conceal(lastNonVoid *media.PageHeader, dec Decoder) (media.ReadyToPlayPage, error) {
	audio := []byte{}
	if dec != nil {
		decoded, err := dec.Decode(nil)
		if err != nil {
			return media.ReadyToPlayPage{}, err
		}
		audio = decoded
	}
	return media.ReadyToPlayPage{
		Header:       lastNonVoid,
		DecodedAudio: audio,
	}, nil
}
