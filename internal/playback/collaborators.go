package playback

import (
	"github.com/oreal-solutions/npxlplay/internal/media"
	"github.com/oreal-solutions/npxlplay/internal/mediatime"
)

// VideoReader is the external collaborator that owns the container parser
// over a random-access byte source. GetVideoDuration of zero means
// "unknown / live stream" and disables the video-finished check.
// GetPagesInRange returns pages overlapping the requested span, in order;
// lost or corrupted pages appear as void entries.
type VideoReader interface {
	Initialise() error
	GetVideoDuration() mediatime.Duration
	GetAudioProperties() media.AudioProperties
	GetPagesInRange(inclusiveStart, exclusiveEnd mediatime.Duration) ([]media.ReadableMediaPage, error)
	Release() error
}

// AudioDecoder is the external, optional collaborator that turns
// compressed audio bytes into PCM. An empty/nil input requests
// loss-concealment PCM for a missing frame.
type AudioDecoder interface {
	Initialise(media.AudioProperties) error
	Decode(compressed []byte) ([]byte, error)
	Release() error
}

// AudioSink is the external, optional collaborator that plays decoded PCM.
// It auto-pauses when its queue drains.
type AudioSink interface {
	Initialise(media.AudioProperties) error
	Write(pcm []byte)
	Clear()
	Release() error
}
