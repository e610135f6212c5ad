// Package media holds the data types shared across the playback engine:
// rendering instructions, media page headers, and the two page
// representations (as read from a container, and as ready to play after
// decode/concealment). None of these are mutated after construction.
package media

// Point is a single coordinate in a stroked path.
type Point struct {
	X, Y float64
}

// Path is one stroked path within a vector frame.
type Path struct {
	Points []Point
	ColorARGB uint32
	WidthPx   float64
}

// Pointer is an optional cursor/pointer overlay for a vector frame.
type Pointer struct {
	X, Y    float64
	Visible bool
}

// Viewport describes the visible drawing area of a vector frame. A
// RenderingInstructions value with a nil Viewport is void.
type Viewport struct {
	WidthPx, HeightPx int
	OffsetX, OffsetY  float64
}

// RenderingInstructions is the opaque-to-the-core vector drawing frame for
// one media page: viewport, background, stroked paths, and an optional
// pointer. The core only ever inspects whether Viewport is present.
type RenderingInstructions struct {
	Viewport        *Viewport
	BackgroundColor uint32
	Paths           []Path
	Pointer         *Pointer
}

// IsVoid reports whether these instructions represent loss/corruption
// (no viewport).
func (r RenderingInstructions) IsVoid() bool { return r.Viewport == nil }

// VoidRenderingInstructions is the canonical void vector frame.
var VoidRenderingInstructions = RenderingInstructions{}

// PageLocator is an opaque-to-the-core payload locator (e.g. a byte
// offset/length into the container) that a VideoReader may attach to a
// page header for its own bookkeeping.
type PageLocator any

// PageHeader carries the producer-assigned page number (gaps indicate
// loss), the page's duration, its vector frame, and an optional opaque
// payload locator. Two header values are equal by identity, i.e. by
// pointer equality of the struct they originate from, not by field-wise
// comparison: a page replayed after a hard seek is a logically distinct
// header even if every field matches.
type PageHeader struct {
	MediaPageNumber int64
	PageDurationMs  int64
	VectorFrame     RenderingInstructions
	Locator         PageLocator
}

// SameHeader reports whether a and b are the same header by identity.
func SameHeader(a, b *PageHeader) bool { return a == b }

// ReadableMediaPage is produced by the external video reader: an optional
// header plus the still-compressed audio payload. It is void iff Header
// is nil.
type ReadableMediaPage struct {
	Header        *PageHeader
	CompressedAudio []byte
}

// IsVoid reports whether this page represents loss/corruption.
func (p ReadableMediaPage) IsVoid() bool { return p.Header == nil }

// VoidReadableMediaPage is the canonical void readable page.
var VoidReadableMediaPage = ReadableMediaPage{}

// ReadyToPlayPage is produced inside the coordinator by decoding a
// ReadableMediaPage's audio (or by concealment): an optional header plus
// already-decoded PCM. Void iff Header is nil (equivalently, its vector
// frame is void).
type ReadyToPlayPage struct {
	Header       *PageHeader
	DecodedAudio []byte
}

// IsVoid reports whether this page represents loss/corruption.
func (p ReadyToPlayPage) IsVoid() bool { return p.Header == nil }

// VoidReadyToPlayPage is the canonical void ready-to-play page.
var VoidReadyToPlayPage = ReadyToPlayPage{}

// VectorFrame returns the page's rendering instructions, or the void
// instructions if the page itself is void.
func (p ReadyToPlayPage) VectorFrame() RenderingInstructions {
	if p.IsVoid() {
		return VoidRenderingInstructions
	}
	return p.Header.VectorFrame
}

// AudioProperties describes the PCM shape a VideoReader's audio track
// decodes to; passed through to the audio decoder and sink without
// inspection by the coordinator.
type AudioProperties struct {
	SampleRate   int
	ChannelCount int
	BitDepth     int
}
