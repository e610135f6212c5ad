// Package npxlfile implements playback.VideoReader over a small
// self-describing binary container: a fixed header, a page table (one
// entry per stored page: producer-assigned page number, duration, and
// offsets/lengths of its vector-frame and compressed-audio blobs), the
// blobs themselves, and an optional trailing ID3v2 metadata block.
//
// Gaps in the page table's page-number sequence indicate pages lost at
// encode time; Initialise walks the table once and synthesizes a void
// timeline entry (duration equal to the previous real page's) for each
// missing number, assuming the producer's numbering starts at 0 or 1, so
// a leading gap before the first stored page is dropped rather than
// synthesized (nothing to size it from; the coordinator already drops
// leading voids with no known non-void predecessor).
package npxlfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/oreal-solutions/npxlplay/internal/media"
	"github.com/oreal-solutions/npxlplay/internal/mediatime"
)

// Metadata is the optional trailing ID3v2-derived title/artist/album,
// surfaced alongside playback.VideoReader for hosts that want to display
// it.
type Metadata struct {
	Title  string
	Artist string
	Album  string
}

// Reader is a playback.VideoReader over an npxl container file.
type Reader struct {
	path string
	file *os.File

	audioProps media.AudioProperties
	timeline   []timelineEntry
	metadata   Metadata
}

type timelineEntry struct {
	startMs, durationMs int64
	page                *tableEntry // nil means a synthesized gap-fill void
}

// Open returns a Reader over the npxl container at path. Call Initialise
// before use.
func Open(path string) *Reader {
	return &Reader{path: path}
}

func (r *Reader) Initialise() error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("npxlfile: opening %s: %w", r.path, err)
	}

	hdr, err := readHeader(f)
	if err != nil {
		f.Close()
		return err
	}

	table := make([]tableEntry, hdr.pageCount)
	for i := range table {
		e, err := readTableEntry(f)
		if err != nil {
			f.Close()
			return err
		}
		table[i] = e
	}

	r.file = f
	r.audioProps = media.AudioProperties{
		SampleRate:   int(hdr.sampleRate),
		ChannelCount: int(hdr.channelCount),
		BitDepth:     int(hdr.bitDepth),
	}
	r.timeline = buildTimeline(table)

	if hdr.metadataOff != 0 {
		if m, err := readTrailerMetadata(f, hdr.metadataOff); err == nil {
			r.metadata = m
		}
	}
	return nil
}

func buildTimeline(table []tableEntry) []timelineEntry {
	if len(table) == 0 {
		return nil
	}

	timeline := make([]timelineEntry, 0, len(table))
	var cursor, prevDuration int64
	expected := table[0].mediaPageNumber

	for i := range table {
		e := table[i]
		for expected < e.mediaPageNumber {
			if prevDuration == 0 {
				// The preceding real page has zero duration, so there is
				// nothing to size a void from. Skip silently. (A leading
				// gap never reaches this loop: expected starts at the first
				// stored page's number.)
				expected++
				continue
			}
			timeline = append(timeline, timelineEntry{startMs: cursor, durationMs: prevDuration})
			cursor += prevDuration
			expected++
		}
		timeline = append(timeline, timelineEntry{startMs: cursor, durationMs: e.pageDurationMs, page: &table[i]})
		cursor += e.pageDurationMs
		prevDuration = e.pageDurationMs
		expected = e.mediaPageNumber + 1
	}
	return timeline
}

func (r *Reader) GetVideoDuration() mediatime.Duration {
	if len(r.timeline) == 0 {
		return mediatime.Zero
	}
	last := r.timeline[len(r.timeline)-1]
	return mediatime.FromMillis(last.startMs + last.durationMs)
}

func (r *Reader) GetAudioProperties() media.AudioProperties { return r.audioProps }

// Metadata returns the trailing ID3v2-derived metadata, or the zero value
// if the container carried none.
func (r *Reader) Metadata() Metadata { return r.metadata }

// GetPagesInRange returns every timeline entry overlapping
// [inclusiveStart, exclusiveEnd), in page order, reading each real page's
// blobs from the backing file. Synthesized gap entries come back void.
func (r *Reader) GetPagesInRange(inclusiveStart, exclusiveEnd mediatime.Duration) ([]media.ReadableMediaPage, error) {
	startMs := inclusiveStart.Millis()
	endMs := exclusiveEnd.Millis()

	first := sort.Search(len(r.timeline), func(i int) bool {
		e := r.timeline[i]
		return e.startMs+e.durationMs > startMs
	})

	var out []media.ReadableMediaPage
	for i := first; i < len(r.timeline) && r.timeline[i].startMs < endMs; i++ {
		e := r.timeline[i]
		if e.page == nil {
			out = append(out, media.VoidReadableMediaPage)
			continue
		}
		page, err := r.readPage(e.page)
		if err != nil {
			return nil, err
		}
		out = append(out, page)
	}
	return out, nil
}

func (r *Reader) readPage(e *tableEntry) (media.ReadableMediaPage, error) {
	vfBlob := make([]byte, e.vectorFrameLen)
	if _, err := r.file.ReadAt(vfBlob, int64(e.vectorFrameOff)); err != nil {
		return media.ReadableMediaPage{}, fmt.Errorf("npxlfile: reading vector frame for page %d: %w", e.mediaPageNumber, err)
	}
	vf, err := decodeVectorFrame(bytes.NewReader(vfBlob))
	if err != nil {
		return media.ReadableMediaPage{}, fmt.Errorf("npxlfile: decoding vector frame for page %d: %w", e.mediaPageNumber, err)
	}

	var audio []byte
	if e.audioLen > 0 {
		audio = make([]byte, e.audioLen)
		if _, err := r.file.ReadAt(audio, int64(e.audioOff)); err != nil {
			return media.ReadableMediaPage{}, fmt.Errorf("npxlfile: reading audio for page %d: %w", e.mediaPageNumber, err)
		}
	}

	return media.ReadableMediaPage{
		Header: &media.PageHeader{
			MediaPageNumber: e.mediaPageNumber,
			PageDurationMs:  e.pageDurationMs,
			VectorFrame:     vf,
		},
		CompressedAudio: audio,
	}, nil
}

func (r *Reader) Release() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

func readTrailerMetadata(f *os.File, offset uint64) (Metadata, error) {
	if _, err := f.Seek(int64(offset), io.SeekStart); err != nil {
		return Metadata{}, err
	}
	tag, err := id3v2.ParseReader(f, id3v2.Options{Parse: true})
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		Title:  strings.TrimSpace(tag.Title()),
		Artist: strings.TrimSpace(tag.Artist()),
		Album:  strings.TrimSpace(tag.Album()),
	}, nil
}
