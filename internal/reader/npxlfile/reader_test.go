package npxlfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oreal-solutions/npxlplay/internal/media"
	"github.com/oreal-solutions/npxlplay/internal/mediatime"
)

// page is a test-only fixture describing one stored page before it's
// serialized into a container file.
type page struct {
	number     int64
	durationMs int64
	vf         media.RenderingInstructions
	audio      []byte
}

func simpleVF(bg uint32) media.RenderingInstructions {
	return media.RenderingInstructions{
		Viewport:        &media.Viewport{WidthPx: 640, HeightPx: 480},
		BackgroundColor: bg,
		Paths: []media.Path{
			{ColorARGB: 0xFF0000FF, WidthPx: 2, Points: []media.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}},
		},
	}
}

// writeTestContainer serializes pages into a valid npxl container file and
// returns its path.
func writeTestContainer(t *testing.T, dir string, pages []page, props media.AudioProperties) string {
	t.Helper()

	var vfBlobs, audioBlobs [][]byte
	for _, p := range pages {
		var buf bytes.Buffer
		require.NoError(t, encodeVectorFrame(&buf, p.vf))
		vfBlobs = append(vfBlobs, buf.Bytes())
		audioBlobs = append(audioBlobs, p.audio)
	}

	const headerSize = 5 + 4*4 + 8
	const entrySize = 8 + 8 + 8 + 4 + 8 + 4
	blobsStart := uint64(headerSize + entrySize*len(pages))

	entries := make([]tableEntry, len(pages))
	offset := blobsStart
	for i, p := range pages {
		entries[i] = tableEntry{
			mediaPageNumber: p.number,
			pageDurationMs:  p.durationMs,
			vectorFrameOff:  offset,
			vectorFrameLen:  uint32(len(vfBlobs[i])),
		}
		offset += uint64(len(vfBlobs[i]))
		entries[i].audioOff = offset
		entries[i].audioLen = uint32(len(audioBlobs[i]))
		offset += uint64(len(audioBlobs[i]))
	}

	var out bytes.Buffer
	require.NoError(t, writeHeader(&out, header{
		sampleRate:   uint32(props.SampleRate),
		channelCount: uint32(props.ChannelCount),
		bitDepth:     uint32(props.BitDepth),
		pageCount:    uint32(len(pages)),
	}))
	for _, e := range entries {
		require.NoError(t, writeTableEntry(&out, e))
	}
	for i := range pages {
		out.Write(vfBlobs[i])
		out.Write(audioBlobs[i])
	}

	path := filepath.Join(dir, "fixture.npxl")
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0o600))
	return path
}

func TestReaderHappyPathNoGaps(t *testing.T) {
	dir := t.TempDir()
	path := writeTestContainer(t, dir, []page{
		{number: 0, durationMs: 2000, vf: simpleVF(200), audio: []byte{1, 2, 3}},
		{number: 1, durationMs: 1000, vf: simpleVF(100)},
		{number: 2, durationMs: 3000, vf: simpleVF(300)},
	}, media.AudioProperties{SampleRate: 44100, ChannelCount: 2, BitDepth: 16})

	r := Open(path)
	require.NoError(t, r.Initialise())
	defer r.Release()

	require.Equal(t, int64(6000), r.GetVideoDuration().Millis())
	require.Equal(t, 44100, r.GetAudioProperties().SampleRate)

	pages, err := r.GetPagesInRange(mediatime.FromMillis(0), mediatime.FromMillis(6000))
	require.NoError(t, err)
	require.Len(t, pages, 3)
	require.False(t, pages[0].IsVoid())
	require.Equal(t, int64(0), pages[0].Header.MediaPageNumber)
	require.Equal(t, []byte{1, 2, 3}, pages[0].CompressedAudio)
	require.Equal(t, uint32(300), pages[2].Header.VectorFrame.BackgroundColor)
}

func TestReaderSynthesizesGapAsVoid(t *testing.T) {
	dir := t.TempDir()
	path := writeTestContainer(t, dir, []page{
		{number: 0, durationMs: 2000, vf: simpleVF(200)},
		{number: 3, durationMs: 1000, vf: simpleVF(300)}, // pages 1,2 lost
	}, media.AudioProperties{SampleRate: 8000, ChannelCount: 1, BitDepth: 16})

	r := Open(path)
	require.NoError(t, r.Initialise())
	defer r.Release()

	// Each void is sized to page 0's 2000ms, so page 3 starts at 6000.
	pages, err := r.GetPagesInRange(mediatime.FromMillis(0), mediatime.FromMillis(7000))
	require.NoError(t, err)
	require.Len(t, pages, 4) // page0, void(gap for #1), void(gap for #2), page3
	require.False(t, pages[0].IsVoid())
	require.True(t, pages[1].IsVoid())
	require.True(t, pages[2].IsVoid())
	require.False(t, pages[3].IsVoid())
	require.Equal(t, int64(3), pages[3].Header.MediaPageNumber)
}

func TestReaderLeadingGapIsDroppedNotSynthesized(t *testing.T) {
	dir := t.TempDir()
	// First stored page number is 2: per the "first page is 0 or 1"
	// assumption there is no known duration to size a leading void from,
	// so the timeline starts directly at the first real page.
	path := writeTestContainer(t, dir, []page{
		{number: 2, durationMs: 2000, vf: simpleVF(200)},
	}, media.AudioProperties{SampleRate: 8000, ChannelCount: 1, BitDepth: 16})

	r := Open(path)
	require.NoError(t, r.Initialise())
	defer r.Release()

	pages, err := r.GetPagesInRange(mediatime.FromMillis(0), mediatime.FromMillis(2000))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.False(t, pages[0].IsVoid())
}

func TestReaderRangeRespectsBoundaries(t *testing.T) {
	dir := t.TempDir()
	path := writeTestContainer(t, dir, []page{
		{number: 0, durationMs: 1000, vf: simpleVF(10)},
		{number: 1, durationMs: 1000, vf: simpleVF(20)},
		{number: 2, durationMs: 1000, vf: simpleVF(30)},
	}, media.AudioProperties{})

	r := Open(path)
	require.NoError(t, r.Initialise())
	defer r.Release()

	pages, err := r.GetPagesInRange(mediatime.FromMillis(1500), mediatime.FromMillis(2500))
	require.NoError(t, err)
	require.Len(t, pages, 2)
	require.Equal(t, uint32(20), pages[0].Header.VectorFrame.BackgroundColor)
	require.Equal(t, uint32(30), pages[1].Header.VectorFrame.BackgroundColor)
}

func TestOpenRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.npxl")
	require.NoError(t, os.WriteFile(path, []byte("not an npxl file at all"), 0o600))

	r := Open(path)
	err := r.Initialise()
	require.Error(t, err)
}
