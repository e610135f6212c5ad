package npxlfile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/oreal-solutions/npxlplay/internal/media"
)

// magic identifies an npxl container. Files that don't start with it are
// rejected by Reader.Initialise.
var magic = [5]byte{'N', 'P', 'X', 'L', '1'}

// tableEntry is one page table row: where to find a page's vector-frame
// and compressed-audio blobs, and the producer-assigned page number that
// the timeline gap-fill walk keys off of.
type tableEntry struct {
	mediaPageNumber int64
	pageDurationMs  int64
	vectorFrameOff  uint64
	vectorFrameLen  uint32
	audioOff        uint64
	audioLen        uint32
}

// header is the fixed-size container preamble: magic, sample rate,
// channel count, bit depth, page count, and the byte offset of the
// optional trailing ID3v2 metadata block (0 if absent).
type header struct {
	sampleRate   uint32
	channelCount uint32
	bitDepth     uint32
	pageCount    uint32
	metadataOff  uint64
}

func readHeader(r io.Reader) (header, error) {
	var h header
	var m [5]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return h, fmt.Errorf("npxlfile: reading magic: %w", err)
	}
	if m != magic {
		return h, fmt.Errorf("npxlfile: not an npxl container (bad magic)")
	}
	fields := []*uint32{&h.sampleRate, &h.channelCount, &h.bitDepth, &h.pageCount}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return h, fmt.Errorf("npxlfile: reading header: %w", err)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &h.metadataOff); err != nil {
		return h, fmt.Errorf("npxlfile: reading header: %w", err)
	}
	return h, nil
}

func writeHeader(w io.Writer, h header) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	fields := []uint32{h.sampleRate, h.channelCount, h.bitDepth, h.pageCount}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, h.metadataOff)
}

func readTableEntry(r io.Reader) (tableEntry, error) {
	var e tableEntry
	fields := []any{
		&e.mediaPageNumber, &e.pageDurationMs,
		&e.vectorFrameOff, &e.vectorFrameLen,
		&e.audioOff, &e.audioLen,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return e, fmt.Errorf("npxlfile: reading page table entry: %w", err)
		}
	}
	return e, nil
}

func writeTableEntry(w io.Writer, e tableEntry) error {
	fields := []any{
		e.mediaPageNumber, e.pageDurationMs,
		e.vectorFrameOff, e.vectorFrameLen,
		e.audioOff, e.audioLen,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// encodeVectorFrame serializes RenderingInstructions into the container's
// vector-frame blob format: viewport, background, an optional pointer, and
// a flat list of stroked paths.
func encodeVectorFrame(w io.Writer, vf media.RenderingInstructions) error {
	if vf.IsVoid() {
		return fmt.Errorf("npxlfile: cannot encode a void vector frame as a stored page")
	}
	if err := writeInts(w, int32(vf.Viewport.WidthPx), int32(vf.Viewport.HeightPx)); err != nil {
		return err
	}
	if err := writeFloats(w, vf.Viewport.OffsetX, vf.Viewport.OffsetY); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, vf.BackgroundColor); err != nil {
		return err
	}

	hasPointer := byte(0)
	if vf.Pointer != nil {
		hasPointer = 1
	}
	if err := binary.Write(w, binary.LittleEndian, hasPointer); err != nil {
		return err
	}
	if vf.Pointer != nil {
		if err := writeFloats(w, vf.Pointer.X, vf.Pointer.Y); err != nil {
			return err
		}
		visible := byte(0)
		if vf.Pointer.Visible {
			visible = 1
		}
		if err := binary.Write(w, binary.LittleEndian, visible); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(vf.Paths))); err != nil {
		return err
	}
	for _, p := range vf.Paths {
		if err := binary.Write(w, binary.LittleEndian, p.ColorARGB); err != nil {
			return err
		}
		if err := writeFloats(w, p.WidthPx); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(p.Points))); err != nil {
			return err
		}
		for _, pt := range p.Points {
			if err := writeFloats(w, pt.X, pt.Y); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeVectorFrame(r io.Reader) (media.RenderingInstructions, error) {
	var widthPx, heightPx int32
	if err := readInts(r, &widthPx, &heightPx); err != nil {
		return media.RenderingInstructions{}, err
	}
	var offsetX, offsetY float64
	if err := readFloats(r, &offsetX, &offsetY); err != nil {
		return media.RenderingInstructions{}, err
	}
	var bg uint32
	if err := binary.Read(r, binary.LittleEndian, &bg); err != nil {
		return media.RenderingInstructions{}, err
	}

	vf := media.RenderingInstructions{
		Viewport: &media.Viewport{
			WidthPx: int(widthPx), HeightPx: int(heightPx),
			OffsetX: offsetX, OffsetY: offsetY,
		},
		BackgroundColor: bg,
	}

	var hasPointer byte
	if err := binary.Read(r, binary.LittleEndian, &hasPointer); err != nil {
		return media.RenderingInstructions{}, err
	}
	if hasPointer == 1 {
		var x, y float64
		if err := readFloats(r, &x, &y); err != nil {
			return media.RenderingInstructions{}, err
		}
		var visible byte
		if err := binary.Read(r, binary.LittleEndian, &visible); err != nil {
			return media.RenderingInstructions{}, err
		}
		vf.Pointer = &media.Pointer{X: x, Y: y, Visible: visible == 1}
	}

	var pathCount uint32
	if err := binary.Read(r, binary.LittleEndian, &pathCount); err != nil {
		return media.RenderingInstructions{}, err
	}
	vf.Paths = make([]media.Path, pathCount)
	for i := range vf.Paths {
		if err := binary.Read(r, binary.LittleEndian, &vf.Paths[i].ColorARGB); err != nil {
			return media.RenderingInstructions{}, err
		}
		if err := readFloats(r, &vf.Paths[i].WidthPx); err != nil {
			return media.RenderingInstructions{}, err
		}
		var pointCount uint32
		if err := binary.Read(r, binary.LittleEndian, &pointCount); err != nil {
			return media.RenderingInstructions{}, err
		}
		vf.Paths[i].Points = make([]media.Point, pointCount)
		for j := range vf.Paths[i].Points {
			if err := readFloats(r, &vf.Paths[i].Points[j].X, &vf.Paths[i].Points[j].Y); err != nil {
				return media.RenderingInstructions{}, err
			}
		}
	}
	return vf, nil
}

func writeInts(w io.Writer, vs ...int32) error {
	for _, v := range vs {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readInts(r io.Reader, ps ...*int32) error {
	for _, p := range ps {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return err
		}
	}
	return nil
}

func writeFloats(w io.Writer, vs ...float64) error {
	for _, v := range vs {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readFloats(r io.Reader, ps ...*float64) error {
	for _, p := range ps {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return err
		}
	}
	return nil
}
