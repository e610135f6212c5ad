package wavpage

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// minimalWAV builds a tiny valid 16-bit mono PCM WAV file with the given
// samples, for exercising the happy path without an external fixture.
func minimalWAV(t *testing.T, samples []int16) []byte {
	t.Helper()
	var data bytes.Buffer
	for _, s := range samples {
		_ = binary.Write(&data, binary.LittleEndian, s)
	}
	dataBytes := data.Bytes()

	const sampleRate = 44100
	const channels = 1
	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(dataBytes)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(dataBytes)))
	buf.Write(dataBytes)
	return buf.Bytes()
}

func TestDecodeEmptyInputYieldsNoAudio(t *testing.T) {
	d := New()
	got, err := d.Decode(nil)
	if err != nil {
		t.Fatalf("Decode(nil) error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Decode(nil) = %v, want empty", got)
	}
}

func TestDecode16BitPassesThrough(t *testing.T) {
	wavBytes := minimalWAV(t, []int16{100, -100, 32767, -32768})
	d := New()
	got, err := d.Decode(wavBytes)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 8 {
		t.Fatalf("Decode() produced %d bytes, want 8", len(got))
	}
}

func TestDecodeInvalidFileErrors(t *testing.T) {
	d := New()
	if _, err := d.Decode([]byte("not a wav file")); err == nil {
		t.Fatalf("Decode() on non-WAV bytes: want error, got nil")
	}
}

func TestReleaseIsNoop(t *testing.T) {
	d := New()
	if err := d.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}
