package mp3page

import "testing"

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

func TestDecodeInvalidFrameErrors(t *testing.T) {
	d := New()
	if _, err := d.Decode([]byte{0x00, 0x01, 0x02, 0x03}); err == nil {
		t.Fatalf("Decode() on garbage bytes: want error, got nil")
	}
}

func TestReleaseIsNoop(t *testing.T) {
	d := New()
	if err := d.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}
