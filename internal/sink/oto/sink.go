// Package oto adapts ebitengine/oto/v3 into a playback.AudioSink.
//
// oto plays by continuously pulling from an io.Reader; a push-based sink
// therefore needs a reader that blocks for more data instead of returning
// EOF. queue below is that reader: an oto.Player reading from it never
// sees end-of-stream while the sink is alive.
package oto

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/oreal-solutions/npxlplay/internal/media"
)

// queue is a blocking byte FIFO: Read waits for data instead of returning
// EOF, so an oto.Player reading from it never sees end-of-stream.
type queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	buf     []byte
	closed  bool
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *queue) Read(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.buf) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.buf) == 0 && q.closed {
		return 0, nil
	}
	n := copy(p, q.buf)
	q.buf = q.buf[n:]
	return n, nil
}

func (q *queue) push(pcm []byte) {
	q.mu.Lock()
	q.buf = append(q.buf, pcm...)
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *queue) drop() {
	q.mu.Lock()
	q.buf = nil
	q.mu.Unlock()
}

func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.buf = nil
	q.mu.Unlock()
	q.cond.Broadcast()
}

var (
	globalCtx     *oto.Context
	globalCtxOnce sync.Once
	globalCtxErr  error
)

func sharedContext(sampleRate, channelCount int) (*oto.Context, error) {
	globalCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalCtx, ready, globalCtxErr = oto.NewContext(op)
		if globalCtxErr == nil {
			<-ready
			if globalCtx != nil {
				if ctxErr := globalCtx.Err(); ctxErr != nil {
					globalCtxErr = friendlyInitError(ctxErr)
				}
			}
		} else {
			globalCtxErr = friendlyInitError(globalCtxErr)
		}
	})
	return globalCtx, globalCtxErr
}

// alsaNoDeviceMarkers are substrings oto's ALSA backend emits when no PCM
// device is registered at all (headless VMs, minimal containers), as
// opposed to a device that exists but is busy or misconfigured.
var alsaNoDeviceMarkers = []string{
	"alsa error at snd_pcm_open",
	"unknown pcm default",
	"cannot find card '0'",
}

// friendlyInitError rewrites an oto.Context initialisation failure into a
// message naming the likely fix when the failure looks like "no ALSA
// device registered" rather than some other context error.
func friendlyInitError(err error) error {
	if err == nil || runtime.GOOS != "linux" {
		return err
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range alsaNoDeviceMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: no ALSA playback device is registered on this host; "+
				"install/start PipeWire, PulseAudio, or a dummy ALSA loopback module, "+
				"or run on hardware with an audio device", err)
		}
	}
	return err
}

// Sink is a playback.AudioSink backed by an oto.Player pulling from an
// internal push queue.
type Sink struct {
	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
	q      *queue
	volume float64
}

// New returns an uninitialised Sink; call Initialise before use.
func New() *Sink { return &Sink{volume: 1.0} }

func (s *Sink) Initialise(props media.AudioProperties) error {
	ctx, err := sharedContext(props.SampleRate, props.ChannelCount)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = ctx
	s.q = newQueue()
	s.player = ctx.NewPlayer(s.q)
	s.player.SetVolume(s.volume)
	s.player.Play()
	return nil
}

// Write enqueues decoded PCM for playback. Never blocks the caller for
// longer than the internal append.
func (s *Sink) Write(pcm []byte) {
	s.mu.Lock()
	q := s.q
	s.mu.Unlock()
	if q == nil || len(pcm) == 0 {
		return
	}
	q.push(pcm)
}

// Clear discards audio still waiting in the sink's queue. Audio the oto
// player has already pulled into its own buffer is not discarded and
// plays out.
func (s *Sink) Clear() {
	s.mu.Lock()
	q := s.q
	s.mu.Unlock()
	if q != nil {
		q.drop()
	}
}

// SetVolume adjusts playback volume, clamped to [0.0, 1.0].
func (s *Sink) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
	if s.player != nil {
		s.player.SetVolume(v)
	}
}

func (s *Sink) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != nil {
		s.player.Pause()
		_ = s.player.Close()
		s.player = nil
	}
	if s.q != nil {
		s.q.close()
	}
	return nil
}
