// Package playback implements the playback coordinator: the
// state machine that exposes play/pause/stop/seek/replay/release and the
// per-frame vector/audio query, drives full and soft buffering, applies
// loss concealment, and notifies observers on every discontinuous change.
package playback

import (
	"errors"
	"sync"

	"github.com/oreal-solutions/npxlplay/internal/buffers"
	"github.com/oreal-solutions/npxlplay/internal/classify"
	"github.com/oreal-solutions/npxlplay/internal/clock"
	"github.com/oreal-solutions/npxlplay/internal/concealment"
	"github.com/oreal-solutions/npxlplay/internal/media"
	"github.com/oreal-solutions/npxlplay/internal/mediatime"
	"github.com/oreal-solutions/npxlplay/internal/notify"
)

// Coordinator is the playback state machine. The zero value is not
// ready to use; build one with New.
type Coordinator struct {
	mu sync.Mutex

	state         State
	clock         *clock.SeekClock
	buffersCtl    *buffers.Controller
	videoDuration mediatime.Duration

	lastQueuedNonVoid   *media.PageHeader
	lastAudioPushed     *media.PageHeader
	lastError           error
	softBufferingEnabled bool

	fullBufferInFlight bool
	softBufferInFlight bool

	videoReader  VideoReader
	audioDecoder AudioDecoder
	audioSink    AudioSink

	notifier *notify.Broadcaster
}

// New returns a fresh, Paused coordinator, not yet initialised.
func New() *Coordinator {
	return &Coordinator{
		state:                StatePaused,
		clock:                clock.New(),
		buffersCtl:           buffers.New(),
		softBufferingEnabled: true,
		notifier:             notify.New(),
	}
}

// Subscribe registers a listener called synchronously on every state,
// seek-position (discontinuous), error, or soft-buffering-flag change.
func (c *Coordinator) Subscribe(l notify.Listener) {
	c.notifier.Subscribe(l)
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// VideoDuration returns the duration reported by the video reader (zero
// means unknown/live).
func (c *Coordinator) VideoDuration() mediatime.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.videoDuration
}

// SeekPosition returns the current playhead position.
func (c *Coordinator) SeekPosition() mediatime.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock.Elapsed()
}

// LastError returns the most recent non-fatal or fatal error, or nil.
func (c *Coordinator) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// SoftBufferingEnabled reports whether soft buffering is currently armed.
func (c *Coordinator) SoftBufferingEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.softBufferingEnabled
}

// SetForwardBufferSize adjusts the forward buffer capacity (backward
// capacity is recomputed as 0.7x).
func (c *Coordinator) SetForwardBufferSize(d mediatime.Duration) {
	c.mu.Lock()
	c.buffersCtl.SetForwardCapacity(d)
	c.mu.Unlock()
}

// Initialise stores the collaborators, initialises the reader, reads
// audio properties and video duration, initialises the optional decoder
// and sink, and notifies observers. On any collaborator failure it
// returns an *classify.InitializationError and the coordinator remains
// Paused with no further operation valid.
func (c *Coordinator) Initialise(reader VideoReader, decoder AudioDecoder, sink AudioSink) error {
	c.mu.Lock()
	c.videoReader = reader
	c.audioDecoder = decoder
	c.audioSink = sink
	c.mu.Unlock()

	if err := reader.Initialise(); err != nil {
		return classify.NewInitializationError("video reader", err)
	}
	audioProps := reader.GetAudioProperties()
	duration := reader.GetVideoDuration()

	if decoder != nil {
		if err := decoder.Initialise(audioProps); err != nil {
			return classify.NewInitializationError("audio decoder", err)
		}
	}
	if sink != nil {
		if err := sink.Initialise(audioProps); err != nil {
			return classify.NewInitializationError("audio sink", err)
		}
	}

	c.mu.Lock()
	c.videoDuration = duration
	c.state = StatePaused
	c.mu.Unlock()
	c.notifier.Notify()
	return nil
}

// Release best-effort releases the reader, decoder, and sink (errors
// suppressed), sets state to Defunct, clears last_error, and notifies.
// State == Defunct is terminal: every other method becomes a no-op
// (frame queries return the void frame) until a fresh Coordinator is
// constructed.
func (c *Coordinator) Release() {
	c.mu.Lock()
	reader, decoder, sink := c.videoReader, c.audioDecoder, c.audioSink
	c.state = StateDefunct
	c.lastError = nil
	c.mu.Unlock()

	releaseAll(reader, decoder, sink)
	c.notifier.Notify()
}

func releaseAll(reader VideoReader, decoder AudioDecoder, sink AudioSink) {
	if reader != nil {
		_ = reader.Release()
	}
	if decoder != nil {
		_ = decoder.Release()
	}
	if sink != nil {
		_ = sink.Release()
	}
}

// Play starts the clock, transitions to Playing, and notifies. No-op if
// Defunct.
func (c *Coordinator) Play() {
	c.mu.Lock()
	if c.state == StateDefunct {
		c.mu.Unlock()
		return
	}
	c.clock.Start()
	c.state = StatePlaying
	c.mu.Unlock()
	c.notifier.Notify()
}

// Pause stops the clock, transitions to Paused, and notifies. No-op if
// Defunct.
func (c *Coordinator) Pause() {
	c.mu.Lock()
	if c.state == StateDefunct {
		c.mu.Unlock()
		return
	}
	c.clock.Stop()
	c.state = StatePaused
	c.mu.Unlock()
	c.notifier.Notify()
}

// Stop replaces the clock with a stopped one at zero (so the seek position
// returns to zero even after a Seek), clears the audio sink's queued audio,
// preserves the media buffers, transitions to Paused, and notifies.
// No-op if Defunct.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.state == StateDefunct {
		c.mu.Unlock()
		return
	}
	c.clock.Stop()
	c.clock = clock.New()
	sink := c.audioSink
	c.state = StatePaused
	c.mu.Unlock()

	if sink != nil {
		sink.Clear()
	}
	c.notifier.Notify()
}

// Replay is Stop followed by Play.
func (c *Coordinator) Replay() {
	c.Stop()
	c.Play()
}

// Seek replaces the clock with one offset to "to". The new clock always
// starts stopped — the coordinator never auto-resumes playback after a
// seek; call Play if that's wanted. A seek landing outside the buffered
// range is resolved only on the next frame query (which triggers full
// buffering). No-op if Defunct.
func (c *Coordinator) Seek(to mediatime.Duration) {
	c.mu.Lock()
	if c.state == StateDefunct {
		c.mu.Unlock()
		return
	}
	c.clock = clock.WithOffset(to)
	c.mu.Unlock()
	c.notifier.Notify()
}

// TrySoftBufferingAgain re-enables soft buffering (after a prior I/O
// error disabled it) and immediately triggers one soft-buffer attempt.
func (c *Coordinator) TrySoftBufferingAgain() {
	c.mu.Lock()
	if c.state == StateDefunct {
		c.mu.Unlock()
		return
	}
	c.softBufferingEnabled = true
	alreadyInFlight := c.softBufferInFlight
	if !alreadyInFlight {
		c.softBufferInFlight = true
	}
	c.mu.Unlock()
	c.notifier.Notify()

	if !alreadyInFlight {
		go c.runSoftBuffer()
	}
}

// GetCurrentVectorFrame is the host's per-display-frame poll. It returns
// the rendering instructions for the page at the current seek position,
// or the void instructions on a miss (a full or soft buffer may have been
// triggered as a side effect). If pushAudio is true and the returned
// page's header differs from the header whose audio was last pushed, its
// decoded audio is written to the sink exactly once.
func (c *Coordinator) GetCurrentVectorFrame(pushAudio bool) media.RenderingInstructions {
	c.mu.Lock()

	if c.state == StateDefunct {
		c.mu.Unlock()
		return media.VoidRenderingInstructions
	}

	if !c.videoDuration.IsZero() && c.clock.Elapsed().GreaterEq(c.videoDuration) {
		c.clock.Stop()
		c.state = StatePaused
		last := c.buffersCtl.LastPage()
		c.mu.Unlock()
		c.notifier.Notify()
		return last.VectorFrame()
	}

	seek := c.clock.Elapsed()
	onSoft := func() {
		if !c.softBufferingEnabled || c.softBufferInFlight {
			return
		}
		c.softBufferInFlight = true
		go c.runSoftBuffer()
	}
	onFull := func() {
		if c.fullBufferInFlight {
			return
		}
		c.fullBufferInFlight = true
		go c.runFullBuffer()
	}
	page := c.buffersCtl.GetAt(seek, onSoft, onFull)

	if page.IsVoid() {
		c.mu.Unlock()
		return media.VoidRenderingInstructions
	}

	var sink AudioSink
	var audio []byte
	shouldPush := pushAudio && c.lastAudioPushed != page.Header
	if shouldPush {
		sink = c.audioSink
		audio = page.DecodedAudio
		c.lastAudioPushed = page.Header
	}
	vf := page.VectorFrame()
	c.mu.Unlock()

	if shouldPush && sink != nil {
		sink.Write(audio)
	}
	return vf
}

// runFullBuffer is the hard-seek buffering routine, launched
// fire-and-forget from GetCurrentVectorFrame on a buffer miss.
func (c *Coordinator) runFullBuffer() {
	c.mu.Lock()
	priorState := c.state
	c.buffersCtl.Clear()
	c.state = StateBuffering
	reader := c.videoReader
	decoder := c.audioDecoder
	seek := c.clock.Elapsed()
	forwardCap := c.buffersCtl.ForwardCapacity()
	c.mu.Unlock()
	c.notifier.Notify()

	pages, err := reader.GetPagesInRange(seek, seek.Add(forwardCap))

	c.mu.Lock()
	if c.state == StateDefunct {
		// Superseded by a Release while this fetch was in flight; drop
		// the results.
		c.fullBufferInFlight = false
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.lastError = &classify.IoError{Err: err}
		c.state = StateDefunct
		c.fullBufferInFlight = false
		rd, dec, sk := c.videoReader, c.audioDecoder, c.audioSink
		c.mu.Unlock()
		releaseAll(rd, dec, sk)
		c.notifier.Notify()
		return
	}

	cursor := seek
	for _, p := range pages {
		if fatal := c.queueAndConcealLocked(p, &cursor); fatal != nil {
			c.lastError = fatal
			c.state = StateDefunct
			c.fullBufferInFlight = false
			rd, dec, sk := c.videoReader, c.audioDecoder, c.audioSink
			c.mu.Unlock()
			releaseAll(rd, dec, sk)
			c.notifier.Notify()
			return
		}
	}
	c.state = priorState
	c.fullBufferInFlight = false
	if decoder != nil {
		// Held under c.mu: decoder.Decode is also called from
		// queueAndConcealLocked while the lock is held, and decoders are
		// not safe for concurrent calls, so this priming call must stay
		// serialized against a concurrently-running soft buffer's decode.
		_, _ = decoder.Decode(nil) // prime the decoder across the discontinuity; result discarded.
	}
	c.mu.Unlock()
	c.notifier.Notify()
}

// runSoftBuffer is the fire-and-forget top-up routine, triggered by the
// buffers controller when the forward buffer drops under 70% of capacity.
func (c *Coordinator) runSoftBuffer() {
	c.mu.Lock()
	if c.state == StateDefunct {
		c.softBufferInFlight = false
		c.mu.Unlock()
		return
	}
	reader := c.videoReader
	start := c.buffersCtl.EndOfLastQueuedPage()
	spaceToFill := c.buffersCtl.ForwardSpaceToFill(c.clock.Elapsed())
	c.mu.Unlock()

	if spaceToFill.IsZero() {
		c.mu.Lock()
		c.softBufferInFlight = false
		c.mu.Unlock()
		return
	}

	pages, err := reader.GetPagesInRange(start, start.Add(spaceToFill))

	c.mu.Lock()
	if c.state == StateDefunct {
		c.softBufferInFlight = false
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.lastError = &classify.IoError{Err: err}
		c.softBufferingEnabled = false
		c.softBufferInFlight = false
		c.mu.Unlock()
		c.notifier.Notify()
		return
	}

	cursor := start
	for _, p := range pages {
		if fatal := c.queueAndConcealLocked(p, &cursor); fatal != nil {
			var defunct *classify.DefunctDecoderError
			if errors.As(fatal, &defunct) {
				c.lastError = fatal
				c.softBufferingEnabled = false
			}
			break
		}
	}
	c.softBufferInFlight = false
	c.mu.Unlock()
	c.notifier.Notify()
}

// queueAndConcealLocked processes one incoming page from the reader:
// void pages are replaced by a concealed copy of the last known-good
// page (or dropped silently if none exists yet); non-void pages have
// their audio decoded and are queued as-is. cursor tracks the absolute
// timeline position the next queued item should start at — it begins
// at the position the fetch range started from and advances by each
// queued item's length, standing in for "buffers.end_of_last_queued_page"
// for the very first item queued after a full-buffer clear (where that
// quantity would otherwise read back as zero instead of the seek
// position the fetch began at).
//
// Returns a non-nil error only for a fatal (*classify.DefunctDecoderError)
// decode failure, which the caller propagates; a recoverable decode
// failure drops just that page and returns nil.
func (c *Coordinator) queueAndConcealLocked(in media.ReadableMediaPage, cursor *mediatime.Duration) error {
	if in.IsVoid() {
		if c.lastQueuedNonVoid == nil {
			return nil
		}
		concealed, err := concealment.Conceal(c.lastQueuedNonVoid, c.concealmentDecoder())
		if err != nil {
			var defunct *classify.DefunctDecoderError
			if errors.As(err, &defunct) {
				return err
			}
			return nil
		}
		length := mediatime.FromMillis(c.lastQueuedNonVoid.PageDurationMs)
		start := *cursor
		c.buffersCtl.PushPage(concealed, start, length)
		*cursor = start.Add(length)
		return nil
	}

	var decoded []byte
	if len(in.CompressedAudio) > 0 && c.audioDecoder != nil {
		d, err := c.audioDecoder.Decode(in.CompressedAudio)
		if err != nil {
			var defunct *classify.DefunctDecoderError
			if errors.As(err, &defunct) {
				return err
			}
			return nil
		}
		decoded = d
	}
	start := *cursor
	length := mediatime.FromMillis(in.Header.PageDurationMs)
	c.buffersCtl.PushPage(media.ReadyToPlayPage{Header: in.Header, DecodedAudio: decoded}, start, length)
	*cursor = start.Add(length)
	c.lastQueuedNonVoid = in.Header
	return nil
}

// concealmentDecoder returns c.audioDecoder as a concealment.Decoder, or a
// literal nil interface if no decoder is configured — avoiding the
// typed-nil-interface hazard of wrapping a nil AudioDecoder in a
// non-nil adapter value.
func (c *Coordinator) concealmentDecoder() concealment.Decoder {
	if c.audioDecoder == nil {
		return nil
	}
	return c.audioDecoder
}
