package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/oreal-solutions/npxlplay/internal/mediatime"
	"github.com/oreal-solutions/npxlplay/internal/playback"
	"github.com/oreal-solutions/npxlplay/internal/reader/npxlfile"
)

// seekStep is how far left/right nudge the seek position.
const seekStep = int64(5000)

// volumeSetter is the narrow capability the model needs to make the +/-
// keys reach real audio output: the concrete oto.Sink handle main.go
// retains alongside the playback.AudioSink interface value it hands to the
// coordinator. nil when playback was started with --no-audio, in which
// case the keys still adjust the displayed percentage but there is no
// output to drive.
type volumeSetter interface {
	SetVolume(float64)
}

// model is the bubbletea model for the demo host: it polls the
// coordinator on a tick, and smooths the displayed seek position between
// polls with a critically-damped spring, since the coordinator itself
// only reports millisecond-granular discontinuous changes.
type model struct {
	coord    *playback.Coordinator
	metadata npxlfile.Metadata

	keys keyMap
	help help.Model

	volume    float64
	volumeOut volumeSetter

	spring       harmonica.Spring
	displayMs    float64
	displayVelMs float64

	changed chan struct{}

	width int

	quitting bool
}

func newModel(coord *playback.Coordinator, reader *npxlfile.Reader, volumeOut volumeSetter) *model {
	m := &model{
		coord:     coord,
		metadata:  reader.Metadata(),
		keys:      newKeyMap(),
		help:      help.New(),
		volume:    1.0,
		volumeOut: volumeOut,
		spring:    harmonica.NewSpring(harmonica.FPS(30), 6.0, 1.0),
		changed:   make(chan struct{}, 1),
		width:     80,
	}
	if m.volumeOut != nil {
		m.volumeOut.SetVolume(m.volume)
	}
	coord.Subscribe(func() {
		select {
		case m.changed <- struct{}{}:
		default:
		}
	})
	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForCoordinator(m.changed))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			m.coord.Release()
			return m, tea.Quit
		}
		switch {
		case msg.String() == " ":
			if m.coord.State() == playback.StatePlaying {
				m.coord.Pause()
			} else {
				m.coord.Play()
			}
		case msg.String() == "left":
			m.coord.Seek(mediatime.FromMillis(max64(0, m.coord.SeekPosition().Millis()-seekStep)))
		case msg.String() == "right":
			m.coord.Seek(mediatime.FromMillis(m.coord.SeekPosition().Millis() + seekStep))
		case msg.String() == "s":
			m.coord.Stop()
		case msg.String() == "r":
			m.coord.Replay()
		case msg.String() == "b":
			m.coord.TrySoftBufferingAgain()
		case msg.String() == "+":
			m.volume = minF(1, m.volume+0.05)
			if m.volumeOut != nil {
				m.volumeOut.SetVolume(m.volume)
			}
		case msg.String() == "-":
			m.volume = maxF(0, m.volume-0.05)
			if m.volumeOut != nil {
				m.volumeOut.SetVolume(m.volume)
			}
		case msg.String() == "?":
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tickMsg:
		m.coord.GetCurrentVectorFrame(true) // pushes this frame's audio, if any, exactly once
		target := float64(m.coord.SeekPosition().Millis())
		m.displayMs, m.displayVelMs = m.spring.Update(m.displayMs, m.displayVelMs, target)
		return m, tickCmd()

	case coordinatorChangedMsg:
		return m, waitForCoordinator(m.changed)
	}
	return m, nil
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}

	title := m.metadata.Title
	if title == "" {
		title = "npxlplay"
	}
	header := titleStyle.Render(title)
	if m.metadata.Artist != "" {
		header += "  " + artistStyle.Render(m.metadata.Artist)
	}

	state := m.coord.State()
	total := m.coord.VideoDuration().Millis()

	vf := m.coord.GetCurrentVectorFrame(false)
	cursor := spanReady
	switch {
	case state == playback.StateBuffering:
		cursor = spanBuffering
	case vf.IsVoid():
		cursor = spanVoid
	}
	bar := renderProgressBar(m.displayMs, float64(total), clampWidth(m.width-20), cursor)
	elapsed := mediatime.FromMillis(int64(m.displayMs))
	times := timeStyle.Render(fmt.Sprintf("%s / %s", formatMs(elapsed.Millis()), formatMs(total)))

	status := statusStyle.Render(fmt.Sprintf("[%s]  %s  %s", state, bar, times))

	frame := frameStyle.Render(renderFrameSummary(vf) + "\n" + renderCanvas(vf))

	softLine := ""
	if !m.coord.SoftBufferingEnabled() {
		softLine = "\n" + errorStyle.Render("soft buffering disabled — press b to retry")
	}
	if err := m.coord.LastError(); err != nil {
		softLine += "\n" + errorStyle.Render("last error: "+err.Error())
	}
	if state == playback.StateDefunct {
		softLine += "\n" + errorStyle.Render("playback is defunct")
	}

	helpView := helpStyle.Render(m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		status,
		frame,
		renderVolumePercent(m.volume),
		softLine,
		"",
		helpView,
	)
}

func clampWidth(w int) int {
	if w < 10 {
		return 10
	}
	return w
}

func formatMs(ms int64) string {
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
