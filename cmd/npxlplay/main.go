package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oreal-solutions/npxlplay/internal/codec/flacpage"
	"github.com/oreal-solutions/npxlplay/internal/codec/mp3page"
	"github.com/oreal-solutions/npxlplay/internal/codec/vorbispage"
	"github.com/oreal-solutions/npxlplay/internal/codec/wavpage"
	"github.com/oreal-solutions/npxlplay/internal/playback"
	"github.com/oreal-solutions/npxlplay/internal/reader/npxlfile"
	"github.com/oreal-solutions/npxlplay/internal/sink/oto"
)

func main() {
	codecFlag := flag.String("codec", "mp3", "audio codec packed into the container: mp3, flac, vorbis, wav")
	noAudio := flag.Bool("no-audio", false, "disable audio playback")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: npxlplay [--codec=mp3|flac|vorbis|wav] [--no-audio] <file.npxl>\n")
		os.Exit(1)
	}
	path := flag.Arg(0)

	decoder, err := decoderFor(*codecFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	reader := npxlfile.Open(path)

	var sink playback.AudioSink
	var volume volumeSetter
	if !*noAudio {
		otoSink := oto.New()
		sink = otoSink
		volume = otoSink
	}

	coord := playback.New()
	if err := coord.Initialise(reader, decoder, sink); err != nil {
		fmt.Fprintf(os.Stderr, "Error initialising playback: %v\n", err)
		os.Exit(1)
	}
	defer coord.Release()

	m := newModel(coord, reader, volume)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func decoderFor(codec string) (playback.AudioDecoder, error) {
	switch strings.ToLower(codec) {
	case "mp3":
		return mp3page.New(), nil
	case "flac":
		return flacpage.New(), nil
	case "vorbis", "ogg":
		return vorbispage.New(), nil
	case "wav":
		return wavpage.New(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q", codec)
	}
}
