package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oreal-solutions/npxlplay/internal/media"
)

func TestRenderProgressBarAtStart(t *testing.T) {
	bar := renderProgressBar(0, 100, 20, spanReady)
	require.True(t, len(bar) > 0)
	require.Contains(t, bar, "●")
}

func TestRenderProgressBarAtEnd(t *testing.T) {
	bar := renderProgressBar(100, 100, 20, spanReady)
	runes := []rune(bar)
	require.Equal(t, "●", string(runes[len(runes)-1]))
}

func TestRenderProgressBarClampsMinWidth(t *testing.T) {
	bar := renderProgressBar(0, 100, 2, spanReady)
	require.Len(t, []rune(bar), 10)
}

func TestRenderProgressBarBufferingCursorUsesDiamond(t *testing.T) {
	bar := renderProgressBar(0, 100, 20, spanBuffering)
	require.Contains(t, bar, "◆")
}

func TestRenderProgressBarVoidCursorUsesHollowDiamond(t *testing.T) {
	bar := renderProgressBar(50, 100, 20, spanVoid)
	require.Contains(t, bar, "◇")
}

func TestRenderVolumePercent(t *testing.T) {
	require.Equal(t, "vol 50%", renderVolumePercent(0.5))
}

func TestRenderFrameSummaryVoid(t *testing.T) {
	require.Equal(t, "(concealed/void frame)", renderFrameSummary(media.VoidRenderingInstructions))
}

func TestRenderFrameSummaryRealFrame(t *testing.T) {
	vf := media.RenderingInstructions{
		Viewport:        &media.Viewport{WidthPx: 640, HeightPx: 480},
		BackgroundColor: 0x112233,
		Paths:           []media.Path{{}, {}},
	}
	summary := renderFrameSummary(vf)
	require.Contains(t, summary, "640x480")
	require.Contains(t, summary, "2 path(s)")
	require.Contains(t, summary, "no pointer")
}

func TestFormatMs(t *testing.T) {
	require.Equal(t, "00:00", formatMs(0))
	require.Equal(t, "01:05", formatMs(65000))
}

func TestRenderCanvasVoidShowsConcealedMarker(t *testing.T) {
	canvas := renderCanvas(media.VoidRenderingInstructions)
	require.Contains(t, canvas, "concealed")
}

func TestRenderCanvasDrawsWithinBounds(t *testing.T) {
	vf := media.RenderingInstructions{
		Viewport: &media.Viewport{WidthPx: 100, HeightPx: 100},
		Paths: []media.Path{
			{Points: []media.Point{{X: 0, Y: 0}, {X: 100, Y: 100}}},
		},
		Pointer: &media.Pointer{X: 50, Y: 50, Visible: true},
	}
	canvas := renderCanvas(vf)
	require.Contains(t, canvas, "█")
	require.Contains(t, canvas, "◉")
	require.Equal(t, canvasRows, len(strings.Split(canvas, "\n")))
}
