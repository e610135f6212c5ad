package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1A1A2E", Dark: "#F5F5FF"})

	artistStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4A4A6A", Dark: "#9D9DC4"})

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#6E6E8F", Dark: "#7A7AA0"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#2E2E4F", Dark: "#C9C9E8"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#8A8AA5", Dark: "#55557A"})

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#B3001E", Dark: "#FF6B81"})

	frameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#33334D", Dark: "#D4D4F0"})

	// bufferingStyle colors the progress bar's position indicator while the
	// coordinator is in StateBuffering (a full buffer fill is in flight).
	bufferingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#A15C00", Dark: "#FFC057"})

	// voidStyle colors the position indicator when the frame under the
	// cursor is void (no page is buffered at that position). A page built
	// by concealment.Conceal reuses the previous page's frame, so it is not
	// void and does not get this style.
	voidStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#8F3B6E", Dark: "#C77DB0"})
)
