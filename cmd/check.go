package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/etldl/etldl/color"
	"github.com/etldl/etldl/constant"
	"github.com/etldl/etldl/converter"
	"github.com/etldl/etldl/icon"
	"github.com/etldl/etldl/log"
	"github.com/etldl/etldl/style"
)

// CheckDependencies warns when the media converter is missing. Downloads
// still work without it; lectures are then kept as raw streams.
func CheckDependencies() {
	ffmpeg := converter.New()
	if ffmpeg.Available() {
		return
	}

	log.Warnf("converter %q not found", ffmpeg.Path)
	printMissingDependency(ffmpeg.Path)
}

func installHint() string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install ffmpeg"
	case constant.Linux:
		return "sudo apt install ffmpeg"
	case constant.Windows:
		return "winget install ffmpeg"
	default:
		return ""
	}
}

func printMissingDependency(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.Orange).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.Orange).Render(fmt.Sprintf("%s Missing converter", icon.Get(icon.Fail)))
	body := fmt.Sprintf(
		"'%s' was not found in your PATH.\nLectures will be saved as raw .%s streams.",
		dep,
		constant.RawExt,
	)

	var suggestion string
	if hint := installHint(); hint != "" {
		suggestion = fmt.Sprintf("\nTo install it, try running:\n  %s", style.New().Foreground(color.Cyan).Bold(true).Render(hint))
	}

	_, _ = fmt.Fprintln(os.Stderr, box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			body,
			suggestion,
		),
	))
}
