package icon

import (
	"github.com/etldl/etldl/color"
	"github.com/etldl/etldl/style"
)

type Icon int

const (
	Success Icon = iota + 1
	Fail
	Skip
	Empty
	Download
	Convert
	Course
	Video
	Config
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    style.Fg(color.Green)(""),
		plain:   style.Fg(color.Green)("✓"),
		squares: style.Fg(color.Green)("▇"),
	},
	Fail: {
		emoji:   "❌",
		nerd:    style.Fg(color.Red)(""),
		plain:   style.Fg(color.Red)("✗"),
		squares: style.Fg(color.Red)("▇"),
	},
	Skip: {
		emoji:   "⏭️",
		nerd:    style.Fg(color.Blue)(""),
		plain:   style.Fg(color.Blue)("»"),
		squares: style.Fg(color.Blue)("▇"),
	},
	Empty: {
		emoji:   "🫙",
		nerd:    style.Fg(color.Yellow)(""),
		plain:   style.Fg(color.Yellow)("∅"),
		squares: style.Fg(color.Yellow)("▇"),
	},
	Download: {
		emoji:   "📥",
		nerd:    style.Fg(color.Cyan)(""),
		plain:   style.Fg(color.Cyan)("↓"),
		squares: style.Fg(color.Cyan)("▇"),
	},
	Convert: {
		emoji:   "🎞️",
		nerd:    style.Fg(color.Purple)(""),
		plain:   style.Fg(color.Purple)("~"),
		squares: style.Fg(color.Purple)("▇"),
	},
	Course: {
		emoji:   "📚",
		nerd:    "",
		plain:   "#",
		squares: "▇",
	},
	Video: {
		emoji:   "🎬",
		nerd:    "",
		plain:   ">",
		squares: "▇",
	},
	Config: {
		emoji:   "⚙️",
		nerd:    "",
		plain:   "*",
		squares: "▇",
	},
}
