package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/etldl/etldl/color"
	"github.com/etldl/etldl/constant"
	"github.com/etldl/etldl/converter"
	"github.com/etldl/etldl/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// converterQueryTimeout bounds the "-version" call so a hung binary
// cannot block the command.
const converterQueryTimeout = 5 * time.Second

type converterInfo struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
	Problem  string `json:"problem,omitempty"`
	Resolved bool   `json:"resolved"`
}

type buildInfo struct {
	App       string        `json:"app"`
	Version   string        `json:"version"`
	Revision  string        `json:"revision"`
	BuiltAt   string        `json:"built_at"`
	BuiltBy   string        `json:"built_by"`
	Platform  string        `json:"platform"`
	Converter converterInfo `json:"converter"`
}

func inspectConverter(ctx context.Context, ffmpeg *converter.FFmpeg) converterInfo {
	info := converterInfo{Name: ffmpeg.Path}

	path, ok := ffmpeg.Location()
	if !ok {
		info.Problem = "not found in PATH"
		return info
	}
	info.Path, info.Resolved = path, true

	ctx, cancel := context.WithTimeout(ctx, converterQueryTimeout)
	defer cancel()

	version, err := ffmpeg.Version(ctx)
	if err != nil {
		info.Problem = err.Error()
		return info
	}
	info.Version = version
	return info
}

func currentBuild(ctx context.Context) buildInfo {
	return buildInfo{
		App:       constant.App,
		Version:   constant.Version,
		Revision:  constant.Revision,
		BuiltAt:   strings.TrimSpace(constant.BuiltAt),
		BuiltBy:   constant.BuiltBy,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Converter: inspectConverter(ctx, converter.New()),
	}
}

func (b buildInfo) rows() [][2]string {
	conv := b.Converter.Path
	switch {
	case !b.Converter.Resolved:
		conv = style.Fg(color.Red)(b.Converter.Name + ": " + b.Converter.Problem)
	case b.Converter.Problem != "":
		conv += "\n" + style.Fg(color.Orange)(b.Converter.Problem)
	default:
		conv += "\n" + style.Faint(b.Converter.Version)
	}

	return [][2]string{
		{"Version", style.Bold(b.Version)},
		{"Revision", b.Revision},
		{"Built", fmt.Sprintf("%s by %s", b.BuiltAt, b.BuiltBy)},
		{"Platform", b.Platform},
		{"Converter", conv},
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version number")
	versionCmd.Flags().BoolP("json", "j", false, "Print build and converter details as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version and the converter lectures are remuxed with",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		ctx := cmd.Context()
		if ctx == nil {
			// invoked through the root --version flag
			ctx = context.Background()
		}
		info := currentBuild(ctx)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(info))
			return
		}

		cmd.Println(style.Fg(color.Purple)(info.App))
		label := style.New().Width(11).Faint(true).Render
		indent := strings.Repeat(" ", 13)
		for _, row := range info.rows() {
			value := strings.ReplaceAll(row[1], "\n", "\n"+indent)
			cmd.Printf("  %s%s\n", label(row[0]), value)
		}
	},
}
