package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/etldl/etldl/color"
	"github.com/etldl/etldl/converter"
	"github.com/etldl/etldl/downloader"
	"github.com/etldl/etldl/icon"
	"github.com/etldl/etldl/inline"
	"github.com/etldl/etldl/key"
	"github.com/etldl/etldl/network"
	"github.com/etldl/etldl/open"
	"github.com/etldl/etldl/progress"
	"github.com/etldl/etldl/source"
	"github.com/etldl/etldl/style"
	"github.com/etldl/etldl/util"
	"github.com/etldl/etldl/where"
	"github.com/etldl/etldl/workspace"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringP("course", "c", "", "Course to download: first, last, a number, or a title")
	downloadCmd.Flags().StringP("videos", "V", "all", "Lectures to download: all, first, last, N, A-B or @substring@")

	downloadCmd.Flags().IntP("workers", "w", 0, "Maximum number of segments fetched at the same time")
	lo.Must0(viper.BindPFlag(key.FetchWorkers, downloadCmd.Flags().Lookup("workers")))

	downloadCmd.Flags().IntP("parallel", "p", 0, "Number of lectures processed at the same time")
	lo.Must0(viper.BindPFlag(key.DownloadParallel, downloadCmd.Flags().Lookup("parallel")))

	downloadCmd.Flags().BoolP("keep-raw", "k", false, "Keep the raw stream after conversion")
	lo.Must0(viper.BindPFlag(key.DownloadKeepRaw, downloadCmd.Flags().Lookup("keep-raw")))

	downloadCmd.Flags().BoolP("open", "o", false, "Open the course directory when done")
}

// downloadCmd is the scriptable form of the root command.
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the lectures of a course",
	Long: `Download the lectures of a course without prompting for a selection.

Course selectors:
  first - first course in the list
  last - last course in the list
  [number] or #[number] - select course by position (starting from 1)
  [title] - exact title, otherwise the closest fuzzy match

Lecture selectors:
  all - every lecture
  first - first lecture in the list
  last - last lecture in the list
  [number] - select lecture by position (starting from 1)
  [from]-[to] - select lectures by range
  @[substring]@ - select lectures by title substring`,
	Example: "  etldl download --course 2 --videos 1-5",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		filter, err := inline.ParseVideosFilter(lo.Must(cmd.Flags().GetString("videos")))
		handleErr(err)

		CheckDependencies()

		p := session(ctx)
		course := pickCourse(ctx, p, lo.Must(cmd.Flags().GetString("course")))

		videos, err := inline.Select(ctx, p, course, filter)
		handleErr(err)

		summary := download(ctx, p, course, videos)

		if lo.Must(cmd.Flags().GetBool("open")) {
			if err := open.Start(workspace.Layout{Root: where.Downloads()}.CourseDir(course)); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "%s %v\n", icon.Get(icon.Fail), err)
			}
		}

		finish(summary)
	},
}

// download runs the orchestrator over videos, drawing progress on stdout.
func download(ctx context.Context, p source.Portal, course *source.Course, videos []*source.Video) downloader.Summary {
	ffmpeg := converter.New()
	orchestrator := downloader.New(p, network.Client, ffmpeg)

	r := &reporter{out: os.Stdout, bars: orchestrator.Parallel <= 1 && util.IsTerminal()}
	orchestrator.OnEvent = r.handle

	fmt.Printf(
		"%s %s %s\n",
		icon.Get(icon.Course),
		style.Bold(course.Title),
		style.Faint(util.Quantify(len(videos), "lecture", "lectures")),
	)

	return orchestrator.Run(ctx, course, videos)
}

// finish prints the totals and exits non-zero when any lecture failed.
func finish(summary downloader.Summary) {
	fmt.Println()

	counts := []struct {
		status downloader.Status
		icon   icon.Icon
	}{
		{downloader.StatusDownloaded, icon.Success},
		{downloader.StatusConverted, icon.Convert},
		{downloader.StatusSkipped, icon.Skip},
		{downloader.StatusEmpty, icon.Empty},
		{downloader.StatusFailed, icon.Fail},
	}

	for _, c := range counts {
		if n := summary.Count(c.status); n > 0 {
			fmt.Printf("%s %d %s\n", icon.Get(c.icon), n, c.status)
		}
	}

	fmt.Printf(
		"%s %s\n",
		style.Fg(color.Green)("Download complete"),
		style.Faint(humanize.IBytes(uint64(summary.Bytes()))),
	)

	if failed := summary.Failed(); len(failed) > 0 {
		handleErr(fmt.Errorf("%s failed, run again to resume", util.Quantify(len(failed), "lecture", "lectures")))
	}
}

// reporter turns orchestrator events into terminal output. With a single
// lecture in flight it draws a progress bar; otherwise it prints one line
// per lecture start and finish.
type reporter struct {
	mu   sync.Mutex
	out  io.Writer
	bars bool
	bar  *progress.Bar
}

func (r *reporter) handle(event downloader.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Kind {
	case downloader.EventStart:
		if !r.bars {
			fmt.Fprintf(r.out, "%s %s\n", icon.Get(icon.Download), event.Video.Title)
		}
	case downloader.EventStage:
		if r.bars && event.Stage == downloader.StageFetch {
			r.bar = progress.New(r.out, event.Video.Title, event.Count)
		}
	case downloader.EventSegment:
		if r.bar != nil {
			r.bar.Add(event.Segment)
		}
	case downloader.EventFinish:
		if r.bar != nil {
			r.bar.Clear()
			r.bar = nil
		}
		fmt.Fprintln(r.out, describe(*event.Outcome))
	}
}

func describe(outcome downloader.Outcome) string {
	var i icon.Icon
	switch outcome.Status {
	case downloader.StatusDownloaded:
		i = icon.Success
	case downloader.StatusConverted:
		i = icon.Convert
	case downloader.StatusSkipped:
		i = icon.Skip
	case downloader.StatusEmpty:
		i = icon.Empty
	default:
		i = icon.Fail
	}

	line := fmt.Sprintf("%s %s", icon.Get(i), downloader.Describe(outcome))
	if outcome.Bytes > 0 {
		line += " " + style.Faint(humanize.IBytes(uint64(outcome.Bytes)))
	}
	return line
}
