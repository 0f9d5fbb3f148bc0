package cmd

import (
	"io"
	"os"

	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/inline"
	"github.com/etldl/etldl/network"
	"github.com/etldl/etldl/segment"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(videosCmd)

	videosCmd.Flags().StringP("course", "c", "", "Course to list: first, last, a number, or a title")
	videosCmd.Flags().StringP("videos", "V", "all", "Lectures to list: all, first, last, N, A-B or @substring@")
	videosCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")
	videosCmd.Flags().BoolP("resolve", "R", false, "Resolve the stream of every listed lecture")
	videosCmd.Flags().BoolP("count", "n", false, "Count the segments of every resolved stream")
	videosCmd.Flags().BoolP("schema", "s", false, "Print the JSON schema of the output and exit")
	videosCmd.Flags().StringP("output", "o", "", "Write the output to a file")

	videosCmd.MarkFlagsMutuallyExclusive("schema", "course")
}

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "List the lectures of a course",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("schema")) {
			lo.Must0(cmd.MarkFlagRequired("course"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		var writer io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			writer = file
		}

		if lo.Must(cmd.Flags().GetBool("schema")) {
			schema, err := inline.Schema()
			handleErr(err)
			_, err = writer.Write(append(schema, '\n'))
			handleErr(err)
			return
		}

		picker, err := inline.ParseCoursePicker(lo.Must(cmd.Flags().GetString("course")))
		handleErr(err)

		filter, err := inline.ParseVideosFilter(lo.Must(cmd.Flags().GetString("videos")))
		handleErr(err)

		ctx, stop := signalContext()
		defer stop()

		options := &inline.Options{
			Out:          writer,
			Portal:       session(ctx),
			Json:         lo.Must(cmd.Flags().GetBool("json")),
			CoursePicker: mo.Some(picker),
			VideosFilter: mo.Some(filter),
			Resolve:      lo.Must(cmd.Flags().GetBool("resolve")),
		}

		if options.Resolve && lo.Must(cmd.Flags().GetBool("count")) {
			options.Locator = segment.NewLocator(network.Client)
		}

		handleErr(inline.Run(ctx, options))
	},
}
