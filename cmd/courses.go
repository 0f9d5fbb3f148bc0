package cmd

import (
	"fmt"
	"os"

	"github.com/etldl/etldl/icon"
	"github.com/etldl/etldl/inline"
	"github.com/etldl/etldl/source"
	"github.com/etldl/etldl/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(coursesCmd)

	coursesCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	coursesCmd.Flags().BoolP("refresh", "r", false, "Ignore the cached course list")

	coursesCmd.SetOut(os.Stdout)
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the courses you are enrolled in",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		p := session(ctx)

		var (
			courses []*source.Course
			err     error
		)
		if lo.Must(cmd.Flags().GetBool("refresh")) {
			courses, err = p.Refresh(ctx)
		} else {
			courses, err = p.Courses(ctx)
		}
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			data, err := inline.Courses(courses)
			handleErr(err)
			cmd.Println(string(data))
			return
		}

		for i, c := range courses {
			cmd.Printf("%s %s %s\n", icon.Get(icon.Course), style.Faint(fmt.Sprintf("%2d.", i+1)), c.Title)
		}
	},
}
