package cmd

import (
	"encoding/json"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/etldl/etldl/color"
	"github.com/etldl/etldl/history"
	"github.com/etldl/etldl/icon"
	"github.com/etldl/etldl/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	historyCmd.Flags().StringP("course", "c", "", "Only show lectures of courses with this title")

	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the lectures downloaded so far",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.List()
		handleErr(err)

		if course := lo.Must(cmd.Flags().GetString("course")); course != "" {
			records = lo.Filter(records, func(r *history.Record, _ int) bool {
				return r.Course == course
			})
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("No downloads yet"))
			return
		}

		for _, r := range records {
			cmd.Printf(
				"%s %s %s\n  %s %s\n",
				icon.Get(icon.Video),
				style.Fg(color.Purple)(r.Course),
				r.Title,
				style.Faint(r.Path),
				style.Faint(humanize.IBytes(uint64(r.Bytes))+", "+humanize.Time(r.Completed)),
			)
		}
	},
}
