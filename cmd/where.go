package cmd

import (
	"os"
	"path/filepath"

	"github.com/etldl/etldl/color"
	"github.com/etldl/etldl/config"
	"github.com/etldl/etldl/constant"
	"github.com/etldl/etldl/key"
	"github.com/etldl/etldl/source"
	"github.com/etldl/etldl/style"
	"github.com/etldl/etldl/where"
	"github.com/etldl/etldl/workspace"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

// location is a path printed by where, alone when its flag is given.
type location struct {
	flag    string
	short   string
	label   string
	resolve func() string
}

var locations = []location{
	{"config", "c", "Config", where.Config},
	{"downloads", "d", "Downloads", where.Downloads},
	{"logs", "l", "Logs", where.Logs},
	{"cache", "", "Cache", where.Cache},
	{"history", "", "History", where.History},
}

// courseLocations shows where a run puts the files of one course.
func courseLocations(courseDir, stagingDir string) [][2]string {
	return [][2]string{
		{"Course", courseDir},
		{"Staging", stagingDir},
		{"Segments", filepath.Join(stagingDir, "<lecture>-<id>")},
		{"Raw", filepath.Join(courseDir, "<lecture>."+constant.RawExt)},
		{"Final", filepath.Join(courseDir, "<lecture>."+constant.FinalExt)},
	}
}

// envVariables lists every variable etldl reads, sorted by name.
func envVariables() []string {
	names := lo.Map(append(slices.Clone(config.EnvExposed), config.EnvOnly...), func(k string, _ int) string {
		f := config.Field{Key: k}
		return f.Env()
	})
	names = append(names, where.EnvConfigPath)
	slices.Sort(names)
	return lo.Uniq(names)
}

func secret(name string) bool {
	f := config.Field{Key: key.AuthPassword}
	return name == f.Env()
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		whereCmd.Flags().BoolP(l.flag, l.short, false, "Print only the "+l.label+" path")
	}
	whereCmd.Flags().StringP("course", "C", "", "Show the layout of the course with this title")
	whereCmd.Flags().BoolP("env", "e", false, "List the environment variables read at startup")

	flags := lo.Map(locations, func(l location, _ int) string { return l.flag })
	whereCmd.MarkFlagsMutuallyExclusive(append(flags, "course", "env")...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where etldl keeps its files and which environment it reads",
	Example: "  etldl where --downloads\n" +
		"  etldl where --course \"Operating Systems\"\n" +
		"  etldl where --env",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				cmd.Println(l.resolve())
				return
			}
		}

		label := style.New().Width(11).Foreground(color.HiPurple).Render

		if lo.Must(cmd.Flags().GetBool("env")) {
			for _, name := range envVariables() {
				value, ok := os.LookupEnv(name)
				switch {
				case !ok:
					value = style.Faint("unset")
				case secret(name):
					value = style.Fg(color.Yellow)("set, hidden")
				default:
					value = style.Fg(color.Green)(value)
				}
				cmd.Printf("%s=%s\n", style.Bold(name), value)
			}
			return
		}

		if title := lo.Must(cmd.Flags().GetString("course")); title != "" {
			layout := workspace.Layout{Root: where.Downloads()}
			course := &source.Course{Title: title}
			for _, row := range courseLocations(layout.CourseDir(course), layout.CourseTempDir(course)) {
				cmd.Printf("%s %s\n", label(row[0]), row[1])
			}
			return
		}

		for _, l := range locations {
			cmd.Printf("%s %s\n", label(l.label), l.resolve())
		}
		cmd.Println()
		courseDir := filepath.Join(where.Downloads(), "<course>")
		cmd.Println(style.Faint("each course:"))
		for _, row := range courseLocations(courseDir, filepath.Join(courseDir, workspace.TempDirname)) {
			cmd.Printf("%s %s\n", label(row[0]), row[1])
		}
	},
}
