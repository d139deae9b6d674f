package cli

import (
	"fmt"
	"strconv"

	"github.com/felixgeelhaar/learnpath/pkg/domain/progress"
	"github.com/spf13/cobra"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Track lesson completion",
}

var lessonToggleCmd = &cobra.Command{
	Use:   "toggle <track-id> <chapter> <lesson>",
	Short: "Check or uncheck a lesson (indexes start at 0)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		trackID := args[0]
		chapter, err := strconv.Atoi(args[1])
		if err != nil || chapter < 0 {
			return NewCLIError("invalid chapter index", "Pass a number starting at 0", err)
		}
		lesson, err := strconv.Atoi(args[2])
		if err != nil || lesson < 0 {
			return NewCLIError("invalid lesson index", "Pass a number starting at 0", err)
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		// without the outline the percentage cannot be recomputed
		total := 0
		detail, err := services.Source.GetTrack(cmd.Context(), trackID)
		if err != nil {
			services.Logger.Warn("track outline unavailable, percentage unchanged", "track", trackID, "error", err)
		} else {
			chapters := detail.Chapters
			if chapter >= len(chapters) {
				return NewCLIError(fmt.Sprintf("chapter %d does not exist", chapter),
					fmt.Sprintf("%s has %d chapters, numbered from 0", trackID, len(chapters)), nil)
			}
			if lessons := chapters[chapter].Lessons; lesson >= len(lessons) {
				return NewCLIError(fmt.Sprintf("lesson %d does not exist in chapter %d", lesson, chapter),
					fmt.Sprintf("Chapter %d has %d lessons, numbered from 0", chapter, len(lessons)), nil)
			}
			total = progress.CountLessons(detail.Track)
		}

		res, err := services.Tracker.ToggleLesson(cmd.Context(), trackID, progress.LessonKey(trackID, chapter, lesson), total)
		if err != nil {
			return MapError(err)
		}
		mark := "unchecked"
		if res.Completed {
			mark = "checked"
		}
		if total > 0 {
			fmt.Printf("Lesson %d.%d %s. %s is at %d%%\n", chapter+1, lesson+1, mark, trackID, res.Percent)
		} else {
			fmt.Printf("Lesson %d.%d %s.\n", chapter+1, lesson+1, mark)
		}
		return nil
	},
}

func init() {
	lessonCmd.AddCommand(lessonToggleCmd)
	RootCmd.AddCommand(lessonCmd)
}
