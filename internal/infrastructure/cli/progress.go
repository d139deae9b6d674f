package cli

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/spf13/cobra"
)

var progressJSON bool

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show or set track progress",
}

type progressReport struct {
	Tracks  map[string]int            `json:"tracks"`
	Average int                       `json:"average"`
	Stages  map[catalog.Stage]float64 `json:"stages"`
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show per-track and per-stage progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		report := progressReport{
			Tracks:  services.Tracker.ProgressItems(),
			Average: services.Tracker.AverageProgress(),
			Stages:  services.Tracker.StagePercents(),
		}
		if progressJSON {
			return printJSON(report)
		}

		printHeader("Stages", -1)
		for _, stage := range catalog.AllStages() {
			pct := int(math.Round(report.Stages[stage]))
			fmt.Printf("  %-14s %s %3d%%\n", stage.DisplayName(), progressBar(pct, 20), pct)
		}
		fmt.Println()
		printHeader("Tracks", len(report.Tracks))
		ids := make([]string, 0, len(report.Tracks))
		for id := range report.Tracks {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			fmt.Printf("  %-20s %s %3d%%\n", id, progressBar(report.Tracks[id], 20), report.Tracks[id])
		}
		fmt.Printf("\nAverage: %d%%\n", report.Average)
		return nil
	},
}

var progressSetCmd = &cobra.Command{
	Use:   "set <track-id> <percent>",
	Short: "Set a track percentage directly (0-100)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pct, err := strconv.Atoi(args[1])
		if err != nil {
			return NewCLIError("invalid percent", "Pass a whole number between 0 and 100", err)
		}
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		if _, err := services.Tracker.SetProgress(cmd.Context(), args[0], pct); err != nil {
			return MapError(err)
		}
		fmt.Printf("%s set to %d%%\n", args[0], services.Tracker.ProgressItems()[args[0]])
		return nil
	},
}

var milestonesCmd = &cobra.Command{
	Use:   "milestones",
	Short: "List milestones already reached",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		seen := services.Tracker.SeenMilestones()
		if progressJSON {
			return printJSON(seen)
		}
		printHeader("Milestones", len(seen))
		for _, m := range seen {
			fmt.Printf("  %s\n", doneStyle.Render("✓ "+m.String()))
		}
		if len(seen) == 0 {
			printNone()
		}
		return nil
	},
}

func init() {
	progressShowCmd.Flags().BoolVar(&progressJSON, "json", false, "Output in JSON format")
	milestonesCmd.Flags().BoolVar(&progressJSON, "json", false, "Output in JSON format")
	progressCmd.AddCommand(progressShowCmd, progressSetCmd)
	RootCmd.AddCommand(progressCmd, milestonesCmd)
}
