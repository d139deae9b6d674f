package cli

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/learnpath/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/felixgeelhaar/learnpath/pkg/domain/planning"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the study plan",
}

var (
	taskStage        string
	taskDue          string
	taskNote         string
	taskDone         bool
	taskLinkType     string
	taskLinkID       string
	taskFromTrack    string
	taskFromResource string
	taskForce        bool
	taskTitle        string
	taskListStage    string
	taskStatus       string
	taskJSON         bool
)

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task, optionally prefilled from a track or resource",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		draft, err := draftFromFlags(cmd, services)
		if err != nil {
			return MapError(err)
		}
		if len(args) > 0 {
			draft.Title = args[0]
		}

		if draft.LinkedID != "" && !taskForce {
			if existing, ok := services.Tracker.LinkedTask(draft.LinkedType, draft.LinkedID); ok {
				fmt.Printf("Already planned: %s (%s). Use --force to add another.\n", existing.Title, existing.ID)
				return nil
			}
		}

		task, err := services.Tracker.AddTask(ctx, draft)
		if err != nil {
			return MapError(fmt.Errorf("failed to add task: %w", err))
		}
		fmt.Printf("Added task %s: %s\n", task.ID, task.Title)
		return nil
	},
}

func draftFromFlags(cmd *cobra.Command, services *wiring.AppServices) (planning.Draft, error) {
	var draft planning.Draft
	switch {
	case taskFromTrack != "":
		detail, err := services.Source.GetTrack(cmd.Context(), taskFromTrack)
		if err != nil {
			return draft, fmt.Errorf("fetch track: %w", err)
		}
		draft = planning.DraftFromItem(detail.Track.Item(), catalog.ItemTrack)
	case taskFromResource != "":
		detail, err := services.Source.GetResource(cmd.Context(), taskFromResource)
		if err != nil {
			return draft, fmt.Errorf("fetch resource: %w", err)
		}
		draft = planning.DraftFromItem(detail.Resource.Item(), catalog.ItemResource)
	default:
		draft.Stage = catalog.StageCloud
	}

	if cmd.Flags().Changed("stage") {
		draft.Stage = catalog.Stage(strings.ToLower(taskStage))
	}
	if cmd.Flags().Changed("link-type") {
		draft.LinkedType = planning.LinkType(taskLinkType)
	}
	if cmd.Flags().Changed("link-id") {
		draft.LinkedID = taskLinkID
	}
	draft.DueDate = taskDue
	draft.Note = taskNote
	draft.Done = taskDone
	return draft, nil
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit fields of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		changes := changesFromFlags(cmd)
		if changes.IsEmpty() {
			return NewCLIError("nothing to change", "Pass at least one of --title, --stage, --due, --note, --link-type, --link-id, --done", nil)
		}

		found, err := services.Tracker.UpdateTask(cmd.Context(), args[0], changes)
		if err != nil {
			return MapError(fmt.Errorf("failed to update task: %w", err))
		}
		if !found {
			return MapError(fmt.Errorf("%s: %w", args[0], planning.ErrTaskNotFound))
		}
		fmt.Printf("Updated task %s\n", args[0])
		return nil
	},
}

func changesFromFlags(cmd *cobra.Command) planning.Changes {
	var c planning.Changes
	flags := cmd.Flags()
	if flags.Changed("title") {
		c.Title = &taskTitle
	}
	if flags.Changed("stage") {
		stage := catalog.Stage(strings.ToLower(taskStage))
		c.Stage = &stage
	}
	if flags.Changed("due") {
		c.DueDate = &taskDue
	}
	if flags.Changed("note") {
		c.Note = &taskNote
	}
	if flags.Changed("link-type") {
		lt := planning.LinkType(taskLinkType)
		c.LinkedType = &lt
	}
	if flags.Changed("link-id") {
		c.LinkedID = &taskLinkID
	}
	if flags.Changed("done") {
		c.Done = &taskDone
	}
	return c
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task between done and active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		task, found, err := services.Tracker.ToggleTask(cmd.Context(), args[0])
		if err != nil {
			return MapError(err)
		}
		if !found {
			return MapError(fmt.Errorf("%s: %w", args[0], planning.ErrTaskNotFound))
		}
		if task.Done {
			fmt.Printf("Completed: %s\n", task.Title)
		} else {
			fmt.Printf("Reopened: %s\n", task.Title)
		}
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Remove a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		if !services.Tracker.RemoveTask(cmd.Context(), args[0]) {
			return MapError(fmt.Errorf("%s: %w", args[0], planning.ErrTaskNotFound))
		}
		fmt.Printf("Removed task %s\n", args[0])
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks filtered by stage and status",
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := planning.ParseStageFilter(taskListStage)
		if err != nil {
			return err
		}
		status, err := planning.ParseStatusFilter(taskStatus)
		if err != nil {
			return err
		}
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		tasks := services.Tracker.Tasks(stage, status)
		if taskJSON {
			return printJSON(tasks)
		}
		printHeader("Tasks", len(tasks))
		for _, t := range tasks {
			fmt.Println(taskLine(t))
		}
		if len(tasks) == 0 {
			printNone()
		}
		return nil
	},
}

var taskStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show plan statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		stats := services.Tracker.TaskStats()
		if taskJSON {
			return printJSON(stats)
		}
		printHeader("Plan", -1)
		fmt.Printf("  Total:               %d\n", stats.Total)
		fmt.Printf("  Done:                %d\n", stats.Done)
		fmt.Printf("  Completed this week: %d\n", stats.CompletedThisWeek)
		overdue := fmt.Sprintf("%d", stats.Overdue)
		if stats.Overdue > 0 {
			overdue = overdueStyle.Render(overdue)
		}
		fmt.Printf("  Overdue:             %s\n", overdue)
		fmt.Printf("  Due soon:            %d\n", stats.DueSoon)
		fmt.Printf("  Nearest due:         %s\n", stats.NearestDueLabel())
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringVar(&taskStage, "stage", "cloud", "Stage: cloud, docker or k8s")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")
	taskAddCmd.Flags().StringVar(&taskNote, "note", "", "Free-form note")
	taskAddCmd.Flags().BoolVar(&taskDone, "done", false, "Create the task as already done")
	taskAddCmd.Flags().StringVar(&taskLinkType, "link-type", "", "Linked item type: track or resource")
	taskAddCmd.Flags().StringVar(&taskLinkID, "link-id", "", "Linked item id")
	taskAddCmd.Flags().StringVar(&taskFromTrack, "from-track", "", "Prefill from a catalog track")
	taskAddCmd.Flags().StringVar(&taskFromResource, "from-resource", "", "Prefill from a catalog resource")
	taskAddCmd.Flags().BoolVar(&taskForce, "force", false, "Add even if a task already links the same item")

	taskEditCmd.Flags().StringVar(&taskTitle, "title", "", "New title")
	taskEditCmd.Flags().StringVar(&taskStage, "stage", "", "New stage")
	taskEditCmd.Flags().StringVar(&taskDue, "due", "", "New due date (empty clears)")
	taskEditCmd.Flags().StringVar(&taskNote, "note", "", "New note")
	taskEditCmd.Flags().StringVar(&taskLinkType, "link-type", "", "New linked item type")
	taskEditCmd.Flags().StringVar(&taskLinkID, "link-id", "", "New linked item id")
	taskEditCmd.Flags().BoolVar(&taskDone, "done", false, "Mark done (or --done=false to reopen)")

	taskListCmd.Flags().StringVar(&taskListStage, "stage", "all", "Filter by stage: all, cloud, docker or k8s")
	taskListCmd.Flags().StringVar(&taskStatus, "status", "all", "Filter by status: all, active or done")
	taskListCmd.Flags().BoolVar(&taskJSON, "json", false, "Output in JSON format")
	taskStatsCmd.Flags().BoolVar(&taskJSON, "json", false, "Output in JSON format")

	taskCmd.AddCommand(taskAddCmd, taskEditCmd, taskDoneCmd, taskRmCmd, taskListCmd, taskStatsCmd)
	RootCmd.AddCommand(taskCmd)
}
