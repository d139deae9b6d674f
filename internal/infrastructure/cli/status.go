package cli

import (
	"fmt"
	"slices"

	"github.com/felixgeelhaar/learnpath/pkg/domain/library"
	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Track the watch status of resources",
}

var statusSetCmd = &cobra.Command{
	Use:   "set <todo|doing|done> <resource-id>...",
	Short: "Set the status of one or more resources",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := library.ParseWatchStatus(args[0])
		if err != nil {
			return MapError(err)
		}
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		ids := args[1:]
		if len(ids) == 1 {
			err = services.Tracker.SetResourceStatus(cmd.Context(), ids[0], status)
		} else {
			batch := make(map[string]library.WatchStatus, len(ids))
			for _, id := range ids {
				batch[id] = status
			}
			err = services.Tracker.BulkSetResourceStatus(cmd.Context(), batch)
		}
		if err != nil {
			return MapError(err)
		}
		for _, id := range ids {
			fmt.Printf("  %-20s %s\n", id, statusLabel(status))
		}
		return nil
	},
}

var statusShowCmd = &cobra.Command{
	Use:   "show [resource-id]",
	Short: "Show one status, or every recorded status",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			st := services.Tracker.ResourceStatus(args[0])
			if statusJSON {
				return printJSON(map[string]library.WatchStatus{args[0]: st})
			}
			fmt.Printf("  %-20s %s\n", args[0], statusLabel(st))
			return nil
		}

		all := services.Tracker.ResourceStatuses()
		if statusJSON {
			return printJSON(all)
		}
		printHeader("Resource status", len(all))
		ids := make([]string, 0, len(all))
		for id := range all {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			fmt.Printf("  %-20s %s\n", id, statusLabel(all[id]))
		}
		if len(ids) == 0 {
			printNone()
		}
		return nil
	},
}

func init() {
	statusShowCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	statusCmd.AddCommand(statusSetCmd, statusShowCmd)
	RootCmd.AddCommand(statusCmd)
}
