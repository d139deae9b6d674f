package cli

import (
	"fmt"

	"github.com/felixgeelhaar/learnpath/pkg/domain/library"
	"github.com/spf13/cobra"
)

var recentJSON bool

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Recently viewed items and recent searches",
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recently viewed items and searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		views := services.Tracker.RecentViews()
		searches := map[library.SearchPage][]string{
			library.SearchTracks:    services.Tracker.RecentSearches(library.SearchTracks),
			library.SearchResources: services.Tracker.RecentSearches(library.SearchResources),
		}
		if recentJSON {
			return printJSON(map[string]any{"views": views, "searches": searches})
		}

		printHeader("Recently viewed", len(views))
		for _, v := range views {
			fmt.Printf("  %-9s %-20s %s\n", v.Type, v.ID, v.Title)
		}
		if len(views) == 0 {
			printNone()
		}
		fmt.Println()
		for _, page := range []library.SearchPage{library.SearchTracks, library.SearchResources} {
			fmt.Printf("Recent %s searches: ", page)
			if len(searches[page]) == 0 {
				fmt.Println(mutedStyle.Render("(none)"))
				continue
			}
			for i, kw := range searches[page] {
				if i > 0 {
					fmt.Print(", ")
				}
				fmt.Print(kw)
			}
			fmt.Println()
		}
		return nil
	},
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the recently viewed history",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		if err := services.Tracker.ClearRecentViews(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Recent views cleared.")
		return nil
	},
}

func init() {
	recentListCmd.Flags().BoolVar(&recentJSON, "json", false, "Output in JSON format")
	recentCmd.AddCommand(recentListCmd, recentClearCmd)
	RootCmd.AddCommand(recentCmd)
}
