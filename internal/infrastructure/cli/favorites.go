package cli

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/learnpath/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/spf13/cobra"
)

var favJSON bool

var favCmd = &cobra.Command{
	Use:     "fav",
	Aliases: []string{"favorites"},
	Short:   "Manage favorite tracks and resources",
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle <track|resource> <id>",
	Short: "Add an item to favorites or remove it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemType, err := catalog.ParseItemType(args[0])
		if err != nil {
			return err
		}
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		item, err := fetchItem(cmd.Context(), services, itemType, args[1])
		if err != nil {
			return MapError(err)
		}
		added, err := services.Tracker.ToggleFavorite(cmd.Context(), item, itemType)
		if err != nil {
			return MapError(err)
		}
		if added {
			fmt.Printf("★ Added %s to favorites\n", item.Title)
		} else {
			fmt.Printf("☆ Removed %s from favorites\n", item.Title)
		}
		return nil
	},
}

// fetchItem snapshots a catalog item. When the item is already a favorite
// the stored copy is used so it can be removed while offline.
func fetchItem(ctx context.Context, services *wiring.AppServices, itemType catalog.ItemType, id string) (catalog.Item, error) {
	favs := services.Tracker.Favorites()
	stored := favs.Tracks
	if itemType == catalog.ItemResource {
		stored = favs.Resources
	}
	for _, it := range stored {
		if it.ID == id {
			return it, nil
		}
	}

	if itemType == catalog.ItemTrack {
		detail, err := services.Source.GetTrack(ctx, id)
		if err != nil {
			return catalog.Item{}, fmt.Errorf("fetch track: %w", err)
		}
		return detail.Track.Item(), nil
	}
	detail, err := services.Source.GetResource(ctx, id)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("fetch resource: %w", err)
	}
	return detail.Resource.Item(), nil
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		favs := services.Tracker.Favorites()
		if favJSON {
			return printJSON(favs)
		}

		printHeader("Favorite tracks", len(favs.Tracks))
		for _, it := range favs.Tracks {
			fmt.Printf("  %-20s %s\n", it.ID, it.Title)
		}
		if len(favs.Tracks) == 0 {
			printNone()
		}
		fmt.Println()
		printHeader("Favorite resources", len(favs.Resources))
		for _, it := range favs.Resources {
			fmt.Printf("  %-20s %s\n", it.ID, it.Title)
		}
		if len(favs.Resources) == 0 {
			printNone()
		}
		return nil
	},
}

var favClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every favorite",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		if err := services.Tracker.ClearFavorites(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Favorites cleared.")
		return nil
	},
}

func init() {
	favListCmd.Flags().BoolVar(&favJSON, "json", false, "Output in JSON format")
	favCmd.AddCommand(favToggleCmd, favListCmd, favClearCmd)
	RootCmd.AddCommand(favCmd)
}
