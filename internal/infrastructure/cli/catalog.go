package cli

import (
	"fmt"

	"github.com/felixgeelhaar/learnpath/pkg/application"
	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/felixgeelhaar/learnpath/pkg/domain/planning"
	"github.com/felixgeelhaar/learnpath/pkg/domain/progress"
	"github.com/spf13/cobra"
)

var (
	catalogQuery    string
	catalogLevel    string
	catalogType     string
	catalogTag      string
	catalogPage     int
	catalogPageSize int
	catalogJSON     bool
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "Browse learning tracks",
}

var tracksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracks",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		page, err := services.Catalog.Tracks(cmd.Context(), catalog.TrackQuery{
			Q:        catalogQuery,
			Level:    catalogLevel,
			Tag:      catalogTag,
			Page:     catalogPage,
			PageSize: catalogPageSize,
		})
		if err != nil {
			return MapError(fmt.Errorf("list tracks: %w", err))
		}
		if catalogJSON {
			return printJSON(page)
		}
		printTrackPage(page)
		return nil
	},
}

func printTrackPage(page catalog.Page[catalog.Track]) {
	printHeader("Tracks", page.Total)
	for _, t := range page.List {
		fmt.Println(trackLine(t))
	}
	if len(page.List) == 0 {
		printNone()
	}
	printPager(page.Page, page.PageSize, page.Total)
}

func printPager(page, size, total int) {
	if size <= 0 || total <= size {
		return
	}
	pages := (total + size - 1) / size
	fmt.Println(mutedStyle.Render(fmt.Sprintf("  page %d/%d", max(page, 1), pages)))
}

var tracksShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a track with its chapters and your progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		detail, err := services.Catalog.Track(cmd.Context(), args[0])
		if err != nil {
			return MapError(fmt.Errorf("get track: %w", err))
		}
		if catalogJSON {
			return printJSON(detail)
		}

		tr := services.Tracker
		total := progress.CountLessons(detail.Track)
		star := "☆"
		if tr.IsFavorite(detail.ID, catalog.ItemTrack) {
			star = "★"
		}
		fmt.Println(titleStyle.Render(fmt.Sprintf("%s %s", star, detail.Title)))
		fmt.Printf("%s  level %s  stage %s\n", detail.ID, detail.Level, detail.Item().Stage().DisplayName())
		if detail.Summary != "" {
			fmt.Println(detail.Summary)
		}
		pct := tr.TrackPercent(detail.ID, total)
		fmt.Printf("\nProgress %s %d%%\n", progressBar(pct, 20), pct)

		for ci, ch := range detail.Chapters {
			fmt.Printf("\n%d. %s\n", ci+1, ch.Title)
			for li, lesson := range ch.Lessons {
				box := "[ ]"
				if tr.LessonDone(detail.ID, progress.LessonKey(detail.ID, ci, li)) {
					box = doneStyle.Render("[x]")
				}
				fmt.Printf("   %s %d.%d %s\n", box, ci+1, li+1, lesson)
			}
		}
		if len(detail.Labs) > 0 {
			fmt.Println("\nLabs:")
			for _, lab := range detail.Labs {
				fmt.Printf("  - %s\n", lab)
			}
		}
		if len(detail.RelatedResources) > 0 {
			fmt.Println("\nRelated resources:")
			for _, r := range detail.RelatedResources {
				fmt.Printf("%s  %s\n", resourceLine(r), statusLabel(tr.ResourceStatus(r.ID)))
			}
		}
		if task, ok := tr.LinkedTask(planning.LinkTrack, detail.ID); ok {
			fmt.Printf("\nIn plan: %s\n", taskLine(task))
		}
		return nil
	},
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Browse learning resources",
}

var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		page, err := services.Catalog.Resources(cmd.Context(), catalog.ResourceQuery{
			Q:        catalogQuery,
			Type:     catalogType,
			Tag:      catalogTag,
			Page:     catalogPage,
			PageSize: catalogPageSize,
		})
		if err != nil {
			return MapError(fmt.Errorf("list resources: %w", err))
		}
		if catalogJSON {
			return printJSON(page)
		}
		printResourcePage(page, nil)
		return nil
	},
}

func printResourcePage(page catalog.Page[catalog.Resource], status func(string) string) {
	printHeader("Resources", page.Total)
	for _, r := range page.List {
		line := resourceLine(r)
		if status != nil {
			line += "  " + status(r.ID)
		}
		fmt.Println(line)
	}
	if len(page.List) == 0 {
		printNone()
	}
	printPager(page.Page, page.PageSize, page.Total)
}

var resourcesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a resource and related material",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		detail, err := services.Catalog.Resource(cmd.Context(), args[0])
		if err != nil {
			return MapError(fmt.Errorf("get resource: %w", err))
		}
		if catalogJSON {
			return printJSON(detail)
		}

		tr := services.Tracker
		star := "☆"
		if tr.IsFavorite(detail.ID, catalog.ItemResource) {
			star = "★"
		}
		fmt.Println(titleStyle.Render(fmt.Sprintf("%s %s", star, detail.Title)))
		fmt.Printf("%s  %s  status %s\n", detail.ID, detail.Type, statusLabel(tr.ResourceStatus(detail.ID)))
		if detail.Description != "" {
			fmt.Println(detail.Description)
		}
		if detail.URL != "" {
			fmt.Println(detail.URL)
		}
		if len(detail.Related) > 0 {
			fmt.Println("\nRelated:")
			for _, r := range detail.Related {
				fmt.Println(resourceLine(r))
			}
		}
		if task, ok := tr.LinkedTask(planning.LinkResource, detail.ID); ok {
			fmt.Printf("\nIn plan: %s\n", taskLine(task))
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search tracks and resources and remember the keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		res, err := services.Catalog.Search(cmd.Context(), args[0])
		if err != nil {
			return MapError(fmt.Errorf("search: %w", err))
		}
		if catalogJSON {
			return printJSON(res)
		}
		printTrackPage(res.Tracks)
		fmt.Println()
		printResourcePage(res.Resources, func(id string) string {
			return statusLabel(services.Tracker.ResourceStatus(id))
		})
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend tracks and resources for you",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		ranked, err := services.Catalog.Recommend(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		if catalogJSON {
			return printJSON(map[string]any{
				"tracks":    ranked.Tracks,
				"resources": ranked.Resources,
				"fallback":  ranked.Fallback,
			})
		}

		if ranked.Fallback {
			fmt.Println(mutedStyle.Render("Catalog unreachable, showing offline picks."))
		}
		tracks := ranked.Tracks[:min(len(ranked.Tracks), application.RecommendedTracks)]
		resources := ranked.Resources[:min(len(ranked.Resources), application.RecommendedResources)]
		printHeader("Recommended tracks", len(tracks))
		for _, t := range tracks {
			fmt.Println(trackLine(t))
		}
		fmt.Println()
		printHeader("Recommended resources", len(resources))
		for _, r := range resources {
			fmt.Println(resourceLine(r))
		}
		return nil
	},
}

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show the learning roadmap with your stage progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		paths, err := services.Catalog.Paths(cmd.Context())
		if err != nil {
			return MapError(fmt.Errorf("get paths: %w", err))
		}
		if catalogJSON {
			return printJSON(paths)
		}

		titles := make(map[string]string, len(paths.Tracks))
		for _, t := range paths.Tracks {
			titles[t.ID] = t.Title
		}
		items := services.Tracker.ProgressItems()
		for i, step := range paths.Roadmap {
			fmt.Println(titleStyle.Render(fmt.Sprintf("%d. %s", i+1, step.Title)))
			if step.Description != "" {
				fmt.Println("   " + mutedStyle.Render(step.Description))
			}
			for _, id := range step.TrackIDs {
				title := titles[id]
				if title == "" {
					title = id
				}
				fmt.Printf("   %-24s %s %3d%%\n", title, progressBar(items[id], 10), items[id])
			}
		}
		if len(paths.Roadmap) == 0 {
			printNone()
		}
		return nil
	},
}

func init() {
	tracksListCmd.Flags().StringVarP(&catalogQuery, "query", "q", "", "Keyword")
	tracksListCmd.Flags().StringVar(&catalogLevel, "level", "", "Filter by level")
	tracksListCmd.Flags().StringVar(&catalogTag, "tag", "", "Filter by tag")
	resourcesListCmd.Flags().StringVarP(&catalogQuery, "query", "q", "", "Keyword")
	resourcesListCmd.Flags().StringVar(&catalogType, "type", "", "Filter by type")
	resourcesListCmd.Flags().StringVar(&catalogTag, "tag", "", "Filter by tag")
	for _, c := range []*cobra.Command{tracksListCmd, resourcesListCmd} {
		c.Flags().IntVar(&catalogPage, "page", 1, "Page number")
		c.Flags().IntVar(&catalogPageSize, "page-size", 0, "Page size (default per list)")
	}
	for _, c := range []*cobra.Command{tracksListCmd, tracksShowCmd, resourcesListCmd, resourcesShowCmd, searchCmd, recommendCmd, pathsCmd} {
		c.Flags().BoolVar(&catalogJSON, "json", false, "Output in JSON format")
	}

	tracksCmd.AddCommand(tracksListCmd, tracksShowCmd)
	resourcesCmd.AddCommand(resourcesListCmd, resourcesShowCmd)
	RootCmd.AddCommand(tracksCmd, resourcesCmd, searchCmd, recommendCmd, pathsCmd)
}
