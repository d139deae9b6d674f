package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/learnpath/internal/infrastructure/watch"
	"github.com/felixgeelhaar/learnpath/pkg/application"
	"github.com/spf13/cobra"
)

var (
	watchDebounce time.Duration
	watchFor      time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print a summary whenever the state file changes",
	Long: `Watch .learnpath for changes to the state snapshot, for example from
another terminal, and print the reloaded progress summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		repo := services.Workspace.Repo
		if !repo.IsInitialized() {
			return NewCLIError("project not initialized", "Run 'learnpath init' first", nil)
		}
		statePath, err := repo.StatePath()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if watchFor > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, watchFor)
			defer cancel()
		}

		w, err := watch.New(watch.Config{
			Dir:      filepath.Dir(statePath),
			Filter:   watch.SnapshotFilter(filepath.Base(statePath)),
			Debounce: watchDebounce,
			Logger:   services.Logger,
			OnChange: func(e watch.ChangeEvent) {
				// a fresh tracker re-reads the snapshot written by the other process
				tr := application.NewTracker(repo, application.WithLogger(services.Logger))
				fmt.Printf("[%s] %s %s\n", time.Now().Format("15:04:05"), e.Type, filepath.Base(e.Path))
				printSummary(tr)
			},
		})
		if err != nil {
			return err
		}

		fmt.Printf("Watching %s... (Ctrl+C to stop)\n", statePath)
		printSummary(services.Tracker)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	},
}

func printSummary(tr *application.Tracker) {
	stats := tr.TaskStats()
	fmt.Printf("  average %d%% · tasks %d/%d done · %d overdue · theme %s\n",
		tr.AverageProgress(), stats.Done, stats.Total, stats.Overdue, tr.Theme())
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before reporting a change")
	watchCmd.Flags().DurationVar(&watchFor, "for", 0, "Stop after this long (0 watches until interrupted)")
	RootCmd.AddCommand(watchCmd)
}
