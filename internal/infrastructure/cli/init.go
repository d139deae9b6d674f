package cli

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/learnpath/internal/infrastructure/config"
	"github.com/felixgeelhaar/learnpath/pkg/domain/state"
	"github.com/felixgeelhaar/learnpath/pkg/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .learnpath with default config and state",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		repo := storage.NewFilesystemRepository(root)
		if err := repo.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize project: %w", err)
		}

		cfgPath, err := repo.ResolvePath(storage.ConfigFile)
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			if err := config.Save(root, config.Default()); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
		}

		statePath, err := repo.StatePath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(statePath); os.IsNotExist(err) {
			if err := repo.SaveState(state.Default()); err != nil {
				return fmt.Errorf("failed to write state: %w", err)
			}
		}

		fmt.Printf("Initialized learnpath in %s\n", root)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
