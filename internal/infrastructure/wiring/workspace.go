package wiring

import (
	"github.com/felixgeelhaar/learnpath/internal/infrastructure/config"
	"github.com/felixgeelhaar/learnpath/pkg/storage"
)

// Workspace bundles the project directory, its settings and the snapshot
// repository.
type Workspace struct {
	Root   string
	Config *config.Config
	Repo   *storage.FilesystemRepository
}

// NewWorkspace loads config for root, applies env and flag overrides and
// opens the repository. A broken config file is reported but the defaults
// are still usable.
func NewWorkspace(root string, overrides config.Overrides) (*Workspace, error) {
	cfg, err := config.Load(root)
	cfg.ApplyEnv(nil)
	cfg.ApplyOverrides(overrides)

	return &Workspace{
		Root:   root,
		Config: cfg,
		Repo:   storage.NewFilesystemRepository(root, storage.WithStateFile(cfg.StateFile)),
	}, err
}
