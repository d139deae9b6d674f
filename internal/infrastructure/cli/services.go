package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/learnpath/internal/infrastructure/config"
	"github.com/felixgeelhaar/learnpath/internal/infrastructure/wiring"
)

// cliLevel starts at warn and is raised or lowered once config is known.
var cliLevel = func() *slog.LevelVar {
	v := new(slog.LevelVar)
	v.Set(slog.LevelWarn)
	return v
}()

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cliLevel}))
}

func cliOverrides() config.Overrides {
	return config.Overrides{APIBaseURL: apiBaseURL, LogLevel: logLevel}
}

func loadServices(root string) (*wiring.AppServices, error) {
	if logLevel != "" {
		lvl, err := config.ParseLevel(logLevel)
		if err != nil {
			return nil, MapError(err)
		}
		cliLevel.Set(lvl)
	}

	services, loadErr := wiring.BuildAppServices(root,
		wiring.WithOverrides(cliOverrides()),
		wiring.WithLogger(newLogger()),
		wiring.WithNotifier(newToastNotifier()))
	if services == nil {
		return nil, fmt.Errorf("failed to build services: %w", loadErr)
	}
	cliLevel.Set(services.Workspace.Config.Level())
	if loadErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", loadErr)
	}
	return services, nil
}

func getProjectRoot() (string, error) {
	if projectPath != "" {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return "", fmt.Errorf("invalid project path %q: %w", projectPath, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("project path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.Getwd()
}

func loadServicesForCurrentDir() (*wiring.AppServices, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	return loadServices(root)
}
