package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/learnpath/pkg/domain/state"
)

// SaveState overwrites the snapshot atomically, creating the workspace
// directory when it is missing.
func (r *FilesystemRepository) SaveState(s *state.State) error {
	path, err := r.StatePath()
	if err != nil {
		return err
	}
	if err := r.Initialize(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	return writeAtomic(path, data)
}

// LoadState reads the snapshot and merges it over state.Default. A missing
// file yields defaults and no error. An unreadable or malformed snapshot
// yields defaults and an error wrapping ErrCorruptState or the read error.
func (r *FilesystemRepository) LoadState() (*state.State, error) {
	path, err := r.StatePath()
	if err != nil {
		return state.Default(), err
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return state.Default(), nil
	}

	retryer := retry.New[[]byte](r.retryConfig)
	data, err := retryer.Do(context.Background(), func(ctx context.Context) ([]byte, error) {
		// #nosec G304 -- Path is resolved and validated via ResolvePath
		return os.ReadFile(path)
	})
	if err != nil {
		return state.Default(), fmt.Errorf("failed to read state file: %w", err)
	}

	s, err := DecodeState(data)
	if err != nil {
		return state.Default(), err
	}
	return s, nil
}

// DecodeState validates raw snapshot bytes and deep-merges them over the
// default state.
func DecodeState(data []byte) (*state.State, error) {
	if err := ValidateSnapshot(data); err != nil {
		return nil, err
	}

	var snapshot any
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	defaults, err := toGeneric(state.Default())
	if err != nil {
		return nil, err
	}

	generic := DeepMerge(defaults, snapshot)
	roundPercents(generic)
	merged, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merged state: %w", err)
	}

	var s state.State
	if err := json.Unmarshal(merged, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	s.Normalize()
	return &s, nil
}

// roundPercents rounds hand-edited fractional track percentages so they
// decode into the integer progress map.
func roundPercents(v any) {
	root, ok := v.(map[string]any)
	if !ok {
		return
	}
	prog, ok := root["progress"].(map[string]any)
	if !ok {
		return
	}
	items, ok := prog["items"].(map[string]any)
	if !ok {
		return
	}
	for id, pct := range items {
		if f, ok := pct.(float64); ok {
			items[id] = math.Round(f)
		}
	}
}

func toGeneric(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal defaults: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal defaults: %w", err)
	}
	return out, nil
}
