package catalog

import (
	"fmt"
	"strings"
)

// Stage buckets tracks, resources and tasks into the three learning phases.
type Stage string

const (
	StageCloud  Stage = "cloud"
	StageDocker Stage = "docker"
	StageK8s    Stage = "k8s"
)

// AllStages returns the stages in display order.
func AllStages() []Stage {
	return []Stage{StageCloud, StageDocker, StageK8s}
}

// IsValid returns true if the stage is one of the known stages.
func (s Stage) IsValid() bool {
	switch s {
	case StageCloud, StageDocker, StageK8s:
		return true
	default:
		return false
	}
}

func (s Stage) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the stage.
func (s Stage) DisplayName() string {
	switch s {
	case StageCloud:
		return "Cloud Basics"
	case StageDocker:
		return "Docker"
	case StageK8s:
		return "K8s"
	default:
		return string(s)
	}
}

// ParseStage parses a string into a Stage.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	if !stage.IsValid() {
		return "", fmt.Errorf("invalid stage: %q (want cloud, docker or k8s)", s)
	}
	return stage, nil
}

// InferStage derives the stage of a catalog id by substring match.
// Anything that is neither docker nor k8s counts as cloud.
func InferStage(id string) Stage {
	switch {
	case strings.Contains(id, "docker"):
		return StageDocker
	case strings.Contains(id, "k8s"):
		return StageK8s
	default:
		return StageCloud
	}
}
