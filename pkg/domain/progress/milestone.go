package progress

import (
	"fmt"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
)

// Thresholds are the milestone percentages, ascending.
var Thresholds = []int{25, 50, 75, 100}

// Milestone is a threshold crossed by a stage.
type Milestone struct {
	Stage     catalog.Stage `json:"stage"`
	Threshold int           `json:"threshold"`
}

func (m Milestone) String() string {
	return fmt.Sprintf("%s %d%%", m.Stage.DisplayName(), m.Threshold)
}

// Milestones records which thresholds each stage has already announced.
// Entries are never removed.
type Milestones map[catalog.Stage]map[int]bool

// NewMilestones returns an empty set with every stage present.
func NewMilestones() Milestones {
	m := make(Milestones, 3)
	for _, stage := range catalog.AllStages() {
		m[stage] = make(map[int]bool)
	}
	return m
}

// Seen reports whether the threshold was already announced for the stage.
func (m Milestones) Seen(stage catalog.Stage, threshold int) bool {
	return m[stage][threshold]
}

// MarkSeen records a threshold. It returns false if it was already seen.
func (m *Milestones) MarkSeen(stage catalog.Stage, threshold int) bool {
	if *m == nil {
		*m = make(Milestones)
	}
	if (*m)[stage] == nil {
		(*m)[stage] = make(map[int]bool)
	}
	if (*m)[stage][threshold] {
		return false
	}
	(*m)[stage][threshold] = true
	return true
}

// Detect marks every threshold newly reached by the given stage percentages
// and returns them, stages in display order and thresholds ascending.
func (m *Milestones) Detect(percents map[catalog.Stage]float64) []Milestone {
	var crossed []Milestone
	for _, stage := range catalog.AllStages() {
		pct := percents[stage]
		for _, threshold := range Thresholds {
			if pct < float64(threshold) {
				break
			}
			if m.MarkSeen(stage, threshold) {
				crossed = append(crossed, Milestone{Stage: stage, Threshold: threshold})
			}
		}
	}
	return crossed
}
