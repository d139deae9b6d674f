// Package progress derives completion percentages from lesson checkboxes and
// detects stage milestones.
package progress

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
)

const lessonKeySep = "::"

// Progress holds per-track percentages and lesson completion maps.
type Progress struct {
	Items            map[string]int             `json:"items"`            // trackID -> percent
	CompletedLessons map[string]map[string]bool `json:"completedLessons"` // trackID -> lessonKey -> done
}

// DefaultItems are the seeded percentages of the three core tracks.
func DefaultItems() map[string]int {
	return map[string]int{
		"track-basic-1":  40,
		"track-docker-1": 30,
		"track-k8s-1":    20,
	}
}

// NewProgress returns progress seeded with DefaultItems.
func NewProgress() *Progress {
	return &Progress{
		Items:            DefaultItems(),
		CompletedLessons: make(map[string]map[string]bool),
	}
}

// LessonKey builds the composite key of a lesson.
func LessonKey(trackID string, chapter, lesson int) string {
	return fmt.Sprintf("%s%s%d%s%d", trackID, lessonKeySep, chapter, lessonKeySep, lesson)
}

// ParseLessonKey splits a composite lesson key.
func ParseLessonKey(key string) (trackID string, chapter, lesson int, err error) {
	parts := strings.Split(key, lessonKeySep)
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("invalid lesson key: %q", key)
	}
	if chapter, err = strconv.Atoi(parts[1]); err != nil {
		return "", 0, 0, fmt.Errorf("invalid chapter index in %q: %w", key, err)
	}
	if lesson, err = strconv.Atoi(parts[2]); err != nil {
		return "", 0, 0, fmt.Errorf("invalid lesson index in %q: %w", key, err)
	}
	return parts[0], chapter, lesson, nil
}

// CountLessons returns the lesson total of a track, 0 when it has no
// chapter outline.
func CountLessons(t catalog.Track) int {
	return t.LessonCount()
}

// Percent computes the completion percentage of a lesson map. The boolean
// is false when total <= 0; callers then fall back to the stored value.
func Percent(completed map[string]bool, total int) (int, bool) {
	if total <= 0 {
		return 0, false
	}
	done := 0
	for _, v := range completed {
		if v {
			done++
		}
	}
	pct := int(math.Round(100 * float64(done) / float64(total)))
	return min(pct, 100), true
}

// ToggleLesson flips a lesson and, when total is known, rewrites the track
// percentage in the same step. It returns the new lesson value.
func (p *Progress) ToggleLesson(trackID, lessonKey string, total int) bool {
	p.ensure()
	lessons := p.CompletedLessons[trackID]
	if lessons == nil {
		lessons = make(map[string]bool)
		p.CompletedLessons[trackID] = lessons
	}
	lessons[lessonKey] = !lessons[lessonKey]

	if pct, ok := Percent(lessons, total); ok {
		p.Items[trackID] = pct
	}
	return lessons[lessonKey]
}

// Set stores a percentage explicitly, clamped to [0,100].
func (p *Progress) Set(trackID string, value int) {
	p.ensure()
	p.Items[trackID] = max(0, min(100, value))
}

// Lessons returns the completion map of a track (nil if none).
func (p *Progress) Lessons(trackID string) map[string]bool {
	return p.CompletedLessons[trackID]
}

// TrackPercent returns the derived percentage when total > 0 and the stored
// one otherwise.
func (p *Progress) TrackPercent(trackID string, total int) int {
	if pct, ok := Percent(p.CompletedLessons[trackID], total); ok {
		return pct
	}
	return p.Items[trackID]
}

// Average returns the rounded mean of all track percentages.
func (p *Progress) Average() int {
	if len(p.Items) == 0 {
		return 0
	}
	sum := 0
	for _, v := range p.Items {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(p.Items))))
}

// StagePercents partitions track percentages by inferred stage and averages
// each partition. Empty partitions report 0.
func StagePercents(items map[string]int) map[catalog.Stage]float64 {
	sums := make(map[catalog.Stage]int)
	counts := make(map[catalog.Stage]int)
	for trackID, pct := range items {
		stage := catalog.InferStage(trackID)
		sums[stage] += pct
		counts[stage]++
	}

	out := make(map[catalog.Stage]float64, 3)
	for _, stage := range catalog.AllStages() {
		if counts[stage] == 0 {
			out[stage] = 0
			continue
		}
		out[stage] = float64(sums[stage]) / float64(counts[stage])
	}
	return out
}

func (p *Progress) ensure() {
	if p.Items == nil {
		p.Items = make(map[string]int)
	}
	if p.CompletedLessons == nil {
		p.CompletedLessons = make(map[string]map[string]bool)
	}
}
