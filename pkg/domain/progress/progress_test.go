package progress

import (
	"testing"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name      string
		completed map[string]bool
		total     int
		want      int
		ok        bool
	}{
		{"zero total", map[string]bool{"a": true}, 0, 0, false},
		{"negative total", nil, -1, 0, false},
		{"nothing done", map[string]bool{"a": false}, 4, 0, true},
		{"three of four", map[string]bool{"a": true, "b": true, "c": true, "d": false}, 4, 75, true},
		{"rounds half up", map[string]bool{"a": true}, 8, 13, true},
		{"one of three", map[string]bool{"a": true}, 3, 33, true},
		{"capped at 100", map[string]bool{"a": true, "b": true, "c": true}, 2, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Percent(tt.completed, tt.total)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Percent() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPercent_MonotonicAndBounded(t *testing.T) {
	for total := 1; total <= 12; total++ {
		completed := make(map[string]bool)
		prev := -1
		for i := 0; i < total+2; i++ {
			completed[LessonKey("track-x", 0, i)] = true
			pct, ok := Percent(completed, total)
			if !ok {
				t.Fatalf("total %d: calculator should apply", total)
			}
			if pct < prev || pct < 0 || pct > 100 {
				t.Fatalf("total %d step %d: got %d after %d", total, i, pct, prev)
			}
			prev = pct
		}
	}
}

func TestLessonKeyRoundTrip(t *testing.T) {
	key := LessonKey("track-docker-1", 1, 0)
	if key != "track-docker-1::1::0" {
		t.Fatalf("unexpected key %q", key)
	}
	trackID, chapter, lesson, err := ParseLessonKey(key)
	if err != nil || trackID != "track-docker-1" || chapter != 1 || lesson != 0 {
		t.Fatalf("ParseLessonKey = %q %d %d %v", trackID, chapter, lesson, err)
	}
	if _, _, _, err := ParseLessonKey("track::x::1"); err == nil {
		t.Error("expected error for non-numeric chapter")
	}
	if _, _, _, err := ParseLessonKey("just-a-track"); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestToggleLesson_DockerScenario(t *testing.T) {
	p := NewProgress()
	const track = "track-docker-1"
	keys := []string{
		LessonKey(track, 0, 0), LessonKey(track, 0, 1),
		LessonKey(track, 1, 0), LessonKey(track, 1, 1),
	}

	for _, k := range keys[:3] {
		p.ToggleLesson(track, k, 4)
	}
	if got := p.Items[track]; got != 75 {
		t.Fatalf("expected 75 after three lessons, got %d", got)
	}

	p.ToggleLesson(track, keys[3], 4)
	if got := p.Items[track]; got != 100 {
		t.Fatalf("expected 100 after four lessons, got %d", got)
	}
}

func TestToggleLesson_DoubleToggleRestores(t *testing.T) {
	p := NewProgress()
	const track = "track-k8s-1"
	p.ToggleLesson(track, LessonKey(track, 0, 0), 5)
	before := p.Items[track]

	key := LessonKey(track, 0, 1)
	if !p.ToggleLesson(track, key, 5) {
		t.Fatal("first toggle should complete the lesson")
	}
	if p.ToggleLesson(track, key, 5) {
		t.Fatal("second toggle should reopen the lesson")
	}
	if got := p.Items[track]; got != before {
		t.Errorf("double toggle changed percent: %d -> %d", before, got)
	}
}

func TestToggleLesson_UnknownTotalKeepsStoredPercent(t *testing.T) {
	p := NewProgress()
	p.ToggleLesson("track-basic-1", LessonKey("track-basic-1", 0, 0), 0)
	if got := p.Items["track-basic-1"]; got != 40 {
		t.Errorf("expected seeded 40 to survive, got %d", got)
	}
	if !p.Lessons("track-basic-1")[LessonKey("track-basic-1", 0, 0)] {
		t.Error("lesson should still be recorded")
	}
}

func TestTrackPercentFallsBack(t *testing.T) {
	p := NewProgress()
	if got := p.TrackPercent("track-docker-1", 0); got != 30 {
		t.Errorf("expected stored 30, got %d", got)
	}
	p.ToggleLesson("track-docker-1", LessonKey("track-docker-1", 0, 0), 0)
	if got := p.TrackPercent("track-docker-1", 2); got != 50 {
		t.Errorf("expected derived 50, got %d", got)
	}
	if got := p.TrackPercent("unknown", 0); got != 0 {
		t.Errorf("expected 0 for unknown track, got %d", got)
	}
}

func TestSetClamps(t *testing.T) {
	var p Progress
	p.Set("a", 140)
	p.Set("b", -3)
	if p.Items["a"] != 100 || p.Items["b"] != 0 {
		t.Errorf("expected clamped values, got %v", p.Items)
	}
}

func TestAverage(t *testing.T) {
	if got := NewProgress().Average(); got != 30 {
		t.Errorf("expected average 30 of seeds, got %d", got)
	}
	if got := (&Progress{}).Average(); got != 0 {
		t.Errorf("expected 0 for empty progress, got %d", got)
	}
}

func TestStagePercents(t *testing.T) {
	got := StagePercents(map[string]int{
		"track-basic-1":  40,
		"track-basic-2":  61,
		"track-docker-1": 30,
	})
	if got[catalog.StageCloud] != 50.5 {
		t.Errorf("cloud = %v, want 50.5", got[catalog.StageCloud])
	}
	if got[catalog.StageDocker] != 30 {
		t.Errorf("docker = %v, want 30", got[catalog.StageDocker])
	}
	if v, ok := got[catalog.StageK8s]; !ok || v != 0 {
		t.Errorf("empty k8s partition should be 0, got %v (present %v)", v, ok)
	}
}

func TestCountLessons(t *testing.T) {
	track := catalog.Track{
		ID: "track-docker-1",
		Chapters: []catalog.Chapter{
			{Title: "Images", Lessons: []string{"a", "b"}},
			{Title: "Volumes", Lessons: []string{"c"}},
		},
	}
	if got := CountLessons(track); got != 3 {
		t.Errorf("expected 3 lessons, got %d", got)
	}
	if got := CountLessons(catalog.Track{}); got != 0 {
		t.Errorf("expected 0 for a track without outline, got %d", got)
	}
}
