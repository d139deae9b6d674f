package progress

import (
	"reflect"
	"testing"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
)

func TestDetect_MultipleThresholdsAscending(t *testing.T) {
	m := NewMilestones()

	got := m.Detect(map[catalog.Stage]float64{catalog.StageDocker: 80})

	want := []Milestone{
		{catalog.StageDocker, 25},
		{catalog.StageDocker, 50},
		{catalog.StageDocker, 75},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Detect() = %v, want %v", got, want)
	}
}

func TestDetect_NeverRenotifies(t *testing.T) {
	m := NewMilestones()
	m.Detect(map[catalog.Stage]float64{catalog.StageK8s: 55})

	// regress then re-cross
	if got := m.Detect(map[catalog.Stage]float64{catalog.StageK8s: 10}); len(got) != 0 {
		t.Fatalf("regression should not notify, got %v", got)
	}
	got := m.Detect(map[catalog.Stage]float64{catalog.StageK8s: 60})
	if len(got) != 0 {
		t.Fatalf("re-crossing must not notify again, got %v", got)
	}

	got = m.Detect(map[catalog.Stage]float64{catalog.StageK8s: 100})
	want := []Milestone{{catalog.StageK8s, 75}, {catalog.StageK8s, 100}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Detect() = %v, want %v", got, want)
	}
}

func TestDetect_StageOrder(t *testing.T) {
	m := NewMilestones()
	got := m.Detect(map[catalog.Stage]float64{
		catalog.StageK8s:    25,
		catalog.StageCloud:  25,
		catalog.StageDocker: 24.9,
	})
	want := []Milestone{{catalog.StageCloud, 25}, {catalog.StageK8s, 25}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Detect() = %v, want %v", got, want)
	}
}

func TestMarkSeen_NilSet(t *testing.T) {
	var m Milestones
	if !m.MarkSeen(catalog.StageCloud, 50) {
		t.Fatal("first mark should be new")
	}
	if m.MarkSeen(catalog.StageCloud, 50) {
		t.Fatal("second mark should be a no-op")
	}
	if !m.Seen(catalog.StageCloud, 50) || m.Seen(catalog.StageCloud, 25) {
		t.Errorf("unexpected seen set %v", m)
	}
}

func TestMilestoneString(t *testing.T) {
	if got := (Milestone{catalog.StageDocker, 75}).String(); got != "Docker 75%" {
		t.Errorf("unexpected string %q", got)
	}
}
