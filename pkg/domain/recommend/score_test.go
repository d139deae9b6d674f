package recommend

import (
	"testing"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
)

func TestScore(t *testing.T) {
	profile := Profile{
		FavoriteTags:   map[string]bool{"docker": true},
		FavoriteLevels: map[string]bool{"基础": true},
		RecentStage:    catalog.StageDocker,
	}

	tests := []struct {
		name string
		c    Candidate
		want int
	}{
		{"all signals", Candidate{ID: "track-docker-1", Tags: []string{"docker", "容器"}, Level: "基础"}, 8},
		{"no matches", Candidate{ID: "track-basic-1", Tags: []string{"网络"}, Level: "进阶"}, 1},
		{"empty candidate", Candidate{}, 1},
		{"stage only", Candidate{ID: "res-docker-lab"}, 3},
		{"empty level never matches", Candidate{ID: "x", Level: ""}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.c, profile); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScore_ZeroProfile(t *testing.T) {
	c := Candidate{ID: "track-docker-1", Tags: []string{"docker"}, Level: "基础"}
	if got := Score(c, Profile{}); got != 1 {
		t.Errorf("expected base score for empty profile, got %d", got)
	}
}

func TestRank_StableOnTies(t *testing.T) {
	tracks := []catalog.Track{
		{ID: "track-basic-1", Tags: []string{"网络"}},
		{ID: "track-basic-2", Tags: []string{"存储"}},
		{ID: "track-docker-1", Tags: []string{"docker"}},
		{ID: "track-basic-3"},
	}
	profile := Profile{FavoriteTags: map[string]bool{"docker": true}}

	ranked := Rank(tracks, profile, TrackCandidate)

	want := []string{"track-docker-1", "track-basic-1", "track-basic-2", "track-basic-3"}
	for i, id := range want {
		if ranked[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, ranked[i].ID, id)
		}
	}
	if tracks[0].ID != "track-basic-1" {
		t.Error("Rank must not reorder its input")
	}
}

func TestBuildProfile(t *testing.T) {
	favTracks := []catalog.Item{{ID: "track-docker-1", Level: "基础", Tags: []string{"docker"}}}
	favResources := []catalog.Item{{ID: "res-1", Tags: []string{"k8s"}, Level: "ignored"}}

	p := BuildProfile(favTracks, favResources, "track-k8s-1")

	if !p.FavoriteTags["docker"] || !p.FavoriteTags["k8s"] {
		t.Errorf("expected tags from both collections, got %v", p.FavoriteTags)
	}
	if !p.FavoriteLevels["基础"] || p.FavoriteLevels["ignored"] {
		t.Errorf("levels come from tracks only, got %v", p.FavoriteLevels)
	}
	if p.RecentStage != catalog.StageK8s {
		t.Errorf("expected k8s recent stage, got %q", p.RecentStage)
	}

	if empty := BuildProfile(nil, nil, ""); empty.RecentStage != "" {
		t.Errorf("expected no recent stage, got %q", empty.RecentStage)
	}
}
