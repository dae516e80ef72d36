package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scenerank/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadProfiles(t *testing.T) {
	path := writeFile(t, "profiles.json", `[{"username":"Anna","followersCount":12}]`)
	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Username != "Anna" || profiles[0].FollowersCount != 12 {
		t.Fatalf("profiles = %+v", profiles)
	}
}

func TestLoadProfilesEmptyFails(t *testing.T) {
	path := writeFile(t, "profiles.json", `[]`)
	if _, err := LoadProfiles(path); err == nil || !strings.Contains(err.Error(), "empty collection") {
		t.Fatalf("err = %v, want empty collection", err)
	}
}

func TestLoadNodesMissingFails(t *testing.T) {
	if _, err := LoadNodes(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("missing file should fail")
	}
}

func TestEdgesFromNodes(t *testing.T) {
	nodes := []model.NodeRecord{
		{
			Username:      "Anna",
			FollowingList: []string{"ben", "@Ben", "ben", "anna", ""},
			FollowersList: []string{"carl", "anna"},
		},
		{
			Username:      "ben",
			FollowersList: []string{"anna"}, // duplicate of anna's followingList entry
		},
	}
	edges := EdgesFromNodes(nodes)

	if len(edges) != 2 {
		t.Fatalf("edges = %+v, want 2 de-duplicated edges", edges)
	}
	has := func(followed, follower string) bool {
		for _, e := range edges {
			if e.Followed == followed && e.Follower == follower {
				return true
			}
		}
		return false
	}
	if !has("ben", "anna") {
		t.Fatalf("missing anna->ben edge: %+v", edges)
	}
	if !has("anna", "carl") {
		t.Fatalf("missing carl->anna edge: %+v", edges)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	profilesPath := filepath.Join(dir, "profiles.json")
	nodesPath := filepath.Join(dir, "nodes.json")
	if err := os.WriteFile(profilesPath, []byte(`[{"username":"anna"}]`), 0o644); err != nil {
		t.Fatalf("write profiles: %v", err)
	}
	if err := os.WriteFile(nodesPath, []byte(`[{"username":"anna","followingList":["ben"]}]`), 0o644); err != nil {
		t.Fatalf("write nodes: %v", err)
	}

	profiles, edges, err := Load(profilesPath, nodesPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(profiles) != 1 || len(edges) != 1 {
		t.Fatalf("profiles=%d edges=%d", len(profiles), len(edges))
	}
	if edges[0].Followed != "ben" || edges[0].Follower != "anna" {
		t.Fatalf("edge = %+v", edges[0])
	}
}
