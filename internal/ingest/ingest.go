// Package ingest loads the profile corpus and edge-list snapshot from
// disk. It fails fast: an empty or missing collection aborts the run
// before any classification phase starts.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"scenerank/internal/model"
	"scenerank/internal/util"
)

// LoadProfiles reads the profile collection.
func LoadProfiles(path string) ([]model.Profile, error) {
	var profiles []model.Profile
	if err := readJSON(path, &profiles); err != nil {
		return nil, fmt.Errorf("profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profiles %s: empty collection", path)
	}
	return profiles, nil
}

// LoadNodes reads the edge-list collection.
func LoadNodes(path string) ([]model.NodeRecord, error) {
	var nodes []model.NodeRecord
	if err := readJSON(path, &nodes); err != nil {
		return nil, fmt.Errorf("nodes: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("nodes %s: empty collection", path)
	}
	return nodes, nil
}

// EdgesFromNodes converts node records into de-duplicated directed
// follow edges. Both the followingList (accounts the node follows) and
// the followersList (accounts following the node) contribute.
func EdgesFromNodes(nodes []model.NodeRecord) []model.FollowEdge {
	seen := make(map[string]struct{})
	var edges []model.FollowEdge
	add := func(followed, follower string) {
		if followed == "" || follower == "" || followed == follower {
			return
		}
		key := followed + "<-" + follower
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		edges = append(edges, model.FollowEdge{Followed: followed, Follower: follower})
	}

	for _, n := range nodes {
		u := util.NormUser(n.Username)
		if u == "" {
			continue
		}
		for _, x := range n.FollowingList {
			add(util.NormUser(x), u)
		}
		for _, f := range n.FollowersList {
			add(u, util.NormUser(f))
		}
	}
	return edges
}

// Load reads both collections and derives the edge list.
func Load(profilesPath, nodesPath string) ([]model.Profile, []model.FollowEdge, error) {
	profiles, err := LoadProfiles(profilesPath)
	if err != nil {
		return nil, nil, err
	}
	nodes, err := LoadNodes(nodesPath)
	if err != nil {
		return nil, nil, err
	}
	return profiles, EdgesFromNodes(nodes), nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
