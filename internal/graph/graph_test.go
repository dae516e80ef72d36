package graph

import (
	"testing"

	"scenerank/internal/model"
)

func TestBuildFollowGraph(t *testing.T) {
	g := BuildFollowGraph([]model.FollowEdge{
		{Followed: "@Alice", Follower: "bob"},
		{Followed: "alice", Follower: "bob"}, // same edge after normalization
		{Followed: "bob", Follower: "bob"},   // self-follow dropped
		{Followed: "", Follower: "bob"},
		{Followed: "carol", Follower: "alice"},
	})

	if !g.FollowsOut["bob"].Has("alice") {
		t.Fatalf("bob should follow alice: %v", g.FollowsOut["bob"])
	}
	if !g.FollowsIn["alice"].Has("bob") {
		t.Fatalf("alice should be followed by bob: %v", g.FollowsIn["alice"])
	}
	if g.FollowsOut["bob"].Has("bob") {
		t.Fatalf("self-follow survived")
	}

	nodes, edges := g.Size()
	if nodes != 3 || edges != 2 {
		t.Fatalf("Size() = (%d, %d), want (3, 2)", nodes, edges)
	}
}

func TestBuildMentionGraphTranspose(t *testing.T) {
	profiles := []model.Profile{
		{Username: "anna"},
		{Username: "ben"},
	}
	extracted := map[string]model.ExtractedText{
		"anna": {OutboundHandles: []string{"ben", "anna", "zoe"}},
		"ben":  {OutboundHandles: []string{"anna"}},
	}
	mg := BuildMentionGraph(profiles, extracted)

	if !mg.MentionsOut["anna"].Has("ben") || !mg.MentionsOut["anna"].Has("zoe") {
		t.Fatalf("MentionsOut[anna] = %v", mg.MentionsOut["anna"])
	}
	if mg.MentionsOut["anna"].Has("anna") {
		t.Fatalf("self-mention survived")
	}
	if !mg.MentionsIn["anna"].Has("ben") {
		t.Fatalf("MentionsIn[anna] = %v", mg.MentionsIn["anna"])
	}
	if !mg.MentionsIn["zoe"].Has("anna") {
		t.Fatalf("MentionsIn[zoe] = %v", mg.MentionsIn["zoe"])
	}
}
