// Package graph builds the directed follow and mention adjacencies the
// classifier scores against. Both are built once and never mutated.
package graph

import (
	"scenerank/internal/model"
	"scenerank/internal/util"
)

// Set is a username set keyed by normalized usernames.
type Set map[string]struct{}

// Has reports membership.
func (s Set) Has(u string) bool {
	_, ok := s[u]
	return ok
}

// Add inserts u into the set.
func (s Set) Add(u string) { s[u] = struct{}{} }

// FollowGraph holds who-follows-whom in both directions.
type FollowGraph struct {
	// FollowsOut[u] = accounts u follows.
	FollowsOut map[string]Set
	// FollowsIn[u] = accounts following u.
	FollowsIn map[string]Set
}

// BuildFollowGraph constructs the adjacency maps from directed edges.
// Empty usernames and self-follows are dropped.
func BuildFollowGraph(edges []model.FollowEdge) *FollowGraph {
	g := &FollowGraph{
		FollowsOut: make(map[string]Set),
		FollowsIn:  make(map[string]Set),
	}
	for _, e := range edges {
		followed := util.NormUser(e.Followed)
		follower := util.NormUser(e.Follower)
		if followed == "" || follower == "" || followed == follower {
			continue
		}
		if g.FollowsOut[follower] == nil {
			g.FollowsOut[follower] = make(Set)
		}
		if g.FollowsIn[followed] == nil {
			g.FollowsIn[followed] = make(Set)
		}
		g.FollowsOut[follower].Add(followed)
		g.FollowsIn[followed].Add(follower)
	}
	return g
}

// Size returns the number of distinct nodes and directed edges.
func (g *FollowGraph) Size() (nodes, edges int) {
	seen := make(Set)
	for src, dsts := range g.FollowsOut {
		seen.Add(src)
		for d := range dsts {
			seen.Add(d)
			edges++
		}
	}
	return len(seen), edges
}

// MentionGraph holds outbound mentions and their transpose.
type MentionGraph struct {
	// MentionsOut[u] = accounts u mentions across bio and media.
	MentionsOut map[string]Set
	// MentionsIn[u] = accounts mentioning u.
	MentionsIn map[string]Set
}

// BuildMentionGraph derives mention adjacency from per-profile extracted
// handles. Self-mentions are dropped.
func BuildMentionGraph(profiles []model.Profile, extracted map[string]model.ExtractedText) *MentionGraph {
	mg := &MentionGraph{
		MentionsOut: make(map[string]Set),
		MentionsIn:  make(map[string]Set),
	}
	for _, p := range profiles {
		u := util.NormUser(p.Username)
		if u == "" {
			continue
		}
		out := make(Set)
		if ex, ok := extracted[u]; ok {
			for _, h := range ex.OutboundHandles {
				v := util.NormUser(h)
				if v != "" && v != u {
					out.Add(v)
				}
			}
		}
		mg.MentionsOut[u] = out
		for v := range out {
			if mg.MentionsIn[v] == nil {
				mg.MentionsIn[v] = make(Set)
			}
			mg.MentionsIn[v].Add(u)
		}
	}
	return mg
}
