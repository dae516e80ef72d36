// Package classify runs the seed -> stage-1 -> pass-1 -> pass-2 ->
// final-classify pipeline over a static corpus of profiles. The known
// affinity set is the only state mutated across phases: it starts from a
// fixed seed allow-list, only ever grows, and gates every later boost
// and the final category assignment. Profiles are visited in corpus
// order; that order is part of the contract, since pass-2 and the final
// phase read the set live as it grows.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"scenerank/internal/config"
	"scenerank/internal/extract"
	"scenerank/internal/graph"
	"scenerank/internal/keywords"
	"scenerank/internal/logging"
	"scenerank/internal/model"
	"scenerank/internal/score"
	"scenerank/internal/util"
)

// Accounts trusted before any scoring happens, intersected with the
// usernames actually present in the corpus.
var seedAllow = map[string]struct{}{
	"suciaqueer": {}, "templenewyork": {}, "darkodyssey": {}, "ista": {}, "opensocial": {},
	"eventbrite": {}, "tickettailor": {}, "withfriends": {}, "partiful": {}, "luma": {},
}

// Admission required of an auto-disqualified profile in pass 2:
// mutual + outbound-mention + inbound-mention edges into the known set
// must strictly exceed this.
const reincludeSumMin = 4

// Options are the run-entry parameters outside the core contract.
type Options struct {
	Debug bool
	// Limit truncates the row slice (corpus order) when > 0.
	Limit int
	// Profile keeps only usernames containing this substring.
	Profile string
}

// Pipeline holds the immutable per-run inputs.
type Pipeline struct {
	Profiles  []model.Profile
	Extracted map[string]model.ExtractedText
	Follows   *graph.FollowGraph
	Mentions  *graph.MentionGraph
	Knobs     config.Knobs
}

// Stats summarizes what the passes did, for logging and metrics.
type Stats struct {
	SeedSize    int
	Pass1Admits int
	Pass2Admits int
	KnownSize   int
}

// New derives the extraction and both graphs from raw inputs.
func New(profiles []model.Profile, edges []model.FollowEdge, knobs config.Knobs) *Pipeline {
	extracted := make(map[string]model.ExtractedText, len(profiles))
	for _, p := range profiles {
		u := util.NormUser(p.Username)
		if u == "" {
			continue
		}
		extracted[u] = extract.FromProfile(p)
	}
	return &Pipeline{
		Profiles:  profiles,
		Extracted: extracted,
		Follows:   graph.BuildFollowGraph(edges),
		Mentions:  graph.BuildMentionGraph(profiles, extracted),
		Knobs:     knobs,
	}
}

type stage1Entry struct {
	score float64
	stats model.SocialStats
}

// GrowKnownSet runs SEED, STAGE1_SCORE, PASS1_INCLUDE and
// PASS2_REINCLUDE, returning the grown set, the per-profile baselines,
// and pass statistics.
func (pl *Pipeline) GrowKnownSet(opts Options) (graph.Set, map[string]model.BaselineScore, Stats) {
	known := make(graph.Set)
	for _, p := range pl.Profiles {
		u := util.NormUser(p.Username)
		if u == "" {
			continue
		}
		if _, ok := seedAllow[u]; ok {
			known.Add(u)
		}
	}
	stats := Stats{SeedSize: len(known)}

	baselines := make(map[string]model.BaselineScore, len(pl.Profiles))
	for _, p := range pl.Profiles {
		u := util.NormUser(p.Username)
		if u == "" {
			continue
		}
		baselines[u] = score.Baseline(pl.Extracted[u], pl.Knobs)
	}

	// Stage 1: social scores against the seed set. Frozen here; pass 1
	// decisions and the pass 2 cutoff reuse these values unrecomputed.
	stage1 := make(map[string]stage1Entry, len(pl.Profiles))
	for _, p := range pl.Profiles {
		u := util.NormUser(p.Username)
		if u == "" {
			continue
		}
		st := score.Social(u, p.FollowsCount, pl.Follows, pl.Mentions, known)
		stage1[u] = stage1Entry{score: score.SocialScore(st), stats: st}
	}
	// The distribution holds one value per entity, so duplicate raw
	// spellings of a username cannot skew the percentile cutoff.
	frozen := make([]float64, 0, len(stage1))
	for _, e := range stage1 {
		frozen = append(frozen, e.score)
	}
	pass1Cut := util.PercentileThreshold(frozen, pl.Knobs.SocialStrongThresholdFrac)

	// Pass 1: keyword baseline plus frozen social score; auto-DQ blocks.
	for _, p := range pl.Profiles {
		u := util.NormUser(p.Username)
		if u == "" || known.Has(u) {
			continue
		}
		base := baselines[u]
		if !base.AutoDQ && base.BaseKinkScore >= pl.Knobs.BaselineKinkThreshold && stage1[u].score >= pass1Cut {
			known.Add(u)
			stats.Pass1Admits++
		}
	}

	// Pass 2: vouching. Stats are recomputed live against the pass-1
	// grown set, so corpus order matters here.
	pass2Frac := pl.Knobs.SocialStrongThresholdFrac
	if pass2Frac > 0.10 {
		pass2Frac = 0.10
	}
	pass2Cut := util.PercentileThreshold(frozen, pass2Frac)
	for _, p := range pl.Profiles {
		u := util.NormUser(p.Username)
		if u == "" || known.Has(u) {
			continue
		}
		base := baselines[u]
		st := score.Social(u, p.FollowsCount, pl.Follows, pl.Mentions, known)

		if base.AutoDQ {
			sum := st.MutualKnown + st.MentionsOutToKnown + st.InboundMentionsFromKnown
			if sum > reincludeSumMin {
				known.Add(u)
				stats.Pass2Admits++
			}
			continue
		}
		if st.OutKinky >= 5 || st.MutualKnown >= 3 || st.MentionsOutToKnown >= 3 || score.SocialScore(st) >= pass2Cut {
			known.Add(u)
			stats.Pass2Admits++
		}
	}
	stats.KnownSize = len(known)

	if opts.Debug {
		nodes, edges := pl.Follows.Size()
		logging.Info("graph_diag", map[string]any{
			"edges": edges, "nodes": nodes,
			"profiles": len(baselines), "known": len(known),
		})
	}
	return known, baselines, stats
}

// Run executes all five phases and returns one row per profile.
func (pl *Pipeline) Run(opts Options) ([]model.Row, Stats) {
	known, baselines, stats := pl.GrowKnownSet(opts)
	rows := pl.Finalize(known, baselines, opts)
	return rows, stats
}

// Finalize is the FINAL_CLASSIFY phase: keyword hits and social stats
// are recomputed against the final known set and every profile gets
// exactly one row.
func (pl *Pipeline) Finalize(known graph.Set, baselines map[string]model.BaselineScore, opts Options) []model.Row {
	var rows []model.Row
	filter := util.NormUser(opts.Profile)

	for _, p := range pl.Profiles {
		u := util.NormUser(p.Username)
		if u == "" {
			continue
		}
		if filter != "" && !strings.Contains(u, filter) {
			continue
		}

		ex := pl.Extracted[u]
		base := baselines[u]
		hits := keywords.Scan(ex.CollapsedText)
		st := score.Social(u, p.FollowsCount, pl.Follows, pl.Mentions, known)
		sScore := score.SocialScore(st)
		gprox := st.ProximitySum()
		anchored := score.KinkAnchored(base, pl.Knobs)

		followers := util.FiniteOr(p.FollowersCount, 0)
		follows := util.FiniteOr(p.FollowsCount, 0)
		mediaCount := util.FiniteOr(p.PostsCount, 0)
		avgLikes := util.Median(ex.MediaStats.Likes)
		penalty, negReasons := keywords.Penalties(hits, pl.Knobs.PenaltyCapTotal)

		// Still auto-disqualified and never vouched in: no scoring.
		if base.AutoDQ && !known.Has(u) {
			rows = append(rows, model.Row{
				Username:   u,
				Name:       p.FullName,
				Classified: []string{model.CategoryNone},
				Score:      0.001,
				Details: model.Details{
					Penalties: penalty,
					Followers: followers, Follows: follows,
					AvgLikes: avgLikes, MediaCount: mediaCount,
					HasTicketLink: base.Ticket,
					LinkHubCount:  base.LinkHubCount,
					RSVPWordCount: base.RSVPCount,
					SocialScore:   util.Round(sScore, 5),
					OutKinky:      st.OutKinky, MutualKnown: st.MutualKnown,
					MentionsOutToKnown:       st.MentionsOutToKnown,
					InboundMentionsFromKnown: st.InboundMentionsFromKnown,
				},
				Reasons: []string{`Auto-disqualified: unguarded "acro*|dog"`},
			})
			continue
		}

		pp := score.PlayParty(hits, base, anchored, gprox, pl.Knobs)
		ws := score.Workshop(hits, base, anchored, gprox, pl.Knobs)
		at := score.Attendee(hits, gprox, pl.Knobs)

		adj := score.SizeAdjust(followers, mediaCount, avgLikes)
		pp += adj * 0.5
		ws += adj * 0.4
		at += adj * 0.3

		total := pp + ws + at - penalty

		var classified []string
		if !known.Has(u) {
			classified = append(classified, model.CategoryNone)
			total *= 0.75
		} else {
			if pp >= pl.Knobs.PPMin {
				classified = append(classified, model.CategoryPlayParty)
			}
			if ws >= pl.Knobs.FacMin {
				classified = append(classified, model.CategoryFacilitator)
			}
			if len(classified) == 0 && at >= pl.Knobs.AttMin {
				classified = append(classified, model.CategoryAttendee)
			}
			// A profile in the affinity set never leaves uncategorized.
			if len(classified) == 0 {
				classified = append(classified, model.CategoryAttendee)
			}
		}

		reasons := buildReasons(u, ex, base, hits, anchored, pl, known, negReasons)

		rows = append(rows, model.Row{
			Username:   u,
			Name:       p.FullName,
			Classified: classified,
			Score:      util.Round(total, 3),
			Details: model.Details{
				PlayParty: util.Round(pp, 3),
				Workshop:  util.Round(ws, 3),
				Attendee:  util.Round(at, 3),
				Penalties: penalty,
				Followers: followers, Follows: follows,
				AvgLikes: avgLikes, MediaCount: mediaCount,
				HasTicketLink: len(ex.TicketDomains) > 0,
				LinkHubCount:  len(ex.LinkHubDomains),
				RSVPWordCount: base.RSVPCount,
				SocialScore:   util.Round(sScore, 5),
				OutKinky:      st.OutKinky, MutualKnown: st.MutualKnown,
				MentionsOutToKnown:       st.MentionsOutToKnown,
				InboundMentionsFromKnown: st.InboundMentionsFromKnown,
			},
			Reasons: util.Take(reasons, 8),
		})
	}

	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}

	if opts.Debug && len(rows) >= 3 {
		sorted := append([]model.Row(nil), rows...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
		for _, r := range []model.Row{sorted[0], sorted[len(sorted)/2], sorted[len(sorted)-1]} {
			logging.Info("sample_row", map[string]any{
				"username": r.Username, "classified": r.Classified,
				"score": r.Score, "reasons": r.Reasons,
			})
		}
	}
	return rows
}

func buildReasons(u string, ex model.ExtractedText, base model.BaselineScore, hits model.KeywordHits,
	anchored bool, pl *Pipeline, known graph.Set, negReasons []string,
) []string {
	var reasons []string
	if anchored && len(ex.TicketDomains) > 0 {
		reasons = append(reasons, "Ticket domains: "+strings.Join(util.Take(ex.TicketDomains, 3), ", "))
	}
	if anchored && base.RSVPCount > 0 {
		reasons = append(reasons, fmt.Sprintf("RSVP phrases: %d hit(s)", min(3, base.RSVPCount)))
	}
	if kw := quoted(util.Take(util.Uniq(concat(util.Take(hits.PPVery, 3), util.Take(hits.PPHigh, 3))), 3)); kw != "" {
		reasons = append(reasons, "Play party keywords: "+kw)
	}
	if kw := quoted(util.Take(util.Uniq(concat(util.Take(hits.WSVery, 3), util.Take(hits.WSHigh, 3))), 3)); kw != "" {
		reasons = append(reasons, "Workshop keywords: "+kw)
	}
	if g := proximityHandles(u, pl, known); len(g) > 0 {
		reasons = append(reasons, "Graph proximity: "+strings.Join(g, ", "))
	}
	reasons = append(reasons, util.Take(negReasons, 2)...)
	return reasons
}

// proximityHandles names up to three known-set accounts adjacent to u.
func proximityHandles(u string, pl *Pipeline, known graph.Set) []string {
	var handles []string
	collect := func(s graph.Set) {
		var hs []string
		for x := range s {
			if known.Has(x) {
				hs = append(hs, "@"+x)
			}
		}
		sort.Strings(hs)
		handles = append(handles, hs...)
	}
	collect(pl.Follows.FollowsOut[u])
	collect(pl.Mentions.MentionsOut[u])
	collect(pl.Mentions.MentionsIn[u])
	return util.Take(util.Uniq(handles), 3)
}

func quoted(words []string) string {
	if len(words) == 0 {
		return ""
	}
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = `"` + w + `"`
	}
	return strings.Join(out, ", ")
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
