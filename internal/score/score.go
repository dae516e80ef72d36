// Package score holds the pure scoring functions: keyword baseline,
// social proximity, the three category scores, and influence.
package score

import (
	"math"

	"scenerank/internal/config"
	"scenerank/internal/graph"
	"scenerank/internal/keywords"
	"scenerank/internal/model"
	"scenerank/internal/util"
)

// Hit-count weights shared by the baseline and attendee formulas.
const (
	hardWeight        = 4
	softContextWeight = 2
	softLightWeight   = 1
)

// Per-proximity-unit factors for the cross-reference terms.
const (
	xrefPPWSPer = 0.6
	xrefATPer   = 0.5
)

func log2p1(n int) float64 {
	return math.Log2(1 + float64(n))
}

// Social counts a profile's edges into the given affinity set.
func Social(u string, followsCount float64, g *graph.FollowGraph, mg *graph.MentionGraph, known graph.Set) model.SocialStats {
	out := g.FollowsOut[u]
	in := g.FollowsIn[u]
	mOut := mg.MentionsOut[u]
	mIn := mg.MentionsIn[u]

	var st model.SocialStats
	for x := range out {
		if known.Has(x) {
			st.OutKinky++
			if in.Has(x) {
				st.MutualKnown++
			}
		}
	}
	for x := range mOut {
		if known.Has(x) {
			st.MentionsOutToKnown++
		}
	}
	for x := range mIn {
		if known.Has(x) {
			st.InboundMentionsFromKnown++
		}
	}
	if followsCount > 0 {
		st.FollowPrecision = util.FiniteOr(float64(st.OutKinky)/followsCount, 0)
	}
	return st
}

// SocialScore collapses SocialStats into a bounded proximity score.
func SocialScore(st model.SocialStats) float64 {
	f := func(n int) float64 { return util.BoundedLog(float64(n), 1.5) }
	precision := math.Sqrt(math.Max(0, st.FollowPrecision))
	if precision > 1 {
		precision = 1
	}
	return 0.35*f(st.OutKinky) +
		0.20*f(st.MutualKnown) +
		0.20*f(st.MentionsOutToKnown) +
		0.15*f(st.InboundMentionsFromKnown) +
		0.10*precision
}

// Baseline computes the once-per-profile keyword baseline. The link-hub
// and RSVP additions here are unconditional; the larger boosts applied at
// classification time are gated on KinkAnchored.
func Baseline(ex model.ExtractedText, k config.Knobs) model.BaselineScore {
	hits := keywords.Scan(ex.CollapsedText)

	hard := len(hits.ATHard) + len(hits.PPVery) + len(hits.WSVery)
	ctx := len(hits.ATContext)
	if ctx < 1 {
		ctx = 1
	}
	softContext := min(len(hits.ATSoft), ctx) + len(hits.PPHigh) + len(hits.WSHigh)
	softLight := max(0, len(hits.ATSoft)-softContext) + max(0, len(hits.ATContext)-1)

	s := k.KinkKeywordWeight * (hardWeight*log2p1(hard) +
		softContextWeight*log2p1(softContext) +
		softLightWeight*log2p1(softLight))

	if len(ex.LinkHubDomains) > 0 {
		s += 0.3
	}
	if ex.RSVPCount > 0 {
		s += 0.3 * float64(min(3, ex.RSVPCount))
	}

	top := util.Uniq(concat(
		util.Take(hits.PPVery, 3),
		util.Take(hits.WSVery, 3),
		util.Take(hits.ATHard, 3),
		util.Take(hits.PPHigh, 2),
		util.Take(hits.WSHigh, 2),
		util.Take(hits.ATSoft, 2),
	))

	return model.BaselineScore{
		BaseKinkScore: s,
		HasStrongKink: len(hits.PPVery)+len(hits.WSVery)+len(hits.ATHard) > 0,
		TopKeywords:   util.Take(top, 3),
		Ticket:        len(ex.TicketDomains) > 0,
		RSVPCount:     ex.RSVPCount,
		LinkHubCount:  len(ex.LinkHubDomains),
		AutoDQ:        keywords.AutoDQ(ex.CollapsedText),
	}
}

// KinkAnchored reports whether a profile's keyword signal is strong
// enough to unlock the gated ticket/RSVP/link-hub boosts.
func KinkAnchored(base model.BaselineScore, k config.Knobs) bool {
	return base.HasStrongKink || base.BaseKinkScore >= k.BaselineKinkThreshold
}

// PlayParty scores the event-organizer category.
func PlayParty(hits model.KeywordHits, base model.BaselineScore, anchored bool, gprox int, k config.Knobs) float64 {
	s := k.KinkKeywordWeight * (4*log2p1(len(hits.PPVery)) + 2*log2p1(len(hits.PPHigh)))
	if anchored && base.Ticket {
		s += k.TicketBoostPP
	}
	if anchored && base.RSVPCount > 0 {
		s += k.RSVPBoostPP
	}
	if anchored && base.LinkHubCount > 0 {
		s += k.LinkHubBump
	}
	s += k.XrefAlphaPPWS * xrefPPWSPer * util.Log1p(float64(gprox))
	return s
}

// Workshop scores the facilitator category.
func Workshop(hits model.KeywordHits, base model.BaselineScore, anchored bool, gprox int, k config.Knobs) float64 {
	s := k.KinkKeywordWeight * (4*log2p1(len(hits.WSVery)) + 2*log2p1(len(hits.WSHigh)))
	if anchored && base.Ticket {
		s += k.TicketBoostWS
	}
	if anchored && base.RSVPCount > 0 {
		s += k.RSVPBoostWS
	}
	if anchored && base.LinkHubCount > 0 {
		s += k.LinkHubBump
	}
	s += k.XrefAlphaPPWS * xrefPPWSPer * util.Log1p(float64(gprox))
	return s
}

// Attendee scores the attendee category. No gated boosts here.
func Attendee(hits model.KeywordHits, gprox int, k config.Knobs) float64 {
	s := k.KinkKeywordWeight * (hardWeight*log2p1(len(hits.ATHard)+len(hits.PPVery)+len(hits.WSVery)) +
		softContextWeight*log2p1(len(hits.ATSoft)+len(hits.PPHigh)+len(hits.WSHigh)) +
		softLightWeight*log2p1(len(hits.ATContext)))
	s += k.XrefBetaAT * xrefATPer * util.Log1p(float64(gprox))
	return s
}

// SizeAdjust is the shared audience-size nudge; callers scale it per
// category (0.5 pp, 0.4 ws, 0.3 at).
func SizeAdjust(followers, mediaCount, avgLikes float64) float64 {
	adj := 0.0
	switch {
	case followers > 20000:
		adj += 0.3
	case followers < 200:
		adj -= 0.1
	}
	if mediaCount > 200 {
		adj += 0.2
	}
	if avgLikes > 1000 {
		adj += 0.2
	}
	return adj
}

// Influence ranks reach for the secondary listings.
func Influence(d model.Details) float64 {
	f := func(x float64) float64 { return util.BoundedLog(x, 1.5) }
	return 0.35*f(d.Followers) +
		0.10*f(d.MediaCount) +
		0.10*f(d.AvgLikes) +
		0.15*f(float64(d.OutKinky)) +
		0.15*f(float64(d.InboundMentionsFromKnown)) +
		0.10*f(float64(d.MentionsOutToKnown)) +
		0.05*f(float64(d.MutualKnown))
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
