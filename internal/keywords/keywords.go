// Package keywords classifies normalized profile text against fixed
// phrase families and detects unguarded disqualifying terms.
package keywords

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"scenerank/internal/model"
)

var ppVery = []string{
	"playparty", "play party", "dungeon", "dungeons", "fetish party", "leather party",
	"invite only", "inviteonly", "vetting", "vetted", "application", "screening", "references required",
	"dress code", "no phone", "no phones", "phone free", "aftercare", "play space", "safeword", "dms on duty",
}

var ppHigh = []string{
	"kink social", "sex positive social", "sexpositive social", "kink event",
	"sex positive event", "sexpositive event", "play social",
}

var wsVery = []string{
	"workshop", "class", "course", "intensive", "training", "education", "educator", "instructor", "teaching", "facilitator",
	"bdsm", "shibari", "kinbaku", "rope", "rigging", "impact play", "flogging", "caning", "needle play", "suspension",
	"ssc", "rack", "prick", "consent workshop", "consent training",
}

var atHard = []string{"bdsm", "shibari", "kinbaku", "impact play", "caning", "flogging", "needle play", "suspension"}

var atSoft = []string{
	"kink", "fetish", "leather", "rope", "dom", "domme", "mistress", "master", "sub", "submissive", "switch",
	"enm", "poly", "polyam", "polyamory", "non monogamy", "ethical non monogamy", "sexpositive", "sex positive",
}

var atContext = []string{
	"consent", "aftercare", "dungeon", "playparty", "play space", "vetting", "screening", "ssc", "rack", "prick",
	"safeword", "impact play", "flog", "caning", "needle", "suspension", "rigging", "rope", "shibari", "kinbaku",
	"dominant", "submissive", "switch",
}

// Generic education words that only count as workshop-"very" when a kink
// anchor appears nearby; otherwise they demote to workshop-"high".
var wsGeneric = []string{
	"workshop", "class", "course", "intensive", "training",
	"education", "educator", "instructor", "teaching", "facilitator",
}

type negativeFamily struct {
	name   string
	hits   []string
	weight float64
}

// Yoga stays a penalty only, never an auto-disqualifier.
var negativeFamilies = []negativeFamily{
	{name: "acrofit", weight: 8, hits: []string{
		"acro", "acrobat", "acrobatic", "acrobatics", "acroyoga", "aerial", "aerialist", "silks", "lyra", "trapeze",
		"handstand", "handstands", "handbalancing", "parkour", "circus", "cirque", "acrojam", "l-base", "baser", "flyer", "flying",
	}},
	{name: "animal", weight: 8, hits: []string{"dog", "dogs", "puppy", "puppies", "shepherd", "gsd", "malinois", "k9"}},
	{name: "yoga", weight: 7, hits: []string{"yoga", "yogi", "ashtanga", "vinyasa", "yin", "hatha", "kundalini", "inversion", "inversions"}},
	{name: "travel", weight: 6, hits: []string{
		"travel", "traveling", "traveller", "wanderlust", "nomad", "digital nomad", "trip", "trips", "journey", "vacation", "holiday",
		"airport", "airplane", "flight", "flights", "miles", "globetrotter", "globetrotting", "backpacking", "travel blog", "travel vlogger",
		"sup", "stand up paddle", "paddleboard", "paddle board", "surf", "surfing", "beach day",
	}},
	{name: "crypto", weight: 3, hits: []string{"crypto", "bitcoin", "web3"}},
}

var strongKinkAnchors = []string{
	"bdsm", "shibari", "kinbaku", "rope", "fetish", "dungeon", "playparty", "consent",
	"impact play", "flog", "caning", "needle", "suspension", "rigging", "safeword", "vetting", "screening",
}

var kinkAnchors = buildKinkAnchors()

func buildKinkAnchors() []string {
	var out []string
	out = append(out, atHard...)
	out = append(out, atSoft...)
	out = append(out, atContext...)
	out = append(out, "bdsm", "shibari", "kinbaku", "rope", "kink", "fetish", "dungeon", "playparty")
	return out
}

var (
	phraseMu sync.Mutex
	phraseRe = map[string]*regexp.Regexp{}
)

// phrasePattern matches a whole phrase at word boundaries, tolerating
// arbitrary whitespace runs between its words.
func phrasePattern(phrase string) *regexp.Regexp {
	phraseMu.Lock()
	defer phraseMu.Unlock()
	if re, ok := phraseRe[phrase]; ok {
		return re
	}
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`\b` + strings.Join(words, `\s+`) + `\b`)
	phraseRe[phrase] = re
	return re
}

// CountPhrase counts whole-phrase occurrences of phrase in text.
func CountPhrase(text, phrase string) int {
	return len(phrasePattern(phrase).FindAllStringIndex(text, -1))
}

// Window returns the substring of text around [idx, idx+matchLen)
// extended by radius characters on each side.
func Window(text string, idx, matchLen, radius int) string {
	s := idx - radius
	if s < 0 {
		s = 0
	}
	e := idx + matchLen + radius
	if e > len(text) {
		e = len(text)
	}
	return text[s:e]
}

// anyPresent reports whether any phrase occurs as a plain substring.
func anyPresent(span string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(span, p) {
			return true
		}
	}
	return false
}

// AnyNear reports whether any anchor appears within radius characters of
// the first occurrence of center in text.
func AnyNear(text, center string, anchors []string, radius int) bool {
	idx := strings.Index(text, center)
	if idx < 0 {
		return false
	}
	return anyPresent(Window(text, idx, len(center), radius), anchors)
}

// Scan matches a normalized text blob against every phrase family.
func Scan(text string) model.KeywordHits {
	h := model.KeywordHits{Negatives: make(map[string]int)}

	for _, ph := range ppVery {
		if CountPhrase(text, ph) > 0 {
			h.PPVery = append(h.PPVery, ph)
		}
	}
	for _, ph := range ppHigh {
		if CountPhrase(text, ph) > 0 {
			h.PPHigh = append(h.PPHigh, ph)
		}
	}

	// Generic education words only stay "very" when kink-anchored nearby.
	for _, term := range wsVery {
		if CountPhrase(text, term) == 0 {
			continue
		}
		if !isGenericEducation(term) || AnyNear(text, term, kinkAnchors, 120) {
			h.WSVery = append(h.WSVery, term)
		} else {
			h.WSHigh = append(h.WSHigh, term)
		}
	}
	if CountPhrase(text, "munch") > 0 && nearAnyOf(text, "munch", []string{"talk", "panel", "discussion"}, 80) {
		h.WSHigh = append(h.WSHigh, "munch (near talk/panel/discussion)")
	}
	if CountPhrase(text, "consent") > 0 && nearAnyOf(text, "consent", []string{"class", "workshop", "training"}, 80) {
		h.WSHigh = append(h.WSHigh, "consent (near class/workshop/training)")
	}

	for _, ph := range atHard {
		if CountPhrase(text, ph) > 0 {
			h.ATHard = append(h.ATHard, ph)
		}
	}
	for _, ph := range atSoft {
		if CountPhrase(text, ph) > 0 {
			h.ATSoft = append(h.ATSoft, ph)
		}
	}
	for _, ph := range atContext {
		if CountPhrase(text, ph) > 0 {
			h.ATContext = append(h.ATContext, ph)
		}
	}

	for _, fam := range negativeFamilies {
		n := 0
		for _, ph := range fam.hits {
			n += CountPhrase(text, ph)
		}
		h.Negatives[fam.name] = n
	}
	return h
}

func isGenericEducation(term string) bool {
	for _, g := range wsGeneric {
		if term == g {
			return true
		}
	}
	return false
}

func nearAnyOf(text, center string, anchors []string, radius int) bool {
	for _, a := range anchors {
		if AnyNear(text, center, []string{a}, radius) {
			return true
		}
	}
	return false
}

var (
	dqPrefixRe = regexp.MustCompile(`\bacro[a-z0-9._]*\b`)
	dqWordRe   = regexp.MustCompile(`\bdog\b`)
)

// AutoDQ reports whether text contains an unguarded disqualifying term:
// an "acro"-prefixed token or the exact word "dog" with no strong kink
// anchor within 120 characters. One unguarded occurrence anywhere is
// enough, even if other occurrences are guarded.
func AutoDQ(text string) bool {
	for _, loc := range dqPrefixRe.FindAllStringIndex(text, -1) {
		if !anyPresent(Window(text, loc[0], loc[1]-loc[0], 120), strongKinkAnchors) {
			return true
		}
	}
	for _, loc := range dqWordRe.FindAllStringIndex(text, -1) {
		if !anyPresent(Window(text, loc[0], loc[1]-loc[0], 120), strongKinkAnchors) {
			return true
		}
	}
	return false
}

// Penalties sums negative-family weights for families with at least one
// hit, plus 0.75 per extra occurrence (capped at 4 extras per family),
// bounded by limit. Reasons name each offending family.
func Penalties(h model.KeywordHits, limit float64) (float64, []string) {
	var total float64
	var reasons []string
	for _, fam := range negativeFamilies {
		occ := h.Negatives[fam.name]
		if occ <= 0 {
			continue
		}
		total += fam.weight
		reasons = append(reasons, fmt.Sprintf("Negatives: %s x%d", fam.name, occ))
		extra := occ - 1
		if extra > 4 {
			extra = 4
		}
		total += float64(extra) * 0.75
	}
	if total > limit {
		total = limit
	}
	return total, reasons
}
