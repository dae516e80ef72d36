// Package report writes the run artifacts: ranked classification JSON,
// the secondary influence/attendee/facilitator listings, the sorted text
// corpus with its tiered chunk files, and the plain username list.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"scenerank/internal/config"
	"scenerank/internal/model"
	"scenerank/internal/score"
	"scenerank/internal/util"
)

// InfluenceEntry pairs a row with its influence score.
type InfluenceEntry struct {
	Username  string    `json:"username"`
	Influence float64   `json:"influence"`
	Row       model.Row `json:"row"`
}

// AttendeeEntry is one line of the most-active-attendees listing.
type AttendeeEntry struct {
	Username           string  `json:"username"`
	OutKinky           int     `json:"out_kinky"`
	MentionsOutToKnown int     `json:"mentions_out_to_known"`
	MediaCount         float64 `json:"mediaCount"`
	Score              float64 `json:"score"`
}

// FacilitatorEntry is one line of the most-influential-facilitators listing.
type FacilitatorEntry struct {
	Username   string        `json:"username"`
	Influence  float64       `json:"influence"`
	Classified []string      `json:"classified"`
	Details    model.Details `json:"details"`
}

// SortByScore orders rows by total score descending, in place.
func SortByScore(rows []model.Row) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
}

// FilterNone drops rows classified solely as "none".
func FilterNone(rows []model.Row) []model.Row {
	var keep []model.Row
	for _, r := range rows {
		if !r.IsNone() {
			keep = append(keep, r)
		}
	}
	return keep
}

// ByInfluence ranks rows by influence score descending.
func ByInfluence(rows []model.Row) []InfluenceEntry {
	entries := make([]InfluenceEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, InfluenceEntry{
			Username:  r.Username,
			Influence: util.Round(score.Influence(r.Details), 5),
			Row:       r,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Influence > entries[j].Influence })
	return entries
}

// ActiveAttendees ranks attendee-ish rows by a plain activity formula.
func ActiveAttendees(rows []model.Row) []AttendeeEntry {
	var out []AttendeeEntry
	for _, r := range rows {
		attendeeish := r.HasCategory(model.CategoryAttendee) ||
			(!r.HasCategory(model.CategoryPlayParty) && !r.HasCategory(model.CategoryFacilitator))
		if !attendeeish {
			continue
		}
		out = append(out, AttendeeEntry{
			Username:           r.Username,
			OutKinky:           r.Details.OutKinky,
			MentionsOutToKnown: r.Details.MentionsOutToKnown,
			MediaCount:         r.Details.MediaCount,
			Score: float64(r.Details.OutKinky)*1.0 +
				float64(r.Details.MentionsOutToKnown)*0.8 +
				r.Details.MediaCount*0.01,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// InfluentialFacilitators keeps organizer/facilitator rows whose category
// score actually clears its minimum, ordered by influence.
func InfluentialFacilitators(byInfluence []InfluenceEntry, knobs config.Knobs) []FacilitatorEntry {
	var out []FacilitatorEntry
	for _, e := range byInfluence {
		r := e.Row
		if !r.HasCategory(model.CategoryFacilitator) && !r.HasCategory(model.CategoryPlayParty) {
			continue
		}
		if r.Details.Workshop < knobs.FacMin && r.Details.PlayParty < knobs.PPMin {
			continue
		}
		out = append(out, FacilitatorEntry{
			Username:   e.Username,
			Influence:  e.Influence,
			Classified: r.Classified,
			Details:    r.Details,
		})
	}
	return out
}

// BuildCorpus assembles the per-profile text corpus, score-descending.
func BuildCorpus(rows []model.Row, extracted map[string]model.ExtractedText, profiles map[string]model.Profile) []model.CorpusRow {
	out := make([]model.CorpusRow, 0, len(rows))
	for _, r := range rows {
		c := model.CorpusRow{
			Username:       r.Username,
			Classified:     r.Classified,
			TotalScore:     r.Score,
			PlayPartyScore: r.Details.PlayParty,
			WorkshopScore:  r.Details.Workshop,
			AttendeeScore:  r.Details.Attendee,
			Penalties:      r.Details.Penalties,
			HasTicketLink:  r.Details.HasTicketLink,
			LinkHubCount:   r.Details.LinkHubCount,
			RSVPWordCount:  r.Details.RSVPWordCount,
			Followers:      r.Details.Followers,
			Follows:        r.Details.Follows,
			AvgLikes:       r.Details.AvgLikes,
			MediaCount:     r.Details.MediaCount,
			CollapsedText:  extracted[r.Username].CollapsedText,
		}
		if p, ok := profiles[r.Username]; ok {
			c.FullName = p.FullName
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	return out
}

// ChunkTiers splits the rendered corpus into fixed-size character chunks
// and returns the top/mid/bottom tiers, each padded to five chunks.
func ChunkTiers(corpus []model.CorpusRow, size int) map[string][]string {
	var b strings.Builder
	for _, c := range corpus {
		name := ""
		if c.FullName != "" {
			name = "(" + c.FullName + ")"
		}
		fields := []string{
			"@" + c.Username, name,
			"| classified=[" + strings.Join(c.Classified, ",") + "]",
			fmt.Sprintf("| score=%.3f", c.TotalScore),
			fmt.Sprintf("| PP=%.2f WS=%.2f AT=%.2f PEN=%g", c.PlayPartyScore, c.WorkshopScore, c.AttendeeScore, c.Penalties),
			fmt.Sprintf("| TICKET=%t linkHubs=%d RSVP=%d", c.HasTicketLink, c.LinkHubCount, c.RSVPWordCount),
			fmt.Sprintf("| FOL=%g FOLLOWS=%g AVG_LIKES=%g MEDIA=%g", c.Followers, c.Follows, c.AvgLikes, c.MediaCount),
			"\n" + c.CollapsedText + "\n\n---\n",
		}
		b.WriteString(strings.Join(fields, " "))
	}
	slices := util.ChunkString(b.String(), size)

	midStart := len(slices)/2 - 2
	if midStart < 0 {
		midStart = 0
	}
	botStart := len(slices) - 5
	if botStart < 0 {
		botStart = 0
	}
	tiers := map[string][]string{
		"top":    util.Take(slices, 5),
		"mid":    util.Take(slices[midStart:], 5),
		"bottom": slices[botStart:],
	}
	for k, t := range tiers {
		for len(t) < 5 {
			t = append(t, "")
		}
		tiers[k] = t
	}
	return tiers
}

// Usernames returns just the usernames in row order.
func Usernames(rows []model.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Username)
	}
	return out
}

// WriteAll writes every artifact for one run. rows must already be
// sorted score-descending.
func WriteAll(dir, preset string, rows []model.Row, extracted map[string]model.ExtractedText,
	profiles []model.Profile, knobs config.Knobs, chunkSize int,
) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(dir, "heuristics_"+preset+".json"), rows); err != nil {
		return err
	}

	keep := FilterNone(rows)
	byInf := ByInfluence(keep)
	if err := writeJSON(filepath.Join(dir, "heuristics_by_influence_"+preset+".json"), byInf); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "most-active-attendees_"+preset+".json"), ActiveAttendees(keep)); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "most-influential-facilitators_"+preset+".json"), InfluentialFacilitators(byInf, knobs)); err != nil {
		return err
	}

	profMap := make(map[string]model.Profile, len(profiles))
	for _, p := range profiles {
		u := util.NormUser(p.Username)
		if u != "" {
			profMap[u] = p
		}
	}
	corpus := BuildCorpus(rows, extracted, profMap)
	if err := writeJSON(filepath.Join(dir, "llm_corpus.json"), corpus); err != nil {
		return err
	}

	chunkDir := filepath.Join(dir, "chunks")
	if err := os.MkdirAll(chunkDir, 0o755); err != nil {
		return err
	}
	for tier, chunks := range ChunkTiers(corpus, chunkSize) {
		for i, c := range chunks {
			name := fmt.Sprintf("%s-chunk-%04d.txt", tier, i+1)
			if err := os.WriteFile(filepath.Join(chunkDir, name), []byte(c), 0o644); err != nil {
				return err
			}
		}
	}

	names := strings.Join(Usernames(rows), "\n")
	return os.WriteFile(filepath.Join(dir, "usernames_desc.txt"), []byte(names), 0o644)
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
