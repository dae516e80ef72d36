package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scenerank/internal/config"
	"scenerank/internal/model"
)

func sampleRows() []model.Row {
	return []model.Row{
		{
			Username: "organizer", Classified: []string{model.CategoryPlayParty},
			Score: 9.2,
			Details: model.Details{
				PlayParty: 8.1, Workshop: 2.0, Attendee: 1.5,
				Followers: 30000, MediaCount: 400, AvgLikes: 2000,
				OutKinky: 12, MentionsOutToKnown: 4,
			},
		},
		{
			Username: "teachy", Classified: []string{model.CategoryFacilitator},
			Score: 6.4,
			Details: model.Details{
				Workshop: 5.0, Followers: 4000, OutKinky: 5,
			},
		},
		{
			Username: "regular", Classified: []string{model.CategoryAttendee},
			Score: 2.9,
			Details: model.Details{
				Attendee: 2.6, Followers: 300, MediaCount: 50,
				OutKinky: 3, MentionsOutToKnown: 2,
			},
		},
		{
			Username: "nobody", Classified: []string{model.CategoryNone},
			Score: 0.4,
		},
	}
}

func TestSortByScoreAndUsernamesRoundTrip(t *testing.T) {
	rows := sampleRows()
	// Shuffle by hand, then restore order.
	rows[0], rows[2] = rows[2], rows[0]
	SortByScore(rows)

	names := Usernames(rows)
	want := []string{"organizer", "teachy", "regular", "nobody"}
	for i, u := range want {
		if names[i] != u {
			t.Fatalf("names[%d] = %q, want %q", i, names[i], u)
		}
		if rows[i].Username != u {
			t.Fatalf("rows[%d] = %q, want %q", i, rows[i].Username, u)
		}
	}
}

func TestFilterNone(t *testing.T) {
	keep := FilterNone(sampleRows())
	if len(keep) != 3 {
		t.Fatalf("len = %d, want 3", len(keep))
	}
	for _, r := range keep {
		if r.IsNone() {
			t.Fatalf("none row survived: %q", r.Username)
		}
	}
}

func TestByInfluenceOrdering(t *testing.T) {
	entries := ByInfluence(FilterNone(sampleRows()))
	if entries[0].Username != "organizer" {
		t.Fatalf("top influence = %q, want organizer", entries[0].Username)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Influence > entries[i-1].Influence {
			t.Fatalf("influence out of order at %d: %v", i, entries)
		}
	}
}

func TestActiveAttendeesScore(t *testing.T) {
	out := ActiveAttendees(FilterNone(sampleRows()))
	if len(out) != 1 || out[0].Username != "regular" {
		t.Fatalf("attendees = %+v", out)
	}
	want := 3*1.0 + 2*0.8 + 50*0.01
	if out[0].Score != want {
		t.Fatalf("activity score = %v, want %v", out[0].Score, want)
	}
}

func TestInfluentialFacilitatorsThreshold(t *testing.T) {
	knobs, _ := config.Preset("default")
	rows := sampleRows()
	// teachy's workshop score sits above FacMin; drop it below and the
	// row must fall out even though the category label remains.
	byInf := ByInfluence(FilterNone(rows))
	out := InfluentialFacilitators(byInf, knobs)
	if len(out) != 2 {
		t.Fatalf("facilitators = %+v", out)
	}

	rows[1].Details.Workshop = knobs.FacMin - 0.5
	out = InfluentialFacilitators(ByInfluence(FilterNone(rows)), knobs)
	if len(out) != 1 || out[0].Username != "organizer" {
		t.Fatalf("facilitators after drop = %+v", out)
	}
}

func TestChunkTiersPadToFive(t *testing.T) {
	corpus := []model.CorpusRow{
		{Username: "a", Classified: []string{"attendee"}, CollapsedText: "short text"},
		{Username: "b", Classified: []string{"none"}, CollapsedText: "more text"},
	}
	tiers := ChunkTiers(corpus, 50)
	for _, name := range []string{"top", "mid", "bottom"} {
		if len(tiers[name]) != 5 {
			t.Fatalf("tier %q has %d chunks, want 5", name, len(tiers[name]))
		}
	}
	if tiers["top"][0] == "" {
		t.Fatalf("first top chunk empty")
	}
	if !strings.Contains(strings.Join(tiers["top"], ""), "@a") {
		t.Fatalf("rendered corpus missing @a")
	}
}

func TestBuildCorpusSortedDescending(t *testing.T) {
	rows := sampleRows()
	rows[0], rows[3] = rows[3], rows[0]
	corpus := BuildCorpus(rows, map[string]model.ExtractedText{}, map[string]model.Profile{
		"organizer": {Username: "organizer", FullName: "The Organizer"},
	})
	if corpus[0].Username != "organizer" || corpus[0].FullName != "The Organizer" {
		t.Fatalf("corpus[0] = %+v", corpus[0])
	}
	for i := 1; i < len(corpus); i++ {
		if corpus[i].TotalScore > corpus[i-1].TotalScore {
			t.Fatalf("corpus out of order at %d", i)
		}
	}
}

func TestWriteAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	knobs, _ := config.Preset("default")
	rows := sampleRows()
	SortByScore(rows)

	err := WriteAll(dir, "default", rows, map[string]model.ExtractedText{}, []model.Profile{
		{Username: "organizer", FullName: "The Organizer"},
	}, knobs, 100)
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	for _, f := range []string{
		"heuristics_default.json",
		"heuristics_by_influence_default.json",
		"most-active-attendees_default.json",
		"most-influential-facilitators_default.json",
		"llm_corpus.json",
		"usernames_desc.txt",
		filepath.Join("chunks", "top-chunk-0001.txt"),
		filepath.Join("chunks", "bottom-chunk-0005.txt"),
	} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Fatalf("missing artifact %s: %v", f, err)
		}
	}

	b, err := os.ReadFile(filepath.Join(dir, "usernames_desc.txt"))
	if err != nil {
		t.Fatalf("read usernames: %v", err)
	}
	names := strings.Split(string(b), "\n")
	if len(names) != len(rows) || names[0] != rows[0].Username {
		t.Fatalf("usernames file = %q", string(b))
	}
}
