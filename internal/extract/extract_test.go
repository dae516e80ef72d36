package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"scenerank/internal/model"
)

func fptr(v float64) *float64 { return &v }

func TestNormalizeBlob(t *testing.T) {
	cases := []struct{ in, want string }{
		{"K!nk Play Party S*x-Positive!!", "kink playparty sexpositive"},
		{"Ethical Non-Monogamy", "ethical non monogamy"},
		{"Invite  Only / Power Exchange", "inviteonly powerexchange"},
		{"House  of  Yes", "houseofyes"},
		{"  lots   of\tspace  ", "lots of space"},
		{"keep @handle and dots.ok", "keep @handle and dots.ok"},
	}
	for _, c := range cases {
		if got := NormalizeBlob(c.in); got != c.want {
			t.Fatalf("NormalizeBlob(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFromProfileSignals(t *testing.T) {
	p := model.Profile{
		Username:  "orga",
		Biography: "BDSM play party, RSVP required. run with @CoHost",
		ExternalURLs: []model.ExternalURL{
			{Title: "tickets", URL: "https://www.eventbrite.com/o/orga"},
			{Title: "links", URL: "https://linktr.ee/orga"},
		},
		LatestPosts: []model.Media{
			{
				Caption:     "tonight with @buddy",
				TaggedUsers: []model.TaggedUser{{Username: "@Tagged.One"}},
				LikesCount:  fptr(10),
				ChildPosts:  []model.Media{{Caption: "also @nested", LikesCount: fptr(30)}},
			},
			{Caption: "quiet post", LikesCount: fptr(20)},
		},
	}
	ex := FromProfile(p)

	if len(ex.TicketDomains) != 1 || ex.TicketDomains[0] != "eventbrite.com" {
		t.Fatalf("TicketDomains = %v", ex.TicketDomains)
	}
	if len(ex.LinkHubDomains) != 1 || ex.LinkHubDomains[0] != "linktr.ee" {
		t.Fatalf("LinkHubDomains = %v", ex.LinkHubDomains)
	}
	// "rsvp" and two "tickets" occurrences (the link title plus nothing else
	// in the collapsed blob carries one more).
	if ex.RSVPCount < 2 {
		t.Fatalf("RSVPCount = %d, want >= 2", ex.RSVPCount)
	}

	want := map[string]bool{"cohost": true, "buddy": true, "tagged.one": true, "nested": true}
	got := make(map[string]bool, len(ex.OutboundHandles))
	for _, h := range ex.OutboundHandles {
		got[h] = true
	}
	for h := range want {
		if !got[h] {
			t.Fatalf("OutboundHandles missing %q: %v", h, ex.OutboundHandles)
		}
	}

	if len(ex.MediaStats.Likes) != 3 {
		t.Fatalf("Likes = %v, want 3 samples", ex.MediaStats.Likes)
	}
}

func TestFromProfileIdempotent(t *testing.T) {
	p := model.Profile{
		Username:    "rig",
		Biography:   "rope and consent @friend",
		LatestPosts: []model.Media{{Caption: "@other class tonight", LikesCount: fptr(5)}},
	}
	a := FromProfile(p)
	b := FromProfile(p)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("extraction not deterministic (-first +second):\n%s", diff)
	}
}

func TestFromProfileEmpty(t *testing.T) {
	ex := FromProfile(model.Profile{Username: "blank"})
	if ex.CollapsedText != "" || ex.RSVPCount != 0 || len(ex.OutboundHandles) != 0 {
		t.Fatalf("empty profile produced signals: %+v", ex)
	}
}
