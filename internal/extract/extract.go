// Package extract turns a raw profile into a normalized text blob plus
// derived signals: ticket/link-hub domains, RSVP phrase count, outbound
// mention handles, and per-post engagement numbers.
package extract

import (
	"regexp"
	"strings"

	"scenerank/internal/keywords"
	"scenerank/internal/model"
	"scenerank/internal/util"
)

// Hostname substring matches against bio links.
var ticketDomains = []string{
	"eventbrite.com", "forbiddentickets", "tickettailor", "withfriends.co", "partiful.com",
	"lu.ma", "universe.com", "splashthat.com", "dice.fm", "meetup.com",
}

var linkHubDomains = []string{"linktr.ee", "campsite.bio", "beacons.ai", "hoo.be", "koji.to", "withkoji.com"}

var rsvpPhrases = []string{
	"rsvp", "tickets", "ticket", "apply", "application", "vetting form", "dm for vetting",
	"dress code", "get on list", "join list", "no phone", "no phones", "no photography",
	"consent form", "code of conduct", "refund",
}

var (
	reNonMono    = regexp.MustCompile(`non[-\s]?monogamy`)
	reSymbols    = regexp.MustCompile(`[^\w@.\s]`)
	reSexPos     = regexp.MustCompile(`\bsex\s*positive\b`)
	rePlayParty  = regexp.MustCompile(`\bplay\s*party\b`)
	reInviteOnly = regexp.MustCompile(`\binvite\s*only\b`)
	rePowerEx    = regexp.MustCompile(`\bpower\s*exchange\b`)
	reHouseOfYes = regexp.MustCompile(`\bhouse\s*of\s*yes\b`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reHandle     = regexp.MustCompile(`(?i)@([a-z0-9._]{2,30})`)
)

// NormalizeBlob lowercases text, undoes common leet-speak obfuscations,
// strips symbols, and joins spaced multi-word phrases into single tokens
// so phrase matching sees a canonical form.
func NormalizeBlob(s string) string {
	t := strings.ToLower(s)
	t = strings.ReplaceAll(t, "k!nk", "kink")
	t = strings.ReplaceAll(t, "s*x", "sex")
	t = reNonMono.ReplaceAllString(t, "non monogamy")
	t = reSymbols.ReplaceAllString(t, " ")
	t = reSexPos.ReplaceAllString(t, "sexpositive")
	t = rePlayParty.ReplaceAllString(t, "playparty")
	t = reInviteOnly.ReplaceAllString(t, "inviteonly")
	t = rePowerEx.ReplaceAllString(t, "powerexchange")
	t = reHouseOfYes.ReplaceAllString(t, "houseofyes")
	t = reSpaces.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

type mediaText struct {
	parts   []string
	handles []string
	likes   []float64
	views   []float64
}

// collectMedia gathers text, handles, and engagement numbers from one
// media item, recursing into child media.
func collectMedia(m model.Media) mediaText {
	var r mediaText
	push := func(v string) {
		if v != "" {
			r.parts = append(r.parts, v)
		}
	}

	push(m.Caption)
	push(m.Alt)
	if len(m.Hashtags) > 0 {
		push(strings.Join(m.Hashtags, " "))
	}
	if len(m.Mentions) > 0 {
		push(strings.Join(m.Mentions, " "))
	}
	if m.MusicInfo != nil {
		push(m.MusicInfo.ArtistName)
		push(m.MusicInfo.SongName)
	}

	for _, t := range m.TaggedUsers {
		if u := util.NormUser(t.Username); u != "" {
			r.handles = append(r.handles, u)
			r.parts = append(r.parts, "@"+u)
		}
		push(t.FullName)
	}

	// @handle-shaped tokens in the visible text, beyond explicit tags.
	for _, h := range reHandle.FindAllString(m.Caption+" "+m.Alt, -1) {
		if u := util.NormUser(h); u != "" {
			r.handles = append(r.handles, u)
		}
	}

	if m.LikesCount != nil {
		r.likes = append(r.likes, util.FiniteOr(*m.LikesCount, 0))
	}
	if m.VideoViewCount != nil {
		r.views = append(r.views, util.FiniteOr(*m.VideoViewCount, 0))
	}

	for _, c := range m.ChildPosts {
		cr := collectMedia(c)
		r.parts = append(r.parts, cr.parts...)
		r.handles = append(r.handles, cr.handles...)
		r.likes = append(r.likes, cr.likes...)
		r.views = append(r.views, cr.views...)
	}
	r.handles = util.Uniq(r.handles)
	return r
}

// FromProfile derives the ExtractedText for one profile. It cannot fail:
// absent fields contribute nothing.
func FromProfile(p model.Profile) model.ExtractedText {
	var parts, handles, tickets, hubs []string
	var likes, views []float64

	push := func(v string) {
		if v != "" {
			parts = append(parts, v)
		}
	}
	push(p.FullName)
	push(p.Biography)
	push(p.ExternalURL)

	for _, h := range reHandle.FindAllString(p.Biography, -1) {
		if u := util.NormUser(h); u != "" {
			handles = append(handles, u)
		}
	}

	for _, e := range p.ExternalURLs {
		push(e.Title)
		push(e.URL)
		push(e.LynxURL)
		for _, raw := range []string{e.URL, e.LynxURL} {
			if raw == "" {
				continue
			}
			host := util.NormalizeHost(raw)
			if host == "" {
				continue
			}
			for _, d := range ticketDomains {
				if strings.Contains(host, d) {
					tickets = append(tickets, host)
					break
				}
			}
			for _, d := range linkHubDomains {
				if strings.Contains(host, d) {
					hubs = append(hubs, host)
					break
				}
			}
		}
	}

	for _, bucket := range [][]model.Media{p.LatestPosts, p.LatestReels, p.LatestIgtvVideos} {
		for _, m := range bucket {
			r := collectMedia(m)
			parts = append(parts, r.parts...)
			handles = append(handles, r.handles...)
			likes = append(likes, r.likes...)
			views = append(views, r.views...)
		}
	}

	collapsed := NormalizeBlob(strings.Join(parts, " "))

	rsvp := 0
	for _, phrase := range rsvpPhrases {
		rsvp += keywords.CountPhrase(collapsed, phrase)
	}

	for i, h := range handles {
		handles[i] = util.NormUser(h)
	}
	var outbound []string
	for _, h := range util.Uniq(handles) {
		if h != "" {
			outbound = append(outbound, h)
		}
	}

	return model.ExtractedText{
		CollapsedText:   collapsed,
		TicketDomains:   util.Uniq(tickets),
		LinkHubDomains:  util.Uniq(hubs),
		RSVPCount:       rsvp,
		OutboundHandles: outbound,
		MediaStats:      model.MediaStats{Likes: likes, Views: views},
	}
}
