package model

// Affinity categories a profile can be classified into.
const (
	CategoryPlayParty   = "play_party"
	CategoryFacilitator = "facilitator"
	CategoryAttendee    = "attendee"
	CategoryNone        = "none"
)

// ExternalURL is a bio link attached to a profile.
type ExternalURL struct {
	Title    string `json:"title,omitempty"`
	URL      string `json:"url,omitempty"`
	LynxURL  string `json:"lynx_url,omitempty"`
	LinkType string `json:"link_type,omitempty"`
}

// MusicInfo is audio metadata attached to a media item.
type MusicInfo struct {
	ArtistName string `json:"artist_name,omitempty"`
	SongName   string `json:"song_name,omitempty"`
}

// TaggedUser is a user tagged in a media item.
type TaggedUser struct {
	Username string `json:"username,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// Media is one post/reel/video, possibly with nested child media.
type Media struct {
	Caption        string       `json:"caption,omitempty"`
	Alt            string       `json:"alt,omitempty"`
	Hashtags       []string     `json:"hashtags,omitempty"`
	Mentions       []string     `json:"mentions,omitempty"`
	TaggedUsers    []TaggedUser `json:"taggedUsers,omitempty"`
	MusicInfo      *MusicInfo   `json:"musicInfo,omitempty"`
	LikesCount     *float64     `json:"likesCount,omitempty"`
	VideoViewCount *float64     `json:"videoViewCount,omitempty"`
	ChildPosts     []Media      `json:"childPosts,omitempty"`
}

// Profile is one scraped account snapshot. Immutable for a run.
type Profile struct {
	Username         string        `json:"username,omitempty"`
	FullName         string        `json:"fullName,omitempty"`
	Biography        string        `json:"biography,omitempty"`
	ExternalURL      string        `json:"externalUrl,omitempty"`
	ExternalURLs     []ExternalURL `json:"externalUrls,omitempty"`
	FollowersCount   float64       `json:"followersCount,omitempty"`
	FollowsCount     float64       `json:"followsCount,omitempty"`
	PostsCount       float64       `json:"postsCount,omitempty"`
	LatestPosts      []Media       `json:"latestPosts,omitempty"`
	LatestReels      []Media       `json:"latestReels,omitempty"`
	LatestIgtvVideos []Media       `json:"latestIgtvVideos,omitempty"`
}

// NodeRecord is one entry of the edge-list input: an account plus the
// accounts it follows and the accounts following it.
type NodeRecord struct {
	Username         string   `json:"username,omitempty"`
	Followers        int      `json:"followers,omitempty"`
	Following        int      `json:"following,omitempty"`
	FollowersList    []string `json:"followersList,omitempty"`
	FollowingList    []string `json:"followingList,omitempty"`
	TotalConnections int      `json:"totalConnections,omitempty"`
}

// FollowEdge says Follower follows Followed.
type FollowEdge struct {
	Followed string
	Follower string
}

// MediaStats collects per-post engagement numbers across a profile.
type MediaStats struct {
	Likes []float64
	Views []float64
}

// ExtractedText is the derived text-signal bundle for one profile.
type ExtractedText struct {
	CollapsedText   string
	TicketDomains   []string
	LinkHubDomains  []string
	RSVPCount       int
	OutboundHandles []string
	MediaStats      MediaStats
}

// SocialStats are affinity-set-relative graph counts for one profile,
// recomputed per phase against the set as it stood at that moment.
type SocialStats struct {
	OutKinky                 int
	MutualKnown              int
	MentionsOutToKnown       int
	InboundMentionsFromKnown int
	FollowPrecision          float64
}

// ProximitySum is the graph-proximity total used as a log-scaled term.
func (s SocialStats) ProximitySum() int {
	return s.OutKinky + s.MutualKnown + s.MentionsOutToKnown + s.InboundMentionsFromKnown
}

// KeywordHits holds the matched phrases per family for one text blob.
type KeywordHits struct {
	PPVery    []string
	PPHigh    []string
	WSVery    []string
	WSHigh    []string
	ATHard    []string
	ATSoft    []string
	ATContext []string
	Negatives map[string]int
}

// BaselineScore is the once-computed keyword baseline for one profile.
type BaselineScore struct {
	BaseKinkScore float64
	HasStrongKink bool
	TopKeywords   []string
	Ticket        bool
	RSVPCount     int
	LinkHubCount  int
	AutoDQ        bool
}

// Details carries the raw metrics behind a classification row.
type Details struct {
	PlayParty                float64 `json:"playParty"`
	Workshop                 float64 `json:"workshop"`
	Attendee                 float64 `json:"attendee"`
	Penalties                float64 `json:"penalties"`
	Followers                float64 `json:"followers"`
	Follows                  float64 `json:"follows"`
	AvgLikes                 float64 `json:"avgLikes"`
	MediaCount               float64 `json:"mediaCount"`
	HasTicketLink            bool    `json:"hasTicketLink"`
	LinkHubCount             int     `json:"linkHubCount"`
	RSVPWordCount            int     `json:"rsvpWordCount"`
	SocialScore              float64 `json:"socialScore"`
	OutKinky                 int     `json:"outKinky"`
	MutualKnown              int     `json:"mutualKnown"`
	MentionsOutToKnown       int     `json:"mentionsOutToKnown"`
	InboundMentionsFromKnown int     `json:"inboundMentionsFromKnown"`
}

// Row is the final classification record for one profile.
type Row struct {
	Username   string   `json:"username"`
	Name       string   `json:"name,omitempty"`
	Classified []string `json:"classified"`
	Score      float64  `json:"score"`
	Details    Details  `json:"details"`
	Reasons    []string `json:"reasons"`
}

// IsNone reports whether the row carries only the "none" category.
func (r Row) IsNone() bool {
	return len(r.Classified) == 1 && r.Classified[0] == CategoryNone
}

// HasCategory reports whether the row carries the given category.
func (r Row) HasCategory(c string) bool {
	for _, x := range r.Classified {
		if x == c {
			return true
		}
	}
	return false
}

// CorpusRow is one entry of the sorted text corpus artifact.
type CorpusRow struct {
	Username       string   `json:"username"`
	FullName       string   `json:"fullName,omitempty"`
	Classified     []string `json:"classified"`
	TotalScore     float64  `json:"totalScore"`
	PlayPartyScore float64  `json:"playPartyScore"`
	WorkshopScore  float64  `json:"workshopScore"`
	AttendeeScore  float64  `json:"attendeeScore"`
	Penalties      float64  `json:"penalties"`
	HasTicketLink  bool     `json:"hasTicketLink"`
	LinkHubCount   int      `json:"linkHubCount"`
	RSVPWordCount  int      `json:"rsvpWordCount"`
	Followers      float64  `json:"followers"`
	Follows        float64  `json:"follows"`
	AvgLikes       float64  `json:"avgLikes"`
	MediaCount     float64  `json:"mediaCount"`
	CollapsedText  string   `json:"collapsedText"`
}
