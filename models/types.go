package models

import "time"

// Category identifies one of the fixed voting categories
type Category string

const (
	CategorySpeaker     Category = "SPEAKER"
	CategoryEvaluator   Category = "EVALUATOR"
	CategoryTableTopics Category = "TABLE_TOPICS"
)

// CategoryInfo carries display labels for a category
type CategoryInfo struct {
	Key         Category `json:"key"`
	Label       string   `json:"label"`
	BallotLabel string   `json:"ballot_label"`
	EntryLabel  string   `json:"entry_label"`
}

// Categories is the display and ballot order. Never derive order from a map.
var Categories = []CategoryInfo{
	{Key: CategorySpeaker, Label: "Speaker", BallotLabel: "Best Speaker", EntryLabel: "Prepared Speakers"},
	{Key: CategoryEvaluator, Label: "Evaluator", BallotLabel: "Best Evaluator", EntryLabel: "Evaluators"},
	{Key: CategoryTableTopics, Label: "Table Topics Master", BallotLabel: "Best Table Topics Speaker", EntryLabel: "Table Topics Speakers"},
}

// Valid reports whether c is one of the configured categories
func (c Category) Valid() bool {
	_, ok := LookupCategory(c)
	return ok
}

// LookupCategory returns the configured info for c
func LookupCategory(c Category) (CategoryInfo, bool) {
	for _, info := range Categories {
		if info.Key == c {
			return info, true
		}
	}
	return CategoryInfo{}, false
}

// Persisted types

type User struct {
	ID           string        `json:"id" gorm:"type:text;primaryKey"`
	Username     string        `json:"username" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt    time.Time     `json:"created_at" gorm:"not null"`
	AdminProfile *AdminProfile `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Sessions     []Session     `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Votes        []Vote        `json:"-" gorm:"foreignKey:VoterID;constraint:OnDelete:CASCADE"`
}

type AdminProfile struct {
	ID              string `json:"id" gorm:"type:text;primaryKey"`
	UserID          string `json:"user_id" gorm:"type:text;not null;uniqueIndex"`
	IsPlatformAdmin bool   `json:"is_platform_admin" gorm:"not null;default:false"`
}

type Session struct {
	ID          string      `json:"id" gorm:"type:text;primaryKey"`
	Title       string      `json:"title" gorm:"type:varchar(200);not null"`
	Code        string      `json:"code" gorm:"type:varchar(10);not null;uniqueIndex"`
	OwnerID     string      `json:"owner_id" gorm:"type:text;not null;index"`
	CreatedAt   time.Time   `json:"created_at" gorm:"not null;index"`
	ExpiresAt   time.Time   `json:"expires_at" gorm:"not null"`
	IsActive    bool        `json:"is_active" gorm:"not null;default:true"`
	PollsClosed bool        `json:"polls_closed" gorm:"not null;default:false"`
	ShowResults bool        `json:"show_results" gorm:"not null;default:false"`
	Candidates  []Candidate `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	Votes       []Vote      `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// IsExpired reports whether now is past the session's expiry
func (s Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type Candidate struct {
	ID        string   `json:"id" gorm:"type:text;primaryKey"`
	SessionID string   `json:"session_id" gorm:"type:text;not null;uniqueIndex:idx_candidate_slot,priority:1"`
	Category  Category `json:"category" gorm:"type:varchar(20);not null;uniqueIndex:idx_candidate_slot,priority:2"`
	Position  int      `json:"position" gorm:"not null;uniqueIndex:idx_candidate_slot,priority:3"`
	Name      string   `json:"name" gorm:"type:varchar(100);not null"`
	Votes     []Vote   `json:"-" gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE"`
}

// Vote carries a copy of the candidate's category so the per-category
// uniqueness rule can be enforced by an index.
type Vote struct {
	ID          string    `json:"id" gorm:"type:text;primaryKey"`
	VoterID     string    `json:"voter_id" gorm:"type:text;not null;uniqueIndex:idx_vote_voter_candidate,priority:1;uniqueIndex:idx_vote_voter_category,priority:1"`
	SessionID   string    `json:"session_id" gorm:"type:text;not null;index;uniqueIndex:idx_vote_voter_candidate,priority:2;uniqueIndex:idx_vote_voter_category,priority:2"`
	CandidateID string    `json:"candidate_id" gorm:"type:text;not null;uniqueIndex:idx_vote_voter_candidate,priority:3"`
	Category    Category  `json:"category" gorm:"type:varchar(20);not null;uniqueIndex:idx_vote_voter_category,priority:3"`
	Timestamp   time.Time `json:"timestamp" gorm:"not null"`
}

// Actor is the request-scoped identity resolved by the identity layer
type Actor struct {
	UserID          string `json:"user_id,omitempty"`
	Username        string `json:"username,omitempty"`
	IsPlatformAdmin bool   `json:"is_platform_admin"`
	Authenticated   bool   `json:"authenticated"`
}

// Request types

type CandidateEntry struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
}

type CreateSessionRequest struct {
	Title      string           `json:"title"`
	Candidates []CandidateEntry `json:"candidates"`
}

// category -> candidate_id
type CastVotesRequest struct {
	Selections map[Category]string `json:"selections"`
}

// Response types

type CreateSessionResponse struct {
	Session    Session              `json:"session"`
	Categories []CategoryCandidates `json:"categories"`
	SharePath  string               `json:"share_path"`
}

type CategoryCandidates struct {
	Category   Category    `json:"category"`
	Label      string      `json:"label"`
	Candidates []Candidate `json:"candidates"`
}

type BallotResponse struct {
	Session    Session              `json:"session"`
	Categories []CategoryCandidates `json:"categories"`
	HasVoted   bool                 `json:"has_voted"`
}

type CastVotesResponse struct {
	VotesRecorded int    `json:"votes_recorded"`
	Message       string `json:"message"`
}

type ClosePollsResponse struct {
	Success bool `json:"success"`
}

type ToggleResultsResponse struct {
	ShowResults bool `json:"show_results"`
}

type ManageSessionResponse struct {
	Session    Session              `json:"session"`
	Categories []CategoryCandidates `json:"categories"`
	VoteCount  int64                `json:"vote_count"`
	VoterCount int64                `json:"voter_count"`
	Expired    bool                 `json:"expired"`
}

type DashboardResponse struct {
	Actor               Actor     `json:"actor"`
	IsAdmin             bool      `json:"is_admin"`
	Sessions            []Session `json:"sessions"`
	LatestActiveSession *Session  `json:"latest_active_session,omitempty"`
	HasVotedInActive    bool      `json:"has_voted_in_active"`
}

// Tally types

type CandidateTally struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Position    int    `json:"position"`
	Votes       int    `json:"votes"`
}

type CategoryResult struct {
	Category   Category         `json:"category"`
	Label      string           `json:"label"`
	Tallies    []CandidateTally `json:"tallies"`
	Winners    []string         `json:"winners"`
	TotalVotes int              `json:"total_votes"`
}

type ResultsResponse struct {
	Session Session          `json:"session"`
	Results []CategoryResult `json:"results"`
	IsAdmin bool             `json:"is_admin"`
}

// Error response

type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}
