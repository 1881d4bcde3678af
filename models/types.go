package models

import "time"

// Poll status constants
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// ListPolls filter values
const (
	FilterActive = "active"
	FilterClosed = "closed"
	FilterAll    = "all"
)

// Request types

type RegisterMemberRequest struct {
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type CreatePollRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Options     []string   `json:"options"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// MemberID may be omitted; the authenticated member is used instead.
type CastVoteRequest struct {
	PollID      string `json:"poll_id"`
	OptionIndex *int   `json:"option_index"`
	MemberID    string `json:"member_id"`
}

// Response types

type RegisterMemberResponse struct {
	MemberID    string `json:"member_id"`
	MemberToken string `json:"member_token"`
}

type CreatePollResponse struct {
	PollID   string `json:"poll_id"`
	AdminKey string `json:"admin_key"`
}

type CastVoteResponse struct {
	Message string `json:"message"`
	Poll    Poll   `json:"poll"`
}

type ListPollsResponse struct {
	Polls []Poll `json:"polls"`
}

type ResultsResponse struct {
	Title      string `json:"title"`
	Status     string `json:"status"`
	VoterCount int    `json:"voter_count"` // ledger rows; equals tally.total_votes
	Tally      Tally  `json:"tally"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Domain types

type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Poll struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	EndsIn      string     `json:"ends_in,omitempty"` // humanized, e.g. "3 days from now"
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Options     []Option   `json:"options"`
	Tally       *Tally     `json:"tally,omitempty"`
}

// Open reports whether the poll accepts votes at the given instant.
func (p Poll) Open(now time.Time) bool {
	if p.Status != StatusOpen {
		return false
	}
	return p.EndsAt == nil || now.Before(*p.EndsAt)
}

type Option struct {
	Index     int    `json:"index"`
	Label     string `json:"label"`
	VoteCount int    `json:"vote_count"`
}

type Vote struct {
	PollID      string    `json:"poll_id"`
	MemberID    string    `json:"member_id"`
	OptionIndex int       `json:"option_index"`
	CastAt      time.Time `json:"cast_at"`
}

// Tally types

type OptionTally struct {
	Index      int     `json:"index"`
	Label      string  `json:"label"`
	VoteCount  int     `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

type Tally struct {
	PollID     string        `json:"poll_id"`
	TotalVotes int           `json:"total_votes"`
	Options    []OptionTally `json:"options"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
