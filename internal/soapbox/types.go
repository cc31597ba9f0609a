package soapbox

import "time"

// Wish statuses as the backend reports them.
const (
	StatusOpen       = "open"
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusClosed     = "closed"
)

// RoadmapStatuses are the statuses rendered as roadmap columns, in display order.
var RoadmapStatuses = []string{StatusPlanned, StatusInProgress, StatusDone}

// Sort keys accepted by list endpoints.
const (
	SortVotes    = "votes"
	SortNewest   = "created_at"
	SortComments = "comments"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Page is the one collection shape every paginated resource in the system
// normalizes to, regardless of how the endpoint physically returned it.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

// Wish is a feature request on a project board. VoteCount and HasVoted are
// computed server-side for the fingerprint supplied with the fetch; VoteID is
// populated only when HasVoted is true and names the vote record to delete on
// un-vote.
type Wish struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	Status       string   `json:"status"`
	Category     Category `json:"category"`
	VoteCount    int      `json:"vote_count"`
	HasVoted     bool     `json:"has_voted"`
	VoteID       string   `json:"vote_id,omitempty"`
	CommentCount int      `json:"comment_count"`
	AuthorName   string   `json:"author_name"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (w Wish) ParsedCreatedAt() time.Time {
	return parseTime(w.CreatedAt)
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (w Wish) ParsedUpdatedAt() time.Time {
	return parseTime(w.UpdatedAt)
}

// NewWish is the payload for submitting a wish.
type NewWish struct {
	Title       string `json:"title"`
	Body        string `json:"body,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// Vote is the record created by CreateVote. Only the id matters client-side;
// it is the handle for the inverse delete.
type Vote struct {
	ID string `json:"id"`
}

// Ack is the bare acknowledgement some mutating endpoints return.
type Ack struct {
	Deleted bool `json:"deleted"`
}

// Comment belongs to a wish. Pending is client-side only: true while an
// optimistic submission has not yet been confirmed by the server.
type Comment struct {
	ID         string `json:"id"`
	WishID     string `json:"wish_id"`
	Body       string `json:"body"`
	AuthorName string `json:"author_name"`
	CreatedAt  string `json:"created_at"`
	Pending    bool   `json:"-"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (c Comment) ParsedCreatedAt() time.Time {
	return parseTime(c.CreatedAt)
}

// NewComment is the payload for submitting a comment.
type NewComment struct {
	Body        string `json:"body"`
	AuthorName  string `json:"author_name,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// Category groups wishes (kind "board") or articles (kind "help").
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

// Release is a published changelog entry.
type Release struct {
	ID          string   `json:"id"`
	Version     string   `json:"version"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
	PublishedAt string   `json:"published_at"`
}

// ParsedPublishedAt returns the parsed PublishedAt timestamp.
func (r Release) ParsedPublishedAt() time.Time {
	return parseTime(r.PublishedAt)
}

// Article is a help-center document.
type Article struct {
	ID        string   `json:"id"`
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Body      string   `json:"body"`
	Category  Category `json:"category"`
	UpdatedAt string   `json:"updated_at"`
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (a Article) ParsedUpdatedAt() time.Time {
	return parseTime(a.UpdatedAt)
}

// NewTicket is the payload for a support request. AttachmentIDs reference
// prior Upload results.
type NewTicket struct {
	Email         string   `json:"email"`
	Subject       string   `json:"subject"`
	Message       string   `json:"message"`
	AttachmentIDs []string `json:"attachment_ids,omitempty"`
	Fingerprint   string   `json:"fingerprint,omitempty"`
}

// Ticket is the server's view of a submitted support request.
type Ticket struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Upload describes a stored attachment.
type Upload struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
