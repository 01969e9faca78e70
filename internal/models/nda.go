package models

import "time"

// NDA holds an idea's custom non-disclosure agreement text. At most one row
// per idea; when absent the default template is presented instead.
type NDA struct {
	ID        string    `json:"id"`
	IdeaID    string    `json:"idea_id"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NDAAcceptance marks that a user agreed to an idea's NDA. Append-only; the
// existence of a row is the sole acceptance signal.
type NDAAcceptance struct {
	ID         string    `json:"id"`
	IdeaID     string    `json:"idea_id"`
	UserID     string    `json:"user_id"`
	AcceptedAt time.Time `json:"accepted_at"`
}
