// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into notifications.
package queue

// SubmissionModeratedEvent is published after a moderation decision has
// been committed.  It carries enough information for downstream consumers
// to notify the contributor and append an audit line without querying the
// primary database.
type SubmissionModeratedEvent struct {
    SubmissionID uint64 `json:"submission_id"`
    UserID       uint64 `json:"user_id"`
    UserEmail    string `json:"user_email"`
    Title        string `json:"title"`
    Category     string `json:"category"`
    Status       string `json:"status"` // approved | rejected
    Reason       string `json:"reason,omitempty"`
    ModeratedBy  string `json:"moderated_by"`
    ProcessedAt  string `json:"processed_at"`
}
