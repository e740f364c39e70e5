package model

import "time"

// ApprovedContent is the publish-side copy of a submission, written inside
// the same transaction that flips the submission to approved.  It is a
// deliberate point-in-time snapshot: later edits or deletion of the source
// submission do not touch this record, and admins delete it independently.
//
// Fields mirror the descriptive part of Submission plus:
//  SubmissionID – id of the source submission (informational only).
//  ApprovedBy   – moderator identity recorded at approval.
//  ApprovedAt   – approval timestamp.
type ApprovedContent struct {
    ID           uint64    `json:"id"`
    SubmissionID uint64    `json:"submissionId"`
    UserID       uint64    `json:"userId"`
    Title        string    `json:"title"`
    Description  string    `json:"description"`
    Body         string    `json:"text,omitempty"`
    ContentURL   string    `json:"contentUrl,omitempty"`
    Type         string    `json:"type"`
    Category     string    `json:"category"`
    Tribe        string    `json:"tribe,omitempty"`
    Country      string    `json:"country,omitempty"`
    State        string    `json:"state,omitempty"`
    Village      string    `json:"village,omitempty"`
    Consent      Consent   `json:"consent"`
    ApprovedBy   string    `json:"approvedBy"`
    ApprovedAt   time.Time `json:"approvedAt"`
    CreatedAt    time.Time `json:"createdAt"`
}
