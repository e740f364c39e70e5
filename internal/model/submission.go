package model

import "time"

// Submission statuses.  A submission starts life as pending and is moved
// to approved or rejected exactly once by the moderation workflow; both
// outcomes are terminal.
const (
    StatusPending  = "pending"
    StatusApproved = "approved"
    StatusRejected = "rejected"
)

// Content types accepted for a submission.
const (
    TypeText  = "text"
    TypeAudio = "audio"
    TypeVideo = "video"
    TypeImage = "image"
)

// Consent captures the declaration recorded alongside every submission.
// Given and Name are mandatory at creation time; the proof file and the
// declarant's relation to the material are optional.
type Consent struct {
    Given       bool      `json:"given"`              // submissions.consent_given
    Name        string    `json:"name"`               // submissions.consent_name
    Relation    string    `json:"relation,omitempty"` // submissions.consent_relation
    FileURL     string    `json:"fileUrl,omitempty"`  // submissions.consent_file_url
    CollectedAt time.Time `json:"collectedAt"`        // submissions.consent_collected_at
}

// Submission represents a contribution awaiting or past moderation, as
// stored in the `submissions` table.  Tribe is normalized to lowercase on
// write so that filter dropdowns stay deduplicated.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – owning contributor (weak reference; deleting the user
//                    bulk-deletes their submissions explicitly).
//  Title           – short title, required.
//  Description     – required description.
//  Body            – full text content when Type is "text".
//  ContentURL      – media URL for audio/video/image submissions.
//  Type            – one of text/audio/video/image.
//  Category        – e.g. "folktales", "folksongs".
//  Tribe           – lowercased tribe name.
//  Country/State/Village – geographic classification.
//  Consent         – mandatory consent sub-record.
//  Status          – pending/approved/rejected; owner-immutable.
//  RejectionReason – optional moderator note on rejection.
//  ProcessedAt     – when moderation decided (null while pending).
type Submission struct {
    ID              uint64     `json:"id"`
    UserID          uint64     `json:"userId"`
    Title           string     `json:"title"`
    Description     string     `json:"description"`
    Body            string     `json:"text,omitempty"`
    ContentURL      string     `json:"contentUrl,omitempty"`
    Type            string     `json:"type"`
    Category        string     `json:"category"`
    Tribe           string     `json:"tribe,omitempty"`
    Country         string     `json:"country,omitempty"`
    State           string     `json:"state,omitempty"`
    Village         string     `json:"village,omitempty"`
    Consent         Consent    `json:"consent"`
    Status          string     `json:"status"`
    RejectionReason string     `json:"rejectionReason,omitempty"`
    ProcessedAt     *time.Time `json:"processedAt,omitempty"`
    CreatedAt       time.Time  `json:"createdAt"`
    UpdatedAt       time.Time  `json:"updatedAt"`
}
