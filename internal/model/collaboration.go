package model

import "time"

// Collaboration request statuses.  Only the recipient may move a pending
// request to accepted or rejected.
const (
    CollabPending  = "pending"
    CollabAccepted = "accepted"
    CollabRejected = "rejected"
)

// CollaborationRequest is the handshake that gates the chat channel
// between two contributors.  The (requester, recipient, category) tuple
// is unique.
type CollaborationRequest struct {
    ID          uint64    `json:"id"`
    RequesterID uint64    `json:"requesterId"`
    RecipientID uint64    `json:"recipientId"`
    Category    string    `json:"category"`
    Status      string    `json:"status"`
    CreatedAt   time.Time `json:"createdAt"`
    UpdatedAt   time.Time `json:"updatedAt"`
}
