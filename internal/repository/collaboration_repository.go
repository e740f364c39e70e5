package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/virasat-labs/heritage-archive/internal/model"
)

// CollaborationRepo stores the request/accept/reject handshake that
// gates the chat channel between two contributors.
type CollaborationRepo struct {
    db *sql.DB
}

func NewCollaborationRepo(db *sql.DB) *CollaborationRepo { return &CollaborationRepo{db: db} }

const collabCols = "id, requester_id, recipient_id, category, status, created_at, updated_at"

func scanCollab(rs rowScanner) (model.CollaborationRequest, error) {
    var cr model.CollaborationRequest
    err := rs.Scan(&cr.ID, &cr.RequesterID, &cr.RecipientID, &cr.Category,
        &cr.Status, &cr.CreatedAt, &cr.UpdatedAt)
    return cr, err
}

// Create inserts a pending request.  The unique key on
// (requester_id, recipient_id, category) turns a duplicate into
// ErrDuplicateRequest.
func (r *CollaborationRepo) Create(ctx context.Context, requesterID, recipientID uint64, category string) (model.CollaborationRequest, error) {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO collaboration_requests (requester_id, recipient_id, category, status) VALUES (?,?,?,?)",
        requesterID, recipientID, category, model.CollabPending)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return model.CollaborationRequest{}, ErrDuplicateRequest
        }
        return model.CollaborationRequest{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.CollaborationRequest{}, err
    }
    row := r.db.QueryRowContext(ctx,
        "SELECT "+collabCols+" FROM collaboration_requests WHERE id=?", id)
    return scanCollab(row)
}

// ListForUser returns requests where the user is requester or recipient,
// newest first.
func (r *CollaborationRepo) ListForUser(ctx context.Context, userID uint64) ([]model.CollaborationRequest, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+collabCols+" FROM collaboration_requests WHERE requester_id=? OR recipient_id=? ORDER BY created_at DESC",
        userID, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.CollaborationRequest, 0)
    for rows.Next() {
        cr, err := scanCollab(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, cr)
    }
    return out, rows.Err()
}

// Respond moves a pending request to accepted or rejected.  Only the
// recipient may answer (ErrForbidden otherwise); answering a request
// that already left pending returns ErrAlreadyProcessed; an unknown id
// returns sql.ErrNoRows.
func (r *CollaborationRepo) Respond(ctx context.Context, id, recipientID uint64, status string) (model.CollaborationRequest, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT "+collabCols+" FROM collaboration_requests WHERE id=?", id)
    cr, err := scanCollab(row)
    if err != nil {
        return model.CollaborationRequest{}, err
    }
    if cr.RecipientID != recipientID {
        return model.CollaborationRequest{}, ErrForbidden
    }
    if cr.Status != model.CollabPending {
        return model.CollaborationRequest{}, ErrAlreadyProcessed
    }
    res, err := r.db.ExecContext(ctx,
        "UPDATE collaboration_requests SET status=? WHERE id=? AND status=?",
        status, id, model.CollabPending)
    if err != nil {
        return model.CollaborationRequest{}, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return model.CollaborationRequest{}, err
    }
    if n == 0 {
        // Raced with a concurrent answer.
        return model.CollaborationRequest{}, ErrAlreadyProcessed
    }
    cr.Status = status
    return cr, nil
}

// CanChat reports whether an accepted request exists between the pair,
// in either direction.  The websocket join is rejected when this is
// false.
func (r *CollaborationRepo) CanChat(ctx context.Context, userA, userB uint64) (bool, error) {
    var exists int
    err := r.db.QueryRowContext(ctx,
        `SELECT 1 FROM collaboration_requests
         WHERE status = ?
           AND ((requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?))
         LIMIT 1`,
        model.CollabAccepted, userA, userB, userB, userA).Scan(&exists)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}
