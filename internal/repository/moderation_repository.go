package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/virasat-labs/heritage-archive/internal/model"
)

// ModerationRepo owns the pending → approved | rejected transitions.
// The approve transition touches two tables (submissions and
// approved_content) and therefore runs on a caller-owned transaction;
// reject is a single-document write and needs none.
type ModerationRepo struct {
    db *sql.DB
}

// NewModerationRepo returns a new ModerationRepo bound to the given database.
func NewModerationRepo(db *sql.DB) *ModerationRepo { return &ModerationRepo{db: db} }

// DB exposes the underlying handle so handlers can begin the approval
// transaction.
func (r *ModerationRepo) DB() *sql.DB { return r.db }

// ApproveTx performs the approve transition inside the provided
// transaction:
//
//  1. loads the submission with a row lock,
//  2. fails with ErrAlreadyProcessed unless it is still pending,
//  3. materializes the approved_content copy with the approver identity,
//  4. flips the submission to approved and stamps processed_at.
//
// The caller must commit; on any error it must roll back, leaving the
// submission pending.  The row lock plus the pending guard make a
// concurrent double-approve impossible: the second transaction blocks on
// the lock and then observes the non-pending status.
func (r *ModerationRepo) ApproveTx(ctx context.Context, tx *sql.Tx, submissionID uint64, approvedBy string) (model.Submission, error) {
    row := tx.QueryRowContext(ctx,
        `SELECT `+submissionCols+` FROM submissions WHERE id = ? FOR UPDATE`, submissionID)
    s, err := scanSubmission(row)
    if err != nil {
        return model.Submission{}, err
    }
    if s.Status != model.StatusPending {
        return model.Submission{}, ErrAlreadyProcessed
    }

    now := time.Now().UTC()
    if _, err := tx.ExecContext(ctx, `INSERT INTO approved_content
        (submission_id, user_id, title, description, body, content_url, type, category,
         tribe, country, state, village,
         consent_given, consent_name, consent_relation, consent_file_url,
         approved_by, approved_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
        s.ID, s.UserID, s.Title, s.Description, nullable(s.Body), nullable(s.ContentURL), s.Type, s.Category,
        nullable(s.Tribe), nullable(s.Country), nullable(s.State), nullable(s.Village),
        s.Consent.Given, s.Consent.Name, nullable(s.Consent.Relation), nullable(s.Consent.FileURL),
        approvedBy, now,
    ); err != nil {
        return model.Submission{}, err
    }

    if _, err := tx.ExecContext(ctx,
        "UPDATE submissions SET status=?, processed_at=? WHERE id=?",
        model.StatusApproved, now, s.ID); err != nil {
        return model.Submission{}, err
    }

    s.Status = model.StatusApproved
    s.ProcessedAt = &now
    return s, nil
}

// Reject moves a pending submission to rejected, recording the optional
// reason and the processing timestamp.  Rejecting a submission that has
// already been processed returns ErrAlreadyProcessed; an unknown id
// returns sql.ErrNoRows.
func (r *ModerationRepo) Reject(ctx context.Context, submissionID uint64, reason string) (model.Submission, error) {
    now := time.Now().UTC()
    res, err := r.db.ExecContext(ctx,
        "UPDATE submissions SET status=?, rejection_reason=?, processed_at=? WHERE id=? AND status=?",
        model.StatusRejected, nullable(reason), now, submissionID, model.StatusPending)
    if err != nil {
        return model.Submission{}, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return model.Submission{}, err
    }
    if n == 0 {
        // Either the submission does not exist or it has left pending.
        var status string
        err := r.db.QueryRowContext(ctx,
            "SELECT status FROM submissions WHERE id=?", submissionID).Scan(&status)
        if err != nil {
            return model.Submission{}, err // sql.ErrNoRows for unknown id
        }
        return model.Submission{}, ErrAlreadyProcessed
    }
    row := r.db.QueryRowContext(ctx,
        `SELECT `+submissionCols+` FROM submissions WHERE id = ?`, submissionID)
    return scanSubmission(row)
}
