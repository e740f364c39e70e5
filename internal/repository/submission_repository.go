package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/virasat-labs/heritage-archive/internal/model"
)

// SubmissionRepo provides CRUD operations for submissions.  A submission
// is created pending regardless of caller input; only the moderation
// repository moves it out of that state.  All timestamp fields are
// assumed to be stored in UTC.
type SubmissionRepo struct {
    db *sql.DB
}

// NewSubmissionRepo returns a new SubmissionRepo bound to the given database.
func NewSubmissionRepo(db *sql.DB) *SubmissionRepo { return &SubmissionRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions
// that span this repository and others.
func (r *SubmissionRepo) DB() *sql.DB { return r.db }

// submissionCols is the canonical column list used by every SELECT so the
// scan helper stays in one place.
const submissionCols = `id, user_id, title, description, body, content_url, type, category,
    tribe, country, state, village,
    consent_given, consent_name, consent_relation, consent_file_url, consent_collected_at,
    status, rejection_reason, processed_at, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
    Scan(dest ...any) error
}

// scanSubmission reads one row in submissionCols order, folding nullable
// columns into their zero values.
func scanSubmission(rs rowScanner) (model.Submission, error) {
    var (
        s           model.Submission
        body        sql.NullString
        contentURL  sql.NullString
        tribe       sql.NullString
        country     sql.NullString
        state       sql.NullString
        village     sql.NullString
        relation    sql.NullString
        fileURL     sql.NullString
        reason      sql.NullString
        processedAt sql.NullTime
    )
    err := rs.Scan(
        &s.ID, &s.UserID, &s.Title, &s.Description, &body, &contentURL, &s.Type, &s.Category,
        &tribe, &country, &state, &village,
        &s.Consent.Given, &s.Consent.Name, &relation, &fileURL, &s.Consent.CollectedAt,
        &s.Status, &reason, &processedAt, &s.CreatedAt, &s.UpdatedAt,
    )
    if err != nil {
        return model.Submission{}, err
    }
    s.Body = body.String
    s.ContentURL = contentURL.String
    s.Tribe = tribe.String
    s.Country = country.String
    s.State = state.String
    s.Village = village.String
    s.Consent.Relation = relation.String
    s.Consent.FileURL = fileURL.String
    s.RejectionReason = reason.String
    if processedAt.Valid {
        t := processedAt.Time
        s.ProcessedAt = &t
    }
    return s, nil
}

// nullable converts an empty string to a SQL NULL.
func nullable(s string) any {
    if strings.TrimSpace(s) == "" {
        return nil
    }
    return s
}

const submissionInsertSQL = `INSERT INTO submissions
        (user_id, title, description, body, content_url, type, category,
         tribe, country, state, village,
         consent_given, consent_name, consent_relation, consent_file_url, consent_collected_at,
         status)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

// Create inserts a new submission and returns the stored record.  Status
// is hard-coded to pending here; callers cannot override it.  Tribe is
// lowercased before insert so the filter dropdowns stay deduplicated.
// Consent is timestamped at insert time.
func (r *SubmissionRepo) Create(ctx context.Context, s model.Submission) (model.Submission, error) {
    s.Tribe = strings.ToLower(strings.TrimSpace(s.Tribe))
    res, err := r.db.ExecContext(ctx, submissionInsertSQL,
        s.UserID, s.Title, s.Description, nullable(s.Body), nullable(s.ContentURL), s.Type, s.Category,
        nullable(s.Tribe), nullable(s.Country), nullable(s.State), nullable(s.Village),
        s.Consent.Given, s.Consent.Name, nullable(s.Consent.Relation), nullable(s.Consent.FileURL), time.Now().UTC(),
        model.StatusPending,
    )
    if err != nil {
        return model.Submission{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.Submission{}, err
    }
    return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a single submission regardless of owner or status.
func (r *SubmissionRepo) GetByID(ctx context.Context, id uint64) (model.Submission, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+submissionCols+` FROM submissions WHERE id = ?`, id)
    return scanSubmission(row)
}

// SubmissionPatch carries the owner-editable content fields.  A nil
// pointer means "leave unchanged"; status and moderation metadata cannot
// be patched from here.
type SubmissionPatch struct {
    Title       *string
    Description *string
    Body        *string
    ContentURL  *string
}

// UpdateOwned applies a content-field patch to a submission owned by the
// given user.  Ownership is enforced by scoping the UPDATE to both id and
// user_id, so a non-owner sees sql.ErrNoRows rather than a forbidden
// error.  No status check is made: the published copy in approved_content
// is a snapshot and is never resynced.
func (r *SubmissionRepo) UpdateOwned(ctx context.Context, id, userID uint64, p SubmissionPatch) (model.Submission, error) {
    set := []string{}
    args := []any{}
    if p.Title != nil {
        set = append(set, "title=?")
        args = append(args, *p.Title)
    }
    if p.Description != nil {
        set = append(set, "description=?")
        args = append(args, *p.Description)
    }
    if p.Body != nil {
        set = append(set, "body=?")
        args = append(args, nullable(*p.Body))
    }
    if p.ContentURL != nil {
        set = append(set, "content_url=?")
        args = append(args, nullable(*p.ContentURL))
    }
    if len(set) == 0 {
        // Nothing to change; still verify existence and ownership.
        row := r.db.QueryRowContext(ctx,
            `SELECT `+submissionCols+` FROM submissions WHERE id = ? AND user_id = ?`, id, userID)
        return scanSubmission(row)
    }
    args = append(args, id, userID)
    res, err := r.db.ExecContext(ctx,
        "UPDATE submissions SET "+strings.Join(set, ", ")+" WHERE id=? AND user_id=?", args...)
    if err != nil {
        return model.Submission{}, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return model.Submission{}, err
    }
    if n == 0 {
        // Distinguish a no-op update of an owned row from a miss.
        var exists bool
        if err := r.db.QueryRowContext(ctx,
            "SELECT 1 FROM submissions WHERE id=? AND user_id=?", id, userID).Scan(&exists); err != nil {
            return model.Submission{}, err
        }
    }
    return r.GetByID(ctx, id)
}

// DeleteOwned removes a submission if it belongs to the given user.
// Returns sql.ErrNoRows when no row matches both id and owner.
func (r *SubmissionRepo) DeleteOwned(ctx context.Context, id, userID uint64) error {
    res, err := r.db.ExecContext(ctx,
        "DELETE FROM submissions WHERE id=? AND user_id=?", id, userID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Delete removes a submission of any status and owner (admin path).
func (r *SubmissionRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM submissions WHERE id=?", id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// DeleteAllForUserTx bulk-deletes a user's submissions inside an existing
// transaction.  Used when a contributor account is removed; published
// approved_content copies stay in the archive.
func (r *SubmissionRepo) DeleteAllForUserTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
    _, err := tx.ExecContext(ctx, "DELETE FROM submissions WHERE user_id=?", userID)
    return err
}

// ListByUser returns the user's own submissions across all statuses,
// newest first, with offset pagination.
func (r *SubmissionRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Submission, int64, error) {
    var total int64
    if err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM submissions WHERE user_id=?", userID).Scan(&total); err != nil {
        return nil, 0, err
    }
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+submissionCols+` FROM submissions WHERE user_id=? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
        userID, limit, offset)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    out := make([]model.Submission, 0, limit)
    for rows.Next() {
        s, err := scanSubmission(rows)
        if err != nil {
            return nil, 0, err
        }
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}

// ListByStatus returns submissions of one status, newest first.  Used by
// the admin review queue (default pending).
func (r *SubmissionRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]model.Submission, int64, error) {
    var total int64
    if err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM submissions WHERE status=?", status).Scan(&total); err != nil {
        return nil, 0, err
    }
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+submissionCols+` FROM submissions WHERE status=? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
        status, limit, offset)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    out := make([]model.Submission, 0, limit)
    for rows.Next() {
        s, err := scanSubmission(rows)
        if err != nil {
            return nil, 0, err
        }
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}
