package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/virasat-labs/heritage-archive/internal/model"
)

// ApprovedRepo reads and deletes published copies.  Inserts happen only
// through ModerationRepo.ApproveTx; nothing mutates a published row
// after creation.
type ApprovedRepo struct {
    db *sql.DB
}

func NewApprovedRepo(db *sql.DB) *ApprovedRepo { return &ApprovedRepo{db: db} }

const approvedCols = `id, submission_id, user_id, title, description, body, content_url, type, category,
    tribe, country, state, village,
    consent_given, consent_name, consent_relation, consent_file_url,
    approved_by, approved_at, created_at`

func scanApproved(rs rowScanner) (model.ApprovedContent, error) {
    var (
        a          model.ApprovedContent
        body       sql.NullString
        contentURL sql.NullString
        tribe      sql.NullString
        country    sql.NullString
        state      sql.NullString
        village    sql.NullString
        relation   sql.NullString
        fileURL    sql.NullString
    )
    err := rs.Scan(
        &a.ID, &a.SubmissionID, &a.UserID, &a.Title, &a.Description, &body, &contentURL, &a.Type, &a.Category,
        &tribe, &country, &state, &village,
        &a.Consent.Given, &a.Consent.Name, &relation, &fileURL,
        &a.ApprovedBy, &a.ApprovedAt, &a.CreatedAt,
    )
    if err != nil {
        return model.ApprovedContent{}, err
    }
    a.Body = body.String
    a.ContentURL = contentURL.String
    a.Tribe = tribe.String
    a.Country = country.String
    a.State = state.String
    a.Village = village.String
    a.Consent.Relation = relation.String
    a.Consent.FileURL = fileURL.String
    return a, nil
}

// GetByID fetches one published copy for the public detail page.
func (r *ApprovedRepo) GetByID(ctx context.Context, id uint64) (model.ApprovedContent, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+approvedCols+` FROM approved_content WHERE id = ? LIMIT 1`, id)
    return scanApproved(row)
}

// GetBySubmissionID fetches the published copy for a source submission.
func (r *ApprovedRepo) GetBySubmissionID(ctx context.Context, submissionID uint64) (model.ApprovedContent, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+approvedCols+` FROM approved_content WHERE submission_id = ? LIMIT 1`, submissionID)
    return scanApproved(row)
}

// ApprovedSearchQuery defines the filters for the public explore listing
// over published copies.
type ApprovedSearchQuery struct {
    Category string
    Tribe    string
    Village  string
    Search   string
    Page     int
    PageSize int
}

// buildApprovedFilters translates an explore query into a WHERE condition
// and its arguments.  Search matches tribe and village names as well as
// the text fields, so a tribe name surfaces material even when the word
// appears only in the classification.
func buildApprovedFilters(q ApprovedSearchQuery) (string, []any) {
    where := []string{}
    args := []any{}

    if q.Category != "" {
        where = append(where, "category = ?")
        args = append(args, q.Category)
    }
    if q.Tribe != "" {
        where = append(where, "tribe = ?")
        args = append(args, strings.ToLower(q.Tribe))
    }
    if q.Village != "" {
        where = append(where, "village = ?")
        args = append(args, q.Village)
    }
    if s := strings.TrimSpace(q.Search); s != "" {
        like := "%" + strings.ToLower(s) + "%"
        where = append(where,
            "(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tribe) LIKE ? OR LOWER(village) LIKE ?)")
        args = append(args, like, like, like, like)
    }

    cond := "1=1"
    if len(where) > 0 {
        cond = strings.Join(where, " AND ")
    }
    return cond, args
}

// Search returns one explore page plus the total match count, newest
// first.
func (r *ApprovedRepo) Search(ctx context.Context, q ApprovedSearchQuery) ([]model.ApprovedContent, int64, error) {
    cond, args := buildApprovedFilters(q)

    var total int64
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM approved_content WHERE `+cond, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    limit := q.PageSize
    offset := (q.Page - 1) * q.PageSize

    dataSQL := `SELECT ` + approvedCols + `
        FROM approved_content
        WHERE ` + cond + `
        ORDER BY created_at DESC
        LIMIT ? OFFSET ?`
    argsData := append(append([]any{}, args...), limit, offset)

    rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    out := make([]model.ApprovedContent, 0, limit)
    for rows.Next() {
        a, err := scanApproved(rows)
        if err != nil {
            return nil, 0, err
        }
        out = append(out, a)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}

// List returns published copies newest first.
func (r *ApprovedRepo) List(ctx context.Context, limit, offset int) ([]model.ApprovedContent, int64, error) {
    var total int64
    if err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM approved_content").Scan(&total); err != nil {
        return nil, 0, err
    }
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+approvedCols+` FROM approved_content ORDER BY approved_at DESC LIMIT ? OFFSET ?`,
        limit, offset)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    out := make([]model.ApprovedContent, 0, limit)
    for rows.Next() {
        a, err := scanApproved(rows)
        if err != nil {
            return nil, 0, err
        }
        out = append(out, a)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}

// Delete removes a published copy.  The source submission is not
// touched.
func (r *ApprovedRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM approved_content WHERE id=?", id)
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
