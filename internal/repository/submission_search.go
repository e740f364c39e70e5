package repository

import (
	"context"
	"strings"

	"github.com/virasat-labs/heritage-archive/internal/model"
)

// SubmissionSearchQuery defines filters & pagination for the public
// archive listing. Status has already been resolved by the handler
// (anonymous callers are always pinned to approved).
type SubmissionSearchQuery struct {
	Status   string
	Category string
	Tribe    string
	Country  string
	State    string
	Village  string
	Search   string
	Sort     string // "newest" (default) or "oldest"
	Page     int
	PageSize int
}

// orderClause maps the sort parameter to a fixed ORDER BY.  Only the two
// known values are honored; anything else falls back to newest first so a
// crafted parameter can never reach the SQL text.
func orderClause(sort string) string {
	if strings.ToLower(strings.TrimSpace(sort)) == "oldest" {
		return "ORDER BY created_at ASC"
	}
	return "ORDER BY created_at DESC"
}

// buildSubmissionFilters translates a query into a WHERE condition and
// its arguments. Exported to the package only so it can be covered
// directly by tests; Search is the sole caller.
func buildSubmissionFilters(q SubmissionSearchQuery) (string, []any) {
	where := []string{}
	args := []any{}

	if q.Status != "" && strings.ToLower(q.Status) != "all" {
		where = append(where, "status = ?")
		args = append(args, strings.ToLower(q.Status))
	}
	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, q.Category)
	}
	if q.Tribe != "" {
		where = append(where, "tribe = ?")
		args = append(args, strings.ToLower(q.Tribe))
	}
	if q.Country != "" {
		where = append(where, "country = ?")
		args = append(args, q.Country)
	}
	if q.State != "" {
		where = append(where, "state = ?")
		args = append(args, q.State)
	}
	if q.Village != "" {
		where = append(where, "village = ?")
		args = append(args, q.Village)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(body) LIKE ?)")
		args = append(args, like, like, like)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// Search returns one page of submissions matching the query plus the
// total match count, newest first.
func (r *SubmissionRepo) Search(ctx context.Context, q SubmissionSearchQuery) ([]model.Submission, int64, error) {
	cond, args := buildSubmissionFilters(q)

	var total int64
	countSQL := `SELECT COUNT(*) FROM submissions WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT ` + submissionCols + `
		FROM submissions
		WHERE ` + cond + `
		` + orderClause(q.Sort) + `
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
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

// DistinctTribes returns the deduplicated lowercase tribe names present
// on approved submissions, optionally narrowed by country and state.
func (r *SubmissionRepo) DistinctTribes(ctx context.Context, country, state string) ([]string, error) {
	return r.distinctColumn(ctx, "tribe", "", country, state)
}

// DistinctVillages returns the deduplicated village names present on
// approved submissions, optionally narrowed by tribe, country and state.
func (r *SubmissionRepo) DistinctVillages(ctx context.Context, tribe, country, state string) ([]string, error) {
	return r.distinctColumn(ctx, "village", tribe, country, state)
}

func (r *SubmissionRepo) distinctColumn(ctx context.Context, col, tribe, country, state string) ([]string, error) {
	where := []string{"status = ?", col + " IS NOT NULL", col + " <> ''"}
	args := []any{model.StatusApproved}
	if tribe != "" {
		where = append(where, "tribe = ?")
		args = append(args, strings.ToLower(tribe))
	}
	if country != "" {
		where = append(where, "country = ?")
		args = append(args, country)
	}
	if state != "" {
		where = append(where, "state = ?")
		args = append(args, state)
	}
	q := "SELECT DISTINCT LOWER(" + col + ") FROM submissions WHERE " +
		strings.Join(where, " AND ") + " ORDER BY 1"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
