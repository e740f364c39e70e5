package repository

import (
    "context"
    "database/sql"
    "sort"
    "strings"

    "github.com/virasat-labs/heritage-archive/internal/model"
)

// TaxonomyRepo maintains the per-(country,state) accumulator of distinct
// lowercased tribe and village names.  The sets grow monotonically;
// nothing removes a value once recorded.  Writes are best-effort from the
// caller's point of view: a failed accumulate must never fail the
// submission that triggered it.
type TaxonomyRepo struct {
    db *sql.DB
}

func NewTaxonomyRepo(db *sql.DB) *TaxonomyRepo { return &TaxonomyRepo{db: db} }

// splitSet parses the comma-joined storage form into a slice, dropping
// empties.
func splitSet(s string) []string {
    if strings.TrimSpace(s) == "" {
        return nil
    }
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p != "" {
            out = append(out, p)
        }
    }
    return out
}

// mergeSet adds value (lowercased) to the set and reports whether it was
// new.  The set stays sorted for deterministic storage.
func mergeSet(set []string, value string) ([]string, bool) {
    value = strings.ToLower(strings.TrimSpace(value))
    if value == "" {
        return set, false
    }
    for _, v := range set {
        if v == value {
            return set, false
        }
    }
    set = append(set, value)
    sort.Strings(set)
    return set, true
}

// Accumulate records the tribe and village seen on a new submission for
// the given (country,state) pair, creating the row lazily on first
// sight.  The read-modify-write runs in its own short transaction with a
// row lock so concurrent submissions cannot drop each other's values.
func (r *TaxonomyRepo) Accumulate(ctx context.Context, country, state, tribe, village string) error {
    country = strings.TrimSpace(country)
    state = strings.TrimSpace(state)
    if country == "" || state == "" {
        return nil
    }

    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var (
        id       uint64
        tribes   sql.NullString
        villages sql.NullString
    )
    err = tx.QueryRowContext(ctx,
        "SELECT id, tribes, villages FROM taxonomies WHERE country=? AND state=? FOR UPDATE",
        country, state).Scan(&id, &tribes, &villages)
    switch {
    case err == sql.ErrNoRows:
        tSet, _ := mergeSet(nil, tribe)
        vSet, _ := mergeSet(nil, village)
        if _, err := tx.ExecContext(ctx,
            "INSERT INTO taxonomies (country, state, tribes, villages) VALUES (?,?,?,?)",
            country, state, strings.Join(tSet, ","), strings.Join(vSet, ",")); err != nil {
            return err
        }
    case err != nil:
        return err
    default:
        tSet := splitSet(tribes.String)
        vSet := splitSet(villages.String)
        tSet, tNew := mergeSet(tSet, tribe)
        vSet, vNew := mergeSet(vSet, village)
        if tNew || vNew {
            if _, err := tx.ExecContext(ctx,
                "UPDATE taxonomies SET tribes=?, villages=? WHERE id=?",
                strings.Join(tSet, ","), strings.Join(vSet, ","), id); err != nil {
                return err
            }
        }
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Lookup returns the accumulator row for a (country,state) pair.
func (r *TaxonomyRepo) Lookup(ctx context.Context, country, state string) (model.Taxonomy, error) {
    var (
        t        model.Taxonomy
        tribes   sql.NullString
        villages sql.NullString
    )
    err := r.db.QueryRowContext(ctx,
        "SELECT id, country, state, tribes, villages, created_at, updated_at FROM taxonomies WHERE country=? AND state=? LIMIT 1",
        country, state).Scan(&t.ID, &t.Country, &t.State, &tribes, &villages, &t.CreatedAt, &t.UpdatedAt)
    if err != nil {
        return model.Taxonomy{}, err
    }
    t.Tribes = splitSet(tribes.String)
    t.Villages = splitSet(villages.String)
    return t, nil
}
