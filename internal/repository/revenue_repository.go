package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felps-dev/i-revenue-api/internal/model"
)

// RevenueParams carries an already-normalized revenue payload into the
// repository: MaxRevenue is nil unless the record is a range, and range
// validation happened before any write is attempted.
type RevenueParams struct {
	Name           string
	Type           string
	RevenueAsRange bool
	MinRevenue     float64
	MaxRevenue     *float64
	Cycle          string
	Benefits       []BenefitParams
}

// BenefitParams is one benefit child in a create/update payload.
type BenefitParams struct {
	Type  string
	Value int64
}

type RevenueRepo struct{ DB *sql.DB }

func NewRevenueRepo(db *sql.DB) *RevenueRepo { return &RevenueRepo{DB: db} }

// Create inserts a revenue row and its benefits in one transaction and
// returns the stored record.  Either everything commits or nothing does.
func (r *RevenueRepo) Create(ctx context.Context, userID string, in RevenueParams) (model.Revenue, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	rev := model.Revenue{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           in.Name,
		Type:           in.Type,
		RevenueAsRange: in.RevenueAsRange,
		MinRevenue:     in.MinRevenue,
		MaxRevenue:     in.MaxRevenue,
		Cycle:          in.Cycle,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Revenue{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO revenues (id, user_id, name, type, revenue_as_range, min_revenue, max_revenue, cycle, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rev.ID, rev.UserID, rev.Name, rev.Type, boolToInt(rev.RevenueAsRange),
		rev.MinRevenue, rev.MaxRevenue, rev.Cycle, rev.CreatedAt, rev.UpdatedAt)
	if err != nil {
		return model.Revenue{}, err
	}

	rev.Benefits, err = insertBenefits(ctx, tx, rev.ID, in.Benefits)
	if err != nil {
		return model.Revenue{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Revenue{}, err
	}
	return rev, nil
}

// ListByUser returns all revenues owned by userID, newest first, with their
// benefits attached.
func (r *RevenueRepo) ListByUser(ctx context.Context, userID string) ([]model.Revenue, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, name, type, revenue_as_range, min_revenue, max_revenue, cycle, created_at, updated_at
		 FROM revenues WHERE user_id=? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revenues := []model.Revenue{}
	for rows.Next() {
		rev, err := scanRevenue(rows)
		if err != nil {
			return nil, err
		}
		revenues = append(revenues, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachBenefits(ctx, revenues)
}

// GetByID returns a single revenue owned by userID.  A record owned by a
// different user yields ErrNotFound, never a hint that it exists.
func (r *RevenueRepo) GetByID(ctx context.Context, userID, id string) (model.Revenue, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, revenue_as_range, min_revenue, max_revenue, cycle, created_at, updated_at
		 FROM revenues WHERE user_id=? AND id=? LIMIT 1`, userID, id)
	rev, err := scanRevenue(row)
	if err == sql.ErrNoRows {
		return model.Revenue{}, ErrNotFound
	}
	if err != nil {
		return model.Revenue{}, err
	}
	out, err := r.attachBenefits(ctx, []model.Revenue{rev})
	if err != nil {
		return model.Revenue{}, err
	}
	return out[0], nil
}

// Update rewrites a revenue row and replaces its benefits wholesale inside a
// single transaction.  Returns ErrNotFound when the record is absent or
// owned by someone else.
func (r *RevenueRepo) Update(ctx context.Context, userID, id string, in RevenueParams) (model.Revenue, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Revenue{}, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx,
		`UPDATE revenues SET name=?, type=?, revenue_as_range=?, min_revenue=?, max_revenue=?, cycle=?, updated_at=?
		 WHERE user_id=? AND id=?`,
		in.Name, in.Type, boolToInt(in.RevenueAsRange), in.MinRevenue, in.MaxRevenue, in.Cycle, now,
		userID, id)
	if err != nil {
		return model.Revenue{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Revenue{}, err
	}
	if affected == 0 {
		return model.Revenue{}, ErrNotFound
	}

	var createdAt string
	if err := tx.QueryRowContext(ctx,
		"SELECT created_at FROM revenues WHERE id=?", id).Scan(&createdAt); err != nil {
		return model.Revenue{}, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM benefits WHERE revenue_id=?", id); err != nil {
		return model.Revenue{}, err
	}
	benefits, err := insertBenefits(ctx, tx, id, in.Benefits)
	if err != nil {
		return model.Revenue{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Revenue{}, err
	}
	return model.Revenue{
		ID:             id,
		UserID:         userID,
		Name:           in.Name,
		Type:           in.Type,
		RevenueAsRange: in.RevenueAsRange,
		MinRevenue:     in.MinRevenue,
		MaxRevenue:     in.MaxRevenue,
		Cycle:          in.Cycle,
		Benefits:       benefits,
		CreatedAt:      createdAt,
		UpdatedAt:      now,
	}, nil
}

// Delete removes a revenue and its benefits atomically.  Returns ErrNotFound
// when nothing owned by userID matched.
func (r *RevenueRepo) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Ownership is checked by the revenue delete; benefits go first because
	// cascading is only guaranteed when foreign_keys is on.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM benefits WHERE revenue_id IN (SELECT id FROM revenues WHERE user_id=? AND id=?)`,
		userID, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		"DELETE FROM revenues WHERE user_id=? AND id=?", userID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanRevenue(row rowScanner) (model.Revenue, error) {
	var (
		rev     model.Revenue
		asRange int
		max     sql.NullFloat64
	)
	err := row.Scan(&rev.ID, &rev.UserID, &rev.Name, &rev.Type, &asRange,
		&rev.MinRevenue, &max, &rev.Cycle, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		return model.Revenue{}, err
	}
	rev.RevenueAsRange = asRange != 0
	if max.Valid {
		v := max.Float64
		rev.MaxRevenue = &v
	}
	rev.Benefits = []model.Benefit{}
	return rev, nil
}

// attachBenefits loads the benefit children for every revenue in one query.
func (r *RevenueRepo) attachBenefits(ctx context.Context, revenues []model.Revenue) ([]model.Revenue, error) {
	if len(revenues) == 0 {
		return revenues, nil
	}
	ids := make([]any, len(revenues))
	placeholders := make([]string, len(revenues))
	for i, rev := range revenues {
		ids[i] = rev.ID
		placeholders[i] = "?"
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, revenue_id, type, value FROM benefits WHERE revenue_id IN ("+
			strings.Join(placeholders, ",")+") ORDER BY id", ids...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byRevenue := make(map[string][]model.Benefit)
	for rows.Next() {
		var b model.Benefit
		if err := rows.Scan(&b.ID, &b.RevenueID, &b.Type, &b.Value); err != nil {
			return nil, err
		}
		byRevenue[b.RevenueID] = append(byRevenue[b.RevenueID], b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range revenues {
		if list, ok := byRevenue[revenues[i].ID]; ok {
			revenues[i].Benefits = list
		}
	}
	return revenues, nil
}

func insertBenefits(ctx context.Context, tx *sql.Tx, revenueID string, in []BenefitParams) ([]model.Benefit, error) {
	benefits := make([]model.Benefit, 0, len(in))
	for _, p := range in {
		b := model.Benefit{
			ID:        uuid.NewString(),
			RevenueID: revenueID,
			Type:      p.Type,
			Value:     p.Value,
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO benefits (id, revenue_id, type, value) VALUES (?,?,?,?)",
			b.ID, b.RevenueID, b.Type, b.Value); err != nil {
			return nil, err
		}
		benefits = append(benefits, b)
	}
	return benefits, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
