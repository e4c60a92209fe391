package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
)

var (
	ErrPartnerNotFound = errors.New("partner not found")
	ErrPartnerExists   = errors.New("partner already exists")
	ErrCodeConflict    = errors.New("partner code already taken")
)

const uniqueViolation = "23505"

type PartnersRepo struct {
	pool *pgxpool.Pool
}

func NewPartnersRepo(pool *pgxpool.Pool) *PartnersRepo {
	return &PartnersRepo{pool: pool}
}

func (r *PartnersRepo) Insert(ctx context.Context, partner model.Partner) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO partners (partner_code, username, user_id)
VALUES ($1, $2, $3)
`, partner.Code, partner.Username, partner.UserID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return ErrPartnerExists
			}
			return ErrCodeConflict
		}
		return fmt.Errorf("insert partner: %w", err)
	}
	return nil
}

// DeleteByUsername removes the partner row and reports whether it existed.
func (r *PartnersRepo) DeleteByUsername(ctx context.Context, username string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
DELETE FROM partners WHERE username = $1
`, strings.TrimSpace(username))
	if err != nil {
		return false, fmt.Errorf("delete partner: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PartnersRepo) GetByCode(ctx context.Context, code string) (model.Partner, error) {
	return r.getOne(ctx, `WHERE partner_code = $1`, code)
}

func (r *PartnersRepo) GetByUsername(ctx context.Context, username string) (model.Partner, error) {
	return r.getOne(ctx, `WHERE username = $1`, strings.TrimSpace(username))
}

// GetByUserID resolves the partner row linked to the given account id.
func (r *PartnersRepo) GetByUserID(ctx context.Context, tgID int64) (model.Partner, error) {
	return r.getOne(ctx, `WHERE user_id = $1`, tgID)
}

func (r *PartnersRepo) getOne(ctx context.Context, where string, arg any) (model.Partner, error) {
	var partner model.Partner
	err := r.pool.QueryRow(ctx, `
SELECT partner_code, username, COALESCE(user_id, 0), created_at
FROM partners
`+where, arg).Scan(&partner.Code, &partner.Username, &partner.UserID, &partner.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Partner{}, ErrPartnerNotFound
	}
	if err != nil {
		return model.Partner{}, fmt.Errorf("select partner: %w", err)
	}
	return partner, nil
}

func (r *PartnersRepo) List(ctx context.Context) ([]model.Partner, error) {
	rows, err := r.pool.Query(ctx, `
SELECT partner_code, username, COALESCE(user_id, 0), created_at
FROM partners
ORDER BY created_at
`)
	if err != nil {
		return nil, fmt.Errorf("select partners: %w", err)
	}
	defer rows.Close()

	partners := make([]model.Partner, 0)
	for rows.Next() {
		var partner model.Partner
		if err := rows.Scan(&partner.Code, &partner.Username, &partner.UserID, &partner.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan partner row: %w", err)
		}
		partners = append(partners, partner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partner rows: %w", err)
	}

	return partners, nil
}

// LinkUserID fills the partner's account link if it is still empty. The
// guard makes the call idempotent and keeps an established link immutable.
func (r *PartnersRepo) LinkUserID(ctx context.Context, username string, tgID int64) error {
	if _, err := r.pool.Exec(ctx, `
UPDATE partners
SET user_id = $2
WHERE username = $1 AND (user_id = 0 OR user_id IS NULL)
`, strings.TrimSpace(username), tgID); err != nil {
		return fmt.Errorf("link partner user id: %w", err)
	}
	return nil
}
