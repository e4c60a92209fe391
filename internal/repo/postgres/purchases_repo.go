package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
)

type PurchasesRepo struct {
	pool *pgxpool.Pool
}

func NewPurchasesRepo(pool *pgxpool.Pool) *PurchasesRepo {
	return &PurchasesRepo{pool: pool}
}

func (r *PurchasesRepo) Insert(ctx context.Context, userID int64, amount float64, comment string) (model.Purchase, error) {
	purchase := model.Purchase{
		UserID:  userID,
		Amount:  amount,
		Comment: comment,
	}
	err := r.pool.QueryRow(ctx, `
INSERT INTO purchases (user_id, amount, comment)
VALUES ($1, $2, $3)
RETURNING id, created_at
`, userID, amount, comment).Scan(&purchase.ID, &purchase.CreatedAt)
	if err != nil {
		return model.Purchase{}, fmt.Errorf("insert purchase: %w", err)
	}
	return purchase, nil
}

// List returns one page of purchases joined with the buyer and the referring
// partner, newest first, plus the unpaginated total.
func (r *PurchasesRepo) List(ctx context.Context, limit, offset int) ([]model.PurchaseListItem, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchases`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT p.id, p.user_id, p.amount, COALESCE(p.comment, ''), p.created_at,
       COALESCE(u.username, ''), COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
       COALESCE(u.ref_partner_code, ''), COALESCE(pt.username, '')
FROM purchases p
LEFT JOIN users u ON p.user_id = u.user_id
LEFT JOIN partners pt ON u.ref_partner_code = pt.partner_code
ORDER BY p.created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("select purchases: %w", err)
	}
	defer rows.Close()

	items := make([]model.PurchaseListItem, 0, limit)
	for rows.Next() {
		var item model.PurchaseListItem
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Amount,
			&item.Comment,
			&item.CreatedAt,
			&item.Username,
			&item.FirstName,
			&item.LastName,
			&item.RefPartnerCode,
			&item.PartnerUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("scan purchase row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate purchase rows: %w", err)
	}

	return items, total, nil
}

// ListByRef returns every purchase whose buyer is attributed to the partner
// code, newest first. Unpaginated: bounded by realistic partner volume.
func (r *PurchasesRepo) ListByRef(ctx context.Context, partnerCode string) ([]model.ReferralPurchase, error) {
	rows, err := r.pool.Query(ctx, `
SELECT p.id, p.user_id, p.amount, COALESCE(p.comment, ''), p.created_at,
       COALESCE(u.username, ''), COALESCE(u.first_name, ''), COALESCE(u.last_name, '')
FROM purchases p
JOIN users u ON p.user_id = u.user_id
WHERE u.ref_partner_code = $1
ORDER BY p.created_at DESC
`, partnerCode)
	if err != nil {
		return nil, fmt.Errorf("select referral purchases: %w", err)
	}
	defer rows.Close()

	items := make([]model.ReferralPurchase, 0)
	for rows.Next() {
		var item model.ReferralPurchase
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Amount,
			&item.Comment,
			&item.CreatedAt,
			&item.Username,
			&item.FirstName,
			&item.LastName,
		); err != nil {
			return nil, fmt.Errorf("scan referral purchase row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate referral purchase rows: %w", err)
	}

	return items, nil
}
