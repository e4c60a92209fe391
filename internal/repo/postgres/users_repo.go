package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

// CreateIfAbsent inserts the user row unless the account id already exists.
// ON CONFLICT DO NOTHING keeps every field of an existing row untouched,
// including the attribution code — first touch wins permanently.
func (r *UsersRepo) CreateIfAbsent(ctx context.Context, user model.User) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
INSERT INTO users (user_id, username, first_name, last_name, ref_partner_code)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO NOTHING
`,
		user.TgID,
		nullableString(user.Username),
		nullableString(user.FirstName),
		nullableString(user.LastName),
		nullableString(user.RefPartnerCode),
	)
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *UsersRepo) SetSubscribed(ctx context.Context, tgID int64, subscribed bool) error {
	if _, err := r.pool.Exec(ctx, `
UPDATE users SET is_subscribed = $2 WHERE user_id = $1
`, tgID, subscribed); err != nil {
		return fmt.Errorf("update subscription flag: %w", err)
	}
	return nil
}

// IsSubscribed returns the persisted verdict; an unknown account counts as
// not subscribed.
func (r *UsersRepo) IsSubscribed(ctx context.Context, tgID int64) (bool, error) {
	var subscribed bool
	err := r.pool.QueryRow(ctx, `
SELECT is_subscribed FROM users WHERE user_id = $1
`, tgID).Scan(&subscribed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select subscription flag: %w", err)
	}
	return subscribed, nil
}

func (r *UsersRepo) GetByTgID(ctx context.Context, tgID int64) (model.User, error) {
	return r.getOne(ctx, `WHERE user_id = $1`, tgID)
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx, `WHERE username = $1`, strings.TrimSpace(username))
}

func (r *UsersRepo) getOne(ctx context.Context, where string, arg any) (model.User, error) {
	var user model.User
	err := r.pool.QueryRow(ctx, `
SELECT user_id, COALESCE(username, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
       is_subscribed, registered_at, COALESCE(ref_partner_code, '')
FROM users
`+where, arg).Scan(
		&user.TgID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.IsSubscribed,
		&user.RegisteredAt,
		&user.RefPartnerCode,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

// List returns one page of users joined with the referring partner, newest
// first, plus the unpaginated total.
func (r *UsersRepo) List(ctx context.Context, limit, offset int) ([]model.UserListItem, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	items, err := r.queryListItems(ctx, `
ORDER BY u.registered_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// FindByID looks up a single user by account id for the search view.
func (r *UsersRepo) FindByID(ctx context.Context, tgID int64) ([]model.UserListItem, error) {
	return r.queryListItems(ctx, `WHERE u.user_id = $1`, tgID)
}

// SearchByText does a case-insensitive substring match across username,
// first name and last name; a hit in any one field qualifies.
func (r *UsersRepo) SearchByText(ctx context.Context, query string) ([]model.UserListItem, error) {
	pattern := "%" + strings.TrimSpace(query) + "%"
	return r.queryListItems(ctx, `
WHERE u.username ILIKE $1 OR u.first_name ILIKE $1 OR u.last_name ILIKE $1
ORDER BY u.first_name, u.username
`, pattern)
}

// ListByRef returns users attributed to the partner code, newest first.
func (r *UsersRepo) ListByRef(ctx context.Context, partnerCode string, limit int) ([]model.UserListItem, error) {
	return r.queryListItems(ctx, `
WHERE u.ref_partner_code = $1
ORDER BY u.registered_at DESC
LIMIT $2
`, partnerCode, limit)
}

func (r *UsersRepo) queryListItems(ctx context.Context, tail string, args ...any) ([]model.UserListItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT u.user_id, COALESCE(u.username, ''), COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
       u.is_subscribed, u.registered_at, COALESCE(u.ref_partner_code, ''), COALESCE(p.username, '')
FROM users u
LEFT JOIN partners p ON u.ref_partner_code = p.partner_code
`+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	items := make([]model.UserListItem, 0)
	for rows.Next() {
		var item model.UserListItem
		if err := rows.Scan(
			&item.TgID,
			&item.Username,
			&item.FirstName,
			&item.LastName,
			&item.IsSubscribed,
			&item.RegisteredAt,
			&item.RefPartnerCode,
			&item.PartnerUsername,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return items, nil
}

// CountAttributedSince counts users attributed to the partner code whose
// registration falls at or after the cutoff.
func (r *UsersRepo) CountAttributedSince(ctx context.Context, partnerCode string, since time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM users
WHERE ref_partner_code = $1 AND registered_at >= $2
`, partnerCode, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count attributed users since: %w", err)
	}
	return count, nil
}

func (r *UsersRepo) CountAttributed(ctx context.Context, partnerCode string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM users WHERE ref_partner_code = $1
`, partnerCode).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count attributed users: %w", err)
	}
	return count, nil
}

func nullableString(value string) any {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return trimmed
}
