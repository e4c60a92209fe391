package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
)

type UsersRepo interface {
	CountAttributedSince(ctx context.Context, partnerCode string, since time.Time) (int64, error)
	CountAttributed(ctx context.Context, partnerCode string) (int64, error)
	ListByRef(ctx context.Context, partnerCode string, limit int) ([]model.UserListItem, error)
}

type PurchasesRepo interface {
	ListByRef(ctx context.Context, partnerCode string) ([]model.ReferralPurchase, error)
}

// referralListLimit caps the per-partner referral view.
const referralListLimit = 50

type Service struct {
	users     UsersRepo
	purchases PurchasesRepo
	nowFn     func() time.Time
}

func NewService(users UsersRepo, purchases PurchasesRepo) *Service {
	return newService(users, purchases, time.Now)
}

func newService(users UsersRepo, purchases PurchasesRepo, nowFn func() time.Time) *Service {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Service{users: users, purchases: purchases, nowFn: nowFn}
}

// BuildPartnerStats counts a partner's attributed users over four windows:
// since local midnight, the last 7 days, the last 30 days, and all time.
func (s *Service) BuildPartnerStats(ctx context.Context, partnerCode string) (model.PartnerStats, error) {
	now := s.nowFn()
	dayStart, weekStart, monthStart := windowBounds(now)

	var stats model.PartnerStats
	var err error

	if stats.Today, err = s.users.CountAttributedSince(ctx, partnerCode, dayStart); err != nil {
		return model.PartnerStats{}, fmt.Errorf("count today: %w", err)
	}
	if stats.Week, err = s.users.CountAttributedSince(ctx, partnerCode, weekStart); err != nil {
		return model.PartnerStats{}, fmt.Errorf("count week: %w", err)
	}
	if stats.Month, err = s.users.CountAttributedSince(ctx, partnerCode, monthStart); err != nil {
		return model.PartnerStats{}, fmt.Errorf("count month: %w", err)
	}
	if stats.Total, err = s.users.CountAttributed(ctx, partnerCode); err != nil {
		return model.PartnerStats{}, fmt.Errorf("count total: %w", err)
	}

	return stats, nil
}

// Referrals returns the partner's most recent attributed users.
func (s *Service) Referrals(ctx context.Context, partnerCode string) ([]model.UserListItem, error) {
	return s.users.ListByRef(ctx, partnerCode, referralListLimit)
}

// ReferralPurchases returns every purchase made by the partner's referrals
// along with the running total amount.
func (s *Service) ReferralPurchases(ctx context.Context, partnerCode string) ([]model.ReferralPurchase, float64, error) {
	purchases, err := s.purchases.ListByRef(ctx, partnerCode)
	if err != nil {
		return nil, 0, fmt.Errorf("list referral purchases: %w", err)
	}

	var total float64
	for _, p := range purchases {
		total += p.Amount
	}
	return purchases, total, nil
}

func windowBounds(now time.Time) (dayStart, weekStart, monthStart time.Time) {
	year, month, day := now.Date()
	dayStart = time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	weekStart = now.AddDate(0, 0, -7)
	monthStart = now.AddDate(0, 0, -30)
	return dayStart, weekStart, monthStart
}
