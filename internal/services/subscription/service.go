package subscription

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Oracle answers whether an account belongs to the gated channel. The bot
// API client implements it.
type Oracle interface {
	ChatMemberStatus(ctx context.Context, channelID string, tgID int64) (string, error)
}

type UsersRepo interface {
	SetSubscribed(ctx context.Context, tgID int64, subscribed bool) error
	IsSubscribed(ctx context.Context, tgID int64) (bool, error)
}

// Cache is an optional TTL layer over the persisted flag. Both methods must
// be cheap no-ops when the backing store is unavailable.
type Cache interface {
	Get(ctx context.Context, tgID int64) (subscribed, found bool, err error)
	Set(ctx context.Context, tgID int64, subscribed bool) error
}

type Service struct {
	oracle    Oracle
	users     UsersRepo
	cache     Cache
	channelID string
	logger    *zap.Logger
}

func NewService(oracle Oracle, users UsersRepo, cache Cache, channelID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		oracle:    oracle,
		users:     users,
		cache:     cache,
		channelID: channelID,
		logger:    logger,
	}
}

// memberStatuses are the chat member states that count as subscribed.
var memberStatuses = map[string]struct{}{
	"member":        {},
	"administrator": {},
	"creator":       {},
}

// Refresh asks the oracle for the current membership and persists the
// verdict. An oracle failure degrades to "not subscribed" instead of
// blocking the flow.
func (s *Service) Refresh(ctx context.Context, tgID int64) (bool, error) {
	subscribed := false

	status, err := s.oracle.ChatMemberStatus(ctx, s.channelID, tgID)
	if err != nil {
		s.logger.Warn("subscription check failed",
			zap.Int64("tg_id", tgID),
			zap.Error(err))
	} else {
		_, subscribed = memberStatuses[status]
	}

	if err := s.users.SetSubscribed(ctx, tgID, subscribed); err != nil {
		return false, fmt.Errorf("persist subscription verdict: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, tgID, subscribed); err != nil {
			s.logger.Warn("subscription cache write failed", zap.Error(err))
		}
	}

	return subscribed, nil
}

// IsSubscribed returns the last known verdict without touching the oracle:
// cache first, persisted flag on a miss.
func (s *Service) IsSubscribed(ctx context.Context, tgID int64) (bool, error) {
	if s.cache != nil {
		subscribed, found, err := s.cache.Get(ctx, tgID)
		if err != nil {
			s.logger.Warn("subscription cache read failed", zap.Error(err))
		} else if found {
			return subscribed, nil
		}
	}

	subscribed, err := s.users.IsSubscribed(ctx, tgID)
	if err != nil {
		return false, fmt.Errorf("read subscription verdict: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, tgID, subscribed); err != nil {
			s.logger.Warn("subscription cache write failed", zap.Error(err))
		}
	}
	return subscribed, nil
}
