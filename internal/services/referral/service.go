package referral

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
	"github.com/daxzwashe/ref-bot/internal/repo/postgres"
)

const startPayloadPrefix = "ref_"

type UsersRepo interface {
	CreateIfAbsent(ctx context.Context, user model.User) (bool, error)
}

type PartnersRepo interface {
	GetByCode(ctx context.Context, code string) (model.Partner, error)
	LinkUserID(ctx context.Context, username string, tgID int64) error
}

// Result describes what a single /start did. UnknownCode carries a payload
// code that matched no partner; the registration itself still went through.
type Result struct {
	Created     bool
	Attributed  bool
	UnknownCode string
}

type Service struct {
	users    UsersRepo
	partners PartnersRepo
}

func NewService(users UsersRepo, partners PartnersRepo) *Service {
	return &Service{users: users, partners: partners}
}

// ParseStartPayload extracts the partner code from a deep-link payload.
func ParseStartPayload(payload string) (string, bool) {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, startPayloadPrefix) {
		return "", false
	}
	code := strings.TrimPrefix(payload, startPayloadPrefix)
	if code == "" {
		return "", false
	}
	return code, true
}

// InviteLink builds the deep link a partner shares.
func InviteLink(botUsername, code string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s%s", botUsername, startPayloadPrefix, code)
}

// Register handles a /start: resolves the payload to a partner code, inserts
// the user if the account is new, and refreshes the partner's account link.
// An existing user keeps its original attribution regardless of the payload.
func (s *Service) Register(ctx context.Context, user model.User, payload string) (Result, error) {
	var result Result

	if code, ok := ParseStartPayload(payload); ok {
		_, err := s.partners.GetByCode(ctx, code)
		switch {
		case err == nil:
			user.RefPartnerCode = code
			result.Attributed = true
		case errors.Is(err, postgres.ErrPartnerNotFound):
			user.RefPartnerCode = ""
			result.UnknownCode = code
		default:
			return Result{}, fmt.Errorf("resolve partner code: %w", err)
		}
	}

	created, err := s.users.CreateIfAbsent(ctx, user)
	if err != nil {
		return Result{}, fmt.Errorf("register user: %w", err)
	}
	result.Created = created
	if !created {
		result.Attributed = false
	}

	// A partner may be registered by handle before the person ever opens
	// the bot. Every /start is a chance to fill that pending link.
	if user.Username != "" {
		if err := s.partners.LinkUserID(ctx, user.Username, user.TgID); err != nil {
			return Result{}, fmt.Errorf("link partner account: %w", err)
		}
	}

	return result, nil
}
