package partners

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
	"github.com/daxzwashe/ref-bot/internal/repo/postgres"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8
)

// ErrInvalidHandle means the handle was empty after normalization.
var ErrInvalidHandle = errors.New("partner handle is empty")

type Repo interface {
	Insert(ctx context.Context, partner model.Partner) error
	DeleteByUsername(ctx context.Context, username string) (bool, error)
	GetByCode(ctx context.Context, code string) (model.Partner, error)
	GetByUsername(ctx context.Context, username string) (model.Partner, error)
	GetByUserID(ctx context.Context, tgID int64) (model.Partner, error)
	List(ctx context.Context) ([]model.Partner, error)
}

type UsersRepo interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

type Service struct {
	repo  Repo
	users UsersRepo
}

func NewService(repo Repo, users UsersRepo) *Service {
	return &Service{repo: repo, users: users}
}

// NormalizeUsername strips the leading @ and surrounding whitespace.
func NormalizeUsername(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "@")
}

// Add registers a new partner handle and returns the created row with its
// generated code. If the handle already contacted the bot, the account link
// is filled immediately; otherwise it stays pending until their first /start.
func (s *Service) Add(ctx context.Context, rawUsername string) (model.Partner, error) {
	username := NormalizeUsername(rawUsername)
	if username == "" {
		return model.Partner{}, ErrInvalidHandle
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return model.Partner{}, postgres.ErrPartnerExists
	} else if !errors.Is(err, postgres.ErrPartnerNotFound) {
		return model.Partner{}, fmt.Errorf("check existing partner: %w", err)
	}

	partner := model.Partner{Username: username}
	if user, err := s.users.GetByUsername(ctx, username); err == nil {
		partner.UserID = user.TgID
	} else if !errors.Is(err, postgres.ErrUserNotFound) {
		return model.Partner{}, fmt.Errorf("resolve partner account: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return model.Partner{}, fmt.Errorf("generate partner code: %w", err)
	}
	partner.Code = code

	if err := s.repo.Insert(ctx, partner); err != nil {
		return model.Partner{}, err
	}
	return partner, nil
}

func (s *Service) Delete(ctx context.Context, rawUsername string) (bool, error) {
	return s.repo.DeleteByUsername(ctx, NormalizeUsername(rawUsername))
}

func (s *Service) List(ctx context.Context) ([]model.Partner, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByCode(ctx context.Context, code string) (model.Partner, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) GetByUsername(ctx context.Context, rawUsername string) (model.Partner, error) {
	return s.repo.GetByUsername(ctx, NormalizeUsername(rawUsername))
}

// GetByAccount resolves the partner row of the account pressing the button.
func (s *Service) GetByAccount(ctx context.Context, tgID int64) (model.Partner, error) {
	return s.repo.GetByUserID(ctx, tgID)
}

func generateCode() (string, error) {
	// Reject bytes outside the largest multiple of the alphabet size so
	// every character is equally likely.
	const limit = byte(256 - 256%len(codeAlphabet))

	out := make([]byte, 0, codeLength)
	buf := make([]byte, codeLength)
	for len(out) < codeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == codeLength {
				break
			}
		}
	}
	return string(out), nil
}
