package purchases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
	"github.com/daxzwashe/ref-bot/internal/pkg/paging"
)

// PageSize is the number of purchases shown per admin list page.
const PageSize = 10

// NoCommentSentinel is what an admin types to record a purchase without a
// comment.
const NoCommentSentinel = "-"

var ErrInvalidAmount = errors.New("amount must be a positive number")

type Repo interface {
	Insert(ctx context.Context, userID int64, amount float64, comment string) (model.Purchase, error)
	List(ctx context.Context, limit, offset int) ([]model.PurchaseListItem, int64, error)
}

type UsersRepo interface {
	GetByTgID(ctx context.Context, tgID int64) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

type Service struct {
	repo  Repo
	users UsersRepo
}

func NewService(repo Repo, users UsersRepo) *Service {
	return &Service{repo: repo, users: users}
}

// ResolveBuyer finds the user a purchase is recorded for: a numeric query is
// an exact account id, anything else a username with an optional @.
func (s *Service) ResolveBuyer(ctx context.Context, query string) (model.User, error) {
	query = strings.TrimSpace(query)

	if tgID, err := strconv.ParseInt(query, 10, 64); err == nil {
		return s.users.GetByTgID(ctx, tgID)
	}
	return s.users.GetByUsername(ctx, strings.TrimPrefix(query, "@"))
}

// ParseAmount accepts both dot and comma decimal separators.
func ParseAmount(text string) (float64, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	amount, err := strconv.ParseFloat(text, 64)
	if err != nil || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

// Record stores a purchase for the buyer. The "-" sentinel means no comment.
func (s *Service) Record(ctx context.Context, userID int64, amount float64, comment string) (model.Purchase, error) {
	if amount <= 0 {
		return model.Purchase{}, ErrInvalidAmount
	}

	comment = strings.TrimSpace(comment)
	if comment == NoCommentSentinel {
		comment = ""
	}

	purchase, err := s.repo.Insert(ctx, userID, amount, comment)
	if err != nil {
		return model.Purchase{}, fmt.Errorf("record purchase: %w", err)
	}
	return purchase, nil
}

// List returns one zero-indexed page of purchases, newest first.
func (s *Service) List(ctx context.Context, pageIndex int) ([]model.PurchaseListItem, paging.Page, error) {
	if pageIndex < 0 {
		pageIndex = 0
	}
	items, total, err := s.repo.List(ctx, PageSize, pageIndex*PageSize)
	if err != nil {
		return nil, paging.Page{}, fmt.Errorf("list purchases: %w", err)
	}
	return items, paging.New(pageIndex, PageSize, total), nil
}
