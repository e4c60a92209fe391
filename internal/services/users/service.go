package users

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
	"github.com/daxzwashe/ref-bot/internal/pkg/paging"
)

// PageSize is the number of users shown per admin list page.
const PageSize = 15

type Repo interface {
	List(ctx context.Context, limit, offset int) ([]model.UserListItem, int64, error)
	FindByID(ctx context.Context, tgID int64) ([]model.UserListItem, error)
	SearchByText(ctx context.Context, query string) ([]model.UserListItem, error)
}

type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// List returns one zero-indexed page of users, newest first.
func (s *Service) List(ctx context.Context, pageIndex int) ([]model.UserListItem, paging.Page, error) {
	if pageIndex < 0 {
		pageIndex = 0
	}
	items, total, err := s.repo.List(ctx, PageSize, pageIndex*PageSize)
	if err != nil {
		return nil, paging.Page{}, fmt.Errorf("list users: %w", err)
	}
	return items, paging.New(pageIndex, PageSize, total), nil
}

// Search interprets a purely numeric query as an exact account id and
// anything else as a substring match over username and names.
func (s *Service) Search(ctx context.Context, query string) ([]model.UserListItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if tgID, err := strconv.ParseInt(query, 10, 64); err == nil {
		items, err := s.repo.FindByID(ctx, tgID)
		if err != nil {
			return nil, fmt.Errorf("find user by id: %w", err)
		}
		return items, nil
	}

	items, err := s.repo.SearchByText(ctx, strings.TrimPrefix(query, "@"))
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return items, nil
}
